package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Errores centinela del dominio cliente.
var (
	// ErrBusy rechaza una mutación nueva mientras otra sigue en vuelo
	// para el mismo controlador. Nunca se encola ni se reintenta solo.
	ErrBusy = errors.New("hay otra operación en curso para este recurso")

	// ErrInvalidQuantity rechaza ajustes de stock con cantidad <= 0
	// antes de tocar la red.
	ErrInvalidQuantity = errors.New("la cantidad debe ser mayor que cero")

	// ErrNotFound indica que la entidad ya no existe en la colección local.
	ErrNotFound = errors.New("recurso no encontrado")
)

// ── Errores tipados de transporte ─────────────────────────────────────────────
//
// Cada llamada HTTP falla con exactamente uno de estos tipos; los callers
// los distinguen con errors.As para producir mensajes de usuario.

// NetworkError fallo de transporte: sin conexión, timeout, DNS.
type NetworkError struct {
	Op  string // operación lógica, ej. "GET /products"
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("error de red en %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPError respuesta 4xx/5xx del servidor. Body se conserva crudo para
// poder extraer el mensaje estructurado del backend.
type HTTPError struct {
	Op     string
	Status int
	Body   []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s: HTTP %d: %s", e.Op, e.Status, strings.TrimSpace(string(e.Body)))
}

// ServerMessage extrae el campo "message" (o "error") del cuerpo JSON del
// backend. Devuelve cadena vacía si el cuerpo no trae mensaje estructurado.
func (e *HTTPError) ServerMessage() string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(e.Body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return ""
}

// DecodeError respuesta 2xx cuyo cuerpo no se pudo deserializar.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: respuesta ilegible del servidor: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// UserMessage produce el texto a mostrar al usuario para cualquier error del
// cliente. Orden de preferencia: mensaje estructurado del servidor, cuerpo
// crudo de la respuesta, mensaje genérico.
func UserMessage(err error, generic string) string {
	if err == nil {
		return ""
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		if msg := httpErr.ServerMessage(); msg != "" {
			return msg
		}
		if body := strings.TrimSpace(string(httpErr.Body)); body != "" {
			return body
		}
		return generic
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return "no se pudo conectar con el servidor; verifica que el backend esté disponible"
	}
	var decErr *DecodeError
	if errors.As(err, &decErr) {
		return generic
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return generic
}
