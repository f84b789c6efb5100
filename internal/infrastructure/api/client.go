package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/apparel-client/internal/domain"
	"github.com/jhoicas/apparel-client/pkg/config"
	"github.com/jhoicas/apparel-client/pkg/logger"
)

// maxErrorBody límite de lectura del cuerpo en respuestas de error.
const maxErrorBody = 64 * 1024

// Client transporte base compartido por los clientes de recurso.
// Serializa JSON, adjunta un id de correlación por petición y traduce los
// fallos a los errores tipados de domain (NetworkError, HTTPError, DecodeError).
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

// New construye el transporte base. Si cfg.BaseURL está vacío se usan rutas
// relativas al mismo origen ("/api"), que solo resuelven detrás de un proxy;
// en despliegues normales API_BASE_URL debe apuntar al backend.
func New(cfg config.APIConfig, log *logger.Logger) *Client {
	base := "/api"
	if cfg.BaseURL != "" {
		base = strings.TrimRight(cfg.BaseURL, "/") + "/api"
	}
	timeout := cfg.Timeout()
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		baseURL:    base,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// get lanza un GET y deserializa la respuesta en out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// send lanza una petición con cuerpo JSON (POST/PUT) y deserializa en out.
func (c *Client) send(ctx context.Context, method, path string, body, out any) error {
	return c.do(ctx, method, path, nil, body, out)
}

// delete lanza un DELETE; ignora el cuerpo de la respuesta.
func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// do ejecuta la petición HTTP. out puede ser nil si no interesa el cuerpo.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	op := method + " " + path

	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: serializar request: %w", op, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return fmt.Errorf("%s: construir request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	requestID := uuid.New().String()
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn().
			Str("request_id", requestID).
			Str("op", op).
			Err(err).
			Msg("fallo de transporte")
		return &domain.NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("request_id", requestID).
		Str("op", op).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("respuesta del backend")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &domain.HTTPError{Op: op, Status: resp.StatusCode, Body: raw}
	}

	if out == nil {
		// Agotar el cuerpo para reutilizar la conexión.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.DecodeError{Op: op, Err: err}
	}
	return nil
}
