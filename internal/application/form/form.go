package form

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Reason causa de rechazo de un campo en la validación local.
type Reason string

const (
	ReasonRequired   Reason = "required"
	ReasonNotANumber Reason = "not_a_number"
	ReasonOutOfRange Reason = "out_of_range"
)

// FieldErrors errores de validación por campo. Implementa error para poder
// propagarse, pero nunca debe llegar a la capa de red: se renderiza inline.
type FieldErrors map[string]Reason

func (e FieldErrors) Error() string {
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e[name]))
	}
	return "validación fallida: " + strings.Join(parts, ", ")
}

// Kind tipo destino de un campo tras la coerción.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindDecimal
	KindID // entero positivo que referencia una entidad persistida
)

// Field describe un campo del formulario y sus reglas de coerción.
type Field struct {
	Name     string
	Label    string
	Kind     Kind
	Required bool
	Min      *decimal.Decimal // mínimo inclusivo para KindInt/KindDecimal
	Default  string           // aplicado si el campo queda vacío y no es requerido
}

// Schema lista ordenada de campos de un recurso.
type Schema []Field

// Values valores del borrador tal como los tipea el usuario (siempre strings,
// igual que los inputs de un formulario), antes de cualquier coerción.
type Values map[string]string

// clone copia superficial de los valores.
func (v Values) clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// Payload resultado tipado de una validación exitosa.
type Payload map[string]any

// String devuelve el valor string coercionado del campo (vacío si no está).
func (p Payload) String(name string) string {
	s, _ := p[name].(string)
	return s
}

// Int devuelve el valor entero coercionado del campo (0 si no está).
func (p Payload) Int(name string) int {
	n, _ := p[name].(int)
	return n
}

// Decimal devuelve el valor decimal coercionado del campo (0 si no está).
func (p Payload) Decimal(name string) decimal.Decimal {
	d, ok := p[name].(decimal.Decimal)
	if !ok {
		return decimal.Zero
	}
	return d
}

// ID devuelve la referencia coercionada del campo (0 si no está).
func (p Payload) ID(name string) int64 {
	id, _ := p[name].(int64)
	return id
}

// Session borrador de edición de una entidad. Guarda los valores sembrados
// (para Reset en cancelación) y los actuales.
type Session struct {
	schema Schema
	seeded Values
	values Values
}

// NewSession crea la sesión de un borrador. seeded en nil arranca con los
// valores por defecto del esquema (alta); con valores copia la entidad (edición).
func NewSession(schema Schema, seeded Values) *Session {
	if seeded == nil {
		seeded = make(Values, len(schema))
		for _, f := range schema {
			seeded[f.Name] = f.Default
		}
	}
	return &Session{
		schema: schema,
		seeded: seeded.clone(),
		values: seeded.clone(),
	}
}

// SetField actualiza un campo del borrador.
func (s *Session) SetField(name, value string) {
	s.values[name] = value
}

// Get devuelve el valor actual de un campo.
func (s *Session) Get(name string) string {
	return s.values[name]
}

// Values devuelve una copia de los valores actuales del borrador.
func (s *Session) Values() Values {
	return s.values.clone()
}

// Reset restaura el borrador a los valores sembrados. Tras cancelar una
// edición no debe quedar visible ningún valor parcial.
func (s *Session) Reset() {
	s.values = s.seeded.clone()
}

// Validate coerciona los valores según el esquema. Devuelve el payload tipado
// o los errores por campo; con errores no se hace ninguna llamada de red.
func (s *Session) Validate() (Payload, FieldErrors) {
	payload := make(Payload, len(s.schema))
	errs := make(FieldErrors)

	for _, f := range s.schema {
		raw := strings.TrimSpace(s.values[f.Name])
		if raw == "" {
			if f.Required {
				errs[f.Name] = ReasonRequired
				continue
			}
			if f.Default != "" {
				raw = f.Default
			} else {
				if f.Kind == KindString {
					payload[f.Name] = ""
				}
				continue
			}
		}

		switch f.Kind {
		case KindString:
			payload[f.Name] = raw

		case KindInt:
			n, err := strconv.Atoi(raw)
			if err != nil {
				errs[f.Name] = ReasonNotANumber
				continue
			}
			if f.Min != nil && decimal.NewFromInt(int64(n)).LessThan(*f.Min) {
				errs[f.Name] = ReasonOutOfRange
				continue
			}
			payload[f.Name] = n

		case KindDecimal:
			d, err := decimal.NewFromString(raw)
			if err != nil {
				errs[f.Name] = ReasonNotANumber
				continue
			}
			if f.Min != nil && d.LessThan(*f.Min) {
				errs[f.Name] = ReasonOutOfRange
				continue
			}
			payload[f.Name] = d

		case KindID:
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				errs[f.Name] = ReasonNotANumber
				continue
			}
			if id <= 0 {
				errs[f.Name] = ReasonOutOfRange
				continue
			}
			payload[f.Name] = id
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return payload, nil
}
