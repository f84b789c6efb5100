package entity

import (
	"fmt"
	"time"
)

// timeLayouts formatos aceptados para los timestamps del backend. El servidor
// serializa LocalDateTime sin zona ("2024-05-01T12:34:56.789"); se acepta
// también RFC 3339 completo. Sin zona se interpreta como UTC.
var timeLayouts = [...]string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
}

// Time envuelve time.Time con decodificación JSON tolerante a la forma ISO sin
// zona que emite el backend. Al serializar produce esa misma forma, que es la
// que el servidor sabe leer de vuelta.
type Time struct {
	time.Time
}

func (t Time) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.Format("2006-01-02T15:04:05.999999999") + `"`), nil
}

func (t *Time) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("timestamp no es una cadena JSON: %s", s)
	}
	s = s[1 : len(s)-1]
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("timestamp en formato no reconocido: %q", s)
}
