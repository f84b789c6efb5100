package entity_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/apparel-client/internal/domain/entity"
)

// El backend serializa LocalDateTime sin zona; la decodificación debe
// aceptarla interpretándola como UTC.
func TestTime_AceptaTimestampSinZona(t *testing.T) {
	var ts entity.Time
	require.NoError(t, json.Unmarshal([]byte(`"2024-05-01T12:34:56.789"`), &ts))
	assert.Equal(t, time.Date(2024, 5, 1, 12, 34, 56, 789_000_000, time.UTC), ts.Time)
}

func TestTime_AceptaRFC3339(t *testing.T) {
	var ts entity.Time
	require.NoError(t, json.Unmarshal([]byte(`"2024-05-01T12:34:56Z"`), &ts))
	assert.Equal(t, time.Date(2024, 5, 1, 12, 34, 56, 0, time.UTC), ts.Time)
}

func TestTime_FormatoDesconocidoFalla(t *testing.T) {
	var ts entity.Time
	assert.Error(t, json.Unmarshal([]byte(`"01/05/2024 12:34"`), &ts))
	assert.Error(t, json.Unmarshal([]byte(`12345`), &ts))
}

// La serialización vuelve a la forma sin zona que el servidor sabe leer.
func TestTime_SerializaFormaSinZona(t *testing.T) {
	ts := entity.Time{Time: time.Date(2024, 5, 1, 12, 34, 56, 789_000_000, time.UTC)}
	out, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2024-05-01T12:34:56.789"`, string(out))
}

// Un registro completo del servidor, con lastUpdated sin zona, decodifica
// sin errores y conserva el resto de campos.
func TestInventory_DecodificaTimestampDelServidor(t *testing.T) {
	raw := `{
		"id": 1,
		"product": {"id": 10, "name": "Blue Shirt", "sku": "BS01", "price": 19.99, "category": {"id": 3, "name": "Camisas"}},
		"stockLevel": 5,
		"reorderLevel": 10,
		"location": "Bodega Norte",
		"lastUpdated": "2024-05-01T12:34:56.789"
	}`
	var inv entity.Inventory
	require.NoError(t, json.Unmarshal([]byte(raw), &inv))
	assert.Equal(t, int64(1), inv.EntityID())
	assert.Equal(t, int64(10), inv.ProductID())
	require.NotNil(t, inv.LastUpdated)
	assert.Equal(t, time.Date(2024, 5, 1, 12, 34, 56, 789_000_000, time.UTC), inv.LastUpdated.Time)
}

// price viaja como número JSON plano, igual que lo envía el frontend.
func TestProduct_PrecioSerializaComoNumero(t *testing.T) {
	p := entity.Product{Name: "Blue Shirt", SKU: "BS01", Price: decimal.RequireFromString("19.99")}
	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"price":19.99`)
	assert.NotContains(t, string(out), `"price":"19.99"`)
}
