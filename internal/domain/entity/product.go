package entity

import "github.com/shopspring/decimal"

// El backend intercambia price como número JSON plano, no como cadena.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Product representa una prenda del catálogo. Category viaja embebida completa
// en el JSON (forma desnormalizada del backend); para lógica de conjuntos
// usar siempre CategoryID, nunca comparar el objeto embebido.
type Product struct {
	ID          *int64          `json:"id,omitempty"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	SKU         string          `json:"sku"` // único global, lo valida el servidor
	Size        string          `json:"size,omitempty"`
	Color       string          `json:"color,omitempty"`
	Category    Category        `json:"category"`
	CreatedAt   *Time           `json:"createdAt,omitempty"`
	UpdatedAt   *Time           `json:"updatedAt,omitempty"`
}

// EntityID devuelve el id asignado por el servidor, o 0 si aún no existe.
func (p Product) EntityID() int64 {
	if p.ID == nil {
		return 0
	}
	return *p.ID
}

// CategoryID devuelve el id de la categoría asociada, o 0 si no está persistida.
func (p Product) CategoryID() int64 {
	return p.Category.EntityID()
}
