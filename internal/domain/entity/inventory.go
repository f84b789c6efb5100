package entity

// DefaultReorderLevel nivel de reorden aplicado cuando el formulario lo deja vacío.
const DefaultReorderLevel = 10

// Inventory representa el registro de stock de un producto (a lo sumo uno por
// producto, lo garantiza el servidor). Product viaja embebido completo; la
// asociación es inmutable después de crear el registro.
type Inventory struct {
	ID           *int64  `json:"id,omitempty"`
	Product      Product `json:"product"`
	StockLevel   int     `json:"stockLevel"`
	Location     string  `json:"location,omitempty"`
	ReorderLevel int     `json:"reorderLevel"`
	LastUpdated  *Time   `json:"lastUpdated,omitempty"`
}

// EntityID devuelve el id asignado por el servidor, o 0 si aún no existe.
func (i Inventory) EntityID() int64 {
	if i.ID == nil {
		return 0
	}
	return *i.ID
}

// ProductID devuelve la clave foránea real del registro: el id del producto
// embebido. Toda la lógica de conjuntos (productos sin inventario) se apoya
// en este id y no en la copia desnormalizada.
func (i Inventory) ProductID() int64 {
	return i.Product.EntityID()
}

// IsLowStock indica si el registro está en o por debajo de su nivel de reorden.
func (i Inventory) IsLowStock() bool {
	return i.StockLevel <= i.ReorderLevel
}
