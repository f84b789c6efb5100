package entity

// Category representa una categoría de prendas tal como viaja por el API REST.
// ID es nil en borradores aún no creados; los timestamps los asigna el servidor.
type Category struct {
	ID          *int64 `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CreatedAt   *Time  `json:"createdAt,omitempty"`
	UpdatedAt   *Time  `json:"updatedAt,omitempty"`
}

// EntityID devuelve el id asignado por el servidor, o 0 si aún no existe.
func (c Category) EntityID() int64 {
	if c.ID == nil {
		return 0
	}
	return *c.ID
}
