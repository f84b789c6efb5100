package domain

// Identifiable lo implementan las entidades cuyo id asigna el servidor.
// EntityID devuelve 0 para borradores aún no persistidos.
type Identifiable interface {
	EntityID() int64
}
