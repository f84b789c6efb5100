// Package controller implementa el controlador CRUD genérico de recursos:
// una máquina de estados por tipo de recurso (colección + sesión de edición)
// que las tres pantallas instancian con su propio descriptor, en lugar de
// triplicar la lógica de fetch/submit/reset.
package controller

import (
	"context"
	"errors"
	"sync"

	"github.com/jhoicas/apparel-client/internal/application/form"
	"github.com/jhoicas/apparel-client/internal/domain"
	"github.com/jhoicas/apparel-client/pkg/logger"
)

// ErrNoSession se devuelve al llamar Submit sin sesión de edición abierta.
var ErrNoSession = errors.New("no hay sesión de edición abierta")

// Phase estado principal del controlador.
type Phase int

const (
	PhaseIdle Phase = iota // antes de la primera carga
	PhaseLoading
	PhaseReady
	PhaseError // conserva la última colección conocida
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// SessionState sub-estado de la sesión de edición, ortogonal a Phase.
type SessionState int

const (
	SessionClosed SessionState = iota
	SessionCreating
	SessionEditing
)

func (s SessionState) String() string {
	switch s {
	case SessionClosed:
		return "closed"
	case SessionCreating:
		return "creating"
	case SessionEditing:
		return "editing"
	default:
		return "unknown"
	}
}

// Resource tabla de operaciones de red de un tipo de recurso. Los adaptadores
// finos sobre los clientes HTTP la implementan; los tests inyectan dobles.
type Resource[T domain.Identifiable] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, draft T) (T, error)
	Update(ctx context.Context, id int64, draft T) (T, error)
	Delete(ctx context.Context, id int64) error
}

// Confirmer lo cumple la capa de vista para resolver confirmaciones
// destructivas. El controlador emite la pregunta y nunca bloquea con UI propia.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adaptador de función a Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Descriptor parametriza el controlador genérico para un recurso concreto:
// tabla de operaciones, esquema del formulario y recomputación de vistas
// derivadas.
type Descriptor[T domain.Identifiable, V any] struct {
	Name   string // nombre del recurso para logs, ej. "products"
	Ops    Resource[T]
	Schema form.Schema
	// Seed copia los campos editables de una entidad al borrador (edición).
	Seed func(T) form.Values
	// Build construye la entidad a enviar desde el payload validado. prev es
	// la entidad original en edición (nil en alta) para conservar campos que
	// no viajan por el formulario. Puede devolver form.FieldErrors.
	Build func(p form.Payload, prev *T) (T, error)
	// Derive recalcula las vistas derivadas tras cada cambio de colección.
	Derive func([]T) V
}

// Controller máquina de estados de un recurso. Todas las lecturas de estado
// devuelven copias bajo mutex, así la vista puede leer desde cualquier
// goroutine mientras hay cargas en vuelo.
type Controller[T domain.Identifiable, V any] struct {
	mu      sync.Mutex
	desc    Descriptor[T, V]
	log     *logger.Logger
	confirm Confirmer

	phase   Phase
	errMsg  string
	items   []T
	derived V

	session   SessionState
	editingID int64
	draft     *form.Session

	mutating    bool   // a lo sumo una mutación en vuelo por controlador
	loadSeq     uint64 // token de la última carga emitida
	loadApplied uint64 // token de la última carga aplicada
}

// New construye el controlador de un recurso. confirm puede ser nil (sin
// confirmaciones, útil en tests y en flujos no interactivos).
func New[T domain.Identifiable, V any](desc Descriptor[T, V], log *logger.Logger, confirm Confirmer) *Controller[T, V] {
	if log == nil {
		log = logger.Nop()
	}
	return &Controller[T, V]{
		desc:    desc,
		log:     log,
		confirm: confirm,
		phase:   PhaseIdle,
		derived: desc.Derive(nil),
	}
}

// ── Lecturas de estado ────────────────────────────────────────────────────────

// Phase devuelve el estado principal actual.
func (c *Controller[T, V]) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// ErrorMessage devuelve el mensaje del banner de error ("" si no hay).
func (c *Controller[T, V]) ErrorMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// Items devuelve una copia de la colección actual (la última conocida si el
// controlador está en error, para que la vista no quede en blanco).
func (c *Controller[T, V]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Derived devuelve la última instantánea de vistas derivadas.
func (c *Controller[T, V]) Derived() V {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.derived
}

// Session devuelve el sub-estado de edición y, si aplica, el id en edición.
func (c *Controller[T, V]) Session() (SessionState, int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session, c.editingID
}

// FieldValues devuelve los valores actuales del borrador (nil sin sesión).
func (c *Controller[T, V]) FieldValues() form.Values {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.draft == nil {
		return nil
	}
	return c.draft.Values()
}

// ── Carga de la colección ─────────────────────────────────────────────────────

// Load carga la colección completa desde el servidor, reemplazando (no
// fusionando) la anterior. Las cargas no se serializan entre sí: cada llamada
// recibe un token incremental y las respuestas que llegan después de una más
// nueva se descartan para no retroceder el estado.
func (c *Controller[T, V]) Load(ctx context.Context) error {
	c.mu.Lock()
	c.phase = PhaseLoading
	c.loadSeq++
	seq := c.loadSeq
	c.mu.Unlock()

	items, err := c.desc.Ops.List(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq <= c.loadApplied {
		c.log.Debug().
			Str("resource", c.desc.Name).
			Uint64("token", seq).
			Msg("respuesta de carga obsoleta descartada")
		return nil
	}
	c.loadApplied = seq

	if err != nil {
		// La colección previa se conserva: la vista degrada con banner,
		// no se queda en blanco.
		c.phase = PhaseError
		c.errMsg = domain.UserMessage(err, "no se pudo cargar "+c.desc.Name)
		c.log.Error().Str("resource", c.desc.Name).Err(err).Msg("carga fallida")
		return err
	}

	c.items = items
	c.derived = c.desc.Derive(items)
	c.phase = PhaseReady
	c.errMsg = ""
	c.log.Debug().Str("resource", c.desc.Name).Int("count", len(items)).Msg("colección cargada")
	return nil
}

// ── Sesión de edición ─────────────────────────────────────────────────────────

// OpenCreate abre la sesión de alta con el borrador en valores por defecto.
func (c *Controller[T, V]) OpenCreate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = SessionCreating
	c.editingID = 0
	c.draft = form.NewSession(c.desc.Schema, nil)
}

// OpenEdit abre la sesión de edición sembrando el borrador con los campos de
// la entidad. Si el id ya no está en la colección (borrado concurrente) vuelve
// silenciosamente a cerrado y devuelve false.
func (c *Controller[T, V]) OpenEdit(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.findLocked(id)
	if !ok {
		c.session = SessionClosed
		c.editingID = 0
		c.draft = nil
		return false
	}
	c.session = SessionEditing
	c.editingID = id
	c.draft = form.NewSession(c.desc.Schema, c.desc.Seed(item))
	return true
}

// SetField actualiza un campo del borrador. Sin sesión abierta es un no-op.
func (c *Controller[T, V]) SetField(name, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.draft != nil {
		c.draft.SetField(name, value)
	}
}

// Cancel cierra la sesión de edición descartando el borrador por completo;
// no queda input parcial visible para la próxima apertura.
func (c *Controller[T, V]) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeSessionLocked()
}

// Submit valida el borrador y lo envía como alta o actualización según la
// sesión. Con errores de validación la sesión queda abierta y no hay llamada
// de red. Si el servidor rechaza, la sesión y el borrador quedan intactos
// para no perder lo tipeado. En éxito cierra la sesión y recarga la colección
// completa: nunca se fusiona el borrador localmente, lo mostrado siempre es
// lo que el servidor persistió. Un error devuelto significa siempre que el
// guardado NO ocurrió; si el guardado fue aceptado pero la recarga posterior
// falla, Submit devuelve nil y el fallo queda como bandera de error de la
// colección (fase Error + ErrorMessage).
func (c *Controller[T, V]) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.session == SessionClosed || c.draft == nil {
		c.mu.Unlock()
		return ErrNoSession
	}
	if c.mutating {
		c.mu.Unlock()
		return domain.ErrBusy
	}

	payload, ferrs := c.draft.Validate()
	if ferrs != nil {
		c.mu.Unlock()
		return ferrs
	}

	var prev *T
	if c.session == SessionEditing {
		if item, ok := c.findLocked(c.editingID); ok {
			prev = &item
		}
	}
	built, err := c.desc.Build(payload, prev)
	if err != nil {
		c.mu.Unlock()
		return err
	}

	isEdit := c.session == SessionEditing
	id := c.editingID
	c.mutating = true
	c.mu.Unlock()

	var opErr error
	if isEdit {
		_, opErr = c.desc.Ops.Update(ctx, id, built)
	} else {
		_, opErr = c.desc.Ops.Create(ctx, built)
	}

	c.mu.Lock()
	c.mutating = false
	if opErr != nil {
		c.mu.Unlock()
		c.log.Warn().Str("resource", c.desc.Name).Bool("edit", isEdit).Err(opErr).Msg("submit rechazado")
		return opErr
	}
	c.closeSessionLocked()
	c.mu.Unlock()

	// El guardado ya fue aceptado: un fallo de la recarga no se reporta como
	// fallo del guardado, se refleja en la fase y la bandera de la colección.
	if err := c.Load(ctx); err != nil {
		c.log.Warn().Str("resource", c.desc.Name).Err(err).Msg("recarga tras guardado fallida")
	}
	return nil
}

// Remove elimina la entidad tras consultar al Confirmer (si hay). En éxito la
// quita de la colección en memoria y recalcula las vistas derivadas sin
// recargar; en fallo (p. ej. integridad referencial) la colección no cambia.
func (c *Controller[T, V]) Remove(ctx context.Context, id int64) error {
	if c.confirm != nil && !c.confirm.Confirm("¿Eliminar este registro de "+c.desc.Name+"?") {
		return nil
	}

	c.mu.Lock()
	if c.mutating {
		c.mu.Unlock()
		return domain.ErrBusy
	}
	c.mutating = true
	c.mu.Unlock()

	err := c.desc.Ops.Delete(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.mutating = false
	if err != nil {
		c.log.Warn().Str("resource", c.desc.Name).Int64("id", id).Err(err).Msg("borrado rechazado")
		return err
	}
	for i, item := range c.items {
		if item.EntityID() == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			break
		}
	}
	c.derived = c.desc.Derive(c.items)
	return nil
}

// ── Helpers internos ──────────────────────────────────────────────────────────

// replaceItemLocked reemplaza una entidad por la versión autoritativa del
// servidor y recalcula las vistas derivadas. Requiere c.mu tomado.
func (c *Controller[T, V]) replaceItemLocked(updated T) {
	for i, item := range c.items {
		if item.EntityID() == updated.EntityID() {
			c.items[i] = updated
			break
		}
	}
	c.derived = c.desc.Derive(c.items)
}

// beginMutation reserva el cupo único de mutación en vuelo.
func (c *Controller[T, V]) beginMutation() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mutating {
		return domain.ErrBusy
	}
	c.mutating = true
	return nil
}

// endMutation libera el cupo de mutación.
func (c *Controller[T, V]) endMutation() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mutating = false
}

func (c *Controller[T, V]) findLocked(id int64) (T, bool) {
	for _, item := range c.items {
		if item.EntityID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

func (c *Controller[T, V]) closeSessionLocked() {
	if c.draft != nil {
		c.draft.Reset()
	}
	c.session = SessionClosed
	c.editingID = 0
	c.draft = nil
}
