package controller_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/apparel-client/internal/application/controller"
	"github.com/jhoicas/apparel-client/internal/application/form"
	"github.com/jhoicas/apparel-client/internal/domain"
	"github.com/jhoicas/apparel-client/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Doble de la tabla de operaciones
// ──────────────────────────────────────────────────────────────────────────────

// fakeResource doble programable de Resource[entity.Category]. Cada operación
// cuenta sus llamadas y delega en la función inyectada (nil = éxito vacío).
type fakeResource struct {
	mu          sync.Mutex
	listCalls   int
	createCalls int
	updateCalls int
	deleteCalls int

	listFn   func(call int) ([]entity.Category, error)
	createFn func(entity.Category) (entity.Category, error)
	updateFn func(int64, entity.Category) (entity.Category, error)
	deleteFn func(int64) error
}

func (f *fakeResource) List(ctx context.Context) ([]entity.Category, error) {
	f.mu.Lock()
	f.listCalls++
	call := f.listCalls
	fn := f.listFn
	f.mu.Unlock()
	if fn == nil {
		return nil, nil
	}
	return fn(call)
}

func (f *fakeResource) Create(ctx context.Context, draft entity.Category) (entity.Category, error) {
	f.mu.Lock()
	f.createCalls++
	fn := f.createFn
	f.mu.Unlock()
	if fn == nil {
		return draft, nil
	}
	return fn(draft)
}

func (f *fakeResource) Update(ctx context.Context, id int64, draft entity.Category) (entity.Category, error) {
	f.mu.Lock()
	f.updateCalls++
	fn := f.updateFn
	f.mu.Unlock()
	if fn == nil {
		return draft, nil
	}
	return fn(id, draft)
}

func (f *fakeResource) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	f.deleteCalls++
	fn := f.deleteFn
	f.mu.Unlock()
	if fn == nil {
		return nil
	}
	return fn(id)
}

func (f *fakeResource) calls() (list, create, update, del int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls, f.createCalls, f.updateCalls, f.deleteCalls
}

func ptr(id int64) *int64 { return &id }

func cat(id int64, name string) entity.Category {
	return entity.Category{ID: ptr(id), Name: name}
}

// ──────────────────────────────────────────────────────────────────────────────
// Load
// ──────────────────────────────────────────────────────────────────────────────

func TestLoad_ReemplazaColeccionYRecalculaDerivadas(t *testing.T) {
	fake := &fakeResource{
		listFn: func(int) ([]entity.Category, error) {
			return []entity.Category{cat(1, "Camisas"), cat(2, "Pantalones")}, nil
		},
	}
	ctl := controller.NewCategoryController(fake, nil, nil)
	require.Equal(t, controller.PhaseIdle, ctl.Phase())

	require.NoError(t, ctl.Load(context.Background()))

	assert.Equal(t, controller.PhaseReady, ctl.Phase())
	assert.Len(t, ctl.Items(), 2)
	assert.Equal(t, "Camisas", ctl.Derived().ByID[1].Name, "las vistas derivadas se recalculan con la colección")
}

// Una carga fallida degrada con banner: conserva la colección anterior en
// lugar de dejar la vista en blanco.
func TestLoad_FalloConservaColeccionAnterior(t *testing.T) {
	fake := &fakeResource{
		listFn: func(call int) ([]entity.Category, error) {
			if call == 1 {
				return []entity.Category{cat(1, "Camisas")}, nil
			}
			return nil, &domain.HTTPError{Op: "GET /categories", Status: 500, Body: []byte(`{"message":"se cayó la base"}`)}
		},
	}
	ctl := controller.NewCategoryController(fake, nil, nil)

	require.NoError(t, ctl.Load(context.Background()))
	err := ctl.Load(context.Background())

	require.Error(t, err)
	assert.Equal(t, controller.PhaseError, ctl.Phase())
	assert.Equal(t, "se cayó la base", ctl.ErrorMessage(), "el mensaje sale del cuerpo estructurado del servidor")
	assert.Len(t, ctl.Items(), 1, "la última colección conocida sigue disponible")
}

// Una respuesta de carga que llega después de otra más nueva se descarta:
// el estado nunca retrocede por resolución fuera de orden.
func TestLoad_DescartaRespuestaObsoleta(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	fake := &fakeResource{
		listFn: func(call int) ([]entity.Category, error) {
			if call == 1 {
				close(entered)
				<-release
				return []entity.Category{cat(1, "versión vieja")}, nil
			}
			return []entity.Category{cat(2, "versión nueva")}, nil
		},
	}
	ctl := controller.NewCategoryController(fake, nil, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = ctl.Load(context.Background()) // carga 1, quedará obsoleta
	}()
	<-entered

	require.NoError(t, ctl.Load(context.Background())) // carga 2, resuelve primero
	close(release)
	wg.Wait()

	items := ctl.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "versión nueva", items[0].Name, "la respuesta vieja no debe pisar a la nueva")
	assert.Equal(t, controller.PhaseReady, ctl.Phase())
}

// ──────────────────────────────────────────────────────────────────────────────
// Sesión de edición
// ──────────────────────────────────────────────────────────────────────────────

func TestOpenEdit_SiembraElBorrador(t *testing.T) {
	fake := &fakeResource{
		listFn: func(int) ([]entity.Category, error) {
			return []entity.Category{{ID: ptr(1), Name: "Camisas", Description: "de vestir"}}, nil
		},
	}
	ctl := controller.NewCategoryController(fake, nil, nil)
	require.NoError(t, ctl.Load(context.Background()))

	require.True(t, ctl.OpenEdit(1))

	state, id := ctl.Session()
	assert.Equal(t, controller.SessionEditing, state)
	assert.Equal(t, int64(1), id)
	values := ctl.FieldValues()
	assert.Equal(t, "Camisas", values["name"])
	assert.Equal(t, "de vestir", values["description"])
}

// Si la entidad fue borrada concurrentemente, OpenEdit vuelve a cerrado en
// silencio en lugar de abrir un borrador huérfano.
func TestOpenEdit_IdInexistenteVuelveACerrado(t *testing.T) {
	ctl := controller.NewCategoryController(&fakeResource{}, nil, nil)
	require.NoError(t, ctl.Load(context.Background()))

	assert.False(t, ctl.OpenEdit(99))
	state, _ := ctl.Session()
	assert.Equal(t, controller.SessionClosed, state)
	assert.Nil(t, ctl.FieldValues())
}

func TestCancel_DescartaElBorrador(t *testing.T) {
	ctl := controller.NewCategoryController(&fakeResource{}, nil, nil)
	ctl.OpenCreate()
	ctl.SetField("name", "a medias")

	ctl.Cancel()

	state, _ := ctl.Session()
	assert.Equal(t, controller.SessionClosed, state)
	assert.Nil(t, ctl.FieldValues(), "no queda input parcial tras cancelar")
}

// ──────────────────────────────────────────────────────────────────────────────
// Submit
// ──────────────────────────────────────────────────────────────────────────────

// Un alta exitosa cierra la sesión y recarga: la colección mostrada es la que
// devolvió el servidor, nunca el borrador fusionado localmente.
func TestSubmit_AltaExitosaCierraSesionYRecarga(t *testing.T) {
	fake := &fakeResource{}
	fake.listFn = func(call int) ([]entity.Category, error) {
		fake.mu.Lock()
		created := fake.createCalls > 0
		fake.mu.Unlock()
		if !created {
			return nil, nil
		}
		// Tras el alta el servidor devuelve la entidad con defaults propios.
		return []entity.Category{{ID: ptr(7), Name: "Camisas", Description: "normalizada por el servidor"}}, nil
	}
	ctl := controller.NewCategoryController(fake, nil, nil)
	require.NoError(t, ctl.Load(context.Background()))

	ctl.OpenCreate()
	ctl.SetField("name", "Camisas")
	require.NoError(t, ctl.Submit(context.Background()))

	state, _ := ctl.Session()
	assert.Equal(t, controller.SessionClosed, state)
	assert.Nil(t, ctl.FieldValues(), "el borrador se descarta tras el éxito")

	items := ctl.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "normalizada por el servidor", items[0].Description,
		"la colección refleja el estado del servidor, no una entrada sintetizada")

	_, create, _, _ := fake.calls()
	assert.Equal(t, 1, create)
}

// Un error de Submit significa siempre que el guardado no ocurrió. Guardado
// aceptado con recarga fallida devuelve nil: la sesión se cierra y el fallo
// queda como bandera de error de la colección.
func TestSubmit_RecargaFallidaNoSeReportaComoFalloDelGuardado(t *testing.T) {
	fake := &fakeResource{}
	fake.listFn = func(call int) ([]entity.Category, error) {
		fake.mu.Lock()
		created := fake.createCalls > 0
		fake.mu.Unlock()
		if created {
			return nil, &domain.HTTPError{Op: "GET /categories", Status: 503, Body: []byte(`{"message":"servicio degradado"}`)}
		}
		return []entity.Category{cat(1, "Camisas")}, nil
	}
	ctl := controller.NewCategoryController(fake, nil, nil)
	require.NoError(t, ctl.Load(context.Background()))

	ctl.OpenCreate()
	ctl.SetField("name", "Pantalones")
	assert.NoError(t, ctl.Submit(context.Background()), "el guardado sí ocurrió")

	state, _ := ctl.Session()
	assert.Equal(t, controller.SessionClosed, state)
	assert.Equal(t, controller.PhaseError, ctl.Phase())
	assert.Equal(t, "servicio degradado", ctl.ErrorMessage())
	assert.Len(t, ctl.Items(), 1, "la colección previa se conserva ante la recarga fallida")

	_, create, _, _ := fake.calls()
	assert.Equal(t, 1, create)
}

// Con errores de validación no hay llamada de red y la sesión queda abierta.
func TestSubmit_ValidacionFallidaNoTocaLaRed(t *testing.T) {
	fake := &fakeResource{}
	ctl := controller.NewCategoryController(fake, nil, nil)
	ctl.OpenCreate()
	// name requerido queda vacío

	err := ctl.Submit(context.Background())

	var ferrs form.FieldErrors
	require.ErrorAs(t, err, &ferrs)
	assert.Equal(t, form.ReasonRequired, ferrs["name"])

	_, create, update, _ := fake.calls()
	assert.Zero(t, create)
	assert.Zero(t, update)
	state, _ := ctl.Session()
	assert.Equal(t, controller.SessionCreating, state, "la sesión sigue abierta para corregir")
}

// Si el servidor rechaza la actualización, la sesión queda abierta con el
// borrador intacto: el usuario no pierde lo tipeado.
func TestSubmit_ActualizacionFallidaConservaBorrador(t *testing.T) {
	fake := &fakeResource{
		listFn: func(int) ([]entity.Category, error) {
			return []entity.Category{cat(1, "Camisas")}, nil
		},
		updateFn: func(int64, entity.Category) (entity.Category, error) {
			return entity.Category{}, &domain.HTTPError{Op: "PUT /categories/1", Status: 409, Body: []byte(`{"message":"nombre duplicado"}`)}
		},
	}
	ctl := controller.NewCategoryController(fake, nil, nil)
	require.NoError(t, ctl.Load(context.Background()))
	require.True(t, ctl.OpenEdit(1))
	ctl.SetField("name", "Camisas de lino")

	err := ctl.Submit(context.Background())

	require.Error(t, err)
	assert.Equal(t, "nombre duplicado", domain.UserMessage(err, "error al guardar"))
	state, id := ctl.Session()
	assert.Equal(t, controller.SessionEditing, state)
	assert.Equal(t, int64(1), id)
	assert.Equal(t, "Camisas de lino", ctl.FieldValues()["name"], "el borrador queda intacto")
}

func TestSubmit_SinSesionAbierta(t *testing.T) {
	ctl := controller.NewCategoryController(&fakeResource{}, nil, nil)
	assert.ErrorIs(t, ctl.Submit(context.Background()), controller.ErrNoSession)
}

// Dos Submit concurrentes sobre el mismo controlador: el segundo recibe
// ErrBusy de forma síncrona, nunca se encola ni compite.
func TestSubmit_ConcurrenteDevuelveBusy(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	fake := &fakeResource{
		createFn: func(draft entity.Category) (entity.Category, error) {
			close(entered)
			<-release
			return draft, nil
		},
	}
	ctl := controller.NewCategoryController(fake, nil, nil)
	ctl.OpenCreate()
	ctl.SetField("name", "Camisas")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = ctl.Submit(context.Background())
	}()
	<-entered

	err := ctl.Submit(context.Background())
	assert.ErrorIs(t, err, domain.ErrBusy)

	close(release)
	wg.Wait()
	_, create, _, _ := fake.calls()
	assert.Equal(t, 1, create, "la segunda mutación nunca llegó a la red")
}

// ──────────────────────────────────────────────────────────────────────────────
// Remove
// ──────────────────────────────────────────────────────────────────────────────

// Un borrado exitoso saca la entidad de la colección en memoria sin recargar.
func TestRemove_ExitosoQuitaEnMemoria(t *testing.T) {
	fake := &fakeResource{
		listFn: func(int) ([]entity.Category, error) {
			return []entity.Category{cat(1, "Camisas"), cat(2, "Pantalones")}, nil
		},
	}
	ctl := controller.NewCategoryController(fake, nil, nil)
	require.NoError(t, ctl.Load(context.Background()))

	require.NoError(t, ctl.Remove(context.Background(), 1))

	items := ctl.Items()
	require.Len(t, items, 1)
	assert.Equal(t, int64(2), items[0].EntityID())
	_, ok := ctl.Derived().ByID[1]
	assert.False(t, ok, "las vistas derivadas se recalculan tras el borrado")

	list, _, _, del := fake.calls()
	assert.Equal(t, 1, list, "no hay recarga completa tras borrar")
	assert.Equal(t, 1, del)
}

// Borrar una categoría referenciada por un producto falla con HTTPError y la
// colección no cambia.
func TestRemove_FalloReferencialDejaColeccionIntacta(t *testing.T) {
	fake := &fakeResource{
		listFn: func(int) ([]entity.Category, error) {
			return []entity.Category{cat(1, "Camisas")}, nil
		},
		deleteFn: func(int64) error {
			return &domain.HTTPError{Op: "DELETE /categories/1", Status: 409, Body: []byte(`{"message":"la categoría tiene productos asociados"}`)}
		},
	}
	ctl := controller.NewCategoryController(fake, nil, nil)
	require.NoError(t, ctl.Load(context.Background()))

	err := ctl.Remove(context.Background(), 1)

	var httpErr *domain.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 409, httpErr.Status)
	assert.Len(t, ctl.Items(), 1, "la categoría sigue en la colección")
}

// El Confirmer de la vista puede abortar el borrado: no hay llamada de red.
func TestRemove_ConfirmacionRechazadaNoLlamaLaRed(t *testing.T) {
	fake := &fakeResource{
		listFn: func(int) ([]entity.Category, error) {
			return []entity.Category{cat(1, "Camisas")}, nil
		},
	}
	declined := controller.ConfirmFunc(func(string) bool { return false })
	ctl := controller.NewCategoryController(fake, nil, declined)
	require.NoError(t, ctl.Load(context.Background()))

	require.NoError(t, ctl.Remove(context.Background(), 1))

	_, _, _, del := fake.calls()
	assert.Zero(t, del)
	assert.Len(t, ctl.Items(), 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Varios
// ──────────────────────────────────────────────────────────────────────────────

// Smoke de carrera: lecturas de estado mientras hay cargas en vuelo.
func TestLecturasConcurrentesDuranteCargas(t *testing.T) {
	fake := &fakeResource{
		listFn: func(int) ([]entity.Category, error) {
			time.Sleep(time.Millisecond)
			return []entity.Category{cat(1, "Camisas")}, nil
		},
	}
	ctl := controller.NewCategoryController(fake, nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = ctl.Load(context.Background())
		}()
		go func() {
			defer wg.Done()
			_ = ctl.Items()
			_ = ctl.Phase()
			_ = ctl.Derived()
		}()
	}
	wg.Wait()
}
