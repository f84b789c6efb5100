// Package views calcula las vistas derivadas de las colecciones base:
// subconjuntos filtrados y agregados del dashboard. Todas las funciones son
// puras; se recalculan en cada cambio de colección y nunca se cachean.
package views

import (
	"golang.org/x/text/language"
	"golang.org/x/text/search"

	"github.com/jhoicas/apparel-client/internal/domain/entity"
)

// newMatcher comparación case-insensitive consciente de Unicode para la
// búsqueda de productos (los nombres de prendas traen acentos y mayúsculas
// mezcladas). El Matcher guarda buffers internos: uno por invocación.
func newMatcher() *search.Matcher {
	return search.New(language.Und, search.IgnoreCase)
}

// containsFold indica si s contiene substr ignorando mayúsculas/minúsculas.
func containsFold(m *search.Matcher, s, substr string) bool {
	if substr == "" {
		return true
	}
	start, _ := m.IndexString(s, substr)
	return start >= 0
}

// LowStock devuelve los registros con stockLevel <= reorderLevel, en el mismo
// orden de la colección base.
func LowStock(inventory []entity.Inventory) []entity.Inventory {
	var out []entity.Inventory
	for _, item := range inventory {
		if item.IsLowStock() {
			out = append(out, item)
		}
	}
	return out
}

// FilterProducts aplica el predicado de búsqueda de la página de productos:
// coincidencia case-insensitive de query contra nombre O sku (query vacío
// acepta todo), Y filtro opcional de igualdad exacta por id de categoría.
func FilterProducts(products []entity.Product, query string, categoryID *int64) []entity.Product {
	m := newMatcher()
	var out []entity.Product
	for _, p := range products {
		if !containsFold(m, p.Name, query) && !containsFold(m, p.SKU, query) {
			continue
		}
		if categoryID != nil && p.CategoryID() != *categoryID {
			continue
		}
		out = append(out, p)
	}
	return out
}

// MissingInventory devuelve los productos sin registro de inventario asociado:
// la diferencia de conjuntos por id de producto. Se recalcula cuando cambia
// cualquiera de las dos colecciones.
func MissingInventory(products []entity.Product, inventory []entity.Inventory) []entity.Product {
	tracked := make(map[int64]struct{}, len(inventory))
	for _, item := range inventory {
		tracked[item.ProductID()] = struct{}{}
	}
	var out []entity.Product
	for _, p := range products {
		if _, ok := tracked[p.EntityID()]; !ok {
			out = append(out, p)
		}
	}
	return out
}

// Stats agregados del dashboard. Cada campo es un fold puro sobre su colección.
type Stats struct {
	TotalProducts   int
	TotalCategories int
	TotalStock      int // suma de stockLevel sobre todos los registros
	LowStockItems   int
}

// ComputeStats calcula los agregados del dashboard a partir de las colecciones base.
func ComputeStats(products []entity.Product, categories []entity.Category, inventory []entity.Inventory) Stats {
	s := Stats{
		TotalProducts:   len(products),
		TotalCategories: len(categories),
	}
	for _, item := range inventory {
		s.TotalStock += item.StockLevel
		if item.IsLowStock() {
			s.LowStockItems++
		}
	}
	return s
}

// ── Instantáneas derivadas por recurso ────────────────────────────────────────
//
// Cada controlador recalcula su instantánea al cambiar la colección; la vista
// las lee ya computadas en lugar de filtrar en el render.

// InventoryViews vistas derivadas de la colección de inventario.
type InventoryViews struct {
	LowStock   []entity.Inventory
	TotalStock int
}

// DeriveInventory recalcula las vistas derivadas de inventario.
func DeriveInventory(items []entity.Inventory) InventoryViews {
	v := InventoryViews{LowStock: LowStock(items)}
	for _, item := range items {
		v.TotalStock += item.StockLevel
	}
	return v
}

// ProductViews vistas derivadas de la colección de productos.
type ProductViews struct {
	BySKU map[string]entity.Product
}

// DeriveProducts recalcula las vistas derivadas de productos.
func DeriveProducts(items []entity.Product) ProductViews {
	v := ProductViews{BySKU: make(map[string]entity.Product, len(items))}
	for _, p := range items {
		v.BySKU[p.SKU] = p
	}
	return v
}

// CategoryViews vistas derivadas de la colección de categorías.
type CategoryViews struct {
	ByID map[int64]entity.Category
}

// DeriveCategories recalcula las vistas derivadas de categorías.
func DeriveCategories(items []entity.Category) CategoryViews {
	v := CategoryViews{ByID: make(map[int64]entity.Category, len(items))}
	for _, c := range items {
		v.ByID[c.EntityID()] = c
	}
	return v
}
