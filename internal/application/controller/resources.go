package controller

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/apparel-client/internal/application/form"
	"github.com/jhoicas/apparel-client/internal/application/views"
	"github.com/jhoicas/apparel-client/internal/domain/entity"
	"github.com/jhoicas/apparel-client/pkg/logger"
)

// decimalZero mínimo compartido por los campos numéricos no negativos.
var decimalZero = decimal.Zero

// CategoryLookup resuelve una categoría persistida por id dentro de la
// colección ya cargada. La vista de productos la cumple con las categorías
// del controlador de categorías.
type CategoryLookup func(id int64) (entity.Category, bool)

// ── Categorías ────────────────────────────────────────────────────────────────

// CategorySchema campos editables de una categoría.
func CategorySchema() form.Schema {
	return form.Schema{
		{Name: "name", Label: "Nombre", Kind: form.KindString, Required: true},
		{Name: "description", Label: "Descripción", Kind: form.KindString},
	}
}

// NewCategoryController instancia el controlador genérico para categorías.
func NewCategoryController(ops Resource[entity.Category], log *logger.Logger, confirm Confirmer) *Controller[entity.Category, views.CategoryViews] {
	desc := Descriptor[entity.Category, views.CategoryViews]{
		Name:   "categories",
		Ops:    ops,
		Schema: CategorySchema(),
		Seed: func(c entity.Category) form.Values {
			return form.Values{
				"name":        c.Name,
				"description": c.Description,
			}
		},
		Build: func(p form.Payload, prev *entity.Category) (entity.Category, error) {
			cat := entity.Category{
				Name:        p.String("name"),
				Description: p.String("description"),
			}
			if prev != nil {
				cat.ID = prev.ID
			}
			return cat, nil
		},
		Derive: views.DeriveCategories,
	}
	return New(desc, log, confirm)
}

// ── Productos ─────────────────────────────────────────────────────────────────

// ProductSchema campos editables de un producto.
func ProductSchema() form.Schema {
	return form.Schema{
		{Name: "name", Label: "Nombre", Kind: form.KindString, Required: true},
		{Name: "description", Label: "Descripción", Kind: form.KindString},
		{Name: "price", Label: "Precio", Kind: form.KindDecimal, Required: true, Min: &decimalZero},
		{Name: "sku", Label: "SKU", Kind: form.KindString, Required: true},
		{Name: "size", Label: "Talla", Kind: form.KindString},
		{Name: "color", Label: "Color", Kind: form.KindString},
		{Name: "categoryId", Label: "Categoría", Kind: form.KindID, Required: true},
	}
}

// NewProductController instancia el controlador genérico para productos.
// lookup resuelve la categoría embebida completa a partir del id del
// formulario; si el id no corresponde a una categoría persistida el submit
// falla con error de campo, sin llamada de red.
func NewProductController(ops Resource[entity.Product], lookup CategoryLookup, log *logger.Logger, confirm Confirmer) *Controller[entity.Product, views.ProductViews] {
	desc := Descriptor[entity.Product, views.ProductViews]{
		Name:   "products",
		Ops:    ops,
		Schema: ProductSchema(),
		Seed: func(p entity.Product) form.Values {
			return form.Values{
				"name":        p.Name,
				"description": p.Description,
				"price":       p.Price.String(),
				"sku":         p.SKU,
				"size":        p.Size,
				"color":       p.Color,
				"categoryId":  strconv.FormatInt(p.CategoryID(), 10),
			}
		},
		Build: func(p form.Payload, prev *entity.Product) (entity.Product, error) {
			cat, ok := lookup(p.ID("categoryId"))
			if !ok || cat.ID == nil {
				return entity.Product{}, form.FieldErrors{"categoryId": form.ReasonOutOfRange}
			}
			prod := entity.Product{
				Name:        p.String("name"),
				Description: p.String("description"),
				Price:       p.Decimal("price"),
				SKU:         p.String("sku"),
				Size:        p.String("size"),
				Color:       p.String("color"),
				Category:    cat,
			}
			if prev != nil {
				prod.ID = prev.ID
			}
			return prod, nil
		},
		Derive: views.DeriveProducts,
	}
	return New(desc, log, confirm)
}

// ── Inventario ────────────────────────────────────────────────────────────────

// InventorySchema campos editables de un registro de inventario. productId
// solo se exige en alta; en edición la asociación es inmutable y el campo se
// ignora (ver Build).
func InventorySchema() form.Schema {
	return form.Schema{
		{Name: "productId", Label: "Producto", Kind: form.KindID},
		{Name: "stockLevel", Label: "Stock", Kind: form.KindInt, Required: true, Min: &decimalZero},
		{Name: "location", Label: "Ubicación", Kind: form.KindString},
		{Name: "reorderLevel", Label: "Nivel de reorden", Kind: form.KindInt, Min: &decimalZero, Default: strconv.Itoa(entity.DefaultReorderLevel)},
	}
}

// newInventoryDescriptor descriptor compartido por NewInventoryController.
func newInventoryDescriptor(ops Resource[entity.Inventory]) Descriptor[entity.Inventory, views.InventoryViews] {
	return Descriptor[entity.Inventory, views.InventoryViews]{
		Name:   "inventory",
		Ops:    ops,
		Schema: InventorySchema(),
		Seed: func(i entity.Inventory) form.Values {
			return form.Values{
				"productId":    strconv.FormatInt(i.ProductID(), 10),
				"stockLevel":   strconv.Itoa(i.StockLevel),
				"location":     i.Location,
				"reorderLevel": strconv.Itoa(i.ReorderLevel),
			}
		},
		Build: func(p form.Payload, prev *entity.Inventory) (entity.Inventory, error) {
			inv := entity.Inventory{
				StockLevel:   p.Int("stockLevel"),
				Location:     p.String("location"),
				ReorderLevel: p.Int("reorderLevel"),
			}
			if prev != nil {
				// La asociación con el producto es inmutable tras el alta:
				// se conserva la del registro original, ignorando el campo.
				inv.ID = prev.ID
				inv.Product = prev.Product
				return inv, nil
			}
			pid := p.ID("productId")
			if pid <= 0 {
				return entity.Inventory{}, form.FieldErrors{"productId": form.ReasonRequired}
			}
			inv.Product = entity.Product{ID: &pid}
			return inv, nil
		},
		Derive: views.DeriveInventory,
	}
}
