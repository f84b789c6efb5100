package api

import (
	"context"

	"github.com/jhoicas/apparel-client/internal/application/controller"
	"github.com/jhoicas/apparel-client/internal/domain/entity"
)

// Verificar en tiempo de compilación que los adaptadores cumplen los puertos
// del controlador.
var (
	_ controller.Resource[entity.Category]  = (*CategoryResource)(nil)
	_ controller.Resource[entity.Product]   = (*ProductResource)(nil)
	_ controller.Resource[entity.Inventory] = (*InventoryResource)(nil)
	_ controller.StockAdjuster              = (*InventoryClient)(nil)
)

// CategoryResource adapta CategoryClient a la tabla de operaciones del
// controlador genérico.
type CategoryResource struct {
	client *CategoryClient
}

// NewCategoryResource construye el adaptador.
func NewCategoryResource(client *CategoryClient) *CategoryResource {
	return &CategoryResource{client: client}
}

func (r *CategoryResource) List(ctx context.Context) ([]entity.Category, error) {
	return r.client.List(ctx)
}

func (r *CategoryResource) Create(ctx context.Context, draft entity.Category) (entity.Category, error) {
	out, err := r.client.Create(ctx, draft)
	if err != nil {
		return entity.Category{}, err
	}
	return *out, nil
}

func (r *CategoryResource) Update(ctx context.Context, id int64, draft entity.Category) (entity.Category, error) {
	out, err := r.client.Update(ctx, id, draft)
	if err != nil {
		return entity.Category{}, err
	}
	return *out, nil
}

func (r *CategoryResource) Delete(ctx context.Context, id int64) error {
	return r.client.Delete(ctx, id)
}

// ProductResource adapta ProductClient a la tabla de operaciones del
// controlador genérico.
type ProductResource struct {
	client *ProductClient
}

// NewProductResource construye el adaptador.
func NewProductResource(client *ProductClient) *ProductResource {
	return &ProductResource{client: client}
}

func (r *ProductResource) List(ctx context.Context) ([]entity.Product, error) {
	return r.client.List(ctx)
}

func (r *ProductResource) Create(ctx context.Context, draft entity.Product) (entity.Product, error) {
	out, err := r.client.Create(ctx, draft)
	if err != nil {
		return entity.Product{}, err
	}
	return *out, nil
}

func (r *ProductResource) Update(ctx context.Context, id int64, draft entity.Product) (entity.Product, error) {
	out, err := r.client.Update(ctx, id, draft)
	if err != nil {
		return entity.Product{}, err
	}
	return *out, nil
}

func (r *ProductResource) Delete(ctx context.Context, id int64) error {
	return r.client.Delete(ctx, id)
}

// InventoryResource adapta InventoryClient a la tabla de operaciones del
// controlador genérico. En el alta el id de producto viaja en la URL: se
// extrae del producto embebido que arma el Build del controlador.
type InventoryResource struct {
	client *InventoryClient
}

// NewInventoryResource construye el adaptador.
func NewInventoryResource(client *InventoryClient) *InventoryResource {
	return &InventoryResource{client: client}
}

func (r *InventoryResource) List(ctx context.Context) ([]entity.Inventory, error) {
	return r.client.List(ctx)
}

func (r *InventoryResource) Create(ctx context.Context, draft entity.Inventory) (entity.Inventory, error) {
	out, err := r.client.Create(ctx, draft.ProductID(), draft)
	if err != nil {
		return entity.Inventory{}, err
	}
	return *out, nil
}

func (r *InventoryResource) Update(ctx context.Context, id int64, draft entity.Inventory) (entity.Inventory, error) {
	out, err := r.client.Update(ctx, id, draft)
	if err != nil {
		return entity.Inventory{}, err
	}
	return *out, nil
}

func (r *InventoryResource) Delete(ctx context.Context, id int64) error {
	return r.client.Delete(ctx, id)
}
