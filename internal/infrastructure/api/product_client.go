package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/apparel-client/internal/domain/entity"
)

// SearchFilter parámetros opcionales de GET /products/search.
// Los campos nil/vacíos no viajan en la query.
type SearchFilter struct {
	Name       string
	CategoryID *int64
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Size       string
	Color      string
}

// query serializa el filtro como query string del backend.
func (f SearchFilter) query() url.Values {
	q := url.Values{}
	if f.Name != "" {
		q.Set("name", f.Name)
	}
	if f.CategoryID != nil {
		q.Set("categoryId", strconv.FormatInt(*f.CategoryID, 10))
	}
	if f.MinPrice != nil {
		q.Set("minPrice", f.MinPrice.String())
	}
	if f.MaxPrice != nil {
		q.Set("maxPrice", f.MaxPrice.String())
	}
	if f.Size != "" {
		q.Set("size", f.Size)
	}
	if f.Color != "" {
		q.Set("color", f.Color)
	}
	return q
}

// ProductClient operaciones REST sobre /products.
type ProductClient struct {
	c *Client
}

// NewProductClient construye el cliente de productos sobre el transporte base.
func NewProductClient(c *Client) *ProductClient {
	return &ProductClient{c: c}
}

// List devuelve todos los productos.
func (pc *ProductClient) List(ctx context.Context) ([]entity.Product, error) {
	var out []entity.Product
	if err := pc.c.get(ctx, "/products", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get devuelve un producto por id.
func (pc *ProductClient) Get(ctx context.Context, id int64) (*entity.Product, error) {
	var out entity.Product
	if err := pc.c.get(ctx, fmt.Sprintf("/products/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetBySKU devuelve un producto por su SKU (único global).
func (pc *ProductClient) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	var out entity.Product
	if err := pc.c.get(ctx, "/products/sku/"+url.PathEscape(sku), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create crea un producto nuevo; la categoría debe venir ya persistida (con id).
func (pc *ProductClient) Create(ctx context.Context, p entity.Product) (*entity.Product, error) {
	var out entity.Product
	if err := pc.c.send(ctx, http.MethodPost, "/products", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update reemplaza el producto identificado por id.
func (pc *ProductClient) Update(ctx context.Context, id int64, p entity.Product) (*entity.Product, error) {
	var out entity.Product
	if err := pc.c.send(ctx, http.MethodPut, fmt.Sprintf("/products/%d", id), p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete elimina el producto.
func (pc *ProductClient) Delete(ctx context.Context, id int64) error {
	return pc.c.delete(ctx, fmt.Sprintf("/products/%d", id))
}

// Search consulta /products/search con los filtros presentes en f.
func (pc *ProductClient) Search(ctx context.Context, f SearchFilter) ([]entity.Product, error) {
	var out []entity.Product
	if err := pc.c.get(ctx, "/products/search", f.query(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByCategory devuelve los productos de una categoría.
func (pc *ProductClient) ListByCategory(ctx context.Context, categoryID int64) ([]entity.Product, error) {
	var out []entity.Product
	if err := pc.c.get(ctx, fmt.Sprintf("/products/category/%d", categoryID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByPriceRange devuelve los productos con precio dentro de [min, max].
func (pc *ProductClient) ListByPriceRange(ctx context.Context, min, max decimal.Decimal) ([]entity.Product, error) {
	q := url.Values{}
	q.Set("minPrice", min.String())
	q.Set("maxPrice", max.String())
	var out []entity.Product
	if err := pc.c.get(ctx, "/products/price-range", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}
