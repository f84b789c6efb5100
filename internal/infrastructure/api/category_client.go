package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jhoicas/apparel-client/internal/domain/entity"
)

// CategoryClient operaciones REST sobre /categories.
type CategoryClient struct {
	c *Client
}

// NewCategoryClient construye el cliente de categorías sobre el transporte base.
func NewCategoryClient(c *Client) *CategoryClient {
	return &CategoryClient{c: c}
}

// List devuelve todas las categorías.
func (cc *CategoryClient) List(ctx context.Context) ([]entity.Category, error) {
	var out []entity.Category
	if err := cc.c.get(ctx, "/categories", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get devuelve una categoría por id.
func (cc *CategoryClient) Get(ctx context.Context, id int64) (*entity.Category, error) {
	var out entity.Category
	if err := cc.c.get(ctx, fmt.Sprintf("/categories/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create crea una categoría nueva; el servidor asigna id y timestamps.
func (cc *CategoryClient) Create(ctx context.Context, cat entity.Category) (*entity.Category, error) {
	var out entity.Category
	if err := cc.c.send(ctx, http.MethodPost, "/categories", cat, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update reemplaza la categoría identificada por id.
func (cc *CategoryClient) Update(ctx context.Context, id int64, cat entity.Category) (*entity.Category, error) {
	var out entity.Category
	if err := cc.c.send(ctx, http.MethodPut, fmt.Sprintf("/categories/%d", id), cat, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete elimina la categoría. El servidor rechaza con HTTPError si algún
// producto la referencia; el caller debe reportarlo, no ignorarlo.
func (cc *CategoryClient) Delete(ctx context.Context, id int64) error {
	return cc.c.delete(ctx, fmt.Sprintf("/categories/%d", id))
}
