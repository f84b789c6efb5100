package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/jhoicas/apparel-client/internal/domain"
	"github.com/jhoicas/apparel-client/internal/domain/entity"
)

// stockLevelBody cuerpo de PUT …/stock (nivel absoluto).
type stockLevelBody struct {
	StockLevel int `json:"stockLevel"`
}

// quantityBody cuerpo de POST …/add-stock y …/remove-stock (delta relativo).
type quantityBody struct {
	Quantity int `json:"quantity"`
}

// InventoryClient operaciones REST sobre /inventory.
type InventoryClient struct {
	c *Client
}

// NewInventoryClient construye el cliente de inventario sobre el transporte base.
func NewInventoryClient(c *Client) *InventoryClient {
	return &InventoryClient{c: c}
}

// List devuelve todos los registros de inventario.
func (ic *InventoryClient) List(ctx context.Context) ([]entity.Inventory, error) {
	var out []entity.Inventory
	if err := ic.c.get(ctx, "/inventory", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get devuelve un registro por id.
func (ic *InventoryClient) Get(ctx context.Context, id int64) (*entity.Inventory, error) {
	var out entity.Inventory
	if err := ic.c.get(ctx, fmt.Sprintf("/inventory/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetByProduct devuelve el registro asociado a un producto (a lo sumo uno).
func (ic *InventoryClient) GetByProduct(ctx context.Context, productID int64) (*entity.Inventory, error) {
	var out entity.Inventory
	if err := ic.c.get(ctx, fmt.Sprintf("/inventory/product/%d", productID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create crea el registro de inventario de un producto. La asociación con el
// producto queda fijada por la URL y es inmutable a partir de aquí.
func (ic *InventoryClient) Create(ctx context.Context, productID int64, inv entity.Inventory) (*entity.Inventory, error) {
	var out entity.Inventory
	path := fmt.Sprintf("/inventory/product/%d", productID)
	if err := ic.c.send(ctx, http.MethodPost, path, inv, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update actualiza stockLevel, location y reorderLevel del registro. El
// producto asociado no se reasigna por esta vía.
func (ic *InventoryClient) Update(ctx context.Context, id int64, inv entity.Inventory) (*entity.Inventory, error) {
	var out entity.Inventory
	if err := ic.c.send(ctx, http.MethodPut, fmt.Sprintf("/inventory/%d", id), inv, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetStockLevel fija el nivel absoluto de stock de un registro.
func (ic *InventoryClient) SetStockLevel(ctx context.Context, id int64, level int) (*entity.Inventory, error) {
	var out entity.Inventory
	path := fmt.Sprintf("/inventory/%d/stock", id)
	if err := ic.c.send(ctx, http.MethodPut, path, stockLevelBody{StockLevel: level}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetStockLevelByProduct fija el nivel absoluto de stock por id de producto.
func (ic *InventoryClient) SetStockLevelByProduct(ctx context.Context, productID int64, level int) (*entity.Inventory, error) {
	var out entity.Inventory
	path := fmt.Sprintf("/inventory/product/%d/stock", productID)
	if err := ic.c.send(ctx, http.MethodPut, path, stockLevelBody{StockLevel: level}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddStock suma quantity unidades al registro. El nuevo nivel lo calcula el
// servidor de forma atómica; el cliente solo envía el delta positivo.
func (ic *InventoryClient) AddStock(ctx context.Context, id int64, quantity int) (*entity.Inventory, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	var out entity.Inventory
	path := fmt.Sprintf("/inventory/%d/add-stock", id)
	if err := ic.c.send(ctx, http.MethodPost, path, quantityBody{Quantity: quantity}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RemoveStock resta quantity unidades al registro. Igual que AddStock, nunca
// envía deltas no positivos.
func (ic *InventoryClient) RemoveStock(ctx context.Context, id int64, quantity int) (*entity.Inventory, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	var out entity.Inventory
	path := fmt.Sprintf("/inventory/%d/remove-stock", id)
	if err := ic.c.send(ctx, http.MethodPost, path, quantityBody{Quantity: quantity}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete elimina el registro de inventario.
func (ic *InventoryClient) Delete(ctx context.Context, id int64) error {
	return ic.c.delete(ctx, fmt.Sprintf("/inventory/%d", id))
}

// ListLowStock devuelve los registros con stockLevel <= reorderLevel.
func (ic *InventoryClient) ListLowStock(ctx context.Context) ([]entity.Inventory, error) {
	var out []entity.Inventory
	if err := ic.c.get(ctx, "/inventory/low-stock", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListBelow devuelve los registros con stockLevel por debajo de level.
func (ic *InventoryClient) ListBelow(ctx context.Context, level int) ([]entity.Inventory, error) {
	var out []entity.Inventory
	if err := ic.c.get(ctx, fmt.Sprintf("/inventory/below/%d", level), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByLocation devuelve los registros almacenados en una ubicación.
func (ic *InventoryClient) ListByLocation(ctx context.Context, location string) ([]entity.Inventory, error) {
	var out []entity.Inventory
	if err := ic.c.get(ctx, "/inventory/location/"+url.PathEscape(location), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
