package controller

import (
	"context"

	"github.com/jhoicas/apparel-client/internal/application/views"
	"github.com/jhoicas/apparel-client/internal/domain"
	"github.com/jhoicas/apparel-client/internal/domain/entity"
	"github.com/jhoicas/apparel-client/pkg/logger"
)

// Direction sentido de un ajuste relativo de stock.
type Direction int

const (
	DirectionAdd Direction = iota
	DirectionRemove
)

func (d Direction) String() string {
	if d == DirectionRemove {
		return "remove"
	}
	return "add"
}

// StockAdjuster operaciones de ajuste atómico de stock del backend. El nuevo
// nivel lo calcula siempre el servidor; el cliente solo envía el delta.
type StockAdjuster interface {
	AddStock(ctx context.Context, id int64, quantity int) (*entity.Inventory, error)
	RemoveStock(ctx context.Context, id int64, quantity int) (*entity.Inventory, error)
}

// InventoryController controlador de inventario: el CRUD genérico más los
// ajustes relativos de stock.
type InventoryController struct {
	*Controller[entity.Inventory, views.InventoryViews]
	stock StockAdjuster
}

// NewInventoryController instancia el controlador de inventario.
func NewInventoryController(ops Resource[entity.Inventory], stock StockAdjuster, log *logger.Logger, confirm Confirmer) *InventoryController {
	return &InventoryController{
		Controller: New(newInventoryDescriptor(ops), log, confirm),
		stock:      stock,
	}
}

// AdjustStock aplica un ajuste relativo de stock. Cantidades no positivas se
// rechazan localmente sin tocar la red. Comparte el cupo único de mutación
// con Submit/Remove (ErrBusy si hay otra en vuelo). En éxito reemplaza solo
// esa entidad por la versión autoritativa del servidor y recalcula las vistas
// derivadas; en fallo la colección no cambia.
func (ic *InventoryController) AdjustStock(ctx context.Context, id int64, quantity int, dir Direction) error {
	if quantity <= 0 {
		return domain.ErrInvalidQuantity
	}
	if err := ic.beginMutation(); err != nil {
		return err
	}
	defer ic.endMutation()

	var (
		updated *entity.Inventory
		err     error
	)
	switch dir {
	case DirectionRemove:
		updated, err = ic.stock.RemoveStock(ctx, id, quantity)
	default:
		updated, err = ic.stock.AddStock(ctx, id, quantity)
	}
	if err != nil {
		ic.log.Warn().
			Int64("id", id).
			Int("quantity", quantity).
			Str("direction", dir.String()).
			Err(err).
			Msg("ajuste de stock rechazado")
		return err
	}

	ic.mu.Lock()
	ic.replaceItemLocked(*updated)
	ic.mu.Unlock()
	return nil
}
