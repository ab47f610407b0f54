package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kavindus/autoparts_pos_app/internal/apperrors"
	"github.com/kavindus/autoparts_pos_app/internal/core/domain"
	portsrepo "github.com/kavindus/autoparts_pos_app/internal/core/ports/repositories"
	portssvc "github.com/kavindus/autoparts_pos_app/internal/core/ports/services"
	"github.com/kavindus/autoparts_pos_app/internal/middleware"
)

type inventoryLedger struct{}

// NewInventoryLedger creates the stock deduction/restoration service.
func NewInventoryLedger() portssvc.InventoryLedgerFacade {
	return &inventoryLedger{}
}

var _ portssvc.InventoryLedgerFacade = (*inventoryLedger)(nil)

// Deduct removes quantity units from the applicable stock pool and consumes
// FIFO batches for cost basis. For lubricant products source selects the
// bottle pool; other products always draw from standard stock. Fails with
// ErrInsufficientStock when the pool cannot cover the quantity; the caller
// must abort the whole unit of work.
func (l *inventoryLedger) Deduct(ctx context.Context, uow portsrepo.UnitOfWork, product domain.Product, locationID string, quantity int, source domain.BottleSource) (domain.DeductionResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	inv, err := uow.Inventory().FindForUpdate(ctx, product.ProductID, locationID)
	if err != nil {
		return domain.DeductionResult{}, fmt.Errorf("failed to lock inventory for product %s: %w", product.ProductID, err)
	}

	if err := l.adjustPool(inv, product, -quantity, source); err != nil {
		return domain.DeductionResult{}, err
	}

	if err := uow.Inventory().UpdateStockLevels(ctx, *inv); err != nil {
		return domain.DeductionResult{}, fmt.Errorf("failed to update stock levels for product %s: %w", product.ProductID, err)
	}

	// Cost-basis FIFO consumption. The pool count above is the stock
	// authority; batches only carry cost. A deduction may span multiple
	// batches, and a batch hitting zero is not deactivated here.
	result := domain.DeductionResult{
		ProductID:  product.ProductID,
		LocationID: locationID,
		Quantity:   quantity,
	}

	batches, err := uow.Inventory().FindActiveBatchesForUpdate(ctx, inv.InventoryID)
	if err != nil {
		return domain.DeductionResult{}, fmt.Errorf("failed to lock batches for inventory %s: %w", inv.InventoryID, err)
	}

	remaining := quantity
	for _, batch := range batches {
		if remaining == 0 {
			break
		}
		take := batch.StockRemaining
		if take > remaining {
			take = remaining
		}
		if take == 0 {
			continue
		}
		if err := uow.Inventory().UpdateBatchRemaining(ctx, batch.BatchID, batch.StockRemaining-take); err != nil {
			return domain.DeductionResult{}, fmt.Errorf("failed to consume batch %s: %w", batch.BatchID, err)
		}
		result.Consumed = append(result.Consumed, domain.BatchConsumption{
			BatchID:   batch.BatchID,
			Quantity:  take,
			CostPrice: batch.CostPrice,
		})
		remaining -= take
	}

	if remaining > 0 {
		// Pool covered the sale but the batches fell short; the remainder has
		// no recorded cost basis.
		result.UncostedQuantity = remaining
		logger.Warn("FIFO batches short of deducted quantity",
			slog.String("product_id", product.ProductID),
			slog.String("inventory_id", inv.InventoryID),
			slog.Int("uncosted_quantity", remaining))
	}

	return result, nil
}

// Restore is the inverse of Deduct, used only by the refund path. Lubricant
// restorations go to the closed-bottles pool, everything else to standard
// stock. Restored units are not reattached to the batches they came from.
func (l *inventoryLedger) Restore(ctx context.Context, uow portsrepo.UnitOfWork, product domain.Product, locationID string, quantity int) error {
	inv, err := uow.Inventory().FindForUpdate(ctx, product.ProductID, locationID)
	if err != nil {
		return fmt.Errorf("failed to lock inventory for product %s: %w", product.ProductID, err)
	}

	if err := l.adjustPool(inv, product, quantity, domain.ClosedBottles); err != nil {
		return err
	}

	if err := uow.Inventory().UpdateStockLevels(ctx, *inv); err != nil {
		return fmt.Errorf("failed to restore stock levels for product %s: %w", product.ProductID, err)
	}
	return nil
}

// adjustPool applies a signed delta to the pool selected by the product kind
// and bottle source, then recomputes the total.
func (l *inventoryLedger) adjustPool(inv *domain.Inventory, product domain.Product, delta int, source domain.BottleSource) error {
	var pool *int
	switch {
	case !product.IsLubricant():
		pool = &inv.StandardStock
	case source == domain.OpenBottles:
		pool = &inv.OpenBottlesStock
	default:
		pool = &inv.ClosedBottlesStock
	}

	if *pool+delta < 0 {
		return fmt.Errorf("%w: product %s has %d units available, %d requested", apperrors.ErrInsufficientStock, product.Name, *pool, -delta)
	}
	*pool += delta
	inv.RecomputeTotal()
	return nil
}
