package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/kavindus/autoparts_pos_app/internal/apperrors"
	"github.com/kavindus/autoparts_pos_app/internal/core/domain"
	portsrepo "github.com/kavindus/autoparts_pos_app/internal/core/ports/repositories"
	"github.com/kavindus/autoparts_pos_app/internal/models"
	"github.com/kavindus/autoparts_pos_app/internal/utils/mapping"
)

// PgxInventoryRepository locks and mutates inventory rows and batches. Only
// ever used transaction-bound, from a unit of work.
type PgxInventoryRepository struct {
	db Queryer
}

var _ portsrepo.InventoryTxRepository = (*PgxInventoryRepository)(nil)

// FindForUpdate fetches the inventory row for a (product, location) pair
// under a row lock, serializing concurrent deductions of the same stock.
func (r *PgxInventoryRepository) FindForUpdate(ctx context.Context, productID, locationID string) (*domain.Inventory, error) {
	query := `
		SELECT inventory_id, product_id, location_id, standard_stock, open_bottles_stock,
		       closed_bottles_stock, total_stock, selling_price
		FROM inventory
		WHERE product_id = $1 AND location_id = $2
		FOR UPDATE;
	`
	var m models.Inventory
	err := r.db.QueryRow(ctx, query, productID, locationID).Scan(
		&m.InventoryID,
		&m.ProductID,
		&m.LocationID,
		&m.StandardStock,
		&m.OpenBottlesStock,
		&m.ClosedBottlesStock,
		&m.TotalStock,
		&m.SellingPrice,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("no inventory for product " + productID + " at location " + locationID)
		}
		return nil, apperrors.NewAppError(500, "failed to lock inventory for product "+productID, err)
	}
	inv := mapping.ToDomainInventory(m)
	return &inv, nil
}

// UpdateStockLevels writes back the three pools and the derived total.
func (r *PgxInventoryRepository) UpdateStockLevels(ctx context.Context, inv domain.Inventory) error {
	query := `
		UPDATE inventory
		SET standard_stock = $2,
		    open_bottles_stock = $3,
		    closed_bottles_stock = $4,
		    total_stock = $5
		WHERE inventory_id = $1;
	`
	cmdTag, err := r.db.Exec(ctx, query,
		inv.InventoryID,
		inv.StandardStock,
		inv.OpenBottlesStock,
		inv.ClosedBottlesStock,
		inv.TotalStock,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update stock levels for inventory "+inv.InventoryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("inventory " + inv.InventoryID + " not found for update")
	}
	return nil
}

// FindActiveBatchesForUpdate returns the FIFO-eligible batches for an
// inventory row, oldest purchase date first, locked for update.
func (r *PgxInventoryRepository) FindActiveBatchesForUpdate(ctx context.Context, inventoryID string) ([]domain.Batch, error) {
	query := `
		SELECT batch_id, inventory_id, cost_price, quantity_received, stock_remaining,
		       is_active_batch, supplier, purchase_date
		FROM batches
		WHERE inventory_id = $1 AND is_active_batch AND stock_remaining > 0
		ORDER BY purchase_date, batch_id
		FOR UPDATE;
	`
	rows, err := r.db.Query(ctx, query, inventoryID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to lock batches for inventory "+inventoryID, err)
	}
	defer rows.Close()

	var batches []domain.Batch
	for rows.Next() {
		var m models.Batch
		err := rows.Scan(
			&m.BatchID,
			&m.InventoryID,
			&m.CostPrice,
			&m.QuantityReceived,
			&m.StockRemaining,
			&m.IsActiveBatch,
			&m.Supplier,
			&m.PurchaseDate,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan batch row for inventory "+inventoryID, err)
		}
		batches = append(batches, mapping.ToDomainBatch(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating batch rows for inventory "+inventoryID, err)
	}
	return batches, nil
}

// UpdateBatchRemaining writes back a batch's remaining stock after FIFO
// consumption. Batches reaching zero are not deactivated here.
func (r *PgxInventoryRepository) UpdateBatchRemaining(ctx context.Context, batchID string, stockRemaining int) error {
	cmdTag, err := r.db.Exec(ctx, `UPDATE batches SET stock_remaining = $2 WHERE batch_id = $1;`, batchID, stockRemaining)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update batch "+batchID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("batch " + batchID + " not found for update")
	}
	return nil
}
