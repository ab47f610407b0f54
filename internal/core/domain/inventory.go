package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BottleSource selects the pool a lubricant unit is drawn from.
type BottleSource string

const (
	OpenBottles   BottleSource = "OPEN"
	ClosedBottles BottleSource = "CLOSED"
)

// Inventory is the stock position for one (product, location) pair.
// TotalStock is always recomputable as the sum of the three pools. For
// lubricant products SellingPrice is nil; volume-level pricing governs.
type Inventory struct {
	InventoryID        string           `json:"inventoryID"`
	ProductID          string           `json:"productID"`
	LocationID         string           `json:"locationID"`
	StandardStock      int              `json:"standardStock"`
	OpenBottlesStock   int              `json:"openBottlesStock"`
	ClosedBottlesStock int              `json:"closedBottlesStock"`
	TotalStock         int              `json:"totalStock"`
	SellingPrice       *decimal.Decimal `json:"sellingPrice,omitempty"`
}

// RecomputeTotal refreshes TotalStock from the three pools.
func (inv *Inventory) RecomputeTotal() {
	inv.TotalStock = inv.StandardStock + inv.OpenBottlesStock + inv.ClosedBottlesStock
}

// Batch is one stock-receipt event for an inventory row. Eligible for FIFO
// consumption while IsActiveBatch and StockRemaining > 0; consumed oldest
// purchase date first.
type Batch struct {
	BatchID          string          `json:"batchID"`
	InventoryID      string          `json:"inventoryID"`
	CostPrice        decimal.Decimal `json:"costPrice"`
	QuantityReceived int             `json:"quantityReceived"`
	StockRemaining   int             `json:"stockRemaining"`
	IsActiveBatch    bool            `json:"isActiveBatch"`
	Supplier         string          `json:"supplier"`
	PurchaseDate     time.Time       `json:"purchaseDate"`
}

// BatchConsumption records units taken from one batch during a deduction.
type BatchConsumption struct {
	BatchID   string          `json:"batchID"`
	Quantity  int             `json:"quantity"`
	CostPrice decimal.Decimal `json:"costPrice"`
}

// DeductionResult describes one product's stock deduction, including the
// FIFO batch consumption used for cost-basis reporting. UncostedQuantity is
// the remainder when the active batches held fewer units than the pool.
type DeductionResult struct {
	ProductID        string             `json:"productID"`
	LocationID       string             `json:"locationID"`
	Quantity         int                `json:"quantity"`
	Consumed         []BatchConsumption `json:"consumed"`
	UncostedQuantity int                `json:"uncostedQuantity"`
}

// CostOfGoods sums cost price times quantity over the consumed batches.
func (r DeductionResult) CostOfGoods() decimal.Decimal {
	total := decimal.Zero
	for _, c := range r.Consumed {
		total = total.Add(c.CostPrice.Mul(decimal.NewFromInt(int64(c.Quantity))))
	}
	return total
}
