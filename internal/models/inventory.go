package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Inventory is the DB row shape of a stock position.
type Inventory struct {
	InventoryID        string
	ProductID          string
	LocationID         string
	StandardStock      int
	OpenBottlesStock   int
	ClosedBottlesStock int
	TotalStock         int
	SellingPrice       *decimal.Decimal
}

// Batch is the DB row shape of a stock-receipt event.
type Batch struct {
	BatchID          string
	InventoryID      string
	CostPrice        decimal.Decimal
	QuantityReceived int
	StockRemaining   int
	IsActiveBatch    bool
	Supplier         string
	PurchaseDate     time.Time
}

// Product is the DB row shape of a catalogue entry.
type Product struct {
	ProductID   string
	Name        string
	Category    string
	Description string
}

// ProductVolume is the DB row shape of a lubricant volume price.
type ProductVolume struct {
	VolumeID     string
	ProductID    string
	Description  string
	SellingPrice decimal.Decimal
}

// User is the DB row shape of a cashier account.
type User struct {
	UserID       string
	Username     string
	Name         string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}
