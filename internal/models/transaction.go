package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType mirrors domain.TransactionType at the DB boundary.
type TransactionType string

// SoldItem is the JSONB shape of one transaction line.
type SoldItem struct {
	ProductID   string          `json:"productID"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// TradeIn is the JSONB shape of a battery trade-in.
type TradeIn struct {
	Description string          `json:"description"`
	Value       decimal.Decimal `json:"value"`
}

// Transaction is the DB row shape of a ledger entry.
type Transaction struct {
	TransactionID           string
	ReferenceNumber         string
	LocationID              string
	ShopID                  string
	CashierID               string
	Type                    TransactionType
	TotalAmount             decimal.Decimal
	TotalCost               decimal.Decimal
	ItemsSold               []SoldItem
	TradeIns                []TradeIn
	PaymentMethod           string
	CarPlateNumber          string
	ReceiptHTML             *string
	BatteryBillHTML         *string
	OriginalReferenceNumber *string
	CreatedAt               time.Time
}
