package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a ledger entry.
type TransactionType string

const (
	Sale          TransactionType = "SALE"
	Battery       TransactionType = "BATTERY"
	Refund        TransactionType = "REFUND"
	WarrantyClaim TransactionType = "WARRANTY_CLAIM"
	StockTransfer TransactionType = "STOCK_TRANSFER"
	Expense       TransactionType = "EXPENSE"
	OnHold        TransactionType = "ON_HOLD"
	Credit        TransactionType = "CREDIT"
	OnHoldPaid    TransactionType = "ON_HOLD_PAID"
	CreditPaid    TransactionType = "CREDIT_PAID"
)

// SettledType returns the paid counterpart for a deferred type, or false if
// the type is not settleable.
func (t TransactionType) SettledType() (TransactionType, bool) {
	switch t {
	case OnHold:
		return OnHoldPaid, true
	case Credit:
		return CreditPaid, true
	default:
		return "", false
	}
}

// IsSaleClass reports whether a transaction of this type can be the original
// of a dispute. Deferred transactions qualify only once settled.
func (t TransactionType) IsSaleClass() bool {
	switch t {
	case Sale, Battery, OnHoldPaid, CreditPaid:
		return true
	default:
		return false
	}
}

// SoldItem is one line of a transaction.
type SoldItem struct {
	ProductID   string          `json:"productID"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// LineTotal returns quantity times unit price.
func (i SoldItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// TradeIn records a battery trade-in credited against a sale total.
type TradeIn struct {
	Description string          `json:"description"`
	Value       decimal.Decimal `json:"value"`
}

// Transaction is an immutable ledger row. Receipt HTML is attached once,
// immediately after creation, within the same unit of work.
type Transaction struct {
	TransactionID           string          `json:"transactionID"`
	ReferenceNumber         string          `json:"referenceNumber"`
	LocationID              string          `json:"locationID"`
	ShopID                  string          `json:"shopID"` // destination for transfers
	CashierID               string          `json:"cashierID"`
	Type                    TransactionType `json:"type"`
	TotalAmount             decimal.Decimal `json:"totalAmount"` // negative for refunds/expenses
	TotalCost               decimal.Decimal `json:"totalCost"`   // FIFO cost basis of goods sold
	ItemsSold               []SoldItem      `json:"itemsSold"`
	TradeIns                []TradeIn       `json:"tradeIns,omitempty"`
	PaymentMethod           string          `json:"paymentMethod"`
	CarPlateNumber          string          `json:"carPlateNumber,omitempty"`
	ReceiptHTML             *string         `json:"receiptHTML,omitempty"`
	BatteryBillHTML         *string         `json:"batteryBillHTML,omitempty"`
	OriginalReferenceNumber *string         `json:"originalReferenceNumber,omitempty"`
	CreatedAt               time.Time       `json:"createdAt"`
}

// IsBatteryItem reports whether a line description indicates a battery
// product. A cart is battery-classified when every line passes this check.
func IsBatteryItem(description string) bool {
	return strings.Contains(strings.ToLower(description), "battery")
}

// IsBatteryCart reports whether every line of a cart is battery-classified.
// Empty carts are not battery carts.
func IsBatteryCart(items []SoldItem) bool {
	if len(items) == 0 {
		return false
	}
	for _, it := range items {
		if !IsBatteryItem(it.Description) {
			return false
		}
	}
	return true
}
