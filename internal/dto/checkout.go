package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/kavindus/autoparts_pos_app/internal/core/domain"
)

// CheckoutLine is one cart line.
type CheckoutLine struct {
	ProductID         string          `json:"productID" binding:"required"`
	Quantity          int             `json:"quantity" binding:"required,gt=0"`
	UnitPrice         decimal.Decimal `json:"unitPrice"`
	VolumeDescription string          `json:"volumeDescription"` // lubricant lines only
	BottleSource      string          `json:"bottleSource" binding:"omitempty,oneof=OPEN CLOSED"`
}

// TradeInRequest is a battery trade-in credited against the total.
type TradeInRequest struct {
	Description string          `json:"description" binding:"required"`
	Value       decimal.Decimal `json:"value" binding:"required"`
}

// CheckoutRequest defines the data needed to process a checkout.
type CheckoutRequest struct {
	Items          []CheckoutLine   `json:"items" binding:"required,min=1,dive"`
	TradeIns       []TradeInRequest `json:"tradeIns" binding:"omitempty,dive"`
	LocationID     string           `json:"locationID" binding:"required"`
	ShopID         string           `json:"shopID"`
	PaymentMethod  string           `json:"paymentMethod" binding:"required"`
	CarPlateNumber string           `json:"carPlateNumber"`
}

// TransactionResponse mirrors domain.Transaction for API responses.
type TransactionResponse struct {
	TransactionID           string                 `json:"transactionID"`
	ReferenceNumber         string                 `json:"referenceNumber"`
	LocationID              string                 `json:"locationID"`
	ShopID                  string                 `json:"shopID,omitempty"`
	CashierID               string                 `json:"cashierID"`
	Type                    domain.TransactionType `json:"type"`
	TotalAmount             decimal.Decimal        `json:"totalAmount"`
	ItemsSold               []domain.SoldItem      `json:"itemsSold"`
	TradeIns                []domain.TradeIn       `json:"tradeIns,omitempty"`
	PaymentMethod           string                 `json:"paymentMethod"`
	CarPlateNumber          string                 `json:"carPlateNumber,omitempty"`
	ReceiptHTML             *string                `json:"receiptHTML,omitempty"`
	BatteryBillHTML         *string                `json:"batteryBillHTML,omitempty"`
	OriginalReferenceNumber *string                `json:"originalReferenceNumber,omitempty"`
	CreatedAt               time.Time              `json:"createdAt"`
}

// ToTransactionResponse converts a domain.Transaction to its response DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:           txn.TransactionID,
		ReferenceNumber:         txn.ReferenceNumber,
		LocationID:              txn.LocationID,
		ShopID:                  txn.ShopID,
		CashierID:               txn.CashierID,
		Type:                    txn.Type,
		TotalAmount:             txn.TotalAmount,
		ItemsSold:               txn.ItemsSold,
		TradeIns:                txn.TradeIns,
		PaymentMethod:           txn.PaymentMethod,
		CarPlateNumber:          txn.CarPlateNumber,
		ReceiptHTML:             txn.ReceiptHTML,
		BatteryBillHTML:         txn.BatteryBillHTML,
		OriginalReferenceNumber: txn.OriginalReferenceNumber,
		CreatedAt:               txn.CreatedAt,
	}
}

// ToTransactionResponses converts a slice of domain transactions.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, len(txns))
	for i := range txns {
		out[i] = ToTransactionResponse(&txns[i])
	}
	return out
}
