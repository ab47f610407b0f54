package dto

import "github.com/shopspring/decimal"

// DisputedItem is one line of a refund or warranty claim.
type DisputedItem struct {
	ProductID         string          `json:"productID" binding:"required"`
	Quantity          int             `json:"quantity" binding:"required,gt=0"`
	UnitPrice         decimal.Decimal `json:"unitPrice"` // optional; inventory price when zero
	VolumeDescription string          `json:"volumeDescription"`
}

// DisputeRequest defines the data needed to raise a dispute against an
// original sale-class transaction.
type DisputeRequest struct {
	OriginalBillNumber string         `json:"originalBillNumber" binding:"required"`
	DisputeType        string         `json:"disputeType" binding:"required,oneof=REFUND WARRANTY_CLAIM"`
	Items              []DisputedItem `json:"items" binding:"required,min=1,dive"`
	LocationID         string         `json:"locationID" binding:"required"`
	ShopID             string         `json:"shopID"`
}
