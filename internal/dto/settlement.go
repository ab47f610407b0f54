package dto

// SettlementRequest settles an ON_HOLD or CREDIT transaction into its paid
// counterpart. ReferenceNumber must be a structured reference number.
type SettlementRequest struct {
	ReferenceNumber string `json:"referenceNumber" binding:"required,refnum"`
	PaymentMethod   string `json:"paymentMethod" binding:"required"`
}

// TransferItem is one line of a stock transfer record.
type TransferItem struct {
	ProductID string `json:"productID" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

// TransferRequest records a stock movement between locations. This is an
// audit record only; physical movement is reconciled out of band.
type TransferRequest struct {
	SourceLocationID      string         `json:"sourceLocationID" binding:"required"`
	DestinationLocationID string         `json:"destinationLocationID" binding:"required"`
	Items                 []TransferItem `json:"items" binding:"required,min=1,dive"`
}
