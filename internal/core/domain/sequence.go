package domain

// BillSequence is the monotonic counter behind structured reference numbers,
// keyed by (transaction type, month, year, location). Created lazily on the
// first request for a new key; incremented atomically.
type BillSequence struct {
	TransactionType TransactionType `json:"transactionType"`
	Month           int             `json:"month"`
	Year            int             `json:"year"`
	LocationID      string          `json:"locationID"`
	CurrentSequence int64           `json:"currentSequence"`
}

// ParsedReference is the inverse of a structured reference number.
type ParsedReference struct {
	Type     TransactionType `json:"type"`
	Sequence int64           `json:"sequence"`
	Month    int             `json:"month"`
	Year     int             `json:"year"`
}
