package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ProductVolume is one sellable volume of a lubricant product. Lubricant
// pricing is resolved from here, not from the inventory row.
type ProductVolume struct {
	VolumeID     string          `json:"volumeID"`
	ProductID    string          `json:"productID"`
	Description  string          `json:"description"` // e.g. "1L", "4L"
	SellingPrice decimal.Decimal `json:"sellingPrice"`
}

// Product is the read-only catalogue view the processors consult.
type Product struct {
	ProductID   string          `json:"productID"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Volumes     []ProductVolume `json:"volumes,omitempty"`
}

// IsLubricant reports whether the product is stocked in bottle pools.
func (p Product) IsLubricant() bool {
	return strings.EqualFold(p.Category, "Lubricants")
}

// VolumePrice resolves the selling price for a volume description. The match
// is case-insensitive on the volume description.
func (p Product) VolumePrice(description string) (decimal.Decimal, bool) {
	for _, v := range p.Volumes {
		if strings.EqualFold(v.Description, description) {
			return v.SellingPrice, true
		}
	}
	return decimal.Zero, false
}
