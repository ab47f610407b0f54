package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/kavindus/autoparts_pos_app/internal/core/domain"
)

func TestSettledType(t *testing.T) {
	cases := []struct {
		in        domain.TransactionType
		want      domain.TransactionType
		settlable bool
	}{
		{domain.OnHold, domain.OnHoldPaid, true},
		{domain.Credit, domain.CreditPaid, true},
		{domain.Sale, "", false},
		{domain.Refund, "", false},
		{domain.OnHoldPaid, "", false},
	}

	for _, tc := range cases {
		got, ok := tc.in.SettledType()
		assert.Equal(t, tc.settlable, ok, "type %s", tc.in)
		assert.Equal(t, tc.want, got, "type %s", tc.in)
	}
}

func TestIsSaleClass(t *testing.T) {
	assert.True(t, domain.Sale.IsSaleClass())
	assert.True(t, domain.Battery.IsSaleClass())
	assert.True(t, domain.OnHoldPaid.IsSaleClass())
	assert.True(t, domain.CreditPaid.IsSaleClass())

	// Deferred transactions only become disputable once settled.
	assert.False(t, domain.OnHold.IsSaleClass())
	assert.False(t, domain.Credit.IsSaleClass())
	assert.False(t, domain.Refund.IsSaleClass())
	assert.False(t, domain.StockTransfer.IsSaleClass())
}

func TestIsBatteryCart(t *testing.T) {
	battery := domain.SoldItem{Description: "Car Battery NS40", Quantity: 1, UnitPrice: decimal.NewFromInt(12000)}
	pad := domain.SoldItem{Description: "Brake Pad", Quantity: 2, UnitPrice: decimal.NewFromInt(250)}

	assert.True(t, domain.IsBatteryCart([]domain.SoldItem{battery}))
	assert.True(t, domain.IsBatteryCart([]domain.SoldItem{battery, {Description: "motorcycle battery"}}))
	assert.False(t, domain.IsBatteryCart([]domain.SoldItem{battery, pad}))
	assert.False(t, domain.IsBatteryCart(nil))
}

func TestLineTotal(t *testing.T) {
	item := domain.SoldItem{Quantity: 3, UnitPrice: decimal.RequireFromString("249.99")}
	assert.True(t, item.LineTotal().Equal(decimal.RequireFromString("749.97")))
}

func TestDeductionResultCostOfGoods(t *testing.T) {
	result := domain.DeductionResult{
		Quantity: 5,
		Consumed: []domain.BatchConsumption{
			{BatchID: "B1", Quantity: 3, CostPrice: decimal.NewFromInt(100)},
			{BatchID: "B2", Quantity: 2, CostPrice: decimal.NewFromInt(120)},
		},
	}
	assert.True(t, result.CostOfGoods().Equal(decimal.NewFromInt(540)))

	empty := domain.DeductionResult{Quantity: 2, UncostedQuantity: 2}
	assert.True(t, empty.CostOfGoods().IsZero())
}
