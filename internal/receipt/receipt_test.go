package receipt_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kavindus/autoparts_pos_app/internal/core/domain"
	"github.com/kavindus/autoparts_pos_app/internal/receipt"
)

func sampleData() receipt.Data {
	return receipt.Data{
		ReferenceNumber: "A0010225",
		Items: []domain.SoldItem{
			{ProductID: "P1", Description: "Brake Pad", Quantity: 2, UnitPrice: decimal.RequireFromString("249.99")},
		},
		TotalAmount:   decimal.RequireFromString("499.98"),
		PaymentMethod: "CASH",
		CashierID:     "cashier-1",
		CreatedAt:     time.Date(2025, time.February, 10, 9, 30, 0, 0, time.UTC),
	}
}

func TestRenderReceipt(t *testing.T) {
	html, err := receipt.RenderReceipt(sampleData())
	require.NoError(t, err)

	assert.Contains(t, html, "SALES RECEIPT")
	assert.Contains(t, html, "A0010225")
	assert.Contains(t, html, "Brake Pad")
	assert.Contains(t, html, "249.99")
	assert.Contains(t, html, "TOTAL: 499.98")
	assert.Contains(t, html, "2025-02-10 09:30")
	assert.Contains(t, html, "Paid by CASH")
}

func TestRenderReceipt_Deterministic(t *testing.T) {
	first, err := receipt.RenderReceipt(sampleData())
	require.NoError(t, err)
	second, err := receipt.RenderReceipt(sampleData())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRenderReceipt_HeadingAndOriginalBill(t *testing.T) {
	data := sampleData()
	data.Heading = "REFUND"
	data.OriginalBill = "A0010225"
	data.TotalAmount = decimal.RequireFromString("-499.98")

	html, err := receipt.RenderReceipt(data)
	require.NoError(t, err)

	assert.Contains(t, html, "<h2>REFUND</h2>")
	assert.Contains(t, html, "Original bill: A0010225")
	assert.Contains(t, html, "TOTAL: -499.98")
}

func TestRenderReceipt_EscapesMarkup(t *testing.T) {
	data := sampleData()
	data.Items[0].Description = "<script>alert(1)</script>"

	html, err := receipt.RenderReceipt(data)
	require.NoError(t, err)

	assert.NotContains(t, html, "<script>")
}

func TestRenderBatteryBill(t *testing.T) {
	data := receipt.Data{
		ReferenceNumber: "B0030225",
		Items: []domain.SoldItem{
			{ProductID: "P2", Description: "Car Battery NS40", Quantity: 1, UnitPrice: decimal.NewFromInt(12000)},
		},
		TradeIns: []domain.TradeIn{
			{Description: "Old battery", Value: decimal.NewFromInt(2500)},
		},
		TotalAmount:    decimal.NewFromInt(9500),
		PaymentMethod:  "CASH",
		CashierID:      "cashier-1",
		CarPlateNumber: "CAB-1234",
		CreatedAt:      time.Date(2025, time.February, 10, 9, 30, 0, 0, time.UTC),
	}

	html, err := receipt.RenderBatteryBill(data)
	require.NoError(t, err)

	assert.Contains(t, html, "BATTERY BILL")
	assert.Contains(t, html, "Car Battery NS40")
	assert.Contains(t, html, "Old battery trade-in: Old battery -2500.00")
	assert.Contains(t, html, "NET PAYABLE: 9500.00")
	assert.Contains(t, html, "Vehicle: CAB-1234")
	assert.Contains(t, html, "Warranty subject to inspection")
}
