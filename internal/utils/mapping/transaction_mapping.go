package mapping

import (
	"github.com/kavindus/autoparts_pos_app/internal/core/domain"
	"github.com/kavindus/autoparts_pos_app/internal/models"
)

// ToModelTransaction converts a domain transaction to its DB row shape.
func ToModelTransaction(txn domain.Transaction) models.Transaction {
	items := make([]models.SoldItem, len(txn.ItemsSold))
	for i, it := range txn.ItemsSold {
		items[i] = models.SoldItem{
			ProductID:   it.ProductID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		}
	}
	var tradeIns []models.TradeIn
	for _, t := range txn.TradeIns {
		tradeIns = append(tradeIns, models.TradeIn{Description: t.Description, Value: t.Value})
	}
	return models.Transaction{
		TransactionID:           txn.TransactionID,
		ReferenceNumber:         txn.ReferenceNumber,
		LocationID:              txn.LocationID,
		ShopID:                  txn.ShopID,
		CashierID:               txn.CashierID,
		Type:                    models.TransactionType(txn.Type),
		TotalAmount:             txn.TotalAmount,
		TotalCost:               txn.TotalCost,
		ItemsSold:               items,
		TradeIns:                tradeIns,
		PaymentMethod:           txn.PaymentMethod,
		CarPlateNumber:          txn.CarPlateNumber,
		ReceiptHTML:             txn.ReceiptHTML,
		BatteryBillHTML:         txn.BatteryBillHTML,
		OriginalReferenceNumber: txn.OriginalReferenceNumber,
		CreatedAt:               txn.CreatedAt,
	}
}

// ToDomainTransaction converts a DB row to the domain shape.
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	items := make([]domain.SoldItem, len(m.ItemsSold))
	for i, it := range m.ItemsSold {
		items[i] = domain.SoldItem{
			ProductID:   it.ProductID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		}
	}
	var tradeIns []domain.TradeIn
	for _, t := range m.TradeIns {
		tradeIns = append(tradeIns, domain.TradeIn{Description: t.Description, Value: t.Value})
	}
	return domain.Transaction{
		TransactionID:           m.TransactionID,
		ReferenceNumber:         m.ReferenceNumber,
		LocationID:              m.LocationID,
		ShopID:                  m.ShopID,
		CashierID:               m.CashierID,
		Type:                    domain.TransactionType(m.Type),
		TotalAmount:             m.TotalAmount,
		TotalCost:               m.TotalCost,
		ItemsSold:               items,
		TradeIns:                tradeIns,
		PaymentMethod:           m.PaymentMethod,
		CarPlateNumber:          m.CarPlateNumber,
		ReceiptHTML:             m.ReceiptHTML,
		BatteryBillHTML:         m.BatteryBillHTML,
		OriginalReferenceNumber: m.OriginalReferenceNumber,
		CreatedAt:               m.CreatedAt,
	}
}

// ToDomainTransactionSlice converts DB rows to domain transactions.
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	out := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		out[i] = ToDomainTransaction(m)
	}
	return out
}
