package mapping

import (
	"github.com/kavindus/autoparts_pos_app/internal/core/domain"
	"github.com/kavindus/autoparts_pos_app/internal/models"
)

// ToDomainInventory converts a DB inventory row to the domain shape.
func ToDomainInventory(m models.Inventory) domain.Inventory {
	return domain.Inventory{
		InventoryID:        m.InventoryID,
		ProductID:          m.ProductID,
		LocationID:         m.LocationID,
		StandardStock:      m.StandardStock,
		OpenBottlesStock:   m.OpenBottlesStock,
		ClosedBottlesStock: m.ClosedBottlesStock,
		TotalStock:         m.TotalStock,
		SellingPrice:       m.SellingPrice,
	}
}

// ToDomainBatch converts a DB batch row to the domain shape.
func ToDomainBatch(m models.Batch) domain.Batch {
	return domain.Batch{
		BatchID:          m.BatchID,
		InventoryID:      m.InventoryID,
		CostPrice:        m.CostPrice,
		QuantityReceived: m.QuantityReceived,
		StockRemaining:   m.StockRemaining,
		IsActiveBatch:    m.IsActiveBatch,
		Supplier:         m.Supplier,
		PurchaseDate:     m.PurchaseDate,
	}
}

// ToDomainProduct converts a DB product row plus its volumes to the domain shape.
func ToDomainProduct(m models.Product, volumes []models.ProductVolume) domain.Product {
	vols := make([]domain.ProductVolume, len(volumes))
	for i, v := range volumes {
		vols[i] = domain.ProductVolume{
			VolumeID:     v.VolumeID,
			ProductID:    v.ProductID,
			Description:  v.Description,
			SellingPrice: v.SellingPrice,
		}
	}
	return domain.Product{
		ProductID:   m.ProductID,
		Name:        m.Name,
		Category:    m.Category,
		Description: m.Description,
		Volumes:     vols,
	}
}

// ToDomainUser converts a DB user row to the domain shape.
func ToDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:       m.UserID,
		Username:     m.Username,
		Name:         m.Name,
		PasswordHash: m.PasswordHash,
		Role:         m.Role,
		CreatedAt:    m.CreatedAt,
	}
}
