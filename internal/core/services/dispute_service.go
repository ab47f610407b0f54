package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kavindus/autoparts_pos_app/internal/apperrors"
	"github.com/kavindus/autoparts_pos_app/internal/core/domain"
	portsrepo "github.com/kavindus/autoparts_pos_app/internal/core/ports/repositories"
	portssvc "github.com/kavindus/autoparts_pos_app/internal/core/ports/services"
	"github.com/kavindus/autoparts_pos_app/internal/dto"
	"github.com/kavindus/autoparts_pos_app/internal/middleware"
	"github.com/kavindus/autoparts_pos_app/internal/receipt"
)

// adHocReference builds the timestamp+random reference numbers used for
// disputes, settlements, and transfers. Weaker collision guarantees than the
// structured generator; kept deliberately, see DESIGN.md.
func adHocReference(prefix string, now time.Time) string {
	return fmt.Sprintf("%s%d%04d", prefix, now.Unix(), rand.Intn(10000))
}

// disputeService handles refunds and warranty claims linked to an original
// sale-class transaction.
type disputeService struct {
	txManager   portsrepo.TxManager
	productRepo portsrepo.ProductRepository
	ledger      portssvc.InventoryLedgerFacade
	now         func() time.Time
}

// NewDisputeService creates a new DisputeService.
func NewDisputeService(txManager portsrepo.TxManager, productRepo portsrepo.ProductRepository, ledger portssvc.InventoryLedgerFacade) portssvc.DisputeSvcFacade {
	return &disputeService{
		txManager:   txManager,
		productRepo: productRepo,
		ledger:      ledger,
		now:         time.Now,
	}
}

var _ portssvc.DisputeSvcFacade = (*disputeService)(nil)

// Dispute validates the original transaction, writes the linked dispute row,
// and reverses inventory only for REFUND. A warranty claim restoring stock
// would double-count inventory on later resale, so WARRANTY_CLAIM performs no
// inventory mutation.
func (s *disputeService) Dispute(ctx context.Context, req dto.DisputeRequest, cashierID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if cashierID == "" {
		return nil, fmt.Errorf("%w: cashier ID is required", apperrors.ErrValidation)
	}

	isRefund := req.DisputeType == string(domain.Refund)
	disputeType := domain.WarrantyClaim
	prefix := "WAR"
	if isRefund {
		disputeType = domain.Refund
		prefix = "REF"
	}

	productIDs := make([]string, len(req.Items))
	for i, it := range req.Items {
		productIDs[i] = it.ProductID
	}
	products, err := s.productRepo.FindByIDs(ctx, uniqueStrings(productIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	for _, id := range productIDs {
		if _, ok := products[id]; !ok {
			return nil, fmt.Errorf("%w: unknown product %s", apperrors.ErrValidation, id)
		}
	}

	now := s.now().UTC()
	transactionID := uuid.NewString()
	referenceNumber := adHocReference(prefix, now)

	var created *domain.Transaction
	err = s.txManager.WithinTx(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		original, err := uow.Transactions().FindByReferenceNumber(ctx, req.OriginalBillNumber)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("%w: original bill %s", apperrors.ErrNotFound, req.OriginalBillNumber)
			}
			return fmt.Errorf("failed to look up original bill %s: %w", req.OriginalBillNumber, err)
		}
		if !original.Type.IsSaleClass() {
			return fmt.Errorf("%w: bill %s has type %s, expected a sale-class transaction", apperrors.ErrInvalidState, req.OriginalBillNumber, original.Type)
		}

		items, err := s.buildDisputedItems(ctx, uow, req, products)
		if err != nil {
			return err
		}

		total := decimal.Zero
		for _, it := range items {
			total = total.Add(it.LineTotal())
		}
		if isRefund {
			// Refunds record a negative amount; warranty claims record the
			// positive replacement obligation with no monetary refund.
			total = total.Neg()
		}

		txn := domain.Transaction{
			TransactionID:           transactionID,
			ReferenceNumber:         referenceNumber,
			LocationID:              req.LocationID,
			ShopID:                  req.ShopID,
			CashierID:               cashierID,
			Type:                    disputeType,
			TotalAmount:             total,
			ItemsSold:               items,
			PaymentMethod:           original.PaymentMethod,
			OriginalReferenceNumber: &original.ReferenceNumber,
			CreatedAt:               now,
		}
		if err := uow.Transactions().SaveTransaction(ctx, txn); err != nil {
			return fmt.Errorf("failed to save dispute transaction: %w", err)
		}

		if isRefund {
			for _, line := range req.Items {
				product := products[line.ProductID]
				if err := s.ledger.Restore(ctx, uow, product, req.LocationID, line.Quantity); err != nil {
					return fmt.Errorf("failed to restore stock for product %s: %w", line.ProductID, err)
				}
			}
		}

		battery := anyBatteryItem(items)
		html, err := renderDisputeReceipt(txn, battery)
		if err != nil {
			return fmt.Errorf("failed to render dispute receipt: %w", err)
		}
		if err := uow.Transactions().AttachReceipt(ctx, transactionID, html, battery); err != nil {
			return fmt.Errorf("failed to attach dispute receipt: %w", err)
		}
		if battery {
			txn.BatteryBillHTML = &html
		} else {
			txn.ReceiptHTML = &html
		}

		created = &txn
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Dispute recorded",
		slog.String("reference_number", created.ReferenceNumber),
		slog.String("original_bill", req.OriginalBillNumber),
		slog.String("type", string(created.Type)))
	return created, nil
}

// buildDisputedItems prices each disputed line: the request price when given,
// otherwise the inventory selling price (volume price for lubricants). A line
// that resolves to no price at all is rejected rather than priced at zero.
func (s *disputeService) buildDisputedItems(ctx context.Context, uow portsrepo.UnitOfWork, req dto.DisputeRequest, products map[string]domain.Product) ([]domain.SoldItem, error) {
	items := make([]domain.SoldItem, len(req.Items))
	for i, line := range req.Items {
		product := products[line.ProductID]
		price := line.UnitPrice
		description := product.Name

		if product.IsLubricant() {
			if line.VolumeDescription != "" {
				description = product.Name + " " + line.VolumeDescription
			}
			if price.IsZero() {
				volumePrice, ok := product.VolumePrice(line.VolumeDescription)
				if !ok {
					return nil, fmt.Errorf("%w: product %s has no volume %q", apperrors.ErrValidation, product.Name, line.VolumeDescription)
				}
				price = volumePrice
			}
		} else if price.IsZero() {
			inv, err := uow.Inventory().FindForUpdate(ctx, line.ProductID, req.LocationID)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve price for product %s: %w", line.ProductID, err)
			}
			if inv.SellingPrice == nil {
				return nil, fmt.Errorf("%w: no price available for product %s", apperrors.ErrValidation, product.Name)
			}
			price = *inv.SellingPrice
		}

		if price.IsNegative() {
			return nil, fmt.Errorf("%w: unit price must not be negative for product %s", apperrors.ErrValidation, product.Name)
		}

		items[i] = domain.SoldItem{
			ProductID:   line.ProductID,
			Description: description,
			Quantity:    line.Quantity,
			UnitPrice:   price,
		}
	}
	return items, nil
}

// anyBatteryItem reports whether any disputed line is battery-classified,
// which selects the battery bill rendering for the dispute receipt.
func anyBatteryItem(items []domain.SoldItem) bool {
	for _, it := range items {
		if domain.IsBatteryItem(it.Description) {
			return true
		}
	}
	return false
}

func renderDisputeReceipt(txn domain.Transaction, battery bool) (string, error) {
	data := receipt.Data{
		ReferenceNumber: txn.ReferenceNumber,
		Heading:         string(txn.Type),
		Items:           txn.ItemsSold,
		TotalAmount:     txn.TotalAmount,
		PaymentMethod:   txn.PaymentMethod,
		CashierID:       txn.CashierID,
		OriginalBill:    derefString(txn.OriginalReferenceNumber),
		CreatedAt:       txn.CreatedAt,
	}
	if battery {
		return receipt.RenderBatteryBill(data)
	}
	return receipt.RenderReceipt(data)
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
