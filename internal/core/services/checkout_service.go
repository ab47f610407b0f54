package services

import (
	"context"
	"fmt"
	"log/slog"
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

const (
	// PaymentOnHold and PaymentCredit defer settlement; every other payment
	// method pays at checkout time.
	PaymentOnHold = "ON_HOLD"
	PaymentCredit = "CREDIT"
)

// checkoutService turns a validated cart into a durable transaction with
// FIFO stock deduction, all inside one unit of work.
type checkoutService struct {
	txManager   portsrepo.TxManager
	productRepo portsrepo.ProductRepository
	sequenceSvc portssvc.SequenceSvcFacade
	ledger      portssvc.InventoryLedgerFacade
	now         func() time.Time
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(txManager portsrepo.TxManager, productRepo portsrepo.ProductRepository, sequenceSvc portssvc.SequenceSvcFacade, ledger portssvc.InventoryLedgerFacade) portssvc.CheckoutSvcFacade {
	return &checkoutService{
		txManager:   txManager,
		productRepo: productRepo,
		sequenceSvc: sequenceSvc,
		ledger:      ledger,
		now:         time.Now,
	}
}

var _ portssvc.CheckoutSvcFacade = (*checkoutService)(nil)

// Checkout validates the cart, deducts stock line by line, obtains a
// structured reference number, inserts the transaction, and attaches the
// rendered receipt. Any failure rolls back everything; no partial state is
// ever observable.
func (s *checkoutService) Checkout(ctx context.Context, req dto.CheckoutRequest, cashierID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if cashierID == "" {
		return nil, fmt.Errorf("%w: cashier ID is required", apperrors.ErrValidation)
	}

	products, err := s.resolveProducts(ctx, checkoutProductIDs(req.Items))
	if err != nil {
		return nil, err
	}

	items, err := buildSoldItems(req.Items, products)
	if err != nil {
		return nil, err
	}

	tradeIns := make([]domain.TradeIn, len(req.TradeIns))
	tradeInTotal := decimal.Zero
	for i, t := range req.TradeIns {
		if t.Value.IsNegative() {
			return nil, fmt.Errorf("%w: trade-in value must not be negative", apperrors.ErrValidation)
		}
		tradeIns[i] = domain.TradeIn{Description: t.Description, Value: t.Value}
		tradeInTotal = tradeInTotal.Add(t.Value)
	}

	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal())
	}
	total = total.Sub(tradeInTotal)
	if total.IsNegative() {
		return nil, fmt.Errorf("%w: trade-in total exceeds cart total", apperrors.ErrValidation)
	}

	txnType := classifyCheckout(req.PaymentMethod, items)
	now := s.now().UTC()
	transactionID := uuid.NewString()

	var created *domain.Transaction
	err = s.txManager.WithinTx(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		totalCost := decimal.Zero
		for i, line := range req.Items {
			product := products[line.ProductID]
			result, err := s.ledger.Deduct(ctx, uow, product, req.LocationID, line.Quantity, domain.BottleSource(line.BottleSource))
			if err != nil {
				return fmt.Errorf("line %d: %w", i+1, err)
			}
			totalCost = totalCost.Add(result.CostOfGoods())
		}

		refNo, err := s.sequenceSvc.NextReferenceNumber(ctx, uow, req.LocationID, txnType, now)
		if err != nil {
			return err
		}

		txn := domain.Transaction{
			TransactionID:   transactionID,
			ReferenceNumber: refNo,
			LocationID:      req.LocationID,
			ShopID:          req.ShopID,
			CashierID:       cashierID,
			Type:            txnType,
			TotalAmount:     total,
			TotalCost:       totalCost,
			ItemsSold:       items,
			TradeIns:        tradeIns,
			PaymentMethod:   req.PaymentMethod,
			CarPlateNumber:  req.CarPlateNumber,
			CreatedAt:       now,
		}
		if err := uow.Transactions().SaveTransaction(ctx, txn); err != nil {
			return fmt.Errorf("failed to save transaction: %w", err)
		}

		battery := txnType == domain.Battery
		html, err := renderCheckoutReceipt(txn, battery)
		if err != nil {
			return fmt.Errorf("failed to render receipt: %w", err)
		}
		if err := uow.Transactions().AttachReceipt(ctx, transactionID, html, battery); err != nil {
			return fmt.Errorf("failed to attach receipt: %w", err)
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

	logger.Info("Checkout completed",
		slog.String("reference_number", created.ReferenceNumber),
		slog.String("type", string(created.Type)),
		slog.String("total", created.TotalAmount.String()))
	return created, nil
}

func (s *checkoutService) resolveProducts(ctx context.Context, productIDs []string) (map[string]domain.Product, error) {
	products, err := s.productRepo.FindByIDs(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	for _, id := range productIDs {
		if _, ok := products[id]; !ok {
			return nil, fmt.Errorf("%w: unknown product %s", apperrors.ErrValidation, id)
		}
	}
	return products, nil
}

func checkoutProductIDs(lines []dto.CheckoutLine) []string {
	ids := make([]string, len(lines))
	for i, l := range lines {
		ids[i] = l.ProductID
	}
	return uniqueStrings(ids)
}

// buildSoldItems resolves each cart line's description and unit price.
// Lubricant lines price from the product's volume list when the request
// carries no price; inventory-level pricing is never consulted for them.
func buildSoldItems(lines []dto.CheckoutLine, products map[string]domain.Product) ([]domain.SoldItem, error) {
	items := make([]domain.SoldItem, len(lines))
	for i, line := range lines {
		product := products[line.ProductID]
		price := line.UnitPrice
		description := product.Name

		if product.IsLubricant() {
			if line.VolumeDescription == "" {
				return nil, fmt.Errorf("%w: lubricant product %s requires a volume description", apperrors.ErrValidation, product.Name)
			}
			description = product.Name + " " + line.VolumeDescription
			if price.IsZero() {
				volumePrice, ok := product.VolumePrice(line.VolumeDescription)
				if !ok {
					return nil, fmt.Errorf("%w: product %s has no volume %q", apperrors.ErrValidation, product.Name, line.VolumeDescription)
				}
				price = volumePrice
			}
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

// classifyCheckout maps a payment method and cart content to the transaction
// type. Deferred payment methods win; otherwise an all-battery cart is a
// BATTERY sale.
func classifyCheckout(paymentMethod string, items []domain.SoldItem) domain.TransactionType {
	switch paymentMethod {
	case PaymentOnHold:
		return domain.OnHold
	case PaymentCredit:
		return domain.Credit
	}
	if domain.IsBatteryCart(items) {
		return domain.Battery
	}
	return domain.Sale
}

func renderCheckoutReceipt(txn domain.Transaction, battery bool) (string, error) {
	data := receipt.Data{
		ReferenceNumber: txn.ReferenceNumber,
		Items:           txn.ItemsSold,
		TradeIns:        txn.TradeIns,
		TotalAmount:     txn.TotalAmount,
		PaymentMethod:   txn.PaymentMethod,
		CashierID:       txn.CashierID,
		CarPlateNumber:  txn.CarPlateNumber,
		CreatedAt:       txn.CreatedAt,
	}
	if battery {
		return receipt.RenderBatteryBill(data)
	}
	return receipt.RenderReceipt(data)
}

// uniqueStrings returns a slice containing only the unique strings from the input.
func uniqueStrings(input []string) []string {
	seen := make(map[string]struct{}, len(input))
	result := make([]string, 0, len(input))
	for _, str := range input {
		if _, ok := seen[str]; !ok {
			seen[str] = struct{}{}
			result = append(result, str)
		}
	}
	return result
}
