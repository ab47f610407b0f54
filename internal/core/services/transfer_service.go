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
)

// transferService records STOCK_TRANSFER audit rows. It performs no
// inventory mutation; physical movement is reconciled out of band.
type transferService struct {
	txManager   portsrepo.TxManager
	productRepo portsrepo.ProductRepository
	now         func() time.Time
}

// NewTransferService creates a new TransferService.
func NewTransferService(txManager portsrepo.TxManager, productRepo portsrepo.ProductRepository) portssvc.TransferSvcFacade {
	return &transferService{
		txManager:   txManager,
		productRepo: productRepo,
		now:         time.Now,
	}
}

var _ portssvc.TransferSvcFacade = (*transferService)(nil)

// CreateTransfer inserts a STOCK_TRANSFER transaction with the source as
// locationID and the destination as shopID.
func (s *transferService) CreateTransfer(ctx context.Context, req dto.TransferRequest, cashierID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if cashierID == "" {
		return nil, fmt.Errorf("%w: cashier ID is required", apperrors.ErrValidation)
	}
	if req.SourceLocationID == req.DestinationLocationID {
		return nil, fmt.Errorf("%w: source and destination must differ", apperrors.ErrValidation)
	}

	productIDs := make([]string, len(req.Items))
	for i, it := range req.Items {
		productIDs[i] = it.ProductID
	}
	products, err := s.productRepo.FindByIDs(ctx, uniqueStrings(productIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	items := make([]domain.SoldItem, len(req.Items))
	for i, line := range req.Items {
		product, ok := products[line.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: unknown product %s", apperrors.ErrValidation, line.ProductID)
		}
		items[i] = domain.SoldItem{
			ProductID:   line.ProductID,
			Description: product.Name,
			Quantity:    line.Quantity,
			UnitPrice:   decimal.Zero,
		}
	}

	now := s.now().UTC()
	txn := domain.Transaction{
		TransactionID:   uuid.NewString(),
		ReferenceNumber: adHocReference("TRF", now),
		LocationID:      req.SourceLocationID,
		ShopID:          req.DestinationLocationID,
		CashierID:       cashierID,
		Type:            domain.StockTransfer,
		TotalAmount:     decimal.Zero,
		ItemsSold:       items,
		PaymentMethod:   "NONE",
		CreatedAt:       now,
	}

	err = s.txManager.WithinTx(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		return uow.Transactions().SaveTransaction(ctx, txn)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save transfer record: %w", err)
	}

	logger.Info("Stock transfer recorded",
		slog.String("reference_number", txn.ReferenceNumber),
		slog.String("source", req.SourceLocationID),
		slog.String("destination", req.DestinationLocationID))
	return &txn, nil
}
