package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kavindus/autoparts_pos_app/internal/apperrors"
	"github.com/kavindus/autoparts_pos_app/internal/core/domain"
	portsrepo "github.com/kavindus/autoparts_pos_app/internal/core/ports/repositories"
	portssvc "github.com/kavindus/autoparts_pos_app/internal/core/ports/services"
	"github.com/kavindus/autoparts_pos_app/internal/dto"
	"github.com/kavindus/autoparts_pos_app/internal/middleware"
)

// settlementService transitions deferred transactions to their paid
// counterparts: ON_HOLD -> ON_HOLD_PAID, CREDIT -> CREDIT_PAID. Both are
// terminal.
type settlementService struct {
	txManager portsrepo.TxManager
	now       func() time.Time
}

// NewSettlementService creates a new SettlementService.
func NewSettlementService(txManager portsrepo.TxManager) portssvc.SettlementSvcFacade {
	return &settlementService{
		txManager: txManager,
		now:       time.Now,
	}
}

var _ portssvc.SettlementSvcFacade = (*settlementService)(nil)

// Settle inserts the paid counterpart of a deferred transaction, at most
// once. The existence check here is advisory; the real concurrency guard is
// the partial unique index on original_reference_number for paid-variant
// types, which the repository surfaces as ErrAlreadySettled.
func (s *settlementService) Settle(ctx context.Context, req dto.SettlementRequest, cashierID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if cashierID == "" {
		return nil, fmt.Errorf("%w: cashier ID is required", apperrors.ErrValidation)
	}

	now := s.now().UTC()
	transactionID := uuid.NewString()

	var created *domain.Transaction
	err := s.txManager.WithinTx(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		original, err := uow.Transactions().FindByReferenceNumber(ctx, req.ReferenceNumber)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("%w: bill %s", apperrors.ErrNotFound, req.ReferenceNumber)
			}
			return fmt.Errorf("failed to look up bill %s: %w", req.ReferenceNumber, err)
		}

		paidType, ok := original.Type.SettledType()
		if !ok {
			return fmt.Errorf("%w: bill %s has type %s, expected ON_HOLD or CREDIT", apperrors.ErrInvalidState, req.ReferenceNumber, original.Type)
		}

		if _, err := uow.Transactions().FindSettlementOf(ctx, original.ReferenceNumber); err == nil {
			return fmt.Errorf("%w: bill %s", apperrors.ErrAlreadySettled, req.ReferenceNumber)
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("failed to check settlement state of %s: %w", req.ReferenceNumber, err)
		}

		// No inventory mutation: stock was deducted at original checkout.
		paid := domain.Transaction{
			TransactionID:           transactionID,
			ReferenceNumber:         adHocReference("PD", now),
			LocationID:              original.LocationID,
			ShopID:                  original.ShopID,
			CashierID:               cashierID,
			Type:                    paidType,
			TotalAmount:             original.TotalAmount,
			TotalCost:               original.TotalCost,
			ItemsSold:               original.ItemsSold,
			TradeIns:                original.TradeIns,
			PaymentMethod:           req.PaymentMethod,
			CarPlateNumber:          original.CarPlateNumber,
			OriginalReferenceNumber: &original.ReferenceNumber,
			CreatedAt:               now,
		}
		if err := uow.Transactions().SaveTransaction(ctx, paid); err != nil {
			return fmt.Errorf("failed to save settlement of %s: %w", req.ReferenceNumber, err)
		}

		created = &paid
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Settlement completed",
		slog.String("original_bill", req.ReferenceNumber),
		slog.String("reference_number", created.ReferenceNumber),
		slog.String("type", string(created.Type)))
	return created, nil
}
