package services

import (
	"context"
	"fmt"
	"time"

	"github.com/kavindus/autoparts_pos_app/internal/core/domain"
	portsrepo "github.com/kavindus/autoparts_pos_app/internal/core/ports/repositories"
	portssvc "github.com/kavindus/autoparts_pos_app/internal/core/ports/services"
)

// transactionService is the read-only lookup surface used by dispute and
// settlement UIs.
type transactionService struct {
	txnRepo portsrepo.TransactionReadRepository
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(txnRepo portsrepo.TransactionReadRepository) portssvc.TransactionSvcFacade {
	return &transactionService{txnRepo: txnRepo}
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

func (s *transactionService) GetByReferenceNumber(ctx context.Context, referenceNumber string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindByReferenceNumber(ctx, referenceNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction %s: %w", referenceNumber, err)
	}
	return txn, nil
}

func (s *transactionService) ListByLocation(ctx context.Context, locationID string, since time.Time, limit int) ([]domain.Transaction, error) {
	if limit <= 0 {
		limit = 20
	}
	txns, err := s.txnRepo.ListByLocation(ctx, locationID, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for location %s: %w", locationID, err)
	}
	return txns, nil
}
