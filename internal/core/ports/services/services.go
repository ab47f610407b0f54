package services

import (
	"context"
	"time"

	"github.com/kavindus/autoparts_pos_app/internal/core/domain"
	portsrepo "github.com/kavindus/autoparts_pos_app/internal/core/ports/repositories"
	"github.com/kavindus/autoparts_pos_app/internal/dto"
)

// SequenceSvcFacade issues and parses structured reference numbers.
type SequenceSvcFacade interface {
	// NextReferenceNumber increments the bill sequence for the key derived
	// from now and formats the reference. Must run inside the caller's unit
	// of work so two concurrent checkouts cannot share a sequence.
	NextReferenceNumber(ctx context.Context, uow portsrepo.UnitOfWork, locationID string, txnType domain.TransactionType, now time.Time) (string, error)
	Parse(referenceNumber string) (domain.ParsedReference, error)
}

// InventoryLedgerFacade is the read/update surface over stock pools and FIFO
// batches for a (product, location) pair. Both operations execute inside the
// caller's unit of work.
type InventoryLedgerFacade interface {
	Deduct(ctx context.Context, uow portsrepo.UnitOfWork, product domain.Product, locationID string, quantity int, source domain.BottleSource) (domain.DeductionResult, error)
	Restore(ctx context.Context, uow portsrepo.UnitOfWork, product domain.Product, locationID string, quantity int) error
}

// CheckoutSvcFacade turns a cart into a durable transaction.
type CheckoutSvcFacade interface {
	Checkout(ctx context.Context, req dto.CheckoutRequest, cashierID string) (*domain.Transaction, error)
}

// DisputeSvcFacade handles refunds and warranty claims against an original sale.
type DisputeSvcFacade interface {
	Dispute(ctx context.Context, req dto.DisputeRequest, cashierID string) (*domain.Transaction, error)
}

// SettlementSvcFacade settles deferred (ON_HOLD/CREDIT) transactions.
type SettlementSvcFacade interface {
	Settle(ctx context.Context, req dto.SettlementRequest, cashierID string) (*domain.Transaction, error)
}

// TransferSvcFacade records stock-transfer audit transactions.
type TransferSvcFacade interface {
	CreateTransfer(ctx context.Context, req dto.TransferRequest, cashierID string) (*domain.Transaction, error)
}

// TransactionSvcFacade is the read-only lookup surface.
type TransactionSvcFacade interface {
	GetByReferenceNumber(ctx context.Context, referenceNumber string) (*domain.Transaction, error)
	ListByLocation(ctx context.Context, locationID string, since time.Time, limit int) ([]domain.Transaction, error)
}

// AuthSvcFacade authenticates cashiers.
type AuthSvcFacade interface {
	Login(ctx context.Context, username, password string) (*domain.User, error)
}

// ServiceContainer bundles all service facades for route registration.
type ServiceContainer struct {
	Auth        AuthSvcFacade
	Checkout    CheckoutSvcFacade
	Dispute     DisputeSvcFacade
	Settlement  SettlementSvcFacade
	Transfer    TransferSvcFacade
	Transaction TransactionSvcFacade
	Sequence    SequenceSvcFacade
}
