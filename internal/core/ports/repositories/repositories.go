package repositories

import (
	"context"
	"time"

	"github.com/kavindus/autoparts_pos_app/internal/core/domain"
)

// UnitOfWork bundles the transaction-scoped repository facades. Every write
// a processor performs goes through one UnitOfWork so the store either
// commits all of it or none of it.
type UnitOfWork interface {
	Transactions() TransactionTxRepository
	Inventory() InventoryTxRepository
	Sequences() SequenceTxRepository
}

// TxManager runs a function inside a single database transaction. The
// transaction is committed when fn returns nil and rolled back otherwise.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, uow UnitOfWork) error) error
}

// TransactionTxRepository is the transaction-scoped write/read surface over
// the transactions table.
type TransactionTxRepository interface {
	SaveTransaction(ctx context.Context, txn domain.Transaction) error
	// AttachReceipt sets the rendered receipt on a just-inserted row. Exactly
	// one of the two artifact columns is written, selected by batteryBill.
	AttachReceipt(ctx context.Context, transactionID string, html string, batteryBill bool) error
	FindByReferenceNumber(ctx context.Context, referenceNumber string) (*domain.Transaction, error)
	// FindSettlementOf returns the paid-variant transaction referencing the
	// given original, or ErrNotFound when none exists.
	FindSettlementOf(ctx context.Context, originalReferenceNumber string) (*domain.Transaction, error)
}

// InventoryTxRepository locks and mutates inventory rows and their batches.
type InventoryTxRepository interface {
	// FindForUpdate fetches the inventory row under a row lock.
	FindForUpdate(ctx context.Context, productID, locationID string) (*domain.Inventory, error)
	UpdateStockLevels(ctx context.Context, inv domain.Inventory) error
	// FindActiveBatchesForUpdate returns eligible batches oldest purchase
	// date first, locked for update.
	FindActiveBatchesForUpdate(ctx context.Context, inventoryID string) ([]domain.Batch, error)
	UpdateBatchRemaining(ctx context.Context, batchID string, stockRemaining int) error
}

// SequenceTxRepository issues the next bill sequence for a key. The
// implementation must use an atomic increment-and-return, never a plain
// read-then-write.
type SequenceTxRepository interface {
	NextSequence(ctx context.Context, locationID string, txnType domain.TransactionType, month, year int) (int64, error)
}

// TransactionReadRepository is the pool-backed read surface used outside a
// unit of work.
type TransactionReadRepository interface {
	FindByReferenceNumber(ctx context.Context, referenceNumber string) (*domain.Transaction, error)
	ListByLocation(ctx context.Context, locationID string, since time.Time, limit int) ([]domain.Transaction, error)
}

// ProductRepository is the read-only catalogue lookup.
type ProductRepository interface {
	FindByIDs(ctx context.Context, productIDs []string) (map[string]domain.Product, error)
}

// UserRepository resolves cashier accounts for login.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
}
