package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kavindus/autoparts_pos_app/internal/apperrors"
	portsrepo "github.com/kavindus/autoparts_pos_app/internal/core/ports/repositories"
)

// PgxTxManager runs processor operations inside a single database
// transaction. All repository facades handed to fn share that transaction,
// so either everything commits or nothing does.
type PgxTxManager struct {
	pool *pgxpool.Pool
}

// NewTxManager creates a TxManager backed by the given pool.
func NewTxManager(pool *pgxpool.Pool) portsrepo.TxManager {
	return &PgxTxManager{pool: pool}
}

var _ portsrepo.TxManager = (*PgxTxManager)(nil)

func (m *PgxTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context, uow portsrepo.UnitOfWork) error) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: failed to begin transaction: %v", apperrors.ErrStorageUnavailable, err)
	}
	// Rollback after a successful commit returns ErrTxClosed, which is fine.
	defer func() { _ = tx.Rollback(ctx) }()

	uow := &pgxUnitOfWork{tx: tx}
	if err := fn(ctx, uow); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: failed to commit transaction: %v", apperrors.ErrStorageUnavailable, err)
	}
	return nil
}

// pgxUnitOfWork hands out repository facades bound to one pgx.Tx.
type pgxUnitOfWork struct {
	tx pgx.Tx
}

var _ portsrepo.UnitOfWork = (*pgxUnitOfWork)(nil)

func (u *pgxUnitOfWork) Transactions() portsrepo.TransactionTxRepository {
	return &PgxTransactionRepository{db: u.tx}
}

func (u *pgxUnitOfWork) Inventory() portsrepo.InventoryTxRepository {
	return &PgxInventoryRepository{db: u.tx}
}

func (u *pgxUnitOfWork) Sequences() portsrepo.SequenceTxRepository {
	return &PgxSequenceRepository{db: u.tx}
}
