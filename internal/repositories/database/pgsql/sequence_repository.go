package pgsql

import (
	"context"

	"github.com/kavindus/autoparts_pos_app/internal/apperrors"
	"github.com/kavindus/autoparts_pos_app/internal/core/domain"
	portsrepo "github.com/kavindus/autoparts_pos_app/internal/core/ports/repositories"
)

// PgxSequenceRepository issues bill sequence numbers. Only ever used
// transaction-bound so the increment commits or rolls back with the caller.
type PgxSequenceRepository struct {
	db Queryer
}

var _ portsrepo.SequenceTxRepository = (*PgxSequenceRepository)(nil)

// NextSequence atomically creates-or-increments the counter for the key and
// returns the new value. The upsert is a single statement, never a
// read-then-write, so concurrent checkouts serialize on the row.
func (r *PgxSequenceRepository) NextSequence(ctx context.Context, locationID string, txnType domain.TransactionType, month, year int) (int64, error) {
	query := `
		INSERT INTO bill_sequences (transaction_type, month, year, location_id, current_sequence)
		VALUES ($1, $2, $3, $4, 1)
		ON CONFLICT (transaction_type, month, year, location_id)
		DO UPDATE SET current_sequence = bill_sequences.current_sequence + 1
		RETURNING current_sequence;
	`
	var seq int64
	err := r.db.QueryRow(ctx, query, string(txnType), month, year, locationID).Scan(&seq)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to advance bill sequence for "+locationID+"/"+string(txnType), err)
	}
	return seq, nil
}
