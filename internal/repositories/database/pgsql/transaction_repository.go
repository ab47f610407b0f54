package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kavindus/autoparts_pos_app/internal/apperrors"
	"github.com/kavindus/autoparts_pos_app/internal/core/domain"
	portsrepo "github.com/kavindus/autoparts_pos_app/internal/core/ports/repositories"
	"github.com/kavindus/autoparts_pos_app/internal/models"
	"github.com/kavindus/autoparts_pos_app/internal/utils/mapping"
)

const pgUniqueViolation = "23505"

// settlementGuardIndex is the partial unique index on
// original_reference_number for paid-variant types. A violation of it means
// a concurrent settlement won the race.
const settlementGuardIndex = "transactions_settlement_guard"

// PgxTransactionRepository reads and writes transaction rows. Bound to a
// pgx.Tx inside a unit of work, or to the pool for standalone reads.
type PgxTransactionRepository struct {
	db Queryer
}

// NewTransactionReadRepository creates the pool-backed read repository.
func NewTransactionReadRepository(pool *pgxpool.Pool) portsrepo.TransactionReadRepository {
	return &PgxTransactionRepository{db: pool}
}

var _ portsrepo.TransactionTxRepository = (*PgxTransactionRepository)(nil)
var _ portsrepo.TransactionReadRepository = (*PgxTransactionRepository)(nil)

const transactionColumns = `transaction_id, reference_number, location_id, shop_id, cashier_id, type,
	       total_amount, total_cost, items_sold, trade_ins, payment_method, car_plate_number,
	       receipt_html, battery_bill_html, original_reference_number, created_at`

// SaveTransaction inserts a ledger row. Unique violations on the settlement
// guard index map to ErrAlreadySettled; on the reference number, ErrConflict.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)

	itemsJSON, err := json.Marshal(m.ItemsSold)
	if err != nil {
		return apperrors.NewAppError(500, "failed to encode items for transaction "+m.TransactionID, err)
	}
	var tradeInsJSON []byte
	if len(m.TradeIns) > 0 {
		tradeInsJSON, err = json.Marshal(m.TradeIns)
		if err != nil {
			return apperrors.NewAppError(500, "failed to encode trade-ins for transaction "+m.TransactionID, err)
		}
	}

	query := `
		INSERT INTO transactions (
			transaction_id, reference_number, location_id, shop_id, cashier_id, type,
			total_amount, total_cost, items_sold, trade_ins, payment_method, car_plate_number,
			original_reference_number, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err = r.db.Exec(ctx, query,
		m.TransactionID,
		m.ReferenceNumber,
		m.LocationID,
		m.ShopID,
		m.CashierID,
		m.Type,
		m.TotalAmount,
		m.TotalCost,
		itemsJSON,
		tradeInsJSON,
		m.PaymentMethod,
		m.CarPlateNumber,
		m.OriginalReferenceNumber,
		m.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			if pgErr.ConstraintName == settlementGuardIndex {
				return apperrors.NewAppError(409, "settlement already exists for "+derefOrEmpty(m.OriginalReferenceNumber), apperrors.ErrAlreadySettled)
			}
			return apperrors.NewAppError(409, "duplicate reference number "+m.ReferenceNumber, apperrors.ErrConflict)
		}
		return apperrors.NewAppError(500, "failed to insert transaction "+m.TransactionID, err)
	}
	return nil
}

// AttachReceipt attaches the rendered artifact to a just-inserted row within
// the same unit of work. This is the only write a transaction row ever sees
// after creation.
func (r *PgxTransactionRepository) AttachReceipt(ctx context.Context, transactionID string, html string, batteryBill bool) error {
	column := "receipt_html"
	if batteryBill {
		column = "battery_bill_html"
	}
	cmdTag, err := r.db.Exec(ctx, `UPDATE transactions SET `+column+` = $2 WHERE transaction_id = $1;`, transactionID, html)
	if err != nil {
		return apperrors.NewAppError(500, "failed to attach receipt to transaction "+transactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("transaction " + transactionID + " not found for receipt attach")
	}
	return nil
}

// FindByReferenceNumber retrieves a transaction by its reference number.
func (r *PgxTransactionRepository) FindByReferenceNumber(ctx context.Context, referenceNumber string) (*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE reference_number = $1;
	`
	return r.scanOne(r.db.QueryRow(ctx, query, referenceNumber), "reference "+referenceNumber)
}

// FindSettlementOf returns the paid-variant transaction referencing the
// given original, or ErrNotFound.
func (r *PgxTransactionRepository) FindSettlementOf(ctx context.Context, originalReferenceNumber string) (*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE original_reference_number = $1 AND type IN ('ON_HOLD_PAID', 'CREDIT_PAID');
	`
	return r.scanOne(r.db.QueryRow(ctx, query, originalReferenceNumber), "settlement of "+originalReferenceNumber)
}

// ListByLocation retrieves recent transactions for a location, newest first.
func (r *PgxTransactionRepository) ListByLocation(ctx context.Context, locationID string, since time.Time, limit int) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE location_id = $1 AND created_at >= $2
		ORDER BY created_at DESC
		LIMIT $3;
	`
	rows, err := r.db.Query(ctx, query, locationID, since, limit)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query transactions for location "+locationID, err)
	}
	defer rows.Close()

	var results []models.Transaction
	for rows.Next() {
		m, err := scanTransactionRow(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan transaction row for location "+locationID, err)
		}
		results = append(results, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating transaction rows for location "+locationID, err)
	}
	return mapping.ToDomainTransactionSlice(results), nil
}

func (r *PgxTransactionRepository) scanOne(row pgx.Row, what string) (*domain.Transaction, error) {
	m, err := scanTransactionRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find transaction by "+what, err)
	}
	txn := mapping.ToDomainTransaction(m)
	return &txn, nil
}

// scanTransactionRow scans one row in transactionColumns order, decoding the
// JSONB item payloads.
func scanTransactionRow(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	var itemsJSON []byte
	var tradeInsJSON []byte

	err := row.Scan(
		&m.TransactionID,
		&m.ReferenceNumber,
		&m.LocationID,
		&m.ShopID,
		&m.CashierID,
		&m.Type,
		&m.TotalAmount,
		&m.TotalCost,
		&itemsJSON,
		&tradeInsJSON,
		&m.PaymentMethod,
		&m.CarPlateNumber,
		&m.ReceiptHTML,
		&m.BatteryBillHTML,
		&m.OriginalReferenceNumber,
		&m.CreatedAt,
	)
	if err != nil {
		return models.Transaction{}, err
	}

	if len(itemsJSON) > 0 {
		if err := json.Unmarshal(itemsJSON, &m.ItemsSold); err != nil {
			return models.Transaction{}, err
		}
	}
	if len(tradeInsJSON) > 0 {
		if err := json.Unmarshal(tradeInsJSON, &m.TradeIns); err != nil {
			return models.Transaction{}, err
		}
	}
	return m, nil
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
