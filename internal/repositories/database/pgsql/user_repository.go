package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kavindus/autoparts_pos_app/internal/apperrors"
	"github.com/kavindus/autoparts_pos_app/internal/core/domain"
	portsrepo "github.com/kavindus/autoparts_pos_app/internal/core/ports/repositories"
	"github.com/kavindus/autoparts_pos_app/internal/models"
	"github.com/kavindus/autoparts_pos_app/internal/utils/mapping"
)

// PgxUserRepository resolves cashier accounts.
type PgxUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a UserRepository backed by the pool.
func NewUserRepository(pool *pgxpool.Pool) portsrepo.UserRepository {
	return &PgxUserRepository{pool: pool}
}

var _ portsrepo.UserRepository = (*PgxUserRepository)(nil)

func (r *PgxUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `
		SELECT user_id, username, name, password_hash, role, created_at
		FROM users
		WHERE username = $1;
	`
	var m models.User
	err := r.pool.QueryRow(ctx, query, username).Scan(
		&m.UserID,
		&m.Username,
		&m.Name,
		&m.PasswordHash,
		&m.Role,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find user "+username, err)
	}
	user := mapping.ToDomainUser(m)
	return &user, nil
}
