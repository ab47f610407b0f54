package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/kavindus/autoparts_pos_app/internal/apperrors"
	"github.com/kavindus/autoparts_pos_app/internal/core/domain"
	portsrepo "github.com/kavindus/autoparts_pos_app/internal/core/ports/repositories"
	portssvc "github.com/kavindus/autoparts_pos_app/internal/core/ports/services"
	"github.com/kavindus/autoparts_pos_app/internal/utils"
)

type authService struct {
	userRepo portsrepo.UserRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo portsrepo.UserRepository) portssvc.AuthSvcFacade {
	return &authService{userRepo: userRepo}
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)

// Login verifies cashier credentials. Unknown user and wrong password both
// return ErrValidation so the response does not leak which was wrong.
func (s *authService) Login(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid username or password", apperrors.ErrValidation)
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, fmt.Errorf("%w: invalid username or password", apperrors.ErrValidation)
	}
	return user, nil
}
