package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/task-service/internal/domain"
	"github.com/spec-kit/task-service/internal/repository"
	"github.com/spec-kit/task-service/pkg/util"
)

// UserService covers profile management outside the auth flows.
type UserService struct {
	users repository.UserRepository
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// ProfileUpdateInput describes mutable profile fields. Nil fields are left as-is.
type ProfileUpdateInput struct {
	FirstName *string
	LastName  *string
	Email     *string
}

// UpdateProfile updates the caller's own profile. Changing the email changes
// the authentication subject; previously issued tokens stop resolving.
func (s *UserService) UpdateProfile(ctx context.Context, currentEmail string, input ProfileUpdateInput) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, currentEmail)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("user", map[string]any{"email": currentEmail})
		}
		return nil, err
	}

	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Email != nil {
		user.Email = *input.Email
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, util.NewDuplicateEmail()
		}
		return nil, err
	}
	return user, nil
}

// ListEmails returns all registered account emails.
func (s *UserService) ListEmails(ctx context.Context) ([]string, error) {
	return s.users.ListEmails(ctx)
}
