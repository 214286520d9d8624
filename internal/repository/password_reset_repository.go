package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrResetTokenNotFound reports an unknown or already-consumed reset token.
var ErrResetTokenNotFound = errors.New("password reset token not found")

// PasswordResetRepository manages single-use password reset tokens. Tokens
// expire through the store's own TTL; no sweeper is needed.
type PasswordResetRepository interface {
	Save(ctx context.Context, token, email string, ttl time.Duration) error
	Consume(ctx context.Context, token string) (string, error)
}

type passwordResetRepository struct {
	client *redis.Client
}

// NewPasswordResetRepository returns a Redis-backed implementation.
func NewPasswordResetRepository(client *redis.Client) PasswordResetRepository {
	return &passwordResetRepository{client: client}
}

const resetKeyPrefix = "password_reset:"

func (r *passwordResetRepository) Save(ctx context.Context, token, email string, ttl time.Duration) error {
	return r.client.Set(ctx, resetKeyPrefix+token, email, ttl).Err()
}

// Consume returns the email bound to the token and deletes it atomically, so
// a token can only ever be redeemed once.
func (r *passwordResetRepository) Consume(ctx context.Context, token string) (string, error) {
	email, err := r.client.GetDel(ctx, resetKeyPrefix+token).Result()
	if err == redis.Nil {
		return "", ErrResetTokenNotFound
	}
	if err != nil {
		return "", err
	}
	return email, nil
}
