package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrOTPNotFound is returned when no passcode exists for the email, either
// because none was issued or because it expired.
var ErrOTPNotFound = errors.New("otp not found")

// OTPStore keeps one-time passcodes keyed by email with a TTL. Backing it
// with Redis keeps the codes shared across instances and expiring without a
// sweeper.
type OTPStore interface {
	Set(ctx context.Context, email, code string, ttl time.Duration) error
	Get(ctx context.Context, email string) (string, error)
	Delete(ctx context.Context, email string) error
}

type redisOTPStore struct {
	client *redis.Client
}

// NewOTPStore returns a Redis-backed implementation.
func NewOTPStore(client *redis.Client) OTPStore {
	return &redisOTPStore{client: client}
}

func otpKey(email string) string {
	return "otp:" + email
}

func (s *redisOTPStore) Set(ctx context.Context, email, code string, ttl time.Duration) error {
	return s.client.Set(ctx, otpKey(email), code, ttl).Err()
}

func (s *redisOTPStore) Get(ctx context.Context, email string) (string, error) {
	code, err := s.client.Get(ctx, otpKey(email)).Result()
	if err == redis.Nil {
		return "", ErrOTPNotFound
	}
	if err != nil {
		return "", err
	}
	return code, nil
}

func (s *redisOTPStore) Delete(ctx context.Context, email string) error {
	return s.client.Del(ctx, otpKey(email)).Err()
}
