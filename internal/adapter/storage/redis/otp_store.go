package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"momo-ledger/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
)

// OtpStore implements ports.OtpStore using Redis. Codes expire server-side
// through the key TTL; the stored CreatedAt still lets the domain re-check
// expiry against its own clock.
type OtpStore struct {
	client *goredis.Client
}

// NewOtpStore creates a new Redis-backed OTP store.
func NewOtpStore(client *goredis.Client) *OtpStore {
	return &OtpStore{client: client}
}

type otpRecord struct {
	Code      string        `json:"code"`
	TTL       time.Duration `json:"ttl"`
	CreatedAt time.Time     `json:"created_at"`
}

// Save stores the code under key until its TTL elapses.
func (s *OtpStore) Save(ctx context.Context, key string, otp domain.Otp) error {
	payload, err := json.Marshal(otpRecord{Code: otp.Code, TTL: otp.TTL, CreatedAt: otp.CreatedAt})
	if err != nil {
		return fmt.Errorf("marshal otp: %w", err)
	}
	if err := s.client.Set(ctx, key, payload, otp.TTL).Err(); err != nil {
		return fmt.Errorf("redis otp set: %w", err)
	}
	return nil
}

// Get retrieves a stored code. Returns nil, nil when the key is missing or
// has expired.
func (s *OtpStore) Get(ctx context.Context, key string) (*domain.Otp, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis otp get: %w", err)
	}

	var rec otpRecord
	if err := json.Unmarshal(val, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal otp: %w", err)
	}
	return &domain.Otp{Code: rec.Code, TTL: rec.TTL, CreatedAt: rec.CreatedAt}, nil
}

// Delete removes a consumed code.
func (s *OtpStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis otp delete: %w", err)
	}
	return nil
}
