package domain

import (
	"crypto/subtle"
	"time"

	"momo-ledger/pkg/apperror"
)

// Otp is a short-lived one-time code issued during registration and login.
type Otp struct {
	Code      string        `json:"code"`
	TTL       time.Duration `json:"ttl"`
	CreatedAt time.Time     `json:"created_at"`
}

// NewOtp creates a code valid for ttl starting at now.
func NewOtp(code string, ttl time.Duration, now time.Time) (Otp, error) {
	if code == "" {
		return Otp{}, apperror.Validation("OTP code cannot be blank")
	}
	if ttl <= 0 {
		return Otp{}, apperror.Validation("OTP ttl must be strictly positive")
	}
	return Otp{Code: code, TTL: ttl, CreatedAt: now}, nil
}

// IsExpired reports whether the code is past its lifetime at now.
func (o Otp) IsExpired(now time.Time) bool {
	return now.After(o.CreatedAt.Add(o.TTL))
}

// Matches compares codes in constant time.
func (o Otp) Matches(code string) bool {
	return subtle.ConstantTimeCompare([]byte(o.Code), []byte(code)) == 1
}
