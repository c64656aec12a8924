package ports

import (
	"context"
	"time"

	"momo-ledger/internal/core/domain"

	"github.com/google/uuid"
)

// ProviderGateway is the external settlement system (mobile-money network).
// Each call returns nil or a provider-level failure
// (apperror.CodeProviderFailure); any other error is not compensated and
// propagates.
type ProviderGateway interface {
	Credit(ctx context.Context, amount domain.Amount, paymentMethod string) error
	Debit(ctx context.Context, amount domain.Amount, paymentMethod string) error
	Send(ctx context.Context, amount domain.Amount, paymentMethod string) error
}

// PinHasher hashes and verifies customer PINs.
type PinHasher interface {
	Hash(rawPin string) (string, error)
	Verify(rawPin string, hash string) (bool, error)
}

// TokenPair is an access/refresh JWT pair.
type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	UserID uuid.UUID
	Email  string
}

// TokenService issues and validates JWT token pairs.
type TokenService interface {
	GeneratePair(user *domain.User) (*TokenPair, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// OtpStore keeps one-time codes until they expire or are consumed.
// Get returns nil, nil for a missing or expired code.
type OtpStore interface {
	Save(ctx context.Context, key string, otp domain.Otp) error
	Get(ctx context.Context, key string) (*domain.Otp, error)
	Delete(ctx context.Context, key string) error
}

// Mailer delivers transactional mail (OTP codes).
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// --- Service Ports (Business Logic) ---

// CashInCommand is a validated cash-in request.
type CashInCommand struct {
	CustomerID    uuid.UUID
	RawPin        string
	Amount        domain.Amount
	PaymentMethod string
}

// CashOutCommand is a validated cash-out request.
type CashOutCommand struct {
	CustomerID    uuid.UUID
	RawPin        string
	Amount        domain.Amount
	PaymentMethod string
}

// TransferCommand is a validated peer-transfer request. The recipient is
// addressed by full phone number.
type TransferCommand struct {
	CustomerID    uuid.UUID
	RawPin        string
	Amount        domain.Amount
	PaymentMethod string
	ToPhoneNumber string
}

// PaymentService orchestrates a full payment use case around the ledger and
// the settlement provider. Provider failures are absorbed: the returned
// transaction is then in state Failed with compensating legs.
type PaymentService interface {
	CashIn(ctx context.Context, cmd CashInCommand) (*domain.Transaction, error)
	CashOut(ctx context.Context, cmd CashOutCommand) (*domain.Transaction, error)
	Transfer(ctx context.Context, cmd TransferCommand) (*domain.Transaction, error)
}

// RegisterCommand holds input for customer registration.
type RegisterCommand struct {
	FullName    string
	Email       string
	PhonePrefix string
	PhoneNumber string
	RawPin      string
}

// RegisterResult is returned once, after a successful registration.
type RegisterResult struct {
	CustomerID    uuid.UUID
	AccountNumber string
}

// AuthService defines authentication business logic.
type AuthService interface {
	ValidatePin(ctx context.Context, customerID uuid.UUID, rawPin string) error
	Register(ctx context.Context, cmd RegisterCommand) (*RegisterResult, error)
	VerifyOtp(ctx context.Context, email, code string) error
	Login(ctx context.Context, email, rawPin string) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
}
