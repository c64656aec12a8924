package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"momo-ledger/config"
	"momo-ledger/internal/core/domain"
	"momo-ledger/internal/core/ports"
	"momo-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AuthServiceImpl implements ports.AuthService.
type AuthServiceImpl struct {
	customerRepo ports.CustomerRepository
	accountRepo  ports.AccountRepository
	pinHasher    ports.PinHasher
	tokenSvc     ports.TokenService
	otpStore     ports.OtpStore
	mailer       ports.Mailer
	otpCfg       config.OtpConfig
	ledgerCfg    config.LedgerConfig
	log          zerolog.Logger
}

// NewAuthService creates a new AuthServiceImpl.
func NewAuthService(
	customerRepo ports.CustomerRepository,
	accountRepo ports.AccountRepository,
	pinHasher ports.PinHasher,
	tokenSvc ports.TokenService,
	otpStore ports.OtpStore,
	mailer ports.Mailer,
	otpCfg config.OtpConfig,
	ledgerCfg config.LedgerConfig,
	log zerolog.Logger,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		customerRepo: customerRepo,
		accountRepo:  accountRepo,
		pinHasher:    pinHasher,
		tokenSvc:     tokenSvc,
		otpStore:     otpStore,
		mailer:       mailer,
		otpCfg:       otpCfg,
		ledgerCfg:    ledgerCfg,
		log:          log,
	}
}

// ValidatePin checks the payer exists, is not suspended and presented the
// correct PIN. Called at the top of every payment use case.
func (s *AuthServiceImpl) ValidatePin(ctx context.Context, customerID uuid.UUID, rawPin string) error {
	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return apperror.ErrDatabaseError(fmt.Errorf("find customer: %w", err))
	}
	if customer == nil {
		return apperror.ErrNotFound("customer")
	}
	if customer.IsSuspended() {
		return apperror.ErrCustomerSuspended("customer account is suspended")
	}

	valid, err := s.pinHasher.Verify(rawPin, customer.HashedPin)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("verify pin: %w", err))
	}
	if !valid {
		return apperror.ErrInvalidPin()
	}
	return nil
}

// Register creates the customer, their wallet account and sends a one-time
// code to the registered email address.
func (s *AuthServiceImpl) Register(ctx context.Context, cmd ports.RegisterCommand) (*ports.RegisterResult, error) {
	existing, err := s.customerRepo.GetByEmail(ctx, cmd.Email)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("check email: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrEmailExists()
	}

	user, err := domain.NewUser(uuid.New(), cmd.FullName, cmd.Email, domain.RoleCustomer)
	if err != nil {
		return nil, err
	}
	phone, err := domain.NewPhoneNumber(cmd.PhonePrefix, cmd.PhoneNumber)
	if err != nil {
		return nil, err
	}

	hashedPin, err := s.pinHasher.Hash(cmd.RawPin)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("hash pin: %w", err))
	}

	customer, err := domain.NewCustomer(*user, phone, hashedPin)
	if err != nil {
		return nil, err
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("create customer: %w", err))
	}

	account := domain.NewCustomerAccount(uuid.New(), customer.ID(), s.ledgerCfg.Currency)
	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("create account: %w", err))
	}

	if err := s.sendOtp(ctx, cmd.Email); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("customer_id", customer.ID().String()).
		Str("account_number", account.Number).
		Msg("customer registered")

	return &ports.RegisterResult{
		CustomerID:    customer.ID(),
		AccountNumber: account.Number,
	}, nil
}

// VerifyOtp consumes the one-time code delivered at registration.
func (s *AuthServiceImpl) VerifyOtp(ctx context.Context, email, code string) error {
	key := otpKey(email)
	otp, err := s.otpStore.Get(ctx, key)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("load otp: %w", err))
	}
	if otp == nil {
		return apperror.ErrOtpExpired("code has expired or was never issued")
	}
	if otp.IsExpired(time.Now().UTC()) {
		return apperror.ErrOtpExpired("code has expired")
	}
	if !otp.Matches(code) {
		return apperror.ErrInvalidOtp()
	}

	if err := s.otpStore.Delete(ctx, key); err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("failed to delete consumed otp")
	}
	return nil
}

// Login validates email and PIN and issues a token pair.
func (s *AuthServiceImpl) Login(ctx context.Context, email, rawPin string) (*ports.TokenPair, error) {
	customer, err := s.customerRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("find customer: %w", err))
	}
	if customer == nil {
		return nil, apperror.ErrInvalidPin()
	}
	if customer.IsSuspended() {
		return nil, apperror.ErrCustomerSuspended("customer account is suspended")
	}

	valid, err := s.pinHasher.Verify(rawPin, customer.HashedPin)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("verify pin: %w", err))
	}
	if !valid {
		return nil, apperror.ErrInvalidPin()
	}

	pair, err := s.tokenSvc.GeneratePair(&customer.User)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("generate tokens: %w", err))
	}
	return pair, nil
}

// Refresh exchanges a valid refresh token for a fresh pair.
func (s *AuthServiceImpl) Refresh(ctx context.Context, refreshToken string) (*ports.TokenPair, error) {
	claims, err := s.tokenSvc.Validate(refreshToken)
	if err != nil {
		return nil, apperror.ErrInvalidToken()
	}

	customer, err := s.customerRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("find customer: %w", err))
	}
	if customer == nil {
		return nil, apperror.ErrInvalidToken()
	}
	if customer.IsSuspended() {
		return nil, apperror.ErrCustomerSuspended("customer account is suspended")
	}

	pair, err := s.tokenSvc.GeneratePair(&customer.User)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("generate tokens: %w", err))
	}
	return pair, nil
}

// sendOtp issues a fresh code, stores it under the email key and mails it.
func (s *AuthServiceImpl) sendOtp(ctx context.Context, email string) error {
	code, err := generateOtpCode()
	if err != nil {
		return apperror.InternalError(fmt.Errorf("generate otp: %w", err))
	}
	otp, err := domain.NewOtp(code, s.otpCfg.TTL, time.Now().UTC())
	if err != nil {
		return apperror.InternalError(fmt.Errorf("build otp: %w", err))
	}
	if err := s.otpStore.Save(ctx, otpKey(email), otp); err != nil {
		return apperror.InternalError(fmt.Errorf("store otp: %w", err))
	}

	body := fmt.Sprintf("Your verification code is %s. It expires in %s.", code, s.otpCfg.TTL)
	if err := s.mailer.Send(ctx, email, "Verify your account", body); err != nil {
		return apperror.InternalError(fmt.Errorf("send otp mail: %w", err))
	}
	return nil
}

func otpKey(email string) string {
	return "otp:" + email
}

// generateOtpCode produces a random 6-digit code.
func generateOtpCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
