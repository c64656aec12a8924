package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"momo-ledger/config"
	"momo-ledger/internal/core/domain"
	"momo-ledger/internal/core/ports"
	"momo-ledger/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type authTestDeps struct {
	svc          *AuthServiceImpl
	customerRepo *mocks.MockCustomerRepository
	accountRepo  *mocks.MockAccountRepository
	pinHasher    *mocks.MockPinHasher
	tokenSvc     *mocks.MockTokenService
	otpStore     *mocks.MockOtpStore
	mailer       *mocks.MockMailer
	ctrl         *gomock.Controller
}

func setupAuthService(t *testing.T) *authTestDeps {
	ctrl := gomock.NewController(t)
	d := &authTestDeps{
		customerRepo: mocks.NewMockCustomerRepository(ctrl),
		accountRepo:  mocks.NewMockAccountRepository(ctrl),
		pinHasher:    mocks.NewMockPinHasher(ctrl),
		tokenSvc:     mocks.NewMockTokenService(ctrl),
		otpStore:     mocks.NewMockOtpStore(ctrl),
		mailer:       mocks.NewMockMailer(ctrl),
		ctrl:         ctrl,
	}
	d.svc = NewAuthService(
		d.customerRepo, d.accountRepo, d.pinHasher, d.tokenSvc, d.otpStore, d.mailer,
		config.OtpConfig{TTL: 5 * time.Minute},
		config.LedgerConfig{FloatProviderID: testFloatProviderID, Currency: "XOF"},
		zerolog.Nop(),
	)
	return d
}

// ==================== ValidatePin Tests ====================

func TestAuthService_ValidatePin_Success(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	customer := testCustomer(t, "alice@example.com", "+229", "97000010")

	d.customerRepo.EXPECT().GetByID(ctx, customer.ID()).Return(customer, nil)
	d.pinHasher.EXPECT().Verify("1234", customer.HashedPin).Return(true, nil)

	err := d.svc.ValidatePin(ctx, customer.ID(), "1234")
	require.NoError(t, err)
}

func TestAuthService_ValidatePin_WrongPin(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	customer := testCustomer(t, "bob@example.com", "+229", "97000011")

	d.customerRepo.EXPECT().GetByID(ctx, customer.ID()).Return(customer, nil)
	d.pinHasher.EXPECT().Verify("0000", customer.HashedPin).Return(false, nil)

	err := d.svc.ValidatePin(ctx, customer.ID(), "0000")
	assertAppError(t, err, "AUTH_001")
}

func TestAuthService_ValidatePin_SuspendedCustomer(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	customer := testCustomer(t, "carol@example.com", "+229", "97000012")
	customer.User.Suspend()

	d.customerRepo.EXPECT().GetByID(ctx, customer.ID()).Return(customer, nil)

	err := d.svc.ValidatePin(ctx, customer.ID(), "1234")
	assertAppError(t, err, "ACC_004")
}

func TestAuthService_ValidatePin_UnknownCustomer(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	customerID := uuid.New()

	d.customerRepo.EXPECT().GetByID(ctx, customerID).Return(nil, nil)

	err := d.svc.ValidatePin(ctx, customerID, "1234")
	assertAppError(t, err, "ACC_001")
}

// ==================== Register Tests ====================

func TestAuthService_Register_Success(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	cmd := ports.RegisterCommand{
		FullName:    "Dora Mensah",
		Email:       "dora@example.com",
		PhonePrefix: "+229",
		PhoneNumber: "97000013",
		RawPin:      "1234",
	}

	d.customerRepo.EXPECT().GetByEmail(ctx, "dora@example.com").Return(nil, nil)
	d.pinHasher.EXPECT().Hash("1234").Return("$argon2id$hashed", nil)
	d.customerRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
	d.accountRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
	d.otpStore.EXPECT().Save(ctx, "otp:dora@example.com", gomock.Any()).Return(nil)
	d.mailer.EXPECT().Send(ctx, "dora@example.com", gomock.Any(), gomock.Any()).Return(nil)

	result, err := d.svc.Register(ctx, cmd)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.NotEqual(t, uuid.Nil, result.CustomerID)
	assert.True(t, strings.HasPrefix(result.AccountNumber, "ACC-"))
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	existing := testCustomer(t, "taken@example.com", "+229", "97000014")

	d.customerRepo.EXPECT().GetByEmail(ctx, "taken@example.com").Return(existing, nil)

	result, err := d.svc.Register(ctx, ports.RegisterCommand{
		FullName:    "Someone Else",
		Email:       "taken@example.com",
		PhonePrefix: "+229",
		PhoneNumber: "97000015",
		RawPin:      "1234",
	})
	assert.Nil(t, result)
	assertAppError(t, err, "AUTH_005")
}

func TestAuthService_Register_InvalidPhone(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.customerRepo.EXPECT().GetByEmail(ctx, "eve@example.com").Return(nil, nil)

	result, err := d.svc.Register(ctx, ports.RegisterCommand{
		FullName:    "Eve",
		Email:       "eve@example.com",
		PhonePrefix: "229", // missing leading +
		PhoneNumber: "97000016",
		RawPin:      "1234",
	})
	assert.Nil(t, result)
	assertAppError(t, err, "VAL_003")
}

// ==================== VerifyOtp Tests ====================

func TestAuthService_VerifyOtp_Success(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	otp, err := domain.NewOtp("482913", 5*time.Minute, time.Now().UTC())
	require.NoError(t, err)

	d.otpStore.EXPECT().Get(ctx, "otp:frank@example.com").Return(&otp, nil)
	d.otpStore.EXPECT().Delete(ctx, "otp:frank@example.com").Return(nil)

	require.NoError(t, d.svc.VerifyOtp(ctx, "frank@example.com", "482913"))
}

func TestAuthService_VerifyOtp_ExpiredOrMissing(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.otpStore.EXPECT().Get(ctx, "otp:gone@example.com").Return(nil, nil)

	err := d.svc.VerifyOtp(ctx, "gone@example.com", "482913")
	assertAppError(t, err, "AUTH_003")
}

func TestAuthService_VerifyOtp_WrongCode(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	otp, err := domain.NewOtp("482913", 5*time.Minute, time.Now().UTC())
	require.NoError(t, err)

	d.otpStore.EXPECT().Get(ctx, "otp:henri@example.com").Return(&otp, nil)

	err = d.svc.VerifyOtp(ctx, "henri@example.com", "000000")
	assertAppError(t, err, "AUTH_004")
}

// ==================== Login Tests ====================

func TestAuthService_Login_Success(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	customer := testCustomer(t, "ines@example.com", "+229", "97000017")
	pair := &ports.TokenPair{AccessToken: "access", RefreshToken: "refresh"}

	d.customerRepo.EXPECT().GetByEmail(ctx, "ines@example.com").Return(customer, nil)
	d.pinHasher.EXPECT().Verify("1234", customer.HashedPin).Return(true, nil)
	d.tokenSvc.EXPECT().GeneratePair(&customer.User).Return(pair, nil)

	result, err := d.svc.Login(ctx, "ines@example.com", "1234")
	require.NoError(t, err)
	assert.Equal(t, "access", result.AccessToken)
	assert.Equal(t, "refresh", result.RefreshToken)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.customerRepo.EXPECT().GetByEmail(ctx, "nobody@example.com").Return(nil, nil)

	result, err := d.svc.Login(ctx, "nobody@example.com", "1234")
	assert.Nil(t, result)
	assertAppError(t, err, "AUTH_001")
}

func TestAuthService_Login_WrongPin(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	customer := testCustomer(t, "jules@example.com", "+229", "97000018")

	d.customerRepo.EXPECT().GetByEmail(ctx, "jules@example.com").Return(customer, nil)
	d.pinHasher.EXPECT().Verify("0000", customer.HashedPin).Return(false, nil)

	result, err := d.svc.Login(ctx, "jules@example.com", "0000")
	assert.Nil(t, result)
	assertAppError(t, err, "AUTH_001")
}

// ==================== Refresh Tests ====================

func TestAuthService_Refresh_Success(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	customer := testCustomer(t, "karl@example.com", "+229", "97000019")
	pair := &ports.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh"}

	d.tokenSvc.EXPECT().Validate("old-refresh").
		Return(&ports.TokenClaims{UserID: customer.ID(), Email: customer.User.Email}, nil)
	d.customerRepo.EXPECT().GetByID(ctx, customer.ID()).Return(customer, nil)
	d.tokenSvc.EXPECT().GeneratePair(&customer.User).Return(pair, nil)

	result, err := d.svc.Refresh(ctx, "old-refresh")
	require.NoError(t, err)
	assert.Equal(t, "new-access", result.AccessToken)
}

func TestAuthService_Refresh_InvalidToken(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	d.tokenSvc.EXPECT().Validate("garbage").Return(nil, assert.AnError)

	result, err := d.svc.Refresh(context.Background(), "garbage")
	assert.Nil(t, result)
	assertAppError(t, err, "AUTH_002")
}
