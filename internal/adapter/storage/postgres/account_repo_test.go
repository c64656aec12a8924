package postgres

import (
	"context"
	"testing"

	"momo-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func accountColumnsList() []string {
	return []string{"id", "number", "kind", "owner_id", "currency", "balance", "blocked"}
}

func accountRow(a *domain.Account) *pgxmock.Rows {
	return pgxmock.NewRows(accountColumnsList()).AddRow(
		a.ID, a.Number, string(a.Type.Kind), a.Type.OwnerID,
		a.Balance.Amount.Currency, a.Balance.Amount.Value, a.Blocked,
	)
}

func TestAccountRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAccountRepo(mock)
	a := domain.NewCustomerAccount(uuid.New(), uuid.New(), "XOF")

	mock.ExpectExec("INSERT INTO accounts").
		WithArgs(a.ID, a.Number, string(a.Type.Kind), a.Type.OwnerID,
			"XOF", a.Balance.Amount.Value, false).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Create(context.Background(), a)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepo_GetByCustomerID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAccountRepo(mock)
	customerID := uuid.New()
	a := domain.NewCustomerAccount(uuid.New(), customerID, "XOF")
	require.NoError(t, a.Credit(mustAmount(t, 250)))

	mock.ExpectQuery("SELECT .+ FROM accounts WHERE kind").
		WithArgs(string(domain.AccountKindCustomer), customerID.String()).
		WillReturnRows(accountRow(a))

	result, err := repo.GetByCustomerID(context.Background(), customerID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, a.ID, result.ID)
	assert.True(t, result.Balance.Amount.Equal(mustAmount(t, 250)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepo_GetByCustomerID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAccountRepo(mock)
	customerID := uuid.New()

	mock.ExpectQuery("SELECT .+ FROM accounts WHERE kind").
		WithArgs(string(domain.AccountKindCustomer), customerID.String()).
		WillReturnRows(pgxmock.NewRows(accountColumnsList()))

	result, err := repo.GetByCustomerID(context.Background(), customerID)
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepo_GetFloatByProviderID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAccountRepo(mock)
	a := domain.NewFloatAccount(uuid.New(), "provider-system-001", "XOF")

	mock.ExpectQuery("SELECT .+ FROM accounts WHERE kind").
		WithArgs(string(domain.AccountKindFloat), "provider-system-001").
		WillReturnRows(accountRow(a))

	result, err := repo.GetFloatByProviderID(context.Background(), "provider-system-001")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsFloat())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepo_Save(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAccountRepo(mock)
	a := domain.NewCustomerAccount(uuid.New(), uuid.New(), "XOF")
	require.NoError(t, a.Credit(mustAmount(t, 75)))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE accounts SET balance").
		WithArgs(a.Balance.Amount.Value, false, a.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Save(context.Background(), tx, a)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func mustAmount(t *testing.T, value int64) domain.Amount {
	t.Helper()
	amount, err := domain.NewAmount(decimal.NewFromInt(value), "XOF")
	require.NoError(t, err)
	return amount
}
