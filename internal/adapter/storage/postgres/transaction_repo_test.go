package postgres

import (
	"context"
	"testing"

	"momo-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTransaction(t *testing.T) *domain.Transaction {
	t.Helper()
	amount := mustAmount(t, 100)
	txn := domain.NewTransaction(uuid.New(), uuid.New(), uuid.New(), domain.KindCashIn, "MOBILE_MONEY", amount)
	txn.AddOperation(domain.NewOperation(uuid.New(), domain.OperationDebit, amount, txn.FromAccountID))
	txn.AddOperation(domain.NewOperation(uuid.New(), domain.OperationCredit, amount, txn.ToAccountID))
	return txn
}

func TestTransactionRepo_Save(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	txn := newTestTransaction(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO transactions").
		WithArgs(txn.ID, txn.Number, txn.FromAccountID, txn.ToAccountID,
			string(txn.Kind), txn.PaymentMethod, txn.Amount.Value, txn.Amount.Currency,
			string(txn.State), txn.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	for _, op := range txn.Operations {
		mock.ExpectExec("INSERT INTO operations").
			WithArgs(op.ID, txn.ID, string(op.Kind), op.Amount.Value, op.Amount.Currency,
				op.AccountID, op.OccurredAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
	}

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Save(context.Background(), tx, txn)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	txn := newTestTransaction(t)

	txRow := pgxmock.NewRows([]string{
		"id", "number", "from_account_id", "to_account_id", "kind",
		"payment_method", "amount", "currency", "state", "created_at",
	}).AddRow(
		txn.ID, txn.Number, txn.FromAccountID, txn.ToAccountID, string(txn.Kind),
		txn.PaymentMethod, txn.Amount.Value, txn.Amount.Currency, string(txn.State), txn.CreatedAt,
	)
	opRows := pgxmock.NewRows([]string{"id", "kind", "amount", "currency", "account_id", "occurred_at"})
	for _, op := range txn.Operations {
		opRows.AddRow(op.ID, string(op.Kind), op.Amount.Value, op.Amount.Currency, op.AccountID, op.OccurredAt)
	}

	mock.ExpectQuery("SELECT .+ FROM transactions WHERE id").
		WithArgs(txn.ID).
		WillReturnRows(txRow)
	mock.ExpectQuery("SELECT .+ FROM operations WHERE transaction_id").
		WithArgs(txn.ID).
		WillReturnRows(opRows)

	result, err := repo.GetByID(context.Background(), txn.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, txn.Number, result.Number)
	assert.Equal(t, domain.StateInitialized, result.State)
	require.Len(t, result.Operations, 2)
	assert.True(t, result.Operations[0].Amount.Equal(txn.Amount))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	id := uuid.New()

	mock.ExpectQuery("SELECT .+ FROM transactions WHERE id").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "number", "from_account_id", "to_account_id", "kind",
			"payment_method", "amount", "currency", "state", "created_at",
		}))

	result, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}
