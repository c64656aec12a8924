package domain

import (
	"testing"

	"momo-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ledgerFixture struct {
	ledger   Ledger
	customer *Account
	float    *Account
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	return &ledgerFixture{
		ledger:   NewLedger(uuid.New()),
		customer: NewCustomerAccount(uuid.New(), uuid.New(), "XOF"),
		float:    NewFloatAccount(uuid.New(), "provider-system-001", "XOF"),
	}
}

func requireBalanced(t *testing.T, tx *Transaction) {
	t.Helper()
	debit, err := tx.SumOperations(OperationDebit)
	require.NoError(t, err)
	credit, err := tx.SumOperations(OperationCredit)
	require.NoError(t, err)
	assert.True(t, debit.Equal(credit), "debit %s != credit %s", debit, credit)
}

func TestLedger_CashIn(t *testing.T) {
	f := newLedgerFixture(t)

	tx, err := f.ledger.CashIn(f.customer, f.float, xof(10000), "MOBILE_MONEY")
	require.NoError(t, err)

	assert.Equal(t, StateInitialized, tx.State)
	assert.Equal(t, KindCashIn, tx.Kind)
	assert.Equal(t, f.float.ID, tx.FromAccountID, "cash-in flows float -> customer")
	assert.Equal(t, f.customer.ID, tx.ToAccountID)

	require.Len(t, tx.Operations, 2)
	assert.Equal(t, OperationDebit, tx.Operations[0].Kind)
	assert.Equal(t, f.float.ID, tx.Operations[0].AccountID)
	assert.Equal(t, OperationCredit, tx.Operations[1].Kind)
	assert.Equal(t, f.customer.ID, tx.Operations[1].AccountID)
	requireBalanced(t, tx)
}

func TestLedger_CashIn_NonPositiveAmount(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := f.ledger.CashIn(f.customer, f.float, xof(0), "MOBILE_MONEY")
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, "VAL_002"))
}

func TestLedger_CashIn_BlockedAccount(t *testing.T) {
	f := newLedgerFixture(t)
	f.customer.Block()

	_, err := f.ledger.CashIn(f.customer, f.float, xof(100), "MOBILE_MONEY")
	assert.True(t, apperror.IsCode(err, "ACC_003"))
}

func TestLedger_CashIn_DoesNotTouchBalances(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := f.ledger.CashIn(f.customer, f.float, xof(10000), "MOBILE_MONEY")
	require.NoError(t, err)

	assert.True(t, f.customer.Balance.Amount.Equal(xof(0)),
		"the ledger builds bookkeeping, only the orchestrator mutates balances")
}

func TestLedger_CashOut(t *testing.T) {
	f := newLedgerFixture(t)
	require.NoError(t, f.customer.Credit(xof(10000)))

	tx, err := f.ledger.CashOut(f.customer, f.float, xof(5000), "MOBILE_MONEY")
	require.NoError(t, err)

	assert.Equal(t, KindCashOut, tx.Kind)
	assert.Equal(t, f.customer.ID, tx.FromAccountID, "cash-out flows customer -> float")
	assert.Equal(t, f.float.ID, tx.ToAccountID)

	require.Len(t, tx.Operations, 2)
	assert.Equal(t, OperationDebit, tx.Operations[0].Kind)
	assert.Equal(t, f.customer.ID, tx.Operations[0].AccountID)
	requireBalanced(t, tx)
}

func TestLedger_CashOut_InsufficientFunds(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := f.ledger.CashOut(f.customer, f.float, xof(5000), "MOBILE_MONEY")
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, "ACC_002"))
}

func TestLedger_CashOut_CurrencyMismatchIsNotInsufficientFunds(t *testing.T) {
	f := newLedgerFixture(t)
	eur, _ := NewAmount(decimal.NewFromInt(10), "EUR")

	_, err := f.ledger.CashOut(f.customer, f.float, eur, "MOBILE_MONEY")
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, "ACC_005"),
		"sufficiency check against a foreign currency is a currency error")
}

func TestLedger_Transfer(t *testing.T) {
	f := newLedgerFixture(t)
	to := NewCustomerAccount(uuid.New(), uuid.New(), "XOF")
	require.NoError(t, f.customer.Credit(xof(8000)))

	tx, err := f.ledger.Transfer(f.customer, to, xof(5000), "MOBILE_MONEY")
	require.NoError(t, err)

	assert.Equal(t, KindTransfer, tx.Kind)
	assert.Equal(t, f.customer.ID, tx.FromAccountID)
	assert.Equal(t, to.ID, tx.ToAccountID)
	requireBalanced(t, tx)
}

func TestLedger_Transfer_SelfTransferRejectedFirst(t *testing.T) {
	f := newLedgerFixture(t)
	// Even blocked + unfunded: the self-transfer check fires before any other.
	f.customer.Block()

	_, err := f.ledger.Transfer(f.customer, f.customer, xof(5000), "MOBILE_MONEY")
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, "TRX_001"))
}

func TestLedger_Transfer_SenderSufficiency(t *testing.T) {
	f := newLedgerFixture(t)
	to := NewCustomerAccount(uuid.New(), uuid.New(), "XOF")

	_, err := f.ledger.Transfer(f.customer, to, xof(5000), "MOBILE_MONEY")
	assert.True(t, apperror.IsCode(err, "ACC_002"))
}

func TestLedger_Transfer_CurrencyMismatchIsNotInsufficientFunds(t *testing.T) {
	f := newLedgerFixture(t)
	to := NewCustomerAccount(uuid.New(), uuid.New(), "XOF")
	require.NoError(t, f.customer.Credit(xof(8000)))
	eur, _ := NewAmount(decimal.NewFromInt(10), "EUR")

	_, err := f.ledger.Transfer(f.customer, to, eur, "MOBILE_MONEY")
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, "ACC_005"),
		"sufficiency check against a foreign currency is a currency error")
}

func TestLedger_Transfer_BlockedReceiver(t *testing.T) {
	f := newLedgerFixture(t)
	to := NewCustomerAccount(uuid.New(), uuid.New(), "XOF")
	to.Block()
	require.NoError(t, f.customer.Credit(xof(8000)))

	_, err := f.ledger.Transfer(f.customer, to, xof(5000), "MOBILE_MONEY")
	assert.True(t, apperror.IsCode(err, "ACC_003"))
}

func TestLedger_Reverse(t *testing.T) {
	f := newLedgerFixture(t)
	tx, err := f.ledger.CashIn(f.customer, f.float, xof(10000), "MOBILE_MONEY")
	require.NoError(t, err)
	require.NoError(t, tx.MarkPending())
	require.NoError(t, tx.MarkFailed())

	require.NoError(t, f.ledger.Reverse(tx))

	require.Len(t, tx.Operations, 4, "reversal appends mirrored legs to the same transaction")
	requireBalanced(t, tx)

	// The mirrored pair compensates the original pair account by account.
	assert.Equal(t, OperationCredit, tx.Operations[2].Kind)
	assert.Equal(t, tx.Operations[0].AccountID, tx.Operations[2].AccountID)
	assert.Equal(t, OperationDebit, tx.Operations[3].Kind)
	assert.Equal(t, tx.Operations[1].AccountID, tx.Operations[3].AccountID)
}

func TestLedger_Reverse_RequiresFailedState(t *testing.T) {
	f := newLedgerFixture(t)
	tx, err := f.ledger.CashIn(f.customer, f.float, xof(10000), "MOBILE_MONEY")
	require.NoError(t, err)

	err = f.ledger.Reverse(tx)
	require.Error(t, err)
	assert.Len(t, tx.Operations, 2, "no legs appended on refused reversal")
}

func TestLedger_Reverse_TouchesNoBalances(t *testing.T) {
	f := newLedgerFixture(t)
	require.NoError(t, f.customer.Credit(xof(3000)))

	tx, err := f.ledger.CashOut(f.customer, f.float, xof(2000), "MOBILE_MONEY")
	require.NoError(t, err)
	require.NoError(t, tx.MarkPending())
	require.NoError(t, tx.MarkFailed())
	require.NoError(t, f.ledger.Reverse(tx))

	assert.True(t, f.customer.Balance.Amount.Equal(xof(3000)))
}
