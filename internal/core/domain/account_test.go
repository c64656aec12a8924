package domain

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"momo-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCustomerAccount(t *testing.T) {
	id := uuid.New()
	customerID := uuid.New()

	acc := NewCustomerAccount(id, customerID, "XOF")

	assert.Equal(t, id, acc.ID)
	assert.Equal(t, AccountKindCustomer, acc.Type.Kind)
	assert.Equal(t, customerID.String(), acc.Type.OwnerID)
	assert.True(t, acc.Balance.Amount.Equal(xof(0)), "account starts with zero balance")
	assert.True(t, acc.IsActive())
}

func TestNewFloatAccount(t *testing.T) {
	acc := NewFloatAccount(uuid.New(), "provider-system-001", "XOF")

	assert.Equal(t, AccountKindFloat, acc.Type.Kind)
	assert.Equal(t, "provider-system-001", acc.Type.OwnerID)
	assert.True(t, acc.IsFloat())
}

func TestAccountNumber_Format(t *testing.T) {
	id := uuid.MustParse("550e8400-e29b-41d4-a716-44665544beef")
	acc := NewCustomerAccount(id, uuid.New(), "XOF")

	datePart := time.Now().UTC().Format("20060102")
	assert.Equal(t, fmt.Sprintf("ACC-%s-BEEF", datePart), acc.Number)
	assert.Equal(t, acc.Number, strings.ToUpper(acc.Number))
}

func TestAccount_CreditAndDebit(t *testing.T) {
	acc := NewCustomerAccount(uuid.New(), uuid.New(), "XOF")

	require.NoError(t, acc.Credit(xof(10000)))
	assert.True(t, acc.Balance.Amount.Equal(xof(10000)))

	require.NoError(t, acc.Debit(xof(4000)))
	assert.True(t, acc.Balance.Amount.Equal(xof(6000)))
}

func TestAccount_Debit_InsufficientFunds(t *testing.T) {
	acc := NewCustomerAccount(uuid.New(), uuid.New(), "XOF")

	err := acc.Debit(xof(1))
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, "ACC_002"))
	assert.True(t, acc.Balance.Amount.Equal(xof(0)), "failed debit leaves balance unchanged")
}

func TestFloatAccount_Debit_AlwaysSucceeds(t *testing.T) {
	// Float accounts model external liquidity: no sufficiency check and the
	// tracked balance stays untouched.
	acc := NewFloatAccount(uuid.New(), "provider-system-001", "XOF")

	require.NoError(t, acc.Debit(xof(1_000_000)))
	assert.True(t, acc.Balance.Amount.Equal(xof(0)))
}

func TestAccount_Block(t *testing.T) {
	acc := NewCustomerAccount(uuid.New(), uuid.New(), "XOF")
	assert.True(t, acc.IsActive())

	acc.Block()
	assert.False(t, acc.IsActive())
	assert.True(t, acc.Blocked)
}

func TestAccount_HasSufficientFunds(t *testing.T) {
	acc := NewCustomerAccount(uuid.New(), uuid.New(), "XOF")
	require.NoError(t, acc.Credit(xof(5000)))

	assert.NoError(t, acc.HasSufficientFunds(xof(5000)))

	err := acc.HasSufficientFunds(xof(5001))
	assert.True(t, apperror.IsCode(err, "ACC_002"))
}
