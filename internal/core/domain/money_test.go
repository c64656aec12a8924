package domain

import (
	"testing"

	"momo-ledger/pkg/apperror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func xof(v int64) Amount {
	a, _ := NewAmount(decimal.NewFromInt(v), "XOF")
	return a
}

func TestNewAmount_Validation(t *testing.T) {
	tests := []struct {
		name     string
		value    decimal.Decimal
		currency string
		wantErr  bool
	}{
		{"valid", decimal.NewFromInt(100), "XOF", false},
		{"zero is valid", decimal.Zero, "XOF", false},
		{"negative value", decimal.NewFromInt(-1), "XOF", true},
		{"blank currency", decimal.NewFromInt(10), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAmount(tt.value, tt.currency)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAmount_Add(t *testing.T) {
	sum, err := xof(1000).Add(xof(500))
	require.NoError(t, err)
	assert.True(t, sum.Equal(xof(1500)))
}

func TestAmount_Add_CurrencyMismatch(t *testing.T) {
	eur, _ := NewAmount(decimal.NewFromInt(5), "EUR")

	_, err := xof(1000).Add(eur)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, "ACC_005"))
}

func TestAmount_Subtract(t *testing.T) {
	rest, err := xof(1000).Subtract(xof(400))
	require.NoError(t, err)
	assert.True(t, rest.Equal(xof(600)))
}

func TestAmount_Subtract_BelowZero(t *testing.T) {
	_, err := xof(100).Subtract(xof(200))
	assert.Error(t, err)
}

func TestAmount_Comparisons(t *testing.T) {
	gt, err := xof(200).GreaterThan(xof(100))
	require.NoError(t, err)
	assert.True(t, gt)

	gte, err := xof(100).GreaterThanOrEqual(xof(100))
	require.NoError(t, err)
	assert.True(t, gte)

	eur, _ := NewAmount(decimal.NewFromInt(100), "EUR")
	_, err = xof(100).GreaterThan(eur)
	assert.True(t, apperror.IsCode(err, "ACC_005"))
}

func TestAmount_Equal_ExactDecimal(t *testing.T) {
	a, _ := NewAmount(decimal.RequireFromString("10.10"), "XOF")
	b, _ := NewAmount(decimal.RequireFromString("10.1"), "XOF")
	assert.True(t, a.Equal(b), "equality must be exact decimal comparison, not string or float")

	c, _ := NewAmount(decimal.RequireFromString("10.10"), "EUR")
	assert.False(t, a.Equal(c), "different currencies are never equal")
}

func TestAmount_IsPositive(t *testing.T) {
	assert.True(t, xof(1).IsPositive())
	assert.False(t, xof(0).IsPositive())
}

func TestBalance_Credit(t *testing.T) {
	b := ZeroBalance("XOF")

	b, err := b.Credit(xof(10000))
	require.NoError(t, err)
	assert.True(t, b.Amount.Equal(xof(10000)))
}

func TestBalance_Debit(t *testing.T) {
	b := NewBalance(xof(10000))

	b, err := b.Debit(xof(4000))
	require.NoError(t, err)
	assert.True(t, b.Amount.Equal(xof(6000)))
}

func TestBalance_Debit_InsufficientFunds(t *testing.T) {
	b := NewBalance(xof(100))

	_, err := b.Debit(xof(200))
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, "ACC_002"))
}

func TestBalance_Debit_CurrencyMismatchBeforeSufficiency(t *testing.T) {
	// An EUR debit against an XOF balance is a currency error, never
	// insufficient funds.
	b := NewBalance(xof(0))
	eur, _ := NewAmount(decimal.NewFromInt(50), "EUR")

	_, err := b.Debit(eur)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, "ACC_005"))
}

func TestBalance_IsPure(t *testing.T) {
	original := NewBalance(xof(1000))

	_, err := original.Credit(xof(500))
	require.NoError(t, err)
	assert.True(t, original.Amount.Equal(xof(1000)), "credit must not mutate the receiver")
}
