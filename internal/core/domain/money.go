package domain

import (
	"fmt"

	"momo-ledger/pkg/apperror"

	"github.com/shopspring/decimal"
)

// Amount is a currency-tagged, non-negative decimal value. It is immutable:
// arithmetic returns a new Amount. All operations require matching currencies;
// a mismatch is reported as a distinct error, never silently coerced.
type Amount struct {
	Value    decimal.Decimal `json:"value"`
	Currency string          `json:"currency"`
}

// NewAmount builds an Amount, rejecting negative values and blank currencies.
func NewAmount(value decimal.Decimal, currency string) (Amount, error) {
	if value.IsNegative() {
		return Amount{}, apperror.ErrInvalidAmount("amount value cannot be negative")
	}
	if currency == "" {
		return Amount{}, apperror.ErrInvalidAmount("amount currency cannot be blank")
	}
	return Amount{Value: value, Currency: currency}, nil
}

// ZeroAmount returns the zero value in the given currency.
func ZeroAmount(currency string) Amount {
	return Amount{Value: decimal.Zero, Currency: currency}
}

// Add returns the sum of two amounts of the same currency.
func (a Amount) Add(other Amount) (Amount, error) {
	if err := a.requireSameCurrency(other); err != nil {
		return Amount{}, err
	}
	return Amount{Value: a.Value.Add(other.Value), Currency: a.Currency}, nil
}

// Subtract returns a minus other. The result may not go below zero.
func (a Amount) Subtract(other Amount) (Amount, error) {
	if err := a.requireSameCurrency(other); err != nil {
		return Amount{}, err
	}
	result := a.Value.Sub(other.Value)
	if result.IsNegative() {
		return Amount{}, apperror.ErrInvalidAmount(
			fmt.Sprintf("subtraction result cannot be negative: %s", result))
	}
	return Amount{Value: result, Currency: a.Currency}, nil
}

// GreaterThan reports a > other, failing on currency mismatch.
func (a Amount) GreaterThan(other Amount) (bool, error) {
	if err := a.requireSameCurrency(other); err != nil {
		return false, err
	}
	return a.Value.GreaterThan(other.Value), nil
}

// GreaterThanOrEqual reports a >= other, failing on currency mismatch.
func (a Amount) GreaterThanOrEqual(other Amount) (bool, error) {
	if err := a.requireSameCurrency(other); err != nil {
		return false, err
	}
	return a.Value.GreaterThanOrEqual(other.Value), nil
}

// Equal is value-based exact decimal equality. Amounts in different
// currencies are never equal.
func (a Amount) Equal(other Amount) bool {
	return a.Currency == other.Currency && a.Value.Equal(other.Value)
}

// IsPositive reports whether the amount is strictly positive.
func (a Amount) IsPositive() bool {
	return a.Value.IsPositive()
}

func (a Amount) String() string {
	return a.Value.String() + " " + a.Currency
}

func (a Amount) requireSameCurrency(other Amount) error {
	if a.Currency != other.Currency {
		return apperror.ErrCurrencyMismatch(a.Currency, other.Currency)
	}
	return nil
}

// Balance wraps one Amount. Credit and Debit are pure: they return the new
// balance and leave the receiver untouched.
type Balance struct {
	Amount Amount `json:"amount"`
}

// NewBalance wraps an amount as a balance.
func NewBalance(amount Amount) Balance {
	return Balance{Amount: amount}
}

// ZeroBalance returns an empty balance in the given currency.
func ZeroBalance(currency string) Balance {
	return Balance{Amount: ZeroAmount(currency)}
}

// Credit adds to the balance. It only fails on currency mismatch.
func (b Balance) Credit(amount Amount) (Balance, error) {
	sum, err := b.Amount.Add(amount)
	if err != nil {
		return Balance{}, err
	}
	return Balance{Amount: sum}, nil
}

// Debit subtracts from the balance, failing with insufficient funds if the
// post-debit amount would be negative.
func (b Balance) Debit(amount Amount) (Balance, error) {
	enough, err := b.Amount.GreaterThanOrEqual(amount)
	if err != nil {
		return Balance{}, err
	}
	if !enough {
		return Balance{}, apperror.ErrInsufficientFunds(
			fmt.Sprintf("insufficient funds: balance is %s, tried to debit %s", b.Amount, amount))
	}
	rest, err := b.Amount.Subtract(amount)
	if err != nil {
		return Balance{}, err
	}
	return Balance{Amount: rest}, nil
}
