package domain

import (
	"fmt"
	"strings"
	"time"

	"momo-ledger/pkg/apperror"

	"github.com/google/uuid"
)

// AccountKind discriminates customer wallets from settlement float pools.
type AccountKind string

const (
	AccountKindCustomer AccountKind = "CUSTOMER"
	AccountKindFloat    AccountKind = "FLOAT"
)

// AccountType tags which resource an account represents. OwnerID holds the
// customer id for wallets and the provider id for float accounts.
type AccountType struct {
	Kind    AccountKind `json:"kind"`
	OwnerID string      `json:"owner_id"`
}

// CustomerAccountType builds the type tag for a customer wallet.
func CustomerAccountType(customerID uuid.UUID) AccountType {
	return AccountType{Kind: AccountKindCustomer, OwnerID: customerID.String()}
}

// FloatAccountType builds the type tag for a provider settlement pool.
func FloatAccountType(providerID string) AccountType {
	return AccountType{Kind: AccountKindFloat, OwnerID: providerID}
}

// Account is a balance-holding entity: either a bounded customer wallet or an
// unbounded settlement float pool. The entity mutates only its in-memory
// balance; persistence is the orchestrator's responsibility.
type Account struct {
	ID      uuid.UUID   `json:"id"`
	Number  string      `json:"number"`
	Type    AccountType `json:"type"`
	Balance Balance     `json:"balance"`
	Blocked bool        `json:"blocked"`
}

// NewCustomerAccount creates an empty wallet owned by a customer.
func NewCustomerAccount(id uuid.UUID, customerID uuid.UUID, currency string) *Account {
	return &Account{
		ID:      id,
		Number:  deriveNumber("ACC", id, time.Now().UTC()),
		Type:    CustomerAccountType(customerID),
		Balance: ZeroBalance(currency),
	}
}

// NewFloatAccount creates an empty settlement pool for a provider.
func NewFloatAccount(id uuid.UUID, providerID string, currency string) *Account {
	return &Account{
		ID:      id,
		Number:  deriveNumber("ACC", id, time.Now().UTC()),
		Type:    FloatAccountType(providerID),
		Balance: ZeroBalance(currency),
	}
}

// IsActive reports whether the account may take part in transactions.
func (a *Account) IsActive() bool {
	return !a.Blocked
}

// Block marks the account as unusable for future transactions.
func (a *Account) Block() {
	a.Blocked = true
}

// IsFloat reports whether the account is an unbounded settlement pool.
func (a *Account) IsFloat() bool {
	return a.Type.Kind == AccountKindFloat
}

// Credit adds funds to the account balance.
func (a *Account) Credit(amount Amount) error {
	next, err := a.Balance.Credit(amount)
	if err != nil {
		return err
	}
	a.Balance = next
	return nil
}

// Debit removes funds from the account balance. Float accounts model external
// liquidity: the debit always succeeds and the tracked balance is untouched.
func (a *Account) Debit(amount Amount) error {
	if a.IsFloat() {
		return nil
	}
	next, err := a.Balance.Debit(amount)
	if err != nil {
		return err
	}
	a.Balance = next
	return nil
}

// HasSufficientFunds checks the current balance snapshot against amount.
// A currency mismatch surfaces as a currency error, not insufficient funds.
func (a *Account) HasSufficientFunds(amount Amount) error {
	enough, err := a.Balance.Amount.GreaterThanOrEqual(amount)
	if err != nil {
		return err
	}
	if !enough {
		return apperror.ErrInsufficientFunds(
			fmt.Sprintf("insufficient funds: balance is %s, required %s", a.Balance.Amount, amount))
	}
	return nil
}

// deriveNumber builds the human-readable entity number, e.g.
// ACC-20250130-9F2A: prefix, creation date, last 4 characters of the id.
func deriveNumber(prefix string, id uuid.UUID, at time.Time) string {
	s := id.String()
	return fmt.Sprintf("%s-%s-%s", prefix, at.Format("20060102"), strings.ToUpper(s[len(s)-4:]))
}
