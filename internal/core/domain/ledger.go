package domain

import (
	"momo-ledger/pkg/apperror"

	"github.com/google/uuid"
)

// Ledger is the stateless policy component that builds double-entry-balanced
// transactions and enforces the global bookkeeping rules. Exactly one ledger
// exists per deployment; callers fetch the singleton from storage.
type Ledger struct {
	ID uuid.UUID `json:"id"`
}

// NewLedger creates the ledger policy object.
func NewLedger(id uuid.UUID) Ledger {
	return Ledger{ID: id}
}

// CashIn moves external money into a customer wallet: Debit(float),
// Credit(customer). Both accounts must be active and the amount strictly
// positive. The returned transaction is Initialized and balanced.
func (l Ledger) CashIn(customer, float *Account, amount Amount, paymentMethod string) (*Transaction, error) {
	if err := requireActive(customer, "customer account is not active"); err != nil {
		return nil, err
	}
	if err := requireActive(float, "float account is not active"); err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount("amount must be strictly positive")
	}

	tx := NewTransaction(uuid.New(), float.ID, customer.ID, KindCashIn, paymentMethod, amount)
	tx.AddOperation(NewOperation(uuid.New(), OperationDebit, amount, float.ID))
	tx.AddOperation(NewOperation(uuid.New(), OperationCredit, amount, customer.ID))

	if err := l.verifyDoubleEntry(tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// CashOut moves customer money out to the settlement pool: Debit(customer),
// Credit(float). Requires both accounts active, a strictly positive amount
// and customer sufficiency against the current balance snapshot.
func (l Ledger) CashOut(customer, float *Account, amount Amount, paymentMethod string) (*Transaction, error) {
	if err := requireActive(customer, "customer account is not active"); err != nil {
		return nil, err
	}
	if err := requireActive(float, "float account is not active"); err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount("amount must be strictly positive")
	}
	if err := customer.HasSufficientFunds(amount); err != nil {
		return nil, err
	}

	tx := NewTransaction(uuid.New(), customer.ID, float.ID, KindCashOut, paymentMethod, amount)
	tx.AddOperation(NewOperation(uuid.New(), OperationDebit, amount, customer.ID))
	tx.AddOperation(NewOperation(uuid.New(), OperationCredit, amount, float.ID))

	if err := l.verifyDoubleEntry(tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// Transfer moves money between two customer wallets: Debit(from), Credit(to).
// Self-transfer is rejected before any other check.
func (l Ledger) Transfer(from, to *Account, amount Amount, paymentMethod string) (*Transaction, error) {
	if from.ID == to.ID {
		return nil, apperror.ErrSelfTransfer()
	}
	if err := requireActive(from, "sender account is not active"); err != nil {
		return nil, err
	}
	if err := requireActive(to, "receiver account is not active"); err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount("amount must be strictly positive")
	}
	if err := from.HasSufficientFunds(amount); err != nil {
		return nil, err
	}

	tx := NewTransaction(uuid.New(), from.ID, to.ID, KindTransfer, paymentMethod, amount)
	tx.AddOperation(NewOperation(uuid.New(), OperationDebit, amount, from.ID))
	tx.AddOperation(NewOperation(uuid.New(), OperationCredit, amount, to.ID))

	if err := l.verifyDoubleEntry(tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// Reverse appends a mirrored leg for every existing leg to the SAME
// transaction, restoring its own double-entry balance after a provider
// failure. It never touches an account balance: the compensation is pure
// bookkeeping, because balances are only mutated on the success path.
// Legal only once the transaction has reached Failed.
func (l Ledger) Reverse(tx *Transaction) error {
	if tx.State != StateFailed {
		return apperror.ErrInvalidStateTransition(string(tx.State), "reversal")
	}
	for _, op := range append([]Operation(nil), tx.Operations...) {
		tx.AddOperation(op.Mirror(uuid.New()))
	}
	return l.verifyDoubleEntry(tx)
}

// verifyDoubleEntry re-checks sum(debits) == sum(credits) before a built
// transaction leaves the ledger. A violation is a defect: the ledger itself
// is the only producer of legs.
func (l Ledger) verifyDoubleEntry(tx *Transaction) error {
	debit, err := tx.SumOperations(OperationDebit)
	if err != nil {
		return err
	}
	credit, err := tx.SumOperations(OperationCredit)
	if err != nil {
		return err
	}
	if !debit.Equal(credit) {
		return apperror.ErrDoubleEntryViolation(debit.String(), credit.String())
	}
	return nil
}

func requireActive(account *Account, message string) error {
	if !account.IsActive() {
		return apperror.ErrAccountBlocked(message)
	}
	return nil
}
