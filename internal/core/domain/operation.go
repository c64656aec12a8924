package domain

import (
	"time"

	"github.com/google/uuid"
)

// OperationKind is the side of a double-entry posting.
type OperationKind string

const (
	OperationDebit  OperationKind = "DEBIT"
	OperationCredit OperationKind = "CREDIT"
)

// Operation is one leg of a double-entry posting. It is immutable once
// created and always belongs to exactly one transaction.
type Operation struct {
	ID         uuid.UUID     `json:"id"`
	Kind       OperationKind `json:"kind"`
	Amount     Amount        `json:"amount"`
	AccountID  uuid.UUID     `json:"account_id"`
	OccurredAt time.Time     `json:"occurred_at"`
}

// NewOperation creates a posting leg against an account.
func NewOperation(id uuid.UUID, kind OperationKind, amount Amount, accountID uuid.UUID) Operation {
	return Operation{
		ID:         id,
		Kind:       kind,
		Amount:     amount,
		AccountID:  accountID,
		OccurredAt: time.Now().UTC(),
	}
}

// Mirror returns the compensating leg for op: same account, same amount,
// opposite side.
func (op Operation) Mirror(id uuid.UUID) Operation {
	kind := OperationDebit
	if op.Kind == OperationDebit {
		kind = OperationCredit
	}
	return NewOperation(id, kind, op.Amount, op.AccountID)
}
