package domain

import (
	"time"

	"momo-ledger/pkg/apperror"

	"github.com/google/uuid"
)

// TransactionState is the lifecycle state of a transaction.
type TransactionState string

const (
	StateInitialized TransactionState = "INITIALIZED"
	StatePending     TransactionState = "PENDING"
	StateCompleted   TransactionState = "COMPLETED"
	StateFailed      TransactionState = "FAILED"
)

// transitions is the single transition table for the lifecycle state machine.
// Completed and Failed are terminal.
var transitions = map[TransactionState][]TransactionState{
	StateInitialized: {StatePending},
	StatePending:     {StateCompleted, StateFailed},
	StateCompleted:   {},
	StateFailed:      {},
}

// Transition validates current -> requested against the transition table and
// returns the new state, or an invalid-transition error naming both states.
func Transition(current, requested TransactionState) (TransactionState, error) {
	for _, next := range transitions[current] {
		if next == requested {
			return requested, nil
		}
	}
	return "", apperror.ErrInvalidStateTransition(string(current), string(requested))
}

// IsTerminal reports whether no further transitions are possible.
func (s TransactionState) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// TransactionKind is the kind of money movement.
type TransactionKind string

const (
	KindCashIn   TransactionKind = "CASH_IN"
	KindCashOut  TransactionKind = "CASH_OUT"
	KindTransfer TransactionKind = "TRANSFER"
)

// StateHistoryEntry records one state transition. OldState is nil only for
// the synthetic creation entry (nil -> Initialized). History is append-only.
type StateHistoryEntry struct {
	ID            uuid.UUID         `json:"id"`
	TransactionID uuid.UUID         `json:"transaction_id"`
	OldState      *TransactionState `json:"old_state,omitempty"`
	NewState      TransactionState  `json:"new_state"`
	OccurredAt    time.Time         `json:"occurred_at"`
}

// Transaction is an intent to move money between two accounts. It owns its
// operation legs, its lifecycle state and the append-only history of state
// changes. Accounts are referenced by id, never embedded.
type Transaction struct {
	ID            uuid.UUID       `json:"id"`
	Number        string          `json:"number"`
	FromAccountID uuid.UUID       `json:"from_account_id"`
	ToAccountID   uuid.UUID       `json:"to_account_id"`
	Kind          TransactionKind `json:"kind"`
	PaymentMethod string          `json:"payment_method"`
	Amount        Amount          `json:"amount"`
	CreatedAt     time.Time       `json:"created_at"`

	Operations []Operation         `json:"operations"`
	State      TransactionState    `json:"state"`
	History    []StateHistoryEntry `json:"history"`
}

// NewTransaction creates a transaction in state Initialized with the synthetic
// first history entry. Legs are attached afterwards by the ledger.
func NewTransaction(id uuid.UUID, from, to uuid.UUID, kind TransactionKind,
	paymentMethod string, amount Amount) *Transaction {

	now := time.Now().UTC()
	tx := &Transaction{
		ID:            id,
		Number:        deriveNumber("TRX", id, now),
		FromAccountID: from,
		ToAccountID:   to,
		Kind:          kind,
		PaymentMethod: paymentMethod,
		Amount:        amount,
		CreatedAt:     now,
		State:         StateInitialized,
	}
	tx.History = append(tx.History, StateHistoryEntry{
		ID:            uuid.New(),
		TransactionID: id,
		OldState:      nil,
		NewState:      StateInitialized,
		OccurredAt:    now,
	})
	return tx
}

// AddOperation attaches a posting leg to the transaction.
func (t *Transaction) AddOperation(op Operation) {
	t.Operations = append(t.Operations, op)
}

// TransitionTo drives the state machine. On an illegal transition it fails
// and leaves state and history unchanged; on success it appends exactly one
// history entry.
func (t *Transaction) TransitionTo(requested TransactionState) error {
	next, err := Transition(t.State, requested)
	if err != nil {
		return err
	}
	old := t.State
	t.State = next
	t.History = append(t.History, StateHistoryEntry{
		ID:            uuid.New(),
		TransactionID: t.ID,
		OldState:      &old,
		NewState:      next,
		OccurredAt:    time.Now().UTC(),
	})
	return nil
}

// MarkPending transitions Initialized -> Pending.
func (t *Transaction) MarkPending() error { return t.TransitionTo(StatePending) }

// MarkCompleted transitions Pending -> Completed.
func (t *Transaction) MarkCompleted() error { return t.TransitionTo(StateCompleted) }

// MarkFailed transitions Pending -> Failed.
func (t *Transaction) MarkFailed() error { return t.TransitionTo(StateFailed) }

// LatestHistory returns the most recent history entry.
func (t *Transaction) LatestHistory() StateHistoryEntry {
	return t.History[len(t.History)-1]
}

// SumOperations totals the legs of one side in the transaction's currency.
func (t *Transaction) SumOperations(kind OperationKind) (Amount, error) {
	sum := ZeroAmount(t.Amount.Currency)
	var err error
	for _, op := range t.Operations {
		if op.Kind != kind {
			continue
		}
		if sum, err = sum.Add(op.Amount); err != nil {
			return Amount{}, err
		}
	}
	return sum, nil
}
