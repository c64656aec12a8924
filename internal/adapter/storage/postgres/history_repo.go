package postgres

import (
	"context"
	"fmt"

	"momo-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// StateHistoryRepo implements ports.StateHistoryRepository. The table is
// append-only; rows are never updated or deleted.
type StateHistoryRepo struct {
	pool Pool
}

// NewStateHistoryRepo creates a new StateHistoryRepo.
func NewStateHistoryRepo(pool Pool) *StateHistoryRepo {
	return &StateHistoryRepo{pool: pool}
}

// Save inserts one transition entry. Re-saving an entry already stored is a
// no-op, so callers can write the full in-memory history on every persist.
func (r *StateHistoryRepo) Save(ctx context.Context, tx pgx.Tx, entry domain.StateHistoryEntry) error {
	query := `INSERT INTO transaction_state_history (id, transaction_id, old_state, new_state, occurred_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING`

	var oldState *string
	if entry.OldState != nil {
		s := string(*entry.OldState)
		oldState = &s
	}

	_, err := tx.Exec(ctx, query,
		entry.ID, entry.TransactionID, oldState, string(entry.NewState), entry.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("insert state history: %w", err)
	}
	return nil
}

// ListByTransactionID fetches the full transition history in order.
func (r *StateHistoryRepo) ListByTransactionID(ctx context.Context, transactionID uuid.UUID) ([]domain.StateHistoryEntry, error) {
	query := `SELECT id, transaction_id, old_state, new_state, occurred_at
		FROM transaction_state_history WHERE transaction_id = $1 ORDER BY occurred_at, id`

	rows, err := r.pool.Query(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("list state history: %w", err)
	}
	defer rows.Close()

	var result []domain.StateHistoryEntry
	for rows.Next() {
		var (
			entry    domain.StateHistoryEntry
			oldState *string
			newState string
		)
		if err := rows.Scan(&entry.ID, &entry.TransactionID, &oldState, &newState, &entry.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan state history: %w", err)
		}
		if oldState != nil {
			s := domain.TransactionState(*oldState)
			entry.OldState = &s
		}
		entry.NewState = domain.TransactionState(newState)
		result = append(result, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate state history: %w", err)
	}
	return result, nil
}
