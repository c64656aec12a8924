package postgres

import (
	"context"
	"errors"
	"fmt"

	"momo-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// TransactionRepo implements ports.TransactionRepository. A transaction is
// stored as one row plus one row per operation leg. Save upserts the
// transaction row and inserts legs idempotently, so a compensated transaction
// can be written again with its mirrored legs.
type TransactionRepo struct {
	pool Pool
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

// Save upserts the transaction and its legs within a database transaction.
func (r *TransactionRepo) Save(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	query := `INSERT INTO transactions (id, number, from_account_id, to_account_id, kind, payment_method, amount, currency, state, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET state = EXCLUDED.state`

	_, err := tx.Exec(ctx, query,
		t.ID, t.Number, t.FromAccountID, t.ToAccountID, string(t.Kind), t.PaymentMethod,
		t.Amount.Value, t.Amount.Currency, string(t.State), t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert transaction: %w", err)
	}

	legQuery := `INSERT INTO operations (id, transaction_id, kind, amount, currency, account_id, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING`

	for _, op := range t.Operations {
		_, err := tx.Exec(ctx, legQuery,
			op.ID, t.ID, string(op.Kind), op.Amount.Value, op.Amount.Currency,
			op.AccountID, op.OccurredAt,
		)
		if err != nil {
			return fmt.Errorf("insert operation %s: %w", op.ID, err)
		}
	}
	return nil
}

// GetByID fetches a transaction with its legs.
func (r *TransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	query := `SELECT id, number, from_account_id, to_account_id, kind, payment_method, amount, currency, state, created_at
		FROM transactions WHERE id = $1`

	t, err := scanTransaction(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction by id: %w", err)
	}

	if err := r.loadOperations(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// ListByAccountID fetches every transaction that posted a leg against the
// account, newest first.
func (r *TransactionRepo) ListByAccountID(ctx context.Context, accountID uuid.UUID) ([]domain.Transaction, error) {
	query := `SELECT DISTINCT t.id, t.number, t.from_account_id, t.to_account_id, t.kind, t.payment_method, t.amount, t.currency, t.state, t.created_at
		FROM transactions t
		JOIN operations o ON o.transaction_id = t.id
		WHERE o.account_id = $1
		ORDER BY t.created_at DESC`

	rows, err := r.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("list transactions by account: %w", err)
	}
	defer rows.Close()

	var result []domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		result = append(result, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}

	for i := range result {
		if err := r.loadOperations(ctx, &result[i]); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (r *TransactionRepo) loadOperations(ctx context.Context, t *domain.Transaction) error {
	query := `SELECT id, kind, amount, currency, account_id, occurred_at
		FROM operations WHERE transaction_id = $1 ORDER BY occurred_at, id`

	rows, err := r.pool.Query(ctx, query, t.ID)
	if err != nil {
		return fmt.Errorf("load operations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			op       domain.Operation
			kind     string
			value    decimal.Decimal
			currency string
		)
		if err := rows.Scan(&op.ID, &kind, &value, &currency, &op.AccountID, &op.OccurredAt); err != nil {
			return fmt.Errorf("scan operation: %w", err)
		}
		op.Kind = domain.OperationKind(kind)
		amount, err := domain.NewAmount(value, currency)
		if err != nil {
			return fmt.Errorf("operation amount: %w", err)
		}
		op.Amount = amount
		t.Operations = append(t.Operations, op)
	}
	return rows.Err()
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		t        domain.Transaction
		kind     string
		state    string
		value    decimal.Decimal
		currency string
	)
	err := row.Scan(
		&t.ID, &t.Number, &t.FromAccountID, &t.ToAccountID, &kind, &t.PaymentMethod,
		&value, &currency, &state, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.Kind = domain.TransactionKind(kind)
	t.State = domain.TransactionState(state)
	amount, err := domain.NewAmount(value, currency)
	if err != nil {
		return nil, err
	}
	t.Amount = amount
	return &t, nil
}
