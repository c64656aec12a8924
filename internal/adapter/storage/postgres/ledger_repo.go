package postgres

import (
	"context"
	"errors"
	"fmt"

	"momo-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// LedgerRepo implements ports.LedgerRepository. Exactly one ledger row exists
// after bootstrap.
type LedgerRepo struct {
	pool Pool
}

// NewLedgerRepo creates a new LedgerRepo.
func NewLedgerRepo(pool Pool) *LedgerRepo {
	return &LedgerRepo{pool: pool}
}

// Create inserts the singleton ledger row.
func (r *LedgerRepo) Create(ctx context.Context, ledger domain.Ledger) error {
	query := `INSERT INTO ledgers (id) VALUES ($1)`

	if _, err := r.pool.Exec(ctx, query, ledger.ID); err != nil {
		return fmt.Errorf("insert ledger: %w", err)
	}
	return nil
}

// GetSingleton returns the ledger, or nil before bootstrap has run.
func (r *LedgerRepo) GetSingleton(ctx context.Context) (*domain.Ledger, error) {
	query := `SELECT id FROM ledgers LIMIT 1`

	ledger := &domain.Ledger{}
	err := r.pool.QueryRow(ctx, query).Scan(&ledger.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ledger: %w", err)
	}
	return ledger, nil
}
