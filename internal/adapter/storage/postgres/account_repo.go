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

// AccountRepo implements ports.AccountRepository.
type AccountRepo struct {
	pool Pool
}

// NewAccountRepo creates a new AccountRepo.
func NewAccountRepo(pool Pool) *AccountRepo {
	return &AccountRepo{pool: pool}
}

const accountColumns = `id, number, kind, owner_id, currency, balance, blocked`

// Create inserts a new account into the database.
func (r *AccountRepo) Create(ctx context.Context, a *domain.Account) error {
	query := `INSERT INTO accounts (id, number, kind, owner_id, currency, balance, blocked)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		a.ID, a.Number, string(a.Type.Kind), a.Type.OwnerID,
		a.Balance.Amount.Currency, a.Balance.Amount.Value, a.Blocked,
	)
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// Save writes the current balance and blocked flag back within a transaction.
func (r *AccountRepo) Save(ctx context.Context, tx pgx.Tx, a *domain.Account) error {
	query := `UPDATE accounts SET balance = $1, blocked = $2, updated_at = NOW() WHERE id = $3`

	tag, err := tx.Exec(ctx, query, a.Balance.Amount.Value, a.Blocked, a.ID)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account not found: %s", a.ID)
	}
	return nil
}

// GetByID fetches an account by its UUID.
func (r *AccountRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return r.scanAccount(r.pool.QueryRow(ctx, query, id), "get account by id")
}

// GetByCustomerID fetches the wallet owned by a customer.
func (r *AccountRepo) GetByCustomerID(ctx context.Context, customerID uuid.UUID) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE kind = $1 AND owner_id = $2`
	return r.scanAccount(
		r.pool.QueryRow(ctx, query, string(domain.AccountKindCustomer), customerID.String()),
		"get account by customer id")
}

// GetFloatByProviderID fetches the settlement pool account of a provider.
func (r *AccountRepo) GetFloatByProviderID(ctx context.Context, providerID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE kind = $1 AND owner_id = $2`
	return r.scanAccount(
		r.pool.QueryRow(ctx, query, string(domain.AccountKindFloat), providerID),
		"get float account by provider id")
}

func (r *AccountRepo) scanAccount(row pgx.Row, op string) (*domain.Account, error) {
	var (
		a        domain.Account
		kind     string
		ownerID  string
		currency string
		balance  decimal.Decimal
	)
	err := row.Scan(&a.ID, &a.Number, &kind, &ownerID, &currency, &balance, &a.Blocked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	a.Type = domain.AccountType{Kind: domain.AccountKind(kind), OwnerID: ownerID}
	amount, err := domain.NewAmount(balance, currency)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	a.Balance = domain.NewBalance(amount)
	return &a, nil
}
