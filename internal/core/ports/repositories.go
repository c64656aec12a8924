package ports

import (
	"context"

	"momo-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AccountRepository defines persistence operations for accounts.
// Methods accepting pgx.Tx run inside the orchestrator's atomic blocks.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	Save(ctx context.Context, tx pgx.Tx, account *domain.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetByCustomerID(ctx context.Context, customerID uuid.UUID) (*domain.Account, error)
	GetFloatByProviderID(ctx context.Context, providerID string) (*domain.Account, error)
}

// CustomerRepository defines persistence for customers and their users.
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error)
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error)
	GetByPhoneNumber(ctx context.Context, fullNumber string) (*domain.Customer, error)
}

// TransactionRepository persists transactions together with their legs.
// Save upserts the transaction row and inserts any legs not yet stored, so a
// reversed transaction can be saved again with its mirrored legs.
type TransactionRepository interface {
	Save(ctx context.Context, tx pgx.Tx, transaction *domain.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	ListByAccountID(ctx context.Context, accountID uuid.UUID) ([]domain.Transaction, error)
}

// StateHistoryRepository persists the append-only transition history.
type StateHistoryRepository interface {
	Save(ctx context.Context, tx pgx.Tx, entry domain.StateHistoryEntry) error
	ListByTransactionID(ctx context.Context, transactionID uuid.UUID) ([]domain.StateHistoryEntry, error)
}

// LedgerRepository stores the singleton ledger policy object.
// GetSingleton returns nil, nil when bootstrap has not run yet.
type LedgerRepository interface {
	Create(ctx context.Context, ledger domain.Ledger) error
	GetSingleton(ctx context.Context) (*domain.Ledger, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
