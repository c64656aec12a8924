package integration

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"momo-ledger/internal/core/domain"
	"momo-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// --- In-Memory Account Repo ---

type inMemoryAccountRepo struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]*domain.Account
}

func newInMemoryAccountRepo() *inMemoryAccountRepo {
	return &inMemoryAccountRepo{accounts: make(map[uuid.UUID]*domain.Account)}
}

func (r *inMemoryAccountRepo) Create(ctx context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *account
	r.accounts[account.ID] = &clone
	return nil
}

func (r *inMemoryAccountRepo) Save(ctx context.Context, tx pgx.Tx, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[account.ID]; !ok {
		return fmt.Errorf("account not found")
	}
	clone := *account
	r.accounts[account.ID] = &clone
	return nil
}

func (r *inMemoryAccountRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	account, ok := r.accounts[id]
	if !ok {
		return nil, nil
	}
	clone := *account
	return &clone, nil
}

func (r *inMemoryAccountRepo) GetByCustomerID(ctx context.Context, customerID uuid.UUID) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, account := range r.accounts {
		if account.Type.Kind == domain.AccountKindCustomer && account.Type.OwnerID == customerID.String() {
			clone := *account
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *inMemoryAccountRepo) GetFloatByProviderID(ctx context.Context, providerID string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, account := range r.accounts {
		if account.Type.Kind == domain.AccountKindFloat && account.Type.OwnerID == providerID {
			clone := *account
			return &clone, nil
		}
	}
	return nil, nil
}

// --- In-Memory Customer Repo ---

type inMemoryCustomerRepo struct {
	mu        sync.RWMutex
	customers map[uuid.UUID]*domain.Customer
}

func newInMemoryCustomerRepo() *inMemoryCustomerRepo {
	return &inMemoryCustomerRepo{customers: make(map[uuid.UUID]*domain.Customer)}
}

func (r *inMemoryCustomerRepo) Create(ctx context.Context, customer *domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.customers {
		if existing.User.Email == customer.User.Email {
			return fmt.Errorf("email already exists")
		}
	}
	clone := *customer
	r.customers[customer.ID()] = &clone
	return nil
}

func (r *inMemoryCustomerRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	customer, ok := r.customers[id]
	if !ok {
		return nil, nil
	}
	clone := *customer
	return &clone, nil
}

func (r *inMemoryCustomerRepo) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, customer := range r.customers {
		if customer.User.Email == email {
			clone := *customer
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *inMemoryCustomerRepo) GetByPhoneNumber(ctx context.Context, fullNumber string) (*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, customer := range r.customers {
		if customer.Phone.Full() == fullNumber {
			clone := *customer
			return &clone, nil
		}
	}
	return nil, nil
}

// --- In-Memory Transaction Repo ---

type inMemoryTransactionRepo struct {
	mu           sync.RWMutex
	transactions map[uuid.UUID]*domain.Transaction
}

func newInMemoryTransactionRepo() *inMemoryTransactionRepo {
	return &inMemoryTransactionRepo{transactions: make(map[uuid.UUID]*domain.Transaction)}
}

func (r *inMemoryTransactionRepo) Save(ctx context.Context, tx pgx.Tx, transaction *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *transaction
	clone.Operations = append([]domain.Operation(nil), transaction.Operations...)
	clone.History = append([]domain.StateHistoryEntry(nil), transaction.History...)
	r.transactions[transaction.ID] = &clone
	return nil
}

func (r *inMemoryTransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	transaction, ok := r.transactions[id]
	if !ok {
		return nil, nil
	}
	clone := *transaction
	clone.Operations = append([]domain.Operation(nil), transaction.Operations...)
	clone.History = append([]domain.StateHistoryEntry(nil), transaction.History...)
	return &clone, nil
}

func (r *inMemoryTransactionRepo) ListByAccountID(ctx context.Context, accountID uuid.UUID) ([]domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Transaction
	for _, transaction := range r.transactions {
		for _, op := range transaction.Operations {
			if op.AccountID == accountID {
				clone := *transaction
				clone.Operations = append([]domain.Operation(nil), transaction.Operations...)
				clone.History = append([]domain.StateHistoryEntry(nil), transaction.History...)
				result = append(result, clone)
				break
			}
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// --- In-Memory State History Repo ---

type inMemoryStateHistoryRepo struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]domain.StateHistoryEntry
}

func newInMemoryStateHistoryRepo() *inMemoryStateHistoryRepo {
	return &inMemoryStateHistoryRepo{entries: make(map[uuid.UUID]domain.StateHistoryEntry)}
}

func (r *inMemoryStateHistoryRepo) Save(ctx context.Context, tx pgx.Tx, entry domain.StateHistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	// Idempotent by id, like the ON CONFLICT DO NOTHING insert.
	if _, ok := r.entries[entry.ID]; !ok {
		r.entries[entry.ID] = entry
	}
	return nil
}

func (r *inMemoryStateHistoryRepo) ListByTransactionID(ctx context.Context, transactionID uuid.UUID) ([]domain.StateHistoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.StateHistoryEntry
	for _, entry := range r.entries {
		if entry.TransactionID == transactionID {
			result = append(result, entry)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].OccurredAt.Before(result[j].OccurredAt)
	})
	return result, nil
}

// --- In-Memory Ledger Repo ---

type inMemoryLedgerRepo struct {
	mu     sync.RWMutex
	ledger *domain.Ledger
}

func newInMemoryLedgerRepo() *inMemoryLedgerRepo {
	return &inMemoryLedgerRepo{}
}

func (r *inMemoryLedgerRepo) Create(ctx context.Context, ledger domain.Ledger) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ledger != nil {
		return fmt.Errorf("ledger already exists")
	}
	r.ledger = &ledger
	return nil
}

func (r *inMemoryLedgerRepo) GetSingleton(ctx context.Context) (*domain.Ledger, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.ledger == nil {
		return nil, nil
	}
	clone := *r.ledger
	return &clone, nil
}

// --- In-Memory Transactor ---

type inMemoryTransactor struct{}

func newInMemoryTransactor() *inMemoryTransactor {
	return &inMemoryTransactor{}
}

func (t *inMemoryTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	return &noopTx{}, nil
}

// noopTx is a no-op pgx.Tx implementation for in-memory testing.
type noopTx struct{}

func (t *noopTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *noopTx) Commit(ctx context.Context) error          { return nil }
func (t *noopTx) Rollback(ctx context.Context) error        { return nil }
func (t *noopTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *noopTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *noopTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *noopTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *noopTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *noopTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *noopTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *noopTx) Conn() *pgx.Conn { return nil }

// --- Scriptable Provider Gateway ---

// fakeGateway settles everything successfully unless failures are scripted.
type fakeGateway struct {
	mu        sync.Mutex
	failNext  int
	callCount int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{}
}

// FailNext makes the next n settlement calls fail at provider level.
func (g *fakeGateway) FailNext(n int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failNext = n
}

func (g *fakeGateway) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.callCount
}

func (g *fakeGateway) settle() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.callCount++
	if g.failNext > 0 {
		g.failNext--
		return apperror.ErrProviderFailure(fmt.Errorf("provider rejected the settlement"))
	}
	return nil
}

func (g *fakeGateway) Credit(ctx context.Context, amount domain.Amount, paymentMethod string) error {
	return g.settle()
}

func (g *fakeGateway) Debit(ctx context.Context, amount domain.Amount, paymentMethod string) error {
	return g.settle()
}

func (g *fakeGateway) Send(ctx context.Context, amount domain.Amount, paymentMethod string) error {
	return g.settle()
}

// --- Capturing Mailer ---

type capturingMailer struct {
	mu    sync.Mutex
	mails []capturedMail
}

type capturedMail struct {
	To      string
	Subject string
	Body    string
}

func newCapturingMailer() *capturingMailer {
	return &capturingMailer{}
}

func (m *capturingMailer) Send(ctx context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mails = append(m.mails, capturedMail{To: to, Subject: subject, Body: body})
	return nil
}

func (m *capturingMailer) LastTo(to string) *capturedMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.mails) - 1; i >= 0; i-- {
		if m.mails[i].To == to {
			mail := m.mails[i]
			return &mail
		}
	}
	return nil
}
