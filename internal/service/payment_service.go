package service

import (
	"context"
	"errors"
	"fmt"

	"momo-ledger/config"
	"momo-ledger/internal/core/domain"
	"momo-ledger/internal/core/ports"
	"momo-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// PaymentServiceImpl implements ports.PaymentService. It orchestrates the
// full payment protocol: PIN check, account resolution, ledger construction,
// durable Pending, provider settlement, then either Completed with balance
// application or Failed with compensating legs.
type PaymentServiceImpl struct {
	ledgerRepo   ports.LedgerRepository
	accountRepo  ports.AccountRepository
	customerRepo ports.CustomerRepository
	txRepo       ports.TransactionRepository
	historyRepo  ports.StateHistoryRepository
	gateway      ports.ProviderGateway
	auth         ports.AuthService
	transactor   ports.DBTransactor
	ledgerCfg    config.LedgerConfig
	log          zerolog.Logger
}

// NewPaymentService creates a new PaymentServiceImpl.
func NewPaymentService(
	ledgerRepo ports.LedgerRepository,
	accountRepo ports.AccountRepository,
	customerRepo ports.CustomerRepository,
	txRepo ports.TransactionRepository,
	historyRepo ports.StateHistoryRepository,
	gateway ports.ProviderGateway,
	auth ports.AuthService,
	transactor ports.DBTransactor,
	ledgerCfg config.LedgerConfig,
	log zerolog.Logger,
) *PaymentServiceImpl {
	return &PaymentServiceImpl{
		ledgerRepo:   ledgerRepo,
		accountRepo:  accountRepo,
		customerRepo: customerRepo,
		txRepo:       txRepo,
		historyRepo:  historyRepo,
		gateway:      gateway,
		auth:         auth,
		transactor:   transactor,
		ledgerCfg:    ledgerCfg,
		log:          log,
	}
}

// CashIn moves external provider money into a customer wallet.
func (s *PaymentServiceImpl) CashIn(ctx context.Context, cmd ports.CashInCommand) (*domain.Transaction, error) {
	if err := s.auth.ValidatePin(ctx, cmd.CustomerID, cmd.RawPin); err != nil {
		return nil, err
	}

	ledger, err := s.loadLedger(ctx)
	if err != nil {
		return nil, err
	}
	account, err := s.customerAccount(ctx, cmd.CustomerID)
	if err != nil {
		return nil, err
	}
	float, err := s.floatAccount(ctx)
	if err != nil {
		return nil, err
	}

	txn, err := ledger.CashIn(account, float, cmd.Amount, cmd.PaymentMethod)
	if err != nil {
		return nil, err
	}

	return s.settle(ctx, txn,
		func(ctx context.Context) error {
			return s.gateway.Credit(ctx, cmd.Amount, cmd.PaymentMethod)
		},
		func() error {
			if err := float.Debit(cmd.Amount); err != nil {
				return err
			}
			return account.Credit(cmd.Amount)
		},
		[]*domain.Account{float, account},
	)
}

// CashOut moves customer wallet money out to the settlement pool.
func (s *PaymentServiceImpl) CashOut(ctx context.Context, cmd ports.CashOutCommand) (*domain.Transaction, error) {
	if err := s.auth.ValidatePin(ctx, cmd.CustomerID, cmd.RawPin); err != nil {
		return nil, err
	}

	ledger, err := s.loadLedger(ctx)
	if err != nil {
		return nil, err
	}
	account, err := s.customerAccount(ctx, cmd.CustomerID)
	if err != nil {
		return nil, err
	}
	float, err := s.floatAccount(ctx)
	if err != nil {
		return nil, err
	}

	txn, err := ledger.CashOut(account, float, cmd.Amount, cmd.PaymentMethod)
	if err != nil {
		return nil, err
	}

	return s.settle(ctx, txn,
		func(ctx context.Context) error {
			return s.gateway.Debit(ctx, cmd.Amount, cmd.PaymentMethod)
		},
		func() error {
			if err := account.Debit(cmd.Amount); err != nil {
				return err
			}
			return float.Credit(cmd.Amount)
		},
		[]*domain.Account{account, float},
	)
}

// Transfer moves money between two customer wallets. The recipient is
// resolved by full phone number.
func (s *PaymentServiceImpl) Transfer(ctx context.Context, cmd ports.TransferCommand) (*domain.Transaction, error) {
	if err := s.auth.ValidatePin(ctx, cmd.CustomerID, cmd.RawPin); err != nil {
		return nil, err
	}

	ledger, err := s.loadLedger(ctx)
	if err != nil {
		return nil, err
	}
	from, err := s.customerAccount(ctx, cmd.CustomerID)
	if err != nil {
		return nil, err
	}

	recipient, err := s.customerRepo.GetByPhoneNumber(ctx, cmd.ToPhoneNumber)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("find recipient: %w", err))
	}
	if recipient == nil {
		return nil, apperror.ErrNotFound("recipient")
	}
	if recipient.IsSuspended() {
		return nil, apperror.ErrCustomerSuspended("recipient is suspended")
	}
	to, err := s.customerAccount(ctx, recipient.ID())
	if err != nil {
		return nil, err
	}

	txn, err := ledger.Transfer(from, to, cmd.Amount, cmd.PaymentMethod)
	if err != nil {
		return nil, err
	}

	return s.settle(ctx, txn,
		func(ctx context.Context) error {
			return s.gateway.Send(ctx, cmd.Amount, cmd.PaymentMethod)
		},
		func() error {
			if err := from.Debit(cmd.Amount); err != nil {
				return err
			}
			return to.Credit(cmd.Amount)
		},
		[]*domain.Account{from, to},
	)
}

// settle drives an Initialized transaction through the provider protocol.
// Pending is made durable before the provider call. A provider-level failure
// (apperror.CodeProviderFailure) is absorbed: the transaction is marked
// Failed, compensated with mirrored legs and returned without error. Any
// other provider error propagates untouched.
func (s *PaymentServiceImpl) settle(
	ctx context.Context,
	txn *domain.Transaction,
	provider func(context.Context) error,
	apply func() error,
	touched []*domain.Account,
) (*domain.Transaction, error) {
	if err := txn.MarkPending(); err != nil {
		return nil, err
	}
	if err := s.persist(ctx, txn, nil); err != nil {
		return nil, err
	}

	if err := provider(ctx); err != nil {
		if !apperror.IsCode(err, apperror.CodeProviderFailure) {
			return nil, err
		}
		if err := s.compensate(ctx, txn); err != nil {
			return nil, err
		}
		s.log.Warn().
			Str("tx_id", txn.ID.String()).
			Str("number", txn.Number).
			Str("kind", string(txn.Kind)).
			Msg("provider settlement failed, transaction compensated")
		return txn, nil
	}

	if err := apply(); err != nil {
		return nil, err
	}
	if err := txn.MarkCompleted(); err != nil {
		return nil, err
	}
	if err := s.persist(ctx, txn, touched); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("tx_id", txn.ID.String()).
		Str("number", txn.Number).
		Str("kind", string(txn.Kind)).
		Str("amount", txn.Amount.String()).
		Msg("transaction completed")

	return txn, nil
}

// compensate marks the transaction Failed, appends the mirrored legs and
// persists state, legs and history in one atomic block. Balances were never
// applied, so none are written back.
func (s *PaymentServiceImpl) compensate(ctx context.Context, txn *domain.Transaction) error {
	if err := txn.MarkFailed(); err != nil {
		return err
	}
	ledger, err := s.loadLedger(ctx)
	if err != nil {
		return err
	}
	if err := ledger.Reverse(txn); err != nil {
		return err
	}
	return s.persist(ctx, txn, nil)
}

// persist writes the transaction, its pending history entries and any touched
// accounts inside a single database transaction.
func (s *PaymentServiceImpl) persist(ctx context.Context, txn *domain.Transaction, accounts []*domain.Account) error {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.txRepo.Save(ctx, dbTx, txn); err != nil {
		return apperror.ErrDatabaseError(fmt.Errorf("save transaction: %w", err))
	}
	for _, entry := range txn.History {
		if err := s.historyRepo.Save(ctx, dbTx, entry); err != nil {
			return apperror.ErrDatabaseError(fmt.Errorf("save state history: %w", err))
		}
	}
	for _, account := range accounts {
		if err := s.accountRepo.Save(ctx, dbTx, account); err != nil {
			return apperror.ErrDatabaseError(fmt.Errorf("save account %s: %w", account.Number, err))
		}
	}

	if err := dbTx.Commit(ctx); err != nil {
		return apperror.ErrDatabaseError(fmt.Errorf("commit tx: %w", err))
	}
	return nil
}

func (s *PaymentServiceImpl) loadLedger(ctx context.Context) (*domain.Ledger, error) {
	ledger, err := s.ledgerRepo.GetSingleton(ctx)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("load ledger: %w", err))
	}
	if ledger == nil {
		return nil, apperror.InternalError(errors.New("ledger has not been bootstrapped"))
	}
	return ledger, nil
}

func (s *PaymentServiceImpl) customerAccount(ctx context.Context, customerID uuid.UUID) (*domain.Account, error) {
	account, err := s.accountRepo.GetByCustomerID(ctx, customerID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("find account: %w", err))
	}
	if account == nil {
		return nil, apperror.ErrNotFound("account")
	}
	return account, nil
}

func (s *PaymentServiceImpl) floatAccount(ctx context.Context) (*domain.Account, error) {
	float, err := s.accountRepo.GetFloatByProviderID(ctx, s.ledgerCfg.FloatProviderID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("find float account: %w", err))
	}
	if float == nil {
		return nil, apperror.ErrNotFound("float account")
	}
	return float, nil
}
