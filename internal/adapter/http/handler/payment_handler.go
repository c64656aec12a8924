package handler

import (
	"momo-ledger/internal/adapter/http/dto"
	"momo-ledger/internal/adapter/http/middleware"
	"momo-ledger/internal/core/domain"
	"momo-ledger/internal/core/ports"
	"momo-ledger/pkg/apperror"
	"momo-ledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

// PaymentHandler handles payment and transaction endpoints.
type PaymentHandler struct {
	paymentSvc  ports.PaymentService
	accountRepo ports.AccountRepository
	txRepo      ports.TransactionRepository
	currency    string
}

// NewPaymentHandler creates a new PaymentHandler. currency is the ledger's
// operating currency; all wire amounts are interpreted in it.
func NewPaymentHandler(paymentSvc ports.PaymentService, accountRepo ports.AccountRepository,
	txRepo ports.TransactionRepository, currency string) *PaymentHandler {
	return &PaymentHandler{
		paymentSvc:  paymentSvc,
		accountRepo: accountRepo,
		txRepo:      txRepo,
		currency:    currency,
	}
}

// CashIn handles POST /api/v1/payments/cashin.
func (h *PaymentHandler) CashIn(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	amount, err := h.parseAmount(req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.paymentSvc.CashIn(c.Request.Context(), ports.CashInCommand{
		CustomerID:    userID,
		RawPin:        req.Pin,
		Amount:        amount,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toTransactionResponse(result))
}

// CashOut handles POST /api/v1/payments/cashout.
func (h *PaymentHandler) CashOut(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	amount, err := h.parseAmount(req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.paymentSvc.CashOut(c.Request.Context(), ports.CashOutCommand{
		CustomerID:    userID,
		RawPin:        req.Pin,
		Amount:        amount,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toTransactionResponse(result))
}

// Transfer handles POST /api/v1/payments/transfer.
func (h *PaymentHandler) Transfer(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	amount, err := h.parseAmount(req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.paymentSvc.Transfer(c.Request.Context(), ports.TransferCommand{
		CustomerID:    userID,
		RawPin:        req.Pin,
		Amount:        amount,
		PaymentMethod: req.PaymentMethod,
		ToPhoneNumber: req.ToPhoneNumber,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toTransactionResponse(result))
}

// GetTransaction handles GET /api/v1/transactions/:id. Transactions are only
// visible to holders of an account they touch.
func (h *PaymentHandler) GetTransaction(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	txID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid transaction id"))
		return
	}

	account, err := h.accountRepo.GetByCustomerID(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if account == nil {
		response.Error(c, apperror.ErrNotFound("account"))
		return
	}

	txn, err := h.txRepo.GetByID(c.Request.Context(), txID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if txn == nil || (txn.FromAccountID != account.ID && txn.ToAccountID != account.ID) {
		response.Error(c, apperror.ErrNotFound("transaction"))
		return
	}

	response.OK(c, toTransactionResponse(txn))
}

// ListTransactions handles GET /api/v1/transactions.
func (h *PaymentHandler) ListTransactions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	account, err := h.accountRepo.GetByCustomerID(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if account == nil {
		response.Error(c, apperror.ErrNotFound("account"))
		return
	}

	txns, err := h.txRepo.ListByAccountID(c.Request.Context(), account.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.TransactionResponse, 0, len(txns))
	for i := range txns {
		items = append(items, toTransactionResponse(&txns[i]))
	}

	response.OK(c, dto.TransactionListResponse{Items: items, Total: len(items)})
}

// GetBalance handles GET /api/v1/accounts/balance.
func (h *PaymentHandler) GetBalance(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	account, err := h.accountRepo.GetByCustomerID(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if account == nil {
		response.Error(c, apperror.ErrNotFound("account"))
		return
	}

	response.OK(c, dto.BalanceResponse{
		AccountID:     account.ID.String(),
		AccountNumber: account.Number,
		Balance:       account.Balance.Amount.Value.String(),
		Currency:      account.Balance.Amount.Currency,
		Blocked:       account.Blocked,
	})
}

func (h *PaymentHandler) parseAmount(raw string) (domain.Amount, error) {
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return domain.Amount{}, apperror.ErrInvalidAmount("amount is not a valid decimal")
	}
	return domain.NewAmount(value, h.currency)
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	raw, ok := c.Get(middleware.CtxUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := raw.(uuid.UUID)
	return id, ok
}

// toTransactionResponse converts domain.Transaction to DTO.
func toTransactionResponse(txn *domain.Transaction) dto.TransactionResponse {
	ops := make([]dto.OperationResponse, 0, len(txn.Operations))
	for _, op := range txn.Operations {
		ops = append(ops, dto.OperationResponse{
			ID:         op.ID.String(),
			Kind:       string(op.Kind),
			Amount:     op.Amount.Value.String(),
			Currency:   op.Amount.Currency,
			AccountID:  op.AccountID.String(),
			OccurredAt: op.OccurredAt.Format(timeLayout),
		})
	}

	history := make([]dto.StateHistoryResponse, 0, len(txn.History))
	for _, entry := range txn.History {
		h := dto.StateHistoryResponse{
			NewState:   string(entry.NewState),
			OccurredAt: entry.OccurredAt.Format(timeLayout),
		}
		if entry.OldState != nil {
			s := string(*entry.OldState)
			h.OldState = &s
		}
		history = append(history, h)
	}

	return dto.TransactionResponse{
		ID:            txn.ID.String(),
		Number:        txn.Number,
		Kind:          string(txn.Kind),
		State:         string(txn.State),
		Amount:        txn.Amount.Value.String(),
		Currency:      txn.Amount.Currency,
		PaymentMethod: txn.PaymentMethod,
		FromAccountID: txn.FromAccountID.String(),
		ToAccountID:   txn.ToAccountID.String(),
		CreatedAt:     txn.CreatedAt.Format(timeLayout),
		Operations:    ops,
		History:       history,
	}
}
