package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// IsCode reports whether err is (or wraps) an AppError carrying the given code.
func IsCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Input Validation (VAL) ----

// Validation returns a generic bad-input error.
func Validation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}

func ErrInvalidAmount(message string) *AppError {
	return New("VAL_002", message, http.StatusBadRequest)
}

func ErrInvalidPhoneNumber(message string) *AppError {
	return New("VAL_003", message, http.StatusBadRequest)
}

// ---- Accounts & Customers (ACC) ----

func ErrNotFound(entity string) *AppError {
	return New("ACC_001", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

func ErrInsufficientFunds(message string) *AppError {
	return New("ACC_002", message, http.StatusPaymentRequired)
}

func ErrAccountBlocked(message string) *AppError {
	return New("ACC_003", message, http.StatusForbidden)
}

func ErrCustomerSuspended(message string) *AppError {
	return New("ACC_004", message, http.StatusForbidden)
}

func ErrCurrencyMismatch(have, want string) *AppError {
	return New("ACC_005",
		fmt.Sprintf("currency mismatch: %s vs %s", have, want),
		http.StatusUnprocessableEntity)
}

// ---- Transactions & Ledger (TRX) ----

func ErrSelfTransfer() *AppError {
	return New("TRX_001", "Cannot transfer to the same account", http.StatusUnprocessableEntity)
}

func ErrInvalidStateTransition(from, to string) *AppError {
	return New("TRX_002",
		fmt.Sprintf("illegal transaction state transition: %s -> %s", from, to),
		http.StatusConflict)
}

// ErrDoubleEntryViolation signals broken bookkeeping. This is a defect, not a
// recoverable condition: the ledger is the sole producer of legs.
func ErrDoubleEntryViolation(debit, credit string) *AppError {
	return New("TRX_003",
		fmt.Sprintf("double-entry invariant violated: debit=%s credit=%s", debit, credit),
		http.StatusInternalServerError)
}

// CodeProviderFailure identifies provider-level failures. The payment
// orchestrator compensates exactly this code; any other error propagates.
const CodeProviderFailure = "TRX_004"

// ErrProviderFailure marks a settlement-provider-level failure. The payment
// orchestrator absorbs it via the reversal protocol; API callers never see it.
func ErrProviderFailure(err error) *AppError {
	return Wrap(CodeProviderFailure, "Settlement provider rejected the operation", http.StatusBadGateway, err)
}

// ---- Authentication (AUTH) ----

func ErrInvalidPin() *AppError {
	return New("AUTH_001", "Invalid PIN", http.StatusUnauthorized)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_002", "Invalid or expired token", http.StatusUnauthorized)
}

func ErrOtpExpired(message string) *AppError {
	return New("AUTH_003", message, http.StatusGone)
}

func ErrInvalidOtp() *AppError {
	return New("AUTH_004", "OTP code does not match", http.StatusUnauthorized)
}

func ErrEmailExists() *AppError {
	return New("AUTH_005", "Email is already registered", http.StatusConflict)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_002", "Internal database error", http.StatusInternalServerError, err)
}
