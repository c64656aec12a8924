package dto

// RegisterRequest is the request body for customer registration.
type RegisterRequest struct {
	FullName    string `json:"full_name" binding:"required,min=1,max=100"`
	Email       string `json:"email" binding:"required,email,max=254"`
	PhonePrefix string `json:"phone_prefix" binding:"required,max=5"`
	PhoneNumber string `json:"phone_number" binding:"required,max=15"`
	Pin         string `json:"pin" binding:"required,pin_code"`
}

// RegisterResponse is the response body for successful registration.
type RegisterResponse struct {
	CustomerID    string `json:"customer_id"`
	AccountNumber string `json:"account_number"`
}

// VerifyOtpRequest is the request body for OTP verification.
type VerifyOtpRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,otp_code"`
}

// LoginRequest is the request body for customer login.
type LoginRequest struct {
	Email string `json:"email" binding:"required,email"`
	Pin   string `json:"pin" binding:"required"`
}

// RefreshRequest is the request body for token refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// TokenPairResponse is the response body for login and refresh.
type TokenPairResponse struct {
	AccessToken      string `json:"access_token"`
	AccessExpiresAt  int64  `json:"access_expires_at"`  // Unix timestamp
	RefreshToken     string `json:"refresh_token"`
	RefreshExpiresAt int64  `json:"refresh_expires_at"` // Unix timestamp
}

// PaymentRequest is the request body for cash-in and cash-out.
// Amount is a decimal string to avoid float rounding on the wire.
type PaymentRequest struct {
	Amount        string `json:"amount" binding:"required"`
	PaymentMethod string `json:"payment_method" binding:"required,max=50"`
	Pin           string `json:"pin" binding:"required"`
}

// TransferRequest is the request body for peer transfers. The recipient is
// addressed by full phone number (prefix included).
type TransferRequest struct {
	Amount        string `json:"amount" binding:"required"`
	PaymentMethod string `json:"payment_method" binding:"required,max=50"`
	Pin           string `json:"pin" binding:"required"`
	ToPhoneNumber string `json:"to_phone_number" binding:"required,max=20"`
}

// OperationResponse is one posting leg of a transaction.
type OperationResponse struct {
	ID         string `json:"id"`
	Kind       string `json:"kind"`
	Amount     string `json:"amount"`
	Currency   string `json:"currency"`
	AccountID  string `json:"account_id"`
	OccurredAt string `json:"occurred_at"`
}

// StateHistoryResponse is one entry of the transaction state history.
type StateHistoryResponse struct {
	OldState   *string `json:"old_state,omitempty"`
	NewState   string  `json:"new_state"`
	OccurredAt string  `json:"occurred_at"`
}

// TransactionResponse is the response body for transaction results.
type TransactionResponse struct {
	ID            string                 `json:"id"`
	Number        string                 `json:"number"`
	Kind          string                 `json:"kind"`
	State         string                 `json:"state"`
	Amount        string                 `json:"amount"`
	Currency      string                 `json:"currency"`
	PaymentMethod string                 `json:"payment_method"`
	FromAccountID string                 `json:"from_account_id"`
	ToAccountID   string                 `json:"to_account_id"`
	CreatedAt     string                 `json:"created_at"`
	Operations    []OperationResponse    `json:"operations"`
	History       []StateHistoryResponse `json:"history"`
}

// TransactionListResponse wraps a transaction list.
type TransactionListResponse struct {
	Items []TransactionResponse `json:"items"`
	Total int                   `json:"total"`
}

// BalanceResponse is the response for the balance query.
type BalanceResponse struct {
	AccountID     string `json:"account_id"`
	AccountNumber string `json:"account_number"`
	Balance       string `json:"balance"`
	Currency      string `json:"currency"`
	Blocked       bool   `json:"blocked"`
}
