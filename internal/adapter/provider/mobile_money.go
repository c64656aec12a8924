package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"momo-ledger/config"
	"momo-ledger/internal/core/domain"
	"momo-ledger/pkg/apperror"

	"github.com/rs/zerolog"
)

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// MobileMoneyGateway implements ports.ProviderGateway against the provider's
// HTTP API. Transport errors and non-2xx responses are both reported as
// provider failures, which the payment orchestrator compensates.
type MobileMoneyGateway struct {
	baseURL    string
	httpClient HTTPClient
	log        zerolog.Logger
}

// NewMobileMoneyGateway creates a gateway for the configured provider.
func NewMobileMoneyGateway(cfg config.ProviderConfig, log zerolog.Logger) *MobileMoneyGateway {
	return &MobileMoneyGateway{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log,
	}
}

// NewMobileMoneyGatewayWithClient creates a gateway with a custom HTTP client.
func NewMobileMoneyGatewayWithClient(baseURL string, client HTTPClient, log zerolog.Logger) *MobileMoneyGateway {
	return &MobileMoneyGateway{baseURL: baseURL, httpClient: client, log: log}
}

type settlementRequest struct {
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	PaymentMethod string `json:"payment_method"`
}

// Credit asks the provider to pay money out towards the customer.
func (g *MobileMoneyGateway) Credit(ctx context.Context, amount domain.Amount, paymentMethod string) error {
	return g.call(ctx, "/v1/credit", amount, paymentMethod)
}

// Debit asks the provider to collect money from the customer.
func (g *MobileMoneyGateway) Debit(ctx context.Context, amount domain.Amount, paymentMethod string) error {
	return g.call(ctx, "/v1/debit", amount, paymentMethod)
}

// Send asks the provider to move money between two subscribers.
func (g *MobileMoneyGateway) Send(ctx context.Context, amount domain.Amount, paymentMethod string) error {
	return g.call(ctx, "/v1/send", amount, paymentMethod)
}

func (g *MobileMoneyGateway) call(ctx context.Context, path string, amount domain.Amount, paymentMethod string) error {
	payload, err := json.Marshal(settlementRequest{
		Amount:        amount.Value.String(),
		Currency:      amount.Currency,
		PaymentMethod: paymentMethod,
	})
	if err != nil {
		return apperror.InternalError(fmt.Errorf("marshal settlement request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return apperror.InternalError(fmt.Errorf("build settlement request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		g.log.Warn().Err(err).Str("path", path).Msg("provider call failed")
		return apperror.ErrProviderFailure(fmt.Errorf("provider call %s: %w", path, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		g.log.Warn().Int("status", resp.StatusCode).Str("path", path).Msg("provider returned non-2xx")
		return apperror.ErrProviderFailure(fmt.Errorf("provider call %s: status %d", path, resp.StatusCode))
	}
	return nil
}
