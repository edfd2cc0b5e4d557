package wompi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"

	domainErrors "github.com/jmcastano/payflow/internal/domain/errors"
	"github.com/jmcastano/payflow/internal/pkg/signature"
)

// Card describes a payment card to tokenize. Sandbox defaults are substituted
// for missing fields so test flows keep working without real card data.
type Card struct {
	Number   string
	CVC      string
	ExpMonth string
	ExpYear  string
	Holder   string
}

// TransactionRequest carries everything needed to create a gateway transaction.
type TransactionRequest struct {
	Reference     string
	AmountInCents int64
	CustomerEmail string
	RedirectURL   string
	CardToken     string
	Metadata      map[string]string
}

// TransactionResult is the gateway's view of a created or fetched transaction.
type TransactionResult struct {
	ID          string
	Status      string
	Reference   string
	RedirectURL string
}

// Client exposes the gateway operations used by the payment flow.
type Client interface {
	AcceptanceToken(ctx context.Context) (string, error)
	TokenizeCard(ctx context.Context, card Card) (string, error)
	CreateTransaction(ctx context.Context, req TransactionRequest) (*TransactionResult, error)
	GetTransaction(ctx context.Context, id string) (*TransactionResult, error)
}

// Config carries the credentials and policy injected into the client.
type Config struct {
	BaseURL      string
	PublicKey    string
	PrivateKey   string
	IntegrityKey string
	Currency     string
}

// HTTPClient implements Client against the Wompi REST API.
type HTTPClient struct {
	baseURL    *url.URL
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPClient creates a gateway client with a default timeout.
func NewHTTPClient(cfg Config, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse gateway url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("gateway url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		cfg:     cfg,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Sandbox card used when the caller supplies no card data.
const (
	defaultCardNumber = "4242424242424242"
	defaultCardCVC    = "123"
	defaultCardMonth  = "12"
	defaultCardYear   = "28"
)

func (c *HTTPClient) endpoint(parts ...string) string {
	u := *c.baseURL
	u.Path = path.Join(append([]string{u.Path}, parts...)...)
	return u.String()
}

func (c *HTTPClient) do(ctx context.Context, method, endpoint, bearer string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domainErrors.ErrGatewayFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		raw, _ := io.ReadAll(resp.Body)
		c.logger.Error("gateway request failed",
			slog.String("endpoint", endpoint),
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(raw)),
		)
		return fmt.Errorf("%w: %s", domainErrors.ErrGatewayFailure, resp.Status)
	}

	if out == nil {
		return nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", domainErrors.ErrGatewayFailure, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", domainErrors.ErrGatewayFailure, err)
	}
	return nil
}

// AcceptanceToken fetches the merchant presigned acceptance token required on
// every transaction.
func (c *HTTPClient) AcceptanceToken(ctx context.Context) (string, error) {
	var out struct {
		Data struct {
			PresignedAcceptance struct {
				AcceptanceToken string `json:"acceptance_token"`
			} `json:"presigned_acceptance"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, c.endpoint("merchants", c.cfg.PublicKey), "", nil, &out); err != nil {
		return "", err
	}
	if out.Data.PresignedAcceptance.AcceptanceToken == "" {
		return "", fmt.Errorf("%w: empty acceptance token", domainErrors.ErrGatewayFailure)
	}
	return out.Data.PresignedAcceptance.AcceptanceToken, nil
}

// TokenizeCard exchanges card data for a single-use token.
func (c *HTTPClient) TokenizeCard(ctx context.Context, card Card) (string, error) {
	if card.Number == "" {
		card.Number = defaultCardNumber
	}
	if card.CVC == "" {
		card.CVC = defaultCardCVC
	}
	if card.ExpMonth == "" {
		card.ExpMonth = defaultCardMonth
	}
	if card.ExpYear == "" {
		card.ExpYear = defaultCardYear
	}

	payload := map[string]string{
		"number":      card.Number,
		"cvc":         card.CVC,
		"exp_month":   card.ExpMonth,
		"exp_year":    card.ExpYear,
		"card_holder": card.Holder,
	}

	var out struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, c.endpoint("tokens", "cards"), c.cfg.PublicKey, payload, &out); err != nil {
		return "", err
	}
	if out.Data.ID == "" {
		return "", fmt.Errorf("%w: empty card token", domainErrors.ErrGatewayFailure)
	}
	return out.Data.ID, nil
}

type transactionResponse struct {
	Data struct {
		ID          string `json:"id"`
		Status      string `json:"status"`
		Reference   string `json:"reference"`
		RedirectURL string `json:"redirect_url"`
	} `json:"data"`
}

// CreateTransaction creates a card transaction signed with the integrity
// digest over reference, amount and currency.
func (c *HTTPClient) CreateTransaction(ctx context.Context, req TransactionRequest) (*TransactionResult, error) {
	acceptance, err := c.AcceptanceToken(ctx)
	if err != nil {
		return nil, err
	}

	payload := map[string]any{
		"currency":        c.cfg.Currency,
		"amount_in_cents": req.AmountInCents,
		"reference":       req.Reference,
		"customer_email":  req.CustomerEmail,
		"redirect_url":    req.RedirectURL,
		"metadata":        req.Metadata,
		"payment_method": map[string]any{
			"type":         "CARD",
			"installments": 1,
			"token":        req.CardToken,
		},
		"acceptance_token": acceptance,
		"signature":        signature.IntegrityDigest(req.Reference, req.AmountInCents, c.cfg.Currency, c.cfg.IntegrityKey),
	}

	var out transactionResponse
	if err := c.do(ctx, http.MethodPost, c.endpoint("transactions"), c.cfg.PrivateKey, payload, &out); err != nil {
		return nil, err
	}
	if out.Data.ID == "" {
		return nil, fmt.Errorf("%w: transaction response missing id", domainErrors.ErrGatewayFailure)
	}
	return &TransactionResult{
		ID:          out.Data.ID,
		Status:      out.Data.Status,
		Reference:   out.Data.Reference,
		RedirectURL: out.Data.RedirectURL,
	}, nil
}

// GetTransaction fetches the current state of a transaction by gateway id.
func (c *HTTPClient) GetTransaction(ctx context.Context, id string) (*TransactionResult, error) {
	var out transactionResponse
	if err := c.do(ctx, http.MethodGet, c.endpoint("transactions", id), c.cfg.PrivateKey, nil, &out); err != nil {
		return nil, err
	}
	if out.Data.ID == "" {
		return nil, domainErrors.ErrNotFound
	}
	return &TransactionResult{
		ID:          out.Data.ID,
		Status:      out.Data.Status,
		Reference:   out.Data.Reference,
		RedirectURL: out.Data.RedirectURL,
	}, nil
}
