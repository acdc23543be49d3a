// Package gateway is the opaque payment-gateway adapter. The core depends on
// its result contract only; the wire protocol stays behind this boundary.
package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/pkg/apperr"

	"github.com/shopspring/decimal"
)

// Config is injected into the adapter constructor; gateway credentials never
// live in process-wide globals.
type Config struct {
	BaseURL       string
	KeyID         string
	KeySecret     string
	WebhookSecret string
	Currency      string
	Timeout       time.Duration
}

type CreateOrderResult struct {
	GatewayOrderID string `json:"id"`
}

type PaymentResult struct {
	Status      string `json:"status"`
	AmountMinor int64  `json:"amount"`
}

type Gateway interface {
	// CreateOrder registers an external order for the amount (minor units).
	// The idempotency key is the order's merchant reference id.
	CreateOrder(ctx context.Context, amountMinor int64, currency, idempotencyKey string) (*CreateOrderResult, error)
	// VerifySignature checks the HMAC of a raw webhook payload.
	VerifySignature(payload []byte, signature string) bool
	// FetchPayment reads the gateway's view of a payment.
	FetchPayment(ctx context.Context, paymentID string) (*PaymentResult, error)
}

// ToMinorUnits converts a major-unit decimal amount to the gateway's integer
// minor units.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// FromMinorUnits converts gateway minor units back to a 2-decimal major amount.
func FromMinorUnits(minor int64) decimal.Decimal {
	return decimal.NewFromInt(minor).Div(decimal.NewFromInt(100)).Round(2)
}

// Client is the HTTP implementation.
type Client struct {
	cfg  Config
	http *http.Client
}

func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{cfg: cfg, http: &http.Client{Timeout: cfg.Timeout}}
}

func (g *Client) CreateOrder(ctx context.Context, amountMinor int64, currency, idempotencyKey string) (*CreateOrderResult, error) {
	body, err := json.Marshal(map[string]any{
		"amount":          amountMinor,
		"currency":        currency,
		"payment_capture": 1,
		"receipt":         idempotencyKey,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.BaseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(g.cfg.KeyID, g.cfg.KeySecret)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", idempotencyKey)

	res, err := g.http.Do(req)
	if err != nil {
		// A timeout is uncertain, not failed: the gateway may have created
		// the order. Surface indeterminate so the caller reconciles.
		if isTimeout(err) {
			return nil, apperr.Wrap(apperr.ErrPaymentIndeterminate, err)
		}
		return nil, apperr.Wrap(apperr.ErrPaymentInitiationFailed, err)
	}
	defer res.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(res.Body, 1<<16))
	if res.StatusCode != http.StatusOK && res.StatusCode != http.StatusCreated {
		return nil, apperr.Wrap(apperr.ErrPaymentInitiationFailed,
			fmt.Errorf("gateway returned %d: %s", res.StatusCode, raw))
	}

	var out CreateOrderResult
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, apperr.Wrap(apperr.ErrPaymentInitiationFailed, err)
	}
	return &out, nil
}

func (g *Client) VerifySignature(payload []byte, signature string) bool {
	return VerifyHMAC(payload, signature, g.cfg.WebhookSecret)
}

func (g *Client) FetchPayment(ctx context.Context, paymentID string) (*PaymentResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.cfg.BaseURL+"/payments/"+paymentID, nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(g.cfg.KeyID, g.cfg.KeySecret)

	res, err := g.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, apperr.Wrap(apperr.ErrPaymentIndeterminate, err)
		}
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway returned %d fetching payment", res.StatusCode)
	}

	var out PaymentResult
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyHMAC checks a hex-encoded HMAC-SHA256 over the raw payload.
func VerifyHMAC(payload []byte, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	want := hex.EncodeToString(mac.Sum(nil))
	return subtle.ConstantTimeCompare([]byte(want), []byte(signature)) == 1
}

// SignHMAC produces the signature VerifyHMAC accepts; used by tests and local
// tooling that simulate the provider.
func SignHMAC(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne interface{ Timeout() bool }
	return errors.As(err, &ne) && ne.Timeout()
}
