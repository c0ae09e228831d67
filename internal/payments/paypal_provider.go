package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PayPalError surfaces a non-2xx gateway response verbatim so callers can
// relay PayPal's own error payload.
type PayPalError struct {
	StatusCode int
	Body       string
}

func (e *PayPalError) Error() string {
	return fmt.Sprintf("payments: paypal returned status %d: %s", e.StatusCode, e.Body)
}

// PayPalProvider talks to the PayPal Orders v2 REST API. Every call fetches
// a fresh client-credentials token; no token is cached between calls.
type PayPalProvider struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client
}

// NewPayPalProvider builds a provider against the given API base, e.g. the
// sandbox or live host.
func NewPayPalProvider(baseURL, clientID, clientSecret string) *PayPalProvider {
	return &PayPalProvider{
		baseURL:      strings.TrimRight(baseURL, "/"),
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

type paypalAmount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type paypalPurchaseUnit struct {
	ReferenceID string       `json:"reference_id,omitempty"`
	Amount      paypalAmount `json:"amount"`
}

type paypalOrderRequest struct {
	Intent        string               `json:"intent"`
	PurchaseUnits []paypalPurchaseUnit `json:"purchase_units"`
}

type paypalOrderResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Links  []struct {
		Href string `json:"href"`
		Rel  string `json:"rel"`
	} `json:"links"`
}

// CreateOrder opens a capture-intent PayPal order covering the request total.
func (p *PayPalProvider) CreateOrder(ctx context.Context, req CheckoutRequest) (CheckoutSession, error) {
	if len(req.Items) == 0 {
		return CheckoutSession{}, ErrEmptyCheckout
	}
	currency := strings.ToUpper(req.Currency)
	if currency == "" {
		currency = "GBP"
	}

	total := req.DeliveryCharge
	for _, item := range req.Items {
		qty := item.Quantity
		if qty <= 0 {
			qty = 1
		}
		total = total.Add(item.Price.Mul(decimal.NewFromInt(qty)))
	}

	body := paypalOrderRequest{
		Intent: "CAPTURE",
		PurchaseUnits: []paypalPurchaseUnit{{
			ReferenceID: req.OrderReference,
			Amount: paypalAmount{
				CurrencyCode: currency,
				Value:        total.StringFixed(2),
			},
		}},
	}

	var resp paypalOrderResponse
	if err := p.call(ctx, http.MethodPost, "/v2/checkout/orders", body, &resp); err != nil {
		return CheckoutSession{}, err
	}

	approveURL := ""
	for _, link := range resp.Links {
		if link.Rel == "approve" {
			approveURL = link.Href
			break
		}
	}
	return CheckoutSession{ID: resp.ID, URL: approveURL}, nil
}

// CaptureOrder captures an approved PayPal order by id.
func (p *PayPalProvider) CaptureOrder(ctx context.Context, orderID string) (CaptureResult, error) {
	if strings.TrimSpace(orderID) == "" {
		return CaptureResult{}, errors.New("payments: paypal order id is required")
	}
	var resp paypalOrderResponse
	path := "/v2/checkout/orders/" + url.PathEscape(orderID) + "/capture"
	if err := p.call(ctx, http.MethodPost, path, struct{}{}, &resp); err != nil {
		return CaptureResult{}, err
	}
	return CaptureResult{ID: resp.ID, Status: resp.Status}, nil
}

// call performs one authenticated API request, acquiring a token first.
func (p *PayPalProvider) call(ctx context.Context, method, path string, body, out any) error {
	token, err := p.accessToken(ctx)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("payments: encode paypal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("payments: build paypal request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("payments: paypal request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("payments: read paypal response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &PayPalError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("payments: decode paypal response: %w", err)
		}
	}
	return nil
}

func (p *PayPalProvider) accessToken(ctx context.Context) (string, error) {
	form := strings.NewReader("grant_type=client_credentials")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/oauth2/token", form)
	if err != nil {
		return "", fmt.Errorf("payments: build paypal token request: %w", err)
	}
	req.SetBasicAuth(p.clientID, p.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("payments: paypal token request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("payments: read paypal token response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &PayPalError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(raw, &tokenResp); err != nil {
		return "", fmt.Errorf("payments: decode paypal token response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return "", errors.New("payments: paypal token response missing access_token")
	}
	return tokenResp.AccessToken, nil
}
