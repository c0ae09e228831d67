package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/loomhaven/api/internal/payments"
	"github.com/loomhaven/api/internal/services"
)

func TestPaymentCardSession(t *testing.T) {
	svc := &stubCheckoutService{
		cardFn: func(ctx context.Context, in services.CheckoutInput) (payments.CheckoutSession, error) {
			return payments.CheckoutSession{ID: "cs_9", URL: "https://pay.example/cs_9"}, nil
		},
	}
	router := NewRouter(WithPaymentRoutes(NewPaymentHandlers(svc).Routes))

	body := `{"items":[{"name":"Oak Bed","price":"499.99","quantity":1}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/checkout-session", strings.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var session payments.CheckoutSession
	if err := json.Unmarshal(rr.Body.Bytes(), &session); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if session.URL != "https://pay.example/cs_9" {
		t.Fatalf("redirect URL missing: %+v", session)
	}
}

func TestPaymentPayPalErrorSurfaced(t *testing.T) {
	svc := &stubCheckoutService{
		paypalFn: func(ctx context.Context, in services.CheckoutInput) (payments.CheckoutSession, error) {
			return payments.CheckoutSession{}, &payments.PayPalError{StatusCode: 422, Body: `{"name":"UNPROCESSABLE_ENTITY"}`}
		},
	}
	router := NewRouter(WithPaymentRoutes(NewPaymentHandlers(svc).Routes))

	body := `{"items":[{"name":"Oak Bed","price":"499.99"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/paypal/orders", strings.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rr.Code)
	}
	var resp struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if resp.Error != "paypal_error" {
		t.Fatalf("expected paypal_error, got %q", resp.Error)
	}
	if !strings.Contains(resp.Message, "UNPROCESSABLE_ENTITY") {
		t.Fatalf("upstream body must be surfaced: %q", resp.Message)
	}
}

func TestPaymentCaptureWithoutBody(t *testing.T) {
	var gotOrderID *uint
	svc := &stubCheckoutService{
		captureFn: func(ctx context.Context, paypalOrderID string, orderID *uint) (payments.CaptureResult, error) {
			gotOrderID = orderID
			return payments.CaptureResult{ID: paypalOrderID, Status: "COMPLETED"}, nil
		},
	}
	router := NewRouter(WithPaymentRoutes(NewPaymentHandlers(svc).Routes))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/paypal/orders/PP-1/capture", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if gotOrderID != nil {
		t.Fatal("missing body must not invent an order id")
	}
	var result payments.CaptureResult
	if err := json.Unmarshal(rr.Body.Bytes(), &result); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if result.Status != "COMPLETED" {
		t.Fatalf("unexpected result: %+v", result)
	}
}
