package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/loomhaven/api/internal/payments"
	"github.com/loomhaven/api/internal/platform/httpx"
	"github.com/loomhaven/api/internal/repositories"
	"github.com/loomhaven/api/internal/services"
)

// CheckoutService is the payment surface the handlers need.
type CheckoutService interface {
	CreateCardSession(ctx context.Context, in services.CheckoutInput) (payments.CheckoutSession, error)
	CreatePayPalOrder(ctx context.Context, in services.CheckoutInput) (payments.CheckoutSession, error)
	CapturePayPalOrder(ctx context.Context, paypalOrderID string, orderID *uint) (payments.CaptureResult, error)
}

// PaymentHandlers exposes the payment-session endpoints.
type PaymentHandlers struct {
	checkout CheckoutService
}

func NewPaymentHandlers(checkout CheckoutService) *PaymentHandlers {
	return &PaymentHandlers{checkout: checkout}
}

// Routes registers the /payments endpoints.
func (h *PaymentHandlers) Routes(r chi.Router) {
	r.Post("/checkout-session", h.createCardSession)
	r.Post("/paypal/orders", h.createPayPalOrder)
	r.Post("/paypal/orders/{id}/capture", h.capturePayPalOrder)
}

type captureRequest struct {
	OrderID *uint `json:"order_id"`
}

func (h *PaymentHandlers) createCardSession(w http.ResponseWriter, r *http.Request) {
	var in services.CheckoutInput
	if !decodeBody(w, r, &in) {
		return
	}
	session, err := h.checkout.CreateCardSession(r.Context(), in)
	if err != nil {
		writePaymentError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, session)
}

func (h *PaymentHandlers) createPayPalOrder(w http.ResponseWriter, r *http.Request) {
	var in services.CheckoutInput
	if !decodeBody(w, r, &in) {
		return
	}
	session, err := h.checkout.CreatePayPalOrder(r.Context(), in)
	if err != nil {
		writePaymentError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, session)
}

func (h *PaymentHandlers) capturePayPalOrder(w http.ResponseWriter, r *http.Request) {
	paypalOrderID := chi.URLParam(r, "id")

	var req captureRequest
	if r.ContentLength > 0 {
		if !decodeBody(w, r, &req) {
			return
		}
	}
	result, err := h.checkout.CapturePayPalOrder(r.Context(), paypalOrderID, req.OrderID)
	if err != nil {
		writePaymentError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, result)
}

// writePaymentError surfaces processor failures with their upstream status
// and body; everything else falls back to the shared mapping.
func writePaymentError(w http.ResponseWriter, r *http.Request, err error) {
	var ppErr *payments.PayPalError
	if errors.As(err, &ppErr) {
		httpx.WriteError(w, r, http.StatusBadGateway, "paypal_error", ppErr.Error())
		return
	}
	if errors.Is(err, payments.ErrEmptyCheckout) {
		httpx.BadRequest(w, r, err.Error())
		return
	}
	var verr *services.ValidationError
	if isInvalidInput(err) || errors.As(err, &verr) {
		writeServiceError(w, r, err)
		return
	}
	if repositories.IsNotFound(err) {
		httpx.NotFound(w, r, "resource not found")
		return
	}
	httpx.WriteError(w, r, http.StatusBadGateway, "payment_error", "payment processor request failed")
}
