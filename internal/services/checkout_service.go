package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/loomhaven/api/internal/domain"
	"github.com/loomhaven/api/internal/payments"
	"github.com/loomhaven/api/internal/repositories"
)

// ErrInvalidCheckout flags a rejected checkout payload.
var ErrInvalidCheckout = errors.New("checkout: invalid input")

// CheckoutItemInput is one purchasable line in a payment request.
type CheckoutItemInput struct {
	Name     string `json:"name"`
	Price    string `json:"price"`
	Quantity int64  `json:"quantity"`
}

// CheckoutInput opens a payment session. OrderID optionally ties the session
// back to a captured order.
type CheckoutInput struct {
	Items          []CheckoutItemInput `json:"items"`
	DeliveryCharge string              `json:"delivery_charge"`
	Currency       string              `json:"currency"`
	SuccessURL     string              `json:"success_url"`
	CancelURL      string              `json:"cancel_url"`
	CustomerEmail  string              `json:"customer_email"`
	OrderID        *uint               `json:"order_id"`
}

// StripeGateway is the card-payment surface the service needs.
type StripeGateway interface {
	CreateCheckoutSession(ctx context.Context, req payments.CheckoutRequest) (payments.CheckoutSession, error)
}

// PayPalGateway is the PayPal surface the service needs.
type PayPalGateway interface {
	CreateOrder(ctx context.Context, req payments.CheckoutRequest) (payments.CheckoutSession, error)
	CaptureOrder(ctx context.Context, orderID string) (payments.CaptureResult, error)
}

// CheckoutService adapts checkout submissions onto the payment gateways.
// Sessions are pass-through: no retries and no idempotency keys, so repeated
// calls open duplicate sessions by design of the gateway contract.
type CheckoutService struct {
	stripe     StripeGateway
	paypal     PayPalGateway
	orders     repositories.OrderRepository
	successURL string
	cancelURL  string
}

type CheckoutServiceDeps struct {
	Stripe     StripeGateway
	PayPal     PayPalGateway
	Orders     repositories.OrderRepository
	SuccessURL string
	CancelURL  string
}

func NewCheckoutService(deps CheckoutServiceDeps) *CheckoutService {
	return &CheckoutService{
		stripe:     deps.Stripe,
		paypal:     deps.PayPal,
		orders:     deps.Orders,
		successURL: deps.SuccessURL,
		cancelURL:  deps.CancelURL,
	}
}

// CreateCardSession opens a hosted card checkout session.
func (s *CheckoutService) CreateCardSession(ctx context.Context, in CheckoutInput) (payments.CheckoutSession, error) {
	req, err := s.buildRequest(ctx, in)
	if err != nil {
		return payments.CheckoutSession{}, err
	}
	session, err := s.stripe.CreateCheckoutSession(ctx, req)
	if err != nil {
		return payments.CheckoutSession{}, err
	}
	if in.OrderID != nil {
		if err := s.orders.SetOrderPayment(ctx, *in.OrderID, "card", session.ID); err != nil {
			return payments.CheckoutSession{}, err
		}
	}
	return session, nil
}

// CreatePayPalOrder opens a PayPal order for later capture.
func (s *CheckoutService) CreatePayPalOrder(ctx context.Context, in CheckoutInput) (payments.CheckoutSession, error) {
	req, err := s.buildRequest(ctx, in)
	if err != nil {
		return payments.CheckoutSession{}, err
	}
	session, err := s.paypal.CreateOrder(ctx, req)
	if err != nil {
		return payments.CheckoutSession{}, err
	}
	if in.OrderID != nil {
		if err := s.orders.SetOrderPayment(ctx, *in.OrderID, "paypal", session.ID); err != nil {
			return payments.CheckoutSession{}, err
		}
	}
	return session, nil
}

// CapturePayPalOrder captures an approved PayPal order and marks the linked
// order paid when the capture completes.
func (s *CheckoutService) CapturePayPalOrder(ctx context.Context, paypalOrderID string, orderID *uint) (payments.CaptureResult, error) {
	if strings.TrimSpace(paypalOrderID) == "" {
		return payments.CaptureResult{}, fmt.Errorf("%w: paypal order id is required", ErrInvalidCheckout)
	}
	result, err := s.paypal.CaptureOrder(ctx, paypalOrderID)
	if err != nil {
		return payments.CaptureResult{}, err
	}
	if orderID != nil && strings.EqualFold(result.Status, "COMPLETED") {
		if err := s.orders.UpdateOrderStatus(ctx, *orderID, domain.OrderStatusPaid); err != nil {
			return payments.CaptureResult{}, err
		}
	}
	return result, nil
}

func (s *CheckoutService) buildRequest(ctx context.Context, in CheckoutInput) (payments.CheckoutRequest, error) {
	errs := fieldErrors{}
	if len(in.Items) == 0 {
		errs.add("items", "at least one item is required")
	}
	items := make([]payments.CheckoutItem, 0, len(in.Items))
	for i, item := range in.Items {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			errs.add(fmt.Sprintf("items[%d].name", i), "name is required")
			continue
		}
		price := requireDecimal(item.Price, fmt.Sprintf("items[%d].price", i), errs)
		if price.IsNegative() {
			errs.add(fmt.Sprintf("items[%d].price", i), "price must not be negative")
			continue
		}
		qty := item.Quantity
		if qty <= 0 {
			qty = 1
		}
		items = append(items, payments.CheckoutItem{Name: name, Price: price, Quantity: qty})
	}
	delivery := optionalDecimal(in.DeliveryCharge, "delivery_charge", errs)
	if err := errs.err(); err != nil {
		return payments.CheckoutRequest{}, err
	}

	reference := ""
	if in.OrderID != nil {
		order, err := s.orders.GetOrderByID(ctx, *in.OrderID)
		if err != nil {
			return payments.CheckoutRequest{}, err
		}
		reference = order.Reference
	}

	return payments.CheckoutRequest{
		Items:          items,
		DeliveryCharge: delivery,
		Currency:       in.Currency,
		SuccessURL:     firstNonEmpty(in.SuccessURL, s.successURL),
		CancelURL:      firstNonEmpty(in.CancelURL, s.cancelURL),
		CustomerEmail:  strings.TrimSpace(in.CustomerEmail),
		OrderReference: reference,
	}, nil
}
