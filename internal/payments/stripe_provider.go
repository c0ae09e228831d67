package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	stripe "github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/checkout/session"
)

// ErrEmptyCheckout is returned when a checkout request carries no items.
var ErrEmptyCheckout = errors.New("payments: checkout requires at least one item")

const deliveryLineName = "Delivery charges"

// stripeSessionAPI is the slice of the stripe client the provider uses.
// Kept as an interface so tests can stub session creation.
type stripeSessionAPI interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

type liveStripeSessions struct{}

func (liveStripeSessions) New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	return session.New(params)
}

// StripeProvider creates hosted checkout sessions through Stripe.
type StripeProvider struct {
	sessions stripeSessionAPI
	currency string
}

// NewStripeProvider configures the stripe SDK with the secret key.
func NewStripeProvider(secretKey, currency string) *StripeProvider {
	stripe.Key = secretKey
	if currency == "" {
		currency = "gbp"
	}
	return &StripeProvider{sessions: liveStripeSessions{}, currency: strings.ToLower(currency)}
}

// CreateCheckoutSession opens a payment-mode checkout session for the items
// plus an optional delivery line.
func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (CheckoutSession, error) {
	if len(req.Items) == 0 {
		return CheckoutSession{}, ErrEmptyCheckout
	}
	currency := strings.ToLower(req.Currency)
	if currency == "" {
		currency = p.currency
	}

	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(req.Items)+1)
	for _, item := range req.Items {
		qty := item.Quantity
		if qty <= 0 {
			qty = 1
		}
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(currency),
				UnitAmount: stripe.Int64(minorUnits(item.Price)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Name),
				},
			},
			Quantity: stripe.Int64(qty),
		})
	}
	if req.DeliveryCharge.IsPositive() {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(currency),
				UnitAmount: stripe.Int64(minorUnits(req.DeliveryCharge)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(deliveryLineName),
				},
			},
			Quantity: stripe.Int64(1),
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:  lineItems,
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
	}
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}
	if req.OrderReference != "" {
		params.ClientReferenceID = stripe.String(req.OrderReference)
	}
	params.Context = ctx

	sess, err := p.sessions.New(params)
	if err != nil {
		return CheckoutSession{}, fmt.Errorf("payments: create stripe session: %w", err)
	}
	return CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

// minorUnits converts a decimal major-unit amount to the gateway's integer
// minor units, rounding half up.
func minorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
