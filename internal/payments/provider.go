package payments

import "github.com/shopspring/decimal"

// CheckoutItem is one purchasable line forwarded to a payment gateway.
type CheckoutItem struct {
	Name     string
	Price    decimal.Decimal
	Quantity int64
}

// CheckoutRequest carries everything needed to open a hosted payment session.
type CheckoutRequest struct {
	Items          []CheckoutItem
	DeliveryCharge decimal.Decimal
	Currency       string
	SuccessURL     string
	CancelURL      string
	CustomerEmail  string
	OrderReference string
}

// CheckoutSession is the gateway's handle for a created payment session.
type CheckoutSession struct {
	ID  string
	URL string
}

// CaptureResult reports the outcome of capturing an approved payment.
type CaptureResult struct {
	ID     string
	Status string
}
