package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"gorm.io/datatypes"

	"github.com/loomhaven/api/internal/domain"
	"github.com/loomhaven/api/internal/repositories"
)

var (
	// ErrInvalidOrder flags a rejected order payload.
	ErrInvalidOrder = errors.New("order: invalid input")
	// ErrOrderForbidden is returned when a caller may not read an order.
	ErrOrderForbidden = errors.New("order: access denied")
)

// OrderItemInput is one line of a checkout submission.
type OrderItemInput struct {
	ProductID        *uint          `json:"product_id"`
	Quantity         int            `json:"quantity"`
	Price            string         `json:"price"`
	Size             string         `json:"size"`
	Color            string         `json:"color"`
	Style            string         `json:"style"`
	Dimension        string         `json:"dimension"`
	DimensionDetails string         `json:"dimension_details"`
	SelectedVariants map[string]any `json:"selected_variants"`
	ExtrasTotal      string         `json:"extras_total"`
	IncludeDimension *bool          `json:"include_dimension"`
}

// OrderInput is a checkout submission. Totals are trusted as supplied; the
// server does not recompute pricing from the catalog.
type OrderInput struct {
	FirstName       string           `json:"first_name"`
	LastName        string           `json:"last_name"`
	Email           string           `json:"email"`
	Phone           string           `json:"phone"`
	Address         string           `json:"address"`
	City            string           `json:"city"`
	PostalCode      string           `json:"postal_code"`
	TotalAmount     string           `json:"total_amount"`
	DeliveryCharges string           `json:"delivery_charges"`
	PaymentMethod   string           `json:"payment_method"`
	Items           []OrderItemInput `json:"items"`
}

// OrderService records purchases as immutable snapshots and drives the
// status lifecycle.
type OrderService struct {
	orders repositories.OrderRepository
	clock  func() time.Time
}

type OrderServiceDeps struct {
	Orders repositories.OrderRepository
	Clock  func() time.Time
}

func NewOrderService(deps OrderServiceDeps) *OrderService {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &OrderService{
		orders: deps.Orders,
		clock:  clock,
	}
}

// Create validates and persists a new order. The authenticated user is
// attached when present; anonymous checkout is allowed.
func (s *OrderService) Create(ctx context.Context, in OrderInput, userID *uint) (*domain.Order, error) {
	errs := fieldErrors{}

	require := func(field, value string) string {
		v := strings.TrimSpace(value)
		if v == "" {
			errs.add(field, field+" is required")
		}
		return v
	}
	firstName := require("first_name", in.FirstName)
	lastName := require("last_name", in.LastName)
	email := require("email", in.Email)
	phone := require("phone", in.Phone)
	address := require("address", in.Address)
	city := require("city", in.City)
	postalCode := require("postal_code", in.PostalCode)
	if email != "" && !strings.Contains(email, "@") {
		errs.add("email", "invalid email address")
	}

	total := requireDecimal(in.TotalAmount, "total_amount", errs)
	delivery := optionalDecimal(in.DeliveryCharges, "delivery_charges", errs)
	if len(in.Items) == 0 {
		errs.add("items", "at least one item is required")
	}

	items := make([]domain.OrderItem, 0, len(in.Items))
	for i, item := range in.Items {
		if item.Quantity <= 0 {
			errs.add(fmt.Sprintf("items[%d].quantity", i), "quantity must be positive")
			continue
		}
		price := requireDecimal(item.Price, fmt.Sprintf("items[%d].price", i), errs)
		extras := optionalDecimal(item.ExtrasTotal, fmt.Sprintf("items[%d].extras_total", i), errs)
		items = append(items, domain.OrderItem{
			ProductID:        item.ProductID,
			Quantity:         item.Quantity,
			Price:            price,
			Size:             strings.TrimSpace(item.Size),
			Color:            strings.TrimSpace(item.Color),
			Style:            item.Style,
			Dimension:        strings.TrimSpace(item.Dimension),
			DimensionDetails: item.DimensionDetails,
			SelectedVariants: datatypes.JSONMap(item.SelectedVariants),
			ExtrasTotal:      extras,
			IncludeDimension: boolOr(item.IncludeDimension, true),
		})
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	order := &domain.Order{
		Reference:       s.newReference(),
		UserID:          userID,
		FirstName:       firstName,
		LastName:        lastName,
		Email:           email,
		Phone:           phone,
		Address:         address,
		City:            city,
		PostalCode:      postalCode,
		TotalAmount:     total,
		DeliveryCharges: delivery,
		Status:          domain.OrderStatusPending,
		PaymentMethod:   strings.TrimSpace(in.PaymentMethod),
		Items:           items,
	}
	if err := s.orders.CreateOrder(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// Get returns an order, enforcing owner-or-staff read access.
func (s *OrderService) Get(ctx context.Context, id uint, userID *uint, staff bool) (*domain.Order, error) {
	order, err := s.orders.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canReadOrder(order, userID, staff) {
		return nil, ErrOrderForbidden
	}
	return order, nil
}

// GetByReference is the customer-facing lookup by order reference.
func (s *OrderService) GetByReference(ctx context.Context, reference string, userID *uint, staff bool) (*domain.Order, error) {
	order, err := s.orders.GetOrderByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if !canReadOrder(order, userID, staff) {
		return nil, ErrOrderForbidden
	}
	return order, nil
}

// List returns every order for staff, or the caller's own orders otherwise.
func (s *OrderService) List(ctx context.Context, userID *uint, staff bool) ([]domain.Order, error) {
	if staff {
		return s.orders.ListOrders(ctx, nil)
	}
	if userID == nil {
		return nil, ErrOrderForbidden
	}
	return s.orders.ListOrders(ctx, userID)
}

// Status actions are discrete and idempotent. No transition graph is
// enforced.

func (s *OrderService) MarkPaid(ctx context.Context, id uint) error {
	return s.orders.UpdateOrderStatus(ctx, id, domain.OrderStatusPaid)
}

func (s *OrderService) MarkShipped(ctx context.Context, id uint) error {
	return s.orders.UpdateOrderStatus(ctx, id, domain.OrderStatusShipped)
}

func (s *OrderService) MarkDelivered(ctx context.Context, id uint) error {
	return s.orders.UpdateOrderStatus(ctx, id, domain.OrderStatusDelivered)
}

func (s *OrderService) MarkCancelled(ctx context.Context, id uint) error {
	return s.orders.UpdateOrderStatus(ctx, id, domain.OrderStatusCancelled)
}

// RecordPayment stores the gateway handle against the order.
func (s *OrderService) RecordPayment(ctx context.Context, id uint, method, paymentID string) error {
	return s.orders.SetOrderPayment(ctx, id, method, paymentID)
}

func (s *OrderService) newReference() string {
	return ulid.MustNew(ulid.Timestamp(s.clock()), ulid.DefaultEntropy()).String()
}

func canReadOrder(order *domain.Order, userID *uint, staff bool) bool {
	if staff {
		return true
	}
	return order.UserID != nil && userID != nil && *order.UserID == *userID
}
