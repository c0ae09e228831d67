package gormrepo

import (
	"context"

	"gorm.io/gorm"

	"github.com/loomhaven/api/internal/domain"
)

// OrderRepository persists orders and their line items.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) CreateOrder(ctx context.Context, o *domain.Order) error {
	if err := r.db.WithContext(ctx).Create(o).Error; err != nil {
		return translate("order: create", err)
	}
	return nil
}

func (r *OrderRepository) GetOrderByID(ctx context.Context, id uint) (*domain.Order, error) {
	var o domain.Order
	if err := r.db.WithContext(ctx).Preload("Items").First(&o, id).Error; err != nil {
		return nil, translate("order: get", err)
	}
	return &o, nil
}

func (r *OrderRepository) GetOrderByReference(ctx context.Context, reference string) (*domain.Order, error) {
	var o domain.Order
	err := r.db.WithContext(ctx).Preload("Items").Where("reference = ?", reference).First(&o).Error
	if err != nil {
		return nil, translate("order: get by reference", err)
	}
	return &o, nil
}

// ListOrders returns orders newest first, scoped to a user when userID is
// set.
func (r *OrderRepository) ListOrders(ctx context.Context, userID *uint) ([]domain.Order, error) {
	var orders []domain.Order
	q := r.db.WithContext(ctx).Preload("Items").Order("created_at DESC, id DESC")
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}
	if err := q.Find(&orders).Error; err != nil {
		return nil, translate("order: list", err)
	}
	return orders, nil
}

// UpdateOrderStatus sets the status unconditionally; every status action is
// idempotent and no transition graph is enforced.
func (r *OrderRepository) UpdateOrderStatus(ctx context.Context, id uint, status domain.OrderStatus) error {
	res := r.db.WithContext(ctx).Model(&domain.Order{}).Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return translate("order: update status", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("order: update status", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *OrderRepository) SetOrderPayment(ctx context.Context, id uint, method, paymentID string) error {
	res := r.db.WithContext(ctx).Model(&domain.Order{}).Where("id = ?", id).
		Updates(map[string]any{"payment_method": method, "payment_id": paymentID})
	if res.Error != nil {
		return translate("order: set payment", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("order: set payment", gorm.ErrRecordNotFound)
	}
	return nil
}
