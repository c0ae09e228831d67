package gormrepo

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/loomhaven/api/internal/domain"
)

// ReviewRepository persists product reviews.
type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) CreateReview(ctx context.Context, rev *domain.Review) error {
	if err := r.db.WithContext(ctx).Create(rev).Error; err != nil {
		return translate("review: create", err)
	}
	return nil
}

func (r *ReviewRepository) GetReview(ctx context.Context, id uint) (*domain.Review, error) {
	var rev domain.Review
	if err := r.db.WithContext(ctx).First(&rev, id).Error; err != nil {
		return nil, translate("review: get", err)
	}
	return &rev, nil
}

func (r *ReviewRepository) ListReviews(ctx context.Context, productID uint, visibleOnly bool) ([]domain.Review, error) {
	var reviews []domain.Review
	q := r.db.WithContext(ctx).Where("product_id = ?", productID).Order("created_at DESC, id DESC")
	if visibleOnly {
		q = q.Where("is_visible = ?", true)
	}
	if err := q.Find(&reviews).Error; err != nil {
		return nil, translate("review: list", err)
	}
	return reviews, nil
}

func (r *ReviewRepository) UpdateReview(ctx context.Context, rev *domain.Review) error {
	res := r.db.WithContext(ctx).Model(&domain.Review{}).Where("id = ?", rev.ID).
		Select("Name", "Rating", "Comment", "IsVisible").
		Updates(rev)
	if res.Error != nil {
		return translate("review: update", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("review: update", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *ReviewRepository) DeleteReview(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.Review{}, id)
	if res.Error != nil {
		return translate("review: delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("review: delete", gorm.ErrRecordNotFound)
	}
	return nil
}

// VisibleStats aggregates the rating across visible reviews, returning the
// average rounded to one decimal place as a string suitable for the product
// rating column.
func (r *ReviewRepository) VisibleStats(ctx context.Context, productID uint) (string, int, error) {
	var agg struct {
		Avg   *float64
		Count int
	}
	err := r.db.WithContext(ctx).Model(&domain.Review{}).
		Select("AVG(rating) AS avg, COUNT(*) AS count").
		Where("product_id = ? AND is_visible = ?", productID, true).
		Scan(&agg).Error
	if err != nil {
		return "", 0, translate("review: visible stats", err)
	}
	if agg.Avg == nil || agg.Count == 0 {
		return "0.0", 0, nil
	}
	return decimal.NewFromFloat(*agg.Avg).Round(1).StringFixed(1), agg.Count, nil
}
