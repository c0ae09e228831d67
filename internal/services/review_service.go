package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/loomhaven/api/internal/domain"
	"github.com/loomhaven/api/internal/repositories"
)

// ErrInvalidReview flags a rejected review payload.
var ErrInvalidReview = errors.New("review: invalid input")

// ReviewInput is a review submission. IsVisible is honored only for staff
// callers; customer submissions always start hidden.
type ReviewInput struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
	IsVisible *bool  `json:"is_visible"`
}

// ReviewService manages product reviews and keeps the product's aggregate
// rating in step with visible reviews.
type ReviewService struct {
	reviews   repositories.ReviewRepository
	products  repositories.ProductRepository
	sanitizer *bluemonday.Policy
}

type ReviewServiceDeps struct {
	Reviews  repositories.ReviewRepository
	Products repositories.ProductRepository
}

func NewReviewService(deps ReviewServiceDeps) *ReviewService {
	return &ReviewService{
		reviews:   deps.Reviews,
		products:  deps.Products,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// Create persists a review. Non-staff submissions are forced hidden
// regardless of the supplied visibility; staff submissions default visible.
func (s *ReviewService) Create(ctx context.Context, in ReviewInput, creatorID *uint, staff bool) (*domain.Review, error) {
	name := strings.TrimSpace(s.sanitizer.Sanitize(in.Name))
	comment := strings.TrimSpace(s.sanitizer.Sanitize(in.Comment))
	if in.ProductID == 0 {
		return nil, fmt.Errorf("%w: product is required", ErrInvalidReview)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidReview)
	}
	if in.Rating < 1 || in.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidReview)
	}
	if _, err := s.products.GetProductByID(ctx, in.ProductID); err != nil {
		return nil, err
	}

	visible := false
	if staff {
		visible = boolOr(in.IsVisible, true)
	}
	review := &domain.Review{
		ProductID:   in.ProductID,
		Name:        name,
		Rating:      in.Rating,
		Comment:     comment,
		IsVisible:   visible,
		CreatedByID: creatorID,
	}
	if err := s.reviews.CreateReview(ctx, review); err != nil {
		return nil, err
	}
	if err := s.refreshProductRating(ctx, in.ProductID); err != nil {
		return nil, err
	}
	return review, nil
}

// List returns reviews for a product; hidden reviews are included only for
// staff.
func (s *ReviewService) List(ctx context.Context, productID uint, staff bool) ([]domain.Review, error) {
	return s.reviews.ListReviews(ctx, productID, !staff)
}

// Moderate updates a review's content or visibility (staff only at the
// transport layer) and refreshes the product aggregate.
func (s *ReviewService) Moderate(ctx context.Context, id uint, in ReviewInput) (*domain.Review, error) {
	review, err := s.reviews.GetReview(ctx, id)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(s.sanitizer.Sanitize(in.Name)); name != "" {
		review.Name = name
	}
	if in.Comment != "" {
		review.Comment = strings.TrimSpace(s.sanitizer.Sanitize(in.Comment))
	}
	if in.Rating != 0 {
		if in.Rating < 1 || in.Rating > 5 {
			return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidReview)
		}
		review.Rating = in.Rating
	}
	if in.IsVisible != nil {
		review.IsVisible = *in.IsVisible
	}
	if err := s.reviews.UpdateReview(ctx, review); err != nil {
		return nil, err
	}
	if err := s.refreshProductRating(ctx, review.ProductID); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) Delete(ctx context.Context, id uint) error {
	review, err := s.reviews.GetReview(ctx, id)
	if err != nil {
		return err
	}
	if err := s.reviews.DeleteReview(ctx, id); err != nil {
		return err
	}
	return s.refreshProductRating(ctx, review.ProductID)
}

func (s *ReviewService) refreshProductRating(ctx context.Context, productID uint) error {
	avg, count, err := s.reviews.VisibleStats(ctx, productID)
	if err != nil {
		return err
	}
	return s.products.UpdateRating(ctx, productID, avg, count)
}
