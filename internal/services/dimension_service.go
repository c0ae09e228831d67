package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/loomhaven/api/internal/domain"
	"github.com/loomhaven/api/internal/repositories"
)

// ErrInvalidDimension flags a rejected template or link payload.
var ErrInvalidDimension = errors.New("dimension: invalid input")

// DimensionService manages reusable measurement templates and their product
// links.
type DimensionService struct {
	dimensions repositories.DimensionRepository
	products   repositories.ProductRepository
}

type DimensionServiceDeps struct {
	Dimensions repositories.DimensionRepository
	Products   repositories.ProductRepository
}

func NewDimensionService(deps DimensionServiceDeps) *DimensionService {
	return &DimensionService{dimensions: deps.Dimensions, products: deps.Products}
}

func (s *DimensionService) ListTemplates(ctx context.Context) ([]domain.DimensionTemplate, error) {
	return s.dimensions.ListTemplates(ctx)
}

func (s *DimensionService) GetTemplate(ctx context.Context, id uint) (*domain.DimensionTemplate, error) {
	return s.dimensions.GetTemplate(ctx, id)
}

func (s *DimensionService) CreateTemplate(ctx context.Context, t *domain.DimensionTemplate) error {
	if err := prepareTemplate(t); err != nil {
		return err
	}
	return s.dimensions.CreateTemplate(ctx, t)
}

func (s *DimensionService) UpdateTemplate(ctx context.Context, t *domain.DimensionTemplate) error {
	if t.ID == 0 {
		return fmt.Errorf("%w: missing id", ErrInvalidDimension)
	}
	if err := prepareTemplate(t); err != nil {
		return err
	}
	return s.dimensions.UpdateTemplate(ctx, t)
}

func (s *DimensionService) DeleteTemplate(ctx context.Context, id uint) error {
	return s.dimensions.DeleteTemplate(ctx, id)
}

// LinkProduct attaches a template to a product, upserting the 1:1 link.
func (s *DimensionService) LinkProduct(ctx context.Context, productID, templateID uint, allowOverrides bool) error {
	if productID == 0 || templateID == 0 {
		return fmt.Errorf("%w: product and template are required", ErrInvalidDimension)
	}
	if _, err := s.products.GetProductByID(ctx, productID); err != nil {
		return err
	}
	if _, err := s.dimensions.GetTemplate(ctx, templateID); err != nil {
		return err
	}
	return s.dimensions.SetProductLink(ctx, &domain.ProductDimensionTemplate{
		ProductID:           productID,
		DimensionTemplateID: templateID,
		AllowOverrides:      allowOverrides,
	})
}

func (s *DimensionService) UnlinkProduct(ctx context.Context, productID uint) error {
	return s.dimensions.DeleteProductLink(ctx, productID)
}

// MergedForProduct produces the final measurement table for a product:
// template rows overlaid with the product's own overrides.
func (s *DimensionService) MergedForProduct(ctx context.Context, productID uint) ([]domain.MergedDimensionRow, error) {
	p, err := s.products.GetProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	var templateRows []domain.DimensionRow
	overrides := []domain.DimensionOverride(p.Dimensions)
	link, err := s.dimensions.GetProductLink(ctx, productID)
	switch {
	case err == nil:
		tpl, err := s.dimensions.GetTemplate(ctx, link.DimensionTemplateID)
		if err != nil && !repositories.IsNotFound(err) {
			return nil, err
		}
		if tpl != nil {
			templateRows = tpl.Rows
		}
		if !link.AllowOverrides {
			overrides = nil
		}
	case repositories.IsNotFound(err):
	default:
		return nil, err
	}
	return domain.MergeDimensions(templateRows, overrides), nil
}

func prepareTemplate(t *domain.DimensionTemplate) error {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidDimension)
	}
	t.Slug = normalizeSlug(t.Slug, t.Name)
	for i := range t.Rows {
		t.Rows[i].Measurement = strings.TrimSpace(t.Rows[i].Measurement)
		if t.Rows[i].Measurement == "" {
			return fmt.Errorf("%w: row %d is missing a measurement name", ErrInvalidDimension, i)
		}
	}
	return nil
}
