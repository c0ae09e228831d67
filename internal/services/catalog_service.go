package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/loomhaven/api/internal/domain"
	"github.com/loomhaven/api/internal/platform/textutil"
	"github.com/loomhaven/api/internal/repositories"
)

// ErrInvalidCategory flags a rejected category or subcategory payload.
var ErrInvalidCategory = errors.New("catalog: invalid input")

// CatalogService manages the category taxonomy.
type CatalogService struct {
	categories repositories.CategoryRepository
}

// CatalogServiceDeps wires the service's collaborators.
type CatalogServiceDeps struct {
	Categories repositories.CategoryRepository
}

func NewCatalogService(deps CatalogServiceDeps) *CatalogService {
	return &CatalogService{categories: deps.Categories}
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.ListCategories(ctx)
}

func (s *CatalogService) GetCategory(ctx context.Context, slug string) (*domain.Category, error) {
	return s.categories.GetCategoryBySlug(ctx, slug)
}

func (s *CatalogService) CreateCategory(ctx context.Context, c *domain.Category) error {
	if err := prepareCategory(c); err != nil {
		return err
	}
	return s.categories.CreateCategory(ctx, c)
}

func (s *CatalogService) UpdateCategory(ctx context.Context, c *domain.Category) error {
	if c.ID == 0 {
		return fmt.Errorf("%w: missing id", ErrInvalidCategory)
	}
	if err := prepareCategory(c); err != nil {
		return err
	}
	return s.categories.UpdateCategory(ctx, c)
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id uint) error {
	return s.categories.DeleteCategory(ctx, id)
}

func (s *CatalogService) ListSubCategories(ctx context.Context, categoryID uint) ([]domain.SubCategory, error) {
	return s.categories.ListSubCategories(ctx, categoryID)
}

func (s *CatalogService) GetSubCategory(ctx context.Context, slug string) (*domain.SubCategory, error) {
	return s.categories.GetSubCategoryBySlug(ctx, slug)
}

func (s *CatalogService) CreateSubCategory(ctx context.Context, sc *domain.SubCategory) error {
	if err := prepareSubCategory(sc); err != nil {
		return err
	}
	return s.categories.CreateSubCategory(ctx, sc)
}

func (s *CatalogService) UpdateSubCategory(ctx context.Context, sc *domain.SubCategory) error {
	if sc.ID == 0 {
		return fmt.Errorf("%w: missing id", ErrInvalidCategory)
	}
	if err := prepareSubCategory(sc); err != nil {
		return err
	}
	return s.categories.UpdateSubCategory(ctx, sc)
}

func (s *CatalogService) DeleteSubCategory(ctx context.Context, id uint) error {
	return s.categories.DeleteSubCategory(ctx, id)
}

func prepareCategory(c *domain.Category) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidCategory)
	}
	c.Slug = normalizeSlug(c.Slug, c.Name)
	if c.Slug == "" {
		return fmt.Errorf("%w: name produces an empty slug", ErrInvalidCategory)
	}
	return nil
}

func prepareSubCategory(sc *domain.SubCategory) error {
	sc.Name = strings.TrimSpace(sc.Name)
	if sc.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidCategory)
	}
	if sc.CategoryID == 0 {
		return fmt.Errorf("%w: category is required", ErrInvalidCategory)
	}
	sc.Slug = normalizeSlug(sc.Slug, sc.Name)
	if sc.Slug == "" {
		return fmt.Errorf("%w: name produces an empty slug", ErrInvalidCategory)
	}
	return nil
}

// normalizeSlug slugifies the supplied slug, falling back to the name when
// the slug is blank.
func normalizeSlug(slug, name string) string {
	if s := textutil.Slugify(slug); s != "" {
		return s
	}
	return textutil.Slugify(name)
}
