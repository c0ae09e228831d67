package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/loomhaven/api/internal/domain"
	"github.com/loomhaven/api/internal/platform/textutil"
	"github.com/loomhaven/api/internal/repositories"
)

// ErrInvalidFilter flags a rejected filter type/option payload.
var ErrInvalidFilter = errors.New("filter: invalid input")

const defaultFilterCacheTTL = 30 * time.Second

// FilterService manages facet definitions and answers storefront facet
// queries. The active filter-type list is served through a TTL read-through
// cache and invalidated on every mutation, so catalog calls avoid a
// full-table scan per request.
type FilterService struct {
	filters    repositories.FilterRepository
	categories repositories.CategoryRepository
	clock      func() time.Time
	cacheTTL   time.Duration

	mu          sync.RWMutex
	cachedTypes []domain.FilterType
	cachedAt    time.Time
}

type FilterServiceDeps struct {
	Filters    repositories.FilterRepository
	Categories repositories.CategoryRepository
	Clock      func() time.Time
	CacheTTL   time.Duration
}

func NewFilterService(deps FilterServiceDeps) *FilterService {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	ttl := deps.CacheTTL
	if ttl <= 0 {
		ttl = defaultFilterCacheTTL
	}
	return &FilterService{
		filters:    deps.Filters,
		categories: deps.Categories,
		clock:      clock,
		cacheTTL:   ttl,
	}
}

// ActiveFilterTypes returns the active facet types, defaults first, serving
// from cache within the TTL.
func (s *FilterService) ActiveFilterTypes(ctx context.Context) ([]domain.FilterType, error) {
	s.mu.RLock()
	if s.cachedTypes != nil && s.clock().Sub(s.cachedAt) < s.cacheTTL {
		types := s.cachedTypes
		s.mu.RUnlock()
		return types, nil
	}
	s.mu.RUnlock()

	types, err := s.filters.ListFilterTypes(ctx, true)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.cachedTypes = types
	s.cachedAt = s.clock()
	s.mu.Unlock()
	return types, nil
}

func (s *FilterService) invalidate() {
	s.mu.Lock()
	s.cachedTypes = nil
	s.mu.Unlock()
}

func (s *FilterService) ListFilterTypes(ctx context.Context, activeOnly bool) ([]domain.FilterType, error) {
	return s.filters.ListFilterTypes(ctx, activeOnly)
}

func (s *FilterService) GetFilterType(ctx context.Context, id uint) (*domain.FilterType, error) {
	return s.filters.GetFilterType(ctx, id)
}

func (s *FilterService) CreateFilterType(ctx context.Context, ft *domain.FilterType) error {
	if err := prepareFilterType(ft); err != nil {
		return err
	}
	if err := s.filters.CreateFilterType(ctx, ft); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *FilterService) UpdateFilterType(ctx context.Context, ft *domain.FilterType) error {
	if ft.ID == 0 {
		return fmt.Errorf("%w: missing id", ErrInvalidFilter)
	}
	if err := prepareFilterType(ft); err != nil {
		return err
	}
	if err := s.filters.UpdateFilterType(ctx, ft); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *FilterService) DeleteFilterType(ctx context.Context, id uint) error {
	if err := s.filters.DeleteFilterType(ctx, id); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *FilterService) GetFilterOption(ctx context.Context, id uint) (*domain.FilterOption, error) {
	return s.filters.GetFilterOption(ctx, id)
}

func (s *FilterService) CreateFilterOption(ctx context.Context, fo *domain.FilterOption) error {
	if err := prepareFilterOption(fo); err != nil {
		return err
	}
	if err := s.filters.CreateFilterOption(ctx, fo); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *FilterService) UpdateFilterOption(ctx context.Context, fo *domain.FilterOption) error {
	if fo.ID == 0 {
		return fmt.Errorf("%w: missing id", ErrInvalidFilter)
	}
	if err := prepareFilterOption(fo); err != nil {
		return err
	}
	if err := s.filters.UpdateFilterOption(ctx, fo); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *FilterService) DeleteFilterOption(ctx context.Context, id uint) error {
	if err := s.filters.DeleteFilterOption(ctx, id); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *FilterService) ListCategoryFilters(ctx context.Context, categoryID, subCategoryID *uint) ([]domain.CategoryFilter, error) {
	return s.filters.ListCategoryFilters(ctx, categoryID, subCategoryID)
}

func (s *FilterService) CreateCategoryFilter(ctx context.Context, cf *domain.CategoryFilter) error {
	if err := validateCategoryFilter(cf); err != nil {
		return err
	}
	return s.filters.CreateCategoryFilter(ctx, cf)
}

func (s *FilterService) UpdateCategoryFilter(ctx context.Context, cf *domain.CategoryFilter) error {
	if cf.ID == 0 {
		return fmt.Errorf("%w: missing id", ErrInvalidFilter)
	}
	if err := validateCategoryFilter(cf); err != nil {
		return err
	}
	return s.filters.UpdateCategoryFilter(ctx, cf)
}

func (s *FilterService) DeleteCategoryFilter(ctx context.Context, id uint) error {
	return s.filters.DeleteCategoryFilter(ctx, id)
}

// FacetsForCategory resolves a category slug and assembles its filter
// sidebar with live product counts.
func (s *FilterService) FacetsForCategory(ctx context.Context, categorySlug string) ([]repositories.Facet, error) {
	cat, err := s.categories.GetCategoryBySlug(ctx, categorySlug)
	if err != nil {
		return nil, err
	}
	return s.filters.FacetsForScope(ctx, &cat.ID, nil)
}

// FacetsForSubCategory does the same scoped to a subcategory slug.
func (s *FilterService) FacetsForSubCategory(ctx context.Context, slug string) ([]repositories.Facet, error) {
	sc, err := s.categories.GetSubCategoryBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.filters.FacetsForScope(ctx, nil, &sc.ID)
}

// ParseFilterParams extracts facet selections from query parameters: one
// comma-separated parameter per active filter-type slug. Parameters not
// matching an active type are ignored.
func (s *FilterService) ParseFilterParams(ctx context.Context, params map[string][]string) (map[string][]string, error) {
	types, err := s.ActiveFilterTypes(ctx)
	if err != nil {
		return nil, err
	}
	filters := make(map[string][]string)
	for _, ft := range types {
		values, ok := params[ft.Slug]
		if !ok {
			continue
		}
		var slugs []string
		for _, v := range values {
			for _, part := range strings.Split(v, ",") {
				if part = strings.TrimSpace(part); part != "" {
					slugs = append(slugs, part)
				}
			}
		}
		if len(slugs) > 0 {
			filters[ft.Slug] = slugs
		}
	}
	return filters, nil
}

func prepareFilterType(ft *domain.FilterType) error {
	ft.Name = strings.TrimSpace(ft.Name)
	if ft.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidFilter)
	}
	ft.Slug = normalizeSlug(ft.Slug, ft.Name)
	if ft.DisplayType == "" {
		ft.DisplayType = domain.FilterDisplayCheckbox
	}
	if !domain.ValidFilterDisplayType(ft.DisplayType) {
		return fmt.Errorf("%w: unknown display type %q", ErrInvalidFilter, ft.DisplayType)
	}
	return nil
}

func prepareFilterOption(fo *domain.FilterOption) error {
	fo.Name = strings.TrimSpace(fo.Name)
	if fo.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidFilter)
	}
	if fo.FilterTypeID == 0 {
		return fmt.Errorf("%w: filter type is required", ErrInvalidFilter)
	}
	if fo.Slug = textutil.Slugify(firstNonEmpty(fo.Slug, fo.Name)); fo.Slug == "" {
		return fmt.Errorf("%w: name produces an empty slug", ErrInvalidFilter)
	}
	return nil
}

func validateCategoryFilter(cf *domain.CategoryFilter) error {
	if cf.FilterTypeID == 0 {
		return fmt.Errorf("%w: filter type is required", ErrInvalidFilter)
	}
	if (cf.CategoryID == nil) == (cf.SubCategoryID == nil) {
		return fmt.Errorf("%w: exactly one of category or subcategory must be set", ErrInvalidFilter)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
