package services

import (
	"context"

	"github.com/loomhaven/api/internal/domain"
	"github.com/loomhaven/api/internal/repositories"
)

// Stub repositories with overridable behaviors, defaulting to empty results.

type stubOrderRepo struct {
	createFn       func(ctx context.Context, o *domain.Order) error
	getFn          func(ctx context.Context, id uint) (*domain.Order, error)
	getByRefFn     func(ctx context.Context, ref string) (*domain.Order, error)
	listFn         func(ctx context.Context, userID *uint) ([]domain.Order, error)
	updateStatusFn func(ctx context.Context, id uint, status domain.OrderStatus) error
	setPaymentFn   func(ctx context.Context, id uint, method, paymentID string) error
}

func (s *stubOrderRepo) CreateOrder(ctx context.Context, o *domain.Order) error {
	if s.createFn != nil {
		return s.createFn(ctx, o)
	}
	o.ID = 1
	return nil
}

func (s *stubOrderRepo) GetOrderByID(ctx context.Context, id uint) (*domain.Order, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return nil, repositories.NewNotFound("order: get", nil)
}

func (s *stubOrderRepo) GetOrderByReference(ctx context.Context, ref string) (*domain.Order, error) {
	if s.getByRefFn != nil {
		return s.getByRefFn(ctx, ref)
	}
	return nil, repositories.NewNotFound("order: get by reference", nil)
}

func (s *stubOrderRepo) ListOrders(ctx context.Context, userID *uint) ([]domain.Order, error) {
	if s.listFn != nil {
		return s.listFn(ctx, userID)
	}
	return nil, nil
}

func (s *stubOrderRepo) UpdateOrderStatus(ctx context.Context, id uint, status domain.OrderStatus) error {
	if s.updateStatusFn != nil {
		return s.updateStatusFn(ctx, id, status)
	}
	return nil
}

func (s *stubOrderRepo) SetOrderPayment(ctx context.Context, id uint, method, paymentID string) error {
	if s.setPaymentFn != nil {
		return s.setPaymentFn(ctx, id, method, paymentID)
	}
	return nil
}

type stubReviewRepo struct {
	createFn func(ctx context.Context, r *domain.Review) error
	getFn    func(ctx context.Context, id uint) (*domain.Review, error)
	listFn   func(ctx context.Context, productID uint, visibleOnly bool) ([]domain.Review, error)
	updateFn func(ctx context.Context, r *domain.Review) error
	deleteFn func(ctx context.Context, id uint) error
	statsFn  func(ctx context.Context, productID uint) (string, int, error)
}

func (s *stubReviewRepo) CreateReview(ctx context.Context, r *domain.Review) error {
	if s.createFn != nil {
		return s.createFn(ctx, r)
	}
	r.ID = 1
	return nil
}

func (s *stubReviewRepo) GetReview(ctx context.Context, id uint) (*domain.Review, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return nil, repositories.NewNotFound("review: get", nil)
}

func (s *stubReviewRepo) ListReviews(ctx context.Context, productID uint, visibleOnly bool) ([]domain.Review, error) {
	if s.listFn != nil {
		return s.listFn(ctx, productID, visibleOnly)
	}
	return nil, nil
}

func (s *stubReviewRepo) UpdateReview(ctx context.Context, r *domain.Review) error {
	if s.updateFn != nil {
		return s.updateFn(ctx, r)
	}
	return nil
}

func (s *stubReviewRepo) DeleteReview(ctx context.Context, id uint) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return nil
}

func (s *stubReviewRepo) VisibleStats(ctx context.Context, productID uint) (string, int, error) {
	if s.statsFn != nil {
		return s.statsFn(ctx, productID)
	}
	return "0.0", 0, nil
}

type stubProductRepo struct {
	listFn         func(ctx context.Context, q repositories.ProductQuery) ([]domain.Product, int64, error)
	getFn          func(ctx context.Context, id uint) (*domain.Product, error)
	getBySlugFn    func(ctx context.Context, slug string) (*domain.Product, error)
	createFn       func(ctx context.Context, p *domain.Product) error
	updateFn       func(ctx context.Context, p *domain.Product) error
	deleteFn       func(ctx context.Context, id uint) error
	syncFn         func(ctx context.Context, productID uint, optionIDs []uint) error
	listOptionsFn  func(ctx context.Context, productID uint) ([]uint, error)
	updateRatingFn func(ctx context.Context, productID uint, rating string, reviewCount int) error
}

func (s *stubProductRepo) ListProducts(ctx context.Context, q repositories.ProductQuery) ([]domain.Product, int64, error) {
	if s.listFn != nil {
		return s.listFn(ctx, q)
	}
	return nil, 0, nil
}

func (s *stubProductRepo) GetProductByID(ctx context.Context, id uint) (*domain.Product, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return nil, repositories.NewNotFound("product: get", nil)
}

func (s *stubProductRepo) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	if s.getBySlugFn != nil {
		return s.getBySlugFn(ctx, slug)
	}
	return nil, repositories.NewNotFound("product: get", nil)
}

func (s *stubProductRepo) CreateProduct(ctx context.Context, p *domain.Product) error {
	if s.createFn != nil {
		return s.createFn(ctx, p)
	}
	p.ID = 1
	return nil
}

func (s *stubProductRepo) UpdateProduct(ctx context.Context, p *domain.Product) error {
	if s.updateFn != nil {
		return s.updateFn(ctx, p)
	}
	return nil
}

func (s *stubProductRepo) DeleteProduct(ctx context.Context, id uint) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return nil
}

func (s *stubProductRepo) SyncFilterOptions(ctx context.Context, productID uint, optionIDs []uint) error {
	if s.syncFn != nil {
		return s.syncFn(ctx, productID, optionIDs)
	}
	return nil
}

func (s *stubProductRepo) ListFilterOptionIDs(ctx context.Context, productID uint) ([]uint, error) {
	if s.listOptionsFn != nil {
		return s.listOptionsFn(ctx, productID)
	}
	return nil, nil
}

func (s *stubProductRepo) UpdateRating(ctx context.Context, productID uint, rating string, reviewCount int) error {
	if s.updateRatingFn != nil {
		return s.updateRatingFn(ctx, productID, rating, reviewCount)
	}
	return nil
}

type stubDimensionRepo struct {
	listTemplatesFn func(ctx context.Context) ([]domain.DimensionTemplate, error)
	getTemplateFn   func(ctx context.Context, id uint) (*domain.DimensionTemplate, error)
	getLinkFn       func(ctx context.Context, productID uint) (*domain.ProductDimensionTemplate, error)
	setLinkFn       func(ctx context.Context, link *domain.ProductDimensionTemplate) error
}

func (s *stubDimensionRepo) ListTemplates(ctx context.Context) ([]domain.DimensionTemplate, error) {
	if s.listTemplatesFn != nil {
		return s.listTemplatesFn(ctx)
	}
	return nil, nil
}

func (s *stubDimensionRepo) GetTemplate(ctx context.Context, id uint) (*domain.DimensionTemplate, error) {
	if s.getTemplateFn != nil {
		return s.getTemplateFn(ctx, id)
	}
	return nil, repositories.NewNotFound("dimension: get template", nil)
}

func (s *stubDimensionRepo) GetTemplateBySlug(ctx context.Context, slug string) (*domain.DimensionTemplate, error) {
	return nil, repositories.NewNotFound("dimension: get template by slug", nil)
}

func (s *stubDimensionRepo) CreateTemplate(ctx context.Context, t *domain.DimensionTemplate) error {
	t.ID = 1
	return nil
}

func (s *stubDimensionRepo) UpdateTemplate(ctx context.Context, t *domain.DimensionTemplate) error {
	return nil
}

func (s *stubDimensionRepo) DeleteTemplate(ctx context.Context, id uint) error { return nil }

func (s *stubDimensionRepo) GetProductLink(ctx context.Context, productID uint) (*domain.ProductDimensionTemplate, error) {
	if s.getLinkFn != nil {
		return s.getLinkFn(ctx, productID)
	}
	return nil, repositories.NewNotFound("dimension: get product link", nil)
}

func (s *stubDimensionRepo) SetProductLink(ctx context.Context, link *domain.ProductDimensionTemplate) error {
	if s.setLinkFn != nil {
		return s.setLinkFn(ctx, link)
	}
	return nil
}

func (s *stubDimensionRepo) DeleteProductLink(ctx context.Context, productID uint) error {
	return nil
}

type stubFilterRepo struct {
	listTypesFn  func(ctx context.Context, activeOnly bool) ([]domain.FilterType, error)
	facetsFn     func(ctx context.Context, categoryID, subCategoryID *uint) ([]repositories.Facet, error)
	createTypeFn func(ctx context.Context, ft *domain.FilterType) error
}

func (s *stubFilterRepo) ListFilterTypes(ctx context.Context, activeOnly bool) ([]domain.FilterType, error) {
	if s.listTypesFn != nil {
		return s.listTypesFn(ctx, activeOnly)
	}
	return nil, nil
}

func (s *stubFilterRepo) GetFilterType(ctx context.Context, id uint) (*domain.FilterType, error) {
	return nil, repositories.NewNotFound("filter: get type", nil)
}

func (s *stubFilterRepo) CreateFilterType(ctx context.Context, ft *domain.FilterType) error {
	if s.createTypeFn != nil {
		return s.createTypeFn(ctx, ft)
	}
	ft.ID = 1
	return nil
}

func (s *stubFilterRepo) UpdateFilterType(ctx context.Context, ft *domain.FilterType) error { return nil }
func (s *stubFilterRepo) DeleteFilterType(ctx context.Context, id uint) error               { return nil }

func (s *stubFilterRepo) GetFilterOption(ctx context.Context, id uint) (*domain.FilterOption, error) {
	return nil, repositories.NewNotFound("filter: get option", nil)
}

func (s *stubFilterRepo) CreateFilterOption(ctx context.Context, fo *domain.FilterOption) error {
	fo.ID = 1
	return nil
}

func (s *stubFilterRepo) UpdateFilterOption(ctx context.Context, fo *domain.FilterOption) error {
	return nil
}

func (s *stubFilterRepo) DeleteFilterOption(ctx context.Context, id uint) error { return nil }

func (s *stubFilterRepo) ResolveOptionIDs(ctx context.Context, filters map[string][]string) (map[string][]uint, error) {
	return nil, nil
}

func (s *stubFilterRepo) ListCategoryFilters(ctx context.Context, categoryID, subCategoryID *uint) ([]domain.CategoryFilter, error) {
	return nil, nil
}

func (s *stubFilterRepo) CreateCategoryFilter(ctx context.Context, cf *domain.CategoryFilter) error {
	cf.ID = 1
	return nil
}

func (s *stubFilterRepo) UpdateCategoryFilter(ctx context.Context, cf *domain.CategoryFilter) error {
	return nil
}

func (s *stubFilterRepo) DeleteCategoryFilter(ctx context.Context, id uint) error { return nil }

func (s *stubFilterRepo) FacetsForScope(ctx context.Context, categoryID, subCategoryID *uint) ([]repositories.Facet, error) {
	if s.facetsFn != nil {
		return s.facetsFn(ctx, categoryID, subCategoryID)
	}
	return nil, nil
}

type stubCategoryRepo struct {
	getBySlugFn func(ctx context.Context, slug string) (*domain.Category, error)
}

func (s *stubCategoryRepo) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return nil, nil
}

func (s *stubCategoryRepo) GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	if s.getBySlugFn != nil {
		return s.getBySlugFn(ctx, slug)
	}
	return nil, repositories.NewNotFound("category: get by slug", nil)
}

func (s *stubCategoryRepo) CreateCategory(ctx context.Context, c *domain.Category) error {
	c.ID = 1
	return nil
}

func (s *stubCategoryRepo) UpdateCategory(ctx context.Context, c *domain.Category) error { return nil }
func (s *stubCategoryRepo) DeleteCategory(ctx context.Context, id uint) error            { return nil }

func (s *stubCategoryRepo) ListSubCategories(ctx context.Context, categoryID uint) ([]domain.SubCategory, error) {
	return nil, nil
}

func (s *stubCategoryRepo) GetSubCategoryBySlug(ctx context.Context, slug string) (*domain.SubCategory, error) {
	return nil, repositories.NewNotFound("subcategory: get by slug", nil)
}

func (s *stubCategoryRepo) CreateSubCategory(ctx context.Context, sc *domain.SubCategory) error {
	sc.ID = 1
	return nil
}

func (s *stubCategoryRepo) UpdateSubCategory(ctx context.Context, sc *domain.SubCategory) error {
	return nil
}

func (s *stubCategoryRepo) DeleteSubCategory(ctx context.Context, id uint) error { return nil }
