package handlers

import (
	"context"
	"io"
	"time"

	"github.com/loomhaven/api/internal/domain"
	"github.com/loomhaven/api/internal/payments"
	"github.com/loomhaven/api/internal/platform/auth"
	"github.com/loomhaven/api/internal/repositories"
	"github.com/loomhaven/api/internal/services"
)

// Func-field stub services, defaulting to empty results.

func newTestTokenManager() *auth.TokenManager {
	return auth.NewTokenManager("test-secret", 15*time.Minute, time.Hour)
}

func bearerFor(tm *auth.TokenManager, id auth.Identity) string {
	pair, err := tm.Issue(id)
	if err != nil {
		panic(err)
	}
	return "Bearer " + pair.AccessToken
}

type stubOrderService struct {
	createFn   func(ctx context.Context, in services.OrderInput, userID *uint) (*domain.Order, error)
	getFn      func(ctx context.Context, id uint, userID *uint, staff bool) (*domain.Order, error)
	getByRefFn func(ctx context.Context, reference string, userID *uint, staff bool) (*domain.Order, error)
	listFn     func(ctx context.Context, userID *uint, staff bool) ([]domain.Order, error)
	statusFn   func(ctx context.Context, id uint, status domain.OrderStatus) error
}

func (s *stubOrderService) Create(ctx context.Context, in services.OrderInput, userID *uint) (*domain.Order, error) {
	if s.createFn != nil {
		return s.createFn(ctx, in, userID)
	}
	return &domain.Order{ID: 1}, nil
}

func (s *stubOrderService) Get(ctx context.Context, id uint, userID *uint, staff bool) (*domain.Order, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id, userID, staff)
	}
	return &domain.Order{ID: id}, nil
}

func (s *stubOrderService) GetByReference(ctx context.Context, reference string, userID *uint, staff bool) (*domain.Order, error) {
	if s.getByRefFn != nil {
		return s.getByRefFn(ctx, reference, userID, staff)
	}
	return &domain.Order{ID: 1, Reference: reference}, nil
}

func (s *stubOrderService) List(ctx context.Context, userID *uint, staff bool) ([]domain.Order, error) {
	if s.listFn != nil {
		return s.listFn(ctx, userID, staff)
	}
	return nil, nil
}

func (s *stubOrderService) MarkPaid(ctx context.Context, id uint) error {
	return s.mark(ctx, id, domain.OrderStatusPaid)
}

func (s *stubOrderService) MarkShipped(ctx context.Context, id uint) error {
	return s.mark(ctx, id, domain.OrderStatusShipped)
}

func (s *stubOrderService) MarkDelivered(ctx context.Context, id uint) error {
	return s.mark(ctx, id, domain.OrderStatusDelivered)
}

func (s *stubOrderService) MarkCancelled(ctx context.Context, id uint) error {
	return s.mark(ctx, id, domain.OrderStatusCancelled)
}

func (s *stubOrderService) mark(ctx context.Context, id uint, status domain.OrderStatus) error {
	if s.statusFn != nil {
		return s.statusFn(ctx, id, status)
	}
	return nil
}

type stubProductService struct {
	listFn   func(ctx context.Context, q repositories.ProductQuery) ([]domain.Product, int64, error)
	getFn    func(ctx context.Context, slug string) (*services.ProductView, error)
	createFn func(ctx context.Context, in services.ProductInput) (*domain.Product, error)
	updateFn func(ctx context.Context, id uint, in services.ProductInput) (*domain.Product, error)
	deleteFn func(ctx context.Context, id uint) error
}

func (s *stubProductService) List(ctx context.Context, q repositories.ProductQuery) ([]domain.Product, int64, error) {
	if s.listFn != nil {
		return s.listFn(ctx, q)
	}
	return nil, 0, nil
}

func (s *stubProductService) Get(ctx context.Context, slug string) (*services.ProductView, error) {
	if s.getFn != nil {
		return s.getFn(ctx, slug)
	}
	return &services.ProductView{Product: &domain.Product{ID: 1, Slug: slug}}, nil
}

func (s *stubProductService) GetByID(ctx context.Context, id uint) (*services.ProductView, error) {
	return &services.ProductView{Product: &domain.Product{ID: id}}, nil
}

func (s *stubProductService) Create(ctx context.Context, in services.ProductInput) (*domain.Product, error) {
	if s.createFn != nil {
		return s.createFn(ctx, in)
	}
	return &domain.Product{ID: 1}, nil
}

func (s *stubProductService) Update(ctx context.Context, id uint, in services.ProductInput) (*domain.Product, error) {
	if s.updateFn != nil {
		return s.updateFn(ctx, id, in)
	}
	return &domain.Product{ID: id}, nil
}

func (s *stubProductService) Delete(ctx context.Context, id uint) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return nil
}

type stubFilterParser struct {
	parseFn func(ctx context.Context, params map[string][]string) (map[string][]string, error)
}

func (s *stubFilterParser) ParseFilterParams(ctx context.Context, params map[string][]string) (map[string][]string, error) {
	if s.parseFn != nil {
		return s.parseFn(ctx, params)
	}
	return nil, nil
}

type stubReviewService struct {
	createFn   func(ctx context.Context, in services.ReviewInput, creatorID *uint, staff bool) (*domain.Review, error)
	listFn     func(ctx context.Context, productID uint, staff bool) ([]domain.Review, error)
	moderateFn func(ctx context.Context, id uint, in services.ReviewInput) (*domain.Review, error)
	deleteFn   func(ctx context.Context, id uint) error
}

func (s *stubReviewService) Create(ctx context.Context, in services.ReviewInput, creatorID *uint, staff bool) (*domain.Review, error) {
	if s.createFn != nil {
		return s.createFn(ctx, in, creatorID, staff)
	}
	return &domain.Review{ID: 1}, nil
}

func (s *stubReviewService) List(ctx context.Context, productID uint, staff bool) ([]domain.Review, error) {
	if s.listFn != nil {
		return s.listFn(ctx, productID, staff)
	}
	return nil, nil
}

func (s *stubReviewService) Moderate(ctx context.Context, id uint, in services.ReviewInput) (*domain.Review, error) {
	if s.moderateFn != nil {
		return s.moderateFn(ctx, id, in)
	}
	return &domain.Review{ID: id}, nil
}

func (s *stubReviewService) Delete(ctx context.Context, id uint) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return nil
}

type stubUserService struct {
	registerFn func(ctx context.Context, in services.RegisterInput) (*domain.User, auth.TokenPair, error)
	loginFn    func(ctx context.Context, username, password string) (*domain.User, auth.TokenPair, error)
	refreshFn  func(ctx context.Context, refreshToken string) (auth.TokenPair, error)
}

func (s *stubUserService) Register(ctx context.Context, in services.RegisterInput) (*domain.User, auth.TokenPair, error) {
	if s.registerFn != nil {
		return s.registerFn(ctx, in)
	}
	return &domain.User{ID: 1, Username: in.Username}, auth.TokenPair{AccessToken: "a", RefreshToken: "r"}, nil
}

func (s *stubUserService) Login(ctx context.Context, username, password string) (*domain.User, auth.TokenPair, error) {
	if s.loginFn != nil {
		return s.loginFn(ctx, username, password)
	}
	return &domain.User{ID: 1, Username: username}, auth.TokenPair{AccessToken: "a", RefreshToken: "r"}, nil
}

func (s *stubUserService) Refresh(ctx context.Context, refreshToken string) (auth.TokenPair, error) {
	if s.refreshFn != nil {
		return s.refreshFn(ctx, refreshToken)
	}
	return auth.TokenPair{AccessToken: "a", RefreshToken: "r"}, nil
}

type stubCheckoutService struct {
	cardFn    func(ctx context.Context, in services.CheckoutInput) (payments.CheckoutSession, error)
	paypalFn  func(ctx context.Context, in services.CheckoutInput) (payments.CheckoutSession, error)
	captureFn func(ctx context.Context, paypalOrderID string, orderID *uint) (payments.CaptureResult, error)
}

func (s *stubCheckoutService) CreateCardSession(ctx context.Context, in services.CheckoutInput) (payments.CheckoutSession, error) {
	if s.cardFn != nil {
		return s.cardFn(ctx, in)
	}
	return payments.CheckoutSession{ID: "cs_1"}, nil
}

func (s *stubCheckoutService) CreatePayPalOrder(ctx context.Context, in services.CheckoutInput) (payments.CheckoutSession, error) {
	if s.paypalFn != nil {
		return s.paypalFn(ctx, in)
	}
	return payments.CheckoutSession{ID: "pp_1"}, nil
}

func (s *stubCheckoutService) CapturePayPalOrder(ctx context.Context, paypalOrderID string, orderID *uint) (payments.CaptureResult, error) {
	if s.captureFn != nil {
		return s.captureFn(ctx, paypalOrderID, orderID)
	}
	return payments.CaptureResult{ID: paypalOrderID, Status: "COMPLETED"}, nil
}

type stubCatalogService struct {
	listCategoriesFn func(ctx context.Context) ([]domain.Category, error)
	getCategoryFn    func(ctx context.Context, slug string) (*domain.Category, error)
	createCategoryFn func(ctx context.Context, c *domain.Category) error
	listSubsFn       func(ctx context.Context, categoryID uint) ([]domain.SubCategory, error)
	getSubFn         func(ctx context.Context, slug string) (*domain.SubCategory, error)
}

func (s *stubCatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	if s.listCategoriesFn != nil {
		return s.listCategoriesFn(ctx)
	}
	return nil, nil
}

func (s *stubCatalogService) GetCategory(ctx context.Context, slug string) (*domain.Category, error) {
	if s.getCategoryFn != nil {
		return s.getCategoryFn(ctx, slug)
	}
	return &domain.Category{ID: 1, Slug: slug}, nil
}

func (s *stubCatalogService) CreateCategory(ctx context.Context, c *domain.Category) error {
	if s.createCategoryFn != nil {
		return s.createCategoryFn(ctx, c)
	}
	c.ID = 1
	return nil
}

func (s *stubCatalogService) UpdateCategory(ctx context.Context, c *domain.Category) error {
	return nil
}

func (s *stubCatalogService) DeleteCategory(ctx context.Context, id uint) error {
	return nil
}

func (s *stubCatalogService) ListSubCategories(ctx context.Context, categoryID uint) ([]domain.SubCategory, error) {
	if s.listSubsFn != nil {
		return s.listSubsFn(ctx, categoryID)
	}
	return nil, nil
}

func (s *stubCatalogService) GetSubCategory(ctx context.Context, slug string) (*domain.SubCategory, error) {
	if s.getSubFn != nil {
		return s.getSubFn(ctx, slug)
	}
	return &domain.SubCategory{ID: 1, Slug: slug}, nil
}

func (s *stubCatalogService) CreateSubCategory(ctx context.Context, sc *domain.SubCategory) error {
	sc.ID = 1
	return nil
}

func (s *stubCatalogService) UpdateSubCategory(ctx context.Context, sc *domain.SubCategory) error {
	return nil
}

func (s *stubCatalogService) DeleteSubCategory(ctx context.Context, id uint) error {
	return nil
}

type stubFacetService struct {
	categoryFn func(ctx context.Context, categorySlug string) ([]repositories.Facet, error)
	subFn      func(ctx context.Context, slug string) ([]repositories.Facet, error)
}

func (s *stubFacetService) FacetsForCategory(ctx context.Context, categorySlug string) ([]repositories.Facet, error) {
	if s.categoryFn != nil {
		return s.categoryFn(ctx, categorySlug)
	}
	return nil, nil
}

func (s *stubFacetService) FacetsForSubCategory(ctx context.Context, slug string) ([]repositories.Facet, error) {
	if s.subFn != nil {
		return s.subFn(ctx, slug)
	}
	return nil, nil
}

type stubUploadService struct {
	uploadFn func(ctx context.Context, filename, contentType string, body io.Reader) (*services.UploadResult, error)
}

func (s *stubUploadService) Upload(ctx context.Context, filename, contentType string, body io.Reader) (*services.UploadResult, error) {
	if s.uploadFn != nil {
		return s.uploadFn(ctx, filename, contentType, body)
	}
	return &services.UploadResult{ObjectName: "obj", URL: "https://cdn.example/obj"}, nil
}
