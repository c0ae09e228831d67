package repositories

import (
	"context"

	"github.com/loomhaven/api/internal/domain"
)

// ProductSort enumerates the supported catalog orderings.
type ProductSort string

const (
	SortFeatured  ProductSort = "featured"
	SortPriceAsc  ProductSort = "price_asc"
	SortPriceDesc ProductSort = "price_desc"
	SortNewest    ProductSort = "newest"
	SortRating    ProductSort = "rating"
)

// ProductQuery narrows a catalog listing. Filters maps a filter-type slug to
// the selected option slugs; options within one type are ORed, types are
// ANDed.
type ProductQuery struct {
	CategorySlug    string
	SubCategorySlug string
	Filters         map[string][]string
	Search          string
	InStockOnly     bool
	BestsellerOnly  bool
	NewOnly         bool
	Sort            ProductSort
	Page            int
	PageSize        int
}

// FacetOption is one selectable filter value with its product count within
// the current scope.
type FacetOption struct {
	Option       domain.FilterOption `json:"option"`
	ProductCount int64               `json:"product_count"`
}

// Facet is one filter type with its counted options.
type Facet struct {
	FilterType domain.FilterType `json:"filter_type"`
	Options    []FacetOption     `json:"options"`
}

// CategoryRepository persists the taxonomy.
type CategoryRepository interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error)
	CreateCategory(ctx context.Context, c *domain.Category) error
	UpdateCategory(ctx context.Context, c *domain.Category) error
	DeleteCategory(ctx context.Context, id uint) error

	ListSubCategories(ctx context.Context, categoryID uint) ([]domain.SubCategory, error)
	GetSubCategoryBySlug(ctx context.Context, slug string) (*domain.SubCategory, error)
	CreateSubCategory(ctx context.Context, sc *domain.SubCategory) error
	UpdateSubCategory(ctx context.Context, sc *domain.SubCategory) error
	DeleteSubCategory(ctx context.Context, id uint) error
}

// ProductRepository persists products, their variant sub-entities and their
// filter links.
type ProductRepository interface {
	ListProducts(ctx context.Context, q ProductQuery) ([]domain.Product, int64, error)
	GetProductByID(ctx context.Context, id uint) (*domain.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error)
	CreateProduct(ctx context.Context, p *domain.Product) error
	UpdateProduct(ctx context.Context, p *domain.Product) error
	DeleteProduct(ctx context.Context, id uint) error

	SyncFilterOptions(ctx context.Context, productID uint, optionIDs []uint) error
	ListFilterOptionIDs(ctx context.Context, productID uint) ([]uint, error)
	UpdateRating(ctx context.Context, productID uint, rating string, reviewCount int) error
}

// FilterRepository persists facet definitions and category scoping.
type FilterRepository interface {
	ListFilterTypes(ctx context.Context, activeOnly bool) ([]domain.FilterType, error)
	GetFilterType(ctx context.Context, id uint) (*domain.FilterType, error)
	CreateFilterType(ctx context.Context, ft *domain.FilterType) error
	UpdateFilterType(ctx context.Context, ft *domain.FilterType) error
	DeleteFilterType(ctx context.Context, id uint) error

	GetFilterOption(ctx context.Context, id uint) (*domain.FilterOption, error)
	CreateFilterOption(ctx context.Context, fo *domain.FilterOption) error
	UpdateFilterOption(ctx context.Context, fo *domain.FilterOption) error
	DeleteFilterOption(ctx context.Context, id uint) error
	ResolveOptionIDs(ctx context.Context, filters map[string][]string) (map[string][]uint, error)

	ListCategoryFilters(ctx context.Context, categoryID, subCategoryID *uint) ([]domain.CategoryFilter, error)
	CreateCategoryFilter(ctx context.Context, cf *domain.CategoryFilter) error
	UpdateCategoryFilter(ctx context.Context, cf *domain.CategoryFilter) error
	DeleteCategoryFilter(ctx context.Context, id uint) error

	FacetsForScope(ctx context.Context, categoryID, subCategoryID *uint) ([]Facet, error)
}

// DimensionRepository persists measurement templates and product links.
type DimensionRepository interface {
	ListTemplates(ctx context.Context) ([]domain.DimensionTemplate, error)
	GetTemplate(ctx context.Context, id uint) (*domain.DimensionTemplate, error)
	GetTemplateBySlug(ctx context.Context, slug string) (*domain.DimensionTemplate, error)
	CreateTemplate(ctx context.Context, t *domain.DimensionTemplate) error
	UpdateTemplate(ctx context.Context, t *domain.DimensionTemplate) error
	DeleteTemplate(ctx context.Context, id uint) error

	GetProductLink(ctx context.Context, productID uint) (*domain.ProductDimensionTemplate, error)
	SetProductLink(ctx context.Context, link *domain.ProductDimensionTemplate) error
	DeleteProductLink(ctx context.Context, productID uint) error
}

// OrderRepository persists orders and their line items.
type OrderRepository interface {
	CreateOrder(ctx context.Context, o *domain.Order) error
	GetOrderByID(ctx context.Context, id uint) (*domain.Order, error)
	GetOrderByReference(ctx context.Context, reference string) (*domain.Order, error)
	ListOrders(ctx context.Context, userID *uint) ([]domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id uint, status domain.OrderStatus) error
	SetOrderPayment(ctx context.Context, id uint, method, paymentID string) error
}

// ReviewRepository persists product reviews.
type ReviewRepository interface {
	CreateReview(ctx context.Context, r *domain.Review) error
	GetReview(ctx context.Context, id uint) (*domain.Review, error)
	ListReviews(ctx context.Context, productID uint, visibleOnly bool) ([]domain.Review, error)
	UpdateReview(ctx context.Context, r *domain.Review) error
	DeleteReview(ctx context.Context, id uint) error
	VisibleStats(ctx context.Context, productID uint) (avgRating string, count int, err error)
}

// UserRepository persists accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, u *domain.User) error
	GetUserByID(ctx context.Context, id uint) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
}
