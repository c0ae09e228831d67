package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/datatypes"

	"github.com/loomhaven/api/internal/domain"
	"github.com/loomhaven/api/internal/repositories"
)

// ErrInvalidProduct flags a rejected product payload outside the variant
// normalizer's field-scoped errors.
var ErrInvalidProduct = errors.New("product: invalid input")

// ProductInput is the write payload for a product: scalar fields plus raw
// variant sections and filter-option links.
type ProductInput struct {
	Name                string                     `json:"name"`
	Slug                string                     `json:"slug"`
	CategoryID          uint                       `json:"category_id"`
	SubCategoryID       *uint                      `json:"subcategory_id"`
	Price               string                     `json:"price"`
	OriginalPrice       string                     `json:"original_price"`
	DiscountPercentage  int                        `json:"discount_percentage"`
	Description         string                     `json:"description"`
	ShortDescription    string                     `json:"short_description"`
	Features            []string                   `json:"features"`
	Dimensions          []domain.DimensionOverride `json:"dimensions"`
	FAQs                []domain.FAQ               `json:"faqs"`
	DeliveryInfo        string                     `json:"delivery_info"`
	ReturnsGuarantee    string                     `json:"returns_guarantee"`
	DeliveryTitle       string                     `json:"delivery_title"`
	ReturnsTitle        string                     `json:"returns_title"`
	CustomInfoSections  []domain.CustomInfoSection `json:"custom_info_sections"`
	DeliveryCharges     string                     `json:"delivery_charges"`
	InStock             *bool                      `json:"in_stock"`
	IsBestseller        bool                       `json:"is_bestseller"`
	IsNew               bool                       `json:"is_new"`
	ShowSizeIcons       *bool                      `json:"show_size_icons"`
	DimensionParagraph  string                     `json:"dimension_paragraph"`
	DimensionImages     []domain.DimensionImage    `json:"dimension_images"`
	ShowDimensionsTable *bool                      `json:"show_dimensions_table"`
	SortOrder           int                        `json:"sort_order"`

	Variants      VariantPayload `json:"variants"`
	FilterOptions []uint         `json:"filter_options"`
}

// ProductView is the detail serialization: the product plus its merged
// dimension table and linked filter options.
type ProductView struct {
	Product          *domain.Product             `json:"product"`
	MergedDimensions []domain.MergedDimensionRow `json:"merged_dimensions"`
	FilterOptionIDs  []uint                      `json:"filter_option_ids"`
}

// ProductService coordinates normalization, persistence and filter links for
// products.
type ProductService struct {
	products   repositories.ProductRepository
	dimensions repositories.DimensionRepository
}

type ProductServiceDeps struct {
	Products   repositories.ProductRepository
	Dimensions repositories.DimensionRepository
}

func NewProductService(deps ProductServiceDeps) *ProductService {
	return &ProductService{products: deps.Products, dimensions: deps.Dimensions}
}

// List returns a catalog page and the total match count.
func (s *ProductService) List(ctx context.Context, q repositories.ProductQuery) ([]domain.Product, int64, error) {
	return s.products.ListProducts(ctx, q)
}

// Get loads the full product detail, including the merged dimension table
// from its linked template plus overrides.
func (s *ProductService) Get(ctx context.Context, slug string) (*ProductView, error) {
	p, err := s.products.GetProductBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, p)
}

func (s *ProductService) GetByID(ctx context.Context, id uint) (*ProductView, error) {
	p, err := s.products.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, p)
}

func (s *ProductService) buildView(ctx context.Context, p *domain.Product) (*ProductView, error) {
	view := &ProductView{Product: p}

	var templateRows []domain.DimensionRow
	overrides := []domain.DimensionOverride(p.Dimensions)
	link, err := s.dimensions.GetProductLink(ctx, p.ID)
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
		// No template link; overrides alone form the table.
	default:
		return nil, err
	}
	view.MergedDimensions = domain.MergeDimensions(templateRows, overrides)

	ids, err := s.products.ListFilterOptionIDs(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	view.FilterOptionIDs = ids
	return view, nil
}

// Create validates, normalizes and persists a new product with its variants
// and filter links.
func (s *ProductService) Create(ctx context.Context, in ProductInput) (*domain.Product, error) {
	normalizer := VariantNormalizer{ProductExists: s.productExists(ctx)}
	p, err := s.buildProduct(in, &normalizer)
	if err != nil {
		return nil, err
	}
	if err := s.products.CreateProduct(ctx, p); err != nil {
		return nil, err
	}
	if len(in.FilterOptions) > 0 {
		if err := s.products.SyncFilterOptions(ctx, p.ID, in.FilterOptions); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Update rewrites the product in place. Variant collections reconcile
// against their natural keys and filter links synchronize by set difference.
func (s *ProductService) Update(ctx context.Context, id uint, in ProductInput) (*domain.Product, error) {
	if id == 0 {
		return nil, fmt.Errorf("%w: missing id", ErrInvalidProduct)
	}
	normalizer := VariantNormalizer{ProductExists: s.productExists(ctx)}
	p, err := s.buildProduct(in, &normalizer)
	if err != nil {
		return nil, err
	}
	p.ID = id
	if err := s.products.UpdateProduct(ctx, p); err != nil {
		return nil, err
	}
	if err := s.products.SyncFilterOptions(ctx, id, in.FilterOptions); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProductService) Delete(ctx context.Context, id uint) error {
	return s.products.DeleteProduct(ctx, id)
}

func (s *ProductService) productExists(ctx context.Context) func(id uint) bool {
	return func(id uint) bool {
		_, err := s.products.GetProductByID(ctx, id)
		return err == nil
	}
}

func (s *ProductService) buildProduct(in ProductInput, normalizer *VariantNormalizer) (*domain.Product, error) {
	errs := fieldErrors{}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		errs.add("name", "name is required")
	}
	slug := normalizeSlug(in.Slug, name)
	if slug == "" {
		errs.add("slug", "name produces an empty slug")
	}
	if in.CategoryID == 0 {
		errs.add("category_id", "category is required")
	}

	price := requireDecimal(in.Price, "price", errs)
	deliveryCharges := optionalDecimal(in.DeliveryCharges, "delivery_charges", errs)
	originalPrice := optionalNullDecimal(in.OriginalPrice, "original_price", errs)

	variants, err := normalizer.Normalize(in.Variants)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			for k, v := range verr.Fields {
				errs.add(k, v)
			}
		} else {
			return nil, err
		}
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	p := &domain.Product{
		Name:                name,
		Slug:                slug,
		CategoryID:          in.CategoryID,
		SubCategoryID:       in.SubCategoryID,
		Price:               price,
		OriginalPrice:       originalPrice,
		DiscountPercentage:  in.DiscountPercentage,
		Description:         in.Description,
		ShortDescription:    in.ShortDescription,
		Features:            datatypes.NewJSONSlice(in.Features),
		Dimensions:          datatypes.NewJSONSlice(in.Dimensions),
		FAQs:                datatypes.NewJSONSlice(in.FAQs),
		DeliveryInfo:        in.DeliveryInfo,
		ReturnsGuarantee:    in.ReturnsGuarantee,
		DeliveryTitle:       in.DeliveryTitle,
		ReturnsTitle:        in.ReturnsTitle,
		CustomInfoSections:  datatypes.NewJSONSlice(in.CustomInfoSections),
		DeliveryCharges:     deliveryCharges,
		InStock:             boolOr(in.InStock, true),
		IsBestseller:        in.IsBestseller,
		IsNew:               in.IsNew,
		ShowSizeIcons:       boolOr(in.ShowSizeIcons, true),
		DimensionParagraph:  in.DimensionParagraph,
		DimensionImages:     datatypes.NewJSONSlice(in.DimensionImages),
		ShowDimensionsTable: boolOr(in.ShowDimensionsTable, true),
		SortOrder:           in.SortOrder,
		Images:              variants.Images,
		Videos:              variants.Videos,
		Colors:              variants.Colors,
		Sizes:               variants.Sizes,
		Styles:              variants.Styles,
		Fabrics:             variants.Fabrics,
		Mattresses:          variants.Mattresses,
	}
	return p, nil
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}
