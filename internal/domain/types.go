package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Category is a top-level taxonomy node. Slugs are unique across categories
// and listing order is manual via SortOrder.
type Category struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	Name          string        `gorm:"size:255;not null" json:"name"`
	Slug          string        `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Description   string        `gorm:"type:text" json:"description"`
	Image         string        `gorm:"size:1000" json:"image"`
	SortOrder     int           `gorm:"default:0" json:"sort_order"`
	SubCategories []SubCategory `gorm:"constraint:OnDelete:CASCADE" json:"subcategories,omitempty"`
}

// SubCategory belongs to exactly one Category.
type SubCategory struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	CategoryID  uint   `gorm:"not null;index" json:"category_id"`
	Name        string `gorm:"size:255;not null" json:"name"`
	Slug        string `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
	Image       string `gorm:"size:1000" json:"image"`
	SortOrder   int    `gorm:"default:0" json:"sort_order"`
}

// Product is the central catalog entity. Variant sub-entities are owned by
// composition and cascade-delete with the product. Semi-structured fields are
// typed JSON columns rather than opaque blobs so malformed payloads fail at
// the boundary.
type Product struct {
	ID                  uint                                   `gorm:"primaryKey" json:"id"`
	Name                string                                 `gorm:"size:255;not null" json:"name"`
	Slug                string                                 `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	CategoryID          uint                                   `gorm:"not null;index" json:"category_id"`
	SubCategoryID       *uint                                  `gorm:"index" json:"subcategory_id"`
	Price               decimal.Decimal                        `gorm:"type:decimal(10,2);not null" json:"price"`
	OriginalPrice       decimal.NullDecimal                    `gorm:"type:decimal(10,2)" json:"original_price"`
	DiscountPercentage  int                                    `gorm:"default:0" json:"discount_percentage"`
	Description         string                                 `gorm:"type:text" json:"description"`
	ShortDescription    string                                 `gorm:"type:text" json:"short_description"`
	Features            datatypes.JSONSlice[string]            `json:"features"`
	Dimensions          datatypes.JSONSlice[DimensionOverride] `json:"dimensions"`
	FAQs                datatypes.JSONSlice[FAQ]               `gorm:"column:faqs" json:"faqs"`
	DeliveryInfo        string                                 `gorm:"type:text" json:"delivery_info"`
	ReturnsGuarantee    string                                 `gorm:"type:text" json:"returns_guarantee"`
	DeliveryTitle       string                                 `gorm:"size:150" json:"delivery_title"`
	ReturnsTitle        string                                 `gorm:"size:150" json:"returns_title"`
	CustomInfoSections  datatypes.JSONSlice[CustomInfoSection] `json:"custom_info_sections"`
	DeliveryCharges     decimal.Decimal                        `gorm:"type:decimal(10,2);default:0" json:"delivery_charges"`
	InStock             bool                                   `gorm:"default:true" json:"in_stock"`
	IsBestseller        bool                                   `gorm:"default:false" json:"is_bestseller"`
	IsNew               bool                                   `gorm:"default:false" json:"is_new"`
	ShowSizeIcons       bool                                   `gorm:"default:true" json:"show_size_icons"`
	Rating              decimal.Decimal                        `gorm:"type:decimal(3,1);default:0" json:"rating"`
	ReviewCount         int                                    `gorm:"default:0" json:"review_count"`
	DimensionParagraph  string                                 `gorm:"type:text" json:"dimension_paragraph"`
	DimensionImages     datatypes.JSONSlice[DimensionImage]    `json:"dimension_images"`
	ShowDimensionsTable bool                                   `gorm:"default:true" json:"show_dimensions_table"`
	SortOrder           int                                    `gorm:"default:0" json:"sort_order"`
	CreatedAt           time.Time                              `json:"created_at"`
	UpdatedAt           time.Time                              `json:"updated_at"`

	Images     []ProductImage    `gorm:"constraint:OnDelete:CASCADE" json:"images,omitempty"`
	Videos     []ProductVideo    `gorm:"constraint:OnDelete:CASCADE" json:"videos,omitempty"`
	Colors     []ProductColor    `gorm:"constraint:OnDelete:CASCADE" json:"colors,omitempty"`
	Sizes      []ProductSize     `gorm:"constraint:OnDelete:CASCADE" json:"sizes,omitempty"`
	Styles     []ProductStyle    `gorm:"constraint:OnDelete:CASCADE" json:"styles,omitempty"`
	Fabrics    []ProductFabric   `gorm:"constraint:OnDelete:CASCADE" json:"fabrics,omitempty"`
	Mattresses []ProductMattress `gorm:"constraint:OnDelete:CASCADE" json:"mattresses,omitempty"`
}

// ProductImage is media attached to a product. ColorName ties the image to a
// color-specific gallery when set.
type ProductImage struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProductID uint   `gorm:"not null;index" json:"-"`
	URL       string `gorm:"size:1000;not null" json:"url"`
	ColorName string `gorm:"size:120" json:"color_name"`
}

type ProductVideo struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProductID uint   `gorm:"not null;index" json:"-"`
	URL       string `gorm:"size:1000;not null" json:"url"`
}

type ProductColor struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProductID uint   `gorm:"not null;index" json:"-"`
	Name      string `gorm:"size:100;not null" json:"name"`
	HexCode   string `gorm:"size:7;default:'#000000'" json:"hex_code"`
	ImageURL  string `gorm:"size:1000" json:"image_url"`
}

// ProductSize carries an additive price adjustment and anchors style
// grouping.
type ProductSize struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	ProductID   uint            `gorm:"not null;index" json:"-"`
	Name        string          `gorm:"size:50;not null" json:"name"`
	Description string          `gorm:"size:255" json:"description"`
	PriceDelta  decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"price_delta"`
}

// ProductStyle is a named option group, optionally scoped to a single size
// via SizeID or shared across all sizes when IsShared is set. A style's size
// reference always belongs to the same product.
type ProductStyle struct {
	ID        uint                             `gorm:"primaryKey" json:"id"`
	ProductID uint                             `gorm:"not null;index" json:"-"`
	SizeID    *uint                            `json:"size_id"`
	IsShared  bool                             `gorm:"default:false" json:"is_shared"`
	Name      string                           `gorm:"size:100;not null" json:"name"`
	IconURL   string                           `gorm:"type:text" json:"icon_url"`
	Options   datatypes.JSONSlice[StyleOption] `json:"options"`

	// SizeName is a pending by-name size reference resolved to SizeID when
	// the product is written. Unresolvable references leave the style
	// unscoped.
	SizeName string `gorm:"-" json:"-"`
}

type ProductFabric struct {
	ID        uint                             `gorm:"primaryKey" json:"id"`
	ProductID uint                             `gorm:"not null;index" json:"-"`
	Name      string                           `gorm:"size:100" json:"name"`
	ImageURL  string                           `gorm:"size:1000" json:"image_url"`
	IsShared  bool                             `gorm:"default:false" json:"is_shared"`
	Colors    datatypes.JSONSlice[FabricColor] `json:"colors"`
}

// ProductMattress is an optional upgrade. PriceBoth is stored explicitly,
// never derived, even though it is conventionally double the per-position
// price.
type ProductMattress struct {
	ID                  uint                `gorm:"primaryKey" json:"id"`
	ProductID           uint                `gorm:"not null;index" json:"-"`
	SourceProductID     *uint               `json:"source_product_id"`
	Name                string              `gorm:"size:255" json:"name"`
	Description         string              `gorm:"type:text" json:"description"`
	ImageURL            string              `gorm:"size:1000" json:"image_url"`
	Price               decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"price"`
	EnableBunkPositions bool                `gorm:"default:false" json:"enable_bunk_positions"`
	PriceTop            decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"price_top"`
	PriceBottom         decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"price_bottom"`
	PriceBoth           decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"price_both"`
}

// FilterDisplayType enumerates how a facet renders in the storefront.
type FilterDisplayType string

const (
	FilterDisplayCheckbox    FilterDisplayType = "checkbox"
	FilterDisplayColorSwatch FilterDisplayType = "color_swatch"
	FilterDisplayRadio       FilterDisplayType = "radio"
	FilterDisplayDropdown    FilterDisplayType = "dropdown"
)

// ValidFilterDisplayType reports whether the value is a known display type.
func ValidFilterDisplayType(v FilterDisplayType) bool {
	switch v {
	case FilterDisplayCheckbox, FilterDisplayColorSwatch, FilterDisplayRadio, FilterDisplayDropdown:
		return true
	}
	return false
}

// FilterType is a facet category such as "Bed Size". IsDefault flags facets
// the storefront surfaces with priority.
type FilterType struct {
	ID                  uint              `gorm:"primaryKey" json:"id"`
	Name                string            `gorm:"size:100;not null" json:"name"`
	Slug                string            `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	DisplayType         FilterDisplayType `gorm:"size:20;default:'checkbox'" json:"display_type"`
	DisplayOrder        int               `gorm:"default:0" json:"display_order"`
	IsActive            bool              `gorm:"default:true" json:"is_active"`
	IsExpandedByDefault bool              `gorm:"default:true" json:"is_expanded_by_default"`
	IconURL             string            `gorm:"size:1000" json:"icon_url"`
	DisplayHint         string            `gorm:"size:255" json:"display_hint"`
	IsDefault           bool              `gorm:"default:false" json:"is_default"`
	Options             []FilterOption    `gorm:"constraint:OnDelete:CASCADE" json:"options,omitempty"`
}

// FilterOption is one value within a FilterType, unique per
// (filter_type, slug). IsWingback marks options that imply the fixed width
// addition applied by the dimension presentation.
type FilterOption struct {
	ID           uint              `gorm:"primaryKey" json:"id"`
	FilterTypeID uint              `gorm:"not null;uniqueIndex:idx_filter_option_type_slug" json:"filter_type_id"`
	Name         string            `gorm:"size:100;not null" json:"name"`
	Slug         string            `gorm:"size:255;not null;uniqueIndex:idx_filter_option_type_slug" json:"slug"`
	Value        string            `gorm:"size:100" json:"value"`
	ColorCode    string            `gorm:"size:7" json:"color_code"`
	DisplayOrder int               `gorm:"default:0" json:"display_order"`
	IsActive     bool              `gorm:"default:true" json:"is_active"`
	IconURL      string            `gorm:"size:1000" json:"icon_url"`
	PriceDelta   decimal.Decimal   `gorm:"type:decimal(10,2);default:0" json:"price_delta"`
	IsWingback   bool              `gorm:"default:false" json:"is_wingback"`
	Metadata     datatypes.JSONMap `json:"metadata"`
}

// CategoryFilter scopes a FilterType to a Category or a SubCategory; the two
// targets are mutually exclusive.
type CategoryFilter struct {
	ID            uint  `gorm:"primaryKey" json:"id"`
	CategoryID    *uint `gorm:"index" json:"category_id"`
	SubCategoryID *uint `gorm:"index" json:"subcategory_id"`
	FilterTypeID  uint  `gorm:"not null;index" json:"filter_type_id"`
	DisplayOrder  int   `gorm:"default:0" json:"display_order"`
	IsActive      bool  `gorm:"default:true" json:"is_active"`
}

// ProductFilterValue links a product to one FilterOption, unique per pair.
type ProductFilterValue struct {
	ID             uint `gorm:"primaryKey" json:"id"`
	ProductID      uint `gorm:"not null;uniqueIndex:idx_product_filter_value" json:"product_id"`
	FilterOptionID uint `gorm:"not null;uniqueIndex:idx_product_filter_value" json:"filter_option_id"`
}

// DimensionTemplate is a reusable measurement table shared across products.
type DimensionTemplate struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:150;not null" json:"name"`
	Slug      string         `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Notes     string         `gorm:"type:text" json:"notes"`
	IsDefault bool           `gorm:"default:false" json:"is_default"`
	Rows      []DimensionRow `gorm:"constraint:OnDelete:CASCADE" json:"rows,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// DimensionRow maps one measurement to per-size values, e.g.
// {"3ft Single": "190 cm"}.
type DimensionRow struct {
	ID                  uint                        `gorm:"primaryKey" json:"id"`
	DimensionTemplateID uint                        `gorm:"not null;index" json:"-"`
	Measurement         string                      `gorm:"size:100;not null" json:"measurement"`
	Values              datatypes.JSONType[SizeMap] `json:"values"`
	DisplayOrder        int                         `gorm:"default:0" json:"display_order"`
}

// ProductDimensionTemplate links a product 1:1 to a template. Overrides from
// Product.Dimensions still apply when AllowOverrides is set.
type ProductDimensionTemplate struct {
	ID                  uint `gorm:"primaryKey" json:"id"`
	ProductID           uint `gorm:"uniqueIndex;not null" json:"product_id"`
	DimensionTemplateID uint `gorm:"not null;index" json:"dimension_template_id"`
	AllowOverrides      bool `gorm:"default:true" json:"allow_overrides"`
}

// OrderStatus is the order lifecycle state.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order is an immutable purchase snapshot; only Status mutates after
// creation. Totals are recorded as supplied by the checkout step.
type Order struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	Reference       string          `gorm:"size:40;uniqueIndex" json:"reference"`
	UserID          *uint           `gorm:"index" json:"user_id"`
	FirstName       string          `gorm:"size:100;not null" json:"first_name"`
	LastName        string          `gorm:"size:100;not null" json:"last_name"`
	Email           string          `gorm:"size:254;not null" json:"email"`
	Phone           string          `gorm:"size:20;not null" json:"phone"`
	Address         string          `gorm:"type:text;not null" json:"address"`
	City            string          `gorm:"size:100;not null" json:"city"`
	PostalCode      string          `gorm:"size:20;not null" json:"postal_code"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	DeliveryCharges decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"delivery_charges"`
	Status          OrderStatus     `gorm:"size:20;default:'pending'" json:"status"`
	PaymentMethod   string          `gorm:"size:50" json:"payment_method"`
	PaymentID       string          `gorm:"size:255" json:"payment_id"`
	Items           []OrderItem     `gorm:"constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// OrderItem snapshots the resolved textual description of every variant
// selection so historical orders stay accurate when a product's
// configuration later changes.
type OrderItem struct {
	ID               uint              `gorm:"primaryKey" json:"id"`
	OrderID          uint              `gorm:"not null;index" json:"-"`
	ProductID        *uint             `json:"product_id"`
	Quantity         int               `gorm:"not null" json:"quantity"`
	Price            decimal.Decimal   `gorm:"type:decimal(10,2);not null" json:"price"`
	Size             string            `gorm:"size:50" json:"size"`
	Color            string            `gorm:"size:50" json:"color"`
	Style            string            `gorm:"type:text" json:"style"`
	Dimension        string            `gorm:"size:120" json:"dimension"`
	DimensionDetails string            `gorm:"type:text" json:"dimension_details"`
	SelectedVariants datatypes.JSONMap `json:"selected_variants"`
	ExtrasTotal      decimal.Decimal   `gorm:"type:decimal(10,2);default:0" json:"extras_total"`
	IncludeDimension bool              `gorm:"default:true" json:"include_dimension"`
}

// Review is product-scoped feedback. Customer submissions default to hidden
// until approved; staff submissions are visible unless overridden.
type Review struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ProductID   uint      `gorm:"not null;index" json:"product_id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Rating      int       `gorm:"default:5" json:"rating"`
	Comment     string    `gorm:"type:text" json:"comment"`
	IsVisible   bool      `gorm:"default:false" json:"is_visible"`
	CreatedByID *uint     `gorm:"index" json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// User is an account able to authenticate; staff accounts may mutate the
// catalog and see every order.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:254" json:"email"`
	FirstName    string    `gorm:"size:150" json:"first_name"`
	LastName     string    `gorm:"size:150" json:"last_name"`
	PasswordHash string    `gorm:"size:128;not null" json:"-"`
	IsStaff      bool      `gorm:"default:false" json:"is_staff"`
	CreatedAt    time.Time `json:"created_at"`
}

// Models lists every persisted entity in migration order.
func Models() []any {
	return []any{
		&User{},
		&Category{},
		&SubCategory{},
		&Product{},
		&ProductImage{},
		&ProductVideo{},
		&ProductColor{},
		&ProductSize{},
		&ProductStyle{},
		&ProductFabric{},
		&ProductMattress{},
		&FilterType{},
		&FilterOption{},
		&CategoryFilter{},
		&ProductFilterValue{},
		&DimensionTemplate{},
		&DimensionRow{},
		&ProductDimensionTemplate{},
		&Order{},
		&OrderItem{},
		&Review{},
	}
}
