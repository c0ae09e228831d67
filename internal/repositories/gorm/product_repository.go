package gormrepo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/loomhaven/api/internal/domain"
	"github.com/loomhaven/api/internal/repositories"
)

const (
	defaultPageSize = 24
	maxPageSize     = 100
)

// ProductRepository persists products and their variant sub-entities.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// ListProducts applies scope, facet filters, search and sorting, returning
// the page plus the total match count. Options within one filter type are
// ORed, filter types are ANDed; unknown filter slugs are ignored.
func (r *ProductRepository) ListProducts(ctx context.Context, q repositories.ProductQuery) ([]domain.Product, int64, error) {
	tx := r.db.WithContext(ctx).Model(&domain.Product{})

	if q.CategorySlug != "" {
		tx = tx.Where("category_id IN (?)",
			r.db.Model(&domain.Category{}).Select("id").Where("slug = ?", q.CategorySlug))
	}
	if q.SubCategorySlug != "" {
		tx = tx.Where("sub_category_id IN (?)",
			r.db.Model(&domain.SubCategory{}).Select("id").Where("slug = ?", q.SubCategorySlug))
	}
	if q.InStockOnly {
		tx = tx.Where("in_stock = ?", true)
	}
	if q.BestsellerOnly {
		tx = tx.Where("is_bestseller = ?", true)
	}
	if q.NewOnly {
		tx = tx.Where("is_new = ?", true)
	}
	if search := strings.TrimSpace(q.Search); search != "" {
		pat := "%" + strings.ToLower(search) + "%"
		tx = tx.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pat, pat)
	}

	var err error
	tx, err = r.applyFacetFilters(ctx, tx, q.Filters)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, translate("product: count", err)
	}

	tx = applySort(tx, q.Sort)

	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	tx = tx.Offset((page - 1) * pageSize).Limit(pageSize)

	var products []domain.Product
	err = tx.
		Preload("Images").
		Preload("Colors").
		Preload("Sizes").
		Find(&products).Error
	if err != nil {
		return nil, 0, translate("product: list", err)
	}
	return products, total, nil
}

// applyFacetFilters ANDs one EXISTS clause per resolvable filter type.
// Each clause matches products linked to any of the type's selected options.
func (r *ProductRepository) applyFacetFilters(ctx context.Context, tx *gorm.DB, filters map[string][]string) (*gorm.DB, error) {
	for typeSlug, optionSlugs := range filters {
		if len(optionSlugs) == 0 {
			continue
		}
		var optionIDs []uint
		err := r.db.WithContext(ctx).Model(&domain.FilterOption{}).
			Joins("JOIN filter_types ON filter_types.id = filter_options.filter_type_id").
			Where("filter_types.slug = ? AND filter_options.slug IN ?", typeSlug, optionSlugs).
			Pluck("filter_options.id", &optionIDs).Error
		if err != nil {
			return nil, translate("product: resolve filters", err)
		}
		if len(optionIDs) == 0 {
			// Unknown type or options; skip rather than matching nothing.
			continue
		}
		tx = tx.Where("EXISTS (SELECT 1 FROM product_filter_values WHERE product_filter_values.product_id = products.id AND product_filter_values.filter_option_id IN ?)", optionIDs)
	}
	return tx, nil
}

func applySort(tx *gorm.DB, sort repositories.ProductSort) *gorm.DB {
	switch sort {
	case repositories.SortPriceAsc:
		return tx.Order("price ASC, id")
	case repositories.SortPriceDesc:
		return tx.Order("price DESC, id")
	case repositories.SortNewest:
		return tx.Order("created_at DESC, id")
	case repositories.SortRating:
		return tx.Order("rating DESC, review_count DESC, id")
	default:
		return tx.Order("sort_order, id")
	}
}

func (r *ProductRepository) GetProductByID(ctx context.Context, id uint) (*domain.Product, error) {
	return r.getProduct(ctx, "id = ?", id)
}

func (r *ProductRepository) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return r.getProduct(ctx, "slug = ?", slug)
}

func (r *ProductRepository) getProduct(ctx context.Context, cond string, arg any) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).
		Preload("Images").
		Preload("Videos").
		Preload("Colors").
		Preload("Sizes").
		Preload("Styles").
		Preload("Fabrics").
		Preload("Mattresses").
		Where(cond, arg).
		First(&p).Error
	if err != nil {
		return nil, translate("product: get", err)
	}
	return &p, nil
}

func (r *ProductRepository) CreateProduct(ctx context.Context, p *domain.Product) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		return resolveStyleSizes(tx, p.Sizes, p.Styles)
	})
	if err != nil {
		return translate("product: create", err)
	}
	return nil
}

// resolveStyleSizes turns pending by-name size references into SizeID links
// against the product's just-written sizes. References that match nothing
// leave the style unscoped.
func resolveStyleSizes(tx *gorm.DB, sizes []domain.ProductSize, styles []domain.ProductStyle) error {
	byName := make(map[string]uint, len(sizes))
	valid := make(map[uint]bool, len(sizes))
	for _, s := range sizes {
		byName[s.Name] = s.ID
		valid[s.ID] = true
	}
	for i := range styles {
		style := &styles[i]
		var want *uint
		switch {
		case style.SizeName != "":
			if id, ok := byName[style.SizeName]; ok {
				want = &id
			}
		case style.SizeID != nil && valid[*style.SizeID]:
			want = style.SizeID
		}
		if (want == nil) != (style.SizeID == nil) || (want != nil && *want != *style.SizeID) {
			if err := tx.Model(&domain.ProductStyle{}).Where("id = ?", style.ID).
				Update("size_id", want).Error; err != nil {
				return err
			}
			style.SizeID = want
		}
	}
	return nil
}

// UpdateProduct writes scalar columns and reconciles every variant
// sub-entity against its natural key inside one transaction, so unchanged
// rows keep their ids instead of being dropped and recreated.
func (r *ProductRepository) UpdateProduct(ctx context.Context, p *domain.Product) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Product{}).Where("id = ?", p.ID).
			Select("Name", "Slug", "CategoryID", "SubCategoryID", "Price", "OriginalPrice",
				"DiscountPercentage", "Description", "ShortDescription", "Features",
				"Dimensions", "FAQs", "DeliveryInfo", "ReturnsGuarantee", "DeliveryTitle",
				"ReturnsTitle", "CustomInfoSections", "DeliveryCharges", "InStock",
				"IsBestseller", "IsNew", "ShowSizeIcons", "DimensionParagraph",
				"DimensionImages", "ShowDimensionsTable", "SortOrder").
			Updates(p)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := r.reconcileImages(tx, p); err != nil {
			return err
		}
		if err := r.reconcileVideos(tx, p); err != nil {
			return err
		}
		if err := r.reconcileColors(tx, p); err != nil {
			return err
		}
		if err := r.reconcileSizes(tx, p); err != nil {
			return err
		}
		if err := r.reconcileStyles(tx, p); err != nil {
			return err
		}
		if err := r.reconcileFabrics(tx, p); err != nil {
			return err
		}
		return r.reconcileMattresses(tx, p)
	})
	if err != nil {
		return translate("product: update", err)
	}
	return nil
}

// reconcileRows diffs incoming rows against existing ones by natural key:
// matched rows are updated in place, new rows inserted, missing rows deleted.
func reconcileRows[T any](tx *gorm.DB, existing, incoming []T, key func(*T) string, getID func(*T) uint, setID func(*T, uint)) error {
	existingByKey := make(map[string]*T, len(existing))
	for i := range existing {
		existingByKey[key(&existing[i])] = &existing[i]
	}
	kept := make(map[uint]bool, len(incoming))
	for i := range incoming {
		item := &incoming[i]
		if prev, ok := existingByKey[key(item)]; ok {
			setID(item, getID(prev))
			kept[getID(prev)] = true
			if err := tx.Save(item).Error; err != nil {
				return err
			}
			continue
		}
		setID(item, 0)
		if err := tx.Create(item).Error; err != nil {
			return err
		}
	}
	for i := range existing {
		if kept[getID(&existing[i])] {
			continue
		}
		if err := tx.Delete(&existing[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *ProductRepository) reconcileImages(tx *gorm.DB, p *domain.Product) error {
	var existing []domain.ProductImage
	if err := tx.Where("product_id = ?", p.ID).Find(&existing).Error; err != nil {
		return err
	}
	for i := range p.Images {
		p.Images[i].ProductID = p.ID
	}
	return reconcileRows(tx, existing, p.Images,
		func(v *domain.ProductImage) string { return v.URL + "\x00" + v.ColorName },
		func(v *domain.ProductImage) uint { return v.ID },
		func(v *domain.ProductImage, id uint) { v.ID = id })
}

func (r *ProductRepository) reconcileVideos(tx *gorm.DB, p *domain.Product) error {
	var existing []domain.ProductVideo
	if err := tx.Where("product_id = ?", p.ID).Find(&existing).Error; err != nil {
		return err
	}
	for i := range p.Videos {
		p.Videos[i].ProductID = p.ID
	}
	return reconcileRows(tx, existing, p.Videos,
		func(v *domain.ProductVideo) string { return v.URL },
		func(v *domain.ProductVideo) uint { return v.ID },
		func(v *domain.ProductVideo, id uint) { v.ID = id })
}

func (r *ProductRepository) reconcileColors(tx *gorm.DB, p *domain.Product) error {
	var existing []domain.ProductColor
	if err := tx.Where("product_id = ?", p.ID).Find(&existing).Error; err != nil {
		return err
	}
	for i := range p.Colors {
		p.Colors[i].ProductID = p.ID
	}
	return reconcileRows(tx, existing, p.Colors,
		func(v *domain.ProductColor) string { return v.Name },
		func(v *domain.ProductColor) uint { return v.ID },
		func(v *domain.ProductColor, id uint) { v.ID = id })
}

func (r *ProductRepository) reconcileSizes(tx *gorm.DB, p *domain.Product) error {
	var existing []domain.ProductSize
	if err := tx.Where("product_id = ?", p.ID).Find(&existing).Error; err != nil {
		return err
	}
	for i := range p.Sizes {
		p.Sizes[i].ProductID = p.ID
	}
	return reconcileRows(tx, existing, p.Sizes,
		func(v *domain.ProductSize) string { return v.Name },
		func(v *domain.ProductSize) uint { return v.ID },
		func(v *domain.ProductSize, id uint) { v.ID = id })
}

func (r *ProductRepository) reconcileStyles(tx *gorm.DB, p *domain.Product) error {
	var existing []domain.ProductStyle
	if err := tx.Where("product_id = ?", p.ID).Find(&existing).Error; err != nil {
		return err
	}
	for i := range p.Styles {
		p.Styles[i].ProductID = p.ID
	}
	err := reconcileRows(tx, existing, p.Styles,
		func(v *domain.ProductStyle) string { return v.Name },
		func(v *domain.ProductStyle) uint { return v.ID },
		func(v *domain.ProductStyle, id uint) { v.ID = id })
	if err != nil {
		return err
	}
	return resolveStyleSizes(tx, p.Sizes, p.Styles)
}

func (r *ProductRepository) reconcileFabrics(tx *gorm.DB, p *domain.Product) error {
	var existing []domain.ProductFabric
	if err := tx.Where("product_id = ?", p.ID).Find(&existing).Error; err != nil {
		return err
	}
	for i := range p.Fabrics {
		p.Fabrics[i].ProductID = p.ID
	}
	return reconcileRows(tx, existing, p.Fabrics,
		func(v *domain.ProductFabric) string { return v.Name },
		func(v *domain.ProductFabric) uint { return v.ID },
		func(v *domain.ProductFabric, id uint) { v.ID = id })
}

func (r *ProductRepository) reconcileMattresses(tx *gorm.DB, p *domain.Product) error {
	var existing []domain.ProductMattress
	if err := tx.Where("product_id = ?", p.ID).Find(&existing).Error; err != nil {
		return err
	}
	for i := range p.Mattresses {
		p.Mattresses[i].ProductID = p.ID
	}
	return reconcileRows(tx, existing, p.Mattresses,
		func(v *domain.ProductMattress) string { return v.Name },
		func(v *domain.ProductMattress) uint { return v.ID },
		func(v *domain.ProductMattress, id uint) { v.ID = id })
}

func (r *ProductRepository) DeleteProduct(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.Product{}, id)
	if res.Error != nil {
		return translate("product: delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("product: delete", gorm.ErrRecordNotFound)
	}
	return nil
}

// SyncFilterOptions makes the stored links for the product exactly match
// optionIDs, inserting missing links and removing stale ones. Calling it
// twice with the same input is a no-op.
func (r *ProductRepository) SyncFilterOptions(ctx context.Context, productID uint, optionIDs []uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []domain.ProductFilterValue
		if err := tx.Where("product_id = ?", productID).Find(&existing).Error; err != nil {
			return err
		}

		want := make(map[uint]bool, len(optionIDs))
		for _, id := range optionIDs {
			want[id] = true
		}
		have := make(map[uint]bool, len(existing))
		var stale []uint
		for _, link := range existing {
			have[link.FilterOptionID] = true
			if !want[link.FilterOptionID] {
				stale = append(stale, link.ID)
			}
		}

		if len(stale) > 0 {
			if err := tx.Delete(&domain.ProductFilterValue{}, stale).Error; err != nil {
				return err
			}
		}
		var missing []domain.ProductFilterValue
		for _, id := range optionIDs {
			if !have[id] {
				missing = append(missing, domain.ProductFilterValue{ProductID: productID, FilterOptionID: id})
			}
		}
		if len(missing) > 0 {
			if err := tx.Create(&missing).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return translate("product: sync filter options", err)
	}
	return nil
}

func (r *ProductRepository) ListFilterOptionIDs(ctx context.Context, productID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&domain.ProductFilterValue{}).
		Where("product_id = ?", productID).
		Order("filter_option_id").
		Pluck("filter_option_id", &ids).Error
	if err != nil {
		return nil, translate("product: list filter options", err)
	}
	return ids, nil
}

// UpdateRating stores the recalculated aggregate from visible reviews.
func (r *ProductRepository) UpdateRating(ctx context.Context, productID uint, rating string, reviewCount int) error {
	res := r.db.WithContext(ctx).Model(&domain.Product{}).Where("id = ?", productID).
		Updates(map[string]any{"rating": rating, "review_count": reviewCount})
	if res.Error != nil {
		return translate("product: update rating", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("product: update rating", gorm.ErrRecordNotFound)
	}
	return nil
}
