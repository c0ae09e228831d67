package gormrepo

import (
	"context"

	"gorm.io/gorm"

	"github.com/loomhaven/api/internal/domain"
	"github.com/loomhaven/api/internal/repositories"
)

// FilterRepository persists facet definitions and category scoping.
type FilterRepository struct {
	db *gorm.DB
}

func NewFilterRepository(db *gorm.DB) *FilterRepository {
	return &FilterRepository{db: db}
}

// ListFilterTypes returns facet types with options, defaults first then by
// display order.
func (r *FilterRepository) ListFilterTypes(ctx context.Context, activeOnly bool) ([]domain.FilterType, error) {
	var types []domain.FilterType
	q := r.db.WithContext(ctx).
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order, name")
		}).
		Order("is_default DESC, display_order, name")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Find(&types).Error; err != nil {
		return nil, translate("filter: list types", err)
	}
	return types, nil
}

func (r *FilterRepository) GetFilterType(ctx context.Context, id uint) (*domain.FilterType, error) {
	var ft domain.FilterType
	err := r.db.WithContext(ctx).
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order, name")
		}).
		First(&ft, id).Error
	if err != nil {
		return nil, translate("filter: get type", err)
	}
	return &ft, nil
}

func (r *FilterRepository) CreateFilterType(ctx context.Context, ft *domain.FilterType) error {
	if err := r.db.WithContext(ctx).Create(ft).Error; err != nil {
		return translate("filter: create type", err)
	}
	return nil
}

func (r *FilterRepository) UpdateFilterType(ctx context.Context, ft *domain.FilterType) error {
	res := r.db.WithContext(ctx).Model(&domain.FilterType{}).Where("id = ?", ft.ID).
		Select("Name", "Slug", "DisplayType", "DisplayOrder", "IsActive",
			"IsExpandedByDefault", "IconURL", "DisplayHint", "IsDefault").
		Updates(ft)
	if res.Error != nil {
		return translate("filter: update type", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("filter: update type", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *FilterRepository) DeleteFilterType(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.FilterType{}, id)
	if res.Error != nil {
		return translate("filter: delete type", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("filter: delete type", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *FilterRepository) GetFilterOption(ctx context.Context, id uint) (*domain.FilterOption, error) {
	var fo domain.FilterOption
	if err := r.db.WithContext(ctx).First(&fo, id).Error; err != nil {
		return nil, translate("filter: get option", err)
	}
	return &fo, nil
}

func (r *FilterRepository) CreateFilterOption(ctx context.Context, fo *domain.FilterOption) error {
	if err := r.db.WithContext(ctx).Create(fo).Error; err != nil {
		return translate("filter: create option", err)
	}
	return nil
}

func (r *FilterRepository) UpdateFilterOption(ctx context.Context, fo *domain.FilterOption) error {
	res := r.db.WithContext(ctx).Model(&domain.FilterOption{}).Where("id = ?", fo.ID).
		Select("Name", "Slug", "Value", "ColorCode", "DisplayOrder", "IsActive",
			"IconURL", "PriceDelta", "IsWingback", "Metadata").
		Updates(fo)
	if res.Error != nil {
		return translate("filter: update option", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("filter: update option", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *FilterRepository) DeleteFilterOption(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.FilterOption{}, id)
	if res.Error != nil {
		return translate("filter: delete option", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("filter: delete option", gorm.ErrRecordNotFound)
	}
	return nil
}

// ResolveOptionIDs maps filter-type slugs plus option slugs to option ids.
// Unknown slugs are dropped silently.
func (r *FilterRepository) ResolveOptionIDs(ctx context.Context, filters map[string][]string) (map[string][]uint, error) {
	resolved := make(map[string][]uint, len(filters))
	for typeSlug, optionSlugs := range filters {
		if len(optionSlugs) == 0 {
			continue
		}
		var ids []uint
		err := r.db.WithContext(ctx).Model(&domain.FilterOption{}).
			Joins("JOIN filter_types ON filter_types.id = filter_options.filter_type_id").
			Where("filter_types.slug = ? AND filter_options.slug IN ?", typeSlug, optionSlugs).
			Pluck("filter_options.id", &ids).Error
		if err != nil {
			return nil, translate("filter: resolve options", err)
		}
		if len(ids) > 0 {
			resolved[typeSlug] = ids
		}
	}
	return resolved, nil
}

// ListCategoryFilters returns the facet assignments for a category or
// subcategory scope; with neither set it returns all assignments.
func (r *FilterRepository) ListCategoryFilters(ctx context.Context, categoryID, subCategoryID *uint) ([]domain.CategoryFilter, error) {
	var links []domain.CategoryFilter
	q := r.db.WithContext(ctx).Order("display_order, id")
	if categoryID != nil {
		q = q.Where("category_id = ?", *categoryID)
	}
	if subCategoryID != nil {
		q = q.Where("sub_category_id = ?", *subCategoryID)
	}
	if err := q.Find(&links).Error; err != nil {
		return nil, translate("filter: list category filters", err)
	}
	return links, nil
}

func (r *FilterRepository) CreateCategoryFilter(ctx context.Context, cf *domain.CategoryFilter) error {
	if err := r.db.WithContext(ctx).Create(cf).Error; err != nil {
		return translate("filter: create category filter", err)
	}
	return nil
}

func (r *FilterRepository) UpdateCategoryFilter(ctx context.Context, cf *domain.CategoryFilter) error {
	res := r.db.WithContext(ctx).Model(&domain.CategoryFilter{}).Where("id = ?", cf.ID).
		Select("CategoryID", "SubCategoryID", "FilterTypeID", "DisplayOrder", "IsActive").
		Updates(cf)
	if res.Error != nil {
		return translate("filter: update category filter", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("filter: update category filter", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *FilterRepository) DeleteCategoryFilter(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.CategoryFilter{}, id)
	if res.Error != nil {
		return translate("filter: delete category filter", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("filter: delete category filter", gorm.ErrRecordNotFound)
	}
	return nil
}

// FacetsForScope assembles the storefront filter sidebar for a category or
// subcategory: assigned active filter types with their active options and
// per-option counts of linked products in that scope.
func (r *FilterRepository) FacetsForScope(ctx context.Context, categoryID, subCategoryID *uint) ([]repositories.Facet, error) {
	scoped := categoryID != nil || subCategoryID != nil
	var typeIDs []uint
	if scoped {
		var err error
		typeIDs, err = r.scopedTypeIDs(ctx, categoryID, subCategoryID)
		if err != nil {
			return nil, err
		}
		// A scope with no assignments has an empty sidebar.
		if len(typeIDs) == 0 {
			return []repositories.Facet{}, nil
		}
	}

	var types []domain.FilterType
	q := r.db.WithContext(ctx).
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ?", true).Order("display_order, name")
		}).
		Where("is_active = ?", true).
		Order("is_default DESC, display_order, name")
	if scoped {
		q = q.Where("id IN ?", typeIDs)
	}
	if err := q.Find(&types).Error; err != nil {
		return nil, translate("filter: load scoped types", err)
	}

	facets := make([]repositories.Facet, 0, len(types))
	for _, ft := range types {
		facet := repositories.Facet{FilterType: ft, Options: make([]repositories.FacetOption, 0, len(ft.Options))}
		for _, opt := range ft.Options {
			count, err := r.countProducts(ctx, opt.ID, categoryID, subCategoryID)
			if err != nil {
				return nil, err
			}
			facet.Options = append(facet.Options, repositories.FacetOption{Option: opt, ProductCount: count})
		}
		facet.FilterType.Options = nil
		facets = append(facets, facet)
	}
	return facets, nil
}

// scopedTypeIDs returns the active assigned filter type ids for the scope.
// A category scope also picks up assignments made through its subcategories.
func (r *FilterRepository) scopedTypeIDs(ctx context.Context, categoryID, subCategoryID *uint) ([]uint, error) {
	q := r.db.WithContext(ctx).Model(&domain.CategoryFilter{}).
		Where("category_filters.is_active = ?", true)
	if subCategoryID != nil {
		q = q.Where("category_filters.sub_category_id = ?", *subCategoryID)
	} else {
		q = q.Joins("LEFT JOIN sub_categories ON sub_categories.id = category_filters.sub_category_id").
			Where("category_filters.category_id = ? OR sub_categories.category_id = ?", *categoryID, *categoryID)
	}
	var ids []uint
	if err := q.Order("category_filters.display_order").Pluck("category_filters.filter_type_id", &ids).Error; err != nil {
		return nil, translate("filter: scoped type ids", err)
	}
	// A type linked both directly and via a subcategory appears once.
	seen := make(map[uint]struct{}, len(ids))
	unique := ids[:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique, nil
}

func (r *FilterRepository) countProducts(ctx context.Context, optionID uint, categoryID, subCategoryID *uint) (int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.ProductFilterValue{}).
		Joins("JOIN products ON products.id = product_filter_values.product_id").
		Where("product_filter_values.filter_option_id = ?", optionID).
		Where("products.in_stock = ?", true)
	if categoryID != nil {
		q = q.Where("products.category_id = ?", *categoryID)
	}
	if subCategoryID != nil {
		q = q.Where("products.sub_category_id = ?", *subCategoryID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, translate("filter: count products", err)
	}
	return count, nil
}
