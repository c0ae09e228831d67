package gormrepo

import (
	"context"

	"gorm.io/gorm"

	"github.com/loomhaven/api/internal/domain"
)

// CategoryRepository persists the taxonomy in postgres.
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	err := r.db.WithContext(ctx).
		Preload("SubCategories", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order, name")
		}).
		Order("sort_order, name").
		Find(&categories).Error
	if err != nil {
		return nil, translate("category: list", err)
	}
	return categories, nil
}

func (r *CategoryRepository) GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	var c domain.Category
	err := r.db.WithContext(ctx).
		Preload("SubCategories", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order, name")
		}).
		Where("slug = ?", slug).
		First(&c).Error
	if err != nil {
		return nil, translate("category: get by slug", err)
	}
	return &c, nil
}

func (r *CategoryRepository) CreateCategory(ctx context.Context, c *domain.Category) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return translate("category: create", err)
	}
	return nil
}

func (r *CategoryRepository) UpdateCategory(ctx context.Context, c *domain.Category) error {
	res := r.db.WithContext(ctx).Model(&domain.Category{}).Where("id = ?", c.ID).
		Select("Name", "Slug", "Description", "Image", "SortOrder").
		Updates(c)
	if res.Error != nil {
		return translate("category: update", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("category: update", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *CategoryRepository) DeleteCategory(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.Category{}, id)
	if res.Error != nil {
		return translate("category: delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("category: delete", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *CategoryRepository) ListSubCategories(ctx context.Context, categoryID uint) ([]domain.SubCategory, error) {
	var subs []domain.SubCategory
	q := r.db.WithContext(ctx).Order("sort_order, name")
	if categoryID != 0 {
		q = q.Where("category_id = ?", categoryID)
	}
	if err := q.Find(&subs).Error; err != nil {
		return nil, translate("subcategory: list", err)
	}
	return subs, nil
}

func (r *CategoryRepository) GetSubCategoryBySlug(ctx context.Context, slug string) (*domain.SubCategory, error) {
	var sc domain.SubCategory
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&sc).Error; err != nil {
		return nil, translate("subcategory: get by slug", err)
	}
	return &sc, nil
}

func (r *CategoryRepository) CreateSubCategory(ctx context.Context, sc *domain.SubCategory) error {
	if err := r.db.WithContext(ctx).Create(sc).Error; err != nil {
		return translate("subcategory: create", err)
	}
	return nil
}

func (r *CategoryRepository) UpdateSubCategory(ctx context.Context, sc *domain.SubCategory) error {
	res := r.db.WithContext(ctx).Model(&domain.SubCategory{}).Where("id = ?", sc.ID).
		Select("CategoryID", "Name", "Slug", "Description", "Image", "SortOrder").
		Updates(sc)
	if res.Error != nil {
		return translate("subcategory: update", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("subcategory: update", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *CategoryRepository) DeleteSubCategory(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.SubCategory{}, id)
	if res.Error != nil {
		return translate("subcategory: delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("subcategory: delete", gorm.ErrRecordNotFound)
	}
	return nil
}
