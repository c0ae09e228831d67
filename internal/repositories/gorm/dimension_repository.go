package gormrepo

import (
	"context"

	"gorm.io/gorm"

	"github.com/loomhaven/api/internal/domain"
)

// DimensionRepository persists measurement templates and product links.
type DimensionRepository struct {
	db *gorm.DB
}

func NewDimensionRepository(db *gorm.DB) *DimensionRepository {
	return &DimensionRepository{db: db}
}

func (r *DimensionRepository) ListTemplates(ctx context.Context) ([]domain.DimensionTemplate, error) {
	var templates []domain.DimensionTemplate
	err := r.db.WithContext(ctx).
		Preload("Rows", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order, id")
		}).
		Order("is_default DESC, name").
		Find(&templates).Error
	if err != nil {
		return nil, translate("dimension: list templates", err)
	}
	return templates, nil
}

func (r *DimensionRepository) GetTemplate(ctx context.Context, id uint) (*domain.DimensionTemplate, error) {
	var t domain.DimensionTemplate
	err := r.db.WithContext(ctx).
		Preload("Rows", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order, id")
		}).
		First(&t, id).Error
	if err != nil {
		return nil, translate("dimension: get template", err)
	}
	return &t, nil
}

func (r *DimensionRepository) GetTemplateBySlug(ctx context.Context, slug string) (*domain.DimensionTemplate, error) {
	var t domain.DimensionTemplate
	err := r.db.WithContext(ctx).
		Preload("Rows", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order, id")
		}).
		Where("slug = ?", slug).
		First(&t).Error
	if err != nil {
		return nil, translate("dimension: get template by slug", err)
	}
	return &t, nil
}

func (r *DimensionRepository) CreateTemplate(ctx context.Context, t *domain.DimensionTemplate) error {
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return translate("dimension: create template", err)
	}
	return nil
}

// UpdateTemplate rewrites the scalar fields and replaces the row set, which
// keeps row ordering authoritative from the payload.
func (r *DimensionRepository) UpdateTemplate(ctx context.Context, t *domain.DimensionTemplate) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.DimensionTemplate{}).Where("id = ?", t.ID).
			Select("Name", "Slug", "Notes", "IsDefault").
			Updates(t)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Where("dimension_template_id = ?", t.ID).Delete(&domain.DimensionRow{}).Error; err != nil {
			return err
		}
		for i := range t.Rows {
			t.Rows[i].ID = 0
			t.Rows[i].DimensionTemplateID = t.ID
			t.Rows[i].DisplayOrder = i
		}
		if len(t.Rows) > 0 {
			if err := tx.Create(&t.Rows).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return translate("dimension: update template", err)
	}
	return nil
}

func (r *DimensionRepository) DeleteTemplate(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.DimensionTemplate{}, id)
	if res.Error != nil {
		return translate("dimension: delete template", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("dimension: delete template", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *DimensionRepository) GetProductLink(ctx context.Context, productID uint) (*domain.ProductDimensionTemplate, error) {
	var link domain.ProductDimensionTemplate
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).First(&link).Error
	if err != nil {
		return nil, translate("dimension: get product link", err)
	}
	return &link, nil
}

// SetProductLink upserts the 1:1 link between product and template.
func (r *DimensionRepository) SetProductLink(ctx context.Context, link *domain.ProductDimensionTemplate) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.ProductDimensionTemplate
		err := tx.Where("product_id = ?", link.ProductID).First(&existing).Error
		switch {
		case err == nil:
			link.ID = existing.ID
			return tx.Save(link).Error
		case err == gorm.ErrRecordNotFound:
			return tx.Create(link).Error
		default:
			return err
		}
	})
	if err != nil {
		return translate("dimension: set product link", err)
	}
	return nil
}

func (r *DimensionRepository) DeleteProductLink(ctx context.Context, productID uint) error {
	res := r.db.WithContext(ctx).Where("product_id = ?", productID).Delete(&domain.ProductDimensionTemplate{})
	if res.Error != nil {
		return translate("dimension: delete product link", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("dimension: delete product link", gorm.ErrRecordNotFound)
	}
	return nil
}
