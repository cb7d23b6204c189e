package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ahmadsiddiqi/qurandist-backend/pkg/db/models"
)

// Repository exposes edition persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, edition *models.Edition) error
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Edition, error)
	List(ctx context.Context, params ListParams) ([]models.Edition, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ReplaceImages(ctx context.Context, editionID uuid.UUID, urls []string) error
	CountOrdersReferencing(ctx context.Context, editionID uuid.UUID) (int64, error)
	LowStock(ctx context.Context, threshold int) ([]models.Edition, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an edition repository backed by the provided DB handle.
func NewRepository(db *gorm.DB) Repository {
	if db == nil {
		return nil
	}
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, edition *models.Edition) error {
	if edition.ID == uuid.Nil {
		edition.ID = uuid.New()
	}
	for i := range edition.Images {
		if edition.Images[i].ID == uuid.Nil {
			edition.Images[i].ID = uuid.New()
		}
	}
	return r.db.WithContext(ctx).Create(edition).Error
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).Model(&models.Edition{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Edition, error) {
	var edition models.Edition
	err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("id = ?", id).
		First(&edition).Error
	if err != nil {
		return nil, err
	}
	return &edition, nil
}

func (r *repository) List(ctx context.Context, params ListParams) ([]models.Edition, error) {
	query := r.db.WithContext(ctx).Model(&models.Edition{}).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		})
	if params.Translation != "" {
		query = query.Where("translation = ?", params.Translation)
	}
	if params.InStockOnly {
		query = query.Where("stock > 0")
	}

	var rows []models.Edition
	err := query.Order("title ASC").Find(&rows).Error
	return rows, err
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Edition{}).Error
}

func (r *repository) ReplaceImages(ctx context.Context, editionID uuid.UUID, urls []string) error {
	if err := r.db.WithContext(ctx).
		Where("edition_id = ?", editionID).
		Delete(&models.EditionImage{}).Error; err != nil {
		return err
	}
	for i, url := range urls {
		image := models.EditionImage{
			ID:        uuid.New(),
			EditionID: editionID,
			URL:       url,
			Position:  i,
		}
		if err := r.db.WithContext(ctx).Create(&image).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *repository) CountOrdersReferencing(ctx context.Context, editionID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("edition_id = ?", editionID).
		Count(&count).Error
	return count, err
}

func (r *repository) LowStock(ctx context.Context, threshold int) ([]models.Edition, error) {
	var rows []models.Edition
	err := r.db.WithContext(ctx).
		Where("stock < ?", threshold).
		Order("stock ASC").
		Find(&rows).Error
	return rows, err
}
