package gallery

import (
	"context"

	"github.com/avelarsoto/gallery-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes gallery persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a gallery repository bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns all live galleries ordered by id ascending.
func (r *Repository) List(ctx context.Context) ([]models.Gallery, error) {
	var rows []models.Gallery
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByID retrieves a live gallery by ID.
func (r *Repository) FindByID(ctx context.Context, id uint) (*models.Gallery, error) {
	var g models.Gallery
	if err := r.db.WithContext(ctx).First(&g, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

// Create persists a gallery record.
func (r *Repository) Create(ctx context.Context, g *models.Gallery) (*models.Gallery, error) {
	if err := r.db.WithContext(ctx).Create(g).Error; err != nil {
		return nil, err
	}
	return g, nil
}

// Update writes the full gallery state back, including zero-valued columns.
func (r *Repository) Update(ctx context.Context, g *models.Gallery) (*models.Gallery, error) {
	if err := r.db.WithContext(ctx).Model(g).
		Select("title", "description", "images", "status", "updated_by").
		Updates(g).Error; err != nil {
		return nil, err
	}
	return g, nil
}

// SoftDelete marks the gallery deleted and reports whether a live row matched.
func (r *Repository) SoftDelete(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Gallery{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListAllImagePaths returns every stored image path across all galleries,
// soft-deleted rows included, so sweepers never reap a restorable file.
func (r *Repository) ListAllImagePaths(ctx context.Context) ([]string, error) {
	var rows []models.Gallery
	if err := r.db.WithContext(ctx).Unscoped().Select("images").Find(&rows).Error; err != nil {
		return nil, err
	}
	var paths []string
	for i := range rows {
		paths = append(paths, rows[i].Images...)
	}
	return paths, nil
}
