package gallery

import (
	"time"

	"github.com/avelarsoto/gallery-backend/pkg/db/models"
)

// GalleryDTO exposes gallery data in API responses and the listing page.
type GalleryDTO struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Images      []string  `json:"images"`
	Status      bool      `json:"status"`
	CreatedBy   *int      `json:"created_by,omitempty"`
	UpdatedBy   *int      `json:"updated_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FromModel maps a persisted gallery into a DTO.
func FromModel(m *models.Gallery) *GalleryDTO {
	if m == nil {
		return nil
	}
	images := make([]string, len(m.Images))
	copy(images, m.Images)
	return &GalleryDTO{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Images:      images,
		Status:      m.Status,
		CreatedBy:   m.CreatedBy,
		UpdatedBy:   m.UpdatedBy,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// FromModels maps a slice of persisted galleries into DTOs.
func FromModels(rows []models.Gallery) []*GalleryDTO {
	out := make([]*GalleryDTO, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}
