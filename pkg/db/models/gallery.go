package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Gallery is a titled collection of uploaded images. Image entries are
// relative paths under the public storage base (for example
// "gallery/3f2a....png"), stored as a JSON array in submission order.
// Deletion is a soft delete: DeletedAt is stamped and default queries
// exclude the row while it stays in storage.
type Gallery struct {
	ID          uint                        `gorm:"column:id;primaryKey"`
	Title       string                      `gorm:"column:title;not null"`
	Description *string                     `gorm:"column:description"`
	Images      datatypes.JSONSlice[string] `gorm:"column:images"`
	// Status carries no gorm default: a default tag makes inserts omit the
	// zero value, silently flipping inactive galleries to active. The form
	// layer decides the default instead.
	Status    bool           `gorm:"column:status;not null"`
	CreatedBy *int           `gorm:"column:created_by"`
	UpdatedBy *int           `gorm:"column:updated_by"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

// TableName pins the plural table name used by the migrations.
func (Gallery) TableName() string { return "galleries" }
