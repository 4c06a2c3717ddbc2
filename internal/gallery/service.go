package gallery

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/avelarsoto/gallery-backend/pkg/db/models"
	pkgerrors "github.com/avelarsoto/gallery-backend/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// uploadField is the multipart form field carrying gallery images.
const uploadField = "images"

type galleryRepository interface {
	List(ctx context.Context) ([]models.Gallery, error)
	FindByID(ctx context.Context, id uint) (*models.Gallery, error)
	Create(ctx context.Context, g *models.Gallery) (*models.Gallery, error)
	Update(ctx context.Context, g *models.Gallery) (*models.Gallery, error)
	SoftDelete(ctx context.Context, id uint) (bool, error)
}

type uploadStore interface {
	Store(ctx context.Context, field string, files []*multipart.FileHeader) ([]string, error)
}

// Service exposes gallery management semantics.
type Service interface {
	List(ctx context.Context) ([]*GalleryDTO, error)
	Create(ctx context.Context, input CreateGalleryInput) (*GalleryDTO, error)
	GetForEdit(ctx context.Context, id uint) (*GalleryDTO, error)
	Update(ctx context.Context, id uint, input UpdateGalleryInput) (*GalleryDTO, error)
	Delete(ctx context.Context, id uint) error
}

type service struct {
	repo       galleryRepository
	uploads    uploadStore
	actingUser int
}

// NewService constructs a gallery service backed by the provided repository
// and upload store. actingUser stamps created_by and updated_by columns.
func NewService(repo galleryRepository, uploads uploadStore, actingUser int) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("gallery repository required")
	}
	if uploads == nil {
		return nil, fmt.Errorf("upload store required")
	}
	return &service{repo: repo, uploads: uploads, actingUser: actingUser}, nil
}

// CreateGalleryInput models the payload required to create a gallery.
type CreateGalleryInput struct {
	Title       string
	Description *string
	Status      bool
	Files       []*multipart.FileHeader
}

// UpdateGalleryInput models the full replacement payload for an existing
// gallery. ExistingImages lists the stored paths the client chose to keep.
type UpdateGalleryInput struct {
	Title          string
	Description    *string
	Status         bool
	ExistingImages []string
	Files          []*multipart.FileHeader
}

func (s *service) List(ctx context.Context) ([]*GalleryDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list galleries")
	}
	return FromModels(rows), nil
}

func (s *service) Create(ctx context.Context, input CreateGalleryInput) (*GalleryDTO, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required").
			WithDetails(map[string]string{"title": "title is required"})
	}

	paths, err := s.uploads.Store(ctx, uploadField, input.Files)
	if err != nil {
		return nil, err
	}

	actor := s.actingUser
	row := &models.Gallery{
		Title:       title,
		Description: normalizeDescription(input.Description),
		Images:      datatypes.JSONSlice[string](ensurePaths(paths)),
		Status:      input.Status,
		CreatedBy:   &actor,
		UpdatedBy:   &actor,
	}
	if _, err := s.repo.Create(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist gallery")
	}
	return FromModel(row), nil
}

func (s *service) GetForEdit(ctx context.Context, id uint) (*GalleryDTO, error) {
	row, err := s.findLive(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(row), nil
}

func (s *service) Update(ctx context.Context, id uint, input UpdateGalleryInput) (*GalleryDTO, error) {
	// resolve the record before touching storage so a bad id never
	// leaves stray files behind
	row, err := s.findLive(ctx, id)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required").
			WithDetails(map[string]string{"title": "title is required"})
	}

	newPaths, err := s.uploads.Store(ctx, uploadField, input.Files)
	if err != nil {
		return nil, err
	}

	kept := make([]string, 0, len(input.ExistingImages)+len(newPaths))
	for _, p := range input.ExistingImages {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	kept = append(kept, newPaths...)

	actor := s.actingUser
	row.Title = title
	row.Description = normalizeDescription(input.Description)
	row.Images = datatypes.JSONSlice[string](kept)
	row.Status = input.Status
	row.UpdatedBy = &actor

	if _, err := s.repo.Update(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist gallery update")
	}
	return FromModel(row), nil
}

func (s *service) Delete(ctx context.Context, id uint) error {
	ok, err := s.repo.SoftDelete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete gallery")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "gallery not found")
	}
	return nil
}

func (s *service) findLive(ctx context.Context, id uint) (*models.Gallery, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "gallery not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch gallery")
	}
	return row, nil
}

func normalizeDescription(desc *string) *string {
	if desc == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*desc)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// ensurePaths keeps the images column a JSON array even when no files
// were uploaded.
func ensurePaths(paths []string) []string {
	if paths == nil {
		return []string{}
	}
	return paths
}
