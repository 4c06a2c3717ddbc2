package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/avelarsoto/gallery-backend/api/flash"
	"github.com/avelarsoto/gallery-backend/api/responses"
	"github.com/avelarsoto/gallery-backend/api/validators"
	"github.com/avelarsoto/gallery-backend/api/views"
	"github.com/avelarsoto/gallery-backend/internal/gallery"
	pkgerrors "github.com/avelarsoto/gallery-backend/pkg/errors"
	"github.com/avelarsoto/gallery-backend/pkg/logger"
)

const (
	galleryListPath = "/gallery"
	flashCreated    = "Gallery Created Successfully"
	flashUpdated    = "Gallery Updated Successfully"
)

// GalleryIndex renders the management page with all live galleries. The
// publicPath names the URL prefix stored images are served under.
func GalleryIndex(svc gallery.Service, logg *logger.Logger, publicPath string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "gallery service unavailable"))
			return
		}

		galleries, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		message := flash.Pop(w, r)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := views.RenderGalleryPage(w, views.GalleryPageData{
			Flash:      message,
			PublicPath: publicPath,
			Galleries:  galleries,
		}); err != nil && logg != nil {
			logg.Error(r.Context(), "render gallery page", err)
		}
	}
}

// GalleryStore creates a gallery from the multipart form and redirects back
// to the listing on success.
func GalleryStore(svc gallery.Service, logg *logger.Logger, maxUpload int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "gallery service unavailable"))
			return
		}

		form, err := validators.ParseGalleryForm(r, maxUpload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if _, err := svc.Create(r.Context(), gallery.CreateGalleryInput{
			Title:       form.Title,
			Description: form.Description,
			Status:      form.Status,
			Files:       form.Files,
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		flash.Set(w, flashCreated)
		http.Redirect(w, r, galleryListPath, http.StatusFound)
	}
}

// GalleryEdit returns the gallery payload the edit form hydrates from.
func GalleryEdit(svc gallery.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "gallery service unavailable"))
			return
		}

		id, err := galleryID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithGalleryID(ctx, id)
		}

		dto, err := svc.GetForEdit(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// GalleryUpdate replaces a gallery's state from the multipart form and
// redirects back to the listing on success.
func GalleryUpdate(svc gallery.Service, logg *logger.Logger, maxUpload int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "gallery service unavailable"))
			return
		}

		id, err := galleryID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithGalleryID(ctx, id)
		}

		form, err := validators.ParseGalleryForm(r, maxUpload)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if _, err := svc.Update(ctx, id, gallery.UpdateGalleryInput{
			Title:          form.Title,
			Description:    form.Description,
			Status:         form.Status,
			ExistingImages: form.ExistingImages,
			Files:          form.Files,
		}); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		flash.Set(w, flashUpdated)
		http.Redirect(w, r, galleryListPath, http.StatusFound)
	}
}

// GalleryDelete soft deletes a gallery.
func GalleryDelete(svc gallery.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "gallery service unavailable"))
			return
		}

		id, err := galleryID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithGalleryID(ctx, id)
		}

		if err := svc.Delete(ctx, id); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteRaw(w, http.StatusOK, map[string]bool{"success": true})
	}
}

// galleryID resolves the id path segment. Ids that cannot name a gallery
// answer not-found, the same as ids that miss every row.
func galleryID(r *http.Request) (uint, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeNotFound, "gallery not found")
	}
	return uint(id), nil
}
