package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/avelarsoto/gallery-backend/internal/gallery"
	pkgerrors "github.com/avelarsoto/gallery-backend/pkg/errors"
	"github.com/avelarsoto/gallery-backend/pkg/logger"
	"github.com/avelarsoto/gallery-backend/pkg/types"
)

type stubGalleryService struct {
	galleries []*gallery.GalleryDTO
	dto       *gallery.GalleryDTO
	listErr   error
	createErr error
	getErr    error
	updateErr error
	deleteErr error

	createInput gallery.CreateGalleryInput
	updateInput gallery.UpdateGalleryInput
	updateID    uint
	deleteID    uint
	getCalls    int
}

func (s *stubGalleryService) List(ctx context.Context) ([]*gallery.GalleryDTO, error) {
	return s.galleries, s.listErr
}

func (s *stubGalleryService) Create(ctx context.Context, input gallery.CreateGalleryInput) (*gallery.GalleryDTO, error) {
	s.createInput = input
	if s.createErr != nil {
		return nil, s.createErr
	}
	return s.dto, nil
}

func (s *stubGalleryService) GetForEdit(ctx context.Context, id uint) (*gallery.GalleryDTO, error) {
	s.getCalls++
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.dto, nil
}

func (s *stubGalleryService) Update(ctx context.Context, id uint, input gallery.UpdateGalleryInput) (*gallery.GalleryDTO, error) {
	s.updateID = id
	s.updateInput = input
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	return s.dto, nil
}

func (s *stubGalleryService) Delete(ctx context.Context, id uint) error {
	s.deleteID = id
	return s.deleteErr
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test"})
}

func galleryRouter(svc gallery.Service) http.Handler {
	r := chi.NewRouter()
	r.Get("/gallery", GalleryIndex(svc, testLogger(), "/storage"))
	r.Post("/gallery/store", GalleryStore(svc, testLogger(), 1<<20))
	r.Get("/gallery/{id}/edit", GalleryEdit(svc, testLogger()))
	r.Post("/gallery/{id}/update", GalleryUpdate(svc, testLogger(), 1<<20))
	r.Post("/gallery/{id}/delete", GalleryDelete(svc, testLogger()))
	return r
}

func galleryFormRequest(t *testing.T, target string, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestGalleryIndexRendersPage(t *testing.T) {
	svc := &stubGalleryService{galleries: []*gallery.GalleryDTO{
		{ID: 1, Title: "Summer", Images: []string{"gallery/a.png"}, Status: true},
	}}
	rec := httptest.NewRecorder()
	galleryRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/gallery", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("expected html response, got %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "window.galleriesData") {
		t.Fatal("expected gallery payload embedded in page")
	}
	if !strings.Contains(rec.Body.String(), `"title":"Summer"`) {
		t.Fatal("expected gallery serialized into page")
	}
	if !strings.Contains(rec.Body.String(), `window.storagePublicPath = "/storage"`) {
		t.Fatal("expected storage path handed to the page")
	}
}

func TestGalleryIndexListFailure(t *testing.T) {
	svc := &stubGalleryService{listErr: pkgerrors.New(pkgerrors.CodeDependency, "db down")}
	rec := httptest.NewRecorder()
	galleryRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/gallery", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestGalleryStoreRedirectsWithFlash(t *testing.T) {
	svc := &stubGalleryService{dto: &gallery.GalleryDTO{ID: 1, Title: "Trip"}}
	req := galleryFormRequest(t, "/gallery/store", map[string]string{
		"title":  "Trip",
		"status": "1",
	})
	rec := httptest.NewRecorder()
	galleryRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/gallery" {
		t.Fatalf("expected redirect to /gallery, got %q", loc)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 || cookies[0].Name != "gallery_flash" {
		t.Fatalf("expected flash cookie, got %v", cookies)
	}
	if svc.createInput.Title != "Trip" {
		t.Fatalf("unexpected create input %+v", svc.createInput)
	}
}

func TestGalleryStoreValidationError(t *testing.T) {
	svc := &stubGalleryService{}
	req := galleryFormRequest(t, "/gallery/store", map[string]string{"description": "no title"})
	rec := httptest.NewRecorder()
	galleryRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var envelope types.ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeValidation) {
		t.Fatalf("unexpected code %q", envelope.Error.Code)
	}
}

func TestGalleryEditReturnsJSON(t *testing.T) {
	desc := "beach"
	svc := &stubGalleryService{dto: &gallery.GalleryDTO{
		ID: 7, Title: "Summer", Description: &desc, Images: []string{"gallery/a.png"}, Status: true,
	}}
	rec := httptest.NewRecorder()
	galleryRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/gallery/7/edit", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var envelope struct {
		Data gallery.GalleryDTO `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.ID != 7 || envelope.Data.Title != "Summer" {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
}

func TestGalleryEditNotFound(t *testing.T) {
	svc := &stubGalleryService{getErr: pkgerrors.New(pkgerrors.CodeNotFound, "gallery not found")}
	rec := httptest.NewRecorder()
	galleryRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/gallery/99/edit", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestGalleryEditUnresolvableIDIsNotFound(t *testing.T) {
	svc := &stubGalleryService{}
	rec := httptest.NewRecorder()
	galleryRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/gallery/abc/edit", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if svc.getCalls != 0 {
		t.Fatalf("expected no service call, got %d", svc.getCalls)
	}
}

func TestGalleryUpdateRedirectsWithFlash(t *testing.T) {
	svc := &stubGalleryService{dto: &gallery.GalleryDTO{ID: 7, Title: "Summer v2"}}
	req := galleryFormRequest(t, "/gallery/7/update", map[string]string{
		"title":             "Summer v2",
		"status":            "0",
		"existing_images[]": "gallery/a.png",
	})
	rec := httptest.NewRecorder()
	galleryRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if svc.updateID != 7 {
		t.Fatalf("expected update for id 7, got %d", svc.updateID)
	}
	if svc.updateInput.Status {
		t.Fatal("expected status false")
	}
	if len(svc.updateInput.ExistingImages) != 1 || svc.updateInput.ExistingImages[0] != "gallery/a.png" {
		t.Fatalf("unexpected existing images %v", svc.updateInput.ExistingImages)
	}
}

func TestGalleryUpdateNotFound(t *testing.T) {
	svc := &stubGalleryService{updateErr: pkgerrors.New(pkgerrors.CodeNotFound, "gallery not found")}
	req := galleryFormRequest(t, "/gallery/99/update", map[string]string{"title": "x"})
	rec := httptest.NewRecorder()
	galleryRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestGalleryDeleteReturnsSuccessFlag(t *testing.T) {
	svc := &stubGalleryService{}
	rec := httptest.NewRecorder()
	galleryRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/gallery/7/delete", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var payload map[string]bool
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !payload["success"] {
		t.Fatalf("unexpected payload %v", payload)
	}
	if svc.deleteID != 7 {
		t.Fatalf("expected delete for id 7, got %d", svc.deleteID)
	}
}

func TestGalleryDeleteNotFound(t *testing.T) {
	svc := &stubGalleryService{deleteErr: pkgerrors.New(pkgerrors.CodeNotFound, "gallery not found")}
	rec := httptest.NewRecorder()
	galleryRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/gallery/99/delete", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
