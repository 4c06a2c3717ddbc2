package validators

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"reflect"
	"strings"

	pkgerrors "github.com/avelarsoto/gallery-backend/pkg/errors"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// GalleryForm carries the decoded multipart payload for create and update.
type GalleryForm struct {
	Title          string  `form:"title" validate:"required,max=255"`
	Description    *string `form:"description"`
	Status         bool    `form:"status"`
	ExistingImages []string
	Files          []*multipart.FileHeader
}

// ParseGalleryForm decodes and validates the multipart gallery form. Fields
// are accepted both bare and with the bracket suffix array convention
// (images and images[]).
func ParseGalleryForm(r *http.Request, maxMemory int64) (*GalleryForm, error) {
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form").
			WithDetails(map[string]any{"error": err.Error()})
	}

	form := &GalleryForm{
		Title:          strings.TrimSpace(r.FormValue("title")),
		Status:         parseStatus(r.FormValue("status")),
		ExistingImages: formValues(r, "existing_images"),
		Files:          formFiles(r, "images"),
	}
	if desc := strings.TrimSpace(r.FormValue("description")); desc != "" {
		form.Description = &desc
	}

	if err := validate.Struct(form); err != nil {
		return nil, formatValidationErrors(err)
	}
	return form, nil
}

// parseStatus treats an absent or unrecognized flag as active.
func parseStatus(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "0", "false":
		return false
	default:
		return true
	}
}

func formValues(r *http.Request, key string) []string {
	if r.MultipartForm == nil {
		return nil
	}
	values := r.MultipartForm.Value[key]
	if len(values) == 0 {
		values = r.MultipartForm.Value[key+"[]"]
	}
	return values
}

func formFiles(r *http.Request, key string) []*multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	files := r.MultipartForm.File[key]
	if len(files) == 0 {
		files = r.MultipartForm.File[key+"[]"]
	}
	return files
}

func formatValidationErrors(err error) *pkgerrors.Error {
	if errs, ok := err.(validator.ValidationErrors); ok {
		details := map[string]string{}
		for _, fieldErr := range errs {
			details[fieldErr.Field()] = validationMessage(fieldErr)
		}
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	}
	return "is invalid"
}
