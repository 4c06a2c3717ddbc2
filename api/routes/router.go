package routes

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/avelarsoto/gallery-backend/api/controllers"
	"github.com/avelarsoto/gallery-backend/api/middleware"
	"github.com/avelarsoto/gallery-backend/internal/gallery"
	"github.com/avelarsoto/gallery-backend/pkg/config"
	"github.com/avelarsoto/gallery-backend/pkg/db"
	"github.com/avelarsoto/gallery-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	galleryService gallery.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	maxUpload := cfg.Uploads.MaxUploadBytes()
	publicPath := strings.TrimSuffix(cfg.Uploads.PublicPath, "/")

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP))
	})

	r.Route("/gallery", func(r chi.Router) {
		r.Get("/", controllers.GalleryIndex(galleryService, logg, publicPath))
		r.Post("/store", controllers.GalleryStore(galleryService, logg, maxUpload))
		r.Get("/{id}/edit", controllers.GalleryEdit(galleryService, logg))
		r.Post("/{id}/update", controllers.GalleryUpdate(galleryService, logg, maxUpload))
		r.Post("/{id}/delete", controllers.GalleryDelete(galleryService, logg))
	})

	// uploaded images are served from the public storage area
	fileServer := http.StripPrefix(publicPath+"/", http.FileServer(http.Dir(cfg.Uploads.Root)))
	r.Get(publicPath+"/*", func(w http.ResponseWriter, req *http.Request) {
		fileServer.ServeHTTP(w, req)
	})

	return r
}
