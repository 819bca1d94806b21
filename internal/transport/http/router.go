package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/share-project-api/internal/application/project"
	"github.com/share-project-api/internal/config"
	"github.com/share-project-api/internal/transport/http/handler"
	appmiddleware "github.com/share-project-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// 5 requests/second, burst of 10, applied to upload and verify only.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	projectSvc := project.NewService(project.ServiceDeps{
		Tokens:    deps.Tokens,
		Registry:  deps.Registry,
		Validator: deps.Validator,
		Stager:    deps.Stager,
		Staging:   deps.Staging,
		Mailer:    deps.Mailer,
		Domain:    cfg.Domain,
		TokenTTL:  cfg.TokenTTL,
		FromName:  cfg.SMTPFromName,
	})

	healthH := handler.NewHealthHandler()
	projectH := handler.NewProjectHandler(projectSvc, cfg.MaxFileSize)

	r.Get("/", healthH.Root)
	r.Get("/health-check/{action}", healthH.Ping)

	r.With(sensitiveRL.Limit).Post("/upload/", projectH.Upload)
	r.With(sensitiveRL.Limit).Get("/verify/{token}", projectH.Verify)
	r.Get("/project/", projectH.List)
	r.Delete("/project/", projectH.Delete)

	return r
}
