package routes

import (
	"net/http"

	"github.com/askloop/askloop/internal/app"
	"github.com/askloop/askloop/internal/handler"
	"github.com/askloop/askloop/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	video := handler.NewVideoHandler(app.ClipService, app.FeedService, app.Cfg.MaxUploadBytes)
	responder := handler.NewResponderHandler(app.DirectoryService)

	mux := http.NewServeMux()

	// Health
	mux.HandleFunc("GET /healthz", handler.Healthz)

	// Feed
	mux.HandleFunc("GET /videos", video.List)
	mux.HandleFunc("GET /videos/{id}", video.ByID)

	// Upload (rate limited)
	rateLimiter := middleware.RateLimitUpload()
	mux.HandleFunc("POST /videos", rateLimiter(video.Create))

	// Directory
	mux.HandleFunc("GET /responders", responder.List)
	mux.HandleFunc("POST /responders", responder.Create)
	mux.HandleFunc("GET /responders/watch", responder.Watch)

	// Admin
	mux.HandleFunc("POST /admin/sync", video.Sync)

	return middleware.Chain(mux,
		middleware.RequestLogging,
	)
}
