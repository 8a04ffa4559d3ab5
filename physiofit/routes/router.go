package routes

import (
	"net/http"
	"time"

	"physiofit/physiofit/controllers"
	"physiofit/physiofit/middlewares"
	"physiofit/physiofit/views"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Deps struct {
	Pages   PageDeps
	Chat    *controllers.ChatController
	Health  *controllers.HealthController
	Session middlewares.SessionProvider
	Gate    middlewares.GateConfig
	Timeout time.Duration
	// MaxBodyBytes caps JSON API bodies; 0 means no cap.
	MaxBodyBytes int64
}

// NewRouter assembles the full application: shared middleware, the session
// gate, pages, JSON APIs and static assets.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewares.RequestLogger)
	r.Use(middleware.Recoverer)
	if d.Timeout > 0 {
		r.Use(middleware.Timeout(d.Timeout))
	}
	r.Use(middlewares.SessionGate(d.Session, d.Gate))

	r.Handle("/static/*", views.Static())
	r.Mount("/health", HealthRoutes(d.Health))
	r.Group(func(r chi.Router) {
		if d.MaxBodyBytes > 0 {
			r.Use(middleware.RequestSize(d.MaxBodyBytes))
		}
		r.Mount("/api/chat", ChatRoutes(d.Chat))
		r.Mount("/api/pain-log", PainRoutes(d.Pages.Pain))
	})
	r.Mount("/", PageRoutes(d.Pages))
	return r
}
