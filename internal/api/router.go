package api

import (
	"fmt"
	"net/http"

	"github.com/rs/cors"

	"github.com/kavya-builds/demodrop/internal/api/handlers"
	"github.com/kavya-builds/demodrop/internal/api/middleware"
	"github.com/kavya-builds/demodrop/internal/config"
)

// NewRouter assembles the HTTP surface. Everything under /admin/ except the
// login form sits behind the session middleware, which redirects rather
// than answering with data.
func NewRouter(h *handlers.Handlers, cfg config.Config) http.Handler {
	mainMux := http.NewServeMux()
	c := cors.New(cfg.CorsConfig)

	// ---------- PUBLIC ROUTES ----------
	mainMux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})

	mainMux.HandleFunc("POST /submit", h.Submit)
	mainMux.HandleFunc("GET /admin/login", h.LoginPage)
	mainMux.HandleFunc("POST /admin/login", h.Login)

	// ---------- PROTECTED ROUTES ----------
	adminMux := http.NewServeMux()
	adminMux.HandleFunc("GET /api/submissions", h.ListSubmissions)
	adminMux.HandleFunc("GET /api/submissions/{id}", h.GetSubmission)
	adminMux.HandleFunc("POST /api/submissions/{id}/approve", h.Approve)
	adminMux.HandleFunc("POST /api/submissions/{id}/reject", h.Reject)
	adminMux.HandleFunc("GET /download/{id}", h.Download)
	adminMux.HandleFunc("POST /logout", h.Logout)

	adminAuth := middleware.AdminAuth(cfg.SessionSecret)
	mainMux.Handle("GET /admin", adminAuth(http.HandlerFunc(h.Dashboard)))
	mainMux.Handle("/admin/",
		http.StripPrefix("/admin", adminAuth(adminMux)),
	)

	handler := c.Handler(mainMux)
	return middleware.Logger(handler)
}
