package main

import (
	"database/sql"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/amazing-skyhawk/crm/internal/config"
	"github.com/amazing-skyhawk/crm/internal/db"
	"github.com/amazing-skyhawk/crm/internal/deals"
	"github.com/amazing-skyhawk/crm/internal/logging"
	"github.com/amazing-skyhawk/crm/internal/migrations"
)

type server struct {
	auth     *authService
	db       *sql.DB
	store    deals.Store
	sessions *sessionStore
	logoPath string
}

type baseViewData struct {
	ErrorMessage   string
	SuccessMessage string
}

func main() {
	logging.Setup()
	cfg := config.Load()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		return
	}
	defer database.Close()

	if err := migrations.Up(database); err != nil {
		slog.Error("failed to run database migrations", "error", err)
		return
	}

	auth := newAuthService(database, cfg.SessionSecret)
	if err := auth.ensureAdminUser(cfg.AdminEmail, cfg.AdminPassword); err != nil {
		slog.Error("failed to ensure admin user", "error", err)
		return
	}

	srv := &server{
		auth:     auth,
		db:       database,
		store:    deals.NewSQLiteStore(database),
		sessions: newSessionStore(),
		logoPath: cfg.LogoPath,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(srv.authMiddleware)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir("web/static"))))
	r.Get("/", srv.handleHome)
	r.Get("/login", srv.handleLoginForm)
	r.Post("/login", srv.handleLoginSubmit)
	r.Post("/logout", srv.handleLogout)
	r.Get("/proposal", srv.handleProposalForm)
	r.Post("/proposal/details", srv.handleProposalDetails)
	r.Post("/proposal/items/surveillance", srv.handleAddSurveillance)
	r.Post("/proposal/items/volumetry", srv.handleAddVolumetry)
	r.Post("/proposal/items/generic", srv.handleAddGeneric)
	r.Post("/proposal/items/remove", srv.handleRemoveItem)
	r.Post("/proposal/close", srv.handleCloseDeal)
	r.Get("/proposal/document", srv.handleProposalDocument)
	r.Get("/reports", srv.handleReports)
	r.Get("/reports/document", srv.handleReportsDocument)

	addr := ":" + cfg.Port
	slog.Info("listening", "addr", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		slog.Error("server stopped", "error", err)
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		slog.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *server) renderTemplate(w http.ResponseWriter, page string, data any) {
	templates, err := template.ParseFiles(
		"web/templates/layout.html",
		"web/templates/"+page,
	)
	if err != nil {
		slog.Error("failed to parse template", "page", page, "error", err)
		http.Error(w, "failed to parse template", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.ExecuteTemplate(w, "layout.html", data); err != nil {
		slog.Error("failed to render template", "page", page, "error", err)
		http.Error(w, "failed to render template", http.StatusInternalServerError)
		return
	}
}

func (s *server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/login" || r.URL.Path == "/static" || strings.HasPrefix(r.URL.Path, "/static/") {
			next.ServeHTTP(w, r)
			return
		}

		if _, ok := sessionKey(r, s.auth); !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// sessionKey returns the raw session cookie value (the per-session state
// key) when the cookie carries a valid signature.
func sessionKey(r *http.Request, auth *authService) (string, bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return "", false
	}

	if _, ok := auth.verifySessionValue(cookie.Value); !ok {
		return "", false
	}
	return cookie.Value, true
}
