// Package testapp serves a small login application with the markup the login pages expect.
// It backs the end-to-end tests and the CLI demo command.
package testapp

import (
	"html/template"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/gofrs/uuid"
)

const (
	LoginPath     = "/web/index.php/auth/login"
	ValidatePath  = "/web/index.php/auth/validate"
	DashboardPath = "/web/index.php/dashboard/index"
	LogoutPath    = "/web/index.php/auth/logout"

	sessionCookie = "uiharness_session"
)

// Options configures the login application.
type Options struct {
	// Username and Password are the only accepted credentials.
	// Default: Admin / admin123
	Username string
	Password string
	// RenderDelay postpones enabling the submit button, like a client-side framework hydrating the form.
	RenderDelay time.Duration
	// Logger receives request logs.
	// Default: slog.Default()
	Logger *slog.Logger
}

// DefaultOptions returns the options of the public demo instance.
func DefaultOptions() Options {
	return Options{
		Username: "Admin",
		Password: "admin123",
	}
}

// App is the login application handler.
type App struct {
	options Options
	logger  *slog.Logger
	mux     *http.ServeMux

	mu       sync.RWMutex
	sessions map[string]string
}

var _ http.Handler = &App{}

// New creates the application with default options.
func New() *App {
	return NewWithOptions(DefaultOptions())
}

// NewWithOptions creates the application.
func NewWithOptions(options Options) *App {
	defaults := DefaultOptions()
	if options.Username == "" {
		options.Username = defaults.Username
	}
	if options.Password == "" {
		options.Password = defaults.Password
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	a := &App{
		options:  options,
		logger:   logger,
		mux:      http.NewServeMux(),
		sessions: make(map[string]string),
	}

	a.mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, LoginPath, http.StatusFound)
	})
	a.mux.HandleFunc("GET "+LoginPath, a.loginPage)
	a.mux.HandleFunc("POST "+ValidatePath, a.validate)
	a.mux.HandleFunc("GET "+DashboardPath, a.dashboard)
	a.mux.HandleFunc("GET "+LogoutPath, a.logout)

	return a
}

func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	a.mux.ServeHTTP(rec, r)
	a.logger.Debug("Handled request",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status", rec.status),
		slog.Duration("duration", time.Since(start)),
	)
}

func (a *App) loginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := a.user(r); ok {
		http.Redirect(w, r, DashboardPath, http.StatusFound)
		return
	}
	render(w, loginTemplate, loginData{
		Failed:        r.URL.Query().Has("error"),
		ValidatePath:  ValidatePath,
		RenderDelayMs: a.options.RenderDelay.Milliseconds(),
	})
}

func (a *App) validate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	username := r.PostForm.Get("username")
	if username != a.options.Username || r.PostForm.Get("password") != a.options.Password {
		a.logger.Info("Login rejected", slog.String("username", username))
		http.Redirect(w, r, LoginPath+"?error=credentials", http.StatusFound)
		return
	}

	id, err := uuid.NewV4()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	a.mu.Lock()
	a.sessions[id.String()] = username
	a.mu.Unlock()

	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: id.String(), Path: "/", HttpOnly: true})
	http.Redirect(w, r, DashboardPath, http.StatusFound)
}

func (a *App) dashboard(w http.ResponseWriter, r *http.Request) {
	username, ok := a.user(r)
	if !ok {
		http.Redirect(w, r, LoginPath, http.StatusFound)
		return
	}
	render(w, dashboardTemplate, dashboardData{Username: username, LogoutPath: LogoutPath})
}

func (a *App) logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookie); err == nil {
		a.mu.Lock()
		delete(a.sessions, c.Value)
		a.mu.Unlock()
	}
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Path: "/", MaxAge: -1})
	http.Redirect(w, r, LoginPath, http.StatusFound)
}

func (a *App) user(r *http.Request) (string, bool) {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return "", false
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	username, ok := a.sessions[c.Value]
	return username, ok
}

// Server is a running instance of the application on a local port.
type Server struct {
	*httptest.Server
	App *App
}

// NewServer starts the application on a random local port. Call Close to stop it.
func NewServer(options Options) *Server {
	app := NewWithOptions(options)
	return &Server{
		Server: httptest.NewServer(app),
		App:    app,
	}
}

// LoginURL returns the absolute login page address.
func (s *Server) LoginURL() string {
	return s.URL + LoginPath
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func render(w http.ResponseWriter, tmpl *template.Template, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
