package server

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/hookx/internal/cart"
	"github.com/desertthunder/hookx/internal/models"
	"github.com/desertthunder/hookx/internal/setup"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Handler defines the interface for HTTP request handlers.
// Implementations handle a group of related endpoints.
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the path patterns this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

// Deps are the stores and settings the API serves.
type Deps struct {
	Cart     *cart.Store
	Setup    *setup.Store
	Defaults models.BackendConfig
	Logger   *log.Logger
}

// NewRouter builds the API router with the standard middleware stack.
func NewRouter(deps Deps) *BasicRouter {
	r := NewBasicRouter()
	r.Use(RequestLogger(deps.Logger), CORS, CartProvider(deps.Cart))
	r.Handle(http.MethodGet, "/health", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}))
	r.Handler(NewSetupHandler(deps.Setup, deps.Defaults, deps.Logger))
	r.Handler(NewCartHandler(deps.Logger))
	return r
}

// NewHTTPServer wraps handler in an [http.Server] with conservative timeouts.
func NewHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
