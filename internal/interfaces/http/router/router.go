// Package router assembles the gin engine of the web console.
package router

import (
	"net/http"

	"github.com/erp/catalogconsole/internal/infrastructure/logger"
	"github.com/erp/catalogconsole/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router manages HTTP route registration
type Router struct {
	engine         *gin.Engine
	log            *zap.Logger
	registrars     []RouteRegistrar
	metricsPath    string
	gatherer       prometheus.Gatherer
	trustedProxies []string
	maxBodyBytes   int64
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithMetrics exposes the gatherer on path
func WithMetrics(path string, gatherer prometheus.Gatherer) RouterOption {
	return func(r *Router) {
		r.metricsPath = path
		r.gatherer = gatherer
	}
}

// WithTrustedProxies sets the proxies whose forwarding headers are honoured
func WithTrustedProxies(proxies []string) RouterOption {
	return func(r *Router) {
		r.trustedProxies = proxies
	}
}

// WithMaxBodyBytes limits the size of submitted forms
func WithMaxBodyBytes(n int64) RouterOption {
	return func(r *Router) {
		r.maxBodyBytes = n
	}
}

// NewRouter creates a gin engine with the common middleware chain
func NewRouter(log *zap.Logger, opts ...RouterOption) (*Router, error) {
	r := &Router{
		engine:       gin.New(),
		log:          log,
		maxBodyBytes: 1 << 20,
	}
	for _, opt := range opts {
		opt(r)
	}

	if err := r.engine.SetTrustedProxies(r.trustedProxies); err != nil {
		return nil, err
	}
	r.engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.Secure(middleware.DefaultSecurityConfig()),
		middleware.BodyLimit(r.maxBodyBytes),
	)
	return r, nil
}

// Register adds a RouteRegistrar to be registered later
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup registers all routes. Each registrar gets its own group so
// group middleware never leaks between them.
func (r *Router) Setup() http.Handler {
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(r.engine.Group(""))
	}
	if r.gatherer != nil && r.metricsPath != "" {
		r.engine.GET(r.metricsPath, gin.WrapH(promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})))
	}
	return r.engine
}
