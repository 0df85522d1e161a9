package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/erp/catalogconsole/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type pingRegistrar struct {
	middleware gin.HandlerFunc
}

func (p pingRegistrar) RegisterRoutes(rg *gin.RouterGroup) {
	if p.middleware != nil {
		rg.Use(p.middleware)
	}
	rg.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	rg.GET("/panic", func(c *gin.Context) { panic("boom") })
}

type statusRegistrar struct{}

func (statusRegistrar) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/status", func(c *gin.Context) {
		_, tagged := c.Get("tagged")
		c.JSON(http.StatusOK, gin.H{"tagged": tagged})
	})
}

func serve(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestRouter_Setup(t *testing.T) {
	gin.SetMode(gin.TestMode)

	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "router_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	r, err := NewRouter(zap.NewNop(), WithMetrics("/metrics", reg))
	require.NoError(t, err)
	h := r.Register(pingRegistrar{}).Register(statusRegistrar{}).Setup()

	t.Run("registrar routes are served", func(t *testing.T) {
		w := serve(t, h, "/ping")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "pong", w.Body.String())
	})

	t.Run("common middleware runs", func(t *testing.T) {
		w := serve(t, h, "/ping")
		assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	})

	t.Run("panics become 500", func(t *testing.T) {
		w := serve(t, h, "/panic")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("metrics are exposed", func(t *testing.T) {
		w := serve(t, h, "/metrics")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "router_test_total 1")
	})
}

func TestRouter_GroupMiddlewareDoesNotLeak(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tag := func(c *gin.Context) {
		c.Set("tagged", true)
		c.Next()
	}
	r, err := NewRouter(zap.NewNop())
	require.NoError(t, err)
	h := r.Register(pingRegistrar{middleware: tag}).Register(statusRegistrar{}).Setup()

	w := serve(t, h, "/status")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"tagged":false}`, w.Body.String())

	w = serve(t, h, "/metrics")
	assert.Equal(t, http.StatusNotFound, w.Code, "metrics are off without a gatherer")
}

func TestNewRouter_InvalidProxy(t *testing.T) {
	_, err := NewRouter(zap.NewNop(), WithTrustedProxies([]string{"not-an-ip"}))
	assert.Error(t, err)
}
