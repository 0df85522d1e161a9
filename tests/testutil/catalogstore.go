// Package testutil provides common test utilities for the catalog console.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"
	"testing"

	"github.com/erp/catalogconsole/internal/domain/catalog"
	"github.com/gin-gonic/gin"
)

// Default collection paths served by the fake store
const (
	ProductsPath   = "/api/productos"
	CategoriesPath = "/api/categorias"
)

// Route keys used for failure injection and request counting
const (
	RouteListProducts   = "GET products"
	RouteGetProduct     = "GET product"
	RouteCreateProduct  = "POST products"
	RouteUpdateProduct  = "PUT product"
	RouteDeleteProduct  = "DELETE product"
	RouteListCategories = "GET categories"
)

type failure struct {
	status int
	body   string
}

// CatalogStore is an in-memory stand-in for the remote collection store.
// Like the real backend it answers a missing id on GET and PUT with 200 and
// an empty body.
type CatalogStore struct {
	mu         sync.Mutex
	nextID     catalog.ID
	products   map[catalog.ID]catalog.Product
	categories []catalog.Category
	failures   map[string]failure
	requests   map[string]int
	server     *httptest.Server
}

// NewCatalogStore starts a fake store seeded with the given categories.
// The server is closed when the test ends.
func NewCatalogStore(t testing.TB, categories ...catalog.Category) *CatalogStore {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &CatalogStore{
		nextID:     1,
		products:   make(map[catalog.ID]catalog.Product),
		categories: categories,
		failures:   make(map[string]failure),
		requests:   make(map[string]int),
	}
	s.server = httptest.NewServer(s.router())
	t.Cleanup(s.server.Close)
	return s
}

// URL returns the base URL of the fake store
func (s *CatalogStore) URL() string {
	return s.server.URL
}

// Seed stores products as-is, keeping their ids
func (s *CatalogStore) Seed(products ...catalog.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range products {
		if p.ID >= s.nextID {
			s.nextID = p.ID + 1
		}
		s.products[p.ID] = p
	}
}

// Fail makes every request to route answer with status and body until Recover
func (s *CatalogStore) Fail(route string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = failure{status: status, body: body}
}

// Recover clears an injected failure
func (s *CatalogStore) Recover(route string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, route)
}

// Requests returns how many requests reached route
func (s *CatalogStore) Requests(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[route]
}

// TotalRequests returns how many requests reached the store
func (s *CatalogStore) TotalRequests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.requests {
		total += n
	}
	return total
}

// Product returns a stored product
func (s *CatalogStore) Product(id catalog.ID) (catalog.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	return p, ok
}

// Products returns every stored product ordered by id
func (s *CatalogStore) Products() []catalog.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedLocked()
}

func (s *CatalogStore) sortedLocked() []catalog.Product {
	out := make([]catalog.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, s.withCategoryLocked(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *CatalogStore) withCategoryLocked(p catalog.Product) catalog.Product {
	for _, c := range s.categories {
		if c.ID == p.Categoria.ID {
			p.Categoria.Nombre = c.Nombre
		}
	}
	return p
}

func (s *CatalogStore) router() *gin.Engine {
	r := gin.New()
	products := r.Group(ProductsPath)
	{
		products.GET("", s.track(RouteListProducts, s.list))
		products.POST("", s.track(RouteCreateProduct, s.create))
		products.GET("/:id", s.track(RouteGetProduct, s.get))
		products.PUT("/:id", s.track(RouteUpdateProduct, s.update))
		products.DELETE("/:id", s.track(RouteDeleteProduct, s.remove))
	}
	r.GET(CategoriesPath, s.track(RouteListCategories, s.listCategories))
	return r
}

// track counts the request and applies any injected failure
func (s *CatalogStore) track(route string, next gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.Lock()
		s.requests[route]++
		f, failing := s.failures[route]
		s.mu.Unlock()

		if failing {
			c.Data(f.status, "application/json", []byte(f.body))
			return
		}
		next(c)
	}
}

func (s *CatalogStore) list(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.sortedLocked())
}

func (s *CatalogStore) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, found := s.products[id]
	if !found {
		c.Status(http.StatusOK)
		return
	}
	c.JSON(http.StatusOK, s.withCategoryLocked(p))
}

func (s *CatalogStore) create(c *gin.Context) {
	var payload catalog.ProductPayload
	if err := json.NewDecoder(c.Request.Body).Decode(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bad Request", "message": err.Error()})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p := payload.WithID(s.nextID)
	s.nextID++
	s.products[p.ID] = p
	c.JSON(http.StatusOK, s.withCategoryLocked(p))
}

func (s *CatalogStore) update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var payload catalog.ProductPayload
	if err := json.NewDecoder(c.Request.Body).Decode(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bad Request", "message": err.Error()})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.products[id]; !found {
		c.Status(http.StatusOK)
		return
	}
	p := payload.WithID(id)
	s.products[id] = p
	c.JSON(http.StatusOK, s.withCategoryLocked(p))
}

func (s *CatalogStore) remove(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.products, id)
	c.Status(http.StatusOK)
}

func (s *CatalogStore) listCategories(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.categories)
}

func pathID(c *gin.Context) (catalog.ID, bool) {
	n, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bad Request", "message": "id inválido"})
		return 0, false
	}
	return catalog.ID(n), true
}
