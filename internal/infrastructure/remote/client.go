// Package remote provides the HTTP client for the remote catalog store.
// It translates catalog operations into CRUD requests and normalizes every
// non-success response into a single *Error.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/erp/catalogconsole/internal/domain/catalog"
	"go.uber.org/zap"
)

// Operation names, used for logging and metric labels
const (
	OpListProducts   = "list_products"
	OpGetProduct     = "get_product"
	OpCreateProduct  = "create_product"
	OpUpdateProduct  = "update_product"
	OpDeleteProduct  = "delete_product"
	OpListCategories = "list_categories"
)

// Config configures the remote client
type Config struct {
	BaseURL        string
	ProductsPath   string
	CategoriesPath string
	Timeout        time.Duration
	Headers        map[string]string
}

// DefaultConfig returns the paths served by the catalog backend
func DefaultConfig() Config {
	return Config{
		BaseURL:        "http://localhost:8080",
		ProductsPath:   "/api/productos",
		CategoriesPath: "/api/categorias",
		Timeout:        10 * time.Second,
	}
}

// Client talks to the remote collection store. Every call runs to completion
// or failure: there is no retry and no request coalescing.
type Client struct {
	httpClient     *http.Client
	baseURL        *url.URL
	productsPath   string
	categoriesPath string
	headers        map[string]string
	log            *zap.Logger
	metrics        *Metrics
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger used for request logging
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// WithMetrics records every call into the given collectors
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient creates a new remote store client
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if cfg.ProductsPath == "" || cfg.CategoriesPath == "" {
		return nil, fmt.Errorf("products and categories paths are required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	c := &Client{
		httpClient:     &http.Client{Timeout: cfg.Timeout},
		baseURL:        base,
		productsPath:   "/" + strings.Trim(cfg.ProductsPath, "/"),
		categoriesPath: "/" + strings.Trim(cfg.CategoriesPath, "/"),
		headers: map[string]string{
			"Accept": "application/json",
		},
		log: zap.NewNop(),
	}
	for k, v := range cfg.Headers {
		c.headers[k] = v
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListProducts fetches every product
func (c *Client) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	var products []catalog.Product
	if _, err := c.do(ctx, OpListProducts, http.MethodGet, c.productsPath, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct fetches a single product. The id must be positive.
func (c *Client) GetProduct(ctx context.Context, id catalog.ID) (*catalog.Product, error) {
	var product *catalog.Product
	found, err := c.do(ctx, OpGetProduct, http.MethodGet, c.productPath(id), nil, &product)
	if err != nil {
		return nil, err
	}
	if !found || product == nil {
		return nil, notFound(OpGetProduct)
	}
	return product, nil
}

// CreateProduct persists a new product and returns the server-assigned entity
func (c *Client) CreateProduct(ctx context.Context, payload catalog.ProductPayload) (*catalog.Product, error) {
	var product catalog.Product
	if _, err := c.do(ctx, OpCreateProduct, http.MethodPost, c.productsPath, payload, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct replaces the product with the given id
func (c *Client) UpdateProduct(ctx context.Context, id catalog.ID, payload catalog.ProductPayload) (*catalog.Product, error) {
	var product *catalog.Product
	found, err := c.do(ctx, OpUpdateProduct, http.MethodPut, c.productPath(id), payload, &product)
	if err != nil {
		return nil, err
	}
	if !found || product == nil {
		return nil, notFound(OpUpdateProduct)
	}
	return product, nil
}

// DeleteProduct removes a product. No body is expected on success.
func (c *Client) DeleteProduct(ctx context.Context, id catalog.ID) error {
	_, err := c.do(ctx, OpDeleteProduct, http.MethodDelete, c.productPath(id), nil, nil)
	return err
}

// ListCategories fetches the canonical category list
func (c *Client) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	var categories []catalog.Category
	if _, err := c.do(ctx, OpListCategories, http.MethodGet, c.categoriesPath, nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) productPath(id catalog.ID) string {
	return fmt.Sprintf("%s/%d", c.productsPath, id)
}

// do executes one request. It returns found=false when the server answered
// 2xx with an empty or null body, which the catalog backend uses for
// missing ids.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) (found bool, err error) {
	start := time.Now()
	defer func() {
		c.metrics.observe(op, err, time.Since(start))
	}()

	u := c.buildURL(path)

	var bodyReader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return false, fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), bodyReader)
	if err != nil {
		return false, fmt.Errorf("creating HTTP request: %w", err)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log := c.log.With(zap.String("operation", op), zap.String("method", method), zap.String("url", u.String()))
	log.Debug("Remote request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("Remote request failed", zap.Error(err))
		return false, networkError(op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Warn("Reading remote response failed", zap.Error(err))
		return false, networkError(op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		rerr := newStatusError(op, resp.StatusCode, raw)
		log.Warn("Remote store rejected request",
			zap.Int("status", resp.StatusCode),
			zap.String("message", rerr.Message),
		)
		return false, rerr
	}

	log.Debug("Remote request succeeded",
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return false, nil
	}
	if out == nil {
		return true, nil
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return false, &Error{
			Op:         op,
			StatusCode: resp.StatusCode,
			Message:    "Respuesta inválida del servidor",
			Err:        fmt.Errorf("decoding response: %w", err),
		}
	}
	return true, nil
}

// buildURL resolves a path against the base URL, keeping any base path prefix
func (c *Client) buildURL(path string) *url.URL {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	u.RawPath = ""
	return &u
}
