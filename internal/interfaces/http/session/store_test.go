package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/erp/catalogconsole/internal/application/console"
	"github.com/erp/catalogconsole/internal/domain/catalog"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// emptyRemote answers every listing with nothing
type emptyRemote struct {
	mu    sync.Mutex
	lists int
}

func (r *emptyRemote) ListCategories(context.Context) ([]catalog.Category, error) {
	return nil, nil
}

func (r *emptyRemote) ListProducts(context.Context) ([]catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists++
	return nil, nil
}

func (r *emptyRemote) GetProduct(_ context.Context, id catalog.ID) (*catalog.Product, error) {
	return &catalog.Product{ID: id}, nil
}

func (r *emptyRemote) CreateProduct(context.Context, catalog.ProductPayload) (*catalog.Product, error) {
	return &catalog.Product{}, nil
}

func (r *emptyRemote) UpdateProduct(context.Context, catalog.ID, catalog.ProductPayload) (*catalog.Product, error) {
	return &catalog.Product{}, nil
}

func (r *emptyRemote) DeleteProduct(context.Context, catalog.ID) error {
	return nil
}

// contextRemote fails listings whose context is already done
type contextRemote struct {
	emptyRemote
}

func (r *contextRemote) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []catalog.Category{{ID: 1, Nombre: "Bebidas"}}, nil
}

func (r *contextRemote) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.emptyRemote.ListProducts(ctx)
}

func (r *emptyRemote) listCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lists
}

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestStore(remote console.Remote, opts ...Option) *Store {
	return NewStore(func(n console.Notifier) *console.Controller {
		return console.NewController(remote, n)
	}, opts...)
}

func TestNoticeBoard(t *testing.T) {
	clk := &clock{t: time.Unix(0, 0)}
	board := NewNoticeBoard(3 * time.Second)
	board.now = clk.now

	_, ok := board.Current()
	assert.False(t, ok)

	board.Notify("Producto creado ✅", console.SeveritySuccess)
	n, ok := board.Current()
	require.True(t, ok)
	assert.Equal(t, "Producto creado ✅", n.Message)
	assert.Equal(t, console.SeveritySuccess, n.Severity)
	assert.Equal(t, 3*time.Second, board.Remaining())

	clk.advance(2 * time.Second)
	board.Notify("db down", console.SeverityDanger)
	n, ok = board.Current()
	require.True(t, ok)
	assert.Equal(t, "db down", n.Message)

	clk.advance(2 * time.Second)
	_, ok = board.Current()
	assert.True(t, ok, "replacement restarts the timer")
	assert.Equal(t, time.Second, board.Remaining())

	clk.advance(time.Second)
	_, ok = board.Current()
	assert.False(t, ok)
	assert.Zero(t, board.Remaining())
}

func TestStore_Sweep(t *testing.T) {
	clk := &clock{t: time.Unix(0, 0)}
	store := newTestStore(&emptyRemote{}, WithIdleTimeout(time.Minute))
	store.now = clk.now

	old := store.Create()
	clk.advance(45 * time.Second)
	fresh := store.Create()
	clk.advance(30 * time.Second)

	assert.Equal(t, 1, store.Sweep())
	_, ok := store.Get(old.ID)
	assert.False(t, ok)
	_, ok = store.Get(fresh.ID)
	assert.True(t, ok)

	clk.advance(50 * time.Second)
	assert.Equal(t, 0, store.Sweep(), "Get refreshed the session")
	assert.Equal(t, 1, store.Len())
}

func TestStore_Run(t *testing.T) {
	store := newTestStore(&emptyRemote{}, WithIdleTimeout(time.Nanosecond))
	store.Create()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		store.Run(ctx, time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return store.Len() == 0 }, time.Second, time.Millisecond)
	cancel()
	<-done
}

func TestStore_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	remote := &emptyRemote{}
	store := newTestStore(remote)

	var seen *Session
	router := gin.New()
	router.Use(store.Middleware())
	router.GET("/", func(c *gin.Context) {
		seen = FromContext(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotNil(t, seen)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Equal(t, seen.ID, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, 1, remote.listCount(), "new session loads the table")

	first := seen
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Same(t, first, seen)
	assert.Empty(t, w.Result().Cookies())
	assert.Equal(t, 1, remote.listCount(), "startup runs once per session")

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "expired"})
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.NotSame(t, first, seen)
	assert.Equal(t, 2, store.Len())
}

func TestStore_Middleware_CancelledFirstRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	remote := &contextRemote{}
	store := newTestStore(remote)

	var seen *Session
	router := gin.New()
	router.Use(store.Middleware())
	router.GET("/", func(c *gin.Context) {
		seen = FromContext(c)
		c.Status(http.StatusOK)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx))
	require.NotNil(t, seen)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	router.ServeHTTP(httptest.NewRecorder(), req)

	view := seen.Controller.View()
	assert.False(t, view.CategoriesFailed)
	require.Len(t, view.Options, 2)
	assert.Equal(t, "Bebidas", view.Options[1].Label)
	assert.Equal(t, 1, remote.listCount())
	_, noticed := seen.Notices.Current()
	assert.False(t, noticed, "startup succeeded without an error notice")
}

func TestFromContext_Missing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, FromContext(c))
}
