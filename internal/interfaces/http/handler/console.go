// Package handler contains the gin handlers of the web console.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/erp/catalogconsole/internal/application/console"
	"github.com/erp/catalogconsole/internal/infrastructure/logger"
	"github.com/erp/catalogconsole/internal/interfaces/http/session"
	"github.com/erp/catalogconsole/internal/interfaces/http/view"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PageTitle is the title of the console page
const PageTitle = "Catálogo de productos"

// ConsoleHandler maps browser gestures onto the session controller.
// Mutations follow post/redirect/get; outcomes reach the page through the
// session notice board.
type ConsoleHandler struct {
	engine *view.Engine
	store  *session.Store
}

// NewConsoleHandler creates a new ConsoleHandler
func NewConsoleHandler(engine *view.Engine, store *session.Store) *ConsoleHandler {
	return &ConsoleHandler{engine: engine, store: store}
}

// RegisterRoutes registers the console routes behind the session middleware
func (h *ConsoleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.Use(h.store.Middleware())
	rg.GET("/", h.Page)
	rg.POST("/products", h.Create)
	rg.POST("/products/update", h.Update)
	rg.POST("/form/cancel", h.Cancel)
	rg.POST("/reload", h.Reload)
	rg.POST("/clear", h.Clear)
	rg.POST("/rows/:action/:id", h.Row)
	rg.GET("/lookup", h.Lookup)
}

// Page renders the console
func (h *ConsoleHandler) Page(c *gin.Context) {
	h.render(c, sessionOf(c), "")
}

// Create submits the form in create mode
func (h *ConsoleHandler) Create(c *gin.Context) {
	sess := sessionOf(c)
	var fields console.Fields
	if err := c.ShouldBind(&fields); err != nil {
		c.String(http.StatusBadRequest, "formulario inválido")
		return
	}
	_ = sess.Controller.SubmitCreate(requestContext(c), fields)
	redirectHome(c)
}

// Update submits the form in edit mode
func (h *ConsoleHandler) Update(c *gin.Context) {
	sess := sessionOf(c)
	var fields console.Fields
	if err := c.ShouldBind(&fields); err != nil {
		c.String(http.StatusBadRequest, "formulario inválido")
		return
	}
	_ = sess.Controller.SubmitUpdate(requestContext(c), fields)
	redirectHome(c)
}

// Cancel leaves edit mode
func (h *ConsoleHandler) Cancel(c *gin.Context) {
	sessionOf(c).Controller.Cancel()
	redirectHome(c)
}

// Reload refetches the product list
func (h *ConsoleHandler) Reload(c *gin.Context) {
	_ = sessionOf(c).Controller.Reload(requestContext(c))
	redirectHome(c)
}

// Clear empties the view without contacting the store
func (h *ConsoleHandler) Clear(c *gin.Context) {
	sessionOf(c).Controller.Clear()
	redirectHome(c)
}

// Row handles the edit and delete buttons of a table row. A delete without
// an answer renders the confirmation page instead of acting.
func (h *ConsoleHandler) Row(c *gin.Context) {
	sess := sessionOf(c)
	confirm := &formConfirmer{answer: c.PostForm("confirm")}

	_ = sess.Controller.HandleRowClick(requestContext(c), c.Param("action"), c.Param("id"), confirm)

	if confirm.pending() {
		data := view.ConfirmData{
			Title:  PageTitle,
			Prompt: confirm.prompt,
			Action: c.Request.URL.Path,
		}
		h.html(c, view.ConfirmTemplate, data)
		return
	}
	redirectHome(c)
}

// Lookup fetches one product by id and shows its JSON next to the form
func (h *ConsoleHandler) Lookup(c *gin.Context) {
	sess := sessionOf(c)
	raw := c.Query("id")
	_ = sess.Controller.Lookup(requestContext(c), raw)
	h.render(c, sess, raw)
}

func (h *ConsoleHandler) render(c *gin.Context, sess *session.Session, lookupID string) {
	data := view.PageData{
		Title:    PageTitle,
		View:     sess.Controller.View(),
		LookupID: lookupID,
	}
	if n, ok := sess.Notices.Current(); ok {
		data.Notice = &view.Notice{Message: n.Message, Severity: n.Severity}
		data.NoticeTTL = sess.Notices.Remaining()
	}
	h.html(c, view.PageTemplate, data)
}

func (h *ConsoleHandler) html(c *gin.Context, name string, data any) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Header("Cache-Control", "no-store")
	c.Status(http.StatusOK)
	if err := h.engine.Render(c.Writer, name, data); err != nil {
		logger.GetGinLogger(c).Error("Failed to render page", zap.String("template", name), zap.Error(err))
		_ = c.Error(err)
		c.AbortWithStatus(http.StatusInternalServerError)
	}
}

// formConfirmer answers the delete prompt from the submitted form
type formConfirmer struct {
	answer string
	asked  bool
	prompt string
}

// Confirm implements console.Confirmer
func (f *formConfirmer) Confirm(_ context.Context, prompt string) bool {
	f.asked = true
	f.prompt = prompt
	return f.answer == "yes"
}

// pending reports whether the controller asked a question the user has not answered
func (f *formConfirmer) pending() bool {
	return f.asked && f.answer == ""
}

func sessionOf(c *gin.Context) *session.Session {
	sess := session.FromContext(c)
	if sess == nil {
		panic("console handler used without session middleware")
	}
	return sess
}

// requestContext detaches remote calls from the client connection so a
// closed tab does not leave the page half updated.
func requestContext(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}

func redirectHome(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/")
}

// HealthHandler reports process liveness
type HealthHandler struct {
	startTime time.Time
	sessions  *session.Store
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(sessions *session.Store) *HealthHandler {
	return &HealthHandler{startTime: time.Now(), sessions: sessions}
}

// RegisterRoutes registers the health route
func (h *HealthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/healthz", h.Health)
}

// HealthResponse is the body of the health endpoint
type HealthResponse struct {
	Status   string `json:"status"`
	Uptime   string `json:"uptime"`
	Sessions int    `json:"sessions"`
}

// Health answers with the process status
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:   "ok",
		Uptime:   time.Since(h.startTime).Round(time.Second).String(),
		Sessions: h.sessions.Len(),
	})
}
