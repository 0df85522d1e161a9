// Package view renders the web console pages with html/template.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/erp/catalogconsole/internal/application/console"
	"github.com/erp/catalogconsole/internal/infrastructure/locale"
)

//go:embed templates/*.html
var templateFS embed.FS

// Template names
const (
	PageTemplate    = "page.html"
	ConfirmTemplate = "confirm.html"
)

// Notice is the transient message shown on top of the page
type Notice struct {
	Message  string
	Severity console.Severity
}

// PageData is the data bound to the console page
type PageData struct {
	Title     string
	View      console.PageView
	Notice    *Notice
	NoticeTTL time.Duration
	LookupID  string
}

// ConfirmData is the data bound to the confirmation page
type ConfirmData struct {
	Title  string
	Prompt string
	Action string
}

// Engine renders the console templates. Parsed templates are shared and
// safe for concurrent use.
type Engine struct {
	templates *template.Template
	numbers   *locale.Numbers
}

// EngineOption configures the engine
type EngineOption func(*engineOptions)

type engineOptions struct {
	locale string
}

// WithLocale sets the locale used for number formatting
func WithLocale(locale string) EngineOption {
	return func(o *engineOptions) {
		o.locale = locale
	}
}

// NewEngine parses the embedded templates
func NewEngine(opts ...EngineOption) (*Engine, error) {
	o := engineOptions{locale: locale.Default}
	for _, opt := range opts {
		opt(&o)
	}

	numbers, err := locale.NewNumbers(o.locale)
	if err != nil {
		return nil, err
	}

	e := &Engine{numbers: numbers}
	tmpl, err := template.New("console").Funcs(e.funcMap()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	e.templates = tmpl
	return e, nil
}

func (e *Engine) funcMap() template.FuncMap {
	return template.FuncMap{
		"formatPrice": locale.Price,
		"formatStock": e.numbers.Stock,
		"alertClass":  alertClass,
		"millis":      millis,
		"actionPath":  actionPath,
		"actionLabel": actionLabel,
		"actionClass": actionClass,
	}
}

// Render executes the named template into w
func (e *Engine) Render(w io.Writer, name string, data any) error {
	// render into a buffer so a failing template never leaves a half-written page
	var buf bytes.Buffer
	if err := e.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

func alertClass(s console.Severity) string {
	switch s {
	case console.SeveritySuccess, console.SeverityWarning, console.SeverityInfo, console.SeverityDanger:
		return "alert-" + string(s)
	default:
		return "alert-secondary"
	}
}

func millis(d time.Duration) int64 {
	return d.Milliseconds()
}

func actionPath(a console.RowAction) string {
	return fmt.Sprintf("/rows/%s/%d", a.Kind(), a.ProductID())
}

func actionLabel(a console.RowAction) string {
	if a.Kind() == console.ActionDelete {
		return "Eliminar"
	}
	return "Editar"
}

func actionClass(a console.RowAction) string {
	if a.Kind() == console.ActionDelete {
		return "btn-outline-danger"
	}
	return "btn-outline-warning"
}
