package console

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/erp/catalogconsole/internal/domain/catalog"
	"github.com/erp/catalogconsole/internal/domain/shared"
	"go.uber.org/zap"
)

// PageView is an immutable snapshot of everything a front-end displays
type PageView struct {
	Form             FormView
	Options          []Option
	SelectedCategory string
	Table            TableBody
	Lookup           string
	CategoriesFailed bool
}

// Controller keeps the product table, the form and the remote store in sync.
// Every action runs to completion or failure and reports its outcome
// through the Notifier; action errors are returned as well so callers can
// set exit codes, but have already been shown to the user.
//
// The internal mutex is never held across a remote call. When two reloads
// overlap, the last one to resolve wins.
//
// Thread Safety: Safe for concurrent use by multiple goroutines.
type Controller struct {
	remote    Remote
	notifier  Notifier
	directory *CategoryDirectory
	form      *FormController
	table     *TableRenderer
	log       *zap.Logger

	mu               sync.Mutex
	body             TableBody
	lookup           string
	categoriesFailed bool
}

// ControllerOption customizes a Controller
type ControllerOption func(*controllerOptions)

type controllerOptions struct {
	descriptionLimit int
	log              *zap.Logger
}

// WithDescriptionLimit sets how many characters of a description the table shows
func WithDescriptionLimit(n int) ControllerOption {
	return func(o *controllerOptions) {
		o.descriptionLimit = n
	}
}

// WithLogger sets the controller logger
func WithLogger(log *zap.Logger) ControllerOption {
	return func(o *controllerOptions) {
		o.log = log
	}
}

// NewController wires a controller with its own directory, form and table
func NewController(remote Remote, notifier Notifier, opts ...ControllerOption) *Controller {
	o := controllerOptions{descriptionLimit: DefaultDescriptionLimit, log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	directory := NewCategoryDirectory(remote)
	table := NewTableRenderer(directory, o.descriptionLimit)
	return &Controller{
		remote:    remote,
		notifier:  notifier,
		directory: directory,
		form:      NewFormController(directory),
		table:     table,
		log:       o.log,
		body:      table.Render(nil),
	}
}

// Directory returns the category directory owned by the controller
func (c *Controller) Directory() *CategoryDirectory {
	return c.directory
}

// Start loads the categories and the product table. A category failure is
// reported and startup continues with an unusable category control.
func (c *Controller) Start(ctx context.Context) error {
	categories, err := c.directory.Load(ctx)
	c.mu.Lock()
	c.categoriesFailed = err != nil
	c.mu.Unlock()
	if err != nil {
		c.log.Warn("Failed to load categories", zap.Error(err))
		c.notify(MsgCategoriesPrefix+err.Error(), SeverityDanger)
	} else {
		c.log.Info("Categories loaded", zap.Int("count", len(categories)))
	}

	if err := c.reload(ctx); err != nil {
		return c.fail("start", err)
	}
	return nil
}

// Reload refetches the product list
func (c *Controller) Reload(ctx context.Context) error {
	if err := c.reload(ctx); err != nil {
		return c.fail("reload", err)
	}
	c.notify(MsgReloaded, SeveritySuccess)
	return nil
}

// SubmitCreate records the typed fields and creates a product from them.
// Validation failures never reach the remote store.
func (c *Controller) SubmitCreate(ctx context.Context, input Fields) error {
	c.mu.Lock()
	c.form.Input(input)
	payload, err := c.form.BuildPayload()
	c.mu.Unlock()
	if err != nil {
		return c.fail("create", err)
	}

	created, err := c.remote.CreateProduct(ctx, payload)
	if err != nil {
		return c.fail("create", err)
	}
	if err := c.reload(ctx); err != nil {
		return c.fail("create", err)
	}

	c.mu.Lock()
	c.form.Reset()
	c.mu.Unlock()

	c.log.Info("Product created", zap.Int64("id", int64(created.ID)))
	c.notify(MsgCreated, SeveritySuccess)
	return nil
}

// SubmitUpdate records the typed fields and updates the product bound to the form
func (c *Controller) SubmitUpdate(ctx context.Context, input Fields) error {
	c.mu.Lock()
	c.form.Input(input)
	id, err := c.form.BoundID()
	var payload catalog.ProductPayload
	if err == nil {
		payload, err = c.form.BuildPayload()
	}
	c.mu.Unlock()
	if err != nil {
		return c.fail("update", err)
	}

	if _, err := c.remote.UpdateProduct(ctx, id, payload); err != nil {
		return c.fail("update", err)
	}
	if err := c.reload(ctx); err != nil {
		return c.fail("update", err)
	}

	c.mu.Lock()
	c.form.Reset()
	c.mu.Unlock()

	c.log.Info("Product updated", zap.Int64("id", int64(id)))
	c.notify(MsgUpdated, SeverityWarning)
	return nil
}

// HandleRowClick parses a row gesture and dispatches it
func (c *Controller) HandleRowClick(ctx context.Context, kind, rawID string, confirm Confirmer) error {
	action, err := ParseRowAction(kind, rawID)
	if err != nil {
		return c.fail("row", err)
	}
	return c.Dispatch(ctx, action, confirm)
}

// Dispatch runs a row action. Deletion asks confirm first; a nil Confirmer declines.
func (c *Controller) Dispatch(ctx context.Context, action RowAction, confirm Confirmer) error {
	switch a := action.(type) {
	case EditRow:
		return c.edit(ctx, a.ID)
	case DeleteRow:
		return c.delete(ctx, a.ID, confirm)
	default:
		return c.fail("row", fmt.Errorf("unsupported row action %T", action))
	}
}

func (c *Controller) edit(ctx context.Context, id catalog.ID) error {
	product, err := c.remote.GetProduct(ctx, id)
	if err != nil {
		return c.fail("edit", err)
	}

	c.mu.Lock()
	c.form.Edit(*product)
	c.mu.Unlock()

	c.log.Debug("Edit mode", zap.Int64("id", int64(id)))
	c.notify(MsgEditMode, SeverityInfo)
	return nil
}

// DeletePrompt is the confirmation question asked before deleting a product
func DeletePrompt(id catalog.ID) string {
	return fmt.Sprintf("¿Eliminar producto ID %d?", id)
}

func (c *Controller) delete(ctx context.Context, id catalog.ID, confirm Confirmer) error {
	if confirm == nil || !confirm.Confirm(ctx, DeletePrompt(id)) {
		c.log.Debug("Delete declined", zap.Int64("id", int64(id)))
		return nil
	}

	if err := c.remote.DeleteProduct(ctx, id); err != nil {
		return c.fail("delete", err)
	}
	if err := c.reload(ctx); err != nil {
		return c.fail("delete", err)
	}

	c.log.Info("Product deleted", zap.Int64("id", int64(id)))
	c.notify(MsgDeleted, SeveritySuccess)
	return nil
}

// Lookup fetches a single product by the raw id typed by the user and keeps
// its JSON representation as the lookup result. The form is never touched.
func (c *Controller) Lookup(ctx context.Context, rawID string) error {
	id, err := catalog.ParseID(rawID)
	if err != nil {
		c.setLookup("")
		return c.fail("lookup", shared.NewValidationError("id", MsgInvalidLookupID))
	}

	product, err := c.remote.GetProduct(ctx, id)
	if err != nil {
		c.setLookup("")
		c.log.Warn("Lookup failed", zap.Int64("id", int64(id)), zap.Error(err))
		c.notify(lookupFailureMessage(err), SeverityDanger)
		return err
	}

	raw, err := json.MarshalIndent(product, "", "  ")
	if err != nil {
		c.setLookup("")
		return c.fail("lookup", err)
	}
	c.setLookup(string(raw))
	c.notify(MsgFound, SeverityInfo)
	return nil
}

func lookupFailureMessage(err error) string {
	msg := err.Error()
	if msg == "" || (shared.IsNotFound(err) && msg == shared.NotFoundMessage) {
		return MsgNotFound
	}
	return msg
}

// Cancel leaves edit mode without saving
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form.Reset()
}

// Clear empties the displayed table, resets the form and drops the lookup
// result. The remote store is not contacted.
func (c *Controller) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.body = c.table.Render(nil)
	c.form.Reset()
	c.lookup = ""
}

// View returns a snapshot of the whole page
func (c *Controller) View() PageView {
	c.mu.Lock()
	defer c.mu.Unlock()

	form := c.form.View()
	options := c.directory.SelectOptions()
	if c.categoriesFailed {
		options[0] = Option{Value: "", Label: MsgCategoriesUnavailable}
	}

	rows := make([]Row, len(c.body.Rows))
	copy(rows, c.body.Rows)
	body := c.body
	body.Rows = rows

	return PageView{
		Form:             form,
		Options:          options,
		SelectedCategory: form.Fields.CategoriaID,
		Table:            body,
		Lookup:           c.lookup,
		CategoriesFailed: c.categoriesFailed,
	}
}

// reload fetches the product list outside the lock and applies it under it
func (c *Controller) reload(ctx context.Context) error {
	products, err := c.remote.ListProducts(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.body = c.table.Render(products)
	c.log.Debug("Table rendered", zap.Int("rows", len(products)))
	return nil
}

func (c *Controller) setLookup(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lookup = s
}

// fail reports err to the user and returns it
func (c *Controller) fail(action string, err error) error {
	if shared.IsValidation(err) {
		c.log.Debug("Rejected input", zap.String("action", action), zap.Error(err))
	} else {
		c.log.Warn("Action failed", zap.String("action", action), zap.Error(err))
	}
	c.notify(err.Error(), SeverityDanger)
	return err
}

func (c *Controller) notify(message string, severity Severity) {
	if c.notifier != nil {
		c.notifier.Notify(message, severity)
	}
}
