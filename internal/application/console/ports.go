// Package console implements the catalog console: the controller that keeps
// the product table, the product form and the remote store consistent after
// every user action.
package console

import (
	"context"

	"github.com/erp/catalogconsole/internal/domain/catalog"
)

// CategorySource provides the canonical category list
type CategorySource interface {
	ListCategories(ctx context.Context) ([]catalog.Category, error)
}

// Remote is the remote collection store as seen by the console
type Remote interface {
	CategorySource
	ListProducts(ctx context.Context) ([]catalog.Product, error)
	GetProduct(ctx context.Context, id catalog.ID) (*catalog.Product, error)
	CreateProduct(ctx context.Context, payload catalog.ProductPayload) (*catalog.Product, error)
	UpdateProduct(ctx context.Context, id catalog.ID, payload catalog.ProductPayload) (*catalog.Product, error)
	DeleteProduct(ctx context.Context, id catalog.ID) error
}

// Severity classifies a notification
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
	SeverityInfo    Severity = "info"
)

// Notifier displays a transient message to the user. It must not block.
type Notifier interface {
	Notify(message string, severity Severity)
}

// NotifierFunc adapts a function to the Notifier interface
type NotifierFunc func(message string, severity Severity)

// Notify calls f(message, severity)
func (f NotifierFunc) Notify(message string, severity Severity) {
	f(message, severity)
}

// Confirmer asks the user a yes/no question
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc adapts a function to the Confirmer interface
type ConfirmFunc func(ctx context.Context, prompt string) bool

// Confirm calls f(ctx, prompt)
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool {
	return f(ctx, prompt)
}

// User-facing messages
const (
	MsgInvalidCategory       = "Selecciona una categoría válida."
	MsgInvalidPrice          = "Precio inválido."
	MsgInvalidStock          = "Stock inválido."
	MsgInvalidUpdateID       = "ID inválido para actualizar."
	MsgInvalidLookupID       = "Ingresa un ID válido."
	MsgInvalidRowID          = "ID inválido en la tabla."
	MsgCategoriesUnavailable = "No se pudo cargar categorías"
	MsgCategoriesPrefix      = "Categorías: "
	MsgReloaded              = "Lista recargada ✅"
	MsgCreated               = "Producto creado ✅"
	MsgUpdated               = "Producto actualizado ✅"
	MsgDeleted               = "Producto eliminado ✅"
	MsgEditMode              = "Modo edición activado ✏️"
	MsgFound                 = "Producto encontrado ✅"
	MsgNotFound              = "No encontrado ❌"
	MsgSelectPlaceholder     = "Seleccione..."
	MsgEmptyTable            = "No hay productos."
	MsgNoImage               = "sin imagen"
	TitleCreate              = "Crear producto"
	TitleEdit                = "Editar producto"
)
