package console

import (
	"github.com/erp/catalogconsole/internal/domain/catalog"
	"github.com/erp/catalogconsole/internal/domain/shared"
)

// Row action kinds as they appear in front-end routes
const (
	ActionEdit   = "edit"
	ActionDelete = "delete"
)

// RowAction is a gesture on a table row. It is either EditRow or DeleteRow.
type RowAction interface {
	ProductID() catalog.ID
	Kind() string
	isRowAction()
}

// EditRow loads the product into the form
type EditRow struct {
	ID catalog.ID
}

func (a EditRow) ProductID() catalog.ID { return a.ID }
func (EditRow) Kind() string            { return ActionEdit }
func (EditRow) isRowAction()            {}

// DeleteRow removes the product after confirmation
type DeleteRow struct {
	ID catalog.ID
}

func (a DeleteRow) ProductID() catalog.ID { return a.ID }
func (DeleteRow) Kind() string            { return ActionDelete }
func (DeleteRow) isRowAction()            {}

// ParseRowAction resolves a clicked action from its kind and the raw id carried by the row
func ParseRowAction(kind, rawID string) (RowAction, error) {
	id, err := catalog.ParseID(rawID)
	if err != nil {
		return nil, shared.NewValidationError("id", MsgInvalidRowID)
	}
	switch kind {
	case ActionEdit:
		return EditRow{ID: id}, nil
	case ActionDelete:
		return DeleteRow{ID: id}, nil
	default:
		return nil, shared.NewValidationError("action", "Acción desconocida: "+kind)
	}
}
