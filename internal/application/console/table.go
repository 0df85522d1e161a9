package console

import (
	"github.com/erp/catalogconsole/internal/domain/catalog"
)

const (
	// DefaultDescriptionLimit is the number of characters of a description shown in a row
	DefaultDescriptionLimit = 45
	// TableColumns is the number of columns of the product table
	TableColumns = 7
)

// Row is one product projected for display
type Row struct {
	ID            catalog.ID
	Nombre        string
	Descripcion   string
	Precio        float64
	Stock         int64
	CategoryLabel string
	ImagenURL     string
	ImageFallback string
	Actions       []RowAction
}

// TableBody is the rendered product table. Placeholder is set only when
// there are no rows and then spans Columns.
type TableBody struct {
	Rows        []Row
	Columns     int
	Placeholder string
}

// Empty reports whether the body holds no product rows
func (b TableBody) Empty() bool {
	return len(b.Rows) == 0
}

// TableRenderer projects a product list into a TableBody. It keeps no state
// between calls other than its directory reference.
type TableRenderer struct {
	directory        *CategoryDirectory
	descriptionLimit int
}

// NewTableRenderer creates a renderer. A non-positive limit uses DefaultDescriptionLimit.
func NewTableRenderer(directory *CategoryDirectory, descriptionLimit int) *TableRenderer {
	if descriptionLimit <= 0 {
		descriptionLimit = DefaultDescriptionLimit
	}
	return &TableRenderer{directory: directory, descriptionLimit: descriptionLimit}
}

// Render projects products in order, one row each
func (r *TableRenderer) Render(products []catalog.Product) TableBody {
	if len(products) == 0 {
		return TableBody{Columns: TableColumns, Placeholder: MsgEmptyTable}
	}

	rows := make([]Row, 0, len(products))
	for _, p := range products {
		row := Row{
			ID:            p.ID,
			Nombre:        p.Nombre,
			Descripcion:   Truncate(p.Descripcion, r.descriptionLimit),
			Precio:        p.Precio,
			Stock:         p.Stock,
			CategoryLabel: r.directory.LabelFor(&p.Categoria),
			ImagenURL:     p.ImagenURL,
			Actions:       []RowAction{EditRow{ID: p.ID}, DeleteRow{ID: p.ID}},
		}
		if !p.HasImage() {
			row.ImagenURL = ""
			row.ImageFallback = MsgNoImage
		}
		rows = append(rows, row)
	}
	return TableBody{Rows: rows, Columns: TableColumns}
}

// Truncate cuts s to at most limit characters
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if limit < 0 || len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
