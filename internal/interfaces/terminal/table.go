package terminal

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/erp/catalogconsole/internal/application/console"
	"github.com/erp/catalogconsole/internal/infrastructure/locale"
)

// Formatter renders table bodies and category lists as aligned text
type Formatter struct {
	numbers *locale.Numbers
}

// NewFormatter creates a Formatter for a BCP 47 locale
func NewFormatter(tag string) (*Formatter, error) {
	numbers, err := locale.NewNumbers(tag)
	if err != nil {
		return nil, err
	}
	return &Formatter{numbers: numbers}, nil
}

// WriteTable prints the product table, or its placeholder when empty
func (f *Formatter) WriteTable(w io.Writer, body console.TableBody) error {
	if body.Empty() {
		_, err := fmt.Fprintln(w, body.Placeholder)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPRODUCTO\tDESCRIPCIÓN\tPRECIO\tSTOCK\tCATEGORÍA\tIMAGEN")
	for _, r := range body.Rows {
		image := r.ImagenURL
		if image == "" {
			image = r.ImageFallback
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID,
			r.Nombre,
			r.Descripcion,
			locale.Price(r.Precio),
			f.numbers.Stock(r.Stock),
			r.CategoryLabel,
			image,
		)
	}
	return tw.Flush()
}

// WriteCategories prints the directory entries. Synthetic entries are marked.
func (f *Formatter) WriteCategories(w io.Writer, entries []console.DirectoryEntry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNOMBRE")
	for _, e := range entries {
		name := e.Category.Nombre
		if e.Synthetic {
			name += " *"
		}
		fmt.Fprintf(tw, "%d\t%s\n", e.Category.ID, name)
	}
	return tw.Flush()
}
