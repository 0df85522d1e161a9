package console

import (
	"errors"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/erp/catalogconsole/internal/domain/catalog"
	"github.com/erp/catalogconsole/internal/domain/shared"
	"github.com/go-playground/validator/v10"
)

// Mode is the state of the product form
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

// String returns the mode name
func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// Fields holds the form values exactly as typed by the user
type Fields struct {
	ID          string `form:"id"`
	Nombre      string `form:"nombre"`
	Descripcion string `form:"descripcion"`
	Precio      string `form:"precio"`
	Stock       string `form:"stock"`
	ImagenURL   string `form:"imagenUrl"`
	CategoriaID string `form:"categoriaId"`
}

// Affordances tells a front-end which form controls to show
type Affordances struct {
	Title  string
	Create bool
	Update bool
	Cancel bool
}

// FormView is a snapshot of the form for rendering
type FormView struct {
	Mode        Mode
	BoundID     catalog.ID
	Fields      Fields
	Affordances Affordances
}

// FormController is the dual-mode product form. In ModeCreate no id is
// bound; in ModeEdit the id of the product being edited is bound and the
// id field mirrors it.
//
// Thread Safety: Not safe for concurrent use; the Controller serializes access.
type FormController struct {
	directory *CategoryDirectory
	validate  *validator.Validate
	mode      Mode
	boundID   catalog.ID
	fields    Fields
}

// NewFormController creates a form in ModeCreate
func NewFormController(directory *CategoryDirectory) *FormController {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &FormController{
		directory: directory,
		validate:  v,
	}
}

// Input records the values typed by the user. The id field is owned by the
// form and cannot be changed this way.
func (f *FormController) Input(fields Fields) {
	fields.ID = f.fields.ID
	f.fields = fields
}

// Edit loads a product into the form and switches to ModeEdit. A category
// unknown to the directory is added as a synthetic entry so it stays selectable.
func (f *FormController) Edit(p catalog.Product) {
	f.directory.EnsureKnown(p.Categoria)

	f.mode = ModeEdit
	f.boundID = p.ID
	f.fields = Fields{
		ID:          p.ID.String(),
		Nombre:      p.Nombre,
		Descripcion: p.Descripcion,
		Precio:      strconv.FormatFloat(p.Precio, 'f', -1, 64),
		Stock:       strconv.FormatInt(p.Stock, 10),
		ImagenURL:   p.ImagenURL,
		CategoriaID: p.Categoria.ID.String(),
	}
}

// Reset blanks every field and returns to ModeCreate
func (f *FormController) Reset() {
	f.mode = ModeCreate
	f.boundID = 0
	f.fields = Fields{}
}

// Mode returns the current mode
func (f *FormController) Mode() Mode {
	return f.mode
}

// BoundID returns the id of the product being edited
func (f *FormController) BoundID() (catalog.ID, error) {
	if f.mode != ModeEdit || !f.boundID.Valid() {
		return 0, shared.NewValidationError("id", MsgInvalidUpdateID)
	}
	return f.boundID, nil
}

// BuildPayload validates the current fields and converts them into a
// payload. Free text is trimmed; blank numeric fields read as zero. It does
// not modify the form.
func (f *FormController) BuildPayload() (catalog.ProductPayload, error) {
	categoryID, err := catalog.ParseID(f.fields.CategoriaID)
	if err != nil {
		return catalog.ProductPayload{}, shared.NewValidationError("categoriaId", MsgInvalidCategory)
	}

	precio, err := parseNumber(f.fields.Precio)
	if err != nil {
		return catalog.ProductPayload{}, shared.NewValidationError("precio", MsgInvalidPrice)
	}

	stock, err := parseNumber(f.fields.Stock)
	if err != nil || stock != math.Trunc(stock) || math.Abs(stock) > math.MaxInt64/2 {
		return catalog.ProductPayload{}, shared.NewValidationError("stock", MsgInvalidStock)
	}

	payload := catalog.ProductPayload{
		Nombre:      strings.TrimSpace(f.fields.Nombre),
		Descripcion: strings.TrimSpace(f.fields.Descripcion),
		Precio:      precio,
		Stock:       int64(stock),
		ImagenURL:   strings.TrimSpace(f.fields.ImagenURL),
		Categoria:   catalog.CategoryRef{ID: categoryID},
	}

	if err := f.validate.Struct(payload); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return catalog.ProductPayload{}, fieldError(verrs[0])
		}
		return catalog.ProductPayload{}, shared.NewValidationError("", err.Error())
	}
	return payload, nil
}

// View returns a snapshot of the form
func (f *FormController) View() FormView {
	return FormView{
		Mode:        f.mode,
		BoundID:     f.boundID,
		Fields:      f.fields,
		Affordances: affordances(f.mode),
	}
}

func affordances(m Mode) Affordances {
	if m == ModeEdit {
		return Affordances{Title: TitleEdit, Update: true, Cancel: true}
	}
	return Affordances{Title: TitleCreate, Create: true}
}

// parseNumber reads a numeric field. A blank field is zero.
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, strconv.ErrRange
	}
	return n, nil
}

func fieldError(e validator.FieldError) *shared.DomainError {
	switch e.Field() {
	case "precio":
		return shared.NewValidationError("precio", MsgInvalidPrice)
	case "stock":
		return shared.NewValidationError("stock", MsgInvalidStock)
	default:
		return shared.NewValidationError("categoriaId", MsgInvalidCategory)
	}
}
