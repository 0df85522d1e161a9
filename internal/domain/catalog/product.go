package catalog

import "strings"

// Product is the catalog entity managed by the console
type Product struct {
	ID          ID          `json:"id,omitempty"`
	Nombre      string      `json:"nombre"`
	Descripcion string      `json:"descripcion"`
	Precio      float64     `json:"precio"`
	Stock       int64       `json:"stock"`
	ImagenURL   string      `json:"imagenUrl"`
	Categoria   CategoryRef `json:"categoria"`
}

// HasImage reports whether the product carries an image reference
func (p Product) HasImage() bool {
	return strings.TrimSpace(p.ImagenURL) != ""
}

// ProductPayload is the body sent on create and update. It never carries an id.
type ProductPayload struct {
	Nombre      string      `json:"nombre"`
	Descripcion string      `json:"descripcion"`
	Precio      float64     `json:"precio" validate:"gte=0"`
	Stock       int64       `json:"stock" validate:"gte=0"`
	ImagenURL   string      `json:"imagenUrl"`
	Categoria   CategoryRef `json:"categoria"`
}

// WithID builds the product the server would return after persisting the payload
func (p ProductPayload) WithID(id ID) Product {
	return Product{
		ID:          id,
		Nombre:      p.Nombre,
		Descripcion: p.Descripcion,
		Precio:      p.Precio,
		Stock:       p.Stock,
		ImagenURL:   p.ImagenURL,
		Categoria:   p.Categoria,
	}
}
