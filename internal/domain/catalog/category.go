package catalog

import "fmt"

// Category is a read-only reference entity owned by the remote store
type Category struct {
	ID        ID     `json:"id"`
	Nombre    string `json:"nombre"`
	ImagenURL string `json:"imagenUrl,omitempty"`
}

// CategoryRef points at a category by id. The server may embed the
// category name when returning a product; payloads only carry the id.
type CategoryRef struct {
	ID     ID     `json:"id" validate:"gt=0"`
	Nombre string `json:"nombre,omitempty"`
}

// FallbackLabel is the label shown for a category id the client cannot resolve
func FallbackLabel(id ID) string {
	return fmt.Sprintf("ID %d", id)
}

// UnlistedLabel labels a category id that is referenced by a product but
// missing from the canonical category list.
func UnlistedLabel(id ID) string {
	return fmt.Sprintf("ID %d (no listado)", id)
}
