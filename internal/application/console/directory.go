package console

import (
	"context"
	"sync"

	"github.com/erp/catalogconsole/internal/domain/catalog"
)

// Option is one entry of the category selection control
type Option struct {
	Value string
	Label string
}

// DirectoryEntry is a category known to the console. Synthetic entries
// stand in for ids referenced by a product but absent from the canonical list.
type DirectoryEntry struct {
	Category  catalog.Category
	Synthetic bool
}

// CategoryDirectory holds the category list fetched at startup plus any
// synthetic entries appended while editing. Entries are never removed.
//
// Thread Safety: Safe for concurrent use by multiple goroutines.
type CategoryDirectory struct {
	mu      sync.RWMutex
	source  CategorySource
	entries []DirectoryEntry
}

// NewCategoryDirectory creates an empty directory backed by source
func NewCategoryDirectory(source CategorySource) *CategoryDirectory {
	return &CategoryDirectory{source: source}
}

// Load fetches and stores the canonical category list. On failure the
// directory is left untouched.
func (d *CategoryDirectory) Load(ctx context.Context) ([]catalog.Category, error) {
	categories, err := d.source.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	seen := make(map[catalog.ID]bool, len(categories))
	entries := make([]DirectoryEntry, 0, len(categories))
	for _, c := range categories {
		if !c.ID.Valid() || seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		entries = append(entries, DirectoryEntry{Category: c})
	}
	// synthetic entries survive a reload unless the id became canonical
	for _, e := range d.entries {
		if e.Synthetic && !seen[e.Category.ID] {
			entries = append(entries, e)
		}
	}
	d.entries = entries

	out := make([]catalog.Category, 0, len(entries))
	for _, e := range entries {
		if !e.Synthetic {
			out = append(out, e.Category)
		}
	}
	return out, nil
}

// Entries returns a copy of every entry, canonical first
func (d *CategoryDirectory) Entries() []DirectoryEntry {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]DirectoryEntry, len(d.entries))
	copy(out, d.entries)
	return out
}

// Lookup finds a category by id
func (d *CategoryDirectory) Lookup(id catalog.ID) (catalog.Category, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.lookupLocked(id)
}

func (d *CategoryDirectory) lookupLocked(id catalog.ID) (catalog.Category, bool) {
	for _, e := range d.entries {
		if e.Category.ID == id {
			return e.Category, true
		}
	}
	return catalog.Category{}, false
}

// SelectOptions returns the options of the category control, always led by
// an empty "unselected" placeholder.
func (d *CategoryDirectory) SelectOptions() []Option {
	d.mu.RLock()
	defer d.mu.RUnlock()

	options := make([]Option, 0, len(d.entries)+1)
	options = append(options, Option{Value: "", Label: MsgSelectPlaceholder})
	for _, e := range d.entries {
		options = append(options, Option{Value: e.Category.ID.String(), Label: e.Category.Nombre})
	}
	return options
}

// EnsureKnown appends a synthetic entry for a category id the directory does
// not know yet. A reference without id is ignored. It reports whether an
// entry was added; repeated calls for the same id add nothing.
func (d *CategoryDirectory) EnsureKnown(ref catalog.CategoryRef) bool {
	if !ref.ID.Valid() {
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.lookupLocked(ref.ID); ok {
		return false
	}

	label := ref.Nombre
	if label == "" {
		label = catalog.UnlistedLabel(ref.ID)
	}
	d.entries = append(d.entries, DirectoryEntry{
		Category:  catalog.Category{ID: ref.ID, Nombre: label},
		Synthetic: true,
	})
	return true
}

// LabelFor resolves the display label of a category reference: the
// directory name when known, "ID {id}" otherwise, "" without a reference.
func (d *CategoryDirectory) LabelFor(ref *catalog.CategoryRef) string {
	if ref == nil || !ref.ID.Valid() {
		return ""
	}
	if c, ok := d.Lookup(ref.ID); ok {
		return c.Nombre
	}
	return catalog.FallbackLabel(ref.ID)
}
