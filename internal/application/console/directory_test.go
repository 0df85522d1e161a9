package console

import (
	"context"
	"errors"
	"testing"

	"github.com/erp/catalogconsole/internal/domain/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func loadedDirectory(t *testing.T, categories ...catalog.Category) *CategoryDirectory {
	t.Helper()
	source := new(MockCategorySource)
	source.On("ListCategories", mock.Anything).Return(categories, nil)
	d := NewCategoryDirectory(source)
	_, err := d.Load(context.Background())
	require.NoError(t, err)
	return d
}

func TestCategoryDirectory_Load(t *testing.T) {
	t.Run("keeps order and drops duplicates", func(t *testing.T) {
		d := loadedDirectory(t,
			catalog.Category{ID: 2, Nombre: "Snacks"},
			catalog.Category{ID: 1, Nombre: "Bebidas"},
			catalog.Category{ID: 2, Nombre: "Otra"},
			catalog.Category{ID: 0, Nombre: "Sin id"},
		)

		entries := d.Entries()
		require.Len(t, entries, 2)
		assert.Equal(t, "Snacks", entries[0].Category.Nombre)
		assert.Equal(t, "Bebidas", entries[1].Category.Nombre)
	})

	t.Run("failure leaves directory untouched", func(t *testing.T) {
		source := new(MockCategorySource)
		source.On("ListCategories", mock.Anything).Return(nil, errors.New("boom")).Once()
		d := NewCategoryDirectory(source)

		_, err := d.Load(context.Background())
		require.Error(t, err)
		assert.Empty(t, d.Entries())
		assert.Equal(t, []Option{{Value: "", Label: MsgSelectPlaceholder}}, d.SelectOptions())
		source.AssertExpectations(t)
	})

	t.Run("synthetic entries survive a reload", func(t *testing.T) {
		source := new(MockCategorySource)
		source.On("ListCategories", mock.Anything).Return([]catalog.Category{{ID: 1, Nombre: "Bebidas"}}, nil)
		d := NewCategoryDirectory(source)
		ctx := context.Background()

		_, err := d.Load(ctx)
		require.NoError(t, err)
		d.EnsureKnown(catalog.CategoryRef{ID: 9})
		_, err = d.Load(ctx)
		require.NoError(t, err)

		c, ok := d.Lookup(9)
		require.True(t, ok)
		assert.Equal(t, "ID 9 (no listado)", c.Nombre)
	})
}

func TestCategoryDirectory_SelectOptions(t *testing.T) {
	d := loadedDirectory(t, catalog.Category{ID: 1, Nombre: "Bebidas"}, catalog.Category{ID: 3, Nombre: "Lácteos"})
	d.EnsureKnown(catalog.CategoryRef{ID: 7, Nombre: "Congelados"})

	assert.Equal(t, []Option{
		{Value: "", Label: "Seleccione..."},
		{Value: "1", Label: "Bebidas"},
		{Value: "3", Label: "Lácteos"},
		{Value: "7", Label: "Congelados"},
	}, d.SelectOptions())
}

func TestCategoryDirectory_EnsureKnown(t *testing.T) {
	tests := []struct {
		name  string
		ref   catalog.CategoryRef
		added bool
		label string
	}{
		{name: "known id is a no-op", ref: catalog.CategoryRef{ID: 1, Nombre: "Otro"}, added: false, label: "Bebidas"},
		{name: "unknown id with name", ref: catalog.CategoryRef{ID: 4, Nombre: "Limpieza"}, added: true, label: "Limpieza"},
		{name: "unknown id without name", ref: catalog.CategoryRef{ID: 5}, added: true, label: "ID 5 (no listado)"},
		{name: "absent id", ref: catalog.CategoryRef{}, added: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := loadedDirectory(t, catalog.Category{ID: 1, Nombre: "Bebidas"})
			before := len(d.Entries())

			assert.Equal(t, tt.added, d.EnsureKnown(tt.ref))
			assert.False(t, d.EnsureKnown(tt.ref), "second call must not add")

			entries := d.Entries()
			if tt.added {
				require.Len(t, entries, before+1)
				last := entries[len(entries)-1]
				assert.True(t, last.Synthetic)
				assert.Equal(t, tt.label, last.Category.Nombre)
			} else {
				assert.Len(t, entries, before)
			}
		})
	}
}

func TestCategoryDirectory_EnsureKnownIsIdempotent(t *testing.T) {
	d := loadedDirectory(t, catalog.Category{ID: 1, Nombre: "Bebidas"})
	ref := catalog.CategoryRef{ID: 2}
	for i := 0; i < 5; i++ {
		d.EnsureKnown(ref)
	}

	count := 0
	for _, e := range d.Entries() {
		if e.Category.ID == 2 {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestCategoryDirectory_LabelFor(t *testing.T) {
	categories := []catalog.Category{{ID: 1, Nombre: "Bebidas"}, {ID: 2, Nombre: "Snacks"}}
	d := loadedDirectory(t, categories...)

	t.Run("round-trips every directory entry", func(t *testing.T) {
		for _, c := range categories {
			ref := catalog.CategoryRef{ID: c.ID, Nombre: c.Nombre}
			assert.Equal(t, c.Nombre, d.LabelFor(&ref))
		}
	})

	t.Run("falls back to the id", func(t *testing.T) {
		assert.Equal(t, "ID 42", d.LabelFor(&catalog.CategoryRef{ID: 42, Nombre: "ignored"}))
	})

	t.Run("empty without reference", func(t *testing.T) {
		assert.Equal(t, "", d.LabelFor(nil))
		assert.Equal(t, "", d.LabelFor(&catalog.CategoryRef{}))
	})
}
