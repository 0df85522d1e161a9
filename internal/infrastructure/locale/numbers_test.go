package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrice(t *testing.T) {
	assert.Equal(t, "1.5", Price(1.5))
	assert.Equal(t, "2", Price(2))
	assert.Equal(t, "0.1", Price(0.1))
	assert.Equal(t, "1234.56", Price(1234.56))
}

func TestNumbers_Stock(t *testing.T) {
	es, err := NewNumbers("es")
	require.NoError(t, err)
	assert.Equal(t, "1.234.567", es.Stock(1234567))
	assert.Equal(t, "3", es.Stock(3))

	en, err := NewNumbers("en")
	require.NoError(t, err)
	assert.Equal(t, "1,234,567", en.Stock(1234567))
}

func TestNewNumbers(t *testing.T) {
	n, err := NewNumbers("")
	require.NoError(t, err)
	assert.Equal(t, "1.500.000", n.Stock(1500000), "empty locale formats as Spanish")

	_, err = NewNumbers("??")
	assert.Error(t, err)
}
