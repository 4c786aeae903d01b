package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		m, err := New("gaia", "ra", "dec", TypeObject)
		require.NoError(t, err)
		assert.Equal(t, "gaia", m.CatalogName)
		assert.Equal(t, TypeObject, m.CatalogType)
	})

	t.Run("InvalidType", func(t *testing.T) {
		_, err := New("gaia", "ra", "dec", CatalogType("margin"))
		assert.ErrorIs(t, err, ErrInvalidCatalogType)
	})

	t.Run("EmptyFields", func(t *testing.T) {
		_, err := New("", "ra", "dec", TypeObject)
		assert.Error(t, err)

		_, err = New("gaia", "", "dec", TypeSource)
		assert.Error(t, err)
	})
}

func TestClone(t *testing.T) {
	m, err := New("gaia", "ra", "dec", TypeObject)
	require.NoError(t, err)
	m.Extra = map[string]string{"epoch": "J2016"}

	c := m.Clone()
	c.Extra["epoch"] = "J2000"
	c.RAColumn = "ra_gaia"

	assert.Equal(t, "J2016", m.Extra["epoch"])
	assert.Equal(t, "ra", m.RAColumn)
}
