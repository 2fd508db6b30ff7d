package crop_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yieldwise/yieldwise/internal/crop"
)

func TestNewTable_RequiresDefault(t *testing.T) {
	_, err := crop.NewTable(map[string]int{"rice": 1})
	assert.ErrorIs(t, err, crop.ErrMissingDefault)

	assert.Panics(t, func() {
		crop.MustTable(map[string]string{"wheat": "x"})
	})
}

func TestTable_GetFallsBackToDefault(t *testing.T) {
	table, err := crop.NewTable(map[string]string{
		"default": "generic",
		"Rice":    "paddy",
	})
	require.NoError(t, err)

	assert.Equal(t, "paddy", table.Get("rice"))
	assert.Equal(t, "paddy", table.Get("  RICE "))
	assert.Equal(t, "generic", table.Get("quinoa"))
	assert.Equal(t, "generic", table.Get(""))
	assert.Equal(t, "generic", table.Default())

	assert.True(t, table.Has("rice"))
	assert.False(t, table.Has("quinoa"))
	assert.Equal(t, []string{"rice"}, table.IDs())
}
