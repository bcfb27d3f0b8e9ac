package items

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDefaults(t *testing.T) {
	var f ListFilter
	f.Normalize()

	assert.Equal(t, 1, f.Page)
	assert.Equal(t, defaultPageSize, f.Limit)
	assert.Equal(t, "createdAt", f.SortBy)
	assert.Equal(t, "desc", f.Order)
}

func TestNormalizeClampsAndWhitelists(t *testing.T) {
	f := ListFilter{Page: -2, Limit: 1000, SortBy: "price; DROP TABLE items", Order: "sideways"}
	f.Normalize()

	assert.Equal(t, 1, f.Page)
	assert.Equal(t, defaultPageSize, f.Limit)
	assert.Equal(t, "createdAt", f.SortBy)
	assert.Equal(t, "desc", f.Order)

	f = ListFilter{Page: 3, Limit: 50, SortBy: "price", Order: "asc"}
	f.Normalize()

	assert.Equal(t, 3, f.Page)
	assert.Equal(t, 50, f.Limit)
	assert.Equal(t, "price", f.SortBy)
	assert.Equal(t, "asc", f.Order)
}
