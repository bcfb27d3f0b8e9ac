package items

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseListFilter(t *testing.T) {
	r := httptest.NewRequest("GET",
		"/items?search=dune&page=2&limit=24&sortBy=price&order=asc&minPrice=5&maxPrice=50&startDate=2024-01-01&endDate=2024-12-31", nil)

	filter := parseListFilter(r)
	assert.Equal(t, "dune", filter.Search)
	assert.Equal(t, 2, filter.Page)
	assert.Equal(t, 24, filter.Limit)
	assert.Equal(t, "price", filter.SortBy)
	assert.Equal(t, "asc", filter.Order)
	require.NotNil(t, filter.MinPrice)
	assert.Equal(t, 5.0, *filter.MinPrice)
	require.NotNil(t, filter.MaxPrice)
	assert.Equal(t, 50.0, *filter.MaxPrice)
	require.NotNil(t, filter.StartDate)
	assert.Equal(t, "2024-01-01", filter.StartDate.Format("2006-01-02"))
	require.NotNil(t, filter.EndDate)
}

func TestParseListFilterIgnoresGarbage(t *testing.T) {
	r := httptest.NewRequest("GET",
		"/items?page=abc&limit=-&category=not-a-uuid&minPrice=cheap&startDate=yesterday", nil)

	filter := parseListFilter(r)
	assert.Zero(t, filter.Page)
	assert.Zero(t, filter.Limit)
	assert.Nil(t, filter.CategoryID)
	assert.Nil(t, filter.MinPrice)
	assert.Nil(t, filter.StartDate)
}
