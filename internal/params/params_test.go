package params

import (
	"math"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		def        int
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "", 10, 1, 10, 0},
		{"subcategory default", "", 50, 1, 50, 0},
		{"explicit", "page=3&limit=20", 10, 3, 20, 40},
		{"non numeric", "page=abc&limit=x", 10, 1, 10, 0},
		{"zero and negative", "page=0&limit=-5", 10, 1, 10, 0},
		{"no upper bound", "limit=5000", 10, 1, 5000, 0},
		{"whitespace", "page=%202%20", 10, 2, 10, 10},
		{"offset overflow", "page=" + strconv.Itoa(math.MaxInt) + "&limit=2", 10, math.MaxInt, 2, math.MaxInt},
		{"largest page without overflow", "page=" + strconv.Itoa(math.MaxInt/2+1) + "&limit=2", 10, math.MaxInt/2 + 1, 2, math.MaxInt - 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q, err := url.ParseQuery(tc.query)
			assert.NoError(t, err)

			p := ParsePagination(q, tc.def)
			assert.Equal(t, tc.wantPage, p.CurrentPage)
			assert.Equal(t, tc.wantLimit, p.Limit)
			assert.Equal(t, tc.wantOffset, p.Offset)
		})
	}
}

func TestComputeMeta(t *testing.T) {
	p := New(1, 10, 10)
	p.ComputeMeta(25)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 25, p.TotalCount)
	assert.Equal(t, 25, p.TotalProducts)
	assert.True(t, p.HasNextPage)
	assert.False(t, p.HasPrevPage)

	p = New(3, 10, 10)
	p.ComputeMeta(25)
	assert.False(t, p.HasNextPage)
	assert.True(t, p.HasPrevPage)

	p = New(math.MaxInt, 2, 10)
	p.ComputeMeta(25)
	assert.Equal(t, 13, p.TotalPages)
	assert.False(t, p.HasNextPage)
	assert.True(t, p.HasPrevPage)

	p = New(1, 10, 10)
	p.ComputeMeta(0)
	assert.Equal(t, 0, p.TotalPages)
	assert.False(t, p.HasNextPage)
	assert.False(t, p.HasPrevPage)
}
