package params

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// URL: /products?page=2&limit=30
// → ParsePagination(q, 10) → Pagination{Limit:30, CurrentPage:2, Offset:30}
// → store: skip 30, limit 30
// → store returns data + total count
// → ComputeMeta(total) → fills TotalPages, HasNextPage, etc.
// Pagination holds pagination info and computed metadata.
type Pagination struct {
	CurrentPage   int  `json:"currentPage"`
	TotalPages    int  `json:"totalPages"`
	TotalCount    int  `json:"totalCount"`
	TotalProducts int  `json:"totalProducts"` // same as TotalCount, kept for existing clients
	HasNextPage   bool `json:"hasNextPage"`
	HasPrevPage   bool `json:"hasPrevPage"`
	Limit         int  `json:"limit"`
	Offset        int  `json:"-"`
}

// ParsePagination parses ?limit=...&page=... safely. Non-numeric, missing or
// non-positive values fall back to page 1 and defaultLimit. There is no upper bound on limit.
func ParsePagination(q url.Values, defaultLimit int) Pagination {
	return New(atoi(q.Get("page")), atoi(q.Get("limit")), defaultLimit)
}

// New normalizes a page/limit pair and computes the offset.
func New(page, limit, defaultLimit int) Pagination {
	if defaultLimit <= 0 {
		defaultLimit = 10
	}
	p := Pagination{CurrentPage: 1, Limit: defaultLimit}
	if page > 0 {
		p.CurrentPage = page
	}
	if limit > 0 {
		p.Limit = limit
	}
	// A page past the addressable range reads as an empty page rather than wrapping negative.
	if p.CurrentPage-1 > math.MaxInt/p.Limit {
		p.Offset = math.MaxInt
	} else {
		p.Offset = (p.CurrentPage - 1) * p.Limit
	}
	return p
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// ComputeMeta updates pagination after fetching total count.
func (p *Pagination) ComputeMeta(total int) {
	p.TotalCount = total
	p.TotalProducts = total
	if p.Limit > 0 {
		p.TotalPages = int(math.Ceil(float64(total) / float64(p.Limit)))
	}
	p.HasPrevPage = p.CurrentPage > 1
	p.HasNextPage = p.CurrentPage < p.TotalPages
}
