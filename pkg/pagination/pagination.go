// Package pagination parses page/size/sort query parameters and pushes
// them down to the store as LIMIT/OFFSET/ORDER BY.
package pagination

import (
	"net/http"
	"strconv"
	"strings"
)

const (
	DefaultSize = 20
	MaxSize     = 100
)

// Order is a single sort instruction, e.g. "name,desc".
type Order struct {
	Field string
	Desc  bool
}

// Page describes one page of a listing. Number is zero-based.
type Page struct {
	Number int
	Size   int
	Sort   []Order
}

// FromRequest parses page, size and sort query parameters. Out-of-range
// values fall back to defaults rather than failing the request.
func FromRequest(r *http.Request) Page {
	q := r.URL.Query()

	page := Page{Number: 0, Size: DefaultSize}

	if v := q.Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			page.Number = n
		}
	}
	if v := q.Get("size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			if n > MaxSize {
				n = MaxSize
			}
			page.Size = n
		}
	}

	for _, v := range q["sort"] {
		parts := strings.Split(v, ",")
		field := strings.TrimSpace(parts[0])
		if field == "" {
			continue
		}
		order := Order{Field: field}
		if len(parts) > 1 && strings.EqualFold(strings.TrimSpace(parts[1]), "desc") {
			order.Desc = true
		}
		page.Sort = append(page.Sort, order)
	}

	return page
}

// Limit returns the SQL LIMIT for this page.
func (p Page) Limit() int32 {
	if p.Size <= 0 {
		return DefaultSize
	}
	return int32(p.Size)
}

// Offset returns the SQL OFFSET for this page.
func (p Page) Offset() int32 {
	if p.Number <= 0 || p.Size <= 0 {
		return 0
	}
	return int32(p.Number * p.Size)
}

// OrderBy builds an ORDER BY clause from the requested sort, using only
// fields present in the columns whitelist (DTO field -> column name).
// Unknown fields are dropped; when nothing survives, fallback is used.
// The whitelist keeps user input out of the SQL text.
func (p Page) OrderBy(columns map[string]string, fallback string) string {
	var parts []string
	for _, o := range p.Sort {
		col, ok := columns[o.Field]
		if !ok {
			continue
		}
		dir := " ASC"
		if o.Desc {
			dir = " DESC"
		}
		parts = append(parts, col+dir)
	}
	if len(parts) == 0 {
		return "ORDER BY " + fallback
	}
	return "ORDER BY " + strings.Join(parts, ", ")
}
