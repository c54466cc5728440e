package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRequestDefaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/courses", nil)

	page := FromRequest(r)
	assert.Equal(t, 0, page.Number)
	assert.Equal(t, DefaultSize, page.Size)
	assert.Empty(t, page.Sort)
}

func TestFromRequestParsesParameters(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/courses?page=2&size=5&sort=name,desc&sort=id", nil)

	page := FromRequest(r)
	assert.Equal(t, 2, page.Number)
	assert.Equal(t, 5, page.Size)
	assert.Equal(t, []Order{{Field: "name", Desc: true}, {Field: "id"}}, page.Sort)
}

func TestFromRequestIgnoresInvalidValues(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/courses?page=-1&size=abc", nil)

	page := FromRequest(r)
	assert.Equal(t, 0, page.Number)
	assert.Equal(t, DefaultSize, page.Size)
}

func TestFromRequestCapsSize(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/courses?size=10000", nil)

	page := FromRequest(r)
	assert.Equal(t, MaxSize, page.Size)
}

func TestLimitOffset(t *testing.T) {
	page := Page{Number: 2, Size: 5}
	assert.Equal(t, int32(5), page.Limit())
	assert.Equal(t, int32(10), page.Offset())

	zero := Page{}
	assert.Equal(t, int32(DefaultSize), zero.Limit())
	assert.Equal(t, int32(0), zero.Offset())
}

func TestOrderByUsesWhitelistOnly(t *testing.T) {
	columns := map[string]string{"name": "course_name", "id": "course_id"}

	page := Page{Sort: []Order{{Field: "name", Desc: true}, {Field: "drop table", Desc: false}}}
	assert.Equal(t, "ORDER BY course_name DESC", page.OrderBy(columns, "course_name ASC"))

	empty := Page{}
	assert.Equal(t, "ORDER BY course_name ASC", empty.OrderBy(columns, "course_name ASC"))
}
