package catalog

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindow(t *testing.T) {
	vendors := manyVendors(5)

	tests := []struct {
		name           string
		offset, limit  int
		want           []string
		hasMore        bool
		nextOffset     int
	}{
		{"first page", 0, 2, []string{"a", "b"}, true, 2},
		{"middle page", 2, 2, []string{"c", "d"}, true, 4},
		{"last page", 4, 2, []string{"e"}, false, 0},
		{"exact end", 3, 2, []string{"d", "e"}, false, 0},
		{"past end", 9, 2, []string{}, false, 0},
		{"negative offset", -3, 1, []string{"a"}, true, 1},
		{"no limit", 1, 0, []string{"b", "c", "d", "e"}, false, 0},
		{"huge limit", 1, math.MaxInt, []string{"b", "c", "d", "e"}, false, 0},
		{"huge offset and limit", math.MaxInt, math.MaxInt, []string{}, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := Window(vendors, tt.offset, tt.limit)
			assert.Equal(t, tt.want, ids(page.Vendors))
			assert.Equal(t, tt.hasMore, page.HasMore)
			assert.Equal(t, tt.nextOffset, page.NextOffset)
			assert.Equal(t, 5, page.Total)
		})
	}
}

func TestWindowResultCannotGrowIntoSource(t *testing.T) {
	vendors := manyVendors(3)
	page := Window(vendors, 0, 1)
	page.Vendors = append(page.Vendors, vendor("x"))
	assert.Equal(t, "b", vendors[1].ID)
}
