package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPaginated(t *testing.T) {
	cases := []struct {
		name           string
		total          int64
		pageSize       int
		wantTotalPages int
	}{
		{"exact fit", 40, 20, 2},
		{"remainder adds a page", 45, 20, 3},
		{"single page", 5, 20, 1},
		{"empty", 0, 20, 0},
		{"zero page size", 45, 0, 0},
		{"negative page size", 45, -1, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			page := NewPaginated([]int{}, tc.total, 1, tc.pageSize)

			assert.Equal(t, tc.wantTotalPages, page.TotalPages)
			assert.Equal(t, tc.total, page.Total)
		})
	}
}

func TestNewPaginated_ZeroValueFilterDoesNotPanic(t *testing.T) {
	var filter Filter

	assert.NotPanics(t, func() {
		NewPaginated([]string{"a"}, 1, filter.Page, filter.PageSize)
	})
}
