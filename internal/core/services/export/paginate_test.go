package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	const page = 800.0
	tests := []struct {
		name   string
		height float64
		want   []float64
	}{
		{"shorter than a page", 400, []float64{0}},
		{"exactly one page", page, []float64{0}},
		{"overflow at slack threshold", page + 20, []float64{0}},
		{"overflow one unit past slack", page + 21, []float64{0, 21 - (page + 21)}},
		{"three pages", 2*page + 21, []float64{0, -page, -2 * page}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Paginate(tt.height, page, 20))
		})
	}
}

func TestPaginate_OffsetsAdvanceByOnePage(t *testing.T) {
	offsets := Paginate(5000, 842, 20)
	for i := 1; i < len(offsets); i++ {
		assert.InDelta(t, -842.0, offsets[i]-offsets[i-1], 1e-9)
	}
	assert.Len(t, offsets, 6)
}

func TestPaginate_ZeroPageHeight(t *testing.T) {
	assert.Equal(t, []float64{0}, Paginate(100, 0, 20))
}
