package resolver

import (
	"testing"

	"browser-keywords/internal/domain/entity"
	"browser-keywords/internal/probe"

	"github.com/stretchr/testify/assert"
)

func box(x, y float64) entity.Rect { return entity.Rect{X: x, Y: y, Width: 40, Height: 20} }

func TestClosestIndex(t *testing.T) {
	anchor := box(0, 100)
	tests := []struct {
		name  string
		cands []entity.Rect
		dir   string
		want  int
		found bool
	}{
		{"nearest by corners", []entity.Rect{box(200, 0), box(200, 100), box(200, 200)}, "closest", 1, true},
		{"overlap wins outright", []entity.Rect{box(60, 100), box(30, 110)}, "closest", 1, true},
		{"direction down prefers below", []entity.Rect{box(0, 60), box(0, 160)}, "down", 1, true},
		{"direction up prefers above", []entity.Rect{box(0, 60), box(0, 160)}, "up", 0, true},
		{"strict direction excludes everything else", []entity.Rect{box(0, 60)}, "down!", 0, false},
		{"non strict keeps a fallback", []entity.Rect{box(0, 60)}, "down", 0, true},
		{"tie broken by alignment", []entity.Rect{box(100, 160), box(140, 100)}, "closest", 1, true},
		{"no candidates", nil, "closest", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := closestIndex(anchor, tt.cands, parseDirection(tt.dir))
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseDirection(t *testing.T) {
	assert.Equal(t, direction{name: "left", strict: true}, parseDirection(" Left! "))
	assert.Equal(t, direction{name: "closest"}, parseDirection(""))
}

func TestClassify(t *testing.T) {
	flags := []probe.Flags{
		{CSS: true, Offset: true, Viewport: true},
		{CSS: false, Offset: true, Viewport: true},
		{CSS: true, Offset: true, Viewport: false},
		{CSS: true, Offset: false, Viewport: true},
	}
	assert.Equal(t, []int{0, 2}, classify(flags, policy{visibility: true, offset: true}))
	assert.Equal(t, []int{0}, classify(flags, policy{visibility: true, offset: true, viewport: true}))
	assert.Equal(t, []int{0, 3, 2}, classify(flags, policy{visibility: true}))
	assert.Equal(t, []int{0, 1, 2, 3}, classify(flags, policy{}))
}

func TestClassifyOffsetOnlyFiltersOnScreen(t *testing.T) {
	flags := []probe.Flags{
		{CSS: true, Offset: false, Viewport: false},
		{CSS: true, Offset: false, Viewport: true},
		{CSS: true, Offset: true, Viewport: true},
	}
	assert.Equal(t, []int{2, 0}, classify(flags, policy{visibility: true, offset: true}))
	assert.Equal(t, []int{2}, classify(flags, policy{visibility: true, offset: true, viewport: true}))
}
