package layout

import (
	"strings"
	"testing"
)

func TestWindow(t *testing.T) {
	tests := []struct {
		name                      string
		cursor, offset, n, height int
		wantStart, wantEnd        int
	}{
		{"fits", 2, 0, 5, 10, 0, 5},
		{"scrolls down", 12, 0, 30, 10, 3, 13},
		{"scrolls up", 4, 8, 30, 10, 4, 14},
		{"keeps offset", 9, 5, 30, 10, 5, 15},
		{"clamps at end", 29, 25, 30, 10, 20, 30},
		{"empty", 0, 0, 0, 10, 0, 0},
		{"no room", 3, 0, 10, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := Window(tt.cursor, tt.offset, tt.n, tt.height)
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("Window(%d,%d,%d,%d) = [%d,%d), want [%d,%d)",
					tt.cursor, tt.offset, tt.n, tt.height, start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestRenderHeaderShowsStats(t *testing.T) {
	h := RenderHeader("Study", Stats{Completed: 3, Total: 40, Bookmarks: 2}, 80)
	if !strings.Contains(h, "3/40") {
		t.Errorf("header missing completion: %q", h)
	}
	if !strings.Contains(h, "★ 2") {
		t.Errorf("header missing bookmarks: %q", h)
	}
}
