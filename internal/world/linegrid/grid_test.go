package linegrid

import (
	"math"
	"testing"
	"time"
)

func TestPosToCellInside(t *testing.T) {
	g := NewDefault()

	tests := []struct {
		x, y  float64
		wantI int
		wantJ int
	}{
		{0, 0, 0, 0},
		{4.999, 4.999, 0, 0},
		{5, 5, 1, 1},
		{12.5, 397, 2, 79},
		{599.99, 399.99, 119, 79},
		{300, 200, 60, 40},
	}

	for _, tt := range tests {
		c, ok := g.PosToCell(tt.x, tt.y)
		if !ok {
			t.Errorf("Expected (%v, %v) to be inside the grid", tt.x, tt.y)
			continue
		}
		if c.I != tt.wantI || c.J != tt.wantJ {
			t.Errorf("PosToCell(%v, %v): expected (%d, %d), got (%d, %d)", tt.x, tt.y, tt.wantI, tt.wantJ, c.I, c.J)
		}
	}
}

func TestPosToCellOutside(t *testing.T) {
	g := NewDefault()

	points := [][2]float64{
		{-0.001, 10},
		{10, -0.001},
		{600, 10},
		{10, 400},
		{-50, -50},
		{math.NaN(), 10},
		{10, math.Inf(1)},
	}

	for _, p := range points {
		if _, ok := g.PosToCell(p[0], p[1]); ok {
			t.Errorf("Expected (%v, %v) to be outside the grid", p[0], p[1])
		}
	}
}

func TestPosToCellMatchesFloorEverywhere(t *testing.T) {
	g := NewDefault()
	for x := 0.0; x < g.PixelWidth(); x += 1.7 {
		for y := 0.0; y < g.PixelHeight(); y += 2.3 {
			c, ok := g.PosToCell(x, y)
			if !ok {
				t.Fatalf("Expected (%v, %v) inside", x, y)
			}
			if c.I != int(math.Floor(x/5)) || c.J != int(math.Floor(y/5)) {
				t.Fatalf("PosToCell(%v, %v) = %+v", x, y, c)
			}
		}
	}
}

func TestSetCellIdempotent(t *testing.T) {
	g := NewDefault()

	changes := 0
	g.OnChange(func(c Cell, value bool) { changes++ })

	if !g.SetCell(3, 4, true) {
		t.Error("Expected first SetCell to change the cell")
	}
	if g.SetCell(3, 4, true) {
		t.Error("Expected repeated SetCell to be a no-op")
	}
	if changes != 1 {
		t.Errorf("Expected 1 change notification, got %d", changes)
	}
	if g.LineCount() != 1 {
		t.Errorf("Expected line count 1, got %d", g.LineCount())
	}

	if !g.SetCell(3, 4, false) {
		t.Error("Expected erase to change the cell")
	}
	if g.LineCount() != 0 {
		t.Errorf("Expected line count 0, got %d", g.LineCount())
	}
}

func TestSetCellOutOfRangeIsNoop(t *testing.T) {
	g := NewDefault()
	for _, c := range []Cell{{-1, 0}, {0, -1}, {120, 0}, {0, 80}} {
		if g.SetCell(c.I, c.J, true) {
			t.Errorf("Expected SetCell(%d, %d) to be ignored", c.I, c.J)
		}
		if g.Cell(c.I, c.J) {
			t.Errorf("Expected Cell(%d, %d) to read false", c.I, c.J)
		}
	}
	if g.LineCount() != 0 {
		t.Errorf("Expected empty grid, got %d cells", g.LineCount())
	}
}

func TestSetThenIsLineNear(t *testing.T) {
	g := NewDefault()
	x, y := 212.0, 133.0
	c, _ := g.PosToCell(x, y)
	g.SetCell(c.I, c.J, true)

	if !g.IsLineNear(x, y) {
		t.Error("Expected line at painted coordinates")
	}
}

func TestIsLineNearUsesNeighbourhood(t *testing.T) {
	g := NewDefault()
	g.SetCell(10, 10, true)

	// every cell of the 3x3 block around (10, 10) sees it
	for j := 9; j <= 11; j++ {
		for i := 9; i <= 11; i++ {
			x := (float64(i) + 0.5) * g.CellSize
			y := (float64(j) + 0.5) * g.CellSize
			if !g.IsLineNear(x, y) {
				t.Errorf("Expected cell (%d, %d) to see the line", i, j)
			}
		}
	}

	// two cells away it is invisible
	for _, c := range []Cell{{8, 10}, {12, 10}, {10, 8}, {10, 12}, {12, 12}} {
		x := (float64(c.I) + 0.5) * g.CellSize
		y := (float64(c.J) + 0.5) * g.CellSize
		if g.IsLineNear(x, y) {
			t.Errorf("Expected cell (%d, %d) not to see the line", c.I, c.J)
		}
	}
}

func TestIsLineNearClipsAtBorder(t *testing.T) {
	g := NewDefault()
	g.SetCell(0, 0, true)
	g.SetCell(119, 79, true)

	if !g.IsLineNear(1, 1) {
		t.Error("Expected corner line to be visible from its own cell")
	}
	if !g.IsLineNear(7, 7) {
		t.Error("Expected corner line to be visible from diagonal neighbour")
	}
	if !g.IsLineNear(593, 393) {
		t.Error("Expected far corner line to be visible")
	}
	if g.IsLineNear(-1, -1) {
		t.Error("Expected points outside the grid to read no line")
	}
}

func TestClear(t *testing.T) {
	g := NewDefault()
	cleared := false
	g.OnClear(func() { cleared = true })

	for j := 0; j < g.Height; j++ {
		g.SetCell(2, j, true)
	}
	g.Clear()

	if !cleared {
		t.Error("Expected clear notification")
	}
	if g.LineCount() != 0 {
		t.Errorf("Expected 0 painted cells, got %d", g.LineCount())
	}
	for x := 0.0; x < g.PixelWidth(); x += 3 {
		for y := 0.0; y < g.PixelHeight(); y += 3 {
			if g.IsLineNear(x, y) {
				t.Fatalf("Expected no line at (%v, %v) after clear", x, y)
			}
		}
	}
}

func TestPaintSegmentIsContinuous(t *testing.T) {
	g := NewDefault()

	n := g.PaintSegment(2, 2, 298, 148)
	if n == 0 {
		t.Fatal("Expected segment to paint cells")
	}
	if !g.Cell(0, 0) || !g.Cell(59, 29) {
		t.Error("Expected both endpoints painted")
	}

	// every column between the endpoints holds at least one cell
	for i := 0; i <= 59; i++ {
		found := false
		for j := 0; j < g.Height; j++ {
			if g.Cell(i, j) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected column %d to be painted", i)
		}
	}
}

func TestPaintSegmentSkipsOutside(t *testing.T) {
	g := NewDefault()

	n := g.PaintSegment(-20, 12, 20, 12)
	if n != 5 {
		t.Errorf("Expected 5 in-grid cells painted, got %d", n)
	}
	if g.PaintSegment(math.NaN(), 0, 10, 10) != 0 {
		t.Error("Expected NaN segment to be ignored")
	}
}

func TestPaintSegmentFarEndpointsAreClipped(t *testing.T) {
	tests := []struct {
		name           string
		x0, y0, x1, y1 float64
		want           int
	}{
		{"drag far right", 10, 10, 1e12, 10, 118},
		{"across the whole grid", -1e12, 12, 1e12, 12, 120},
		{"vertical through the grid", 12, -1e12, 12, 1e12, 80},
		{"entirely outside", -1e12, -5, 1e12, -5, 0},
		{"overflowing span", -math.MaxFloat64, 10, math.MaxFloat64, 10, 0},
	}

	for _, tt := range tests {
		g := NewDefault()
		done := make(chan int, 1)
		go func() { done <- g.PaintSegment(tt.x0, tt.y0, tt.x1, tt.y1) }()

		select {
		case n := <-done:
			if n != tt.want {
				t.Errorf("%s: Expected %d cells painted, got %d", tt.name, tt.want, n)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("%s: Expected PaintSegment to return promptly", tt.name)
		}
	}
}

func TestPaintSegmentFarRightReachesLastColumn(t *testing.T) {
	g := NewDefault()
	g.PaintSegment(10, 10, 1e12, 10)

	for i := 2; i < g.Width; i++ {
		if !g.Cell(i, 2) {
			t.Errorf("Expected cell (%d, 2) to be painted", i)
		}
	}
	if g.Cell(1, 2) {
		t.Error("Expected cell (1, 2) left of the start to stay empty")
	}
}

func TestCellsIsCopy(t *testing.T) {
	g := NewDefault()
	g.SetCell(5, 6, true)

	rows := g.Cells()
	if len(rows) != g.Height || len(rows[0]) != g.Width {
		t.Fatalf("Expected %dx%d raster, got %dx%d", g.Width, g.Height, len(rows[0]), len(rows))
	}
	if !rows[6][5] {
		t.Error("Expected painted cell in copy")
	}
	rows[6][5] = false
	if !g.Cell(5, 6) {
		t.Error("Expected copy mutation not to affect grid")
	}
}

func TestContainsIsInclusive(t *testing.T) {
	g := NewDefault()
	if !g.Contains(600, 400) || !g.Contains(0, 0) {
		t.Error("Expected grid edges to be contained")
	}
	if g.Contains(600.01, 10) || g.Contains(10, -0.01) {
		t.Error("Expected points past the edges not to be contained")
	}
}
