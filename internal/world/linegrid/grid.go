// Package linegrid holds the paintable raster the car drives on.
// It owns all "is there ink here" state and converts between continuous
// pixel coordinates and integer cell indices.
package linegrid

import (
	"image"
	"math"
)

// Default grid dimensions.
const (
	DefaultWidth    = 120
	DefaultHeight   = 80
	DefaultCellSize = 5
)

// Cell addresses one grid cell by column (I) and row (J).
type Cell struct {
	I, J int
}

// ChangeFunc is called whenever a single cell changes value.
type ChangeFunc func(c Cell, value bool)

// Grid is a fixed-size boolean raster. Out-of-range reads report "no line"
// and out-of-range writes are ignored.
type Grid struct {
	Width    int
	Height   int
	CellSize float64

	cells []bool // row-major, index j*Width+i
	lines int

	onChange []ChangeFunc
	onClear  []func()
}

// New creates an empty grid.
func New(width, height int, cellSize float64) *Grid {
	return &Grid{
		Width:    width,
		Height:   height,
		CellSize: cellSize,
		cells:    make([]bool, width*height),
	}
}

// NewDefault creates the standard 120x80 grid with 5 pixel cells.
func NewDefault() *Grid {
	return New(DefaultWidth, DefaultHeight, DefaultCellSize)
}

// OnChange registers a callback fired for every cell whose value changes.
func (g *Grid) OnChange(fn ChangeFunc) {
	g.onChange = append(g.onChange, fn)
}

// OnClear registers a callback fired after Clear.
func (g *Grid) OnClear(fn func()) {
	g.onClear = append(g.onClear, fn)
}

// InRange reports whether (i, j) addresses a cell of the grid.
func (g *Grid) InRange(i, j int) bool {
	return i >= 0 && i < g.Width && j >= 0 && j < g.Height
}

// PosToCell converts pixel coordinates to the cell that contains them.
// ok is false when the point lies outside the grid.
func (g *Grid) PosToCell(x, y float64) (c Cell, ok bool) {
	fi := math.Floor(x / g.CellSize)
	fj := math.Floor(y / g.CellSize)
	// NaN fails both comparisons and lands here too
	if !(fi >= 0 && fi < float64(g.Width) && fj >= 0 && fj < float64(g.Height)) {
		return Cell{}, false
	}
	return Cell{I: int(fi), J: int(fj)}, true
}

// SetCell stores value at (i, j). It reports whether the cell changed;
// writes outside the grid and writes of the current value are no-ops.
func (g *Grid) SetCell(i, j int, value bool) bool {
	if !g.InRange(i, j) {
		return false
	}
	idx := j*g.Width + i
	if g.cells[idx] == value {
		return false
	}
	g.cells[idx] = value
	if value {
		g.lines++
	} else {
		g.lines--
	}
	for _, fn := range g.onChange {
		fn(Cell{I: i, J: j}, value)
	}
	return true
}

// Paint marks the cell under (x, y) as line. Returns whether anything changed.
func (g *Grid) Paint(x, y float64) bool {
	c, ok := g.PosToCell(x, y)
	if !ok {
		return false
	}
	return g.SetCell(c.I, c.J, true)
}

// Cell returns the value at (i, j), false outside the grid.
func (g *Grid) Cell(i, j int) bool {
	if !g.InRange(i, j) {
		return false
	}
	return g.cells[j*g.Width+i]
}

// IsLineNear reports whether the cell under (x, y) or any of its eight
// neighbours holds a line. The 3x3 dilation lets a sensor sampling on a cell
// boundary still see a one-cell-wide line.
func (g *Grid) IsLineNear(x, y float64) bool {
	c, ok := g.PosToCell(x, y)
	if !ok {
		return false
	}
	for dj := -1; dj <= 1; dj++ {
		for di := -1; di <= 1; di++ {
			if g.Cell(c.I+di, c.J+dj) {
				return true
			}
		}
	}
	return false
}

// Clear erases every cell.
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = false
	}
	g.lines = 0
	for _, fn := range g.onClear {
		fn()
	}
}

// LineCount returns the number of painted cells.
func (g *Grid) LineCount() int {
	return g.lines
}

// PixelWidth returns the grid width in pixels.
func (g *Grid) PixelWidth() float64 {
	return float64(g.Width) * g.CellSize
}

// PixelHeight returns the grid height in pixels.
func (g *Grid) PixelHeight() float64 {
	return float64(g.Height) * g.CellSize
}

// Contains reports whether (x, y) lies within the grid's pixel area,
// edges included.
func (g *Grid) Contains(x, y float64) bool {
	return x >= 0 && x <= g.PixelWidth() && y >= 0 && y <= g.PixelHeight()
}

// CellRect returns the pixel rectangle covered by cell (i, j).
func (g *Grid) CellRect(i, j int) image.Rectangle {
	s := g.CellSize
	x0 := int(float64(i) * s)
	y0 := int(float64(j) * s)
	return image.Rect(x0, y0, int(float64(i+1)*s), int(float64(j+1)*s))
}

// Cells returns a copy of the raster indexed [j][i].
func (g *Grid) Cells() [][]bool {
	rows := make([][]bool, g.Height)
	for j := range rows {
		rows[j] = make([]bool, g.Width)
		copy(rows[j], g.cells[j*g.Width:(j+1)*g.Width])
	}
	return rows
}

// PaintSegment marks every cell on the straight run between two pixel
// positions, so a fast pointer drag leaves a continuous line. The segment is
// clipped to the grid first, so the walk never visits more than W+H cells
// however far off the grid the endpoints lie. Returns the number of cells
// that changed.
func (g *Grid) PaintSegment(x0, y0, x1, y1 float64) int {
	x0, y0, x1, y1, ok := clipSegment(x0, y0, x1, y1, g.PixelWidth(), g.PixelHeight())
	if !ok {
		return 0
	}
	i0, j0 := g.clampCell(x0, y0)
	i1, j1 := g.clampCell(x1, y1)

	changed := 0
	walkCells(i0, j0, i1, j1, func(i, j int) {
		if g.SetCell(i, j, true) {
			changed++
		}
	})
	return changed
}

// clampCell maps a point on the closed pixel rectangle to a cell, pulling
// the far edges back onto the last row and column.
func (g *Grid) clampCell(x, y float64) (int, int) {
	i := min(int(math.Floor(x/g.CellSize)), g.Width-1)
	j := min(int(math.Floor(y/g.CellSize)), g.Height-1)
	return max(i, 0), max(j, 0)
}

// clipSegment clips a segment to [0, w]x[0, h] (Liang-Barsky). ok is false
// when nothing of the segment lies inside or the input is not finite.
func clipSegment(x0, y0, x1, y1, w, h float64) (cx0, cy0, cx1, cy1 float64, ok bool) {
	dx, dy := x1-x0, y1-y0
	for _, v := range [...]float64{x0, y0, dx, dy} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, 0, 0, 0, false
		}
	}

	t0, t1 := 0.0, 1.0
	edges := [...][2]float64{
		{-dx, x0},
		{dx, w - x0},
		{-dy, y0},
		{dy, h - y0},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return 0, 0, 0, 0, false
			}
			t0 = max(t0, r)
		} else {
			if r < t0 {
				return 0, 0, 0, 0, false
			}
			t1 = min(t1, r)
		}
	}
	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}

// walkCells visits the cells of a Bresenham line from (i0, j0) to (i1, j1).
func walkCells(i0, j0, i1, j1 int, visit func(i, j int)) {
	di := abs(i1 - i0)
	dj := -abs(j1 - j0)
	si, sj := 1, 1
	if i0 > i1 {
		si = -1
	}
	if j0 > j1 {
		sj = -1
	}
	e := di + dj
	for {
		visit(i0, j0)
		if i0 == i1 && j0 == j1 {
			return
		}
		e2 := 2 * e
		if e2 >= dj {
			e += dj
			i0 += si
		}
		if e2 <= di {
			e += di
			j0 += sj
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
