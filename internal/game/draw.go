package game

import (
	"fmt"
	"image/color"

	"chosenoffset.com/linefollow/internal/render"
)

// Draw renders the canvas, the car, the controls and the status line.
func (a *App) Draw(screen render.Image) {
	screen.Fill(colBackground)

	a.syncGridLayer()
	screen.DrawImage(a.GridLayer, 0, 0)

	a.drawCar(screen)
	a.Controls.Draw(a.Renderer, screen)
	a.drawStatus(screen)
	a.drawMessages(screen)
}

// syncGridLayer brings the cached raster up to date, repainting only the
// cells that changed since the last frame unless a full redraw is due.
func (a *App) syncGridLayer() {
	if a.GridLayer == nil {
		a.GridLayer = a.Renderer.NewImage(a.CanvasWidth, a.CanvasHeight)
		a.redrawAll = true
	}

	grid := a.Session.Grid()
	if a.redrawAll {
		a.GridLayer.Fill(colBackground)
		if a.Config.Display.GridLines {
			a.drawGridLines(a.GridLayer)
		}
		for j := 0; j < grid.Height; j++ {
			for i := 0; i < grid.Width; i++ {
				if grid.Cell(i, j) {
					a.paintCell(a.GridLayer, i, j, true)
				}
			}
		}
		a.redrawAll = false
		a.pendingCells = nil
		return
	}

	for _, c := range a.pendingCells {
		a.paintCell(a.GridLayer, c.I, c.J, grid.Cell(c.I, c.J))
	}
	a.pendingCells = a.pendingCells[:0]
}

func (a *App) paintCell(dst render.Image, i, j int, line bool) {
	r := a.Session.Grid().CellRect(i, j)
	x, y := float32(r.Min.X), float32(r.Min.Y)
	w, h := float32(r.Dx()), float32(r.Dy())

	if line {
		a.Renderer.FillRect(dst, x, y, w, h, colLine)
		return
	}
	a.Renderer.FillRect(dst, x, y, w, h, colBackground)
	if a.Config.Display.GridLines {
		a.Renderer.StrokeRect(dst, x, y, w, h, 1, colGridLine)
	}
}

func (a *App) drawGridLines(dst render.Image) {
	grid := a.Session.Grid()
	w := float32(grid.PixelWidth())
	h := float32(grid.PixelHeight())
	s := float32(grid.CellSize)

	for i := 0; i <= grid.Width; i++ {
		x := float32(i) * s
		a.Renderer.StrokeLine(dst, x, 0, x, h, 1, colGridLine)
	}
	for j := 0; j <= grid.Height; j++ {
		y := float32(j) * s
		a.Renderer.StrokeLine(dst, 0, y, w, y, 1, colGridLine)
	}
}

func (a *App) drawCar(screen render.Image) {
	f := a.frame
	x, y := float32(f.Car.X), float32(f.Car.Y)
	radius := float32(f.Radius)

	a.Renderer.FillCircle(screen, x, y, radius, colCar)
	a.Renderer.StrokeCircle(screen, x, y, radius, 1, colOutline)

	sr := float32(a.Session.Grid().CellSize * sensorRadius)
	for i, p := range f.Sensors {
		clr := colSensorOff
		if f.Readings[i] {
			clr = colSensorOn
		}
		a.Renderer.FillCircle(screen, float32(p.X), float32(p.Y), sr, clr)
		a.Renderer.StrokeCircle(screen, float32(p.X), float32(p.Y), sr, 1, colOutline)
	}
}

func (a *App) drawStatus(screen render.Image) {
	y := a.CanvasHeight + barHeight
	a.Renderer.FillRect(screen, 0, float32(y), float32(a.ScreenWidth), statusHeight, colPanel)

	f := a.frame
	status := fmt.Sprintf("%s | tick %d | cells %d | sensors %v",
		a.Session.State(), f.Tick, a.Session.Grid().LineCount(), f.Readings.Ints())
	a.Renderer.DrawText(screen, status, 6, y+3, colBackground, 1.0)
}

func (a *App) drawMessages(screen render.Image) {
	y := 8
	for _, msg := range a.Messages {
		alpha := uint8(255 * (msg.TimeLeft / msg.MaxTime))
		panel := color.NRGBA{colPanel.R, colPanel.G, colPanel.B, uint8(uint16(colPanel.A) * uint16(alpha) / 255)}

		w, h := a.Renderer.MeasureText(msg.Text, 1.0)
		a.Renderer.FillRect(screen, 4, float32(y-2), float32(w+8), float32(h+4), panel)
		a.Renderer.DrawText(screen, msg.Text, 8, y, color.NRGBA{255, 255, 255, alpha}, 1.0)
		y += h + 8
	}
}
