// Package terminal is a text-mode frontend for the line follower. Each
// terminal row shows two grid rows using upper half blocks, so the full
// 120x80 grid fits in 120x40 characters plus a status row.
package terminal

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"

	"chosenoffset.com/linefollow/internal/entity/follower"
	"chosenoffset.com/linefollow/internal/simulation"
	"chosenoffset.com/linefollow/internal/world/linegrid"
)

const halfBlock = '▀'

// Colors
var (
	colBackground = tcell.NewRGBColor(255, 255, 255)
	colLine       = tcell.NewRGBColor(0, 0, 0)
	colCar        = tcell.NewRGBColor(255, 0, 0)
	colSensorOn   = tcell.NewRGBColor(255, 255, 0)
	colSensorOff  = tcell.NewRGBColor(136, 136, 136)
	styleStatus   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorDarkSlateGray)
)

// View renders a session on a tcell screen and turns key and mouse events
// into session commands. All session access happens on the Run goroutine.
type View struct {
	screen  tcell.Screen
	session *simulation.Session
	cfg     *simulation.Config
	cue     Cue

	frame     simulation.Frame
	dirty     bool
	mouseDown bool
	message   string
	verbose   bool

	lastX, lastY float64
}

// NewView creates a view over an initialised screen.
func NewView(screen tcell.Screen, session *simulation.Session, cfg *simulation.Config, cue Cue) *View {
	if cfg == nil {
		cfg = simulation.DefaultConfig()
	}
	if cue == nil {
		cue = SilentCue{}
	}
	v := &View{
		screen:  screen,
		session: session,
		cfg:     cfg,
		cue:     cue,
		frame:   session.Frame(),
		dirty:   true,
		verbose: cfg.Display.Verbose,
		message: "drag to paint | space follow | r reset | c clear | q quit",
	}
	session.SetVerbose(v.verbose)
	session.Subscribe(v)
	return v
}

// Run processes events and ticks until the user quits, the screen closes
// or ctx is cancelled.
func (v *View) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 64)
	done := make(chan struct{})
	defer close(done)

	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(v.cfg.TickPeriod())
	defer ticker.Stop()

	v.Draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if v.HandleEvent(ev) {
				return nil
			}
		case <-ticker.C:
			v.session.Tick()
		}
		if v.dirty {
			v.Draw()
		}
	}
}

// HandleEvent applies one terminal event. Returns true when the user asked
// to quit.
func (v *View) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return v.handleKey(ev)
	case *tcell.EventMouse:
		v.handleMouse(ev)
	case *tcell.EventResize:
		v.screen.Sync()
		v.dirty = true
	}
	return false
}

func (v *View) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case ' ':
			v.session.ToggleFollow()
		case 'c':
			v.session.Clear()
		case 'r':
			v.session.ResetCar()
		case 'v':
			v.verbose = !v.verbose
			v.session.SetVerbose(v.verbose)
			log.Printf("Verbose tick logging: %v", v.verbose)
		}
	}
	v.dirty = true
	return false
}

func (v *View) handleMouse(ev *tcell.EventMouse) {
	cx, cy := ev.Position()
	x, y := v.toGrid(cx, cy)
	pressed := ev.Buttons()&tcell.Button1 != 0

	switch {
	case pressed && !v.mouseDown:
		if _, ok := v.session.Grid().PosToCell(x, y); ok {
			v.session.PointerDown(x, y)
			v.session.Grid().Paint(x, y+v.session.Grid().CellSize)
			v.mouseDown = true
		}
	case pressed && v.mouseDown:
		v.session.PointerDrag(x, y)
		v.paintLowerHalf(x, y)
	case !pressed && v.mouseDown:
		v.session.PointerUp()
		v.mouseDown = false
	}
	v.lastX, v.lastY = x, y
}

// paintLowerHalf repeats a drag one grid row down, so a stroke fills both
// grid rows under each terminal cell it crosses.
func (v *View) paintLowerHalf(x, y float64) {
	if !v.session.Drawing() || v.session.Following() {
		return
	}
	s := v.session.Grid().CellSize
	v.session.Grid().PaintSegment(v.lastX, v.lastY+s, x, y+s)
}

// toGrid maps a terminal cell to the pixel centre of the upper grid row
// it shows. The lower row sits one cell size below.
func (v *View) toGrid(cx, cy int) (x, y float64) {
	s := v.session.Grid().CellSize
	return (float64(cx) + 0.5) * s, (float64(2*cy) + 0.5) * s
}

// Draw repaints the whole screen.
func (v *View) Draw() {
	grid := v.session.Grid()
	overlay := v.overlay()

	for cy := 0; cy*2 < grid.Height; cy++ {
		for cx := 0; cx < grid.Width; cx++ {
			top := v.cellColor(overlay, cx, 2*cy)
			bottom := v.cellColor(overlay, cx, 2*cy+1)
			style := tcell.StyleDefault.Foreground(top).Background(bottom)
			v.screen.SetContent(cx, cy, halfBlock, nil, style)
		}
	}
	v.drawStatus((grid.Height + 1) / 2)

	v.screen.Show()
	v.dirty = false
}

// overlay colours the grid cells under the car body and the sensors.
func (v *View) overlay() map[linegrid.Cell]tcell.Color {
	grid := v.session.Grid()
	out := make(map[linegrid.Cell]tcell.Color, follower.SensorCount+1)

	for i, p := range v.frame.Sensors {
		c, ok := grid.PosToCell(p.X, p.Y)
		if !ok {
			continue
		}
		if v.frame.Readings[i] {
			out[c] = colSensorOn
		} else if _, taken := out[c]; !taken {
			out[c] = colSensorOff
		}
	}
	if c, ok := grid.PosToCell(v.frame.Car.X, v.frame.Car.Y); ok {
		out[c] = colCar
	}
	return out
}

func (v *View) cellColor(overlay map[linegrid.Cell]tcell.Color, i, j int) tcell.Color {
	if clr, ok := overlay[linegrid.Cell{I: i, J: j}]; ok {
		return clr
	}
	if v.session.Grid().Cell(i, j) {
		return colLine
	}
	return colBackground
}

func (v *View) drawStatus(row int) {
	width := v.session.Grid().Width
	status := fmt.Sprintf(" %s | tick %d | cells %d | %s",
		v.session.State(), v.frame.Tick, v.session.Grid().LineCount(), v.message)

	col := 0
	for _, r := range status {
		if col >= width {
			break
		}
		v.screen.SetContent(col, row, r, nil, styleStatus)
		col++
	}
	for ; col < width; col++ {
		v.screen.SetContent(col, row, ' ', nil, styleStatus)
	}
}

// CellChanged marks the screen for repaint.
func (v *View) CellChanged(c linegrid.Cell, value bool) {
	v.dirty = true
}

// GridCleared marks the screen for repaint.
func (v *View) GridCleared() {
	v.dirty = true
}

// FrameUpdated stores the latest car and sensor state.
func (v *View) FrameUpdated(f simulation.Frame) {
	v.frame = f
	v.dirty = true
}

// FollowStopped reports why following ended and sounds the cue when the
// car drove off the grid.
func (v *View) FollowStopped(reason simulation.StopReason) {
	v.message = reason.String()
	v.dirty = true
	if reason == simulation.StopOutOfBounds {
		v.cue.Play()
	}
}
