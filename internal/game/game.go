package game

import (
	"log"

	"chosenoffset.com/linefollow/internal/render"
	"chosenoffset.com/linefollow/internal/simulation"
	"chosenoffset.com/linefollow/internal/ui/controls"
	"chosenoffset.com/linefollow/internal/world/linegrid"
)

// Button labels
const (
	labelClear  = "Clear"
	labelReset  = "Reset car"
	labelFollow = "Follow line"
	labelStop   = "Stop"
)

// App is the desktop frontend: a painting canvas over the grid, the car
// drawn on top, and a button bar underneath. It drives one simulation tick
// per Update, so the engine's TPS sets the follow period.
type App struct {
	ScreenWidth  int
	ScreenHeight int
	CanvasWidth  int
	CanvasHeight int

	Session  *simulation.Session
	Config   *simulation.Config
	Renderer render.Renderer
	InputMgr render.InputManager

	Controls  *controls.Bar
	followBtn *controls.Button

	// Cached grid raster, repainted per changed cell
	GridLayer    render.Image
	pendingCells []linegrid.Cell
	redrawAll    bool

	frame    simulation.Frame
	verbose  bool
	tickSecs float64

	// UI state
	Messages []Message
}

// NewApp creates the frontend for a session and subscribes it to the
// session's render callbacks.
func NewApp(session *simulation.Session, r render.Renderer, input render.InputManager, cfg *simulation.Config) *App {
	if cfg == nil {
		cfg = simulation.DefaultConfig()
	}
	grid := session.Grid()
	canvasW := int(grid.PixelWidth())
	canvasH := int(grid.PixelHeight())

	a := &App{
		ScreenWidth:  canvasW,
		ScreenHeight: canvasH + barHeight + statusHeight,
		CanvasWidth:  canvasW,
		CanvasHeight: canvasH,
		Session:      session,
		Config:       cfg,
		Renderer:     r,
		InputMgr:     input,
		redrawAll:    true,
		verbose:      cfg.Display.Verbose,
		tickSecs:     cfg.TickPeriod().Seconds(),
	}

	a.Controls = controls.NewBar(0, canvasH, canvasW, barHeight)
	a.Controls.Add(labelClear, a.clear)
	a.Controls.Add(labelReset, a.resetCar)
	a.followBtn = a.Controls.Add(labelFollow, a.toggleFollow)

	a.frame = session.Frame()
	session.SetVerbose(a.verbose)
	session.Subscribe(a)
	return a
}

// Update handles input and advances the simulation by one tick.
func (a *App) Update() error {
	a.updateMessages(a.tickSecs)

	if a.InputMgr.IsKeyJustPressed(render.KeyEscape) {
		log.Println("Quit requested")
		return render.ErrQuit
	}
	if a.InputMgr.IsKeyJustPressed(render.KeyC) {
		a.clear()
	}
	if a.InputMgr.IsKeyJustPressed(render.KeyR) {
		a.resetCar()
	}
	if a.InputMgr.IsKeyJustPressed(render.KeySpace) {
		a.toggleFollow()
	}
	if a.InputMgr.IsKeyJustPressed(render.KeyV) {
		a.verbose = !a.verbose
		a.Session.SetVerbose(a.verbose)
		log.Printf("Verbose tick logging: %v", a.verbose)
	}

	if !a.Controls.Update(a.InputMgr) {
		a.handlePointer()
	}

	a.Session.Tick()
	return nil
}

// Layout returns the logical screen size; the engine scales it to the window.
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.ScreenWidth, a.ScreenHeight
}

func (a *App) handlePointer() {
	mx, my := a.InputMgr.GetCursorPosition()
	x, y := float64(mx), float64(my)

	switch {
	case a.InputMgr.IsMouseButtonJustPressed(render.MouseButtonLeft):
		if a.onCanvas(mx, my) {
			a.Session.PointerDown(x, y)
		}
	case a.InputMgr.IsMouseButtonJustReleased(render.MouseButtonLeft):
		a.Session.PointerUp()
	case a.InputMgr.IsMouseButtonPressed(render.MouseButtonLeft):
		// strokes pause while the pointer is over the buttons
		if !a.Controls.Contains(mx, my) {
			a.Session.PointerDrag(x, y)
		}
	}
}

func (a *App) onCanvas(x, y int) bool {
	return x >= 0 && x < a.CanvasWidth && y >= 0 && y < a.CanvasHeight
}

func (a *App) clear() {
	a.Session.Clear()
}

func (a *App) resetCar() {
	a.Session.ResetCar()
}

func (a *App) toggleFollow() {
	following := a.Session.ToggleFollow()
	a.setFollowLabel(following)
}

func (a *App) setFollowLabel(following bool) {
	if following {
		a.followBtn.Label = labelStop
	} else {
		a.followBtn.Label = labelFollow
	}
}

// CellChanged queues a cell for repaint on the grid layer.
func (a *App) CellChanged(c linegrid.Cell, value bool) {
	if a.redrawAll {
		return
	}
	a.pendingCells = append(a.pendingCells, c)
}

// GridCleared schedules a full repaint of the grid layer.
func (a *App) GridCleared() {
	a.redrawAll = true
	a.pendingCells = nil
}

// FrameUpdated stores the latest car and sensor state for drawing.
func (a *App) FrameUpdated(f simulation.Frame) {
	a.frame = f
}

// FollowStopped flips the follow button back and tells the user why.
func (a *App) FollowStopped(reason simulation.StopReason) {
	a.setFollowLabel(false)
	if reason == simulation.StopOutOfBounds {
		a.ShowMessage("Car left the grid")
	}
}

func (a *App) updateMessages(dt float64) {
	var active []Message
	for _, msg := range a.Messages {
		msg.TimeLeft -= dt
		if msg.TimeLeft > 0 {
			active = append(active, msg)
		}
	}
	a.Messages = active
}

// ShowMessage adds a new message to be displayed on screen.
func (a *App) ShowMessage(text string) {
	a.Messages = append(a.Messages, Message{
		Text:     text,
		TimeLeft: 3.0,
		MaxTime:  3.0,
	})
	log.Printf("Message: %s", text)
}
