package game

import (
	"errors"
	"testing"

	"chosenoffset.com/linefollow/internal/render"
	"chosenoffset.com/linefollow/internal/render/rendertest"
	"chosenoffset.com/linefollow/internal/simulation"
)

func newTestApp() (*App, *rendertest.Renderer, *rendertest.Input) {
	r := rendertest.NewRenderer()
	in := rendertest.NewInput()
	app := NewApp(simulation.NewSession(), r, in, simulation.DefaultConfig())
	return app, r, in
}

// step runs one Update and ends the input tick.
func step(t *testing.T, app *App, in *rendertest.Input) {
	t.Helper()
	if err := app.Update(); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	in.Advance()
}

func TestNewAppLayout(t *testing.T) {
	app, _, _ := newTestApp()

	if app.CanvasWidth != 600 || app.CanvasHeight != 400 {
		t.Errorf("Expected 600x400 canvas, got %dx%d", app.CanvasWidth, app.CanvasHeight)
	}
	w, h := app.Layout(1, 1)
	if w != 600 || h != 460 {
		t.Errorf("Expected 600x460 screen, got %dx%d", w, h)
	}
	if len(app.Controls.Buttons) != 3 {
		t.Fatalf("Expected 3 buttons, got %d", len(app.Controls.Buttons))
	}
	if app.followBtn.Label != labelFollow {
		t.Errorf("Expected follow label '%s', got '%s'", labelFollow, app.followBtn.Label)
	}
}

func TestMousePainting(t *testing.T) {
	app, _, in := newTestApp()
	grid := app.Session.Grid()

	in.X, in.Y = 12, 12
	in.Buttons[render.MouseButtonLeft] = true
	step(t, app, in)

	if !grid.Cell(2, 2) {
		t.Error("Expected press to paint cell (2, 2)")
	}
	if app.Session.State() != simulation.StateDrawing {
		t.Errorf("Expected drawing state, got %s", app.Session.State())
	}

	in.Y = 212
	step(t, app, in)
	for j := 2; j <= 42; j++ {
		if !grid.Cell(2, j) {
			t.Errorf("Expected drag to paint cell (2, %d)", j)
		}
	}

	in.Buttons[render.MouseButtonLeft] = false
	step(t, app, in)
	if app.Session.State() != simulation.StateIdle {
		t.Errorf("Expected idle after release, got %s", app.Session.State())
	}
}

func TestPressOnBarDoesNotPaint(t *testing.T) {
	app, _, in := newTestApp()

	// the Clear button sits at the left of the bar
	btn := app.Controls.Buttons[0]
	in.X, in.Y = btn.X+2, btn.Y+2
	in.Buttons[render.MouseButtonLeft] = true
	step(t, app, in)

	if app.Session.Drawing() {
		t.Error("Expected a button press not to start a stroke")
	}
}

func TestDragOverBarPausesStroke(t *testing.T) {
	app, _, in := newTestApp()
	grid := app.Session.Grid()

	in.X, in.Y = 12, 12
	in.Buttons[render.MouseButtonLeft] = true
	step(t, app, in)

	// held button dragged down onto the Clear button
	in.Y = 420
	step(t, app, in)
	if grid.Cell(2, grid.Height-1) {
		t.Error("Expected no paint on the bottom row while over the bar")
	}
	if grid.LineCount() != 1 {
		t.Errorf("Expected only the pressed cell, got %d cells", grid.LineCount())
	}

	in.Y = 302
	step(t, app, in)
	if !grid.Cell(2, 60) || grid.Cell(2, 61) {
		t.Error("Expected the stroke to resume from its last canvas point up to row 60")
	}

	in.Buttons[render.MouseButtonLeft] = false
	step(t, app, in)
}

func TestMessageFades(t *testing.T) {
	app, r, in := newTestApp()
	screen := r.NewImage(app.ScreenWidth, app.ScreenHeight)
	app.ShowMessage("hello")

	alphaOf := func() uint8 {
		for _, op := range r.Ops {
			if op.Kind == "text" && op.Text == "hello" {
				_, _, _, a := op.Color.RGBA()
				return uint8(a >> 8)
			}
		}
		t.Fatal("Expected the message to be drawn")
		return 0
	}

	app.Draw(screen)
	if a := alphaOf(); a != 255 {
		t.Errorf("Expected a fresh message to be opaque, got alpha %d", a)
	}

	// half of the three second lifetime
	for i := 0; i < 50; i++ {
		step(t, app, in)
	}
	r.Reset()
	app.Draw(screen)
	if a := alphaOf(); a < 100 || a > 150 {
		t.Errorf("Expected alpha near half after 1.5s, got %d", a)
	}

	for i := 0; i < 60; i++ {
		step(t, app, in)
	}
	if len(app.Messages) != 0 {
		t.Errorf("Expected the message to expire, got %d left", len(app.Messages))
	}
}

func TestFollowUntilCarLeaves(t *testing.T) {
	app, _, in := newTestApp()

	in.Keys[render.KeySpace] = true
	step(t, app, in)
	in.Keys[render.KeySpace] = false

	if !app.Session.Following() {
		t.Fatal("Expected space to start following")
	}
	if app.followBtn.Label != labelStop {
		t.Errorf("Expected label '%s', got '%s'", labelStop, app.followBtn.Label)
	}

	// empty grid: the car drives straight up and off the top edge
	for i := 0; i < 500 && app.Session.Following(); i++ {
		step(t, app, in)
	}

	if app.Session.Following() {
		t.Fatal("Expected follow to stop once the car left the grid")
	}
	if app.followBtn.Label != labelFollow {
		t.Errorf("Expected label '%s', got '%s'", labelFollow, app.followBtn.Label)
	}
	if len(app.Messages) != 1 || app.Messages[0].Text != "Car left the grid" {
		t.Errorf("Expected a 'Car left the grid' message, got %+v", app.Messages)
	}
	if app.frame.Car.Y >= 0 {
		t.Errorf("Expected last frame above the grid, got y=%v", app.frame.Car.Y)
	}
}

func TestKeyboardClearAndReset(t *testing.T) {
	app, _, in := newTestApp()
	app.Session.PointerDown(100, 100)
	app.Session.PointerUp()
	app.Session.Car().X = 300

	in.Keys[render.KeyR] = true
	step(t, app, in)
	in.Keys[render.KeyR] = false

	if app.Session.Car().Pose != app.Session.Car().Start() {
		t.Error("Expected R to reset the car")
	}

	in.Keys[render.KeyC] = true
	step(t, app, in)

	if app.Session.Grid().LineCount() != 0 {
		t.Error("Expected C to clear the grid")
	}
}

func TestEscapeQuits(t *testing.T) {
	app, _, in := newTestApp()
	in.Keys[render.KeyEscape] = true

	if err := app.Update(); !errors.Is(err, render.ErrQuit) {
		t.Errorf("Expected ErrQuit, got %v", err)
	}
}

func TestGridLayerRepaintsChangedCellsOnly(t *testing.T) {
	app, r, _ := newTestApp()
	screen := r.NewImage(app.ScreenWidth, app.ScreenHeight)

	app.Draw(screen)
	layer := app.GridLayer.(*rendertest.Image)
	if layer.Fills != 1 {
		t.Errorf("Expected initial full repaint, got %d fills", layer.Fills)
	}
	if got := r.Count("line"); got != 121+81 {
		t.Errorf("Expected %d grid lines, got %d", 121+81, got)
	}

	r.Reset()
	app.Session.PointerDown(50, 50)
	app.Session.PointerUp()
	app.Draw(screen)

	cellRects := 0
	for _, op := range r.Ops {
		if op.Kind == "rect" && op.Target == layer {
			cellRects++
		}
	}
	if cellRects != 1 {
		t.Errorf("Expected exactly one cell repainted, got %d", cellRects)
	}
	if r.Count("line") != 0 {
		t.Error("Expected no grid line redraw for a single cell")
	}

	r.Reset()
	app.Session.Clear()
	app.Draw(screen)
	if layer.Fills != 2 {
		t.Errorf("Expected clear to trigger a full repaint, got %d fills", layer.Fills)
	}
}

func TestDrawCarAndSensors(t *testing.T) {
	app, r, _ := newTestApp()
	screen := r.NewImage(app.ScreenWidth, app.ScreenHeight)
	app.Draw(screen)

	// body plus six sensors
	if got := r.Count("circle"); got != 7 {
		t.Errorf("Expected 7 filled circles, got %d", got)
	}
	for _, op := range r.Ops {
		if op.Kind == "circle" && op.Color == colSensorOn {
			t.Error("Expected all sensors off before following")
		}
	}
}
