package simulation

import (
	"log"

	"chosenoffset.com/linefollow/internal/entity/follower"
	"chosenoffset.com/linefollow/internal/world/linegrid"
)

// State is the driver's interaction state.
type State int

const (
	StateIdle State = iota
	StateDrawing
	StateFollowing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDrawing:
		return "drawing"
	case StateFollowing:
		return "following"
	default:
		return "unknown"
	}
}

// StopReason says why the follow loop ended.
type StopReason int

const (
	StopRequested   StopReason = iota // user toggled follow off
	StopOutOfBounds                   // car left the grid
)

func (r StopReason) String() string {
	switch r {
	case StopRequested:
		return "stopped by user"
	case StopOutOfBounds:
		return "car left the grid"
	default:
		return "unknown"
	}
}

// Frame is what a renderer needs to draw the car and its sensors.
// Cells is only filled by Session.Snapshot; incremental updates arrive
// through Observer.CellChanged.
type Frame struct {
	Car      follower.Pose
	Radius   float64
	Sensors  [follower.SensorCount]follower.Point
	Readings follower.Readings
	State    State
	Tick     int
	Lines    int
	Cells    [][]bool
}

// Observer receives the session's render callbacks.
type Observer interface {
	// CellChanged fires for each cell whose value changed.
	CellChanged(c linegrid.Cell, value bool)
	// GridCleared fires after every cell was erased.
	GridCleared()
	// FrameUpdated fires after each tick, reset and clear.
	FrameUpdated(f Frame)
	// FollowStopped fires when the follow loop ends.
	FollowStopped(reason StopReason)
}

// Session ties the grid, the car and the follow loop together. It is not
// safe for concurrent use; frontends call it from their update loop.
type Session struct {
	grid   *linegrid.Grid
	car    *follower.Car
	params follower.Params
	start  follower.Pose

	readings  follower.Readings
	drawing   bool
	following bool
	ticks     int

	lastX, lastY float64

	observers []Observer
	verbose   bool
}

// NewSession creates a session on the standard 120x80 grid with the car
// parked at its anchor.
func NewSession() *Session {
	return NewSessionWithGrid(linegrid.NewDefault())
}

// NewSessionWithGrid creates a session on the given grid.
func NewSessionWithGrid(grid *linegrid.Grid) *Session {
	s := &Session{
		grid:   grid,
		params: follower.DefaultParams(grid.CellSize),
		start:  follower.StartPose(grid.CellSize, grid.PixelHeight()),
	}
	s.car = follower.New(s.start, s.params)

	grid.OnChange(func(c linegrid.Cell, value bool) {
		for _, o := range s.observers {
			o.CellChanged(c, value)
		}
	})
	grid.OnClear(func() {
		for _, o := range s.observers {
			o.GridCleared()
		}
	})
	return s
}

// SetVerbose enables per-tick logging.
func (s *Session) SetVerbose(v bool) {
	s.verbose = v
}

// Subscribe registers an observer.
func (s *Session) Subscribe(o Observer) {
	s.observers = append(s.observers, o)
}

// Grid returns the session's grid.
func (s *Session) Grid() *linegrid.Grid {
	return s.grid
}

// Car returns the current car.
func (s *Session) Car() *follower.Car {
	return s.car
}

// State reports the dominant interaction state.
func (s *Session) State() State {
	switch {
	case s.following:
		return StateFollowing
	case s.drawing:
		return StateDrawing
	default:
		return StateIdle
	}
}

// Following reports whether the follow loop is running.
func (s *Session) Following() bool {
	return s.following
}

// Drawing reports whether a paint stroke is in progress.
func (s *Session) Drawing() bool {
	return s.drawing
}

// Ticks returns the number of ticks run since the session started.
func (s *Session) Ticks() int {
	return s.ticks
}

// Readings returns the sensor readings of the last tick.
func (s *Session) Readings() follower.Readings {
	return s.readings
}

// PointerDown starts a paint stroke at (x, y).
func (s *Session) PointerDown(x, y float64) {
	s.drawing = true
	s.lastX, s.lastY = x, y
	s.grid.Paint(x, y)
}

// PointerDrag extends the current stroke to (x, y). Strokes are ignored
// while the car is following.
func (s *Session) PointerDrag(x, y float64) {
	if !s.drawing || s.following {
		return
	}
	s.grid.PaintSegment(s.lastX, s.lastY, x, y)
	s.lastX, s.lastY = x, y
}

// PointerUp ends the current stroke.
func (s *Session) PointerUp() {
	s.drawing = false
}

// Clear erases the grid and replaces the car with a fresh one at the
// anchor. A running follow loop keeps running with the new car.
func (s *Session) Clear() {
	s.grid.Clear()
	s.car = follower.New(s.start, s.params)
	s.readings = follower.Readings{}
	log.Println("Grid cleared")
	s.publishFrame()
}

// ResetCar puts the car back at its anchor.
func (s *Session) ResetCar() {
	s.car.ResetToStart()
	s.readings = follower.Readings{}
	log.Println("Car reset to start")
	s.publishFrame()
}

// ToggleFollow starts or stops the follow loop and returns the new state.
func (s *Session) ToggleFollow() bool {
	if s.following {
		s.stop(StopRequested)
		return false
	}
	s.following = true
	log.Printf("Following started at (%.1f, %.1f)", s.car.X, s.car.Y)
	return true
}

// Tick runs one step of the follow loop. It does nothing unless following.
// When the step carries the car out of the grid the loop stops. Returns
// whether the loop is still running.
func (s *Session) Tick() bool {
	if !s.following {
		return false
	}

	s.readings = s.car.Step(s.grid)
	s.ticks++
	if s.verbose {
		log.Printf("tick %d: pos=(%.2f, %.2f) heading=%.3f sensors=%v",
			s.ticks, s.car.X, s.car.Y, s.car.Heading, s.readings.Ints())
	}

	s.publishFrame()

	if !s.grid.Contains(s.car.X, s.car.Y) {
		s.stop(StopOutOfBounds)
	}
	return s.following
}

func (s *Session) stop(reason StopReason) {
	s.following = false
	log.Printf("Following stopped (%s) at (%.1f, %.1f) after %d ticks", reason, s.car.X, s.car.Y, s.ticks)
	for _, o := range s.observers {
		o.FollowStopped(reason)
	}
}

// Frame returns the car and sensor state without the cell raster.
func (s *Session) Frame() Frame {
	return Frame{
		Car:      s.car.Pose,
		Radius:   s.car.Params.Radius,
		Sensors:  s.car.SensorPositions(),
		Readings: s.readings,
		State:    s.State(),
		Tick:     s.ticks,
		Lines:    s.grid.LineCount(),
	}
}

// Snapshot returns a full Frame including a copy of the cell raster.
func (s *Session) Snapshot() Frame {
	f := s.Frame()
	f.Cells = s.grid.Cells()
	return f
}

func (s *Session) publishFrame() {
	if len(s.observers) == 0 {
		return
	}
	f := s.Frame()
	for _, o := range s.observers {
		o.FrameUpdated(f)
	}
}
