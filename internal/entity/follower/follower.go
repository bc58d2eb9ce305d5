// Package follower implements the line-following car: its pose, its arc of
// six line sensors, and the proportional steering rule that turns sensor
// readings into a heading change every tick.
package follower

import (
	"math"
)

// SensorCount is the number of line sensors mounted on the car.
const SensorCount = 6

// sensorOffsets are the lateral positions of the sensors in units of
// SensorSpacing, left to right. None sits on the centre line.
var sensorOffsets = [SensorCount]float64{-2.5, -1.5, -0.5, 0.5, 1.5, 2.5}

// sensorWeights map each sensor to its steering contribution.
var sensorWeights = [SensorCount]float64{-3, -2, -1, 1, 2, 3}

// LineSensor is anything the car can probe for ink.
type LineSensor interface {
	IsLineNear(x, y float64) bool
}

// Point is a position in grid pixel space.
type Point struct {
	X, Y float64
}

// Readings holds one binary sample per sensor, left to right.
type Readings [SensorCount]bool

// Active returns how many sensors see the line.
func (r Readings) Active() int {
	n := 0
	for _, on := range r {
		if on {
			n++
		}
	}
	return n
}

// Ints returns the readings as 0/1 values.
func (r Readings) Ints() [SensorCount]int {
	var out [SensorCount]int
	for i, on := range r {
		if on {
			out[i] = 1
		}
	}
	return out
}

// Params are the fixed physical constants of the car.
type Params struct {
	Radius         float64 // body radius, pixels
	Speed          float64 // distance travelled per tick
	AngularGain    float64 // radians of turn per unit of steering error
	SensorDistance float64 // how far ahead of the centre the sensor arc sits
	SensorSpacing  float64 // lateral gap between neighbouring sensors
}

// DefaultParams derives the car's constants from the grid cell size.
func DefaultParams(cellSize float64) Params {
	return Params{
		Radius:         cellSize * 0.8,
		Speed:          cellSize * 0.6,
		AngularGain:    0.09,
		SensorDistance: cellSize * 1.2,
		SensorSpacing:  cellSize * 0.6,
	}
}

// Pose is a position plus heading. Heading is in radians with 0 along +x;
// screen y grows downward, so -Pi/2 faces the top of the grid.
type Pose struct {
	X, Y    float64
	Heading float64
}

// Car is a kinematic line follower. It keeps no velocity between ticks.
type Car struct {
	Pose
	Params Params

	start Pose
}

// StartPose returns the anchor the car starts from and resets to: one cell
// in from the bottom-left corner of a grid of the given pixel height,
// facing up.
func StartPose(cellSize, gridPixelHeight float64) Pose {
	return Pose{
		X:       cellSize,
		Y:       gridPixelHeight - cellSize,
		Heading: -math.Pi / 2,
	}
}

// New creates a car parked at start.
func New(start Pose, params Params) *Car {
	return &Car{
		Pose:   start,
		Params: params,
		start:  start,
	}
}

// ResetToStart teleports the car back to its anchor pose.
func (c *Car) ResetToStart() {
	c.Pose = c.start
}

// Start returns the anchor pose.
func (c *Car) Start() Pose {
	return c.start
}

// SensorPositions returns the sample point of every sensor for the
// current pose.
func (c *Car) SensorPositions() [SensorCount]Point {
	cos, sin := math.Cos(c.Heading), math.Sin(c.Heading)
	fx := c.X + cos*c.Params.SensorDistance
	fy := c.Y + sin*c.Params.SensorDistance

	var pts [SensorCount]Point
	for i, off := range sensorOffsets {
		lateral := off * c.Params.SensorSpacing
		pts[i] = Point{
			X: fx - sin*lateral,
			Y: fy + cos*lateral,
		}
	}
	return pts
}

// ReadSensors samples the line under every sensor.
func (c *Car) ReadSensors(s LineSensor) Readings {
	var r Readings
	for i, p := range c.SensorPositions() {
		r[i] = s.IsLineNear(p.X, p.Y)
	}
	return r
}

// SteeringError is the mean weight of the active sensors. ok is false when
// no sensor sees the line.
func SteeringError(r Readings) (e float64, ok bool) {
	total := 0.0
	active := 0
	for i, on := range r {
		if on {
			total += sensorWeights[i]
			active++
		}
	}
	if active == 0 {
		return 0, false
	}
	return total / float64(active), true
}

// Step advances the car by one tick: read the sensors, turn by
// AngularGain*error when the line is visible, then move Speed along the new
// heading. With the line lost the heading is kept and the car drives
// straight. Returns the readings used.
func (c *Car) Step(s LineSensor) Readings {
	r := c.ReadSensors(s)
	if e, ok := SteeringError(r); ok {
		c.Heading += c.Params.AngularGain * e
	}
	c.X += math.Cos(c.Heading) * c.Params.Speed
	c.Y += math.Sin(c.Heading) * c.Params.Speed
	return r
}
