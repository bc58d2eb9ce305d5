package game

import (
	"image/color"
)

// Message represents an on-screen message that fades over time.
type Message struct {
	Text     string
	TimeLeft float64 // Seconds remaining
	MaxTime  float64 // Initial duration
}

// Layout of the window in logical pixels, below the canvas.
const (
	barHeight    = 40
	statusHeight = 20
)

// Colors
var (
	colBackground = color.RGBA{255, 255, 255, 255}
	colGridLine   = color.RGBA{204, 204, 204, 255}
	colLine       = color.RGBA{0, 0, 0, 255}
	colCar        = color.RGBA{255, 0, 0, 255}
	colOutline    = color.RGBA{0, 0, 0, 255}
	colSensorOn   = color.RGBA{255, 255, 0, 255}
	colSensorOff  = color.RGBA{136, 136, 136, 255}
	colPanel      = color.RGBA{20, 20, 30, 220}
)

// sensorRadius is the drawn sensor dot size in cells.
const sensorRadius = 0.15
