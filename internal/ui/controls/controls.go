// Package controls provides the clickable button bar under the canvas.
package controls

import (
	"image/color"

	"chosenoffset.com/linefollow/internal/render"
)

// Button is a labelled clickable rectangle.
type Button struct {
	Label   string
	X, Y    int
	W, H    int
	OnClick func()

	hover bool
}

// Contains reports whether the point lies on the button.
func (b *Button) Contains(px, py int) bool {
	return px >= b.X && px <= b.X+b.W && py >= b.Y && py <= b.Y+b.H
}

// Bar lays out buttons in a single row and dispatches clicks.
type Bar struct {
	X, Y          int
	Width, Height int
	Buttons       []*Button

	padding        int
	lastMouseClick bool

	// Visual settings
	bgColor     color.RGBA
	buttonColor color.RGBA
	hoverColor  color.RGBA
	borderColor color.RGBA
	textColor   color.RGBA
}

// NewBar creates an empty bar occupying the given rectangle.
func NewBar(x, y, width, height int) *Bar {
	return &Bar{
		X:           x,
		Y:           y,
		Width:       width,
		Height:      height,
		padding:     5,
		bgColor:     color.RGBA{235, 235, 235, 255},
		buttonColor: color.RGBA{70, 70, 80, 255},
		hoverColor:  color.RGBA{100, 100, 120, 255},
		borderColor: color.RGBA{30, 30, 30, 255},
		textColor:   color.RGBA{255, 255, 255, 255},
	}
}

// Add appends a button and re-lays out the row so every button gets an
// equal share of the width.
func (b *Bar) Add(label string, onClick func()) *Button {
	btn := &Button{Label: label, OnClick: onClick}
	b.Buttons = append(b.Buttons, btn)
	b.layout()
	return btn
}

func (b *Bar) layout() {
	n := len(b.Buttons)
	if n == 0 {
		return
	}
	w := (b.Width - b.padding*(n+1)) / n
	for i, btn := range b.Buttons {
		btn.X = b.X + b.padding + i*(w+b.padding)
		btn.Y = b.Y + b.padding
		btn.W = w
		btn.H = b.Height - 2*b.padding
	}
}

// Update tracks hover state and fires OnClick for a button pressed this
// tick. Returns true when a button consumed the click.
func (b *Bar) Update(input render.InputManager) bool {
	mouseX, mouseY := input.GetCursorPosition()
	mousePressed := input.IsMouseButtonPressed(render.MouseButtonLeft)

	// Detect mouse click (button pressed this frame but not last frame)
	mouseClicked := mousePressed && !b.lastMouseClick
	b.lastMouseClick = mousePressed

	consumed := false
	for _, btn := range b.Buttons {
		btn.hover = btn.Contains(mouseX, mouseY)
		if mouseClicked && btn.hover && !consumed {
			consumed = true
			if btn.OnClick != nil {
				btn.OnClick()
			}
		}
	}
	return consumed
}

// Contains reports whether the point lies on the bar.
func (b *Bar) Contains(px, py int) bool {
	return px >= b.X && px < b.X+b.Width && py >= b.Y && py < b.Y+b.Height
}

// Draw renders the bar and its buttons.
func (b *Bar) Draw(r render.Renderer, screen render.Image) {
	r.FillRect(screen, float32(b.X), float32(b.Y), float32(b.Width), float32(b.Height), b.bgColor)

	for _, btn := range b.Buttons {
		fill := b.buttonColor
		if btn.hover {
			fill = b.hoverColor
		}
		r.FillRect(screen, float32(btn.X), float32(btn.Y), float32(btn.W), float32(btn.H), fill)
		r.StrokeRect(screen, float32(btn.X), float32(btn.Y), float32(btn.W), float32(btn.H), 1, b.borderColor)

		// Center the label
		tw, th := r.MeasureText(btn.Label, 1.0)
		tx := btn.X + (btn.W-tw)/2
		ty := btn.Y + (btn.H-th)/2
		r.DrawText(screen, btn.Label, tx, ty, b.textColor, 1.0)
	}
}
