// Package rendertest provides in-memory render and input backends so UI
// code can be exercised without opening a window.
package rendertest

import (
	"image/color"

	"chosenoffset.com/linefollow/internal/render"
)

// Op records one draw call.
type Op struct {
	Kind   string // "rect", "strokeRect", "line", "circle", "strokeCircle", "text", "image"
	X, Y   float32
	W, H   float32
	Color  color.Color
	Text   string
	Target *Image
}

// Renderer records every call made through render.Renderer.
type Renderer struct {
	Ops    []Op
	Images []*Image
}

// NewRenderer creates an empty recording renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Reset forgets recorded ops.
func (r *Renderer) Reset() {
	r.Ops = nil
}

// Count returns how many ops of the given kind were recorded.
func (r *Renderer) Count(kind string) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Texts returns the strings drawn with DrawText, in order.
func (r *Renderer) Texts() []string {
	var out []string
	for _, op := range r.Ops {
		if op.Kind == "text" {
			out = append(out, op.Text)
		}
	}
	return out
}

func (r *Renderer) record(op Op, dst render.Image) {
	if img, ok := dst.(*Image); ok {
		op.Target = img
		img.Ops++
	}
	r.Ops = append(r.Ops, op)
}

func (r *Renderer) NewImage(width, height int) render.Image {
	img := &Image{W: width, H: height}
	r.Images = append(r.Images, img)
	return img
}

func (r *Renderer) FillRect(dst render.Image, x, y, width, height float32, clr color.Color) {
	r.record(Op{Kind: "rect", X: x, Y: y, W: width, H: height, Color: clr}, dst)
}

func (r *Renderer) StrokeRect(dst render.Image, x, y, width, height float32, strokeWidth float32, clr color.Color) {
	r.record(Op{Kind: "strokeRect", X: x, Y: y, W: width, H: height, Color: clr}, dst)
}

func (r *Renderer) StrokeLine(dst render.Image, x0, y0, x1, y1 float32, strokeWidth float32, clr color.Color) {
	r.record(Op{Kind: "line", X: x0, Y: y0, W: x1 - x0, H: y1 - y0, Color: clr}, dst)
}

func (r *Renderer) FillCircle(dst render.Image, x, y, radius float32, clr color.Color) {
	r.record(Op{Kind: "circle", X: x, Y: y, W: radius, H: radius, Color: clr}, dst)
}

func (r *Renderer) StrokeCircle(dst render.Image, x, y, radius float32, strokeWidth float32, clr color.Color) {
	r.record(Op{Kind: "strokeCircle", X: x, Y: y, W: radius, H: radius, Color: clr}, dst)
}

func (r *Renderer) DrawText(dst render.Image, text string, x, y int, clr color.Color, scale float64) {
	r.record(Op{Kind: "text", X: float32(x), Y: float32(y), Color: clr, Text: text}, dst)
}

func (r *Renderer) MeasureText(text string, scale float64) (width, height int) {
	return int(float64(len(text)) * 6 * scale), int(13 * scale)
}

// Image is an in-memory render.Image that only counts what is drawn on it.
type Image struct {
	W, H  int
	Ops   int
	Fills int
}

func (i *Image) Fill(clr color.Color) { i.Fills++ }

func (i *Image) DrawImage(src render.Image, x, y float64) {
	i.Ops++
}

// Input is a scriptable render.InputManager. Set the fields, then call
// Advance between simulated ticks so "just pressed" edges are computed.
type Input struct {
	X, Y    int
	Buttons map[render.MouseButton]bool
	Keys    map[render.Key]bool

	prevButtons map[render.MouseButton]bool
	prevKeys    map[render.Key]bool
}

// NewInput creates an input with nothing pressed.
func NewInput() *Input {
	return &Input{
		Buttons:     map[render.MouseButton]bool{},
		Keys:        map[render.Key]bool{},
		prevButtons: map[render.MouseButton]bool{},
		prevKeys:    map[render.Key]bool{},
	}
}

// Advance ends the current tick: the current state becomes the previous one.
func (in *Input) Advance() {
	for k, v := range in.Buttons {
		in.prevButtons[k] = v
	}
	for k, v := range in.Keys {
		in.prevKeys[k] = v
	}
}

func (in *Input) IsKeyJustPressed(key render.Key) bool {
	return in.Keys[key] && !in.prevKeys[key]
}

func (in *Input) GetCursorPosition() (x, y int) {
	return in.X, in.Y
}

func (in *Input) IsMouseButtonPressed(button render.MouseButton) bool {
	return in.Buttons[button]
}

func (in *Input) IsMouseButtonJustPressed(button render.MouseButton) bool {
	return in.Buttons[button] && !in.prevButtons[button]
}

func (in *Input) IsMouseButtonJustReleased(button render.MouseButton) bool {
	return !in.Buttons[button] && in.prevButtons[button]
}
