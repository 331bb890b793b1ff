package plan

import "math"

// Point is a position in the normalized [0,1]x[0,1] plan space. Origin is the
// top-left corner of the container, growing right and down.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Rect is the container bounding rectangle in pixel space.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Pointer is a pointer event position in client (pixel) coordinates.
type Pointer struct {
	ClientX float64 `json:"client_x"`
	ClientY float64 `json:"client_y"`
}

// Offset is the pixel distance between the pointer and a node's rendered
// position captured when a drag starts.
type Offset struct {
	X float64
	Y float64
}

// HasExtent reports whether the rectangle can be used for mapping.
func (r Rect) HasExtent() bool {
	return r.Width > 0 && r.Height > 0 && !math.IsInf(r.Width, 0) && !math.IsInf(r.Height, 0)
}

// ShorterSide returns the smaller of width and height, used to size table
// footprints.
func (r Rect) ShorterSide() float64 {
	return math.Min(r.Width, r.Height)
}

// Clamp01 bounds v to [0,1]. NaN collapses to 0.
func Clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

// ToNormalized maps a pointer position to plan space. The offset is subtracted
// before normalizing so that a dragged node keeps its grab point. It reports
// false when the container has no extent.
func ToNormalized(rect Rect, p Pointer, off Offset) (Point, bool) {
	if !rect.HasExtent() {
		return Point{}, false
	}

	return Point{
		X: Clamp01((p.ClientX - rect.Left - off.X) / rect.Width),
		Y: Clamp01((p.ClientY - rect.Top - off.Y) / rect.Height),
	}, true
}

// ToPixel maps a plan position back to client coordinates inside rect.
func ToPixel(rect Rect, pt Point) Pointer {
	return Pointer{
		ClientX: rect.Left + pt.X*rect.Width,
		ClientY: rect.Top + pt.Y*rect.Height,
	}
}

// GrabOffset computes the offset between the pointer and the node's current
// rendered position.
func GrabOffset(rect Rect, p Pointer, pt Point) Offset {
	px := ToPixel(rect, pt)
	return Offset{
		X: p.ClientX - px.ClientX,
		Y: p.ClientY - px.ClientY,
	}
}

// Clamped returns the point bounded to the plan space.
func (p Point) Clamped() Point {
	return Point{X: Clamp01(p.X), Y: Clamp01(p.Y)}
}
