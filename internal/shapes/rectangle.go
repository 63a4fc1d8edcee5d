package shapes

import (
	"encoding/json"
	"math"

	"surveymark/pkg/geometry"
)

// TypeRectangle is the wire discriminator for rectangles.
const TypeRectangle = "rectangle"

// RectangleShape is an axis-aligned rectangle outline defined by its
// top-left origin and size.
type RectangleShape struct {
	base
	origin geometry.Point2D
	size   geometry.Size
}

// NewRectangle validates a corner-to-corner drag and constructs a
// RectangleShape, or returns nil when either side of the dragged box is
// shorter than MinShapeSize. The corners may be given in any order.
func NewRectangle(a, b geometry.Point2D, style StylePatch) *RectangleShape {
	w := math.Abs(b.X - a.X)
	h := math.Abs(b.Y - a.Y)
	if w < MinShapeSize || h < MinShapeSize {
		return nil
	}
	origin := geometry.Point2D{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y)}
	return newRectangle(origin, geometry.Size{Width: w, Height: h}, style)
}

func newRectangle(origin geometry.Point2D, size geometry.Size, style StylePatch) *RectangleShape {
	return &RectangleShape{base: newBase(style), origin: origin, size: size}
}

// ShapeType implements Shape.
func (r *RectangleShape) ShapeType() string { return TypeRectangle }

// Rect returns the rectangle geometry.
func (r *RectangleShape) Rect() geometry.Rect {
	return geometry.Rect{X: r.origin.X, Y: r.origin.Y, Width: r.size.Width, Height: r.size.Height}
}

// Resize replaces the rectangle geometry. No minimum size is enforced
// after construction, matching the arrow endpoint mutators.
func (r *RectangleShape) Resize(origin geometry.Point2D, size geometry.Size) {
	r.origin = origin
	r.size = size
}

// Corners returns the four corners clockwise from the origin.
func (r *RectangleShape) Corners() []geometry.Point2D {
	return []geometry.Point2D{
		r.origin,
		{X: r.origin.X + r.size.Width, Y: r.origin.Y},
		{X: r.origin.X + r.size.Width, Y: r.origin.Y + r.size.Height},
		{X: r.origin.X, Y: r.origin.Y + r.size.Height},
	}
}

// HitTest implements Shape: the rectangle is an outline, so only the
// border region within the pick tolerance hits.
func (r *RectangleShape) HitTest(x, y float64) bool {
	p := geometry.Point2D{X: x, Y: y}
	tol := r.hitTolerance()
	outer := r.Rect().Inset(-tol)
	inner := r.Rect().Inset(tol)
	if !outer.Contains(p) {
		return false
	}
	if inner.Width <= 0 || inner.Height <= 0 {
		return true
	}
	return !inner.Contains(p)
}

// Bounds implements Shape.
func (r *RectangleShape) Bounds() geometry.Rect {
	return r.Rect().Inset(-r.style.StrokeWidth / 2)
}

// Translate implements Shape.
func (r *RectangleShape) Translate(dx, dy float64) {
	r.origin = r.origin.Add(geometry.Point2D{X: dx, Y: dy})
}

type rectangleRecord struct {
	Type        string            `json:"type"`
	Origin      *geometry.Point2D `json:"origin"`
	Size        *geometry.Size    `json:"size"`
	Stroke      *string           `json:"stroke"`
	StrokeWidth *float64          `json:"strokeWidth"`
}

// MarshalRecord implements Shape.
func (r *RectangleShape) MarshalRecord() ([]byte, error) {
	origin, size := r.origin, r.size
	return json.Marshal(rectangleRecord{
		Type:        TypeRectangle,
		Origin:      &origin,
		Size:        &size,
		Stroke:      &r.style.Stroke,
		StrokeWidth: &r.style.StrokeWidth,
	})
}

func decodeRectangle(data []byte) (Shape, error) {
	var rec rectangleRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	if err := requireFields(TypeRectangle, map[string]bool{
		"origin":      rec.Origin != nil,
		"size":        rec.Size != nil,
		"stroke":      rec.Stroke != nil,
		"strokeWidth": rec.StrokeWidth != nil,
	}); err != nil {
		return nil, err
	}
	return newRectangle(*rec.Origin, *rec.Size, StylePatch{
		Stroke:      rec.Stroke,
		StrokeWidth: rec.StrokeWidth,
	}), nil
}
