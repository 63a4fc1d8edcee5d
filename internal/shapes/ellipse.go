package shapes

import (
	"encoding/json"
	"math"

	"surveymark/pkg/geometry"
)

// TypeEllipse is the wire discriminator for ellipses.
const TypeEllipse = "ellipse"

// EllipseShape is an axis-aligned ellipse outline defined by its center
// and two radii.
type EllipseShape struct {
	base
	center  geometry.Point2D
	radiusX float64
	radiusY float64
}

// NewEllipse validates a corner-to-corner drag and constructs the
// ellipse inscribed in the dragged box, or returns nil when either axis
// of that box is shorter than MinShapeSize.
func NewEllipse(a, b geometry.Point2D, style StylePatch) *EllipseShape {
	w := math.Abs(b.X - a.X)
	h := math.Abs(b.Y - a.Y)
	if w < MinShapeSize || h < MinShapeSize {
		return nil
	}
	center := geometry.Point2D{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
	return newEllipse(center, w/2, h/2, style)
}

func newEllipse(center geometry.Point2D, rx, ry float64, style StylePatch) *EllipseShape {
	return &EllipseShape{base: newBase(style), center: center, radiusX: rx, radiusY: ry}
}

// ShapeType implements Shape.
func (e *EllipseShape) ShapeType() string { return TypeEllipse }

// Center returns the center point.
func (e *EllipseShape) Center() geometry.Point2D { return e.center }

// Radii returns the horizontal and vertical radii.
func (e *EllipseShape) Radii() (rx, ry float64) { return e.radiusX, e.radiusY }

// Resize replaces the ellipse geometry.
func (e *EllipseShape) Resize(center geometry.Point2D, rx, ry float64) {
	e.center = center
	e.radiusX = rx
	e.radiusY = ry
}

// HitTest implements Shape: hits within the pick tolerance of the
// outline, measured through the implicit ellipse equation.
func (e *EllipseShape) HitTest(x, y float64) bool {
	if e.radiusX <= 0 || e.radiusY <= 0 {
		return false
	}
	tol := e.hitTolerance()
	dx := x - e.center.X
	dy := y - e.center.Y

	// Evaluate the normalized ellipse equation at radii widened and
	// narrowed by the tolerance. Between the two rings is a hit.
	outer := sq(dx/(e.radiusX+tol)) + sq(dy/(e.radiusY+tol))
	if outer > 1 {
		return false
	}
	innerRX := e.radiusX - tol
	innerRY := e.radiusY - tol
	if innerRX <= 0 || innerRY <= 0 {
		return true
	}
	return sq(dx/innerRX)+sq(dy/innerRY) >= 1
}

func sq(v float64) float64 { return v * v }

// Bounds implements Shape.
func (e *EllipseShape) Bounds() geometry.Rect {
	return geometry.Rect{
		X:      e.center.X - e.radiusX,
		Y:      e.center.Y - e.radiusY,
		Width:  2 * e.radiusX,
		Height: 2 * e.radiusY,
	}.Inset(-e.style.StrokeWidth / 2)
}

// Translate implements Shape.
func (e *EllipseShape) Translate(dx, dy float64) {
	e.center = e.center.Add(geometry.Point2D{X: dx, Y: dy})
}

type ellipseRecord struct {
	Type        string            `json:"type"`
	Center      *geometry.Point2D `json:"center"`
	RadiusX     *float64          `json:"radiusX"`
	RadiusY     *float64          `json:"radiusY"`
	Stroke      *string           `json:"stroke"`
	StrokeWidth *float64          `json:"strokeWidth"`
}

// MarshalRecord implements Shape.
func (e *EllipseShape) MarshalRecord() ([]byte, error) {
	center := e.center
	return json.Marshal(ellipseRecord{
		Type:        TypeEllipse,
		Center:      &center,
		RadiusX:     &e.radiusX,
		RadiusY:     &e.radiusY,
		Stroke:      &e.style.Stroke,
		StrokeWidth: &e.style.StrokeWidth,
	})
}

func decodeEllipse(data []byte) (Shape, error) {
	var rec ellipseRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	if err := requireFields(TypeEllipse, map[string]bool{
		"center":      rec.Center != nil,
		"radiusX":     rec.RadiusX != nil,
		"radiusY":     rec.RadiusY != nil,
		"stroke":      rec.Stroke != nil,
		"strokeWidth": rec.StrokeWidth != nil,
	}); err != nil {
		return nil, err
	}
	return newEllipse(*rec.Center, *rec.RadiusX, *rec.RadiusY, StylePatch{
		Stroke:      rec.Stroke,
		StrokeWidth: rec.StrokeWidth,
	}), nil
}
