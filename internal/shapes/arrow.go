package shapes

import (
	"encoding/json"
	"math"

	"surveymark/pkg/geometry"
)

// TypeArrow is the wire discriminator for arrows.
const TypeArrow = "arrow"

// Arrow is a straight annotation arrow: a shaft from its start point to
// its end point with a triangular head at the end. Length, angle and
// head placement are derived from the two control points on demand, so
// they can never go stale after a mutation.
type Arrow struct {
	base
	start geometry.Point2D
	end   geometry.Point2D
}

// NewArrow validates a drag gesture and constructs an Arrow, or returns
// nil when the points are closer than MinShapeSize. All shape factories
// share this nil-on-degenerate contract so callers never branch on
// shape type to decide whether a gesture produced anything.
func NewArrow(start, end geometry.Point2D, style StylePatch) *Arrow {
	if start.Distance(end) < MinShapeSize {
		return nil
	}
	return newArrow(start, end, style)
}

// newArrow constructs without validation. Deserialization goes through
// here so a persisted arrow is always reconstructed exactly as stored.
func newArrow(start, end geometry.Point2D, style StylePatch) *Arrow {
	return &Arrow{base: newBase(style), start: start, end: end}
}

// ShapeType implements Shape.
func (a *Arrow) ShapeType() string { return TypeArrow }

// Start returns the start control point.
func (a *Arrow) Start() geometry.Point2D { return a.start }

// End returns the end control point.
func (a *Arrow) End() geometry.Point2D { return a.end }

// Endpoints returns both control points as value snapshots.
func (a *Arrow) Endpoints() (start, end geometry.Point2D) {
	return a.start, a.end
}

// SetStart moves the start point.
//
// Note the endpoint mutators do not re-check MinShapeSize: only the
// factory enforces it, so an existing arrow can be edited through (and
// into) a degenerate state. See DESIGN.md.
func (a *Arrow) SetStart(p geometry.Point2D) { a.start = p }

// SetEnd moves the end point.
func (a *Arrow) SetEnd(p geometry.Point2D) { a.end = p }

// SetEndpoints moves both points at once.
func (a *Arrow) SetEndpoints(start, end geometry.Point2D) {
	a.start = start
	a.end = end
}

// Length returns the Euclidean distance between the endpoints.
func (a *Arrow) Length() float64 { return a.start.Distance(a.end) }

// Angle returns the direction from start to end in degrees, [0, 360).
func (a *Arrow) Angle() float64 { return geometry.AngleDegrees(a.start, a.end) }

// IsHorizontal reports whether both points share a Y coordinate.
func (a *Arrow) IsHorizontal() bool { return a.start.Y == a.end.Y }

// IsVertical reports whether both points share an X coordinate.
func (a *Arrow) IsVertical() bool { return a.start.X == a.end.X }

// HeadPosition returns the arrowhead anchor, which is always the
// current end point.
func (a *Arrow) HeadPosition() geometry.Point2D { return a.end }

// HeadAngle returns the arrowhead orientation, which is always the
// current shaft angle.
func (a *Arrow) HeadAngle() float64 { return a.Angle() }

// HeadPoints returns the triangular head as tip, left barb, right barb
// in image coordinates.
func (a *Arrow) HeadPoints() []geometry.Point2D {
	size := a.style.ArrowheadSize
	rot := geometry.RotationAbout(a.Angle()*math.Pi/180, a.end)
	return []geometry.Point2D{
		a.end,
		rot.Apply(geometry.Point2D{X: a.end.X - size, Y: a.end.Y - size/2}),
		rot.Apply(geometry.Point2D{X: a.end.X - size, Y: a.end.Y + size/2}),
	}
}

// HitTest implements Shape: a point hits the arrow when it is within
// the pick tolerance of the shaft or inside the head triangle.
func (a *Arrow) HitTest(x, y float64) bool {
	p := geometry.Point2D{X: x, Y: y}
	if geometry.PointToSegmentDistance(p, a.start, a.end) <= a.hitTolerance() {
		return true
	}
	return geometry.PointInPolygon(p, a.HeadPoints())
}

// Bounds implements Shape.
func (a *Arrow) Bounds() geometry.Rect {
	points := append(a.HeadPoints(), a.start, a.end)
	return geometry.BoundingBox(points).Inset(-a.style.StrokeWidth / 2)
}

// Translate implements Shape.
func (a *Arrow) Translate(dx, dy float64) {
	a.start = a.start.Add(geometry.Point2D{X: dx, Y: dy})
	a.end = a.end.Add(geometry.Point2D{X: dx, Y: dy})
}

type arrowRecord struct {
	Type          string            `json:"type"`
	StartPoint    *geometry.Point2D `json:"startPoint"`
	EndPoint      *geometry.Point2D `json:"endPoint"`
	Stroke        *string           `json:"stroke"`
	StrokeWidth   *float64          `json:"strokeWidth"`
	ArrowheadSize *float64          `json:"arrowheadSize"`
}

// MarshalRecord implements Shape. All six wire keys are always present.
func (a *Arrow) MarshalRecord() ([]byte, error) {
	start, end := a.start, a.end
	return json.Marshal(arrowRecord{
		Type:          TypeArrow,
		StartPoint:    &start,
		EndPoint:      &end,
		Stroke:        &a.style.Stroke,
		StrokeWidth:   &a.style.StrokeWidth,
		ArrowheadSize: &a.style.ArrowheadSize,
	})
}

func decodeArrow(data []byte) (Shape, error) {
	var rec arrowRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	if err := requireFields(TypeArrow, map[string]bool{
		"startPoint":    rec.StartPoint != nil,
		"endPoint":      rec.EndPoint != nil,
		"stroke":        rec.Stroke != nil,
		"strokeWidth":   rec.StrokeWidth != nil,
		"arrowheadSize": rec.ArrowheadSize != nil,
	}); err != nil {
		return nil, err
	}
	return newArrow(*rec.StartPoint, *rec.EndPoint, StylePatch{
		Stroke:        rec.Stroke,
		StrokeWidth:   rec.StrokeWidth,
		ArrowheadSize: rec.ArrowheadSize,
	}), nil
}
