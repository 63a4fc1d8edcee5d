package shapes

import (
	"encoding/json"

	"surveymark/pkg/geometry"
)

// TypeFreehand is the wire discriminator for freehand strokes.
const TypeFreehand = "freehand"

// simplifyEpsilon is the Douglas-Peucker tolerance applied to captured
// strokes before they become shapes. Pointer sampling at typical rates
// produces several points per pixel of movement; 1.5 px keeps corners
// while dropping jitter.
const simplifyEpsilon = 1.5

// straightenTolerance is the maximum deviation, in pixels, at which a
// stroke still counts as an intended straight line.
const straightenTolerance = 6.0

// Freehand is a hand-drawn polyline stroke.
type Freehand struct {
	base
	points []geometry.Point2D
}

// NewFreehand validates a captured stroke and constructs a Freehand, or
// returns nil when the stroke is degenerate: fewer than two points, or
// a total path shorter than MinShapeSize. The stroke is simplified on
// capture.
func NewFreehand(points []geometry.Point2D, style StylePatch) *Freehand {
	if len(points) < 2 || geometry.PathLength(points) < MinShapeSize {
		return nil
	}
	return newFreehand(geometry.SimplifyPath(points, simplifyEpsilon), style)
}

func newFreehand(points []geometry.Point2D, style StylePatch) *Freehand {
	owned := make([]geometry.Point2D, len(points))
	copy(owned, points)
	return &Freehand{base: newBase(style), points: owned}
}

// ShapeType implements Shape.
func (f *Freehand) ShapeType() string { return TypeFreehand }

// Points returns a copy of the stroke vertices.
func (f *Freehand) Points() []geometry.Point2D {
	out := make([]geometry.Point2D, len(f.points))
	copy(out, f.points)
	return out
}

// PathLength returns the summed segment lengths of the stroke.
func (f *Freehand) PathLength() float64 { return geometry.PathLength(f.points) }

// Straighten fits a line segment through the stroke. It succeeds only
// when every stroke point lies within straightenTolerance of the fit,
// so deliberate curves are never flattened. The returned endpoints are
// suitable for the arrow and dimension factories.
func (f *Freehand) Straighten() (start, end geometry.Point2D, ok bool) {
	start, end, ok = geometry.FitSegment(f.points)
	if !ok {
		return geometry.Point2D{}, geometry.Point2D{}, false
	}
	if geometry.MaxDeviation(f.points, start, end) > straightenTolerance {
		return geometry.Point2D{}, geometry.Point2D{}, false
	}
	return start, end, true
}

// HitTest implements Shape.
func (f *Freehand) HitTest(x, y float64) bool {
	p := geometry.Point2D{X: x, Y: y}
	return geometry.PointToPolylineDistance(p, f.points) <= f.hitTolerance()
}

// Bounds implements Shape.
func (f *Freehand) Bounds() geometry.Rect {
	return geometry.BoundingBox(f.points).Inset(-f.style.StrokeWidth / 2)
}

// Translate implements Shape.
func (f *Freehand) Translate(dx, dy float64) {
	delta := geometry.Point2D{X: dx, Y: dy}
	for i := range f.points {
		f.points[i] = f.points[i].Add(delta)
	}
}

type freehandRecord struct {
	Type        string              `json:"type"`
	Points      []geometry.Point2D  `json:"points"`
	Stroke      *string             `json:"stroke"`
	StrokeWidth *float64            `json:"strokeWidth"`
}

// MarshalRecord implements Shape.
func (f *Freehand) MarshalRecord() ([]byte, error) {
	return json.Marshal(freehandRecord{
		Type:        TypeFreehand,
		Points:      f.points,
		Stroke:      &f.style.Stroke,
		StrokeWidth: &f.style.StrokeWidth,
	})
}

func decodeFreehand(data []byte) (Shape, error) {
	var rec freehandRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	if err := requireFields(TypeFreehand, map[string]bool{
		"points":      len(rec.Points) >= 2,
		"stroke":      rec.Stroke != nil,
		"strokeWidth": rec.StrokeWidth != nil,
	}); err != nil {
		return nil, err
	}
	return newFreehand(rec.Points, StylePatch{
		Stroke:      rec.Stroke,
		StrokeWidth: rec.StrokeWidth,
	}), nil
}
