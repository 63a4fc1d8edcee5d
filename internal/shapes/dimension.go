package shapes

import (
	"encoding/json"
	"math"

	"surveymark/pkg/geometry"
)

// TypeDimension is the wire discriminator for dimension lines.
const TypeDimension = "dimension"

// tickFactor scales the perpendicular end ticks relative to the stroke
// width.
const tickFactor = 4.0

// DimensionLine is a measurement annotation: a line between two points
// with perpendicular tick marks at both ends and a label (for example
// "3.20 m") drawn at the midpoint.
type DimensionLine struct {
	base
	start geometry.Point2D
	end   geometry.Point2D
	label string
}

// NewDimensionLine validates a drag gesture and constructs a
// DimensionLine, or returns nil when the points are closer than
// MinShapeSize.
func NewDimensionLine(start, end geometry.Point2D, label string, style StylePatch) *DimensionLine {
	if start.Distance(end) < MinShapeSize {
		return nil
	}
	return newDimensionLine(start, end, label, style)
}

func newDimensionLine(start, end geometry.Point2D, label string, style StylePatch) *DimensionLine {
	return &DimensionLine{base: newBase(style), start: start, end: end, label: label}
}

// ShapeType implements Shape.
func (d *DimensionLine) ShapeType() string { return TypeDimension }

// Endpoints returns both control points as value snapshots.
func (d *DimensionLine) Endpoints() (start, end geometry.Point2D) {
	return d.start, d.end
}

// SetEndpoints moves both control points. Like the arrow mutators this
// does not re-check MinShapeSize.
func (d *DimensionLine) SetEndpoints(start, end geometry.Point2D) {
	d.start = start
	d.end = end
}

// Label returns the measurement text.
func (d *DimensionLine) Label() string { return d.label }

// SetLabel replaces the measurement text.
func (d *DimensionLine) SetLabel(label string) { d.label = label }

// Length returns the pixel distance between the endpoints.
func (d *DimensionLine) Length() float64 { return d.start.Distance(d.end) }

// Angle returns the direction from start to end in degrees, [0, 360).
func (d *DimensionLine) Angle() float64 { return geometry.AngleDegrees(d.start, d.end) }

// Midpoint returns the label anchor.
func (d *DimensionLine) Midpoint() geometry.Point2D {
	return geometry.Centroid([]geometry.Point2D{d.start, d.end})
}

// Ticks returns the two perpendicular end marks, one segment per
// endpoint, recomputed from the current geometry.
func (d *DimensionLine) Ticks() [2][2]geometry.Point2D {
	half := tickFactor * d.style.StrokeWidth / 2
	rad := d.Angle() * math.Pi / 180
	// Perpendicular unit vector to the line direction.
	perp := geometry.Point2D{X: -math.Sin(rad), Y: math.Cos(rad)}
	return [2][2]geometry.Point2D{
		{d.start.Add(perp.Scale(half)), d.start.Add(perp.Scale(-half))},
		{d.end.Add(perp.Scale(half)), d.end.Add(perp.Scale(-half))},
	}
}

// HitTest implements Shape.
func (d *DimensionLine) HitTest(x, y float64) bool {
	p := geometry.Point2D{X: x, Y: y}
	return geometry.PointToSegmentDistance(p, d.start, d.end) <= d.hitTolerance()
}

// Bounds implements Shape.
func (d *DimensionLine) Bounds() geometry.Rect {
	ticks := d.Ticks()
	points := []geometry.Point2D{
		d.start, d.end,
		ticks[0][0], ticks[0][1], ticks[1][0], ticks[1][1],
	}
	return geometry.BoundingBox(points).Inset(-d.style.StrokeWidth / 2)
}

// Translate implements Shape.
func (d *DimensionLine) Translate(dx, dy float64) {
	delta := geometry.Point2D{X: dx, Y: dy}
	d.start = d.start.Add(delta)
	d.end = d.end.Add(delta)
}

type dimensionRecord struct {
	Type        string            `json:"type"`
	StartPoint  *geometry.Point2D `json:"startPoint"`
	EndPoint    *geometry.Point2D `json:"endPoint"`
	Label       *string           `json:"label"`
	Stroke      *string           `json:"stroke"`
	StrokeWidth *float64          `json:"strokeWidth"`
}

// MarshalRecord implements Shape.
func (d *DimensionLine) MarshalRecord() ([]byte, error) {
	start, end := d.start, d.end
	return json.Marshal(dimensionRecord{
		Type:        TypeDimension,
		StartPoint:  &start,
		EndPoint:    &end,
		Label:       &d.label,
		Stroke:      &d.style.Stroke,
		StrokeWidth: &d.style.StrokeWidth,
	})
}

func decodeDimension(data []byte) (Shape, error) {
	var rec dimensionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	if err := requireFields(TypeDimension, map[string]bool{
		"startPoint":  rec.StartPoint != nil,
		"endPoint":    rec.EndPoint != nil,
		"label":       rec.Label != nil,
		"stroke":      rec.Stroke != nil,
		"strokeWidth": rec.StrokeWidth != nil,
	}); err != nil {
		return nil, err
	}
	return newDimensionLine(*rec.StartPoint, *rec.EndPoint, *rec.Label, StylePatch{
		Stroke:      rec.Stroke,
		StrokeWidth: rec.StrokeWidth,
	}), nil
}
