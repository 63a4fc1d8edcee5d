package geometry

import (
	"math"
	"testing"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b Point2D
		want float64
	}{
		{"same point", Point2D{X: 5, Y: 5}, Point2D{X: 5, Y: 5}, 0},
		{"horizontal", Point2D{X: 100, Y: 100}, Point2D{X: 300, Y: 100}, 200},
		{"vertical", Point2D{X: 200, Y: 100}, Point2D{X: 200, Y: 300}, 200},
		{"3-4-5 triangle", Point2D{X: 0, Y: 0}, Point2D{X: 300, Y: 400}, 500},
		{"negative coords", Point2D{X: -3, Y: 0}, Point2D{X: 0, Y: 4}, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Distance(tt.b); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Distance(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestAngleDegrees(t *testing.T) {
	tests := []struct {
		name string
		a, b Point2D
		want float64
	}{
		{"right", Point2D{X: 100, Y: 100}, Point2D{X: 300, Y: 100}, 0},
		{"down", Point2D{X: 200, Y: 100}, Point2D{X: 200, Y: 300}, 90},
		{"left", Point2D{X: 300, Y: 100}, Point2D{X: 100, Y: 100}, 180},
		{"up", Point2D{X: 200, Y: 300}, Point2D{X: 200, Y: 100}, 270},
		{"down-right diagonal", Point2D{X: 0, Y: 0}, Point2D{X: 10, Y: 10}, 45},
		{"up-left diagonal", Point2D{X: 10, Y: 10}, Point2D{X: 0, Y: 0}, 225},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AngleDegrees(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("AngleDegrees(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestAngleDegreesNormalized(t *testing.T) {
	// Sweep directions all around the circle; the result must always
	// land in [0, 360).
	origin := Point2D{X: 50, Y: 50}
	for i := 0; i < 72; i++ {
		rad := float64(i) * 5 * math.Pi / 180
		target := Point2D{X: origin.X + 40*math.Cos(rad), Y: origin.Y + 40*math.Sin(rad)}
		got := AngleDegrees(origin, target)
		if got < 0 || got >= 360 {
			t.Fatalf("AngleDegrees out of range: %v for step %d", got, i)
		}
	}
}

func TestPointToSegmentDistance(t *testing.T) {
	a := Point2D{X: 0, Y: 0}
	b := Point2D{X: 10, Y: 0}

	if d := PointToSegmentDistance(Point2D{X: 5, Y: 3}, a, b); math.Abs(d-3) > 1e-9 {
		t.Errorf("perpendicular distance = %v, want 3", d)
	}
	if d := PointToSegmentDistance(Point2D{X: -4, Y: 3}, a, b); math.Abs(d-5) > 1e-9 {
		t.Errorf("distance past start = %v, want 5", d)
	}
	if d := PointToSegmentDistance(Point2D{X: 3, Y: 0}, a, b); d != 0 {
		t.Errorf("on-segment distance = %v, want 0", d)
	}
	// Degenerate segment falls back to point distance.
	if d := PointToSegmentDistance(Point2D{X: 3, Y: 4}, a, a); math.Abs(d-5) > 1e-9 {
		t.Errorf("degenerate segment distance = %v, want 5", d)
	}
}

func TestPointInPolygon(t *testing.T) {
	square := []Point2D{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}

	if !PointInPolygon(Point2D{X: 5, Y: 5}, square) {
		t.Error("center of square should be inside")
	}
	if PointInPolygon(Point2D{X: 15, Y: 5}, square) {
		t.Error("point right of square should be outside")
	}
	if PointInPolygon(Point2D{X: 5, Y: 5}, square[:2]) {
		t.Error("degenerate polygon can contain nothing")
	}
}

func TestSimplifyPath(t *testing.T) {
	// Collinear points collapse to the endpoints.
	line := []Point2D{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}}
	got := SimplifyPath(line, 0.5)
	if len(got) != 2 {
		t.Fatalf("collinear simplify kept %d points, want 2", len(got))
	}

	// A pronounced corner survives.
	corner := []Point2D{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}}
	got = SimplifyPath(corner, 0.5)
	if len(got) != 3 {
		t.Fatalf("corner simplify kept %d points, want 3", len(got))
	}
}

func TestFitSegment(t *testing.T) {
	// Noisy but clearly horizontal stroke.
	points := []Point2D{
		{X: 0, Y: 0.2}, {X: 25, Y: -0.3}, {X: 50, Y: 0.1},
		{X: 75, Y: -0.2}, {X: 100, Y: 0.3},
	}
	start, end, ok := FitSegment(points)
	if !ok {
		t.Fatal("FitSegment failed on a valid stroke")
	}
	length := start.Distance(end)
	if math.Abs(length-100) > 2 {
		t.Errorf("fitted length = %v, want ~100", length)
	}
	angle := AngleDegrees(start, end)
	// Direction sign is arbitrary; accept either orientation.
	if !(angle < 2 || angle > 358 || math.Abs(angle-180) < 2) {
		t.Errorf("fitted angle = %v, want ~0 or ~180", angle)
	}

	if _, _, ok := FitSegment([]Point2D{{X: 1, Y: 1}}); ok {
		t.Error("single point should not produce a segment")
	}
	if _, _, ok := FitSegment([]Point2D{{X: 1, Y: 1}, {X: 1, Y: 1}}); ok {
		t.Error("coincident points should not produce a segment")
	}
}

func TestRotationAbout(t *testing.T) {
	center := Point2D{X: 10, Y: 10}
	p := Point2D{X: 20, Y: 10}
	rotated := RotationAbout(math.Pi/2, center).Apply(p)
	// 90 degrees clockwise in screen coordinates moves +x to +y.
	if math.Abs(rotated.X-10) > 1e-9 || math.Abs(rotated.Y-20) > 1e-9 {
		t.Errorf("rotated = %v, want (10, 20)", rotated)
	}
}

func TestBoundingBox(t *testing.T) {
	points := []Point2D{{X: 3, Y: 7}, {X: -1, Y: 2}, {X: 5, Y: 4}}
	box := BoundingBox(points)
	want := Rect{X: -1, Y: 2, Width: 6, Height: 5}
	if box != want {
		t.Errorf("BoundingBox = %+v, want %+v", box, want)
	}
	if (BoundingBox(nil) != Rect{}) {
		t.Error("empty input should produce zero rect")
	}
}
