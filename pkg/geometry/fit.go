package geometry

import (
	"gonum.org/v1/gonum/mat"
)

// FitSegment computes the least-squares line segment through a set of
// points. The direction is the principal component of the centered
// point cloud and the endpoints are the extreme projections onto it.
// Returns false when fewer than two points are given or the points are
// all coincident.
func FitSegment(points []Point2D) (start, end Point2D, ok bool) {
	if len(points) < 2 {
		return Point2D{}, Point2D{}, false
	}

	center := Centroid(points)
	data := mat.NewDense(len(points), 2, nil)
	for i, p := range points {
		data.Set(i, 0, p.X-center.X)
		data.Set(i, 1, p.Y-center.Y)
	}

	var svd mat.SVD
	if !svd.Factorize(data, mat.SVDThinV) {
		return Point2D{}, Point2D{}, false
	}
	var v mat.Dense
	svd.VTo(&v)

	// First right singular vector is the dominant direction.
	dir := Point2D{X: v.At(0, 0), Y: v.At(1, 0)}
	if dir.X == 0 && dir.Y == 0 {
		return Point2D{}, Point2D{}, false
	}

	minT := points[0].Sub(center).X*dir.X + points[0].Sub(center).Y*dir.Y
	maxT := minT
	for _, p := range points[1:] {
		t := (p.X-center.X)*dir.X + (p.Y-center.Y)*dir.Y
		if t < minT {
			minT = t
		}
		if t > maxT {
			maxT = t
		}
	}
	if maxT == minT {
		return Point2D{}, Point2D{}, false
	}

	start = center.Add(dir.Scale(minT))
	end = center.Add(dir.Scale(maxT))
	return start, end, true
}

// MaxDeviation returns the largest distance of any point from the
// segment a-b. Used to decide whether a freehand stroke is straight
// enough to be converted into a line-based shape.
func MaxDeviation(points []Point2D, a, b Point2D) float64 {
	var worst float64
	for _, p := range points {
		if d := PointToSegmentDistance(p, a, b); d > worst {
			worst = d
		}
	}
	return worst
}
