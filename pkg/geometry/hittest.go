package geometry

import "math"

// PointToSegmentDistance returns the shortest distance from p to the
// line segment a-b.
func PointToSegmentDistance(p, a, b Point2D) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return p.Distance(a)
	}

	// Project p onto the segment, clamping to the endpoints.
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	closest := Point2D{X: a.X + t*dx, Y: a.Y + t*dy}
	return p.Distance(closest)
}

// PointToPolylineDistance returns the shortest distance from p to any
// segment of the polyline.
func PointToPolylineDistance(p Point2D, points []Point2D) float64 {
	if len(points) == 0 {
		return math.Inf(1)
	}
	if len(points) == 1 {
		return p.Distance(points[0])
	}
	best := math.Inf(1)
	for i := 0; i+1 < len(points); i++ {
		d := PointToSegmentDistance(p, points[i], points[i+1])
		if d < best {
			best = d
		}
	}
	return best
}

// PointInPolygon returns true if the point lies inside the polygon,
// using the ray casting algorithm.
func PointInPolygon(p Point2D, polygon []Point2D) bool {
	if len(polygon) < 3 {
		return false
	}

	inside := false
	n := len(polygon)
	j := n - 1
	for i := 0; i < n; i++ {
		pi := polygon[i]
		pj := polygon[j]
		if (pi.Y > p.Y) != (pj.Y > p.Y) &&
			p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X {
			inside = !inside
		}
		j = i
	}
	return inside
}

// SimplifyPath reduces the vertex count of a polyline using the
// Douglas-Peucker algorithm. Points further than epsilon from the
// chord between the current endpoints are kept.
func SimplifyPath(points []Point2D, epsilon float64) []Point2D {
	if len(points) < 3 || epsilon <= 0 {
		return points
	}

	maxDist := 0.0
	maxIdx := 0
	first := points[0]
	last := points[len(points)-1]
	for i := 1; i < len(points)-1; i++ {
		d := PointToSegmentDistance(points[i], first, last)
		if d > maxDist {
			maxDist = d
			maxIdx = i
		}
	}

	if maxDist <= epsilon {
		return []Point2D{first, last}
	}

	left := SimplifyPath(points[:maxIdx+1], epsilon)
	right := SimplifyPath(points[maxIdx:], epsilon)
	return append(left[:len(left)-1], right...)
}

// PathLength returns the summed segment lengths of a polyline.
func PathLength(points []Point2D) float64 {
	var total float64
	for i := 0; i+1 < len(points); i++ {
		total += points[i].Distance(points[i+1])
	}
	return total
}
