// Package snap finds edges in a survey photograph so dimension endpoints can
// lock onto wall lines and fixture outlines instead of freehand clicks.
package snap

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"surveymark/pkg/geometry"
)

// DefaultRadius is the pixel radius searched around the cursor.
const DefaultRadius = 12

// EdgeMap holds a binary edge image extracted from a photograph.
type EdgeMap struct {
	edges gocv.Mat
}

// BuildEdgeMap runs Canny edge detection over the photo. The caller owns the
// result and must Close it.
func BuildEdgeMap(img image.Image) (*EdgeMap, error) {
	mat, err := ImageToMat(img)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{5, 5}, 0, 0, gocv.BorderDefault)

	edges := gocv.NewMat()
	gocv.Canny(blurred, &edges, 50, 150)

	return &EdgeMap{edges: edges}, nil
}

// Close releases the underlying edge image.
func (m *EdgeMap) Close() {
	m.edges.Close()
}

// Nearest returns the closest edge pixel to p within radius. ok is false
// when no edge pixel is in range.
func (m *EdgeMap) Nearest(p geometry.Point2D, radius int) (geometry.Point2D, bool) {
	if m.edges.Empty() {
		return geometry.Point2D{}, false
	}
	if radius <= 0 {
		radius = DefaultRadius
	}

	rows, cols := m.edges.Rows(), m.edges.Cols()
	cx, cy := int(p.X), int(p.Y)

	best := geometry.Point2D{}
	bestDist2 := float64(radius*radius) + 1
	found := false

	for dy := -radius; dy <= radius; dy++ {
		y := cy + dy
		if y < 0 || y >= rows {
			continue
		}
		for dx := -radius; dx <= radius; dx++ {
			x := cx + dx
			if x < 0 || x >= cols {
				continue
			}
			if m.edges.GetUCharAt(y, x) == 0 {
				continue
			}
			d2 := float64(dx*dx + dy*dy)
			if d2 < bestDist2 {
				bestDist2 = d2
				best = geometry.Point2D{X: float64(x), Y: float64(y)}
				found = true
			}
		}
	}

	return best, found
}

// Snap returns the nearest edge point within the default radius, or p itself
// when nothing is close enough.
func (m *EdgeMap) Snap(p geometry.Point2D) geometry.Point2D {
	if snapped, ok := m.Nearest(p, DefaultRadius); ok {
		return snapped
	}
	return p
}

// ImageToMat converts a Go image.Image to a gocv.Mat in BGR format.
func ImageToMat(img image.Image) (gocv.Mat, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return gocv.Mat{}, fmt.Errorf("empty image")
	}

	mat := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8UC3)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			mat.SetUCharAt(y, x*3+0, uint8(b>>8))
			mat.SetUCharAt(y, x*3+1, uint8(g>>8))
			mat.SetUCharAt(y, x*3+2, uint8(r>>8))
		}
	}

	return mat, nil
}
