// Package export renders an annotation document over its photograph into a
// flattened raster image for reports.
package export

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	xdraw "golang.org/x/image/draw"

	"surveymark/internal/annotation"
	"surveymark/internal/photo"
	"surveymark/internal/shapes"
	"surveymark/pkg/colorutil"
	"surveymark/pkg/geometry"
)

// Render flattens the document over the photo. With a nil photo the shapes
// are drawn on a white canvas sized to their combined bounds.
func Render(doc *annotation.Document, p *photo.Photo) *image.RGBA {
	var output *image.RGBA
	if p != nil && p.Image != nil {
		b := p.Image.Bounds()
		output = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(output, output.Bounds(), p.Image, b.Min, draw.Src)
	} else {
		box := documentBounds(doc)
		output = image.NewRGBA(image.Rect(0, 0, int(box.X+box.Width)+1, int(box.Y+box.Height)+1))
		draw.Draw(output, output.Bounds(), image.White, image.Point{}, draw.Src)
	}

	for _, s := range doc.Shapes() {
		drawShape(output, s)
	}
	return output
}

func documentBounds(doc *annotation.Document) geometry.Rect {
	var box geometry.Rect
	first := true
	for _, s := range doc.Shapes() {
		if first {
			box = s.Bounds()
			first = false
			continue
		}
		box = box.Union(s.Bounds())
	}
	return box
}

func drawShape(output *image.RGBA, s shapes.Shape) {
	style := s.Style()
	col := colorutil.ParseHexOr(style.Stroke, colorutil.Red)
	thickness := int(style.StrokeWidth)
	if thickness < 1 {
		thickness = 1
	}

	switch v := s.(type) {
	case *shapes.Arrow:
		start, end := v.Endpoints()
		drawLine(output, int(start.X), int(start.Y), int(end.X), int(end.Y), col, thickness)
		fillPolygon(output, v.HeadPoints(), col)

	case *shapes.DimensionLine:
		start, end := v.Endpoints()
		drawLine(output, int(start.X), int(start.Y), int(end.X), int(end.Y), col, thickness)
		for _, tick := range v.Ticks() {
			drawLine(output, int(tick[0].X), int(tick[0].Y), int(tick[1].X), int(tick[1].Y), col, thickness)
		}
		if v.Label() != "" {
			mid := v.Midpoint()
			scale := fontScale(style.FontSize)
			x := int(mid.X) - textWidth(v.Label(), scale)/2
			y := int(mid.Y) - 5*scale - 2*thickness
			drawText(output, v.Label(), x, y, col, scale)
		}

	case *shapes.Freehand:
		pts := v.Points()
		for i := 0; i+1 < len(pts); i++ {
			drawLine(output, int(pts[i].X), int(pts[i].Y), int(pts[i+1].X), int(pts[i+1].Y), col, thickness)
		}

	case *shapes.RectangleShape:
		c := v.Corners()
		for i := 0; i < 4; i++ {
			a, b := c[i], c[(i+1)%4]
			drawLine(output, int(a.X), int(a.Y), int(b.X), int(b.Y), col, thickness)
		}

	case *shapes.EllipseShape:
		center := v.Center()
		rx, ry := v.Radii()
		drawEllipseRing(output, center.X, center.Y, rx, ry, col, thickness)

	case *shapes.TextLabel:
		pos := v.Position()
		drawText(output, v.Text(), int(pos.X), int(pos.Y), col, fontScale(v.FontSize()))
	}
}

// StrokeRect draws the outline of a rectangle, used for selection and
// drag previews.
func StrokeRect(output *image.RGBA, r geometry.Rect, col color.RGBA, thickness int) {
	x1, y1 := int(r.X), int(r.Y)
	x2, y2 := int(r.X+r.Width), int(r.Y+r.Height)
	drawLine(output, x1, y1, x2, y1, col, thickness)
	drawLine(output, x2, y1, x2, y2, col, thickness)
	drawLine(output, x2, y2, x1, y2, col, thickness)
	drawLine(output, x1, y2, x1, y1, col, thickness)
}

// StrokeLine draws a straight line, used for drag previews.
func StrokeLine(output *image.RGBA, a, b geometry.Point2D, col color.RGBA, thickness int) {
	drawLine(output, int(a.X), int(a.Y), int(b.X), int(b.Y), col, thickness)
}

// DrawShape draws a single shape onto an image, honoring its style.
func DrawShape(output *image.RGBA, s shapes.Shape) {
	drawShape(output, s)
}

// fontScale maps a style font size to bitmap font scale. The glyphs are
// 5 rows tall, so scale 3 is roughly a 15 px line.
func fontScale(fontSize float64) int {
	scale := int(fontSize / 5)
	if scale < 1 {
		scale = 1
	}
	if scale > 6 {
		scale = 6
	}
	return scale
}

// Scaled resizes a rendered image so the longest edge is at most maxEdge,
// preserving aspect ratio. Images already within the limit are returned
// unchanged.
func Scaled(img *image.RGBA, maxEdge int) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxEdge <= 0 || (w <= maxEdge && h <= maxEdge) {
		return img
	}

	var dw, dh int
	if w >= h {
		dw = maxEdge
		dh = h * maxEdge / w
	} else {
		dh = maxEdge
		dw = w * maxEdge / h
	}
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	return dst
}

// WritePNG renders the document over the photo and writes it to path.
func WritePNG(path string, doc *annotation.Document, p *photo.Photo, maxEdge int) error {
	img := Scaled(Render(doc, p), maxEdge)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encoding export: %w", err)
	}
	return nil
}
