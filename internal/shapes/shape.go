// Package shapes provides the vector annotation primitives drawn over
// survey photographs: arrows, dimension lines, freehand strokes,
// rectangles, ellipses and text labels.
package shapes

import (
	"surveymark/pkg/geometry"
)

// MinShapeSize is the minimum gesture extent, in image pixels, that the
// shape factories accept. Drags smaller than this are treated as
// accidental clicks and produce no shape.
const MinShapeSize = 5.0

// Default style values applied when an option is not overridden.
const (
	DefaultStroke        = "#e62525"
	DefaultStrokeWidth   = 2.0
	DefaultArrowheadSize = 10.0
	DefaultFontSize      = 14.0
)

// Shape is the common interface for all annotation primitives.
type Shape interface {
	// ShapeType returns the wire discriminator ("arrow", "dimension", ...).
	ShapeType() string

	// Style returns a snapshot of the current visual style.
	Style() Style

	// SetStyle applies the non-nil fields of the patch. An empty patch
	// is a no-op and style changes never disturb geometry.
	SetStyle(patch StylePatch)

	// HitTest returns true if the point (x, y) is on this shape.
	HitTest(x, y float64) bool

	// Selectable reports whether clicks can pick this shape.
	Selectable() bool

	// Bounds returns the bounding rectangle of the shape including its
	// stroke width.
	Bounds() geometry.Rect

	// Translate moves the whole shape by (dx, dy).
	Translate(dx, dy float64)

	// MarshalRecord returns the shape's complete wire record as JSON.
	MarshalRecord() ([]byte, error)
}

// Style holds the visual attributes shared by the shape family.
// ArrowheadSize only affects arrows, FontSize only text labels; both
// are carried uniformly so style editing code never branches on type.
type Style struct {
	Stroke        string  `json:"stroke"`
	StrokeWidth   float64 `json:"strokeWidth"`
	ArrowheadSize float64 `json:"arrowheadSize"`
	FontSize      float64 `json:"fontSize"`
}

// DefaultStyle returns the style applied to new shapes.
func DefaultStyle() Style {
	return Style{
		Stroke:        DefaultStroke,
		StrokeWidth:   DefaultStrokeWidth,
		ArrowheadSize: DefaultArrowheadSize,
		FontSize:      DefaultFontSize,
	}
}

// StylePatch is a partial style update. Nil fields keep their current
// value.
type StylePatch struct {
	Stroke        *string
	StrokeWidth   *float64
	ArrowheadSize *float64
	FontSize      *float64
}

// apply overlays the patch onto a style.
func (p StylePatch) apply(s Style) Style {
	if p.Stroke != nil {
		s.Stroke = *p.Stroke
	}
	if p.StrokeWidth != nil {
		s.StrokeWidth = *p.StrokeWidth
	}
	if p.ArrowheadSize != nil {
		s.ArrowheadSize = *p.ArrowheadSize
	}
	if p.FontSize != nil {
		s.FontSize = *p.FontSize
	}
	return s
}

// base carries the style and interaction flags common to all shapes.
// A freshly placed shape is selectable, movable and shows its resize
// handles.
type base struct {
	style      Style
	selectable bool
	movable    bool
	hasHandles bool
}

func newBase(patch StylePatch) base {
	return base{
		style:      patch.apply(DefaultStyle()),
		selectable: true,
		movable:    true,
		hasHandles: true,
	}
}

func (b *base) Style() Style              { return b.style }
func (b *base) SetStyle(patch StylePatch) { b.style = patch.apply(b.style) }

func (b *base) Selectable() bool     { return b.selectable }
func (b *base) Movable() bool        { return b.movable }
func (b *base) HasHandles() bool     { return b.hasHandles }
func (b *base) SetSelectable(v bool) { b.selectable = v }
func (b *base) SetMovable(v bool)    { b.movable = v }
func (b *base) SetHasHandles(v bool) { b.hasHandles = v }

// hitTolerance is the pick radius around a stroked line: half the
// stroke width, at least 3 pixels.
func (b *base) hitTolerance() float64 {
	tol := b.style.StrokeWidth/2 + 3
	if tol < 3 {
		tol = 3
	}
	return tol
}
