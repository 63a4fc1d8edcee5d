package shapes

import (
	"encoding/json"
	"strings"

	"surveymark/pkg/geometry"
)

// TypeText is the wire discriminator for text labels.
const TypeText = "text"

// Approximate glyph cell of the bitmap font used for rendering,
// relative to the font size. Used for hit testing and bounds only.
const (
	textAdvanceFactor = 0.6
	textHeightFactor  = 1.0
)

// TextLabel is a text annotation anchored at the top-left of its first
// glyph.
type TextLabel struct {
	base
	position geometry.Point2D
	text     string
}

// NewTextLabel validates and constructs a TextLabel, or returns nil
// when the text is empty or whitespace. The degenerate case for text is
// an empty string rather than a short drag.
func NewTextLabel(position geometry.Point2D, text string, style StylePatch) *TextLabel {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return newTextLabel(position, text, style)
}

func newTextLabel(position geometry.Point2D, text string, style StylePatch) *TextLabel {
	return &TextLabel{base: newBase(style), position: position, text: text}
}

// ShapeType implements Shape.
func (t *TextLabel) ShapeType() string { return TypeText }

// Position returns the anchor point.
func (t *TextLabel) Position() geometry.Point2D { return t.position }

// SetPosition moves the anchor point.
func (t *TextLabel) SetPosition(p geometry.Point2D) { t.position = p }

// Text returns the label content.
func (t *TextLabel) Text() string { return t.text }

// SetText replaces the label content. Setting empty text is allowed
// after construction; only the factory rejects it.
func (t *TextLabel) SetText(text string) { t.text = text }

// FontSize returns the current font size from the style.
func (t *TextLabel) FontSize() float64 { return t.style.FontSize }

// HitTest implements Shape: hits anywhere inside the rendered text box.
func (t *TextLabel) HitTest(x, y float64) bool {
	return t.Bounds().Contains(geometry.Point2D{X: x, Y: y})
}

// Bounds implements Shape.
func (t *TextLabel) Bounds() geometry.Rect {
	w := float64(len(t.text)) * t.style.FontSize * textAdvanceFactor
	h := t.style.FontSize * textHeightFactor
	return geometry.Rect{X: t.position.X, Y: t.position.Y, Width: w, Height: h}
}

// Translate implements Shape.
func (t *TextLabel) Translate(dx, dy float64) {
	t.position = t.position.Add(geometry.Point2D{X: dx, Y: dy})
}

type textRecord struct {
	Type     string            `json:"type"`
	Position *geometry.Point2D `json:"position"`
	Text     *string           `json:"text"`
	FontSize *float64          `json:"fontSize"`
	Stroke   *string           `json:"stroke"`
}

// MarshalRecord implements Shape.
func (t *TextLabel) MarshalRecord() ([]byte, error) {
	position := t.position
	return json.Marshal(textRecord{
		Type:     TypeText,
		Position: &position,
		Text:     &t.text,
		FontSize: &t.style.FontSize,
		Stroke:   &t.style.Stroke,
	})
}

func decodeText(data []byte) (Shape, error) {
	var rec textRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	if err := requireFields(TypeText, map[string]bool{
		"position": rec.Position != nil,
		"text":     rec.Text != nil,
		"fontSize": rec.FontSize != nil,
		"stroke":   rec.Stroke != nil,
	}); err != nil {
		return nil, err
	}
	return newTextLabel(*rec.Position, *rec.Text, StylePatch{
		Stroke:   rec.Stroke,
		FontSize: rec.FontSize,
	}), nil
}
