// Package annotation holds the ordered set of shapes drawn over a single
// survey photograph and its JSON persistence format.
package annotation

import (
	"context"
	"encoding/json"
	"fmt"

	"surveymark/internal/shapes"
)

// Document is the annotation set for one photograph. Shapes are kept in
// insertion order, which is also the draw order (later shapes render on top).
type Document struct {
	imageID string
	shapes  []shapes.Shape
}

// NewDocument creates an empty document bound to the given image id.
func NewDocument(imageID string) *Document {
	return &Document{imageID: imageID}
}

// ImageID returns the id of the photograph this document annotates.
func (d *Document) ImageID() string {
	return d.imageID
}

// Add appends a shape to the end of the draw order. Nil shapes are ignored
// so factory results can be added without a caller-side check.
func (d *Document) Add(s shapes.Shape) {
	if s == nil {
		return
	}
	d.shapes = append(d.shapes, s)
}

// Remove deletes the first occurrence of s, comparing by identity. Removing
// a shape that is not in the document is a no-op.
func (d *Document) Remove(s shapes.Shape) {
	for i, existing := range d.shapes {
		if existing == s {
			d.shapes = append(d.shapes[:i], d.shapes[i+1:]...)
			return
		}
	}
}

// Shapes returns the shapes in draw order. The slice is a copy but the
// elements are the document's live shapes, so edits through them are seen
// by the document.
func (d *Document) Shapes() []shapes.Shape {
	out := make([]shapes.Shape, len(d.shapes))
	copy(out, d.shapes)
	return out
}

// Len reports the number of shapes in the document.
func (d *Document) Len() int {
	return len(d.shapes)
}

// Clear removes every shape.
func (d *Document) Clear() {
	d.shapes = nil
}

type documentRecord struct {
	ImageID string            `json:"imageId"`
	Shapes  []json.RawMessage `json:"shapes"`
}

// MarshalJSON serializes the document with each shape encoded through its
// own record format, preserving draw order.
func (d *Document) MarshalJSON() ([]byte, error) {
	rec := documentRecord{
		ImageID: d.imageID,
		Shapes:  make([]json.RawMessage, 0, len(d.shapes)),
	}
	for i, s := range d.shapes {
		raw, err := s.MarshalRecord()
		if err != nil {
			return nil, fmt.Errorf("encoding shape %d (%s): %w", i, s.ShapeType(), err)
		}
		rec.Shapes = append(rec.Shapes, raw)
	}
	return json.Marshal(rec)
}

// DecodeDocument rebuilds a document from its JSON form. Every shape record
// must decode cleanly; a single unknown type or malformed record fails the
// whole load so a document is never silently truncated.
func DecodeDocument(ctx context.Context, data []byte) (*Document, error) {
	var rec documentRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parsing annotation document: %w", err)
	}
	doc := NewDocument(rec.ImageID)
	for i, raw := range rec.Shapes {
		s, err := shapes.Decode(ctx, raw)
		if err != nil {
			return nil, fmt.Errorf("shape %d: %w", i, err)
		}
		doc.shapes = append(doc.shapes, s)
	}
	return doc, nil
}
