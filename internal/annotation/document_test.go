package annotation

import (
	"context"
	"strings"
	"testing"

	"surveymark/internal/shapes"
	"surveymark/pkg/geometry"
)

func sampleDocument(t *testing.T) *Document {
	t.Helper()
	doc := NewDocument("site-042")
	doc.Add(shapes.NewArrow(geometry.Point2D{X: 10, Y: 10}, geometry.Point2D{X: 110, Y: 10}, shapes.StylePatch{}))
	doc.Add(shapes.NewDimensionLine(geometry.Point2D{X: 0, Y: 50}, geometry.Point2D{X: 200, Y: 50}, "2.00 m", shapes.StylePatch{}))
	doc.Add(shapes.NewTextLabel(geometry.Point2D{X: 30, Y: 80}, "crack in lintel", shapes.StylePatch{}))
	if doc.Len() != 3 {
		t.Fatalf("sample document has %d shapes, want 3", doc.Len())
	}
	return doc
}

func TestAddPreservesOrder(t *testing.T) {
	doc := sampleDocument(t)
	got := doc.Shapes()
	want := []string{shapes.TypeArrow, shapes.TypeDimension, shapes.TypeText}
	for i, s := range got {
		if s.ShapeType() != want[i] {
			t.Errorf("shape %d type = %q, want %q", i, s.ShapeType(), want[i])
		}
	}
}

func TestAddIgnoresNil(t *testing.T) {
	doc := NewDocument("img")
	doc.Add(nil)
	// A rejected factory result must be safe to pass straight in.
	degenerate := shapes.NewArrow(geometry.Point2D{X: 0, Y: 0}, geometry.Point2D{X: 1, Y: 0}, shapes.StylePatch{})
	if degenerate != nil {
		t.Fatal("expected degenerate arrow to be rejected")
	}
	if doc.Len() != 0 {
		t.Fatalf("document has %d shapes after nil adds, want 0", doc.Len())
	}
}

func TestRemoveFirstMatch(t *testing.T) {
	doc := NewDocument("img")
	a := shapes.NewArrow(geometry.Point2D{X: 0, Y: 0}, geometry.Point2D{X: 100, Y: 0}, shapes.StylePatch{})
	b := shapes.NewArrow(geometry.Point2D{X: 0, Y: 20}, geometry.Point2D{X: 100, Y: 20}, shapes.StylePatch{})
	doc.Add(a)
	doc.Add(b)
	doc.Add(a)

	doc.Remove(a)
	got := doc.Shapes()
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0] != b || got[1] != a {
		t.Error("Remove did not delete the first occurrence only")
	}
}

func TestRemoveAbsentIsNoOp(t *testing.T) {
	doc := sampleDocument(t)
	stranger := shapes.NewArrow(geometry.Point2D{X: 0, Y: 0}, geometry.Point2D{X: 50, Y: 50}, shapes.StylePatch{})
	doc.Remove(stranger)
	if doc.Len() != 3 {
		t.Fatalf("len = %d after removing absent shape, want 3", doc.Len())
	}
}

func TestShapesSnapshotIsIndependent(t *testing.T) {
	doc := sampleDocument(t)
	snap := doc.Shapes()
	snap[0] = nil
	if doc.Shapes()[0] == nil {
		t.Error("mutating the returned slice altered the document")
	}
}

func TestDocumentHoldsLiveReferences(t *testing.T) {
	doc := NewDocument("img")
	arrow := shapes.NewArrow(geometry.Point2D{X: 0, Y: 0}, geometry.Point2D{X: 100, Y: 0}, shapes.StylePatch{})
	doc.Add(arrow)

	arrow.SetEnd(geometry.Point2D{X: 0, Y: 300})

	stored := doc.Shapes()[0].(*shapes.Arrow)
	if stored.Length() != 300 {
		t.Errorf("stored arrow length = %v, want 300 after external edit", stored.Length())
	}
}

func TestRoundTripPreservesOrderAndGeometry(t *testing.T) {
	doc := sampleDocument(t)
	data, err := doc.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}

	got, err := DecodeDocument(context.Background(), data)
	if err != nil {
		t.Fatalf("DecodeDocument: %v", err)
	}
	if got.ImageID() != "site-042" {
		t.Errorf("imageId = %q, want %q", got.ImageID(), "site-042")
	}
	if got.Len() != doc.Len() {
		t.Fatalf("len = %d, want %d", got.Len(), doc.Len())
	}
	for i, s := range got.Shapes() {
		if s.ShapeType() != doc.Shapes()[i].ShapeType() {
			t.Errorf("shape %d type = %q, want %q", i, s.ShapeType(), doc.Shapes()[i].ShapeType())
		}
	}
	arrow := got.Shapes()[0].(*shapes.Arrow)
	if arrow.Length() != 100 {
		t.Errorf("decoded arrow length = %v, want 100", arrow.Length())
	}
}

func TestDecodeFailsWholeLoadOnUnknownType(t *testing.T) {
	data := []byte(`{"imageId":"img","shapes":[
		{"type":"arrow","startPoint":{"x":0,"y":0},"endPoint":{"x":100,"y":0},"stroke":"#e62525","strokeWidth":2,"arrowheadSize":10},
		{"type":"spline","points":[]}
	]}`)
	_, err := DecodeDocument(context.Background(), data)
	if err == nil {
		t.Fatal("expected error for unknown shape type")
	}
	if !strings.Contains(err.Error(), "spline") {
		t.Errorf("error %q does not name the unknown type", err)
	}
}

func TestDecodeFailsOnMalformedShape(t *testing.T) {
	data := []byte(`{"imageId":"img","shapes":[{"type":"arrow","startPoint":{"x":0,"y":0}}]}`)
	_, err := DecodeDocument(context.Background(), data)
	if err == nil {
		t.Fatal("expected error for incomplete arrow record")
	}
}

func TestDecodeCancelledContext(t *testing.T) {
	doc := sampleDocument(t)
	data, err := doc.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := DecodeDocument(ctx, data); err == nil {
		t.Fatal("expected error decoding with cancelled context")
	}
}
