package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"surveymark/internal/shapes"
	"surveymark/pkg/geometry"
)

func newArrow(t *testing.T, x1, y1, x2, y2 float64) *shapes.Arrow {
	t.Helper()
	a := shapes.NewArrow(geometry.Point2D{X: x1, Y: y1}, geometry.Point2D{X: x2, Y: y2}, shapes.StylePatch{})
	if a == nil {
		t.Fatal("arrow factory rejected valid input")
	}
	return a
}

func TestAddShapeMarksModified(t *testing.T) {
	s := NewState()
	var modified bool
	s.On(EventModified, func(data interface{}) { modified = data.(bool) })

	s.AddShape(newArrow(t, 0, 0, 100, 0))
	if s.Document.Len() != 1 {
		t.Fatalf("document has %d shapes, want 1", s.Document.Len())
	}
	if !modified {
		t.Error("adding a shape did not emit a modified event")
	}
}

func TestAddShapeIgnoresNil(t *testing.T) {
	s := NewState()
	s.AddShape(nil)
	if s.Document.Len() != 0 || s.Modified {
		t.Error("nil shape should not change state")
	}
}

func TestRemoveShapeClearsSelection(t *testing.T) {
	s := NewState()
	a := newArrow(t, 0, 0, 100, 0)
	s.AddShape(a)
	s.Select(a)

	s.RemoveShape(a)
	if s.Selected != nil {
		t.Error("removing the selected shape should clear the selection")
	}
	if s.Document.Len() != 0 {
		t.Error("shape was not removed")
	}
}

func TestShapeAtReturnsTopmost(t *testing.T) {
	s := NewState()
	bottom := newArrow(t, 0, 50, 200, 50)
	top := newArrow(t, 0, 50, 200, 50)
	s.AddShape(bottom)
	s.AddShape(top)

	if got := s.ShapeAt(100, 50); got != top {
		t.Error("hit test should prefer the later-drawn shape")
	}
	if got := s.ShapeAt(100, 300); got != nil {
		t.Errorf("hit in empty space = %v, want nil", got)
	}
}

func TestSaveLoadProjectRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "survey.svmark")

	s := NewState()
	s.AddShape(newArrow(t, 10, 10, 150, 10))
	if err := s.SaveProject(path); err != nil {
		t.Fatalf("SaveProject: %v", err)
	}
	if s.Modified {
		t.Error("state still modified after save")
	}

	loaded := NewState()
	if err := loaded.LoadProject(path); err != nil {
		t.Fatalf("LoadProject: %v", err)
	}
	if loaded.Document.Len() != 1 {
		t.Fatalf("loaded document has %d shapes, want 1", loaded.Document.Len())
	}
	if loaded.Document.ImageID() != s.Document.ImageID() {
		t.Error("image id changed across save/load")
	}
}

func TestPushAnnotationsRequiresServer(t *testing.T) {
	s := NewState()
	if err := s.PushAnnotations(context.Background()); err == nil {
		t.Fatal("expected error without a configured server")
	}
}

func TestPushAndPullAnnotations(t *testing.T) {
	stored := map[string][]byte{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			buf := make([]byte, r.ContentLength)
			r.Body.Read(buf)
			stored[r.URL.Path] = buf
			w.WriteHeader(http.StatusNoContent)
		case http.MethodGet:
			data, ok := stored[r.URL.Path]
			if !ok {
				http.Error(w, "no annotations for image", http.StatusNotFound)
				return
			}
			w.Write(data)
		}
	}))
	defer srv.Close()

	s := NewState()
	s.Project.ServerURL = srv.URL
	s.AddShape(newArrow(t, 0, 0, 100, 0))

	if err := s.PushAnnotations(context.Background()); err != nil {
		t.Fatalf("PushAnnotations: %v", err)
	}

	other := NewState()
	other.Project.ServerURL = srv.URL
	other.Project.ImageID = s.Project.ImageID
	if err := other.PullAnnotations(context.Background()); err != nil {
		t.Fatalf("PullAnnotations: %v", err)
	}
	if other.Document.Len() != 1 {
		t.Fatalf("pulled document has %d shapes, want 1", other.Document.Len())
	}
}

func TestSnapPointWithoutPhoto(t *testing.T) {
	s := NewState()
	p := geometry.Point2D{X: 10, Y: 20}
	if got := s.SnapPoint(p); got != p {
		t.Errorf("SnapPoint = %+v, want unchanged %+v", got, p)
	}
}

func TestSuggestLabelWithoutPhoto(t *testing.T) {
	s := NewState()
	if got := s.SuggestLabel(geometry.Point2D{X: 5, Y: 5}); got != "" {
		t.Errorf("SuggestLabel = %q, want empty", got)
	}
}
