// Package app provides application state, project lifecycle, and events.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"surveymark/internal/annotation"
	"surveymark/internal/ocr"
	"surveymark/internal/photo"
	"surveymark/internal/project"
	"surveymark/internal/shapes"
	"surveymark/internal/snap"
	"surveymark/internal/store"
	"surveymark/pkg/geometry"
)

// EventType identifies different application events.
type EventType int

const (
	EventProjectLoaded EventType = iota
	EventProjectSaved
	EventPhotoLoaded
	EventDocumentChanged
	EventSelectionChanged
	EventModified
	EventSynced
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// State holds the application state: the open project, its photo, and the
// annotation document being edited.
type State struct {
	mu sync.RWMutex

	ProjectPath string
	Project     *project.File
	Photo       *photo.Photo
	Document    *annotation.Document

	Selected shapes.Shape
	Modified bool

	// Lazily built from the photo, dropped when the photo changes.
	edges     *snap.EdgeMap
	ocrEngine *ocr.Engine

	listeners map[EventType][]EventListener
}

// NewState creates a new application state with an empty untitled project.
func NewState() *State {
	proj := project.New("Untitled survey", "")
	return &State{
		Project:   proj,
		Document:  annotation.NewDocument(proj.ImageID),
		listeners: make(map[EventType][]EventListener),
	}
}

// Reset replaces the state with a fresh untitled project, keeping the
// registered listeners.
func (s *State) Reset() {
	proj := project.New("Untitled survey", "")

	s.mu.Lock()
	s.ProjectPath = ""
	s.Project = proj
	s.Photo = nil
	s.Document = annotation.NewDocument(proj.ImageID)
	s.Selected = nil
	s.Modified = false
	s.dropEdges()
	s.mu.Unlock()

	s.Emit(EventProjectLoaded, proj)
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// SetModified marks the project as modified and emits an event.
func (s *State) SetModified(modified bool) {
	s.mu.Lock()
	s.Modified = modified
	s.mu.Unlock()
	s.Emit(EventModified, modified)
}

// AddShape appends a shape to the document. Nil shapes, as returned by the
// factories for degenerate input, are ignored.
func (s *State) AddShape(shape shapes.Shape) {
	if shape == nil {
		return
	}
	s.mu.Lock()
	s.Document.Add(shape)
	s.mu.Unlock()
	s.SetModified(true)
	s.Emit(EventDocumentChanged, shape)
}

// RemoveShape removes a shape from the document and clears the selection if
// it pointed at the removed shape.
func (s *State) RemoveShape(shape shapes.Shape) {
	s.mu.Lock()
	s.Document.Remove(shape)
	if s.Selected == shape {
		s.Selected = nil
	}
	s.mu.Unlock()
	s.SetModified(true)
	s.Emit(EventDocumentChanged, nil)
}

// Select sets the selected shape, nil to clear.
func (s *State) Select(shape shapes.Shape) {
	s.mu.Lock()
	changed := s.Selected != shape
	s.Selected = shape
	s.mu.Unlock()
	if changed {
		s.Emit(EventSelectionChanged, shape)
	}
}

// ShapeAt returns the topmost shape hit at the given document coordinates.
func (s *State) ShapeAt(x, y float64) shapes.Shape {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := s.Document.Shapes()
	for i := len(all) - 1; i >= 0; i-- {
		if all[i].Selectable() && all[i].HitTest(x, y) {
			return all[i]
		}
	}
	return nil
}

// LoadPhoto loads the photograph at path into the current project.
func (s *State) LoadPhoto(path string) error {
	p, err := photo.Load(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.Photo = p
	s.dropEdges()
	if s.ProjectPath != "" {
		s.Project.SetPhoto(s.ProjectPath, path)
	} else {
		s.Project.PhotoPath = path
	}
	s.mu.Unlock()

	s.SetModified(true)
	s.Emit(EventPhotoLoaded, p)
	return nil
}

// LoadProject loads a .svmark project, its photo, and its inline
// annotations.
func (s *State) LoadProject(path string) error {
	proj, err := project.Load(path)
	if err != nil {
		return err
	}

	doc := annotation.NewDocument(proj.ImageID)
	if len(proj.Annotations) > 0 {
		doc, err = annotation.DecodeDocument(context.Background(), proj.Annotations)
		if err != nil {
			return fmt.Errorf("loading annotations: %w", err)
		}
	}

	s.mu.Lock()
	s.ProjectPath = path
	s.Project = proj
	s.Document = doc
	s.Selected = nil
	s.Modified = false
	s.dropEdges()
	s.mu.Unlock()

	if photoPath := proj.GetPhotoPath(path); photoPath != "" {
		p, err := photo.Load(photoPath)
		if err != nil {
			return fmt.Errorf("loading project photo: %w", err)
		}
		s.mu.Lock()
		s.Photo = p
		s.mu.Unlock()
		s.Emit(EventPhotoLoaded, p)
	}

	s.Emit(EventProjectLoaded, proj)
	return nil
}

// SaveProject writes the project with the annotations embedded, so the file
// stands alone without a server.
func (s *State) SaveProject(path string) error {
	s.mu.Lock()
	data, err := json.Marshal(s.Document)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.Project.Annotations = data
	s.ProjectPath = path
	proj := s.Project
	s.mu.Unlock()

	if err := proj.Save(path); err != nil {
		return err
	}

	s.SetModified(false)
	s.Emit(EventProjectSaved, path)
	return nil
}

// PushAnnotations uploads the document to the project's annotation server.
func (s *State) PushAnnotations(ctx context.Context) error {
	s.mu.RLock()
	serverURL := s.Project.ServerURL
	doc := s.Document
	s.mu.RUnlock()

	if serverURL == "" {
		return fmt.Errorf("project has no server configured")
	}
	if err := store.NewClient(serverURL).Save(ctx, doc); err != nil {
		return err
	}
	s.Emit(EventSynced, doc.ImageID())
	return nil
}

// PullAnnotations replaces the document with the server's copy.
func (s *State) PullAnnotations(ctx context.Context) error {
	s.mu.RLock()
	serverURL := s.Project.ServerURL
	imageID := s.Project.ImageID
	s.mu.RUnlock()

	if serverURL == "" {
		return fmt.Errorf("project has no server configured")
	}
	doc, err := store.NewClient(serverURL).Load(ctx, imageID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.Document = doc
	s.Selected = nil
	s.mu.Unlock()

	s.SetModified(true)
	s.Emit(EventDocumentChanged, nil)
	s.Emit(EventSynced, imageID)
	return nil
}

// dropEdges releases the edge map. Callers hold s.mu.
func (s *State) dropEdges() {
	if s.edges != nil {
		s.edges.Close()
		s.edges = nil
	}
}

// SnapPoint moves p onto the nearest detected photo edge when edge snapping
// is enabled for the project. Without a photo, or with snapping off, p is
// returned unchanged. The edge map is built on first use and kept until the
// photo changes.
func (s *State) SnapPoint(p geometry.Point2D) geometry.Point2D {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Photo == nil || s.Photo.Image == nil || !s.Project.Settings.SnapToEdges {
		return p
	}
	if s.edges == nil {
		edges, err := snap.BuildEdgeMap(s.Photo.Image)
		if err != nil {
			return p
		}
		s.edges = edges
	}
	return s.edges.Snap(p)
}

// suggestWidth and suggestHeight bound the pixel region read around a text
// label click. Sized for a room placard filling roughly a tenth of a frame.
const (
	suggestWidth  = 240.0
	suggestHeight = 120.0
)

// SuggestLabel reads printed text near pos in the photo to pre-fill a text
// label. Returns the empty string when placard OCR is disabled for the
// project or nothing legible is found.
func (s *State) SuggestLabel(pos geometry.Point2D) string {
	s.mu.Lock()
	if s.Photo == nil || s.Photo.Image == nil || !s.Project.Settings.PlacardOCR {
		s.mu.Unlock()
		return ""
	}
	img := s.Photo.Image
	if s.ocrEngine == nil {
		engine, err := ocr.NewEngine()
		if err != nil {
			s.mu.Unlock()
			return ""
		}
		s.ocrEngine = engine
	}
	engine := s.ocrEngine
	s.mu.Unlock()

	mat, err := snap.ImageToMat(img)
	if err != nil {
		return ""
	}
	defer mat.Close()

	region := geometry.Rect{
		X:      pos.X - suggestWidth/2,
		Y:      pos.Y - suggestHeight/2,
		Width:  suggestWidth,
		Height: suggestHeight,
	}
	text, err := engine.RecognizeRegion(mat, region)
	if err != nil {
		return ""
	}
	return text
}
