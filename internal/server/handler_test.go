package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

type memoryRepo struct {
	sets map[string][]byte
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{sets: map[string][]byte{}}
}

func (r *memoryRepo) Put(imageID string, data []byte) error {
	r.sets[imageID] = append([]byte(nil), data...)
	return nil
}

func (r *memoryRepo) Get(imageID string) (*AnnotationSet, error) {
	data, ok := r.sets[imageID]
	if !ok {
		return nil, ErrNotFound
	}
	return &AnnotationSet{ImageID: imageID, Data: data}, nil
}

func (r *memoryRepo) Delete(imageID string) error {
	delete(r.sets, imageID)
	return nil
}

const validDoc = `{"imageId":"img-1","shapes":[
	{"type":"arrow","startPoint":{"x":0,"y":0},"endPoint":{"x":100,"y":0},
	 "stroke":"#e62525","strokeWidth":2,"arrowheadSize":10}
]}`

func newTestApp(repo AnnotationRepo) *testApp {
	app := NewServer()
	RegisterRoutes(app, repo)
	return &testApp{app: app}
}

type testApp struct {
	app *fiber.App
}

func (a *testApp) do(t *testing.T, method, path, body string) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := a.app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func TestPutThenGet(t *testing.T) {
	app := newTestApp(newMemoryRepo())

	resp := app.do(t, http.MethodPut, "/api/v1/images/img-1/annotations", validDoc)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("PUT status = %d, want 204", resp.StatusCode)
	}

	resp = app.do(t, http.MethodGet, "/api/v1/images/img-1/annotations", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET status = %d, want 200", resp.StatusCode)
	}
	data, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(data), `"type":"arrow"`) {
		t.Errorf("GET body does not round-trip the document: %s", data)
	}
}

func TestPutReplacesExisting(t *testing.T) {
	repo := newMemoryRepo()
	app := newTestApp(repo)

	app.do(t, http.MethodPut, "/api/v1/images/img-1/annotations", validDoc)
	empty := `{"imageId":"img-1","shapes":[]}`
	app.do(t, http.MethodPut, "/api/v1/images/img-1/annotations", empty)

	if got := string(repo.sets["img-1"]); got != empty {
		t.Errorf("stored document = %s, want the replacement", got)
	}
}

func TestGetMissingReturns404(t *testing.T) {
	app := newTestApp(newMemoryRepo())
	resp := app.do(t, http.MethodGet, "/api/v1/images/ghost/annotations", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	data, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(data), "no annotations for image") {
		t.Errorf("body = %s, want not-found message", data)
	}
}

func TestPutRejectsUnknownShapeType(t *testing.T) {
	repo := newMemoryRepo()
	app := newTestApp(repo)

	bad := `{"imageId":"img-1","shapes":[{"type":"spline"}]}`
	resp := app.do(t, http.MethodPut, "/api/v1/images/img-1/annotations", bad)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	data, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(data), "spline") {
		t.Errorf("body = %s, want the unknown type named", data)
	}
	if len(repo.sets) != 0 {
		t.Error("rejected document was stored")
	}
}

func TestPutRejectsMismatchedImageID(t *testing.T) {
	app := newTestApp(newMemoryRepo())
	resp := app.do(t, http.MethodPut, "/api/v1/images/other/annotations", validDoc)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	app := newTestApp(newMemoryRepo())
	resp := app.do(t, http.MethodDelete, "/api/v1/images/img-1/annotations", "")
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", resp.StatusCode)
	}
}
