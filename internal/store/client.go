// Package store talks to the annotation service over HTTP. The desktop app
// uses it to push and pull a photograph's annotation document by image id.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"surveymark/internal/annotation"
)

const defaultTimeout = 15 * time.Second

// Client saves and loads annotation documents against a surveymark server.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the server at baseURL, e.g.
// "http://localhost:8080". A trailing slash is tolerated.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

func (c *Client) annotationsURL(imageID string) string {
	return fmt.Sprintf("%s/api/v1/images/%s/annotations", c.baseURL, url.PathEscape(imageID))
}

// Save uploads the document, replacing whatever the server holds for its
// image id. Serialization errors and transport errors are returned as-is.
func (c *Client) Save(ctx context.Context, doc *annotation.Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.annotationsURL(doc.ImageID()), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError("saving annotations", resp)
	}
	return nil
}

// Load fetches the document stored for imageID. Decode failures, including
// unknown shape types, abort the load.
func (c *Client) Load(ctx context.Context, imageID string) (*annotation.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.annotationsURL(imageID), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError("loading annotations", resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return annotation.DecodeDocument(ctx, data)
}

func statusError(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return fmt.Errorf("%s: server returned %s", op, resp.Status)
	}
	return fmt.Errorf("%s: server returned %s: %s", op, resp.Status, msg)
}
