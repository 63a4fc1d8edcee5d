// Package project provides survey project file handling and persistence.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Extension is the survey project file extension.
const Extension = ".svmark"

// File represents a surveymark project file (.svmark). It ties a photograph
// to its image id on the annotation server and carries session settings.
type File struct {
	Version     int       `json:"version"`
	Name        string    `json:"name"`
	Created     time.Time `json:"created"`
	Modified    time.Time `json:"modified"`
	Site        string    `json:"site,omitempty"`
	Description string    `json:"description,omitempty"`

	// Photo path (relative to project file)
	PhotoPath string `json:"photo,omitempty"`

	// ImageID identifies the photo on the annotation server.
	ImageID string `json:"image_id"`

	// ServerURL is the annotation service base URL, empty for offline work.
	ServerURL string `json:"server_url,omitempty"`

	// Annotations are also kept inline so a project file is self-contained
	// when there is no server.
	Annotations json.RawMessage `json:"annotations,omitempty"`

	Settings Settings `json:"settings,omitempty"`
}

// Settings holds user preferences for the project.
type Settings struct {
	SnapToEdges   bool    `json:"snap_to_edges"`
	PlacardOCR    bool    `json:"placard_ocr"`
	DefaultStroke string  `json:"default_stroke,omitempty"`
	ExportMaxEdge int     `json:"export_max_edge,omitempty"`
	MetersPerUnit float64 `json:"meters_per_unit,omitempty"`
}

// New creates a new project file with default settings and a fresh image id.
func New(name, site string) *File {
	now := time.Now()
	return &File{
		Version:  1,
		Name:     name,
		Created:  now,
		Modified: now,
		Site:     site,
		ImageID:  uuid.New().String(),
		Settings: Settings{
			SnapToEdges:   true,
			PlacardOCR:    true,
			DefaultStroke: "#e62525",
			ExportMaxEdge: 4096,
		},
	}
}

// Load loads a project from a .svmark file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var proj File
	if err := json.Unmarshal(data, &proj); err != nil {
		return nil, fmt.Errorf("parsing project file: %w", err)
	}
	if proj.ImageID == "" {
		return nil, fmt.Errorf("project file has no image id")
	}

	return &proj, nil
}

// Save saves the project to a file.
func (p *File) Save(path string) error {
	p.Modified = time.Now()

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// SetPhoto sets the photo path, stored relative to the project file.
func (p *File) SetPhoto(projectPath, photoPath string) {
	rel, err := filepath.Rel(filepath.Dir(projectPath), photoPath)
	if err != nil {
		p.PhotoPath = photoPath
	} else {
		p.PhotoPath = rel
	}
	p.Modified = time.Now()
}

// GetPhotoPath returns the absolute path to the photo.
func (p *File) GetPhotoPath(projectPath string) string {
	if p.PhotoPath == "" {
		return ""
	}
	if filepath.IsAbs(p.PhotoPath) {
		return p.PhotoPath
	}
	return filepath.Join(filepath.Dir(projectPath), p.PhotoPath)
}
