package server

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AnnotationSet is the stored annotation document for one photograph.
// The document itself is kept as opaque JSON; the server validates it on
// write but never rewrites it, so a later client with more shape types
// can still read what an older one saved.
type AnnotationSet struct {
	UUID      uuid.UUID      `gorm:"primarykey" json:"uuid"`
	ImageID   string         `gorm:"uniqueIndex;not null" json:"image_id"`
	Data      datatypes.JSON `json:"data"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
