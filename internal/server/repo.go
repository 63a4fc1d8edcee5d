package server

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ErrNotFound is returned when no annotation set exists for an image.
var ErrNotFound = errors.New("no annotations for image")

type AnnotationRepo interface {
	Put(imageID string, data []byte) error
	Get(imageID string) (*AnnotationSet, error)
	Delete(imageID string) error
}

type annotationRepo struct {
	db *gorm.DB
}

// NewAnnotationRepo returns a repo backed by the given gorm connection.
func NewAnnotationRepo(db *gorm.DB) AnnotationRepo {
	return &annotationRepo{db: db}
}

// Put stores data as the document for imageID, replacing any previous one.
func (r *annotationRepo) Put(imageID string, data []byte) error {
	set := &AnnotationSet{
		UUID:      uuid.New(),
		ImageID:   imageID,
		Data:      datatypes.JSON(data),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	var existing AnnotationSet
	result := r.db.Where("image_id = ?", imageID).First(&existing)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return r.db.Create(set).Error
	} else if result.Error != nil {
		return result.Error
	}

	set.UUID = existing.UUID
	set.CreatedAt = existing.CreatedAt
	return r.db.Model(&existing).Updates(set).Error
}

func (r *annotationRepo) Get(imageID string) (*AnnotationSet, error) {
	var set AnnotationSet
	err := r.db.Where("image_id = ?", imageID).First(&set).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return &set, nil
}

func (r *annotationRepo) Delete(imageID string) error {
	return r.db.Where("image_id = ?", imageID).Delete(&AnnotationSet{}).Error
}
