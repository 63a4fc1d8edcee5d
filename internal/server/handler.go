package server

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"surveymark/internal/annotation"
)

type AnnotationHandler struct {
	repo AnnotationRepo
}

func NewAnnotationHandler(repo AnnotationRepo) *AnnotationHandler {
	return &AnnotationHandler{repo: repo}
}

// PutAnnotations replaces the stored document for an image. The payload is
// decoded once to reject malformed documents and unknown shape types before
// anything touches the database.
func (h *AnnotationHandler) PutAnnotations(c *fiber.Ctx) error {
	imageID := c.Params("imageId")
	if imageID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "image id is required")
	}

	body := c.Body()
	doc, err := annotation.DecodeDocument(context.Background(), body)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if doc.ImageID() != imageID {
		return fiber.NewError(fiber.StatusBadRequest, "document imageId does not match URL")
	}

	if err := h.repo.Put(imageID, body); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetAnnotations returns the stored document verbatim.
func (h *AnnotationHandler) GetAnnotations(c *fiber.Ctx) error {
	imageID := c.Params("imageId")

	set, err := h.repo.Get(imageID)
	if errors.Is(err, ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	} else if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(set.Data)
}

// DeleteAnnotations removes the stored document. Deleting an image that has
// no annotations succeeds.
func (h *AnnotationHandler) DeleteAnnotations(c *fiber.Ctx) error {
	if err := h.repo.Delete(c.Params("imageId")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
