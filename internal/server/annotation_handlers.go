package server

import (
	"snapgold/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateAnnotation handles POST /api/photos/:id/annotations
func (s *Server) CreateAnnotation(c *fiber.Ctx) error {
	ctx := c.Context()
	photoID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	var req struct {
		Text      string `json:"text"`
		GoldCount int64  `json:"gold_count"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	annotation := &models.Annotation{
		PhotoID:    photoID,
		FromUserID: userID,
		Text:       req.Text,
		GoldCount:  req.GoldCount,
	}

	created, err := s.annotationRepo.Insert(ctx, annotation)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// GetAnnotations handles GET /api/photos/:id/annotations
func (s *Server) GetAnnotations(c *fiber.Ctx) error {
	ctx := c.Context()
	photoID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	annotations, err := s.annotationRepo.ListByPhoto(ctx, photoID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(annotations)
}

// DeleteAnnotation handles DELETE /api/photos/:id/annotations/:annotationId
// Retraction removes the annotation and its contribution to the photo's gold
// count. Balances and the ledger are untouched.
func (s *Server) DeleteAnnotation(c *fiber.Ctx) error {
	ctx := c.Context()
	if _, err := s.parseID(c, "id"); err != nil {
		return nil
	}
	annotationID, err := s.parseID(c, "annotationId")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	annotation, err := s.annotationRepo.GetByID(ctx, annotationID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	if annotation.FromUserID != userID {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewUnauthorizedError("Only the annotation author can retract it"))
	}

	if err := s.annotationRepo.Delete(ctx, annotationID); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
