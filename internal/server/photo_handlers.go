package server

import (
	"snapgold/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreatePhoto handles POST /api/photos
func (s *Server) CreatePhoto(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)

	var req struct {
		CategoryID   uint   `json:"category_id"`
		ThumbnailURL string `json:"thumbnail_url"`
		StandardURL  string `json:"standard_url"`
		HighResURL   string `json:"high_res_url"`
		Caption      string `json:"caption"`
		OSPlatform   string `json:"os_platform"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.CategoryID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("category_id is required"))
	}
	if req.StandardURL == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("standard_url is required"))
	}

	photo := &models.Photo{
		UserID:       userID,
		CategoryID:   req.CategoryID,
		ThumbnailURL: req.ThumbnailURL,
		StandardURL:  req.StandardURL,
		HighResURL:   req.HighResURL,
		Caption:      req.Caption,
		OSPlatform:   req.OSPlatform,
		Status:       models.PhotoStatusActive,
	}

	created, err := s.photoRepo.Insert(ctx, photo)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// GetPhoto handles GET /api/photos/:id
func (s *Server) GetPhoto(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	photo, err := s.photoRepo.GetByID(ctx, id)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(photo)
}

// UpdatePhoto handles PUT /api/photos/:id
func (s *Server) UpdatePhoto(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	photo, err := s.photoRepo.GetByID(ctx, id)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	if photo.UserID != userID {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewUnauthorizedError("Only the photo owner can update it"))
	}

	var req struct {
		Caption    *string `json:"caption"`
		CategoryID *uint   `json:"category_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Caption != nil {
		photo.Caption = *req.Caption
	}
	if req.CategoryID != nil {
		photo.CategoryID = *req.CategoryID
	}

	updated, err := s.photoRepo.Update(ctx, photo)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(updated)
}

// UpdatePhotoStatus handles PUT /api/photos/:id/status
func (s *Server) UpdatePhotoStatus(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	var req struct {
		Status models.PhotoStatus `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if !req.Status.Valid() {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid photo status"))
	}

	photo, err := s.photoRepo.GetByID(ctx, id)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	if photo.UserID != userID {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewUnauthorizedError("Only the photo owner can change its status"))
	}

	if err := s.photoRepo.UpdateStatus(ctx, id, req.Status); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// DeletePhoto handles DELETE /api/photos/:id
func (s *Server) DeletePhoto(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	photo, err := s.photoRepo.GetByID(ctx, id)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	if photo.UserID != userID {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewUnauthorizedError("Only the photo owner can delete it"))
	}

	if err := s.photoRepo.Delete(ctx, id); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetHeroPhotos handles GET /api/photos/heroes?count=5
// Served from the TTL cache when Redis is available.
func (s *Server) GetHeroPhotos(c *fiber.Ctx) error {
	ctx := c.Context()
	count := c.QueryInt("count", 5)

	photos, err := s.gallery.GetHeroPhotos(ctx, count)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(photos)
}
