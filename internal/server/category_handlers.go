package server

import (
	"snapgold/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateCategory handles POST /api/categories
func (s *Server) CreateCategory(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)

	var req struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	category, err := s.categoryRepo.Create(ctx, req.Name, userID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(category)
}

// GetCategories handles GET /api/categories
func (s *Server) GetCategories(c *fiber.Ctx) error {
	ctx := c.Context()

	categories, err := s.categoryRepo.GetAll(ctx)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(categories)
}

// GetCategory handles GET /api/categories/:id
func (s *Server) GetCategory(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(category)
}

// GetCategoryPreviews handles GET /api/categories/previews?thumbnails=4
// Served from the TTL cache when Redis is available.
func (s *Server) GetCategoryPreviews(c *fiber.Ctx) error {
	ctx := c.Context()
	thumbnails := c.QueryInt("thumbnails", 4)

	previews, err := s.gallery.GetCategoriesPreview(ctx, thumbnails)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(previews)
}

// GetCategoryPhotos handles GET /api/categories/:id/photos
func (s *Server) GetCategoryPhotos(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 20)

	// Reject streams for categories that do not exist
	if _, err := s.categoryRepo.GetByID(ctx, id); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	photos, err := s.photoRepo.GetCategoryPhotoStream(ctx, id, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(photos)
}
