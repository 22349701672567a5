package server

import (
	"snapgold/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateReport handles POST /api/reports
func (s *Server) CreateReport(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)

	var req struct {
		ContentID   uint                     `json:"content_id"`
		ContentType models.ReportContentType `json:"content_type"`
		Reason      models.ReportReasonType  `json:"reason"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	report := &models.Report{
		ReporterUserID: userID,
		ContentID:      req.ContentID,
		ContentType:    req.ContentType,
		Reason:         req.Reason,
	}

	created, err := s.reportRepo.Insert(ctx, report)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// GetActiveReports handles GET /api/reports
func (s *Server) GetActiveReports(c *fiber.Ctx) error {
	ctx := c.Context()
	page := parsePagination(c, 20)

	reports, err := s.reportRepo.ListActive(ctx, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(reports)
}
