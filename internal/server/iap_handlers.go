package server

import (
	"snapgold/internal/models"

	"github.com/gofiber/fiber/v2"
)

// RedeemPurchase handles POST /api/iap/redeem
// Fulfillment is idempotent per receipt: a receipt id that was already settled
// is rejected with a conflict and no balance change.
func (s *Server) RedeemPurchase(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)

	var req struct {
		ReceiptID     string `json:"receipt_id"`
		ProductID     string `json:"product_id"`
		GoldIncrement int64  `json:"gold_increment"`
		Platform      string `json:"platform"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	purchase := &models.IapPurchase{
		UserID:        userID,
		ReceiptID:     req.ReceiptID,
		ProductID:     req.ProductID,
		GoldIncrement: req.GoldIncrement,
		Platform:      req.Platform,
	}

	created, err := s.iapRepo.Insert(ctx, purchase)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}
