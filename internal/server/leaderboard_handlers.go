package server

import (
	"snapgold/internal/models"

	"github.com/gofiber/fiber/v2"
)

const maxLeaderboardCount = 50

// GetLeaderboard handles GET /api/leaderboard
// Count parameters are honored exactly; each list may be sized independently.
func (s *Server) GetLeaderboard(c *fiber.Ctx) error {
	ctx := c.Context()

	categoryCount := clampCount(c.QueryInt("categories", 10))
	photoCount := clampCount(c.QueryInt("photos", 10))
	wealthyCount := clampCount(c.QueryInt("wealthiest", 10))
	benevolentCount := clampCount(c.QueryInt("benevolent", 10))

	leaderboard, err := s.gallery.GetLeaderboard(ctx, categoryCount, photoCount, wealthyCount, benevolentCount)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(leaderboard)
}

func clampCount(n int) int {
	if n < 0 {
		return 0
	}
	if n > maxLeaderboardCount {
		return maxLeaderboardCount
	}
	return n
}
