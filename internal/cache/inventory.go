package cache

import "fmt"

// Cache keys are derived from the full parameter set of the wrapped read, so
// calls with different parameters never collide.
const (
	categoriesPreviewKeyPrefix = "gallery:previews:%d"
	leaderboardKeyPrefix       = "gallery:leaderboard:%d:%d:%d:%d"
	heroPhotosKeyPrefix        = "gallery:heroes:%d"
)

// CategoriesPreviewKey returns the cache key for category previews with the
// given thumbnail count.
func CategoriesPreviewKey(thumbnailCount int) string {
	return fmt.Sprintf(categoriesPreviewKeyPrefix, thumbnailCount)
}

// LeaderboardKey returns the cache key for a leaderboard request.
func LeaderboardKey(categoryCount, photoCount, wealthyUserCount, benevolentUserCount int) string {
	return fmt.Sprintf(leaderboardKeyPrefix, categoryCount, photoCount, wealthyUserCount, benevolentUserCount)
}

// HeroPhotosKey returns the cache key for the hero photo strip.
func HeroPhotosKey(count int) string {
	return fmt.Sprintf(heroPhotosKeyPrefix, count)
}
