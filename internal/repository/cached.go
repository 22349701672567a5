package repository

import (
	"context"
	"time"

	"snapgold/internal/cache"
	"snapgold/internal/models"
	"snapgold/internal/observability"
)

// cachedGalleryRepository wraps a GalleryReader with a read-through cache.
// Entries expire by TTL only; writes never invalidate, so readers may see
// results up to one TTL stale.
type cachedGalleryRepository struct {
	inner GalleryReader
	ttl   time.Duration
}

// NewCachedGalleryRepository decorates reader with TTL caching. A zero or
// negative ttl falls back to five minutes.
func NewCachedGalleryRepository(reader GalleryReader, ttl time.Duration) GalleryReader {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &cachedGalleryRepository{inner: reader, ttl: ttl}
}

func (r *cachedGalleryRepository) GetCategoriesPreview(ctx context.Context, thumbnailCount int) ([]models.CategoryPreview, error) {
	var previews []models.CategoryPreview
	hit, err := cache.Aside(ctx, cache.CategoriesPreviewKey(thumbnailCount), &previews, r.ttl, func() error {
		fetched, ferr := r.inner.GetCategoriesPreview(ctx, thumbnailCount)
		if ferr != nil {
			return ferr
		}
		previews = fetched
		return nil
	})
	recordCacheOutcome("previews", hit, err)
	if err != nil {
		return nil, err
	}
	return previews, nil
}

func (r *cachedGalleryRepository) GetLeaderboard(ctx context.Context, categoryCount, photoCount, wealthyUserCount, benevolentUserCount int) (*models.Leaderboard, error) {
	var lb models.Leaderboard
	key := cache.LeaderboardKey(categoryCount, photoCount, wealthyUserCount, benevolentUserCount)
	hit, err := cache.Aside(ctx, key, &lb, r.ttl, func() error {
		fetched, ferr := r.inner.GetLeaderboard(ctx, categoryCount, photoCount, wealthyUserCount, benevolentUserCount)
		if ferr != nil {
			return ferr
		}
		lb = *fetched
		return nil
	})
	recordCacheOutcome("leaderboard", hit, err)
	if err != nil {
		return nil, err
	}
	return &lb, nil
}

func (r *cachedGalleryRepository) GetHeroPhotos(ctx context.Context, count int) ([]models.Photo, error) {
	var photos []models.Photo
	hit, err := cache.Aside(ctx, cache.HeroPhotosKey(count), &photos, r.ttl, func() error {
		fetched, ferr := r.inner.GetHeroPhotos(ctx, count)
		if ferr != nil {
			return ferr
		}
		photos = fetched
		return nil
	})
	recordCacheOutcome("heroes", hit, err)
	if err != nil {
		return nil, err
	}
	return photos, nil
}

func recordCacheOutcome(view string, hit bool, err error) {
	switch {
	case err != nil:
		observability.CacheRequests.WithLabelValues(view, "error").Inc()
	case hit:
		observability.CacheRequests.WithLabelValues(view, "hit").Inc()
	default:
		observability.CacheRequests.WithLabelValues(view, "miss").Inc()
	}
}
