package repository

import (
	"context"

	"snapgold/internal/models"
	"snapgold/internal/observability"

	"gorm.io/gorm"
)

// GalleryReader serves the expensive, read-mostly aggregate views: category
// previews, the leaderboard, and the hero photo strip. These are the reads the
// cached decorator wraps.
type GalleryReader interface {
	GetCategoriesPreview(ctx context.Context, thumbnailCount int) ([]models.CategoryPreview, error)
	GetLeaderboard(ctx context.Context, categoryCount, photoCount, wealthyUserCount, benevolentUserCount int) (*models.Leaderboard, error)
	GetHeroPhotos(ctx context.Context, count int) ([]models.Photo, error)
}

type galleryRepository struct {
	db *gorm.DB
}

// NewGalleryRepository returns the uncached GalleryReader implementation.
func NewGalleryRepository(db *gorm.DB) GalleryReader {
	return &galleryRepository{db: db}
}

func (r *galleryRepository) GetCategoriesPreview(ctx context.Context, thumbnailCount int) ([]models.CategoryPreview, error) {
	defer observability.TrackAggregateQuery("previews")()
	if thumbnailCount <= 0 {
		thumbnailCount = 4
	}

	var categories []models.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, models.NewDataLayerError(err)
	}

	previews := make([]models.CategoryPreview, 0, len(categories))
	for _, category := range categories {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&models.Photo{}).
			Where("category_id = ? AND status = ?", category.ID, models.PhotoStatusActive).
			Count(&count).Error; err != nil {
			return nil, models.NewDataLayerError(err)
		}

		var thumbnails []models.Photo
		if err := r.db.WithContext(ctx).
			Where("category_id = ? AND status = ?", category.ID, models.PhotoStatusActive).
			Order("created_at DESC, id DESC").
			Limit(thumbnailCount).
			Find(&thumbnails).Error; err != nil {
			return nil, models.NewDataLayerError(err)
		}

		previews = append(previews, models.CategoryPreview{
			Category:   category,
			PhotoCount: count,
			Thumbnails: thumbnails,
		})
	}
	return previews, nil
}

// GetLeaderboard computes the four ranked top-N lists. All orderings carry a
// stable id tie-break, so the same query against unchanged data always yields
// identical ordering and ranks.
func (r *galleryRepository) GetLeaderboard(ctx context.Context, categoryCount, photoCount, wealthyUserCount, benevolentUserCount int) (*models.Leaderboard, error) {
	defer observability.TrackAggregateQuery("leaderboard")()

	lb := &models.Leaderboard{}

	categories, err := r.topCategories(ctx, categoryCount)
	if err != nil {
		return nil, err
	}
	lb.TopCategories = categories

	photos, err := r.topPhotos(ctx, photoCount)
	if err != nil {
		return nil, err
	}
	lb.TopPhotos = photos

	wealthy, err := r.topUsers(ctx, "gold_balance", wealthyUserCount)
	if err != nil {
		return nil, err
	}
	lb.WealthiestUsers = wealthy

	benevolent, err := r.topUsers(ctx, "gold_given", benevolentUserCount)
	if err != nil {
		return nil, err
	}
	lb.MostBenevolentUsers = benevolent

	return lb, nil
}

func (r *galleryRepository) topCategories(ctx context.Context, count int) ([]models.CategoryRank, error) {
	if count <= 0 {
		return []models.CategoryRank{}, nil
	}

	type categoryTotal struct {
		CategoryID uint
		Value      int64
	}
	var totals []categoryTotal
	if err := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Select("categories.id AS category_id, COALESCE(SUM(photos.gold_count), 0) AS value").
		Joins("LEFT JOIN photos ON photos.category_id = categories.id AND photos.deleted_at IS NULL AND photos.status = ?", models.PhotoStatusActive).
		Group("categories.id").
		Order("value DESC, categories.id ASC").
		Limit(count).
		Scan(&totals).Error; err != nil {
		return nil, models.NewDataLayerError(err)
	}
	if len(totals) == 0 {
		return []models.CategoryRank{}, nil
	}

	ids := make([]uint, len(totals))
	for i, t := range totals {
		ids[i] = t.CategoryID
	}
	var categories []models.Category
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&categories).Error; err != nil {
		return nil, models.NewDataLayerError(err)
	}
	byID := make(map[uint]models.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	ranks := make([]models.CategoryRank, 0, len(totals))
	for i, t := range totals {
		ranks = append(ranks, models.CategoryRank{
			Category: byID[t.CategoryID],
			Rank:     i + 1,
			Value:    t.Value,
		})
	}
	return ranks, nil
}

func (r *galleryRepository) topPhotos(ctx context.Context, count int) ([]models.PhotoRank, error) {
	if count <= 0 {
		return []models.PhotoRank{}, nil
	}
	var photos []models.Photo
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("status = ?", models.PhotoStatusActive).
		Order("gold_count DESC, id ASC").
		Limit(count).
		Find(&photos).Error; err != nil {
		return nil, models.NewDataLayerError(err)
	}
	ranks := make([]models.PhotoRank, 0, len(photos))
	for i, p := range photos {
		ranks = append(ranks, models.PhotoRank{Photo: p, Rank: i + 1, Value: p.GoldCount})
	}
	return ranks, nil
}

func (r *galleryRepository) topUsers(ctx context.Context, metric string, count int) ([]models.UserRank, error) {
	if count <= 0 {
		return []models.UserRank{}, nil
	}
	var users []models.User
	if err := r.db.WithContext(ctx).
		Order(metric + " DESC, id ASC").
		Limit(count).
		Find(&users).Error; err != nil {
		return nil, models.NewDataLayerError(err)
	}
	ranks := make([]models.UserRank, 0, len(users))
	for i, u := range users {
		value := u.GoldBalance
		if metric == "gold_given" {
			value = u.GoldGiven
		}
		ranks = append(ranks, models.UserRank{User: u, Rank: i + 1, Value: value})
	}
	return ranks, nil
}

func (r *galleryRepository) GetHeroPhotos(ctx context.Context, count int) ([]models.Photo, error) {
	defer observability.TrackAggregateQuery("heroes")()
	if count <= 0 {
		count = 5
	}
	var photos []models.Photo
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("status = ? AND gold_count > 0", models.PhotoStatusActive).
		Order("gold_count DESC, created_at DESC, id ASC").
		Limit(count).
		Find(&photos).Error; err != nil {
		return nil, models.NewDataLayerError(err)
	}
	return photos, nil
}
