// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"snapgold/internal/config"
	"snapgold/internal/models"
	"snapgold/internal/observability"
	"snapgold/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers       int
	NumCategories  int
	NumPhotos      int
	NumAnnotations int
	ShouldClean    bool
}

var categoryNames = []string{
	"Sunsets", "Street", "Wildlife", "Macro", "Portraits",
	"Architecture", "Food", "Travel", "Night Sky", "Black And White",
	"Pets", "Mountains", "Ocean", "Urban Decay", "Minimal",
}

// Seeder populates the database with realistic demo data. All gold movement
// goes through the real transfer path so seeded data satisfies the same
// ledger and balance invariants as production data.
type Seeder struct {
	db       *gorm.DB
	cfg      *config.Config
	transfer repository.GoldTransferExecutor
	users    repository.UserRepository
	cats     repository.CategoryRepository
	photos   repository.PhotoRepository
	notes    repository.AnnotationRepository
	rng      *rand.Rand
}

// NewSeeder creates a Seeder bound to the given database.
func NewSeeder(db *gorm.DB, cfg *config.Config) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	transfer := repository.NewGoldTransferExecutor(db)
	return &Seeder{
		db:       db,
		cfg:      cfg,
		transfer: transfer,
		users:    repository.NewUserRepository(db, transfer, cfg),
		cats:     repository.NewCategoryRepository(db, transfer, cfg),
		photos:   repository.NewPhotoRepository(db),
		notes:    repository.NewAnnotationRepository(db, transfer),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll truncates every seeded table.
func (s *Seeder) ClearAll() error {
	tables := []interface{}{
		&models.Report{},
		&models.IapPurchase{},
		&models.GoldTransaction{},
		&models.Annotation{},
		&models.Photo{},
		&models.Category{},
		&models.User{},
	}
	for _, t := range tables {
		if err := s.db.Unscoped().Where("1 = 1").Delete(t).Error; err != nil {
			return fmt.Errorf("clearing %T: %w", t, err)
		}
	}
	observability.Logger().Info("cleared existing seed data")
	return nil
}

// Run seeds users, categories, photos and gold-granting annotations.
func (s *Seeder) Run(ctx context.Context, opts Options) error {
	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			return err
		}
	}

	users, err := s.seedUsers(ctx, opts.NumUsers)
	if err != nil {
		return err
	}
	cats, err := s.seedCategories(ctx, opts.NumCategories, users)
	if err != nil {
		return err
	}
	photos, err := s.seedPhotos(ctx, opts.NumPhotos, users, cats)
	if err != nil {
		return err
	}
	if err := s.seedAnnotations(ctx, opts.NumAnnotations, users, photos); err != nil {
		return err
	}

	observability.Logger().Info("seeding complete",
		"users", len(users), "categories", len(cats), "photos", len(photos))
	return nil
}

func (s *Seeder) seedUsers(ctx context.Context, n int) ([]*models.User, error) {
	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		ref := fmt.Sprintf("seed-%s", gofakeit.UUID())
		user, err := s.users.Create(ctx, ref)
		if err != nil {
			return nil, fmt.Errorf("seeding user %d: %w", i, err)
		}
		users = append(users, user)
	}
	return users, nil
}

func (s *Seeder) seedCategories(ctx context.Context, n int, users []*models.User) ([]*models.Category, error) {
	if n > len(categoryNames) {
		n = len(categoryNames)
	}
	cats := make([]*models.Category, 0, n)
	for i := 0; i < n; i++ {
		creator := users[s.rng.Intn(len(users))]
		cat, err := s.cats.Create(ctx, categoryNames[i], creator.ID)
		if err != nil {
			// A leftover category from a previous run is fine
			if models.HasCode(err, models.CodeDuplicate) {
				continue
			}
			return nil, fmt.Errorf("seeding category %q: %w", categoryNames[i], err)
		}
		cats = append(cats, cat)
	}
	return cats, nil
}

func (s *Seeder) seedPhotos(ctx context.Context, n int, users []*models.User, cats []*models.Category) ([]*models.Photo, error) {
	if len(cats) == 0 {
		return nil, nil
	}
	photos := make([]*models.Photo, 0, n)
	for i := 0; i < n; i++ {
		owner := users[s.rng.Intn(len(users))]
		cat := cats[s.rng.Intn(len(cats))]
		seedID := gofakeit.UUID()
		photo := &models.Photo{
			UserID:       owner.ID,
			CategoryID:   cat.ID,
			ThumbnailURL: fmt.Sprintf("https://picsum.photos/seed/%s/200/200", seedID),
			StandardURL:  fmt.Sprintf("https://picsum.photos/seed/%s/800/800", seedID),
			HighResURL:   fmt.Sprintf("https://picsum.photos/seed/%s/2000/2000", seedID),
			Caption:      gofakeit.Sentence(6),
			Status:       models.PhotoStatusActive,
			OSPlatform:   []string{"ios", "android"}[s.rng.Intn(2)],
		}
		created, err := s.photos.Insert(ctx, photo)
		if err != nil {
			return nil, fmt.Errorf("seeding photo %d: %w", i, err)
		}
		photos = append(photos, created)
	}
	return photos, nil
}

func (s *Seeder) seedAnnotations(ctx context.Context, n int, users []*models.User, photos []*models.Photo) error {
	if len(photos) == 0 {
		return nil
	}
	for i := 0; i < n; i++ {
		author := users[s.rng.Intn(len(users))]
		photo := photos[s.rng.Intn(len(photos))]
		if photo.UserID == author.ID {
			continue
		}

		// Small grants so seeded users rarely run out of welcome gold
		grant := int64(s.rng.Intn(4))
		note := &models.Annotation{
			PhotoID:    photo.ID,
			FromUserID: author.ID,
			Text:       gofakeit.Sentence(8),
			GoldCount:  grant,
		}
		if _, err := s.notes.Insert(ctx, note); err != nil {
			// Skip grants the author can no longer afford
			if models.HasCode(err, models.CodeBalanceTooLow) {
				continue
			}
			return fmt.Errorf("seeding annotation %d: %w", i, err)
		}
	}
	return nil
}
