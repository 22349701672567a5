// Command main runs the database seeder for SnapGold.
package main

import (
	"context"
	"flag"
	"log"

	"snapgold/internal/config"
	"snapgold/internal/database"
	"snapgold/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 50, "Number of users to create")
	numCategories := flag.Int("categories", 10, "Number of categories to create")
	numPhotos := flag.Int("photos", 200, "Number of photos to create")
	numAnnotations := flag.Int("annotations", 400, "Number of annotations to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("Database Seeder")
	log.Printf("Target: %d users, %d categories, %d photos, %d annotations, clean=%v\n",
		*numUsers, *numCategories, *numPhotos, *numAnnotations, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.InitializeIfNotExisting(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	s := seed.NewSeeder(db, cfg)
	if err := s.Run(context.Background(), seed.Options{
		NumUsers:       *numUsers,
		NumCategories:  *numCategories,
		NumPhotos:      *numPhotos,
		NumAnnotations: *numAnnotations,
		ShouldClean:    *shouldClean,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("All done. The database is populated with demo data.")
}
