// Command migrate runs schema operations for the backend.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"snapgold/internal/config"
	"snapgold/internal/database"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return fmt.Errorf("usage: go run ./cmd/migrate/main.go <up|reset>")
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(flag.Arg(0))) {
	case "up":
		if err := database.InitializeIfNotExisting(db); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		log.Println("schema migrated")
	case "reset":
		if cfg.Env == "production" || cfg.Env == "prod" {
			return fmt.Errorf("reset is not allowed in production")
		}
		if err := database.Reinitialize(db); err != nil {
			return fmt.Errorf("reset failed: %w", err)
		}
		log.Println("schema dropped and recreated")
	default:
		return usage()
	}
	return nil
}
