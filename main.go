package main

import (
	"context"
	"errors"
	"io/fs"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"coursehub-server-go/config"
	"coursehub-server-go/db"
	"coursehub-server-go/handlers"
)

func main() {
	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	store, err := db.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", cfg.StoreDriver, err)
	}

	if cfg.SeedData {
		if _, err := db.SeedIfEmpty(context.Background(), store); err != nil {
			log.Printf("Warning: could not check for existing data, skipping seed: %v", err)
		}
	}

	router := handlers.NewRouter(handlers.NewAPIHandler(store))

	log.Printf("Starting server on port %s", cfg.Port)
	// Run only returns on failure
	err = router.Run(cfg.Port)
	if cerr := store.Close(); cerr != nil {
		log.Printf("Error closing store: %v", cerr)
	}
	log.Fatalf("Failed to run server: %v", err)
}
