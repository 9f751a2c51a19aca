package main

import (
	"context"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"conduct-server-go/config"
	"conduct-server-go/db"
	"conduct-server-go/handlers"
	"conduct-server-go/roster"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	blob, closeBlob, err := db.Open(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer func() {
		if err := closeBlob(); err != nil {
			log.Printf("Error closing store: %v", err)
		}
	}()

	store := roster.NewStore(blob, cfg.Store.Timeout)
	loaded := store.Load(context.Background())
	log.Printf("Loaded %d classes from %s store (key %q)", loaded, cfg.Store.Backend, cfg.Store.Key)

	if cfg.SeedDemo {
		checkAndSeedData(store)
	}

	apiHandler := handlers.NewAPIHandler(store)

	gin.SetMode(cfg.GinMode)
	router := handlers.NewRouter(
		gin.Logger(),
		gin.Recovery(),
		cors.New(cors.Config{
			AllowOrigins: cfg.CORSOrigins,
			AllowMethods: []string{"GET", "POST", "PUT", "DELETE"},
			AllowHeaders: []string{"Origin", "Content-Type"},
		}),
	)

	apiHandler.Register(router.Group("/api"))

	log.Printf("Starting server on %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
