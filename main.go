package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"tutorgo/internal/api"
	"tutorgo/internal/config"
	"tutorgo/internal/redis"
	"tutorgo/internal/service/ai"
	"tutorgo/internal/service/tutor"
	"tutorgo/internal/storage"
)

func main() {
	// .env keeps provider api keys out of config.json
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("TUTORGO_CONFIG"))
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	dbType := os.Getenv("TUTORGO_DB")
	if dbType == "" {
		dbType = "sqlite3"
	}
	db, err := storage.Open(dbType, cfg)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if err := storage.Migrate(db, dbType); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	var cache *redis.Client
	if cfg.Redis.Host != "" {
		cache, err = redis.NewClient(cfg)
		if err != nil {
			log.Printf("redis unavailable, conversation cache disabled: %v", err)
			cache = nil
		} else {
			defer cache.Close()
		}
	}

	llm, err := ai.NewClient(context.Background(), cfg)
	if err != nil {
		log.Fatalf("init generation client: %v", err)
	}

	service, err := tutor.NewService(db, llm, cache)
	if err != nil {
		log.Fatalf("init tutor service: %v", err)
	}

	handlers := api.NewHandler(service)
	router := gin.Default()
	handlers.RegisterRoutes(router)

	addr := cfg.BasicConfig.ServerAddress
	if addr == "" {
		addr = ":8090"
	}

	if err := router.Run(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
