package main

import (
	"context"
	"log"

	"github.com/go-redis/redis/v8"

	"github.com/picklematch/picklematch/internal/config"
	"github.com/picklematch/picklematch/internal/database"
	"github.com/picklematch/picklematch/internal/server"
)

func main() {
	cfg := config.Load()

	db := &database.Database{}
	if err := db.Connect(cfg.DatabaseURL); err != nil {
		log.Fatalf("Postgres connect failed: %v", err)
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		rdb = redis.NewClient(opts)
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Fatalf("Redis connect failed: %v", err)
		}
	}

	srv, err := server.New(cfg, db, rdb)
	if err != nil {
		log.Fatalf("server init failed: %v", err)
	}

	if err := srv.Run(); err != nil {
		log.Fatalf("Server run error: %v", err)
	}
}
