package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const DefaultTokenTTL = 7 * 24 * time.Hour

type Config struct {
	Port        string
	DatabaseURL string
	RedisURL    string
	JWTSecret   string
	TokenTTL    time.Duration
	UploadDir   string
	CORSOrigin  string
	GinMode     string
}

// Load reads .env.local, then .env, then falls back to the process
// environment for anything not set.
func Load() *Config {
	if err := godotenv.Load(".env.local"); err != nil {
		if err := godotenv.Load(); err != nil {
			log.Println(".env not found, using environment variables")
		}
	}

	return &Config{
		Port:        getenv("PORT", "3000"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		TokenTTL:    getduration("TOKEN_TTL", DefaultTokenTTL),
		UploadDir:   getenv("UPLOAD_DIR", "./uploads"),
		CORSOrigin:  os.Getenv("CORS_ORIGIN"),
		GinMode:     os.Getenv("GIN_MODE"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getduration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("invalid %s %q, using default %s", key, v, fallback)
		return fallback
	}
	return d
}
