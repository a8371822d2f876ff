package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Settings holds everything read from the environment once at startup.
type Settings struct {
	Port       string
	Protocol   string
	Host       string
	JWTSecret  []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	HashRounds int
	UploadDir  string
}

var App Settings

func Init() {
	if err := godotenv.Load(); err != nil {
		Logger.Info("No .env file found, using system environment variables")
	}

	for _, key := range []string{"DB_DSN", "REDIS_ADDR", "JWT_SECRET"} {
		if os.Getenv(key) == "" {
			Logger.Fatal(key + " is not set")
		}
	}

	App = Settings{
		Port:       envOr("APP_PORT", "8080"),
		Protocol:   envOr("PROTOCOL", "http"),
		Host:       envOr("HOST", "localhost:8080"),
		JWTSecret:  []byte(os.Getenv("JWT_SECRET")),
		AccessTTL:  time.Duration(envIntOr("JWT_ACCESS_TTL", 300)) * time.Second,
		RefreshTTL: time.Duration(envIntOr("JWT_REFRESH_TTL", 3600)) * time.Second,
		HashRounds: envIntOr("HASH_ROUNDS", bcrypt.DefaultCost),
		UploadDir:  envOr("UPLOAD_DIR", "public"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
