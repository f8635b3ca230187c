// Package config reads runtime settings from the environment. In anything
// but production a .env file in the working directory is loaded first.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env            string
	Port           string
	AllowedOrigins []string
	DefaultPrice   int

	// key-value backend: sqlite | postgres | redis | memory
	StoreType     string
	StoreTimeout  time.Duration
	SQLitePath    string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// asset storage: local | s3
	StorageType  string
	UploadDir    string
	BaseURL      string
	AWSBucket    string
	AWSRegion    string
	AWSAccessKey string
	AWSSecretKey string
	AWSEndpoint  string

	GeminiAPIKey   string
	GeminiModel    string
	SuggestTimeout time.Duration
}

func (c Config) IsProduction() bool { return c.Env == "production" }

// Load builds a Config from the environment. Unset or unparsable values
// fall back to development defaults.
func Load() Config {
	// Load .env in dev only, production injects env vars through infra
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	port := getenv("PORT", "8083")
	return Config{
		Env:            getenv("APP_ENV", "development"),
		Port:           port,
		AllowedOrigins: splitList(getenv("ALLOWED_ORIGINS", "http://localhost:5173")),
		DefaultPrice:   atoi(getenv("DEFAULT_PRICE", "500"), 500),

		StoreType:     strings.ToLower(getenv("STORE_TYPE", "sqlite")),
		StoreTimeout:  parseDur(getenv("STORE_TIMEOUT", "5s"), 5*time.Second),
		SQLitePath:    getenv("SQLITE_PATH", "./data/filter-studio.db"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       atoi(getenv("REDIS_DB", "0"), 0),

		StorageType:  strings.ToLower(getenv("STORAGE_TYPE", "local")),
		UploadDir:    getenv("UPLOAD_DIR", "./uploads"),
		BaseURL:      getenv("BASE_URL", "http://localhost:"+port),
		AWSBucket:    os.Getenv("AWS_BUCKET"),
		AWSRegion:    getenv("AWS_REGION", "us-east-1"),
		AWSAccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		AWSEndpoint:  os.Getenv("AWS_ENDPOINT"),

		GeminiAPIKey:   getenv("GEMINI_API_KEY", os.Getenv("API_KEY")),
		GeminiModel:    os.Getenv("GEMINI_MODEL"),
		SuggestTimeout: parseDur(getenv("SUGGEST_TIMEOUT", "15s"), 15*time.Second),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoi(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func parseDur(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
