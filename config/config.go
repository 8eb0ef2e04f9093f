package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Splitting strategies understood by SPLIT_STRATEGY.
const (
	StrategyStreamCopy     = "copy"
	StrategyDecodeReencode = "reencode"
)

// Config stores the application configuration.
type Config struct {
	Port       string
	APIKey     string // shared secret checked against the API-Key request header
	FFmpegPath string
	UploadDir  string // directory where uploaded audio is materialized per request
	KeyPrefix  string // object key prefix for published segments
	Strategy   string // "copy" or "reencode"
	Workers    int    // segment worker pool size, 1..4

	MinioEndpoint  string
	MinioRegion    string
	MinioBucket    string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool

	LogPath string
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt gets an environment variable as int or returns a default value.
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool gets an environment variable as bool or returns a default value.
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// Load loads configuration from environment variables (via .env file) or defaults.
func Load() *Config {
	// godotenv.Load() will not override existing env vars.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on existing environment variables and defaults.")
	}

	workers := getEnvInt("SPLIT_WORKERS", 1)
	if workers < 1 {
		workers = 1
	}
	if workers > 4 {
		workers = 4
	}

	return &Config{
		Port:       getEnv("PORT", "8080"),
		APIKey:     os.Getenv("API_KEY"),
		FFmpegPath: getEnv("FFMPEG_PATH", "ffmpeg"),
		UploadDir:  getEnv("UPLOAD_DIR", "uploads"),
		KeyPrefix:  getEnv("SEGMENT_KEY_PREFIX", "segments"),
		Strategy:   strings.ToLower(getEnv("SPLIT_STRATEGY", StrategyStreamCopy)),
		Workers:    workers,

		MinioEndpoint:  getEnv("MINIO_ENDPOINT", "s3.amazonaws.com"),
		MinioRegion:    getEnv("MINIO_REGION", "us-east-1"),
		MinioBucket:    os.Getenv("MINIO_BUCKET"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioUseSSL:    getEnvBool("MINIO_USE_SSL", true),

		LogPath: getEnv("LOG_PATH", ""),
	}
}

// Validate checks that every value required to serve requests is present.
// A missing value is a startup failure, never a per-request one.
func (c *Config) Validate() error {
	var missing []string
	if c.APIKey == "" {
		missing = append(missing, "API_KEY")
	}
	if c.MinioBucket == "" {
		missing = append(missing, "MINIO_BUCKET")
	}
	if c.MinioAccessKey == "" {
		missing = append(missing, "MINIO_ACCESS_KEY")
	}
	if c.MinioSecretKey == "" {
		missing = append(missing, "MINIO_SECRET_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	if c.Strategy != StrategyStreamCopy && c.Strategy != StrategyDecodeReencode {
		return fmt.Errorf("unknown SPLIT_STRATEGY %q (want %q or %q)", c.Strategy, StrategyStreamCopy, StrategyDecodeReencode)
	}
	return nil
}
