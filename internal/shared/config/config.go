package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	Env      string
	LogLevel string

	DatabaseURL string

	StorageProvider    string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSRegion          string
	Bucket             string
	S3Endpoint         string
	LocalStoragePath   string
	PublicBaseURL      string
	SigningSecret      string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string

	SignedURLTTL    time.Duration
	SessionTTL      time.Duration
	ExportRetention time.Duration
	CleanupSchedule string

	ThemesFile   string
	DefaultTheme string
	StrictCells  bool
	ExportFormat string
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ .env file not found, using system environment variables")
	}

	cfg := &Config{
		Port:     os.Getenv("PORT"),
		Env:      os.Getenv("ENV"),
		LogLevel: os.Getenv("LOG_LEVEL"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		StorageProvider:    os.Getenv("STORAGE_PROVIDER"),
		AWSAccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		AWSRegion:          os.Getenv("AWS_REGION"),
		Bucket:             os.Getenv("BUCKET"),
		S3Endpoint:         os.Getenv("S3_ENDPOINT"),
		LocalStoragePath:   os.Getenv("LOCAL_STORAGE_PATH"),
		PublicBaseURL:      os.Getenv("PUBLIC_BASE_URL"),
		SigningSecret:      os.Getenv("SIGNING_SECRET"),

		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		CloudinaryFolder:    os.Getenv("CLOUDINARY_FOLDER"),

		SignedURLTTL:    time.Duration(getInt("SIGNED_URL_TTL_SECONDS", 60)) * time.Second,
		SessionTTL:      time.Duration(getInt("SESSION_TTL_HOURS", 24)) * time.Hour,
		ExportRetention: time.Duration(getInt("EXPORT_RETENTION_HOURS", 24)) * time.Hour,
		CleanupSchedule: os.Getenv("CLEANUP_SCHEDULE"),

		ThemesFile:   os.Getenv("THEMES_FILE"),
		DefaultTheme: os.Getenv("DEFAULT_THEME"),
		StrictCells:  getBool("STRICT_CELLS", false),
		ExportFormat: os.Getenv("EXPORT_FORMAT"),
	}

	// Default values
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.DatabaseURL == "" {
		// Local development runs on an embedded SQLite file
		cfg.DatabaseURL = "sqlite://extract.db"
	}
	if cfg.StorageProvider == "" {
		cfg.StorageProvider = "local"
	}
	if cfg.AWSRegion == "" {
		cfg.AWSRegion = "us-east-1"
	}
	if cfg.LocalStoragePath == "" {
		cfg.LocalStoragePath = "./exports"
	}
	if cfg.PublicBaseURL == "" {
		cfg.PublicBaseURL = "http://localhost:" + cfg.Port
	}
	if cfg.SigningSecret == "" && cfg.Env == "development" {
		cfg.SigningSecret = "development-secret"
	}
	if cfg.CleanupSchedule == "" {
		cfg.CleanupSchedule = "0 */15 * * * *"
	}
	if cfg.DefaultTheme == "" {
		cfg.DefaultTheme = "tableau"
	}
	if cfg.ExportFormat == "" {
		cfg.ExportFormat = "excel"
	}

	return cfg
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("⚠️ Invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("⚠️ Invalid %s=%q, using %t", key, v, fallback)
		return fallback
	}
	return b
}
