package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/yukikurage/bug-tracker-api/internal/models"
)

type Config struct {
	Port              string
	GinMode           string
	DatabaseURL       string
	DBLogLevel        string
	AdminPassword     string
	AdminPasswordHash string
	CORSOrigins       []string
	StorageDriver     string
	UploadDir         string
	MinioEndpoint     string
	MinioAccessKey    string
	MinioSecretKey    string
	MinioBucket       string
	MinioUseSSL       bool
	MinioRegion       string
	MaxUploadBytes    int64
	SeedDatabase      bool
	LogLevel          string
	LogFormat         string
	OTLPEndpoint      string
	ServiceName       string
}

// Load reads configuration from the environment, after merging an optional .env file.
func Load() *Config {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	return &Config{
		Port:              getEnv("PORT", "8080"),
		GinMode:           getEnv("GIN_MODE", "debug"),
		DatabaseURL:       getEnv("DATABASE_URL", "sqlite://bugtracker.db"),
		DBLogLevel:        getEnv("DB_LOG_LEVEL", "warn"),
		AdminPassword:     getEnv("ADMIN_PASSWORD", "admin123"),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		CORSOrigins:       splitList(getEnv("CORS_ORIGINS", "*")),
		StorageDriver:     strings.ToLower(getEnv("STORAGE_DRIVER", "local")),
		UploadDir:         getEnv("UPLOAD_DIR", defaultUploadDir()),
		MinioEndpoint:     getEnv("MINIO_ENDPOINT", ""),
		MinioAccessKey:    getEnv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey:    getEnv("MINIO_SECRET_KEY", ""),
		MinioBucket:       getEnv("MINIO_BUCKET", "screenshots"),
		MinioUseSSL:       getEnvBool("MINIO_USE_SSL", false),
		MinioRegion:       getEnv("MINIO_REGION", ""),
		MaxUploadBytes:    getEnvInt64("MAX_UPLOAD_BYTES", models.MaxScreenshotSize),
		SeedDatabase:      getEnvBool("SEED_DATABASE", false),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "text"),
		OTLPEndpoint:      getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		ServiceName:       getEnv("SERVICE_NAME", "bug-tracker-api"),
	}
}

// defaultUploadDir prefers a mounted /uploads volume.
func defaultUploadDir() string {
	if info, err := os.Stat("/uploads"); err == nil && info.IsDir() {
		return "/uploads"
	}
	return "./uploads"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvInt64(key string, defaultValue int64) int64 {
	value, err := strconv.ParseInt(os.Getenv(key), 10, 64)
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
