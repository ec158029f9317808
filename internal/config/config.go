package config

import (
	"os"
	"strconv"
	"time"
	_ "time/tzdata"
)

type Config struct {
	Environment string
	Port        string
	DatabaseURL string
	LogLevel    string

	// JWT
	JWTSecret         string
	AccessTokenExpiry time.Duration

	// List views
	Timezone          string
	DefaultDateFilter string
	DefaultPageSize   int
	MaxPageSize       int
	PublicBaseURL     string

	// List cache (optional)
	RedisAddr    string
	ListCacheTTL time.Duration

	// Google Drive exports (optional)
	GDriveCredentialsPath string
	GDriveTokenPath       string
	GDriveFolderID        string

	// Bootstrap admin, created on startup in dev when missing
	AdminEmail    string
	AdminPassword string
}

func Load() *Config {
	return &Config{
		Environment: getEnv("ENVIRONMENT", "dev"),
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		JWTSecret:         getEnv("JWT_SECRET", ""),
		AccessTokenExpiry: getDuration("ACCESS_TOKEN_EXPIRY", 12*time.Hour),

		Timezone:          getEnv("TIMEZONE", "UTC"),
		DefaultDateFilter: getEnv("DEFAULT_DATE_FILTER", "today"),
		DefaultPageSize:   getInt("DEFAULT_PAGE_SIZE", 10),
		MaxPageSize:       getInt("MAX_PAGE_SIZE", 100),
		PublicBaseURL:     getEnv("PUBLIC_BASE_URL", "http://localhost:3000"),

		RedisAddr:    getEnv("REDIS_ADDR", ""),
		ListCacheTTL: getDuration("LIST_CACHE_TTL", 30*time.Second),

		GDriveCredentialsPath: getEnv("GDRIVE_CREDENTIALS_PATH", ""),
		GDriveTokenPath:       getEnv("GDRIVE_TOKEN_PATH", ""),
		GDriveFolderID:        getEnv("GDRIVE_FOLDER_ID", ""),

		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
	}
}

// Location returns the timezone used to resolve quick date filters,
// falling back to UTC when the name is unknown
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DriveEnabled reports whether all Google Drive settings are present
func (c *Config) DriveEnabled() bool {
	return c.GDriveCredentialsPath != "" && c.GDriveTokenPath != "" && c.GDriveFolderID != ""
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
