package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	// DataDir is the public root that deployed projects live under.
	// DataTmpDir holds staging artifacts and the token cache.
	DataDir    string
	DataTmpDir string

	// Domain is the public URL prefix deployed projects are reachable at.
	Domain string

	MaxFileSize    int64 // bytes
	TokenCacheFile string
	RegistryFile   string
	TokenTTL       time.Duration

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPFromName string
	SMTPUsername string
	SMTPPassword string
	SMTPStartTLS bool // false means implicit TLS on connect
	SMTPTimeout  time.Duration

	AllowedOrigins []string // CORS allowed origins
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "8000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		DataDir:    getEnv("DATA_DIR", "./data"),
		DataTmpDir: getEnv("DATA_TMP_DIR", "./data-tmp"),

		Domain: getEnv("DOMAIN", "http://localhost:8000"),

		MaxFileSize:    getEnvInt64("MAX_FILE_SIZE", 5*1024*1024),
		TokenCacheFile: getEnv("VERIFICATION_CACHE_FILE", "verification_cache.json"),
		RegistryFile:   getEnv("PROJECT_REGISTRY_FILE", ".projects.json"),
		TokenTTL:       time.Duration(getEnvInt("VERIFICATION_EXPIRY_MINUTES", 10)) * time.Minute,

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "1025"),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@example.com"),
		SMTPFromName: getEnv("SMTP_FROM_NAME", "Share Project"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPStartTLS: getEnvBool("SMTP_STARTTLS", true),
		SMTPTimeout:  time.Duration(getEnvInt("SMTP_TIMEOUT_SECONDS", 10)) * time.Second,

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
