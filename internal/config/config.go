package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Mail     MailConfig
	Auth     AuthConfig
	Scraper  ScraperConfig
}

type ServerConfig struct {
	Port        string
	Environment string
}

// IsProduction reports whether internal error detail should be withheld
// from API responses.
func (s ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}

type DatabaseConfig struct {
	URL            string
	ConnectTimeout time.Duration
	QueryTimeout   time.Duration
}

type RedisConfig struct {
	URL string
}

type MailConfig struct {
	Host       string
	Port       int
	User       string
	Password   string
	From       string
	Recipients []string
}

type AuthConfig struct {
	SecretKey         []byte
	AdminUser         string
	AdminPasswordHash string
}

type ScraperConfig struct {
	Script  string
	Timeout time.Duration
}

// Load returns application configuration loaded from environment variables
func Load() *Config {
	mailUser := os.Getenv("EMAIL_USER")

	return &Config{
		Server: ServerConfig{
			Port:        getEnvWithDefault("PORT", "5000"),
			Environment: getEnvWithDefault("APP_ENV", "development"),
		},
		Database: DatabaseConfig{
			URL:            os.Getenv("DATABASE_URL"),
			ConnectTimeout: time.Duration(getEnvInt("DB_CONNECT_TIMEOUT_SECONDS", 10)) * time.Second,
			QueryTimeout:   time.Duration(getEnvInt("DB_QUERY_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		Mail: MailConfig{
			Host:       getEnvWithDefault("SMTP_HOST", "smtp.gmail.com"),
			Port:       getEnvInt("SMTP_PORT", 587),
			User:       mailUser,
			Password:   os.Getenv("EMAIL_PASS"),
			From:       getEnvWithDefault("EMAIL_FROM", mailUser),
			Recipients: splitList(os.Getenv("ORDER_RECIPIENTS")),
		},
		Auth: AuthConfig{
			SecretKey:         []byte(getEnvWithDefault("SECRET_KEY", "default_secret_key")),
			AdminUser:         getEnvWithDefault("ADMIN_USER", "admin"),
			AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		},
		Scraper: ScraperConfig{
			Script:  getEnvWithDefault("SCRAPER_SCRIPT", "scripts/scraper.py"),
			Timeout: time.Duration(getEnvInt("SCRAPER_TIMEOUT_MINUTES", 10)) * time.Minute,
		},
	}
}

func getEnvWithDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
