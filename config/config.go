package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Admin      AdminConfig
	SMTP       SMTPConfig
	Cloudinary CloudinaryConfig
	Jobs       JobsConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// PublicBaseURL is the origin the hosted review pages live on; used to
	// build a business's review URL at creation time.
	PublicBaseURL string
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	Secret string
	Expiry time.Duration
	Issuer string
}

// AdminConfig is the platform administrator login. There is no admin table;
// the single admin account is configuration.
type AdminConfig struct {
	Email    string
	Password string
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

type JobsConfig struct {
	// ReconcileSpec is the cron spec for the nightly aggregate recompute.
	ReconcileSpec string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:          getenv("PORT", "8080"),
			Env:           getenv("APP_ENV", "development"),
			ReadTimeout:   10 * time.Second,
			WriteTimeout:  10 * time.Second,
			PublicBaseURL: getenv("PUBLIC_BASE_URL", "http://localhost:3000"),
		},
		Database: DatabaseConfig{
			DSN:             getenv("DATABASE_DSN", "reviewroute:reviewroute@tcp(localhost:3306)/reviewroute?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			Secret: getenv("JWT_SECRET", "change-me-in-production"),
			Expiry: 24 * time.Hour,
			Issuer: "reviewroute",
		},
		Admin: AdminConfig{
			Email:    getenv("ADMIN_EMAIL", "admin@reviewroute.com"),
			Password: getenv("ADMIN_PASSWORD", "admin"),
		},
		SMTP: SMTPConfig{
			Host:     getenv("SMTP_HOST", "localhost"),
			Port:     getenvInt("SMTP_PORT", 587),
			User:     getenv("SMTP_USER", ""),
			Password: getenv("SMTP_PASS", ""),
			From:     getenv("SMTP_FROM", "no-reply@reviewroute.com"),
		},
		Cloudinary: CloudinaryConfig{
			CloudName: getenv("CLOUDINARY_CLOUD_NAME", ""),
			APIKey:    getenv("CLOUDINARY_API_KEY", ""),
			APISecret: getenv("CLOUDINARY_API_SECRET", ""),
		},
		Jobs: JobsConfig{
			ReconcileSpec: getenv("RECONCILE_CRON", "0 3 * * *"),
		},
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
