package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAccessSecret   = "change-me-access-secret"
	defaultRefreshSecret  = "change-me-refresh-secret"
	defaultRecoverySecret = "change-me-recovery-secret"
)

type Config struct {
	Environment string
	LogLevel    string
	Server      ServerConfig
	Database    DatabaseConfig
	JWT         JWTConfig
	CORS        CORSConfig
	Redis       RedisConfig
	Auth        AuthConfig
	Inventory   InventoryConfig
}

type ServerConfig struct {
	Port    string
	AppName string
}

type DatabaseConfig struct {
	URL          string
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
	AutoMigrate  bool
}

type JWTConfig struct {
	AccessSecret   string
	RefreshSecret  string
	RecoverySecret string
	AccessTTL      time.Duration
	RefreshTTL     time.Duration
	RecoveryTTL    time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

// RedisConfig is optional; an empty Addr keeps token revocation in Postgres.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AuthConfig struct {
	RedirectURL     string
	RateLimitPerMin int
	RateLimitBurst  int
}

type InventoryConfig struct {
	LowStockThreshold float64
}

func Load() (*Config, error) {
	// .env is optional; real env vars win.
	_ = godotenv.Load()

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Server: ServerConfig{
			Port:    getEnv("PORT", "3000"),
			AppName: getEnv("APP_NAME", "Papelaria API"),
		},
		Database: DatabaseConfig{
			URL:          getEnv("DATABASE_URL", ""),
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Name:         getEnv("DB_NAME", "postgres"),
			SSLMode:      getEnv("DB_SSL_MODE", "require"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			MaxLifetime:  getEnvAsDuration("DB_MAX_LIFETIME", time.Hour),
			AutoMigrate:  getEnvAsBool("AUTO_MIGRATE", false),
		},
		JWT: JWTConfig{
			AccessSecret:   getEnv("JWT_SECRET", defaultAccessSecret),
			RefreshSecret:  getEnv("JWT_REFRESH_SECRET", defaultRefreshSecret),
			RecoverySecret: getEnv("JWT_RECOVERY_SECRET", defaultRecoverySecret),
			AccessTTL:      15 * time.Minute,
			RefreshTTL:     30 * 24 * time.Hour,
			RecoveryTTL:    getEnvAsDuration("JWT_RECOVERY_TTL", time.Hour),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{
				"http://localhost:5173",
				"https://papelaria.nebulaweb.com.br",
			}),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			RedirectURL:     getEnv("REDIRECT_URL", "http://localhost:5173"),
			RateLimitPerMin: getEnvAsInt("AUTH_RATE_LIMIT_PER_MIN", 20),
			RateLimitBurst:  getEnvAsInt("AUTH_RATE_LIMIT_BURST", 5),
		},
		Inventory: InventoryConfig{
			LowStockThreshold: getEnvAsFloat("LOW_STOCK_THRESHOLD", 10),
		},
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	j := c.JWT
	if j.AccessSecret == j.RefreshSecret || j.AccessSecret == j.RecoverySecret || j.RefreshSecret == j.RecoverySecret {
		return fmt.Errorf("JWT_SECRET, JWT_REFRESH_SECRET and JWT_RECOVERY_SECRET must differ")
	}
	if c.Environment == "production" {
		if j.AccessSecret == defaultAccessSecret || j.RefreshSecret == defaultRefreshSecret || j.RecoverySecret == defaultRecoverySecret {
			return fmt.Errorf("JWT secrets must be changed in production")
		}
		if c.Database.URL == "" && c.Database.Password == "" {
			return fmt.Errorf("database password is required in production")
		}
	}
	return nil
}

// DSN prefers DATABASE_URL (the Supabase connection string) over DB_* parts.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.ToLower(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
