package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	BotToken    string
	AdminIDs    []int64
	ClubChatID  int64
	PasswordTTL time.Duration
	Database    DatabaseConfig
	RateLimit   RateLimitConfig
	Notify      NotifyConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

// RateLimitConfig holds per-category sliding-window quotas
type RateLimitConfig struct {
	GeneralMax         int
	GeneralWindow      time.Duration
	RegistrationMax    int
	RegistrationWindow time.Duration
	SearchMax          int
	SearchWindow       time.Duration
	CallbackMax        int
	CallbackWindow     time.Duration
	SweepInterval      time.Duration
}

// NotifyConfig toggles broadcast notification categories
type NotifyConfig struct {
	NewMember     bool
	NewCar        bool
	NewInvitation bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	adminIDs, err := parseAdminIDs(os.Getenv("ADMIN_IDS"))
	if err != nil {
		return nil, fmt.Errorf("invalid ADMIN_IDS: %w", err)
	}

	cfg := &Config{
		BotToken:    os.Getenv("BOT_TOKEN"),
		AdminIDs:    adminIDs,
		ClubChatID:  getEnvInt64("CLUB_CHAT_ID", 0),
		PasswordTTL: getEnvDuration("PASSWORD_TTL", 10*time.Minute),
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "avtoclub"),
			User:     getEnv("DB_USER", "avtoclub"),
			Password: os.Getenv("DB_PASSWORD"),
		},
		RateLimit: RateLimitConfig{
			GeneralMax:         getEnvInt("RATE_GENERAL_MAX", 20),
			GeneralWindow:      getEnvDuration("RATE_GENERAL_WINDOW", time.Minute),
			RegistrationMax:    getEnvInt("RATE_REGISTRATION_MAX", 5),
			RegistrationWindow: getEnvDuration("RATE_REGISTRATION_WINDOW", time.Minute),
			SearchMax:          getEnvInt("RATE_SEARCH_MAX", 10),
			SearchWindow:       getEnvDuration("RATE_SEARCH_WINDOW", time.Minute),
			CallbackMax:        getEnvInt("RATE_CALLBACK_MAX", 30),
			CallbackWindow:     getEnvDuration("RATE_CALLBACK_WINDOW", time.Minute),
			SweepInterval:      getEnvDuration("RATE_SWEEP_INTERVAL", 5*time.Minute),
		},
		Notify: NotifyConfig{
			NewMember:     getEnvBool("NOTIFY_NEW_MEMBER", true),
			NewCar:        getEnvBool("NOTIFY_NEW_CAR", true),
			NewInvitation: getEnvBool("NOTIFY_NEW_INVITATION", true),
		},
	}

	// Validate required fields
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}
	if cfg.Database.Password == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}

	return cfg, nil
}

// DSN returns PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
	)
}

// IsAdmin reports whether the Telegram user is a configured administrator
func (c *Config) IsAdmin(userID int64) bool {
	for _, id := range c.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func parseAdminIDs(raw string) ([]int64, error) {
	if raw == "" {
		return nil, nil
	}

	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad id %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
