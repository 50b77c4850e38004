package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBPath     string

	// JWT
	JWTSecret        string
	JWTExpirationDur time.Duration

	// Ops endpoints (job triggers)
	PipelineAPIKey string

	// Scheduler
	SchedulerEnabled    bool
	SchedulerTimezone   *time.Location
	SchedulerWorkers    int
	BudgetJobSpec       string
	GoalJobSpec         string
	SubscriptionJobSpec string
	CleanupJobSpec      string
	ReminderWindow      time.Duration

	// Notification delivery
	AMQPURL      string
	AMQPExchange string
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		// Database
		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "flesk"),
		DBPassword: getEnv("DB_PASSWORD", "flesk"),
		DBName:     getEnv("DB_NAME", "flesk"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		DBPath:     getEnv("DB_PATH", "flesk.db"),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),

		PipelineAPIKey: getEnv("PIPELINE_API_KEY", ""),

		// Scheduler
		SchedulerEnabled:    getBool("SCHEDULER_ENABLED", true),
		SchedulerWorkers:    getInt("SCHEDULER_WORKERS", 4),
		BudgetJobSpec:       getEnv("BUDGET_JOB_SPEC", "0 0 * * *"),
		GoalJobSpec:         getEnv("GOAL_JOB_SPEC", "0 0 * * *"),
		SubscriptionJobSpec: getEnv("SUBSCRIPTION_JOB_SPEC", "0 8 * * *"),
		CleanupJobSpec:      getEnv("CLEANUP_JOB_SPEC", "30 0 * * *"),
		ReminderWindow:      time.Duration(getInt("REMINDER_WINDOW_DAYS", 3)) * 24 * time.Hour,

		// Notification delivery
		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "flesk.notifications"),
		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getInt("SMTP_PORT", 587),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:     getEnv("SMTP_FROM", "no-reply@flesk.app"),
	}

	// Parse JWT expiration duration
	expStr := getEnv("JWT_EXPIRES_IN", "24h")
	expDur, err := time.ParseDuration(expStr)
	if err != nil {
		log.Printf("Warning: invalid JWT_EXPIRES_IN value '%s', falling back to 24h\n", expStr)
		expDur = 24 * time.Hour
	}
	config.JWTExpirationDur = expDur

	tz := getEnv("SCHEDULER_TIMEZONE", "UTC")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("Warning: invalid SCHEDULER_TIMEZONE value '%s', falling back to UTC\n", tz)
		loc = time.UTC
	}
	config.SchedulerTimezone = loc

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// Set overrides the process-wide configuration. Intended for tests.
func Set(c *Config) {
	appConfig = c
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		log.Printf("Warning: invalid %s value '%s', falling back to %d\n", key, raw, defaultValue)
		return defaultValue
	}
	return v
}

func getBool(key string, defaultValue bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "":
		return defaultValue
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		log.Printf("Warning: invalid %s value '%s', falling back to %t\n", key, os.Getenv(key), defaultValue)
		return defaultValue
	}
}
