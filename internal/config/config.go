package config

import (
	"os"
	"strconv"
	"strings"
)

// Server configuration
type ServerConfig struct {
	Port string
	Host string
	Env  string
}

// MongoDB configuration
type MongoConfig struct {
	URI      string
	Database string
}

// System user configuration
type SystemUserConfig struct {
	Name  string
	Email string
}

// AI provider configuration
type AIConfig struct {
	BaseURL    string
	APIKey     string
	Model      string
	TimeoutSec int
}

// Mock payment gateway configuration
type PaymentConfig struct {
	SuccessRate   float64
	MinDelayMs    int
	MaxDelayMs    int
	Currency      string
	WebhookSecret string
}

// Usage monitor configuration
type UsageMonitorConfig struct {
	Enabled     bool
	IntervalSec int
}

// Config holds all application configuration
type Config struct {
	Server                ServerConfig
	Mongo                 MongoConfig
	SystemUser            SystemUserConfig
	AI                    AIConfig
	Payment               PaymentConfig
	UsageMonitor          UsageMonitorConfig
	APIKeyCacheTTLSeconds int
}

// Default configuration values
const (
	DefaultServerPort      = "8094"
	DefaultServerHost      = ""
	DefaultServerEnv       = "development"
	DefaultMongoURI        = "mongodb://localhost:27017/datarw"
	DefaultMongoDB         = "datarw"
	DefaultSystemUserName  = "System"
	DefaultSystemUserEmail = "system@local"
	DefaultAIBaseURL       = "https://api.openai.com/v1/chat/completions"
	DefaultAIModel         = "gpt-4o-mini"
	DefaultAITimeoutSec    = 30
	DefaultPaymentCurrency = "USD"
	// Mock gateway defaults
	DefaultPaymentSuccessRate = 0.9
	DefaultPaymentMinDelayMs  = 2000
	DefaultPaymentMaxDelayMs  = 5000
	// Usage monitor defaults
	DefaultUsageMonitorEnabled     = true
	DefaultUsageMonitorIntervalSec = 300
	DefaultAPIKeyCacheTTLSeconds   = 3600 // 1 hour
	// Pagination defaults
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Request body limits
const (
	MaxNameLength        = 100
	MaxEmailLength       = 254
	MaxDescriptionLength = 2000
	MaxQuestionsPerCall  = 30
)

// New returns a new Config with default values
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", DefaultServerPort),
			Host: getEnv("SERVER_HOST", DefaultServerHost),
			Env:  getEnv("APP_ENV", DefaultServerEnv),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", DefaultMongoURI),
			Database: getEnv("MONGO_DB", DefaultMongoDB),
		},
		SystemUser: SystemUserConfig{
			Name:  getEnv("SYSTEM_USER_NAME", DefaultSystemUserName),
			Email: getEnv("SYSTEM_USER_EMAIL", DefaultSystemUserEmail),
		},
		AI: AIConfig{
			BaseURL:    getEnv("AI_BASE_URL", DefaultAIBaseURL),
			APIKey:     getEnv("AI_API_KEY", ""),
			Model:      getEnv("AI_MODEL", DefaultAIModel),
			TimeoutSec: getEnvInt("AI_TIMEOUT_SEC", DefaultAITimeoutSec),
		},
		Payment: PaymentConfig{
			SuccessRate:   getEnvFloat("PAYMENT_SUCCESS_RATE", DefaultPaymentSuccessRate),
			MinDelayMs:    getEnvInt("PAYMENT_MIN_DELAY_MS", DefaultPaymentMinDelayMs),
			MaxDelayMs:    getEnvInt("PAYMENT_MAX_DELAY_MS", DefaultPaymentMaxDelayMs),
			Currency:      getEnv("PAYMENT_CURRENCY", DefaultPaymentCurrency),
			WebhookSecret: getEnv("PAYMENT_WEBHOOK_SECRET", ""),
		},
		UsageMonitor: UsageMonitorConfig{
			Enabled:     getEnvBool("USAGE_MONITOR_ENABLED", DefaultUsageMonitorEnabled),
			IntervalSec: getEnvInt("USAGE_MONITOR_INTERVAL_SEC", DefaultUsageMonitorIntervalSec),
		},
		APIKeyCacheTTLSeconds: getEnvInt("API_KEY_CACHE_TTL_SECONDS", DefaultAPIKeyCacheTTLSeconds),
	}
}

// Address returns the server address string
func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

// IsDevelopment reports whether the server runs in a development environment
func (c *ServerConfig) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "dev"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		switch strings.ToLower(value) {
		case "1", "true", "t", "yes", "y", "on":
			return true
		case "0", "false", "f", "no", "n", "off":
			return false
		}
	}
	return defaultValue
}
