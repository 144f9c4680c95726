package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ServerPort     string   `yaml:"server_port"`
	Environment    string   `yaml:"environment"`
	LogLevel       string   `yaml:"log_level"`
	AllowedOrigins []string `yaml:"allowed_origins"`

	AIProvider    string        `yaml:"ai_provider"` // groq | gemini
	GroqAPIKey    string        `yaml:"groq_api_key"`
	GroqBaseURL   string        `yaml:"groq_base_url"`
	GeminiAPIKey  string        `yaml:"gemini_api_key"`
	AIModel       string        `yaml:"ai_model"`
	AITemperature float64       `yaml:"ai_temperature"`
	AIMaxTokens   int           `yaml:"ai_max_tokens"`
	AITopP        float64       `yaml:"ai_top_p"`
	AITimeout     time.Duration `yaml:"ai_timeout"`

	StoreBackend   string `yaml:"store_backend"` // memory | minio | mongo
	MinIOEndpoint  string `yaml:"minio_endpoint"`
	MinIOAccessKey string `yaml:"minio_access_key"`
	MinIOSecretKey string `yaml:"minio_secret_key"`
	MinIOBucket    string `yaml:"minio_bucket"`
	MinIOUseSSL    bool   `yaml:"minio_use_ssl"`
	MongoURI       string `yaml:"mongo_uri"`
	MongoDatabase  string `yaml:"mongo_database"`

	CacheTTL         time.Duration `yaml:"cache_ttl"`
	ReminderInterval time.Duration `yaml:"reminder_interval"`
	ReminderWindow   time.Duration `yaml:"reminder_window"`
}

func Defaults() *Config {
	return &Config{
		ServerPort:       "5000",
		Environment:      "development",
		LogLevel:         "info",
		AllowedOrigins:   []string{"*"},
		AIProvider:       "groq",
		GroqBaseURL:      "https://api.groq.com/openai/v1",
		AITemperature:    0.6,
		AIMaxTokens:      4096,
		AITopP:           1,
		AITimeout:        2 * time.Minute,
		StoreBackend:     "memory",
		MinIOEndpoint:    "minio:9000",
		MinIOAccessKey:   "minioadmin",
		MinIOSecretKey:   "minioadmin",
		MinIOBucket:      "study-plans",
		MongoURI:         "mongodb://localhost:27017",
		MongoDatabase:    "study_planner",
		CacheTTL:         10 * time.Minute,
		ReminderInterval: time.Minute,
		ReminderWindow:   time.Minute,
	}
}

// Load reads configuration from the environment on top of the defaults.
func Load() *Config {
	cfg := Defaults()
	cfg.applyEnvOverrides()
	return cfg
}

// LoadFile reads a YAML file (if path is set) and then applies environment overrides.
func LoadFile(path string) (*Config, error) {
	cfg := Defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	c.ServerPort = getEnv("PORT", getEnv("SERVER_PORT", c.ServerPort))
	c.Environment = getEnv("ENVIRONMENT", c.Environment)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		c.AllowedOrigins = splitList(origins)
	}

	c.GroqAPIKey = getEnv("GROQ_API_KEY", c.GroqAPIKey)
	c.GroqBaseURL = getEnv("GROQ_BASE_URL", c.GroqBaseURL)
	c.GeminiAPIKey = getEnv("GEMINI_API_KEY", c.GeminiAPIKey)
	if p := os.Getenv("AI_PROVIDER"); p != "" {
		c.AIProvider = strings.ToLower(p)
	} else if c.GroqAPIKey == "" && c.GeminiAPIKey != "" {
		c.AIProvider = "gemini"
	}
	c.AIModel = getEnv("AI_MODEL", c.AIModel)
	c.AITemperature = getEnvFloat("AI_TEMPERATURE", c.AITemperature)
	c.AIMaxTokens = getEnvInt("AI_MAX_TOKENS", c.AIMaxTokens)
	c.AITopP = getEnvFloat("AI_TOP_P", c.AITopP)
	c.AITimeout = getEnvSeconds("AI_TIMEOUT_SECONDS", c.AITimeout)

	c.StoreBackend = strings.ToLower(getEnv("STORE_BACKEND", c.StoreBackend))
	c.MinIOEndpoint = getEnv("MINIO_ENDPOINT", c.MinIOEndpoint)
	c.MinIOAccessKey = getEnv("MINIO_ACCESS_KEY", c.MinIOAccessKey)
	c.MinIOSecretKey = getEnv("MINIO_SECRET_KEY", c.MinIOSecretKey)
	c.MinIOBucket = getEnv("MINIO_BUCKET", c.MinIOBucket)
	if v, err := strconv.ParseBool(os.Getenv("MINIO_USE_SSL")); err == nil {
		c.MinIOUseSSL = v
	}
	c.MongoURI = getEnv("MONGO_URI", c.MongoURI)
	c.MongoDatabase = getEnv("MONGO_DATABASE", c.MongoDatabase)

	if minutes := getEnvInt("CACHE_TTL_MINUTES", 0); minutes > 0 {
		c.CacheTTL = time.Duration(minutes) * time.Minute
	}
	c.ReminderInterval = getEnvSeconds("REMINDER_INTERVAL_SECONDS", c.ReminderInterval)
	c.ReminderWindow = getEnvSeconds("REMINDER_WINDOW_SECONDS", c.ReminderWindow)

	// a window shorter than the poll interval lets block ends fall between ticks
	if c.ReminderWindow < c.ReminderInterval {
		c.ReminderWindow = c.ReminderInterval
	}
}

// APIKey returns the credential for the selected provider.
func (c *Config) APIKey() string {
	if c.AIProvider == "gemini" {
		return c.GeminiAPIKey
	}
	return c.GroqAPIKey
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if f, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return f
	}
	return defaultValue
}

func getEnvSeconds(key string, defaultValue time.Duration) time.Duration {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
