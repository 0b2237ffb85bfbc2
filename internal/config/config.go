package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the explicit application configuration passed to every component.
type Config struct {
	Port             string        `yaml:"port"`
	UploadDir        string        `yaml:"upload_dir"`
	ResultsDir       string        `yaml:"results_dir"`
	GoogleAPIKey     string        `yaml:"google_api_key"`
	MaxUploadBytes   int64         `yaml:"max_upload_bytes"`
	MaxQuestions     int           `yaml:"max_questions"`
	GenerateTimeout  time.Duration `yaml:"generate_timeout"`
	IsolateArtifacts bool          `yaml:"isolate_artifacts"`
	LogLevel         string        `yaml:"log_level"`
	SessionSecret    string        `yaml:"session_secret"`
	AllowedOrigins   []string      `yaml:"cors_allowed_origins"`
	DatabaseURL      string        `yaml:"database_url"`
	R2               R2Config      `yaml:"r2"`
}

// R2Config holds the Cloudflare R2 mirror settings. Mirroring is off unless all are set.
type R2Config struct {
	AccountID       string `yaml:"account_id"`
	Bucket          string `yaml:"bucket"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	PublicURL       string `yaml:"public_url"`
}

// Enabled reports whether every R2 setting is present.
func (r R2Config) Enabled() bool {
	return r.AccountID != "" && r.Bucket != "" && r.AccessKeyID != "" && r.SecretAccessKey != "" && r.PublicURL != ""
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Port:            "8080",
		UploadDir:       "uploads",
		ResultsDir:      "results",
		MaxUploadBytes:  32 << 20,
		MaxQuestions:    50,
		GenerateTimeout: 2 * time.Minute,
		LogLevel:        "info",
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// CONFIG_FILE (if any), then environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}
	cfg.applyEnv()

	if cfg.MaxQuestions < 1 {
		return Config{}, fmt.Errorf("max_questions must be at least 1, got %d", cfg.MaxQuestions)
	}
	if cfg.GenerateTimeout <= 0 {
		return Config{}, fmt.Errorf("generate_timeout must be positive, got %s", cfg.GenerateTimeout)
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Port = getEnvOrDefault("PORT", c.Port)
	c.UploadDir = getEnvOrDefault("UPLOAD_DIR", c.UploadDir)
	c.ResultsDir = getEnvOrDefault("RESULTS_DIR", c.ResultsDir)
	// GOOGLE_API_KEY is what the original deployment used; GEMINI_API_KEY is accepted too.
	c.GoogleAPIKey = getEnvOrDefault("GOOGLE_API_KEY", getEnvOrDefault("GEMINI_API_KEY", c.GoogleAPIKey))
	c.MaxUploadBytes = getEnvInt64OrDefault("MAX_UPLOAD_BYTES", c.MaxUploadBytes)
	c.MaxQuestions = int(getEnvInt64OrDefault("MAX_QUESTIONS", int64(c.MaxQuestions)))
	c.GenerateTimeout = getEnvDurationOrDefault("GENERATE_TIMEOUT", c.GenerateTimeout)
	c.IsolateArtifacts = getEnvBoolOrDefault("ISOLATE_ARTIFACTS", c.IsolateArtifacts)
	c.LogLevel = getEnvOrDefault("LOG_LEVEL", c.LogLevel)
	c.SessionSecret = getEnvOrDefault("SESSION_SECRET", c.SessionSecret)
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		c.AllowedOrigins = splitList(origins)
	}
	c.DatabaseURL = getEnvOrDefault("DATABASE_URL", c.DatabaseURL)

	c.R2.AccountID = getEnvOrDefault("CLOUDFLARE_ACCOUNT_ID", c.R2.AccountID)
	c.R2.Bucket = getEnvOrDefault("R2_BUCKET_NAME", c.R2.Bucket)
	c.R2.AccessKeyID = getEnvOrDefault("R2_ACCESS_KEY_ID", c.R2.AccessKeyID)
	c.R2.SecretAccessKey = getEnvOrDefault("R2_SECRET_ACCESS_KEY", c.R2.SecretAccessKey)
	c.R2.PublicURL = getEnvOrDefault("R2_PUBLIC_URL", c.R2.PublicURL)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
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
