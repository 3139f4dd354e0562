package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gosuda/unistay/internal/domain"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Server ServerConfig
	Redis  RedisConfig
	Gemini GeminiConfig
	Slack  SlackConfig
	Jobs   JobsConfig

	// Seed loads the example portfolio at startup. InitialPlan is the
	// starting tier either way.
	Seed        bool
	InitialPlan domain.PlanType
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CORSOrigins     []string
	RateLimitRPS    float64
	RateLimitBurst  int
}

// RedisConfig holds Redis connection settings. An empty Addr disables Redis
// and state events stay in-process.
type RedisConfig struct {
	Addr     string
	Password string //nolint:gosec // G117: Redis connection config
	DB       int
}

// Enabled reports whether a Redis address is configured.
func (c RedisConfig) Enabled() bool { return c.Addr != "" }

// GeminiConfig holds reminder drafting settings. Without an API key every
// draft is the fallback template.
type GeminiConfig struct {
	APIKey  string //nolint:gosec // G117: API key config
	Model   string
	BaseURL string
	Timeout time.Duration
}

// SlackConfig holds Slack integration settings.
type SlackConfig struct {
	BotToken      string
	SigningSecret string
	Channel       string
}

// JobsConfig holds background job settings.
type JobsConfig struct {
	DashboardRefresh time.Duration // 0 disables the job
}

// Load reads configuration from environment variables.
// Defaults are safe for local development only.
func Load() (*Config, error) {
	redisDB, err := getEnvInt("UNISTAY_REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	readTimeout, err := getEnvDuration("UNISTAY_SERVER_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	// The reminder draft call can take up to the Gemini timeout.
	writeTimeout, err := getEnvDuration("UNISTAY_SERVER_WRITE_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	shutdownTimeout, err := getEnvDuration("UNISTAY_SERVER_SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	rateRPS, err := getEnvFloat("UNISTAY_RATE_LIMIT_RPS", 20)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	rateBurst, err := getEnvInt("UNISTAY_RATE_LIMIT_BURST", 40)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	geminiTimeout, err := getEnvDuration("UNISTAY_GEMINI_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	refresh, err := getEnvDuration("UNISTAY_DASHBOARD_REFRESH", time.Minute)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	seed, err := getEnvBool("UNISTAY_SEED", true)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	initialPlan, err := domain.ParsePlan(getEnv("UNISTAY_PLAN", string(domain.PlanBasic)))
	if err != nil {
		return nil, fmt.Errorf("config.Load: UNISTAY_PLAN: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Addr:            getEnv("UNISTAY_SERVER_ADDR", ":8080"),
			ReadTimeout:     readTimeout,
			WriteTimeout:    writeTimeout,
			ShutdownTimeout: shutdownTimeout,
			CORSOrigins:     getEnvList("UNISTAY_CORS_ORIGINS", []string{"http://localhost:5173"}),
			RateLimitRPS:    rateRPS,
			RateLimitBurst:  rateBurst,
		},
		Redis: RedisConfig{
			Addr:     getEnv("UNISTAY_REDIS_ADDR", ""),
			Password: getEnv("UNISTAY_REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Gemini: GeminiConfig{
			APIKey:  getEnv("UNISTAY_GEMINI_API_KEY", ""),
			Model:   getEnv("UNISTAY_GEMINI_MODEL", "gemini-3-flash-preview"),
			BaseURL: getEnv("UNISTAY_GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
			Timeout: geminiTimeout,
		},
		Slack: SlackConfig{
			BotToken:      getEnv("UNISTAY_SLACK_BOT_TOKEN", ""),
			SigningSecret: getEnv("UNISTAY_SLACK_SIGNING_SECRET", ""),
			Channel:       getEnv("UNISTAY_SLACK_CHANNEL", ""),
		},
		Jobs: JobsConfig{
			DashboardRefresh: refresh,
		},
		Seed:        seed,
		InitialPlan: initialPlan,
	}

	err = cfg.validate()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	return cfg, nil
}

// validate checks required fields and value bounds.
func (c *Config) validate() error {
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("UNISTAY_SERVER_READ_TIMEOUT must be positive, got %s", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("UNISTAY_SERVER_WRITE_TIMEOUT must be positive, got %s", c.Server.WriteTimeout)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("UNISTAY_SERVER_SHUTDOWN_TIMEOUT must be positive, got %s", c.Server.ShutdownTimeout)
	}
	if c.Server.RateLimitRPS <= 0 {
		return fmt.Errorf("UNISTAY_RATE_LIMIT_RPS must be positive, got %g", c.Server.RateLimitRPS)
	}
	if c.Server.RateLimitBurst < 1 {
		return fmt.Errorf("UNISTAY_RATE_LIMIT_BURST must be >= 1, got %d", c.Server.RateLimitBurst)
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("UNISTAY_REDIS_DB must be >= 0, got %d", c.Redis.DB)
	}
	if c.Gemini.Timeout <= 0 {
		return fmt.Errorf("UNISTAY_GEMINI_TIMEOUT must be positive, got %s", c.Gemini.Timeout)
	}
	if c.Jobs.DashboardRefresh < 0 {
		return fmt.Errorf("UNISTAY_DASHBOARD_REFRESH must be >= 0, got %s", c.Jobs.DashboardRefresh)
	}

	// A bot token without a channel has nowhere to post.
	if c.Slack.BotToken != "" && c.Slack.Channel == "" {
		return errors.New("UNISTAY_SLACK_CHANNEL is required when UNISTAY_SLACK_BOT_TOKEN is set")
	}

	if c.Gemini.APIKey == "" {
		log.Warn().Msg("UNISTAY_GEMINI_API_KEY is not set; reminder drafts will use the fallback template")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as int: %w", key, v, err)
	}
	return n, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as float: %w", key, v, err)
	}
	return f, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parsing %s=%q as bool: %w", key, v, err)
	}
	return b, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as duration: %w", key, v, err)
	}
	return d, nil
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
