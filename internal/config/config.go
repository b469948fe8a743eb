package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"FintechAgent/pkg/dataset"
)

const (
	ProviderHashing     = "hashing"
	ProviderGemini      = "gemini"
	ProviderOpenAI      = "openai"
	ProviderHuggingFace = "huggingface"
)

// Config is the process configuration read from the environment.
type Config struct {
	AppPort           string
	AppEnv            string
	Data              dataset.Paths
	EmbedderProvider  string
	GeneratorProvider string
	GeneratorTimeout  time.Duration
	RedisAddress      string
	RedisPassword     string
	RedisDB           int
	ReplyCacheTTL     time.Duration
	RateLimitRPS      float64
	RateLimitBurst    int
}

// Load reads the configuration. Unset values take their defaults; values
// that are set but malformed are errors.
func Load() (Config, error) {
	cfg := Config{
		AppPort:           getEnv("APP_PORT", "3000"),
		AppEnv:            getEnv("APP_ENV", "development"),
		EmbedderProvider:  getEnv("EMBEDDER_PROVIDER", ProviderHashing),
		GeneratorProvider: getEnv("GENERATOR_PROVIDER", ProviderHuggingFace),
		RedisAddress:      os.Getenv("REDIS_ADDRESS"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
	}

	dataDir := getEnv("DATA_DIR", "./data")
	defaults := dataset.PathsIn(dataDir)
	cfg.Data = dataset.Paths{
		Intents:       getEnv("INTENTS_PATH", defaults.Intents),
		Responses:     getEnv("RESPONSES_PATH", defaults.Responses),
		KnowledgeBase: getEnv("KNOWLEDGE_BASE_PATH", defaults.KnowledgeBase),
	}

	var err error
	if cfg.GeneratorTimeout, err = getDuration("GENERATOR_TIMEOUT", 15*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.ReplyCacheTTL, err = getDuration("REPLY_CACHE_TTL", 10*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitBurst, err = getInt("RATE_LIMIT_BURST", 100); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitRPS, err = getFloat("RATE_LIMIT_RPS", 50); err != nil {
		return Config{}, err
	}

	switch cfg.EmbedderProvider {
	case ProviderHashing, ProviderGemini, ProviderOpenAI:
	default:
		return Config{}, fmt.Errorf("unknown EMBEDDER_PROVIDER %q", cfg.EmbedderProvider)
	}
	switch cfg.GeneratorProvider {
	case ProviderHuggingFace, ProviderGemini, ProviderOpenAI:
	default:
		return Config{}, fmt.Errorf("unknown GENERATOR_PROVIDER %q", cfg.GeneratorProvider)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}

func getFloat(key string, fallback float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}
