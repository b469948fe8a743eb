package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"APP_PORT", "DATA_DIR", "INTENTS_PATH", "RESPONSES_PATH", "KNOWLEDGE_BASE_PATH",
		"EMBEDDER_PROVIDER", "GENERATOR_PROVIDER", "GENERATOR_TIMEOUT", "REPLY_CACHE_TTL",
		"REDIS_DB", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AppPort != "3000" {
		t.Errorf("AppPort = %q", cfg.AppPort)
	}
	if cfg.Data.Intents != filepath.Join("data", "intents.json") {
		t.Errorf("Intents path = %q", cfg.Data.Intents)
	}
	if cfg.EmbedderProvider != ProviderHashing || cfg.GeneratorProvider != ProviderHuggingFace {
		t.Errorf("providers = %q, %q", cfg.EmbedderProvider, cfg.GeneratorProvider)
	}
	if cfg.GeneratorTimeout != 15*time.Second || cfg.ReplyCacheTTL != 10*time.Minute {
		t.Errorf("durations = %v, %v", cfg.GeneratorTimeout, cfg.ReplyCacheTTL)
	}
	if cfg.RateLimitRPS != 50 || cfg.RateLimitBurst != 100 {
		t.Errorf("rate limit = %v/%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATA_DIR", "/srv/bot")
	t.Setenv("KNOWLEDGE_BASE_PATH", "s3://bot-data/kb.json")
	t.Setenv("GENERATOR_PROVIDER", "gemini")
	t.Setenv("GENERATOR_TIMEOUT", "2s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Data.Intents != "/srv/bot/intents.json" {
		t.Errorf("Intents path = %q", cfg.Data.Intents)
	}
	if cfg.Data.KnowledgeBase != "s3://bot-data/kb.json" {
		t.Errorf("KnowledgeBase path = %q", cfg.Data.KnowledgeBase)
	}
	if cfg.GeneratorProvider != ProviderGemini || cfg.GeneratorTimeout != 2*time.Second {
		t.Errorf("generator = %q %v", cfg.GeneratorProvider, cfg.GeneratorTimeout)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string][2]string{
		"bad timeout":       {"GENERATOR_TIMEOUT", "soon"},
		"bad redis db":      {"REDIS_DB", "zero"},
		"unknown embedder":  {"EMBEDDER_PROVIDER", "word2vec"},
		"unknown generator": {"GENERATOR_PROVIDER", "local"},
		"bad rate":          {"RATE_LIMIT_RPS", "fast"},
	}
	for name, kv := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%s", kv[0], kv[1])
			}
		})
	}
}
