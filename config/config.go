package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	OpenAIKey      string
	OpenAIBaseURL  string
	ChatModel      string
	EmbeddingModel string
	EmbeddingDim   int

	GeminiKey  string
	JudgeModel string

	MilvusAddr     string
	CollectionName string
	TopK           int

	Shell         string
	WorkspaceDir  string
	MaxSteps      int
	TranscriptDir string
	LLMRPS        float64

	WeatherURL      string
	WeatherCacheTTL time.Duration

	LogLevel string
	LogJSON  bool
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		OpenAIKey:      getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:  getEnv("OPENAI_BASE_URL", ""),
		ChatModel:      getEnv("CHAT_MODEL", "gpt-4.1-mini"),
		EmbeddingModel: getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
		EmbeddingDim:   getEnvInt("EMBEDDING_DIM", 1536),

		GeminiKey:  getEnv("GEMINI_API_KEY", ""),
		JudgeModel: getEnv("JUDGE_MODEL", "gemini-1.5-flash"),

		MilvusAddr:     getEnv("MILVUS_ADDR", "localhost:19530"),
		CollectionName: getEnv("COLLECTION_NAME", "rag_application"),
		TopK:           getEnvInt("RAG_TOP_K", 3),

		Shell:         getEnv("AGENT_SHELL", ""),
		WorkspaceDir:  getEnv("WORKSPACE_DIR", "."),
		MaxSteps:      getEnvInt("MAX_STEPS", 50),
		TranscriptDir: getEnv("TRANSCRIPT_DIR", ""),
		LLMRPS:        getEnvFloat("LLM_RPS", 0),

		WeatherURL:      strings.TrimRight(getEnv("WEATHER_URL", "https://wttr.in"), "/"),
		WeatherCacheTTL: getEnvDuration("WEATHER_CACHE_TTL", 10*time.Minute),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogJSON:  getEnvBool("LOG_JSON", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks values every command needs. API keys are checked by the
// commands that use them.
func (c *Config) Validate() error {
	if c.ChatModel == "" {
		return errors.New("CHAT_MODEL cannot be empty")
	}
	if c.EmbeddingDim <= 0 {
		return errors.New("EMBEDDING_DIM must be > 0")
	}
	if c.TopK <= 0 {
		return errors.New("RAG_TOP_K must be > 0")
	}
	if c.MaxSteps < 0 {
		return errors.New("MAX_STEPS cannot be negative")
	}
	if c.LLMRPS < 0 {
		return errors.New("LLM_RPS cannot be negative")
	}
	if c.CollectionName == "" {
		return errors.New("COLLECTION_NAME cannot be empty")
	}
	if c.WeatherCacheTTL < 0 {
		return errors.New("WEATHER_CACHE_TTL cannot be negative")
	}
	return nil
}

func (c *Config) RequireOpenAI() error {
	if c.OpenAIKey == "" {
		return errors.New("OPENAI_API_KEY is not set")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return fallback
	}
	return f
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}
