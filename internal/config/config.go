package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Backend is the generation strategy that answers chat turns.
// It is resolved once at startup and passed by value afterwards.
type Backend string

const (
	BackendDemo      Backend = "demo"
	BackendLocalOnly Backend = "ollama"
	BackendCloud     Backend = "gemini"
)

type Config struct {
	App       AppConfig
	Keys      APIKeys
	Ai        AIConfig
	Knowledge KnowledgeConfig
	Events    EventsConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	StaticDir          string
}

type APIKeys struct {
	GoogleGemini string
	GoogleAPIKey string // only reported by the health probe
}

type AIConfig struct {
	Demo      bool
	LocalOnly bool

	GeminiModel          string
	GeminiEmbeddingModel string
	EmbeddingProvider    string // "gemini" or "ollama"

	OllamaBaseURL        string
	OllamaModel          string
	OllamaEmbeddingModel string
	OllamaPath           string
	LocalRuntime         string // "http" or "cli"

	BackendTimeout time.Duration
}

type KnowledgeConfig struct {
	AutoLoad        bool
	MaxChunksPerDoc int
	Dir             string // optional override of the embedded documents
}

type EventsConfig struct {
	Topic    string
	NatsURL  string
	RedisURL string
}

// Backend resolves the active backend. Demo wins over local-only.
func (c *Config) Backend() Backend {
	switch {
	case c.Ai.Demo:
		return BackendDemo
	case c.Ai.LocalOnly:
		return BackendLocalOnly
	default:
		return BackendCloud
	}
}

// HasGeminiKey reports whether any Google credential is present.
func (c *Config) HasGeminiKey() bool {
	return c.Keys.GoogleGemini != "" || c.Keys.GoogleAPIKey != ""
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	ollamaPath := getEnv("OLLAMA_PATH", "")
	localRuntime := getEnv("LOCAL_RUNTIME", "http")
	if ollamaPath != "" {
		localRuntime = "cli"
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			StaticDir:          getEnv("STATIC_DIR", "static"),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GEMINI_API_KEY", ""),
			GoogleAPIKey: getEnv("GOOGLE_API_KEY", ""),
		},
		Ai: AIConfig{
			Demo:                 isTruthy(getEnv("DEMO_MOCK", "")),
			LocalOnly:            isTruthy(getEnv("LOCAL_ONLY", "0")),
			GeminiModel:          getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
			GeminiEmbeddingModel: getEnv("GEMINI_EMBEDDING_MODEL", "text-embedding-004"),
			EmbeddingProvider:    getEnv("EMBEDDING_PROVIDER", "gemini"),
			OllamaBaseURL:        getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:          strings.TrimSpace(getEnv("OLLAMA_MODEL", "llama3.2:3b")),
			OllamaEmbeddingModel: getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			OllamaPath:           ollamaPath,
			LocalRuntime:         localRuntime,
			BackendTimeout:       getEnvAsDuration("BACKEND_TIMEOUT", 120*time.Second),
		},
		Knowledge: KnowledgeConfig{
			AutoLoad:        !isFalsy(getEnv("AUTO_LOAD_KB", "1")),
			MaxChunksPerDoc: getEnvAsInt("KB_MAX_CHUNKS_PER_DOC", 40),
			Dir:             getEnv("KB_DIR", ""),
		},
		Events: EventsConfig{
			Topic:    getEnv("EVENTS_TOPIC", "CHAT_EVENTS"),
			NatsURL:  getEnv("NATS_URL", ""),
			RedisURL: getEnv("REDIS_URL", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil && value > 0 {
		return value
	}
	return fallback
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func isFalsy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "0", "false", "no", "off":
		return true
	}
	return false
}
