package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Knowledge KnowledgeConfig
	Keys      APIKeys
	Ai        AIConfig
	Chat      ChatConfig
	Tracing   TracingConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string // empty disables forwarding of action events
}

type KnowledgeConfig struct {
	Path      string
	Watch     bool
	RulesPath string // optional YAML override for topics and intents
	Owner     string // profile owner the assistant speaks as
}

type APIKeys struct {
	GoogleGemini string
	HuggingFace  string
}

type AIConfig struct {
	LLMProvider        string // "gemini", "ollama" or "huggingface"
	LLMModel           string
	OllamaBaseURL      string
	HuggingFaceBaseURL string
	Timeout            time.Duration
}

type ChatConfig struct {
	MaxSections           int
	MaxResponseLength     int
	SessionTTL            time.Duration
	SupplementaryFollowUp bool
}

type TracingConfig struct {
	Enabled  bool
	Endpoint string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/assistant.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
		},
		Knowledge: KnowledgeConfig{
			Path:      getEnv("KNOWLEDGE_PATH", "data/knowledge.txt"),
			Watch:     getEnvAsBool("KNOWLEDGE_WATCH", true),
			RulesPath: getEnv("RULES_PATH", ""),
			Owner:     getEnv("PROFILE_OWNER", "Gaurav Kr Sah"),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			HuggingFace:  getEnv("HUGGINGFACE_API_KEY", ""),
		},
		Ai: AIConfig{
			LLMProvider:        getEnv("LLM_PROVIDER", "gemini"),
			LLMModel:           getEnv("LLM_MODEL", ""),
			OllamaBaseURL:      getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			HuggingFaceBaseURL: getEnv("HUGGINGFACE_BASE_URL", ""),
			Timeout:            getEnvAsDuration("LLM_TIMEOUT", 30*time.Second),
		},
		Chat: ChatConfig{
			MaxSections:           getEnvAsInt("CHAT_MAX_SECTIONS", 5),
			MaxResponseLength:     getEnvAsInt("CHAT_MAX_RESPONSE_LENGTH", 5000),
			SessionTTL:            getEnvAsDuration("CHAT_SESSION_TTL", time.Hour),
			SupplementaryFollowUp: getEnvAsBool("CHAT_SUPPLEMENTARY_FOLLOW_UP", false),
		},
		Tracing: TracingConfig{
			Enabled:  getEnvAsBool("OTEL_ENABLED", false),
			Endpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
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

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
