package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Keys     APIKeys
	Ai       AIConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Engine   EngineConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	EventLogFilePath   string
	CorsAllowedOrigins string
	NatsURL            string
	CompletedTopic     string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type APIKeys struct {
	Anthropic    string
	OpenAI       string
	GoogleGemini string
}

type AIConfig struct {
	LLMProvider      string // "anthropic", "openai", "gemini", "ollama"
	LLMModel         string
	OpenAIBaseURL    string
	OllamaBaseURL    string
	Timeout          time.Duration
	ReactionMaxToken int
	DebriefMaxToken  int
}

type RedisConfig struct {
	URL     string
	Enabled bool
	Prefix  string
}

type AuthConfig struct {
	JwtSecret string
}

type EngineConfig struct {
	SessionLockTTL time.Duration
	GraphCacheTTL  time.Duration
}

// lockMargin covers the database work around the AI calls of one submit.
const lockMargin = 10 * time.Second

// MinSessionLockTTL is the shortest lock TTL that outlives a terminal submit,
// which makes two AI calls (reaction and debrief) while holding the lock.
func MinSessionLockTTL(aiTimeout time.Duration) time.Duration {
	return 2*aiTimeout + lockMargin
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	aiTimeout := getEnvAsDuration("AI_TIMEOUT", 20*time.Second)
	lockTTL := getEnvAsDuration("SESSION_LOCK_TTL", MinSessionLockTTL(aiTimeout))
	if floor := MinSessionLockTTL(aiTimeout); lockTTL < floor {
		log.Printf("Note: SESSION_LOCK_TTL %s is shorter than two AI calls, using %s", lockTTL, floor)
		lockTTL = floor
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			EventLogFilePath:   getEnv("EVENT_LOG_FILE_PATH", "logs/events.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			CompletedTopic:     getEnv("SESSION_COMPLETED_TOPIC", "session.completed"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "Simvado"),
		},
		Keys: APIKeys{
			Anthropic:    getEnv("ANTHROPIC_API_KEY", ""),
			OpenAI:       getEnv("OPENAI_API_KEY", ""),
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
		},
		Ai: AIConfig{
			LLMProvider:      getEnv("LLM_PROVIDER", "anthropic"),
			LLMModel:         getEnv("LLM_MODEL", ""),
			OpenAIBaseURL:    getEnv("OPENAI_BASE_URL", ""),
			OllamaBaseURL:    getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			Timeout:          aiTimeout,
			ReactionMaxToken: getEnvAsInt("AI_REACTION_MAX_TOKENS", 300),
			DebriefMaxToken:  getEnvAsInt("AI_DEBRIEF_MAX_TOKENS", 1500),
		},
		Redis: RedisConfig{
			URL:     getEnv("REDIS_URL", "redis://localhost:6379"),
			Enabled: getEnvAsBool("REDIS_LOCK_ENABLED", true),
			Prefix:  getEnv("REDIS_KEY_PREFIX", "simvado:"),
		},
		Auth: AuthConfig{
			JwtSecret: getEnv("JWT_SECRET", ""),
		},
		Engine: EngineConfig{
			SessionLockTTL: lockTTL,
			GraphCacheTTL:  getEnvAsDuration("GRAPH_CACHE_TTL", 10*time.Minute),
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
