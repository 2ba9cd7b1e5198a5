package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Ai        AIConfig
	Retrieval RetrievalConfig
	State     StateConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	EmbeddingProvider  string // "gemini" or "ollama"
	EmbeddingModel     string
	EmbeddingDimension int
	OllamaBaseURL      string
	GeminiAPIKey       string
	LLMProvider        string // "ollama" or "gemini"
	LLMModel           string // e.g. "llama3", "qwen2.5"
}

// RetrievalConfig tunes document chunking and search breadth.
type RetrievalConfig struct {
	ChunkSize    int
	ChunkOverlap int
	TopK         int
	IngestTopic  string
	UploadDir    string
}

// StateConfig locates the console client's durable comparison state.
type StateConfig struct {
	Dir string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider:  getEnv("EMBEDDING_PROVIDER", "ollama"),
			EmbeddingModel:     getEnv("EMBEDDING_MODEL", "nomic-embed-text"),
			EmbeddingDimension: getEnvAsInt("EMBEDDING_DIMENSION", 768),
			OllamaBaseURL:      getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			GeminiAPIKey:       getEnv("GOOGLE_GEMINI_API_KEY", ""),
			LLMProvider:        getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:           getEnv("LLM_MODEL", "llama3"),
		},
		Retrieval: RetrievalConfig{
			ChunkSize:    getEnvAsInt("CHUNK_SIZE", 400),
			ChunkOverlap: getEnvAsInt("CHUNK_OVERLAP", 120),
			TopK:         getEnvAsInt("TOP_K", 8),
			IngestTopic:  getEnv("DOCUMENT_INGEST_TOPIC_NAME", "document.ingest"),
			UploadDir:    getEnv("UPLOAD_DIR", "backend_data/files"),
		},
		State: StateConfig{
			Dir: getEnv("STATE_DIR", "backend_data"),
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
