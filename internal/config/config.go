package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	DBDriver       string
	DBPath         string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	SessionStore   string
	RedisHost      string
	RedisPort      string
	SessionSecret  string
	GinMode        string
	AllowedOrigins []string
	OpenAIAPIKey   string
	Neo4jURI       string
	Neo4jUser      string
	Neo4jPassword  string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Ignoring .env file: %v", err)
	}

	return &Config{
		Port:           getEnv("PORT", "8080"),
		DBDriver:       getEnv("DB_DRIVER", "sqlite"),
		DBPath:         getEnv("DB_PATH", "taskboard.db"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "3306"),
		DBUser:         getEnv("DB_USER", "taskboard"),
		DBPassword:     getEnv("DB_PASSWORD", "taskboard"),
		DBName:         getEnv("DB_NAME", "taskboard"),
		SessionStore:   getEnv("SESSION_STORE", "cookie"),
		RedisHost:      getEnv("REDIS_HOST", "localhost"),
		RedisPort:      getEnv("REDIS_PORT", "6379"),
		SessionSecret:  getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:5173")),
		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		Neo4jURI:       getEnv("NEO4J_URI", ""),
		Neo4jUser:      getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword:  getEnv("NEO4J_PASSWORD", ""),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
