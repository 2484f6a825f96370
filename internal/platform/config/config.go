package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMongo    = "mongo"
	StoreDriverMemory   = "memory"
)

var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set")

type Config struct {
	APIPort  string
	LogDebug bool

	JWTKey []byte
	JWTTTL time.Duration

	StoreDriver string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	DBConnStr  string

	MongoURI        string
	MongoDB         string
	MongoCollection string

	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	ResultHistoryTTL time.Duration
	ResultHistoryLen int

	JudgeURL string

	CORSAllowedOrigins []string
	AuthRatePerSec     float64
	AuthRateBurst      int
}

var AppConfig *Config

// Load reads the process environment (and a .env file when present) into AppConfig.
func Load() error {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		APIPort:            getEnv("API_PORT", "5000"),
		LogDebug:           getEnvAsBool("LOG_DEBUG", false),
		JWTKey:             []byte(getEnv("JWT_SECRET", "")),
		JWTTTL:             getEnvAsDuration("JWT_TTL", time.Hour),
		StoreDriver:        getEnv("STORE_DRIVER", StoreDriverPostgres),
		DBHost:             getEnv("DB_HOST", "localhost"),
		DBPort:             getEnv("DB_PORT", "5432"),
		DBUser:             getEnv("DB_USER", "user"),
		DBPassword:         getEnv("DB_PASSWORD", "password"),
		DBName:             getEnv("DB_NAME", "freecode"),
		DBSslMode:          getEnv("DB_SSLMODE", "disable"),
		MongoURI:           getEnv("MONGO_URI", "mongodb://localhost:27017/"),
		MongoDB:            getEnv("MONGO_DB", "freecode"),
		MongoCollection:    getEnv("MONGO_USERS_COLLECTION", "users"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisDB:            getEnvAsInt("REDIS_DB", 0),
		ResultHistoryTTL:   getEnvAsDuration("RESULT_HISTORY_TTL", 24*time.Hour),
		ResultHistoryLen:   getEnvAsInt("RESULT_HISTORY_LEN", 20),
		JudgeURL:           getEnv("JUDGE_URL", "http://127.0.0.1:8000"),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		AuthRatePerSec:     getEnvAsFloat("AUTH_RATE_PER_SEC", 1),
		AuthRateBurst:      getEnvAsInt("AUTH_RATE_BURST", 5),
	}

	if len(cfg.JWTKey) == 0 {
		return ErrMissingJWTSecret
	}

	cfg.DBConnStr = "host=" + cfg.DBHost +
		" port=" + cfg.DBPort +
		" user=" + cfg.DBUser +
		" password=" + cfg.DBPassword +
		" dbname=" + cfg.DBName +
		" sslmode=" + cfg.DBSslMode

	AppConfig = cfg
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil && value > 0 {
		return value
	}
	return fallback
}

// getEnvAsList splits a comma-separated value, dropping empty entries.
func getEnvAsList(key string, fallback []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
