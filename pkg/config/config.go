package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                    string
	Env                     string
	LogLevel                string
	FirebaseCredentialsPath string
	PostgresConnStr         string
	MongoURI                string
	MongoDatabase           string
	RedisURL                string

	// Notification engine tuning. CommentWeight and LikeWeight are fallbacks
	// for the values stored in the settings table.
	CommentWeight   int
	LikeWeight      int
	NotifyThreshold int
	NotifyInterval  time.Duration

	// SyncWorkers is the size of the change-event worker pool.
	SyncWorkers int
}

// Load reads the configuration from the environment. A .env file is merged in
// first; real environment variables always win because godotenv never
// overrides a variable that is already set.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", "./firebase_credentials.json"),
		PostgresConnStr:         getEnv("POSTGRES_CONN_STR", ""),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDatabase:           getEnv("MONGO_DATABASE", "nearcircle"),
		RedisURL:                getEnv("REDIS_URL", ""),
		CommentWeight:           getEnvInt("COMMENT_WEIGHT", 3),
		LikeWeight:              getEnvInt("LIKE_WEIGHT", 1),
		NotifyThreshold:         getEnvInt("NOTIFY_THRESHOLD", 1),
		NotifyInterval:          getEnvDuration("NOTIFY_INTERVAL", 15*time.Minute),
		SyncWorkers:             getEnvInt("SYNC_WORKERS", 4),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
