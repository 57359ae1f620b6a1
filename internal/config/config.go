package config

import (
	"os"
	"strings"
	"time"
)

type Config struct {
	ServerAddress  string
	AllowedOrigins []string

	// AuthMode selects the token verifier: "firebase" (production) or
	// "jwt" (local HS256 tokens issued by /api/auth).
	AuthMode      string
	JWTSecret     string
	JWTExpiration time.Duration

	FirebaseProjectID       string
	FirebaseCredentialsJSON string

	// StorageMode selects persistence: "firestore" (production) or "memory".
	StorageMode string

	MongoURI string
	MongoDB  string

	// RedisAddr enables the public-card cache when non-empty.
	RedisAddr    string
	RedisPass    string
	CardCacheTTL time.Duration
}

func Load() *Config {
	return &Config{
		ServerAddress:  getEnv("SERVER_ADDRESS", ":8080"),
		AllowedOrigins: splitEnv("ALLOWED_ORIGINS", "*"),

		AuthMode:      getEnv("AUTH_MODE", "firebase"),
		JWTSecret:     getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTExpiration: 24 * time.Hour,

		FirebaseProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseCredentialsJSON: getEnv("FIREBASE_CREDENTIALS_JSON", ""),

		StorageMode: getEnv("STORAGE_MODE", "firestore"),

		MongoURI: getEnv("MONGO_URI", ""),
		MongoDB:  getEnv("MONGO_DB", "nexcard"),

		RedisAddr:    getEnv("REDIS_ADDR", ""),
		RedisPass:    getEnv("REDIS_PASSWORD", ""),
		CardCacheTTL: 5 * time.Minute,
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func splitEnv(key, defaultValue string) []string {
	raw := getEnv(key, defaultValue)
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
