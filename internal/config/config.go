package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Addr       string
	DataDir    string
	CORSOrigin string
	Timezone   string
	// Share links
	RedisURL string
	ShareTTL time.Duration
	// Search
	MeiliURL       string
	MeiliMasterKey string
	// Photo storage (S3-compatible)
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3UseSSL    bool
}

func Load() Config {
	return Config{
		Addr:       getenv("API_ADDR", ":8790"),
		DataDir:    getenv("CV_DATA_DIR", "./data/documents"),
		CORSOrigin: getenv("CV_CORS_ORIGIN", "*"),
		Timezone:   getenv("CV_TIMEZONE", ""),
		// Redis - share links disabled if not configured
		RedisURL: getenv("REDIS_URL", ""),
		ShareTTL: time.Duration(getenvInt("CV_SHARE_TTL_SECONDS", 604800)) * time.Second,
		// Meilisearch - empty by default, search falls back to a store scan
		MeiliURL:       getenv("MEILI_URL", ""),
		MeiliMasterKey: getenv("MEILI_MASTER_KEY", ""),
		// MinIO - empty by default, photo storage disabled if not configured
		S3Endpoint:  getenv("CV_S3_ENDPOINT", ""),
		S3AccessKey: getenv("CV_S3_ACCESS_KEY", ""),
		S3SecretKey: getenv("CV_S3_SECRET_KEY", ""),
		S3Bucket:    getenv("CV_S3_BUCKET", "cvstudio-photos"),
		S3UseSSL:    getenv("CV_S3_USE_SSL", "") == "true",
	}
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
