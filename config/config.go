package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	AppAddr                    string
	JWTSecret                  string
	DBHost                     string
	DBPort                     string
	DBUser                     string
	DBPass                     string
	DBName                     string
	DBNameTest                 string
	RedisHost                  string
	RedisPort                  string
	RedisPassword              string
	RedisDB                    int
	MinioHost                  string
	MinioPort                  string
	MinioUsername              string
	MinioPassword              string
	BucketName                 string
	BucketNameTest             string
	RabbitMQURL                string
	RabbitMQHost               string
	RabbitMQPort               string
	RabbitMQUser               string
	RabbitMQPass               string
	RabbitMQVhost              string
	RabbitMQPrefetch           int
	SessionTTL                 time.Duration
	CookieSecure               bool
	MaxUploadBytes             int64
	ReconcileWorkerConcurrency int
	ReconcileRate              float64
	ReconcileBurst             int
	ReconcileRetryMax          int
	ReconcileRetryDelays       []time.Duration
}

var AppConfig Config

// getEnv returns the environment value or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvBool(key string, defaultValue bool) bool {
	value := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	if value == "" {
		return defaultValue
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return defaultValue
	}
}

func getEnvInt64(key string, defaultValue int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvDurationList(key string, defaultValue []time.Duration) []time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	parts := strings.Split(raw, ",")
	out := make([]time.Duration, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		parsed, err := time.ParseDuration(part)
		if err != nil {
			return defaultValue
		}
		out = append(out, parsed)
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

// InitConfig loads configuration from the environment.
func InitConfig() {
	rabbitHost := getEnv("RABBITMQ_HOST", "localhost")
	rabbitPort := getEnv("RABBITMQ_PORT", "5672")
	rabbitUser := getEnv("RABBITMQ_USER", "guest")
	rabbitPass := getEnv("RABBITMQ_PASSWORD", "guest")
	rabbitVhost := getEnv("RABBITMQ_VHOST", "/")
	rabbitURL := getEnv("RABBITMQ_URL", "")
	if rabbitURL == "" {
		rabbitURL = fmt.Sprintf(
			"amqp://%s:%s@%s:%s/%s",
			url.PathEscape(rabbitUser),
			url.PathEscape(rabbitPass),
			rabbitHost,
			rabbitPort,
			url.PathEscape(rabbitVhost),
		)
	}
	retryDelays := getEnvDurationList(
		"RECONCILE_RETRY_DELAYS",
		[]time.Duration{10 * time.Second, 30 * time.Second, 2 * time.Minute, 10 * time.Minute, 30 * time.Minute},
	)
	AppConfig = Config{
		AppAddr:                    getEnv("APP_ADDR", ":8000"),
		JWTSecret:                  getEnv("JWT_SECRET", "l=ax+b"),
		DBHost:                     getEnv("DB_HOST", "localhost"),
		DBPort:                     getEnv("DB_PORT", "3306"),
		DBUser:                     getEnv("DB_USER", "root"),
		DBPass:                     getEnv("DB_PASS", "root"),
		DBName:                     getEnv("DB_NAME", "GoVault"),
		DBNameTest:                 getEnv("DB_NAME_TEST", "GoVault_Test"),
		RedisHost:                  getEnv("REDIS_HOST", "localhost"),
		RedisPort:                  getEnv("REDIS_PORT", "6379"),
		RedisPassword:              getEnv("REDIS_PASSWORD", ""),
		RedisDB:                    0,
		MinioHost:                  getEnv("MINIO_HOST", "localhost"),
		MinioPort:                  getEnv("MINIO_PORT", "9000"),
		MinioUsername:              getEnv("MINIO_USERNAME", "minioadmin"),
		MinioPassword:              getEnv("MINIO_PASSWORD", "minioadmin"),
		BucketName:                 getEnv("BUCKET_NAME", "govault"),
		BucketNameTest:             getEnv("BUCKET_NAME_TEST", "govault-test"),
		RabbitMQURL:                rabbitURL,
		RabbitMQHost:               rabbitHost,
		RabbitMQPort:               rabbitPort,
		RabbitMQUser:               rabbitUser,
		RabbitMQPass:               rabbitPass,
		RabbitMQVhost:              rabbitVhost,
		RabbitMQPrefetch:           getEnvInt("RABBITMQ_PREFETCH", 8),
		SessionTTL:                 getEnvDuration("SESSION_TTL", 24*time.Hour),
		CookieSecure:               getEnvBool("COOKIE_SECURE", false),
		MaxUploadBytes:             getEnvInt64("MAX_UPLOAD_BYTES", 100*1024*1024),
		ReconcileWorkerConcurrency: getEnvInt("RECONCILE_WORKER_CONCURRENCY", 4),
		ReconcileRate:              getEnvFloat("RECONCILE_RATE", 2),
		ReconcileBurst:             getEnvInt("RECONCILE_BURST", 4),
		ReconcileRetryMax:          getEnvInt("RECONCILE_RETRY_MAX", 5),
		ReconcileRetryDelays:       retryDelays,
	}
}
