package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	AI        AIConfig
	Storage   StorageConfig
	CORS      CORSConfig
}

type ServerConfig struct {
	Port     string
	Env      string
	LogLevel string
}

// IsDevelopment reports whether the server runs outside production
func (c ServerConfig) IsDevelopment() bool {
	return c.Env != "production"
}

type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Database     string
	Schema       string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Addr returns host:port for the redis client
func (c RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// RateLimitConfig limits calls to the image recognition endpoint
type RateLimitConfig struct {
	Enabled  bool
	Requests int
	Window   time.Duration
}

// AIConfig points at an OpenAI-compatible vision model
type AIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// StorageConfig describes the S3 bucket photos are uploaded to
type StorageConfig struct {
	Bucket        string
	Region        string
	Endpoint      string // optional, for S3-compatible stores
	PublicBaseURL string
	UsePathStyle  bool

	// static keys; when empty the default AWS credential chain is used
	AccessKeyID     string
	SecretAccessKey string
}

// Enabled reports whether photo uploads are configured
func (c StorageConfig) Enabled() bool {
	return c.Bucket != ""
}

type CORSConfig struct {
	AllowedOrigins []string
}

func Load() *Config {
	// .env is loaded into the process environment so the AWS SDK sees it too
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not read .env file: %v", err)
	}

	v := viper.New()
	v.AutomaticEnv()

	// Set defaults
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_ENV", "development")
	v.SetDefault("LOG_LEVEL", "")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SCHEMA", "public")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("RATE_LIMIT_ENABLED", true)
	v.SetDefault("RATE_LIMIT_REQUESTS", 10)
	v.SetDefault("RATE_LIMIT_WINDOW", "1m")
	v.SetDefault("AI_IMAGE_API_URL", "https://api.openai.com/v1")
	v.SetDefault("AI_IMAGE_MODEL", "gpt-4o-mini")
	v.SetDefault("AI_IMAGE_TIMEOUT", "30s")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")

	return &Config{
		Server: ServerConfig{
			Port:     v.GetString("SERVER_PORT"),
			Env:      v.GetString("SERVER_ENV"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		Database: DatabaseConfig{
			Host:         v.GetString("DB_HOST"),
			Port:         v.GetString("DB_PORT"),
			User:         v.GetString("DB_USER"),
			Password:     v.GetString("DB_PASSWORD"),
			Database:     v.GetString("DB_DATABASE"),
			Schema:       v.GetString("DB_SCHEMA"),
			SSLMode:      v.GetString("DB_SSLMODE"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		RateLimit: RateLimitConfig{
			Enabled:  v.GetBool("RATE_LIMIT_ENABLED"),
			Requests: v.GetInt("RATE_LIMIT_REQUESTS"),
			Window:   v.GetDuration("RATE_LIMIT_WINDOW"),
		},
		AI: AIConfig{
			APIKey:  v.GetString("AI_IMAGE_API_KEY"),
			BaseURL: v.GetString("AI_IMAGE_API_URL"),
			Model:   v.GetString("AI_IMAGE_MODEL"),
			Timeout: v.GetDuration("AI_IMAGE_TIMEOUT"),
		},
		Storage: StorageConfig{
			Bucket:          v.GetString("S3_BUCKET"),
			Region:          v.GetString("S3_REGION"),
			Endpoint:        v.GetString("S3_ENDPOINT"),
			PublicBaseURL:   v.GetString("S3_PUBLIC_BASE_URL"),
			UsePathStyle:    v.GetBool("S3_USE_PATH_STYLE"),
			AccessKeyID:     v.GetString("S3_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("S3_SECRET_ACCESS_KEY"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
