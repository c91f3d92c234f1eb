package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort  string
	DatabaseDSN string
	DBDebug     bool
	FrontendURL string

	JWTSecret     string
	JWTExpire     time.Duration
	ResetTokenTTL time.Duration

	KafkaBroker   string
	KafkaTopic    string
	KafkaUsername string
	KafkaPassword string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	AuthRateLimit int

	CloudinaryUrl string
	SnowflakeNode int64

	SuperAdminEmail     string
	SuperAdminPassword  string
	SuperAdminFirstName string
	SuperAdminLastName  string
}

// LoadConfig reads the environment, loading .env first outside production.
func LoadConfig() (Config, error) {
	if os.Getenv("ENV") != "prod" {
		_ = godotenv.Overload()
	}

	cfg := Config{
		ServerPort:  getEnv("SERVER_PORT", ":3000"),
		DatabaseDSN: os.Getenv("DATABASE_DSN"),
		DBDebug:     os.Getenv("DB_DEBUG") == "1",
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		KafkaBroker:   os.Getenv("KAFKA_BROKER"),
		KafkaTopic:    os.Getenv("KAFKA_TOPIC"),
		KafkaUsername: os.Getenv("KAFKA_USERNAME"),
		KafkaPassword: os.Getenv("KAFKA_PASSWORD"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		CloudinaryUrl: os.Getenv("CLOUDINARY_URL"),

		SuperAdminEmail:     os.Getenv("SUPER_ADMIN_EMAIL"),
		SuperAdminPassword:  os.Getenv("SUPER_ADMIN_PASSWORD"),
		SuperAdminFirstName: getEnv("SUPER_ADMIN_FIRST_NAME", "Super"),
		SuperAdminLastName:  getEnv("SUPER_ADMIN_LAST_NAME", "Admin"),
	}

	var err error
	if cfg.JWTExpire, err = durationEnv("JWT_EXPIRE", 7*24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.ResetTokenTTL, err = durationEnv("RESET_TOKEN_TTL", time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.RedisDB, err = intEnv("REDIS_DB", 0); err != nil {
		return Config{}, err
	}
	if cfg.AuthRateLimit, err = intEnv("AUTH_RATE_LIMIT", 20); err != nil {
		return Config{}, err
	}
	node, err := intEnv("SNOWFLAKE_NODE", 1)
	if err != nil {
		return Config{}, err
	}
	cfg.SnowflakeNode = int64(node)

	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}
	if cfg.DatabaseDSN == "" {
		return Config{}, errors.New("DATABASE_DSN is required")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
