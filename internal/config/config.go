package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      string
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	JWT       JWTConfig
	Log       LogConfig
	RBAC      RBACConfig
	RateLimit RateLimitConfig
	Ledger    LedgerConfig
}

type DatabaseConfig struct {
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	SSLMode    string
	MaxRetries int
}

type RedisConfig struct {
	Addr string
}

// KafkaConfig configures the outbox relay and the notification consumer.
type KafkaConfig struct {
	Broker             string
	ConsumerGroup      string
	OutboxPollInterval time.Duration
	OutboxBatchSize    int
}

type JWTConfig struct {
	Secret string
}

type LogConfig struct {
	Level  string
	Format string
}

type RBACConfig struct {
	ModelPath string
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// LedgerConfig tunes the reporting side of the balance ledger.
type LedgerConfig struct {
	BalanceCacheTTL time.Duration
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	cfg := &Config{
		Env:       strings.ToLower(v.GetString("ENV")),
		Port:      v.GetString("PORT"),
		APIPrefix: v.GetString("API_PREFIX"),
	}

	cfg.Database = DatabaseConfig{
		Host:       v.GetString("DB_HOST"),
		Port:       v.GetString("DB_PORT"),
		User:       v.GetString("DB_USER"),
		Password:   v.GetString("DB_PASSWORD"),
		Name:       v.GetString("DB_NAME"),
		SSLMode:    v.GetString("DB_SSLMODE"),
		MaxRetries: v.GetInt("DB_MAX_RETRIES"),
	}

	cfg.Redis = RedisConfig{
		Addr: v.GetString("REDIS_ADDR"),
	}

	cfg.Kafka = KafkaConfig{
		Broker:             v.GetString("KAFKA_BROKER"),
		ConsumerGroup:      v.GetString("KAFKA_CONSUMER_GROUP"),
		OutboxPollInterval: parseDuration(v.GetString("OUTBOX_POLL_INTERVAL"), 3*time.Second),
		OutboxBatchSize:    v.GetInt("OUTBOX_BATCH_SIZE"),
	}

	cfg.JWT = JWTConfig{
		Secret: v.GetString("JWT_SECRET"),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.RBAC = RBACConfig{
		ModelPath: v.GetString("RBAC_MODEL_PATH"),
	}

	cfg.RateLimit = RateLimitConfig{
		RPS:   v.GetFloat64("RATE_LIMIT_RPS"),
		Burst: v.GetInt("RATE_LIMIT_BURST"),
	}

	cfg.Ledger = LedgerConfig{
		BalanceCacheTTL: parseDuration(v.GetString("BALANCE_CACHE_TTL"), 10*time.Minute),
	}

	if cfg.Env == EnvProduction && cfg.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET is required in production")
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", "3000")
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "go_erp")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_RETRIES", 5)

	v.SetDefault("REDIS_ADDR", "localhost:6379")

	v.SetDefault("KAFKA_BROKER", "")
	v.SetDefault("KAFKA_CONSUMER_GROUP", "go-erp-notifications")
	v.SetDefault("OUTBOX_POLL_INTERVAL", "3s")
	v.SetDefault("OUTBOX_BATCH_SIZE", 50)

	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("RBAC_MODEL_PATH", "")
	v.SetDefault("RATE_LIMIT_RPS", 5)
	v.SetDefault("RATE_LIMIT_BURST", 10)

	v.SetDefault("BALANCE_CACHE_TTL", "10m")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
