package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server  ServerConfig
	Ledger  LedgerConfig
	Email   EmailConfig
	Redis   RedisConfig
	Kafka   KafkaConfig
	Auth    AuthConfig
	AuditDB AuditDBConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type LedgerConfig struct {
	RPCURL         string
	PackageID      string
	RequestTimeout time.Duration
}

type EmailConfig struct {
	SendGridAPIKey string
	FromAddress    string
}

type RedisConfig struct {
	Addr    string
	Enabled bool
}

type KafkaConfig struct {
	Brokers []string
	GroupID string
	Enabled bool
}

type AuthConfig struct {
	JWTSecret string
}

type AuditDBConfig struct {
	// DSN selects the backend: a postgres:// DSN uses Postgres, anything
	// else (including empty) falls back to a local SQLite file.
	DSN        string
	SQLitePath string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", ":8086"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Ledger: LedgerConfig{
			RPCURL:         getEnv("SUI_RPC_URL", "https://fullnode.testnet.sui.io:443"),
			PackageID:      getEnv("SUICKET_PACKAGE_ID", ""),
			RequestTimeout: time.Duration(getEnvInt("LEDGER_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		Email: EmailConfig{
			SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
			FromAddress:    getEnv("SENDGRID_FROM_EMAIL", "noreply@suicket.com"),
		},
		Redis: RedisConfig{
			Addr:    getEnv("REDIS_ADDR", "localhost:6379"),
			Enabled: getEnvBool("REDIS_ENABLED", true),
		},
		Kafka: KafkaConfig{
			Brokers: []string{getEnv("KAFKA_ADDR", "localhost:9092")},
			GroupID: getEnv("KAFKA_GROUP_ID", "suicket-relay-group"),
			Enabled: getEnvBool("KAFKA_ENABLED", true),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
		},
		AuditDB: AuditDBConfig{
			DSN:        getEnv("AUDIT_DB_DSN", ""),
			SQLitePath: getEnv("AUDIT_DB_SQLITE_PATH", "scan_audit.db"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
