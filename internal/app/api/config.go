package api

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.temporal.io/sdk/client"
	"gopkg.in/yaml.v3"
)

const defaultIdempotencyTTLHours = 24

// Config carries the settings for the API process. Values come from an optional
// YAML file named by CONFIG_FILE, then environment variables, which win.
type Config struct {
	ServiceName         string   `yaml:"serviceName"`
	Environment         string   `yaml:"environment"`
	Port                string   `yaml:"port"`
	LogLevel            string   `yaml:"logLevel"`
	LogFormat           string   `yaml:"logFormat"`
	OTLPEndpoint        string   `yaml:"otlpEndpoint"`
	OTLPInsecure        bool     `yaml:"otlpInsecure"`
	TraceSampleRatio    float64  `yaml:"traceSampleRatio"`
	PostgresDSN         string   `yaml:"postgresDSN"`
	PostgresMaxConns    int      `yaml:"postgresMaxConns"`
	AutoMigrate         bool     `yaml:"autoMigrate"`
	RedisAddr           string   `yaml:"redisAddr"`
	RedisPassword       string   `yaml:"redisPassword"`
	RedisDB             int      `yaml:"redisDB"`
	KafkaBrokers        []string `yaml:"kafkaBrokers"`
	KafkaTopic          string   `yaml:"kafkaTopic"`
	TemporalAddress     string   `yaml:"temporalAddress"`
	TemporalNamespace   string   `yaml:"temporalNamespace"`
	TemporalDisabled    bool     `yaml:"temporalDisabled"`
	IdempotencyTTLHours int      `yaml:"idempotencyTTLHours"`
}

// IdempotencyTTL is how long idempotency keys are honoured.
func (c Config) IdempotencyTTL() time.Duration {
	return time.Duration(c.IdempotencyTTLHours) * time.Hour
}

// LoadConfig reads the optional YAML file and environment variables, applies defaults,
// and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		ServiceName:         "payments-api",
		Environment:         "local",
		Port:                "8080",
		LogLevel:            "info",
		LogFormat:           "json",
		OTLPInsecure:        true,
		TraceSampleRatio:    1,
		AutoMigrate:         true,
		KafkaTopic:          "payments.events",
		TemporalAddress:     client.DefaultHostPort,
		TemporalNamespace:   client.DefaultNamespace,
		IdempotencyTTLHours: defaultIdempotencyTTLHours,
	}
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg.ServiceName = envDefault("SERVICE_NAME", cfg.ServiceName)
	cfg.Environment = envDefault("DEPLOYMENT_ENVIRONMENT", cfg.Environment)
	cfg.Port = envDefault("PORT", cfg.Port)
	cfg.LogLevel = envDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = envDefault("LOG_FORMAT", cfg.LogFormat)
	cfg.OTLPEndpoint = envDefault("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.OTLPEndpoint)
	cfg.PostgresDSN = envDefault("POSTGRES_DSN", cfg.PostgresDSN)
	cfg.RedisAddr = envDefault("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = envDefault("REDIS_PASSWORD", cfg.RedisPassword)
	cfg.KafkaTopic = envDefault("KAFKA_TOPIC", cfg.KafkaTopic)
	cfg.TemporalAddress = envDefault("TEMPORAL_ADDRESS", cfg.TemporalAddress)
	cfg.TemporalNamespace = envDefault("TEMPORAL_NAMESPACE", cfg.TemporalNamespace)
	if raw, ok := lookupEnv("KAFKA_BROKERS"); ok {
		cfg.KafkaBrokers = splitList(raw)
	}
	if raw, ok := lookupEnv("TEMPORAL_DISABLED"); ok {
		cfg.TemporalDisabled = isTruthy(raw)
	}
	if raw, ok := lookupEnv("POSTGRES_AUTO_MIGRATE"); ok {
		cfg.AutoMigrate = isTruthy(raw)
	}
	if raw, ok := lookupEnv("OTEL_EXPORTER_OTLP_INSECURE"); ok {
		cfg.OTLPInsecure = raw != "0" && !strings.EqualFold(raw, "false")
	}
	if raw, ok := lookupEnv("OTEL_TRACES_SAMPLER_ARG"); ok && raw != "" {
		ratio, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Config{}, fmt.Errorf("OTEL_TRACES_SAMPLER_ARG must be a number")
		}
		cfg.TraceSampleRatio = ratio
	}

	var err error
	if cfg.RedisDB, err = envInt("REDIS_DB", cfg.RedisDB); err != nil {
		return Config{}, err
	}
	if cfg.PostgresMaxConns, err = envInt("POSTGRES_MAX_CONNS", cfg.PostgresMaxConns); err != nil {
		return Config{}, err
	}
	if cfg.IdempotencyTTLHours, err = envInt("IDEMPOTENCY_TTL_HOURS", cfg.IdempotencyTTLHours); err != nil {
		return Config{}, err
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("PORT must be numeric, got %q", c.Port)
	}
	if c.IdempotencyTTLHours <= 0 {
		return fmt.Errorf("IDEMPOTENCY_TTL_HOURS must be a positive integer")
	}
	if c.TraceSampleRatio < 0 || c.TraceSampleRatio > 1 {
		return fmt.Errorf("OTEL_TRACES_SAMPLER_ARG must be between 0 and 1")
	}
	if c.RedisDB < 0 || c.PostgresMaxConns < 0 {
		return fmt.Errorf("REDIS_DB and POSTGRES_MAX_CONNS must not be negative")
	}
	if len(c.KafkaBrokers) > 0 && strings.TrimSpace(c.KafkaTopic) == "" {
		return fmt.Errorf("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}
	return nil
}

func lookupEnv(key string) (string, bool) {
	val, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(val), true
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return value, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
