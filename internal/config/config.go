package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Prediction service configuration.
	PredictURL       string
	PredictTimeout   time.Duration
	PredictCacheSize int
	PredictRateLimit int // requests per minute per client, 0 disables

	SeedFile    string
	SessionTTL  time.Duration
	CORSOrigins []string

	// Lead publishing configuration.
	LeadsEnabled       bool
	KafkaBrokers       []string
	KafkaLeadTopic     string
	BatchSize          int
	BatchFlushInterval time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	predictTimeout, err := parsePositiveDuration("PREDICT_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}

	sessionTTL, err := parsePositiveDuration("SESSION_TTL", "30m")
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	rateLimit, err := parseNonNegativeInt("PREDICT_RATE_LIMIT", 30)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		PredictURL:       strings.TrimRight(sharedcfg.EnvOrDefault("PREDICT_URL", "http://localhost:5000"), "/"),
		PredictTimeout:   predictTimeout,
		PredictCacheSize: parsePredictCacheSize(),
		PredictRateLimit: rateLimit,

		SeedFile:    os.Getenv("SEED_FILE"),
		SessionTTL:  sessionTTL,
		CORSOrigins: splitList(sharedcfg.EnvOrDefault("CORS_ORIGINS", "*")),

		LeadsEnabled:       os.Getenv("LEADS_ENABLED") == "true",
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaLeadTopic:     sharedcfg.EnvOrDefault("KAFKA_LEAD_TOPIC", "solarsite-leads"),
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,
	}

	if u, err := url.Parse(cfg.PredictURL); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.New("invalid PREDICT_URL")
	}
	if cfg.LeadsEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("LEADS_ENABLED is true but KAFKA_BROKERS is empty")
	}
	if cfg.LeadsEnabled && cfg.KafkaLeadTopic == "" {
		return nil, errors.New("KAFKA_LEAD_TOPIC is required")
	}

	return cfg, nil
}

// splitList parses a comma-separated list, dropping blank entries. The shared
// broker-list parser does exactly this for any value.
func splitList(value string) []string {
	return sharedcfg.ParseBrokers(value)
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseNonNegativeInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

// parsePredictCacheSize returns 0 (caching disabled) for unset or invalid values.
func parsePredictCacheSize() int {
	if s := os.Getenv("PREDICT_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 0
}
