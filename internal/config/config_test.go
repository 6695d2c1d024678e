package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultBroker = "localhost:9092"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "http://localhost:5000", cfg.PredictURL)
	assert.Equal(t, 15*time.Second, cfg.PredictTimeout)
	assert.Zero(t, cfg.PredictCacheSize)
	assert.Equal(t, 30, cfg.PredictRateLimit)
	assert.Empty(t, cfg.SeedFile)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.False(t, cfg.LeadsEnabled)
	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
	assert.Equal(t, "solarsite-leads", cfg.KafkaLeadTopic)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, 500*time.Millisecond, cfg.BatchFlushInterval)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("PREDICT_URL", "https://ml.solarsite.com/")
	t.Setenv("PREDICT_TIMEOUT", "3s")
	t.Setenv("PREDICT_CACHE_SIZE", "200")
	t.Setenv("PREDICT_RATE_LIMIT", "0")
	t.Setenv("SEED_FILE", "/etc/solarsite/locations.json")
	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("CORS_ORIGINS", "https://solarsite.com,https://www.solarsite.com")
	t.Setenv("LEADS_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_LEAD_TOPIC", "custom-leads")
	t.Setenv("BATCH_SIZE", "100")
	t.Setenv("BATCH_FLUSH_INTERVAL", "1s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "https://ml.solarsite.com", cfg.PredictURL)
	assert.Equal(t, 3*time.Second, cfg.PredictTimeout)
	assert.Equal(t, 200, cfg.PredictCacheSize)
	assert.Zero(t, cfg.PredictRateLimit)
	assert.Equal(t, "/etc/solarsite/locations.json", cfg.SeedFile)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.Equal(t, []string{"https://solarsite.com", "https://www.solarsite.com"}, cfg.CORSOrigins)
	assert.True(t, cfg.LeadsEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-leads", cfg.KafkaLeadTopic)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, 1*time.Second, cfg.BatchFlushInterval)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidDurations(t *testing.T) {
	for _, key := range []string{"PREDICT_TIMEOUT", "SESSION_TTL"} {
		for _, value := range []string{"bad", "0s", "-5s"} {
			t.Run(key+"="+value, func(t *testing.T) {
				t.Setenv(key, value)
				_, err := Load()
				require.Error(t, err)
				assert.Contains(t, err.Error(), key)
			})
		}
	}
}

func TestLoad_InvalidPredictURL(t *testing.T) {
	for _, value := range []string{"localhost:5000", "://nope", "/predict"} {
		t.Run(value, func(t *testing.T) {
			t.Setenv("PREDICT_URL", value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "PREDICT_URL")
		})
	}
}

func TestLoad_InvalidRateLimit(t *testing.T) {
	t.Setenv("PREDICT_RATE_LIMIT", "-1")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PREDICT_RATE_LIMIT")
}

func TestLoad_InvalidCacheSizeDisablesCache(t *testing.T) {
	t.Setenv("PREDICT_CACHE_SIZE", "lots")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Zero(t, cfg.PredictCacheSize)
}

func TestLoad_InvalidBatchSize(t *testing.T) {
	t.Setenv("BATCH_SIZE", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BATCH_SIZE")
}

func TestLoad_BatchSizeTooLarge(t *testing.T) {
	t.Setenv("BATCH_SIZE", "9999")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BATCH_SIZE")
}

func TestLoad_InvalidBatchFlushInterval(t *testing.T) {
	t.Setenv("BATCH_FLUSH_INTERVAL", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BATCH_FLUSH_INTERVAL")
}

func TestLoad_EmptyLeadTopicUsesDefault(t *testing.T) {
	t.Setenv("LEADS_ENABLED", "true")
	t.Setenv("KAFKA_LEAD_TOPIC", "")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "solarsite-leads", cfg.KafkaLeadTopic)
}

func TestLoad_CORSOriginsTrimmed(t *testing.T) {
	t.Setenv("CORS_ORIGINS", " https://solarsite.com , ,https://admin.solarsite.com ")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://solarsite.com", "https://admin.solarsite.com"}, cfg.CORSOrigins)
}
