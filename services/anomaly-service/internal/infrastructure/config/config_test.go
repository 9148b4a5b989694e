package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infrarisk/sentinel/services/anomaly-service/internal/infrastructure/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8090", cfg.GRPCAddress())
	assert.Equal(t, ":9090", cfg.HTTPAddress())
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "anomaly.events", cfg.KafkaAlertTopic)
	assert.Equal(t, "telemetry.records", cfg.KafkaTelemetryTopic)
	assert.Equal(t, 15*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.TLSEnabled())
	assert.True(t, cfg.StreamEnabled())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SENTINEL_GRPC_PORT", "7000")
	t.Setenv("SENTINEL_KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("SENTINEL_GRPC_REFLECTION", "true")

	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.GRPCPort)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.GRPCReflection)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := "http_port: \"9999\"\nmodel_artifact_path: /models/iforest.json\nlog_format: text\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600))

	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.HTTPPort)
	assert.Equal(t, "/models/iforest.json", cfg.ModelArtifactPath)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"cert without key", map[string]string{"SENTINEL_GRPC_TLS_CERT_FILE": "/tls/cert.pem"}},
		{"sampling rate out of range", map[string]string{"SENTINEL_TRACE_SAMPLING_RATE": "1.5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := config.Load(t.TempDir())
			assert.Error(t, err)
		})
	}
}
