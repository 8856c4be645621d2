package telemetry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, contents string) string {
	path := filepath.Join(t.TempDir(), "telemetry.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("reads yaml fields", func(t *testing.T) {
		path := writeConfigFile(t, `
service_name: trainer-otel-demo
otlp_endpoint: collector:4318
otlp_user: grafana
otlp_token: secret
insecure: true
`)

		cfg, err := LoadConfig(path)
		require.NoError(t, err)

		assert.Equal(t, "trainer-otel-demo", cfg.ServiceName)
		assert.Equal(t, "collector:4318", cfg.OTLPEndpoint)
		assert.Equal(t, "grafana", cfg.OTLPUser)
		assert.Equal(t, "secret", cfg.OTLPToken)
		assert.True(t, cfg.Insecure)
	})

	t.Run("env vars override the file", func(t *testing.T) {
		path := writeConfigFile(t, `
service_name: trainer-otel-demo
otlp_endpoint: collector:4318
`)

		t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "other-collector:4318")

		cfg, err := LoadConfig(path)
		require.NoError(t, err)

		assert.Equal(t, "other-collector:4318", cfg.OTLPEndpoint)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "does_not_exist.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml is an error", func(t *testing.T) {
		path := writeConfigFile(t, "service_name: [")
		_, err := LoadConfig(path)
		assert.Error(t, err)
	})
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "collector:4318")
	t.Setenv("OTEL_EXPORTER_OTLP_INSECURE", "true")

	cfg := ConfigFromEnv("trainer-api")

	assert.Equal(t, "trainer-api", cfg.ServiceName)
	assert.Equal(t, "collector:4318", cfg.OTLPEndpoint)
	assert.True(t, cfg.Insecure)
}
