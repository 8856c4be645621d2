package telemetry

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ServiceName  string `yaml:"service_name"`
	OTLPEndpoint string `yaml:"otlp_endpoint"`
	OTLPUser     string `yaml:"otlp_user"`
	OTLPToken    string `yaml:"otlp_token"`
	Insecure     bool   `yaml:"insecure"`
}

// LoadConfig reads a YAML telemetry config and applies env-var overrides
// on top, so deployments can keep credentials out of the file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("LoadConfig: failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("LoadConfig: failed to unmarshal config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// ConfigFromEnv builds a Config from environment variables alone.
func ConfigFromEnv(serviceName string) Config {
	cfg := Config{ServiceName: serviceName}
	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); endpoint != "" {
		c.OTLPEndpoint = endpoint
	}

	if user := os.Getenv("OTEL_EXPORTER_OTLP_USER"); user != "" {
		c.OTLPUser = user
	}

	if token := os.Getenv("OTEL_EXPORTER_OTLP_TOKEN"); token != "" {
		c.OTLPToken = token
	}

	if os.Getenv("OTEL_EXPORTER_OTLP_INSECURE") == "true" {
		c.Insecure = true
	}
}
