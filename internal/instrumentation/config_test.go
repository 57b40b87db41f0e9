package instrumentation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "ticktick-mcp", config.ServiceName)
	assert.True(t, config.Enabled)
	assert.Equal(t, ExporterPrometheus, config.MetricsExporter)
	assert.Equal(t, ExporterNone, config.TracingExporter)
	assert.InDelta(t, 0.1, config.TraceSamplingRate, 0.001)
	assert.Equal(t, "/metrics", config.PrometheusEndpoint)
	assert.False(t, config.DetailedLabels)
	assert.True(t, config.AuditLogging.Enabled)
	assert.False(t, config.AuditLogging.IncludePII)
}

func TestDefaultConfigFromEnvironment(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "custom-name")
	t.Setenv("INSTRUMENTATION_ENABLED", "false")
	t.Setenv("METRICS_EXPORTER", "stdout")
	t.Setenv("TRACING_EXPORTER", "stdout")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.5")
	t.Setenv("METRICS_DETAILED_LABELS", "true")
	t.Setenv("AUDIT_LOGGING_INCLUDE_PII", "true")

	config := DefaultConfig()

	assert.Equal(t, "custom-name", config.ServiceName)
	assert.False(t, config.Enabled)
	assert.Equal(t, ExporterStdout, config.MetricsExporter)
	assert.Equal(t, ExporterStdout, config.TracingExporter)
	assert.InDelta(t, 0.5, config.TraceSamplingRate, 0.001)
	assert.True(t, config.DetailedLabels)
	assert.True(t, config.AuditLogging.IncludePII)
}

func TestDefaultConfigIgnoresUnparseableValues(t *testing.T) {
	t.Setenv("INSTRUMENTATION_ENABLED", "maybe")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "lots")

	config := DefaultConfig()

	assert.True(t, config.Enabled)
	assert.InDelta(t, 0.1, config.TraceSamplingRate, 0.001)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "sampling rate too high",
			mutate:  func(c *Config) { c.TraceSamplingRate = 1.5 },
			wantErr: "sampling rate",
		},
		{
			name:    "sampling rate negative",
			mutate:  func(c *Config) { c.TraceSamplingRate = -0.1 },
			wantErr: "sampling rate",
		},
		{
			name:    "unknown metrics exporter",
			mutate:  func(c *Config) { c.MetricsExporter = "statsd" },
			wantErr: "invalid metrics exporter",
		},
		{
			name:    "unknown tracing exporter",
			mutate:  func(c *Config) { c.TracingExporter = "jaeger" },
			wantErr: "invalid tracing exporter",
		},
		{
			name: "otlp tracing without endpoint",
			mutate: func(c *Config) {
				c.TracingExporter = ExporterOTLP
				c.OTLPEndpoint = ""
			},
			wantErr: "OTLP endpoint is required",
		},
		{
			name: "otlp metrics without endpoint",
			mutate: func(c *Config) {
				c.MetricsExporter = ExporterOTLP
				c.OTLPEndpoint = ""
			},
			wantErr: "OTLP endpoint is required",
		},
		{
			name: "otlp with endpoint",
			mutate: func(c *Config) {
				c.MetricsExporter = ExporterOTLP
				c.TracingExporter = ExporterOTLP
				c.OTLPEndpoint = "localhost:4318"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(&config)

			err := config.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
			} else {
				require.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}
