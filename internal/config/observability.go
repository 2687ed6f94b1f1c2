package config

// ObservabilityConfig holds OTLP exporter configuration shared by both
// binaries.
type ObservabilityConfig struct {
	OTelEnabled bool   `env:"JOBQUEUE_OTEL_ENABLED"`
	ServiceName string `env:"OTEL_SERVICE_NAME"`
}
