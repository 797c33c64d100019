package config

import (
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"

	"github.com/studychannel/studychannel/internal/observability"
)

const defaultServiceName = "studychannel"

// LoadObservabilityConfig reads the OTLP settings. Tracing stays off while
// OTEL_EXPORTER_OTLP_ENDPOINT is empty.
func LoadObservabilityConfig(config *koanf.Koanf, log *zap.Logger) observability.Config {
	observabilityConfig := observability.Config{
		OtelEndpoint: config.String("OTEL_EXPORTER_OTLP_ENDPOINT"),
		ServiceName:  config.String("OTEL_SERVICE_NAME"),
		Environment:  config.String("ENVIRONMENT"),
		OtelHeaders:  config.String("OTEL_EXPORTER_OTLP_HEADERS"),
		SampleRatio:  config.Float64("OTEL_TRACES_SAMPLE_RATIO"),
		Insecure:     config.Bool("OTEL_EXPORTER_OTLP_INSECURE"),
	}

	if observabilityConfig.ServiceName == "" {
		log.Debug("OTEL_SERVICE_NAME not set, using default", zap.String("service", defaultServiceName))
		observabilityConfig.ServiceName = defaultServiceName
	}

	return observabilityConfig
}
