package config

import (
	"time"

	"github.com/spf13/viper"
)

// Observes holds tracing and error reporting settings. An empty
// Tracer.Endpoint disables export; an empty Sentry.Dsn disables reporting.
type Observes struct {
	Tracer *Tracer
	Sentry *Sentry
}

// Sentry error reporting config
type Sentry struct {
	Dsn         string
	Environment string
	SampleRate  float64 `validate:"gte=0,lte=1"`
}

// Tracer OTLP exporter config
type Tracer struct {
	Endpoint     string
	SamplingRate float64 `validate:"gte=0,lte=1"`
	BatchTimeout time.Duration
}

func getObservesConfig(v *viper.Viper) *Observes {
	return &Observes{
		Tracer: &Tracer{
			Endpoint:     v.GetString("observes.tracer.endpoint"),
			SamplingRate: v.GetFloat64("observes.tracer.sampling_rate"),
			BatchTimeout: getDurationOrDefault(v, "observes.tracer.batch_timeout", 5*time.Second),
		},
		Sentry: &Sentry{
			Dsn:         v.GetString("observes.sentry.dsn"),
			Environment: v.GetString("observes.sentry.environment"),
			SampleRate:  v.GetFloat64("observes.sentry.sample_rate"),
		},
	}
}
