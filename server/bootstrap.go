package server

import (
	"context"
	"fmt"

	"github.com/ncobase/scanpage/config"
	"github.com/ncobase/scanpage/handler"
	"github.com/ncobase/scanpage/logging/logger"
	"github.com/ncobase/scanpage/logging/observes"
	"github.com/ncobase/scanpage/project"
	"github.com/ncobase/scanpage/service"
	"github.com/ncobase/scanpage/store"
	"github.com/ncobase/scanpage/version"

	_ "github.com/ncobase/scanpage/store/all" // store drivers
)

// InitializeApp wires logger, tracer, store, service and handlers from cfg.
// The returned cleanup releases them in reverse order.
func InitializeApp(ctx context.Context, cfg *config.Config) (*App, func(), error) {
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	l := logger.StdLogger()
	l.SetVersion(version.Version)
	logCleanup, err := l.Init(cfg.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("error initializing logger: %w", err)
	}
	cleanups = append(cleanups, logCleanup)

	if t := cfg.Observes.Tracer; t != nil && t.Endpoint != "" {
		shutdown, err := observes.NewTracer(ctx, &observes.TracerOption{
			URL:          t.Endpoint,
			Name:         cfg.AppName,
			Version:      version.Version,
			Revision:     version.Revision,
			Environment:  cfg.RunMode,
			SamplingRate: t.SamplingRate,
			BatchTimeout: t.BatchTimeout,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("error initializing tracer: %w", err)
		}
		cleanups = append(cleanups, func() { _ = shutdown(context.Background()) })
	}

	if sc := cfg.Observes.Sentry; sc != nil && sc.Dsn != "" {
		env := sc.Environment
		if env == "" {
			env = cfg.RunMode
		}
		flush, err := observes.NewSentry(&observes.SentryOptions{
			Dsn:         sc.Dsn,
			Name:        cfg.AppName,
			Release:     version.Version,
			Environment: env,
			SampleRate:  sc.SampleRate,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("error initializing sentry: %w", err)
		}
		cleanups = append(cleanups, flush)
	}

	s, err := store.Open(ctx, cfg.Store)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	cleanups = append(cleanups, func() {
		if err := s.Close(); err != nil {
			l.Errorf(context.Background(), "error closing store: %v", err)
		}
	})

	if err := seed(ctx, cfg.Seed, s, l); err != nil {
		cleanup()
		return nil, nil, err
	}

	svc := service.NewService(s, cfg.Paging.Limits(), l)
	pinger, _ := s.(handler.Pinger)
	h := handler.NewHandler(svc, cfg.Store.Driver, pinger, l)
	return NewApp(cfg, l, h), cleanup, nil
}

func seed(ctx context.Context, cfg *config.Seed, s project.Store, l *logger.Logger) error {
	if cfg == nil || !cfg.Enabled || cfg.Count <= 0 {
		return nil
	}
	projects := project.Seed(cfg.Count, cfg.Start, cfg.TieEvery)
	if err := s.Put(ctx, projects...); err != nil {
		return fmt.Errorf("error seeding projects: %w", err)
	}
	l.Infof(ctx, "seeded %d projects", len(projects))
	return nil
}
