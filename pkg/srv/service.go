package srv

import (
	"context"

	"github.com/sandevgo/discobot/pkg/log"
)

// Service is a long-running component with a blocking Start and an
// idempotent Shutdown.
type Service interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// StartServices launches every service on its own goroutine. A start
// failure is fatal for the whole process.
func StartServices(ctx context.Context, services []Service) {
	logger := log.FromCtx(ctx)
	for _, service := range services {
		go func(s Service) {
			logger.Debug().Msgf("starting %T", s)
			if err := s.Start(ctx); err != nil {
				logger.Fatal().Err(err).Msgf("%T failed to start", s)
			}
		}(service)
	}
}

// ShutdownServices blocks until ctx is done, then shuts services down in
// reverse start order so dependents stop before their dependencies.
func ShutdownServices(ctx context.Context, services []Service) {
	<-ctx.Done()
	logger := log.FromCtx(ctx)
	for i := len(services) - 1; i >= 0; i-- {
		if err := services[i].Shutdown(ctx); err != nil {
			logger.Error().Err(err).Msgf("%T failed to shutdown", services[i])
		}
	}
}
