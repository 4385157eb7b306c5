package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/hasandag/auth-service/internal/api"
	"github.com/hasandag/auth-service/internal/core/ports"
	"github.com/hasandag/auth-service/internal/core/service"
	"github.com/hasandag/auth-service/internal/infrastructure/config"
	"github.com/hasandag/auth-service/internal/infrastructure/queue"
	"github.com/hasandag/auth-service/pkg/authtoken"
	"github.com/hasandag/auth-service/pkg/logger"
)

func setup(ctx context.Context) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "auth-service",
	})
	return cfg, log, nil
}

func runServe(ctx context.Context) error {
	cfg, log, err := setup(ctx)
	if err != nil {
		return err
	}
	log.Info().Str("version", version).Str("driver", cfg.Store.Driver).Msg("starting server")

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := openBackend(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeBackend(b, log)

	if err := b.migrate(log); err != nil {
		return err
	}

	limiter, redisPinger, closeRedis, err := openLimiter(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeRedis(); err != nil {
			log.Warn().Err(err).Msg("redis close failed")
		}
	}()

	tokens := authtoken.Config{Secret: []byte(cfg.JWT.Secret), Issuer: cfg.JWT.Issuer, TTL: cfg.JWT.TTL}
	issuer, err := authtoken.NewIssuer(tokens)
	if err != nil {
		return fmt.Errorf("token issuer: %w", err)
	}
	validator, err := authtoken.NewValidator(tokens)
	if err != nil {
		return fmt.Errorf("token validator: %w", err)
	}

	// Audit workers outlive the request context so queued events drain on shutdown.
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()
	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, service.NewAuditService(b.events, log), log)
	dispatcher.Start(workerCtx)

	registry := service.NewRoleRegistry(b.roles, dispatcher, log)
	if err := service.NewRoleBootstrap(registry, cfg.RoleNames(), log).Run(ctx); err != nil {
		return err
	}

	authService := service.NewAuthService(b.creds, registry, b.tx, issuer, log,
		service.WithAttemptLimiter(limiter),
		service.WithAuditRecorder(dispatcher),
		service.WithBcryptCost(cfg.Auth.BcryptCost),
		service.WithStrictRoles(cfg.Auth.StrictRoles),
	)

	checks := map[string]ports.Pinger{"store": b.pinger}
	if redisPinger != nil {
		checks["redis"] = redisPinger
	}

	e := api.NewRouter(api.Deps{
		AuthService: authService,
		Validator:   validator,
		Checks:      checks,
		CORSOrigins: cfg.HTTP.CORSOrigins,
		Log:         log,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}

		dispatcher.Close()
		drained := make(chan struct{})
		go func() {
			dispatcher.Wait()
			close(drained)
		}()
		select {
		case <-drained:
		case <-shutdownCtx.Done():
			log.Warn().Msg("audit queue not drained before shutdown deadline")
			cancelWorkers()
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}

func runMigrate(ctx context.Context, down bool) error {
	cfg, log, err := setup(ctx)
	if err != nil {
		return err
	}

	b, err := openBackend(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeBackend(b, log)

	if down {
		return b.migrateDown(log)
	}
	return b.migrate(log)
}

func runBootstrap(ctx context.Context) error {
	cfg, log, err := setup(ctx)
	if err != nil {
		return err
	}

	b, err := openBackend(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeBackend(b, log)

	if err := b.migrate(log); err != nil {
		return err
	}

	// Record role creations synchronously; there is no server to drain a queue.
	audit := service.NewAuditService(b.events, log)
	recorder := syncRecorder{ctx: ctx, svc: audit, log: log}
	return service.NewRoleBootstrap(service.NewRoleRegistry(b.roles, recorder, log), cfg.RoleNames(), log).Run(ctx)
}

func closeBackend(b *backend, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultCloseTimeout)
	defer cancel()
	if err := b.close(ctx); err != nil {
		log.Warn().Err(err).Msg("store close failed")
	}
}
