package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/hasandag/auth-service/internal/core/ports"
	"github.com/hasandag/auth-service/internal/infrastructure/config"
	"github.com/hasandag/auth-service/internal/infrastructure/db/memory"
	mongostore "github.com/hasandag/auth-service/internal/infrastructure/db/mongo"
	"github.com/hasandag/auth-service/internal/infrastructure/db/postgres"
	redisstore "github.com/hasandag/auth-service/internal/infrastructure/db/redis"
)

// backend bundles the store implementations selected by STORE_DRIVER.
type backend struct {
	creds  ports.CredentialStore
	roles  ports.RoleStore
	tx     ports.TxManager
	events ports.AuditRepository
	pinger ports.Pinger

	sqlDB *sql.DB
	close func(ctx context.Context) error
}

func openBackend(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*backend, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		log.Warn().Msg("using in-memory store, data is lost on restart")
		store := memory.New()
		return &backend{
			creds:  store,
			roles:  store,
			tx:     store,
			events: store,
			pinger: store,
			close:  func(context.Context) error { return nil },
		}, nil

	case config.DriverMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		if err := mongostore.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("mongo indexes: %w", err)
		}
		tx := mongostore.NewTxManager(client)
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")
		return &backend{
			creds:  mongostore.NewIdentityRepository(db),
			roles:  mongostore.NewRoleRepository(db),
			tx:     tx,
			events: mongostore.NewEventRepository(db),
			pinger: tx,
			close:  client.Disconnect,
		}, nil

	case config.DriverPostgres:
		db, err := postgres.Connect(ctx, postgres.Config{
			DSN:                cfg.Store.PostgresDSN,
			MaxOpenConnections: 25,
			MaxIdleConnections: 5,
		})
		if err != nil {
			return nil, err
		}
		tx := postgres.NewTxManager(db)
		log.Info().Msg("connected to postgres")
		return &backend{
			creds:  postgres.NewIdentityRepository(db),
			roles:  postgres.NewRoleRepository(db),
			tx:     tx,
			events: postgres.NewEventRepository(db),
			pinger: tx,
			sqlDB:  db,
			close:  func(context.Context) error { return db.Close() },
		}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// migrate brings the schema up to date. Mongo indexes are created on open,
// so only postgres has work to do here.
func (b *backend) migrate(log zerolog.Logger) error {
	if b.sqlDB == nil {
		return nil
	}
	if err := postgres.Migrate(b.sqlDB); err != nil {
		return err
	}
	log.Info().Msg("migrations completed successfully")
	return nil
}

// migrateDown rolls the postgres schema back to empty.
func (b *backend) migrateDown(log zerolog.Logger) error {
	if b.sqlDB == nil {
		return fmt.Errorf("migrate --down is only supported for postgres")
	}
	if err := postgres.MigrateDown(b.sqlDB); err != nil {
		return err
	}
	log.Info().Msg("migrations rolled back")
	return nil
}

// openLimiter returns the redis-backed limiter when REDIS_ADDR is set and
// the in-process one otherwise. The returned pinger is nil without redis.
func openLimiter(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.AttemptLimiter, ports.Pinger, func() error, error) {
	if cfg.Redis.Addr == "" {
		log.Info().Msg("sign-in attempts tracked in process")
		return memory.NewAttemptLimiter(cfg.Auth.MaxAttempts, cfg.Auth.Lockout), nil, func() error { return nil }, nil
	}

	client, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, nil, nil, err
	}
	log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")
	return redisstore.NewAttemptLimiter(client, cfg.Auth.MaxAttempts, cfg.Auth.Lockout), redisstore.NewPinger(client), client.Close, nil
}
