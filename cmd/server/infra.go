package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"abacus/internal/audit"
	auditkafka "abacus/internal/audit/kafka"
	calcservice "abacus/internal/calculation/service"
	"abacus/internal/platform/config"
	"abacus/internal/platform/postgres"
	platformredis "abacus/internal/platform/redis"
	"abacus/internal/usage"
	"abacus/pkg/platform/circuit"
)

// auditBuffer is the number of events queued in front of a remote sink.
const auditBuffer = 4096

// infra holds the optional backends selected by configuration. Every field
// may be nil.
type infra struct {
	usage  calcservice.UsageStore
	audit  *audit.Publisher
	worker *audit.Worker

	redis *platformredis.Client
	db    *sql.DB
	sink  *auditkafka.Sink
	log   *slog.Logger
}

func buildInfra(ctx context.Context, cfg *config.Config, log *slog.Logger) (*infra, error) {
	in := &infra{log: log}

	switch cfg.Usage.Backend {
	case config.BackendMemory:
		in.usage = usage.NewMemoryStore()
	case config.BackendRedis:
		client, err := platformredis.New(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		in.redis = client
		in.usage = usage.NewGuardedStore(usage.NewRedisStore(client.Client), circuit.New("redis"), log)
	case config.BackendPostgres:
		db, err := postgres.Open(ctx, cfg.Postgres)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		in.db = db
		store := usage.NewPostgresStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			in.Close(ctx)
			return nil, fmt.Errorf("ensure usage schema: %w", err)
		}
		in.usage = usage.NewGuardedStore(store, circuit.New("postgres"), log)
	}
	log.Info("usage statistics backend", "backend", cfg.Usage.Backend)

	switch cfg.Audit.Backend {
	case config.BackendMemory:
		in.audit = audit.NewPublisher(audit.NewMemoryStore(cfg.Audit.MemoryCapacity))
	case config.BackendKafka:
		sink, err := auditkafka.NewSink(ctx, cfg.Kafka, log)
		if err != nil {
			in.Close(ctx)
			return nil, fmt.Errorf("connect kafka: %w", err)
		}
		in.sink = sink
		in.worker = audit.NewWorker(sink, auditBuffer, log)
		in.audit = audit.NewPublisher(in.worker)
	}
	log.Info("audit backend", "backend", cfg.Audit.Backend)

	return in, nil
}

// Health reports the first failing backend connection.
func (in *infra) Health(ctx context.Context) error {
	if in.redis != nil {
		if err := in.redis.Health(ctx); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	if in.db != nil {
		if err := in.db.PingContext(ctx); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
	}
	return nil
}

// Close releases backend connections. The audit worker must have stopped so
// the sink flush sees every queued event.
func (in *infra) Close(ctx context.Context) {
	if in.sink != nil {
		if err := in.sink.Close(ctx); err != nil {
			in.log.Warn("kafka sink close failed", "error", err)
		}
	}
	if in.redis != nil {
		if err := in.redis.Close(); err != nil {
			in.log.Warn("redis close failed", "error", err)
		}
	}
	if in.db != nil {
		if err := in.db.Close(); err != nil {
			in.log.Warn("postgres close failed", "error", err)
		}
	}
}
