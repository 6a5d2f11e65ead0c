package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/mitchellh/cli"
	"github.com/rs/zerolog"

	"github.com/flowgraph/flowsave/internal/adapters/repository/memory"
	"github.com/flowgraph/flowsave/internal/adapters/repository/postgres"
	"github.com/flowgraph/flowsave/internal/adapters/repository/redis"
	"github.com/flowgraph/flowsave/internal/adapters/repository/sqlite"
	"github.com/flowgraph/flowsave/internal/config"
	"github.com/flowgraph/flowsave/internal/core/savepoint"
	"github.com/flowgraph/flowsave/internal/infrastructure/logger"
	"github.com/flowgraph/flowsave/pkg/serialization"
)

// Meta holds state shared by every command.
type Meta struct {
	Ui cli.Ui

	configPath string
	envFiles   []string
}

// store is an opened save point store.
type store struct {
	savepoint.Saver
	driver string
	close  func() error
}

func (m *Meta) flagSet(name string, help func() string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&m.configPath, "config", "", "path to a flowsave YAML config file")
	fs.SetOutput(io.Discard)
	fs.Usage = func() { m.Ui.Error(help()) }
	return fs
}

func (m *Meta) loadConfig() (*config.Config, error) {
	return config.Load(m.configPath, m.envFiles...)
}

func (m *Meta) logger(cfg *config.Config) zerolog.Logger {
	log, err := logger.New(cfg.Log)
	if err != nil {
		m.Ui.Warn(fmt.Sprintf("Falling back to default logging: %s", err))
		log, _ = logger.New(logger.Config{})
	}
	return log
}

// openStore connects to the store cfg selects.
func (m *Meta) openStore(ctx context.Context, cfg *config.Config) (*store, error) {
	codec, err := serialization.CodecByName(cfg.Codec)
	if err != nil {
		return nil, err
	}
	serializer := serialization.NewSerializer(serialization.SerializationConfig{Codec: codec})

	switch cfg.Store.Driver {
	case config.DriverMemory:
		m.Ui.Warn("Using the memory store: save points last only for this command.")
		return &store{Saver: memory.NewSaver(serializer), driver: cfg.Store.Driver, close: func() error { return nil }}, nil

	case config.DriverSQLite:
		s, err := sqlite.Open(ctx, cfg.Store.DSN, serializer)
		if err != nil {
			return nil, err
		}
		if cfg.Store.Table != "" {
			s.WithTableName(cfg.Store.Table)
			if err := s.CreateTables(ctx); err != nil {
				_ = s.Close()
				return nil, err
			}
		}
		return &store{Saver: s, driver: cfg.Store.Driver, close: s.Close}, nil

	case config.DriverPostgres:
		s, err := postgres.Open(ctx, cfg.Store.DSN, serializer)
		if err != nil {
			return nil, err
		}
		return &store{Saver: s, driver: cfg.Store.Driver, close: s.Close}, nil

	case config.DriverRedis:
		s, err := redis.Open(ctx, cfg.Store.RedisURL, serializer)
		if err != nil {
			return nil, err
		}
		return &store{Saver: s, driver: cfg.Store.Driver, close: s.Close}, nil
	}
	return nil, fmt.Errorf("%w: unknown store driver %q", config.ErrInvalidConfig, cfg.Store.Driver)
}

// setup loads config and opens the store; callers must call close.
func (m *Meta) setup(ctx context.Context) (*config.Config, *store, error) {
	cfg, err := m.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	st, err := m.openStore(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s store: %w", cfg.Store.Driver, err)
	}
	return cfg, st, nil
}
