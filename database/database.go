package database

import (
	"context"
	"fmt"

	"github.com/sagarc03/gallery"
	"github.com/sagarc03/gallery/database/dynamo"
	"github.com/sagarc03/gallery/database/postgres"
	"github.com/sagarc03/gallery/database/redis"
	"github.com/sagarc03/gallery/database/sqlite"
)

// Config holds the configuration for connecting to a metadata backend.
type Config struct {
	// Type specifies the backend: "dynamodb", "sqlite", "postgres" or "redis"
	Type string `mapstructure:"type" validate:"required,oneof=dynamodb sqlite postgres redis"`
	// DSN is the connection string (file path, postgres URL or redis URL).
	// Unused for dynamodb.
	DSN string `mapstructure:"dsn"`
	// Table is the name of the record table (key prefix for redis)
	Table string `mapstructure:"table" validate:"required"`
	// Region and Endpoint configure the DynamoDB client.
	Region   string `mapstructure:"region"`
	Endpoint string `mapstructure:"endpoint"`
}

// Connect establishes a connection to the configured backend, validates the
// table and returns a MetaDataRepo. The SQL backends create their table when
// missing; DynamoDB tables are created by Init.
// The returned cleanup function should be called to close the connection.
func Connect(ctx context.Context, cfg Config) (gallery.MetaDataRepo, func(), error) {
	tables := gallery.Tables{MetaData: cfg.Table}
	if err := tables.Validate(); err != nil {
		return nil, nil, fmt.Errorf("connect: %w", err)
	}

	switch cfg.Type {
	case "dynamodb":
		return connectDynamo(ctx, cfg, tables)
	case "sqlite":
		return connectSQLite(ctx, cfg.DSN, tables)
	case "postgres":
		return connectPostgres(ctx, cfg.DSN, tables)
	case "redis":
		return connectRedis(ctx, cfg.DSN, tables)
	default:
		return nil, nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}
}

// Init creates the record table for the configured backend if it does not
// exist. Running it against an existing table is a no-op.
func Init(ctx context.Context, cfg Config) error {
	tables := gallery.Tables{MetaData: cfg.Table}
	if err := tables.Validate(); err != nil {
		return fmt.Errorf("init: %w", err)
	}

	switch cfg.Type {
	case "dynamodb":
		client, err := dynamo.NewClient(ctx, cfg.Region, cfg.Endpoint)
		if err != nil {
			return fmt.Errorf("init dynamodb: %w", err)
		}
		return dynamo.Migrate(ctx, client, tables)
	case "sqlite", "postgres", "redis":
		// Connect migrates the SQL backends; redis needs no schema.
		_, cleanup, err := Connect(ctx, cfg)
		if err != nil {
			return fmt.Errorf("init %s: %w", cfg.Type, err)
		}
		cleanup()
		return nil
	default:
		return fmt.Errorf("unsupported database type: %s", cfg.Type)
	}
}

func connectDynamo(ctx context.Context, cfg Config, tables gallery.Tables) (gallery.MetaDataRepo, func(), error) {
	client, err := dynamo.NewClient(ctx, cfg.Region, cfg.Endpoint)
	if err != nil {
		return nil, nil, fmt.Errorf("connect dynamodb: %w", err)
	}

	if err = dynamo.ValidateSchema(ctx, client, tables); err != nil {
		return nil, nil, fmt.Errorf("validate dynamodb schema: %w", err)
	}

	repo, err := dynamo.NewRepo(client, tables)
	if err != nil {
		return nil, nil, fmt.Errorf("create dynamodb repo: %w", err)
	}

	return repo, func() {}, nil
}

func connectSQLite(ctx context.Context, dsn string, tables gallery.Tables) (gallery.MetaDataRepo, func(), error) {
	db, err := sqlite.Open(ctx, dsn)
	if err != nil {
		return nil, nil, err
	}

	if err = sqlite.Migrate(ctx, db, tables); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migrate sqlite: %w", err)
	}

	if err = sqlite.ValidateSchema(ctx, db, tables); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("validate sqlite schema: %w", err)
	}

	repo, err := sqlite.NewRepo(db, tables)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("create sqlite repo: %w", err)
	}

	cleanup := func() {
		_ = db.Close()
	}

	return repo, cleanup, nil
}

func connectPostgres(ctx context.Context, dsn string, tables gallery.Tables) (gallery.MetaDataRepo, func(), error) {
	pool, err := postgres.Open(ctx, dsn)
	if err != nil {
		return nil, nil, err
	}

	if err = postgres.Migrate(ctx, pool, tables); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("migrate postgres: %w", err)
	}

	if err = postgres.ValidateSchema(ctx, pool, tables); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("validate postgres schema: %w", err)
	}

	repo, err := postgres.NewRepo(pool, tables)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("create postgres repo: %w", err)
	}

	return repo, pool.Close, nil
}

func connectRedis(ctx context.Context, dsn string, tables gallery.Tables) (gallery.MetaDataRepo, func(), error) {
	client, err := redis.Open(ctx, dsn)
	if err != nil {
		return nil, nil, err
	}

	repo, err := redis.NewRepo(client, tables)
	if err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("create redis repo: %w", err)
	}

	cleanup := func() {
		_ = client.Close()
	}

	return repo, cleanup, nil
}
