package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"strings"

	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/goliatone/go-rmw/core"
	"github.com/goliatone/go-rmw/endpoint"
	"github.com/goliatone/go-rmw/migrations"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/schema"
)

const defaultSQLiteDSN = "file:go-rmw?mode=memory&cache=shared&_foreign_keys=on"

type RepositoryFactory struct {
	db *bun.DB

	catalogStore *CatalogStore
}

func NewRepositoryFactory() *RepositoryFactory {
	return &RepositoryFactory{}
}

func NewRepositoryFactoryFromPersistence(client *persistence.Client) (*RepositoryFactory, error) {
	factory := NewRepositoryFactory()
	if err := factory.BuildStores(client); err != nil {
		return nil, err
	}
	return factory, nil
}

func NewRepositoryFactoryFromDB(db *bun.DB) (*RepositoryFactory, error) {
	factory := NewRepositoryFactory()
	if err := factory.BuildStores(db); err != nil {
		return nil, err
	}
	return factory, nil
}

func (f *RepositoryFactory) BuildStores(persistenceClient any) error {
	if f == nil {
		return fmt.Errorf("sqlstore: repository factory is nil")
	}
	if f.db == nil {
		db, err := resolveBunDB(persistenceClient)
		if err != nil {
			return err
		}
		f.db = db
	}
	if f.catalogStore != nil {
		return nil
	}
	store, err := NewCatalogStore(f.db)
	if err != nil {
		return err
	}
	f.catalogStore = store
	return nil
}

func (f *RepositoryFactory) CatalogStore() endpoint.CatalogStore {
	if f == nil || f.catalogStore == nil {
		return nil
	}
	return f.catalogStore
}

func (f *RepositoryFactory) DB() *bun.DB {
	if f == nil {
		return nil
	}
	return f.db
}

// OpenClient opens the configured database, registers the embedded
// migrations for its dialect and applies them.
func OpenClient(ctx context.Context, cfg core.DatabaseConfig) (*persistence.Client, error) {
	driver := cfg.GetDriver()
	if driver == "" {
		driver = "sqlite3"
	}
	dialectName, err := migrations.DialectForDriver(driver)
	if err != nil {
		return nil, core.InvalidArgument(err.Error(), map[string]any{"driver": driver})
	}

	dsn := cfg.GetServer()
	var dialect schema.Dialect
	switch dialectName {
	case migrations.DialectSQLite:
		driver = "sqlite3"
		if dsn == "" {
			dsn = defaultSQLiteDSN
		}
		dialect = sqlitedialect.New()
	default:
		driver = "postgres"
		if dsn == "" {
			return nil, core.InvalidArgument("sqlstore: postgres dsn is required")
		}
		dialect = pgdialect.New()
	}
	cfg.Driver = driver
	cfg.DSN = dsn

	sqlDB, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open %s: %w", driver, err)
	}
	if dialectName == migrations.DialectSQLite && strings.Contains(dsn, "mode=memory") {
		sqlDB.SetMaxOpenConns(1)
	}

	client, err := persistence.New(cfg, sqlDB, dialect)
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("sqlstore: new persistence client: %w", err)
	}

	_, err = migrations.Register(ctx, func(_ context.Context, dialect string, _ string, fsys fs.FS) error {
		if dialect != dialectName {
			return nil
		}
		client.RegisterSQLMigrations(fsys)
		return nil
	}, migrations.WithValidationTargets(dialectName))
	if err != nil {
		_ = client.DB().Close()
		return nil, err
	}
	if err := client.Migrate(ctx); err != nil {
		_ = client.DB().Close()
		return nil, fmt.Errorf("sqlstore: migrate: %w", err)
	}
	return client, nil
}

func resolveBunDB(candidate any) (*bun.DB, error) {
	switch typed := candidate.(type) {
	case nil:
		return nil, fmt.Errorf("sqlstore: persistence client is required")
	case *bun.DB:
		return typed, nil
	case interface{ DB() *bun.DB }:
		db := typed.DB()
		if db == nil {
			return nil, fmt.Errorf("sqlstore: persistence client returned nil bun db")
		}
		return db, nil
	default:
		return nil, fmt.Errorf("sqlstore: unsupported persistence client type %T", candidate)
	}
}
