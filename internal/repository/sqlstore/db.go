package sqlstore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/FireRedDev/ebayklon/internal/config"
	"github.com/FireRedDev/ebayklon/utils"

	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Dialect selects the SQL flavour of the store
type Dialect string

const (
	Postgres Dialect = "postgres"
	MySQL    Dialect = "mysql"
)

//go:embed migrations
var migrationsFS embed.FS

// driverName maps a dialect to its database/sql driver
func (d Dialect) driverName() (string, error) {
	switch d {
	case Postgres:
		return "pgx", nil
	case MySQL:
		return "mysql", nil
	default:
		return "", fmt.Errorf("sqlstore: unsupported dialect %q", string(d))
	}
}

// Open connects to the configured database and verifies the connection
func Open(ctx context.Context, cfg config.StorageConfig) (*sql.DB, Dialect, error) {
	dialect := Dialect(cfg.Driver)
	driver, err := dialect.driverName()
	if err != nil {
		return nil, "", err
	}

	db, err := sql.Open(driver, cfg.DSN)
	if err != nil {
		return nil, "", fmt.Errorf("sqlstore: open %s: %w", dialect, err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, "", fmt.Errorf("sqlstore: ping %s: %w", dialect, err)
	}
	return db, dialect, nil
}

// Migrate applies the embedded schema migrations of the dialect. It uses a
// connection of its own so closing the migrator leaves the caller's pool intact.
func Migrate(cfg config.StorageConfig) error {
	dialect := Dialect(cfg.Driver)
	driverName, err := dialect.driverName()
	if err != nil {
		return err
	}

	db, err := sql.Open(driverName, cfg.DSN)
	if err != nil {
		return fmt.Errorf("sqlstore: open for migrations: %w", err)
	}
	defer db.Close()

	src, err := iofs.New(migrationsFS, "migrations/"+string(dialect))
	if err != nil {
		return fmt.Errorf("sqlstore: load migrations: %w", err)
	}

	var target database.Driver
	switch dialect {
	case Postgres:
		target, err = migratepgx.WithInstance(db, &migratepgx.Config{})
	case MySQL:
		target, err = migratemysql.WithInstance(db, &migratemysql.Config{})
	}
	if err != nil {
		return fmt.Errorf("sqlstore: migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, string(dialect), target)
	if err != nil {
		return fmt.Errorf("sqlstore: migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("sqlstore: apply migrations: %w", err)
	}

	version, dirty, _ := m.Version()
	utils.Info("database migrations applied", map[string]any{
		"dialect": string(dialect),
		"version": version,
		"dirty":   dirty,
	})
	return nil
}
