package db

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrations embed.FS

func init() {
	// modernc registers as "sqlite", which sqlx does not know about.
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// Pool holds the connection pool knobs shared by both drivers.
type Pool struct {
	MaxOpen     int
	MaxIdle     int
	MaxLifetime time.Duration
}

// Connect opens a Postgres pool through pgx's stdlib adapter, checks it and
// brings the schema up to date.
func Connect(ctx context.Context, dsn string, pool Pool) (*sqlx.DB, error) {
	// Parse DSN → pgx config struct
	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("db: failed to parse DSN: %w", err)
	}

	// Fail fast on startup if PG is unreachable
	cfg.ConnectTimeout = 5 * time.Second

	db := sqlx.NewDb(stdlib.OpenDB(*cfg), "pgx")
	applyPool(db, pool)

	if err := check(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("db: failed to connect to Postgres: %w", err)
	}

	if err := migrate(ctx, db, goose.DialectPostgres, "migrations/postgres"); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// OpenSQLite opens (or creates) a SQLite database at path and migrates it.
// ":memory:" gives a private in-memory database.
func OpenSQLite(ctx context.Context, path string) (*sqlx.DB, error) {
	dsn := path
	if path != ":memory:" {
		dsn = path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	}

	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("db: open sqlite: %w", err)
	}

	// SQLite takes one writer at a time; a single connection also keeps an
	// in-memory database from splitting into one copy per connection.
	db.SetMaxOpenConns(1)

	if err := check(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("db: failed to open SQLite: %w", err)
	}

	if err := migrate(ctx, db, goose.DialectSQLite3, "migrations/sqlite"); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// Open picks the driver from the URL: postgres:// and postgresql:// go to
// Postgres, anything else is a SQLite path.
func Open(ctx context.Context, url string, postgres bool, pool Pool) (*sqlx.DB, error) {
	if postgres {
		return Connect(ctx, url, pool)
	}
	return OpenSQLite(ctx, url)
}

func applyPool(db *sqlx.DB, pool Pool) {
	if pool.MaxOpen > 0 {
		db.SetMaxOpenConns(pool.MaxOpen)
	}
	if pool.MaxIdle > 0 {
		db.SetMaxIdleConns(pool.MaxIdle)
	}
	if pool.MaxLifetime > 0 {
		db.SetConnMaxLifetime(pool.MaxLifetime)
	}
}

func check(ctx context.Context, db *sqlx.DB) error {
	if err := db.PingContext(ctx); err != nil {
		return err
	}

	var tmp int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&tmp); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	return nil
}

func migrate(ctx context.Context, db *sqlx.DB, dialect goose.Dialect, dir string) error {
	fsys, err := fs.Sub(migrations, dir)
	if err != nil {
		return fmt.Errorf("db: migrations: %w", err)
	}

	provider, err := goose.NewProvider(dialect, db.DB, fsys)
	if err != nil {
		return fmt.Errorf("db: migrations: %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("db: goose up: %w", err)
	}
	return nil
}
