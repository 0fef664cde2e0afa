package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"driveup-workers/internal/common/config"

	_ "github.com/lib/pq"
)

// PostgresClient wraps the catalogue database connection.
type PostgresClient struct {
	DB *sql.DB
}

func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresClient{DB: db}, nil
}

func (c *PostgresClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// ReadOnly runs fn inside a READ ONLY transaction that is always rolled back,
// so generated statements can never persist a change.
func (c *PostgresClient) ReadOnly(ctx context.Context, fn func(*sql.Tx) error) error {
	return RunReadOnly(ctx, c.DB, fn)
}

// RunReadOnly is ReadOnly for callers holding a bare *sql.DB.
func RunReadOnly(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return fmt.Errorf("begin read-only tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	return fn(tx)
}
