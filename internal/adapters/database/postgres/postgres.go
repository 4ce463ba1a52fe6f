// Package postgres connects to PostgreSQL through lib/pq.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"github.com/satishbabariya/sqlphrase/internal/adapters/database"
)

// Connect opens a pool for cfg.URL, which may be a postgres:// URL or a
// key=value connection string.
func Connect(ctx context.Context, cfg database.Config) (*database.DB, error) {
	dsn, err := DSN(cfg)
	if err != nil {
		return nil, err
	}
	connector, err := pq.NewConnector(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	return database.Open(ctx, sql.OpenDB(connector), cfg)
}

// DSN returns the connection string for cfg. A configured connect timeout
// is added when the string does not set one.
func DSN(cfg database.Config) (string, error) {
	dsn := cfg.URL
	if cfg.ConnectTimeout <= 0 || strings.Contains(dsn, "connect_timeout") {
		return dsn, nil
	}
	timeout := strconv.Itoa(cfg.ConnectTimeout)

	if !strings.HasPrefix(dsn, "postgres://") && !strings.HasPrefix(dsn, "postgresql://") {
		return strings.TrimSpace(dsn + " connect_timeout=" + timeout), nil
	}
	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("failed to parse connection string: %w", err)
	}
	q := u.Query()
	q.Set("connect_timeout", timeout)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
