// Package mysql connects to MySQL and MariaDB through go-sql-driver/mysql.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/satishbabariya/sqlphrase/internal/adapters/database"
)

// Connect opens a pool for cfg.URL, a go-sql-driver DSN. A mysql:// prefix
// is accepted and stripped.
func Connect(ctx context.Context, cfg database.Config) (*database.DB, error) {
	driverCfg, err := ParseConfig(cfg)
	if err != nil {
		return nil, err
	}
	connector, err := mysql.NewConnector(driverCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connector: %w", err)
	}
	return database.Open(ctx, sql.OpenDB(connector), cfg)
}

// ParseConfig parses cfg.URL into a driver config. Time columns are
// scanned as time.Time.
func ParseConfig(cfg database.Config) (*mysql.Config, error) {
	dsn := strings.TrimPrefix(cfg.URL, "mysql://")
	driverCfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	driverCfg.ParseTime = true
	if cfg.ConnectTimeout > 0 && driverCfg.Timeout == 0 {
		driverCfg.Timeout = time.Duration(cfg.ConnectTimeout) * time.Second
	}
	return driverCfg, nil
}
