// Package sqlite connects to SQLite through mattn/go-sqlite3. Connections
// enforce foreign keys and provide the regexp function the SQLite dialect
// renders for regex predicates.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/mattn/go-sqlite3"

	"github.com/satishbabariya/sqlphrase/internal/adapters/database"
)

// DriverName is the database/sql driver registered by this package.
const DriverName = "sqlphrase_sqlite3"

func init() {
	sql.Register(DriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			if err := conn.RegisterFunc("regexp", Match, true); err != nil {
				return err
			}
			_, err := conn.Exec("PRAGMA foreign_keys = ON", nil)
			return err
		},
	})
}

// Connect opens cfg.URL, a file path or file: URI. A sqlite:// prefix is
// accepted and stripped.
func Connect(ctx context.Context, cfg database.Config) (*database.DB, error) {
	path := strings.TrimPrefix(cfg.URL, "sqlite://")
	db, err := sql.Open(DriverName, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one writer at a time
	cfg.MaxConnections = 1
	return database.Open(ctx, db, cfg)
}

var patterns sync.Map

// Match implements regexp(pattern, value) for patterns written as
// /expr/flags. The flags i, m and s map to the Go regexp flags of the
// same name. A pattern without slashes is used as is.
func Match(pattern, value string) (bool, error) {
	re, err := compile(pattern)
	if err != nil {
		return false, err
	}
	return re.MatchString(value), nil
}

func compile(pattern string) (*regexp.Regexp, error) {
	if re, ok := patterns.Load(pattern); ok {
		return re.(*regexp.Regexp), nil
	}

	expr := pattern
	if strings.HasPrefix(pattern, "/") {
		end := strings.LastIndex(pattern, "/")
		if end <= 0 {
			return nil, fmt.Errorf("unterminated pattern %q", pattern)
		}
		expr = pattern[1:end]
		if flags := pattern[end+1:]; flags != "" {
			if strings.Trim(flags, "ims") != "" {
				return nil, fmt.Errorf("unknown flags %q in pattern %q", flags, pattern)
			}
			expr = "(?" + flags + ")" + expr
		}
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	patterns.Store(pattern, re)
	return re, nil
}
