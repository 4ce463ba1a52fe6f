// Package database runs phrased statements against a live connection.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/satishbabariya/sqlphrase/internal/core/procedure"
	"github.com/satishbabariya/sqlphrase/internal/debug"
)

// ErrNotConnected is returned by a DB that has been closed.
var ErrNotConnected = errors.New("database not connected")

// Config holds database connection configuration.
type Config struct {
	Provider       string
	URL            string
	MaxConnections int
	MaxIdleTime    int // seconds
	ConnectTimeout int // seconds
}

// DB is a connection pool that satisfies procedure.Executor.
type DB struct {
	db *sql.DB
}

// Open applies the pool settings in cfg to db and pings it. db is closed
// if the ping fails.
func Open(ctx context.Context, db *sql.DB, cfg Config) (*DB, error) {
	if cfg.MaxConnections > 0 {
		db.SetMaxOpenConns(cfg.MaxConnections)
		db.SetMaxIdleConns(max(cfg.MaxConnections/2, 1))
	}
	if cfg.MaxIdleTime > 0 {
		db.SetConnMaxIdleTime(time.Duration(cfg.MaxIdleTime) * time.Second)
	}

	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(cfg.ConnectTimeout)*time.Second)
		defer cancel()
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	debug.Debug("Connected to database", "provider", cfg.Provider)
	return &DB{db: db}, nil
}

// SQL returns the underlying pool.
func (d *DB) SQL() *sql.DB {
	return d.db
}

// Raw runs query and returns its rows.
func (d *DB) Raw(ctx context.Context, query string, args ...interface{}) ([]procedure.Row, error) {
	if d.db == nil {
		return nil, ErrNotConnected
	}
	debug.Statement("Executing statement", query, args)
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return Scan(rows)
}

// Begin starts a transaction.
func (d *DB) Begin(ctx context.Context) (procedure.Tx, error) {
	if d.db == nil {
		return nil, ErrNotConnected
	}
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &Tx{tx: tx}, nil
}

// Pin reserves one connection from the pool. Statements that must share
// session state, such as a transaction opened by a BEGIN statement or a
// PRAGMA, run through the returned Conn.
func (d *DB) Pin(ctx context.Context) (procedure.Session, error) {
	if d.db == nil {
		return nil, ErrNotConnected
	}
	conn, err := d.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve connection: %w", err)
	}
	return &Conn{conn: conn}, nil
}

// Close closes the pool.
func (d *DB) Close() error {
	if d.db == nil {
		return nil
	}
	err := d.db.Close()
	d.db = nil
	debug.Debug("Disconnected from database")
	return err
}

// Conn is a single pooled connection that satisfies procedure.Session.
type Conn struct {
	conn *sql.Conn
}

// Raw runs query on the connection.
func (c *Conn) Raw(ctx context.Context, query string, args ...interface{}) ([]procedure.Row, error) {
	debug.Statement("Executing statement on pinned connection", query, args)
	rows, err := c.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return Scan(rows)
}

// Begin starts a transaction on the connection.
func (c *Conn) Begin(ctx context.Context) (procedure.Tx, error) {
	tx, err := c.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &Tx{tx: tx}, nil
}

// Close returns the connection to the pool.
func (c *Conn) Close() error {
	return c.conn.Close()
}

// Tx is a transaction that satisfies procedure.Tx.
type Tx struct {
	tx *sql.Tx
}

// Raw runs query inside the transaction.
func (t *Tx) Raw(ctx context.Context, query string, args ...interface{}) ([]procedure.Row, error) {
	debug.Statement("Executing statement in transaction", query, args)
	rows, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return Scan(rows)
}

// Commit commits the transaction.
func (t *Tx) Commit() error {
	return t.tx.Commit()
}

// Rollback rolls back the transaction.
func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}

// Scan reads every row of rows into a map keyed by column name and closes
// rows. Byte slices are returned as strings.
func Scan(rows *sql.Rows) ([]procedure.Row, error) {
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []procedure.Row
	for rows.Next() {
		values := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(procedure.Row, len(cols))
		for i, col := range cols {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Ensure DB implements procedure.Executor interface.
var _ procedure.Executor = (*DB)(nil)

// Ensure DB can pin a connection.
var _ procedure.Pinner = (*DB)(nil)

// Ensure Conn implements procedure.Session interface.
var _ procedure.Session = (*Conn)(nil)

// Ensure Tx implements procedure.Tx interface.
var _ procedure.Tx = (*Tx)(nil)
