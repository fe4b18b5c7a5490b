package common

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/lib/pq"
)

// DBConfig holds the connection settings for the postgres pool.
type DBConfig struct {
	URL          string
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxIdleTime  time.Duration
}

// DSN returns the connection string. URL wins over the discrete fields.
func (c DBConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}

	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     "/" + c.Name,
		RawQuery: "sslmode=" + url.QueryEscape(sslMode),
	}

	return u.String()
}

// DatabaseError wraps any failure reported by the driver or the pool.
type DatabaseError struct {
	Err error
}

func (e *DatabaseError) Error() string {
	return fmt.Sprintf("database error: %v", e.Err)
}

func (e *DatabaseError) Unwrap() error {
	return e.Err
}

// DB owns the process-wide connection pool. The pool is opened on first use.
type DB struct {
	cfg DBConfig

	mu   sync.Mutex
	pool *sql.DB
}

func NewDB(cfg DBConfig) *DB {
	return &DB{cfg: cfg}
}

// NewDBFromHandle wraps an already opened handle.
func NewDBFromHandle(pool *sql.DB) *DB {
	return &DB{pool: pool}
}

func (db *DB) acquire(ctx context.Context) (*sql.DB, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.pool != nil {
		return db.pool, nil
	}

	pool, err := connectDB(ctx, db.cfg.DSN(), db.cfg.MaxOpenConns, db.cfg.MaxIdleConns, db.cfg.MaxIdleTime)
	if err != nil {
		return nil, err
	}

	db.pool = pool
	return pool, nil
}

// connectDB connects to the database and returns the connection
func connectDB(ctx context.Context, URI string, maxOpenConns int, maxIdleConns int, maxIdleTime time.Duration) (*sql.DB, error) {
	pool, err := sql.Open("postgres", URI)
	if err != nil {
		return nil, err
	}

	if maxOpenConns > 0 {
		pool.SetMaxOpenConns(maxOpenConns)
	}
	if maxIdleConns > 0 {
		pool.SetMaxIdleConns(maxIdleConns)
	}
	if maxIdleTime > 0 {
		pool.SetConnMaxIdleTime(maxIdleTime)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.PingContext(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

// Query runs a statement and passes the row set to scan. The rows, and with
// them the pooled connection, are released before Query returns.
func (db *DB) Query(ctx context.Context, query string, args []any, scan func(*sql.Rows) error) error {
	pool, err := db.acquire(ctx)
	if err != nil {
		return &DatabaseError{Err: err}
	}

	rows, err := pool.QueryContext(ctx, query, args...)
	if err != nil {
		return &DatabaseError{Err: err}
	}
	defer rows.Close()

	if err := scan(rows); err != nil {
		var dbErr *DatabaseError
		if errors.As(err, &dbErr) || errors.Is(err, ErrRecordNotFound) {
			return err
		}
		return &DatabaseError{Err: err}
	}

	if err := rows.Err(); err != nil {
		return &DatabaseError{Err: err}
	}

	return nil
}

// Ping verifies the database is reachable, opening the pool if needed.
func (db *DB) Ping(ctx context.Context) error {
	pool, err := db.acquire(ctx)
	if err != nil {
		return &DatabaseError{Err: err}
	}

	if err := pool.PingContext(ctx); err != nil {
		return &DatabaseError{Err: err}
	}

	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.pool == nil {
		return nil
	}

	err := db.pool.Close()
	db.pool = nil
	return err
}

// IsUniqueViolation reports whether err is a unique constraint violation on the named constraint.
func IsUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505" && pqErr.Constraint == constraint
	}

	return false
}
