package sqlight

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Database configuration constants.
const (
	// dirPermissions is the permission mode for the database directory.
	dirPermissions = 0750

	// filePermissions is the permission mode for the database file.
	filePermissions = 0600

	// msPerSecond converts seconds to milliseconds.
	msPerSecond = 1000

	// connectionTimeout is the timeout for verifying database connectivity.
	connectionTimeout = 5 * time.Second
)

// DB is a handle owning one live SQLite connection. It carries the row
// factory, template directory, busy timeout and autocommit mode fixed
// at construction.
//
// The handle follows a single-threaded, blocking model: operations run
// on the caller's goroutine until the engine responds. A DB must not be
// used concurrently from multiple goroutines; cross-connection
// contention is governed by the engine's own locking and busy timeout.
type DB struct {
	conn *sql.DB
	log  *slog.Logger

	factory      RowFactory
	templatesDir string
	busyTimeout  int
	walMode      bool
	autocommit   bool
	path         string

	// tx is the pending transaction when autocommit is disabled.
	// It is begun lazily on the first statement and cleared by Commit.
	tx     *sql.Tx
	closed bool
}

// Option configures a DB at construction time.
type Option func(*DB)

// WithRowFactory sets the factory applied to every returned row.
// Default: TupleFactory (ordered []any).
func WithRowFactory(factory RowFactory) Option {
	return func(db *DB) { db.factory = factory }
}

// WithTemplatesDir sets the directory searched for named SQL templates.
func WithTemplatesDir(dir string) Option {
	return func(db *DB) { db.templatesDir = dir }
}

// WithBusyTimeout sets the lock wait timeout in seconds.
func WithBusyTimeout(seconds int) Option {
	return func(db *DB) { db.busyTimeout = seconds }
}

// WithAutocommit controls whether each statement commits implicitly.
// When disabled (the default), statements accumulate in a transaction
// finalised by Commit and rolled back on Close.
func WithAutocommit(enabled bool) Option {
	return func(db *DB) { db.autocommit = enabled }
}

// WithWALMode controls Write-Ahead Logging on the connection.
func WithWALMode(enabled bool) Option {
	return func(db *DB) { db.walMode = enabled }
}

// WithLogger attaches a structured logger. The handle logs at debug
// level only; it is silent without a logger.
func WithLogger(log *slog.Logger) Option {
	return func(db *DB) { db.log = log }
}

// Open establishes a connection to the SQLite database at path using
// default configuration, adjusted by the given options.
//
// Returns ErrConnection if the underlying storage cannot be opened.
func Open(path string, opts ...Option) (*DB, error) {
	cfg := DefaultConfig()
	cfg.Database = path
	return FromConfig(cfg, opts...)
}

// FromConfig establishes a connection using the given configuration.
// Options are applied after the config and take precedence over it.
//
// It performs the following setup:
//  1. Creates the database directory if it doesn't exist
//  2. Opens the database file (creates if not present)
//  3. Configures busy timeout and WAL mode via connection pragmas
//  4. Verifies the connection with a ping
//
// Returns ErrConnection if the underlying storage cannot be opened.
func FromConfig(cfg *Config, opts ...Option) (*DB, error) {
	db := &DB{
		log:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		factory:      TupleFactory,
		templatesDir: cfg.SQLTemplatesDir,
		busyTimeout:  cfg.BusyTimeout,
		walMode:      cfg.WALMode,
		autocommit:   cfg.Autocommit,
		path:         cfg.Database,
	}
	for _, opt := range opts {
		opt(db)
	}

	if db.path == "" {
		return nil, fmt.Errorf("%w: database path is required", ErrConnection)
	}

	// Ensure directory exists
	dir := filepath.Dir(db.path)
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return nil, fmt.Errorf("%w: creating database directory: %w", ErrConnection, err)
	}

	// Build connection string with pragmas
	// See: https://github.com/mattn/go-sqlite3#connection-string
	connStr := fmt.Sprintf("file:%s?_busy_timeout=%d&_foreign_keys=on",
		db.path,
		db.busyTimeout*msPerSecond,
	)
	if db.walMode {
		connStr += "&_journal_mode=WAL&_synchronous=NORMAL"
	}

	conn, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("%w: opening database: %w", ErrConnection, err)
	}

	// One handle owns exactly one connection
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	db.conn = conn

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
	defer cancel()

	if err := conn.PingContext(ctx); err != nil {
		conn.Close() //nolint:errcheck // Best effort cleanup on error path
		return nil, fmt.Errorf("%w: verifying database connection: %w", ErrConnection, err)
	}

	// Set file permissions (owner read/write only)
	// Ignore error - file might not exist yet on first run, will be set after first write
	_ = os.Chmod(db.path, filePermissions) //nolint:errcheck // Intentional: first run creates file later

	db.log.Debug("database opened",
		"path", db.path,
		"autocommit", db.autocommit,
		"wal_mode", db.walMode,
	)

	return db, nil
}

// Path returns the filesystem path to the database file.
func (db *DB) Path() string {
	return db.path
}

// HealthCheck verifies the database is accessible and functioning.
func (db *DB) HealthCheck(ctx context.Context) error {
	if db.closed {
		return fmt.Errorf("%w: handle is closed", ErrConnection)
	}

	// A pending transaction holds the handle's only connection, so the
	// check must go through it to avoid blocking on the pool.
	var row *sql.Row
	if db.tx != nil {
		row = db.tx.QueryRowContext(ctx, "SELECT 1")
	} else {
		row = db.conn.QueryRowContext(ctx, "SELECT 1")
	}

	var result int
	if err := row.Scan(&result); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	return nil
}

// Close releases the connection. Any pending transaction is rolled
// back. Close is idempotent; after it returns, every operation on the
// handle fails with ErrConnection.
func (db *DB) Close() error {
	if db.closed {
		return nil
	}
	db.closed = true

	if db.tx != nil {
		db.tx.Rollback() //nolint:errcheck // Best effort rollback of the pending transaction
		db.tx = nil
	}

	if err := db.conn.Close(); err != nil {
		return fmt.Errorf("closing database: %w", err)
	}
	return nil
}

// execer abstracts the statement target: the connection itself in
// autocommit mode, or the pending transaction otherwise.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// target returns the statement target, lazily beginning a transaction
// when autocommit is disabled.
func (db *DB) target(ctx context.Context) (execer, error) {
	if db.autocommit {
		return db.conn, nil
	}
	if db.tx == nil {
		tx, err := db.conn.BeginTx(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: starting transaction: %w", ErrQuery, err)
		}
		db.tx = tx
	}
	return db.tx, nil
}

// prepare resolves the SQL source and returns the statement target.
func (db *DB) prepare(ctx context.Context, src Sql) (execer, string, error) {
	if db.closed {
		return nil, "", fmt.Errorf("%w: handle is closed", ErrConnection)
	}

	query, err := src.Resolve(db.templatesDir)
	if err != nil {
		return nil, "", err
	}

	target, err := db.target(ctx)
	if err != nil {
		return nil, "", err
	}
	return target, query, nil
}

// Execute resolves the SQL source and runs it with the given parameters.
// Use it for statements that return no rows; the engine's result
// (last insert id, rows affected) is returned as-is.
//
// Engine failures are returned wrapped with ErrQuery, the original
// engine message preserved in the chain. No retries are performed.
func (db *DB) Execute(ctx context.Context, src Sql, args ...any) (sql.Result, error) {
	target, query, err := db.prepare(ctx, src)
	if err != nil {
		return nil, err
	}

	db.log.DebugContext(ctx, "executing statement", "template", src.IsTemplate())

	result, err := target.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQuery, err)
	}
	return result, nil
}

// Query resolves the SQL source, runs it and returns a cursor over the
// result rows. Rows are not materialised; each call to Next reads one
// row from the engine and maps it through the handle's row factory.
//
// The caller must Close the returned Rows.
func (db *DB) Query(ctx context.Context, src Sql, args ...any) (*Rows, error) {
	target, query, err := db.prepare(ctx, src)
	if err != nil {
		return nil, err
	}

	db.log.DebugContext(ctx, "executing query", "template", src.IsTemplate())

	rows, err := target.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQuery, err)
	}

	columns, err := rows.Columns()
	if err != nil {
		rows.Close() //nolint:errcheck // Best effort cleanup on error path
		return nil, fmt.Errorf("%w: %w", ErrQuery, err)
	}

	return &Rows{rows: rows, columns: columns, factory: db.factory}, nil
}

// FetchOne executes the query and returns the first row mapped through
// the row factory, or nil if the result set is empty. The factory is
// never invoked for an empty result set.
func (db *DB) FetchOne(ctx context.Context, src Sql, args ...any) (any, error) {
	rows, err := db.Query(ctx, src, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck // Read-side cleanup

	if !rows.Next() {
		return nil, rows.Err()
	}
	return rows.Row(), nil
}

// FetchAll executes the query and returns every row mapped through the
// row factory, preserving engine result order. An empty result set
// yields an empty slice.
func (db *DB) FetchAll(ctx context.Context, src Sql, args ...any) ([]any, error) {
	rows, err := db.Query(ctx, src, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck // Read-side cleanup

	results := make([]any, 0)
	for rows.Next() {
		results = append(results, rows.Row())
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// Commit executes the statement, then commits the active transaction.
// Use it when autocommit is disabled; with autocommit enabled it
// behaves like Execute.
func (db *DB) Commit(ctx context.Context, src Sql, args ...any) error {
	if _, err := db.Execute(ctx, src, args...); err != nil {
		return err
	}
	return db.commitTx()
}

// commitTx finalises the pending transaction, if any.
func (db *DB) commitTx() error {
	if db.tx == nil {
		return nil
	}
	tx := db.tx
	db.tx = nil
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing transaction: %w", ErrQuery, err)
	}
	return nil
}

// ExecuteMany resolves the SQL source once, prepares it, and executes
// it for each parameter batch in order. Execution stops at the first
// failing batch.
func (db *DB) ExecuteMany(ctx context.Context, src Sql, batches [][]any) error {
	target, query, err := db.prepare(ctx, src)
	if err != nil {
		return err
	}

	stmt, err := target.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrQuery, err)
	}
	defer stmt.Close() //nolint:errcheck // Statement cleanup

	for _, args := range batches {
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("%w: %w", ErrQuery, err)
		}
	}
	return nil
}

// ExecuteScript resolves the SQL source and executes it as a script of
// one or more statements. Parameters are not supported in scripts.
func (db *DB) ExecuteScript(ctx context.Context, src Sql) error {
	_, err := db.Execute(ctx, src)
	return err
}

// Rows is a cursor over a result set. Each row is mapped through the
// handle's row factory as it is read.
type Rows struct {
	rows    *sql.Rows
	columns []string
	factory RowFactory

	current any
	err     error
}

// Next advances to the next row, applying the row factory. It returns
// false when the result set is exhausted or an error occurs; check Err
// after iteration.
func (r *Rows) Next() bool {
	if r.err != nil {
		return false
	}
	if !r.rows.Next() {
		if err := r.rows.Err(); err != nil {
			r.err = fmt.Errorf("%w: %w", ErrQuery, err)
		}
		return false
	}

	values := make([]any, len(r.columns))
	ptrs := make([]any, len(r.columns))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := r.rows.Scan(ptrs...); err != nil {
		r.err = fmt.Errorf("%w: %w", ErrQuery, err)
		return false
	}

	r.current = r.factory(r.columns, values)
	return true
}

// Row returns the current row as produced by the row factory.
// Valid only after a successful Next.
func (r *Rows) Row() any {
	return r.current
}

// Columns returns the ordered column names reported by the engine.
func (r *Rows) Columns() []string {
	return r.columns
}

// Err returns the first error encountered during iteration.
func (r *Rows) Err() error {
	return r.err
}

// Close releases the underlying cursor. It is safe to call multiple
// times.
func (r *Rows) Close() error {
	return r.rows.Close()
}
