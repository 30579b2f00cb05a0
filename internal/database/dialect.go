package database

import (
	"database/sql"
	"regexp"
	"strconv"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Dialect abstracts the differences between the supported database engines.
type Dialect interface {
	// DriverName returns the driver name for sql.Open
	DriverName() string

	// DSN returns the data source name for the connection
	DSN(cfg ConnConfig) string

	// Rewrite converts ? placeholders to the engine's syntax if needed
	Rewrite(query string) string

	// SupportsLastInsertID reports whether the driver supports LastInsertId()
	SupportsLastInsertID() bool

	// Configure applies engine-specific connection settings
	Configure(db *sql.DB) error

	// MigrationsSubdir returns the migrations subdirectory for this engine
	MigrationsSubdir() string

	// MigrationsTableQuery returns the SQL creating the migration tracking table
	MigrationsTableQuery() string
}

// ConnConfig holds connection parameters for any dialect.
type ConnConfig struct {
	Path string // sqlite file path
	URL  string // postgres/mysql connection string
}

var placeholderPattern = regexp.MustCompile(`\?`)

// numberPlaceholders converts ? placeholders to $1, $2, ... for postgres.
func numberPlaceholders(query string) string {
	n := 0
	return placeholderPattern.ReplaceAllStringFunc(query, func(string) string {
		n++
		return "$" + strconv.Itoa(n)
	})
}

func configurePool(db *sql.DB) {
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)
}

// SQLiteDialect implements Dialect for SQLite, the default engine.
type SQLiteDialect struct{}

func NewSQLiteDialect() *SQLiteDialect { return &SQLiteDialect{} }

func (d *SQLiteDialect) DriverName() string            { return "sqlite3" }
func (d *SQLiteDialect) DSN(cfg ConnConfig) string     { return cfg.Path }
func (d *SQLiteDialect) Rewrite(query string) string   { return query }
func (d *SQLiteDialect) SupportsLastInsertID() bool    { return true }
func (d *SQLiteDialect) MigrationsSubdir() string      { return "sqlite" }

func (d *SQLiteDialect) Configure(db *sql.DB) error {
	configurePool(db)

	// WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return err
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON;"); err != nil {
		return err
	}
	return nil
}

func (d *SQLiteDialect) MigrationsTableQuery() string {
	return `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			filename TEXT UNIQUE NOT NULL,
			executed_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`
}

// PostgresDialect implements Dialect for PostgreSQL.
type PostgresDialect struct{}

func NewPostgresDialect() *PostgresDialect { return &PostgresDialect{} }

func (d *PostgresDialect) DriverName() string          { return "postgres" }
func (d *PostgresDialect) DSN(cfg ConnConfig) string   { return cfg.URL }
func (d *PostgresDialect) Rewrite(query string) string { return numberPlaceholders(query) }
func (d *PostgresDialect) SupportsLastInsertID() bool  { return false }
func (d *PostgresDialect) MigrationsSubdir() string    { return "postgres" }

func (d *PostgresDialect) Configure(db *sql.DB) error {
	configurePool(db)
	return nil
}

func (d *PostgresDialect) MigrationsTableQuery() string {
	return `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			id BIGSERIAL PRIMARY KEY,
			filename TEXT UNIQUE NOT NULL,
			executed_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		);
	`
}

// MySQLDialect implements Dialect for MySQL/MariaDB.
type MySQLDialect struct{}

func NewMySQLDialect() *MySQLDialect { return &MySQLDialect{} }

func (d *MySQLDialect) DriverName() string          { return "mysql" }
func (d *MySQLDialect) DSN(cfg ConnConfig) string   { return cfg.URL }
func (d *MySQLDialect) Rewrite(query string) string { return query }
func (d *MySQLDialect) SupportsLastInsertID() bool  { return true }
func (d *MySQLDialect) MigrationsSubdir() string    { return "mysql" }

func (d *MySQLDialect) Configure(db *sql.DB) error {
	configurePool(db)
	return nil
}

func (d *MySQLDialect) MigrationsTableQuery() string {
	return `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			filename VARCHAR(255) UNIQUE NOT NULL,
			executed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`
}
