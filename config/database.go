package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-sql-driver/mysql"
)

// MySQLCollation is the binary collation used for MySQL connections and
// tables so that text comparisons stay case-sensitive.
const MySQLCollation = "utf8mb4_bin"

// DatabaseType represents the type of database
type DatabaseType string

const (
	DatabaseTypeSQLite DatabaseType = "sqlite"
	DatabaseTypeMySQL  DatabaseType = "mysql"
)

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Type   DatabaseType
	SQLite SQLiteConfig
	MySQL  MySQLConfig
}

// SQLiteConfig holds SQLite specific configuration
type SQLiteConfig struct {
	Path string
}

// MySQLConfig holds MySQL specific configuration
type MySQLConfig struct {
	DSN string
}

// GetDSN returns the data source name for the database
func (c *DatabaseConfig) GetDSN() string {
	switch c.Type {
	case DatabaseTypeMySQL:
		dsn, err := normalizeMySQLDSN(c.MySQL.DSN)
		if err != nil {
			return c.MySQL.DSN
		}
		return dsn
	default:
		return c.SQLite.Path + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"
	}
}

// GetDatabaseConfig assembles the database configuration from the environment.
func GetDatabaseConfig() *DatabaseConfig {
	dbType := DatabaseType(lookup("db_type"))
	if dbType == "" {
		dbType = DatabaseTypeSQLite
	}
	return &DatabaseConfig{
		Type:   dbType,
		SQLite: SQLiteConfig{Path: GetDBPath()},
		MySQL:  MySQLConfig{DSN: lookup("mysql_dsn")},
	}
}

// NewSQLiteConfig returns a configuration for a SQLite file at path.
func NewSQLiteConfig(path string) *DatabaseConfig {
	return &DatabaseConfig{
		Type:   DatabaseTypeSQLite,
		SQLite: SQLiteConfig{Path: path},
	}
}

// ValidateConfig validates the database configuration
func (c *DatabaseConfig) ValidateConfig() error {
	switch c.Type {
	case DatabaseTypeSQLite:
		if c.SQLite.Path == "" {
			return fmt.Errorf("SQLite path cannot be empty")
		}
	case DatabaseTypeMySQL:
		if c.MySQL.DSN == "" {
			return fmt.Errorf("MySQL DSN cannot be empty")
		}
		if _, err := normalizeMySQLDSN(c.MySQL.DSN); err != nil {
			return fmt.Errorf("invalid MySQL DSN: %w", err)
		}
	default:
		return fmt.Errorf("unsupported database type: %s", c.Type)
	}
	return nil
}

// IsSQLite returns true if the database type is SQLite
func (c *DatabaseConfig) IsSQLite() bool {
	return c.Type == DatabaseTypeSQLite
}

// EnsureDirectoryExists ensures the directory for SQLite database exists
func (c *DatabaseConfig) EnsureDirectoryExists() error {
	if c.Type == DatabaseTypeSQLite {
		dir := filepath.Dir(c.SQLite.Path)
		return os.MkdirAll(dir, 0o755)
	}
	return nil
}

// normalizeMySQLDSN forces time parsing and the binary collation onto dsn.
func normalizeMySQLDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", err
	}
	cfg.ParseTime = true
	cfg.Collation = MySQLCollation
	return cfg.FormatDSN(), nil
}
