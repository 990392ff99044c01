// Package database opens the leadmap store and applies its schema migrations.
package database

import (
	"errors"

	"github.com/leadmap/leadmap/config"
	"github.com/leadmap/leadmap/logger"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var (
	db       *gorm.DB
	dbConfig *config.DatabaseConfig
)

// InitDB opens the SQLite database at dbPath and migrates it.
func InitDB(dbPath string) error {
	return Open(config.NewSQLiteConfig(dbPath))
}

// Open connects to the configured database, applies pending migrations and
// installs the connection returned by GetDB.
func Open(c *config.DatabaseConfig) error {
	if err := c.ValidateConfig(); err != nil {
		return err
	}
	if err := c.EnsureDirectoryExists(); err != nil {
		return err
	}

	var gormLogger gormlogger.Interface
	if config.IsDebug() {
		gormLogger = gormlogger.Default
	} else {
		gormLogger = gormlogger.Discard
	}

	gc := &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		TranslateError:         true,
	}

	var dialector gorm.Dialector
	if c.IsSQLite() {
		dialector = sqlite.Open(c.GetDSN())
	} else {
		dialector = mysql.Open(c.GetDSN())
	}

	conn, err := gorm.Open(dialector, gc)
	if err != nil {
		return err
	}

	applied, err := Migrate(conn)
	if err != nil {
		if sqlDB, dbErr := conn.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
		return err
	}
	if applied > 0 {
		logger.Infof("applied %d database migration(s)", applied)
	}

	db = conn
	dbConfig = c
	return nil
}

func CloseDB() error {
	if db != nil {
		if dbConfig != nil && dbConfig.IsSQLite() {
			if err := Checkpoint(); err != nil {
				logger.Warning("error executing checkpoint:", err)
			}
		}

		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		db = nil
		dbConfig = nil
		return sqlDB.Close()
	}
	return nil
}

func GetDB() *gorm.DB {
	return db
}

// IsSQLite reports whether the open database is SQLite.
func IsSQLite() bool {
	return dbConfig != nil && dbConfig.IsSQLite()
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func IsDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// Ping verifies the connection is alive.
func Ping() error {
	if db == nil {
		return errors.New("database is not initialized")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Checkpoint flushes the SQLite write-ahead log into the main database file.
func Checkpoint() error {
	if db == nil {
		return errors.New("database is not initialized")
	}
	return db.Exec("PRAGMA wal_checkpoint(TRUNCATE);").Error
}
