package database

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// DB wraps both GORM and sql.DB
type DB struct {
	*sql.DB
	GORM    *gorm.DB
	Dialect string
}

// Open opens postgres:// URLs with the postgres driver and sqlite:// URLs
// (or sqlite::memory:) with the pure-Go SQLite driver.
func Open(connStr string, logLevel logger.LogLevel) (*DB, error) {
	if connStr == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	var dialector gorm.Dialector
	dialect := "postgres"
	switch {
	case strings.HasPrefix(connStr, "sqlite://"), strings.HasPrefix(connStr, "sqlite:"):
		dialect = "sqlite"
		dsn := strings.TrimPrefix(strings.TrimPrefix(connStr, "sqlite://"), "sqlite:")
		dialector = sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: dsn})
	default:
		dialector = postgres.Open(connStr)
	}

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	// Connection pool settings
	if dialect == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: sqlDB, GORM: gormDB, Dialect: dialect}, nil
}

// NewDB creates a new database connection using GORM and exits on failure
func NewDB(connStr string) *DB {
	db, err := Open(connStr, logger.Warn)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	log.Printf("✅ Database connected (GORM, %s)!", db.Dialect)
	return db
}

func (db *DB) Close() error {
	log.Println("🔌 Closing database connection...")
	return db.DB.Close()
}
