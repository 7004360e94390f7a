package database

import (
	"context"
	"time"

	"catalog_go/internal/core/config"
	"catalog_go/internal/core/logger"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

var db *sqlx.DB

// Init Initialize database connection
func Init(cfg *config.DatabaseConfig) error {
	var err error

	db, err = sqlx.Connect("postgres", cfg.GetDSN())
	if err != nil {
		logger.Error("failed to connect database", logger.String("error", err.Error()))
		return err
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

	logger.Info("database initialized",
		logger.String("host", cfg.Host),
		logger.Int("port", cfg.Port),
		logger.String("database", cfg.Name))

	return nil
}

// Get Get database instance
func Get() *sqlx.DB {
	return db
}

// Close Close database connection
func Close() error {
	if db != nil {
		return db.Close()
	}
	return nil
}

// Ping Check database connection
func Ping() error {
	if db == nil {
		return nil
	}
	return db.Ping()
}

// WithTx Run fn inside a transaction.
// Any error from fn rolls the whole transaction back, so multi-step
// mutations are all-or-nothing.
func WithTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
