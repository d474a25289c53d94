// Package postgres opens the GORM connection used by the PostgreSQL delivery
// journal and migrates its schema.
//
// Usage:
//
//	dsn, err := postgres.MakeConnectionString(cfg)
//	if err != nil {
//	    return err
//	}
//	db, err := postgres.Open(ctx, dsn)
//	if err != nil {
//	    return err
//	}
//	journal := deliveryrepo.NewGormDeliveryRepository(db)
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/url"

	"fooddelivery/internal/adapters/out/postgres/deliveryrepo"
	"fooddelivery/internal/pkg/errs"

	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectionConfig holds the DB_* settings.
type ConnectionConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SslMode  string
}

// MakeConnectionString builds a postgres URL from the settings.
// Host, port, user and database name are required; sslmode defaults to "disable".
func MakeConnectionString(cfg ConnectionConfig) (string, error) {
	if err := errors.Join(
		required("DB_HOST", cfg.Host),
		required("DB_PORT", cfg.Port),
		required("DB_USER", cfg.User),
		required("DB_NAME", cfg.Name),
	); err != nil {
		return "", err
	}

	sslMode := cfg.SslMode
	if sslMode == "" {
		sslMode = "disable"
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Path:     cfg.Name,
		RawQuery: url.Values{"sslmode": []string{sslMode}}.Encode(),
	}
	return u.String(), nil
}

// Open connects to postgres and migrates the journal schema.
func Open(ctx context.Context, dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgresdriver.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err = Migrate(ctx, db); err != nil {
		if sqlDB, handleErr := SQLDB(db); handleErr == nil {
			_ = sqlDB.Close()
		}
		return nil, err
	}

	return db, nil
}

// SQLDB returns the connection pool behind db so it can be closed.
// When the pool cannot be reached it is closed directly, if it supports closing.
func SQLDB(db *gorm.DB) (*sql.DB, error) {
	sqlDB, err := db.DB()
	if err != nil {
		if closer, ok := db.ConnPool.(io.Closer); ok {
			_ = closer.Close()
		}
		return nil, fmt.Errorf("postgres journal handle: %w", err)
	}
	return sqlDB, nil
}

// Migrate creates or updates the deliveries table.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(&deliveryrepo.DeliveryRecordDTO{}); err != nil {
		return fmt.Errorf("migrate deliveries: %w", err)
	}
	return nil
}

func required(name, value string) error {
	if value == "" {
		return errs.NewValueIsRequiredError(name)
	}
	return nil
}
