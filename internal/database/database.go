package database

import (
	"context"
	"fmt"
	"time"

	"github.com/physiohub/physiohub-server/internal/models"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config holds database configuration
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	LogLevel string
}

// Client wraps the shared connection pool. It is constructed once at
// startup and injected into repositories and services; there is no
// package-level instance.
type Client struct {
	db *gorm.DB
}

// Connect establishes the database connection and migrates the shared
// directory tables (public schema only; tenant schemas are provisioned
// separately).
func Connect(cfg Config) (*Client, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	var gormLogger logger.Interface
	switch cfg.LogLevel {
	case "silent":
		gormLogger = logger.Default.LogMode(logger.Silent)
	case "error":
		gormLogger = logger.Default.LogMode(logger.Error)
	case "warn":
		gormLogger = logger.Default.LogMode(logger.Warn)
	default:
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	client := &Client{db: db}

	if err := client.migrateDirectory(); err != nil {
		return nil, fmt.Errorf("failed to run directory migrations: %w", err)
	}

	log.Info().Msg("Database connected and directory migrated")
	return client, nil
}

// migrateDirectory migrates the shared (public schema) directory tables
func (c *Client) migrateDirectory() error {
	return c.db.AutoMigrate(
		&models.Tenant{},
		&models.GlobalUser{},
		&models.AuthAuditLog{},
	)
}

// DB returns a handle bound to the default (public) schema
func (c *Client) DB() *gorm.DB {
	return c.db
}

// Ping checks the connection
func (c *Client) Ping() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Close closes the database connection
func (c *Client) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// WithTenant runs fn against a connection whose search_path is set to
// the given tenant schema.
//
// The schema is a session-level property, so the connection is checked
// out of the pool exclusively for the whole call: a pooled connection
// shared mid-operation could expose another tenant's schema to a
// concurrent request. The previous search_path is captured before
// switching and restored before the connection is returned, even when
// fn fails. A failing switch aborts the call without running fn; there
// is no fallback to the public schema.
//
// The restore runs under its own context: the request context may
// already be canceled by the time fn returns, and a restore skipped for
// that reason would hand a connection with the tenant search_path back
// to the pool. If the restore fails anyway, DISCARD ALL wipes all
// session state so the connection cannot leak the schema.
func (c *Client) WithTenant(ctx context.Context, schema string, fn func(conn *gorm.DB) error) error {
	quoted, err := QuoteSchemaName(schema)
	if err != nil {
		return err
	}

	return c.db.WithContext(ctx).Connection(func(conn *gorm.DB) error {
		var previous string
		if err := conn.Raw("SHOW search_path").Scan(&previous).Error; err != nil {
			return fmt.Errorf("failed to read search_path: %w", err)
		}

		if err := conn.Exec("SET search_path TO " + quoted + ", public").Error; err != nil {
			return fmt.Errorf("failed to switch to schema %s: %w", schema, err)
		}

		defer func() {
			restoreCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			restore := conn.WithContext(restoreCtx)
			if err := restore.Exec("SET search_path TO " + previous).Error; err != nil {
				log.Error().Err(err).Str("schema", schema).Msg("Failed to restore search_path")
				if err := restore.Exec("DISCARD ALL").Error; err != nil {
					log.Error().Err(err).Str("schema", schema).Msg("Failed to reset connection state")
				}
			}
		}()

		return fn(conn)
	})
}

// TenantTransaction is WithTenant with fn additionally wrapped in a
// single transaction. Any error from fn rolls the transaction back.
func (c *Client) TenantTransaction(ctx context.Context, schema string, fn func(tx *gorm.DB) error) error {
	return c.WithTenant(ctx, schema, func(conn *gorm.DB) error {
		return conn.Transaction(fn)
	})
}
