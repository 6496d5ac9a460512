package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockClient(t *testing.T) (*Client, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:               logger.Default.LogMode(logger.Silent),
		TranslateError:       true,
		DisableAutomaticPing: true,
	})
	if err != nil {
		t.Fatalf("failed to open gorm: %v", err)
	}

	t.Cleanup(func() { sqlDB.Close() })
	return &Client{db: gdb}, mock
}

func searchPathRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"search_path"}).AddRow("public")
}

func TestWithTenantSwitchesAndRestores(t *testing.T) {
	client, mock := newMockClient(t)

	mock.ExpectQuery("SHOW search_path").WillReturnRows(searchPathRows())
	mock.ExpectExec(`SET search_path TO "tenant_0a1b", public`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT count").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectExec("SET search_path TO public").
		WillReturnResult(sqlmock.NewResult(0, 0))

	var count int64
	err := client.WithTenant(context.Background(), "tenant_0a1b", func(conn *gorm.DB) error {
		return conn.Raw("SELECT count(*) FROM hospitals").Scan(&count).Error
	})
	if err != nil {
		t.Fatalf("WithTenant failed: %v", err)
	}
	if count != 3 {
		t.Errorf("unexpected count: %d", count)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestWithTenantRestoresAfterCanceledContext(t *testing.T) {
	client, mock := newMockClient(t)

	mock.ExpectQuery("SHOW search_path").WillReturnRows(searchPathRows())
	mock.ExpectExec(`SET search_path TO "tenant_0a1b", public`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("SET search_path TO public").
		WillReturnResult(sqlmock.NewResult(0, 0))

	ctx, cancel := context.WithCancel(context.Background())
	boom := errors.New("boom")

	err := client.WithTenant(ctx, "tenant_0a1b", func(conn *gorm.DB) error {
		// The request dies mid-operation; the restore must still run
		// before the connection goes back to the pool
		cancel()
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fn error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("search_path not restored after canceled context: %v", err)
	}
}

func TestWithTenantDiscardsStateWhenRestoreFails(t *testing.T) {
	client, mock := newMockClient(t)

	mock.ExpectQuery("SHOW search_path").WillReturnRows(searchPathRows())
	mock.ExpectExec(`SET search_path TO "tenant_0a1b", public`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("SET search_path TO public").
		WillReturnError(errors.New("restore failed"))
	mock.ExpectExec("DISCARD ALL").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := client.WithTenant(context.Background(), "tenant_0a1b", func(conn *gorm.DB) error {
		return nil
	})
	if err != nil {
		t.Fatalf("WithTenant failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("connection state not discarded after failed restore: %v", err)
	}
}

func TestWithTenantRejectsBadSchemaBeforeTouchingPool(t *testing.T) {
	client, mock := newMockClient(t)

	err := client.WithTenant(context.Background(), "tenant_0a1b; DROP SCHEMA public", func(conn *gorm.DB) error {
		t.Fatal("fn must not run for an invalid schema name")
		return nil
	})
	if err == nil {
		t.Fatal("expected an error for an invalid schema name")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("no statements should reach the database: %v", err)
	}
}
