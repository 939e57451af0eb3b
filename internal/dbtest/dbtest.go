// Package dbtest opens throwaway SQLite databases with the full schema for
// repository, service and router tests.
package dbtest

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/sitecms/sitecms-backend/pkg/config"
	"github.com/sitecms/sitecms-backend/pkg/db"
	"github.com/sitecms/sitecms-backend/pkg/db/models"
	"gorm.io/driver/sqlite"
)

// DSN returns a private in-memory SQLite DSN with foreign keys enabled.
func DSN() string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
}

// New opens a migrated client and closes it when the test ends.
func New(t testing.TB) *db.Client {
	t.Helper()

	client, err := db.NewWithDialector(context.Background(), sqlite.Open(DSN()), config.DBConfig{}, nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := client.DB().AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}
