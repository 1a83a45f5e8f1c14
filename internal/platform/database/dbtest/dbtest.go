// Package dbtest opens a migrated Postgres cache store for integration tests.
// Tests are skipped unless LIMPIOHOGAR_TEST_DATABASE_URL is set.
package dbtest

import (
	"context"
	"io"
	"os"
	"testing"

	"github.com/georgemunganga/limpiohogar-backend/internal/platform/database"
	"github.com/sirupsen/logrus"
)

const envURL = "LIMPIOHOGAR_TEST_DATABASE_URL"

// Open returns a store on a clean schema. notifier may be nil.
func Open(t *testing.T, notifier database.Notifier) *database.Store {
	t.Helper()
	url := os.Getenv(envURL)
	if url == "" {
		t.Skipf("%s not set; skipping Postgres integration test", envURL)
	}

	ctx := context.Background()
	db, err := database.Open(ctx, url)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	if err := database.Migrate(ctx, db, logger); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	if _, err := db.ExecContext(ctx, `
		TRUNCATE order_items, orders, sessions, cart_items, products, users RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate test database: %v", err)
	}
	return database.NewStore(db, notifier)
}
