// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotebuilder/collections"
	"quotebuilder/model"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestQuote saves q as a quotes record exactly as given, without
// recomputing totals, and returns the record.
func CreateTestQuote(t *testing.T, app *pocketbase.PocketBase, q model.Quote) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId(collections.QuotesCollection)
	if err != nil {
		t.Fatalf("failed to find quotes collection: %v", err)
	}

	record := core.NewRecord(col)
	if q.ID != "" {
		record.Id = q.ID
	}
	if err := collections.ApplyQuote(record, q); err != nil {
		t.Fatalf("failed to encode test quote: %v", err)
	}
	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test quote: %v", err)
	}

	return record
}

// CreateTestUser creates an auth record in the built-in users collection.
func CreateTestUser(t *testing.T, app *pocketbase.PocketBase, email string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("users")
	if err != nil {
		t.Fatalf("failed to find users collection: %v", err)
	}

	record := core.NewRecord(col)
	record.SetEmail(email)
	record.SetPassword("password123456")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test user: %v", err)
	}

	return record
}
