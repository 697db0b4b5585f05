//go:build integration
// +build integration

package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/tordrt/tablekit/internal/db"
)

func TestSQLiteLiveTable(t *testing.T) {
	ctx := context.Background()

	// Use environment variable if set, otherwise use a fresh database file
	dbPath := os.Getenv("SQLITE_TEST_PATH")
	if dbPath == "" {
		dbPath = filepath.Join(t.TempDir(), "test.db")
	}

	client, err := db.NewSQLiteClient(ctx, dbPath)
	if err != nil {
		t.Fatalf("Failed to connect to SQLite: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	seed(t, func(ctx context.Context, query string) error {
		_, err := client.GetDB().ExecContext(ctx, query)
		return err
	})

	verifyLiveTable(t, openCities(t, "sqlite://"+dbPath))
}

func TestSQLiteExtraction(t *testing.T) {
	ctx := context.Background()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	client, err := db.NewSQLiteClient(ctx, dbPath)
	if err != nil {
		t.Fatalf("Failed to connect to SQLite: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	seed(t, func(ctx context.Context, query string) error {
		_, err := client.GetDB().ExecContext(ctx, query)
		return err
	})

	extractor := db.NewSQLiteExtractor(client.GetDB())
	s, err := extractor.ExtractSchema(ctx, []string{"tk_cities"})
	if err != nil {
		t.Fatalf("Failed to extract schema: %v", err)
	}
	if len(s.Tables) != 1 {
		t.Fatalf("Expected 1 table, got %d", len(s.Tables))
	}

	table := s.Tables[0]
	if len(table.PrimaryKey) != 1 || table.PrimaryKey[0] != "id" {
		t.Errorf("Expected primary key [id], got %v", table.PrimaryKey)
	}
	rel, ok := table.RelationFor("country_id")
	if !ok || rel.TargetTable != "tk_countries" || rel.Name() != "country" {
		t.Errorf("Expected country_id to reference tk_countries, got %+v", rel)
	}
}
