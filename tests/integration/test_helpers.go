//go:build integration
// +build integration

package integration

import (
	"context"
	"testing"

	"github.com/tordrt/tablekit"
)

// seedStatements create two related tables. Atlantis has neither a country
// nor a population so NULL ordering is exercised on both paths.
var seedStatements = []string{
	"DROP TABLE IF EXISTS tk_cities",
	"DROP TABLE IF EXISTS tk_countries",
	`CREATE TABLE tk_countries (
		id INTEGER PRIMARY KEY,
		name VARCHAR(50) NOT NULL,
		code VARCHAR(2)
	)`,
	`CREATE TABLE tk_cities (
		id INTEGER PRIMARY KEY,
		name VARCHAR(50) NOT NULL,
		population INTEGER,
		country_id INTEGER,
		FOREIGN KEY (country_id) REFERENCES tk_countries (id)
	)`,
	"INSERT INTO tk_countries (id, name, code) VALUES (1, 'Germany', 'DE'), (2, 'France', 'FR')",
	`INSERT INTO tk_cities (id, name, population, country_id) VALUES
		(1, 'Berlin', 3645000, 1),
		(2, 'Paris', 2161000, 2),
		(3, 'Hamburg', 1841000, 1),
		(4, 'Atlantis', NULL, NULL)`,
}

var dropStatements = []string{
	"DROP TABLE IF EXISTS tk_cities",
	"DROP TABLE IF EXISTS tk_countries",
}

// seed runs the seed statements and registers cleanup of the tables
func seed(t *testing.T, exec func(ctx context.Context, query string) error) {
	t.Helper()
	ctx := context.Background()

	for _, stmt := range seedStatements {
		if err := exec(ctx, stmt); err != nil {
			t.Fatalf("Failed to seed database: %v\n%s", err, stmt)
		}
	}
	t.Cleanup(func() {
		for _, stmt := range dropStatements {
			if err := exec(context.Background(), stmt); err != nil {
				t.Logf("Failed to drop test table: %v", err)
			}
		}
	})
}

// openCities builds a live table over tk_cities
func openCities(t *testing.T, databaseURL string) *tablekit.Table {
	t.Helper()

	table, closeDB, err := tablekit.FromDatabase(context.Background(), databaseURL, "tk_cities", nil, nil)
	if err != nil {
		t.Fatalf("Failed to open table: %v", err)
	}
	t.Cleanup(func() {
		if err := closeDB(); err != nil {
			t.Logf("Failed to close database: %v", err)
		}
	})
	return table
}

// verifyLiveTable runs the checks every database must pass
func verifyLiveTable(t *testing.T, table *tablekit.Table) {
	t.Helper()
	ctx := context.Background()

	verifyColumns(t, table, []string{"id", "name", "population", "country"})
	if c, ok := table.Columns().Get("country"); !ok || c.Path() != "country.name" {
		t.Errorf("Expected country column to read country.name, got %+v", c)
	}

	tests := []struct {
		orderBy string
		want    []string
	}{
		{"", []string{"Berlin", "Paris", "Hamburg", "Atlantis"}},
		{"name", []string{"Atlantis", "Berlin", "Hamburg", "Paris"}},
		{"-population", []string{"Berlin", "Paris", "Hamburg", "Atlantis"}},
		{"population", []string{"Atlantis", "Hamburg", "Paris", "Berlin"}},
		{"country,name", []string{"Atlantis", "Paris", "Berlin", "Hamburg"}},
		{"-country,-name", []string{"Hamburg", "Berlin", "Paris", "Atlantis"}},
	}
	for _, tt := range tests {
		if err := table.SetOrderByString(tt.orderBy); err != nil {
			t.Fatalf("Failed to order by %q: %v", tt.orderBy, err)
		}
		rows, err := table.AllRows(ctx)
		if err != nil {
			t.Fatalf("Failed to load rows ordered by %q: %v", tt.orderBy, err)
		}
		verifyNames(t, tt.orderBy, rows, tt.want)
	}

	if err := table.SetOrderByString("name"); err != nil {
		t.Fatal(err)
	}
	rows, err := table.AllRows(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got := rows[0].Get("country"); got != nil {
		t.Errorf("Expected no country for Atlantis, got %v", got)
	}
	if got := rows[1].Get("country"); got != "Germany" {
		t.Errorf("Expected Berlin to be in Germany, got %v", got)
	}

	verifyPagination(t, table)
}

// verifyPagination pages through the table three rows at a time
func verifyPagination(t *testing.T, table *tablekit.Table) {
	t.Helper()
	ctx := context.Background()

	if err := table.SetOrderByString("-population"); err != nil {
		t.Fatal(err)
	}
	if err := table.Paginate(ctx, nil, 3, 2); err != nil {
		t.Fatalf("Failed to paginate: %v", err)
	}

	page := table.Page()
	if page.Count() != 4 || page.NumPages() != 2 {
		t.Errorf("Expected 4 rows on 2 pages, got %d rows on %d pages", page.Count(), page.NumPages())
	}
	verifyNames(t, "-population page 2", page.Items, []string{"Atlantis"})

	first, err := table.Paginator().Page(ctx, 1)
	if err != nil {
		t.Fatalf("Failed to load page 1: %v", err)
	}
	verifyNames(t, "-population page 1", first.Items, []string{"Berlin", "Paris", "Hamburg"})
}

// verifyColumns checks the table's columns in order
func verifyColumns(t *testing.T, table *tablekit.Table, expectedColumns []string) {
	t.Helper()

	names := table.Columns().Names()
	if len(names) != len(expectedColumns) {
		t.Errorf("Expected columns %v, got %v", expectedColumns, names)
		return
	}
	for i, name := range expectedColumns {
		if names[i] != name {
			t.Errorf("Expected columns %v, got %v", expectedColumns, names)
			return
		}
	}
}

// verifyNames checks the name column of rows
func verifyNames(t *testing.T, label string, rows []*tablekit.Row, want []string) {
	t.Helper()

	if len(rows) != len(want) {
		t.Errorf("%s: expected %d rows, got %d", label, len(want), len(rows))
		return
	}
	for i, r := range rows {
		if got := r.Get("name"); got != want[i] {
			t.Errorf("%s: expected %v at %d, got %v", label, want[i], i, got)
		}
	}
}
