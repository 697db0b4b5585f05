package db

import (
	"context"
	"fmt"

	"github.com/tordrt/tablekit/internal/schema"
)

// Extractor reads table metadata from a database
type Extractor interface {
	// ExtractSchema extracts the named tables, or every table when tables is empty
	ExtractSchema(ctx context.Context, tables []string) (*schema.Schema, error)
}

// extractTables runs the per-table extraction shared by every driver
func extractTables(ctx context.Context, names []string, extract func(context.Context, string) (*schema.Table, error)) (*schema.Schema, error) {
	extractedTables := make([]schema.Table, 0, len(names))
	for _, tableName := range names {
		table, err := extract(ctx, tableName)
		if err != nil {
			return nil, fmt.Errorf("failed to extract table %s: %w", tableName, err)
		}
		extractedTables = append(extractedTables, *table)
	}
	return &schema.Schema{Tables: extractedTables}, nil
}

// ExtractWithRelations extracts one table together with every table its
// foreign keys point at
func ExtractWithRelations(ctx context.Context, e Extractor, tableName string) (*schema.Table, []schema.Table, error) {
	s, err := e.ExtractSchema(ctx, []string{tableName})
	if err != nil {
		return nil, nil, err
	}
	if len(s.Tables) == 0 || len(s.Tables[0].Columns) == 0 {
		return nil, nil, fmt.Errorf("%w: %s", ErrTableNotFound, tableName)
	}
	table := s.Tables[0]

	var targets []string
	seen := map[string]bool{}
	for _, rel := range table.Relations {
		if !seen[rel.TargetTable] {
			seen[rel.TargetTable] = true
			targets = append(targets, rel.TargetTable)
		}
	}
	if len(targets) == 0 {
		return &table, nil, nil
	}

	related, err := e.ExtractSchema(ctx, targets)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to extract related tables: %w", err)
	}
	return &table, related.Tables, nil
}
