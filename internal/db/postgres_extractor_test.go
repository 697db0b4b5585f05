package db

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tordrt/tablekit/internal/schema"
)

func TestNormalizePostgresType(t *testing.T) {
	length := func(n int) *int { return &n }

	tests := []struct {
		name      string
		dataType  string
		udtName   string
		maxLength *int
		want      string
	}{
		{"timestamptz", "timestamp with time zone", "timestamptz", nil, "timestamptz"},
		{"timestamp", "timestamp without time zone", "timestamp", nil, "timestamp"},
		{"sized varchar", "character varying", "varchar", length(50), "varchar(50)"},
		{"unsized varchar", "character varying", "varchar", nil, "varchar"},
		{"sized char", "character", "bpchar", length(2), "char(2)"},
		{"integer array", "ARRAY", "_int4", nil, "int4[]"},
		{"enum", "USER-DEFINED", "order_status", nil, "order_status"},
		{"passthrough", "integer", "int4", nil, "integer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizePostgresType(tt.dataType, tt.udtName, tt.maxLength)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizedTypesPickDisplayColumn(t *testing.T) {
	table := schema.Table{
		Name: "countries",
		Columns: []schema.Column{
			{Name: "id", Type: normalizePostgresType("integer", "int4", nil)},
			{Name: "code", Type: normalizePostgresType("character", "bpchar", new(int))},
			{Name: "name", Type: normalizePostgresType("character varying", "varchar", nil)},
		},
		PrimaryKey: []string{"id"},
	}
	assert.Equal(t, "code", table.DisplayColumn())
}
