package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

var (
	// ErrTableNotFound is returned when a table has no columns to read
	ErrTableNotFound = errors.New("table not found")
	// ErrUnknownField is returned for an ordering key that names no selectable field
	ErrUnknownField = errors.New("unknown field")
)

// Database bundles what a live table needs from one connection
type Database struct {
	Queryer   Queryer
	Dialect   Dialect
	Extractor Extractor

	close func() error
}

// OpenPostgres connects to PostgreSQL and extracts from schemaName ("public" when empty)
func OpenPostgres(ctx context.Context, connString, schemaName string) (*Database, error) {
	client, err := NewPostgresClient(ctx, connString)
	if err != nil {
		return nil, err
	}
	return &Database{
		Queryer:   client,
		Dialect:   Postgres,
		Extractor: NewPostgresExtractor(client.GetConnection(), schemaName),
		close:     func() error { return client.Close(context.Background()) },
	}, nil
}

// OpenMySQL connects to MySQL. An empty schemaName falls back to the
// database named in the DSN.
func OpenMySQL(ctx context.Context, dsn, schemaName string) (*Database, error) {
	if schemaName == "" {
		name, err := ParseDatabaseName(dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to determine database name: %w", err)
		}
		schemaName = name
	}
	client, err := NewMySQLClient(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return NewSQLDatabase(client.GetDB(), MySQL, NewMySQLExtractor(client.GetDB(), schemaName)), nil
}

// OpenSQLite opens a SQLite database file
func OpenSQLite(ctx context.Context, path string) (*Database, error) {
	client, err := NewSQLiteClient(ctx, path)
	if err != nil {
		return nil, err
	}
	return NewSQLDatabase(client.GetDB(), SQLite, NewSQLiteExtractor(client.GetDB())), nil
}

// NewSQLDatabase wraps an open database/sql handle. Closing the Database
// closes the handle.
func NewSQLDatabase(db *sql.DB, dialect Dialect, extractor Extractor) *Database {
	return &Database{
		Queryer:   NewSQLQueryer(db),
		Dialect:   dialect,
		Extractor: extractor,
		close:     db.Close,
	}
}

// Close closes the underlying connection
func (d *Database) Close() error {
	if d.close == nil {
		return nil
	}
	return d.close()
}

// Source extracts tableName and the tables it references and returns a
// Source over them
func (d *Database) Source(ctx context.Context, tableName string, logger *zap.Logger) (*Source, error) {
	table, related, err := ExtractWithRelations(ctx, d.Extractor, tableName)
	if err != nil {
		return nil, err
	}
	return NewSource(d.Queryer, d.Dialect, *table, related, logger), nil
}
