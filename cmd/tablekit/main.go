package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tordrt/tablekit"
	"github.com/tordrt/tablekit/internal/config"
	"github.com/tordrt/tablekit/internal/formatter"
	"github.com/tordrt/tablekit/internal/logging"
)

var (
	cfgFile             string
	dbURL               string
	mysqlURL            string
	sqlitePath          string
	recordsFile         string
	tableName           string
	schemaName          string
	columns             []string
	exclude             []string
	orderBy             string
	strict              bool
	sortable            string
	perPage             int
	page                int
	orphans             int
	allowEmptyFirstPage bool
	format              string
	outputFile          string
	outputDir           string
	verbose             bool
)

var rootCmd = &cobra.Command{
	Use:   "tablekit",
	Short: "Render database tables and record files as sorted, paginated tables",
	Long: `Tablekit reads rows from PostgreSQL, MySQL, SQLite or a YAML/JSON record file,
orders them by a comma separated column list ("name,-created_at") and renders
one page or every page as text, tab separated, markdown, JSON lines or msgpack.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&cfgFile, "config", "", "Config file (default: tablekit.yaml in the working directory)")
	rootCmd.Flags().StringVar(&dbURL, "db-url", "", "PostgreSQL connection string")
	rootCmd.Flags().StringVar(&mysqlURL, "mysql-url", "", "MySQL connection string")
	rootCmd.Flags().StringVar(&sqlitePath, "sqlite", "", "SQLite database file path")
	rootCmd.Flags().StringVar(&recordsFile, "file", "", "YAML or JSON file of records")
	rootCmd.Flags().StringVarP(&tableName, "table", "t", "", "Table to render (required for database sources)")
	rootCmd.Flags().StringVarP(&schemaName, "schema", "s", "", "Database schema name (default: public for PostgreSQL)")
	rootCmd.Flags().StringSliceVar(&columns, "columns", nil, "Columns to show, as names or dotted paths (default: every field)")
	rootCmd.Flags().StringSliceVar(&exclude, "exclude", nil, "Columns to leave out (comma-separated)")
	rootCmd.Flags().StringVar(&orderBy, "order-by", "", `Ordering, e.g. "name,-created_at"`)
	rootCmd.Flags().BoolVar(&strict, "strict", false, "Fail on order tokens that do not name a sortable column")
	rootCmd.Flags().StringVar(&sortable, "sortable", "", "Table-wide sortable default: true or false")
	rootCmd.Flags().IntVar(&perPage, "per-page", 0, "Rows per page (default: no pagination)")
	rootCmd.Flags().IntVar(&page, "page", 1, "Page to render")
	rootCmd.Flags().IntVar(&orphans, "orphans", 0, "Fold a last page this small into the previous one")
	rootCmd.Flags().BoolVar(&allowEmptyFirstPage, "allow-empty-first-page", true, "Allow page 1 of an empty table")
	rootCmd.Flags().StringVarP(&format, "format", "f", config.DefaultFormat, "Output format: text, tab, markdown, json or msgpack")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	rootCmd.Flags().StringVarP(&outputDir, "output-dir", "d", "", "Output directory, one file per page")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log queries and dropped order tokens")
}

func run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.New(cfg.Verbose)
	defer func() { _ = logger.Sync() }()

	table, closeSource, err := buildTable(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeSource(); err != nil {
			logger.Warn("failed to close source", zap.Error(err))
		}
	}()

	if cfg.PerPage > 0 {
		err := table.Paginate(ctx, nil, cfg.PerPage, cfg.Page,
			tablekit.WithOrphans(cfg.Orphans),
			tablekit.WithAllowEmptyFirstPage(cfg.AllowEmptyFirstPage))
		if err != nil {
			return fmt.Errorf("failed to paginate: %w", err)
		}
	}

	// Multi-file output
	if cfg.OutputDir != "" {
		multiFormatter := formatter.NewMultiFileFormatter(cfg.OutputDir, cfg.Format)
		if err := multiFormatter.Format(ctx, table); err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}
		return nil
	}

	// Single-file output
	var writer io.Writer = os.Stdout
	if cfg.Output != "" {
		f, err := os.Create(cfg.Output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				logger.Warn("failed to close output file", zap.Error(err))
			}
		}()
		writer = f
	}

	f, err := formatter.New(cfg.Format, writer)
	if err != nil {
		return err
	}
	if err := f.Format(ctx, table); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	return nil
}

// buildTable builds a live table for database sources and a static one for
// record files. The returned function releases the source.
func buildTable(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*tablekit.Table, func() error, error) {
	sortableDefault, err := cfg.SortableDefault()
	if err != nil {
		return nil, nil, err
	}
	opts := &tablekit.Options{
		Strict:   cfg.StrictOrderBy,
		Sortable: sortableDefault,
		Logger:   logger,
	}

	var (
		table       *tablekit.Table
		closeSource = func() error { return nil }
	)
	if cfg.Source.File != "" {
		table, err = fileTable(cfg.Source.File, cfg.Columns, cfg.Exclude, opts)
		if err != nil {
			return nil, nil, err
		}
	} else {
		dbOpts := &tablekit.DatabaseOptions{
			SchemaName: cfg.Schema,
			Exclude:    cfg.Exclude,
			Logger:     logger,
		}
		table, closeSource, err = tablekit.FromDatabase(ctx, cfg.DatabaseURL(), cfg.Table, dbOpts, opts)
		if err != nil {
			return nil, nil, err
		}
		if len(cfg.Columns) > 0 {
			logger.Warn("--columns applies to record files only, showing every field",
				zap.Strings("columns", cfg.Columns))
		}
	}

	if err := table.SetOrderByString(cfg.OrderBy); err != nil {
		_ = closeSource()
		return nil, nil, err
	}
	logger.Debug("table ready",
		zap.Bool("live", table.IsLive()),
		zap.Strings("columns", table.Columns().Names()),
		zap.String("order_by", table.OrderBy().String()))

	return table, closeSource, nil
}

// fileTable loads records from path into a static table.
func fileTable(path string, names, exclude []string, opts *tablekit.Options) (*tablekit.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open records file: %w", err)
	}
	defer func() { _ = f.Close() }()

	records, err := tablekit.LoadRecords(f)
	if err != nil {
		return nil, err
	}

	if len(names) == 0 {
		names = recordKeys(records)
	}
	cols := make([]tablekit.Column, 0, len(names))
	for _, name := range names {
		cols = append(cols, tablekit.NewColumn(name))
	}
	set, err := tablekit.NewColumnSet(cols...)
	if err != nil {
		return nil, err
	}

	return tablekit.New(records, set.Exclude(exclude...), opts)
}

// recordKeys returns the sorted union of the top-level keys of every
// mapping record.
func recordKeys(records []any) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, r := range records {
		m, ok := r.(map[string]any)
		if !ok {
			continue
		}
		for k := range m {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	slices.Sort(keys)
	return keys
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
