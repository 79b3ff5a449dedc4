package main

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/vc-data/internal/config"
	"github.com/sells-group/vc-data/internal/db"
	"github.com/sells-group/vc-data/internal/fetcher"
	"github.com/sells-group/vc-data/internal/store"
)

var (
	importFile   string
	importSheet  string
	importAppend bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load a CSV/TSV/XLSX snapshot into the configured sqlite or postgres table",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		if err := cfg.Validate("import"); err != nil {
			return err
		}

		tbl, err := fetcher.ReadFile(importFile, importSheet)
		if err != nil {
			return eris.Wrap(err, "import: read snapshot")
		}
		cols := tbl.Columns()
		if len(cols) == 0 {
			return eris.Errorf("import: %s has no header row", importFile)
		}

		n, err := loadSnapshot(ctx, cfg.Store, cols, tbl.Values(), !importAppend)
		if err != nil {
			return err
		}

		zap.L().Info("import complete",
			zap.String("file", importFile),
			zap.String("driver", cfg.Store.Driver),
			zap.String("table", cfg.Store.Table),
			zap.Int("columns", len(cols)),
			zap.Int64("rows", n),
		)
		return nil
	},
}

// loadSnapshot writes rows into the configured table, replacing its
// contents unless replace is false.
func loadSnapshot(ctx context.Context, c config.StoreConfig, cols []string, rows [][]string, replace bool) (int64, error) {
	switch c.Driver {
	case "sqlite":
		s, err := store.NewSQLite(c.DatabaseURL)
		if err != nil {
			return 0, eris.Wrap(err, "import: open sqlite")
		}
		defer s.Close() //nolint:errcheck
		return s.Load(ctx, c.Table, cols, rows, replace)

	case "postgres":
		pool, err := db.Connect(ctx, c.DatabaseURL, db.PoolConfig{MaxConns: c.MaxConns, MinConns: c.MinConns})
		if err != nil {
			return 0, eris.Wrap(err, "import: connect postgres")
		}
		defer pool.Close()

		values := make([][]any, len(rows))
		for i, row := range rows {
			vals := make([]any, len(row))
			for j, v := range row {
				vals[j] = v
			}
			values[i] = vals
		}
		return db.LoadTable(ctx, pool, c.Table, cols, values, replace)

	default:
		return 0, eris.Errorf("import: unsupported driver %q", c.Driver)
	}
}

func init() {
	importCmd.Flags().StringVar(&importFile, "file", "", "path to the snapshot file (required)")
	importCmd.Flags().StringVar(&importSheet, "sheet", "", "XLSX sheet name (default: first sheet)")
	importCmd.Flags().BoolVar(&importAppend, "append", false, "append to the table instead of replacing its rows")
	_ = importCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(importCmd)
}
