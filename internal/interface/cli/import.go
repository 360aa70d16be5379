package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/hweilin/aqtrack/internal/core/db"
	"github.com/hweilin/aqtrack/internal/core/ingest"
)

var importCmd = &cobra.Command{
	Use:   "import <glob>",
	Short: "Import raw sensor export files into staging",
	Long: `Import hourly sensor export files matching a glob into the staging
table. The staging area is cleared first; each file then commits as one
atomic batch, so a malformed file imports nothing.

Examples:
  aqtrack import 'data/2024-*.txt'
  aqtrack import station42.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	paths, err := filepath.Glob(args[0])
	if err != nil {
		return fmt.Errorf("bad glob %q: %w", args[0], err)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no files match %q", args[0])
	}
	sort.Strings(paths)

	database, err := db.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		_ = database.Close()
	}()

	imp := ingest.New(database)
	progress := ingest.NewProgressReporter(os.Stdout, len(paths))

	if _, err := imp.ImportFiles(paths, progress); err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	progress.Finish()

	return nil
}
