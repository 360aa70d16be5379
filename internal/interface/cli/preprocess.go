package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/hweilin/aqtrack/internal/core/db"
	"github.com/hweilin/aqtrack/internal/core/reconstruct"
)

var preprocessCmd = &cobra.Command{
	Use:   "preprocess",
	Short: "Rebuild the canonical series from staged readings",
	Long: `Copy valid staged readings into the canonical measurement store and
fill every detected gap hour with an imputed placeholder row, producing
a continuous hourly series.`,
	Args: cobra.NoArgs,
	RunE: runPreprocess,
}

func init() {
	rootCmd.AddCommand(preprocessCmd)
}

func runPreprocess(cmd *cobra.Command, args []string) error {
	database, err := db.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		_ = database.Close()
	}()

	stats, err := reconstruct.New(database, nil).Run()
	if err != nil {
		return fmt.Errorf("reconstruction failed: %w", err)
	}

	fmt.Printf("Copied %s sensor readings, imputed %s gap hours\n",
		humanize.Comma(int64(stats.Copied)), humanize.Comma(int64(stats.Imputed)))
	return nil
}
