package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hweilin/aqtrack/internal/core/aggregate"
	"github.com/hweilin/aqtrack/internal/core/db"
)

var (
	aggregateStart string
	aggregateEnd   string
)

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Write daily means back into the canonical store",
	Long: `Compute per-day means over the hourly canonical series and write
them back as derived rows at day granularity.`,
	Args: cobra.NoArgs,
	RunE: runAggregate,
}

func init() {
	rootCmd.AddCommand(aggregateCmd)
	aggregateCmd.Flags().StringVar(&aggregateStart, "start", "", "Range start (ISO-8601; optional)")
	aggregateCmd.Flags().StringVar(&aggregateEnd, "end", "", "Range end (ISO-8601; optional)")
}

func runAggregate(cmd *cobra.Command, args []string) error {
	start, err := parseTimeFlag(aggregateStart)
	if err != nil {
		return err
	}
	end, err := parseTimeFlag(aggregateEnd)
	if err != nil {
		return err
	}

	database, err := db.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		_ = database.Close()
	}()

	days, err := aggregate.Daily(database, start, end)
	if err != nil {
		return fmt.Errorf("aggregation failed: %w", err)
	}

	fmt.Printf("Wrote %d daily rows\n", days)
	return nil
}
