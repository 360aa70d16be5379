package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hweilin/aqtrack/internal/core/db"
	"github.com/hweilin/aqtrack/internal/core/remote"
	"github.com/hweilin/aqtrack/internal/core/session"
)

var (
	forecastName        string
	forecastDataset     string
	forecastTarget      string
	forecastStart       string
	forecastEnd         string
	forecastGranularity string
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Submit a remote forecast job",
	Long: `Submit a forecast job against an uploaded dataset. The assigned
session id is recorded locally right away; fetch results later with
'aqtrack results <session-id>'.

Examples:
  aqtrack forecast --name march-fc --dataset station42-2024 \
      --start 2024-03-01 --end 2024-03-31`,
	Args: cobra.NoArgs,
	RunE: runForecast,
}

func init() {
	rootCmd.AddCommand(forecastCmd)
	forecastCmd.Flags().StringVar(&forecastName, "name", "", "Session name (required)")
	forecastCmd.Flags().StringVar(&forecastDataset, "dataset", "", "Remote dataset name (required)")
	forecastCmd.Flags().StringVar(&forecastTarget, "target", "value", "Target column")
	forecastCmd.Flags().StringVar(&forecastStart, "start", "", "Range start (ISO-8601; required)")
	forecastCmd.Flags().StringVar(&forecastEnd, "end", "", "Range end (ISO-8601; required)")
	forecastCmd.Flags().StringVar(&forecastGranularity, "granularity", "hour", "Result granularity (hour, day)")
	_ = forecastCmd.MarkFlagRequired("name")
	_ = forecastCmd.MarkFlagRequired("dataset")
}

func runForecast(cmd *cobra.Command, args []string) error {
	start, end, err := parseRequiredRange(forecastStart, forecastEnd)
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

	client, err := newRemoteClient()
	if err != nil {
		return err
	}
	manager := session.NewManager(database, client, nil)

	s, err := manager.SubmitForecast(context.Background(), forecastName, remote.ForecastRequest{
		Dataset:      forecastDataset,
		TargetColumn: forecastTarget,
		Start:        start,
		End:          end,
		Granularity:  forecastGranularity,
	})
	if err != nil {
		return fmt.Errorf("forecast submission failed: %w", err)
	}

	fmt.Printf("Submitted forecast session %s (%s)\n", s.SessionID, s.Name)
	return nil
}

// parseRequiredRange enforces that both bounds are present and
// ordered before any side effect happens.
func parseRequiredRange(startFlag, endFlag string) (time.Time, time.Time, error) {
	if startFlag == "" || endFlag == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("both --start and --end are required")
	}
	start, err := parseTimeFlag(startFlag)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := parseTimeFlag(endFlag)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("--end is before --start")
	}
	return start, end, nil
}
