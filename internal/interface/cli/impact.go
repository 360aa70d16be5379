package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hweilin/aqtrack/internal/core/db"
	"github.com/hweilin/aqtrack/internal/core/remote"
	"github.com/hweilin/aqtrack/internal/core/session"
)

var (
	impactName        string
	impactDataset     string
	impactTarget      string
	impactEvent       string
	impactStart       string
	impactEnd         string
	impactGranularity string
)

var impactCmd = &cobra.Command{
	Use:   "impact",
	Short: "Submit a remote impact-analysis job",
	Long: `Submit an impact-analysis job measuring the effect of a named event
on the series. The assigned session id is recorded locally right away.

Examples:
  aqtrack impact --name roadworks --dataset station42-2024 \
      --event roadworks --start 2024-05-01 --end 2024-06-30`,
	Args: cobra.NoArgs,
	RunE: runImpact,
}

func init() {
	rootCmd.AddCommand(impactCmd)
	impactCmd.Flags().StringVar(&impactName, "name", "", "Session name (required)")
	impactCmd.Flags().StringVar(&impactDataset, "dataset", "", "Remote dataset name (required)")
	impactCmd.Flags().StringVar(&impactTarget, "target", "value", "Target column")
	impactCmd.Flags().StringVar(&impactEvent, "event", "", "Event name to analyze (required)")
	impactCmd.Flags().StringVar(&impactStart, "start", "", "Range start (ISO-8601; required)")
	impactCmd.Flags().StringVar(&impactEnd, "end", "", "Range end (ISO-8601; required)")
	impactCmd.Flags().StringVar(&impactGranularity, "granularity", "hour", "Result granularity (hour, day)")
	_ = impactCmd.MarkFlagRequired("name")
	_ = impactCmd.MarkFlagRequired("dataset")
	_ = impactCmd.MarkFlagRequired("event")
}

func runImpact(cmd *cobra.Command, args []string) error {
	start, end, err := parseRequiredRange(impactStart, impactEnd)
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

	s, err := manager.SubmitImpactAnalysis(context.Background(), impactName, remote.ImpactRequest{
		ForecastRequest: remote.ForecastRequest{
			Dataset:      impactDataset,
			TargetColumn: impactTarget,
			Start:        start,
			End:          end,
			Granularity:  impactGranularity,
		},
		EventName: impactEvent,
	})
	if err != nil {
		return fmt.Errorf("impact submission failed: %w", err)
	}

	fmt.Printf("Submitted impact-analysis session %s (%s)\n", s.SessionID, s.Name)
	return nil
}
