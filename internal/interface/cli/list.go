package cli

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/hweilin/aqtrack/internal/core/db"
	"github.com/hweilin/aqtrack/internal/core/models"
)

var (
	listStart       string
	listEnd         string
	listSource      string
	listGranularity string
)

var listCmd = &cobra.Command{
	Use:   "list [sessions|datasets|measurements]",
	Short: "List local sessions, remote datasets, or measurements",
	Long: `List locally tracked sessions (default), datasets known to the
forecast service, or rows of the canonical measurement store.

Examples:
  aqtrack list
  aqtrack list datasets
  aqtrack list measurements --start 2024-03-01 --end 2024-03-02`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"sessions", "datasets", "measurements"},
	RunE:      runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVar(&listStart, "start", "", "Range start for measurements (ISO-8601)")
	listCmd.Flags().StringVar(&listEnd, "end", "", "Range end for measurements (ISO-8601)")
	listCmd.Flags().StringVar(&listSource, "source", "", "Filter measurements by source")
	listCmd.Flags().StringVar(&listGranularity, "granularity", "hour", "Measurement granularity (hour, day)")
}

func runList(cmd *cobra.Command, args []string) error {
	what := "sessions"
	if len(args) > 0 {
		what = args[0]
	}

	switch what {
	case "sessions":
		return listSessions()
	case "datasets":
		return listDatasets()
	case "measurements":
		return listMeasurements()
	default:
		return fmt.Errorf("unknown listing %q (want sessions, datasets, or measurements)", what)
	}
}

func listSessions() error {
	database, err := db.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		_ = database.Close()
	}()

	sessions, err := database.ListSessions()
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}
	if len(sessions) == 0 {
		fmt.Println("No sessions. Submit one with 'aqtrack forecast' or 'aqtrack impact'.")
		return nil
	}

	for _, s := range sessions {
		state := "pending fetch"
		if s.Metadata != "" {
			state = "results stored"
		}
		fmt.Printf("%s  %s\n", s.SessionID, s.Name)
		fmt.Printf("    Requested: %s (%s)\n", s.RequestedAt.Format("2006-01-02 15:04"), humanize.Time(s.RequestedAt))
		fmt.Printf("    State: %s\n", state)
	}
	return nil
}

func listDatasets() error {
	client, err := newRemoteClient()
	if err != nil {
		return err
	}

	datasets, err := client.ListDatasets(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list datasets: %w", err)
	}
	if len(datasets) == 0 {
		fmt.Println("No remote datasets. Upload one with 'aqtrack upload'.")
		return nil
	}

	for _, d := range datasets {
		fmt.Printf("%s  %s rows  %s\n", d.Name, humanize.Comma(int64(d.Rows)), humanize.Time(d.CreatedAt))
	}
	return nil
}

func listMeasurements() error {
	start, err := parseTimeFlag(listStart)
	if err != nil {
		return err
	}
	end, err := parseTimeFlag(listEnd)
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

	measurements, err := database.QueryMeasurements(db.MeasurementFilter{
		Start:       start,
		End:         end,
		Source:      models.Source(listSource),
		Granularity: models.Granularity(listGranularity),
	})
	if err != nil {
		return fmt.Errorf("failed to query measurements: %w", err)
	}
	if len(measurements) == 0 {
		fmt.Println("No measurements match")
		return nil
	}

	for _, m := range measurements {
		fmt.Printf("%s  %8.2f  %s\n",
			m.ObservedAt.In(models.ReadingZone).Format("2006-01-02 15:04"), m.Value, m.Source)
	}
	fmt.Printf("%s row(s)\n", humanize.Comma(int64(len(measurements))))
	return nil
}
