package cli

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/hweilin/aqtrack/internal/core/db"
	"github.com/hweilin/aqtrack/internal/core/remote"
	"github.com/hweilin/aqtrack/internal/core/session"
)

var resultsShowRows bool

var resultsCmd = &cobra.Command{
	Use:   "results <session-id>",
	Short: "Fetch and store results for a submitted session",
	Long: `Ask the forecast service for a session's current state. A session
that has not completed is reported and nothing is stored; a completed
session has its metrics and full result set persisted, replacing any
rows from an earlier fetch.`,
	Args: cobra.ExactArgs(1),
	RunE: runResults,
}

func init() {
	rootCmd.AddCommand(resultsCmd)
	resultsCmd.Flags().BoolVar(&resultsShowRows, "show", false, "Print the stored result rows")
}

func runResults(cmd *cobra.Command, args []string) error {
	sessionID := args[0]

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

	outcome, err := manager.FetchResults(context.Background(), sessionID)
	if err != nil {
		return fmt.Errorf("results fetch failed: %w", err)
	}

	if outcome.Status != remote.StatusCompleted {
		fmt.Printf("Session %s is %s; results not available yet\n", sessionID, outcome.Status)
		return nil
	}

	fmt.Printf("Stored %s result rows for session %s\n",
		humanize.Comma(int64(outcome.Stored)), sessionID)

	if resultsShowRows {
		results, err := database.SessionResults(sessionID)
		if err != nil {
			return fmt.Errorf("failed to read stored results: %w", err)
		}
		for _, r := range results {
			fmt.Printf("%s  %g\n", r.ObservedAt.Format("2006-01-02 15:04"), r.Value)
		}
	}

	return nil
}
