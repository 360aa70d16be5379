package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"

	"github.com/hweilin/aqtrack/internal/core/config"
	"github.com/hweilin/aqtrack/internal/core/models"
	"github.com/hweilin/aqtrack/internal/core/remote"
)

// newRemoteClient builds the forecast-service client from the loaded
// configuration.
func newRemoteClient() (*remote.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.APIToken == "" {
		return nil, fmt.Errorf("no API token configured: set AQTRACK_API_TOKEN or api_token in config.toml")
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	return remote.NewClient(cfg.APIURL, cfg.APIToken, cfg.Timeout, logger), nil
}

// parseTimeFlag parses a --start/--end value. ISO-8601 forms are tried
// first, interpreted at the fixed reading offset when no zone is
// given; anything else falls back to natural-language parsing
// ("yesterday", "last week").
func parseTimeFlag(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}

	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts, nil
	}
	formats := []string{
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04",
		"2006-01-02",
	}
	for _, format := range formats {
		if ts, err := time.ParseInLocation(format, value, models.ReadingZone); err == nil {
			return ts, nil
		}
	}

	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	if result, err := w.Parse(value, time.Now()); err == nil && result != nil {
		return result.Time, nil
	}

	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}
