package aggregate

import (
	"fmt"
	"sort"
	"time"

	"github.com/hweilin/aqtrack/internal/core/db"
	"github.com/hweilin/aqtrack/internal/core/models"
)

// Daily computes per-day means over the hourly canonical series and
// writes them back as 'derived' rows at day granularity, inside one
// transaction. Day buckets follow the same fixed +08:00 offset the
// readings were stamped in. Zero-value bounds mean the full range.
func Daily(database *db.DB, start, end time.Time) (int, error) {
	hourly, err := database.QueryMeasurements(db.MeasurementFilter{
		Start:       start,
		End:         end,
		Granularity: models.GranularityHour,
	})
	if err != nil {
		return 0, fmt.Errorf("load hourly series: %w", err)
	}

	sums := make(map[time.Time]float64)
	counts := make(map[time.Time]int)
	for _, m := range hourly {
		day := dayBucket(m.ObservedAt)
		sums[day] += m.Value
		counts[day]++
	}

	days := make([]time.Time, 0, len(sums))
	for day := range sums {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	derived := make([]models.Measurement, 0, len(days))
	for _, day := range days {
		derived = append(derived, models.Measurement{
			ObservedAt:  day,
			Value:       sums[day] / float64(counts[day]),
			Source:      models.SourceDerived,
			Granularity: models.GranularityDay,
		})
	}

	if err := database.InsertMeasurements(derived); err != nil {
		return 0, fmt.Errorf("write daily rows: %w", err)
	}
	return len(derived), nil
}

// dayBucket truncates a timestamp to midnight of its day in the fixed
// reading offset.
func dayBucket(ts time.Time) time.Time {
	local := ts.In(models.ReadingZone)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, models.ReadingZone)
}
