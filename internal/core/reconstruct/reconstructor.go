package reconstruct

import (
	"fmt"
	"sort"
	"time"

	"github.com/hweilin/aqtrack/internal/core/db"
	"github.com/hweilin/aqtrack/internal/core/models"
)

// PlaceholderValue is the fixed value substituted for every missing
// hour. It is a deliberate simplification, not a statistical estimate;
// use a different Imputer for anything smarter.
const PlaceholderValue = 0

// Imputer produces a value for a missing hour. prev and next are the
// nearest valid readings on either side of ts, nil when the series has
// no valid reading in that direction.
type Imputer interface {
	Impute(ts time.Time, prev, next *models.StagedReading) float64
}

// ConstantImputer returns the same value for every gap. It is the
// default strategy.
type ConstantImputer struct {
	Value float64
}

func (c ConstantImputer) Impute(time.Time, *models.StagedReading, *models.StagedReading) float64 {
	return c.Value
}

// Stats reports what one reconstruction run wrote.
type Stats struct {
	Copied  int // valid readings copied as 'sensor' rows
	Imputed int // gap hours filled as 'imputed' rows
}

// Reconstructor turns the staged valid/invalid rows into a gap-free
// hourly canonical series.
type Reconstructor struct {
	db      *db.DB
	imputer Imputer
}

// New creates a reconstructor. A nil imputer selects the constant
// placeholder strategy.
func New(database *db.DB, imputer Imputer) *Reconstructor {
	if imputer == nil {
		imputer = ConstantImputer{Value: PlaceholderValue}
	}
	return &Reconstructor{db: database, imputer: imputer}
}

// Run executes the two reconstruction passes. Each pass writes inside
// its own transaction, so a crash leaves the canonical store either
// untouched or with valid rows only; rerunning completes the gap fill.
func (r *Reconstructor) Run() (Stats, error) {
	valid, err := r.db.ValidReadings()
	if err != nil {
		return Stats{}, fmt.Errorf("load valid readings: %w", err)
	}

	sensor := make([]models.Measurement, 0, len(valid))
	for _, v := range valid {
		sensor = append(sensor, models.Measurement{
			ObservedAt:  v.ObservedAt,
			Value:       float64(v.Value),
			Source:      models.SourceSensor,
			Granularity: models.GranularityHour,
		})
	}
	if err := r.db.InsertMeasurements(sensor); err != nil {
		return Stats{}, fmt.Errorf("copy valid readings: %w", err)
	}

	missing, err := r.db.InvalidTimestamps()
	if err != nil {
		return Stats{}, fmt.Errorf("load invalid timestamps: %w", err)
	}

	imputed := r.fillGaps(missing, valid)
	if err := r.db.InsertMeasurements(imputed); err != nil {
		return Stats{}, fmt.Errorf("fill gaps: %w", err)
	}

	return Stats{Copied: len(sensor), Imputed: len(imputed)}, nil
}

// fillGaps walks the ascending invalid timestamps, grouping
// consecutive entries ≤1h apart into runs. A run is flushed when a
// >1h jump to the next entry is found, or at end of list; every
// timestamp in the flushed run gets one imputed row. The next run
// starts at the entry after the flushed range, so every invalid
// timestamp is imputed exactly once.
func (r *Reconstructor) fillGaps(missing []time.Time, valid []models.StagedReading) []models.Measurement {
	var out []models.Measurement
	runStart := 0
	for i := range missing {
		atEnd := i == len(missing)-1
		if !atEnd && missing[i+1].Sub(missing[i]) <= time.Hour {
			continue
		}
		for j := runStart; j <= i; j++ {
			prev, next := boundingValid(valid, missing[j])
			out = append(out, models.Measurement{
				ObservedAt:  missing[j],
				Value:       r.imputer.Impute(missing[j], prev, next),
				Source:      models.SourceImputed,
				Granularity: models.GranularityHour,
			})
		}
		runStart = i + 1
	}
	return out
}

// boundingValid finds the nearest valid readings on either side of ts.
// valid must be sorted ascending by timestamp.
func boundingValid(valid []models.StagedReading, ts time.Time) (prev, next *models.StagedReading) {
	i := sort.Search(len(valid), func(i int) bool {
		return !valid[i].ObservedAt.Before(ts)
	})
	if i > 0 {
		prev = &valid[i-1]
	}
	if i < len(valid) {
		next = &valid[i]
	}
	return prev, next
}
