package models

import "time"

// Source tags where a measurement came from.
type Source string

const (
	SourceSensor  Source = "sensor"  // copied from a valid staged reading
	SourceImputed Source = "imputed" // synthesized for a missing hour
	SourceDerived Source = "derived" // written back by aggregation
)

// Granularity is the time bucket a measurement row represents.
type Granularity string

const (
	GranularityHour Granularity = "hour"
	GranularityDay  Granularity = "day"
)

// ReadingZone is the fixed +08:00 offset all sensor timestamps are
// composed in. Export files carry local standard time at this offset;
// using a fixed zone keeps import independent of the host timezone
// database.
var ReadingZone = time.FixedZone("UTC+8", 8*60*60)

// StagedReading is one raw imported sensor record. Rows land in the
// staging table exactly as parsed; duplicates within a batch pass
// through unchanged.
type StagedReading struct {
	ObservedAt time.Time
	Value      int
	IsValid    bool
}

// Measurement is one row of the canonical, gap-free series.
type Measurement struct {
	ObservedAt  time.Time
	Value       float64
	Source      Source
	Granularity Granularity
}
