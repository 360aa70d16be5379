package aggregate

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hweilin/aqtrack/internal/core/db"
	"github.com/hweilin/aqtrack/internal/core/models"
)

func testDB(t *testing.T) *db.DB {
	t.Helper()

	tmpfile, err := os.CreateTemp("", "test-*.db")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Remove(tmpfile.Name()) })
	_ = tmpfile.Close()

	database, err := db.New(tmpfile.Name())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	return database
}

func TestDaily_MeansPerDay(t *testing.T) {
	database := testDB(t)

	day1 := time.Date(2024, 3, 1, 0, 0, 0, 0, models.ReadingZone)
	day2 := time.Date(2024, 3, 2, 0, 0, 0, 0, models.ReadingZone)

	hourly := []models.Measurement{
		{ObservedAt: day1.Add(1 * time.Hour), Value: 10, Source: models.SourceSensor, Granularity: models.GranularityHour},
		{ObservedAt: day1.Add(2 * time.Hour), Value: 20, Source: models.SourceSensor, Granularity: models.GranularityHour},
		{ObservedAt: day1.Add(3 * time.Hour), Value: 30, Source: models.SourceImputed, Granularity: models.GranularityHour},
		{ObservedAt: day2.Add(1 * time.Hour), Value: 50, Source: models.SourceSensor, Granularity: models.GranularityHour},
	}
	require.NoError(t, database.InsertMeasurements(hourly))

	days, err := Daily(database, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 2, days)

	derived, err := database.QueryMeasurements(db.MeasurementFilter{Granularity: models.GranularityDay})
	require.NoError(t, err)
	require.Len(t, derived, 2)

	assert.Equal(t, day1.Unix(), derived[0].ObservedAt.Unix())
	assert.Equal(t, 20.0, derived[0].Value)
	assert.Equal(t, models.SourceDerived, derived[0].Source)

	assert.Equal(t, day2.Unix(), derived[1].ObservedAt.Unix())
	assert.Equal(t, 50.0, derived[1].Value)
}

func TestDaily_DayBucketFollowsReadingOffset(t *testing.T) {
	database := testDB(t)

	// 2024-03-01 23:00 UTC is already 2024-03-02 07:00 at +08:00; the
	// row must land in the March 2 bucket.
	late := time.Date(2024, 3, 1, 23, 0, 0, 0, time.UTC)
	require.NoError(t, database.InsertMeasurements([]models.Measurement{
		{ObservedAt: late, Value: 40, Source: models.SourceSensor, Granularity: models.GranularityHour},
	}))

	_, err := Daily(database, time.Time{}, time.Time{})
	require.NoError(t, err)

	derived, err := database.QueryMeasurements(db.MeasurementFilter{Granularity: models.GranularityDay})
	require.NoError(t, err)
	require.Len(t, derived, 1)

	want := time.Date(2024, 3, 2, 0, 0, 0, 0, models.ReadingZone)
	assert.Equal(t, want.Unix(), derived[0].ObservedAt.Unix())
}

func TestDaily_EmptyRange(t *testing.T) {
	database := testDB(t)

	days, err := Daily(database, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Zero(t, days)
}
