package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/hweilin/aqtrack/internal/core/models"
)

// MeasurementFilter narrows a canonical-store query. Zero-value bounds
// mean the full representable range; an empty Source matches all
// sources.
type MeasurementFilter struct {
	Start       time.Time
	End         time.Time
	Source      models.Source
	Granularity models.Granularity
}

// InsertMeasurement appends one row to the canonical series.
func (db *DB) InsertMeasurement(m models.Measurement) error {
	_, err := db.conn.Exec(`
		INSERT INTO measurements (observed_at, value, source, granularity)
		VALUES (?, ?, ?, ?)
	`, m.ObservedAt.UTC(), m.Value, string(m.Source), string(m.Granularity))
	if err != nil {
		return fmt.Errorf("insert measurement: %w", err)
	}
	return nil
}

// insertMeasurementTx is InsertMeasurement inside a caller-owned
// transaction.
func insertMeasurementTx(tx *sql.Tx, m models.Measurement) error {
	_, err := tx.Exec(`
		INSERT INTO measurements (observed_at, value, source, granularity)
		VALUES (?, ?, ?, ?)
	`, m.ObservedAt.UTC(), m.Value, string(m.Source), string(m.Granularity))
	return err
}

// InsertMeasurements writes a set of canonical rows inside one
// transaction. A failure on any row rolls back the whole set.
func (db *DB) InsertMeasurements(measurements []models.Measurement) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, m := range measurements {
		if err := insertMeasurementTx(tx, m); err != nil {
			return fmt.Errorf("insert measurement at %s: %w", m.ObservedAt, err)
		}
	}

	return tx.Commit()
}

// QueryMeasurements returns canonical rows matching the filter,
// ascending by timestamp.
func (db *DB) QueryMeasurements(f MeasurementFilter) ([]models.Measurement, error) {
	query := `SELECT observed_at, value, source, granularity FROM measurements WHERE granularity = ?`
	args := []interface{}{string(f.Granularity)}

	var clauses []string
	if !f.Start.IsZero() {
		clauses = append(clauses, "observed_at >= ?")
		args = append(args, f.Start.UTC())
	}
	if !f.End.IsZero() {
		clauses = append(clauses, "observed_at <= ?")
		args = append(args, f.End.UTC())
	}
	if f.Source != "" {
		clauses = append(clauses, "source = ?")
		args = append(args, string(f.Source))
	}
	if len(clauses) > 0 {
		query += " AND " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY observed_at ASC"

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var measurements []models.Measurement
	for rows.Next() {
		var m models.Measurement
		var source, granularity string
		if err := rows.Scan(&m.ObservedAt, &m.Value, &source, &granularity); err != nil {
			return nil, err
		}
		m.Source = models.Source(source)
		m.Granularity = models.Granularity(granularity)
		measurements = append(measurements, m)
	}
	return measurements, rows.Err()
}
