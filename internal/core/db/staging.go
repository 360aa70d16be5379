package db

import (
	"fmt"
	"time"

	"github.com/hweilin/aqtrack/internal/core/models"
)

// ClearStaging empties the staging table. A fresh import run starts
// from an empty staging area.
func (db *DB) ClearStaging() error {
	_, err := db.conn.Exec(`DELETE FROM staged_readings`)
	if err != nil {
		return fmt.Errorf("clear staging: %w", err)
	}
	return nil
}

// StageBatch inserts a batch of raw readings inside one transaction.
// The whole batch commits together or not at all; duplicates within
// the batch are not deduplicated.
func (db *DB) StageBatch(readings []models.StagedReading) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.Prepare(`
		INSERT INTO staged_readings (observed_at, value, is_valid)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	for _, r := range readings {
		if _, err := stmt.Exec(r.ObservedAt.UTC(), r.Value, r.IsValid); err != nil {
			return fmt.Errorf("stage reading at %s: %w", r.ObservedAt, err)
		}
	}

	return tx.Commit()
}

// ValidReadings returns every staged reading flagged valid, ascending
// by timestamp.
func (db *DB) ValidReadings() ([]models.StagedReading, error) {
	rows, err := db.conn.Query(`
		SELECT observed_at, value, is_valid FROM staged_readings
		WHERE is_valid = 1
		ORDER BY observed_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var readings []models.StagedReading
	for rows.Next() {
		var r models.StagedReading
		if err := rows.Scan(&r.ObservedAt, &r.Value, &r.IsValid); err != nil {
			return nil, err
		}
		readings = append(readings, r)
	}
	return readings, rows.Err()
}

// InvalidTimestamps returns the timestamps of every staged reading
// flagged invalid, ascending. These are the candidate gap hours.
func (db *DB) InvalidTimestamps() ([]time.Time, error) {
	rows, err := db.conn.Query(`
		SELECT observed_at FROM staged_readings
		WHERE is_valid = 0
		ORDER BY observed_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var timestamps []time.Time
	for rows.Next() {
		var ts time.Time
		if err := rows.Scan(&ts); err != nil {
			return nil, err
		}
		timestamps = append(timestamps, ts)
	}
	return timestamps, rows.Err()
}

// StagedCount reports how many rows are currently staged.
func (db *DB) StagedCount() (int, error) {
	var count int
	err := db.conn.QueryRow(`SELECT COUNT(*) FROM staged_readings`).Scan(&count)
	return count, err
}
