package db

import (
	"database/sql"
	"fmt"

	"github.com/hweilin/aqtrack/internal/core/models"
)

// InsertSession persists the local stub for a freshly submitted remote
// job.
func (db *DB) InsertSession(s models.Session) error {
	var metadata sql.NullString
	if s.Metadata != "" {
		metadata = sql.NullString{String: s.Metadata, Valid: true}
	}
	_, err := db.conn.Exec(`
		INSERT INTO sessions (session_id, name, requested_at, metadata)
		VALUES (?, ?, ?, ?)
	`, s.SessionID, s.Name, s.RequestedAt.UTC(), metadata)
	if err != nil {
		return fmt.Errorf("insert session %s: %w", s.SessionID, err)
	}
	return nil
}

// GetSession returns the session with the given remote id, or nil if
// it was never submitted from this store.
func (db *DB) GetSession(sessionID string) (*models.Session, error) {
	var s models.Session
	var metadata sql.NullString
	err := db.conn.QueryRow(`
		SELECT session_id, name, requested_at, metadata FROM sessions
		WHERE session_id = ?
	`, sessionID).Scan(&s.SessionID, &s.Name, &s.RequestedAt, &metadata)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.Metadata = metadata.String
	return &s, nil
}

// ListSessions returns all locally tracked sessions, most recent
// first.
func (db *DB) ListSessions() ([]models.Session, error) {
	rows, err := db.conn.Query(`
		SELECT session_id, name, requested_at, metadata FROM sessions
		ORDER BY requested_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		var s models.Session
		var metadata sql.NullString
		if err := rows.Scan(&s.SessionID, &s.Name, &s.RequestedAt, &metadata); err != nil {
			return nil, err
		}
		s.Metadata = metadata.String
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// ReplaceSessionResults stores fetched results for a completed
// session: metadata update, delete of any prior result rows, and the
// fresh bulk insert all happen in one transaction, so repeated fetches
// converge to the same rows and a failure leaves prior state intact.
func (db *DB) ReplaceSessionResults(sessionID, metadata string, results []models.SessionResult) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.Exec(`
		UPDATE sessions SET metadata = ? WHERE session_id = ?
	`, metadata, sessionID)
	if err != nil {
		return fmt.Errorf("update session metadata: %w", err)
	}

	_, err = tx.Exec(`DELETE FROM session_results WHERE session_id = ?`, sessionID)
	if err != nil {
		return fmt.Errorf("clear prior results: %w", err)
	}

	for _, r := range results {
		_, err = tx.Exec(`
			INSERT INTO session_results (session_id, observed_at, value)
			VALUES (?, ?, ?)
		`, sessionID, r.ObservedAt.UTC(), r.Value)
		if err != nil {
			return fmt.Errorf("insert result at %s: %w", r.ObservedAt, err)
		}
	}

	return tx.Commit()
}

// SessionResults returns the stored result points for a session,
// ascending by timestamp.
func (db *DB) SessionResults(sessionID string) ([]models.SessionResult, error) {
	rows, err := db.conn.Query(`
		SELECT session_id, observed_at, value FROM session_results
		WHERE session_id = ?
		ORDER BY observed_at ASC
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []models.SessionResult
	for rows.Next() {
		var r models.SessionResult
		if err := rows.Scan(&r.SessionID, &r.ObservedAt, &r.Value); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
