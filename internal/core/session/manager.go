package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonboulle/clockwork"

	"github.com/hweilin/aqtrack/internal/core/db"
	"github.com/hweilin/aqtrack/internal/core/models"
	"github.com/hweilin/aqtrack/internal/core/remote"
)

// RemoteService is the slice of the forecast-service client the
// lifecycle manager depends on.
type RemoteService interface {
	CreateForecast(ctx context.Context, req remote.ForecastRequest) (string, error)
	CreateImpactAnalysis(ctx context.Context, req remote.ImpactRequest) (string, error)
	GetSession(ctx context.Context, id string) (*remote.SessionStatus, error)
}

// Manager drives the remote-session lifecycle: submit, track, fetch,
// persist. One outstanding remote request at a time; the caller blocks
// until it finishes or fails.
type Manager struct {
	db      *db.DB
	service RemoteService
	clock   clockwork.Clock
}

// NewManager creates a lifecycle manager. A nil clock selects the real
// clock.
func NewManager(database *db.DB, service RemoteService, clock clockwork.Clock) *Manager {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Manager{db: database, service: service, clock: clock}
}

// SubmitForecast issues a forecast request and, once the service has
// assigned an id, persists the local session stub. A remote failure
// writes nothing locally.
func (m *Manager) SubmitForecast(ctx context.Context, name string, req remote.ForecastRequest) (*models.Session, error) {
	id, err := m.service.CreateForecast(ctx, req)
	if err != nil {
		return nil, err
	}
	return m.recordSession(id, name)
}

// SubmitImpactAnalysis issues an impact-analysis request and persists
// the local session stub.
func (m *Manager) SubmitImpactAnalysis(ctx context.Context, name string, req remote.ImpactRequest) (*models.Session, error) {
	id, err := m.service.CreateImpactAnalysis(ctx, req)
	if err != nil {
		return nil, err
	}
	return m.recordSession(id, name)
}

func (m *Manager) recordSession(id, name string) (*models.Session, error) {
	s := models.Session{
		SessionID:   id,
		Name:        name,
		RequestedAt: m.clock.Now(),
	}
	if err := m.db.InsertSession(s); err != nil {
		return nil, fmt.Errorf("record session %s: %w", id, err)
	}
	return &s, nil
}

// FetchOutcome reports what a results fetch did.
type FetchOutcome struct {
	Status string // remote status at fetch time
	Stored int    // result rows persisted; 0 unless Status is completed
}

// FetchResults asks the remote service for a session's current state.
// A session not yet completed is a reported no-op: the status comes
// back and nothing is written. A completed session has its metrics
// stored as session metadata and its full result set replace any
// previously stored rows, all in one transaction, so repeated fetches
// converge to the same stored rows.
func (m *Manager) FetchResults(ctx context.Context, sessionID string) (FetchOutcome, error) {
	status, err := m.service.GetSession(ctx, sessionID)
	if err != nil {
		return FetchOutcome{}, err
	}

	if status.Status != remote.StatusCompleted {
		return FetchOutcome{Status: status.Status}, nil
	}

	metadata, err := json.Marshal(status.Metrics)
	if err != nil {
		return FetchOutcome{}, fmt.Errorf("encode metrics: %w", err)
	}

	results := make([]models.SessionResult, 0, len(status.Result))
	for _, row := range status.Result {
		results = append(results, models.SessionResult{
			SessionID:  sessionID,
			ObservedAt: row.Timestamp,
			Value:      row.Value,
		})
	}

	if err := m.db.ReplaceSessionResults(sessionID, string(metadata), results); err != nil {
		return FetchOutcome{}, fmt.Errorf("persist results for %s: %w", sessionID, err)
	}

	return FetchOutcome{Status: status.Status, Stored: len(results)}, nil
}
