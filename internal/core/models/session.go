package models

import "time"

// Session is one remote forecasting or impact-analysis job. The stub
// is written at submission time so the pending job survives a process
// exit; Metadata stays empty until results are fetched.
type Session struct {
	SessionID   string // opaque id assigned by the remote service
	Name        string
	RequestedAt time.Time
	Metadata    string // metrics JSON, empty until results arrive
}

// SessionResult is one predicted or analyzed point belonging to a
// session. The full set for a session is rewritten on every fetch.
type SessionResult struct {
	SessionID  string
	ObservedAt time.Time
	Value      float64
}
