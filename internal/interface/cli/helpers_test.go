package cli

import (
	"testing"
	"time"
)

func TestParseTimeFlag_RFC3339(t *testing.T) {
	ts, err := parseTimeFlag("2024-03-01T09:00:00+08:00")
	if err != nil {
		t.Fatalf("parseTimeFlag() error = %v", err)
	}
	if ts.UTC().Hour() != 1 {
		t.Errorf("Expected 01:00 UTC, got %s", ts.UTC())
	}
}

func TestParseTimeFlag_DateOnlyUsesReadingOffset(t *testing.T) {
	ts, err := parseTimeFlag("2024-03-01")
	if err != nil {
		t.Fatalf("parseTimeFlag() error = %v", err)
	}

	_, offset := ts.Zone()
	if offset != 8*3600 {
		t.Errorf("Expected +08:00 offset, got %d seconds", offset)
	}
	if ts.Hour() != 0 || ts.Day() != 1 {
		t.Errorf("Expected midnight March 1, got %s", ts)
	}
}

func TestParseTimeFlag_Empty(t *testing.T) {
	ts, err := parseTimeFlag("")
	if err != nil {
		t.Fatalf("parseTimeFlag() error = %v", err)
	}
	if !ts.IsZero() {
		t.Errorf("Expected zero time for empty flag, got %s", ts)
	}
}

func TestParseTimeFlag_NaturalLanguage(t *testing.T) {
	ts, err := parseTimeFlag("yesterday")
	if err != nil {
		t.Fatalf("parseTimeFlag() error = %v", err)
	}

	if time.Since(ts) > 48*time.Hour || time.Since(ts) < 0 {
		t.Errorf("Expected 'yesterday' within the last two days, got %s", ts)
	}
}

func TestParseTimeFlag_Garbage(t *testing.T) {
	if _, err := parseTimeFlag("not-a-time-at-all-xyz"); err == nil {
		t.Fatal("Expected error for unparseable input, got nil")
	}
}

func TestParseRequiredRange(t *testing.T) {
	if _, _, err := parseRequiredRange("", "2024-03-31"); err == nil {
		t.Error("Expected error when --start missing")
	}
	if _, _, err := parseRequiredRange("2024-03-01", ""); err == nil {
		t.Error("Expected error when --end missing")
	}
	if _, _, err := parseRequiredRange("2024-03-31", "2024-03-01"); err == nil {
		t.Error("Expected error for inverted range")
	}

	start, end, err := parseRequiredRange("2024-03-01", "2024-03-31")
	if err != nil {
		t.Fatalf("parseRequiredRange() error = %v", err)
	}
	if !start.Before(end) {
		t.Error("Expected start before end")
	}
}
