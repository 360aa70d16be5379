package ingest

import (
	"strings"
	"testing"
	"time"
)

const sampleHeader = "Site Parameter Year Month Day Hour Value Unit Duration QC"

func TestParse_ValidFile(t *testing.T) {
	input := sampleHeader + "\n" +
		"S42 PM10 2024 3 1 9 41 ugm3 1h Valid\n" +
		"S42 PM10 2024 3 1 10 0 ugm3 1h Missing\n"

	readings, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(readings) != 2 {
		t.Fatalf("Expected 2 readings, got %d", len(readings))
	}

	if !readings[0].IsValid {
		t.Error("Expected first reading valid")
	}
	if readings[0].Value != 41 {
		t.Errorf("Expected value 41, got %d", readings[0].Value)
	}
	if readings[1].IsValid {
		t.Error("Expected second reading invalid")
	}
}

func TestParse_ValidFlagCaseInsensitive(t *testing.T) {
	for _, qc := range []string{"Valid", "valid", "VALID", "vAlId"} {
		input := sampleHeader + "\n" +
			"S42 PM10 2024 3 1 9 41 ugm3 1h " + qc + "\n"
		readings, err := Parse(strings.NewReader(input))
		if err != nil {
			t.Fatalf("Parse() with QC=%q error = %v", qc, err)
		}
		if !readings[0].IsValid {
			t.Errorf("Expected QC=%q to be valid", qc)
		}
	}

	input := sampleHeader + "\nS42 PM10 2024 3 1 9 41 ugm3 1h Invalid\n"
	readings, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if readings[0].IsValid {
		t.Error("Expected QC=Invalid to be invalid")
	}
}

func TestParse_HeaderColumnOrderIrrelevant(t *testing.T) {
	// Columns resolved by name, not position.
	input := "QC Value Hour Day Month Year Site Parameter Unit Duration\n" +
		"Valid 55 14 2 6 2023 S1 PM25 ugm3 1h\n"

	readings, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := time.Date(2023, 6, 2, 14, 0, 0, 0, time.FixedZone("UTC+8", 8*3600))
	if readings[0].ObservedAt.Unix() != want.Unix() {
		t.Errorf("Expected %s, got %s", want, readings[0].ObservedAt)
	}
	if readings[0].Value != 55 {
		t.Errorf("Expected value 55, got %d", readings[0].Value)
	}
}

func TestParse_MalformedRowFailsFile(t *testing.T) {
	input := sampleHeader + "\n" +
		"S42 PM10 2024 3 1 9 41 ugm3 1h Valid\n" +
		"S42 PM10 2024 3 1 ten 41 ugm3 1h Valid\n"

	_, err := Parse(strings.NewReader(input))
	if err == nil {
		t.Fatal("Expected error for non-integer hour, got nil")
	}
}

func TestParse_MissingColumn(t *testing.T) {
	input := "Site Parameter Year Month Day Hour Value Unit Duration\n" +
		"S42 PM10 2024 3 1 9 41 ugm3 1h\n"

	_, err := Parse(strings.NewReader(input))
	if err == nil || !strings.Contains(err.Error(), "QC") {
		t.Fatalf("Expected missing-QC header error, got %v", err)
	}
}

func TestParse_EmptyInput(t *testing.T) {
	_, err := Parse(strings.NewReader(""))
	if err == nil {
		t.Fatal("Expected error for empty input, got nil")
	}
}

func TestComposeTimestamp_FixedOffset(t *testing.T) {
	ts := ComposeTimestamp(2024, 3, 1, 9)

	// 09:00 at +08:00 is 01:00 UTC, whatever the host timezone says.
	utc := ts.UTC()
	if utc.Hour() != 1 {
		t.Errorf("Expected 01:00 UTC, got %s", utc)
	}

	_, offset := ts.Zone()
	if offset != 8*3600 {
		t.Errorf("Expected +08:00 offset, got %d seconds", offset)
	}
}
