package ingest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hweilin/aqtrack/internal/core/models"
)

// Export files are fixed-column tables: a header line naming each
// column, then one whitespace-delimited row per hourly reading.
// Columns are resolved by header name, not position.
var requiredColumns = []string{
	"Site", "Parameter", "Year", "Month", "Day", "Hour",
	"Value", "Unit", "Duration", "QC",
}

// validFlag is the QC text marking a usable reading. Comparison is
// case-insensitive.
const validFlag = "Valid"

// ComposeTimestamp builds the absolute timestamp for a reading from
// the four integer fields, anchored to the fixed +08:00 offset the
// export files are stamped in.
func ComposeTimestamp(year, month, day, hour int) time.Time {
	return time.Date(year, time.Month(month), day, hour, 0, 0, 0, models.ReadingZone)
}

// ParseFile reads one export file into staged readings.
func ParseFile(path string) ([]models.StagedReading, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	readings, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return readings, nil
}

// Parse reads export rows from r. Any malformed line fails the whole
// file; a partially parsed file is never imported.
func Parse(r io.Reader) ([]models.StagedReading, error) {
	scanner := bufio.NewScanner(r)

	columns, err := parseHeader(scanner)
	if err != nil {
		return nil, err
	}

	var readings []models.StagedReading
	lineNo := 1
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != len(columns) {
			return nil, fmt.Errorf("line %d: expected %d fields, got %d", lineNo, len(columns), len(fields))
		}

		reading, err := parseRow(fields, columns)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		readings = append(readings, reading)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	return readings, nil
}

// parseHeader consumes the first non-blank line and maps column names
// to field positions, requiring every named column to be present.
func parseHeader(scanner *bufio.Scanner) (map[string]int, error) {
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		columns := make(map[string]int)
		for i, name := range strings.Fields(line) {
			columns[name] = i
		}
		for _, name := range requiredColumns {
			if _, ok := columns[name]; !ok {
				return nil, fmt.Errorf("header missing column %q", name)
			}
		}
		return columns, nil
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return nil, fmt.Errorf("empty input: no header line")
}

func parseRow(fields []string, columns map[string]int) (models.StagedReading, error) {
	year, err := intField(fields, columns, "Year")
	if err != nil {
		return models.StagedReading{}, err
	}
	month, err := intField(fields, columns, "Month")
	if err != nil {
		return models.StagedReading{}, err
	}
	day, err := intField(fields, columns, "Day")
	if err != nil {
		return models.StagedReading{}, err
	}
	hour, err := intField(fields, columns, "Hour")
	if err != nil {
		return models.StagedReading{}, err
	}
	value, err := intField(fields, columns, "Value")
	if err != nil {
		return models.StagedReading{}, err
	}

	qc := fields[columns["QC"]]

	return models.StagedReading{
		ObservedAt: ComposeTimestamp(year, month, day, hour),
		Value:      value,
		IsValid:    strings.EqualFold(qc, validFlag),
	}, nil
}

func intField(fields []string, columns map[string]int, name string) (int, error) {
	raw := fields[columns[name]]
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("column %s: invalid integer %q", name, raw)
	}
	return v, nil
}
