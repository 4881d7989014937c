// Package data loads time-series input files: CSVs with one timestamp column
// and one or more numeric value columns (prices, load, generation).
package data

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"bess-lab/internal/model"
)

// Timestamp layouts accepted in input files, tried in order.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
}

// LoadSeriesCSV reads one value column out of a CSV file. The timestamp
// column is the one named timestamp/time/datetime (or the first column if
// none matches); timestamps must be strictly increasing. An empty column name
// selects the first value column.
func LoadSeriesCSV(path, column string) (model.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Series{}, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return model.Series{}, fmt.Errorf("read %s: %w", path, err)
	}
	if len(rows) < 2 {
		return model.Series{}, fmt.Errorf("%s: need a header row and at least one data row", path)
	}

	header := rows[0]
	tsIdx := timestampColumn(header)
	valIdx, err := valueColumn(header, column, tsIdx)
	if err != nil {
		return model.Series{}, fmt.Errorf("%s: %w", path, err)
	}

	s := model.Series{
		Timestamps: make([]time.Time, 0, len(rows)-1),
		Values:     make([]float64, 0, len(rows)-1),
	}
	for i, row := range rows[1:] {
		line := i + 2 // 1-based, after header
		if len(row) <= tsIdx || len(row) <= valIdx {
			return model.Series{}, fmt.Errorf("%s line %d: too few columns", path, line)
		}
		ts, err := parseTime(row[tsIdx])
		if err != nil {
			return model.Series{}, fmt.Errorf("%s line %d: %w", path, line, err)
		}
		if n := len(s.Timestamps); n > 0 && !ts.After(s.Timestamps[n-1]) {
			return model.Series{}, fmt.Errorf("%s line %d: timestamps must be strictly increasing", path, line)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(row[valIdx]), 64)
		if err != nil {
			return model.Series{}, fmt.Errorf("%s line %d: bad value %q", path, line, row[valIdx])
		}
		s.Timestamps = append(s.Timestamps, ts)
		s.Values = append(s.Values, v)
	}
	return s, nil
}

func timestampColumn(header []string) int {
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "timestamp", "time", "datetime", "interval_start":
			return i
		}
	}
	return 0
}

func valueColumn(header []string, column string, tsIdx int) (int, error) {
	if column == "" {
		for i := range header {
			if i != tsIdx {
				return i, nil
			}
		}
		return 0, fmt.Errorf("no value column found")
	}
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), column) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("column %q not found (header: %s)", column, strings.Join(header, ","))
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
