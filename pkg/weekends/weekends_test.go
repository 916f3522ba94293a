package weekends

import (
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"testing"
	"time"
)

const sampleCalendar = `{
  "year": 2024,
  "months": [
    {"month": 1, "days": "1,2,3,6,7"},
    {"month": 2, "days": "3,4,10,11,17,18,22*,23,24,25"},
    {"month": 4, "days": "27*,28,29+,30+"}
  ],
  "transitions": [{"from": "04.27", "to": "04.29"}],
  "statistic": {"workdays": 248, "holidays": 118, "hours40": 1979}
}`

func TestParse(t *testing.T) {
	days, err := Parse([]byte(sampleCalendar))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(days) != 5+9+3 {
		t.Fatalf("expected 17 non-working days, got %d", len(days))
	}

	dates := make([]string, 0, len(days))
	for _, d := range days {
		dates = append(dates, d.ISO())
	}

	if slices.Contains(dates, "2024-02-22") {
		t.Error("shortened working day 2024-02-22 should not be non-working")
	}
	if !slices.Contains(dates, "2024-04-29") {
		t.Error("transferred weekend 2024-04-29 should be non-working")
	}

	last := days[len(days)-1]
	want := NonWorkingDay{Date: time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC), Year: 2024, Month: 4, Day: 30}
	if !reflect.DeepEqual(last, want) {
		t.Errorf("expected days sorted with %+v last, got %+v", want, last)
	}
}

func TestParse_Errors(t *testing.T) {
	for name, data := range map[string]string{
		"bad json":     `{`,
		"bad day":      `{"year": 2024, "months": [{"month": 1, "days": "1,x"}]}`,
		"no such day":  `{"year": 2024, "months": [{"month": 2, "days": "30"}]}`,
		"bad month":    `{"year": 2024, "months": [{"month": 13, "days": "1"}]}`,
		"missing year": `{"months": []}`,
	} {
		if _, err := Parse([]byte(data)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calendar.json")
	if err := os.WriteFile(path, []byte(sampleCalendar), 0644); err != nil {
		t.Fatalf("failed to write calendar: %v", err)
	}

	days, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if len(days) != 17 {
		t.Errorf("expected 17 days, got %d", len(days))
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
