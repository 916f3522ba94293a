package service

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"training-schedule-bot/internal/models"
)

type memoryCalendar struct {
	days map[string]models.NonWorkingDay
}

func newMemoryCalendar() *memoryCalendar {
	return &memoryCalendar{days: map[string]models.NonWorkingDay{}}
}

func (m *memoryCalendar) BulkCreate(days []models.NonWorkingDay) error {
	for _, d := range days {
		if _, ok := m.days[d.Date]; !ok {
			m.days[d.Date] = d
		}
	}
	return nil
}

func (m *memoryCalendar) GetBetween(from, to string) ([]models.NonWorkingDay, error) {
	var out []models.NonWorkingDay
	for date, d := range m.days {
		if date >= from && date <= to {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (m *memoryCalendar) DeleteYear(year int) error {
	for date, d := range m.days {
		if d.Year == year {
			delete(m.days, date)
		}
	}
	return nil
}

func (m *memoryCalendar) IsNonWorkingDay(date string) (bool, error) {
	_, ok := m.days[date]
	return ok, nil
}

func (m *memoryCalendar) Count() (int64, error) {
	return int64(len(m.days)), nil
}

func writeCalendar(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "calendar.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write calendar: %v", err)
	}
	return path
}

func TestHolidayService_LoadAndQuery(t *testing.T) {
	repo := newMemoryCalendar()
	repo.days["2024-05-01"] = models.NonWorkingDay{Date: "2024-05-01", Year: 2024, Month: 5, Day: 1}
	repo.days["2025-01-01"] = models.NonWorkingDay{Date: "2025-01-01", Year: 2025, Month: 1, Day: 1}
	s := NewHolidayService(repo)

	path := writeCalendar(t, `{"year": 2024, "months": [{"month": 1, "days": "1,2,7"}, {"month": 3, "days": "7*,8"}]}`)
	n, err := s.LoadFromJSON(path)
	if err != nil {
		t.Fatalf("LoadFromJSON failed: %v", err)
	}
	if n != 4 {
		t.Errorf("expected 4 days loaded, got %d", n)
	}

	// 2024 перезаписан, 2025 не тронут
	if ok, _ := s.IsNonWorkingDay("2024-05-01"); ok {
		t.Error("stale day of reloaded year should be removed")
	}
	if ok, _ := s.IsNonWorkingDay("2025-01-01"); !ok {
		t.Error("days of other years should be kept")
	}
	if count, _ := s.CountNonWorkingDays(); count != 5 {
		t.Errorf("expected 5 days in calendar, got %d", count)
	}

	dates, err := s.DatesBetween("2024-01-02", "2024-12-31")
	if err != nil {
		t.Fatalf("DatesBetween failed: %v", err)
	}
	if strings.Join(dates, ",") != "2024-01-02,2024-01-07,2024-03-08" {
		t.Errorf("unexpected dates %v", dates)
	}

	if _, err := s.DatesBetween("2024-12-31", "2024-01-01"); err == nil {
		t.Error("expected error for reversed interval")
	}
}

func TestHolidayService_LoadErrors(t *testing.T) {
	s := NewHolidayService(newMemoryCalendar())
	if _, err := s.LoadFromJSON(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := s.LoadFromJSON(writeCalendar(t, `{"year": 2024, "months": [{"month": 1, "days": "x"}]}`)); err == nil {
		t.Error("expected error for malformed calendar")
	}
}
