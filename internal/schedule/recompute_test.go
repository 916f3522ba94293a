package schedule

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func generated(t *testing.T) []Session {
	t.Helper()
	sessions, err := Generate(baseInput())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	return sessions
}

func TestRecompute_Idempotent(t *testing.T) {
	sessions := generated(t)
	sessions[1].Hours = 4

	once := Recompute(sessions, 5)
	twice := Recompute(once, 5)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("Recompute is not idempotent:\n%+v\n%+v", once, twice)
	}

	want := []float64{3, 0, 0}
	for i, s := range once {
		if s.Remaining != want[i] {
			t.Errorf("session %d: expected remaining %v, got %v", i+1, want[i], s.Remaining)
		}
	}
}

func TestRecompute_DoesNotMutateInput(t *testing.T) {
	sessions := []Session{{ID: "a", Hours: 1, Remaining: 42}}
	_ = Recompute(sessions, 10)
	if sessions[0].Remaining != 42 {
		t.Error("Recompute should not modify its argument")
	}
}

func TestUpdateField(t *testing.T) {
	sessions := generated(t)
	id := sessions[0].ID

	updated, err := UpdateField(sessions, id, FieldHours, "0,5", 5)
	if err != nil {
		t.Fatalf("UpdateField failed: %v", err)
	}
	if updated[0].Hours != 0.5 || updated[0].Remaining != 4.5 {
		t.Errorf("expected 0.5h / rem 4.5, got %vh / rem %v", updated[0].Hours, updated[0].Remaining)
	}
	if updated[2].Remaining != 1.5 {
		t.Errorf("expected last remaining 1.5, got %v", updated[2].Remaining)
	}

	// дата вне разрешенных дней недели допускается
	updated, err = UpdateField(updated, id, FieldDate, "2024-01-06", 5)
	if err != nil {
		t.Fatalf("UpdateField date failed: %v", err)
	}
	if updated[0].Date != "2024-01-06" {
		t.Errorf("expected date 2024-01-06, got %s", updated[0].Date)
	}

	updated, err = UpdateField(updated, id, FieldStart, "8:15", 5)
	if err != nil {
		t.Fatalf("UpdateField start failed: %v", err)
	}
	if updated[0].StartTime != "08:15" {
		t.Errorf("expected start 08:15, got %s", updated[0].StartTime)
	}

	if sessions[0].Hours != 2 {
		t.Error("UpdateField should not modify its argument")
	}
}

func TestUpdateField_Rejects(t *testing.T) {
	sessions := generated(t)
	id := sessions[0].ID

	for _, tc := range []struct {
		field Field
		value string
	}{
		{FieldHours, "abc"},
		{FieldHours, "-1"},
		{FieldHours, "NaN"},
		{FieldDate, "01.01.2024"},
		{FieldEnd, "25:00"},
		{Field("room"), "1"},
	} {
		if _, err := UpdateField(sessions, id, tc.field, tc.value, 5); !errors.Is(err, ErrInvalidValue) {
			t.Errorf("%s=%q: expected ErrInvalidValue, got %v", tc.field, tc.value, err)
		}
	}

	if _, err := UpdateField(sessions, "missing", FieldHours, "1", 5); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestInsertAbove(t *testing.T) {
	sessions := generated(t)
	target := sessions[1]

	inserted, err := InsertAbove(sessions, target.ID, 5)
	if err != nil {
		t.Fatalf("InsertAbove failed: %v", err)
	}
	if len(inserted) != 4 {
		t.Fatalf("expected 4 sessions, got %d", len(inserted))
	}

	row := inserted[1]
	if row.Hours != 0 || row.Date != target.Date || row.StartTime != target.StartTime || row.EndTime != target.EndTime {
		t.Errorf("inserted row should copy date/time with 0 hours, got %+v", row)
	}
	if row.ID == "" || row.ID == target.ID {
		t.Errorf("inserted row needs its own ID, got %q", row.ID)
	}
	if row.Remaining != 3 {
		t.Errorf("expected inserted remaining 3, got %v", row.Remaining)
	}
	if inserted[2].ID != target.ID || inserted[2].Number != 3 {
		t.Errorf("target should move to position 3 keeping its ID, got %+v", inserted[2])
	}
	for i, s := range inserted {
		if s.Number != i+1 {
			t.Errorf("position %d numbered %d", i, s.Number)
		}
	}
}

func TestInsertThenRemoveRestoresSequence(t *testing.T) {
	sessions := generated(t)

	inserted, err := InsertAbove(sessions, sessions[0].ID, 5)
	if err != nil {
		t.Fatalf("InsertAbove failed: %v", err)
	}
	restored, err := Remove(inserted, inserted[0].ID, 5)
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if !reflect.DeepEqual(sessions, restored) {
		t.Errorf("expected initial sequence:\n%+v\ngot:\n%+v", sessions, restored)
	}
}

func TestRemove(t *testing.T) {
	sessions := generated(t)

	removed, err := Remove(sessions, sessions[0].ID, 5)
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if len(removed) != 2 || removed[0].Number != 1 || removed[0].Date != "2024-01-03" {
		t.Fatalf("unexpected result after remove: %+v", removed)
	}
	if removed[0].Remaining != 3 || removed[1].Remaining != 2 {
		t.Errorf("expected remaining 3 and 2, got %v and %v", removed[0].Remaining, removed[1].Remaining)
	}

	single := []Session{{ID: "only", Number: 1, Hours: 2}}
	empty, err := Remove(single, "only", 5)
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected empty sequence, got %+v", empty)
	}

	if _, err := Remove(sessions, "missing", 5); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestParseWeekdays(t *testing.T) {
	days, err := ParseWeekdays("3, mon,пт 3")
	if err != nil {
		t.Fatalf("ParseWeekdays failed: %v", err)
	}
	want := []time.Weekday{time.Monday, time.Wednesday, time.Friday}
	if !reflect.DeepEqual(days, want) {
		t.Errorf("expected %v, got %v", want, days)
	}

	if _, err := ParseWeekdays("7"); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("expected ErrInvalidValue for 7, got %v", err)
	}

	days, err = ParseWeekdays("")
	if err != nil || len(days) != 0 {
		t.Errorf("expected empty set, got %v, %v", days, err)
	}
}

func TestToggleWeekday(t *testing.T) {
	days := ToggleWeekday([]time.Weekday{time.Wednesday, time.Monday}, time.Sunday)
	want := []time.Weekday{time.Sunday, time.Monday, time.Wednesday}
	if !reflect.DeepEqual(days, want) {
		t.Errorf("expected %v, got %v", want, days)
	}

	days = ToggleWeekday(days, time.Monday)
	want = []time.Weekday{time.Sunday, time.Wednesday}
	if !reflect.DeepEqual(days, want) {
		t.Errorf("expected %v, got %v", want, days)
	}
}

func TestParseClock(t *testing.T) {
	c, err := ParseClock("9:05")
	if err != nil {
		t.Fatalf("ParseClock failed: %v", err)
	}
	if c.String() != "09:05" {
		t.Errorf("expected 09:05, got %s", c)
	}
	for _, bad := range []string{"", "9", "24:00", "12:60", "aa:bb"} {
		if _, err := ParseClock(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestRecompute_RoundsDecimalSums(t *testing.T) {
	sessions := []Session{{ID: "a", Hours: 0.1}, {ID: "b", Hours: 0.2}, {ID: "c", Hours: 0.3}}

	out := Recompute(sessions, 0.6)
	if out[1].Remaining != 0.3 || out[2].Remaining != 0 {
		t.Errorf("unexpected remaining %v, %v", out[1].Remaining, out[2].Remaining)
	}
	if total := TotalHours(out); total != 0.6 {
		t.Errorf("expected total 0.6, got %v", total)
	}
}

func TestParseHours_Rounds(t *testing.T) {
	h, err := ParseHours("0,1000000000004")
	if err != nil || h != 0.1 {
		t.Errorf("ParseHours = %v, %v; want 0.1", h, err)
	}
}
