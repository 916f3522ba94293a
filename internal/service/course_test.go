package service

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"training-schedule-bot/internal/models"
	"training-schedule-bot/internal/schedule"
)

func newTestCourseService() *CourseService {
	return NewCourseService(CourseDefaults{
		StartTime:   schedule.DefaultStartTime,
		HoursPerDay: 2,
		TotalHours:  5,
		Weekdays:    []time.Weekday{time.Monday, time.Wednesday},
	})
}

func dates(sessions []schedule.Session) []string {
	out := make([]string, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, s.Date)
	}
	return out
}

func TestCourseService_GeneratesOnStartDate(t *testing.T) {
	s := newTestCourseService()

	d := s.EnsureDraft(1, "Alex")
	if d.TraineeName != "Alex" || len(d.Sessions) != 0 {
		t.Fatalf("unexpected new draft %+v", d)
	}

	d, err := s.SetStartDate(1, "2024-01-01")
	if err != nil {
		t.Fatalf("SetStartDate failed: %v", err)
	}
	if got := strings.Join(dates(d.Sessions), ","); got != "2024-01-01,2024-01-03,2024-01-08" {
		t.Errorf("unexpected dates %s", got)
	}

	d, _, err = s.AddExcludedDates(1, "2024-01-03")
	if err != nil {
		t.Fatalf("AddExcludedDates failed: %v", err)
	}
	if got := strings.Join(dates(d.Sessions), ","); got != "2024-01-01,2024-01-08,2024-01-10" {
		t.Errorf("unexpected dates after exclusion %s", got)
	}

	d, err = s.RemoveExcludedDate(1, "2024-01-03")
	if err != nil {
		t.Fatalf("RemoveExcludedDate failed: %v", err)
	}
	if len(d.Input.Excluded) != 0 || d.Sessions[1].Date != "2024-01-03" {
		t.Errorf("exclusion was not removed: %+v", d.Input.Excluded)
	}
	if _, err := s.RemoveExcludedDate(1, "2024-01-03"); err == nil {
		t.Error("expected error removing a date that is not excluded")
	}

	if again := s.EnsureDraft(1, "Other"); again.TraineeName != "Alex" {
		t.Errorf("EnsureDraft should not overwrite trainee name, got %q", again.TraineeName)
	}
}

func TestCourseService_EmptyWeekdaysKeepsPriorSessions(t *testing.T) {
	s := newTestCourseService()
	if _, err := s.SetStartDate(1, "2024-01-01"); err != nil {
		t.Fatalf("SetStartDate failed: %v", err)
	}

	d, err := s.SetWeekdays(1, "")
	if err != nil {
		t.Fatalf("SetWeekdays failed: %v", err)
	}
	if len(d.Input.Weekdays) != 0 {
		t.Errorf("expected no weekdays, got %v", d.Input.Weekdays)
	}
	if len(d.Sessions) != 3 {
		t.Errorf("prior sessions should be kept, got %d", len(d.Sessions))
	}

	if _, err := s.Regenerate(1); !errors.Is(err, schedule.ErrIncompleteInput) {
		t.Errorf("expected ErrIncompleteInput from Regenerate, got %v", err)
	}
}

func TestCourseService_StartTimeDoesNotRegenerate(t *testing.T) {
	s := newTestCourseService()
	if _, err := s.SetStartDate(1, "2024-01-01"); err != nil {
		t.Fatalf("SetStartDate failed: %v", err)
	}

	d, err := s.SetStartTime(1, "18:00")
	if err != nil {
		t.Fatalf("SetStartTime failed: %v", err)
	}
	if d.Sessions[0].StartTime != "09:00" {
		t.Errorf("start time change should not regenerate, got %s", d.Sessions[0].StartTime)
	}

	d, err = s.Regenerate(1)
	if err != nil {
		t.Fatalf("Regenerate failed: %v", err)
	}
	if d.Sessions[0].StartTime != "18:00" || d.Sessions[0].EndTime != "20:00" {
		t.Errorf("expected 18:00-20:00 after regenerate, got %s-%s", d.Sessions[0].StartTime, d.Sessions[0].EndTime)
	}
}

func TestCourseService_RowEdits(t *testing.T) {
	s := newTestCourseService()
	if _, err := s.SetStartDate(1, "2024-01-01"); err != nil {
		t.Fatalf("SetStartDate failed: %v", err)
	}

	d, err := s.EditSession(1, 2, "hours", "3")
	if err != nil {
		t.Fatalf("EditSession failed: %v", err)
	}
	if d.Sessions[1].Remaining != 0 || d.Sessions[2].Remaining != 0 {
		t.Errorf("unexpected remaining after edit: %+v", d.Sessions)
	}

	d, err = s.InsertAbove(1, 1)
	if err != nil {
		t.Fatalf("InsertAbove failed: %v", err)
	}
	if len(d.Sessions) != 4 || d.Sessions[0].Hours != 0 || d.Sessions[1].Number != 2 {
		t.Errorf("unexpected sessions after insert: %+v", d.Sessions)
	}

	d, err = s.RemoveSession(1, 4)
	if err != nil {
		t.Fatalf("RemoveSession failed: %v", err)
	}
	if len(d.Sessions) != 3 {
		t.Errorf("expected 3 sessions, got %d", len(d.Sessions))
	}

	if _, err := s.RemoveSession(1, 10); !errors.Is(err, schedule.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
	if _, err := s.EditSession(1, 1, "hours", "lots"); !errors.Is(err, schedule.ErrInvalidValue) {
		t.Errorf("expected ErrInvalidValue, got %v", err)
	}
	if _, err := s.EditSession(1, 1, "color", "red"); !errors.Is(err, schedule.ErrInvalidValue) {
		t.Errorf("expected ErrInvalidValue for unknown field, got %v", err)
	}
}

func TestCourseService_Validation(t *testing.T) {
	s := newTestCourseService()

	if _, err := s.SetHoursPerDay(1, "0"); !errors.Is(err, schedule.ErrInvalidValue) {
		t.Errorf("expected ErrInvalidValue for 0 hours, got %v", err)
	}
	if _, err := s.SetTotalHours(1, "abc"); !errors.Is(err, schedule.ErrInvalidValue) {
		t.Errorf("expected ErrInvalidValue, got %v", err)
	}
	if _, err := s.SetStartDate(1, "2024/01/01"); !errors.Is(err, schedule.ErrInvalidValue) {
		t.Errorf("expected ErrInvalidValue for bad date, got %v", err)
	}
	if _, err := s.ToggleWeekday(1, 9); !errors.Is(err, schedule.ErrInvalidValue) {
		t.Errorf("expected ErrInvalidValue for weekday 9, got %v", err)
	}
	if _, _, err := s.AddExcludedDates(1, "2024-01-01", "nope"); err == nil {
		t.Error("expected error for malformed excluded date")
	}
	if d := s.Draft(1); len(d.Input.Excluded) != 0 {
		t.Errorf("rejected batch must not change exclusions, got %v", d.Input.Excluded)
	}
}

func TestCourseService_SessionLimit(t *testing.T) {
	s := newTestCourseService()
	if _, err := s.SetStartDate(1, "2024-01-01"); err != nil {
		t.Fatalf("SetStartDate failed: %v", err)
	}
	if _, err := s.SetHoursPerDay(1, "0.01"); err != nil {
		t.Fatalf("SetHoursPerDay failed: %v", err)
	}

	d, err := s.SetTotalHours(1, "1000")
	if !errors.Is(err, schedule.ErrSessionLimit) {
		t.Fatalf("expected ErrSessionLimit, got %v", err)
	}
	if d == nil || len(d.Sessions) != schedule.MaxSessions {
		t.Errorf("expected capped sessions to be kept")
	}
}

func TestCourseService_DraftIsACopy(t *testing.T) {
	s := newTestCourseService()
	if _, err := s.SetStartDate(1, "2024-01-01"); err != nil {
		t.Fatalf("SetStartDate failed: %v", err)
	}

	d := s.Draft(1)
	d.Sessions[0].Hours = 100
	d.Input.Weekdays[0] = time.Sunday

	fresh := s.Draft(1)
	if fresh.Sessions[0].Hours != 2 || fresh.Input.Weekdays[0] != time.Monday {
		t.Error("modifying a returned draft must not affect stored state")
	}

	s.Reset(1)
	if d := s.Draft(1); len(d.Sessions) != 0 || !d.Input.StartDate.IsZero() {
		t.Errorf("expected fresh draft after reset, got %+v", d)
	}
}

func TestCourseService_InputsJSON(t *testing.T) {
	s := newTestCourseService()
	s.SetCourseName(1, " Go Basics ")
	s.SetStartDate(1, "2024-01-01")
	s.AddExcludedDates(1, "2024-01-10", "2024-01-03", "2024-01-10")

	raw, err := s.InputsJSON(1)
	if err != nil {
		t.Fatalf("InputsJSON failed: %v", err)
	}

	var inputs models.CourseInputs
	if err := json.Unmarshal([]byte(raw), &inputs); err != nil {
		t.Fatalf("invalid JSON %s: %v", raw, err)
	}
	if inputs.CourseName != "Go Basics" || inputs.StartDate != "2024-01-01" || inputs.TotalHours != 5 {
		t.Errorf("unexpected inputs %+v", inputs)
	}
	if strings.Join(inputs.ExcludedDates, ",") != "2024-01-03,2024-01-10" {
		t.Errorf("expected sorted unique exclusions, got %v", inputs.ExcludedDates)
	}
	if len(inputs.SelectedWeekdays) != 2 || inputs.SelectedWeekdays[0] != 1 || inputs.SelectedWeekdays[1] != 3 {
		t.Errorf("unexpected weekdays %v", inputs.SelectedWeekdays)
	}
}

func TestFormatSchedule(t *testing.T) {
	s := newTestCourseService()
	if msgs := FormatSchedule(s.Draft(1)); len(msgs) != 1 || !strings.Contains(msgs[0], "/startdate") {
		t.Errorf("expected hint for empty schedule, got %v", msgs)
	}

	d, _ := s.SetStartDate(1, "2024-01-01")
	msgs := FormatSchedule(d)
	if len(msgs) != 1 {
		t.Fatalf("expected one message, got %d", len(msgs))
	}
	if !strings.Contains(msgs[0], "3. 2024-01-08 пн | 09:00–10:00 | 1ч | ост. 0ч") {
		t.Errorf("unexpected schedule text:\n%s", msgs[0])
	}

	s.SetHoursPerDay(1, "0.25")
	d, _ = s.SetTotalHours(1, "100")
	msgs = FormatSchedule(d)
	if len(msgs) < 2 {
		t.Errorf("expected long schedule to be split, got %d message(s)", len(msgs))
	}
	for _, m := range msgs {
		if len(m) > 4096 {
			t.Errorf("message exceeds Telegram limit: %d", len(m))
		}
	}
}
