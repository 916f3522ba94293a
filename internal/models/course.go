package models

import (
	"time"

	"training-schedule-bot/internal/schedule"
)

// CourseDraft курс, который пользователь собирает в чате. Хранится только в
// памяти бота и теряется при перезапуске.
type CourseDraft struct {
	ChatID      int64
	CourseName  string
	TraineeName string
	Input       schedule.Input
	Sessions    []schedule.Session
	UpdatedAt   time.Time
}

// CourseInputs снимок параметров курса для команды /inputs
type CourseInputs struct {
	CourseName       string   `json:"courseName"`
	TraineeName      string   `json:"traineeName"`
	StartDate        string   `json:"startDate"`
	StartTime        string   `json:"startTime"`
	HoursPerDay      float64  `json:"hoursPerDay"`
	TotalHours       float64  `json:"totalHours"`
	SelectedWeekdays []int    `json:"selectedWeekdays"`
	ExcludedDates    []string `json:"excludedDates"`
}

// Inputs собирает параметры курса в сериализуемом виде
func (c *CourseDraft) Inputs() CourseInputs {
	inputs := CourseInputs{
		CourseName:       c.CourseName,
		TraineeName:      c.TraineeName,
		StartTime:        c.Input.StartTime.String(),
		HoursPerDay:      c.Input.HoursPerDay,
		TotalHours:       c.Input.TotalHours,
		SelectedWeekdays: []int{},
		ExcludedDates:    append([]string{}, c.Input.Excluded...),
	}
	if !c.Input.StartDate.IsZero() {
		inputs.StartDate = c.Input.StartDate.Format(schedule.DateLayout)
	}
	for _, d := range c.Input.Weekdays {
		inputs.SelectedWeekdays = append(inputs.SelectedWeekdays, int(d))
	}
	return inputs
}

// Clone копия черновика, которую можно читать без блокировки
func (c *CourseDraft) Clone() *CourseDraft {
	clone := *c
	clone.Input.Weekdays = append([]time.Weekday(nil), c.Input.Weekdays...)
	clone.Input.Excluded = append([]string(nil), c.Input.Excluded...)
	clone.Sessions = append([]schedule.Session(nil), c.Sessions...)
	return &clone
}
