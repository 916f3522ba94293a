package service

import (
	"fmt"
	"strings"
	"time"
	"training-schedule-bot/internal/models"
	"training-schedule-bot/internal/schedule"
)

// messageLimit запас до лимита Telegram в 4096 символов
const messageLimit = 3500

var weekdayShort = [...]string{"вс", "пн", "вт", "ср", "чт", "пт", "сб"}

func formatWeekdays(days []time.Weekday) string {
	if len(days) == 0 {
		return "не выбраны"
	}
	names := make([]string, 0, len(days))
	for _, d := range days {
		names = append(names, fmt.Sprintf("%s (%d)", weekdayShort[d], d))
	}
	return strings.Join(names, ", ")
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// FormatSettings форматирует параметры курса для отображения
func FormatSettings(d *models.CourseDraft) string {
	startDate := "не задана"
	if !d.Input.StartDate.IsZero() {
		startDate = d.Input.StartDate.Format(schedule.DateLayout)
	}

	excluded := "нет"
	if len(d.Input.Excluded) > 0 {
		excluded = strings.Join(d.Input.Excluded, ", ")
	}

	return fmt.Sprintf(
		`📚 Курс: %s
👤 Слушатель: %s
📅 Дата начала: %s
⏰ Время начала: %s
🕒 Часов в день: %s
📈 Всего часов: %s
📆 Дни недели: %s
🚫 Исключенные даты: %s`,
		orDash(d.CourseName),
		orDash(d.TraineeName),
		startDate,
		d.Input.StartTime,
		schedule.FormatHours(d.Input.HoursPerDay),
		schedule.FormatHours(d.Input.TotalHours),
		formatWeekdays(d.Input.Weekdays),
		excluded,
	)
}

// FormatSchedule разбивает таблицу занятий на сообщения, укладывающиеся в лимит Telegram
func FormatSchedule(d *models.CourseDraft) []string {
	if len(d.Sessions) == 0 {
		if !d.Input.Ready() {
			return []string{"📭 Расписание пустое. Укажите дату начала (/startdate) и дни недели (/weekdays)."}
		}
		return []string{"📭 Расписание пустое. Используйте /regenerate."}
	}

	var messages []string
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📋 Расписание: %s, %s\n\n", orDash(d.CourseName), orDash(d.TraineeName)))
	b.WriteString("№ | Дата | Начало–Конец | Часы | Остаток\n")

	for _, s := range d.Sessions {
		line := fmt.Sprintf("%d. %s %s | %s–%s | %sч | ост. %sч\n",
			s.Number,
			s.Date,
			weekdayOf(s.Date),
			s.StartTime,
			s.EndTime,
			schedule.FormatHours(s.Hours),
			schedule.FormatHours(s.Remaining),
		)
		if b.Len()+len(line) > messageLimit {
			messages = append(messages, b.String())
			b.Reset()
		}
		b.WriteString(line)
	}

	allocated := schedule.TotalHours(d.Sessions)
	b.WriteString(fmt.Sprintf("\nЗанятий: %d, распределено %sч из %sч",
		len(d.Sessions),
		schedule.FormatHours(allocated),
		schedule.FormatHours(d.Input.TotalHours),
	))
	messages = append(messages, b.String())

	return messages
}

func weekdayOf(iso string) string {
	date, err := schedule.ParseDate(iso)
	if err != nil {
		return ""
	}
	return weekdayShort[date.Weekday()]
}
