package schedule

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	// DateLayout формат дат сессий и исключенных дней
	DateLayout = "2006-01-02"
	// ClockLayout формат времени начала/окончания
	ClockLayout = "15:04"
)

var (
	ErrIncompleteInput  = errors.New("не задана дата начала или дни недели")
	ErrNonPositiveHours = errors.New("часы в день и общее количество часов должны быть больше нуля")
	ErrSessionLimit     = errors.New("достигнут лимит количества занятий")
	ErrSessionNotFound  = errors.New("занятие не найдено")
	ErrInvalidValue     = errors.New("некорректное значение")
)

// Clock время суток без даты
type Clock struct {
	Hour   int
	Minute int
}

// DefaultStartTime время начала занятий по умолчанию
var DefaultStartTime = Clock{Hour: 9}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// On возвращает момент времени c в день date
func (c Clock) On(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), c.Hour, c.Minute, 0, 0, date.Location())
}

// ParseClock парсит время в формате "9:00" или "09:00"
func ParseClock(s string) (Clock, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return Clock{}, fmt.Errorf("%w: время %q, используйте ЧЧ:ММ", ErrInvalidValue, s)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return Clock{}, fmt.Errorf("%w: часы должны быть между 0 и 23", ErrInvalidValue)
	}

	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return Clock{}, fmt.Errorf("%w: минуты должны быть между 0 и 59", ErrInvalidValue)
	}

	return Clock{Hour: hour, Minute: minute}, nil
}

// ParseDate парсит календарную дату YYYY-MM-DD
func ParseDate(s string) (time.Time, error) {
	date, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: дата %q, используйте ГГГГ-ММ-ДД", ErrInvalidValue, s)
	}
	return date, nil
}

// ParseHours парсит количество часов, допускается запятая как разделитель
func ParseHours(s string) (float64, error) {
	value, err := strconv.ParseFloat(strings.Replace(strings.TrimSpace(s), ",", ".", 1), 64)
	if err != nil || math.IsNaN(value) || value < 0 || value > 1e6 {
		return 0, fmt.Errorf("%w: часы %q", ErrInvalidValue, s)
	}
	return RoundHours(value), nil
}

// hoursScale число долей часа, до которых округляются все суммы и остатки
const hoursScale = 1e9

// RoundHours округляет часы до 1e-9. Все суммы и остатки проходят через
// него, поэтому три занятия по 0.7 дают ровно 2.1 и нулевой остаток.
func RoundHours(h float64) float64 {
	return math.Round(h*hoursScale) / hoursScale
}

// FormatHours форматирует часы без лишних нулей: 2, 1.5, 0.25
func FormatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}

// Input параметры курса, от которых зависит генерация расписания
type Input struct {
	StartDate   time.Time
	StartTime   Clock
	HoursPerDay float64
	TotalHours  float64
	// Weekdays допустимые дни недели, 0 = воскресенье
	Weekdays []time.Weekday
	// Excluded даты в формате DateLayout
	Excluded []string
}

// Ready сообщает, достаточно ли данных для генерации
func (in Input) Ready() bool {
	return !in.StartDate.IsZero() && len(in.Weekdays) > 0
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "вс": time.Sunday,
	"mon": time.Monday, "пн": time.Monday,
	"tue": time.Tuesday, "вт": time.Tuesday,
	"wed": time.Wednesday, "ср": time.Wednesday,
	"thu": time.Thursday, "чт": time.Thursday,
	"fri": time.Friday, "пт": time.Friday,
	"sat": time.Saturday, "сб": time.Saturday,
}

// ParseWeekdays парсит список дней недели: "1,3", "mon wed" или "пн,ср".
// Результат отсортирован и без повторов.
func ParseWeekdays(s string) ([]time.Weekday, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == ';'
	})

	var seen [7]bool
	for _, f := range fields {
		f = strings.ToLower(f)
		if d, ok := weekdayNames[f]; ok {
			seen[d] = true
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 || n > 6 {
			return nil, fmt.Errorf("%w: день недели %q (0=вс .. 6=сб)", ErrInvalidValue, f)
		}
		seen[n] = true
	}

	days := []time.Weekday{}
	for d, ok := range seen {
		if ok {
			days = append(days, time.Weekday(d))
		}
	}
	return days, nil
}

// ToggleWeekday добавляет день, если его нет, и убирает, если есть
func ToggleWeekday(days []time.Weekday, day time.Weekday) []time.Weekday {
	var seen [7]bool
	for _, d := range days {
		seen[d] = true
	}
	if day >= time.Sunday && day <= time.Saturday {
		seen[day] = !seen[day]
	}

	out := []time.Weekday{}
	for d, ok := range seen {
		if ok {
			out = append(out, time.Weekday(d))
		}
	}
	return out
}
