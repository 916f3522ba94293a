// Package schedule строит расписание занятий курса и пересчитывает остаток часов.
//
// Функции пакета не имеют состояния и не выполняют ввод-вывод: результат
// зависит только от аргументов.
package schedule

import (
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// MaxSessions жесткий предел количества занятий за одну генерацию
const MaxSessions = 5000

var sessionNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("training-schedule-bot/session"))

// Generate проходит по календарю от даты начала и распределяет часы по
// подходящим дням, пока не наберется TotalHours.
//
// При неполных данных возвращает ErrIncompleteInput, вызывающий код
// сохраняет прежний список. При достижении MaxSessions возвращает уже
// созданные занятия вместе с ErrSessionLimit.
func Generate(in Input) ([]Session, error) {
	if !in.Ready() {
		return nil, ErrIncompleteInput
	}
	hoursPerDay := RoundHours(in.HoursPerDay)
	totalHours := RoundHours(in.TotalHours)
	if !positive(hoursPerDay) || !positive(totalHours) {
		return nil, ErrNonPositiveHours
	}

	allowed := make(map[time.Weekday]bool, len(in.Weekdays))
	for _, d := range in.Weekdays {
		allowed[d] = true
	}
	excluded := make(map[string]bool, len(in.Excluded))
	for _, d := range in.Excluded {
		excluded[d] = true
	}

	start := dateOf(in.StartDate)
	cursor := start
	hoursRemaining := totalHours
	sessions := []Session{}

	for hoursRemaining > 0 {
		if len(sessions) >= MaxSessions {
			return Recompute(sessions, totalHours), ErrSessionLimit
		}

		date := cursor.Format(DateLayout)
		if allowed[cursor.Weekday()] && !excluded[date] {
			planned := math.Min(hoursPerDay, hoursRemaining)
			startTime := in.StartTime.On(cursor)
			endTime := startTime.Add(hoursDuration(planned))
			number := len(sessions) + 1

			sessions = append(sessions, Session{
				ID:        generatedID(start, number),
				Number:    number,
				Date:      date,
				StartTime: startTime.Format(ClockLayout),
				EndTime:   endTime.Format(ClockLayout),
				Hours:     planned,
			})

			hoursRemaining = RoundHours(hoursRemaining - planned)
		}

		cursor = cursor.AddDate(0, 0, 1)
	}

	return Recompute(sessions, totalHours), nil
}

// dateOf отбрасывает время и часовой пояс, оставляя календарную дату.
// Шаг по UTC-полуночи не зависит от перехода на летнее время.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// hoursDuration переводит часы в длительность с точностью до минуты
func hoursDuration(h float64) time.Duration {
	return time.Duration(h * float64(time.Hour)).Round(time.Minute)
}

// positive отсекает также NaN и бесконечность
func positive(h float64) bool {
	return h > 0 && !math.IsInf(h, 0)
}

func generatedID(start time.Time, number int) string {
	name := start.Format(DateLayout) + "/" + strconv.Itoa(number)
	return uuid.NewSHA1(sessionNamespace, []byte(name)).String()
}
