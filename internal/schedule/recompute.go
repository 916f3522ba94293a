package schedule

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

// Recompute пересчитывает остаток часов после каждого занятия в текущем
// порядке строк. Исходный срез не изменяется.
func Recompute(sessions []Session, totalHours float64) []Session {
	out := make([]Session, len(sessions))
	var cumulative float64
	for i, s := range sessions {
		cumulative = RoundHours(cumulative + s.Hours)
		s.Remaining = math.Max(0, RoundHours(totalHours-cumulative))
		out[i] = s
	}
	return out
}

// Renumber проставляет номера 1..N по позиции
func Renumber(sessions []Session) []Session {
	out := make([]Session, len(sessions))
	for i, s := range sessions {
		s.Number = i + 1
		out[i] = s
	}
	return out
}

// UpdateField меняет одно поле занятия. Ограничения по дням недели и
// исключенным датам при ручной правке не проверяются.
func UpdateField(sessions []Session, id string, field Field, value string, totalHours float64) ([]Session, error) {
	idx := IndexOf(sessions, id)
	if idx < 0 {
		return nil, ErrSessionNotFound
	}

	out := make([]Session, len(sessions))
	copy(out, sessions)
	s := &out[idx]

	switch field {
	case FieldDate:
		date, err := ParseDate(value)
		if err != nil {
			return nil, err
		}
		s.Date = date.Format(DateLayout)
	case FieldStart, FieldEnd:
		clock, err := ParseClock(value)
		if err != nil {
			return nil, err
		}
		if field == FieldStart {
			s.StartTime = clock.String()
		} else {
			s.EndTime = clock.String()
		}
	case FieldHours:
		hours, err := ParseHours(value)
		if err != nil {
			return nil, err
		}
		s.Hours = hours
	default:
		return nil, fmt.Errorf("%w: неизвестное поле %q", ErrInvalidValue, field)
	}

	return Recompute(out, totalHours), nil
}

// InsertAbove вставляет перед занятием id пустое занятие (0 часов) с той
// же датой и временем.
func InsertAbove(sessions []Session, id string, totalHours float64) ([]Session, error) {
	idx := IndexOf(sessions, id)
	if idx < 0 {
		return nil, ErrSessionNotFound
	}

	target := sessions[idx]
	row := Session{
		ID:        uuid.NewString(),
		Date:      target.Date,
		StartTime: target.StartTime,
		EndTime:   target.EndTime,
		Hours:     0,
	}

	out := make([]Session, 0, len(sessions)+1)
	out = append(out, sessions[:idx]...)
	out = append(out, row)
	out = append(out, sessions[idx:]...)

	return Recompute(Renumber(out), totalHours), nil
}

// Remove удаляет занятие id
func Remove(sessions []Session, id string, totalHours float64) ([]Session, error) {
	idx := IndexOf(sessions, id)
	if idx < 0 {
		return nil, ErrSessionNotFound
	}

	out := make([]Session, 0, len(sessions)-1)
	out = append(out, sessions[:idx]...)
	out = append(out, sessions[idx+1:]...)

	return Recompute(Renumber(out), totalHours), nil
}
