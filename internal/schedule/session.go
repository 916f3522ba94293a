package schedule

import (
	"fmt"
	"strings"
)

// Session одно занятие курса
type Session struct {
	// ID не меняется при вставке и удалении строк
	ID        string  `json:"id"`
	Number    int     `json:"session_number"`
	Date      string  `json:"date"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	Hours     float64 `json:"hours"`
	Remaining float64 `json:"remaining"`
}

// Field редактируемое поле занятия
type Field string

const (
	FieldDate  Field = "date"
	FieldStart Field = "start"
	FieldEnd   Field = "end"
	FieldHours Field = "hours"
)

// ParseField принимает как короткие, так и длинные имена полей
func ParseField(name string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "date", "дата":
		return FieldDate, nil
	case "start", "starttime", "начало":
		return FieldStart, nil
	case "end", "endtime", "конец":
		return FieldEnd, nil
	case "hours", "часы":
		return FieldHours, nil
	}
	return "", fmt.Errorf("%w: неизвестное поле %q (date, start, end, hours)", ErrInvalidValue, name)
}

// TotalHours сумма часов всех занятий
func TotalHours(sessions []Session) float64 {
	var total float64
	for _, s := range sessions {
		total = RoundHours(total + s.Hours)
	}
	return total
}

// IndexOf возвращает позицию занятия с данным ID или -1
func IndexOf(sessions []Session, id string) int {
	for i, s := range sessions {
		if s.ID == id {
			return i
		}
	}
	return -1
}
