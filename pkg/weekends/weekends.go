package weekends

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// CalendarJSON - структура производственного календаря (формат xmlcalendar).
// Переносы и статистика из файла не нужны и не разбираются.
type CalendarJSON struct {
	Year   int             `json:"year"`
	Months []MonthWeekends `json:"months"`
}

type MonthWeekends struct {
	Month int    `json:"month"`
	Days  string `json:"days"`
}

// NonWorkingDay - выходной или праздничный день календаря
type NonWorkingDay struct {
	Date  time.Time `json:"date"`
	Year  int       `json:"year"`
	Month int       `json:"month"`
	Day   int       `json:"day"`
}

// ISO возвращает дату в формате 2006-01-02
func (d NonWorkingDay) ISO() string {
	return d.Date.Format("2006-01-02")
}

// LoadFile читает календарь из JSON файла
func LoadFile(filePath string) ([]NonWorkingDay, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON file: %w", err)
	}
	return Parse(data)
}

// Parse разбирает JSON календаря и возвращает нерабочие дни по порядку.
// Дни со звездочкой - сокращенные рабочие, в результат не попадают.
// Дни с плюсом - перенесенные выходные, считаются нерабочими.
func Parse(data []byte) ([]NonWorkingDay, error) {
	var calendar CalendarJSON
	if err := json.Unmarshal(data, &calendar); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON: %w", err)
	}

	if calendar.Year < 1900 || calendar.Year > 2200 {
		return nil, fmt.Errorf("invalid calendar year %d", calendar.Year)
	}

	days := []NonWorkingDay{}
	for _, monthData := range calendar.Months {
		if monthData.Month < 1 || monthData.Month > 12 {
			return nil, fmt.Errorf("invalid month %d", monthData.Month)
		}

		for _, dayStr := range strings.Split(monthData.Days, ",") {
			dayStr = strings.TrimSpace(dayStr)
			if dayStr == "" || strings.HasSuffix(dayStr, "*") {
				continue
			}
			dayStr = strings.TrimSuffix(dayStr, "+")

			day, err := strconv.Atoi(dayStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse day '%s' in month %d: %w",
					dayStr, monthData.Month, err)
			}

			date := time.Date(calendar.Year, time.Month(monthData.Month), day, 0, 0, 0, 0, time.UTC)
			if date.Month() != time.Month(monthData.Month) {
				return nil, fmt.Errorf("day %d does not exist in month %d", day, monthData.Month)
			}

			days = append(days, NonWorkingDay{
				Date:  date,
				Year:  calendar.Year,
				Month: monthData.Month,
				Day:   day,
			})
		}
	}

	sort.Slice(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })
	return days, nil
}
