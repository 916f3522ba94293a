// Package export выгружает расписание курса в таблицу (.xlsx) и документ (.pdf).
package export

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnavailable - экспорт не настроен в этой установке
var ErrUnavailable = errors.New("экспорт недоступен")

// Header шапка выгружаемого расписания
type Header struct {
	CourseName  string
	TraineeName string
	GeneratedAt time.Time
}

func (h Header) course() string {
	if strings.TrimSpace(h.CourseName) == "" {
		return "Course"
	}
	return h.CourseName
}

func (h Header) trainee() string {
	if strings.TrimSpace(h.TraineeName) == "" {
		return "Trainee"
	}
	return h.TraineeName
}

// FileName предлагаемое имя файла, например "Go - Ivan - Schedule.xlsx"
func FileName(h Header, ext string) string {
	name := fmt.Sprintf("%s - %s - Schedule.%s", h.course(), h.trainee(), ext)
	return strings.NewReplacer("/", "_", "\\", "_", ":", "_").Replace(name)
}

var columns = []string{"Session No", "Date", "Start Time", "End Time", "Hours", "Remaining"}
