package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
	"training-schedule-bot/internal/models"
	"training-schedule-bot/internal/schedule"

	"github.com/sirupsen/logrus"
)

// CourseDefaults начальные параметры нового курса
type CourseDefaults struct {
	StartTime   schedule.Clock
	HoursPerDay float64
	TotalHours  float64
	Weekdays    []time.Weekday
}

// CourseService хранит черновики курсов по chatID.
//
// Изменение даты начала, часов в день, общего количества часов, дней недели
// или исключенных дат полностью перестраивает расписание. Правка, вставка и
// удаление строк только пересчитывают остаток часов.
type CourseService struct {
	mu       sync.Mutex
	drafts   map[int64]*models.CourseDraft
	defaults CourseDefaults
	logger   *logrus.Logger
	now      func() time.Time
}

func NewCourseService(defaults CourseDefaults) *CourseService {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &CourseService{
		drafts:   make(map[int64]*models.CourseDraft),
		defaults: defaults,
		logger:   logger,
		now:      time.Now,
	}
}

// EnsureDraft создает черновик при первом обращении. traineeName
// подставляется только в новый черновик.
func (s *CourseService) EnsureDraft(chatID int64, traineeName string) *models.CourseDraft {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d, ok := s.drafts[chatID]; ok {
		return d.Clone()
	}
	d := s.draftLocked(chatID)
	d.TraineeName = traineeName
	return d.Clone()
}

// Draft возвращает копию черновика
func (s *CourseService) Draft(chatID int64) *models.CourseDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draftLocked(chatID).Clone()
}

// Reset удаляет черновик, следующий доступ создаст новый с параметрами по умолчанию
func (s *CourseService) Reset(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, chatID)
	s.logger.WithField("chat_id", chatID).Info("Course draft reset")
}

func (s *CourseService) draftLocked(chatID int64) *models.CourseDraft {
	d, ok := s.drafts[chatID]
	if !ok {
		d = &models.CourseDraft{
			ChatID: chatID,
			Input: schedule.Input{
				StartTime:   s.defaults.StartTime,
				HoursPerDay: s.defaults.HoursPerDay,
				TotalHours:  s.defaults.TotalHours,
				Weekdays:    append([]time.Weekday{}, s.defaults.Weekdays...),
				Excluded:    []string{},
			},
			Sessions:  []schedule.Session{},
			UpdatedAt: s.now(),
		}
		s.drafts[chatID] = d
	}
	return d
}

// update применяет mutate к черновику. При regenerate расписание строится
// заново; если данных для генерации не хватает, прежний список сохраняется.
func (s *CourseService) update(chatID int64, regenerate bool, mutate func(d *models.CourseDraft) error) (*models.CourseDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.draftLocked(chatID)
	if err := mutate(d); err != nil {
		return nil, err
	}
	d.UpdatedAt = s.now()

	if !regenerate {
		return d.Clone(), nil
	}

	sessions, err := schedule.Generate(d.Input)
	switch {
	case errors.Is(err, schedule.ErrIncompleteInput):
		s.logger.WithField("chat_id", chatID).Debug("Schedule input incomplete, keeping sessions")
		return d.Clone(), nil
	case errors.Is(err, schedule.ErrSessionLimit):
		d.Sessions = sessions
		s.logger.WithFields(logrus.Fields{
			"chat_id":  chatID,
			"sessions": len(sessions),
		}).Warn("Schedule generation stopped at session limit")
		return d.Clone(), err
	case err != nil:
		s.logger.WithError(err).WithField("chat_id", chatID).Warn("Schedule generation rejected")
		return nil, err
	}

	d.Sessions = sessions
	s.logger.WithFields(logrus.Fields{
		"chat_id":     chatID,
		"sessions":    len(sessions),
		"total_hours": d.Input.TotalHours,
	}).Info("Schedule generated")

	return d.Clone(), nil
}

func (s *CourseService) SetCourseName(chatID int64, name string) (*models.CourseDraft, error) {
	return s.update(chatID, false, func(d *models.CourseDraft) error {
		d.CourseName = strings.TrimSpace(name)
		return nil
	})
}

func (s *CourseService) SetTraineeName(chatID int64, name string) (*models.CourseDraft, error) {
	return s.update(chatID, false, func(d *models.CourseDraft) error {
		d.TraineeName = strings.TrimSpace(name)
		return nil
	})
}

func (s *CourseService) SetStartDate(chatID int64, value string) (*models.CourseDraft, error) {
	date, err := schedule.ParseDate(value)
	if err != nil {
		return nil, err
	}
	return s.update(chatID, true, func(d *models.CourseDraft) error {
		d.Input.StartDate = date
		return nil
	})
}

// SetStartTime не перестраивает расписание, новое время применится при следующей генерации
func (s *CourseService) SetStartTime(chatID int64, value string) (*models.CourseDraft, error) {
	clock, err := schedule.ParseClock(value)
	if err != nil {
		return nil, err
	}
	return s.update(chatID, false, func(d *models.CourseDraft) error {
		d.Input.StartTime = clock
		return nil
	})
}

func (s *CourseService) SetHoursPerDay(chatID int64, value string) (*models.CourseDraft, error) {
	hours, err := parsePositiveHours(value)
	if err != nil {
		return nil, err
	}
	return s.update(chatID, true, func(d *models.CourseDraft) error {
		d.Input.HoursPerDay = hours
		return nil
	})
}

func (s *CourseService) SetTotalHours(chatID int64, value string) (*models.CourseDraft, error) {
	hours, err := parsePositiveHours(value)
	if err != nil {
		return nil, err
	}
	return s.update(chatID, true, func(d *models.CourseDraft) error {
		d.Input.TotalHours = hours
		return nil
	})
}

func (s *CourseService) SetWeekdays(chatID int64, value string) (*models.CourseDraft, error) {
	days, err := schedule.ParseWeekdays(value)
	if err != nil {
		return nil, err
	}
	return s.update(chatID, true, func(d *models.CourseDraft) error {
		d.Input.Weekdays = days
		return nil
	})
}

func (s *CourseService) ToggleWeekday(chatID int64, day time.Weekday) (*models.CourseDraft, error) {
	if day < time.Sunday || day > time.Saturday {
		return nil, fmt.Errorf("%w: день недели %d (0=вс .. 6=сб)", schedule.ErrInvalidValue, day)
	}
	return s.update(chatID, true, func(d *models.CourseDraft) error {
		d.Input.Weekdays = schedule.ToggleWeekday(d.Input.Weekdays, day)
		return nil
	})
}

// AddExcludedDates добавляет даты без повторов, список остается отсортированным
func (s *CourseService) AddExcludedDates(chatID int64, values ...string) (*models.CourseDraft, int, error) {
	dates := make([]string, 0, len(values))
	for _, v := range values {
		date, err := schedule.ParseDate(v)
		if err != nil {
			return nil, 0, err
		}
		dates = append(dates, date.Format(schedule.DateLayout))
	}

	added := 0
	d, err := s.update(chatID, true, func(d *models.CourseDraft) error {
		for _, date := range dates {
			if !slices.Contains(d.Input.Excluded, date) {
				d.Input.Excluded = append(d.Input.Excluded, date)
				added++
			}
		}
		slices.Sort(d.Input.Excluded)
		return nil
	})
	return d, added, err
}

func (s *CourseService) RemoveExcludedDate(chatID int64, value string) (*models.CourseDraft, error) {
	date, err := schedule.ParseDate(value)
	if err != nil {
		return nil, err
	}
	iso := date.Format(schedule.DateLayout)
	return s.update(chatID, true, func(d *models.CourseDraft) error {
		idx := slices.Index(d.Input.Excluded, iso)
		if idx < 0 {
			return fmt.Errorf("дата %s не исключена", iso)
		}
		d.Input.Excluded = slices.Delete(d.Input.Excluded, idx, idx+1)
		return nil
	})
}

// Regenerate строит расписание заново по текущим параметрам
func (s *CourseService) Regenerate(chatID int64) (*models.CourseDraft, error) {
	d, err := s.update(chatID, true, func(d *models.CourseDraft) error {
		if !d.Input.Ready() {
			return schedule.ErrIncompleteInput
		}
		return nil
	})
	return d, err
}

// sessionID переводит номер строки в устойчивый ID занятия
func sessionID(d *models.CourseDraft, number int) (string, error) {
	if number < 1 || number > len(d.Sessions) {
		return "", fmt.Errorf("%w: №%d", schedule.ErrSessionNotFound, number)
	}
	return d.Sessions[number-1].ID, nil
}

// EditSession меняет поле занятия с номером number
func (s *CourseService) EditSession(chatID int64, number int, field, value string) (*models.CourseDraft, error) {
	f, err := schedule.ParseField(field)
	if err != nil {
		return nil, err
	}
	return s.update(chatID, false, func(d *models.CourseDraft) error {
		id, err := sessionID(d, number)
		if err != nil {
			return err
		}
		sessions, err := schedule.UpdateField(d.Sessions, id, f, value, d.Input.TotalHours)
		if err != nil {
			return err
		}
		d.Sessions = sessions
		return nil
	})
}

// InsertAbove добавляет пустое занятие перед строкой number
func (s *CourseService) InsertAbove(chatID int64, number int) (*models.CourseDraft, error) {
	return s.update(chatID, false, func(d *models.CourseDraft) error {
		id, err := sessionID(d, number)
		if err != nil {
			return err
		}
		sessions, err := schedule.InsertAbove(d.Sessions, id, d.Input.TotalHours)
		if err != nil {
			return err
		}
		d.Sessions = sessions
		return nil
	})
}

func (s *CourseService) RemoveSession(chatID int64, number int) (*models.CourseDraft, error) {
	return s.update(chatID, false, func(d *models.CourseDraft) error {
		id, err := sessionID(d, number)
		if err != nil {
			return err
		}
		sessions, err := schedule.Remove(d.Sessions, id, d.Input.TotalHours)
		if err != nil {
			return err
		}
		d.Sessions = sessions
		return nil
	})
}

// InputsJSON параметры курса в JSON для копирования
func (s *CourseService) InputsJSON(chatID int64) (string, error) {
	d := s.Draft(chatID)
	data, err := json.MarshalIndent(d.Inputs(), "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func parsePositiveHours(value string) (float64, error) {
	hours, err := schedule.ParseHours(value)
	if err != nil {
		return 0, err
	}
	if hours <= 0 {
		return 0, fmt.Errorf("%w: количество часов должно быть больше нуля", schedule.ErrInvalidValue)
	}
	return hours, nil
}
