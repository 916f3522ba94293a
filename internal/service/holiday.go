package service

import (
	"fmt"
	"training-schedule-bot/internal/models"
	"training-schedule-bot/internal/repository"
	"training-schedule-bot/pkg/weekends"

	"github.com/sirupsen/logrus"
)

type HolidayService struct {
	repo repository.NonWorkingDayRepository
}

func NewHolidayService(repo repository.NonWorkingDayRepository) *HolidayService {
	return &HolidayService{repo: repo}
}

// LoadFromJSON загружает производственный календарь в базу. Дни каждого
// года из файла заменяют ранее загруженные дни этого года.
func (s *HolidayService) LoadFromJSON(filePath string) (int, error) {
	days, err := weekends.LoadFile(filePath)
	if err != nil {
		return 0, err
	}

	nonWorkingDays := make([]models.NonWorkingDay, 0, len(days))
	years := map[int]bool{}
	for _, wd := range days {
		years[wd.Year] = true
		nonWorkingDays = append(nonWorkingDays, models.NonWorkingDay{
			Date:  wd.ISO(),
			Year:  wd.Year,
			Month: wd.Month,
			Day:   wd.Day,
		})
	}

	for year := range years {
		if err := s.repo.DeleteYear(year); err != nil {
			logrus.Warnf("Failed to delete old non-working days for %d: %v", year, err)
		}
	}

	if err := s.repo.BulkCreate(nonWorkingDays); err != nil {
		return 0, fmt.Errorf("ошибка сохранения календаря: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"file": filePath,
		"days": len(nonWorkingDays),
	}).Info("Holiday calendar loaded")

	return len(nonWorkingDays), nil
}

// DatesBetween нерабочие дни календаря в интервале [from, to] в формате YYYY-MM-DD
func (s *HolidayService) DatesBetween(from, to string) ([]string, error) {
	if from > to {
		return nil, fmt.Errorf("начало интервала %s позже конца %s", from, to)
	}

	days, err := s.repo.GetBetween(from, to)
	if err != nil {
		return nil, err
	}

	dates := make([]string, 0, len(days))
	for _, d := range days {
		dates = append(dates, d.Date)
	}
	return dates, nil
}

// IsNonWorkingDay проверяет, является ли дата выходным днем
func (s *HolidayService) IsNonWorkingDay(date string) (bool, error) {
	return s.repo.IsNonWorkingDay(date)
}

// CountNonWorkingDays возвращает количество выходных дней
func (s *HolidayService) CountNonWorkingDays() (int64, error) {
	return s.repo.Count()
}
