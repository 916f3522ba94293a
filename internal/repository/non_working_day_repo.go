package repository

import (
	"training-schedule-bot/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type NonWorkingDayRepository interface {
	BulkCreate(days []models.NonWorkingDay) error
	GetBetween(from, to string) ([]models.NonWorkingDay, error)
	DeleteYear(year int) error
	IsNonWorkingDay(date string) (bool, error)
	Count() (int64, error)
}

type GormNonWorkingDayRepository struct {
	db *gorm.DB
}

func NewGormNonWorkingDayRepository(db *gorm.DB) (*GormNonWorkingDayRepository, error) {
	// Автомиграция для таблицы non_working_days
	if err := db.AutoMigrate(&models.NonWorkingDay{}); err != nil {
		return nil, err
	}

	return &GormNonWorkingDayRepository{db: db}, nil
}

// BulkCreate пропускает даты, которые уже есть в календаре
func (r *GormNonWorkingDayRepository) BulkCreate(days []models.NonWorkingDay) error {
	if len(days) == 0 {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&days).Error
}

// GetBetween даты хранятся как YYYY-MM-DD, поэтому строковое сравнение корректно
func (r *GormNonWorkingDayRepository) GetBetween(from, to string) ([]models.NonWorkingDay, error) {
	var days []models.NonWorkingDay
	err := r.db.Where("date >= ? AND date <= ?", from, to).Order("date ASC").Find(&days).Error
	return days, err
}

func (r *GormNonWorkingDayRepository) DeleteYear(year int) error {
	return r.db.Where("year = ?", year).Delete(&models.NonWorkingDay{}).Error
}

func (r *GormNonWorkingDayRepository) IsNonWorkingDay(date string) (bool, error) {
	var count int64
	err := r.db.Model(&models.NonWorkingDay{}).
		Where("date = ?", date).
		Count(&count).Error
	return count > 0, err
}

func (r *GormNonWorkingDayRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.NonWorkingDay{}).Count(&count).Error
	return count, err
}
