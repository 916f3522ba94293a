package repository

import (
	"errors"
	"training-schedule-bot/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type ExportRecordRepository interface {
	Create(record *models.ExportRecord) error
	GetByChatID(chatID int64, limit int) ([]*models.ExportRecord, error)
	CountByChatID(chatID int64) (int64, error)
}

type GormExportRecordRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormExportRecordRepository(db *gorm.DB) (*GormExportRecordRepository, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	// Автомиграция
	if err := db.AutoMigrate(&models.ExportRecord{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate export_records table")
		return nil, err
	}

	logger.Info("Export record repository initialized")

	return &GormExportRecordRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *GormExportRecordRepository) Create(record *models.ExportRecord) error {
	if !record.IsValid() {
		r.logger.WithFields(logrus.Fields{
			"chat_id": record.ChatID,
			"kind":    record.Kind,
		}).Warn("Invalid export record data")
		return errors.New("некорректные данные выгрузки")
	}

	result := r.db.Create(record)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to create export record")
		return result.Error
	}

	r.logger.WithFields(logrus.Fields{
		"id":        record.ID,
		"chat_id":   record.ChatID,
		"kind":      record.Kind,
		"file_name": record.FileName,
	}).Info("Export record created")

	return nil
}

// GetByChatID последние выгрузки пользователя, новые первыми
func (r *GormExportRecordRepository) GetByChatID(chatID int64, limit int) ([]*models.ExportRecord, error) {
	var records []*models.ExportRecord
	query := r.db.Where("chat_id = ?", chatID).Order("created_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	result := query.Find(&records)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get export records")
		return nil, result.Error
	}

	r.logger.WithFields(logrus.Fields{
		"chat_id": chatID,
		"count":   len(records),
	}).Debug("Retrieved export records")

	return records, nil
}

func (r *GormExportRecordRepository) CountByChatID(chatID int64) (int64, error) {
	var count int64
	result := r.db.Model(&models.ExportRecord{}).Where("chat_id = ?", chatID).Count(&count)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to count export records")
		return 0, result.Error
	}
	return count, nil
}
