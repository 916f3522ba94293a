package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"training-schedule-bot/internal/export"
	"training-schedule-bot/internal/models"
	"training-schedule-bot/internal/repository"
	"training-schedule-bot/internal/schedule"

	"github.com/sirupsen/logrus"
)

var ErrEmptySchedule = errors.New("расписание пустое, выгружать нечего")

// PDFConverter превращает HTML снимок расписания в PDF
type PDFConverter interface {
	Available() bool
	ConvertHTML(ctx context.Context, page []byte) ([]byte, error)
}

// ExportFile готовый файл для отправки пользователю
type ExportFile struct {
	Kind string
	Name string
	Data []byte
}

type ExportService struct {
	records   repository.ExportRecordRepository
	converter PDFConverter
	logger    *logrus.Logger
	now       func() time.Time
}

func NewExportService(records repository.ExportRecordRepository, converter PDFConverter) *ExportService {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &ExportService{
		records:   records,
		converter: converter,
		logger:    logger,
		now:       time.Now,
	}
}

// ParseKind принимает xlsx/excel и pdf
func ParseKind(value string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "xlsx", "excel", "xls":
		return models.ExportKindSpreadsheet, nil
	case "pdf":
		return models.ExportKindDocument, nil
	}
	return "", fmt.Errorf("неизвестный формат %q, используйте xlsx или pdf", value)
}

// Export выгружает черновик курса. Отсутствие конвертера PDF возвращает
// export.ErrUnavailable, выгрузка при этом не выполняется.
func (s *ExportService) Export(ctx context.Context, d *models.CourseDraft, kind string) (*ExportFile, error) {
	if len(d.Sessions) == 0 {
		return nil, ErrEmptySchedule
	}

	header := export.Header{
		CourseName:  d.CourseName,
		TraineeName: d.TraineeName,
		GeneratedAt: s.now(),
	}

	logger := s.logger.WithFields(logrus.Fields{
		"chat_id":  d.ChatID,
		"kind":     kind,
		"sessions": len(d.Sessions),
	})
	logger.Info("Exporting schedule")

	var data []byte
	var err error
	switch kind {
	case models.ExportKindSpreadsheet:
		data, err = export.Spreadsheet(header, d.Sessions)
	case models.ExportKindDocument:
		data, err = s.document(ctx, header, d.Sessions)
	default:
		return nil, fmt.Errorf("неизвестный формат %q", kind)
	}
	if err != nil {
		logger.WithError(err).Error("Failed to export schedule")
		return nil, err
	}

	file := &ExportFile{
		Kind: kind,
		Name: export.FileName(header, kind),
		Data: data,
	}

	record := &models.ExportRecord{
		ChatID:       d.ChatID,
		Kind:         kind,
		FileName:     file.Name,
		CourseName:   d.CourseName,
		TraineeName:  d.TraineeName,
		SessionCount: len(d.Sessions),
		TotalHours:   schedule.TotalHours(d.Sessions),
		SizeBytes:    len(data),
	}
	if err := s.records.Create(record); err != nil {
		// файл уже готов, журнал не должен мешать выгрузке
		logger.WithError(err).Warn("Failed to save export record")
	}

	logger.WithFields(logrus.Fields{
		"file_name": file.Name,
		"bytes":     len(data),
	}).Info("Schedule exported")

	return file, nil
}

func (s *ExportService) document(ctx context.Context, header export.Header, sessions []schedule.Session) ([]byte, error) {
	if s.converter == nil || !s.converter.Available() {
		return nil, export.ErrUnavailable
	}

	page, err := export.RenderHTML(header, sessions)
	if err != nil {
		return nil, err
	}
	return s.converter.ConvertHTML(ctx, page)
}

// History последние limit выгрузок пользователя и общее их количество
func (s *ExportService) History(chatID int64, limit int) ([]*models.ExportRecord, int64, error) {
	records, err := s.records.GetByChatID(chatID, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.records.CountByChatID(chatID)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// FormatHistory форматирует журнал выгрузок
func (s *ExportService) FormatHistory(records []*models.ExportRecord, total int64) string {
	if len(records) == 0 {
		return "📭 Выгрузок пока не было"
	}

	var result strings.Builder
	result.WriteString(fmt.Sprintf("📦 Последние выгрузки (%d из %d):\n\n", len(records), total))
	for i, r := range records {
		result.WriteString(fmt.Sprintf("%d. %s · %s · %d занятий, %sч\n",
			i+1,
			r.CreatedAt.Format("02.01.2006 15:04"),
			r.FileName,
			r.SessionCount,
			schedule.FormatHours(r.TotalHours),
		))
	}
	return result.String()
}
