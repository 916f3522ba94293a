package models

import "time"

type ExportRecord struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	ChatID       int64     `gorm:"not null;index" json:"chat_id"`
	Kind         string    `gorm:"type:varchar(10);not null" json:"kind"` // xlsx, pdf
	FileName     string    `gorm:"not null" json:"file_name"`
	CourseName   string    `json:"course_name"`
	TraineeName  string    `json:"trainee_name"`
	SessionCount int       `gorm:"not null;default:0" json:"session_count"`
	TotalHours   float64   `gorm:"not null;default:0" json:"total_hours"`
	SizeBytes    int       `gorm:"not null;default:0" json:"size_bytes"`
	CreatedAt    time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (ExportRecord) TableName() string {
	return "export_records"
}

// Форматы выгрузки
const (
	ExportKindSpreadsheet = "xlsx"
	ExportKindDocument    = "pdf"
)

// IsValid проверяет валидность данных
func (r *ExportRecord) IsValid() bool {
	if r.ChatID == 0 {
		return false
	}
	if r.Kind != ExportKindSpreadsheet && r.Kind != ExportKindDocument {
		return false
	}
	if r.FileName == "" {
		return false
	}
	if r.SessionCount < 0 || r.SizeBytes < 0 {
		return false
	}
	return true
}
