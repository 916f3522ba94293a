package export

import (
	"fmt"

	"training-schedule-bot/internal/schedule"

	"github.com/xuri/excelize/v2"
)

// SheetName имя листа с расписанием
const SheetName = "Schedule"

// Spreadsheet строит .xlsx: шапка курса, пустая строка, таблица занятий
func Spreadsheet(h Header, sessions []schedule.Session) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}

	meta := [][]interface{}{
		{"Course Name", h.CourseName},
		{"Trainee Name", h.TraineeName},
		{"Generated On", h.GeneratedAt.Format("2006-01-02 15:04")},
	}
	for i, row := range meta {
		if err := f.SetSheetRow(SheetName, fmt.Sprintf("A%d", i+1), &row); err != nil {
			return nil, fmt.Errorf("failed to write header row: %w", err)
		}
	}

	// строка 4 остается пустой
	headerRow := len(meta) + 2
	titles := make([]interface{}, len(columns))
	for i, title := range columns {
		titles[i] = title
	}
	if err := f.SetSheetRow(SheetName, fmt.Sprintf("A%d", headerRow), &titles); err != nil {
		return nil, fmt.Errorf("failed to write column header: %w", err)
	}

	last, err := excelize.CoordinatesToCellName(len(columns), headerRow)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(SheetName, fmt.Sprintf("A%d", headerRow), last, bold); err != nil {
		return nil, fmt.Errorf("failed to style column header: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A1", "A3", bold); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	for i, s := range sessions {
		row := []interface{}{s.Number, s.Date, s.StartTime, s.EndTime, s.Hours, s.Remaining}
		if err := f.SetSheetRow(SheetName, fmt.Sprintf("A%d", headerRow+1+i), &row); err != nil {
			return nil, fmt.Errorf("failed to write session %d: %w", s.Number, err)
		}
	}

	for _, w := range []struct {
		from, to string
		width    float64
	}{
		{"A", "A", 14},
		{"B", "B", 28},
		{"C", "F", 12},
	} {
		if err := f.SetColWidth(SheetName, w.from, w.to, w.width); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}
