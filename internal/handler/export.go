package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"training-schedule-bot/internal/export"
	"training-schedule-bot/internal/models"
	"training-schedule-bot/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

const (
	defaultExportTimeout = 60 * time.Second
	exportHistoryLimit   = 10
)

func (h *Handler) exportSchedule(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	if strings.TrimSpace(args) == "" {
		msg := tgbotapi.NewMessage(chatID, "📤 Выберите формат:")
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("📊 Excel", callbackExport+models.ExportKindSpreadsheet),
				tgbotapi.NewInlineKeyboardButtonData("📄 PDF", callbackExport+models.ExportKindDocument),
			),
		)
		h.client.Send(msg)
		return
	}
	h.startExport(chatID, args)
}

// startExport готовит файл в фоне по снимку черновика и отправляет его в чат
func (h *Handler) startExport(chatID int64, kindArg string) {
	kind, err := service.ParseKind(kindArg)
	if err != nil {
		h.sendError(chatID, "Ошибка", err)
		return
	}

	d := h.courseService.Draft(chatID)
	if len(d.Sessions) == 0 {
		h.sendError(chatID, "Ошибка", service.ErrEmptySchedule)
		return
	}

	h.send(chatID, "⏳ Готовлю файл...")

	timeout := defaultExportTimeout
	if h.config != nil && h.config.GotenbergTimeout > 0 {
		timeout = h.config.GotenbergTimeout
	}

	h.spawn(func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		file, err := h.exportService.Export(ctx, d, kind)
		if errors.Is(err, export.ErrUnavailable) {
			h.send(chatID, "⚠️ Выгрузка в PDF сейчас недоступна: сервис конвертации не настроен. Используйте /export xlsx")
			return
		}
		if err != nil {
			logrus.WithError(err).WithField("chat_id", chatID).Error("Export failed")
			h.sendError(chatID, "Ошибка выгрузки", err)
			return
		}

		doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: file.Name, Bytes: file.Data})
		doc.Caption = fmt.Sprintf("📎 %s, занятий: %d", file.Name, len(d.Sessions))
		h.client.Send(doc)
	})
}

func (h *Handler) showExports(message *tgbotapi.Message) {
	records, total, err := h.exportService.History(message.Chat.ID, exportHistoryLimit)
	if err != nil {
		h.sendError(message.Chat.ID, "Ошибка получения истории", err)
		return
	}
	h.send(message.Chat.ID, h.exportService.FormatHistory(records, total))
}
