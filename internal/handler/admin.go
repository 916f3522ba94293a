package handler

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// loadHolidays загружает производственный календарь из JSON файла
func (h *Handler) loadHolidays(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	if !h.requireAdmin(message) {
		return
	}

	path := strings.TrimSpace(args)
	if path == "" && h.config != nil {
		path = h.config.HolidaysFile
	}
	if path == "" {
		h.send(chatID, "❌ Укажите путь к файлу календаря.\nПример: /loadholidays data/weekends.json")
		return
	}

	n, err := h.holidayService.LoadFromJSON(path)
	if err != nil {
		h.sendError(chatID, "Ошибка загрузки календаря", err)
		return
	}

	total, err := h.holidayService.CountNonWorkingDays()
	if err != nil {
		h.sendError(chatID, "Ошибка", err)
		return
	}

	h.send(chatID, fmt.Sprintf("✅ Загружено нерабочих дней: %d\n📅 Всего в календаре: %d", n, total))
}

// promoteToAdmin назначает пользователя администратором
func (h *Handler) promoteToAdmin(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	if !h.requireAdmin(message) {
		return
	}

	if args == "" {
		h.send(chatID, "❌ Укажите ID пользователя.\nПример: /promote 123456789")
		return
	}

	targetChatID, err := strconv.ParseInt(strings.TrimSpace(args), 10, 64)
	if err != nil {
		h.send(chatID, "❌ Неверный формат ID.\nID должен быть числом.")
		return
	}

	if err := h.userService.Promote(chatID, targetChatID); err != nil {
		h.sendError(chatID, "Ошибка назначения администратора", err)
		return
	}

	h.send(chatID, fmt.Sprintf("✅ Пользователь с ID %d теперь администратор!", targetChatID))
}
