package handler

import (
	"strings"
	"sync"
	"training-schedule-bot/internal/config"
	"training-schedule-bot/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// Sender отправляет сообщения в Telegram
type Sender interface {
	Send(msg tgbotapi.Chattable) error
}

type Handler struct {
	client         Sender
	userService    *service.UserService
	courseService  *service.CourseService
	holidayService *service.HolidayService
	exportService  *service.ExportService
	config         *config.BotConfig

	statesMu   sync.Mutex
	userStates map[int64]string

	// spawn запускает выгрузку, в тестах выполняется синхронно
	spawn func(func())
}

func NewHandler(
	client Sender,
	userService *service.UserService,
	courseService *service.CourseService,
	holidayService *service.HolidayService,
	exportService *service.ExportService,
	cfg *config.BotConfig,
) *Handler {
	return &Handler{
		client:         client,
		userService:    userService,
		courseService:  courseService,
		holidayService: holidayService,
		exportService:  exportService,
		config:         cfg,
		userStates:     make(map[int64]string),
		spawn:          func(f func()) { go f() },
	}
}

func (h *Handler) HandleUpdates(updates tgbotapi.UpdatesChannel) {
	for update := range updates {
		h.HandleUpdate(update)
	}
}

func (h *Handler) HandleUpdate(update tgbotapi.Update) {
	// Обработка callback query (для inline кнопок)
	if update.CallbackQuery != nil {
		h.handleCallbackQuery(update.CallbackQuery)
		return
	}

	if update.Message == nil {
		return
	}

	h.handleMessage(update.Message)
}

// handleCallbackQuery обрабатывает inline кнопки
func (h *Handler) handleCallbackQuery(callback *tgbotapi.CallbackQuery) {
	if callback.Message == nil {
		return
	}
	chatID := callback.Message.Chat.ID
	data := callback.Data

	answer := ""
	switch {
	case strings.HasPrefix(data, callbackToggleDay):
		answer = h.handleToggleDayCallback(callback)
	case strings.HasPrefix(data, callbackExport):
		h.startExport(chatID, strings.TrimPrefix(data, callbackExport))
	case data == callbackShowSchedule:
		h.sendSchedule(chatID)
	}

	// Отвечаем на callback (убираем "часики" у кнопки)
	h.client.Send(tgbotapi.NewCallback(callback.ID, answer))
}

func (h *Handler) handleMessage(message *tgbotapi.Message) {
	if message.Chat == nil {
		return
	}

	username := ""
	if message.From != nil {
		username = message.From.UserName
	}
	logrus.Infof("[%s] %s", username, message.Text)

	chatID := message.Chat.ID

	// Обработка команд
	if message.IsCommand() {
		h.clearState(chatID)
		h.handleCommand(message)
		return
	}

	// Пользователь отвечает на вопрос бота
	if state, exists := h.getState(chatID); exists {
		h.handleState(message, state)
		return
	}

	h.send(chatID, "🤔 Я понимаю только команды. Используйте /help для списка команд.")
}

func (h *Handler) getState(chatID int64) (string, bool) {
	h.statesMu.Lock()
	defer h.statesMu.Unlock()
	state, ok := h.userStates[chatID]
	return state, ok
}

func (h *Handler) setState(chatID int64, state string) {
	h.statesMu.Lock()
	defer h.statesMu.Unlock()
	h.userStates[chatID] = state
}

func (h *Handler) clearState(chatID int64) {
	h.statesMu.Lock()
	defer h.statesMu.Unlock()
	delete(h.userStates, chatID)
}

func (h *Handler) send(chatID int64, text string) {
	h.client.Send(tgbotapi.NewMessage(chatID, text))
}

func (h *Handler) sendError(chatID int64, prefix string, err error) {
	h.send(chatID, "❌ "+prefix+": "+err.Error())
}
