package handler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"training-schedule-bot/internal/models"
	"training-schedule-bot/internal/schedule"
	"training-schedule-bot/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

const (
	stateAwaitingCourseName  = "awaiting_course_name"
	stateAwaitingTraineeName = "awaiting_trainee_name"

	callbackToggleDay    = "toggle_day_"
	callbackExport       = "export_"
	callbackShowSchedule = "show_schedule"
)

// handleState обрабатывает ответ пользователя на вопрос бота
func (h *Handler) handleState(message *tgbotapi.Message, state string) {
	chatID := message.Chat.ID
	text := strings.TrimSpace(message.Text)
	if text == "" {
		h.send(chatID, "❌ Пустое значение, попробуйте еще раз.")
		return
	}
	h.clearState(chatID)

	switch state {
	case stateAwaitingCourseName:
		h.setCourseName(message, text)
	case stateAwaitingTraineeName:
		h.setTraineeName(message, text)
	}
}

func (h *Handler) setCourseName(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	if strings.TrimSpace(args) == "" {
		h.setState(chatID, stateAwaitingCourseName)
		h.send(chatID, "📚 Введите название курса:")
		return
	}

	d, err := h.courseService.SetCourseName(chatID, args)
	if err != nil {
		h.sendError(chatID, "Ошибка", err)
		return
	}
	h.send(chatID, "✅ Название курса: "+d.CourseName)
}

func (h *Handler) setTraineeName(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	if strings.TrimSpace(args) == "" {
		h.setState(chatID, stateAwaitingTraineeName)
		h.send(chatID, "👤 Введите имя слушателя:")
		return
	}

	d, err := h.courseService.SetTraineeName(chatID, args)
	if err != nil {
		h.sendError(chatID, "Ошибка", err)
		return
	}
	h.send(chatID, "✅ Слушатель: "+d.TraineeName)
}

func (h *Handler) setStartDate(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	if strings.TrimSpace(args) == "" {
		h.send(chatID, "❌ Укажите дату: /startdate 2024-01-01")
		return
	}
	d, err := h.courseService.SetStartDate(chatID, args)
	h.reportRegenerated(chatID, "✅ Дата начала изменена", d, err)
}

func (h *Handler) setStartTime(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	if strings.TrimSpace(args) == "" {
		h.send(chatID, "❌ Укажите время: /starttime 09:00")
		return
	}
	d, err := h.courseService.SetStartTime(chatID, args)
	if err != nil {
		h.sendError(chatID, "Ошибка", err)
		return
	}
	h.send(chatID, fmt.Sprintf("✅ Время начала: %s\nПрименится при следующей генерации (/regenerate).", d.Input.StartTime))
}

func (h *Handler) setHoursPerDay(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	if strings.TrimSpace(args) == "" {
		h.send(chatID, "❌ Укажите количество часов: /hoursperday 2")
		return
	}
	d, err := h.courseService.SetHoursPerDay(chatID, args)
	h.reportRegenerated(chatID, "✅ Часов в день изменено", d, err)
}

func (h *Handler) setTotalHours(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	if strings.TrimSpace(args) == "" {
		h.send(chatID, "❌ Укажите количество часов: /totalhours 20")
		return
	}
	d, err := h.courseService.SetTotalHours(chatID, args)
	h.reportRegenerated(chatID, "✅ Общее количество часов изменено", d, err)
}

func (h *Handler) setWeekdays(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	if strings.TrimSpace(args) == "" {
		h.sendWeekdayKeyboard(chatID)
		return
	}
	d, err := h.courseService.SetWeekdays(chatID, args)
	h.reportRegenerated(chatID, "✅ Дни недели изменены", d, err)
}

func (h *Handler) toggleDay(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	day, err := strconv.Atoi(strings.TrimSpace(args))
	if err != nil {
		h.send(chatID, "❌ Укажите день недели числом: /toggleday 1 (0=вс .. 6=сб)")
		return
	}
	d, err := h.courseService.ToggleWeekday(chatID, time.Weekday(day))
	h.reportRegenerated(chatID, "✅ Дни недели изменены", d, err)
}

func (h *Handler) excludeDates(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	dates := splitArgs(args)
	if len(dates) == 0 {
		h.send(chatID, "❌ Укажите даты: /exclude 2024-01-08 2024-01-10")
		return
	}
	d, added, err := h.courseService.AddExcludedDates(chatID, dates...)
	h.reportRegenerated(chatID, fmt.Sprintf("✅ Исключено новых дат: %d", added), d, err)
}

func (h *Handler) includeDate(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	if strings.TrimSpace(args) == "" {
		h.send(chatID, "❌ Укажите дату: /include 2024-01-08")
		return
	}
	d, err := h.courseService.RemoveExcludedDate(chatID, args)
	h.reportRegenerated(chatID, "✅ Дата возвращена в расписание", d, err)
}

// excludeHolidays исключает нерабочие дни календаря. Без аргументов берется
// год от даты начала курса.
func (h *Handler) excludeHolidays(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	parts := splitArgs(args)

	var from, to time.Time
	switch len(parts) {
	case 0:
		d := h.courseService.Draft(chatID)
		if d.Input.StartDate.IsZero() {
			h.send(chatID, "❌ Сначала укажите дату начала (/startdate) или интервал: /holidays 2024-01-01 2024-12-31")
			return
		}
		from = d.Input.StartDate
		to = from.AddDate(1, 0, -1)
	case 2:
		var err error
		if from, err = schedule.ParseDate(parts[0]); err != nil {
			h.sendError(chatID, "Ошибка", err)
			return
		}
		if to, err = schedule.ParseDate(parts[1]); err != nil {
			h.sendError(chatID, "Ошибка", err)
			return
		}
	default:
		h.send(chatID, "❌ Формат: /holidays [YYYY-MM-DD YYYY-MM-DD]")
		return
	}

	dates, err := h.holidayService.DatesBetween(from.Format(schedule.DateLayout), to.Format(schedule.DateLayout))
	if err != nil {
		h.sendError(chatID, "Ошибка", err)
		return
	}
	if len(dates) == 0 {
		h.send(chatID, "📭 В календаре нет нерабочих дней в этом интервале. Администратор может загрузить календарь командой /loadholidays.")
		return
	}

	d, added, err := h.courseService.AddExcludedDates(chatID, dates...)
	h.reportRegenerated(chatID, fmt.Sprintf("✅ Праздничных дней в интервале: %d, исключено новых: %d", len(dates), added), d, err)
}

func (h *Handler) showSettings(message *tgbotapi.Message) {
	h.send(message.Chat.ID, service.FormatSettings(h.courseService.Draft(message.Chat.ID)))
}

func (h *Handler) showInputs(message *tgbotapi.Message) {
	data, err := h.courseService.InputsJSON(message.Chat.ID)
	if err != nil {
		h.sendError(message.Chat.ID, "Ошибка", err)
		return
	}
	h.send(message.Chat.ID, data)
}

func (h *Handler) resetCourse(message *tgbotapi.Message) {
	h.courseService.Reset(message.Chat.ID)
	h.send(message.Chat.ID, "🗑 Курс сброшен, параметры вернулись к значениям по умолчанию.")
}

func (h *Handler) sendSchedule(chatID int64) {
	for _, text := range service.FormatSchedule(h.courseService.Draft(chatID)) {
		h.send(chatID, text)
	}
}

func (h *Handler) regenerate(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	d, err := h.courseService.Regenerate(chatID)
	if errors.Is(err, schedule.ErrIncompleteInput) {
		h.send(chatID, "❌ Не хватает данных: укажите дату начала (/startdate), дни недели (/weekdays), часы в день и общее количество часов.")
		return
	}
	h.reportRegenerated(chatID, "✅ Расписание построено заново", d, err)
}

func (h *Handler) editSession(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	parts := strings.Fields(args)
	if len(parts) < 3 {
		h.send(chatID, "❌ Формат: /edit N поле значение\nПоля: date, start, end, hours\nНапример: /edit 2 hours 1,5")
		return
	}
	number, err := strconv.Atoi(parts[0])
	if err != nil {
		h.send(chatID, "❌ Номер занятия должен быть числом")
		return
	}

	d, err := h.courseService.EditSession(chatID, number, parts[1], strings.Join(parts[2:], " "))
	done := fmt.Sprintf("✅ Занятие №%d изменено", number)
	if err == nil {
		done += h.holidayNotice(parts[1], d.Sessions[number-1].Date)
	}
	h.reportEdited(chatID, done, d, err)
}

// holidayNotice предупреждает о переносе занятия на нерабочий день.
// Правку это не отменяет.
func (h *Handler) holidayNotice(field, date string) string {
	if f, err := schedule.ParseField(field); err != nil || f != schedule.FieldDate {
		return ""
	}
	holiday, err := h.holidayService.IsNonWorkingDay(date)
	if err != nil {
		logrus.WithError(err).WithField("date", date).Warn("Failed to check holiday calendar")
		return ""
	}
	if !holiday {
		return ""
	}
	return fmt.Sprintf("\n⚠️ %s - нерабочий день по производственному календарю", date)
}

func (h *Handler) insertAbove(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	number, err := strconv.Atoi(strings.TrimSpace(args))
	if err != nil {
		h.send(chatID, "❌ Формат: /addabove N")
		return
	}
	d, err := h.courseService.InsertAbove(chatID, number)
	h.reportEdited(chatID, fmt.Sprintf("✅ Добавлено занятие №%d, укажите часы: /edit %d hours N", number, number), d, err)
}

func (h *Handler) removeSession(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	number, err := strconv.Atoi(strings.TrimSpace(args))
	if err != nil {
		h.send(chatID, "❌ Формат: /remove N")
		return
	}
	d, err := h.courseService.RemoveSession(chatID, number)
	h.reportEdited(chatID, fmt.Sprintf("✅ Занятие №%d удалено", number), d, err)
}

// reportRegenerated сообщает итог изменения параметров. Предел занятий не
// считается ошибкой: расписание построено, но обрезано.
func (h *Handler) reportRegenerated(chatID int64, done string, d *models.CourseDraft, err error) {
	if err != nil && !errors.Is(err, schedule.ErrSessionLimit) {
		h.sendError(chatID, "Ошибка", err)
		return
	}

	text := done + "\n\n" + scheduleSummary(d)
	if errors.Is(err, schedule.ErrSessionLimit) {
		text += fmt.Sprintf("\n\n⚠️ Достигнут предел в %d занятий, расписание обрезано. Проверьте часы в день.", schedule.MaxSessions)
	}
	h.sendWithScheduleButton(chatID, text)
}

func (h *Handler) reportEdited(chatID int64, done string, d *models.CourseDraft, err error) {
	if err != nil {
		h.sendError(chatID, "Ошибка", err)
		return
	}
	h.sendWithScheduleButton(chatID, done+"\n\n"+scheduleSummary(d))
}

func (h *Handler) sendWithScheduleButton(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📋 Расписание", callbackShowSchedule),
		),
	)
	h.client.Send(msg)
}

func scheduleSummary(d *models.CourseDraft) string {
	if len(d.Sessions) == 0 {
		if !d.Input.Ready() {
			return "📭 Расписание пока пустое: укажите дату начала (/startdate) и дни недели (/weekdays)."
		}
		return "📭 Расписание пустое."
	}

	last := d.Sessions[len(d.Sessions)-1]
	return fmt.Sprintf("📋 Занятий: %d, с %s по %s\n📈 Распределено %sч из %sч, остаток %sч",
		len(d.Sessions),
		d.Sessions[0].Date,
		last.Date,
		schedule.FormatHours(schedule.TotalHours(d.Sessions)),
		schedule.FormatHours(d.Input.TotalHours),
		schedule.FormatHours(last.Remaining),
	)
}

// weekdayKeyboard кнопки дней недели, выбранные отмечены галочкой
func weekdayKeyboard(selected []time.Weekday) tgbotapi.InlineKeyboardMarkup {
	isSelected := make(map[time.Weekday]bool, len(selected))
	for _, d := range selected {
		isSelected[d] = true
	}

	button := func(day time.Weekday, name string) tgbotapi.InlineKeyboardButton {
		if isSelected[day] {
			name = "✅ " + name
		}
		return tgbotapi.NewInlineKeyboardButtonData(name, fmt.Sprintf("%s%d", callbackToggleDay, day))
	}

	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			button(time.Monday, "Пн"),
			button(time.Tuesday, "Вт"),
			button(time.Wednesday, "Ср"),
			button(time.Thursday, "Чт"),
		),
		tgbotapi.NewInlineKeyboardRow(
			button(time.Friday, "Пт"),
			button(time.Saturday, "Сб"),
			button(time.Sunday, "Вс"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📋 Расписание", callbackShowSchedule),
		),
	)
}

func (h *Handler) sendWeekdayKeyboard(chatID int64) {
	d := h.courseService.Draft(chatID)
	msg := tgbotapi.NewMessage(chatID, "📆 Выберите дни занятий:")
	msg.ReplyMarkup = weekdayKeyboard(d.Input.Weekdays)
	h.client.Send(msg)
}

// handleToggleDayCallback переключает день и обновляет клавиатуру в том же сообщении
func (h *Handler) handleToggleDayCallback(callback *tgbotapi.CallbackQuery) string {
	chatID := callback.Message.Chat.ID

	day, err := strconv.Atoi(strings.TrimPrefix(callback.Data, callbackToggleDay))
	if err != nil {
		return "❌ Неизвестный день"
	}

	d, err := h.courseService.ToggleWeekday(chatID, time.Weekday(day))
	if err != nil && !errors.Is(err, schedule.ErrSessionLimit) {
		return "❌ " + err.Error()
	}

	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, callback.Message.MessageID, weekdayKeyboard(d.Input.Weekdays))
	h.client.Send(edit)

	if len(d.Sessions) == 0 {
		return "Расписание пустое"
	}
	return fmt.Sprintf("Занятий: %d, последнее %s", len(d.Sessions), d.Sessions[len(d.Sessions)-1].Date)
}

// splitArgs делит аргументы по пробелам и запятым
func splitArgs(args string) []string {
	return strings.FieldsFunc(args, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\n' || r == '\t'
	})
}
