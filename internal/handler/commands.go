package handler

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

func (h *Handler) handleCommand(message *tgbotapi.Message) {
	command := message.Command()
	args := message.CommandArguments()

	h.ensureUser(message)

	switch command {
	case "start":
		h.sendStartMessage(message)
	case "help":
		h.sendHelpMessage(message)
	case "helpadmin":
		h.sendAdminHelpMessage(message)
	case "myprofile":
		h.showProfile(message)

	// Параметры курса
	case "course":
		h.setCourseName(message, args)
	case "trainee":
		h.setTraineeName(message, args)
	case "startdate":
		h.setStartDate(message, args)
	case "starttime":
		h.setStartTime(message, args)
	case "hoursperday":
		h.setHoursPerDay(message, args)
	case "totalhours":
		h.setTotalHours(message, args)
	case "weekdays":
		h.setWeekdays(message, args)
	case "toggleday":
		h.toggleDay(message, args)
	case "exclude":
		h.excludeDates(message, args)
	case "include":
		h.includeDate(message, args)
	case "holidays":
		h.excludeHolidays(message, args)
	case "inputs":
		h.showInputs(message)
	case "settings":
		h.showSettings(message)
	case "reset":
		h.resetCourse(message)

	// Расписание
	case "schedule":
		h.sendSchedule(message.Chat.ID)
	case "regenerate":
		h.regenerate(message)
	case "edit":
		h.editSession(message, args)
	case "addabove":
		h.insertAbove(message, args)
	case "remove":
		h.removeSession(message, args)

	// Выгрузка
	case "export":
		h.exportSchedule(message, args)
	case "myexports":
		h.showExports(message)

	// Команды администратора
	case "loadholidays":
		h.loadHolidays(message, args)
	case "promote":
		h.promoteToAdmin(message, args)

	default:
		h.sendUnknownCommand(message)
	}
}

// ensureUser регистрирует пользователя при первой команде и заводит
// черновик курса, где слушатель по умолчанию сам пользователь
func (h *Handler) ensureUser(message *tgbotapi.Message) {
	if message.From == nil {
		return
	}
	from := message.From
	if _, err := h.userService.EnsureUser(message.Chat.ID, from.UserName, from.FirstName, from.LastName); err != nil {
		logrus.WithError(err).WithField("chat_id", message.Chat.ID).Warn("Failed to register user")
	}

	name := from.FirstName
	if name == "" {
		name = from.UserName
	}
	h.courseService.EnsureDraft(message.Chat.ID, name)
}

func (h *Handler) sendUnknownCommand(message *tgbotapi.Message) {
	h.send(message.Chat.ID, "❌ Неизвестная команда. Используйте /help для списка команд.")
}

func (h *Handler) sendStartMessage(message *tgbotapi.Message) {
	name := ""
	if message.From != nil {
		name = message.From.FirstName
	}

	text := fmt.Sprintf(`👋 Привет, %s!

Я составляю расписание учебного курса: по дате начала, дням недели и количеству часов распределяю занятия и считаю остаток часов.

Начните с даты начала: /startdate 2024-01-01
Выберите дни недели: /weekdays`, name)
	h.send(message.Chat.ID, text)
	h.sendWeekdayKeyboard(message.Chat.ID)
}

func (h *Handler) sendHelpMessage(message *tgbotapi.Message) {
	text := `📖 Команды:

Параметры курса:
/course <название> - название курса
/trainee <имя> - имя слушателя
/startdate YYYY-MM-DD - дата начала
/starttime HH:MM - время начала занятий
/hoursperday N - часов в день
/totalhours N - всего часов
/weekdays 1,3 или пн,ср - дни недели (0=вс .. 6=сб)
/toggleday N - включить/выключить день недели
/exclude YYYY-MM-DD [...] - исключить даты
/include YYYY-MM-DD - вернуть дату
/holidays [с по] - исключить праздники из календаря
/settings - текущие параметры
/inputs - параметры в JSON
/reset - начать заново

Расписание:
/schedule - показать расписание
/regenerate - построить заново
/edit N поле значение - изменить занятие (поля: date, start, end, hours)
/addabove N - вставить занятие перед N
/remove N - удалить занятие N

Выгрузка:
/export xlsx|pdf - выгрузить файл
/myexports - история выгрузок

/myprofile - ваш профиль`
	h.send(message.Chat.ID, text)
}

func (h *Handler) sendAdminHelpMessage(message *tgbotapi.Message) {
	if !h.requireAdmin(message) {
		return
	}

	text := `👑 Команды администратора:

/loadholidays [путь] - загрузить производственный календарь из JSON
/promote <chat_id> - назначить администратора`
	h.send(message.Chat.ID, text)
}

func (h *Handler) showProfile(message *tgbotapi.Message) {
	user, err := h.userService.GetUser(message.Chat.ID)
	if err != nil {
		h.sendError(message.Chat.ID, "Ошибка", err)
		return
	}
	h.send(message.Chat.ID, h.userService.FormatUserInfo(user))
}

// requireAdmin сообщает об отказе, если пользователь не администратор
func (h *Handler) requireAdmin(message *tgbotapi.Message) bool {
	isAdmin, err := h.userService.IsAdmin(message.Chat.ID)
	if err != nil {
		h.sendError(message.Chat.ID, "Ошибка проверки прав", err)
		return false
	}
	if !isAdmin {
		h.send(message.Chat.ID, "❌ Эта команда доступна только администраторам.")
		return false
	}
	return true
}
