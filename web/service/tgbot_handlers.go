package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"favor-bot/config"
	"favor-bot/database/model"
	"favor-bot/logger"
	"favor-bot/util/qr"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"
	"golang.org/x/time/rate"
)

const (
	welcomeText = config.EventTitle + "\n" +
		"📅 Дата: " + config.EventDates + "\n" +
		"🎯 Тема: " + config.EventTheme + "\n" +
		"Место проведения - " + config.EventLocation + "\n" +
		"<i>❕Регистрация с 1 апреля по 1 июня❕</i>"

	rulesText = "<b>Правила Молодежного заезда Восток 2025:</b>\n" +
		"1. Уважайте всех участников.\n" +
		"2. Запрещено употребление алкоголя, курение, наркотики.\n" +
		"3. Следуйте распорядку и указаниям организаторов.\n" +
		"4. Соблюдайте чистоту.\n" +
		"5. Участие только после регистрации и оплаты.\n"

	scheduleText = "Распорядок дня:\n" +
		"- 08:00 - Завтрак\n" +
		"- 09:00 - Утреннее богослужение\n" +
		"- 11:00 - Семинары\n" +
		"- 13:00 - Обед\n" +
		"- 14:00 - Свободное время\n" +
		"- 17:00 - Вечернее богослужение\n" +
		"- 19:00 - Ужин\n" +
		"- 20:00 - Вечерняя программа"

	speakersText = "Спикеры:\n" +
		"- Иван Петров - пастор\n" +
		"- Анна Смирнова - молодежный лидер\n" +
		"- Сергей Ковалев - евангелист"

	venueText = config.EventLocation + ". Подробности позже"
)

// registrationSummary renders a registration for confirmations, channel
// announcements and check-in replies. Free-form fields are escaped for
// the HTML parse mode.
func registrationSummary(reg *model.Registration, title string) string {
	var sb strings.Builder
	if title != "" {
		sb.WriteString("<b>" + title + "</b>\n")
	}
	sb.WriteString("ФИО: " + html.EscapeString(reg.Name) + "\n")
	sb.WriteString(fmt.Sprintf("Дни: %d\n", reg.Days))
	sb.WriteString("Приезд: " + reg.ArrivalDate + "\n")
	sb.WriteString("Город: " + html.EscapeString(reg.City) + "\n")
	sb.WriteString("Ник: " + html.EscapeString(orDefault(reg.Nick, "Не указан")) + "\n")
	sb.WriteString("Телефон: " + html.EscapeString(reg.Phone) + "\n")
	sb.WriteString("Рождение: " + reg.BirthDate + "\n")
	sb.WriteString("Пол: " + reg.Gender)
	if reg.Housed() {
		sb.WriteString(fmt.Sprintf("\nРасселение: %d Дом", reg.RoomNo))
	}
	return sb.String()
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// OnReceive wires the long-polling updates into the handler chain.
// Handler order matters: photos, then commands, then plain messages.
func (t *Tgbot) OnReceive() {
	params := telego.GetUpdatesParams{
		Timeout: 10,
	}

	updates, _ := bot.UpdatesViaLongPolling(context.Background(), &params)

	botHandler, _ = th.NewBotHandler(bot, updates)

	botHandler.HandleMessage(func(ctx *th.Context, message telego.Message) error {
		t.handlePhoto(&message)
		return nil
	}, anyMessageWithPhoto)

	botHandler.HandleMessage(func(ctx *th.Context, message telego.Message) error {
		t.answerCommand(&message, message.Chat.ID, t.checkAdmin(message.From.ID))
		return nil
	}, th.AnyCommand())

	botHandler.HandleMessage(func(ctx *th.Context, message telego.Message) error {
		t.handleMessage(&message)
		return nil
	}, th.AnyMessage())

	botHandler.HandleCallbackQuery(func(ctx *th.Context, query telego.CallbackQuery) error {
		t.answerCallback(&query, t.checkAdmin(query.From.ID))
		return nil
	}, th.AnyCallbackQuery())

	botHandler.Start()
}

func anyMessageWithPhoto(ctx context.Context, update telego.Update) bool {
	return update.Message != nil && len(update.Message.Photo) > 0
}

func (t *Tgbot) answerCommand(message *telego.Message, chatId int64, isAdmin bool) {
	command, _, commandArgs := tu.ParseCommand(message.Text)
	logger.Infof("command: userId=%d cmd=%s", message.From.ID, command)

	switch command {
	case "start":
		t.state.Reset(chatId)
		if err := t.userRepo.Touch(message.From.ID, message.From.FirstName); err != nil {
			logger.Warning("failed to record chat:", err)
		}
		if isAdmin {
			t.SendMsgToTgbot(chatId, welcomeText, adminKeyboard)
		} else {
			t.SendMsgToTgbot(chatId, welcomeText, t.persistentKeyboard(message.From.ID))
		}

	case "help":
		t.SendMsgToTgbot(chatId, "Используйте кнопки меню. Связь с организаторами: "+config.GetOrganizerContact())

	case "id":
		t.SendMsgToTgbot(chatId, fmt.Sprintf("Ваш ID: <code>%d</code>", message.From.ID))

	case "admin":
		if len(commandArgs) == 0 {
			t.SendMsgToTgbot(chatId, "Введите пароль: /admin &lt;пароль&gt;")
			return
		}
		if t.tryAdminLogin(message.From.ID, message.From.FirstName, commandArgs[0]) {
			t.SendMsgToTgbot(chatId, "Вы авторизованы!", adminKeyboard)
		} else {
			t.SendMsgToTgbot(chatId, "Неверный пароль или доступ запрещен.", t.persistentKeyboard(message.From.ID))
		}

	case "check_qr":
		if !isAdmin {
			t.SendMsgToTgbot(chatId, "Вы не админ.")
			return
		}
		if len(commandArgs) == 0 {
			t.SendMsgToTgbot(chatId, "Пример: /check_qr &lt;ID&gt;")
			return
		}
		t.checkInByRegID(chatId, commandArgs[0])

	case "status":
		if !isAdmin {
			t.SendMsgToTgbot(chatId, "Вы не админ.")
			return
		}
		status, err := t.serverService.GetStatus()
		if err != nil {
			t.SendMsgToTgbot(chatId, "Не удалось получить статус сервера.", adminKeyboard)
			return
		}
		t.SendMsgToTgbot(chatId, status.Report(), adminKeyboard)

	case "cancel":
		t.state.Reset(chatId)
		if isAdmin {
			t.SendMsgToTgbot(chatId, "Действие отменено.", adminKeyboard)
		} else {
			t.SendMsgToTgbot(chatId, "Действие отменено.", t.persistentKeyboard(message.From.ID))
		}

	default:
		t.SendMsgToTgbot(chatId, "Неизвестная команда.")
	}
}

func (t *Tgbot) handleMessage(message *telego.Message) {
	chatId := message.Chat.ID
	userID := message.From.ID
	isAdmin := t.checkAdmin(userID)
	text := strings.TrimSpace(message.Text)

	// Shared contacts arrive as a dedicated field, not text.
	if message.Contact != nil {
		if t.state.Get(chatId) == statePhone {
			t.handlePhoneInput(chatId, userID, message.Contact.PhoneNumber)
		}
		return
	}

	if isAdmin {
		t.handleAdminMessage(message, chatId, text)
		return
	}

	switch t.state.Get(chatId) {
	case stateName:
		t.handleNameInput(chatId, text)
		return
	case stateCity:
		t.handleCityInput(chatId, message, text)
		return
	case statePhone:
		t.handlePhoneInput(chatId, userID, text)
		return
	case stateBirthDate:
		t.handleBirthDateInput(chatId, text)
		return
	}

	switch text {
	case btnRegister:
		if reg, err := t.registrationService.GetByUser(userID); err == nil {
			rows := [][]telego.InlineKeyboardButton{
				tu.InlineKeyboardRow(tu.InlineKeyboardButton("QR Code").WithCallbackData("show_qr")),
			}
			switch {
			case reg.Housed():
				rows = append(rows, tu.InlineKeyboardRow(
					tu.InlineKeyboardButton(btnCancelBed).WithCallbackData("cancel_accommodation_user")))
			case t.accommodationService.IsOpen():
				rows = append(rows, tu.InlineKeyboardRow(
					tu.InlineKeyboardButton(btnRequestBed).WithCallbackData("request_accommodation")))
			}
			t.SendMsgToTgbot(chatId, "Вы уже зарегистрированы!", tu.InlineKeyboard(rows...))
			return
		}
		t.SendMsgToTgbot(chatId, rulesText, agreeKeyboard())

	case btnSchedule:
		t.SendMsgToTgbot(chatId, scheduleText, t.persistentKeyboard(userID))

	case btnSpeakers:
		t.SendMsgToTgbot(chatId, speakersText, t.persistentKeyboard(userID))

	case btnVenue:
		t.SendMsgToTgbot(chatId, venueText, t.persistentKeyboard(userID))

	case btnContacts:
		t.SendMsgToTgbot(chatId, "Свяжитесь: "+config.GetOrganizerContact(), t.persistentKeyboard(userID))

	case btnQRCode:
		reg, err := t.registrationService.GetByUser(userID)
		if err != nil {
			t.SendMsgToTgbot(chatId, "Завершите регистрацию.", t.persistentKeyboard(userID))
			return
		}
		t.SendQRCode(chatId, reg.RegID, "Ваш QR-код для регистрации.")

	case btnCancelBed:
		if err := t.accommodationService.Cancel(userID); err != nil {
			t.SendMsgToTgbot(chatId, "Вы не расселены.", t.persistentKeyboard(userID))
			return
		}
		t.SendMsgToTgbot(chatId, "Расселение отменено.", t.persistentKeyboard(userID))

	case btnRequestBed:
		if !t.registrationService.IsRegistered(userID) {
			t.SendMsgToTgbot(chatId, "Зарегистрируйтесь.", t.persistentKeyboard(userID))
			return
		}
		t.SendMsgToTgbot(chatId, "Нужно место для ночлега?", needBedKeyboard())
	}
}

func (t *Tgbot) handleAdminMessage(message *telego.Message, chatId int64, text string) {
	if t.state.Get(chatId) == stateNotification {
		t.state.Reset(chatId)
		if text == btnCancel {
			t.SendMsgToTgbot(chatId, "Отправка отменена.", adminKeyboard)
			return
		}
		if text == "" {
			t.SendMsgToTgbot(chatId, "Текст не может быть пустым:", cancelKeyboard())
			t.state.Set(chatId, stateNotification)
			return
		}
		go t.broadcast(chatId, text)
		return
	}

	switch text {
	case btnStats:
		stats, err := t.statsService.Get()
		if err != nil {
			t.SendMsgToTgbot(chatId, "Не удалось получить статистику.", adminKeyboard)
			return
		}
		t.SendMsgToTgbot(chatId, stats.Report(), adminKeyboard)

	case btnClear:
		t.SendMsgToTgbot(chatId, "Очистить все регистрации?", confirmKeyboard("confirm_clear", "cancel_clear"))

	case btnSleep:
		t.SendMsgToTgbot(chatId, "Начать процесс расселения?", confirmKeyboard("confirm_sleep", "cancel_sleep"))

	case btnNotify:
		t.state.Set(chatId, stateNotification)
		t.SendMsgToTgbot(chatId, "Введите текст уведомления:", cancelKeyboard())

	case btnExitAdmin:
		if err := t.userRepo.SetAdmin(message.From.ID, false); err != nil {
			logger.Warning("failed to clear admin flag:", err)
		}
		t.state.Reset(chatId)
		t.SendMsgToTgbot(chatId, "Вы вышли из админки.", t.persistentKeyboard(message.From.ID))

	default:
		if text != "" {
			t.SendMsgToTgbot(chatId, "Вы в режиме админа.", adminKeyboard)
		}
	}
}

func (t *Tgbot) handleNameInput(chatId int64, text string) {
	if err := ValidateName(text); err != nil {
		t.SendMsgToTgbot(chatId, "Введите полное ФИО:")
		return
	}
	t.state.Draft(chatId).Name = text
	t.state.Set(chatId, "")
	t.SendMsgToTgbot(chatId, "На сколько дней?", daysKeyboard())
}

func (t *Tgbot) handleCityInput(chatId int64, message *telego.Message, text string) {
	if err := ValidateCity(text); err != nil {
		t.SendMsgToTgbot(chatId, "Введите город:")
		return
	}
	draft := t.state.Draft(chatId)
	draft.City = text
	draft.Nick = orDefault(message.From.Username, "Не указан")
	t.state.Set(chatId, statePhone)
	t.SendMsgToTgbot(chatId, "Укажите телефон:", contactKeyboard())
}

func (t *Tgbot) handlePhoneInput(chatId int64, userID int64, phone string) {
	phone = strings.TrimSpace(phone)
	if err := ValidatePhone(phone); err != nil {
		t.SendMsgToTgbot(chatId, "Введите корректный телефон:")
		return
	}
	t.state.Draft(chatId).Phone = phone
	t.state.Set(chatId, stateBirthDate)
	t.SendMsgToTgbot(chatId, "Дата рождения (ДД.ММ.ГГГГ):", tu.ReplyKeyboardRemove())
}

func (t *Tgbot) handleBirthDateInput(chatId int64, text string) {
	if err := ValidateBirthDate(text); err != nil {
		t.SendMsgToTgbot(chatId, "Введите дату ДД.ММ.ГГГГ:")
		return
	}
	t.state.Draft(chatId).BirthDate = text
	t.state.Set(chatId, "")
	t.SendMsgToTgbot(chatId, "Выберите пол:", genderKeyboard())
}

// handlePhoto is the admin check-in path: decode the QR from the largest
// photo size and mark the participant as arrived.
func (t *Tgbot) handlePhoto(message *telego.Message) {
	chatId := message.Chat.ID
	if !t.checkAdmin(message.From.ID) {
		t.SendMsgToTgbot(chatId, "Вы не админ.")
		return
	}

	photo := message.Photo[len(message.Photo)-1]
	file, err := bot.GetFile(context.Background(), &telego.GetFileParams{FileID: photo.FileID})
	if err != nil {
		logger.Warning("failed to fetch photo file:", err)
		t.SendMsgToTgbot(chatId, "Не удалось загрузить фото.", adminKeyboard)
		return
	}
	data, err := tu.DownloadFile(bot.FileDownloadURL(file.FilePath))
	if err != nil {
		logger.Warning("failed to download photo:", err)
		t.SendMsgToTgbot(chatId, "Не удалось загрузить фото.", adminKeyboard)
		return
	}

	regID, err := qr.Decode(data)
	if err != nil {
		t.SendMsgToTgbot(chatId, "Не удалось прочитать QR.", adminKeyboard)
		return
	}
	t.checkInByRegID(chatId, regID)
}

func (t *Tgbot) checkInByRegID(chatId int64, regID string) {
	reg, err := t.registrationService.CheckIn(regID)
	if err != nil {
		t.SendMsgToTgbot(chatId, "Регистрация не найдена.", adminKeyboard)
		return
	}
	t.SendMsgToTgbot(chatId, registrationSummary(reg, "Регистрация найдена!")+"\nУчастник зарегистрирован.", adminKeyboard)
	if err := t.NotifyChannel(registrationSummary(reg, "Участник прибыл!")); err != nil {
		logger.Warning("check-in announcement failed:", err)
	}
}

// broadcast fans the notification out to every known chat behind a rate
// limiter, retrying each chat a few times before counting it failed.
func (t *Tgbot) broadcast(initiatorChatId int64, text string) {
	ids, err := t.userRepo.AllIDs()
	if err != nil {
		logger.Warning("broadcast aborted, cannot list chats:", err)
		t.SendMsgToTgbot(initiatorChatId, "Не удалось получить список пользователей.", adminKeyboard)
		return
	}

	limiter := rate.NewLimiter(rate.Limit(config.BroadcastRate), 1)
	msg := "<b>Уведомление:</b>\n" + html.EscapeString(text)

	sent, failed := 0, 0
	for _, id := range ids {
		if err := limiter.Wait(context.Background()); err != nil {
			break
		}
		delivered := false
		for attempt := 0; attempt < config.SendRetries; attempt++ {
			_, err := bot.SendMessage(context.Background(), &telego.SendMessageParams{
				ChatID:    tu.ID(id),
				Text:      msg,
				ParseMode: "HTML",
			})
			if err == nil {
				delivered = true
				break
			}
			logger.Warningf("broadcast to %d failed (attempt %d/%d): %v", id, attempt+1, config.SendRetries, err)
			time.Sleep(backoffDelay(attempt))
		}
		if delivered {
			sent++
		} else {
			failed++
		}
	}

	logger.Infof("broadcast finished: sent=%d failed=%d", sent, failed)
	t.SendMsgToTgbot(initiatorChatId, fmt.Sprintf("Отправлено %d пользователям. Не удалось: %d.", sent, failed), adminKeyboard)
}
