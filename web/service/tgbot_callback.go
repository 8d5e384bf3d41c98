package service

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"

	"favor-bot/config"
	"favor-bot/logger"

	"github.com/mymmrac/telego"
)

func (t *Tgbot) answerCallback(query *telego.CallbackQuery, isAdmin bool) {
	if err := bot.AnswerCallbackQuery(context.Background(), &telego.AnswerCallbackQueryParams{
		CallbackQueryID: query.ID,
	}); err != nil {
		logger.Warning("failed to answer callback query:", err)
	}

	if query.Message == nil {
		return
	}
	chatId := query.Message.GetChat().ID
	userID := query.From.ID
	data := query.Data

	switch {
	case data == "agree":
		t.state.Set(chatId, stateName)
		t.SendMsgToTgbot(chatId, "Напишите ФИО:")

	case strings.HasPrefix(data, "days_"):
		days, err := strconv.Atoi(strings.TrimPrefix(data, "days_"))
		if err != nil || ValidateDays(days) != nil {
			return
		}
		t.state.Draft(chatId).Days = days
		t.SendMsgToTgbot(chatId, "Выберите дату приезда:", datesKeyboard())

	case strings.HasPrefix(data, "date_"):
		date := strings.TrimPrefix(data, "date_")
		if ValidateArrivalDate(date) != nil {
			return
		}
		t.state.Draft(chatId).ArrivalDate = date
		t.state.Set(chatId, stateCity)
		t.SendMsgToTgbot(chatId, "Из какого вы города?")

	case strings.HasPrefix(data, "gender_"):
		t.finishRegistration(chatId, userID, strings.TrimPrefix(data, "gender_"))

	case data == "show_qr":
		reg, err := t.registrationService.GetByUser(userID)
		if err != nil {
			t.SendMsgToTgbot(chatId, "Завершите регистрацию.", t.persistentKeyboard(userID))
			return
		}
		t.SendQRCode(chatId, reg.RegID, "Ваш QR-код для регистрации.")

	case data == "need_accommodation" || data == "request_accommodation":
		t.offerRooms(chatId, userID)

	case data == "no_accommodation":
		t.SendMsgToTgbot(chatId, "Хорошо! Если передумаете, нажмите «"+btnRequestBed+"».", t.persistentKeyboard(userID))

	case strings.HasPrefix(data, "room_"):
		t.assignRoom(chatId, userID, strings.TrimPrefix(data, "room_"))

	case data == "cancel_accommodation_user":
		if err := t.accommodationService.Cancel(userID); err != nil {
			t.SendMsgToTgbot(chatId, "Вы не расселены.", t.persistentKeyboard(userID))
			return
		}
		t.SendMsgToTgbot(chatId, "Расселение отменено.", t.persistentKeyboard(userID))

	case data == "confirm_clear":
		if !isAdmin {
			return
		}
		t.clearRegistrations(chatId)

	case data == "cancel_clear":
		if !isAdmin {
			return
		}
		t.SendMsgToTgbot(chatId, "Очистка отменена.", adminKeyboard)

	case data == "confirm_sleep":
		if !isAdmin {
			return
		}
		t.openAccommodation(chatId)

	case data == "cancel_sleep":
		if !isAdmin {
			return
		}
		t.SendMsgToTgbot(chatId, "Расселение не запущено.", adminKeyboard)
	}
}

// finishRegistration persists the draft, announces it to the channel and
// hands the participant their QR code.
func (t *Tgbot) finishRegistration(chatId int64, userID int64, gender string) {
	draft := t.state.Draft(chatId)
	draft.Gender = gender

	reg, err := t.registrationService.Register(userID, draft)
	if err != nil {
		logger.Warningf("registration failed: userId=%d err=%v", userID, err)
		t.state.Reset(chatId)
		t.SendMsgToTgbot(chatId, "Не удалось завершить регистрацию: "+html.EscapeString(err.Error()), t.persistentKeyboard(userID))
		return
	}
	t.state.Reset(chatId)

	if err := t.NotifyChannel(registrationSummary(reg, "Новая регистрация!")); err != nil {
		logger.Warning("registration announcement failed:", err)
	}

	t.SendQRCode(chatId, reg.RegID,
		registrationSummary(reg, "Вы зарегистрированы!")+"\nПокажите этот QR-код при входе.")
	t.SendMsgToTgbot(chatId, "Главное меню:", t.persistentKeyboard(userID))
}

func (t *Tgbot) offerRooms(chatId int64, userID int64) {
	reg, err := t.registrationService.GetByUser(userID)
	if err != nil {
		t.SendMsgToTgbot(chatId, "Завершите регистрацию.", t.persistentKeyboard(userID))
		return
	}
	if !t.accommodationService.IsOpen() {
		t.SendMsgToTgbot(chatId, "Расселение еще не открыто.", t.persistentKeyboard(userID))
		return
	}

	rooms, err := t.accommodationService.AvailableRooms(reg.Gender)
	if err != nil {
		logger.Warning("failed to list rooms:", err)
		t.SendMsgToTgbot(chatId, "Не удалось получить список домов.", t.persistentKeyboard(userID))
		return
	}
	if len(rooms) == 0 {
		t.SendMsgToTgbot(chatId, "Все дома заняты. Обратитесь к организаторам: "+config.GetOrganizerContact(), t.persistentKeyboard(userID))
		return
	}
	t.SendMsgToTgbot(chatId, "Выберите дом:", roomsKeyboard(rooms))
}

func (t *Tgbot) assignRoom(chatId int64, userID int64, rawRoom string) {
	room, err := strconv.Atoi(rawRoom)
	if err != nil {
		return
	}
	if _, err := t.accommodationService.Assign(userID, room); err != nil {
		t.SendMsgToTgbot(chatId, html.EscapeString(err.Error()), t.persistentKeyboard(userID))
		return
	}
	t.SendMsgToTgbot(chatId, fmt.Sprintf("Вы расселены в %d дом!", room), t.persistentKeyboard(userID))
}

// clearRegistrations wipes every registration and tells the users to
// register again.
func (t *Tgbot) clearRegistrations(chatId int64) {
	if err := t.registrationService.Clear(); err != nil {
		logger.Error("failed to clear registrations:", err)
		t.SendMsgToTgbot(chatId, "Не удалось очистить регистрации.", adminKeyboard)
		return
	}
	t.SendMsgToTgbot(chatId, "Все регистрации удалены.", adminKeyboard)
	go t.broadcast(chatId, "Регистрации сброшены. Пожалуйста, зарегистрируйтесь заново.")
}

// openAccommodation opens room selection and pings every registered
// participant with the offer.
func (t *Tgbot) openAccommodation(chatId int64) {
	if err := t.accommodationService.Open(); err != nil {
		logger.Error("failed to open accommodation:", err)
		t.SendMsgToTgbot(chatId, "Не удалось открыть расселение.", adminKeyboard)
		return
	}
	t.SendMsgToTgbot(chatId, "Расселение открыто.", adminKeyboard)

	regs, err := t.registrationService.All()
	if err != nil {
		logger.Warning("failed to list registrations for accommodation offer:", err)
		return
	}
	go func() {
		for _, reg := range regs {
			t.SendMsgToTgbot(reg.UserID, "Нужно место для ночлега?", needBedKeyboard())
		}
	}()
}
