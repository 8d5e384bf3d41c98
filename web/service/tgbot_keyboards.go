package service

import (
	"fmt"

	"favor-bot/config"
	"favor-bot/database/model"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
)

// Persistent keyboard labels. The exact strings double as message routes.
const (
	btnRegister   = "Регистрация"
	btnSchedule   = "Расписание"
	btnSpeakers   = "Спикеры"
	btnVenue      = "Место проведения"
	btnContacts   = "Контакты"
	btnQRCode     = "QR Code"
	btnRequestBed = "Расселить"
	btnCancelBed  = "Отменить расселение"

	btnStats     = "Статистика"
	btnClear     = "Очистить регистрации"
	btnSleep     = "Разложить спать"
	btnNotify    = "Отправить уведомление"
	btnExitAdmin = "Выйти из админки"

	btnCancel       = "Отмена"
	btnShareContact = "Поделиться контактом"
)

var adminKeyboard = tu.Keyboard(
	tu.KeyboardRow(tu.KeyboardButton(btnStats), tu.KeyboardButton(btnClear)),
	tu.KeyboardRow(tu.KeyboardButton(btnSleep), tu.KeyboardButton(btnNotify)),
	tu.KeyboardRow(tu.KeyboardButton(btnExitAdmin)),
).WithResizeKeyboard()

// persistentKeyboard composes the user keyboard from the user's current
// standing: unregistered users get the registration button, housed users
// the cancellation one, and so on.
func (t *Tgbot) persistentKeyboard(userID int64) *telego.ReplyKeyboardMarkup {
	var rows [][]telego.KeyboardButton

	reg, err := t.registrationService.GetByUser(userID)
	switch {
	case err != nil:
		rows = append(rows, tu.KeyboardRow(tu.KeyboardButton(btnRegister)))
	case reg.Housed():
		rows = append(rows, tu.KeyboardRow(tu.KeyboardButton(btnCancelBed)))
	case t.accommodationService.IsOpen():
		rows = append(rows, tu.KeyboardRow(tu.KeyboardButton(btnRequestBed)))
	}

	rows = append(rows,
		tu.KeyboardRow(tu.KeyboardButton(btnSchedule), tu.KeyboardButton(btnSpeakers)),
		tu.KeyboardRow(tu.KeyboardButton(btnVenue), tu.KeyboardButton(btnContacts)),
		tu.KeyboardRow(tu.KeyboardButton(btnQRCode)),
	)
	return tu.Keyboard(rows...).WithResizeKeyboard()
}

func agreeKeyboard() *telego.InlineKeyboardMarkup {
	return tu.InlineKeyboard(
		tu.InlineKeyboardRow(tu.InlineKeyboardButton("Согласен").WithCallbackData("agree")),
	)
}

func daysKeyboard() *telego.InlineKeyboardMarkup {
	return tu.InlineKeyboard(
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton(fmt.Sprintf("1 день: %d$", config.PricePerDay)).WithCallbackData("days_1"),
			tu.InlineKeyboardButton(fmt.Sprintf("2 дня: %d$", 2*config.PricePerDay)).WithCallbackData("days_2"),
		),
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton(fmt.Sprintf("3 дня: %d$", 3*config.PricePerDay)).WithCallbackData("days_3"),
			tu.InlineKeyboardButton(fmt.Sprintf("4 дня: %d$", 4*config.PricePerDay)).WithCallbackData("days_4"),
		),
	)
}

func datesKeyboard() *telego.InlineKeyboardMarkup {
	rows := make([][]telego.InlineKeyboardButton, 0, len(config.ArrivalDates))
	for _, date := range config.ArrivalDates {
		rows = append(rows, tu.InlineKeyboardRow(
			tu.InlineKeyboardButton(date).WithCallbackData("date_"+date),
		))
	}
	return tu.InlineKeyboard(rows...)
}

func genderKeyboard() *telego.InlineKeyboardMarkup {
	return tu.InlineKeyboard(
		tu.InlineKeyboardRow(tu.InlineKeyboardButton(model.GenderMale).WithCallbackData("gender_"+model.GenderMale)),
		tu.InlineKeyboardRow(tu.InlineKeyboardButton(model.GenderFemale).WithCallbackData("gender_"+model.GenderFemale)),
	)
}

func needBedKeyboard() *telego.InlineKeyboardMarkup {
	return tu.InlineKeyboard(
		tu.InlineKeyboardRow(tu.InlineKeyboardButton("Да").WithCallbackData("need_accommodation")),
		tu.InlineKeyboardRow(tu.InlineKeyboardButton("Нет").WithCallbackData("no_accommodation")),
	)
}

// roomsKeyboard lays out free houses three per row with occupancy labels.
func roomsKeyboard(rooms []RoomInfo) *telego.InlineKeyboardMarkup {
	var rows [][]telego.InlineKeyboardButton
	var row []telego.InlineKeyboardButton
	for _, room := range rooms {
		label := fmt.Sprintf("%d дом (%d/%d)", room.No, room.Occupied, room.Capacity)
		row = append(row, tu.InlineKeyboardButton(label).WithCallbackData(fmt.Sprintf("room_%d", room.No)))
		if len(row) == 3 {
			rows = append(rows, tu.InlineKeyboardRow(row...))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, tu.InlineKeyboardRow(row...))
	}
	return tu.InlineKeyboard(rows...)
}

func confirmKeyboard(confirmData, cancelData string) *telego.InlineKeyboardMarkup {
	return tu.InlineKeyboard(
		tu.InlineKeyboardRow(tu.InlineKeyboardButton("Подтвердить").WithCallbackData(confirmData)),
		tu.InlineKeyboardRow(tu.InlineKeyboardButton("Отмена").WithCallbackData(cancelData)),
	)
}

func contactKeyboard() *telego.ReplyKeyboardMarkup {
	return tu.Keyboard(
		tu.KeyboardRow(tu.KeyboardButton(btnShareContact).WithRequestContact()),
	).WithResizeKeyboard().WithOneTimeKeyboard()
}

func cancelKeyboard() *telego.ReplyKeyboardMarkup {
	return tu.Keyboard(
		tu.KeyboardRow(tu.KeyboardButton(btnCancel)),
	).WithResizeKeyboard().WithOneTimeKeyboard()
}
