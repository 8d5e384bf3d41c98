package config

import "time"

// Event facts shown by the bot. The dates are fixed for the 2025 camp.
const (
	EventTitle    = "Молодежный заезд Восток 2025"
	EventDates    = "25.06.2025 - 01.07.2025"
	EventTheme    = "Христос - мой краеугольный камень"
	EventLocation = "Бобруйск, Городок"

	// PricePerDay is the participation fee in dollars per day.
	PricePerDay = 10
)

// ArrivalDates are the only dates a participant may pick during
// registration, in DD.MM.YYYY form.
var ArrivalDates = []string{"03.07.2025", "04.07.2025", "05.07.2025", "06.07.2025"}

const (
	// MaxDays limits how many event days a registration may cover.
	MaxDays = 4

	// RoomCount is the number of houses available for accommodation.
	RoomCount = 10

	// RoomCapacity is the number of beds per house.
	RoomCapacity = 15

	// MaleRoomMax: houses 1..MaleRoomMax are male, the rest female.
	MaleRoomMax = 5
)

const (
	// TelegramMessageDelay spaces out consecutive messages to one chat.
	TelegramMessageDelay = 500 * time.Millisecond

	// BroadcastRate caps the notification fan-out, messages per second.
	BroadcastRate = 20

	// SendRetries is how many times channel/photo deliveries are retried.
	SendRetries = 3

	// SendBackoff is the base delay between delivery retries, doubled on
	// each attempt.
	SendBackoff = 2 * time.Second
)
