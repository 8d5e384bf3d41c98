package service

import "sync"

// Conversation states. A chat is either idle (no entry) or waiting for
// one specific text input.
const (
	stateName         = "name"
	stateCity         = "city"
	statePhone        = "phone"
	stateBirthDate    = "birth_date"
	stateNotification = "notification"
)

// BotState holds per-chat conversation state and registration drafts.
// The bot handler goroutine and the broadcast goroutines share it, hence
// the mutex.
type BotState struct {
	mu     sync.RWMutex
	states map[int64]string
	drafts map[int64]*RegDraft
}

func NewBotState() *BotState {
	return &BotState{
		states: make(map[int64]string),
		drafts: make(map[int64]*RegDraft),
	}
}

func (s *BotState) Get(chatID int64) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.states[chatID]
}

func (s *BotState) Set(chatID int64, state string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[chatID] = state
}

// Draft returns the chat's registration draft, creating it on first use.
func (s *BotState) Draft(chatID int64) *RegDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft, ok := s.drafts[chatID]
	if !ok {
		draft = &RegDraft{}
		s.drafts[chatID] = draft
	}
	return draft
}

// Reset drops both the state and the draft of the chat.
func (s *BotState) Reset(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, chatID)
	delete(s.drafts, chatID)
}
