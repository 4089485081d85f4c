package storage

import (
	"sync"
	"time"
)

// RingMessage is the last ringing notification sent to a chat.
type RingMessage struct {
	ChatID    int64
	MessageID int
	SentAt    time.Time
}

// MessageStorage remembers the last ringing message per chat so it can be
// replaced instead of piling up.
type MessageStorage struct {
	mu       sync.RWMutex
	messages map[int64]RingMessage
}

func NewMessageStorage() *MessageStorage {
	return &MessageStorage{
		messages: make(map[int64]RingMessage),
	}
}

func (s *MessageStorage) Get(chatID int64) (RingMessage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msg, ok := s.messages[chatID]
	return msg, ok
}

func (s *MessageStorage) Delete(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.messages, chatID)
}

func (s *MessageStorage) UpsertAndGetPrev(chatID int64, messageID int) (prev RingMessage, hadPrev bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, hadPrev = s.messages[chatID]

	s.messages[chatID] = RingMessage{
		ChatID:    chatID,
		MessageID: messageID,
		SentAt:    time.Now(),
	}

	return prev, hadPrev
}
