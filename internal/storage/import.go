package storage

import (
	"sync"
	"time"

	"github.com/aliskhannn/langalarm/internal/domain/entities"
)

// pendingImportTTL bounds how long an unresolved preview is kept.
const pendingImportTTL = 30 * time.Minute

type pendingImport struct {
	preview   *entities.ImportPreview
	createdAt time.Time
}

// ImportStorage keeps import previews awaiting duplicate resolution, by chat ID.
type ImportStorage struct {
	mu       sync.Mutex
	previews map[int64]pendingImport
	now      func() time.Time
}

func NewImportStorage() *ImportStorage {
	return &ImportStorage{
		previews: make(map[int64]pendingImport),
		now:      time.Now,
	}
}

// Store saves a preview, replacing any earlier one for the chat.
func (s *ImportStorage) Store(chatID int64, preview *entities.ImportPreview) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.previews[chatID] = pendingImport{preview: preview, createdAt: s.now()}
}

// Take removes and returns the preview for the chat. Expired previews are discarded.
func (s *ImportStorage) Take(chatID int64) (*entities.ImportPreview, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.previews[chatID]
	if !ok {
		return nil, false
	}
	delete(s.previews, chatID)

	if s.now().Sub(p.createdAt) > pendingImportTTL {
		return nil, false
	}

	return p.preview, true
}
