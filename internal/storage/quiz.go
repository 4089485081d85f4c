package storage

import "sync"

// QuizStorage holds the single active quiz session in memory.
type QuizStorage[S any] struct {
	mu      sync.RWMutex
	session S
	ok      bool
}

// NewQuizStorage creates an empty QuizStorage.
func NewQuizStorage[S any]() *QuizStorage[S] {
	return &QuizStorage[S]{}
}

// Store replaces the active session.
func (s *QuizStorage[S]) Store(session S) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = session
	s.ok = true
}

// Swap replaces the active session and returns the previous one, if any.
func (s *QuizStorage[S]) Swap(session S) (prev S, hadPrev bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, hadPrev = s.session, s.ok
	s.session = session
	s.ok = true

	return prev, hadPrev
}

// Get returns the active session.
func (s *QuizStorage[S]) Get() (S, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session, s.ok
}

// Delete clears the active session.
func (s *QuizStorage[S]) Delete() {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero S
	s.session = zero
	s.ok = false
}

// CompareAndDelete clears the active session only if match reports true for it.
func (s *QuizStorage[S]) CompareAndDelete(match func(S) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ok || !match(s.session) {
		return false
	}

	var zero S
	s.session = zero
	s.ok = false

	return true
}
