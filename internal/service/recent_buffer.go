package service

import "github.com/aliskhannn/langalarm/internal/domain/entities"

// RecentBuffer remembers the last words shown in a session.
// Pushing beyond capacity evicts the oldest entry.
type RecentBuffer struct {
	capacity int
	items    []*entities.Word
}

// NewRecentBuffer creates a buffer holding at most capacity words.
// A capacity below zero is treated as zero.
func NewRecentBuffer(capacity int) *RecentBuffer {
	capacity = max(capacity, 0)
	return &RecentBuffer{
		capacity: capacity,
		items:    make([]*entities.Word, 0, capacity),
	}
}

// Push appends w and evicts from the front while over capacity.
func (b *RecentBuffer) Push(w *entities.Word) {
	if b.capacity == 0 {
		return
	}
	b.items = append(b.items, w)
	for len(b.items) > b.capacity {
		b.items = b.items[1:]
	}
}

// Items returns the buffered words from oldest to newest.
func (b *RecentBuffer) Items() []*entities.Word {
	return b.items
}

// Len returns the number of buffered words.
func (b *RecentBuffer) Len() int {
	return len(b.items)
}

// Capacity returns the maximum number of buffered words.
func (b *RecentBuffer) Capacity() int {
	return b.capacity
}
