package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/aliskhannn/langalarm/internal/domain/entities"
)

type DeckRepository interface {
	List(ctx context.Context) ([]*entities.DeckWithCount, error)
	GetByID(ctx context.Context, id int64) (*entities.Deck, error)
	GetActive(ctx context.Context) (*entities.Deck, error)
	Create(ctx context.Context, deck *entities.Deck) (int64, error)
	Rename(ctx context.Context, id int64, name string) error
	Delete(ctx context.Context, id int64) error
	SetActive(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

type WordRepository interface {
	ListByDeck(ctx context.Context, deckID int64, sort entities.WordSort) ([]*entities.Word, error)
	GetByID(ctx context.Context, id int64) (*entities.Word, error)
	FindByQuestions(ctx context.Context, deckID int64, questions []string) (map[string]*entities.Word, error)
	Create(ctx context.Context, word *entities.Word) (int64, error)
	CreateBatch(ctx context.Context, words []*entities.Word) error
	Update(ctx context.Context, word *entities.Word) error
	UpdateWeight(ctx context.Context, id int64, weight int) error
	Delete(ctx context.Context, ids []int64) (int, error)
	ApplyImport(ctx context.Context, inserts, overwrites []*entities.Word) error
}

type AlarmRepository interface {
	List(ctx context.Context) ([]*entities.Alarm, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Alarm, error)
	Upsert(ctx context.Context, alarm *entities.Alarm) error
	Delete(ctx context.Context, id uuid.UUID) error
	SetEnabled(ctx context.Context, id uuid.UUID, enabled bool) error
}

type SettingsRepository interface {
	Get(ctx context.Context) (*entities.Settings, error)
	Save(ctx context.Context, settings *entities.Settings) error
}

type SoundRepository interface {
	List(ctx context.Context) ([]*entities.Sound, error)
	GetByID(ctx context.Context, id int64) (*entities.Sound, error)
	Create(ctx context.Context, sound *entities.Sound) (int64, error)
	Rename(ctx context.Context, id int64, name string) error
	Delete(ctx context.Context, id int64) error
}

// AlarmNotifier delivers ringing alarms and their quiz to the owner.
type AlarmNotifier interface {
	NotifyAlarm(ctx context.Context, alarm *entities.Alarm, question *entities.Word, sound string) error
	NotifyRinging(ctx context.Context, alarm *entities.Alarm, question *entities.Word) error
	NotifyEmptyDeck(ctx context.Context, alarm *entities.Alarm) error
	NotifyStopped(ctx context.Context, alarm *entities.Alarm, reason StopReason) error
}

// Dismisser stops a ringing alarm once its quiz is solved.
type Dismisser interface {
	Dismiss(ctx context.Context, alarmID uuid.UUID)
}
