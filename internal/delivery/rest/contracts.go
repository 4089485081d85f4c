package rest

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/aliskhannn/langalarm/internal/deckio"
	"github.com/aliskhannn/langalarm/internal/domain/entities"
	"github.com/aliskhannn/langalarm/internal/service"
)

type DeckService interface {
	ListDecks(ctx context.Context) ([]*entities.DeckWithCount, error)
	GetDeck(ctx context.Context, id int64) (*entities.Deck, error)
	CreateDeck(ctx context.Context, name string) (*entities.Deck, error)
	RenameDeck(ctx context.Context, id int64, name string) error
	DeleteDeck(ctx context.Context, id int64) error
	SetActiveDeck(ctx context.Context, id int64) error
	ListWords(ctx context.Context, deckID int64, sort entities.WordSort) ([]*entities.Word, error)
	AddWord(ctx context.Context, deckID int64, in service.WordInput) (*entities.Word, error)
	UpdateWord(ctx context.Context, id int64, in service.WordInput) (*entities.Word, error)
	DeleteWords(ctx context.Context, ids []int64) (int, error)
	PreviewImport(ctx context.Context, deckID int64, r io.Reader, format deckio.Format) (*entities.ImportPreview, error)
	FinalizeImport(ctx context.Context, preview *entities.ImportPreview) (*entities.ImportResult, error)
	Export(ctx context.Context, deckID int64, w io.Writer, format deckio.Format) (int, error)
}

type AlarmService interface {
	List(ctx context.Context) ([]*entities.Alarm, error)
	Get(ctx context.Context, id uuid.UUID) (*entities.Alarm, error)
	Create(ctx context.Context, in service.AlarmInput) (*entities.Alarm, error)
	Update(ctx context.Context, id uuid.UUID, in service.AlarmInput) (*entities.Alarm, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Toggle(ctx context.Context, id uuid.UUID) (*entities.Alarm, error)
	NextTrigger(alarm *entities.Alarm) time.Time
}

type SettingsService interface {
	Get(ctx context.Context) (*entities.Settings, error)
	Update(ctx context.Context, settings *entities.Settings) (*entities.Settings, error)
}

type SoundService interface {
	List(ctx context.Context) ([]*entities.Sound, error)
	SetActive(ctx context.Context, id int64) error
}

type RingerService interface {
	ForceStop(ctx context.Context) (*entities.Alarm, error)
	Ringing() (*entities.Alarm, bool)
}

type QuizService interface {
	StartPractice(ctx context.Context, target, maxWrong int) (service.QuizSnapshot, error)
	Answer(ctx context.Context, text string) (*service.AnswerResult, service.QuizSnapshot, error)
	Current() (service.QuizSnapshot, bool)
	Exit() (service.QuizSnapshot, error)
}
