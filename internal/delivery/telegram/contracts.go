package telegram

import (
	"context"
	"io"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/aliskhannn/langalarm/internal/deckio"
	"github.com/aliskhannn/langalarm/internal/domain/entities"
	"github.com/aliskhannn/langalarm/internal/service"
	"github.com/aliskhannn/langalarm/internal/storage"
)

// Bot is the part of tgbotapi.BotAPI the handler uses.
type Bot interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	GetFileDirectURL(fileID string) (string, error)
	StopReceivingUpdates()
}

type QuizService interface {
	StartPractice(ctx context.Context, target, maxWrong int) (service.QuizSnapshot, error)
	Answer(ctx context.Context, text string) (*service.AnswerResult, service.QuizSnapshot, error)
	Current() (service.QuizSnapshot, bool)
	Exit() (service.QuizSnapshot, error)
}

type AlarmService interface {
	List(ctx context.Context) ([]*entities.Alarm, error)
	Create(ctx context.Context, in service.AlarmInput) (*entities.Alarm, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Toggle(ctx context.Context, id uuid.UUID) (*entities.Alarm, error)
	NextTrigger(alarm *entities.Alarm) time.Time
}

type RingerService interface {
	ForceStop(ctx context.Context) (*entities.Alarm, error)
	Ringing() (*entities.Alarm, bool)
}

type DeckService interface {
	ListDecks(ctx context.Context) ([]*entities.DeckWithCount, error)
	CreateDeck(ctx context.Context, name string) (*entities.Deck, error)
	DeleteDeck(ctx context.Context, id int64) error
	SetActiveDeck(ctx context.Context, id int64) error
	ActiveDeck(ctx context.Context) (*entities.Deck, error)
	ActiveWords(ctx context.Context) ([]*entities.Word, error)
	ListWords(ctx context.Context, deckID int64, sort entities.WordSort) ([]*entities.Word, error)
	AddWord(ctx context.Context, deckID int64, in service.WordInput) (*entities.Word, error)
	PreviewImport(ctx context.Context, deckID int64, r io.Reader, format deckio.Format) (*entities.ImportPreview, error)
	FinalizeImport(ctx context.Context, preview *entities.ImportPreview) (*entities.ImportResult, error)
	Export(ctx context.Context, deckID int64, w io.Writer, format deckio.Format) (int, error)
}

type SettingsService interface {
	Get(ctx context.Context) (*entities.Settings, error)
	SetValue(ctx context.Context, key, value string) (*entities.Settings, error)
}

type SoundService interface {
	List(ctx context.Context) ([]*entities.Sound, error)
	Add(ctx context.Context, name, ext string, r io.Reader) (*entities.Sound, error)
	SetActive(ctx context.Context, id int64) error
}

type ImportStorage interface {
	Store(chatID int64, preview *entities.ImportPreview)
	Take(chatID int64) (*entities.ImportPreview, bool)
}

type MessageStorage interface {
	UpsertAndGetPrev(chatID int64, messageID int) (storage.RingMessage, bool)
	Delete(chatID int64)
}
