package telegram

import (
	"context"
	"io"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/aliskhannn/langalarm/internal/deckio"
	"github.com/aliskhannn/langalarm/internal/domain/entities"
	"github.com/aliskhannn/langalarm/internal/repository"
	"github.com/aliskhannn/langalarm/internal/service"
)

type fakeBot struct {
	mu       sync.Mutex
	nextID   int
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	fileURL  string
}

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.sent = append(b.sent, c)
	return tgbotapi.Message{MessageID: b.nextID}, nil
}

func (b *fakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = append(b.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (b *fakeBot) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return make(chan tgbotapi.Update)
}

func (b *fakeBot) GetFileDirectURL(string) (string, error) {
	return b.fileURL, nil
}

func (b *fakeBot) StopReceivingUpdates() {}

// texts returns the text of every sent message.
func (b *fakeBot) texts() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []string
	for _, c := range b.sent {
		if msg, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, msg.Text)
		}
	}
	return out
}

func (b *fakeBot) lastText() string {
	texts := b.texts()
	if len(texts) == 0 {
		return ""
	}
	return texts[len(texts)-1]
}

type fakeQuiz struct {
	started []int
	session *service.QuizSession
	err     error
}

func (q *fakeQuiz) StartPractice(ctx context.Context, target, maxWrong int) (service.QuizSnapshot, error) {
	q.started = append(q.started, target, maxWrong)
	if q.err != nil || q.session == nil {
		return service.QuizSnapshot{}, q.err
	}
	return q.session.Snapshot(), nil
}

func (q *fakeQuiz) Answer(ctx context.Context, text string) (*service.AnswerResult, service.QuizSnapshot, error) {
	if q.session == nil {
		return nil, service.QuizSnapshot{}, service.ErrNoActiveSession
	}
	res, err := q.session.Answer(text)
	return res, q.session.Snapshot(), err
}

func (q *fakeQuiz) Current() (service.QuizSnapshot, bool) {
	if q.session == nil {
		return service.QuizSnapshot{}, false
	}
	return q.session.Snapshot(), true
}

func (q *fakeQuiz) Exit() (service.QuizSnapshot, error) {
	if q.session == nil {
		return service.QuizSnapshot{}, service.ErrNoActiveSession
	}
	s := q.session.Snapshot()
	q.session = nil
	return s, nil
}

type fakeAlarms struct {
	alarms []*entities.Alarm
}

func (a *fakeAlarms) List(ctx context.Context) ([]*entities.Alarm, error) {
	return a.alarms, nil
}

func (a *fakeAlarms) Create(ctx context.Context, in service.AlarmInput) (*entities.Alarm, error) {
	alarm := entities.NewAlarm(in.Hour, in.Minute, in.Days, in.Label)
	a.alarms = append(a.alarms, alarm)
	return alarm, nil
}

func (a *fakeAlarms) Delete(ctx context.Context, id uuid.UUID) error {
	for i, alarm := range a.alarms {
		if alarm.ID == id {
			a.alarms = append(a.alarms[:i], a.alarms[i+1:]...)
			return nil
		}
	}
	return repository.ErrAlarmNotFound
}

func (a *fakeAlarms) Toggle(ctx context.Context, id uuid.UUID) (*entities.Alarm, error) {
	for _, alarm := range a.alarms {
		if alarm.ID == id {
			alarm.IsEnabled = !alarm.IsEnabled
			return alarm, nil
		}
	}
	return nil, repository.ErrAlarmNotFound
}

func (a *fakeAlarms) NextTrigger(alarm *entities.Alarm) time.Time {
	return alarm.NextTrigger(time.Date(2026, time.October, 14, 6, 0, 0, 0, time.UTC))
}

type fakeRinger struct {
	ringing *entities.Alarm
}

func (r *fakeRinger) ForceStop(ctx context.Context) (*entities.Alarm, error) {
	if r.ringing == nil {
		return nil, service.ErrNotRinging
	}
	a := r.ringing
	r.ringing = nil
	return a, nil
}

func (r *fakeRinger) Ringing() (*entities.Alarm, bool) {
	return r.ringing, r.ringing != nil
}

type fakeDecks struct {
	deck      *entities.Deck
	words     []*entities.Word
	preview   *entities.ImportPreview
	finalized []*entities.ImportPreview
}

func (d *fakeDecks) ListDecks(ctx context.Context) ([]*entities.DeckWithCount, error) {
	if d.deck == nil {
		return nil, nil
	}
	return []*entities.DeckWithCount{{Deck: *d.deck, WordCount: len(d.words)}}, nil
}

func (d *fakeDecks) CreateDeck(ctx context.Context, name string) (*entities.Deck, error) {
	d.deck = &entities.Deck{ID: 1, Name: name, IsActive: true}
	return d.deck, nil
}

func (d *fakeDecks) DeleteDeck(ctx context.Context, id int64) error {
	d.deck = nil
	return nil
}

func (d *fakeDecks) SetActiveDeck(ctx context.Context, id int64) error { return nil }

func (d *fakeDecks) ActiveDeck(ctx context.Context) (*entities.Deck, error) {
	if d.deck == nil {
		return nil, repository.ErrNoActiveDeck
	}
	return d.deck, nil
}

func (d *fakeDecks) ActiveWords(ctx context.Context) ([]*entities.Word, error) {
	return d.words, nil
}

func (d *fakeDecks) ListWords(ctx context.Context, deckID int64, sort entities.WordSort) ([]*entities.Word, error) {
	return d.words, nil
}

func (d *fakeDecks) AddWord(ctx context.Context, deckID int64, in service.WordInput) (*entities.Word, error) {
	w := entities.NewWord(deckID, in.Question, in.Answer, entities.DefaultWeight)
	d.words = append(d.words, w)
	return w, nil
}

func (d *fakeDecks) PreviewImport(ctx context.Context, deckID int64, r io.Reader, format deckio.Format) (*entities.ImportPreview, error) {
	rows, err := deckio.Read(r, format)
	if err != nil {
		return nil, err
	}
	p := &entities.ImportPreview{DeckID: deckID}
	for _, row := range rows {
		w := entities.NewWord(deckID, row.Question, row.Answer, row.Weight)
		if row.Question == "Hund" {
			p.Duplicates = append(p.Duplicates, &entities.DuplicateWord{New: w, Existing: entities.NewWord(deckID, "Hund", "hound", 5)})
			continue
		}
		p.NewWords = append(p.NewWords, w)
	}
	d.preview = p
	return p, nil
}

func (d *fakeDecks) FinalizeImport(ctx context.Context, p *entities.ImportPreview) (*entities.ImportResult, error) {
	d.finalized = append(d.finalized, p)
	res := &entities.ImportResult{Inserted: len(p.NewWords)}
	for _, dup := range p.Duplicates {
		switch dup.Action {
		case entities.DuplicateOverwrite:
			res.Overwritten++
		case entities.DuplicateKeepBoth:
			res.Inserted++
		default:
			res.Skipped++
		}
	}
	return res, nil
}

func (d *fakeDecks) Export(ctx context.Context, deckID int64, w io.Writer, format deckio.Format) (int, error) {
	return len(d.words), deckio.Write(w, format, d.words)
}

type fakeSettings struct {
	settings *entities.Settings
}

func (s *fakeSettings) Get(ctx context.Context) (*entities.Settings, error) {
	return s.settings, nil
}

func (s *fakeSettings) SetValue(ctx context.Context, key, value string) (*entities.Settings, error) {
	if key != service.SettingRequiredCorrect {
		return nil, service.ErrUnknownSetting
	}
	s.settings.RequiredCorrect = len(value)
	return s.settings, nil
}

type fakeSounds struct{}

func (fakeSounds) List(ctx context.Context) ([]*entities.Sound, error) { return nil, nil }

func (fakeSounds) Add(ctx context.Context, name, ext string, r io.Reader) (*entities.Sound, error) {
	return &entities.Sound{ID: 1, Name: name}, nil
}

func (fakeSounds) SetActive(ctx context.Context, id int64) error { return nil }
