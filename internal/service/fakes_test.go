package service

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/aliskhannn/langalarm/internal/domain/entities"
	"github.com/aliskhannn/langalarm/internal/repository"
)

type fakeDeckRepo struct {
	mu     sync.Mutex
	decks  map[int64]*entities.Deck
	nextID int64
	words  *fakeWordRepo
}

func newFakeDeckRepo(words *fakeWordRepo) *fakeDeckRepo {
	return &fakeDeckRepo{decks: make(map[int64]*entities.Deck), words: words}
}

func (r *fakeDeckRepo) List(_ context.Context) ([]*entities.DeckWithCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entities.DeckWithCount
	for _, d := range r.decks {
		out = append(out, &entities.DeckWithCount{Deck: *d, WordCount: r.words.countByDeck(d.ID)})
	}
	slices.SortFunc(out, func(a, b *entities.DeckWithCount) int { return int(a.ID - b.ID) })
	return out, nil
}

func (r *fakeDeckRepo) GetByID(_ context.Context, id int64) (*entities.Deck, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.decks[id]
	if !ok {
		return nil, repository.ErrDeckNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *fakeDeckRepo) GetActive(_ context.Context) (*entities.Deck, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, d := range r.decks {
		if d.IsActive {
			cp := *d
			return &cp, nil
		}
	}
	return nil, repository.ErrNoActiveDeck
}

func (r *fakeDeckRepo) Create(_ context.Context, deck *entities.Deck) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	cp := *deck
	cp.ID = r.nextID
	r.decks[cp.ID] = &cp
	return cp.ID, nil
}

func (r *fakeDeckRepo) Rename(_ context.Context, id int64, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.decks[id]
	if !ok {
		return repository.ErrDeckNotFound
	}
	d.Name = name
	return nil
}

func (r *fakeDeckRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.decks[id]; !ok {
		return repository.ErrDeckNotFound
	}
	delete(r.decks, id)
	r.words.deleteByDeck(id)
	return nil
}

func (r *fakeDeckRepo) SetActive(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.decks[id]; !ok {
		return repository.ErrDeckNotFound
	}
	for _, d := range r.decks {
		d.IsActive = d.ID == id
	}
	return nil
}

func (r *fakeDeckRepo) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.decks), nil
}

type fakeWordRepo struct {
	mu      sync.Mutex
	words   map[int64]*entities.Word
	nextID  int64
	weights map[int64]int
}

func newFakeWordRepo() *fakeWordRepo {
	return &fakeWordRepo{words: make(map[int64]*entities.Word), weights: make(map[int64]int)}
}

func (r *fakeWordRepo) countByDeck(deckID int64) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, w := range r.words {
		if w.DeckID == deckID {
			n++
		}
	}
	return n
}

func (r *fakeWordRepo) deleteByDeck(deckID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, w := range r.words {
		if w.DeckID == deckID {
			delete(r.words, id)
		}
	}
}

func (r *fakeWordRepo) ListByDeck(_ context.Context, deckID int64, sort entities.WordSort) ([]*entities.Word, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []*entities.Word{}
	for _, w := range r.words {
		if w.DeckID == deckID {
			cp := *w
			out = append(out, &cp)
		}
	}

	slices.SortFunc(out, func(a, b *entities.Word) int {
		switch sort {
		case entities.SortAlphabetical:
			return strings.Compare(strings.ToLower(a.Question), strings.ToLower(b.Question))
		case entities.SortAlphabeticalDesc:
			return strings.Compare(strings.ToLower(b.Question), strings.ToLower(a.Question))
		case entities.SortWeight:
			return a.Weight - b.Weight
		case entities.SortWeightDesc:
			return b.Weight - a.Weight
		case entities.SortOldest:
			return int(a.ID - b.ID)
		default:
			return int(b.ID - a.ID)
		}
	})
	return out, nil
}

func (r *fakeWordRepo) GetByID(_ context.Context, id int64) (*entities.Word, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.words[id]
	if !ok {
		return nil, repository.ErrWordNotFound
	}
	cp := *w
	return &cp, nil
}

func (r *fakeWordRepo) FindByQuestions(_ context.Context, deckID int64, questions []string) (map[string]*entities.Word, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]*entities.Word)
	for _, w := range r.words {
		if w.DeckID == deckID && slices.Contains(questions, w.Question) {
			cp := *w
			out[w.Question] = &cp
		}
	}
	return out, nil
}

func (r *fakeWordRepo) Create(_ context.Context, word *entities.Word) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insertLocked(word), nil
}

func (r *fakeWordRepo) insertLocked(word *entities.Word) int64 {
	r.nextID++
	cp := *word
	cp.ID = r.nextID
	r.words[cp.ID] = &cp
	return cp.ID
}

func (r *fakeWordRepo) CreateBatch(_ context.Context, words []*entities.Word) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, w := range words {
		w.ID = r.insertLocked(w)
	}
	return nil
}

func (r *fakeWordRepo) Update(_ context.Context, word *entities.Word) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.words[word.ID]; !ok {
		return repository.ErrWordNotFound
	}
	cp := *word
	r.words[word.ID] = &cp
	return nil
}

func (r *fakeWordRepo) UpdateWeight(_ context.Context, id int64, weight int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.weights[id] = weight
	if w, ok := r.words[id]; ok {
		w.Weight = weight
	}
	return nil
}

func (r *fakeWordRepo) weightOf(id int64) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.weights[id]
	return w, ok
}

func (r *fakeWordRepo) Delete(_ context.Context, ids []int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, id := range ids {
		if _, ok := r.words[id]; ok {
			delete(r.words, id)
			n++
		}
	}
	return n, nil
}

func (r *fakeWordRepo) ApplyImport(_ context.Context, inserts, overwrites []*entities.Word) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, w := range inserts {
		r.insertLocked(w)
	}
	for _, w := range overwrites {
		cp := *w
		r.words[w.ID] = &cp
	}
	return nil
}

type fakeAlarmRepo struct {
	mu     sync.Mutex
	alarms map[uuid.UUID]*entities.Alarm
}

func newFakeAlarmRepo() *fakeAlarmRepo {
	return &fakeAlarmRepo{alarms: make(map[uuid.UUID]*entities.Alarm)}
}

func (r *fakeAlarmRepo) List(_ context.Context) ([]*entities.Alarm, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entities.Alarm
	for _, a := range r.alarms {
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeAlarmRepo) GetByID(_ context.Context, id uuid.UUID) (*entities.Alarm, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.alarms[id]
	if !ok {
		return nil, repository.ErrAlarmNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAlarmRepo) Upsert(_ context.Context, alarm *entities.Alarm) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *alarm
	r.alarms[alarm.ID] = &cp
	return nil
}

func (r *fakeAlarmRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.alarms[id]; !ok {
		return repository.ErrAlarmNotFound
	}
	delete(r.alarms, id)
	return nil
}

func (r *fakeAlarmRepo) SetEnabled(_ context.Context, id uuid.UUID, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.alarms[id]
	if !ok {
		return repository.ErrAlarmNotFound
	}
	a.IsEnabled = enabled
	return nil
}

type fakeSettingsRepo struct {
	mu       sync.Mutex
	settings *entities.Settings
}

func (r *fakeSettingsRepo) Get(_ context.Context) (*entities.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.settings == nil {
		return nil, repository.ErrSettingsNotFound
	}
	cp := *r.settings
	return &cp, nil
}

func (r *fakeSettingsRepo) Save(_ context.Context, settings *entities.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *settings
	r.settings = &cp
	return nil
}

type fakeSoundRepo struct {
	mu     sync.Mutex
	sounds map[int64]*entities.Sound
	nextID int64
}

func newFakeSoundRepo() *fakeSoundRepo {
	return &fakeSoundRepo{sounds: make(map[int64]*entities.Sound)}
}

func (r *fakeSoundRepo) List(_ context.Context) ([]*entities.Sound, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entities.Sound
	for _, s := range r.sounds {
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeSoundRepo) GetByID(_ context.Context, id int64) (*entities.Sound, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sounds[id]
	if !ok {
		return nil, repository.ErrSoundNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSoundRepo) Create(_ context.Context, sound *entities.Sound) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	cp := *sound
	cp.ID = r.nextID
	r.sounds[cp.ID] = &cp
	return cp.ID, nil
}

func (r *fakeSoundRepo) Rename(_ context.Context, id int64, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sounds[id]
	if !ok {
		return repository.ErrSoundNotFound
	}
	s.Name = name
	return nil
}

func (r *fakeSoundRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sounds, id)
	return nil
}

type fakeTrigger struct {
	mu        sync.Mutex
	scheduled map[uuid.UUID]bool
}

func newFakeTrigger() *fakeTrigger {
	return &fakeTrigger{scheduled: make(map[uuid.UUID]bool)}
}

func (t *fakeTrigger) Schedule(alarm *entities.Alarm) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if alarm.IsEnabled {
		t.scheduled[alarm.ID] = true
	} else {
		delete(t.scheduled, alarm.ID)
	}
	return nil
}

func (t *fakeTrigger) Cancel(alarmID uuid.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.scheduled, alarmID)
}

func (t *fakeTrigger) isScheduled(id uuid.UUID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.scheduled[id]
}

type fakeAlarmRinger struct {
	mu   sync.Mutex
	rung []*entities.Alarm
}

func (r *fakeAlarmRinger) Ring(_ context.Context, alarm *entities.Alarm) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rung = append(r.rung, alarm)
	return nil
}

type fakeNotifier struct {
	mu        sync.Mutex
	alarms    []*entities.Word
	ringing   int
	emptyDeck int
	stopped   []StopReason
	sounds    []string
}

func (n *fakeNotifier) NotifyAlarm(_ context.Context, _ *entities.Alarm, question *entities.Word, sound string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alarms = append(n.alarms, question)
	n.sounds = append(n.sounds, sound)
	return nil
}

func (n *fakeNotifier) NotifyRinging(_ context.Context, _ *entities.Alarm, _ *entities.Word) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.ringing++
	return nil
}

func (n *fakeNotifier) NotifyEmptyDeck(_ context.Context, _ *entities.Alarm) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.emptyDeck++
	return nil
}

func (n *fakeNotifier) NotifyStopped(_ context.Context, _ *entities.Alarm, reason StopReason) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stopped = append(n.stopped, reason)
	return nil
}

type fakeDismisser struct {
	mu        sync.Mutex
	dismissed []uuid.UUID
}

func (d *fakeDismisser) Dismiss(_ context.Context, alarmID uuid.UUID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dismissed = append(d.dismissed, alarmID)
}

type fakeWeightSink struct {
	mu      sync.Mutex
	updates map[int64]int
}

func newFakeWeightSink() *fakeWeightSink {
	return &fakeWeightSink{updates: make(map[int64]int)}
}

func (s *fakeWeightSink) Enqueue(word *entities.Word) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates[word.ID] = word.Weight
}

type staticWords struct {
	words []*entities.Word
	err   error
}

func (s *staticWords) ActiveWords(_ context.Context) ([]*entities.Word, error) {
	return s.words, s.err
}

type fixedSound string

func (f fixedSound) ActivePath(_ context.Context) (string, error) {
	return string(f), nil
}
