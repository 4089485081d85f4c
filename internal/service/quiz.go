package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aliskhannn/langalarm/internal/domain/entities"
	"github.com/aliskhannn/langalarm/internal/storage"
)

var (
	ErrNoActiveSession     = errors.New("no active quiz session")
	ErrAlarmQuizActive     = errors.New("an alarm quiz is in progress")
	ErrCannotExitAlarmQuiz = errors.New("an alarm quiz cannot be exited")
)

// DefaultPracticeTarget is the number of correct answers a practice session asks for.
const DefaultPracticeTarget = 10

type WordSource interface {
	ActiveWords(ctx context.Context) ([]*entities.Word, error)
}

type SettingsSource interface {
	Get(ctx context.Context) (*entities.Settings, error)
}

type WeightSink interface {
	Enqueue(word *entities.Word)
}

// QuizService owns the lifecycle of the active quiz session.
type QuizService struct {
	mu        sync.Mutex
	words     WordSource
	settings  SettingsSource
	weights   WeightSink
	selector  *Selector
	sessions  *storage.QuizStorage[*QuizSession]
	dismisser Dismisser
	logger    *zap.Logger
}

func NewQuizService(
	words WordSource,
	settings SettingsSource,
	weights WeightSink,
	selector *Selector,
	sessions *storage.QuizStorage[*QuizSession],
	logger *zap.Logger,
) *QuizService {
	return &QuizService{
		words:    words,
		settings: settings,
		weights:  weights,
		selector: selector,
		sessions: sessions,
		logger:   logger,
	}
}

// SetDismisser sets the dismisser (called after the ringer is created).
func (s *QuizService) SetDismisser(d Dismisser) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dismisser = d
}

// StartAlarmQuiz replaces any running session with the dismiss quiz of an alarm.
func (s *QuizService) StartAlarmQuiz(ctx context.Context, alarmID uuid.UUID) (QuizSnapshot, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return QuizSnapshot{}, fmt.Errorf("get settings: %w", err)
	}

	words, err := s.words.ActiveWords(ctx)
	if err != nil {
		return QuizSnapshot{}, fmt.Errorf("get active words: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := NewQuizSession(QuizModeAlarm, words, AlarmPolicy(settings), s.selector)
	if err != nil {
		return QuizSnapshot{}, err
	}
	session.AlarmID = alarmID

	if prev, ok := s.sessions.Swap(session); ok && prev.State() != StateCompleted {
		s.logger.Info("quiz session replaced by alarm quiz",
			zap.String("previous_session", prev.ID.String()),
			zap.String("previous_mode", string(prev.Mode)),
		)
	}

	s.logger.Info("alarm quiz started",
		zap.String("session_id", session.ID.String()),
		zap.String("alarm_id", alarmID.String()),
		zap.Int("words", len(words)),
		zap.Int("target", session.Policy().Target),
	)

	return session.Snapshot(), nil
}

// StartPractice starts a practice session on the active deck.
// target may be NoTarget for an open-ended session.
func (s *QuizService) StartPractice(ctx context.Context, target, maxWrong int) (QuizSnapshot, error) {
	if s.alarmActive() {
		return QuizSnapshot{}, ErrAlarmQuizActive
	}

	words, err := s.words.ActiveWords(ctx)
	if err != nil {
		return QuizSnapshot{}, fmt.Errorf("get active words: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// An alarm may have rung while the words were loading.
	if s.alarmActiveLocked() {
		return QuizSnapshot{}, ErrAlarmQuizActive
	}

	session, err := NewQuizSession(QuizModePractice, words, PracticePolicy(target, maxWrong), s.selector)
	if err != nil {
		return QuizSnapshot{}, err
	}
	s.sessions.Store(session)

	s.logger.Debug("practice started",
		zap.String("session_id", session.ID.String()),
		zap.Int("target", target),
		zap.Int("max_wrong", maxWrong),
	)

	return session.Snapshot(), nil
}

func (s *QuizService) alarmActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.alarmActiveLocked()
}

func (s *QuizService) alarmActiveLocked() bool {
	cur, ok := s.sessions.Get()
	return ok && cur.Mode == QuizModeAlarm && cur.State() != StateCompleted
}

// Answer submits text to the active session and persists the resulting weight change.
// The returned result and snapshot are copies taken while the answer was applied.
func (s *QuizService) Answer(ctx context.Context, text string) (*AnswerResult, QuizSnapshot, error) {
	s.mu.Lock()

	session, ok := s.sessions.Get()
	if !ok {
		s.mu.Unlock()
		return nil, QuizSnapshot{}, ErrNoActiveSession
	}

	res, err := session.Answer(text)
	if err != nil {
		snap := session.Snapshot()
		s.mu.Unlock()
		return nil, snap, err
	}

	if res.WeightChanged {
		s.weights.Enqueue(res.Word)
	}

	if res.Completed {
		s.sessions.CompareAndDelete(func(cur *QuizSession) bool { return cur == session })
	}

	out := *res
	out.Word = copyWord(res.Word)
	out.Next = copyWord(res.Next)
	snap := session.Snapshot()
	dismisser := s.dismisser
	s.mu.Unlock()

	if out.Completed && snap.Mode == QuizModeAlarm {
		s.logger.Info("alarm quiz solved",
			zap.String("session_id", snap.ID.String()),
			zap.String("alarm_id", snap.AlarmID.String()),
		)
		if dismisser != nil {
			dismisser.Dismiss(ctx, snap.AlarmID)
		}
	}

	return &out, snap, nil
}

// Current returns a snapshot of the active session, if any.
func (s *QuizService) Current() (QuizSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions.Get()
	if !ok {
		return QuizSnapshot{}, false
	}
	return session.Snapshot(), true
}

// Exit ends the active practice session and returns its final state.
func (s *QuizService) Exit() (QuizSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions.Get()
	if !ok {
		return QuizSnapshot{}, ErrNoActiveSession
	}
	if session.Mode == QuizModeAlarm {
		return QuizSnapshot{}, ErrCannotExitAlarmQuiz
	}

	s.sessions.Delete()
	return session.Snapshot(), nil
}

// Abort drops the quiz of the given alarm, if it is the active session.
func (s *QuizService) Abort(alarmID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.CompareAndDelete(func(cur *QuizSession) bool {
		return cur.Mode == QuizModeAlarm && cur.AlarmID == alarmID
	})
}

// CurrentQuestion returns a copy of the word the active session is asking.
func (s *QuizService) CurrentQuestion() (*entities.Word, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions.Get()
	if !ok || session.Current() == nil {
		return nil, false
	}
	return copyWord(session.Current()), true
}
