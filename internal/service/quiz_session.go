package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aliskhannn/langalarm/internal/domain/entities"
)

// NoTarget marks an open-ended session that never completes on its own.
const NoTarget = -1

// skipRetries bounds how often the selector is asked again for a word
// different from the one just skipped.
const skipRetries = 10

var (
	ErrSessionCompleted = errors.New("quiz session is completed")
	ErrInvalidPolicy    = errors.New("invalid quiz policy")
)

// QuizMode tells why a session was started.
type QuizMode string

const (
	QuizModeAlarm    QuizMode = "alarm"    // dismiss gate of a ringing alarm
	QuizModePractice QuizMode = "practice" // user initiated flashcard practice
)

// QuizState is the state of a quiz session.
type QuizState string

const (
	StateAwaitingAnswer QuizState = "awaiting_answer"
	StateCompleted      QuizState = "completed"
)

// AnswerOutcome classifies a submitted answer.
type AnswerOutcome string

const (
	OutcomeCorrect AnswerOutcome = "correct"
	OutcomeWrong   AnswerOutcome = "wrong"
	OutcomeSkipped AnswerOutcome = "skipped"
)

// QuizPolicy configures the rules of a session.
type QuizPolicy struct {
	Target           int  // correct answers needed, or NoTarget
	MaxWrongAttempts int  // consecutive wrong answers that force a skip
	RecentCapacity   int  // size of the no-repeat buffer
	MinWeight        int  // weight floor applied when a word is answered correctly
	PenalizeSkips    bool // open-ended sessions lose a point on every skip
}

// AlarmPolicy builds the policy used to dismiss an alarm.
func AlarmPolicy(s *entities.Settings) QuizPolicy {
	return QuizPolicy{
		Target:           s.RequiredCorrect,
		MaxWrongAttempts: s.MaxTrials,
		RecentCapacity:   s.BufferSize,
		MinWeight:        1,
	}
}

// PracticePolicy builds the policy of a practice session.
func PracticePolicy(target, maxWrong int) QuizPolicy {
	return QuizPolicy{
		Target:           target,
		MaxWrongAttempts: maxWrong,
		RecentCapacity:   3,
		MinWeight:        entities.MinWeight,
		PenalizeSkips:    true,
	}
}

// Validate checks that the policy can drive a session.
func (p QuizPolicy) Validate() error {
	if p.Target != NoTarget && p.Target < 1 {
		return fmt.Errorf("%w: target must be positive or open-ended, got %d", ErrInvalidPolicy, p.Target)
	}
	if p.MaxWrongAttempts < 1 {
		return fmt.Errorf("%w: max wrong attempts must be at least 1, got %d", ErrInvalidPolicy, p.MaxWrongAttempts)
	}
	if p.RecentCapacity < 0 {
		return fmt.Errorf("%w: recent capacity must not be negative", ErrInvalidPolicy)
	}
	return nil
}

// IsOpenEnded reports whether the session has no completion target.
func (p QuizPolicy) IsOpenEnded() bool {
	return p.Target == NoTarget
}

// AnswerResult describes what a submitted answer did to the session.
type AnswerResult struct {
	Outcome       AnswerOutcome
	Word          *entities.Word // the word that was answered
	WeightChanged bool
	AttemptsLeft  int            // wrong answers left before a skip, after a wrong answer
	Next          *entities.Word // word to ask next, nil once completed
	Correct       int            // correct answers after this one was applied
	Completed     bool
}

// QuizSnapshot is a point-in-time copy of a session, safe to read without
// holding the session's owner lock.
type QuizSnapshot struct {
	ID        uuid.UUID
	Mode      QuizMode
	AlarmID   uuid.UUID
	StartedAt time.Time
	Policy    QuizPolicy
	State     QuizState
	Correct   int
	Question  *entities.Word // copy of the word being asked, nil once completed
}

// QuizSession runs one quiz over a snapshot of words.
//
// A session is not safe for concurrent use. Weight changes are applied to
// the snapshot words in place and reported through AnswerResult.
type QuizSession struct {
	ID        uuid.UUID
	Mode      QuizMode
	AlarmID   uuid.UUID // set for QuizModeAlarm
	StartedAt time.Time

	policy      QuizPolicy
	selector    *Selector
	words       []*entities.Word
	recent      *RecentBuffer
	current     *entities.Word
	correct     int
	wrongInARow int
	state       QuizState
	completedAt *time.Time
}

// NewQuizSession starts a session and picks the first word.
func NewQuizSession(
	mode QuizMode,
	words []*entities.Word,
	policy QuizPolicy,
	selector *Selector,
) (*QuizSession, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	recent := NewRecentBuffer(policy.RecentCapacity)
	first, err := selector.Pick(words, recent.Items())
	if err != nil {
		return nil, err
	}

	return &QuizSession{
		ID:        uuid.New(),
		Mode:      mode,
		StartedAt: time.Now(),
		policy:    policy,
		selector:  selector,
		words:     words,
		recent:    recent,
		current:   first,
		state:     StateAwaitingAnswer,
	}, nil
}

// Answer checks text against the current word and advances the session.
func (q *QuizSession) Answer(text string) (*AnswerResult, error) {
	if q.state == StateCompleted {
		return nil, ErrSessionCompleted
	}

	word := q.current
	if word.Matches(text) {
		return q.onCorrect(word)
	}

	q.wrongInARow++
	if q.wrongInARow >= q.policy.MaxWrongAttempts {
		return q.onSkip(word)
	}

	word.Raise(2)
	return &AnswerResult{
		Outcome:       OutcomeWrong,
		Word:          word,
		WeightChanged: true,
		AttemptsLeft:  q.policy.MaxWrongAttempts - q.wrongInARow,
		Next:          word,
		Correct:       q.correct,
	}, nil
}

func (q *QuizSession) onCorrect(word *entities.Word) (*AnswerResult, error) {
	q.correct++
	word.Lower(1, q.policy.MinWeight)
	q.recent.Push(word)
	q.wrongInARow = 0

	res := &AnswerResult{
		Outcome:       OutcomeCorrect,
		Word:          word,
		WeightChanged: true,
		Correct:       q.correct,
	}

	if !q.policy.IsOpenEnded() && q.correct >= q.policy.Target {
		q.complete()
		res.Completed = true
		return res, nil
	}

	next, err := q.selector.Pick(q.words, q.recent.Items())
	if err != nil {
		return nil, err
	}
	q.current = next
	res.Next = next

	return res, nil
}

func (q *QuizSession) onSkip(word *entities.Word) (*AnswerResult, error) {
	word.Raise(1)
	q.recent.Push(word)
	q.wrongInARow = 0

	if q.policy.IsOpenEnded() && q.policy.PenalizeSkips && q.correct > 0 {
		q.correct--
	}

	next, err := q.pickOtherThan(word)
	if err != nil {
		return nil, err
	}
	q.current = next

	return &AnswerResult{
		Outcome:       OutcomeSkipped,
		Word:          word,
		WeightChanged: true,
		Next:          next,
		Correct:       q.correct,
	}, nil
}

// pickOtherThan selects the next word, trying to avoid skipped. When the
// retries keep returning the skipped word, the pick is made among the
// remaining words so the prompt always changes.
func (q *QuizSession) pickOtherThan(skipped *entities.Word) (*entities.Word, error) {
	next, err := q.selector.Pick(q.words, q.recent.Items())
	if err != nil {
		return nil, err
	}
	if len(q.words) <= 1 {
		return next, nil
	}

	for i := 0; next == skipped && i < skipRetries; i++ {
		if next, err = q.selector.Pick(q.words, q.recent.Items()); err != nil {
			return nil, err
		}
	}
	if next == skipped {
		return q.selector.Pick(q.words, []*entities.Word{skipped})
	}
	return next, nil
}

func (q *QuizSession) complete() {
	q.state = StateCompleted
	q.current = nil
	now := time.Now()
	q.completedAt = &now
}

// Snapshot copies the session state, including the word being asked.
func (q *QuizSession) Snapshot() QuizSnapshot {
	return QuizSnapshot{
		ID:        q.ID,
		Mode:      q.Mode,
		AlarmID:   q.AlarmID,
		StartedAt: q.StartedAt,
		Policy:    q.policy,
		State:     q.state,
		Correct:   q.correct,
		Question:  copyWord(q.current),
	}
}

func copyWord(w *entities.Word) *entities.Word {
	if w == nil {
		return nil
	}
	c := *w
	return &c
}

// Current returns the word awaiting an answer, or nil once completed.
func (q *QuizSession) Current() *entities.Word {
	return q.current
}

// State returns the session state.
func (q *QuizSession) State() QuizState {
	return q.state
}

// CorrectCount returns the number of correct answers so far.
func (q *QuizSession) CorrectCount() int {
	return q.correct
}

// WrongInARow returns the consecutive wrong answers on the current word.
func (q *QuizSession) WrongInARow() int {
	return q.wrongInARow
}

// Policy returns the rules the session runs with.
func (q *QuizSession) Policy() QuizPolicy {
	return q.policy
}

// Recent returns the words currently excluded from selection.
func (q *QuizSession) Recent() []*entities.Word {
	return q.recent.Items()
}

// CompletedAt returns when the session reached its target.
func (q *QuizSession) CompletedAt() *time.Time {
	return q.completedAt
}
