package service

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/langalarm/internal/domain/entities"
)

func newTestSession(t *testing.T, seed int64, words []*entities.Word, p QuizPolicy) *QuizSession {
	t.Helper()

	q, err := NewQuizSession(QuizModePractice, words, p, NewSelector(rand.NewSource(seed)))
	require.NoError(t, err)
	return q
}

func TestNewQuizSessionValidation(t *testing.T) {
	t.Parallel()

	sel := NewSelector(rand.NewSource(1))
	words := makeWords(5)

	_, err := NewQuizSession(QuizModePractice, nil, PracticePolicy(3, 2), sel)
	assert.ErrorIs(t, err, ErrNoWordsAvailable)

	_, err = NewQuizSession(QuizModePractice, words, PracticePolicy(0, 2), sel)
	assert.ErrorIs(t, err, ErrInvalidPolicy)

	_, err = NewQuizSession(QuizModePractice, words, PracticePolicy(3, 0), sel)
	assert.ErrorIs(t, err, ErrInvalidPolicy)

	q, err := NewQuizSession(QuizModePractice, words, PracticePolicy(NoTarget, 1), sel)
	require.NoError(t, err)
	assert.Equal(t, StateAwaitingAnswer, q.State())
	assert.Same(t, words[0], q.Current())
}

func TestQuizSessionCorrectAnswerCompletesAtTarget(t *testing.T) {
	t.Parallel()

	words := makeWords(5, 5, 5)
	q := newTestSession(t, 1, words, PracticePolicy(2, 2))

	first := q.Current()
	res, err := q.Answer("  " + first.Answer + " ")
	require.NoError(t, err)
	assert.Equal(t, OutcomeCorrect, res.Outcome)
	assert.Equal(t, 4, first.Weight)
	assert.False(t, res.Completed)
	assert.NotSame(t, first, res.Next, "recent buffer must prevent an immediate repeat")
	assert.Equal(t, 1, q.CorrectCount())

	second := q.Current()
	res, err = q.Answer(second.Answer)
	require.NoError(t, err)
	assert.True(t, res.Completed)
	assert.Nil(t, res.Next)
	assert.Equal(t, StateCompleted, q.State())
	assert.NotNil(t, q.CompletedAt())
	assert.Nil(t, q.Current())

	_, err = q.Answer("anything")
	assert.ErrorIs(t, err, ErrSessionCompleted)
}

func TestQuizSessionWrongThenSkip(t *testing.T) {
	t.Parallel()

	words := makeWords(4, 4, 4)
	q := newTestSession(t, 2, words, PracticePolicy(5, 3))
	word := q.Current()

	res, err := q.Answer("nope")
	require.NoError(t, err)
	assert.Equal(t, OutcomeWrong, res.Outcome)
	assert.Equal(t, 6, word.Weight)
	assert.Equal(t, 2, res.AttemptsLeft)
	assert.Same(t, word, q.Current())

	res, err = q.Answer("still nope")
	require.NoError(t, err)
	assert.Equal(t, OutcomeWrong, res.Outcome)
	assert.Equal(t, 8, word.Weight)
	assert.Equal(t, 1, res.AttemptsLeft)

	res, err = q.Answer("wrong again")
	require.NoError(t, err)
	assert.Equal(t, OutcomeSkipped, res.Outcome)
	assert.Equal(t, 9, word.Weight)
	assert.NotSame(t, word, q.Current())
	assert.Equal(t, 0, q.WrongInARow())
	assert.Contains(t, q.Recent(), word)
}

func TestQuizSessionWrongResetsOnCorrect(t *testing.T) {
	t.Parallel()

	q := newTestSession(t, 3, makeWords(5, 5), PracticePolicy(NoTarget, 2))

	word := q.Current()
	_, err := q.Answer("x")
	require.NoError(t, err)
	assert.Equal(t, 1, q.WrongInARow())

	_, err = q.Answer(word.Answer)
	require.NoError(t, err)
	assert.Equal(t, 0, q.WrongInARow())
}

func TestQuizSessionSkipAlwaysChangesWord(t *testing.T) {
	t.Parallel()

	for seed := int64(0); seed < 200; seed++ {
		// Capacity larger than the word count forces the selector into its
		// uniform fallback, which is where a repeat could slip through.
		p := PracticePolicy(NoTarget, 1)
		p.RecentCapacity = 5
		q := newTestSession(t, seed, makeWords(0, 10), p)

		for range 20 {
			before := q.Current()
			res, err := q.Answer("definitely wrong")
			require.NoError(t, err)
			require.Equal(t, OutcomeSkipped, res.Outcome)
			require.NotSame(t, before, q.Current(), "seed %d", seed)
		}
	}
}

func TestQuizSessionSingleWordSkipKeepsWord(t *testing.T) {
	t.Parallel()

	words := makeWords(3)
	q := newTestSession(t, 1, words, PracticePolicy(NoTarget, 1))

	res, err := q.Answer("wrong")
	require.NoError(t, err)
	assert.Equal(t, OutcomeSkipped, res.Outcome)
	assert.Same(t, words[0], q.Current())
}

func TestQuizSessionWeightsStayInRange(t *testing.T) {
	t.Parallel()

	words := makeWords(0, 1, 9, 10, 5)
	q := newTestSession(t, 11, words, PracticePolicy(NoTarget, 2))
	rng := rand.New(rand.NewSource(12))

	for range 5000 {
		answer := "wrong"
		if rng.Intn(2) == 0 {
			answer = q.Current().Answer
		}
		_, err := q.Answer(answer)
		require.NoError(t, err)

		for _, w := range words {
			require.GreaterOrEqual(t, w.Weight, entities.MinWeight)
			require.LessOrEqual(t, w.Weight, entities.MaxWeight)
		}
	}
}

func TestQuizSessionAlarmFloor(t *testing.T) {
	t.Parallel()

	words := makeWords(1, 1, 1, 1)
	settings := entities.NewSettings()
	q, err := NewQuizSession(QuizModeAlarm, words, AlarmPolicy(settings), NewSelector(rand.NewSource(4)))
	require.NoError(t, err)

	word := q.Current()
	_, err = q.Answer(word.Answer)
	require.NoError(t, err)
	assert.Equal(t, 1, word.Weight, "alarm quiz never lowers a weight below 1")
}

func TestQuizSessionOpenEndedSkipPenalty(t *testing.T) {
	t.Parallel()

	q := newTestSession(t, 6, makeWords(5, 5, 5, 5), PracticePolicy(NoTarget, 1))

	res, err := q.Answer(q.Current().Answer)
	require.NoError(t, err)
	require.Equal(t, 1, q.CorrectCount())
	assert.Equal(t, 1, res.Correct)

	res, err = q.Answer("wrong")
	require.NoError(t, err)
	assert.Equal(t, 0, q.CorrectCount())
	assert.Equal(t, 0, res.Correct, "result carries the score after the penalty")

	res, err = q.Answer("wrong")
	require.NoError(t, err)
	assert.Equal(t, 0, q.CorrectCount(), "score never drops below zero")
	assert.Equal(t, 0, res.Correct)
}

func TestQuizSessionTargetedSkipKeepsScore(t *testing.T) {
	t.Parallel()

	q := newTestSession(t, 8, makeWords(5, 5, 5, 5), PracticePolicy(5, 1))

	_, err := q.Answer(q.Current().Answer)
	require.NoError(t, err)
	_, err = q.Answer("wrong")
	require.NoError(t, err)
	assert.Equal(t, 1, q.CorrectCount())
}

func TestQuizSessionSnapshotCopiesQuestion(t *testing.T) {
	t.Parallel()

	words := makeWords(5, 5)
	q := newTestSession(t, 2, words, PracticePolicy(1, 2))

	snap := q.Snapshot()
	require.NotNil(t, snap.Question)
	assert.Equal(t, q.ID, snap.ID)
	assert.Equal(t, QuizModePractice, snap.Mode)
	assert.Equal(t, 1, snap.Policy.Target)
	assert.Equal(t, StateAwaitingAnswer, snap.State)
	assert.NotSame(t, q.Current(), snap.Question)
	assert.Equal(t, *q.Current(), *snap.Question)

	_, err := q.Answer(q.Current().Answer)
	require.NoError(t, err)

	done := q.Snapshot()
	assert.Equal(t, StateCompleted, done.State)
	assert.Equal(t, 1, done.Correct)
	assert.Nil(t, done.Question)
	assert.Equal(t, 0, snap.Correct, "earlier snapshot is unchanged")
}
