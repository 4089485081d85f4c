package service

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/aliskhannn/langalarm/internal/domain/entities"
	"github.com/aliskhannn/langalarm/internal/storage"
)

type quizFixture struct {
	svc       *QuizService
	words     *staticWords
	settings  *SettingsService
	weights   *fakeWeightSink
	dismisser *fakeDismisser
}

func newQuizFixture(t *testing.T, words []*entities.Word) *quizFixture {
	t.Helper()

	f := &quizFixture{
		words:     &staticWords{words: words},
		settings:  NewSettingsService(&fakeSettingsRepo{}),
		weights:   newFakeWeightSink(),
		dismisser: &fakeDismisser{},
	}
	f.svc = NewQuizService(
		f.words,
		f.settings,
		f.weights,
		NewSelector(rand.NewSource(7)),
		storage.NewQuizStorage[*QuizSession](),
		zaptest.NewLogger(t),
	)
	f.svc.SetDismisser(f.dismisser)
	return f
}

func TestQuizServiceAlarmQuizDismissesOnCompletion(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newQuizFixture(t, makeWords(5, 5, 5, 5))
	alarmID := uuid.New()

	session, err := f.svc.StartAlarmQuiz(ctx, alarmID)
	require.NoError(t, err)
	assert.Equal(t, QuizModeAlarm, session.Mode)
	assert.Equal(t, alarmID, session.AlarmID)
	assert.Equal(t, 3, session.Policy.Target, "default settings ask for three correct answers")

	for i := 0; i < 3; i++ {
		cur, ok := f.svc.CurrentQuestion()
		require.True(t, ok)

		res, _, err := f.svc.Answer(ctx, cur.Answer)
		require.NoError(t, err)
		assert.Equal(t, OutcomeCorrect, res.Outcome)
	}

	_, ok := f.svc.Current()
	assert.False(t, ok, "completed session is removed")
	assert.Equal(t, []uuid.UUID{alarmID}, f.dismisser.dismissed)
	assert.Len(t, f.weights.updates, 3)
}

func TestQuizServicePersistsWeightChanges(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newQuizFixture(t, makeWords(5, 5))

	_, err := f.svc.StartPractice(ctx, DefaultPracticeTarget, 2)
	require.NoError(t, err)

	cur, ok := f.svc.CurrentQuestion()
	require.True(t, ok)

	res, _, err := f.svc.Answer(ctx, "nope")
	require.NoError(t, err)
	assert.Equal(t, OutcomeWrong, res.Outcome)
	assert.Equal(t, 7, f.weights.updates[cur.ID])
	assert.Empty(t, f.dismisser.dismissed)
}

func TestQuizServiceNoActiveSession(t *testing.T) {
	t.Parallel()

	f := newQuizFixture(t, makeWords(5))

	_, _, err := f.svc.Answer(context.Background(), "x")
	assert.ErrorIs(t, err, ErrNoActiveSession)

	_, err = f.svc.Exit()
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestQuizServiceAlarmQuizBlocksPracticeAndExit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newQuizFixture(t, makeWords(5, 5, 5))
	alarmID := uuid.New()

	_, err := f.svc.StartAlarmQuiz(ctx, alarmID)
	require.NoError(t, err)

	_, err = f.svc.StartPractice(ctx, DefaultPracticeTarget, 2)
	assert.ErrorIs(t, err, ErrAlarmQuizActive)

	_, err = f.svc.Exit()
	assert.ErrorIs(t, err, ErrCannotExitAlarmQuiz)

	assert.False(t, f.svc.Abort(uuid.New()), "abort ignores other alarms")
	assert.True(t, f.svc.Abort(alarmID))

	_, ok := f.svc.Current()
	assert.False(t, ok)
}

func TestQuizServiceAlarmReplacesPractice(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newQuizFixture(t, makeWords(5, 5, 5))

	practice, err := f.svc.StartPractice(ctx, NoTarget, 2)
	require.NoError(t, err)

	alarm, err := f.svc.StartAlarmQuiz(ctx, uuid.New())
	require.NoError(t, err)

	cur, ok := f.svc.Current()
	require.True(t, ok)
	assert.Equal(t, alarm.ID, cur.ID)
	assert.NotEqual(t, practice.ID, cur.ID)
	assert.Equal(t, QuizModeAlarm, cur.Mode)
}

func TestQuizServiceExitPractice(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newQuizFixture(t, makeWords(5, 5))

	started, err := f.svc.StartPractice(ctx, NoTarget, 1)
	require.NoError(t, err)

	exited, err := f.svc.Exit()
	require.NoError(t, err)
	assert.Equal(t, started.ID, exited.ID)
	assert.Equal(t, QuizModePractice, exited.Mode)
}

func TestQuizServiceEmptyDeck(t *testing.T) {
	t.Parallel()

	f := newQuizFixture(t, nil)

	_, err := f.svc.StartAlarmQuiz(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNoWordsAvailable)

	f.words.err = errors.New("db down")
	_, err = f.svc.StartPractice(context.Background(), 5, 2)
	assert.Error(t, err)
}

// gatedWords blocks ActiveWords until release is closed.
type gatedWords struct {
	words   []*entities.Word
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *gatedWords) ActiveWords(ctx context.Context) ([]*entities.Word, error) {
	g.once.Do(func() {
		close(g.entered)
		<-g.release
	})
	return g.words, nil
}

func TestQuizServicePracticeDoesNotOverrideAlarmStartedMeanwhile(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newQuizFixture(t, makeWords(5, 5, 5))
	gate := &gatedWords{
		words:   makeWords(5, 5, 5),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	f.svc.words = gate

	errCh := make(chan error, 1)
	go func() {
		_, err := f.svc.StartPractice(ctx, DefaultPracticeTarget, 2)
		errCh <- err
	}()

	select {
	case <-gate.entered:
	case <-time.After(time.Second):
		t.Fatal("practice never loaded its words")
	}

	alarmID := uuid.New()
	alarm, err := f.svc.StartAlarmQuiz(ctx, alarmID)
	require.NoError(t, err)
	close(gate.release)

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, ErrAlarmQuizActive)
	case <-time.After(time.Second):
		t.Fatal("practice start did not return")
	}

	cur, ok := f.svc.Current()
	require.True(t, ok)
	assert.Equal(t, QuizModeAlarm, cur.Mode)
	assert.Equal(t, alarm.ID, cur.ID)
	assert.Equal(t, alarmID, cur.AlarmID)
}

func TestQuizServiceConcurrentAnswersAndReads(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newQuizFixture(t, makeWords(5, 5, 5, 5))

	started, err := f.svc.StartPractice(ctx, NoTarget, 2)
	require.NoError(t, err)

	const workers = 8
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				res, snap, err := f.svc.Answer(ctx, "nope")
				if !assert.NoError(t, err) {
					return
				}
				assert.Equal(t, 0, res.Correct)
				assert.NotNil(t, res.Next)
				assert.Equal(t, started.ID, snap.ID)
				assert.NotNil(t, snap.Question)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				snap, ok := f.svc.Current()
				if !assert.True(t, ok) {
					return
				}
				assert.Equal(t, 0, snap.Correct)
				assert.True(t, snap.Policy.IsOpenEnded())
				if assert.NotNil(t, snap.Question) {
					assert.NotEmpty(t, snap.Question.Answer)
				}
			}
		}()
	}
	wg.Wait()

	cur, ok := f.svc.Current()
	require.True(t, ok)
	assert.Equal(t, started.ID, cur.ID)
	assert.Equal(t, 0, cur.Correct)
}

func TestQuizServiceSnapshotsAreDetached(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newQuizFixture(t, makeWords(5))

	before, err := f.svc.StartPractice(ctx, NoTarget, 3)
	require.NoError(t, err)
	require.NotNil(t, before.Question)

	res, after, err := f.svc.Answer(ctx, "nope")
	require.NoError(t, err)
	assert.Equal(t, OutcomeWrong, res.Outcome)
	assert.Equal(t, 5, before.Question.Weight, "earlier snapshot keeps its weight")
	assert.Equal(t, 7, after.Question.Weight)

	res, _, err = f.svc.Answer(ctx, after.Question.Answer)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Correct)
	assert.Equal(t, 7, after.Question.Weight)
}
