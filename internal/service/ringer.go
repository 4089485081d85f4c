package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aliskhannn/langalarm/internal/domain/entities"
)

var ErrNotRinging = errors.New("no alarm is ringing")

// StopReason tells why a ringing alarm stopped.
type StopReason string

const (
	StopSolved  StopReason = "solved"
	StopForced  StopReason = "forced"
	StopTimeout StopReason = "timeout"
)

type RingQuiz interface {
	StartAlarmQuiz(ctx context.Context, alarmID uuid.UUID) (QuizSnapshot, error)
	CurrentQuestion() (*entities.Word, bool)
	Abort(alarmID uuid.UUID) bool
}

type SoundResolver interface {
	ActivePath(ctx context.Context) (string, error)
}

type ringState struct {
	alarm     *entities.Alarm
	startedAt time.Time
	emptyDeck bool
	jobs      []*gocron.Job
}

// Ringer keeps an alarm ringing until its quiz is solved, it is forced to
// stop, or the ring timeout elapses. Only one alarm rings at a time.
type Ringer struct {
	mu          sync.Mutex
	quiz        RingQuiz
	sounds      SoundResolver
	notifier    AlarmNotifier
	scheduler   *gocron.Scheduler
	repeatEvery time.Duration
	timeout     time.Duration
	ringing     *ringState
	logger      *zap.Logger
}

func NewRinger(
	quiz RingQuiz,
	sounds SoundResolver,
	repeatEvery time.Duration,
	timeout time.Duration,
	loc *time.Location,
	logger *zap.Logger,
) *Ringer {
	if loc == nil {
		loc = time.UTC
	}
	if repeatEvery <= 0 {
		repeatEvery = time.Minute
	}
	return &Ringer{
		quiz:        quiz,
		sounds:      sounds,
		scheduler:   gocron.NewScheduler(loc),
		repeatEvery: repeatEvery,
		timeout:     timeout,
		logger:      logger,
	}
}

// SetNotifier sets the notifier (called after the delivery layer is created).
func (r *Ringer) SetNotifier(n AlarmNotifier) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifier = n
}

// Run starts the repeat scheduler and blocks until ctx is done.
func (r *Ringer) Run(ctx context.Context) error {
	r.scheduler.StartAsync()
	r.logger.Info("ringer started",
		zap.Duration("repeat_every", r.repeatEvery),
		zap.Duration("timeout", r.timeout),
	)

	<-ctx.Done()

	r.scheduler.Stop()
	r.logger.Info("ringer stopped")
	return nil
}

// Ring starts ringing alarm with a fresh alarm quiz. A second alarm that
// fires while one is ringing is ignored.
func (r *Ringer) Ring(ctx context.Context, alarm *entities.Alarm) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ringing != nil {
		r.logger.Warn("alarm already ringing, ignoring",
			zap.String("ringing_alarm_id", r.ringing.alarm.ID.String()),
			zap.String("alarm_id", alarm.ID.String()),
		)
		return nil
	}
	if r.notifier == nil {
		return fmt.Errorf("notifier not initialized")
	}

	state := &ringState{alarm: alarm, startedAt: time.Now()}

	session, err := r.quiz.StartAlarmQuiz(ctx, alarm.ID)
	switch {
	case errors.Is(err, ErrNoWordsAvailable):
		state.emptyDeck = true
		if err := r.notifier.NotifyEmptyDeck(ctx, alarm); err != nil {
			r.logger.Error("failed to notify empty deck", zap.Error(err))
		}
	case err != nil:
		return fmt.Errorf("start alarm quiz: %w", err)
	default:
		sound, err := r.sounds.ActivePath(ctx)
		if err != nil {
			r.logger.Warn("failed to resolve alarm sound, using default", zap.Error(err))
			sound = entities.DefaultSound
		}
		if err := r.notifier.NotifyAlarm(ctx, alarm, session.Question, sound); err != nil {
			r.logger.Error("failed to notify alarm", zap.String("alarm_id", alarm.ID.String()), zap.Error(err))
		}
	}

	if err := r.scheduleJobs(ctx, state); err != nil {
		r.quiz.Abort(alarm.ID)
		return err
	}
	r.ringing = state

	r.logger.Info("alarm ringing",
		zap.String("alarm_id", alarm.ID.String()),
		zap.String("label", alarm.Label),
		zap.Bool("empty_deck", state.emptyDeck),
	)

	return nil
}

func (r *Ringer) scheduleJobs(ctx context.Context, state *ringState) error {
	alarmID := state.alarm.ID

	repeat, err := r.scheduler.Every(r.repeatEvery).WaitForSchedule().Do(func() {
		r.remind(ctx, alarmID)
	})
	if err != nil {
		return fmt.Errorf("schedule ring repeat: %w", err)
	}
	state.jobs = append(state.jobs, repeat)

	if r.timeout > 0 {
		stop, err := r.scheduler.Every(r.timeout).WaitForSchedule().LimitRunsTo(1).Do(func() {
			r.stop(ctx, alarmID, StopTimeout)
		})
		if err != nil {
			r.scheduler.RemoveByReference(repeat)
			return fmt.Errorf("schedule ring timeout: %w", err)
		}
		state.jobs = append(state.jobs, stop)
	}

	return nil
}

func (r *Ringer) remind(ctx context.Context, alarmID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ringing == nil || r.ringing.alarm.ID != alarmID {
		return
	}

	if r.ringing.emptyDeck {
		if err := r.notifier.NotifyEmptyDeck(ctx, r.ringing.alarm); err != nil {
			r.logger.Error("failed to repeat empty deck notice", zap.Error(err))
		}
		return
	}

	question, ok := r.quiz.CurrentQuestion()
	if !ok {
		return
	}
	if err := r.notifier.NotifyRinging(ctx, r.ringing.alarm, question); err != nil {
		r.logger.Error("failed to repeat ringing notification", zap.String("alarm_id", alarmID.String()), zap.Error(err))
	}
}

// Dismiss stops the alarm after its quiz was solved.
func (r *Ringer) Dismiss(ctx context.Context, alarmID uuid.UUID) {
	r.stop(ctx, alarmID, StopSolved)
}

// ForceStop stops whatever alarm is ringing and drops its quiz.
func (r *Ringer) ForceStop(ctx context.Context) (*entities.Alarm, error) {
	r.mu.Lock()
	state := r.ringing
	r.mu.Unlock()

	if state == nil {
		return nil, ErrNotRinging
	}
	if !r.stop(ctx, state.alarm.ID, StopForced) {
		return nil, ErrNotRinging
	}
	return state.alarm, nil
}

// Ringing returns the alarm currently ringing.
func (r *Ringer) Ringing() (*entities.Alarm, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ringing == nil {
		return nil, false
	}
	return r.ringing.alarm, true
}

func (r *Ringer) stop(ctx context.Context, alarmID uuid.UUID, reason StopReason) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	state := r.ringing
	if state == nil || state.alarm.ID != alarmID {
		return false
	}

	for _, job := range state.jobs {
		r.scheduler.RemoveByReference(job)
	}
	r.ringing = nil

	if reason != StopSolved {
		r.quiz.Abort(alarmID)
	}

	if r.notifier != nil {
		if err := r.notifier.NotifyStopped(ctx, state.alarm, reason); err != nil {
			r.logger.Error("failed to notify stopped alarm", zap.Error(err))
		}
	}

	r.logger.Info("alarm stopped",
		zap.String("alarm_id", alarmID.String()),
		zap.String("reason", string(reason)),
		zap.Duration("rang_for", time.Since(state.startedAt)),
	)

	return true
}
