package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/aliskhannn/langalarm/internal/domain/entities"
)

// AlarmFunc is invoked when a scheduled alarm is due.
type AlarmFunc func(ctx context.Context, alarmID uuid.UUID)

// AlarmScheduler keeps one cron entry per enabled alarm.
type AlarmScheduler struct {
	mu      sync.Mutex
	cron    *cron.Cron
	entries map[uuid.UUID]cron.EntryID
	handler AlarmFunc
	ctx     context.Context
	logger  *zap.Logger
}

func NewAlarmScheduler(loc *time.Location, logger *zap.Logger) *AlarmScheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &AlarmScheduler{
		cron:    cron.New(cron.WithLocation(loc)),
		entries: make(map[uuid.UUID]cron.EntryID),
		ctx:     context.Background(),
		logger:  logger,
	}
}

// SetHandler sets the function run for due alarms (called after the alarm service is created).
func (s *AlarmScheduler) SetHandler(fn AlarmFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = fn
}

// Schedule registers the alarm, replacing an earlier entry for the same ID.
// Disabled alarms are only removed.
func (s *AlarmScheduler) Schedule(alarm *entities.Alarm) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeLocked(alarm.ID)
	if !alarm.IsEnabled {
		return nil
	}

	id := alarm.ID
	entryID, err := s.cron.AddFunc(alarm.CronSpec(), func() {
		s.fire(id)
	})
	if err != nil {
		return fmt.Errorf("add cron job for alarm %s: %w", id, err)
	}
	s.entries[id] = entryID

	s.logger.Debug("alarm scheduled",
		zap.String("alarm_id", id.String()),
		zap.String("spec", alarm.CronSpec()),
	)

	return nil
}

// Cancel removes the alarm from the schedule.
func (s *AlarmScheduler) Cancel(alarmID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(alarmID)
}

// Next returns the next time the alarm fires according to the schedule.
func (s *AlarmScheduler) Next(alarmID uuid.UUID) (time.Time, bool) {
	s.mu.Lock()
	entryID, ok := s.entries[alarmID]
	s.mu.Unlock()
	if !ok {
		return time.Time{}, false
	}

	entry := s.cron.Entry(entryID)
	if !entry.Valid() || entry.Next.IsZero() {
		return time.Time{}, false
	}
	return entry.Next, true
}

// Len returns the number of scheduled alarms.
func (s *AlarmScheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Run starts the cron loop and blocks until ctx is done.
func (s *AlarmScheduler) Run(ctx context.Context) error {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()

	s.cron.Start()
	s.logger.Info("alarm scheduler started", zap.Int("alarms", s.Len()))

	<-ctx.Done()

	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.logger.Info("alarm scheduler stopped")

	return nil
}

func (s *AlarmScheduler) fire(alarmID uuid.UUID) {
	s.mu.Lock()
	handler, ctx := s.handler, s.ctx
	s.mu.Unlock()

	if handler == nil {
		s.logger.Error("alarm handler not set, cannot fire alarm", zap.String("alarm_id", alarmID.String()))
		return
	}

	s.logger.Info("cron triggered: alarm due", zap.String("alarm_id", alarmID.String()))
	handler(ctx, alarmID)
}

func (s *AlarmScheduler) removeLocked(alarmID uuid.UUID) {
	if entryID, ok := s.entries[alarmID]; ok {
		s.cron.Remove(entryID)
		delete(s.entries, alarmID)
	}
}
