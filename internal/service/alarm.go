package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aliskhannn/langalarm/internal/domain/entities"
	"github.com/aliskhannn/langalarm/internal/repository"
)

// AlarmInput carries the user editable fields of an alarm.
type AlarmInput struct {
	Hour    int               `json:"hour" validate:"gte=0,lte=23"`
	Minute  int               `json:"minute" validate:"gte=0,lte=59"`
	Days    entities.Weekdays `json:"days" validate:"max=7,dive,gte=0,lte=6"`
	Label   string            `json:"label" validate:"max=64"`
	Enabled *bool             `json:"enabled,omitempty"`
}

type AlarmTrigger interface {
	Schedule(alarm *entities.Alarm) error
	Cancel(alarmID uuid.UUID)
}

type AlarmRinger interface {
	Ring(ctx context.Context, alarm *entities.Alarm) error
}

// AlarmService manages alarms and keeps the schedule in sync with storage.
type AlarmService struct {
	repo      AlarmRepository
	scheduler AlarmTrigger
	ringer    AlarmRinger
	loc       *time.Location
	now       func() time.Time
	logger    *zap.Logger
}

func NewAlarmService(
	repo AlarmRepository,
	scheduler AlarmTrigger,
	ringer AlarmRinger,
	loc *time.Location,
	logger *zap.Logger,
) *AlarmService {
	if loc == nil {
		loc = time.UTC
	}
	return &AlarmService{
		repo:      repo,
		scheduler: scheduler,
		ringer:    ringer,
		loc:       loc,
		now:       time.Now,
		logger:    logger,
	}
}

func (s *AlarmService) List(ctx context.Context) ([]*entities.Alarm, error) {
	alarms, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list alarms: %w", err)
	}
	return alarms, nil
}

func (s *AlarmService) Get(ctx context.Context, id uuid.UUID) (*entities.Alarm, error) {
	return s.repo.GetByID(ctx, id)
}

// Create stores a new alarm and schedules it.
func (s *AlarmService) Create(ctx context.Context, in AlarmInput) (*entities.Alarm, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	alarm := entities.NewAlarm(in.Hour, in.Minute, in.Days, in.Label)
	if in.Enabled != nil {
		alarm.IsEnabled = *in.Enabled
	}

	if err := s.save(ctx, alarm); err != nil {
		return nil, err
	}

	s.logger.Info("alarm created",
		zap.String("alarm_id", alarm.ID.String()),
		zap.String("time", alarm.TimeString()),
		zap.String("days", alarm.Days.String()),
	)

	return alarm, nil
}

// Update replaces the editable fields of an alarm and reschedules it.
func (s *AlarmService) Update(ctx context.Context, id uuid.UUID, in AlarmInput) (*entities.Alarm, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	alarm, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	alarm.Hour = in.Hour
	alarm.Minute = in.Minute
	alarm.Days = in.Days.Normalize()
	alarm.Label = strings.TrimSpace(in.Label)
	if in.Enabled != nil {
		alarm.IsEnabled = *in.Enabled
	}
	alarm.UpdatedAt = s.now()

	if err := s.save(ctx, alarm); err != nil {
		return nil, err
	}

	return alarm, nil
}

// Delete removes an alarm and its schedule.
func (s *AlarmService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.scheduler.Cancel(id)

	s.logger.Info("alarm deleted", zap.String("alarm_id", id.String()))
	return nil
}

// Toggle flips the enabled flag of an alarm.
func (s *AlarmService) Toggle(ctx context.Context, id uuid.UUID) (*entities.Alarm, error) {
	alarm, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	alarm.IsEnabled = !alarm.IsEnabled
	if err := s.repo.SetEnabled(ctx, id, alarm.IsEnabled); err != nil {
		return nil, fmt.Errorf("set alarm enabled: %w", err)
	}
	if err := s.scheduler.Schedule(alarm); err != nil {
		return nil, err
	}

	return alarm, nil
}

// RescheduleAll registers every enabled alarm. It is run once on startup.
func (s *AlarmService) RescheduleAll(ctx context.Context) (int, error) {
	alarms, err := s.repo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list alarms: %w", err)
	}

	scheduled := 0
	for _, alarm := range alarms {
		if !alarm.IsEnabled {
			continue
		}
		if err := s.scheduler.Schedule(alarm); err != nil {
			s.logger.Error("failed to schedule alarm",
				zap.String("alarm_id", alarm.ID.String()),
				zap.Error(err),
			)
			continue
		}
		scheduled++
	}

	s.logger.Info("alarms rescheduled", zap.Int("scheduled", scheduled), zap.Int("total", len(alarms)))
	return scheduled, nil
}

// Fire rings a due alarm. One-time alarms are disabled before ringing.
func (s *AlarmService) Fire(ctx context.Context, id uuid.UUID) error {
	alarm, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAlarmNotFound) {
			s.scheduler.Cancel(id)
		}
		return fmt.Errorf("get alarm: %w", err)
	}

	if !alarm.IsEnabled {
		s.scheduler.Cancel(id)
		return nil
	}

	if !alarm.IsRepeating() {
		alarm.IsEnabled = false
		if err := s.repo.SetEnabled(ctx, id, false); err != nil {
			s.logger.Error("failed to disable one-time alarm", zap.String("alarm_id", id.String()), zap.Error(err))
		}
		s.scheduler.Cancel(id)
	}

	return s.ringer.Ring(ctx, alarm)
}

// HandleDue is the AlarmFunc registered with the scheduler.
func (s *AlarmService) HandleDue(ctx context.Context, id uuid.UUID) {
	if err := s.Fire(ctx, id); err != nil {
		s.logger.Error("failed to fire alarm", zap.String("alarm_id", id.String()), zap.Error(err))
	}
}

// NextTrigger returns when the alarm fires next in the configured location.
func (s *AlarmService) NextTrigger(alarm *entities.Alarm) time.Time {
	return alarm.NextTrigger(s.now().In(s.loc))
}

// Location returns the location alarm times are interpreted in.
func (s *AlarmService) Location() *time.Location {
	return s.loc
}

func (s *AlarmService) save(ctx context.Context, alarm *entities.Alarm) error {
	if err := s.repo.Upsert(ctx, alarm); err != nil {
		return fmt.Errorf("save alarm: %w", err)
	}
	if err := s.scheduler.Schedule(alarm); err != nil {
		return err
	}
	return nil
}
