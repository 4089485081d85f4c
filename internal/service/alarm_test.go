package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/aliskhannn/langalarm/internal/domain/entities"
	"github.com/aliskhannn/langalarm/internal/repository"
)

type alarmFixture struct {
	svc     *AlarmService
	repo    *fakeAlarmRepo
	trigger *fakeTrigger
	ringer  *fakeAlarmRinger
}

func newAlarmFixture(t *testing.T) *alarmFixture {
	t.Helper()

	f := &alarmFixture{
		repo:    newFakeAlarmRepo(),
		trigger: newFakeTrigger(),
		ringer:  &fakeAlarmRinger{},
	}
	f.svc = NewAlarmService(f.repo, f.trigger, f.ringer, time.UTC, zaptest.NewLogger(t))
	return f
}

func TestAlarmServiceCreate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newAlarmFixture(t)

	alarm, err := f.svc.Create(ctx, AlarmInput{
		Hour:   7,
		Minute: 30,
		Days:   entities.Weekdays{time.Friday, time.Monday},
		Label:  "  work  ",
	})
	require.NoError(t, err)

	assert.True(t, alarm.IsEnabled)
	assert.Equal(t, "work", alarm.Label)
	assert.Equal(t, entities.Weekdays{time.Monday, time.Friday}, alarm.Days)
	assert.True(t, f.trigger.isScheduled(alarm.ID))

	stored, err := f.svc.Get(ctx, alarm.ID)
	require.NoError(t, err)
	assert.Equal(t, alarm.ID, stored.ID)
}

func TestAlarmServiceCreateValidation(t *testing.T) {
	t.Parallel()

	f := newAlarmFixture(t)

	tests := []struct {
		name string
		in   AlarmInput
	}{
		{"hour too large", AlarmInput{Hour: 24}},
		{"negative minute", AlarmInput{Minute: -1}},
		{"bad weekday", AlarmInput{Days: entities.Weekdays{7}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(context.Background(), tt.in)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestAlarmServiceToggleAndDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newAlarmFixture(t)

	alarm, err := f.svc.Create(ctx, AlarmInput{Hour: 6})
	require.NoError(t, err)

	toggled, err := f.svc.Toggle(ctx, alarm.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsEnabled)
	assert.False(t, f.trigger.isScheduled(alarm.ID))

	toggled, err = f.svc.Toggle(ctx, alarm.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsEnabled)
	assert.True(t, f.trigger.isScheduled(alarm.ID))

	require.NoError(t, f.svc.Delete(ctx, alarm.ID))
	assert.False(t, f.trigger.isScheduled(alarm.ID))

	_, err = f.svc.Get(ctx, alarm.ID)
	assert.ErrorIs(t, err, repository.ErrAlarmNotFound)
}

func TestAlarmServiceUpdate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newAlarmFixture(t)

	alarm, err := f.svc.Create(ctx, AlarmInput{Hour: 6})
	require.NoError(t, err)

	disabled := false
	updated, err := f.svc.Update(ctx, alarm.ID, AlarmInput{Hour: 8, Minute: 15, Enabled: &disabled})
	require.NoError(t, err)
	assert.Equal(t, "08:15", updated.TimeString())
	assert.False(t, f.trigger.isScheduled(alarm.ID))

	_, err = f.svc.Update(ctx, uuid.New(), AlarmInput{Hour: 1})
	assert.ErrorIs(t, err, repository.ErrAlarmNotFound)
}

func TestAlarmServiceFireOneTimeDisables(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newAlarmFixture(t)

	once, err := f.svc.Create(ctx, AlarmInput{Hour: 6})
	require.NoError(t, err)
	weekly, err := f.svc.Create(ctx, AlarmInput{Hour: 7, Days: entities.Weekdays{time.Monday}})
	require.NoError(t, err)

	require.NoError(t, f.svc.Fire(ctx, once.ID))
	require.NoError(t, f.svc.Fire(ctx, weekly.ID))
	require.Len(t, f.ringer.rung, 2)

	stored, err := f.svc.Get(ctx, once.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsEnabled)
	assert.False(t, f.trigger.isScheduled(once.ID))

	stored, err = f.svc.Get(ctx, weekly.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsEnabled)
	assert.True(t, f.trigger.isScheduled(weekly.ID))

	require.NoError(t, f.svc.Fire(ctx, once.ID), "disabled alarm is ignored")
	assert.Len(t, f.ringer.rung, 2)

	assert.ErrorIs(t, f.svc.Fire(ctx, uuid.New()), repository.ErrAlarmNotFound)
}

func TestAlarmServiceRescheduleAll(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newAlarmFixture(t)

	on := entities.NewAlarm(6, 0, nil, "")
	off := entities.NewAlarm(7, 0, nil, "")
	off.IsEnabled = false
	require.NoError(t, f.repo.Upsert(ctx, on))
	require.NoError(t, f.repo.Upsert(ctx, off))

	n, err := f.svc.RescheduleAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, f.trigger.isScheduled(on.ID))
	assert.False(t, f.trigger.isScheduled(off.ID))
}

func TestAlarmServiceNextTrigger(t *testing.T) {
	t.Parallel()

	f := newAlarmFixture(t)
	f.svc.now = func() time.Time { return time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC) } // Monday

	alarm := entities.NewAlarm(7, 0, entities.Weekdays{time.Monday, time.Wednesday}, "")
	assert.Equal(t, time.Date(2024, 3, 6, 7, 0, 0, 0, time.UTC), f.svc.NextTrigger(alarm))
}

func TestAlarmSchedulerScheduleAndCancel(t *testing.T) {
	t.Parallel()

	s := NewAlarmScheduler(time.UTC, zaptest.NewLogger(t))

	alarm := entities.NewAlarm(6, 30, nil, "")
	require.NoError(t, s.Schedule(alarm))
	require.NoError(t, s.Schedule(alarm), "rescheduling replaces the entry")
	assert.Equal(t, 1, s.Len())

	alarm.IsEnabled = false
	require.NoError(t, s.Schedule(alarm))
	assert.Equal(t, 0, s.Len())

	alarm.IsEnabled = true
	require.NoError(t, s.Schedule(alarm))
	s.Cancel(alarm.ID)
	assert.Equal(t, 0, s.Len())
}

func TestAlarmSchedulerFiresHandler(t *testing.T) {
	t.Parallel()

	s := NewAlarmScheduler(time.UTC, zaptest.NewLogger(t))

	fired := make(chan uuid.UUID, 1)
	s.SetHandler(func(_ context.Context, id uuid.UUID) { fired <- id })

	id := uuid.New()
	s.fire(id)
	assert.Equal(t, id, <-fired)
}
