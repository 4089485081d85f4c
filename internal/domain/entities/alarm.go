package entities

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidWeekday = errors.New("invalid weekday")

// Alarm is a wall-clock alarm. An alarm without days fires once and disables itself.
type Alarm struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Hour      int       `db:"hour" json:"hour" validate:"gte=0,lte=23"`
	Minute    int       `db:"minute" json:"minute" validate:"gte=0,lte=59"`
	Days      Weekdays  `db:"days" json:"days"` // empty for a one-time alarm
	Label     string    `db:"label" json:"label" validate:"max=64"`
	IsEnabled bool      `db:"is_enabled" json:"is_enabled"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// NewAlarm creates an enabled alarm.
func NewAlarm(hour, minute int, days Weekdays, label string) *Alarm {
	now := time.Now()
	return &Alarm{
		ID:        uuid.New(),
		Hour:      hour,
		Minute:    minute,
		Days:      days.Normalize(),
		Label:     strings.TrimSpace(label),
		IsEnabled: true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsRepeating reports whether the alarm fires on a weekly schedule.
func (a *Alarm) IsRepeating() bool {
	return len(a.Days) > 0
}

// NextTrigger returns the first instant strictly after now at which the alarm fires.
// The alarm time is interpreted in now's location.
func (a *Alarm) NextTrigger(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), a.Hour, a.Minute, 0, 0, now.Location())

	if !a.IsRepeating() {
		if !next.After(now) {
			next = next.AddDate(0, 0, 1)
		}
		return next
	}

	for !next.After(now) || !a.Days.Contains(next.Weekday()) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// CronSpec returns the five-field cron expression that fires the alarm.
func (a *Alarm) CronSpec() string {
	dow := "*"
	if a.IsRepeating() {
		parts := make([]string, 0, len(a.Days))
		for _, d := range a.Days.Normalize() {
			parts = append(parts, strconv.Itoa(int(d)))
		}
		dow = strings.Join(parts, ",")
	}
	return fmt.Sprintf("%d %d * * %s", a.Minute, a.Hour, dow)
}

// TimeString formats the alarm time as HH:MM.
func (a *Alarm) TimeString() string {
	return fmt.Sprintf("%02d:%02d", a.Hour, a.Minute)
}

// Weekdays is a set of days stored as a comma separated list of numbers (Sunday = 0).
type Weekdays []time.Weekday

// Contains reports whether d is in the set.
func (w Weekdays) Contains(d time.Weekday) bool {
	return slices.Contains(w, d)
}

// Normalize returns a sorted copy without duplicates.
func (w Weekdays) Normalize() Weekdays {
	out := slices.Clone(w)
	slices.Sort(out)
	return slices.Compact(out)
}

// String renders the set with short English day names.
func (w Weekdays) String() string {
	if len(w) == 0 {
		return "once"
	}
	names := make([]string, 0, len(w))
	for _, d := range w.Normalize() {
		names = append(names, d.String()[:3])
	}
	return strings.Join(names, ",")
}

// Value implements driver.Valuer.
func (w Weekdays) Value() (driver.Value, error) {
	parts := make([]string, 0, len(w))
	for _, d := range w.Normalize() {
		parts = append(parts, strconv.Itoa(int(d)))
	}
	return strings.Join(parts, ","), nil
}

// Scan implements sql.Scanner.
func (w *Weekdays) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case nil:
		*w = nil
		return nil
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("scan weekdays: unsupported type %T", src)
	}

	days := Weekdays{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > 6 {
			return fmt.Errorf("scan weekdays %q: %w", s, ErrInvalidWeekday)
		}
		days = append(days, time.Weekday(n))
	}
	*w = days.Normalize()
	return nil
}

var weekdayAliases = map[string]Weekdays{
	"once":     {},
	"daily":    {time.Sunday, time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday},
	"weekdays": {time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
	"weekends": {time.Saturday, time.Sunday},
}

// ParseWeekdays parses user input such as "mon,wed,fri", "weekdays" or "daily".
// An empty string yields a one-time alarm.
func ParseWeekdays(s string) (Weekdays, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Weekdays{}, nil
	}
	if days, ok := weekdayAliases[s]; ok {
		return days.Normalize(), nil
	}

	var days Weekdays
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if len(part) < 3 {
			return nil, fmt.Errorf("%q: %w", part, ErrInvalidWeekday)
		}
		found := false
		for d := time.Sunday; d <= time.Saturday; d++ {
			if strings.HasPrefix(strings.ToLower(d.String()), part[:3]) {
				days = append(days, d)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%q: %w", part, ErrInvalidWeekday)
		}
	}
	return days.Normalize(), nil
}

// ParseClock parses "HH:MM" into hour and minute.
func ParseClock(s string) (int, int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return t.Hour(), t.Minute(), nil
}
