package entities

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseLocation resolves the configured alarm timezone. It accepts:
//   - IANA names such as "Europe/Berlin"
//   - "UTC", "GMT", "Local" and the empty string (UTC)
//   - fixed offsets: "UTC+3", "UTC-07:00", "+05:30"
//
// Fixed offsets produce a time.FixedZone and ignore daylight saving time.
func ParseLocation(tz string) (*time.Location, error) {
	tz = strings.TrimSpace(tz)
	switch strings.ToUpper(tz) {
	case "", "UTC", "ETC/UTC", "GMT":
		return time.UTC, nil
	case "LOCAL":
		return time.Local, nil
	}

	if loc, err := time.LoadLocation(tz); err == nil {
		return loc, nil
	}

	offset, ok := parseOffset(tz)
	if !ok {
		return nil, fmt.Errorf("unsupported timezone %q", tz)
	}
	return time.FixedZone(offsetName(offset), offset), nil
}

// parseOffset converts "UTC+3", "+3" or "-03:30" into seconds east of UTC.
func parseOffset(s string) (int, bool) {
	if len(s) >= 3 && strings.EqualFold(s[:3], "UTC") {
		s = strings.TrimSpace(s[3:])
	}
	if len(s) < 2 {
		return 0, false
	}

	sign := 1
	switch s[0] {
	case '+':
	case '-':
		sign = -1
	default:
		return 0, false
	}

	hh, mm, found := strings.Cut(s[1:], ":")
	if !found {
		mm = "0"
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 14 {
		return 0, false
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m >= 60 {
		return 0, false
	}

	return sign * (h*3600 + m*60), true
}

func offsetName(offset int) string {
	sign := '+'
	if offset < 0 {
		sign = '-'
		offset = -offset
	}
	return fmt.Sprintf("UTC%c%02d:%02d", sign, offset/3600, (offset%3600)/60)
}
