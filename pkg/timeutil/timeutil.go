// Package timeutil provides the program timezone and the parsing rules for
// session scheduling dates. Mentoria sessions are booked in Brazilian local
// time; everything is stored in UTC.
package timeutil

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// DefaultTimezone is the timezone used when none is configured.
const DefaultTimezone = "America/Sao_Paulo"

// Layouts accepted for scheduling dates, in order of preference.
const (
	FormatDateTimeLocal   = "2006-01-02T15:04"
	FormatDateTimeSeconds = "2006-01-02T15:04:05"
	FormatDate            = "2006-01-02"
)

var (
	mu  sync.RWMutex
	loc = fallbackLocation()
)

// BRT is used when the tz database is unavailable. Brazil dropped DST in 2019.
var BRT = time.FixedZone("BRT", -3*60*60)

func fallbackLocation() *time.Location {
	if l, err := time.LoadLocation(DefaultTimezone); err == nil {
		return l
	}
	return BRT
}

// SetLocation changes the program timezone.
func SetLocation(l *time.Location) {
	if l == nil {
		return
	}
	mu.Lock()
	loc = l
	mu.Unlock()
}

// Location returns the program timezone.
func Location() *time.Location {
	mu.RLock()
	defer mu.RUnlock()
	return loc
}

// Now returns the current time in UTC.
func Now() time.Time {
	return time.Now().UTC()
}

// Clock returns the current time. Command handlers take one so tests can pin time.
type Clock func() time.Time

// FixedClock returns a Clock that always reports t.
func FixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

// ToLocal converts a time to the program timezone.
func ToLocal(t time.Time) time.Time {
	return t.In(Location())
}

// ParseSchedule parses a scheduling date. RFC3339 values keep their offset;
// values without an offset ("2025-03-01T10:00") are read in the program timezone.
// The result is always UTC.
func ParseSchedule(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("timeutil: empty date")
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}

	for _, layout := range []string{FormatDateTimeLocal, FormatDateTimeSeconds, FormatDate} {
		if t, err := time.ParseInLocation(layout, value, Location()); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("timeutil: unrecognized date %q", value)
}

// FormatLocal formats t in the program timezone using FormatDateTimeLocal.
func FormatLocal(t time.Time) string {
	return ToLocal(t).Format(FormatDateTimeLocal)
}
