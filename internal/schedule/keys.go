// Package schedule converts between calendar dates, slot keys, and UTC
// instants. Slot keys are the aggregation dimension for the whole system:
// a date key "YYYY-MM-DD" for whole-day polls, a composite
// "YYYY-MM-DD-HH:MM" for sub-day grids.
package schedule

import (
	"fmt"
	"time"
)

const dateKeyLayout = "2006-01-02"

// FormatDateKey canonicalizes a calendar date to its YYYY-MM-DD key.
func FormatDateKey(t time.Time) string {
	return t.Format(dateKeyLayout)
}

// ParseDateKey parses a YYYY-MM-DD key back to midnight UTC of that date.
// It is the exact left inverse of FormatDateKey.
func ParseDateKey(key string) (time.Time, error) {
	t, err := time.Parse(dateKeyLayout, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date key %q: %w", key, err)
	}
	return t, nil
}

// SlotKey builds the composite key for one sub-day slot.
func SlotKey(dateKey string, hour, minute int) string {
	return fmt.Sprintf("%s-%02d:%02d", dateKey, hour, minute)
}

// ParseSlotKey recovers the date key, hour, and minute a SlotKey was built
// from. The date key itself contains dashes, so the key is split at the
// fixed date-key width rather than on dashes. The time part must be exactly
// two digit pairs around a colon; stray characters are rejected rather than
// tolerated, keeping ParseSlotKey a strict left inverse of SlotKey.
func ParseSlotKey(key string) (dateKey string, hour, minute int, err error) {
	if len(key) != len(dateKeyLayout)+6 || key[len(dateKeyLayout)] != '-' {
		return "", 0, 0, fmt.Errorf("malformed slot key %q", key)
	}
	dateKey = key[:len(dateKeyLayout)]
	if _, err = ParseDateKey(dateKey); err != nil {
		return "", 0, 0, err
	}
	clock := key[len(dateKeyLayout)+1:]
	hour, hourOK := twoDigits(clock[:2])
	minute, minuteOK := twoDigits(clock[3:])
	if clock[2] != ':' || !hourOK || !minuteOK {
		return "", 0, 0, fmt.Errorf("malformed slot key %q", key)
	}
	if hour > 23 || minute > 59 {
		return "", 0, 0, fmt.Errorf("slot key %q out of range", key)
	}
	return dateKey, hour, minute, nil
}

// twoDigits parses a zero-padded two-digit pair, rejecting anything that is
// not exactly two ASCII digits.
func twoDigits(s string) (int, bool) {
	if s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' {
		return 0, false
	}
	return int(s[0]-'0')*10 + int(s[1]-'0'), true
}

// LocalToUTC converts a wall-clock date+time in an IANA zone to the UTC
// instant stored on a TimeSlot. The conversion is DST-correct: the same
// wall-clock hour before and after a transition maps to distinct instants.
func LocalToUTC(dateKey string, hour, minute int, tz string) (time.Time, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.Time{}, fmt.Errorf("load zone %q: %w", tz, err)
	}
	day, err := ParseDateKey(dateKey)
	if err != nil {
		return time.Time{}, err
	}
	local := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, loc)
	return local.UTC(), nil
}

// UTCToLocal converts a stored UTC instant to wall-clock time in an IANA
// zone for display and selection matching.
func UTCToLocal(t time.Time, tz string) (time.Time, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.Time{}, fmt.Errorf("load zone %q: %w", tz, err)
	}
	return t.In(loc), nil
}

// DateKeyFromUTC returns the calendar-date key a UTC instant falls on in
// the given zone.
func DateKeyFromUTC(t time.Time, tz string) (string, error) {
	local, err := UTCToLocal(t, tz)
	if err != nil {
		return "", err
	}
	return FormatDateKey(local), nil
}

// SlotKeyFromUTC returns the composite slot key a UTC instant falls on in
// the given zone.
func SlotKeyFromUTC(t time.Time, tz string) (string, error) {
	local, err := UTCToLocal(t, tz)
	if err != nil {
		return "", err
	}
	return SlotKey(FormatDateKey(local), local.Hour(), local.Minute()), nil
}
