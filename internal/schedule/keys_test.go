package schedule

import (
	"testing"
	"time"

	"github.com/timesync/backend/internal/models"
)

func TestDateKeyRoundTrip(t *testing.T) {
	for _, key := range []string{"2025-06-01", "2024-02-29", "1999-12-31"} {
		parsed, err := ParseDateKey(key)
		if err != nil {
			t.Fatalf("ParseDateKey(%q): %v", key, err)
		}
		if got := FormatDateKey(parsed); got != key {
			t.Fatalf("round trip of %q gave %q", key, got)
		}
	}
}

func TestParseDateKey_Malformed(t *testing.T) {
	for _, key := range []string{"", "2025-6-1", "06/01/2025", "2025-13-01"} {
		if _, err := ParseDateKey(key); err == nil {
			t.Fatalf("expected error for %q", key)
		}
	}
}

func TestSlotKeyRoundTrip(t *testing.T) {
	cases := []struct {
		dateKey      string
		hour, minute int
	}{
		{"2025-06-01", 9, 0},
		{"2025-06-01", 9, 30},
		{"2025-12-31", 0, 0},
		{"2025-01-01", 23, 30},
	}
	for _, c := range cases {
		key := SlotKey(c.dateKey, c.hour, c.minute)
		date, hour, minute, err := ParseSlotKey(key)
		if err != nil {
			t.Fatalf("ParseSlotKey(%q): %v", key, err)
		}
		if date != c.dateKey || hour != c.hour || minute != c.minute {
			t.Fatalf("round trip of %q gave %s %d:%d", key, date, hour, minute)
		}
	}
}

func TestParseSlotKey_Malformed(t *testing.T) {
	for _, key := range []string{"", "2025-06-01", "2025-06-01-9:00", "2025-06-01-25:00", "2025-06-01T09:00", "2025-06-01-09:0x", "2025-06-01-x9:00", "2025-06-01-09.30"} {
		if _, _, _, err := ParseSlotKey(key); err == nil {
			t.Fatalf("expected error for %q", key)
		}
	}
}

func TestLocalToUTC_AcrossDST(t *testing.T) {
	// America/New_York springs forward on 2025-03-09: 09:00 wall clock is
	// UTC-5 the day before and UTC-4 the day after.
	before, err := LocalToUTC("2025-03-08", 9, 0, "America/New_York")
	if err != nil {
		t.Fatalf("before: %v", err)
	}
	after, err := LocalToUTC("2025-03-09", 9, 0, "America/New_York")
	if err != nil {
		t.Fatalf("after: %v", err)
	}
	if before.Hour() != 14 {
		t.Fatalf("expected 14:00 UTC before transition, got %s", before.Format(time.RFC3339))
	}
	if after.Hour() != 13 {
		t.Fatalf("expected 13:00 UTC after transition, got %s", after.Format(time.RFC3339))
	}
}

func TestLocalToUTC_UTCToLocal_Inverse(t *testing.T) {
	instant, err := LocalToUTC("2025-06-01", 18, 30, "Europe/Berlin")
	if err != nil {
		t.Fatalf("LocalToUTC: %v", err)
	}
	key, err := SlotKeyFromUTC(instant, "Europe/Berlin")
	if err != nil {
		t.Fatalf("SlotKeyFromUTC: %v", err)
	}
	if key != "2025-06-01-18:30" {
		t.Fatalf("expected original key back, got %q", key)
	}
}

func TestDateKeyFromUTC_NearMidnight(t *testing.T) {
	// 01:00 UTC on June 2 is still June 1 in New York.
	instant := time.Date(2025, 6, 2, 1, 0, 0, 0, time.UTC)
	key, err := DateKeyFromUTC(instant, "America/New_York")
	if err != nil {
		t.Fatalf("DateKeyFromUTC: %v", err)
	}
	if key != "2025-06-01" {
		t.Fatalf("expected 2025-06-01, got %q", key)
	}
}

func TestLocalToUTC_UnknownZone(t *testing.T) {
	if _, err := LocalToUTC("2025-06-01", 9, 0, "Mars/Olympus"); err == nil {
		t.Fatal("expected error for unknown zone")
	}
}

func TestGridKeys_WholeDay(t *testing.T) {
	p := &models.Poll{
		Dates:        []string{"2025-06-01", "2025-06-02"},
		SlotDuration: models.DayDuration,
	}
	keys, err := GridKeys(p)
	if err != nil {
		t.Fatalf("GridKeys: %v", err)
	}
	if len(keys) != 2 || keys[0] != "2025-06-01" || keys[1] != "2025-06-02" {
		t.Fatalf("unexpected keys: %v", keys)
	}
}

func TestGridKeys_SubDayOrdering(t *testing.T) {
	p := &models.Poll{
		Dates:        []string{"2025-06-01", "2025-06-02"},
		SlotDuration: 30,
		StartHour:    9,
		EndHour:      11,
	}
	keys, err := GridKeys(p)
	if err != nil {
		t.Fatalf("GridKeys: %v", err)
	}
	want := []string{
		"2025-06-01-09:00", "2025-06-01-09:30", "2025-06-01-10:00", "2025-06-01-10:30",
		"2025-06-02-09:00", "2025-06-02-09:30", "2025-06-02-10:00", "2025-06-02-10:30",
	}
	if len(keys) != len(want) {
		t.Fatalf("expected %d keys, got %d: %v", len(want), len(keys), keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("key %d: expected %q, got %q", i, want[i], keys[i])
		}
	}
}

func TestGridKeys_EmptyWindow(t *testing.T) {
	p := &models.Poll{Dates: []string{"2025-06-01"}, SlotDuration: 60, StartHour: 9, EndHour: 9}
	keys, err := GridKeys(p)
	if err != nil {
		t.Fatalf("GridKeys: %v", err)
	}
	if len(keys) != 0 {
		t.Fatalf("expected empty grid, got %v", keys)
	}
}

func TestGridKeys_BadDuration(t *testing.T) {
	p := &models.Poll{Dates: []string{"2025-06-01"}, SlotDuration: 45, StartHour: 9, EndHour: 17}
	if _, err := GridKeys(p); err == nil {
		t.Fatal("expected error for duration not dividing 60")
	}
}
