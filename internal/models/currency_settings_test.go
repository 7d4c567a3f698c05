package models

import (
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"00:00", 0},
		{"01:30", 5400},
		{"20:00", 72000},
		{"23:59:59", 86399},
		{"bad", 0},
		{"", 0},
	}
	for _, tc := range cases {
		if got := parseClock(tc.in); got != tc.want {
			t.Fatalf("parseClock(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestHotTimeAppliesAt(t *testing.T) {
	at := func(hour, min int) time.Time {
		return time.Date(2025, 6, 1, hour, min, 0, 0, time.UTC)
	}

	hot := &HotTime{
		EventType:  EVENT_TEXT,
		StartTime:  "20:00",
		EndTime:    "22:00",
		Multiplier: 2.0,
		Enabled:    true,
	}

	if !hot.AppliesAt(EVENT_TEXT, "ch-1", at(20, 0)) {
		t.Fatalf("window start should be inclusive")
	}
	if !hot.AppliesAt(EVENT_TEXT, "ch-1", at(21, 30)) {
		t.Fatalf("time inside the window should apply")
	}
	if hot.AppliesAt(EVENT_TEXT, "ch-1", at(22, 0)) {
		t.Fatalf("window end should be exclusive")
	}
	if hot.AppliesAt(EVENT_TEXT, "ch-1", at(19, 59)) {
		t.Fatalf("time before the window should not apply")
	}
	if hot.AppliesAt(EVENT_VOICE, "ch-1", at(21, 0)) {
		t.Fatalf("mismatched event type should not apply")
	}

	hot.Enabled = false
	if hot.AppliesAt(EVENT_TEXT, "ch-1", at(21, 0)) {
		t.Fatalf("disabled hot time should never apply")
	}
}

func TestHotTimeAppliesAtAllEvents(t *testing.T) {
	hot := &HotTime{
		EventType: EVENT_ALL,
		StartTime: "10:00",
		EndTime:   "12:00",
		Enabled:   true,
	}
	now := time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC)
	if !hot.AppliesAt(EVENT_VOICE, "ch-1", now) {
		t.Fatalf("all-events hot time should apply to voice")
	}
}

func TestHotTimeChannelFilter(t *testing.T) {
	hot := &HotTime{
		EventType:  EVENT_TEXT,
		StartTime:  "00:00",
		EndTime:    "23:59",
		Enabled:    true,
		ChannelIDs: []string{"ch-1", "ch-2"},
	}
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	if !hot.AppliesAt(EVENT_TEXT, "ch-2", now) {
		t.Fatalf("listed channel should apply")
	}
	if hot.AppliesAt(EVENT_TEXT, "ch-3", now) {
		t.Fatalf("unlisted channel should not apply")
	}
}

func TestHotTimeMidnightWrap(t *testing.T) {
	hot := &HotTime{
		EventType: EVENT_TEXT,
		StartTime: "23:00",
		EndTime:   "01:00",
		Enabled:   true,
	}

	if !hot.AppliesAt(EVENT_TEXT, "ch-1", time.Date(2025, 6, 1, 23, 30, 0, 0, time.UTC)) {
		t.Fatalf("time after start should apply across midnight")
	}
	if !hot.AppliesAt(EVENT_TEXT, "ch-1", time.Date(2025, 6, 2, 0, 30, 0, 0, time.UTC)) {
		t.Fatalf("time before end should apply across midnight")
	}
	if hot.AppliesAt(EVENT_TEXT, "ch-1", time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("midday should fall outside a wrapped night window")
	}
}
