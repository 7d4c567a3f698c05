package pkg

import (
	"testing"
	"time"
)

func TestMonthKey(t *testing.T) {
	at := time.Date(2025, 3, 31, 23, 59, 0, 0, time.UTC)
	if got := MonthKey(at); got != "2025-03" {
		t.Fatalf("expected 2025-03, got %s", got)
	}
}

func TestStartOfMonth(t *testing.T) {
	at := time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC)
	want := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	if got := StartOfMonth(at); !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestStartOfDay(t *testing.T) {
	at := time.Date(2025, 3, 15, 23, 59, 59, 0, time.UTC)
	want := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	if got := StartOfDay(at); !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}
