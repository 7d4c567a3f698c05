package models

import (
	"encoding/json"
	"testing"
)

func TestAmountArithmetic(t *testing.T) {
	a := NewAmount(1000)
	b := NewAmount(250)

	if got := a.Add(b).Int64(); got != 1250 {
		t.Fatalf("expected 1250, got %d", got)
	}
	if got := a.Sub(b).Int64(); got != 750 {
		t.Fatalf("expected 750, got %d", got)
	}
	if got := b.Neg().Int64(); got != -250 {
		t.Fatalf("expected -250, got %d", got)
	}
	if a.Cmp(b) != 1 || b.Cmp(a) != -1 || a.Cmp(a) != 0 {
		t.Fatalf("unexpected comparison results")
	}
}

func TestAmountZeroValue(t *testing.T) {
	var zero Amount
	if !zero.IsZero() {
		t.Fatalf("zero value should report zero")
	}
	if got := zero.Add(NewAmount(5)).Int64(); got != 5 {
		t.Fatalf("expected 5, got %d", got)
	}
	if zero.String() != "0" {
		t.Fatalf("expected \"0\", got %q", zero.String())
	}
}

func TestAmountPermilleShare(t *testing.T) {
	cases := []struct {
		amount   int64
		permille int64
		want     int64
	}{
		{1000, 12, 12},
		{1000, 50, 50},
		{999, 12, 11},
		{1, 12, 0},
		{0, 12, 0},
	}
	for _, tc := range cases {
		if got := NewAmount(tc.amount).PermilleShare(tc.permille).Int64(); got != tc.want {
			t.Fatalf("PermilleShare(%d, %d) = %d, want %d", tc.amount, tc.permille, got, tc.want)
		}
	}
}

func TestAmountScaleBy(t *testing.T) {
	if got := NewAmount(100).ScaleBy(1.5).Int64(); got != 150 {
		t.Fatalf("expected 150, got %d", got)
	}
	if got := NewAmount(100).ScaleBy(6.0).Int64(); got != 600 {
		t.Fatalf("expected 600, got %d", got)
	}
	if got := NewAmount(10).ScaleBy(1.2).Int64(); got != 12 {
		t.Fatalf("expected 12, got %d", got)
	}
}

func TestAmountJSONRoundTrip(t *testing.T) {
	a := NewAmount(123456789)
	data, err := json.Marshal(a)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `"123456789"` {
		t.Fatalf("unexpected JSON %s", data)
	}

	var decoded Amount
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Cmp(a) != 0 {
		t.Fatalf("round trip mismatch: %s", decoded)
	}
}

func TestAmountScan(t *testing.T) {
	var a Amount
	if err := a.Scan(int64(42)); err != nil {
		t.Fatal(err)
	}
	if a.Int64() != 42 {
		t.Fatalf("expected 42, got %d", a.Int64())
	}

	if err := a.Scan("1000000000000000000000"); err != nil {
		t.Fatal(err)
	}
	if a.String() != "1000000000000000000000" {
		t.Fatalf("unexpected value %s", a)
	}

	if err := a.Scan(nil); err != nil {
		t.Fatal(err)
	}
	if !a.IsZero() {
		t.Fatalf("nil should scan as zero")
	}

	if err := a.Scan(3.14); err == nil {
		t.Fatalf("expected error for unsupported type")
	}
}
