package util

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	got, ok := ParseDate("2026-03-18")
	if !ok {
		t.Fatalf("expected ok")
	}
	want := time.Date(2026, 3, 18, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("unexpected date %v", got)
	}
	if _, ok := ParseDate(""); ok {
		t.Fatalf("expected empty string to fail")
	}
	if _, ok := ParseDate("03/18/2026"); ok {
		t.Fatalf("expected non-ISO format to fail")
	}
}

func TestDaysInMonth(t *testing.T) {
	if d := DaysInMonth(2026, 1); d != 31 {
		t.Fatalf("jan 2026: got %d", d)
	}
	if d := DaysInMonth(2026, 2); d != 28 {
		t.Fatalf("feb 2026: got %d", d)
	}
	if d := DaysInMonth(2028, 2); d != 29 {
		t.Fatalf("feb 2028 (leap): got %d", d)
	}
	if d := DaysInMonth(2025, 12); d != 31 {
		t.Fatalf("dec 2025: got %d", d)
	}
}

func TestNextPrevMonth(t *testing.T) {
	m, y := NextMonth(12, 2025)
	if m != 1 || y != 2026 {
		t.Fatalf("next of dec: %d/%d", m, y)
	}
	m, y = NextMonth(6, 2026)
	if m != 7 || y != 2026 {
		t.Fatalf("next of jun: %d/%d", m, y)
	}
	m, y = PrevMonth(1, 2026)
	if m != 12 || y != 2025 {
		t.Fatalf("prev of jan: %d/%d", m, y)
	}
}

func TestMeetingLabel(t *testing.T) {
	d := time.Date(2026, 1, 28, 0, 0, 0, 0, time.UTC)
	if got := MeetingLabel(d); got != "Jan 28, 2026" {
		t.Fatalf("unexpected label %q", got)
	}
	d = time.Date(2026, 5, 7, 0, 0, 0, 0, time.UTC)
	if got := MeetingLabel(d); got != "May 07, 2026" {
		t.Fatalf("unexpected label %q", got)
	}
}
