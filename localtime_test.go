package main

import (
	"encoding/json"
	"testing"
	"time"
)

/* ─── Round-trip tests ───────────────────────────────────────────────── */

// TestWallClock_RoundTrip verifies Decode(Encode(w)) == w across the boundary
// cases that matter: midnight, end of day, leap day, end of month/year, and
// the 2024 US DST transition dates (the codec never converts zones, so DST
// must be invisible to it).
func TestWallClock_RoundTrip(t *testing.T) {
	cases := []struct {
		name string
		w    WallClock
	}{
		{"midnight", WallClock{2024, 3, 10, 0, 0, 0}},
		{"end of day", WallClock{2024, 3, 10, 23, 59, 59}},
		{"leap day", WallClock{2024, 2, 29, 12, 30, 45}},
		{"end of January", WallClock{2023, 1, 31, 18, 0, 0}},
		{"end of year", WallClock{2023, 12, 31, 23, 59, 59}},
		{"spring-forward date", WallClock{2024, 3, 10, 2, 30, 0}},
		{"fall-back date", WallClock{2024, 11, 3, 1, 30, 0}},
		{"zero minutes and seconds", WallClock{2025, 7, 4, 9, 0, 0}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			instant, err := EncodeWallClock(tc.w)
			if err != nil {
				t.Fatalf("EncodeWallClock(%+v) returned error: %v", tc.w, err)
			}
			if got := DecodeWallClock(instant); got != tc.w {
				t.Errorf("round trip changed fields: got %+v, want %+v", got, tc.w)
			}
		})
	}
}

// TestWallClock_ZoneInsensitive verifies that capturing the same wall clock
// from times constructed in different zones yields the same storage instant.
// A user typing "2024-03-10 07:30" gets the same row whether their machine is
// on UTC, UTC+2, or UTC-5.
func TestWallClock_ZoneInsensitive(t *testing.T) {
	zones := []*time.Location{
		time.UTC,
		time.FixedZone("UTC+2", 2*60*60),
		time.FixedZone("UTC-5", -5*60*60),
		time.FixedZone("UTC+9:30", 9*60*60+30*60),
	}

	var first time.Time
	for i, loc := range zones {
		local := time.Date(2024, 3, 10, 7, 30, 0, 0, loc)
		instant, err := EncodeWallClock(WallClockFromTime(local))
		if err != nil {
			t.Fatalf("zone %v: unexpected error: %v", loc, err)
		}
		if i == 0 {
			first = instant
			continue
		}
		if !instant.Equal(first) {
			t.Errorf("zone %v produced instant %v, want %v", loc, instant, first)
		}
	}
}

// TestWallClock_CrossZoneReadback is the end-to-end scenario: a meal entered
// as 2024-03-10T07:30 on a UTC+2 machine must read back as 07:30 on a UTC-5
// machine — not 05:30 or 09:30.
func TestWallClock_CrossZoneReadback(t *testing.T) {
	entered := time.Date(2024, 3, 10, 7, 30, 0, 0, time.FixedZone("UTC+2", 2*60*60))
	stored, err := EncodeWallClock(WallClockFromTime(entered))
	if err != nil {
		t.Fatalf("unexpected encode error: %v", err)
	}

	// Simulate a reader in a different zone: the instant may be rendered in
	// UTC-5 locally, but decode only ever looks at the UTC field slot.
	readerView := stored.In(time.FixedZone("UTC-5", -5*60*60))
	got := DecodeWallClock(readerView)
	want := WallClock{2024, 3, 10, 7, 30, 0}
	if got != want {
		t.Errorf("cross-zone readback = %+v, want %+v", got, want)
	}
}

/* ─── Invalid-input tests ────────────────────────────────────────────── */

// TestEncodeWallClock_RejectsInvalid verifies that calendrically invalid
// tuples fail fast instead of being normalized (time.Date would otherwise
// turn Feb 30 into Mar 2).
func TestEncodeWallClock_RejectsInvalid(t *testing.T) {
	cases := []struct {
		name string
		w    WallClock
	}{
		{"month 13", WallClock{2024, 13, 1, 0, 0, 0}},
		{"month 0", WallClock{2024, 0, 1, 0, 0, 0}},
		{"day 0", WallClock{2024, 3, 0, 12, 0, 0}},
		{"Feb 30", WallClock{2024, 2, 30, 12, 0, 0}},
		{"Feb 29 in non-leap year", WallClock{2023, 2, 29, 12, 0, 0}},
		{"day 32", WallClock{2024, 1, 32, 0, 0, 0}},
		{"hour 24", WallClock{2024, 3, 10, 24, 0, 0}},
		{"minute 60", WallClock{2024, 3, 10, 12, 60, 0}},
		{"second 60", WallClock{2024, 3, 10, 12, 0, 60}},
		{"negative hour", WallClock{2024, 3, 10, -1, 0, 0}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := EncodeWallClock(tc.w); err == nil {
				t.Errorf("EncodeWallClock(%+v) succeeded, want invalid timestamp error", tc.w)
			}
		})
	}
}

/* ─── LocalTime wrapper tests ────────────────────────────────────────── */

// TestLocalTime_JSON verifies the wire format: seconds-precision strings round
// trip exactly, and minute-precision input (what datetime-local fields send)
// is accepted with seconds zeroed.
func TestLocalTime_JSON(t *testing.T) {
	var l LocalTime
	if err := json.Unmarshal([]byte(`"2024-03-10T07:30:15"`), &l); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if got := l.Wall(); got != (WallClock{2024, 3, 10, 7, 30, 15}) {
		t.Errorf("unmarshal produced %+v", got)
	}

	out, err := json.Marshal(l)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(out) != `"2024-03-10T07:30:15"` {
		t.Errorf("marshal = %s, want \"2024-03-10T07:30:15\"", out)
	}

	var short LocalTime
	if err := json.Unmarshal([]byte(`"2024-03-10T07:30"`), &short); err != nil {
		t.Fatalf("minute-precision unmarshal failed: %v", err)
	}
	if got := short.Wall(); got != (WallClock{2024, 3, 10, 7, 30, 0}) {
		t.Errorf("minute-precision unmarshal produced %+v", got)
	}
}

// TestLocalTime_MarshalUsesUTCSlot verifies that marshalling renders the UTC
// field slot even when the wrapped time carries a non-UTC location.
func TestLocalTime_MarshalUsesUTCSlot(t *testing.T) {
	instant, err := EncodeWallClock(WallClock{2024, 3, 10, 7, 30, 0})
	if err != nil {
		t.Fatalf("unexpected encode error: %v", err)
	}
	l := LocalTime{instant.In(time.FixedZone("UTC-5", -5*60*60))}

	out, err := json.Marshal(l)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(out) != `"2024-03-10T07:30:00"` {
		t.Errorf("marshal = %s, want \"2024-03-10T07:30:00\"", out)
	}
}
