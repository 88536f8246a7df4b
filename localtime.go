package main

import (
	"fmt"
	"time"
)

// WallClock is the date/time a user typed into a form: six calendar fields and
// no time zone. It is the unit the codec round-trips — the numeric fields must
// survive storage and retrieval unchanged no matter which zone the server or
// reader runs in.
type WallClock struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
	Second int
}

// EncodeWallClock converts a wall-clock tuple into a storage instant whose UTC
// calendar fields equal the tuple's fields numerically. The instant is a
// field-preserving envelope, not a real point in time: no zone conversion ever
// happens, which is what makes the round trip zone- and DST-insensitive.
//
// Invalid input is rejected, never normalized: time.Date would happily turn
// Feb 30 into Mar 2, so we re-read the fields afterwards and fail on any drift.
func EncodeWallClock(w WallClock) (time.Time, error) {
	t := time.Date(w.Year, time.Month(w.Month), w.Day, w.Hour, w.Minute, w.Second, 0, time.UTC)
	if DecodeWallClock(t) != w {
		return time.Time{}, fmt.Errorf("invalid timestamp: %04d-%02d-%02d %02d:%02d:%02d",
			w.Year, w.Month, w.Day, w.Hour, w.Minute, w.Second)
	}
	return t, nil
}

// DecodeWallClock reads back only the UTC calendar fields of a storage
// instant. It deliberately ignores the instant's location so a row written on
// a UTC+2 machine decodes identically on a UTC-5 one.
func DecodeWallClock(t time.Time) WallClock {
	u := t.UTC()
	year, month, day := u.Date()
	hour, min, sec := u.Clock()
	return WallClock{Year: year, Month: int(month), Day: day, Hour: hour, Minute: min, Second: sec}
}

// WallClockFromTime captures the fields t displays in its own location —
// what the user saw on their clock — without converting the instant. Used when
// input arrives as a zoned time.Time rather than raw form fields.
func WallClockFromTime(t time.Time) WallClock {
	year, month, day := t.Date()
	hour, min, sec := t.Clock()
	return WallClock{Year: year, Month: int(month), Day: day, Hour: hour, Minute: min, Second: sec}
}
