package duplicates

import "time"

// Clock supplies the current time to the engine.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// Resolution is the finest timestamp precision every store keeps. Postgres
// TIMESTAMPTZ holds microseconds.
const Resolution = time.Microsecond

// SystemClock reads wall-clock time in UTC, truncated to Resolution.
var SystemClock Clock = ClockFunc(func() time.Time { return time.Now().UTC().Truncate(Resolution) })
