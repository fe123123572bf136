package shared

import "time"

// Clock abstracts the wall clock. License expiry, daily order limits and
// summary date scoping all read dates through it so tests can pin time.
type Clock interface {
	Now() time.Time
	Today() time.Time
}

// SystemClock reads the real wall clock in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

func (SystemClock) Today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// FixedClock returns a constant instant, for tests.
type FixedClock struct {
	Instant time.Time
}

func (c FixedClock) Now() time.Time { return c.Instant }

func (c FixedClock) Today() time.Time {
	return time.Date(c.Instant.Year(), c.Instant.Month(), c.Instant.Day(), 0, 0, 0, 0, time.UTC)
}
