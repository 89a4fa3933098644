package services

import "time"

// Clock supplies the current instant. Injected so acceptance and revocation
// timestamps are deterministic in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
