package ws

import "time"

// backoff doubles the delay for each consecutive failure starting at initial,
// capped at max
type backoff struct {
	initial  time.Duration
	max      time.Duration
	attempts uint
}

func newBackoff(initial, max time.Duration) *backoff {
	return &backoff{initial: initial, max: max}
}

// Next returns the delay before the next attempt and counts the failure
func (b *backoff) Next() time.Duration {
	d := b.max
	if b.attempts < 63 {
		if shifted := b.initial << b.attempts; shifted > 0 && shifted>>b.attempts == b.initial && shifted < b.max {
			d = shifted
		}
	}
	b.attempts++
	return d
}

// Reset clears the failure count after a successful connect
func (b *backoff) Reset() {
	b.attempts = 0
}

// Attempts returns the number of consecutive failures
func (b *backoff) Attempts() uint {
	return b.attempts
}
