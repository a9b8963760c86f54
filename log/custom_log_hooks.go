package log

import "time"

// Entry is one rendered log event as seen by a hook
type Entry struct {
	Time      time.Time
	Header    string
	SubLogger string
	Message   string
}

// CustomLogHook receives every enabled log event before it is written.
// Returning true marks the entry handled and skips the sub logger output.
type CustomLogHook func(e *Entry) (handled bool)

var customLogHook CustomLogHook

// SetCustomLogHook installs h, nil removes it
func SetCustomLogHook(h CustomLogHook) {
	mu.Lock()
	customLogHook = h
	mu.Unlock()
}
