package ws

// heartbeat counts pings that have not been answered yet
type heartbeat struct {
	missed    int
	threshold int
}

func newHeartbeat(threshold int) *heartbeat {
	return &heartbeat{threshold: threshold}
}

// stale reports whether the session should be abandoned instead of pinged
func (h *heartbeat) stale() bool {
	return h.missed >= h.threshold
}

// pinged records a successfully sent ping
func (h *heartbeat) pinged() {
	h.missed++
}

// pong records any pong, answering all outstanding pings
func (h *heartbeat) pong() {
	h.missed = 0
}
