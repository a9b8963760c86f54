package ws

import "github.com/infinitefield/hypersdk/hypercore/types"

// registry is the set of subscriptions the consumer wants. It survives
// reconnects and is owned by the supervisor goroutine.
type registry struct {
	subs map[types.Subscription]struct{}
}

func newRegistry() *registry {
	return &registry{subs: make(map[types.Subscription]struct{})}
}

// Add returns true when sub was not tracked before
func (r *registry) Add(sub types.Subscription) bool {
	if _, ok := r.subs[sub]; ok {
		return false
	}
	r.subs[sub] = struct{}{}
	return true
}

// Remove returns true when sub was tracked
func (r *registry) Remove(sub types.Subscription) bool {
	if _, ok := r.subs[sub]; !ok {
		return false
	}
	delete(r.subs, sub)
	return true
}

// Contains reports whether sub is tracked
func (r *registry) Contains(sub types.Subscription) bool {
	_, ok := r.subs[sub]
	return ok
}

// Len returns the number of tracked subscriptions
func (r *registry) Len() int {
	return len(r.subs)
}

// List returns the tracked subscriptions in no particular order
func (r *registry) List() []types.Subscription {
	subs := make([]types.Subscription, 0, len(r.subs))
	for sub := range r.subs {
		subs = append(subs, sub)
	}
	return subs
}
