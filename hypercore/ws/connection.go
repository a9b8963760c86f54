package ws

import (
	"context"
	"errors"
	"sync"

	"github.com/infinitefield/hypersdk/hypercore/types"
	"github.com/infinitefield/hypersdk/log"
)

// ErrConnectionClosed is returned by Next once the connection is closed and
// every event has been consumed
var ErrConnectionClosed = errors.New("websocket connection closed")

// EventType is the kind of an Event
type EventType uint8

// Event types
const (
	// Connected is emitted each time a session is established, before the
	// subscriptions are replayed
	Connected EventType = iota + 1
	// Disconnected is emitted when an established session is lost
	Disconnected
	// Message carries an inbound data message
	Message
)

func (e EventType) String() string {
	switch e {
	case Connected:
		return "connected"
	case Disconnected:
		return "disconnected"
	case Message:
		return "message"
	default:
		return "unknown"
	}
}

// Event is one item of the logical stream. Message is only set for Message
// events.
type Event struct {
	Type    EventType
	Message types.Incoming
}

// Connection is a durable stream over a reconnecting socket. Its methods are
// safe for concurrent use.
type Connection struct {
	url      string
	commands *queue[command]
	events   *queue[Event]
	out      chan Event

	cancel         context.CancelFunc
	supervisorDone chan struct{}
	pumpDone       chan struct{}
	shutdown       chan struct{}
	closeOnce      sync.Once
}

// NewConnection validates c and starts connecting in the background
func NewConnection(c *Config) (*Connection, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	conn := &Connection{
		url:            c.URL,
		commands:       newQueue[command](),
		events:         newQueue[Event](),
		out:            make(chan Event),
		cancel:         cancel,
		supervisorDone: make(chan struct{}),
		pumpDone:       make(chan struct{}),
		shutdown:       make(chan struct{}),
	}
	sup := newSupervisor(c, conn.commands, conn.events)
	go func() {
		defer close(conn.supervisorDone)
		sup.run(ctx)
	}()
	go conn.pump()
	return conn, nil
}

// URL returns the endpoint
func (c *Connection) URL() string {
	return c.url
}

// Subscribe asks for sub to be streamed, now and after every reconnect.
// Duplicate and invalid subscriptions are ignored.
func (c *Connection) Subscribe(sub types.Subscription) {
	c.enqueue(opSubscribe, sub)
}

// Unsubscribe stops streaming sub; untracked subscriptions are ignored
func (c *Connection) Unsubscribe(sub types.Subscription) {
	c.enqueue(opUnsubscribe, sub)
}

func (c *Connection) enqueue(op commandOp, sub types.Subscription) {
	sub = sub.Normalize()
	if err := sub.Validate(); err != nil {
		log.Warnf(log.SubscriptionMgr, "Ignoring invalid subscription %s: %v", sub, err)
		return
	}
	if !c.commands.push(command{op: op, sub: sub}) {
		log.Debugf(log.SubscriptionMgr, "Connection closed, dropping %s", sub)
	}
}

// Events returns the event stream. It is closed by Close.
func (c *Connection) Events() <-chan Event {
	return c.out
}

// Next waits for the next event
func (c *Connection) Next(ctx context.Context) (Event, error) {
	select {
	case ev, ok := <-c.out:
		if !ok {
			return Event{}, ErrConnectionClosed
		}
		return ev, nil
	case <-ctx.Done():
		return Event{}, ctx.Err()
	}
}

// Close stops the supervisor, cancelling any dial or backoff in progress,
// and closes the event stream. Undelivered events are discarded.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		c.commands.close()
		c.cancel()
		<-c.supervisorDone
		close(c.shutdown)
		<-c.pumpDone
	})
}

// pump moves events from the unbounded queue to the consumer channel
func (c *Connection) pump() {
	defer close(c.pumpDone)
	defer close(c.out)
	for {
		select {
		case <-c.events.ready():
		case <-c.shutdown:
			return
		}
		evs, closed := c.events.drain()
		for i := range evs {
			select {
			case c.out <- evs[i]:
			case <-c.shutdown:
				return
			}
		}
		if closed {
			<-c.shutdown
			return
		}
	}
}
