package ws

import (
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/infinitefield/hypersdk/hypercore/types"
	"github.com/infinitefield/hypersdk/log"
	"golang.org/x/time/rate"
)

// Session is a single live transport together with its outbound rate limit.
// It is not retried; the supervisor replaces it on failure. Directives wait in
// the outbox until the limiter admits them, heartbeat frames never wait.
type Session struct {
	ID        uuid.UUID
	transport Transport
	limiter   *rate.Limiter
	metrics   *Metrics
	verbose   bool

	outbox []outbound
	timer  *time.Timer
	due    <-chan time.Time

	// paid is set once the reservation for the outbox head has matured
	paid bool
}

type outbound struct {
	directive Directive
	// replayed directives are logged and skipped when they fail to send
	replayed bool
}

func newSession(t Transport, c *Config) (*Session, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	return &Session{
		ID:        id,
		transport: t,
		limiter:   NewRateLimit(time.Minute, c.MessagesPerMinute),
		metrics:   c.Metrics,
		verbose:   c.Verbose,
	}, nil
}

// NewRateLimit creates a new RateLimit based of time interval and how many
// actions allowed and breaks it down to an actions-per-second basis. Burst is
// kept as one.
func NewRateLimit(interval time.Duration, actions int) *rate.Limiter {
	if actions <= 0 || interval <= 0 {
		// Returns an un-restricted rate limiter
		return rate.NewLimiter(rate.Inf, 1)
	}

	i := 1 / interval.Seconds()
	rps := i * float64(actions)
	return rate.NewLimiter(rate.Limit(rps), 1)
}

// Send writes d at once. It takes a rate limit token when one is free so
// that heartbeat frames count towards the budget, but never waits for one.
func (s *Session) Send(d Directive) error {
	s.limiter.Allow()
	return s.write(d)
}

func (s *Session) write(d Directive) error {
	msg, err := EncodeDirective(d)
	if err != nil {
		return err
	}
	if s.verbose {
		log.Debugf(log.WebsocketMgr, "session %s: Sending message: %s", s.ID, msg)
	}
	if err := s.transport.WriteMessage(msg); err != nil {
		return err
	}
	s.metrics.directiveSent(d.Method)
	return nil
}

// enqueue appends d to the outbox; flush sends it
func (s *Session) enqueue(d Directive, replayed bool) {
	s.outbox = append(s.outbox, outbound{directive: d, replayed: replayed})
}

// pending returns the number of directives waiting in the outbox
func (s *Session) pending() int {
	return len(s.outbox)
}

// ready fires when the outbox head may be sent. It is nil while nothing is
// waiting on the limiter.
func (s *Session) ready() <-chan time.Time {
	return s.due
}

// resume is called after ready fires and continues flushing
func (s *Session) resume() error {
	s.due = nil
	s.paid = true
	return s.flush()
}

// flush sends outbox directives in order while the limiter admits them. When
// the head has to wait a reservation is taken and ready fires once it
// matures. It never blocks on the limiter.
func (s *Session) flush() error {
	for len(s.outbox) > 0 {
		if s.due != nil {
			return nil
		}
		if !s.paid {
			if delay := s.limiter.Reserve().Delay(); delay > 0 {
				s.arm(delay)
				return nil
			}
		}
		s.paid = false
		next := s.outbox[0]
		s.outbox[0] = outbound{}
		s.outbox = s.outbox[1:]
		if err := s.write(next.directive); err != nil {
			if next.replayed {
				log.Errorf(log.SubscriptionMgr, "session %s: failed to re-subscribe to %s: %v", s.ID, next.directive.Subscription, err)
				continue
			}
			s.outbox = nil
			return fmt.Errorf("%w: %s %s: %w", errSendFailed, next.directive.Method, next.directive.Subscription, err)
		}
	}
	return nil
}

func (s *Session) arm(delay time.Duration) {
	if s.timer == nil {
		s.timer = time.NewTimer(delay)
	} else {
		s.timer.Reset(delay)
	}
	s.due = s.timer.C
}

// Receive blocks until one message decodes or the transport fails. Frames
// that cannot be decoded are logged and skipped.
func (s *Session) Receive() (types.Incoming, error) {
	for {
		raw, err := s.transport.ReadMessage()
		if err != nil {
			return nil, err
		}
		if s.verbose {
			log.Debugf(log.WebsocketMgr, "session %s: Message received: %s", s.ID, raw)
		}
		msg, err := DecodeIncoming(raw)
		if err != nil {
			s.metrics.decodeError()
			log.Warnf(log.WebsocketMgr, "session %s: dropping undecodable frame: %v", s.ID, err)
			continue
		}
		if _, ok := msg.(*types.Unknown); ok {
			s.metrics.messageReceived("unknown")
		} else {
			s.metrics.messageReceived(msg.Channel())
		}
		return msg, nil
	}
}

// readLoop feeds decoded messages to out until the transport fails or stop is
// closed. The terminal error is sent on errs, which must be buffered.
func (s *Session) readLoop(stop <-chan struct{}, out chan<- types.Incoming, errs chan<- error) {
	for {
		msg, err := s.Receive()
		if err != nil {
			errs <- err
			return
		}
		select {
		case out <- msg:
		case <-stop:
			return
		}
	}
}

// Close closes the transport, unblocking the reader
func (s *Session) Close() error {
	if s.timer != nil {
		s.timer.Stop()
	}
	return s.transport.Close()
}
