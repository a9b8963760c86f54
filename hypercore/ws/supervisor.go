package ws

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/infinitefield/hypersdk/hypercore/types"
	"github.com/infinitefield/hypersdk/log"
)

var (
	errShutdown   = errors.New("connection shut down")
	errStale      = errors.New("missed pongs, connection is stale")
	errSendFailed = errors.New("directive send failed")
	errReadFailed = errors.New("read failed")
)

type commandOp uint8

const (
	opSubscribe commandOp = iota
	opUnsubscribe
)

type command struct {
	op  commandOp
	sub types.Subscription
}

// supervisor owns the registry and the current session. Its run loop is the
// only goroutine touching either.
type supervisor struct {
	cfg      *Config
	dialer   Dialer
	registry *registry
	backoff  *backoff
	commands *queue[command]
	events   *queue[Event]

	// observeDelay is called with every backoff delay before sleeping
	observeDelay func(time.Duration)
}

func newSupervisor(c *Config, commands *queue[command], events *queue[Event]) *supervisor {
	dialer := c.Dialer
	if dialer == nil {
		dialer = NewWebsocketDialer(c)
	}
	return &supervisor{
		cfg:      c,
		dialer:   dialer,
		registry: newRegistry(),
		backoff:  newBackoff(c.InitialReconnectDelay, c.MaxReconnectDelay),
		commands: commands,
		events:   events,
	}
}

// run connects, serves and reconnects until ctx is cancelled or the command
// queue is closed. The event queue is closed on return.
func (s *supervisor) run(ctx context.Context) {
	defer s.events.close()
	for {
		if ctx.Err() != nil {
			return
		}
		sess, err := s.connect(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			delay := s.backoff.Next()
			s.cfg.Metrics.reconnectAttempt()
			log.Errorf(log.WebsocketMgr, "Unable to connect to %s (%s): %v", s.cfg.URL, disconnectReason(err), err)
			log.Debugf(log.WebsocketMgr, "Reconnecting in %s (attempt %d)", delay, s.backoff.Attempts())
			if err := s.wait(ctx, delay); err != nil {
				return
			}
			continue
		}

		s.backoff.Reset()
		s.cfg.Metrics.sessionUp()
		if s.cfg.Verbose {
			log.Infof(log.WebsocketMgr, "session %s: connected to %s", sess.ID, s.cfg.URL)
		}
		s.events.push(Event{Type: Connected})
		s.replay(sess)

		err = s.serve(ctx, sess)
		if closeErr := sess.Close(); closeErr != nil && s.cfg.Verbose {
			log.Debugf(log.WebsocketMgr, "session %s: close: %v", sess.ID, closeErr)
		}
		reason := disconnectReason(err)
		s.cfg.Metrics.sessionDown(reason)
		if reason == reasonShutdown {
			return
		}
		log.Warnf(log.WebsocketMgr, "session %s: disconnected from %s (%s): %v, attempting to reconnect", sess.ID, s.cfg.URL, reason, err)
		s.events.push(Event{Type: Disconnected})
	}
}

func (s *supervisor) connect(ctx context.Context) (*Session, error) {
	dialCtx, cancel := context.WithTimeout(ctx, s.cfg.ConnectTimeout)
	defer cancel()
	t, err := s.dialer.Dial(dialCtx, s.cfg.URL)
	if err != nil {
		return nil, err
	}
	sess, err := newSession(t, s.cfg)
	if err != nil {
		_ = t.Close()
		return nil, err
	}
	return sess, nil
}

// wait sleeps for d while keeping the registry current. Commands are not sent
// since there is no session.
func (s *supervisor) wait(ctx context.Context, d time.Duration) error {
	if s.observeDelay != nil {
		s.observeDelay(d)
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return nil
		case <-s.commands.ready():
			cmds, closed := s.commands.drain()
			for i := range cmds {
				s.track(cmds[i])
			}
			if closed {
				return errShutdown
			}
		}
	}
}

// replay queues a subscribe for everything in the registry on a fresh
// session. Replay send failures are logged and skipped; a dead transport
// surfaces through the reader.
func (s *supervisor) replay(sess *Session) {
	subs := s.registry.List()
	if len(subs) == 0 {
		return
	}
	log.Debugf(log.SubscriptionMgr, "session %s: re-subscribing to %d channels", sess.ID, len(subs))
	for _, sub := range subs {
		sess.enqueue(SubscribeDirective(sub), true)
	}
}

// serve multiplexes heartbeat ticks, inbound messages, commands and the rate
// limited outbox until the session fails or shutdown is requested
func (s *supervisor) serve(ctx context.Context, sess *Session) error {
	stop := make(chan struct{})
	defer close(stop)
	msgs := make(chan types.Incoming)
	readErr := make(chan error, 1)
	go sess.readLoop(stop, msgs, readErr)

	if err := sess.flush(); err != nil {
		return err
	}
	hb := newHeartbeat(s.cfg.MaxMissedPongs)
	ticker := time.NewTicker(s.cfg.PingInterval)
	defer ticker.Stop()
	if err := s.beat(sess, hb); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return errShutdown
		case <-ticker.C:
			if err := s.beat(sess, hb); err != nil {
				return err
			}
		case msg := <-msgs:
			switch msg.(type) {
			case types.Pong:
				hb.pong()
			case types.Ping:
				if err := sess.Send(PongDirective()); err != nil {
					return fmt.Errorf("%w: pong: %w", errSendFailed, err)
				}
			default:
				s.events.push(Event{Type: Message, Message: msg})
			}
		case err := <-readErr:
			return fmt.Errorf("%w: %w", errReadFailed, err)
		case <-sess.ready():
			if err := sess.resume(); err != nil {
				return err
			}
		case <-s.commands.ready():
			if err := s.applyCommands(sess); err != nil {
				return err
			}
		}
	}
}

func (s *supervisor) beat(sess *Session, hb *heartbeat) error {
	if hb.stale() {
		return fmt.Errorf("%w: %d unanswered", errStale, hb.missed)
	}
	if err := sess.Send(PingDirective()); err != nil {
		return fmt.Errorf("%w: ping: %w", errSendFailed, err)
	}
	hb.pinged()
	return nil
}

// applyCommands drains the command queue into the session outbox. After a
// send failure the outbox is dropped; the registry is already current so the
// next session replays it.
func (s *supervisor) applyCommands(sess *Session) error {
	cmds, closed := s.commands.drain()
	for i := range cmds {
		if !s.track(cmds[i]) {
			continue
		}
		d := SubscribeDirective(cmds[i].sub)
		if cmds[i].op == opUnsubscribe {
			d = UnsubscribeDirective(cmds[i].sub)
		}
		sess.enqueue(d, false)
	}
	if closed {
		return errShutdown
	}
	return sess.flush()
}

// track applies cmd to the registry and reports whether a directive is due
func (s *supervisor) track(cmd command) bool {
	switch cmd.op {
	case opSubscribe:
		if !s.registry.Add(cmd.sub) {
			log.Debugf(log.SubscriptionMgr, "Already subscribed to %s", cmd.sub)
			return false
		}
		return true
	case opUnsubscribe:
		return s.registry.Remove(cmd.sub)
	default:
		return false
	}
}
