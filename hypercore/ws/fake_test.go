package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/infinitefield/hypersdk/hypercore/types"
	"github.com/stretchr/testify/require"
)

const testTimeout = 2 * time.Second

var errFakeDial = errors.New("fake dial failure")

// fakeTransport is a scripted in memory socket
type fakeTransport struct {
	frames    chan []byte
	writes    chan Directive
	closed    chan struct{}
	closeOnce sync.Once
	autoPong  bool

	mu       sync.Mutex
	writeErr error
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		frames: make(chan []byte, 256),
		writes: make(chan Directive, 256),
		closed: make(chan struct{}),
	}
}

func (f *fakeTransport) ReadMessage() ([]byte, error) {
	select {
	case frame := <-f.frames:
		return frame, nil
	case <-f.closed:
		return nil, net.ErrClosed
	}
}

func (f *fakeTransport) WriteMessage(data []byte) error {
	select {
	case <-f.closed:
		return net.ErrClosed
	default:
	}
	f.mu.Lock()
	err := f.writeErr
	f.mu.Unlock()
	if err != nil {
		return err
	}
	var d Directive
	if err := json.Unmarshal(data, &d); err != nil {
		return err
	}
	f.writes <- d
	if f.autoPong && d.Method == MethodPing {
		f.push(`{"channel":"pong"}`)
	}
	return nil
}

func (f *fakeTransport) Close() error {
	f.closeOnce.Do(func() { close(f.closed) })
	return nil
}

// drop simulates the server going away
func (f *fakeTransport) drop() { _ = f.Close() }

func (f *fakeTransport) push(frame string) {
	select {
	case f.frames <- []byte(frame):
	case <-f.closed:
	}
}

func (f *fakeTransport) failWrites(err error) {
	f.mu.Lock()
	f.writeErr = err
	f.mu.Unlock()
}

// fakeDialer hands out transports according to plan, which receives the
// zero based dial number
type fakeDialer struct {
	mu    sync.Mutex
	dials int
	plan  func(n int) (Transport, error)
	conns chan *fakeTransport
}

func newFakeDialer(plan func(n int) (Transport, error)) *fakeDialer {
	return &fakeDialer{plan: plan, conns: make(chan *fakeTransport, 64)}
}

// alwaysFresh returns a dialer that succeeds with a new transport every time
func alwaysFresh(autoPong bool) *fakeDialer {
	return newFakeDialer(func(int) (Transport, error) {
		ft := newFakeTransport()
		ft.autoPong = autoPong
		return ft, nil
	})
}

func (d *fakeDialer) Dial(ctx context.Context, _ string) (Transport, error) {
	d.mu.Lock()
	n := d.dials
	d.dials++
	d.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t, err := d.plan(n)
	if err != nil {
		return nil, err
	}
	if ft, ok := t.(*fakeTransport); ok {
		d.conns <- ft
	}
	return t, nil
}

func (d *fakeDialer) Dials() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dials
}

// blockingDialer never completes a handshake; every dial ends with its context
type blockingDialer struct {
	dials atomic.Int32
}

func (d *blockingDialer) Dial(ctx context.Context, _ string) (Transport, error) {
	d.dials.Add(1)
	<-ctx.Done()
	return nil, ctx.Err()
}

func (d *blockingDialer) Dials() int {
	return int(d.dials.Load())
}

func testConfig(d Dialer) *Config {
	c := DefaultConfig("ws://hypersdk.test/ws")
	c.PingInterval = time.Hour
	c.InitialReconnectDelay = time.Millisecond
	c.MaxReconnectDelay = 4 * time.Millisecond
	c.Dialer = d
	return c
}

func newTestConnection(t *testing.T, c *Config) *Connection {
	t.Helper()
	conn, err := NewConnection(c)
	require.NoError(t, err)
	t.Cleanup(conn.Close)
	return conn
}

func nextTransport(t *testing.T, d *fakeDialer) *fakeTransport {
	t.Helper()
	select {
	case ft := <-d.conns:
		return ft
	case <-time.After(testTimeout):
		require.FailNow(t, "timed out waiting for a dial")
		return nil
	}
}

// expectDirective returns the next written directive with method, skipping
// heartbeat pings unless a ping is what is wanted
func expectDirective(t *testing.T, ft *fakeTransport, method string) Directive {
	t.Helper()
	timeout := time.After(testTimeout)
	for {
		select {
		case d := <-ft.writes:
			if d.Method == MethodPing && method != MethodPing {
				continue
			}
			require.Equal(t, method, d.Method, "unexpected directive %+v", d)
			return d
		case <-timeout:
			require.FailNowf(t, "timed out", "waiting for %s directive", method)
			return Directive{}
		}
	}
}

// skipUntilDirective discards writes until one with method arrives
func skipUntilDirective(t *testing.T, ft *fakeTransport, method string) Directive {
	t.Helper()
	timeout := time.After(testTimeout)
	for {
		select {
		case d := <-ft.writes:
			if d.Method == method {
				return d
			}
		case <-timeout:
			require.FailNowf(t, "timed out", "waiting for %s directive", method)
			return Directive{}
		}
	}
}

// expectNoDirective asserts nothing but pings is written for a short while
func expectNoDirective(t *testing.T, ft *fakeTransport) {
	t.Helper()
	timeout := time.After(50 * time.Millisecond)
	for {
		select {
		case d := <-ft.writes:
			if d.Method == MethodPing {
				continue
			}
			require.FailNowf(t, "unexpected directive", "%+v", d)
		case <-timeout:
			return
		}
	}
}

func expectEvent(t *testing.T, conn *Connection, typ EventType) Event {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()
	ev, err := conn.Next(ctx)
	require.NoError(t, err, "waiting for %s event", typ)
	require.Equal(t, typ, ev.Type, "unexpected event %+v", ev)
	return ev
}

func expectNoEvent(t *testing.T, conn *Connection, wait time.Duration) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), wait)
	defer cancel()
	ev, err := conn.Next(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded, "unexpected event %+v", ev)
}

func tradeFrame(coin string, tid int) string {
	return fmt.Sprintf(`{"channel":"trades","data":[{"coin":%q,"side":"B","px":"100.5","sz":"0.1","time":1700000000000,"hash":"0xabc","tid":%d,"users":["0x1","0x2"]}]}`, coin, tid)
}

func subscriptionOf(t *testing.T, d Directive) types.Subscription {
	t.Helper()
	require.NotNil(t, d.Subscription, "directive %s has no subscription", d.Method)
	return *d.Subscription
}
