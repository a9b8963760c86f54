package ws

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Transport is one established socket. ReadMessage is called from a single
// reader goroutine while WriteMessage and Close may be called from another.
type Transport interface {
	ReadMessage() ([]byte, error)
	WriteMessage(data []byte) error
	Close() error
}

// Dialer opens a Transport to endpoint. The context bounds the dial.
type Dialer interface {
	Dial(ctx context.Context, endpoint string) (Transport, error)
}

// WebsocketDialer dials with gorilla/websocket
type WebsocketDialer struct {
	ProxyURL         string
	HandshakeTimeout time.Duration
	WriteTimeout     time.Duration
	Header           http.Header
}

// NewWebsocketDialer returns a dialer configured from c
func NewWebsocketDialer(c *Config) *WebsocketDialer {
	return &WebsocketDialer{
		ProxyURL:         c.ProxyURL,
		HandshakeTimeout: c.ConnectTimeout,
		WriteTimeout:     c.WriteTimeout,
	}
}

// Dial sets proxy urls and then connects to the websocket
func (d *WebsocketDialer) Dial(ctx context.Context, endpoint string) (Transport, error) {
	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: d.HandshakeTimeout,
	}
	if d.ProxyURL != "" {
		proxy, err := url.Parse(d.ProxyURL)
		if err != nil {
			return nil, err
		}
		dialer.Proxy = http.ProxyURL(proxy)
	}

	conn, conStatus, err := dialer.DialContext(ctx, endpoint, d.Header)
	if err != nil {
		if conStatus != nil {
			conStatus.Body.Close()
			return nil, fmt.Errorf("websocket connection: %v %v Error: %w", endpoint, conStatus.StatusCode, err)
		}
		return nil, fmt.Errorf("websocket connection: %v Error: %w", endpoint, err)
	}
	conStatus.Body.Close()
	return &websocketTransport{conn: conn, writeTimeout: d.WriteTimeout}, nil
}

type websocketTransport struct {
	conn         *websocket.Conn
	writeTimeout time.Duration
	writeControl sync.Mutex
}

// ReadMessage reads messages, can handle text, gzip and binary
func (t *websocketTransport) ReadMessage() ([]byte, error) {
	mType, resp, err := t.conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	if mType == websocket.BinaryMessage {
		return parseBinaryResponse(resp)
	}
	return resp, nil
}

func (t *websocketTransport) WriteMessage(data []byte) error {
	// Serialises writers, gorilla panics on concurrent writes
	t.writeControl.Lock()
	defer t.writeControl.Unlock()
	if t.writeTimeout > 0 {
		if err := t.conn.SetWriteDeadline(time.Now().Add(t.writeTimeout)); err != nil {
			return err
		}
	}
	return t.conn.WriteMessage(websocket.TextMessage, data)
}

func (t *websocketTransport) Close() error {
	t.writeControl.Lock()
	_ = t.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	t.writeControl.Unlock()
	return t.conn.Close()
}

// parseBinaryResponse parses a websocket binary response into a usable byte array
func parseBinaryResponse(resp []byte) ([]byte, error) {
	var reader io.ReadCloser
	var err error
	if len(resp) >= 2 && resp[0] == 31 && resp[1] == 139 { // Detect GZIP
		reader, err = gzip.NewReader(bytes.NewReader(resp))
		if err != nil {
			return nil, err
		}
	} else {
		reader = flate.NewReader(bytes.NewReader(resp))
	}
	standardMessage, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	return standardMessage, reader.Close()
}

// Disconnect causes used as log context and metric labels
const (
	reasonTimeout  = "timeout"
	reasonReset    = "reset"
	reasonClosed   = "closed"
	reasonStale    = "stale"
	reasonSend     = "send"
	reasonShutdown = "shutdown"
	reasonOther    = "error"
)

// disconnectReason classifies err into a coarse cause
func disconnectReason(err error) string {
	var netErr net.Error
	var closeErr *websocket.CloseError
	switch {
	case err == nil:
		return reasonOther
	case errors.Is(err, errShutdown), errors.Is(err, context.Canceled):
		return reasonShutdown
	case errors.Is(err, errStale):
		return reasonStale
	case errors.Is(err, errSendFailed):
		return reasonSend
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return reasonTimeout
	case errors.As(err, &closeErr), errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return reasonClosed
	case errors.Is(err, net.ErrClosed), isConnReset(err):
		return reasonReset
	default:
		return reasonOther
	}
}

func isConnReset(err error) bool {
	var opErr *net.OpError
	return errors.As(err, &opErr) && !opErr.Timeout()
}
