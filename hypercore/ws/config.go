package ws

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// Default connection tuning
const (
	DefaultConnectTimeout        = 10 * time.Second
	DefaultWriteTimeout          = 10 * time.Second
	DefaultPingInterval          = 5 * time.Second
	DefaultMaxMissedPongs        = 2
	DefaultInitialReconnectDelay = 500 * time.Millisecond
	DefaultMaxReconnectDelay     = 5 * time.Second
)

var (
	errConfigIsNil            = errors.New("connection config is nil")
	errRunningURLIsEmpty      = errors.New("running url cannot be empty")
	errInvalidWebsocketURL    = errors.New("invalid websocket url")
	errInvalidProxyURL        = errors.New("invalid proxy url")
	errInvalidConnectTimeout  = errors.New("connect timeout must be greater than 0")
	errInvalidPingInterval    = errors.New("ping interval must be greater than 0")
	errInvalidMaxMissedPongs  = errors.New("max missed pongs must be greater than 0")
	errInvalidReconnectDelay  = errors.New("reconnect delays must be greater than 0")
	errReconnectDelayInverted = errors.New("max reconnect delay cannot be less than initial reconnect delay")
	errInvalidMessageRate     = errors.New("messages per minute cannot be less than 0")
	errMessageRateTooLow      = errors.New("messages per minute must leave room above the ping rate")
)

// Config defines the settings of a Connection
type Config struct {
	// URL is the ws or wss endpoint, fixed for the lifetime of the connection
	URL string
	// ProxyURL optionally routes the dial through an http, https or socks5 proxy
	ProxyURL string

	ConnectTimeout time.Duration
	// WriteTimeout bounds every frame write; zero disables the deadline
	WriteTimeout time.Duration

	PingInterval   time.Duration
	MaxMissedPongs int

	InitialReconnectDelay time.Duration
	MaxReconnectDelay     time.Duration

	// MessagesPerMinute limits outbound frames; zero is unlimited. Pings and
	// pongs are never delayed but draw from the same budget, so it must exceed
	// the ping rate.
	MessagesPerMinute int

	Verbose bool

	// Metrics is optional
	Metrics *Metrics
	// Dialer replaces the gorilla/websocket dialer when set
	Dialer Dialer
}

// DefaultConfig returns a config for endpoint with the default tuning
func DefaultConfig(endpoint string) *Config {
	return &Config{
		URL:                   endpoint,
		ConnectTimeout:        DefaultConnectTimeout,
		WriteTimeout:          DefaultWriteTimeout,
		PingInterval:          DefaultPingInterval,
		MaxMissedPongs:        DefaultMaxMissedPongs,
		InitialReconnectDelay: DefaultInitialReconnectDelay,
		MaxReconnectDelay:     DefaultMaxReconnectDelay,
	}
}

// Validate checks the config is usable
func (c *Config) Validate() error {
	if c == nil {
		return errConfigIsNil
	}
	if c.URL == "" {
		return errRunningURLIsEmpty
	}
	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("%w: %w", errInvalidWebsocketURL, err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("%w: scheme %q", errInvalidWebsocketURL, u.Scheme)
	}
	if c.ProxyURL != "" {
		if _, err := url.Parse(c.ProxyURL); err != nil {
			return fmt.Errorf("%w: %w", errInvalidProxyURL, err)
		}
	}
	if c.ConnectTimeout <= 0 {
		return errInvalidConnectTimeout
	}
	if c.PingInterval <= 0 {
		return errInvalidPingInterval
	}
	if c.MaxMissedPongs <= 0 {
		return errInvalidMaxMissedPongs
	}
	if c.InitialReconnectDelay <= 0 || c.MaxReconnectDelay <= 0 {
		return errInvalidReconnectDelay
	}
	if c.MaxReconnectDelay < c.InitialReconnectDelay {
		return errReconnectDelayInverted
	}
	if c.MessagesPerMinute < 0 {
		return errInvalidMessageRate
	}
	if pings := int(time.Minute / c.PingInterval); c.MessagesPerMinute > 0 && c.MessagesPerMinute <= pings {
		return fmt.Errorf("%w: %d per minute with %d pings per minute", errMessageRateTooLow, c.MessagesPerMinute, pings)
	}
	return nil
}
