package config

import (
	"time"

	"github.com/infinitefield/hypersdk/log"
)

// EnvPrefix prefixes every environment override, e.g. HYPESTREAM_CHAIN
const EnvPrefix = "HYPESTREAM"

// Config is the hypecli configuration
type Config struct {
	// Chain is mainnet or testnet and selects the default URL
	Chain string `mapstructure:"chain"`
	// URL overrides the chain endpoint when set
	URL           string     `mapstructure:"url"`
	Verbose       bool       `mapstructure:"verbose"`
	MetricsListen string     `mapstructure:"metrics_listen"`
	Websocket     Websocket  `mapstructure:"websocket"`
	Logging       log.Config `mapstructure:"logging"`
}

// Websocket holds the connection tuning, durations are strings such as "5s"
type Websocket struct {
	ProxyURL              string        `mapstructure:"proxy_url"`
	ConnectTimeout        time.Duration `mapstructure:"connect_timeout"`
	WriteTimeout          time.Duration `mapstructure:"write_timeout"`
	PingInterval          time.Duration `mapstructure:"ping_interval"`
	MaxMissedPongs        int           `mapstructure:"max_missed_pongs"`
	InitialReconnectDelay time.Duration `mapstructure:"initial_reconnect_delay"`
	MaxReconnectDelay     time.Duration `mapstructure:"max_reconnect_delay"`
	MessagesPerMinute     int           `mapstructure:"messages_per_minute"`
}
