// Package config loads the hypecli configuration from an optional file and
// HYPESTREAM_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/infinitefield/hypersdk/hypercore"
	"github.com/infinitefield/hypersdk/hypercore/ws"
	"github.com/infinitefield/hypersdk/log"
	"github.com/spf13/viper"
)

var errConfigIsNil = errors.New("config is nil")

func setDefaults(v *viper.Viper) {
	v.SetDefault("chain", hypercore.Mainnet.String())
	v.SetDefault("url", "")
	v.SetDefault("verbose", false)
	v.SetDefault("metrics_listen", "")

	v.SetDefault("websocket.proxy_url", "")
	v.SetDefault("websocket.connect_timeout", ws.DefaultConnectTimeout)
	v.SetDefault("websocket.write_timeout", ws.DefaultWriteTimeout)
	v.SetDefault("websocket.ping_interval", ws.DefaultPingInterval)
	v.SetDefault("websocket.max_missed_pongs", ws.DefaultMaxMissedPongs)
	v.SetDefault("websocket.initial_reconnect_delay", ws.DefaultInitialReconnectDelay)
	v.SetDefault("websocket.max_reconnect_delay", ws.DefaultMaxReconnectDelay)
	v.SetDefault("websocket.messages_per_minute", 0)

	l := log.GenDefaultSettings()
	v.SetDefault("logging.enabled", *l.Enabled)
	v.SetDefault("logging.level", l.Level)
	v.SetDefault("logging.output", l.Output)
	v.SetDefault("logging.advancedSettings.showLogSystemName", *l.AdvancedSettings.ShowLogSystemName)
	v.SetDefault("logging.advancedSettings.spacer", l.AdvancedSettings.Spacer)
	v.SetDefault("logging.advancedSettings.timeStampFormat", l.AdvancedSettings.TimeStampFormat)
	v.SetDefault("logging.advancedSettings.headers.info", l.AdvancedSettings.Headers.Info)
	v.SetDefault("logging.advancedSettings.headers.warn", l.AdvancedSettings.Headers.Warn)
	v.SetDefault("logging.advancedSettings.headers.debug", l.AdvancedSettings.Headers.Debug)
	v.SetDefault("logging.advancedSettings.headers.error", l.AdvancedSettings.Headers.Error)
}

// Load reads path when it is not empty, then applies environment overrides.
// The file format follows the extension: yaml, json or toml.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
		log.Debugf(log.ConfigMgr, "Loaded config file %s", v.ConfigFileUsed())
	}

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the chain and the derived websocket settings
func (c *Config) Validate() error {
	if c == nil {
		return errConfigIsNil
	}
	if _, err := hypercore.ParseChain(c.Chain); err != nil {
		return err
	}
	wsCfg, err := c.WebsocketConfig()
	if err != nil {
		return err
	}
	return wsCfg.Validate()
}

// Endpoint returns URL when set, otherwise the chain endpoint
func (c *Config) Endpoint() (string, error) {
	if c.URL != "" {
		return c.URL, nil
	}
	chain, err := hypercore.ParseChain(c.Chain)
	if err != nil {
		return "", err
	}
	return chain.WebsocketURL(), nil
}

// WebsocketConfig converts the settings into a connection config. Metrics
// and the dialer are left for the caller.
func (c *Config) WebsocketConfig() (*ws.Config, error) {
	endpoint, err := c.Endpoint()
	if err != nil {
		return nil, err
	}
	wsCfg := ws.DefaultConfig(endpoint)
	wsCfg.ProxyURL = c.Websocket.ProxyURL
	wsCfg.Verbose = c.Verbose
	wsCfg.MessagesPerMinute = c.Websocket.MessagesPerMinute
	if c.Websocket.ConnectTimeout != 0 {
		wsCfg.ConnectTimeout = c.Websocket.ConnectTimeout
	}
	if c.Websocket.WriteTimeout != 0 {
		wsCfg.WriteTimeout = c.Websocket.WriteTimeout
	}
	if c.Websocket.PingInterval != 0 {
		wsCfg.PingInterval = c.Websocket.PingInterval
	}
	if c.Websocket.MaxMissedPongs != 0 {
		wsCfg.MaxMissedPongs = c.Websocket.MaxMissedPongs
	}
	if c.Websocket.InitialReconnectDelay != 0 {
		wsCfg.InitialReconnectDelay = c.Websocket.InitialReconnectDelay
	}
	if c.Websocket.MaxReconnectDelay != 0 {
		wsCfg.MaxReconnectDelay = c.Websocket.MaxReconnectDelay
	}
	return wsCfg, nil
}
