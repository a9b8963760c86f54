package main

import (
	"context"
	"fmt"
	"os"

	"github.com/infinitefield/hypersdk/config"
	"github.com/infinitefield/hypersdk/log"
	"github.com/infinitefield/hypersdk/signaler"
	"github.com/urfave/cli/v2"
)

var (
	configPath    string
	chainName     string
	endpointURL   string
	verbose       bool
	metricsListen string
)

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "hypecli"
	app.Usage = "command line interface for the HyperCore streaming API"
	app.EnableBashCompletion = true
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "optional yaml, json or toml config file",
			EnvVars:     []string{config.EnvPrefix + "_CONFIG"},
			Destination: &configPath,
		},
		&cli.StringFlag{
			Name:        "chain",
			Usage:       "the chain to connect to ('mainnet'/'testnet'), overrides the config",
			Destination: &chainName,
		},
		&cli.StringFlag{
			Name:        "url",
			Usage:       "a websocket endpoint overriding the chain default",
			Destination: &endpointURL,
		},
		&cli.BoolFlag{
			Name:        "verbose",
			Usage:       "logs every frame sent and received",
			Destination: &verbose,
		},
		&cli.StringFlag{
			Name:        "metrics-listen",
			Usage:       "serves prometheus metrics on this address, e.g. 127.0.0.1:9100",
			Destination: &metricsListen,
		},
	}
	app.Commands = []*cli.Command{
		subscribeCommand,
	}
	return app
}

// loadConfig reads the config file and environment, then applies flags
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if c.IsSet("chain") {
		cfg.Chain = chainName
	}
	if c.IsSet("url") {
		cfg.URL = endpointURL
	}
	if c.IsSet("verbose") {
		cfg.Verbose = verbose
	}
	if c.IsSet("metrics-listen") {
		cfg.MetricsListen = metricsListen
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := log.SetupGlobalLogger(&cfg.Logging); err != nil {
		return nil, fmt.Errorf("setting up logger: %w", err)
	}
	if cfg.Verbose {
		if _, err := log.SetLevel(log.WebsocketMgr.Name(), log.AllLevels); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func main() {
	ctx, cancel := signaler.WithInterrupt(context.Background())
	err := newApp().RunContext(ctx, os.Args)
	cancel()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
