package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/infinitefield/hypersdk/hypercore/types"
	"github.com/infinitefield/hypersdk/hypercore/ws"
	"github.com/infinitefield/hypersdk/log"
	"github.com/urfave/cli/v2"
)

var (
	outputFormat string
	coin         string
	interval     string
	dex          string
	coinFilter   string
	user         string
	depth        int
)

func coinFlag(def string) cli.Flag {
	return &cli.StringFlag{
		Name:        "coin",
		Usage:       "the coin, e.g. BTC",
		Value:       def,
		Required:    def == "",
		Destination: &coin,
	}
}

var userFlag = &cli.StringFlag{
	Name:        "user",
	Usage:       "the 0x prefixed account address",
	Required:    true,
	Destination: &user,
}

var subscribeCommand = &cli.Command{
	Name:  "subscribe",
	Usage: "streams a feed until interrupted",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:        "format",
			Usage:       "output format ('pretty'/'json')",
			Value:       formatPretty,
			Destination: &outputFormat,
		},
	},
	Subcommands: []*cli.Command{
		{
			Name:   "trades",
			Usage:  "public trades of a coin",
			Flags:  []cli.Flag{coinFlag("")},
			Action: stream(func() []types.Subscription { return []types.Subscription{types.TradesSubscription(coin)} }),
		},
		{
			Name:   "bbo",
			Usage:  "best bid and offer of a coin",
			Flags:  []cli.Flag{coinFlag("")},
			Action: stream(func() []types.Subscription { return []types.Subscription{types.BboSubscription(coin)} }),
		},
		{
			Name:  "orderbook",
			Usage: "level 2 book of a coin",
			Flags: []cli.Flag{
				coinFlag(""),
				&cli.IntFlag{
					Name:        "depth",
					Usage:       "levels shown per side",
					Value:       10,
					Destination: &depth,
				},
			},
			Action: stream(func() []types.Subscription { return []types.Subscription{types.L2BookSubscription(coin)} }),
		},
		{
			Name:  "candles",
			Usage: "candles of a coin",
			Flags: []cli.Flag{
				coinFlag(""),
				&cli.StringFlag{
					Name:        "interval",
					Usage:       "candle interval, e.g. 1m, 15m, 1h, 1d",
					Value:       "1m",
					Destination: &interval,
				},
			},
			Action: stream(func() []types.Subscription { return []types.Subscription{types.CandleSubscription(coin, interval)} }),
		},
		{
			Name:  "allmids",
			Usage: "mid prices of every coin",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:        "dex",
					Usage:       "restricts mids to a builder deployed dex",
					Destination: &dex,
				},
				&cli.StringFlag{
					Name:        "filter",
					Usage:       "comma separated coins to show, e.g. BTC,ETH",
					Destination: &coinFilter,
				},
			},
			Action: stream(func() []types.Subscription { return []types.Subscription{types.AllMidsSubscription(dex)} }),
		},
		{
			Name:   "orderupdates",
			Usage:  "order status changes of a user",
			Flags:  []cli.Flag{userFlag},
			Action: stream(func() []types.Subscription { return []types.Subscription{types.OrderUpdatesSubscription(user)} }),
		},
		{
			Name:   "fills",
			Usage:  "fills of a user",
			Flags:  []cli.Flag{userFlag},
			Action: stream(func() []types.Subscription { return []types.Subscription{types.UserFillsSubscription(user)} }),
		},
		{
			Name:  "userevents",
			Usage: "every user feed: events, twap fills and history, asset data and web data",
			Flags: []cli.Flag{userFlag, coinFlag("BTC")},
			Action: stream(func() []types.Subscription {
				return []types.Subscription{
					types.UserEventsSubscription(user),
					types.UserTwapSliceFillsSubscription(user),
					types.UserTwapHistorySubscription(user),
					types.ActiveAssetDataSubscription(user, coin),
					types.WebData2Subscription(user),
				}
			}),
		},
		{
			Name:  "twap",
			Usage: "twap slice fills and history of a user",
			Flags: []cli.Flag{userFlag},
			Action: stream(func() []types.Subscription {
				return []types.Subscription{types.UserTwapSliceFillsSubscription(user), types.UserTwapHistorySubscription(user)}
			}),
		},
		{
			Name:   "assetdata",
			Usage:  "leverage and trade limits of a user on a coin",
			Flags:  []cli.Flag{userFlag, coinFlag("")},
			Action: stream(func() []types.Subscription { return []types.Subscription{types.ActiveAssetDataSubscription(user, coin)} }),
		},
		{
			Name:   "webdata",
			Usage:  "aggregate frontend state of a user",
			Flags:  []cli.Flag{userFlag},
			Action: stream(func() []types.Subscription { return []types.Subscription{types.WebData2Subscription(user)} }),
		},
	},
}

// stream returns an action subscribing to the feeds built by subs
func stream(subs func() []types.Subscription) cli.ActionFunc {
	return func(c *cli.Context) error {
		p, err := newPrinter(os.Stdout, outputFormat)
		if err != nil {
			return err
		}
		if depth > 0 {
			p.depth = depth
		}
		p.filter = parseFilter(coinFilter)
		return runStream(c, subs(), p, os.Stderr)
	}
}

func runStream(c *cli.Context, subs []types.Subscription, p *printer, status io.Writer) error {
	for i := range subs {
		if err := subs[i].Validate(); err != nil {
			return fmt.Errorf("%s: %w", subs[i], err)
		}
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	wsCfg, err := cfg.WebsocketConfig()
	if err != nil {
		return err
	}
	if cfg.MetricsListen != "" {
		reg := newMetricsRegistry()
		if wsCfg.Metrics, err = ws.NewMetrics(reg); err != nil {
			return err
		}
		if _, err = serveMetrics(c.Context, cfg.MetricsListen, reg); err != nil {
			return err
		}
	}

	conn, err := ws.NewConnection(wsCfg)
	if err != nil {
		return err
	}
	defer conn.Close()
	log.Infof(log.CLI, "Streaming from %s", conn.URL())
	for i := range subs {
		conn.Subscribe(subs[i])
	}
	return consume(c.Context, conn, p, status)
}

type eventSource interface {
	Next(ctx context.Context) (ws.Event, error)
}

// consume prints events until ctx is done or the source closes
func consume(ctx context.Context, src eventSource, p *printer, status io.Writer) error {
	for {
		ev, err := src.Next(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, ws.ErrConnectionClosed) {
				return nil
			}
			return err
		}
		switch ev.Type {
		case ws.Connected:
			fmt.Fprintln(status, "Connected")
		case ws.Disconnected:
			fmt.Fprintln(status, "Disconnected, reconnecting...")
		case ws.Message:
			if resp, ok := ev.Message.(*types.SubscriptionResponse); ok {
				fmt.Fprintf(status, "Subscription confirmed: %s %s\n", resp.Method, resp.Subscription)
				continue
			}
			if err := p.print(ev.Message); err != nil {
				return err
			}
		}
	}
}
