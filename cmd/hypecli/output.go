package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/buger/jsonparser"
	"github.com/infinitefield/hypersdk/hypercore/types"
	"github.com/shopspring/decimal"
)

// Output formats
const (
	formatPretty = "pretty"
	formatJSON   = "json"
)

var errUnknownFormat = errors.New("unknown output format")

const clearScreen = "\x1b[2J\x1b[1;1H"

// printer renders messages to out in the selected format
type printer struct {
	out    io.Writer
	format string
	// depth limits the levels printed per book side
	depth int
	// filter keeps mids whose coin contains any entry, upper cased
	filter []string
}

func newPrinter(out io.Writer, format string) (*printer, error) {
	switch format {
	case formatPretty, formatJSON:
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownFormat, format)
	}
	return &printer{out: out, format: format, depth: 10}, nil
}

// parseFilter splits a comma separated coin list
func parseFilter(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToUpper(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func (p *printer) json(v any) error {
	return json.NewEncoder(p.out).Encode(v)
}

// print writes msg, messages the printer has no format for are ignored
func (p *printer) print(msg types.Incoming) error {
	switch m := msg.(type) {
	case types.Trades:
		return p.trades(m)
	case *types.Bbo:
		return p.bbo(m)
	case *types.L2Book:
		return p.book(m)
	case *types.Candle:
		return p.candle(m)
	case *types.AllMids:
		return p.mids(m)
	case types.OrderUpdates:
		return p.orderUpdates(m)
	case *types.UserFills:
		return p.fills(m)
	case *types.UserEvent:
		return p.userEvent(m)
	case *types.UserTwapSliceFills:
		return p.twapSliceFills(m)
	case *types.UserTwapHistory:
		return p.twapHistory(m)
	case *types.ActiveAssetData:
		return p.assetData(m)
	case *types.WebData2:
		return p.webData(m)
	case *types.Unknown:
		if p.format == formatJSON {
			_, err := fmt.Fprintf(p.out, "%s\n", m.Raw)
			return err
		}
		_, err := fmt.Fprintf(p.out, "%s: %s\n", m.Channel(), m.Raw)
		return err
	default:
		return nil
	}
}

func (p *printer) trades(trades types.Trades) error {
	for i := range trades {
		t := &trades[i]
		var err error
		if p.format == formatJSON {
			err = p.json(t)
		} else {
			_, err = fmt.Fprintf(p.out, "%s %s %s @ %s (notional: %s)\n", t.Coin, t.Side, t.Sz, t.Px, t.Notional())
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func levelString(l *types.BookLevel) string {
	if l == nil {
		return "-"
	}
	return l.Sz.String() + " @ " + l.Px.String()
}

func (p *printer) bbo(b *types.Bbo) error {
	if p.format == formatJSON {
		return p.json(b)
	}
	spread := "-"
	if s, ok := b.Spread(); ok {
		spread = s.String()
	}
	_, err := fmt.Fprintf(p.out, "%s: bid %s | ask %s | spread %s\n", b.Coin, levelString(b.Bid()), levelString(b.Ask()), spread)
	return err
}

func (p *printer) book(b *types.L2Book) error {
	if p.format == formatJSON {
		return p.json(b)
	}
	if _, err := fmt.Fprintf(p.out, "%s=== %s Orderbook ===\n\n", clearScreen, b.Coin); err != nil {
		return err
	}
	w := tabwriter.NewWriter(p.out, 0, 8, 1, ' ', 0)
	asks := b.Asks()
	if len(asks) > p.depth {
		asks = asks[:p.depth]
	}
	fmt.Fprintln(w, "ASKS")
	fmt.Fprintln(w, "Price\tSize\tOrders")
	// best ask printed last, next to the bids
	for i := len(asks) - 1; i >= 0; i-- {
		fmt.Fprintf(w, "%s\t%s\t%d\n", asks[i].Px, asks[i].Sz, asks[i].N)
	}
	fmt.Fprintln(w, "---")
	bids := b.Bids()
	if len(bids) > p.depth {
		bids = bids[:p.depth]
	}
	fmt.Fprintln(w, "BIDS")
	fmt.Fprintln(w, "Price\tSize\tOrders")
	for i := range bids {
		fmt.Fprintf(w, "%s\t%s\t%d\n", bids[i].Px, bids[i].Sz, bids[i].N)
	}
	return w.Flush()
}

func (p *printer) candle(c *types.Candle) error {
	if p.format == formatJSON {
		return p.json(c)
	}
	change, pct := c.Change()
	sign := ""
	if !change.IsNegative() {
		sign = "+"
	}
	_, err := fmt.Fprintf(p.out, "%s %s | O:%s H:%s L:%s C:%s | V:%s | %s%s (%s%s%%)\n",
		c.Coin, c.Interval, c.Open, c.High, c.Low, c.Close, c.Volume,
		sign, change, sign, pct.StringFixed(2))
	return err
}

func (p *printer) mids(m *types.AllMids) error {
	coins := make([]string, 0, len(m.Mids))
	for coin := range m.Mids {
		if p.keep(coin) {
			coins = append(coins, coin)
		}
	}
	sort.Strings(coins)

	if p.format == formatJSON {
		mids := make(map[string]decimal.Decimal, len(coins))
		for _, coin := range coins {
			mids[coin] = m.Mids[coin]
		}
		return p.json(&types.AllMids{Dex: m.Dex, Mids: mids})
	}

	dex := m.Dex
	if dex == "" {
		dex = "all"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Mid Prices (%s) ---\n", dex)
	for _, coin := range coins {
		fmt.Fprintf(&sb, "%s: %s\n", coin, m.Mids[coin])
	}
	sb.WriteByte('\n')
	_, err := io.WriteString(p.out, sb.String())
	return err
}

func (p *printer) keep(coin string) bool {
	if len(p.filter) == 0 {
		return true
	}
	upper := strings.ToUpper(coin)
	for _, f := range p.filter {
		if strings.Contains(upper, f) {
			return true
		}
	}
	return false
}

func (p *printer) orderUpdates(updates types.OrderUpdates) error {
	for i := range updates {
		u := &updates[i]
		var err error
		if p.format == formatJSON {
			err = p.json(u)
		} else {
			_, err = fmt.Fprintf(p.out, "[%d] %s %s %s @ %s | status: %s | oid: %d\n",
				u.StatusTimestamp, u.Order.Coin, u.Order.Side, u.Order.Sz, u.Order.LimitPx, u.Status, u.Order.Oid)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *printer) fills(f *types.UserFills) error {
	for i := range f.Fills {
		fill := &f.Fills[i]
		var err error
		if p.format == formatJSON {
			err = p.json(struct {
				User string      `json:"user"`
				Fill *types.Fill `json:"fill"`
			}{f.User, fill})
		} else {
			err = p.fill(fill)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *printer) fill(f *types.Fill) error {
	_, err := fmt.Fprintf(p.out, "[%d] %s %s %s @ %s | fee: %s | oid: %d\n", f.Time, f.Coin, f.Side, f.Sz, f.Px, f.Fee, f.Oid)
	return err
}

func (p *printer) userEvent(e *types.UserEvent) error {
	if p.format == formatJSON {
		if e.Kind() == types.UserEventUnknown {
			_, err := fmt.Fprintf(p.out, "%s\n", e.Raw)
			return err
		}
		return p.json(e)
	}
	var err error
	switch e.Kind() {
	case types.UserEventFills:
		_, err = fmt.Fprintf(p.out, "userEvents.fills: %d fill(s)\n", len(e.Fills))
	case types.UserEventFunding:
		_, err = fmt.Fprintf(p.out, "userEvents.funding: %s usdc=%s rate=%s\n", e.Funding.Coin, e.Funding.Usdc, e.Funding.FundingRate)
	case types.UserEventLiquidation:
		_, err = fmt.Fprintf(p.out, "userEvents.liquidation: lid=%d liquidated_user=%s ntl_pos=%s\n",
			e.Liquidation.Lid, e.Liquidation.LiquidatedUser, e.Liquidation.LiquidatedNtlPos)
	case types.UserEventNonUserCancel:
		_, err = fmt.Fprintf(p.out, "userEvents.nonUserCancel: %d cancel(s)\n", len(e.NonUserCancel))
	default:
		_, err = fmt.Fprintf(p.out, "userEvents.unknown: %s\n", e.Raw)
	}
	return err
}

func (p *printer) twapSliceFills(f *types.UserTwapSliceFills) error {
	if p.format == formatJSON {
		return p.json(f)
	}
	_, err := fmt.Fprintf(p.out, "userTwapSliceFills: snapshot=%t slices=%d\n", f.IsSnapshot, len(f.TwapSliceFills))
	return err
}

func (p *printer) twapHistory(h *types.UserTwapHistory) error {
	if p.format == formatJSON {
		return p.json(h)
	}
	for i := range h.History {
		item := &h.History[i]
		status := item.Status.Status
		if status == "" {
			status = "unknown"
		}
		if _, err := fmt.Fprintf(p.out, "userTwapHistory: %s %s sz=%s executed=%s status=%s (%s)\n",
			item.State.Coin, item.State.Side, item.State.Sz, item.State.ExecutedSz, status, item.Status.Description); err != nil {
			return err
		}
	}
	return nil
}

func (p *printer) assetData(d *types.ActiveAssetData) error {
	if p.format == formatJSON {
		return p.json(d)
	}
	_, err := fmt.Fprintf(p.out, "activeAssetData: %s lev=%s %d maxTradeSzs=[long=%s, short=%s] availableToTrade=[long=%s, short=%s]\n",
		d.Coin, d.Leverage.Type, d.Leverage.Value,
		d.MaxTradeSzs[0], d.MaxTradeSzs[1], d.AvailableToTrade[0], d.AvailableToTrade[1])
	return err
}

func (p *printer) webData(w *types.WebData2) error {
	if p.format == formatJSON {
		_, err := fmt.Fprintf(p.out, "%s\n", w.Raw)
		return err
	}
	var keys int
	if err := jsonparser.ObjectEach(w.Raw, func([]byte, []byte, jsonparser.ValueType, int) error {
		keys++
		return nil
	}); err != nil {
		return err
	}
	_, err := fmt.Fprintf(p.out, "webData2: object_keys=%d\n", keys)
	return err
}
