package types

import "github.com/shopspring/decimal"

// Side of a trade or order. B is bid (buy), A is ask (sell).
type Side string

// Side values
const (
	Bid Side = "B"
	Ask Side = "A"
)

// String returns buy or sell
func (s Side) String() string {
	switch s {
	case Bid:
		return "buy"
	case Ask:
		return "sell"
	default:
		return string(s)
	}
}

// Trade is a single public trade
type Trade struct {
	Coin  string          `json:"coin"`
	Side  Side            `json:"side"`
	Px    decimal.Decimal `json:"px"`
	Sz    decimal.Decimal `json:"sz"`
	Time  int64           `json:"time"`
	Hash  string          `json:"hash"`
	Tid   int64           `json:"tid"`
	Users [2]string       `json:"users"`
}

// Notional returns price times size
func (t *Trade) Notional() decimal.Decimal {
	return t.Px.Mul(t.Sz)
}

// BookLevel is an aggregated price level
type BookLevel struct {
	Px decimal.Decimal `json:"px"`
	Sz decimal.Decimal `json:"sz"`
	N  int             `json:"n"`
}

// L2Book is a level 2 book snapshot. Levels[0] holds bids best first,
// Levels[1] holds asks best first.
type L2Book struct {
	Coin   string         `json:"coin"`
	Time   int64          `json:"time"`
	Levels [2][]BookLevel `json:"levels"`
}

// Bids returns the bid side
func (b *L2Book) Bids() []BookLevel { return b.Levels[0] }

// Asks returns the ask side
func (b *L2Book) Asks() []BookLevel { return b.Levels[1] }

// Bbo is the best bid and offer of a market; either side may be absent
type Bbo struct {
	Coin string        `json:"coin"`
	Time int64         `json:"time"`
	Bbo  [2]*BookLevel `json:"bbo"`
}

// Bid returns the best bid or nil
func (b *Bbo) Bid() *BookLevel { return b.Bbo[0] }

// Ask returns the best ask or nil
func (b *Bbo) Ask() *BookLevel { return b.Bbo[1] }

// Spread returns ask minus bid, false when either side is missing
func (b *Bbo) Spread() (decimal.Decimal, bool) {
	bid, ask := b.Bid(), b.Ask()
	if bid == nil || ask == nil {
		return decimal.Zero, false
	}
	return ask.Px.Sub(bid.Px), true
}

// Candle is one OHLCV bar
type Candle struct {
	OpenTime  int64           `json:"t"`
	CloseTime int64           `json:"T"`
	Coin      string          `json:"s"`
	Interval  string          `json:"i"`
	Open      decimal.Decimal `json:"o"`
	Close     decimal.Decimal `json:"c"`
	High      decimal.Decimal `json:"h"`
	Low       decimal.Decimal `json:"l"`
	Volume    decimal.Decimal `json:"v"`
	Trades    int64           `json:"n"`
}

// Change returns close minus open and the change as a percentage of open
func (c *Candle) Change() (abs, pct decimal.Decimal) {
	abs = c.Close.Sub(c.Open)
	if c.Open.IsZero() {
		return abs, decimal.Zero
	}
	return abs, abs.Div(c.Open).Mul(decimal.NewFromInt(100))
}

// AllMids maps coin to mid price
type AllMids struct {
	Dex  string                     `json:"dex,omitempty"`
	Mids map[string]decimal.Decimal `json:"mids"`
}
