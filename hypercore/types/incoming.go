package types

import "encoding/json"

// Inbound channel names
const (
	TradesChannel               = "trades"
	L2BookChannel               = "l2Book"
	BboChannel                  = "bbo"
	CandleChannel               = "candle"
	AllMidsChannel              = "allMids"
	OrderUpdatesChannel         = "orderUpdates"
	UserFillsChannel            = "userFills"
	UserEventsChannel           = "user"
	UserTwapSliceFillsChannel   = "userTwapSliceFills"
	UserTwapHistoryChannel      = "userTwapHistory"
	ActiveAssetDataChannel      = "activeAssetData"
	WebData2Channel             = "webData2"
	SubscriptionResponseChannel = "subscriptionResponse"
	PingChannel                 = "ping"
	PongChannel                 = "pong"
)

// Incoming is a decoded server message. The set of implementations is closed;
// frames on channels this package does not know decode to *Unknown.
type Incoming interface {
	Channel() string
	incoming()
}

// Trades is a batch of public trades
type Trades []Trade

// OrderUpdates is a batch of order status changes
type OrderUpdates []OrderUpdate

// SubscriptionResponse acknowledges a subscribe or unsubscribe directive
type SubscriptionResponse struct {
	Method       string       `json:"method"`
	Subscription Subscription `json:"subscription"`
}

// Ping is a server initiated heartbeat, answered with a pong
type Ping struct{}

// Pong answers a client ping
type Pong struct{}

// Unknown carries a frame on an unrecognised channel verbatim
type Unknown struct {
	Name string          `json:"channel"`
	Raw  json.RawMessage `json:"raw"`
}

func (Trades) Channel() string                { return TradesChannel }
func (*L2Book) Channel() string               { return L2BookChannel }
func (*Bbo) Channel() string                  { return BboChannel }
func (*Candle) Channel() string               { return CandleChannel }
func (*AllMids) Channel() string              { return AllMidsChannel }
func (OrderUpdates) Channel() string          { return OrderUpdatesChannel }
func (*UserFills) Channel() string            { return UserFillsChannel }
func (*UserEvent) Channel() string            { return UserEventsChannel }
func (*UserTwapSliceFills) Channel() string   { return UserTwapSliceFillsChannel }
func (*UserTwapHistory) Channel() string      { return UserTwapHistoryChannel }
func (*ActiveAssetData) Channel() string      { return ActiveAssetDataChannel }
func (*WebData2) Channel() string             { return WebData2Channel }
func (*SubscriptionResponse) Channel() string { return SubscriptionResponseChannel }
func (Ping) Channel() string                  { return PingChannel }
func (Pong) Channel() string                  { return PongChannel }
func (u *Unknown) Channel() string            { return u.Name }

func (Trades) incoming()                {}
func (*L2Book) incoming()               {}
func (*Bbo) incoming()                  {}
func (*Candle) incoming()               {}
func (*AllMids) incoming()              {}
func (OrderUpdates) incoming()          {}
func (*UserFills) incoming()            {}
func (*UserEvent) incoming()            {}
func (*UserTwapSliceFills) incoming()   {}
func (*UserTwapHistory) incoming()      {}
func (*ActiveAssetData) incoming()      {}
func (*WebData2) incoming()             {}
func (*SubscriptionResponse) incoming() {}
func (Ping) incoming()                  {}
func (Pong) incoming()                  {}
func (*Unknown) incoming()              {}
