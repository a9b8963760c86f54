package types

import (
	"errors"
	"fmt"
	"strings"
)

// Subscription type discriminators as sent on the wire
const (
	TradesType             = "trades"
	L2BookType             = "l2Book"
	BboType                = "bbo"
	CandleType             = "candle"
	AllMidsType            = "allMids"
	OrderUpdatesType       = "orderUpdates"
	UserFillsType          = "userFills"
	UserEventsType         = "userEvents"
	UserTwapSliceFillsType = "userTwapSliceFills"
	UserTwapHistoryType    = "userTwapHistory"
	ActiveAssetDataType    = "activeAssetData"
	WebData2Type           = "webData2"
)

var (
	errUnknownSubscriptionType = errors.New("unknown subscription type")
	errCoinEmpty               = errors.New("coin cannot be empty")
	errIntervalEmpty           = errors.New("interval cannot be empty")
	errInvalidAddress          = errors.New("invalid user address")
	errUnexpectedField         = errors.New("unexpected field set")
)

// Subscription identifies one server side data feed. It is comparable and
// safe to use as a map key; two subscriptions are the same feed when every
// field matches.
type Subscription struct {
	Type     string `json:"type"`
	Coin     string `json:"coin,omitempty"`
	Interval string `json:"interval,omitempty"`
	Dex      string `json:"dex,omitempty"`
	User     string `json:"user,omitempty"`
}

// TradesSubscription returns a subscription to public trades for coin
func TradesSubscription(coin string) Subscription {
	return Subscription{Type: TradesType, Coin: coin}
}

// L2BookSubscription returns a subscription to level 2 book snapshots for coin
func L2BookSubscription(coin string) Subscription {
	return Subscription{Type: L2BookType, Coin: coin}
}

// BboSubscription returns a subscription to best bid and offer updates for coin
func BboSubscription(coin string) Subscription {
	return Subscription{Type: BboType, Coin: coin}
}

// CandleSubscription returns a subscription to candles for coin at interval, e.g. 1m
func CandleSubscription(coin, interval string) Subscription {
	return Subscription{Type: CandleType, Coin: coin, Interval: interval}
}

// AllMidsSubscription returns a subscription to mid prices of every market. An empty dex
// selects the default perp dex.
func AllMidsSubscription(dex string) Subscription {
	return Subscription{Type: AllMidsType, Dex: dex}
}

// OrderUpdatesSubscription returns a subscription to order status changes of user
func OrderUpdatesSubscription(user string) Subscription {
	return userSubscription(OrderUpdatesType, user)
}

// UserFillsSubscription returns a subscription to fills of user
func UserFillsSubscription(user string) Subscription {
	return userSubscription(UserFillsType, user)
}

// UserEventsSubscription returns a subscription to fills, funding, liquidation and
// cancel events of user
func UserEventsSubscription(user string) Subscription {
	return userSubscription(UserEventsType, user)
}

// UserTwapSliceFillsSubscription returns a subscription to TWAP slice fills of user
func UserTwapSliceFillsSubscription(user string) Subscription {
	return userSubscription(UserTwapSliceFillsType, user)
}

// UserTwapHistorySubscription returns a subscription to TWAP order history of user
func UserTwapHistorySubscription(user string) Subscription {
	return userSubscription(UserTwapHistoryType, user)
}

// ActiveAssetDataSubscription returns a subscription to leverage and trade limits of user
// on coin
func ActiveAssetDataSubscription(user, coin string) Subscription {
	s := userSubscription(ActiveAssetDataType, user)
	s.Coin = coin
	return s
}

// WebData2Subscription returns a subscription to the aggregate frontend state of user
func WebData2Subscription(user string) Subscription {
	return userSubscription(WebData2Type, user)
}

func userSubscription(typ, user string) Subscription {
	return Subscription{Type: typ, User: strings.ToLower(user)}
}

// Normalize returns s with the user address lower cased, so subscriptions
// that differ only in address casing compare equal
func (s Subscription) Normalize() Subscription {
	s.User = strings.ToLower(s.User)
	return s
}

// Validate checks that every field the subscription type requires is set and
// that no foreign field is
func (s Subscription) Validate() error {
	var coin, interval, user, dex bool
	switch s.Type {
	case TradesType, L2BookType, BboType:
		coin = true
	case CandleType:
		coin, interval = true, true
	case AllMidsType:
		dex = true
	case OrderUpdatesType, UserFillsType, UserEventsType, UserTwapSliceFillsType, UserTwapHistoryType, WebData2Type:
		user = true
	case ActiveAssetDataType:
		user, coin = true, true
	default:
		return fmt.Errorf("%w: %q", errUnknownSubscriptionType, s.Type)
	}

	if coin && s.Coin == "" {
		return fmt.Errorf("%s: %w", s.Type, errCoinEmpty)
	}
	if interval && s.Interval == "" {
		return fmt.Errorf("%s: %w", s.Type, errIntervalEmpty)
	}
	if user && !IsAddress(s.User) {
		return fmt.Errorf("%s: %w: %q", s.Type, errInvalidAddress, s.User)
	}
	switch {
	case !coin && s.Coin != "":
		return fmt.Errorf("%s: %w: coin", s.Type, errUnexpectedField)
	case !interval && s.Interval != "":
		return fmt.Errorf("%s: %w: interval", s.Type, errUnexpectedField)
	case !user && s.User != "":
		return fmt.Errorf("%s: %w: user", s.Type, errUnexpectedField)
	case !dex && s.Dex != "":
		return fmt.Errorf("%s: %w: dex", s.Type, errUnexpectedField)
	}
	return nil
}

// String returns a short human readable form such as trades(BTC)
func (s Subscription) String() string {
	var args []string
	for _, v := range []string{s.User, s.Coin, s.Interval, s.Dex} {
		if v != "" {
			args = append(args, v)
		}
	}
	return s.Type + "(" + strings.Join(args, ",") + ")"
}

// IsAddress reports whether s is a 0x prefixed 20 byte hex address
func IsAddress(s string) bool {
	if len(s) != 42 || (s[:2] != "0x" && s[:2] != "0X") {
		return false
	}
	for i := 2; i < len(s); i++ {
		c := s[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F') {
			return false
		}
	}
	return true
}
