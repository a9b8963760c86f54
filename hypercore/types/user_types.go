package types

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// BasicOrder is the order as carried by order updates
type BasicOrder struct {
	Coin      string          `json:"coin"`
	Side      Side            `json:"side"`
	LimitPx   decimal.Decimal `json:"limitPx"`
	Sz        decimal.Decimal `json:"sz"`
	Oid       int64           `json:"oid"`
	Timestamp int64           `json:"timestamp"`
	OrigSz    decimal.Decimal `json:"origSz"`
	Cloid     string          `json:"cloid,omitempty"`
}

// OrderUpdate is a status change of one order
type OrderUpdate struct {
	Order           BasicOrder `json:"order"`
	Status          string     `json:"status"`
	StatusTimestamp int64      `json:"statusTimestamp"`
}

// Fill is an execution of one of the user's orders
type Fill struct {
	Coin          string          `json:"coin"`
	Px            decimal.Decimal `json:"px"`
	Sz            decimal.Decimal `json:"sz"`
	Side          Side            `json:"side"`
	Time          int64           `json:"time"`
	StartPosition decimal.Decimal `json:"startPosition"`
	Dir           string          `json:"dir"`
	ClosedPnl     decimal.Decimal `json:"closedPnl"`
	Hash          string          `json:"hash"`
	Oid           int64           `json:"oid"`
	Crossed       bool            `json:"crossed"`
	Fee           decimal.Decimal `json:"fee"`
	Tid           int64           `json:"tid"`
	FeeToken      string          `json:"feeToken"`
	BuilderFee    string          `json:"builderFee,omitempty"`
}

// UserFills is a batch of fills; the first message after subscribing is a
// snapshot
type UserFills struct {
	User       string `json:"user"`
	IsSnapshot bool   `json:"isSnapshot,omitempty"`
	Fills      []Fill `json:"fills"`
}

// Funding is a funding payment on a position
type Funding struct {
	Time        int64           `json:"time"`
	Coin        string          `json:"coin"`
	Usdc        decimal.Decimal `json:"usdc"`
	Szi         decimal.Decimal `json:"szi"`
	FundingRate decimal.Decimal `json:"fundingRate"`
}

// Liquidation describes a liquidation the user took part in
type Liquidation struct {
	Lid                    int64           `json:"lid"`
	Liquidator             string          `json:"liquidator"`
	LiquidatedUser         string          `json:"liquidated_user"`
	LiquidatedNtlPos       decimal.Decimal `json:"liquidated_ntl_pos"`
	LiquidatedAccountValue decimal.Decimal `json:"liquidated_account_value"`
}

// NonUserCancel is an order cancelled by the system
type NonUserCancel struct {
	Coin string `json:"coin"`
	Oid  int64  `json:"oid"`
}

// UserEventKind names the populated member of a UserEvent
type UserEventKind string

// UserEventKind values
const (
	UserEventFills         UserEventKind = "fills"
	UserEventFunding       UserEventKind = "funding"
	UserEventLiquidation   UserEventKind = "liquidation"
	UserEventNonUserCancel UserEventKind = "nonUserCancel"
	UserEventUnknown       UserEventKind = "unknown"
)

// UserEvent holds exactly one of its members. Payloads with none of the
// known keys keep their raw bytes in Raw.
type UserEvent struct {
	Fills         []Fill          `json:"fills,omitempty"`
	Funding       *Funding        `json:"funding,omitempty"`
	Liquidation   *Liquidation    `json:"liquidation,omitempty"`
	NonUserCancel []NonUserCancel `json:"nonUserCancel,omitempty"`
	Raw           json.RawMessage `json:"-"`
}

// Kind returns which member is populated
func (e *UserEvent) Kind() UserEventKind {
	switch {
	case e.Fills != nil:
		return UserEventFills
	case e.Funding != nil:
		return UserEventFunding
	case e.Liquidation != nil:
		return UserEventLiquidation
	case e.NonUserCancel != nil:
		return UserEventNonUserCancel
	default:
		return UserEventUnknown
	}
}

// TwapSliceFill is a fill produced by a TWAP slice
type TwapSliceFill struct {
	Fill   Fill  `json:"fill"`
	TwapID int64 `json:"twapId"`
}

// UserTwapSliceFills is a batch of TWAP slice fills
type UserTwapSliceFills struct {
	User           string          `json:"user"`
	IsSnapshot     bool            `json:"isSnapshot,omitempty"`
	TwapSliceFills []TwapSliceFill `json:"twapSliceFills"`
}

// TwapState is the parameters and progress of a TWAP order
type TwapState struct {
	Coin        string          `json:"coin"`
	User        string          `json:"user"`
	Side        Side            `json:"side"`
	Sz          decimal.Decimal `json:"sz"`
	ExecutedSz  decimal.Decimal `json:"executedSz"`
	ExecutedNtl decimal.Decimal `json:"executedNtl"`
	Minutes     int64           `json:"minutes"`
	ReduceOnly  bool            `json:"reduceOnly"`
	Randomize   bool            `json:"randomize"`
	Timestamp   int64           `json:"timestamp"`
}

// TwapStatus is activated, finished, terminated or error; Description is
// only set for errors
type TwapStatus struct {
	Status      string `json:"status"`
	Description string `json:"description,omitempty"`
}

// TwapHistory is one entry of a user's TWAP history
type TwapHistory struct {
	Time   int64      `json:"time"`
	State  TwapState  `json:"state"`
	Status TwapStatus `json:"status"`
}

// UserTwapHistory is a batch of TWAP history entries
type UserTwapHistory struct {
	User       string        `json:"user"`
	IsSnapshot bool          `json:"isSnapshot,omitempty"`
	History    []TwapHistory `json:"history"`
}

// Leverage of a position, Type is cross or isolated
type Leverage struct {
	Type  string `json:"type"`
	Value int64  `json:"value"`
}

// ActiveAssetData holds the user's leverage and trade limits on a coin. The
// pairs are ordered long then short.
type ActiveAssetData struct {
	User             string             `json:"user"`
	Coin             string             `json:"coin"`
	Leverage         Leverage           `json:"leverage"`
	MaxTradeSzs      [2]decimal.Decimal `json:"maxTradeSzs"`
	AvailableToTrade [2]decimal.Decimal `json:"availableToTrade"`
}

// WebData2 is the aggregate frontend state of a user, kept as raw JSON
type WebData2 struct {
	Raw json.RawMessage
}

// MarshalJSON returns the raw object
func (w *WebData2) MarshalJSON() ([]byte, error) {
	if len(w.Raw) == 0 {
		return []byte("null"), nil
	}
	return w.Raw, nil
}
