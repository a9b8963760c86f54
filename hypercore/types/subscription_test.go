package types

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUser = "0x0123456789AbCdEf0123456789abcdef01234567"

func TestSubscriptionValidate(t *testing.T) {
	t.Parallel()
	for _, s := range []Subscription{
		TradesSubscription("BTC"),
		L2BookSubscription("ETH"),
		BboSubscription("@107"),
		CandleSubscription("BTC", "1m"),
		AllMidsSubscription(""),
		AllMidsSubscription("xyz"),
		OrderUpdatesSubscription(testUser),
		UserFillsSubscription(testUser),
		UserEventsSubscription(testUser),
		UserTwapSliceFillsSubscription(testUser),
		UserTwapHistorySubscription(testUser),
		ActiveAssetDataSubscription(testUser, "BTC"),
		WebData2Subscription(testUser),
	} {
		assert.NoErrorf(t, s.Validate(), "%s should be valid", s)
	}

	for name, tc := range map[string]struct {
		sub Subscription
		err error
	}{
		"unknown type":     {Subscription{Type: "nope"}, errUnknownSubscriptionType},
		"empty type":       {Subscription{}, errUnknownSubscriptionType},
		"missing coin":     {TradesSubscription(""), errCoinEmpty},
		"missing interval": {CandleSubscription("BTC", ""), errIntervalEmpty},
		"short address":    {UserFillsSubscription("0x1234"), errInvalidAddress},
		"no prefix":        {UserFillsSubscription("0123456789abcdef0123456789abcdef0123456789"), errInvalidAddress},
		"non hex":          {OrderUpdatesSubscription("0x0123456789abcdef0123456789abcdef0123456z"), errInvalidAddress},
		"asset data coin":  {ActiveAssetDataSubscription(testUser, ""), errCoinEmpty},
		"foreign user":     {Subscription{Type: TradesType, Coin: "BTC", User: testUser}, errUnexpectedField},
		"foreign coin":     {Subscription{Type: AllMidsType, Coin: "BTC"}, errUnexpectedField},
	} {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.ErrorIs(t, tc.sub.Validate(), tc.err)
		})
	}
}

func TestSubscriptionEquality(t *testing.T) {
	t.Parallel()
	assert.Equal(t, UserFillsSubscription(testUser), UserFillsSubscription("0x0123456789ABCDEF0123456789ABCDEF01234567"), "address casing should not matter")
	assert.NotEqual(t, TradesSubscription("BTC"), L2BookSubscription("BTC"))
	assert.NotEqual(t, CandleSubscription("BTC", "1m"), CandleSubscription("BTC", "5m"))

	set := map[Subscription]struct{}{TradesSubscription("BTC"): {}}
	_, ok := set[TradesSubscription("BTC")]
	assert.True(t, ok, "equal subscriptions should hash the same")
}

func TestSubscriptionNormalize(t *testing.T) {
	t.Parallel()
	mixed := Subscription{Type: UserFillsType, User: "0x0123456789ABCDEF0123456789ABCDEF01234567"}
	require.NoError(t, mixed.Validate())
	assert.NotEqual(t, UserFillsSubscription(testUser), mixed)
	assert.Equal(t, UserFillsSubscription(testUser), mixed.Normalize())
	assert.Equal(t, TradesSubscription("BTC"), TradesSubscription("BTC").Normalize(), "coins keep their casing")
}

func TestSubscriptionJSON(t *testing.T) {
	t.Parallel()
	b, err := json.Marshal(TradesSubscription("BTC"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"trades","coin":"BTC"}`, string(b))

	b, err = json.Marshal(AllMidsSubscription(""))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"allMids"}`, string(b))

	b, err = json.Marshal(ActiveAssetDataSubscription(testUser, "ETH"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"activeAssetData","user":"0x0123456789abcdef0123456789abcdef01234567","coin":"ETH"}`, string(b))
}

func TestSubscriptionString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "trades(BTC)", TradesSubscription("BTC").String())
	assert.Equal(t, "candle(ETH,15m)", CandleSubscription("ETH", "15m").String())
	assert.Equal(t, "allMids()", AllMidsSubscription("").String())
}

func TestMarketHelpers(t *testing.T) {
	t.Parallel()
	tr := Trade{Px: decimal.RequireFromString("100.5"), Sz: decimal.RequireFromString("2")}
	assert.True(t, tr.Notional().Equal(decimal.RequireFromString("201")))

	bbo := &Bbo{Bbo: [2]*BookLevel{{Px: decimal.RequireFromString("99")}, nil}}
	_, ok := bbo.Spread()
	assert.False(t, ok, "spread needs both sides")
	bbo.Bbo[1] = &BookLevel{Px: decimal.RequireFromString("101")}
	spread, ok := bbo.Spread()
	require.True(t, ok)
	assert.True(t, spread.Equal(decimal.NewFromInt(2)))

	c := &Candle{Open: decimal.NewFromInt(200), Close: decimal.NewFromInt(210)}
	abs, pct := c.Change()
	assert.True(t, abs.Equal(decimal.NewFromInt(10)))
	assert.True(t, pct.Equal(decimal.NewFromInt(5)))
	_, pct = (&Candle{Close: decimal.NewFromInt(1)}).Change()
	assert.True(t, pct.IsZero(), "zero open should not divide")

	assert.Equal(t, "buy", Bid.String())
	assert.Equal(t, "sell", Ask.String())
}

func TestUserEventKind(t *testing.T) {
	t.Parallel()
	assert.Equal(t, UserEventFills, (&UserEvent{Fills: []Fill{}}).Kind())
	assert.Equal(t, UserEventFunding, (&UserEvent{Funding: &Funding{}}).Kind())
	assert.Equal(t, UserEventLiquidation, (&UserEvent{Liquidation: &Liquidation{}}).Kind())
	assert.Equal(t, UserEventNonUserCancel, (&UserEvent{NonUserCancel: []NonUserCancel{}}).Kind())
	assert.Equal(t, UserEventUnknown, (&UserEvent{Raw: json.RawMessage(`{}`)}).Kind())
}

func TestIncomingChannels(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "user", (&UserEvent{}).Channel())
	assert.Equal(t, "pong", Pong{}.Channel())
	assert.Equal(t, "mystery", (&Unknown{Name: "mystery"}).Channel())

	b, err := json.Marshal(&WebData2{Raw: json.RawMessage(`{"a":1}`)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(b))
}
