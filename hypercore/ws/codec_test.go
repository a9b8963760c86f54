package ws

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"testing"

	"github.com/infinitefield/hypersdk/hypercore/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDirective(t *testing.T) {
	t.Parallel()
	for want, d := range map[string]Directive{
		`{"method":"subscribe","subscription":{"type":"trades","coin":"BTC"}}`:                 SubscribeDirective(types.TradesSubscription("BTC")),
		`{"method":"unsubscribe","subscription":{"type":"candle","coin":"ETH","interval":"1h"}}`: UnsubscribeDirective(types.CandleSubscription("ETH", "1h")),
		`{"method":"ping"}`: PingDirective(),
		`{"method":"pong"}`: PongDirective(),
	} {
		b, err := EncodeDirective(d)
		require.NoError(t, err)
		assert.JSONEq(t, want, string(b))
	}
}

func decode(t *testing.T, frame string) types.Incoming {
	t.Helper()
	msg, err := DecodeIncoming([]byte(frame))
	require.NoError(t, err, "frame %s", frame)
	return msg
}

func TestDecodeMarketData(t *testing.T) {
	t.Parallel()
	trades, ok := decode(t, tradeFrame("BTC", 9)).(types.Trades)
	require.True(t, ok)
	require.Len(t, trades, 1)
	assert.Equal(t, types.Bid, trades[0].Side)
	assert.True(t, trades[0].Px.Equal(decimal.RequireFromString("100.5")))

	book, ok := decode(t, `{"channel":"l2Book","data":{"coin":"ETH","time":1,"levels":[[{"px":"1999","sz":"2","n":3}],[{"px":"2001","sz":"1","n":1},{"px":"2002","sz":"4","n":2}]]}}`).(*types.L2Book)
	require.True(t, ok)
	assert.Len(t, book.Bids(), 1)
	assert.Len(t, book.Asks(), 2)
	assert.Equal(t, 3, book.Bids()[0].N)

	bbo, ok := decode(t, `{"channel":"bbo","data":{"coin":"BTC","time":1,"bbo":[{"px":"99","sz":"1","n":1},null]}}`).(*types.Bbo)
	require.True(t, ok)
	assert.NotNil(t, bbo.Bid())
	assert.Nil(t, bbo.Ask())

	candle, ok := decode(t, `{"channel":"candle","data":{"t":1,"T":2,"s":"BTC","i":"1m","o":"10","c":"11","h":"12","l":"9","v":"100","n":5}}`).(*types.Candle)
	require.True(t, ok)
	assert.Equal(t, "1m", candle.Interval)
	assert.Equal(t, int64(5), candle.Trades)

	mids, ok := decode(t, `{"channel":"allMids","data":{"mids":{"BTC":"65000.5","ETH":"3000"}}}`).(*types.AllMids)
	require.True(t, ok)
	assert.True(t, mids.Mids["BTC"].Equal(decimal.RequireFromString("65000.5")))
}

func TestDecodeUserData(t *testing.T) {
	t.Parallel()
	updates, ok := decode(t, `{"channel":"orderUpdates","data":[{"order":{"coin":"BTC","side":"A","limitPx":"70000","sz":"0.1","oid":42,"timestamp":1,"origSz":"0.2"},"status":"open","statusTimestamp":2}]}`).(types.OrderUpdates)
	require.True(t, ok)
	require.Len(t, updates, 1)
	assert.Equal(t, int64(42), updates[0].Order.Oid)
	assert.Equal(t, "open", updates[0].Status)

	fills, ok := decode(t, `{"channel":"userFills","data":{"user":"0xabc","isSnapshot":true,"fills":[{"coin":"ETH","px":"3000","sz":"1","side":"B","time":1,"startPosition":"0","dir":"Open Long","closedPnl":"0","hash":"0x1","oid":7,"crossed":true,"fee":"0.3","tid":8,"feeToken":"USDC"}]}}`).(*types.UserFills)
	require.True(t, ok)
	assert.True(t, fills.IsSnapshot)
	require.Len(t, fills.Fills, 1)
	assert.True(t, fills.Fills[0].Fee.Equal(decimal.RequireFromString("0.3")))

	funding, ok := decode(t, `{"channel":"user","data":{"funding":{"time":1,"coin":"BTC","usdc":"-1.5","szi":"0.1","fundingRate":"0.0001"}}}`).(*types.UserEvent)
	require.True(t, ok)
	assert.Equal(t, types.UserEventFunding, funding.Kind())

	liq, ok := decode(t, `{"channel":"user","data":{"liquidation":{"lid":1,"liquidator":"0x1","liquidated_user":"0x2","liquidated_ntl_pos":"100","liquidated_account_value":"10"}}}`).(*types.UserEvent)
	require.True(t, ok)
	assert.Equal(t, types.UserEventLiquidation, liq.Kind())
	assert.Equal(t, "0x2", liq.Liquidation.LiquidatedUser)

	cancels, ok := decode(t, `{"channel":"user","data":{"nonUserCancel":[{"coin":"BTC","oid":1}]}}`).(*types.UserEvent)
	require.True(t, ok)
	assert.Equal(t, types.UserEventNonUserCancel, cancels.Kind())

	other, ok := decode(t, `{"channel":"user","data":{"somethingNew":{"x":1}}}`).(*types.UserEvent)
	require.True(t, ok)
	assert.Equal(t, types.UserEventUnknown, other.Kind())
	assert.JSONEq(t, `{"somethingNew":{"x":1}}`, string(other.Raw))

	twap, ok := decode(t, `{"channel":"userTwapHistory","data":{"user":"0xabc","history":[{"time":1,"state":{"coin":"BTC","user":"0xabc","side":"B","sz":"1","executedSz":"0.5","executedNtl":"30000","minutes":30,"reduceOnly":false,"randomize":true,"timestamp":1},"status":{"status":"error","description":"insufficient margin"}}]}}`).(*types.UserTwapHistory)
	require.True(t, ok)
	require.Len(t, twap.History, 1)
	assert.Equal(t, "insufficient margin", twap.History[0].Status.Description)

	slices, ok := decode(t, `{"channel":"userTwapSliceFills","data":{"user":"0xabc","twapSliceFills":[{"fill":{"coin":"BTC","px":"1","sz":"1","side":"B"},"twapId":3}]}}`).(*types.UserTwapSliceFills)
	require.True(t, ok)
	assert.Equal(t, int64(3), slices.TwapSliceFills[0].TwapID)

	asset, ok := decode(t, `{"channel":"activeAssetData","data":{"user":"0xabc","coin":"BTC","leverage":{"type":"cross","value":20},"maxTradeSzs":["1.5","2.5"],"availableToTrade":["100","200"]}}`).(*types.ActiveAssetData)
	require.True(t, ok)
	assert.Equal(t, int64(20), asset.Leverage.Value)
	assert.True(t, asset.MaxTradeSzs[1].Equal(decimal.RequireFromString("2.5")))

	web, ok := decode(t, `{"channel":"webData2","data":{"clearinghouseState":{},"user":"0xabc"}}`).(*types.WebData2)
	require.True(t, ok)
	assert.JSONEq(t, `{"clearinghouseState":{},"user":"0xabc"}`, string(web.Raw))
}

func TestDecodeControlFrames(t *testing.T) {
	t.Parallel()
	assert.Equal(t, types.Pong{}, decode(t, `{"channel":"pong"}`))
	assert.Equal(t, types.Ping{}, decode(t, `{"channel":"ping"}`))

	resp, ok := decode(t, `{"channel":"subscriptionResponse","data":{"method":"subscribe","subscription":{"type":"trades","coin":"BTC"}}}`).(*types.SubscriptionResponse)
	require.True(t, ok)
	assert.Equal(t, types.TradesSubscription("BTC"), resp.Subscription)

	frame := `{"channel":"notYetKnown","data":[1,2,3]}`
	unknown, ok := decode(t, frame).(*types.Unknown)
	require.True(t, ok)
	assert.Equal(t, "notYetKnown", unknown.Channel())
	assert.JSONEq(t, frame, string(unknown.Raw))
}

func TestDecodeErrors(t *testing.T) {
	t.Parallel()
	for name, frame := range map[string]string{
		"not json":        `hello`,
		"no channel":      `{"data":{}}`,
		"numeric channel": `{"channel":5}`,
		"no data":         `{"channel":"trades"}`,
		"wrong shape":     `{"channel":"trades","data":{"coin":"BTC"}}`,
		"bad decimal":     `{"channel":"bbo","data":{"coin":"BTC","bbo":[{"px":"abc"},null]}}`,
		"scalar user":     `{"channel":"user","data":"x"}`,
		"array webdata":   `{"channel":"webData2","data":[]}`,
	} {
		_, err := DecodeIncoming([]byte(frame))
		assert.Errorf(t, err, "%s should not decode", name)
	}
}

func TestParseBinaryResponse(t *testing.T) {
	t.Parallel()
	want := []byte(`{"channel":"pong"}`)

	var gz bytes.Buffer
	gw := gzip.NewWriter(&gz)
	_, err := gw.Write(want)
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	got, err := parseBinaryResponse(gz.Bytes())
	require.NoError(t, err)
	assert.Equal(t, want, got)

	var fl bytes.Buffer
	fw, err := flate.NewWriter(&fl, flate.DefaultCompression)
	require.NoError(t, err)
	_, err = fw.Write(want)
	require.NoError(t, err)
	require.NoError(t, fw.Close())
	got, err = parseBinaryResponse(fl.Bytes())
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = parseBinaryResponse([]byte{31, 139, 0})
	assert.Error(t, err)
}
