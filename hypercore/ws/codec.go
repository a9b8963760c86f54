package ws

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/buger/jsonparser"
	"github.com/infinitefield/hypersdk/hypercore/types"
)

// Directive methods
const (
	MethodSubscribe   = "subscribe"
	MethodUnsubscribe = "unsubscribe"
	MethodPing        = "ping"
	MethodPong        = "pong"
)

var (
	errMissingChannel = errors.New("frame has no channel")
	errMissingData    = errors.New("frame has no data")
	errUnexpectedData = errors.New("unexpected data type")
)

// Directive is an outbound client frame
type Directive struct {
	Method       string              `json:"method"`
	Subscription *types.Subscription `json:"subscription,omitempty"`
}

// SubscribeDirective asks the server to start streaming sub
func SubscribeDirective(sub types.Subscription) Directive {
	return Directive{Method: MethodSubscribe, Subscription: &sub}
}

// UnsubscribeDirective asks the server to stop streaming sub
func UnsubscribeDirective(sub types.Subscription) Directive {
	return Directive{Method: MethodUnsubscribe, Subscription: &sub}
}

// PingDirective is the application level heartbeat
func PingDirective() Directive { return Directive{Method: MethodPing} }

// PongDirective answers a server ping
func PongDirective() Directive { return Directive{Method: MethodPong} }

// EncodeDirective returns the wire form of d
func EncodeDirective(d Directive) ([]byte, error) {
	return json.Marshal(d)
}

// DecodeIncoming decodes one inbound frame. Frames on channels this package
// does not know are returned as *types.Unknown; a known channel whose payload
// does not match its shape is an error.
func DecodeIncoming(frame []byte) (types.Incoming, error) {
	channel, err := jsonparser.GetString(frame, "channel")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errMissingChannel, err)
	}

	switch channel {
	case types.PongChannel:
		return types.Pong{}, nil
	case types.PingChannel:
		return types.Ping{}, nil
	case types.TradesChannel:
		var v types.Trades
		err = decodeData(frame, channel, &v)
		return result(v, err)
	case types.OrderUpdatesChannel:
		var v types.OrderUpdates
		err = decodeData(frame, channel, &v)
		return result(v, err)
	case types.L2BookChannel:
		v := &types.L2Book{}
		return result(v, decodeData(frame, channel, v))
	case types.BboChannel:
		v := &types.Bbo{}
		return result(v, decodeData(frame, channel, v))
	case types.CandleChannel:
		v := &types.Candle{}
		return result(v, decodeData(frame, channel, v))
	case types.AllMidsChannel:
		v := &types.AllMids{}
		return result(v, decodeData(frame, channel, v))
	case types.UserFillsChannel:
		v := &types.UserFills{}
		return result(v, decodeData(frame, channel, v))
	case types.UserTwapSliceFillsChannel:
		v := &types.UserTwapSliceFills{}
		return result(v, decodeData(frame, channel, v))
	case types.UserTwapHistoryChannel:
		v := &types.UserTwapHistory{}
		return result(v, decodeData(frame, channel, v))
	case types.ActiveAssetDataChannel:
		v := &types.ActiveAssetData{}
		return result(v, decodeData(frame, channel, v))
	case types.SubscriptionResponseChannel:
		v := &types.SubscriptionResponse{}
		return result(v, decodeData(frame, channel, v))
	case types.UserEventsChannel:
		return decodeUserEvent(frame)
	case types.WebData2Channel:
		data, err := payload(frame, channel, jsonparser.Object)
		if err != nil {
			return nil, err
		}
		return &types.WebData2{Raw: bytes.Clone(data)}, nil
	default:
		return &types.Unknown{Name: channel, Raw: bytes.Clone(frame)}, nil
	}
}

func result(v types.Incoming, err error) (types.Incoming, error) {
	if err != nil {
		return nil, err
	}
	return v, nil
}

// payload extracts the data member of frame, failing when it is absent or of
// another JSON type than want
func payload(frame []byte, channel string, want ...jsonparser.ValueType) ([]byte, error) {
	data, dataType, _, err := jsonparser.Get(frame, "data")
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", channel, errMissingData, err)
	}
	for _, w := range want {
		if dataType == w {
			return data, nil
		}
	}
	return nil, fmt.Errorf("%s: %w %s", channel, errUnexpectedData, dataType)
}

func decodeData(frame []byte, channel string, target any) error {
	data, err := payload(frame, channel, jsonparser.Object, jsonparser.Array)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("%s: %w", channel, err)
	}
	return nil
}

func decodeUserEvent(frame []byte) (types.Incoming, error) {
	data, err := payload(frame, types.UserEventsChannel, jsonparser.Object)
	if err != nil {
		return nil, err
	}
	ev := &types.UserEvent{}
	if err := json.Unmarshal(data, ev); err != nil {
		return nil, fmt.Errorf("%s: %w", types.UserEventsChannel, err)
	}
	if ev.Kind() == types.UserEventUnknown {
		ev.Raw = bytes.Clone(data)
	}
	return ev, nil
}
