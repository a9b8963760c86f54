// Package ws provides a persistent, auto reconnecting WebSocket client for
// the HyperCore streaming API.
//
// A Connection owns one socket at a time. Subscriptions are remembered across
// reconnects and replayed once a new session is established, so consumers see
// a single logical stream of Connected, Disconnected and Message events:
//
//	conn, err := ws.NewConnection(ws.DefaultConfig(hypercore.MainnetWebsocketURL))
//	if err != nil {
//		return err
//	}
//	defer conn.Close()
//	conn.Subscribe(types.TradesSubscription("BTC"))
//	for ev := range conn.Events() {
//		if trades, ok := ev.Message.(types.Trades); ok {
//			...
//		}
//	}
//
// Transport failures, undecodable frames and missed pongs are never returned
// to the consumer. They are logged, counted in Metrics and healed by
// reconnecting.
package ws
