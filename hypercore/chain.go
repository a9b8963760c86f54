// Package hypercore holds the network level entry points of the SDK. The
// streaming client lives in hypercore/ws and the wire data model in
// hypercore/types.
package hypercore

import (
	"errors"
	"fmt"
	"strings"

	"github.com/infinitefield/hypersdk/hypercore/ws"
)

// Public WebSocket endpoints
const (
	MainnetWebsocketURL = "wss://api.hyperliquid.xyz/ws"
	TestnetWebsocketURL = "wss://api.hyperliquid-testnet.xyz/ws"
)

var errUnknownChain = errors.New("unknown chain")

// Chain selects a HyperCore network
type Chain uint8

// Supported chains
const (
	Mainnet Chain = iota
	Testnet
)

// ParseChain parses mainnet or testnet, case insensitively
func ParseChain(s string) (Chain, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mainnet", "":
		return Mainnet, nil
	case "testnet":
		return Testnet, nil
	default:
		return 0, fmt.Errorf("%w: %q", errUnknownChain, s)
	}
}

func (c Chain) String() string {
	if c == Testnet {
		return "testnet"
	}
	return "mainnet"
}

// WebsocketURL returns the streaming endpoint of the chain
func (c Chain) WebsocketURL() string {
	if c == Testnet {
		return TestnetWebsocketURL
	}
	return MainnetWebsocketURL
}

// Websocket connects to the chain with the default connection settings
func (c Chain) Websocket() (*ws.Connection, error) {
	return ws.NewConnection(ws.DefaultConfig(c.WebsocketURL()))
}

// MainnetWebsocket connects to the mainnet streaming endpoint
func MainnetWebsocket() (*ws.Connection, error) {
	return Mainnet.Websocket()
}

// TestnetWebsocket connects to the testnet streaming endpoint
func TestnetWebsocket() (*ws.Connection, error) {
	return Testnet.Websocket()
}
