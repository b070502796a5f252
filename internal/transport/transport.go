// Package transport opens the byte stream a kvwire client talks over.
//
// Plain addresses and tcp:// URLs dial TCP, unix:// URLs dial a unix stream
// socket, and ws:// or wss:// URLs dial a WebSocket whose binary messages
// are exposed as a net.Conn so the framed stream is carried unchanged.
package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/coder/websocket"

	"github.com/nkootstra/kvwire/internal/protocol"
)

const DefaultDialTimeout = 5 * time.Second

var ErrEmptyAddr = errors.New("transport: empty address")

// Options configures Dial.
type Options struct {
	DialTimeout time.Duration
}

// Scheme classifies addr by the transport it selects.
func Scheme(addr string) string {
	switch {
	case strings.HasPrefix(addr, "ws://"):
		return "ws"
	case strings.HasPrefix(addr, "wss://"):
		return "wss"
	case strings.HasPrefix(addr, "unix://"):
		return "unix"
	default:
		return "tcp"
	}
}

// Dial connects to addr. The returned connection is owned by the caller.
func Dial(ctx context.Context, addr string, opts Options) (net.Conn, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, ErrEmptyAddr
	}

	timeout := opts.DialTimeout
	if timeout <= 0 {
		timeout = DefaultDialTimeout
	}
	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	switch Scheme(addr) {
	case "ws", "wss":
		return dialWebSocket(dialCtx, addr)
	case "unix":
		var d net.Dialer
		conn, err := d.DialContext(dialCtx, "unix", strings.TrimPrefix(addr, "unix://"))
		if err != nil {
			return nil, fmt.Errorf("dial unix %s: %w", addr, err)
		}
		return conn, nil
	default:
		var d net.Dialer
		hostport := strings.TrimPrefix(addr, "tcp://")
		conn, err := d.DialContext(dialCtx, "tcp", hostport)
		if err != nil {
			return nil, fmt.Errorf("dial tcp %s: %w", hostport, err)
		}
		return conn, nil
	}
}

func dialWebSocket(ctx context.Context, url string) (net.Conn, error) {
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial websocket %s: %w", url, err)
	}
	conn.SetReadLimit(protocol.LengthPrefixSize + protocol.MaxMsgSize)
	// The dial context ends when Dial returns; the stream lives until Close.
	return websocket.NetConn(context.Background(), conn, websocket.MessageBinary), nil
}
