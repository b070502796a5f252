package transport

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheme(t *testing.T) {
	assert.Equal(t, "tcp", Scheme("127.0.0.1:8085"))
	assert.Equal(t, "tcp", Scheme("tcp://127.0.0.1:8085"))
	assert.Equal(t, "unix", Scheme("unix:///tmp/kv.sock"))
	assert.Equal(t, "ws", Scheme("ws://localhost:8080/kv"))
	assert.Equal(t, "wss", Scheme("wss://kv.example.com"))
}

func TestDial_EmptyAddr(t *testing.T) {
	_, err := Dial(context.Background(), "  ", Options{})
	assert.ErrorIs(t, err, ErrEmptyAddr)
}

func TestDial_TCPEcho(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		_, _ = io.Copy(conn, conn)
	}()

	conn, err := Dial(context.Background(), "tcp://"+ln.Addr().String(), Options{DialTimeout: time.Second})
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte("ping"))
	require.NoError(t, err)
	buf := make([]byte, 4)
	_, err = io.ReadFull(conn, buf)
	require.NoError(t, err)
	assert.Equal(t, "ping", string(buf))
}

func TestDial_TCPRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	_, err = Dial(context.Background(), addr, Options{DialTimeout: time.Second})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), addr)
}

func TestDial_WebSocketStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
		if err != nil {
			t.Logf("websocket accept error: %v", err)
			return
		}
		conn := websocket.NetConn(r.Context(), ws, websocket.MessageBinary)
		defer conn.Close()

		buf := make([]byte, 8)
		if _, err := io.ReadFull(conn, buf); err != nil {
			return
		}
		_, _ = conn.Write(buf[4:])
		_, _ = conn.Write(buf[:4])
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, err := Dial(context.Background(), wsURL, Options{})
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte("abcd"))
	require.NoError(t, err)
	_, err = conn.Write([]byte("efgh"))
	require.NoError(t, err)

	buf := make([]byte, 8)
	_, err = io.ReadFull(conn, buf)
	require.NoError(t, err)
	assert.Equal(t, "efghabcd", string(buf))
}
