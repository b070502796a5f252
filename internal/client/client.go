package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/nkootstra/kvwire/internal/protocol"
	"github.com/nkootstra/kvwire/internal/transport"
)

var (
	ErrClosed = errors.New("client: closed")
	ErrBroken = errors.New("client: connection unusable after transport failure")
)

// Options configures a client.
type Options struct {
	// Timeout bounds one request/response exchange when the context has no
	// deadline of its own. Zero means no bound.
	Timeout time.Duration
	// Logger defaults to a no-op logger.
	Logger *zerolog.Logger
}

// Client sends commands over a single connection, one exchange at a time.
type Client struct {
	conn io.ReadWriteCloser
	opts Options
	log  zerolog.Logger

	mu     sync.Mutex
	closed bool
	broken error
}

type deadliner interface {
	SetDeadline(t time.Time) error
}

// New wraps an established connection. The client owns conn from here on.
func New(conn io.ReadWriteCloser, opts Options) *Client {
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	return &Client{
		conn: conn,
		opts: opts,
		log:  log,
	}
}

// Dial connects to addr and returns a client for it.
func Dial(ctx context.Context, addr string, dialOpts transport.Options, opts Options) (*Client, error) {
	conn, err := transport.Dial(ctx, addr, dialOpts)
	if err != nil {
		return nil, err
	}
	c := New(conn, opts)
	c.log.Debug().Str("addr", addr).Str("transport", transport.Scheme(addr)).Msg("connected")
	return c, nil
}

// Do sends args as one command and returns the decoded reply.
//
// A reply whose value did not fill its frame is returned together with an
// error matching protocol.ErrIncompleteResponse; the connection stays
// usable. Transport failures leave the connection unusable and every later
// call fails with ErrBroken.
func (c *Client) Do(ctx context.Context, args ...string) (protocol.Value, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("client: empty command")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrClosed
	}
	if c.broken != nil {
		return nil, fmt.Errorf("%w: %v", ErrBroken, c.broken)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	frame, err := protocol.EncodeRequest(args)
	if err != nil {
		return nil, err
	}

	if d, ok := c.conn.(deadliner); ok {
		deadline, hasDeadline := ctx.Deadline()
		if !hasDeadline && c.opts.Timeout > 0 {
			deadline, hasDeadline = time.Now().Add(c.opts.Timeout), true
		}
		if hasDeadline {
			_ = d.SetDeadline(deadline)
		}
		stop := context.AfterFunc(ctx, func() {
			_ = d.SetDeadline(time.Unix(1, 0))
		})
		defer func() {
			stop()
			_ = d.SetDeadline(time.Time{})
		}()
	}

	start := time.Now()
	if err := protocol.WriteFull(c.conn, frame); err != nil {
		return nil, c.fail(ctx, fmt.Errorf("write request: %w", err))
	}
	c.log.Debug().Str("cmd", args[0]).Int("args", len(args)).Int("bytes", len(frame)).Msg("request sent")

	body, err := protocol.ReadFrame(c.conn)
	if err != nil {
		return nil, c.fail(ctx, err)
	}

	v, err := protocol.DecodeResponse(body)
	var incomplete *protocol.IncompleteResponseError
	switch {
	case errors.As(err, &incomplete):
		c.log.Warn().
			Str("cmd", args[0]).
			Int("declared", incomplete.Declared).
			Int("consumed", incomplete.Consumed).
			Msg("incomplete response")
	case err != nil:
		c.log.Error().Err(err).Str("cmd", args[0]).Msg("decode response")
		return nil, err
	}

	c.log.Debug().
		Str("cmd", args[0]).
		Str("type", v.Tag().String()).
		Int("bytes", len(body)).
		Dur("took", time.Since(start)).
		Msg("response received")
	return v, err
}

// fail records a transport failure; a partially read or written frame
// cannot be resynchronized.
func (c *Client) fail(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		err = fmt.Errorf("%w (%v)", ctxErr, err)
	}
	c.broken = err
	c.log.Error().Err(err).Msg("connection failed")
	return err
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close()
}
