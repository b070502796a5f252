package client

import (
	"context"
	"strconv"
	"time"

	"github.com/nkootstra/kvwire/internal/protocol"
)

// CommandInfo describes one server command.
type CommandInfo struct {
	Name  string
	Usage string
	Help  string
	// Argc is the exact argument count the server accepts, name included.
	Argc int
}

// Commands lists the commands understood by the server.
var Commands = []CommandInfo{
	{Name: "set", Usage: "set <key> <value>", Help: "Set a string value", Argc: 3},
	{Name: "get", Usage: "get <key>", Help: "Get a string value", Argc: 2},
	{Name: "del", Usage: "del <key>", Help: "Delete a key", Argc: 2},
	{Name: "pexpire", Usage: "pexpire <key> <ms>", Help: "Set a key to expire in ms", Argc: 3},
	{Name: "pttl", Usage: "pttl <key>", Help: "Get TTL of a key", Argc: 2},
	{Name: "zadd", Usage: "zadd <zset> <score> <member>", Help: "Add member to sorted set", Argc: 4},
	{Name: "zrem", Usage: "zrem <zset> <member>", Help: "Remove member from sorted set", Argc: 3},
	{Name: "zscore", Usage: "zscore <zset> <member>", Help: "Get score of member", Argc: 3},
	{Name: "zquery", Usage: "zquery <zset> <score> <member> <offset> <limit>", Help: "Range query", Argc: 6},
	{Name: "keys", Usage: "keys", Help: "List all keys", Argc: 1},
}

// LookupCommand finds a command by name.
func LookupCommand(name string) (CommandInfo, bool) {
	for _, c := range Commands {
		if c.Name == name {
			return c, true
		}
	}
	return CommandInfo{}, false
}

func (c *Client) Get(ctx context.Context, key string) (protocol.Value, error) {
	return c.Do(ctx, "get", key)
}

func (c *Client) Set(ctx context.Context, key, value string) (protocol.Value, error) {
	return c.Do(ctx, "set", key, value)
}

func (c *Client) Del(ctx context.Context, key string) (protocol.Value, error) {
	return c.Do(ctx, "del", key)
}

func (c *Client) Keys(ctx context.Context) (protocol.Value, error) {
	return c.Do(ctx, "keys")
}

// PExpire sets a key's time to live, sent in whole milliseconds. A
// negative ttl removes the expiry.
func (c *Client) PExpire(ctx context.Context, key string, ttl time.Duration) (protocol.Value, error) {
	return c.Do(ctx, "pexpire", key, strconv.FormatInt(ttl.Milliseconds(), 10))
}

func (c *Client) PTTL(ctx context.Context, key string) (protocol.Value, error) {
	return c.Do(ctx, "pttl", key)
}

func (c *Client) ZAdd(ctx context.Context, zset string, score float64, member string) (protocol.Value, error) {
	return c.Do(ctx, "zadd", zset, formatScore(score), member)
}

func (c *Client) ZRem(ctx context.Context, zset, member string) (protocol.Value, error) {
	return c.Do(ctx, "zrem", zset, member)
}

func (c *Client) ZScore(ctx context.Context, zset, member string) (protocol.Value, error) {
	return c.Do(ctx, "zscore", zset, member)
}

// ZQuery returns up to limit (member, score) pairs at or after
// (score, member), skipping offset entries.
func (c *Client) ZQuery(ctx context.Context, zset string, score float64, member string, offset, limit int64) (protocol.Value, error) {
	return c.Do(ctx, "zquery", zset, formatScore(score), member,
		strconv.FormatInt(offset, 10), strconv.FormatInt(limit, 10))
}

func formatScore(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
