package tui

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/nkootstra/kvwire/internal/protocol"
)

// resultMsg carries the outcome of one command back to the model.
type resultMsg struct {
	line  string
	value protocol.Value
	err   error
	took  time.Duration
}

// runCommand returns a command that sends args and waits for the reply.
func runCommand(d Doer, timeout time.Duration, line string, args []string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		start := time.Now()
		v, err := d.Do(ctx, args...)
		return resultMsg{line: line, value: v, err: err, took: time.Since(start)}
	}
}
