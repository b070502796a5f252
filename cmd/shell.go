package cmd

import (
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/nkootstra/kvwire/internal/history"
	"github.com/nkootstra/kvwire/internal/render"
	"github.com/nkootstra/kvwire/internal/tui"
)

var (
	noHistoryFlag    bool
	clearHistoryFlag bool
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive session",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func init() {
	shellCmd.Flags().BoolVar(&noHistoryFlag, "no-history", false, "Do not read or write the command history file")
	shellCmd.Flags().BoolVar(&clearHistoryFlag, "clear-history", false, "Delete the command history file before starting")
	rootCmd.AddCommand(shellCmd)
}

func runShell(cmd *cobra.Command, _ []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}

	c, addr, err := e.connect(cmd.Context())
	if err != nil {
		return err
	}
	defer c.Close()

	hist := loadHistory(clearHistoryFlag, noHistoryFlag, e.log)

	model := tui.NewModel(c, tui.Options{
		Addr:    addr,
		Timeout: e.cfg.Timeout,
		Styler:  render.Styler{Plain: e.cfg.NoColor},
		History: hist.Lines(),
	})
	p := tea.NewProgram(model, tea.WithContext(cmd.Context()))
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	if noHistoryFlag {
		return nil
	}
	if m, ok := final.(tui.Model); ok {
		now := time.Now()
		for _, line := range m.Entered() {
			hist.Add(line, now)
		}
		if err := history.Save(hist); err != nil {
			e.log.Warn().Err(err).Msg("could not save history")
		}
	}
	return nil
}

// loadHistory returns the saved shell history, deleting it first when clearFirst
// is set. Failures are logged and yield an empty history.
func loadHistory(clearFirst, disabled bool, log zerolog.Logger) *history.History {
	if clearFirst {
		if err := history.Clear(); err != nil {
			log.Warn().Err(err).Msg("could not clear history")
		}
	}
	if disabled {
		return &history.History{}
	}
	h, err := history.Load()
	if err != nil {
		log.Warn().Err(err).Msg("could not load history")
		return &history.History{}
	}
	return h
}
