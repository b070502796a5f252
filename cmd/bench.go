package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nkootstra/kvwire/internal/bench"
)

var (
	benchRequests int
	benchRate     float64
	benchBurst    int
	benchKeys     int
	benchPrefix   string
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Measure set/get latency against the server",
	Args:  cobra.NoArgs,
	RunE:  runBench,
}

func init() {
	f := benchCmd.Flags()
	f.IntVarP(&benchRequests, "requests", "n", 1000, "Number of set/get pairs")
	f.Float64Var(&benchRate, "rate", 500, "Pairs per second (0 for unpaced)")
	f.IntVar(&benchBurst, "burst", 50, "Limiter burst size")
	f.IntVar(&benchKeys, "keys", 100, "Number of distinct keys")
	f.StringVar(&benchPrefix, "prefix", "bench:", "Key prefix")
	rootCmd.AddCommand(benchCmd)
}

func runBench(cmd *cobra.Command, _ []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}

	opts := bench.Options{
		Requests: e.cfg.Bench.Requests,
		Rate:     e.cfg.Bench.Rate,
		Burst:    e.cfg.Bench.Burst,
		Keys:     e.cfg.Bench.Keys,
		Prefix:   benchPrefix,
		Logger:   &e.log,
	}
	flags := cmd.Flags()
	if flags.Changed("requests") {
		opts.Requests = benchRequests
	}
	if flags.Changed("rate") {
		opts.Rate = benchRate
	}
	if flags.Changed("burst") {
		opts.Burst = benchBurst
	}
	if flags.Changed("keys") {
		opts.Keys = benchKeys
	}

	c, addr, err := e.connect(cmd.Context())
	if err != nil {
		return err
	}
	defer c.Close()

	rep, err := bench.Run(cmd.Context(), c, opts)
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", addr, rep)
	return err
}
