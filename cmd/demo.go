package cmd

import (
	"github.com/spf13/cobra"
)

// demoStep is one scripted exchange of the demo.
type demoStep struct {
	title string
	args  [][]string
}

var demoSteps = []demoStep{
	{"SET key `age` to 12", [][]string{{"set", "age", "12"}}},
	{"GET key `age`", [][]string{{"get", "age"}}},
	{"Set expire time (30s) for `age`", [][]string{{"pexpire", "age", "30000"}}},
	{"TTL for `age`", [][]string{{"pttl", "age"}}},
	{"Add scores to leaderboard", [][]string{
		{"zadd", "leaderboard", "100", "Alice"},
		{"zadd", "leaderboard", "200", "Bob"},
		{"zadd", "leaderboard", "150", "Charlie"},
	}},
	{"Query leaderboard", [][]string{{"zquery", "leaderboard", "100", "", "0", "5"}}},
	{"Remove Alice from leaderboard", [][]string{{"zrem", "leaderboard", "Alice"}}},
	{"Score of Bob", [][]string{{"zscore", "leaderboard", "Bob"}}},
	{"List all keys & Values", [][]string{{"keys"}}},
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a scripted tour of strings, expiry and sorted sets",
	Args:  cobra.NoArgs,
	RunE:  runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)
}

func runDemo(cmd *cobra.Command, _ []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}

	c, _, err := e.connect(cmd.Context())
	if err != nil {
		return err
	}
	defer c.Close()

	for _, step := range demoSteps {
		if err := e.printer.Header(step.title); err != nil {
			return err
		}
		for _, args := range step.args {
			if err := e.show(c.Do(cmd.Context(), args...)); err != nil {
				return err
			}
		}
	}
	return nil
}
