package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/x/term"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/nkootstra/kvwire/internal/client"
	"github.com/nkootstra/kvwire/internal/config"
	"github.com/nkootstra/kvwire/internal/discovery"
	"github.com/nkootstra/kvwire/internal/logging"
	"github.com/nkootstra/kvwire/internal/protocol"
	"github.com/nkootstra/kvwire/internal/render"
	"github.com/nkootstra/kvwire/internal/transport"
	"github.com/nkootstra/kvwire/internal/version"
)

var (
	addrFlag        string
	configFlag      string
	outputFlag      string
	noColorFlag     bool
	dialTimeoutFlag time.Duration
	timeoutFlag     time.Duration
	logLevelFlag    string
	etcdFlag        []string
	etcdPrefixFlag  string
)

var rootCmd = &cobra.Command{
	Use:   "kvwire [flags] <command> [args...]",
	Short: "Send commands to a key-value server over its binary wire protocol",
	Long:  `kvwire sends one command to the server and prints the reply, e.g.

  kvwire set age 12
  kvwire zquery leaderboard 100 "" 0 5

Use "kvwire shell" for an interactive session.`,
	Version:       version.String(),
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	RunE:          run,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&addrFlag, "addr", protocol.DefaultAddr, "Server address (host:port, unix:///path, ws:// or wss:// URL)")
	pf.StringVar(&configFlag, "config", "", "Config file (default: user config dir/kvwire/config.toml)")
	pf.StringVarP(&outputFlag, "output", "o", "text", "Output format: text or json")
	pf.BoolVar(&noColorFlag, "no-color", false, "Disable colored output")
	pf.DurationVar(&dialTimeoutFlag, "dial-timeout", transport.DefaultDialTimeout, "Connection timeout")
	pf.DurationVar(&timeoutFlag, "timeout", 10*time.Second, "Per-command timeout (0 disables)")
	pf.StringVar(&logLevelFlag, "log-level", "warn", "Log level: trace, debug, info, warn, error")
	pf.StringSliceVar(&etcdFlag, "etcd", nil, "etcd endpoints used to discover the server")
	pf.StringVar(&etcdPrefixFlag, "etcd-prefix", "/kvwire/servers/", "etcd key prefix of registered servers")

	// Everything after the command name belongs to the command.
	rootCmd.Flags().SetInterspersed(false)
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

// env is what every subcommand needs after flags and config are merged.
type env struct {
	cfg     config.Config
	log     zerolog.Logger
	printer render.Printer
	// explicitAddr is set when --addr was given, which bypasses discovery.
	explicitAddr bool
}

func setup(cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("addr") {
		cfg.Addr = addrFlag
	}
	if flags.Changed("output") {
		cfg.Output = outputFlag
	}
	if flags.Changed("no-color") {
		cfg.NoColor = noColorFlag
	}
	if flags.Changed("dial-timeout") {
		cfg.DialTimeout = dialTimeoutFlag
	}
	if flags.Changed("timeout") {
		cfg.Timeout = timeoutFlag
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevelFlag
	}
	if flags.Changed("etcd") {
		cfg.Etcd.Endpoints = etcdFlag
	}
	if flags.Changed("etcd-prefix") {
		cfg.Etcd.Prefix = etcdPrefixFlag
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	format, err := render.ParseFormat(cfg.Output)
	if err != nil {
		return nil, err
	}

	out := cmd.OutOrStdout()
	plain := cfg.NoColor || os.Getenv("NO_COLOR") != ""
	if f, ok := out.(*os.File); !ok || !term.IsTerminal(f.Fd()) {
		plain = true
	}

	return &env{
		cfg: cfg,
		log: logging.Stderr(cfg.LogLevel),
		printer: render.Printer{
			W:      out,
			Format: format,
			Styler: render.Styler{Plain: plain},
		},
		explicitAddr: flags.Changed("addr"),
	}, nil
}

// resolver picks where to connect: an explicit --addr, then etcd, then the
// configured address.
func (e *env) resolver() (discovery.Resolver, func(), error) {
	if e.explicitAddr || len(e.cfg.Etcd.Endpoints) == 0 {
		return discovery.Static(e.cfg.Addr), func() {}, nil
	}
	r, err := discovery.NewEtcd(e.cfg.Etcd.Endpoints, e.cfg.Etcd.Prefix, e.cfg.DialTimeout)
	if err != nil {
		return nil, nil, err
	}
	return r, func() { _ = r.Close() }, nil
}

// connect resolves the server address and dials it.
func (e *env) connect(ctx context.Context) (*client.Client, string, error) {
	r, done, err := e.resolver()
	if err != nil {
		return nil, "", err
	}
	defer done()

	resolveCtx, cancel := context.WithTimeout(ctx, e.cfg.DialTimeout)
	addr, err := r.Resolve(resolveCtx)
	cancel()
	if err != nil {
		return nil, "", fmt.Errorf("resolve server: %w", err)
	}

	c, err := client.Dial(ctx, addr,
		transport.Options{DialTimeout: e.cfg.DialTimeout},
		client.Options{Timeout: e.cfg.Timeout, Logger: &e.log},
	)
	if err != nil {
		return nil, "", fmt.Errorf("could not connect to server at %s: %w", addr, err)
	}
	return c, addr, nil
}

// show prints a reply. An incomplete response is printed and still
// reported as an error.
func (e *env) show(v protocol.Value, err error) error {
	if v != nil {
		if perr := e.printer.Value(v); perr != nil {
			return perr
		}
	}
	return err
}

func run(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}

	e, err := setup(cmd)
	if err != nil {
		return err
	}

	if info, ok := client.LookupCommand(args[0]); ok && len(args) != info.Argc {
		e.log.Warn().Str("cmd", args[0]).Str("usage", info.Usage).Msg("unexpected argument count")
	}

	c, _, err := e.connect(cmd.Context())
	if err != nil {
		return err
	}
	defer c.Close()

	return e.show(c.Do(cmd.Context(), args...))
}
