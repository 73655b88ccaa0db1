// Package inferctl implements the command line client for the inferd
// service: text generation and classification over the RPC endpoint, plus
// status from the admin endpoint.
package inferctl

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"inferd/internal/rpc"
)

// Config carries the connection settings shared by all subcommands.
type Config struct {
	Addr      string // thrift RPC endpoint, host:port
	AdminAddr string // admin HTTP base URL
	Timeout   int    // seconds for a full RPC round trip
	JSONOut   bool
	LogLevel  string

	log zerolog.Logger
}

// Execute runs the CLI with env-derived defaults.
func Execute() error {
	cfg := &Config{
		Addr:      envStr("INFERD_ADDR", "localhost:9090"),
		AdminAddr: envStr("INFERD_ADMIN", "http://localhost:8080"),
		Timeout:   envInt("INFERD_TIMEOUT", 600),
		LogLevel:  envStr("INFERCTL_LOG_LEVEL", "info"),
	}
	return buildRootCmdWith(cfg).Execute()
}

// buildRootCmdWith constructs the Cobra command tree. Tests build their own
// tree to point flags at fixtures.
func buildRootCmdWith(cfg *Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "inferctl",
		Short:         "Client for the inferd text generation and classification service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&cfg.Addr, "addr", cfg.Addr, "inferd RPC address (defaults INFERD_ADDR or localhost:9090)")
	root.PersistentFlags().StringVar(&cfg.AdminAddr, "admin", cfg.AdminAddr, "inferd admin base URL (defaults INFERD_ADMIN or http://localhost:8080)")
	root.PersistentFlags().IntVar(&cfg.Timeout, "timeout", cfg.Timeout, "Seconds to wait for a full RPC round trip (defaults INFERD_TIMEOUT or 600)")
	root.PersistentFlags().BoolVar(&cfg.JSONOut, "json", false, "Print raw JSON instead of formatted text")
	root.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug|info|warn|error (defaults INFERCTL_LOG_LEVEL or info)")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		cfg.log = newClientLogger(cfg.LogLevel)
	}

	root.AddCommand(newGenerateCmd(cfg), newClassifyCmd(cfg), newStatusCmd(cfg))
	return root
}

// newClientLogger writes console-formatted diagnostics to stderr so they never
// mix with command output on stdout.
func newClientLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// dialRPC opens a connection to the daemon. The socket timeout must cover a
// full inference, so it tracks the configured round-trip timeout.
func dialRPC(cfg *Config) (*rpc.Client, error) {
	cfg.log.Debug().Str("addr", cfg.Addr).Int("timeout_s", cfg.Timeout).Msg("dialing inferd")
	return rpc.Dial(cfg.Addr, 5*time.Second, time.Duration(cfg.Timeout)*time.Second)
}

func callCtx(cfg *Config) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(cfg.Timeout)*time.Second)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
