package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/Mohsinsiddi/coinx/internal/config"
	"github.com/Mohsinsiddi/coinx/internal/logging"
	"github.com/spf13/cobra"
)

// Version is the current release. Overridable via build ldflags:
//
//	go build -ldflags "-X github.com/Mohsinsiddi/coinx/cmd.Version=1.2.3" .
var Version = "0.1.0"

var (
	cfgDir  string
	cfg     *config.Config
	logger  *slog.Logger
	verbose bool
	jsonOut bool
)

// rootCmd is the top-level command.
var rootCmd = &cobra.Command{
	Use:   "coinx",
	Short: "Swap tokens from the terminal via the 0x API",
	Long: `coinx prices token swaps through the 0x aggregation API, approves the
spender when the sell token needs an allowance and settles the trade from a
local signing wallet.

The 0x API key is read from the ZEROEX_API_KEY env var or from
config (coinx config set zeroex_api_key <key>).`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		cfg, err = config.Load(cfgDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		level := cfg.LogLevel
		if verbose {
			level = "debug"
		}
		logger = logging.New(os.Stderr, logging.Config{Level: level, Format: cfg.LogFormat})
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorLine(err))
		os.Exit(1)
	}
}

func init() {
	// COINX_CONFIG_DIR env var overrides the --config default.
	if envDir := os.Getenv("COINX_CONFIG_DIR"); envDir != "" {
		cfgDir = envDir
	}

	rootCmd.PersistentFlags().StringVar(&cfgDir, "config", cfgDir, "config directory (default: ~/.coinx)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "print raw JSON instead of styled output")

	rootCmd.AddCommand(
		priceCmd,
		quoteCmd,
		swapCmd,
		allowanceCmd,
		approveCmd,
		tokensCmd,
		walletCmd,
		networkCmd,
		rpcCmd,
		configCmd,
		historyCmd,
	)
}
