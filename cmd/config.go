package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Mohsinsiddi/coinx/internal/config"
	"github.com/Mohsinsiddi/coinx/internal/ui"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configShowCmd = &cobra.Command{
	Use:     "show",
	Aliases: []string{"list"},
	Short:   "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		shown := *cfg
		shown.ZeroExAPIKey = maskSecret(cfg.ZeroExAPIKey)
		data, err := json.MarshalIndent(&shown, "", "  ")
		if err != nil {
			return err
		}
		if !jsonOut {
			fmt.Printf("%s\n\n", ui.StyleTitle.Render("Current Configuration"))
		}
		fmt.Println(string(data))
		if !jsonOut {
			fmt.Println(ui.Meta("Config directory: " + cfg.Dir()))
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: "Set a configuration value. Keys:\n\n  " + strings.Join(config.Keys(), "\n  ") + `

Examples:
  coinx config set zeroex_api_key <key>
  coinx config set fee_recipient fees.myproject.eth
  coinx config set affiliate_fee_bps 50
  coinx config set cache_backend redis`,
	Args: cobra.ExactArgs(2),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) == 0 {
			return config.Keys(), cobra.ShellCompDirectiveNoFileComp
		}
		return nil, cobra.ShellCompDirectiveNoFileComp
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if key == "default_network" {
			if _, err := resolveChain(value); err != nil {
				return err
			}
		}
		if err := cfg.Set(key, value); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		shown := value
		if key == "zeroex_api_key" {
			shown = maskSecret(value)
		}
		fmt.Println(ui.Success(fmt.Sprintf("%s set to %q", key, shown)))
		return nil
	},
}

// maskSecret keeps the last four characters of s.
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}

func init() {
	configCmd.AddCommand(configShowCmd, configSetCmd)
}
