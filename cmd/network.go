package cmd

import (
	"fmt"

	"github.com/Mohsinsiddi/coinx/internal/chain"
	"github.com/Mohsinsiddi/coinx/internal/tokens"
	"github.com/Mohsinsiddi/coinx/internal/ui"
	"github.com/spf13/cobra"
)

var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Manage networks",
}

var networkListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the chains the swap API supports",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := chain.NewRegistry()
		t := ui.NewTable([]ui.Column{
			{Title: "Name", Width: 10},
			{Title: "Display", Width: 18},
			{Title: "Chain ID", Width: 8, Align: ui.AlignRight},
			{Title: "Currency", Width: 8},
			{Title: "Tokens", Width: 8},
			{Title: "", Width: 1},
		})

		for _, c := range reg.All() {
			list := "mainnet"
			if tokens.HasList(c.ChainID) {
				list = "own"
			}
			current := ""
			if c.Name == cfg.DefaultNetwork {
				current = ui.StyleSuccess.Render("✓")
			}
			t.AddRow(ui.Row{
				ui.ChainName(c.Name),
				c.DisplayName,
				fmt.Sprintf("%d", c.ChainID),
				c.NativeCurrency,
				list,
				current,
			})
		}

		fmt.Println(t.Render())
		fmt.Println(ui.Meta(fmt.Sprintf("%d chains total", len(reg.All()))))
		return nil
	},
}

var networkUseCmd = &cobra.Command{
	Use:   "use <chain>",
	Short: "Set the default network",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := resolveChain(args[0])
		if err != nil {
			return err
		}
		cfg.DefaultNetwork = c.Name
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Default network set to %s (%s)",
			ui.ChainName(c.Name), chain.ConnectedLabel(c.ChainID))))
		return nil
	},
}

func init() {
	networkCmd.AddCommand(networkListCmd, networkUseCmd)
}
