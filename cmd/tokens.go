package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/Mohsinsiddi/coinx/internal/tokens"
	"github.com/Mohsinsiddi/coinx/internal/ui"
	"github.com/spf13/cobra"
)

var tokensNetwork string

var tokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "List the tokens offered for swapping on a network",
	Long: `List the built-in token list for a network. A listed symbol or its
address can be passed to --sell and --buy.

Networks without their own list show the Ethereum mainnet list.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := resolveChain(tokensNetwork)
		if err != nil {
			return err
		}
		list := tokens.List(c.ChainID)

		if jsonOut {
			data, err := json.MarshalIndent(list, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		if !tokens.HasList(c.ChainID) {
			fmt.Println(ui.Warn(fmt.Sprintf("No token list for %s — showing Ethereum mainnet tokens.", c.DisplayName)))
		}
		t := ui.NewTable([]ui.Column{
			{Title: "Symbol", Width: 8},
			{Title: "Name", Width: 24},
			{Title: "Decimals", Width: 8, Align: ui.AlignRight},
			{Title: "Address", Width: 42},
		})
		for _, tok := range list {
			t.AddRow(ui.Row{
				ui.Val(tok.Symbol),
				tok.Name,
				fmt.Sprintf("%d", tok.Decimals),
				ui.Addr(tok.Address.Hex()),
			})
		}
		fmt.Println(t.Render())
		fmt.Println(ui.Meta(fmt.Sprintf("%d tokens on %s", len(list), c.DisplayName)))
		return nil
	},
}

func init() {
	tokensCmd.Flags().StringVar(&tokensNetwork, "network", "", "network to list (default: config default_network)")
}
