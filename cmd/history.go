package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/Mohsinsiddi/coinx/internal/chain"
	"github.com/Mohsinsiddi/coinx/internal/config"
	"github.com/Mohsinsiddi/coinx/internal/history"
	"github.com/Mohsinsiddi/coinx/internal/ui"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show swaps sent from this machine",
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := history.NewStore(cfg.Path(config.HistoryFile)).List(historyLimit)
		if err != nil {
			return err
		}

		if jsonOut {
			data, err := json.MarshalIndent(records, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}
		if len(records) == 0 {
			fmt.Println(ui.Meta("No swaps yet. Run `coinx swap` to make one."))
			return nil
		}

		reg := chain.NewRegistry()
		t := ui.NewTable([]ui.Column{
			{Title: "Time", Width: 16},
			{Title: "Network", Width: 10},
			{Title: "Sold", Width: 20},
			{Title: "Bought", Width: 20},
			{Title: "Status", Width: 8},
			{Title: "Tx", Width: 14},
		})
		for _, r := range records {
			network := r.Network
			if c, err := reg.GetByChainID(r.ChainID); err == nil && network == "" {
				network = c.Name
			}
			t.AddRow(ui.Row{
				r.Time.Local().Format("2006-01-02 15:04"),
				ui.ChainName(network),
				r.SellAmount + " " + r.SellSymbol,
				r.BuyAmount + " " + r.BuySymbol,
				statusLabel(r.Status),
				ui.Addr(ui.TruncateAddr(r.TxHash)),
			})
		}
		fmt.Println(t.Render())
		fmt.Println(ui.Meta(fmt.Sprintf("%d swap(s) · %s", len(records), cfg.Path(config.HistoryFile))))
		return nil
	},
}

func statusLabel(s string) string {
	switch s {
	case history.StatusSuccess:
		return ui.StyleSuccess.Render(s)
	case history.StatusPending:
		return ui.StyleWarning.Render(s)
	default:
		return ui.StyleError.Render(s)
	}
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "max records to show (0 = all)")
}
