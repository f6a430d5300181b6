package cmd

import (
	"context"
	"fmt"

	"github.com/Mohsinsiddi/coinx/internal/config"
	"github.com/Mohsinsiddi/coinx/internal/ui"
	"github.com/spf13/cobra"
)

var quoteFlags tradeFlags

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Fetch a firm quote without signing or sending anything",
	Long: `Fetch a firm 0x quote for the trade, including the settlement
transaction and whether a Permit2 signature would be requested.

A quote is bound to a taker, so a wallet is required (watch-only is fine).

Examples:
  coinx quote --sell weth --buy usdc --amount 1 --wallet alice
  coinx quote --amount 1 --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		req, err := quoteFlags.request()
		if err != nil {
			return err
		}
		c, svc, v, err := priceTrade(ctx, &quoteFlags, req)
		if err != nil {
			return err
		}
		if len(v.Price.ValidationErrors) > 0 {
			printPrice(ctx, c, v)
			return nil
		}

		spin := ui.NewSpinner("Fetching firm quote...")
		spin.Start()
		apiCtx, cancel := context.WithTimeout(ctx, config.APITimeout)
		defer cancel()
		q, err := svc.Quote(apiCtx, v, req.Taker)
		spin.Stop()
		if err != nil {
			return err
		}

		switch {
		case jsonOut:
			fmt.Println(string(q.Raw))
		case len(q.ValidationErrors) > 0:
			fmt.Println(validationList(q.ValidationErrors))
		default:
			vals := fetchValues(ctx, c, v.Sell, v.Buy)
			fmt.Println(ui.KeyValueBlock("Firm Quote", quoteRows(v, q, vals)))
			fmt.Println(ui.Meta("Nothing was signed. Run `coinx swap` with the same flags to trade."))
		}
		return nil
	},
}

func init() {
	quoteFlags.register(quoteCmd)
}
