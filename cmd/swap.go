package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/Mohsinsiddi/coinx/internal/chain"
	"github.com/Mohsinsiddi/coinx/internal/swap"
	"github.com/Mohsinsiddi/coinx/internal/tokens"
	"github.com/Mohsinsiddi/coinx/internal/ui"
	"github.com/spf13/cobra"
)

var (
	swapFlags tradeFlags
	swapYes   bool
)

var errCancelled = errors.New("cancelled")

var swapCmd = &cobra.Command{
	Use:   "swap",
	Short: "Price, approve if needed, and execute a swap",
	Long: `Run the full swap flow from a signing wallet:

  1. fetch a price and check balance and allowance
  2. approve the 0x spender for the sell token, if it needs an allowance
  3. review the trade
  4. fetch a firm quote, sign its Permit2 message and broadcast the tx

Without --sell or --buy a token picker opens.

Examples:
  coinx swap --sell weth --buy usdc --amount 0.5
  coinx swap --amount 100 --network base --wallet alice
  coinx swap --sell usdc --buy weth --amount 1 --direction buy --yes`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, err := resolveChain(swapFlags.network)
		if err != nil {
			return err
		}
		signer, err := loadSigningWallet(swapFlags.wallet)
		if err != nil {
			return err
		}

		if swapFlags.sell == "" {
			if swapFlags.sell, err = pickToken(c, "Select token to sell", ""); err != nil {
				return err
			}
		}
		if swapFlags.buy == "" {
			if swapFlags.buy, err = pickToken(c, "Select token to buy", swapFlags.sell); err != nil {
				return err
			}
		}

		req, err := swapFlags.request()
		if err != nil {
			return err
		}
		req.Taker = signer.Address()

		_, svc, v, err := priceTrade(ctx, &swapFlags, req)
		if err != nil {
			return err
		}
		return runSwap(ctx, c, svc, v, signer)
	},
}

// runSwap walks the priced view through approval and settlement.
func runSwap(ctx context.Context, c *chain.Chain, svc *swap.Service, v *swap.PriceView, signer swap.Signer) error {
	printPrice(ctx, c, v)
	if len(v.Price.ValidationErrors) > 0 {
		return nil
	}

	switch v.Action {
	case swap.Error:
		return fmt.Errorf("reading allowance: %w", v.ReadErr)
	case swap.InsufficientBalance:
		return fmt.Errorf("insufficient %s balance", v.Sell.Symbol)
	case swap.NoPrice:
		return fmt.Errorf("no price available")
	case swap.Approve:
		if err := approveSwapSpender(ctx, c, svc, v, signer); err != nil {
			return err
		}
		if v.Action != swap.Review {
			return fmt.Errorf("allowance still insufficient after approval (%s)", v.Action)
		}
	}

	if !swapYes && !ui.Confirm(fmt.Sprintf("Swap %s %s for ~%s %s?", v.SellAmount, v.Sell.Symbol, v.BuyAmount, v.Buy.Symbol)) {
		fmt.Println(ui.Meta("Cancelled."))
		return nil
	}

	spin := ui.NewSpinner("Quoting, signing and broadcasting swap...")
	spin.Start()
	res, err := svc.Finalize(ctx, v, signer)
	spin.Stop()
	if res != nil {
		fmt.Println(ui.KeyValueBlock("Swap", [][2]string{
			{"Tx", ui.Addr(res.Hash.Hex())},
			{"Explorer", c.TxURL(res.Hash.Hex())},
			{"Block", blockOf(res.Receipt)},
		}))
	}
	if err != nil {
		return err
	}
	fmt.Println(ui.Success(fmt.Sprintf("Swapped %s %s for %s %s",
		swap.FormatBaseUnits(res.Quote.SellAmount, v.Sell.Decimals), v.Sell.Symbol,
		swap.FormatBaseUnits(res.Quote.BuyAmount, v.Buy.Decimals), v.Buy.Symbol)))
	return nil
}

func approveSwapSpender(ctx context.Context, c *chain.Chain, svc *swap.Service, v *swap.PriceView, signer swap.Signer) error {
	prompt := fmt.Sprintf("Approve %s to spend your %s?", ui.TruncateAddr(v.Spender.Hex()), v.Sell.Symbol)
	if !swapYes && !ui.Confirm(prompt) {
		return errCancelled
	}

	spin := ui.NewSpinner("Sending approval and waiting for it to be mined...")
	spin.Start()
	receipt, err := svc.Approve(ctx, v, signer)
	spin.Stop()
	if err != nil {
		return err
	}
	fmt.Println(ui.Success("Approved: " + c.TxURL(receipt.Hash.Hex())))
	return nil
}

func blockOf(r *chain.TxReceipt) string {
	if r == nil {
		return "pending"
	}
	return fmt.Sprint(r.BlockNumber)
}

// pickToken opens the token picker for c. exclude is left out of the list.
func pickToken(c *chain.Chain, title, exclude string) (string, error) {
	items := tokenItems(c.ChainID, exclude)
	picked, err := ui.PickItem(title, items)
	if err != nil {
		return "", err
	}
	if picked == "" {
		return "", errCancelled
	}
	return picked, nil
}

// tokenItems lists the chain's tokens as picker items, skipping exclude
// (matched by symbol or address).
func tokenItems(chainID int64, exclude string) []ui.PickerItem {
	var skip tokens.Token
	if exclude != "" {
		skip, _ = tokens.Resolve(chainID, exclude)
	}
	var items []ui.PickerItem
	for _, t := range tokens.List(chainID) {
		if skip.Symbol != "" && t.Address == skip.Address {
			continue
		}
		items = append(items, ui.PickerItem{Label: t.Symbol, SubLabel: t.Name, Value: t.Key()})
	}
	return items
}

func init() {
	swapFlags.register(swapCmd)
	swapCmd.Flags().BoolVarP(&swapYes, "yes", "y", false, "skip the approve and swap confirmations")
}
