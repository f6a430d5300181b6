package cmd

import (
	"context"
	"fmt"

	"github.com/Mohsinsiddi/coinx/internal/chain"
	"github.com/Mohsinsiddi/coinx/internal/config"
	"github.com/Mohsinsiddi/coinx/internal/swap"
	"github.com/Mohsinsiddi/coinx/internal/tokens"
	"github.com/Mohsinsiddi/coinx/internal/ui"
	"github.com/spf13/cobra"
)

// tradeFlags are the pair/amount flags shared by price, quote and swap.
type tradeFlags struct {
	sell      string
	buy       string
	amount    string
	direction string
	network   string
	wallet    string
}

func (f *tradeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.sell, "sell", "", "token to sell: symbol or address (default "+tokens.DefaultSell+")")
	cmd.Flags().StringVar(&f.buy, "buy", "", "token to buy: symbol or address (default "+tokens.DefaultBuy+")")
	cmd.Flags().StringVar(&f.amount, "amount", "", "amount of the fixed side, in token units (e.g. 1.5)")
	cmd.Flags().StringVar(&f.direction, "direction", "sell", "which side --amount fixes: sell or buy")
	cmd.Flags().StringVar(&f.network, "network", "", "chain to trade on (default: config default_network)")
	cmd.Flags().StringVar(&f.wallet, "wallet", "", "wallet to trade from (default: config default_wallet)")
}

// request turns the flags into a swap request, filling the default pair.
func (f *tradeFlags) request() (swap.Request, error) {
	dir, err := swap.ParseDirection(f.direction)
	if err != nil {
		return swap.Request{}, err
	}
	taker, err := takerAddress(f.wallet)
	if err != nil {
		return swap.Request{}, err
	}
	req := swap.Request{Sell: f.sell, Buy: f.buy, Amount: f.amount, Direction: dir, Taker: taker}
	if req.Sell == "" {
		req.Sell = tokens.DefaultSell
	}
	if req.Buy == "" {
		req.Buy = tokens.DefaultBuy
	}
	return req, nil
}

// priceTrade wires a service for the flagged network and prices req.
func priceTrade(ctx context.Context, f *tradeFlags, req swap.Request) (*chain.Chain, *swap.Service, *swap.PriceView, error) {
	c, err := resolveChain(f.network)
	if err != nil {
		return nil, nil, nil, err
	}
	svc, err := newSwapService(ctx, c)
	if err != nil {
		return nil, nil, nil, err
	}

	spin := ui.NewSpinner(fmt.Sprintf("Pricing %s → %s on %s...", req.Sell, req.Buy, c.DisplayName))
	spin.Start()
	apiCtx, cancel := context.WithTimeout(ctx, config.APITimeout)
	defer cancel()
	v, err := svc.Price(apiCtx, req)
	spin.Stop()
	if err != nil {
		return nil, nil, nil, err
	}
	return c, svc, v, nil
}

var priceFlags tradeFlags

var priceCmd = &cobra.Command{
	Use:   "price",
	Short: "Show an indicative swap price and the next step",
	Long: `Ask the 0x API for an indicative price and show the buy amount, the
affiliate fee, token taxes and what to do next (Approve, Review Trade or
Insufficient Balance).

Balance and allowance are checked for --wallet (or the default wallet).

Examples:
  coinx price --amount 1
  coinx price --sell usdc --buy weth --amount 100 --network base
  coinx price --sell weth --buy dai --amount 500 --direction buy --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := priceFlags.request()
		if err != nil {
			return err
		}
		c, _, v, err := priceTrade(cmd.Context(), &priceFlags, req)
		if err != nil {
			return err
		}
		printPrice(cmd.Context(), c, v)
		return nil
	},
}

func init() {
	priceFlags.register(priceCmd)
}
