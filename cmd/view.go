package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Mohsinsiddi/coinx/internal/chain"
	"github.com/Mohsinsiddi/coinx/internal/price"
	"github.com/Mohsinsiddi/coinx/internal/swap"
	"github.com/Mohsinsiddi/coinx/internal/tokens"
	"github.com/Mohsinsiddi/coinx/internal/ui"
	"github.com/Mohsinsiddi/coinx/internal/zeroex"
	"github.com/ethereum/go-ethereum/common"
)

// nativeDecimals is the precision of every supported chain's gas coin.
const nativeDecimals = 18

// usdValues holds per-token fiat prices. A nil map means prices are
// unavailable and the value column is omitted.
type usdValues struct {
	currency string
	prices   map[common.Address]float64
}

// fetchValues asks CoinGecko for the fiat price of toks. Failures only log:
// the value column is optional.
func fetchValues(ctx context.Context, c *chain.Chain, toks ...tokens.Token) usdValues {
	f := price.NewFetcher(cfg.PriceCurrency)
	out := usdValues{currency: f.Currency()}
	prices, err := f.Prices(ctx, c.Name, c.CoinGeckoPlatform, toks)
	if err != nil {
		logger.Debug("fiat prices unavailable", slog.Any("err", err))
		return out
	}
	out.prices = prices
	return out
}

// of formats amount of tok in fiat, or "" when the price is unknown.
func (u usdValues) of(tok tokens.Token, amount string) string {
	unit, ok := u.prices[tok.Address]
	if !ok || amount == "" {
		return ""
	}
	val := price.Value(amount, unit)
	if val == "" {
		return ""
	}
	return fmt.Sprintf("≈ %s %s", val, strings.ToUpper(u.currency))
}

// withValue appends the fiat value to an amount cell.
func withValue(amount, value string) string {
	if value == "" {
		return amount
	}
	return amount + "  " + ui.Meta(value)
}

// priceRows builds the key/value rows shown for a priced trade.
func priceRows(v *swap.PriceView, vals usdValues) [][2]string {
	rows := [][2]string{
		{"Network", ui.ChainName(chain.ConnectedLabel(v.ChainID))},
	}
	if v.Taker != (common.Address{}) {
		rows = append(rows, [2]string{"Wallet", ui.Addr(ui.TruncateAddr(v.Taker.Hex()))})
	}
	rows = append(rows,
		[2]string{"Sell", withValue(ui.Val(v.SellAmount+" "+v.Sell.Symbol), vals.of(v.Sell, v.SellAmount))},
		[2]string{"Buy", withValue(ui.Val(v.BuyAmount+" "+v.Buy.Symbol), vals.of(v.Buy, v.BuyAmount))},
	)
	if v.Price != nil && v.Price.MinBuyAmount != "" {
		rows = append(rows, [2]string{"Minimum received",
			swap.FormatBaseUnits(v.Price.MinBuyAmount, v.Buy.Decimals) + " " + v.Buy.Symbol})
	}
	if v.AffiliateFee != "" {
		rows = append(rows, [2]string{"Affiliate fee", v.AffiliateFee + " " + v.Buy.Symbol})
	}
	if v.BuyTax != "" {
		rows = append(rows, [2]string{"Buy tax", v.BuyTax + "%"})
	}
	if v.SellTax != "" {
		rows = append(rows, [2]string{"Sell tax", v.SellTax + "%"})
	}
	if v.Price != nil && v.Price.TotalNetworkFee != "" {
		rows = append(rows, [2]string{"Network fee",
			swap.FormatBaseUnits(v.Price.TotalNetworkFee, nativeDecimals)})
	}
	if v.Balance != nil {
		rows = append(rows, [2]string{"Balance", swap.FormatUnits(v.Balance, v.Sell.Decimals) + " " + v.Sell.Symbol})
	}
	if v.Spender != (common.Address{}) {
		rows = append(rows, [2]string{"Spender", ui.Addr(v.Spender.Hex())})
	}
	if v.ReadErr != nil {
		rows = append(rows, [2]string{"Allowance", ui.Err(v.ReadErr.Error())})
	}
	return append(rows, [2]string{"Next", ui.Action(v.Action.String())})
}

// quoteRows adds the settlement tx details to the price rows.
func quoteRows(v *swap.PriceView, q *zeroex.Quote, vals usdValues) [][2]string {
	qv := *v
	qv.Price = &q.Price
	qv.BuyAmount = swap.FormatBaseUnits(q.BuyAmount, v.Buy.Decimals)
	qv.SellAmount = swap.FormatBaseUnits(q.SellAmount, v.Sell.Decimals)
	rows := priceRows(&qv, vals)
	rows = rows[:len(rows)-1] // a firm quote has no next action
	rows = append(rows,
		[2]string{"To", ui.Addr(q.Transaction.To.Hex())},
		[2]string{"Gas", q.Transaction.Gas},
	)
	if q.Transaction.Value != "" && q.Transaction.Value != "0" {
		rows = append(rows, [2]string{"Value", swap.FormatBaseUnits(q.Transaction.Value, nativeDecimals)})
	}
	signs := "no"
	if q.Permit2 != nil {
		signs = "yes (" + q.Permit2.Type + ")"
	}
	return append(rows, [2]string{"Permit2 signature", signs})
}

// validationList renders API validation errors as a bulleted list.
func validationList(errs []zeroex.ValidationError) string {
	var b strings.Builder
	b.WriteString(ui.Err("The swap API rejected the request:") + "\n")
	for _, e := range errs {
		fmt.Fprintf(&b, "  • %s\n", e)
	}
	return strings.TrimRight(b.String(), "\n")
}

// printPrice writes v to stdout: the raw upstream JSON under --json,
// otherwise the styled block or the validation list.
func printPrice(ctx context.Context, c *chain.Chain, v *swap.PriceView) {
	if jsonOut {
		fmt.Println(string(v.Price.Raw))
		return
	}
	if len(v.Price.ValidationErrors) > 0 {
		fmt.Println(validationList(v.Price.ValidationErrors))
		return
	}
	vals := fetchValues(ctx, c, v.Sell, v.Buy)
	fmt.Println(ui.KeyValueBlock("Price", priceRows(v, vals)))
}
