package cmd

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/Mohsinsiddi/coinx/internal/chain"
	"github.com/Mohsinsiddi/coinx/internal/config"
	"github.com/Mohsinsiddi/coinx/internal/erc20"
	"github.com/Mohsinsiddi/coinx/internal/logging"
	"github.com/Mohsinsiddi/coinx/internal/swap"
	"github.com/Mohsinsiddi/coinx/internal/tokens"
	"github.com/Mohsinsiddi/coinx/internal/zeroex"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const vitalik = "0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045"

// withTestConfig points the package-level config at a temp dir.
func withTestConfig(t *testing.T) {
	t.Helper()
	c, err := config.Load(t.TempDir())
	require.NoError(t, err)
	prevCfg, prevLog := cfg, logger
	cfg, logger = c, logging.Discard()
	t.Cleanup(func() { cfg, logger = prevCfg, prevLog })
}

func joinRows(rows [][2]string) string {
	var b strings.Builder
	for _, r := range rows {
		b.WriteString(r[0] + "=" + r[1] + "\n")
	}
	return b.String()
}

func TestRootRegistersCommands(t *testing.T) {
	want := []string{"price", "quote", "swap", "allowance", "approve", "tokens",
		"wallet", "network", "rpc", "config", "history"}
	for _, name := range want {
		c, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, c.Name())
	}
	for _, flag := range []string{"config", "verbose", "json"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(flag), flag)
	}
}

func TestTradeFlagsRegistered(t *testing.T) {
	for _, c := range []string{"price", "quote", "swap"} {
		cmd, _, err := rootCmd.Find([]string{c})
		require.NoError(t, err)
		for _, f := range []string{"sell", "buy", "amount", "direction", "network", "wallet"} {
			assert.NotNil(t, cmd.Flags().Lookup(f), "%s --%s", c, f)
		}
	}
}

func TestTradeFlagsRequestDefaults(t *testing.T) {
	withTestConfig(t)

	f := tradeFlags{amount: "1", direction: "sell"}
	req, err := f.request()
	require.NoError(t, err)
	assert.Equal(t, tokens.DefaultSell, req.Sell)
	assert.Equal(t, tokens.DefaultBuy, req.Buy)
	assert.Equal(t, swap.Sell, req.Direction)
	assert.Equal(t, common.Address{}, req.Taker, "no wallet means no taker")
}

func TestTradeFlagsRequestUsesWallet(t *testing.T) {
	withTestConfig(t)
	require.NoError(t, newWalletManager().Add("cold", vitalik))

	f := tradeFlags{sell: "usdc", buy: "dai", amount: "5", direction: "buy", wallet: "cold"}
	req, err := f.request()
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress(vitalik), req.Taker)
	assert.Equal(t, swap.Buy, req.Direction)
	assert.Equal(t, "usdc", req.Sell)
}

func TestTradeFlagsRequestErrors(t *testing.T) {
	withTestConfig(t)

	_, err := (&tradeFlags{direction: "sideways"}).request()
	assert.Error(t, err)

	_, err = (&tradeFlags{wallet: "nobody"}).request()
	assert.Error(t, err)
}

func TestWalletNamePrecedence(t *testing.T) {
	withTestConfig(t)
	mgr := newWalletManager()
	require.NoError(t, mgr.Add("a", vitalik))

	assert.Equal(t, "a", walletName(mgr, ""), "single wallet is the default")
	cfg.DefaultWallet = "b"
	assert.Equal(t, "b", walletName(mgr, ""))
	assert.Equal(t, "c", walletName(mgr, "c"))
}

func TestLoadSigningWalletRejectsWatchOnly(t *testing.T) {
	withTestConfig(t)
	require.NoError(t, newWalletManager().Add("cold", vitalik))

	_, err := loadSigningWallet("cold")
	assert.ErrorContains(t, err, "watch-only")
}

func TestLoadSigningWalletNoneSelected(t *testing.T) {
	withTestConfig(t)
	_, err := loadSigningWallet("")
	assert.ErrorContains(t, err, "no wallet selected")
}

func TestResolveAddress(t *testing.T) {
	withTestConfig(t)
	require.NoError(t, newWalletManager().Add("cold", vitalik))
	ctx := context.Background()

	addr, err := resolveAddress(ctx, strings.ToLower(vitalik))
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress(vitalik), addr)

	addr, err = resolveAddress(ctx, "cold")
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress(vitalik), addr)

	_, err = resolveAddress(ctx, "nope")
	assert.Error(t, err)
}

func TestSwapFeesWithoutRecipient(t *testing.T) {
	withTestConfig(t)
	cfg.AffiliateFeeBps = 25
	cfg.SlippageBps = 50

	fees, err := swapFees(context.Background())
	require.NoError(t, err)
	assert.Equal(t, swap.Fees{AffiliateBps: 25, SlippageBps: 50}, fees)
}

func TestSwapFeesHexRecipient(t *testing.T) {
	withTestConfig(t)
	cfg.FeeRecipient = vitalik

	fees, err := swapFees(context.Background())
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress(vitalik), fees.Recipient)
}

func TestResolveChainDefault(t *testing.T) {
	withTestConfig(t)
	cfg.DefaultNetwork = "base"

	c, err := resolveChain("")
	require.NoError(t, err)
	assert.Equal(t, "base", c.Name)

	_, err = resolveChain("narnia")
	assert.ErrorIs(t, err, chain.ErrChainNotFound)
}

func TestChainRPCsCustomFirst(t *testing.T) {
	withTestConfig(t)
	c, err := resolveChain("ethereum")
	require.NoError(t, err)
	require.NoError(t, cfg.AddRPC("ethereum", "https://my.node"))

	urls := chainRPCs(c)
	assert.Equal(t, "https://my.node", urls[0])
	assert.Len(t, urls, len(c.RPCs)+1)
}

func TestNewZeroExClientRejectsUnknownCache(t *testing.T) {
	withTestConfig(t)
	cfg.CacheBackend = "memcached"
	_, err := newZeroExClient()
	assert.Error(t, err)

	cfg.CacheBackend = "none"
	_, err = newZeroExClient()
	assert.NoError(t, err)
}

func TestParseAllowance(t *testing.T) {
	v, err := parseAllowance("max", 6)
	require.NoError(t, err)
	assert.Equal(t, erc20.MaxAllowance, v)
	assert.NotSame(t, erc20.MaxAllowance, v)

	v, err = parseAllowance("1.5", 6)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1_500_000), v)

	_, err = parseAllowance("", 6)
	assert.ErrorIs(t, err, swap.ErrEmptyAmount)
}

func TestFormatAllowance(t *testing.T) {
	assert.Equal(t, "unlimited", formatAllowance(erc20.MaxAllowance, 18))
	assert.Equal(t, "2.5", formatAllowance(big.NewInt(2_500_000), 6))
	assert.Equal(t, "0", formatAllowance(big.NewInt(0), 6))
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "", maskSecret(""))
	assert.Equal(t, "***", maskSecret("abc"))
	assert.Equal(t, "******7890", maskSecret("1234567890"))
}

func TestTokenItemsExcludesPicked(t *testing.T) {
	all := tokenItems(1, "")
	require.Len(t, all, len(tokens.List(1)))

	rest := tokenItems(1, "weth")
	assert.Len(t, rest, len(all)-1)
	for _, it := range rest {
		assert.NotEqual(t, "weth", it.Value)
	}
}

func TestBlockOf(t *testing.T) {
	assert.Equal(t, "pending", blockOf(nil))
	assert.Equal(t, "42", blockOf(&chain.TxReceipt{BlockNumber: 42}))
}

func TestStatusLabelKeepsText(t *testing.T) {
	assert.Contains(t, statusLabel("success"), "success")
	assert.Contains(t, statusLabel("reverted"), "reverted")
}

func TestErrorLineHintsAtAPIKey(t *testing.T) {
	line := errorLine(&zeroex.APIError{Status: 401, Message: "invalid api key"})
	assert.Contains(t, line, "zeroex_api_key")

	assert.NotContains(t, errorLine(errors.New("boom")), "zeroex_api_key")
}

func reviewView(t *testing.T) *swap.PriceView {
	t.Helper()
	weth, err := tokens.BySymbol(1, "weth")
	require.NoError(t, err)
	usdc, err := tokens.BySymbol(1, "usdc")
	require.NoError(t, err)
	return &swap.PriceView{
		ChainID:      1,
		Sell:         weth,
		Buy:          usdc,
		Taker:        common.HexToAddress(vitalik),
		Price:        &zeroex.Price{MinBuyAmount: "2990000000", TotalNetworkFee: "1000000000000000"},
		SellAmount:   "1",
		BuyAmount:    "3000",
		AffiliateFee: "30",
		BuyTax:       "1.50",
		Balance:      big.NewInt(2e18),
		Action:       swap.Review,
	}
}

func TestPriceRows(t *testing.T) {
	v := reviewView(t)
	vals := usdValues{currency: "usd", prices: map[common.Address]float64{v.Sell.Address: 3000}}

	out := joinRows(priceRows(v, vals))
	assert.Contains(t, out, "Ethereum Mainnet")
	assert.Contains(t, out, "0xd8dA...6045")
	assert.Contains(t, out, "1 WETH")
	assert.Contains(t, out, "≈ 3000.00 USD")
	assert.Contains(t, out, "3000 USDC")
	assert.Contains(t, out, "Minimum received=2990 USDC")
	assert.Contains(t, out, "Affiliate fee=30 USDC")
	assert.Contains(t, out, "Buy tax=1.50%")
	assert.NotContains(t, out, "Sell tax")
	assert.Contains(t, out, "Network fee=0.001")
	assert.Contains(t, out, "Balance=2 WETH")
	assert.Contains(t, out, "Review Trade")
}

func TestPriceRowsWithoutTaker(t *testing.T) {
	v := reviewView(t)
	v.Taker = common.Address{}
	v.Balance = nil

	out := joinRows(priceRows(v, usdValues{}))
	assert.NotContains(t, out, "Wallet=")
	assert.NotContains(t, out, "Balance=")
	assert.NotContains(t, out, "≈")
}

func TestPriceRowsAllowanceError(t *testing.T) {
	v := reviewView(t)
	v.Spender = common.HexToAddress("0x000000000022D473030F116dDEE9F6B43aC78BA3")
	v.ReadErr = errors.New("execution reverted")
	v.Action = swap.Error

	out := joinRows(priceRows(v, usdValues{}))
	assert.Contains(t, out, "Spender=")
	assert.Contains(t, out, "execution reverted")
	assert.Contains(t, out, "Next=")
}

func TestQuoteRowsUseQuoteAmounts(t *testing.T) {
	v := reviewView(t)
	q := &zeroex.Quote{
		Price:       zeroex.Price{BuyAmount: "3001500000", SellAmount: "1000000000000000000"},
		Transaction: zeroex.Transaction{To: common.HexToAddress("0x0000000000001fF3684f28c67538d4D072C22734"), Gas: "210000", Value: "0"},
		Permit2:     &zeroex.Permit2{Type: "Permit2"},
	}

	out := joinRows(quoteRows(v, q, usdValues{}))
	assert.Contains(t, out, "3001.5 USDC")
	assert.Contains(t, out, "Gas=210000")
	assert.NotContains(t, out, "Value=")
	assert.Contains(t, out, "Permit2 signature=yes (Permit2)")
	assert.NotContains(t, out, "Next=")
	assert.Equal(t, "3000", v.BuyAmount, "view is not modified")
}

func TestValidationList(t *testing.T) {
	out := validationList([]zeroex.ValidationError{
		{Field: "sellAmount", Reason: "must be positive"},
		{Field: "taker", Reason: "invalid address"},
	})
	assert.Contains(t, out, "• sellAmount: must be positive")
	assert.Contains(t, out, "• taker: invalid address")
}

func TestUSDValues(t *testing.T) {
	weth, err := tokens.BySymbol(1, "weth")
	require.NoError(t, err)
	vals := usdValues{currency: "eur", prices: map[common.Address]float64{weth.Address: 2000}}

	assert.Equal(t, "≈ 3000.00 EUR", vals.of(weth, "1.5"))
	assert.Equal(t, "", vals.of(weth, ""))
	assert.Equal(t, "", vals.of(weth, "abc"))
	assert.Equal(t, "", usdValues{}.of(weth, "1"))
	assert.Equal(t, "1 WETH", withValue("1 WETH", ""))
}
