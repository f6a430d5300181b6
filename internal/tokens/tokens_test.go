package tokens_test

import (
	"testing"

	"github.com/Mohsinsiddi/coinx/internal/tokens"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPairOnMainnet(t *testing.T) {
	sell, err := tokens.BySymbol(1, tokens.DefaultSell)
	require.NoError(t, err)
	buy, err := tokens.BySymbol(1, tokens.DefaultBuy)
	require.NoError(t, err)

	assert.Equal(t, "WETH", sell.Symbol)
	assert.Equal(t, 18, sell.Decimals)
	assert.Equal(t, "USDC", buy.Symbol)
	assert.Equal(t, 6, buy.Decimals)
	assert.Equal(t, common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"), buy.Address)
}

func TestBySymbolIsCaseInsensitive(t *testing.T) {
	a, err := tokens.BySymbol(1, "Usdc")
	require.NoError(t, err)
	b, err := tokens.BySymbol(1, " USDC ")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestUnknownChainFallsBackToMainnet(t *testing.T) {
	assert.False(t, tokens.HasList(534352))
	assert.Equal(t, tokens.List(1), tokens.List(534352))

	tk, err := tokens.BySymbol(534352, "dai")
	require.NoError(t, err)
	assert.Equal(t, int64(1), tk.ChainID)
}

func TestChainSpecificList(t *testing.T) {
	weth, err := tokens.BySymbol(8453, "weth")
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0x4200000000000000000000000000000000000006"), weth.Address)

	_, err = tokens.BySymbol(8453, "wbtc")
	assert.ErrorIs(t, err, tokens.ErrUnknownToken)
}

func TestResolveByAddress(t *testing.T) {
	tk, err := tokens.Resolve(1, "0x6b175474e89094c44da98b954eedeac495271d0f")
	require.NoError(t, err)
	assert.Equal(t, "DAI", tk.Symbol)

	_, err = tokens.Resolve(1, "0x0000000000000000000000000000000000000001")
	assert.ErrorIs(t, err, tokens.ErrUnknownToken)
}

func TestNativeToken(t *testing.T) {
	eth, err := tokens.BySymbol(1, "eth")
	require.NoError(t, err)
	assert.True(t, eth.IsNative())

	weth, _ := tokens.BySymbol(1, "weth")
	assert.False(t, weth.IsNative())
}

func TestListsHaveUniqueSymbols(t *testing.T) {
	for _, id := range []int64{1, 8453, 137, 42161} {
		seen := map[string]bool{}
		for _, tk := range tokens.List(id) {
			assert.False(t, seen[tk.Key()], "chain %d duplicate %s", id, tk.Symbol)
			seen[tk.Key()] = true
			assert.Equal(t, id, tk.ChainID)
			assert.Positive(t, tk.Decimals)
		}
	}
}
