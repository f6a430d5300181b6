package chain_test

import (
	"testing"

	"github.com/Mohsinsiddi/coinx/internal/chain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryLookups(t *testing.T) {
	reg := chain.NewRegistry()

	c, err := reg.GetByName("Base")
	require.NoError(t, err)
	assert.Equal(t, int64(8453), c.ChainID)

	c, err = reg.GetByChainID(137)
	require.NoError(t, err)
	assert.Equal(t, "polygon", c.Name)

	_, err = reg.GetByName("solana")
	assert.ErrorIs(t, err, chain.ErrChainNotFound)
	_, err = reg.GetByChainID(999999)
	assert.ErrorIs(t, err, chain.ErrChainNotFound)
}

func TestEveryChainIsComplete(t *testing.T) {
	seen := map[int64]bool{}
	for _, c := range chain.NewRegistry().All() {
		assert.NotEmpty(t, c.RPCs, c.Name)
		assert.NotEmpty(t, c.Explorer, c.Name)
		assert.NotEmpty(t, c.CoinGeckoPlatform, c.Name)
		assert.False(t, seen[c.ChainID], "duplicate chain id %d", c.ChainID)
		seen[c.ChainID] = true
	}
}

func TestConnectedLabel(t *testing.T) {
	assert.Equal(t, "Ethereum Mainnet", chain.ConnectedLabel(1))
	assert.Equal(t, "Polygon", chain.ConnectedLabel(137))
	assert.Equal(t, "BSC", chain.ConnectedLabel(56))
	assert.Equal(t, "Chain 8453", chain.ConnectedLabel(8453))
}

func TestTxURL(t *testing.T) {
	c, err := chain.NewRegistry().GetByName("ethereum")
	require.NoError(t, err)
	assert.Equal(t, "https://etherscan.io/tx/0xabc", c.TxURL("0xabc"))
}
