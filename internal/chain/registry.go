package chain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrChainNotFound is returned when a chain is not in the registry.
var ErrChainNotFound = errors.New("chain not found")

// Chain holds the metadata coinx needs for one EVM chain served by the 0x API.
type Chain struct {
	Name           string   `json:"name"`
	DisplayName    string   `json:"display_name"`
	ChainID        int64    `json:"chain_id"`
	NativeCurrency string   `json:"native_currency"`
	RPCs           []string `json:"rpcs"`
	Explorer       string   `json:"explorer"`
	// CoinGeckoPlatform is the asset platform id used for token USD prices.
	CoinGeckoPlatform string `json:"coingecko_platform"`
}

// TxURL returns the explorer link for a transaction hash.
func (c *Chain) TxURL(hash string) string {
	return c.Explorer + "/tx/" + hash
}

// Registry is the chain registry.
type Registry struct {
	chains []Chain
	byName map[string]*Chain
	byID   map[int64]*Chain
}

// NewRegistry creates the registry of every chain coinx can swap on.
func NewRegistry() *Registry {
	chains := allChains()
	r := &Registry{
		chains: chains,
		byName: make(map[string]*Chain, len(chains)),
		byID:   make(map[int64]*Chain, len(chains)),
	}
	for i := range r.chains {
		c := &r.chains[i]
		r.byName[c.Name] = c
		r.byID[c.ChainID] = c
	}
	return r
}

// All returns every chain in the registry.
func (r *Registry) All() []Chain {
	return r.chains
}

// GetByName finds a chain by its slug name (e.g. "base", "ethereum").
func (r *Registry) GetByName(name string) (*Chain, error) {
	c, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, ErrChainNotFound
	}
	return c, nil
}

// GetByChainID finds a chain by its numeric chain ID.
func (r *Registry) GetByChainID(id int64) (*Chain, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, ErrChainNotFound
	}
	return c, nil
}

// ConnectedLabel is the "Connected to" label shown under every swap view.
// Only the three networks the swap page was designed around get a friendly
// name; everything else is shown by id.
func ConnectedLabel(chainID int64) string {
	switch chainID {
	case 1:
		return "Ethereum Mainnet"
	case 137:
		return "Polygon"
	case 56:
		return "BSC"
	default:
		return fmt.Sprintf("Chain %d", chainID)
	}
}

// --- chain data ---

func allChains() []Chain {
	return []Chain{
		{
			Name: "ethereum", DisplayName: "Ethereum", ChainID: 1, NativeCurrency: "ETH",
			RPCs:              []string{"https://eth.llamarpc.com", "https://ethereum-rpc.publicnode.com"},
			Explorer:          "https://etherscan.io",
			CoinGeckoPlatform: "ethereum",
		},
		{
			Name: "base", DisplayName: "Base", ChainID: 8453, NativeCurrency: "ETH",
			RPCs:              []string{"https://mainnet.base.org", "https://base.llamarpc.com"},
			Explorer:          "https://basescan.org",
			CoinGeckoPlatform: "base",
		},
		{
			Name: "polygon", DisplayName: "Polygon", ChainID: 137, NativeCurrency: "POL",
			RPCs:              []string{"https://polygon-bor-rpc.publicnode.com", "https://polygon-pokt.nodies.app"},
			Explorer:          "https://polygonscan.com",
			CoinGeckoPlatform: "polygon-pos",
		},
		{
			Name: "arbitrum", DisplayName: "Arbitrum", ChainID: 42161, NativeCurrency: "ETH",
			RPCs:              []string{"https://arb1.arbitrum.io/rpc", "https://arbitrum.llamarpc.com"},
			Explorer:          "https://arbiscan.io",
			CoinGeckoPlatform: "arbitrum-one",
		},
		{
			Name: "optimism", DisplayName: "Optimism", ChainID: 10, NativeCurrency: "ETH",
			RPCs:              []string{"https://mainnet.optimism.io", "https://optimism.llamarpc.com"},
			Explorer:          "https://optimistic.etherscan.io",
			CoinGeckoPlatform: "optimistic-ethereum",
		},
		{
			Name: "bnb", DisplayName: "BNB Chain", ChainID: 56, NativeCurrency: "BNB",
			RPCs:              []string{"https://bsc-dataseed.binance.org", "https://bsc-rpc.publicnode.com"},
			Explorer:          "https://bscscan.com",
			CoinGeckoPlatform: "binance-smart-chain",
		},
		{
			Name: "avalanche", DisplayName: "Avalanche", ChainID: 43114, NativeCurrency: "AVAX",
			RPCs:              []string{"https://api.avax.network/ext/bc/C/rpc", "https://avalanche-c-chain-rpc.publicnode.com"},
			Explorer:          "https://snowtrace.io",
			CoinGeckoPlatform: "avalanche",
		},
		{
			Name: "linea", DisplayName: "Linea", ChainID: 59144, NativeCurrency: "ETH",
			RPCs:              []string{"https://rpc.linea.build", "https://linea-rpc.publicnode.com"},
			Explorer:          "https://lineascan.build",
			CoinGeckoPlatform: "linea",
		},
		{
			Name: "scroll", DisplayName: "Scroll", ChainID: 534352, NativeCurrency: "ETH",
			RPCs:              []string{"https://rpc.scroll.io", "https://scroll-rpc.publicnode.com"},
			Explorer:          "https://scrollscan.com",
			CoinGeckoPlatform: "scroll",
		},
		{
			Name: "mantle", DisplayName: "Mantle", ChainID: 5000, NativeCurrency: "MNT",
			RPCs:              []string{"https://rpc.mantle.xyz", "https://mantle-rpc.publicnode.com"},
			Explorer:          "https://mantlescan.xyz",
			CoinGeckoPlatform: "mantle",
		},
		{
			Name: "blast", DisplayName: "Blast", ChainID: 81457, NativeCurrency: "ETH",
			RPCs:              []string{"https://rpc.blast.io", "https://blast-rpc.publicnode.com"},
			Explorer:          "https://blastscan.io",
			CoinGeckoPlatform: "blast",
		},
		{
			Name: "mode", DisplayName: "Mode", ChainID: 34443, NativeCurrency: "ETH",
			RPCs:              []string{"https://mainnet.mode.network", "https://mode-rpc.publicnode.com"},
			Explorer:          "https://explorer.mode.network",
			CoinGeckoPlatform: "mode",
		},
	}
}
