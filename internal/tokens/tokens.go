// Package tokens holds the per-chain list of tokens offered for swapping.
package tokens

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// ErrUnknownToken is returned when a symbol or address is not listed.
var ErrUnknownToken = errors.New("unknown token")

// Default selection for a fresh swap.
const (
	DefaultSell = "weth"
	DefaultBuy  = "usdc"
)

// NativeAddress is the placeholder the swap API uses for a chain's native coin.
var NativeAddress = common.HexToAddress("0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE")

const logoBase = "https://raw.githubusercontent.com/maticnetwork/polygon-token-assets/main/assets/tokenAssets/"

// Token is one swappable asset.
type Token struct {
	ChainID  int64          `json:"chainId"`
	Name     string         `json:"name"`
	Symbol   string         `json:"symbol"`
	Decimals int            `json:"decimals"`
	Address  common.Address `json:"address"`
	LogoURI  string         `json:"logoURI"`
}

// IsNative reports whether t is the chain's native coin rather than an ERC-20.
func (t Token) IsNative() bool { return t.Address == NativeAddress }

// Key is the lower-case symbol used for lookups and selection.
func (t Token) Key() string { return strings.ToLower(t.Symbol) }

func tok(chainID int64, name, symbol string, decimals int, addr, logo string) Token {
	return Token{
		ChainID:  chainID,
		Name:     name,
		Symbol:   symbol,
		Decimals: decimals,
		Address:  common.HexToAddress(addr),
		LogoURI:  logoBase + logo,
	}
}

var byChain = map[int64][]Token{
	1: {
		tok(1, "Ether", "ETH", 18, NativeAddress.Hex(), "eth.svg"),
		tok(1, "Wrapped Ether", "WETH", 18, "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", "weth.svg"),
		tok(1, "USD Coin", "USDC", 6, "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", "usdc.svg"),
		tok(1, "Tether USD", "USDT", 6, "0xdAC17F958D2ee523a2206206994597C13D831ec7", "usdt.svg"),
		tok(1, "Dai Stablecoin", "DAI", 18, "0x6B175474E89094C44Da98b954EedeAC495271d0F", "dai.svg"),
		tok(1, "Wrapped BTC", "WBTC", 8, "0x2260FAC5E5542a773Aa44fBCfeDf7C193bc2C599", "wbtc.svg"),
		tok(1, "ChainLink Token", "LINK", 18, "0x514910771AF9Ca656af840dff83E8264EcF986CA", "link.svg"),
		tok(1, "Uniswap", "UNI", 18, "0x1f9840a85d5aF5bf1D1762F925BDADdC4201F984", "uni.svg"),
	},
	8453: {
		tok(8453, "Ether", "ETH", 18, NativeAddress.Hex(), "eth.svg"),
		tok(8453, "Wrapped Ether", "WETH", 18, "0x4200000000000000000000000000000000000006", "weth.svg"),
		tok(8453, "USD Coin", "USDC", 6, "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913", "usdc.svg"),
		tok(8453, "Dai Stablecoin", "DAI", 18, "0x50c5725949A6F0c72E6C4a641F24049A917DB0Cb", "dai.svg"),
	},
	137: {
		tok(137, "Polygon Ecosystem Token", "POL", 18, NativeAddress.Hex(), "pol.svg"),
		tok(137, "Wrapped Ether", "WETH", 18, "0x7ceB23fD6bC0adD59E62ac25578270cFf1b9f619", "weth.svg"),
		tok(137, "USD Coin", "USDC", 6, "0x3c499c542cEF5E3811e1192ce70d8cC03d5c3359", "usdc.svg"),
		tok(137, "Dai Stablecoin", "DAI", 18, "0x8f3Cf7ad23Cd3CaDbD9735AFf958023239c6A063", "dai.svg"),
		tok(137, "Wrapped POL", "WPOL", 18, "0x0d500B1d8E8eF31E21C99d1Db9A6444d3ADf1270", "wpol.svg"),
	},
	42161: {
		tok(42161, "Ether", "ETH", 18, NativeAddress.Hex(), "eth.svg"),
		tok(42161, "Wrapped Ether", "WETH", 18, "0x82aF49447D8a07e3bd95BD0d56f35241523fBab1", "weth.svg"),
		tok(42161, "USD Coin", "USDC", 6, "0xaf88d065e77c8cC2239327C5EDb3A432268e5831", "usdc.svg"),
	},
}

// List returns the tokens offered on chainID. Chains without their own list
// fall back to the Ethereum mainnet list.
func List(chainID int64) []Token {
	if l, ok := byChain[chainID]; ok {
		return l
	}
	return byChain[1]
}

// HasList reports whether chainID has its own token list.
func HasList(chainID int64) bool {
	_, ok := byChain[chainID]
	return ok
}

// BySymbol finds a token by symbol, case-insensitively.
func BySymbol(chainID int64, symbol string) (Token, error) {
	key := strings.ToLower(strings.TrimSpace(symbol))
	for _, t := range List(chainID) {
		if t.Key() == key {
			return t, nil
		}
	}
	return Token{}, fmt.Errorf("%w %q on chain %d", ErrUnknownToken, symbol, chainID)
}

// ByAddress finds a listed token by contract address.
func ByAddress(chainID int64, addr common.Address) (Token, error) {
	for _, t := range List(chainID) {
		if t.Address == addr {
			return t, nil
		}
	}
	return Token{}, fmt.Errorf("%w %s on chain %d", ErrUnknownToken, addr.Hex(), chainID)
}

// Resolve accepts either a symbol or a 0x-prefixed address.
func Resolve(chainID int64, s string) (Token, error) {
	if common.IsHexAddress(s) {
		return ByAddress(chainID, common.HexToAddress(s))
	}
	return BySymbol(chainID, s)
}
