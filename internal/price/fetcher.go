// Package price values swap legs in a fiat currency using CoinGecko.
package price

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Mohsinsiddi/coinx/internal/tokens"
)

const defaultBaseURL = "https://api.coingecko.com/api/v3"

// Fetcher retrieves token prices from CoinGecko.
type Fetcher struct {
	client   *http.Client
	currency string
	baseURL  string
}

// NewFetcher creates a new price fetcher.
func NewFetcher(currency string) *Fetcher {
	if currency == "" {
		currency = "usd"
	}
	return &Fetcher{
		client:   &http.Client{Timeout: 10 * time.Second},
		currency: strings.ToLower(currency),
		baseURL:  defaultBaseURL,
	}
}

// Currency returns the lower-case fiat code prices are quoted in.
func (f *Fetcher) Currency() string { return f.currency }

// nativeIDs maps chain names to the CoinGecko coin id of their gas token.
var nativeIDs = map[string]string{
	"ethereum":  "ethereum",
	"base":      "ethereum",
	"polygon":   "polygon-ecosystem-token",
	"arbitrum":  "ethereum",
	"optimism":  "ethereum",
	"bnb":       "binancecoin",
	"avalanche": "avalanche-2",
	"linea":     "ethereum",
	"scroll":    "ethereum",
	"mantle":    "mantle",
	"blast":     "ethereum",
	"mode":      "ethereum",
}

// Prices returns a price per token address for toks on the given chain.
// ERC-20s are priced by contract on platform; the native coin by coin id.
// Tokens CoinGecko does not know are simply absent from the result.
func (f *Fetcher) Prices(ctx context.Context, chainName, platform string, toks []tokens.Token) (map[common.Address]float64, error) {
	out := make(map[common.Address]float64, len(toks))

	var contracts []string
	for _, t := range toks {
		if t.IsNative() {
			id, ok := nativeIDs[strings.ToLower(chainName)]
			if !ok {
				continue
			}
			p, err := f.coinPrice(ctx, id)
			if err != nil {
				return nil, err
			}
			out[t.Address] = p
			continue
		}
		contracts = append(contracts, strings.ToLower(t.Address.Hex()))
	}

	if len(contracts) == 0 || platform == "" {
		return out, nil
	}
	q := url.Values{}
	q.Set("contract_addresses", strings.Join(contracts, ","))
	q.Set("vs_currencies", f.currency)

	raw, err := f.fetch(ctx, "/simple/token_price/"+url.PathEscape(platform)+"?"+q.Encode())
	if err != nil {
		return nil, err
	}
	for addr, currencies := range raw {
		if p, ok := currencies[f.currency]; ok && common.IsHexAddress(addr) {
			out[common.HexToAddress(addr)] = p
		}
	}
	return out, nil
}

func (f *Fetcher) coinPrice(ctx context.Context, id string) (float64, error) {
	q := url.Values{}
	q.Set("ids", id)
	q.Set("vs_currencies", f.currency)
	raw, err := f.fetch(ctx, "/simple/price?"+q.Encode())
	if err != nil {
		return 0, err
	}
	p, ok := raw[id][f.currency]
	if !ok {
		return 0, fmt.Errorf("price not available for: %s", id)
	}
	return p, nil
}

// fetch decodes the {"<key>":{"usd":1.23}} shape both endpoints return.
func (f *Fetcher) fetch(ctx context.Context, path string) (map[string]map[string]float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching prices: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading price response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching prices: HTTP %d", resp.StatusCode)
	}

	var raw map[string]map[string]float64
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parsing price response: %w", err)
	}
	// token_price keys are lower-case addresses; normalise anyway.
	out := make(map[string]map[string]float64, len(raw))
	for k, v := range raw {
		out[strings.ToLower(k)] = v
	}
	return out, nil
}

// Value multiplies a decimal token amount by a unit price and renders it
// with two decimals. It returns "" when amount is not a number.
func Value(amount string, unit float64) string {
	a, ok := new(big.Float).SetString(amount)
	if !ok {
		return ""
	}
	v, _ := new(big.Float).Mul(a, big.NewFloat(unit)).Float64()
	return fmt.Sprintf("%.2f", v)
}
