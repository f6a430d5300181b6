package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Mohsinsiddi/coinx/internal/cache"
	"github.com/Mohsinsiddi/coinx/internal/chain"
	"github.com/Mohsinsiddi/coinx/internal/config"
	"github.com/Mohsinsiddi/coinx/internal/ens"
	"github.com/Mohsinsiddi/coinx/internal/history"
	"github.com/Mohsinsiddi/coinx/internal/rpc"
	"github.com/Mohsinsiddi/coinx/internal/swap"
	"github.com/Mohsinsiddi/coinx/internal/ui"
	"github.com/Mohsinsiddi/coinx/internal/wallet"
	"github.com/Mohsinsiddi/coinx/internal/zeroex"
	"github.com/ethereum/go-ethereum/common"
)

// errorLine renders err for stderr. API validation errors are listed one
// per line under the summary.
func errorLine(err error) string {
	var apiErr *zeroex.APIError
	if errors.As(err, &apiErr) && apiErr.Status == 401 {
		return ui.Err(err.Error()) + "\n" + ui.Meta("  check zeroex_api_key (coinx config set zeroex_api_key <key>)")
	}
	return ui.Err(err.Error())
}

// resolveChain looks up name, falling back to the default network.
func resolveChain(name string) (*chain.Chain, error) {
	if name == "" {
		name = cfg.DefaultNetwork
	}
	c, err := chain.NewRegistry().GetByName(name)
	if err != nil {
		return nil, fmt.Errorf("unknown network %q — run `coinx network list`: %w", name, err)
	}
	return c, nil
}

// chainRPCs returns custom RPCs first, then the built-in ones.
func chainRPCs(c *chain.Chain) []string {
	custom := cfg.GetRPCs(c.Name)
	urls := make([]string, 0, len(custom)+len(c.RPCs))
	urls = append(urls, custom...)
	return append(urls, c.RPCs...)
}

// pickBestRPC returns the endpoint chosen by the configured algorithm.
func pickBestRPC(ctx context.Context, c *chain.Chain) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, config.RPCSelectTimeout)
	defer cancel()

	url, err := rpc.Best(ctx, chainRPCs(c), rpc.Algorithm(cfg.RPCAlgorithm), logger)
	if err != nil {
		return "", fmt.Errorf("%s: %w", c.DisplayName, err)
	}
	return url, nil
}

func newEVMClient(ctx context.Context, c *chain.Chain) (*chain.EVMClient, error) {
	url, err := pickBestRPC(ctx, c)
	if err != nil {
		return nil, err
	}
	return chain.NewEVMClient(url).WithLogger(logger), nil
}

func newWalletManager() *wallet.Manager {
	return wallet.NewManager(
		wallet.WithStore(wallet.NewFileStore(cfg.Path(config.WalletsFile))),
		wallet.WithKeys(wallet.NewKeychain(cfg.Path(config.KeysDir))),
	)
}

// walletName picks the flag value, then the configured default, then the
// manager's own default.
func walletName(mgr *wallet.Manager, flag string) string {
	if flag != "" {
		return flag
	}
	if cfg.DefaultWallet != "" {
		return cfg.DefaultWallet
	}
	if w := mgr.Default(); w != nil {
		return w.Name
	}
	return ""
}

// loadSigningWallet returns a signer for the named (or default) wallet.
func loadSigningWallet(name string) (*wallet.Signer, error) {
	mgr := newWalletManager()
	name = walletName(mgr, name)
	if name == "" {
		return nil, fmt.Errorf("no wallet selected — use --wallet or `coinx wallet use <name>`")
	}
	return mgr.Signer(name)
}

// takerAddress returns the address prices are quoted for. Any wallet,
// watch-only included, can be a taker. No wallet at all is not an error:
// the price is then shown without balance or allowance checks.
func takerAddress(name string) (common.Address, error) {
	mgr := newWalletManager()
	name = walletName(mgr, name)
	if name == "" {
		return common.Address{}, nil
	}
	w, err := mgr.Get(name)
	if err != nil {
		return common.Address{}, err
	}
	return w.Address, nil
}

// resolveAddress accepts a hex address, an ENS name or a wallet name.
// ENS names are resolved against Ethereum mainnet.
func resolveAddress(ctx context.Context, s string) (common.Address, error) {
	s = strings.TrimSpace(s)
	switch {
	case common.IsHexAddress(s):
		return common.HexToAddress(s), nil
	case ens.IsName(s):
		mainnet, err := resolveChain("ethereum")
		if err != nil {
			return common.Address{}, err
		}
		client, err := newEVMClient(ctx, mainnet)
		if err != nil {
			return common.Address{}, err
		}
		return ens.ResolveAddress(ctx, client, s)
	default:
		w, err := newWalletManager().Get(s)
		if err != nil {
			return common.Address{}, fmt.Errorf("%q is not an address, ENS name or wallet", s)
		}
		return w.Address, nil
	}
}

func newZeroExClient() (*zeroex.Client, error) {
	cc, err := cache.New(cache.Options{
		Backend:   cfg.CacheBackend,
		RedisAddr: cfg.RedisAddr,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}
	return zeroex.New(cfg.ZeroExBaseURL, cfg.ZeroExAPIKey,
		zeroex.WithCache(cc, cfg.CacheTTL()),
		zeroex.WithLogger(logger),
	), nil
}

// swapFees turns the monetization settings into swap.Fees. The fee
// recipient may be an ENS name.
func swapFees(ctx context.Context) (swap.Fees, error) {
	fees := swap.Fees{AffiliateBps: cfg.AffiliateFeeBps, SlippageBps: cfg.SlippageBps}
	if cfg.FeeRecipient == "" {
		return fees, nil
	}
	addr, err := resolveAddress(ctx, cfg.FeeRecipient)
	if err != nil {
		return fees, fmt.Errorf("fee_recipient: %w", err)
	}
	fees.Recipient = addr
	return fees, nil
}

// newSwapService wires the 0x client, chain client, fees and history store
// for network c.
func newSwapService(ctx context.Context, c *chain.Chain) (*swap.Service, error) {
	api, err := newZeroExClient()
	if err != nil {
		return nil, err
	}
	client, err := newEVMClient(ctx, c)
	if err != nil {
		return nil, err
	}
	fees, err := swapFees(ctx)
	if err != nil {
		return nil, err
	}
	return swap.NewService(api, client, c.ChainID,
		swap.WithFees(fees),
		swap.WithRecorder(history.NewStore(cfg.Path(config.HistoryFile))),
		swap.WithNetwork(c.Name),
		swap.WithLogger(logger),
	), nil
}
