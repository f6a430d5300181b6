package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"
)

const (
	defaultNetwork   = "ethereum"
	defaultMode      = "mainnet"
	defaultAlgorithm = "fastest"
	defaultCurrency  = "usd"
	defaultCache     = "memory"
	defaultCacheTTL  = 10
	defaultAffiliate = 100 // 1%
	defaultLogLevel  = "warn"
	defaultLogFormat = "text"
	defaultRedisAddr = "localhost:6379"
	apiKeyEnv        = "ZEROEX_API_KEY"
	dirName          = ".coinx"
)

// Load reads config from dir (or creates defaults). dir defaults to ~/.coinx.
// ZEROEX_API_KEY, when set, wins over the stored API key.
func Load(dir string) (*Config, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("could not determine home dir: %w", err)
		}
		dir = filepath.Join(home, dirName)
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("could not create config dir: %w", err)
	}

	cfg := defaults(dir)

	data, err := os.ReadFile(filepath.Join(dir, ConfigFile))
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	cfg.configDir = dir
	if cfg.CustomRPCs == nil {
		cfg.CustomRPCs = make(map[string][]string)
	}
	if key := os.Getenv(apiKeyEnv); key != "" {
		cfg.ZeroExAPIKey = key
	}
	return cfg, nil
}

// Save writes the config to disk.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.configDir, 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.configDir, ConfigFile), data, 0o600)
}

// Set assigns a config field by its JSON key. Used by `coinx config set`.
func (c *Config) Set(key, value string) error {
	switch key {
	case "default_network":
		c.DefaultNetwork = strings.ToLower(value)
	case "default_wallet":
		c.DefaultWallet = value
	case "rpc_algorithm":
		switch value {
		case "fastest", "round-robin", "failover":
		default:
			return fmt.Errorf("invalid rpc_algorithm %q — choose: fastest, round-robin, failover", value)
		}
		c.RPCAlgorithm = value
	case "zeroex_api_key":
		c.ZeroExAPIKey = value
	case "zeroex_base_url":
		c.ZeroExBaseURL = strings.TrimRight(value, "/")
	case "fee_recipient":
		c.FeeRecipient = value
	case "affiliate_fee_bps":
		return setBps(&c.AffiliateFeeBps, key, value)
	case "slippage_bps":
		return setBps(&c.SlippageBps, key, value)
	case "cache_backend":
		switch value {
		case "memory", "redis", "none":
		default:
			return fmt.Errorf("invalid cache_backend %q — choose: memory, redis, none", value)
		}
		c.CacheBackend = value
	case "redis_addr":
		c.RedisAddr = value
	case "price_cache_ttl":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid price_cache_ttl %q — expected seconds >= 0", value)
		}
		c.PriceCacheTTL = n
	case "price_currency":
		c.PriceCurrency = strings.ToLower(value)
	case "log_level":
		v := strings.ToLower(strings.TrimSpace(value))
		switch v {
		case "debug", "info", "warn", "warning", "error":
		default:
			return fmt.Errorf("invalid log_level %q — choose: debug, info, warn, error", value)
		}
		c.LogLevel = v
	case "log_format":
		v := strings.ToLower(strings.TrimSpace(value))
		switch v {
		case "text", "json":
		default:
			return fmt.Errorf("invalid log_format %q — choose: text, json", value)
		}
		c.LogFormat = v
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

// Keys lists the keys accepted by Set, in display order.
func Keys() []string {
	return []string{
		"default_network", "default_wallet", "rpc_algorithm",
		"zeroex_api_key", "zeroex_base_url", "fee_recipient", "affiliate_fee_bps",
		"slippage_bps", "cache_backend", "redis_addr", "price_cache_ttl",
		"price_currency", "log_level", "log_format",
	}
}

func setBps(dst *int, key, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 || n > 10_000 {
		return fmt.Errorf("invalid %s %q — expected 0..10000", key, value)
	}
	*dst = n
	return nil
}

// AddRPC adds a custom RPC URL for a chain.
func (c *Config) AddRPC(chain, url string) error {
	if c.CustomRPCs == nil {
		c.CustomRPCs = make(map[string][]string)
	}
	if slices.Contains(c.CustomRPCs[chain], url) {
		return fmt.Errorf("RPC %s already exists for chain %s", url, chain)
	}
	c.CustomRPCs[chain] = append(c.CustomRPCs[chain], url)
	return nil
}

// RemoveRPC removes a custom RPC URL for a chain.
func (c *Config) RemoveRPC(chain, url string) error {
	rpcs := c.CustomRPCs[chain]
	idx := slices.Index(rpcs, url)
	if idx == -1 {
		return fmt.Errorf("RPC %s not found for chain %s", url, chain)
	}
	c.CustomRPCs[chain] = slices.Delete(rpcs, idx, idx+1)
	return nil
}

// GetRPCs returns custom RPCs for a chain.
func (c *Config) GetRPCs(chain string) []string {
	return c.CustomRPCs[chain]
}

// CacheTTL returns the price cache lifetime.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.PriceCacheTTL) * time.Second
}

// Dir returns the config directory.
func (c *Config) Dir() string {
	return c.configDir
}

// Path joins name onto the config directory.
func (c *Config) Path(name string) string {
	return filepath.Join(c.configDir, name)
}

// --- helpers ---

func defaults(dir string) *Config {
	return &Config{
		DefaultNetwork:  defaultNetwork,
		RPCAlgorithm:    defaultAlgorithm,
		CustomRPCs:      make(map[string][]string),
		ZeroExBaseURL:   DefaultZeroExBaseURL,
		AffiliateFeeBps: defaultAffiliate,
		CacheBackend:    defaultCache,
		RedisAddr:       defaultRedisAddr,
		PriceCacheTTL:   defaultCacheTTL,
		PriceCurrency:   defaultCurrency,
		LogLevel:        defaultLogLevel,
		LogFormat:       defaultLogFormat,
		configDir:       dir,
	}
}
