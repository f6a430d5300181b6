package config

// Config holds all coinx configuration.
type Config struct {
	DefaultNetwork string              `json:"default_network"`
	DefaultWallet  string              `json:"default_wallet"`
	RPCAlgorithm   string              `json:"rpc_algorithm"` // "fastest" | "round-robin" | "failover"
	CustomRPCs     map[string][]string `json:"custom_rpcs"`

	// Swap API.
	ZeroExAPIKey  string `json:"zeroex_api_key,omitempty"`
	ZeroExBaseURL string `json:"zeroex_base_url"`

	// Monetization. FeeRecipient may be an address or an ENS name.
	FeeRecipient    string `json:"fee_recipient,omitempty"`
	AffiliateFeeBps int    `json:"affiliate_fee_bps"`
	SlippageBps     int    `json:"slippage_bps,omitempty"`

	// Price response cache.
	CacheBackend  string `json:"cache_backend"` // "memory" | "redis" | "none"
	RedisAddr     string `json:"redis_addr,omitempty"`
	PriceCacheTTL int    `json:"price_cache_ttl"` // seconds

	PriceCurrency string `json:"price_currency"`

	LogLevel  string `json:"log_level"`
	LogFormat string `json:"log_format"` // "text" | "json"

	// internal: config dir path used for Save()
	configDir string
}
