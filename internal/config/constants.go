package config

import "time"

// Gas limits used as EstimateGas fallbacks when the node cannot simulate the tx.
const (
	GasLimitApprove = uint64(60_000)
	GasLimitSwap    = uint64(400_000)
)

// Timeouts shared by the cmd and swap packages.
const (
	RPCSelectTimeout = 10 * time.Second
	APITimeout       = 15 * time.Second
	TxConfirmTimeout = 3 * time.Minute
)

// DefaultZeroExBaseURL is the public 0x API host.
const DefaultZeroExBaseURL = "https://api.0x.org"

// Names of the files kept in the config dir.
const (
	ConfigFile  = "config.json"
	WalletsFile = "wallets.json"
	HistoryFile = "history.json"
	KeysDir     = "keys"
)
