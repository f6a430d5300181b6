// Package wallet keeps the named wallets a swap can be priced for or signed
// with. Watch-only wallets are just an address. Signing wallets also hold a
// private key, which lives in a KeyStore and never in the wallet book.
package wallet

import (
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Wallet kinds.
const (
	TypeWatchOnly = "watch-only"
	TypeSigning   = "signing"
)

var (
	ErrWalletNotFound = errors.New("wallet not found")
	ErrWalletExists   = errors.New("wallet already exists")
	ErrInvalidKey     = errors.New("invalid private key")
	ErrInvalidAddress = errors.New("invalid address")
	ErrWatchOnly      = errors.New("wallet is watch-only and cannot sign")
)

// Wallet is one entry of the wallet book.
type Wallet struct {
	Name    string         `json:"name"`
	Address common.Address `json:"address"`
	Type    string         `json:"type"`
	KeyRef  string         `json:"key_ref,omitempty"`
	Added   time.Time      `json:"added"`
}

// CanSign reports whether the wallet has a stored key.
func (w *Wallet) CanSign() bool { return w.Type == TypeSigning && w.KeyRef != "" }
