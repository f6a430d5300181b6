// Package ens resolves *.eth names given where coinx expects an address.
package ens

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"
)

// ENS Registry address on Ethereum mainnet.
var registryAddr = common.HexToAddress("0x00000000000C2E074eC69A0dFb2997BA6C7d2e1e")

// Function selectors.
var (
	selResolver = []byte{0x01, 0x78, 0xb8, 0xbf} // resolver(bytes32)
	selAddr     = []byte{0x3b, 0x3b, 0x57, 0xde} // addr(bytes32)
)

// ErrNotResolved is returned when a name has no resolver or address record.
var ErrNotResolved = errors.New("ens name not resolved")

// Caller executes eth_call against mainnet.
type Caller interface {
	CallContract(ctx context.Context, to common.Address, data []byte) ([]byte, error)
}

// IsName reports whether s looks like an ENS name rather than an address.
func IsName(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.HasSuffix(s, ".eth") && len(s) > len(".eth")
}

// Resolve resolves an ENS name to an address.
// It queries the ENS registry for the resolver, then calls addr(bytes32) on it.
func Resolve(ctx context.Context, c Caller, name string) (common.Address, error) {
	node := Namehash(strings.ToLower(strings.TrimSpace(name)))

	res, err := c.CallContract(ctx, registryAddr, append(append([]byte{}, selResolver...), node[:]...))
	if err != nil {
		return common.Address{}, fmt.Errorf("querying ENS registry: %w", err)
	}
	resolver, ok := wordAddress(res)
	if !ok {
		return common.Address{}, fmt.Errorf("%w: no resolver set for %q", ErrNotResolved, name)
	}

	res, err = c.CallContract(ctx, resolver, append(append([]byte{}, selAddr...), node[:]...))
	if err != nil {
		return common.Address{}, fmt.Errorf("querying ENS resolver: %w", err)
	}
	addr, ok := wordAddress(res)
	if !ok {
		return common.Address{}, fmt.Errorf("%w: no address record for %q", ErrNotResolved, name)
	}
	return addr, nil
}

// ResolveAddress accepts a hex address or an ENS name. c is only used for
// names, and may be nil when s is known to be an address.
func ResolveAddress(ctx context.Context, c Caller, s string) (common.Address, error) {
	s = strings.TrimSpace(s)
	if common.IsHexAddress(s) {
		return common.HexToAddress(s), nil
	}
	if !IsName(s) {
		return common.Address{}, fmt.Errorf("%q is neither an address nor an ENS name", s)
	}
	if c == nil {
		return common.Address{}, fmt.Errorf("resolving %q: no mainnet RPC", s)
	}
	return Resolve(ctx, c, s)
}

// Namehash implements the EIP-137 namehash algorithm.
// namehash("") = 0x00...00
// namehash("eth") = keccak256(namehash("") + keccak256("eth"))
func Namehash(name string) common.Hash {
	var node common.Hash
	if name == "" {
		return node
	}

	labels := strings.Split(name, ".")
	for i := len(labels) - 1; i >= 0; i-- {
		label := keccak256([]byte(labels[i]))
		node = common.BytesToHash(keccak256(node[:], label))
	}
	return node
}

func keccak256(data ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		h.Write(d)
	}
	return h.Sum(nil)
}

// wordAddress extracts the address from a 32-byte ABI word; ok is false for
// short results and the zero address.
func wordAddress(word []byte) (common.Address, bool) {
	if len(word) < 32 {
		return common.Address{}, false
	}
	a := common.BytesToAddress(word[12:32])
	return a, a != (common.Address{})
}
