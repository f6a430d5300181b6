// Package erc20 reads and writes the slice of the ERC-20 interface a swap
// needs: allowance, approve, balanceOf and decimals.
package erc20

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
)

// MaxAllowance is the "infinite" approval amount, 2^256 - 1.
var MaxAllowance = new(big.Int).Set(math.MaxBig256)

const abiJSON = `[
  {"type":"function","name":"allowance","stateMutability":"view",
   "inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],
   "outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"approve","stateMutability":"nonpayable",
   "inputs":[{"name":"spender","type":"address"},{"name":"value","type":"uint256"}],
   "outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"balanceOf","stateMutability":"view",
   "inputs":[{"name":"account","type":"address"}],
   "outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"decimals","stateMutability":"view",
   "inputs":[],
   "outputs":[{"name":"","type":"uint8"}]}
]`

var parsed = mustParse()

func mustParse() abi.ABI {
	a, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		panic(fmt.Sprintf("erc20: parsing ABI: %v", err))
	}
	return a
}

// Caller executes a read-only call (eth_call) against a contract.
type Caller interface {
	CallContract(ctx context.Context, to common.Address, data []byte) ([]byte, error)
}

// Token binds a contract address to a Caller.
type Token struct {
	Address common.Address
	caller  Caller
}

// New returns a Token reading through c.
func New(addr common.Address, c Caller) *Token {
	return &Token{Address: addr, caller: c}
}

// Allowance returns how much spender may transfer on behalf of owner.
func (t *Token) Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error) {
	var out *big.Int
	if err := t.read(ctx, &out, "allowance", owner, spender); err != nil {
		return nil, err
	}
	return out, nil
}

// BalanceOf returns the token balance of owner in base units.
func (t *Token) BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error) {
	var out *big.Int
	if err := t.read(ctx, &out, "balanceOf", owner); err != nil {
		return nil, err
	}
	return out, nil
}

// Decimals returns the token's decimals.
func (t *Token) Decimals(ctx context.Context) (uint8, error) {
	var out uint8
	if err := t.read(ctx, &out, "decimals"); err != nil {
		return 0, err
	}
	return out, nil
}

func (t *Token) read(ctx context.Context, out any, method string, args ...any) error {
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", method, err)
	}
	raw, err := t.caller.CallContract(ctx, t.Address, data)
	if err != nil {
		return fmt.Errorf("%s on %s: %w", method, t.Address.Hex(), err)
	}
	if len(raw) == 0 {
		return fmt.Errorf("%s on %s: empty return data (not a contract?)", method, t.Address.Hex())
	}
	if err := parsed.UnpackIntoInterface(out, method, raw); err != nil {
		return fmt.Errorf("decoding %s: %w", method, err)
	}
	return nil
}

// ApproveCalldata builds the calldata for approve(spender, amount).
func ApproveCalldata(spender common.Address, amount *big.Int) ([]byte, error) {
	return parsed.Pack("approve", spender, amount)
}

// Selector returns the 4-byte selector of one of the bound methods.
func Selector(method string) []byte {
	m, ok := parsed.Methods[method]
	if !ok {
		return nil
	}
	return m.ID
}
