package swap

import (
	"math/big"

	"github.com/Mohsinsiddi/coinx/internal/zeroex"
)

// Action is the next step offered to the user for a priced trade.
type Action int

const (
	NoPrice Action = iota
	Review
	Approve
	InsufficientBalance
	Error
)

func (a Action) String() string {
	switch a {
	case Review:
		return "Review Trade"
	case Approve:
		return "Approve"
	case InsufficientBalance:
		return "Insufficient Balance"
	case Error:
		return "Error"
	default:
		return "No Price"
	}
}

// Decide picks the next action for a price.
//
// allowance is the on-chain allowance for the spender the API named, read
// only when the price reports an allowance issue; readErr is the error of
// that read. An unread (nil) allowance is treated as zero.
func Decide(price *zeroex.Price, allowance *big.Int, balanceOK bool, readErr error) Action {
	if price == nil || len(price.ValidationErrors) > 0 {
		return NoPrice
	}
	if price.Issues.Allowance == nil {
		return reviewOr(balanceOK)
	}
	if readErr != nil {
		return Error
	}
	if allowance == nil || allowance.Sign() == 0 {
		return Approve
	}
	return reviewOr(balanceOK)
}

func reviewOr(balanceOK bool) Action {
	if balanceOK {
		return Review
	}
	return InsufficientBalance
}

// BalanceOK reports whether balance covers need. An unknown balance or
// amount never does.
func BalanceOK(need, balance *big.Int) bool {
	if need == nil || balance == nil {
		return false
	}
	return need.Cmp(balance) <= 0
}
