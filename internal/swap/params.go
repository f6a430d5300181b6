package swap

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Mohsinsiddi/coinx/internal/tokens"
	"github.com/Mohsinsiddi/coinx/internal/zeroex"
)

// Direction says which side of the trade the user fixed.
type Direction string

const (
	Sell Direction = "sell"
	Buy  Direction = "buy"
)

// ParseDirection accepts "sell", "buy" or empty (sell).
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case "", Sell:
		return Sell, nil
	case Buy:
		return Buy, nil
	default:
		return "", fmt.Errorf("direction must be sell or buy, got %q", s)
	}
}

// Fees is the integrator's monetization setup.
type Fees struct {
	Recipient    common.Address
	AffiliateBps int
	SlippageBps  int
}

// NewParams builds API parameters for a trade of amount base units on the
// side given by dir. The affiliate fee is taken in the buy token.
func NewParams(chainID int64, sell, buy tokens.Token, dir Direction, amount *big.Int, taker common.Address, fees Fees) zeroex.Params {
	p := zeroex.Params{
		ChainID:               chainID,
		SellToken:             sell.Address,
		BuyToken:              buy.Address,
		Taker:                 taker,
		SwapFeeRecipient:      fees.Recipient,
		SwapFeeBps:            fees.AffiliateBps,
		SwapFeeToken:          buy.Address,
		TradeSurplusRecipient: fees.Recipient,
		SlippageBps:           fees.SlippageBps,
	}
	if dir == Buy {
		p.BuyAmount = amount.String()
	} else {
		p.SellAmount = amount.String()
	}
	return p
}
