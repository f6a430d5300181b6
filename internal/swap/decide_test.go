package swap

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"

	"github.com/Mohsinsiddi/coinx/internal/tokens"
	"github.com/Mohsinsiddi/coinx/internal/zeroex"
)

func priceWithIssue() *zeroex.Price {
	return &zeroex.Price{Issues: zeroex.Issues{Allowance: &zeroex.AllowanceIssue{Actual: "0"}}}
}

func TestDecideNoPrice(t *testing.T) {
	assert.Equal(t, NoPrice, Decide(nil, nil, true, nil))
	p := &zeroex.Price{ValidationErrors: []zeroex.ValidationError{{Field: "sellAmount"}}}
	assert.Equal(t, NoPrice, Decide(p, nil, true, nil))
}

func TestDecideNoAllowanceIssue(t *testing.T) {
	p := &zeroex.Price{}
	assert.Equal(t, Review, Decide(p, nil, true, nil))
	assert.Equal(t, InsufficientBalance, Decide(p, nil, false, nil))
	// a failed read is irrelevant when no allowance is needed
	assert.Equal(t, Review, Decide(p, nil, true, errors.New("boom")))
}

func TestDecideAllowanceReadError(t *testing.T) {
	assert.Equal(t, Error, Decide(priceWithIssue(), nil, true, errors.New("execution reverted")))
}

func TestDecideZeroAllowance(t *testing.T) {
	assert.Equal(t, Approve, Decide(priceWithIssue(), big.NewInt(0), true, nil))
	assert.Equal(t, Approve, Decide(priceWithIssue(), big.NewInt(0), false, nil))
	assert.Equal(t, Approve, Decide(priceWithIssue(), nil, true, nil))
}

func TestDecideNonZeroAllowance(t *testing.T) {
	assert.Equal(t, Review, Decide(priceWithIssue(), big.NewInt(1), true, nil))
	assert.Equal(t, InsufficientBalance, Decide(priceWithIssue(), big.NewInt(1), false, nil))
}

func TestActionLabels(t *testing.T) {
	assert.Equal(t, "Review Trade", Review.String())
	assert.Equal(t, "Approve", Approve.String())
	assert.Equal(t, "Insufficient Balance", InsufficientBalance.String())
	assert.Equal(t, "No Price", NoPrice.String())
	assert.Equal(t, "Error", Error.String())
}

func TestBalanceOK(t *testing.T) {
	assert.True(t, BalanceOK(big.NewInt(5), big.NewInt(5)))
	assert.True(t, BalanceOK(big.NewInt(4), big.NewInt(5)))
	assert.False(t, BalanceOK(big.NewInt(6), big.NewInt(5)))
	assert.False(t, BalanceOK(big.NewInt(1), nil))
	assert.False(t, BalanceOK(nil, big.NewInt(1)))
}

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection("")
	assert.NoError(t, err)
	assert.Equal(t, Sell, d)
	d, err = ParseDirection("BUY")
	assert.NoError(t, err)
	assert.Equal(t, Buy, d)
	_, err = ParseDirection("swap")
	assert.Error(t, err)
}

func TestNewParams(t *testing.T) {
	weth, _ := tokens.BySymbol(1, "weth")
	usdc, _ := tokens.BySymbol(1, "usdc")
	recipient := common.HexToAddress("0x2222222222222222222222222222222222222222")
	taker := common.HexToAddress("0x1111111111111111111111111111111111111111")

	p := NewParams(1, weth, usdc, Sell, big.NewInt(100), taker, Fees{Recipient: recipient, AffiliateBps: 100})
	assert.Equal(t, "100", p.SellAmount)
	assert.Empty(t, p.BuyAmount)
	assert.Equal(t, usdc.Address, p.SwapFeeToken)
	assert.Equal(t, recipient, p.SwapFeeRecipient)
	assert.Equal(t, recipient, p.TradeSurplusRecipient)
	assert.Equal(t, 100, p.SwapFeeBps)
	assert.Equal(t, taker, p.Taker)

	p = NewParams(1, weth, usdc, Buy, big.NewInt(7), taker, Fees{})
	assert.Equal(t, "7", p.BuyAmount)
	assert.Empty(t, p.SellAmount)
}
