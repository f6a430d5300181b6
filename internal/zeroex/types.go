package zeroex

import (
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
)

// Params are the query parameters shared by /price and /quote.
// Exactly one of SellAmount or BuyAmount is set, in base units.
type Params struct {
	ChainID               int64
	SellToken             common.Address
	BuyToken              common.Address
	SellAmount            string
	BuyAmount             string
	Taker                 common.Address
	SwapFeeRecipient      common.Address
	SwapFeeBps            int
	SwapFeeToken          common.Address
	TradeSurplusRecipient common.Address
	SlippageBps           int
}

// Values encodes p as a query string. Zero addresses and zero bps are omitted.
func (p Params) Values() url.Values {
	v := url.Values{}
	v.Set("chainId", strconv.FormatInt(p.ChainID, 10))
	v.Set("sellToken", p.SellToken.Hex())
	v.Set("buyToken", p.BuyToken.Hex())
	if p.SellAmount != "" {
		v.Set("sellAmount", p.SellAmount)
	}
	if p.BuyAmount != "" {
		v.Set("buyAmount", p.BuyAmount)
	}
	setAddr(v, "taker", p.Taker)
	if p.SwapFeeRecipient != (common.Address{}) && p.SwapFeeBps > 0 {
		v.Set("swapFeeRecipient", p.SwapFeeRecipient.Hex())
		v.Set("swapFeeBps", strconv.Itoa(p.SwapFeeBps))
		setAddr(v, "swapFeeToken", p.SwapFeeToken)
	}
	setAddr(v, "tradeSurplusRecipient", p.TradeSurplusRecipient)
	if p.SlippageBps > 0 {
		v.Set("slippageBps", strconv.Itoa(p.SlippageBps))
	}
	return v
}

func setAddr(v url.Values, key string, a common.Address) {
	if a != (common.Address{}) {
		v.Set(key, a.Hex())
	}
}

// Fee is one entry of the fees object. Amount is in base units of Token.
type Fee struct {
	Amount string         `json:"amount"`
	Token  common.Address `json:"token"`
	Type   string         `json:"type"`
}

type Fees struct {
	IntegratorFee *Fee `json:"integratorFee"`
	ZeroExFee     *Fee `json:"zeroExFee"`
	GasFee        *Fee `json:"gasFee"`
}

// AllowanceIssue is set when the taker has not approved Spender for the
// sell amount.
type AllowanceIssue struct {
	Actual  string         `json:"actual"`
	Spender common.Address `json:"spender"`
}

type BalanceIssue struct {
	Token    common.Address `json:"token"`
	Actual   string         `json:"actual"`
	Expected string         `json:"expected"`
}

type Issues struct {
	Allowance            *AllowanceIssue `json:"allowance"`
	Balance              *BalanceIssue   `json:"balance"`
	SimulationIncomplete bool            `json:"simulationIncomplete"`
	InvalidSourcesPassed []string        `json:"invalidSourcesPassed"`
}

// TokenTax holds on-transfer tax rates in basis points, as decimal strings.
type TokenTax struct {
	BuyTaxBps  string `json:"buyTaxBps"`
	SellTaxBps string `json:"sellTaxBps"`
}

type TokenMetadata struct {
	BuyToken  TokenTax `json:"buyToken"`
	SellToken TokenTax `json:"sellToken"`
}

// Price is the indicative price response.
type Price struct {
	BlockNumber        string         `json:"blockNumber"`
	BuyAmount          string         `json:"buyAmount"`
	BuyToken           common.Address `json:"buyToken"`
	SellAmount         string         `json:"sellAmount"`
	SellToken          common.Address `json:"sellToken"`
	MinBuyAmount       string         `json:"minBuyAmount"`
	LiquidityAvailable bool           `json:"liquidityAvailable"`
	Fees               Fees           `json:"fees"`
	Issues             Issues         `json:"issues"`
	TokenMetadata      TokenMetadata  `json:"tokenMetadata"`
	TotalNetworkFee    string         `json:"totalNetworkFee"`
	Gas                string         `json:"gas"`
	GasPrice           string         `json:"gasPrice"`
	ZID                string         `json:"zid"`

	// Raw is the upstream body, unmodified.
	Raw json.RawMessage `json:"-"`
	// ValidationErrors is set instead of the fields above when the API
	// rejected the request parameters.
	ValidationErrors []ValidationError `json:"-"`
}

// Transaction is the ready-to-sign settlement transaction in a quote.
type Transaction struct {
	To       common.Address `json:"to"`
	Data     string         `json:"data"`
	Gas      string         `json:"gas"`
	GasPrice string         `json:"gasPrice"`
	Value    string         `json:"value"`
}

// Permit2 carries the EIP-712 message the taker signs so Permit2 can pull
// the sell token. EIP712 is kept raw and decoded by the signer.
type Permit2 struct {
	Type   string          `json:"type"`
	Hash   common.Hash     `json:"hash"`
	EIP712 json.RawMessage `json:"eip712"`
}

// Quote is the firm quote response.
type Quote struct {
	Price
	Transaction Transaction `json:"transaction"`
	Permit2     *Permit2    `json:"permit2"`
}

// ValidationError is one rejected request field.
type ValidationError struct {
	Field  string `json:"field"`
	Code   int    `json:"code,omitempty"`
	Reason string `json:"reason"`
}

func (v ValidationError) String() string {
	if v.Field == "" {
		return v.Reason
	}
	return v.Field + ": " + v.Reason
}
