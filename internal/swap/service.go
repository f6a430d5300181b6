// Package swap turns user input into 0x price requests and carries a priced
// trade through approval and settlement.
package swap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"github.com/Mohsinsiddi/coinx/internal/chain"
	"github.com/Mohsinsiddi/coinx/internal/config"
	"github.com/Mohsinsiddi/coinx/internal/erc20"
	"github.com/Mohsinsiddi/coinx/internal/history"
	"github.com/Mohsinsiddi/coinx/internal/tokens"
	"github.com/Mohsinsiddi/coinx/internal/zeroex"
)

var (
	ErrSameToken        = errors.New("sell and buy token are the same")
	ErrApprovalReverted = errors.New("approval transaction reverted")
	ErrNothingToApprove = errors.New("price has no allowance issue to approve")
	ErrSwapReverted     = errors.New("swap transaction reverted")
	ErrNoTaker          = errors.New("a firm quote needs a taker wallet")
)

// API is the subset of the 0x client the flow needs.
type API interface {
	Price(ctx context.Context, p zeroex.Params) (*zeroex.Price, error)
	Quote(ctx context.Context, p zeroex.Params) (*zeroex.Quote, error)
}

// Chain reads and writes the chain the trade settles on.
type Chain interface {
	erc20.Caller
	BalanceAt(ctx context.Context, addr common.Address) (*big.Int, error)
	GasPrice(ctx context.Context) (*big.Int, error)
	GasTipCap(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, addr common.Address) (uint64, error)
	EstimateGas(ctx context.Context, msg chain.CallMsg) (uint64, error)
	SendRawTransaction(ctx context.Context, raw []byte) (common.Hash, error)
	WaitForReceipt(ctx context.Context, hash common.Hash, timeout time.Duration) (*chain.TxReceipt, error)
}

// Signer signs on behalf of the taker.
type Signer interface {
	Address() common.Address
	SignTx(tx *types.Transaction, chainID *big.Int) ([]byte, error)
	SignTypedData(data apitypes.TypedData) ([]byte, error)
}

// Recorder stores executed swaps.
type Recorder interface {
	Append(r history.Record) (history.Record, error)
}

// Request is what the user typed.
type Request struct {
	Sell      string // symbol or address
	Buy       string
	Amount    string // decimal, in units of the fixed side
	Direction Direction
	Taker     common.Address
}

// PriceView is a priced trade ready to be shown and acted on.
type PriceView struct {
	ChainID   int64
	Sell      tokens.Token
	Buy       tokens.Token
	Direction Direction
	Taker     common.Address
	Params    zeroex.Params
	Price     *zeroex.Price

	SellAmount   string // formatted
	BuyAmount    string
	AffiliateFee string // in Buy units; empty when the API charged none
	BuyTax       string // percent with two decimals; empty when zero
	SellTax      string

	SellRaw   *big.Int
	Balance   *big.Int // nil when it could not be read
	Spender   common.Address
	Allowance *big.Int
	ReadErr   error

	Action Action
}

// Result describes a broadcast swap.
type Result struct {
	Hash    common.Hash
	Receipt *chain.TxReceipt
	Quote   *zeroex.Quote
	Record  history.Record
}

// Service runs the price → approve → finalize flow on one chain.
type Service struct {
	api      API
	chain    Chain
	chainID  int64
	network  string
	fees     Fees
	recorder Recorder
	timeout  time.Duration
	log      *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

func WithFees(f Fees) Option             { return func(s *Service) { s.fees = f } }
func WithRecorder(r Recorder) Option     { return func(s *Service) { s.recorder = r } }
func WithNetwork(name string) Option     { return func(s *Service) { s.network = name } }
func WithTimeout(d time.Duration) Option { return func(s *Service) { s.timeout = d } }

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// NewService creates a Service for chainID.
func NewService(api API, ch Chain, chainID int64, opts ...Option) *Service {
	s := &Service{
		api:     api,
		chain:   ch,
		chainID: chainID,
		timeout: config.TxConfirmTimeout,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Price resolves the pair, asks the API for a price and decides what the
// user can do next. Validation errors from the API come back on
// view.Price.ValidationErrors with Action NoPrice.
func (s *Service) Price(ctx context.Context, req Request) (*PriceView, error) {
	sell, err := tokens.Resolve(s.chainID, req.Sell)
	if err != nil {
		return nil, fmt.Errorf("sell token: %w", err)
	}
	buy, err := tokens.Resolve(s.chainID, req.Buy)
	if err != nil {
		return nil, fmt.Errorf("buy token: %w", err)
	}
	if sell.Address == buy.Address {
		return nil, ErrSameToken
	}

	dir := req.Direction
	if dir == "" {
		dir = Sell
	}
	fixed := sell
	if dir == Buy {
		fixed = buy
	}
	amount, err := ParseUnits(req.Amount, fixed.Decimals)
	if err != nil {
		return nil, err
	}

	v := &PriceView{
		ChainID:   s.chainID,
		Sell:      sell,
		Buy:       buy,
		Direction: dir,
		Taker:     req.Taker,
		Params:    NewParams(s.chainID, sell, buy, dir, amount, req.Taker, s.fees),
	}

	price, err := s.api.Price(ctx, v.Params)
	if err != nil {
		return nil, err
	}
	v.Price = price
	if len(price.ValidationErrors) > 0 {
		v.Action = NoPrice
		return v, nil
	}

	v.BuyAmount = FormatBaseUnits(price.BuyAmount, buy.Decimals)
	v.SellAmount = FormatBaseUnits(price.SellAmount, sell.Decimals)
	if f := price.Fees.IntegratorFee; f != nil && f.Amount != "" {
		v.AffiliateFee = FormatBaseUnits(f.Amount, buy.Decimals)
	}
	if bps := price.TokenMetadata.BuyToken.BuyTaxBps; HasTax(bps) {
		v.BuyTax = FormatTax(bps)
	}
	if bps := price.TokenMetadata.SellToken.SellTaxBps; HasTax(bps) {
		v.SellTax = FormatTax(bps)
	}

	if dir == Sell {
		v.SellRaw = amount
	} else if n, ok := new(big.Int).SetString(price.SellAmount, 10); ok {
		v.SellRaw = n
	}

	s.readBalance(ctx, v)
	s.readAllowance(ctx, v)
	v.Action = Decide(price, v.Allowance, BalanceOK(v.SellRaw, v.Balance), v.ReadErr)

	s.log.Debug("priced trade",
		slog.String("sell", sell.Symbol),
		slog.String("buy", buy.Symbol),
		slog.String("buy_amount", v.BuyAmount),
		slog.String("action", v.Action.String()),
	)
	return v, nil
}

func (s *Service) readBalance(ctx context.Context, v *PriceView) {
	if v.Taker == (common.Address{}) {
		return
	}
	var (
		bal *big.Int
		err error
	)
	if v.Sell.IsNative() {
		bal, err = s.chain.BalanceAt(ctx, v.Taker)
	} else {
		bal, err = erc20.New(v.Sell.Address, s.chain).BalanceOf(ctx, v.Taker)
	}
	if err != nil {
		s.log.Warn("balance read failed", slog.String("token", v.Sell.Symbol), slog.Any("err", err))
		return
	}
	v.Balance = bal
}

func (s *Service) readAllowance(ctx context.Context, v *PriceView) {
	issue := v.Price.Issues.Allowance
	if issue == nil {
		return
	}
	v.Spender = issue.Spender
	if v.Taker == (common.Address{}) {
		return
	}
	v.Allowance, v.ReadErr = erc20.New(v.Sell.Address, s.chain).Allowance(ctx, v.Taker, v.Spender)
	if v.ReadErr != nil {
		s.log.Warn("allowance read failed", slog.Any("err", v.ReadErr))
	}
}

// Approve grants the API's spender an unlimited allowance on the sell
// token, waits for it to be mined and re-decides the view.
func (s *Service) Approve(ctx context.Context, v *PriceView, signer Signer) (*chain.TxReceipt, error) {
	if v.Price == nil || v.Price.Issues.Allowance == nil {
		return nil, ErrNothingToApprove
	}
	receipt, err := s.ApproveToken(ctx, v.Sell.Address, v.Spender, erc20.MaxAllowance, signer)
	if err != nil {
		return receipt, err
	}

	v.Allowance, v.ReadErr = erc20.New(v.Sell.Address, s.chain).Allowance(ctx, signer.Address(), v.Spender)
	v.Action = Decide(v.Price, v.Allowance, BalanceOK(v.SellRaw, v.Balance), v.ReadErr)
	return receipt, nil
}

// ApproveToken sends approve(spender, amount) on token and waits for it
// to be mined.
func (s *Service) ApproveToken(ctx context.Context, token, spender common.Address, amount *big.Int, signer Signer) (*chain.TxReceipt, error) {
	data, err := erc20.ApproveCalldata(spender, amount)
	if err != nil {
		return nil, err
	}

	hash, err := s.send(ctx, signer, token, data, big.NewInt(0), 0, config.GasLimitApprove)
	if err != nil {
		return nil, fmt.Errorf("sending approval: %w", err)
	}
	s.log.Info("approval sent", slog.String("hash", hash.Hex()), slog.String("spender", spender.Hex()))

	receipt, err := s.chain.WaitForReceipt(ctx, hash, s.timeout)
	if errors.Is(err, chain.ErrTxReverted) {
		return receipt, fmt.Errorf("%w: %s", ErrApprovalReverted, hash.Hex())
	}
	if err != nil {
		return nil, fmt.Errorf("approval %s: %w", hash.Hex(), err)
	}
	return receipt, nil
}

// Quote fetches a firm quote for the view's params on behalf of taker.
// Nothing is signed. Validation errors come back on q.ValidationErrors.
func (s *Service) Quote(ctx context.Context, v *PriceView, taker common.Address) (*zeroex.Quote, error) {
	if taker == (common.Address{}) {
		return nil, ErrNoTaker
	}
	params := v.Params
	params.Taker = taker
	return s.api.Quote(ctx, params)
}

// Finalize fetches a firm quote for the view's params, signs the Permit2
// message if the quote carries one, and broadcasts the settlement tx.
func (s *Service) Finalize(ctx context.Context, v *PriceView, signer Signer) (*Result, error) {
	q, err := s.Quote(ctx, v, signer.Address())
	if err != nil {
		return nil, err
	}
	if len(q.ValidationErrors) > 0 {
		return nil, fmt.Errorf("quote rejected: %s", q.ValidationErrors[0])
	}

	data, err := hexutil.Decode(q.Transaction.Data)
	if err != nil {
		return nil, fmt.Errorf("quote transaction data: %w", err)
	}
	if q.Permit2 != nil && len(q.Permit2.EIP712) > 0 {
		var typed apitypes.TypedData
		if err := json.Unmarshal(q.Permit2.EIP712, &typed); err != nil {
			return nil, fmt.Errorf("decoding permit2 message: %w", err)
		}
		sig, err := signer.SignTypedData(typed)
		if err != nil {
			return nil, fmt.Errorf("signing permit2 message: %w", err)
		}
		data = AppendSignature(data, sig)
	}

	value := big.NewInt(0)
	if q.Transaction.Value != "" {
		if _, ok := value.SetString(q.Transaction.Value, 10); !ok {
			return nil, fmt.Errorf("quote transaction value %q", q.Transaction.Value)
		}
	}
	var gas uint64
	if g, ok := new(big.Int).SetString(q.Transaction.Gas, 10); ok && g.IsUint64() {
		gas = g.Uint64()
	}

	hash, err := s.send(ctx, signer, q.Transaction.To, data, value, gas, config.GasLimitSwap)
	if err != nil {
		return nil, fmt.Errorf("sending swap: %w", err)
	}
	s.log.Info("swap sent", slog.String("hash", hash.Hex()))

	res := &Result{Hash: hash, Quote: q}
	receipt, waitErr := s.chain.WaitForReceipt(ctx, hash, s.timeout)
	res.Receipt = receipt

	status := history.StatusSuccess
	switch {
	case errors.Is(waitErr, chain.ErrTxReverted):
		status = history.StatusReverted
	case waitErr != nil:
		status = history.StatusPending
	}
	if s.recorder != nil {
		rec, err := s.recorder.Append(history.Record{
			ChainID:    s.chainID,
			Network:    s.network,
			Taker:      signer.Address().Hex(),
			SellSymbol: v.Sell.Symbol,
			SellAmount: FormatBaseUnits(q.SellAmount, v.Sell.Decimals),
			BuySymbol:  v.Buy.Symbol,
			BuyAmount:  FormatBaseUnits(q.BuyAmount, v.Buy.Decimals),
			TxHash:     hash.Hex(),
			Status:     status,
		})
		if err != nil {
			s.log.Warn("history write failed", slog.Any("err", err))
		}
		res.Record = rec
	}

	if errors.Is(waitErr, chain.ErrTxReverted) {
		return res, fmt.Errorf("%w: %s", ErrSwapReverted, hash.Hex())
	}
	if waitErr != nil {
		return res, fmt.Errorf("swap %s: %w", hash.Hex(), waitErr)
	}
	return res, nil
}

// AppendSignature appends a Permit2 signature to settlement calldata as
// uint256(len(sig)) followed by sig.
func AppendSignature(data, sig []byte) []byte {
	out := make([]byte, 0, len(data)+32+len(sig))
	out = append(out, data...)
	out = append(out, common.LeftPadBytes(big.NewInt(int64(len(sig))).Bytes(), 32)...)
	return append(out, sig...)
}

// send signs and broadcasts an EIP-1559 tx. gas 0 means estimate, falling
// back to fallbackGas when the node cannot.
func (s *Service) send(ctx context.Context, signer Signer, to common.Address, data []byte, value *big.Int, gas, fallbackGas uint64) (common.Hash, error) {
	from := signer.Address()

	nonce, err := s.chain.PendingNonceAt(ctx, from)
	if err != nil {
		return common.Hash{}, err
	}
	gasPrice, err := s.chain.GasPrice(ctx)
	if err != nil {
		return common.Hash{}, err
	}
	tip, err := s.chain.GasTipCap(ctx)
	if err != nil {
		tip = gasPrice
	}
	feeCap := new(big.Int).Mul(gasPrice, big.NewInt(2))
	if feeCap.Cmp(tip) < 0 {
		feeCap = new(big.Int).Set(tip)
	}

	if gas == 0 {
		gas, err = s.chain.EstimateGas(ctx, chain.CallMsg{From: from, To: to, Data: data, Value: value})
		if err != nil {
			s.log.Debug("gas estimate failed, using fallback", slog.Any("err", err))
			gas = fallbackGas
		}
	}

	chainID := big.NewInt(s.chainID)
	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     nonce,
		GasTipCap: tip,
		GasFeeCap: feeCap,
		Gas:       gas,
		To:        &to,
		Value:     value,
		Data:      data,
	})
	raw, err := signer.SignTx(tx, chainID)
	if err != nil {
		return common.Hash{}, err
	}
	return s.chain.SendRawTransaction(ctx, raw)
}
