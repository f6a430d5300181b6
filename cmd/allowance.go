package cmd

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/Mohsinsiddi/coinx/internal/chain"
	"github.com/Mohsinsiddi/coinx/internal/erc20"
	"github.com/Mohsinsiddi/coinx/internal/swap"
	"github.com/Mohsinsiddi/coinx/internal/tokens"
	"github.com/Mohsinsiddi/coinx/internal/ui"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

var (
	allowanceToken   string
	allowanceOwner   string
	allowanceSpender string
	allowanceNetwork string

	approveToken   string
	approveSpender string
	approveAmount  string
	approveWallet  string
	approveNetwork string
)

var allowanceCmd = &cobra.Command{
	Use:   "allowance",
	Short: "Check ERC-20 token allowance (owner → spender)",
	Long: `Query how many tokens an owner has approved a spender to use.

--token takes a listed symbol or any ERC-20 address. --owner and --spender
take an address, an ENS name or a wallet name.

Examples:
  coinx allowance --token usdc --spender 0x000000000022D473030F116dDEE9F6B43aC78BA3
  coinx allowance --token 0xA0b8...eB48 --owner vitalik.eth --spender 0xRouter`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if allowanceToken == "" {
			return fmt.Errorf("--token is required")
		}
		if allowanceSpender == "" {
			return fmt.Errorf("--spender is required")
		}
		ctx := cmd.Context()

		c, err := resolveChain(allowanceNetwork)
		if err != nil {
			return err
		}
		client, err := newEVMClient(ctx, c)
		if err != nil {
			return err
		}

		owner, err := allowanceOwnerAddr(ctx)
		if err != nil {
			return err
		}
		spender, err := resolveAddress(ctx, allowanceSpender)
		if err != nil {
			return err
		}

		spin := ui.NewSpinner("Querying allowance...")
		spin.Start()
		tok, err := resolveToken(ctx, client, c.ChainID, allowanceToken)
		if err != nil {
			spin.Stop()
			return err
		}
		allowance, err := erc20.New(tok.Address, client).Allowance(ctx, owner, spender)
		spin.Stop()
		if err != nil {
			return fmt.Errorf("querying allowance: %w", err)
		}

		fmt.Println(ui.KeyValueBlock("ERC-20 Allowance", [][2]string{
			{"Token", tokenLabel(tok)},
			{"Owner", ui.Addr(owner.Hex())},
			{"Spender", ui.Addr(spender.Hex())},
			{"Allowance", ui.Val(formatAllowance(allowance, tok.Decimals))},
			{"Raw", allowance.String()},
			{"Network", ui.ChainName(c.DisplayName)},
		}))
		return nil
	},
}

var approveCmd = &cobra.Command{
	Use:   "approve",
	Short: "Approve ERC-20 token spending for a spender",
	Long: `Approve a spender to use your ERC-20 tokens. --amount takes a decimal
amount in token units or "max" for an unlimited allowance.

Examples:
  coinx approve --token usdc --spender 0x000000000022D473030F116dDEE9F6B43aC78BA3 --amount max
  coinx approve --token usdc --spender 0xRouter --amount 0      # revoke`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if approveToken == "" {
			return fmt.Errorf("--token is required")
		}
		if approveSpender == "" {
			return fmt.Errorf("--spender is required")
		}
		if approveAmount == "" {
			return fmt.Errorf("--amount is required")
		}
		ctx := cmd.Context()

		signer, err := loadSigningWallet(approveWallet)
		if err != nil {
			return err
		}
		c, err := resolveChain(approveNetwork)
		if err != nil {
			return err
		}
		client, err := newEVMClient(ctx, c)
		if err != nil {
			return err
		}
		spender, err := resolveAddress(ctx, approveSpender)
		if err != nil {
			return err
		}
		tok, err := resolveToken(ctx, client, c.ChainID, approveToken)
		if err != nil {
			return err
		}
		if tok.IsNative() {
			return fmt.Errorf("%s is the native coin and needs no approval", tok.Symbol)
		}
		amount, err := parseAllowance(approveAmount, tok.Decimals)
		if err != nil {
			return err
		}

		fmt.Println(ui.KeyValueBlock("Approve", [][2]string{
			{"Token", tokenLabel(tok)},
			{"Spender", ui.Addr(spender.Hex())},
			{"Amount", ui.Val(formatAllowance(amount, tok.Decimals))},
			{"From", ui.Addr(signer.Address().Hex())},
			{"Network", ui.ChainName(c.DisplayName)},
		}))
		if !ui.Confirm("Send approval?") {
			fmt.Println(ui.Meta("Cancelled."))
			return nil
		}

		svc := swap.NewService(nil, client, c.ChainID, swap.WithLogger(logger))
		spin := ui.NewSpinner("Sending approval and waiting for it to be mined...")
		spin.Start()
		receipt, err := svc.ApproveToken(ctx, tok.Address, spender, amount, signer)
		spin.Stop()
		if err != nil {
			return err
		}
		fmt.Println(ui.Success("Approved: " + c.TxURL(receipt.Hash.Hex())))
		return nil
	},
}

// allowanceOwnerAddr resolves --owner, defaulting to the selected wallet.
func allowanceOwnerAddr(ctx context.Context) (common.Address, error) {
	if allowanceOwner != "" {
		return resolveAddress(ctx, allowanceOwner)
	}
	owner, err := takerAddress("")
	if err != nil {
		return common.Address{}, err
	}
	if owner == (common.Address{}) {
		return common.Address{}, fmt.Errorf("--owner is required or set a default wallet")
	}
	return owner, nil
}

// resolveToken accepts a listed symbol or any ERC-20 address. Unlisted
// addresses get their decimals from the contract.
func resolveToken(ctx context.Context, client *chain.EVMClient, chainID int64, s string) (tokens.Token, error) {
	tok, err := tokens.Resolve(chainID, s)
	if err == nil || !errors.Is(err, tokens.ErrUnknownToken) || !common.IsHexAddress(s) {
		return tok, err
	}
	addr := common.HexToAddress(s)
	dec, err := erc20.New(addr, client).Decimals(ctx)
	if err != nil {
		return tokens.Token{}, fmt.Errorf("reading decimals of %s: %w", addr.Hex(), err)
	}
	return tokens.Token{ChainID: chainID, Address: addr, Decimals: int(dec)}, nil
}

func tokenLabel(t tokens.Token) string {
	if t.Symbol == "" {
		return ui.Addr(t.Address.Hex())
	}
	return ui.Val(t.Symbol) + " " + ui.Meta(ui.TruncateAddr(t.Address.Hex()))
}

// parseAllowance reads "max"/"unlimited" or a decimal token amount.
func parseAllowance(s string, decimals int) (*big.Int, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "max", "unlimited":
		return new(big.Int).Set(erc20.MaxAllowance), nil
	}
	return swap.ParseUnits(s, decimals)
}

// formatAllowance renders MaxAllowance as "unlimited".
func formatAllowance(v *big.Int, decimals int) string {
	if v.Cmp(erc20.MaxAllowance) == 0 {
		return "unlimited"
	}
	return swap.FormatUnits(v, decimals)
}

func init() {
	allowanceCmd.Flags().StringVar(&allowanceToken, "token", "", "token symbol or ERC-20 address (required)")
	allowanceCmd.Flags().StringVar(&allowanceOwner, "owner", "", "owner address, ENS name or wallet (default: default wallet)")
	allowanceCmd.Flags().StringVar(&allowanceSpender, "spender", "", "spender address or ENS name (required)")
	allowanceCmd.Flags().StringVar(&allowanceNetwork, "network", "", "chain to query")

	approveCmd.Flags().StringVar(&approveToken, "token", "", "token symbol or ERC-20 address (required)")
	approveCmd.Flags().StringVar(&approveSpender, "spender", "", "spender address or ENS name (required)")
	approveCmd.Flags().StringVar(&approveAmount, "amount", "", `amount in token units, or "max" (required)`)
	approveCmd.Flags().StringVar(&approveWallet, "wallet", "", "signing wallet (default: default wallet)")
	approveCmd.Flags().StringVar(&approveNetwork, "network", "", "chain to send on")
}
