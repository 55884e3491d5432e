package cli

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
	"github.com/spf13/cobra"

	"github.com/ammx-chain/ammx/x/amm/curve"
	"github.com/ammx-chain/ammx/x/amm/types"
)

// GetCmdQuoteSwap prices an exact-input swap against explicit reserves.
func GetCmdQuoteSwap() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "swap [curve] [reserve-in] [reserve-out] [amount-in]",
		Short: "Price an exact input swap",
		Example: `$ ammcli amm quote swap xyk 1000 1000 100 --fee 1/100
$ ammcli amm quote swap stable 1000000 1000000 5000 --fee 4 --amp 100`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, fee, err := strategyFromFlags(cmd, args[0])
			if err != nil {
				return err
			}
			amounts, err := parseAmounts(args[1:4], "reserve-in", "reserve-out", "amount-in")
			if err != nil {
				return err
			}
			quote, err := s.PriceSwap(amounts[0], amounts[1], amounts[2], fee)
			if err != nil {
				return err
			}
			return printJSON(cmd, quote)
		},
	}

	addCurveFlags(cmd)
	addOutputFlag(cmd)
	return cmd
}

// GetCmdQuoteReverse finds the input needed for an exact output.
func GetCmdQuoteReverse() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "reverse [curve] [reserve-in] [reserve-out] [amount-out]",
		Short:   "Price the input required for an exact output",
		Example: `$ ammcli amm quote reverse xyk 1000 1000 90 --fee 1/100`,
		Args:    cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, fee, err := strategyFromFlags(cmd, args[0])
			if err != nil {
				return err
			}
			amounts, err := parseAmounts(args[1:4], "reserve-in", "reserve-out", "amount-out")
			if err != nil {
				return err
			}
			quote, err := s.PriceSwapReverse(amounts[0], amounts[1], amounts[2], fee)
			if err != nil {
				return err
			}
			return printJSON(cmd, quote)
		},
	}

	addCurveFlags(cmd)
	addOutputFlag(cmd)
	return cmd
}

type depositQuote struct {
	Shares sdkmath.Int `json:"shares"`
	Locked sdkmath.Int `json:"locked"`
}

// GetCmdQuoteDeposit prices the shares minted by a two sided deposit.
func GetCmdQuoteDeposit() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deposit [curve] [reserve-a] [reserve-b] [total-shares] [amount-a] [amount-b]",
		Short: "Price the shares minted by a deposit",
		Long: `Price the shares minted by a deposit. A total share supply of zero
prices the first deposit, which withholds --min-liquidity shares.`,
		Example: `$ ammcli amm quote deposit xyk 0 0 0 1000 1000 --min-liquidity 100`,
		Args:    cobra.ExactArgs(6),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := strategyFromFlags(cmd, args[0])
			if err != nil {
				return err
			}
			amounts, err := parseAmounts(args[1:6], "reserve-a", "reserve-b", "total-shares", "amount-a", "amount-b")
			if err != nil {
				return err
			}
			minLiquidity, err := intFlag(cmd, FlagMinLiquidity)
			if err != nil {
				return err
			}
			mint, err := curve.ComputeLPMint(s,
				[2]sdkmath.Int{amounts[0], amounts[1]},
				amounts[2],
				[2]sdkmath.Int{amounts[3], amounts[4]},
				minLiquidity,
			)
			if err != nil {
				return err
			}
			return printJSON(cmd, depositQuote{Shares: mint.Shares, Locked: mint.Locked})
		},
	}

	addCurveFlags(cmd)
	cmd.Flags().String(FlagMinLiquidity, types.DefaultParams().MinimumLiquidity.String(), "Shares withheld by the first deposit")
	addOutputFlag(cmd)
	return cmd
}

type withdrawQuote struct {
	Amounts [2]sdkmath.Int `json:"amounts"`
}

// GetCmdQuoteWithdraw prices the reserves returned for burned shares.
func GetCmdQuoteWithdraw() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "withdraw [reserve-a] [reserve-b] [total-shares] [shares]",
		Short:   "Price the reserves returned for burned shares",
		Example: `$ ammcli amm quote withdraw 1000 1000 1000 100`,
		Args:    cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			amounts, err := parseAmounts(args, "reserve-a", "reserve-b", "total-shares", "shares")
			if err != nil {
				return err
			}
			out, err := curve.ComputeWithdrawAmounts([2]sdkmath.Int{amounts[0], amounts[1]}, amounts[2], amounts[3])
			if err != nil {
				return err
			}
			return printJSON(cmd, withdrawQuote{Amounts: out})
		},
	}

	addOutputFlag(cmd)
	return cmd
}

func addCurveFlags(cmd *cobra.Command) {
	cmd.Flags().String(FlagFee, "0", "Fee as num/den or basis points")
	cmd.Flags().Uint64(FlagAmp, 0, "Amplification of stable curves")
	cmd.Flags().UintSlice(FlagPrecisions, nil, "Decimals of the first and second reserve of stable curves, e.g. 6,18")
}

func strategyFromFlags(cmd *cobra.Command, kind string) (curve.Strategy, types.FeeRate, error) {
	amp, err := cmd.Flags().GetUint64(FlagAmp)
	if err != nil {
		return nil, types.FeeRate{}, err
	}
	s, err := curve.ForKind(types.CurveKind(kind), amp)
	if err != nil {
		return nil, types.FeeRate{}, err
	}
	if s, err = withPrecisions(cmd, s); err != nil {
		return nil, types.FeeRate{}, err
	}

	feeStr, err := cmd.Flags().GetString(FlagFee)
	if err != nil {
		return nil, types.FeeRate{}, err
	}
	fee, err := types.ParseFeeRate(feeStr)
	if err != nil {
		return nil, types.FeeRate{}, err
	}
	if err := fee.Validate(); err != nil {
		return nil, types.FeeRate{}, err
	}
	return s, fee, nil
}

func withPrecisions(cmd *cobra.Command, s curve.Strategy) (curve.Strategy, error) {
	if !cmd.Flags().Changed(FlagPrecisions) {
		return s, nil
	}
	precisions, err := cmd.Flags().GetUintSlice(FlagPrecisions)
	if err != nil {
		return nil, err
	}
	stable, ok := s.(curve.Stable)
	if !ok {
		return nil, fmt.Errorf("--%s only applies to stable curves", FlagPrecisions)
	}
	if len(precisions) != 2 {
		return nil, fmt.Errorf("--%s needs two values, got %d", FlagPrecisions, len(precisions))
	}
	for i, p := range precisions {
		if p > uint(types.MaxPrecision) {
			return nil, fmt.Errorf("precision %d exceeds %d", p, types.MaxPrecision)
		}
		stable.Precisions[i] = uint32(p)
	}
	return stable, nil
}

func parseAmounts(args []string, names ...string) ([]sdkmath.Int, error) {
	out := make([]sdkmath.Int, len(args))
	for i, arg := range args {
		v, ok := sdkmath.NewIntFromString(arg)
		if !ok || v.IsNegative() {
			return nil, fmt.Errorf("invalid %s: %q", names[i], arg)
		}
		out[i] = v
	}
	return out, nil
}

func intFlag(cmd *cobra.Command, name string) (sdkmath.Int, error) {
	s, err := cmd.Flags().GetString(name)
	if err != nil {
		return sdkmath.Int{}, err
	}
	v, ok := sdkmath.NewIntFromString(s)
	if !ok || v.IsNegative() {
		return sdkmath.Int{}, fmt.Errorf("invalid --%s: %q", name, s)
	}
	return v, nil
}
