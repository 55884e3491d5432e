package types

import (
	"context"

	sdkmath "cosmossdk.io/math"
)

// AMMHooks receives notifications after pair state changes. It is the seam
// used by staking and incentive modules to track liquidity.
type AMMHooks interface {
	// AfterSwap is called after a successful swap against pair.
	AfterSwap(ctx context.Context, pair string, sender string, assetIn, assetOut Asset, amountIn, amountOut sdkmath.Int) error

	// AfterLiquidityChanged is called when shares are minted or burned.
	// shareDelta is positive for deposits and negative for withdrawals.
	AfterLiquidityChanged(ctx context.Context, pair string, provider string, shareDelta sdkmath.Int, reserves [2]sdkmath.Int) error
}

// MultiAMMHooks combines multiple hooks into a single hook that calls all of them.
type MultiAMMHooks []AMMHooks

// NewMultiAMMHooks creates a new MultiAMMHooks from a list of hooks.
func NewMultiAMMHooks(hooks ...AMMHooks) MultiAMMHooks {
	return hooks
}

// AfterSwap calls AfterSwap on all registered hooks.
func (h MultiAMMHooks) AfterSwap(ctx context.Context, pair string, sender string, assetIn, assetOut Asset, amountIn, amountOut sdkmath.Int) error {
	for _, hook := range h {
		if hook == nil {
			continue
		}
		if err := hook.AfterSwap(ctx, pair, sender, assetIn, assetOut, amountIn, amountOut); err != nil {
			return err
		}
	}
	return nil
}

// AfterLiquidityChanged calls AfterLiquidityChanged on all registered hooks.
func (h MultiAMMHooks) AfterLiquidityChanged(ctx context.Context, pair string, provider string, shareDelta sdkmath.Int, reserves [2]sdkmath.Int) error {
	for _, hook := range h {
		if hook == nil {
			continue
		}
		if err := hook.AfterLiquidityChanged(ctx, pair, provider, shareDelta, reserves); err != nil {
			return err
		}
	}
	return nil
}
