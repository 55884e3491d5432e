package keeper

import (
	"context"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/ammx-chain/ammx/x/amm/types"
)

// Hooks run in their own cache context. A failing hook is logged and its
// writes are dropped; the pair operation that triggered it still succeeds.

func (k Keeper) afterSwap(ctx context.Context, pair, sender string, assetIn, assetOut types.Asset, amountIn, amountOut sdkmath.Int) {
	if k.hooks == nil {
		return
	}
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	cacheCtx, write := sdkCtx.CacheContext()
	if err := k.hooks.AfterSwap(cacheCtx, pair, sender, assetIn, assetOut, amountIn, amountOut); err != nil {
		k.Logger(ctx).Error("after swap hook failed", "pair", pair, "error", err)
		return
	}
	write()
}

func (k Keeper) afterLiquidityChanged(ctx context.Context, pair, provider string, shareDelta sdkmath.Int, reserves [2]sdkmath.Int) {
	if k.hooks == nil {
		return
	}
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	cacheCtx, write := sdkCtx.CacheContext()
	if err := k.hooks.AfterLiquidityChanged(cacheCtx, pair, provider, shareDelta, reserves); err != nil {
		k.Logger(ctx).Error("after liquidity changed hook failed", "pair", pair, "error", err)
		return
	}
	write()
}
