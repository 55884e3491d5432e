package keeper

import (
	"context"
	"fmt"
	"math/big"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/ammx-chain/ammx/x/amm/curve"
	"github.com/ammx-chain/ammx/x/amm/types"
)

// ProvideLiquidity deposits both pair assets and mints LP shares to
// provider. The full deposit amounts are pulled; shares follow the smaller
// of the two deposit ratios.
func (k Keeper) ProvideLiquidity(
	ctx context.Context,
	provider sdk.AccAddress,
	pairAddr string,
	deposits []types.AssetAmount,
	minShares sdkmath.Int,
) (sdkmath.Int, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	pair, err := k.GetPair(ctx, pairAddr)
	if err != nil {
		return sdkmath.Int{}, err
	}
	if pair.IsDeprecated() {
		return sdkmath.Int{}, types.ErrPairDeprecated.Wrapf("pair %s accepts no new liquidity", pair.Address)
	}
	amounts, err := pair.OrderAmounts(deposits)
	if err != nil {
		return sdkmath.Int{}, err
	}
	params, err := k.GetParams(ctx)
	if err != nil {
		return sdkmath.Int{}, err
	}
	strategy, err := curve.ForPair(pair, sdkCtx.BlockTime().Unix())
	if err != nil {
		return sdkmath.Int{}, err
	}

	mint, err := curve.ComputeLPMint(strategy, pair.Reserves, pair.TotalShares, amounts, params.MinimumLiquidity)
	if err != nil {
		return sdkmath.Int{}, err
	}
	if !minShares.IsNil() && mint.Shares.LT(minShares) {
		return sdkmath.Int{}, types.ErrSlippageExceeded.Wrapf("minted %s shares, expected at least %s", mint.Shares, minShares)
	}

	pairAcc := sdk.MustAccAddressFromBech32(pair.Address)
	cacheCtx, write := sdkCtx.CacheContext()
	if err := k.accumulatePrices(cacheCtx, pair, strategy); err != nil {
		return sdkmath.Int{}, err
	}
	for i, asset := range pair.Assets {
		if err := k.sendAsset(cacheCtx, asset, provider, pairAcc, amounts[i]); err != nil {
			return sdkmath.Int{}, fmt.Errorf("ProvideLiquidity: deposit %s: %w", asset, err)
		}
		if pair.Reserves[i], err = pair.Reserves[i].SafeAdd(amounts[i]); err != nil {
			return sdkmath.Int{}, types.ErrInvalidInput.Wrapf("reserve overflow: %v", err)
		}
	}
	if pair.TotalShares, err = pair.TotalShares.SafeAdd(mint.Total()); err != nil {
		return sdkmath.Int{}, types.ErrInvalidInput.Wrapf("share supply overflow: %v", err)
	}
	if err := k.addShares(cacheCtx, pairAcc, provider, mint.Shares); err != nil {
		return sdkmath.Int{}, err
	}
	if err := k.SetPair(cacheCtx, pair); err != nil {
		return sdkmath.Int{}, err
	}
	write()

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeProvideLiquidity,
			sdk.NewAttribute(types.AttributeKeyPair, pair.Address),
			sdk.NewAttribute(types.AttributeKeyProvider, provider.String()),
			sdk.NewAttribute(types.AttributeKeyAmountA, amounts[0].String()),
			sdk.NewAttribute(types.AttributeKeyAmountB, amounts[1].String()),
			sdk.NewAttribute(types.AttributeKeyShares, mint.Shares.String()),
			sdk.NewAttribute(types.AttributeKeyReserveA, pair.Reserves[0].String()),
			sdk.NewAttribute(types.AttributeKeyReserveB, pair.Reserves[1].String()),
			sdk.NewAttribute(types.AttributeKeyTotalShares, pair.TotalShares.String()),
			sdk.NewAttribute(types.AttributeKeySharePrice, sharePrice(pair).String()),
		),
	)
	k.metrics.LiquidityAdded.WithLabelValues(pair.Address).Inc()
	k.observePair(pair)
	k.Logger(ctx).Debug("liquidity provided",
		"pair", pair.Address,
		"provider", provider.String(),
		"shares", mint.Shares.String(),
		"locked", mint.Locked.String(),
	)

	k.afterLiquidityChanged(ctx, pair.Address, provider.String(), mint.Shares, pair.Reserves)
	return mint.Shares, nil
}

// WithdrawLiquidity burns shares of provider and returns the proportional
// reserves. mins optionally bounds the amount received per asset.
func (k Keeper) WithdrawLiquidity(
	ctx context.Context,
	provider sdk.AccAddress,
	pairAddr string,
	shares sdkmath.Int,
	mins []types.AssetAmount,
) ([]types.AssetAmount, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	pair, err := k.GetPair(ctx, pairAddr)
	if err != nil {
		return nil, err
	}
	pairAcc := sdk.MustAccAddressFromBech32(pair.Address)

	balance, err := k.GetShares(ctx, pairAcc, provider)
	if err != nil {
		return nil, err
	}
	if shares.IsNil() || !shares.IsPositive() {
		return nil, types.ErrInvalidInput.Wrap("shares to withdraw must be positive")
	}
	if balance.LT(shares) {
		return nil, types.ErrInsufficientShares.Wrapf("provider holds %s shares, requested %s", balance, shares)
	}

	amounts, err := curve.ComputeWithdrawAmounts(pair.Reserves, pair.TotalShares, shares)
	if err != nil {
		return nil, err
	}
	for _, m := range mins {
		i, err := pair.IndexOf(m.Asset)
		if err != nil {
			return nil, err
		}
		if amounts[i].LT(m.Amount) {
			return nil, types.ErrSlippageExceeded.Wrapf("withdraw yields %s%s, expected at least %s", amounts[i], m.Asset, m.Amount)
		}
	}

	strategy, err := curve.ForPair(pair, sdkCtx.BlockTime().Unix())
	if err != nil {
		return nil, err
	}

	cacheCtx, write := sdkCtx.CacheContext()
	if err := k.accumulatePrices(cacheCtx, pair, strategy); err != nil {
		return nil, err
	}
	if err := k.subShares(cacheCtx, pairAcc, provider, shares); err != nil {
		return nil, err
	}
	for i, asset := range pair.Assets {
		if err := k.sendAsset(cacheCtx, asset, pairAcc, provider, amounts[i]); err != nil {
			return nil, fmt.Errorf("WithdrawLiquidity: send %s: %w", asset, err)
		}
		pair.Reserves[i] = pair.Reserves[i].Sub(amounts[i])
	}
	pair.TotalShares = pair.TotalShares.Sub(shares)
	if err := k.SetPair(cacheCtx, pair); err != nil {
		return nil, err
	}
	write()

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeWithdrawLiquidity,
			sdk.NewAttribute(types.AttributeKeyPair, pair.Address),
			sdk.NewAttribute(types.AttributeKeyProvider, provider.String()),
			sdk.NewAttribute(types.AttributeKeyShares, shares.String()),
			sdk.NewAttribute(types.AttributeKeyAmountA, amounts[0].String()),
			sdk.NewAttribute(types.AttributeKeyAmountB, amounts[1].String()),
			sdk.NewAttribute(types.AttributeKeyReserveA, pair.Reserves[0].String()),
			sdk.NewAttribute(types.AttributeKeyReserveB, pair.Reserves[1].String()),
			sdk.NewAttribute(types.AttributeKeyTotalShares, pair.TotalShares.String()),
		),
	)
	k.metrics.LiquidityRemoved.WithLabelValues(pair.Address).Inc()
	k.observePair(pair)

	k.afterLiquidityChanged(ctx, pair.Address, provider.String(), shares.Neg(), pair.Reserves)
	return pair.AssetAmounts(amounts), nil
}

// sharePrice is sqrt(reserveA * reserveB) / totalShares, the value of one
// share in geometric mean units.
func sharePrice(pair types.Pair) sdkmath.LegacyDec {
	if pair.TotalShares.IsZero() {
		return sdkmath.LegacyZeroDec()
	}
	product := new(big.Int).Mul(pair.Reserves[0].BigInt(), pair.Reserves[1].BigInt())
	root := new(big.Int).Sqrt(product)
	if root.BitLen() > sdkmath.MaxBitLen {
		return sdkmath.LegacyZeroDec()
	}
	return sdkmath.LegacyNewDecFromInt(sdkmath.NewIntFromBigInt(root)).QuoInt(pair.TotalShares)
}

func (k Keeper) observePair(pair types.Pair) {
	for i, asset := range pair.Assets {
		k.metrics.PairReserves.WithLabelValues(pair.Address, asset.Key()).Set(intToFloat(pair.Reserves[i]))
	}
	k.metrics.LPShareSupply.WithLabelValues(pair.Address).Set(intToFloat(pair.TotalShares))
}

func intToFloat(i sdkmath.Int) float64 {
	f, _ := new(big.Float).SetInt(i.BigInt()).Float64()
	return f
}
