package keeper

import (
	"context"
	"fmt"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/telemetry"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/hashicorp/go-metrics"

	"github.com/ammx-chain/ammx/x/amm/curve"
	"github.com/ammx-chain/ammx/x/amm/types"
)

// pricedSwap is a quote bound to the pair state it was priced against.
type pricedSwap struct {
	pair     types.Pair
	params   types.Params
	strategy curve.Strategy
	indexIn  int
	quote    types.SwapQuote
}

// settled returns the pair with the reserves the swap leaves behind: the
// input minus the protocol fee in, the output out.
func (p pricedSwap) settled() types.Pair {
	pair := p.pair
	indexIn, indexOut := p.indexIn, 1-p.indexIn
	pair.Reserves[indexIn] = pair.Reserves[indexIn].Add(p.quote.AmountIn.Sub(p.quote.ProtocolFee))
	pair.Reserves[indexOut] = pair.Reserves[indexOut].Sub(p.quote.AmountOut)
	return pair
}

// curveReserves returns the reserves the curve priced the swap to: the
// input after fee in, the output out. The settled reserves hold at least
// as much, since the LP part of the fee stays in the pair.
func (p pricedSwap) curveReserves() [2]sdkmath.Int {
	reserves := p.pair.Reserves
	indexIn, indexOut := p.indexIn, 1-p.indexIn
	reserves[indexIn] = reserves[indexIn].Add(p.quote.AmountIn.Sub(p.quote.Fee))
	reserves[indexOut] = reserves[indexOut].Sub(p.quote.AmountOut)
	return reserves
}

func newSwapQuote(pair types.Pair, params types.Params, indexIn int, q curve.Quote) types.SwapQuote {
	return types.SwapQuote{
		Pair:        pair.Address,
		AssetIn:     pair.Assets[indexIn],
		AssetOut:    pair.Other(indexIn),
		AmountIn:    q.AmountIn,
		AmountOut:   q.AmountOut,
		Fee:         q.Fee,
		ProtocolFee: protocolFee(params, pair, q.Fee),
	}
}

func pairStrategy(pair types.Pair, blockTime int64) (curve.Strategy, error) {
	if err := pair.CheckTradingStarted(blockTime); err != nil {
		return nil, err
	}
	if pair.TotalShares.IsZero() {
		return nil, types.ErrInsufficientLiquidity.Wrapf("pair %s has no liquidity", pair.Address)
	}
	return curve.ForPair(pair, blockTime)
}

// quoteSwap prices an exact input swap against pair. Simulation and
// execution share it.
func quoteSwap(pair types.Pair, params types.Params, blockTime int64, assetIn types.Asset, amountIn sdkmath.Int) (pricedSwap, error) {
	indexIn, err := pair.IndexOf(assetIn)
	if err != nil {
		return pricedSwap{}, err
	}
	strategy, err := pairStrategy(pair, blockTime)
	if err != nil {
		return pricedSwap{}, err
	}
	q, err := curve.Orient(strategy, indexIn).PriceSwap(pair.Reserves[indexIn], pair.Reserves[1-indexIn], amountIn, pair.Config.FeeRate)
	if err != nil {
		return pricedSwap{}, err
	}
	return pricedSwap{
		pair:     pair,
		params:   params,
		strategy: strategy,
		indexIn:  indexIn,
		quote:    newSwapQuote(pair, params, indexIn, q),
	}, nil
}

// quoteSwapReverse prices an exact output swap against pair. Simulation and
// execution share it.
func quoteSwapReverse(pair types.Pair, params types.Params, blockTime int64, assetOut types.Asset, amountOut sdkmath.Int) (pricedSwap, error) {
	indexOut, err := pair.IndexOf(assetOut)
	if err != nil {
		return pricedSwap{}, err
	}
	indexIn := 1 - indexOut
	strategy, err := pairStrategy(pair, blockTime)
	if err != nil {
		return pricedSwap{}, err
	}
	q, err := curve.Orient(strategy, indexIn).PriceSwapReverse(pair.Reserves[indexIn], pair.Reserves[indexOut], amountOut, pair.Config.FeeRate)
	if err != nil {
		return pricedSwap{}, err
	}
	return pricedSwap{
		pair:     pair,
		params:   params,
		strategy: strategy,
		indexIn:  indexIn,
		quote:    newSwapQuote(pair, params, indexIn, q),
	}, nil
}

func (k Keeper) priceSwap(ctx context.Context, pairAddr string, assetIn types.Asset, amountIn sdkmath.Int) (pricedSwap, error) {
	pair, err := k.GetPair(ctx, pairAddr)
	if err != nil {
		return pricedSwap{}, err
	}
	params, err := k.GetParams(ctx)
	if err != nil {
		return pricedSwap{}, err
	}
	return quoteSwap(pair, params, sdk.UnwrapSDKContext(ctx).BlockTime().Unix(), assetIn, amountIn)
}

func (k Keeper) priceSwapReverse(ctx context.Context, pairAddr string, assetOut types.Asset, amountOut sdkmath.Int) (pricedSwap, error) {
	pair, err := k.GetPair(ctx, pairAddr)
	if err != nil {
		return pricedSwap{}, err
	}
	params, err := k.GetParams(ctx)
	if err != nil {
		return pricedSwap{}, err
	}
	return quoteSwapReverse(pair, params, sdk.UnwrapSDKContext(ctx).BlockTime().Unix(), assetOut, amountOut)
}

// SimulateSwap quotes an exact input swap without changing state.
func (k Keeper) SimulateSwap(ctx context.Context, pairAddr string, assetIn types.Asset, amountIn sdkmath.Int) (types.SwapQuote, error) {
	p, err := k.priceSwap(ctx, pairAddr, assetIn, amountIn)
	if err != nil {
		return types.SwapQuote{}, err
	}
	return p.quote, nil
}

// SimulateReverseSwap quotes the input needed for at least amountOut of
// assetOut without changing state.
func (k Keeper) SimulateReverseSwap(ctx context.Context, pairAddr string, assetOut types.Asset, amountOut sdkmath.Int) (types.SwapQuote, error) {
	p, err := k.priceSwapReverse(ctx, pairAddr, assetOut, amountOut)
	if err != nil {
		return types.SwapQuote{}, err
	}
	return p.quote, nil
}

// Swap sells amountIn of assetIn to the pair and sends the output to
// recipient. It fails with ErrSlippageExceeded when the output is below
// minOut.
func (k Keeper) Swap(
	ctx context.Context,
	sender sdk.AccAddress,
	pairAddr string,
	assetIn types.Asset,
	amountIn, minOut sdkmath.Int,
	recipient sdk.AccAddress,
) (types.SwapQuote, error) {
	p, err := k.priceSwap(ctx, pairAddr, assetIn, amountIn)
	if err != nil {
		k.recordSwapFailure(pairAddr, assetIn, types.Asset{})
		return types.SwapQuote{}, err
	}
	if !minOut.IsNil() && p.quote.AmountOut.LT(minOut) {
		k.recordSwapFailure(pairAddr, p.quote.AssetIn, p.quote.AssetOut)
		return types.SwapQuote{}, types.ErrSlippageExceeded.Wrapf("expected at least %s, got %s", minOut, p.quote.AmountOut)
	}
	q, pair, err := k.executeSwap(ctx, sender, recipient, p)
	if err != nil {
		return types.SwapQuote{}, err
	}
	k.recordSwap(q, pair)
	return q, nil
}

// SwapExactOut buys at least amountOut of assetOut from the pair, paying at
// most maxIn.
func (k Keeper) SwapExactOut(
	ctx context.Context,
	sender sdk.AccAddress,
	pairAddr string,
	assetOut types.Asset,
	amountOut, maxIn sdkmath.Int,
	recipient sdk.AccAddress,
) (types.SwapQuote, error) {
	p, err := k.priceSwapReverse(ctx, pairAddr, assetOut, amountOut)
	if err != nil {
		k.recordSwapFailure(pairAddr, types.Asset{}, assetOut)
		return types.SwapQuote{}, err
	}
	if !maxIn.IsNil() && p.quote.AmountIn.GT(maxIn) {
		k.recordSwapFailure(pairAddr, p.quote.AssetIn, p.quote.AssetOut)
		return types.SwapQuote{}, types.ErrSlippageExceeded.Wrapf("requires %s in, at most %s allowed", p.quote.AmountIn, maxIn)
	}
	q, pair, err := k.executeSwap(ctx, sender, recipient, p)
	if err != nil {
		return types.SwapQuote{}, err
	}
	k.recordSwap(q, pair)
	return q, nil
}

// routeSwap settles one exact input hop of a route. Metrics are left to
// the caller, which records them once the route commits.
func (k Keeper) routeSwap(ctx context.Context, sender sdk.AccAddress, pairAddr string, assetIn types.Asset, amountIn sdkmath.Int, recipient sdk.AccAddress) (types.SwapQuote, types.Pair, error) {
	p, err := k.priceSwap(ctx, pairAddr, assetIn, amountIn)
	if err != nil {
		return types.SwapQuote{}, types.Pair{}, err
	}
	return k.executeSwap(ctx, sender, recipient, p)
}

// executeSwap settles a priced swap atomically: input in, protocol fee out,
// output out, reserves updated. Nothing is written if any step fails. It
// returns the pair as settled.
func (k Keeper) executeSwap(ctx context.Context, sender, recipient sdk.AccAddress, p pricedSwap) (types.SwapQuote, types.Pair, error) {
	start := time.Now()
	defer telemetry.MeasureSince(start, types.ModuleName, "swap")

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	q := p.quote
	pairAcc := sdk.MustAccAddressFromBech32(p.pair.Address)

	cacheCtx, write := sdkCtx.CacheContext()
	if err := k.accumulatePrices(cacheCtx, p.pair, p.strategy); err != nil {
		return types.SwapQuote{}, types.Pair{}, err
	}
	if err := k.sendAsset(cacheCtx, q.AssetIn, sender, pairAcc, q.AmountIn); err != nil {
		return types.SwapQuote{}, types.Pair{}, fmt.Errorf("Swap: transfer input: %w", err)
	}
	if err := k.sendProtocolFee(cacheCtx, p.params, p.pair, q.AssetIn, q.ProtocolFee); err != nil {
		return types.SwapQuote{}, types.Pair{}, fmt.Errorf("Swap: %w", err)
	}
	if err := k.sendAsset(cacheCtx, q.AssetOut, pairAcc, recipient, q.AmountOut); err != nil {
		return types.SwapQuote{}, types.Pair{}, fmt.Errorf("Swap: transfer output: %w", err)
	}

	pair := p.settled()
	priced := p.curveReserves()
	if err := curve.CheckInvariant(p.strategy, p.pair.Reserves, priced); err != nil {
		return types.SwapQuote{}, types.Pair{}, err
	}
	if pair.Reserves[p.indexIn].LT(priced[p.indexIn]) {
		return types.SwapQuote{}, types.Pair{}, types.ErrInvalidState.Wrapf("protocol fee %s exceeds swap fee %s", q.ProtocolFee, q.Fee)
	}
	if err := k.SetPair(cacheCtx, pair); err != nil {
		return types.SwapQuote{}, types.Pair{}, err
	}
	write()

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeSwap,
			sdk.NewAttribute(types.AttributeKeyPair, pair.Address),
			sdk.NewAttribute(types.AttributeKeySender, sender.String()),
			sdk.NewAttribute(types.AttributeKeyRecipient, recipient.String()),
			sdk.NewAttribute(types.AttributeKeyAssetIn, q.AssetIn.String()),
			sdk.NewAttribute(types.AttributeKeyAssetOut, q.AssetOut.String()),
			sdk.NewAttribute(types.AttributeKeyAmountIn, q.AmountIn.String()),
			sdk.NewAttribute(types.AttributeKeyAmountOut, q.AmountOut.String()),
			sdk.NewAttribute(types.AttributeKeyFee, q.Fee.String()),
			sdk.NewAttribute(types.AttributeKeyProtocolFee, q.ProtocolFee.String()),
			sdk.NewAttribute(types.AttributeKeyReserveA, pair.Reserves[0].String()),
			sdk.NewAttribute(types.AttributeKeyReserveB, pair.Reserves[1].String()),
		),
	)

	k.afterSwap(ctx, pair.Address, sender.String(), q.AssetIn, q.AssetOut, q.AmountIn, q.AmountOut)
	return q, pair, nil
}

// recordSwap updates swap metrics. It runs only for swaps whose state has
// been committed by the caller.
func (k Keeper) recordSwap(q types.SwapQuote, pair types.Pair) {
	k.metrics.SwapsTotal.WithLabelValues(pair.Address, q.AssetIn.Key(), q.AssetOut.Key(), "success").Inc()
	k.metrics.SwapVolume.WithLabelValues(pair.Address, q.AssetIn.Key()).Add(intToFloat(q.AmountIn))
	k.metrics.SwapFeesCollected.WithLabelValues(pair.Address, q.AssetIn.Key()).Add(intToFloat(q.Fee))
	if q.ProtocolFee.IsPositive() {
		k.metrics.ProtocolFees.WithLabelValues(q.AssetIn.Key()).Add(intToFloat(q.ProtocolFee))
	}
	k.observePair(pair)
	telemetry.IncrCounterWithLabels(
		[]string{types.ModuleName, "swap"},
		1,
		[]metrics.Label{
			telemetry.NewLabel("pair", pair.Address),
			telemetry.NewLabel("asset_in", q.AssetIn.Key()),
		},
	)
}

func (k Keeper) recordSwapFailure(pair string, assetIn, assetOut types.Asset) {
	k.metrics.SwapsTotal.WithLabelValues(pair, assetIn.Key(), assetOut.Key(), "failed").Inc()
}
