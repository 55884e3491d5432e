package keeper

import (
	"context"
	"encoding/json"
	"strconv"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ammx-chain/ammx/x/amm/types"
)

const (
	tracerName = "github.com/ammx-chain/ammx/x/amm"

	routeModeExactIn  = "exact_in"
	routeModeExactOut = "exact_out"
)

// resolveRoute validates hops and resolves the pair of every hop before
// anything is transferred.
func (k Keeper) resolveRoute(ctx context.Context, hops []types.Hop) ([]types.Pair, types.Params, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return nil, types.Params{}, err
	}
	if err := types.ValidateRoute(hops, params.MaxHops); err != nil {
		return nil, types.Params{}, err
	}

	pairs := make([]types.Pair, len(hops))
	for i, hop := range hops {
		var pair types.Pair
		if hop.ConfigRef != "" {
			pair, err = k.ResolvePairWithConfig(ctx, hop.AssetIn, hop.AssetOut, hop.ConfigRef)
		} else {
			pair, err = k.ResolvePair(ctx, hop.AssetIn, hop.AssetOut)
		}
		if err != nil {
			return nil, types.Params{}, errorsmod.Wrapf(err, "hop %d", i)
		}
		if pair.IsDeprecated() {
			return nil, types.Params{}, types.ErrPairDeprecated.Wrapf("hop %d: pair %s", i, pair.Address)
		}
		pairs[i] = pair
	}
	return pairs, params, nil
}

// simulateForward prices hops in order against a scratch copy of the pair
// state, so a pair used twice is priced with the reserves its first use
// leaves behind.
func simulateForward(pairs []types.Pair, params types.Params, blockTime int64, hops []types.Hop, amountIn sdkmath.Int) (types.RouteResult, error) {
	state := make(map[string]types.Pair, len(pairs))
	result := types.RouteResult{AmountIn: amountIn, Hops: make([]types.HopResult, 0, len(hops))}

	amount := amountIn
	for i, hop := range hops {
		pair, ok := state[pairs[i].Address]
		if !ok {
			pair = pairs[i]
		}
		p, err := quoteSwap(pair, params, blockTime, hop.AssetIn, amount)
		if err != nil {
			return types.RouteResult{}, types.NewRouteExecutionError(i, err)
		}
		state[pair.Address] = p.settled()
		result.Hops = append(result.Hops, p.quote.HopResult())
		amount = p.quote.AmountOut
	}
	result.AmountOut = amount
	return result, nil
}

// requiredInput walks hops backwards with reverse pricing and returns the
// input of the first hop needed for amountOut from the last.
func requiredInput(pairs []types.Pair, params types.Params, blockTime int64, hops []types.Hop, amountOut sdkmath.Int) (sdkmath.Int, error) {
	need := amountOut
	for i := len(hops) - 1; i >= 0; i-- {
		p, err := quoteSwapReverse(pairs[i], params, blockTime, hops[i].AssetOut, need)
		if err != nil {
			return sdkmath.Int{}, types.NewRouteExecutionError(i, err)
		}
		need = p.quote.AmountIn
	}
	return need, nil
}

// SimulateRoute quotes an exact input route without changing state.
func (k Keeper) SimulateRoute(ctx context.Context, hops []types.Hop, amountIn sdkmath.Int) (types.RouteResult, error) {
	if amountIn.IsNil() || !amountIn.IsPositive() {
		return types.RouteResult{}, types.ErrInvalidInput.Wrap("route amount in must be positive")
	}
	pairs, params, err := k.resolveRoute(ctx, hops)
	if err != nil {
		return types.RouteResult{}, err
	}
	return simulateForward(pairs, params, sdk.UnwrapSDKContext(ctx).BlockTime().Unix(), hops, amountIn)
}

// SimulateRouteExactOut quotes the input needed for at least amountOut at
// the end of the route, and the amounts every hop would move.
func (k Keeper) SimulateRouteExactOut(ctx context.Context, hops []types.Hop, amountOut sdkmath.Int) (types.RouteResult, error) {
	if amountOut.IsNil() || !amountOut.IsPositive() {
		return types.RouteResult{}, types.ErrInvalidInput.Wrap("route amount out must be positive")
	}
	pairs, params, err := k.resolveRoute(ctx, hops)
	if err != nil {
		return types.RouteResult{}, err
	}
	blockTime := sdk.UnwrapSDKContext(ctx).BlockTime().Unix()
	amountIn, err := requiredInput(pairs, params, blockTime, hops, amountOut)
	if err != nil {
		return types.RouteResult{}, err
	}
	result, err := simulateForward(pairs, params, blockTime, hops, amountIn)
	if err != nil {
		return types.RouteResult{}, err
	}
	if result.AmountOut.LT(amountOut) {
		return types.RouteResult{}, types.ErrSlippageExceeded.Wrapf("route yields %s, requested %s", result.AmountOut, amountOut)
	}
	return result, nil
}

// ExecuteRoute swaps amountIn of the first hop's input asset through every
// hop in order and sends the final output to recipient. Only the final
// output is bounded by minOut. Either every hop settles or nothing does.
func (k Keeper) ExecuteRoute(
	ctx context.Context,
	trader sdk.AccAddress,
	hops []types.Hop,
	amountIn, minOut sdkmath.Int,
	recipient sdk.AccAddress,
) (types.RouteResult, error) {
	_, span := otel.Tracer(tracerName).Start(ctx, "amm.ExecuteRoute",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.Int("route.hops", len(hops)),
			attribute.String("route.mode", routeModeExactIn),
		),
	)
	defer span.End()

	if amountIn.IsNil() || !amountIn.IsPositive() {
		return k.routeFailed(span, routeModeExactIn, types.ErrInvalidInput.Wrap("route amount in must be positive"))
	}
	pairs, _, err := k.resolveRoute(ctx, hops)
	if err != nil {
		return k.routeFailed(span, routeModeExactIn, err)
	}
	return k.executeHops(ctx, span, routeModeExactIn, trader, hops, pairs, amountIn, minOut, recipient)
}

// ExecuteRouteExactOut buys at least amountOut of the last hop's output
// asset, paying at most maxIn of the first hop's input asset.
func (k Keeper) ExecuteRouteExactOut(
	ctx context.Context,
	trader sdk.AccAddress,
	hops []types.Hop,
	amountOut, maxIn sdkmath.Int,
	recipient sdk.AccAddress,
) (types.RouteResult, error) {
	_, span := otel.Tracer(tracerName).Start(ctx, "amm.ExecuteRouteExactOut",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.Int("route.hops", len(hops)),
			attribute.String("route.mode", routeModeExactOut),
		),
	)
	defer span.End()

	if amountOut.IsNil() || !amountOut.IsPositive() {
		return k.routeFailed(span, routeModeExactOut, types.ErrInvalidInput.Wrap("route amount out must be positive"))
	}
	pairs, params, err := k.resolveRoute(ctx, hops)
	if err != nil {
		return k.routeFailed(span, routeModeExactOut, err)
	}
	amountIn, err := requiredInput(pairs, params, sdk.UnwrapSDKContext(ctx).BlockTime().Unix(), hops, amountOut)
	if err != nil {
		return k.routeFailed(span, routeModeExactOut, err)
	}
	if !maxIn.IsNil() && amountIn.GT(maxIn) {
		return k.routeFailed(span, routeModeExactOut,
			types.ErrSlippageExceeded.Wrapf("route requires %s in, at most %s allowed", amountIn, maxIn))
	}
	return k.executeHops(ctx, span, routeModeExactOut, trader, hops, pairs, amountIn, amountOut, recipient)
}

// executeHops runs resolved hops in a cache context. Intermediate amounts
// pass through the router escrow account.
func (k Keeper) executeHops(
	ctx context.Context,
	span trace.Span,
	mode string,
	trader sdk.AccAddress,
	hops []types.Hop,
	pairs []types.Pair,
	amountIn, minOut sdkmath.Int,
	recipient sdk.AccAddress,
) (types.RouteResult, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	cacheCtx, write := sdkCtx.CacheContext()
	escrow := k.RouterAddress()

	result := types.RouteResult{AmountIn: amountIn, Hops: make([]types.HopResult, 0, len(hops))}
	quotes := make([]types.SwapQuote, 0, len(hops))
	settled := make([]types.Pair, 0, len(hops))
	amount := amountIn
	for i, hop := range hops {
		from, to := escrow, escrow
		if i == 0 {
			from = trader
		}
		if i == len(hops)-1 {
			to = recipient
		}
		q, pair, err := k.routeSwap(cacheCtx, from, pairs[i].Address, hop.AssetIn, amount, to)
		if err != nil {
			k.metrics.RouteFailedAt.WithLabelValues(strconv.Itoa(i)).Inc()
			return k.routeFailed(span, mode, types.NewRouteExecutionError(i, err))
		}
		result.Hops = append(result.Hops, q.HopResult())
		quotes = append(quotes, q)
		settled = append(settled, pair)
		amount = q.AmountOut
	}
	result.AmountOut = amount

	if !minOut.IsNil() && amount.LT(minOut) {
		return k.routeFailed(span, mode, types.ErrSlippageExceeded.Wrapf("route yields %s, expected at least %s", amount, minOut))
	}
	write()
	for i := range quotes {
		k.recordSwap(quotes[i], settled[i])
	}

	hopsJSON, err := json.Marshal(result.Hops)
	if err != nil {
		hopsJSON = []byte("[]")
	}
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeRouteCompleted,
			sdk.NewAttribute(types.AttributeKeySender, trader.String()),
			sdk.NewAttribute(types.AttributeKeyRecipient, recipient.String()),
			sdk.NewAttribute(types.AttributeKeyMode, mode),
			sdk.NewAttribute(types.AttributeKeyAssetIn, hops[0].AssetIn.String()),
			sdk.NewAttribute(types.AttributeKeyAssetOut, hops[len(hops)-1].AssetOut.String()),
			sdk.NewAttribute(types.AttributeKeyAmountIn, result.AmountIn.String()),
			sdk.NewAttribute(types.AttributeKeyAmountOut, result.AmountOut.String()),
			sdk.NewAttribute(types.AttributeKeyHopCount, strconv.Itoa(len(hops))),
			sdk.NewAttribute(types.AttributeKeyHops, string(hopsJSON)),
		),
	)
	k.metrics.RoutesTotal.WithLabelValues(mode, "success").Inc()
	k.metrics.RouteHops.Observe(float64(len(hops)))
	span.SetAttributes(
		attribute.String("route.amount_in", result.AmountIn.String()),
		attribute.String("route.amount_out", result.AmountOut.String()),
	)
	return result, nil
}

func (k Keeper) routeFailed(span trace.Span, mode string, err error) (types.RouteResult, error) {
	k.metrics.RoutesTotal.WithLabelValues(mode, "failed").Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return types.RouteResult{}, err
}
