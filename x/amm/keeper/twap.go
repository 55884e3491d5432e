package keeper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	sdkmath "cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/ammx-chain/ammx/x/amm/curve"
	"github.com/ammx-chain/ammx/x/amm/types"
)

// GetPriceAccumulator returns the stored price record of a pair.
func (k Keeper) GetPriceAccumulator(ctx context.Context, pairAddr string) (types.PriceAccumulator, bool, error) {
	addr, err := sdk.AccAddressFromBech32(pairAddr)
	if err != nil {
		return types.PriceAccumulator{}, false, types.ErrInvalidInput.Wrapf("invalid pair address %q: %v", pairAddr, err)
	}
	return getJSON[types.PriceAccumulator](k.getStore(ctx), PriceAccumulatorKey(addr))
}

// SetPriceAccumulator stores the price record of a pair.
func (k Keeper) SetPriceAccumulator(ctx context.Context, acc types.PriceAccumulator) error {
	addr, err := sdk.AccAddressFromBech32(acc.Pair)
	if err != nil {
		return types.ErrInvalidState.Wrapf("invalid pair address %q: %v", acc.Pair, err)
	}
	return setJSON(k.getStore(ctx), PriceAccumulatorKey(addr), acc)
}

// GetAllPriceAccumulators returns every stored price record.
func (k Keeper) GetAllPriceAccumulators(ctx context.Context) ([]types.PriceAccumulator, error) {
	iter := storetypes.KVStorePrefixIterator(k.getStore(ctx), PriceAccumulatorKeyPrefix)
	defer iter.Close()

	records := []types.PriceAccumulator{}
	for ; iter.Valid(); iter.Next() {
		var acc types.PriceAccumulator
		if err := json.Unmarshal(iter.Value(), &acc); err != nil {
			return nil, fmt.Errorf("unmarshal price accumulator: %w", err)
		}
		records = append(records, acc)
	}
	return records, nil
}

// accumulatePrices folds the spot price of pair, as it stands before the
// operation about to change its reserves, into the pair's accumulator.
// It must run before the reserves move.
func (k Keeper) accumulatePrices(ctx context.Context, pair types.Pair, strategy curve.Strategy) error {
	blockTime := sdk.UnwrapSDKContext(ctx).BlockTime().Unix()
	acc, found, err := k.GetPriceAccumulator(ctx, pair.Address)
	if err != nil {
		return err
	}
	if !found {
		acc = types.NewPriceAccumulator(pair.Address, blockTime)
	} else if blockTime <= acc.LastTimestamp {
		return nil
	}
	if acc, err = accruePrices(acc, pair, strategy, blockTime); err != nil {
		return err
	}

	k.Logger(ctx).Debug("accumulated pair prices",
		"pair", pair.Address,
		"cumulative_a", acc.Cumulative[0].String(),
		"cumulative_b", acc.Cumulative[1].String(),
		"total_seconds", acc.TotalSeconds,
	)
	return k.SetPriceAccumulator(ctx, acc)
}

// accruePrices returns acc advanced to blockTime at the current spot
// prices of pair. Time spent without liquidity is skipped.
func accruePrices(acc types.PriceAccumulator, pair types.Pair, strategy curve.Strategy, blockTime int64) (types.PriceAccumulator, error) {
	if blockTime <= acc.LastTimestamp {
		return acc, nil
	}
	elapsed := blockTime - acc.LastTimestamp
	acc.LastTimestamp = blockTime
	if !pair.Reserves[0].IsPositive() || !pair.Reserves[1].IsPositive() {
		return acc, nil
	}

	for i := range acc.Cumulative {
		price, err := spotPrice(curve.Orient(strategy, i), pair.Reserves[i], pair.Reserves[1-i])
		if err != nil {
			return acc, err
		}
		acc.Cumulative[i] = acc.Cumulative[i].Add(price.MulInt64(elapsed))
	}
	acc.TotalSeconds += uint64(elapsed)
	return acc, nil
}

// spotPrice prices one unit of the input side by a fee free trade of
// sqrt(reserveIn) units.
func spotPrice(s curve.Strategy, reserveIn, reserveOut sdkmath.Int) (sdkmath.LegacyDec, error) {
	sample := sdkmath.NewIntFromBigInt(new(big.Int).Sqrt(reserveIn.BigInt()))
	if sample.IsZero() {
		sample = sdkmath.OneInt()
	}
	q, err := s.PriceSwap(reserveIn, reserveOut, sample, types.ZeroFee())
	if errors.Is(err, types.ErrInsufficientLiquidity) {
		return sdkmath.LegacyZeroDec(), nil
	}
	if err != nil {
		return sdkmath.LegacyDec{}, err
	}
	return sdkmath.LegacyNewDecFromInt(q.AmountOut).QuoInt(sample), nil
}

// CurrentPriceAccumulator returns the price record of a pair advanced to
// the current block time without storing it.
func (k Keeper) CurrentPriceAccumulator(ctx context.Context, pairAddr string) (types.PriceAccumulator, error) {
	pair, err := k.GetPair(ctx, pairAddr)
	if err != nil {
		return types.PriceAccumulator{}, err
	}
	blockTime := sdk.UnwrapSDKContext(ctx).BlockTime().Unix()
	acc, found, err := k.GetPriceAccumulator(ctx, pair.Address)
	if err != nil {
		return types.PriceAccumulator{}, err
	}
	if !found {
		return types.NewPriceAccumulator(pair.Address, blockTime), nil
	}
	if pair.TotalShares.IsZero() {
		acc.LastTimestamp = max(acc.LastTimestamp, blockTime)
		return acc, nil
	}
	strategy, err := curve.ForPair(pair, blockTime)
	if err != nil {
		return types.PriceAccumulator{}, err
	}
	return accruePrices(acc, pair, strategy, blockTime)
}
