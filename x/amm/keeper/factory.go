package keeper

import (
	"context"
	"strconv"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/ammx-chain/ammx/x/amm/types"
)

// CreatePair deploys a pair for the unordered asset pair under configRef.
// The pair address is derived from the sorted assets and the config ref, so
// each identity is deployed at most once.
func (k Keeper) CreatePair(
	ctx context.Context,
	creator sdk.AccAddress,
	assetA, assetB types.Asset,
	configRef string,
	opts types.CreatePairOptions,
) (types.Pair, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if err := types.ValidateAssetPair(assetA, assetB); err != nil {
		return types.Pair{}, err
	}
	params, err := k.GetParams(ctx)
	if err != nil {
		return types.Pair{}, err
	}
	if params.OnlyAdminCreatesPairs && creator.String() != k.authority {
		return types.Pair{}, types.ErrUnauthorized.Wrapf("only %s may create pairs", k.authority)
	}

	config, found, err := k.GetPairConfig(ctx, configRef)
	if err != nil {
		return types.Pair{}, err
	}
	if !found {
		return types.Pair{}, types.ErrUnknownConfig.Wrapf("no pair config %q", configRef)
	}
	if config.Disabled {
		return types.Pair{}, types.ErrConfigDisabled.Wrapf("pair config %q is disabled", configRef)
	}

	assets, _ := types.SortAssets(assetA, assetB)
	store := k.getStore(ctx)
	if store.Has(PairIdentityKey(assets, configRef)) {
		return types.Pair{}, types.ErrPairAlreadyExists.Wrapf("%s/%s with config %s", assets[0], assets[1], configRef)
	}

	if opts.FeeRate != nil {
		if err := opts.FeeRate.Validate(); err != nil {
			return types.Pair{}, err
		}
		if opts.FeeRate.Cmp(config.MaxFeeRate) > 0 {
			return types.Pair{}, types.ErrInvalidInput.Wrapf("fee rate %s exceeds max fee rate %s", opts.FeeRate, config.MaxFeeRate)
		}
		config.FeeRate = *opts.FeeRate
	}

	var stable *types.StableParams
	if config.Kind == types.CurveStable {
		amp := opts.Amp
		if amp == 0 {
			amp = params.DefaultAmp
		}
		stable = types.NewStableParams(amp)
		stable.InitAmpTime = sdkCtx.BlockTime().Unix()
		stable.NextAmpTime = stable.InitAmpTime
		if stable.Precisions, err = pairPrecisions(assets, opts.Precisions); err != nil {
			return types.Pair{}, err
		}
		if err := stable.Validate(); err != nil {
			return types.Pair{}, err
		}
	} else if opts.Precisions != nil {
		return types.Pair{}, types.ErrInvalidInput.Wrapf("precisions only apply to %s pairs", types.CurveStable)
	}
	if opts.TradingStart < 0 {
		return types.Pair{}, types.ErrInvalidInput.Wrapf("trading start %d is negative", opts.TradingStart)
	}

	cacheCtx, write := sdkCtx.CacheContext()
	if err := k.chargeCreationFee(cacheCtx, params, creator); err != nil {
		return types.Pair{}, err
	}
	pair, err := k.InitializePair(cacheCtx, k.FactoryAddress(), configRef, config, assets[0], assets[1], stable)
	if err != nil {
		return types.Pair{}, err
	}
	if opts.TradingStart > 0 {
		pair.TradingStart = opts.TradingStart
		if err := k.SetPair(cacheCtx, pair); err != nil {
			return types.Pair{}, err
		}
	}
	if err := k.SetPriceAccumulator(cacheCtx, types.NewPriceAccumulator(pair.Address, sdkCtx.BlockTime().Unix())); err != nil {
		return types.Pair{}, err
	}
	addr := sdk.MustAccAddressFromBech32(pair.Address)
	cacheStore := k.getStore(cacheCtx)
	cacheStore.Set(PairIdentityKey(assets, configRef), addr)
	cacheStore.Set(PairsByAssetsKey(assets, pair.ID), addr)
	write()

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypePairCreated,
			sdk.NewAttribute(types.AttributeKeyPair, pair.Address),
			sdk.NewAttribute(types.AttributeKeyPairID, strconv.FormatUint(pair.ID, 10)),
			sdk.NewAttribute(types.AttributeKeyCreator, creator.String()),
			sdk.NewAttribute(types.AttributeKeyAssetA, assets[0].String()),
			sdk.NewAttribute(types.AttributeKeyAssetB, assets[1].String()),
			sdk.NewAttribute(types.AttributeKeyConfig, configRef),
			sdk.NewAttribute(types.AttributeKeyFeeRate, config.FeeRate.String()),
		),
	)
	k.metrics.PairsCreated.WithLabelValues(string(config.Kind)).Inc()
	k.Logger(ctx).Info("pair created",
		"pair", pair.Address,
		"id", pair.ID,
		"assets", assets[0].String()+"/"+assets[1].String(),
		"config", configRef,
	)
	return pair, nil
}

// pairPrecisions orders the decimals given per asset key. Nil leaves both
// sides at zero, which prices the assets as sharing a precision.
func pairPrecisions(assets [2]types.Asset, given map[string]uint32) ([2]uint32, error) {
	var out [2]uint32
	if given == nil {
		return out, nil
	}
	if len(given) != 2 {
		return out, types.ErrInvalidInput.Wrapf("expected precisions for both assets, got %d", len(given))
	}
	for i, asset := range assets {
		prec, ok := given[asset.Key()]
		if !ok {
			return out, types.ErrInvalidInput.Wrapf("no precision given for %s", asset)
		}
		out[i] = prec
	}
	return out, nil
}

// ResolvePair returns the default pair of two assets: the oldest pair that
// is not deprecated. When every pair of the assets is deprecated the oldest
// one is returned so callers can report the deprecation.
func (k Keeper) ResolvePair(ctx context.Context, a, b types.Asset) (types.Pair, error) {
	if err := types.ValidateAssetPair(a, b); err != nil {
		return types.Pair{}, err
	}
	assets, _ := types.SortAssets(a, b)

	iter := storetypes.KVStorePrefixIterator(k.getStore(ctx), PairsByAssetsPrefix(assets))
	defer iter.Close()

	var (
		oldest types.Pair
		found  bool
	)
	for ; iter.Valid(); iter.Next() {
		pair, err := k.getPair(ctx, iter.Value())
		if err != nil {
			return types.Pair{}, err
		}
		if !pair.IsDeprecated() {
			return pair, nil
		}
		if !found {
			oldest, found = pair, true
		}
	}
	if !found {
		return types.Pair{}, types.ErrPairNotFound.Wrapf("no pair for %s/%s", assets[0], assets[1])
	}
	return oldest, nil
}

// ResolvePairWithConfig returns the pair of two assets under configRef.
func (k Keeper) ResolvePairWithConfig(ctx context.Context, a, b types.Asset, configRef string) (types.Pair, error) {
	if err := types.ValidateAssetPair(a, b); err != nil {
		return types.Pair{}, err
	}
	assets, _ := types.SortAssets(a, b)
	bz := k.getStore(ctx).Get(PairIdentityKey(assets, configRef))
	if bz == nil {
		return types.Pair{}, types.ErrPairNotFound.Wrapf("no pair for %s/%s with config %s", assets[0], assets[1], configRef)
	}
	return k.getPair(ctx, bz)
}
