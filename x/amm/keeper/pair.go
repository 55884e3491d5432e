package keeper

import (
	"context"
	"fmt"

	sdkmath "cosmossdk.io/math"
	"cosmossdk.io/store/prefix"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/ammx-chain/ammx/x/amm/types"
)

// GetPair returns the pair deployed at pairAddr.
func (k Keeper) GetPair(ctx context.Context, pairAddr string) (types.Pair, error) {
	addr, err := sdk.AccAddressFromBech32(pairAddr)
	if err != nil {
		return types.Pair{}, types.ErrInvalidInput.Wrapf("invalid pair address %q: %v", pairAddr, err)
	}
	return k.getPair(ctx, addr)
}

func (k Keeper) getPair(ctx context.Context, addr sdk.AccAddress) (types.Pair, error) {
	pair, found, err := getJSON[types.Pair](k.getStore(ctx), PairKey(addr))
	if err != nil {
		return types.Pair{}, fmt.Errorf("GetPair: %w", err)
	}
	if !found {
		return types.Pair{}, types.ErrPairNotFound.Wrapf("no pair at %s", addr)
	}
	return pair, nil
}

// HasPair reports whether a pair record exists at addr.
func (k Keeper) HasPair(ctx context.Context, addr sdk.AccAddress) bool {
	return k.getStore(ctx).Has(PairKey(addr))
}

// SetPair stores a pair record and its creation order index.
func (k Keeper) SetPair(ctx context.Context, pair types.Pair) error {
	if err := pair.Validate(); err != nil {
		return err
	}
	addr, err := sdk.AccAddressFromBech32(pair.Address)
	if err != nil {
		return types.ErrInvalidState.Wrapf("invalid pair address %q: %v", pair.Address, err)
	}
	store := k.getStore(ctx)
	if err := setJSON(store, PairKey(addr), pair); err != nil {
		return fmt.Errorf("SetPair: %w", err)
	}
	store.Set(PairByIDKey(pair.ID), addr)
	return nil
}

// IteratePairs walks all pairs in creation order until cb returns true.
func (k Keeper) IteratePairs(ctx context.Context, cb func(pair types.Pair) (stop bool)) error {
	store := k.getStore(ctx)
	iter := storetypes.KVStorePrefixIterator(store, PairByIDKeyPrefix)
	defer iter.Close()

	for ; iter.Valid(); iter.Next() {
		pair, err := k.getPair(ctx, iter.Value())
		if err != nil {
			return err
		}
		if cb(pair) {
			break
		}
	}
	return nil
}

// GetAllPairs returns every pair in creation order.
func (k Keeper) GetAllPairs(ctx context.Context) ([]types.Pair, error) {
	pairs := []types.Pair{}
	err := k.IteratePairs(ctx, func(pair types.Pair) bool {
		pairs = append(pairs, pair)
		return false
	})
	return pairs, err
}

// GetNextPairID returns the ID the next pair will receive.
func (k Keeper) GetNextPairID(ctx context.Context) uint64 {
	bz := k.getStore(ctx).Get(NextPairIDKey)
	if bz == nil {
		return 1
	}
	return sdk.BigEndianToUint64(bz)
}

// SetNextPairID stores the pair ID counter.
func (k Keeper) SetNextPairID(ctx context.Context, id uint64) {
	k.getStore(ctx).Set(NextPairIDKey, sdk.Uint64ToBigEndian(id))
}

// InitializePair creates the empty pair record for assets and config. Only
// the factory account may initialize pairs, and each derived address is
// initialized once.
func (k Keeper) InitializePair(
	ctx context.Context,
	caller sdk.AccAddress,
	configRef string,
	config types.PairConfig,
	assetA, assetB types.Asset,
	stable *types.StableParams,
) (types.Pair, error) {
	if !caller.Equals(k.FactoryAddress()) {
		return types.Pair{}, types.ErrUnauthorized.Wrapf("pairs are initialized by the factory, not %s", caller)
	}
	if err := types.ValidateAssetPair(assetA, assetB); err != nil {
		return types.Pair{}, err
	}
	assets, _ := types.SortAssets(assetA, assetB)
	addr := PairAddress(assets, configRef)
	if k.HasPair(ctx, addr) {
		return types.Pair{}, types.ErrAlreadyInitialized.Wrapf("pair %s already initialized", addr)
	}
	if config.Kind != types.CurveStable {
		stable = nil
	}

	id := k.GetNextPairID(ctx)
	pair := types.Pair{
		ID:            id,
		Address:       addr.String(),
		Assets:        assets,
		ConfigRef:     configRef,
		Config:        config,
		Reserves:      [2]sdkmath.Int{sdkmath.ZeroInt(), sdkmath.ZeroInt()},
		TotalShares:   sdkmath.ZeroInt(),
		Status:        types.PairStatusActive,
		Stable:        stable,
		CreatedHeight: sdk.UnwrapSDKContext(ctx).BlockHeight(),
	}
	if err := k.SetPair(ctx, pair); err != nil {
		return types.Pair{}, err
	}
	k.SetNextPairID(ctx, id+1)
	return pair, nil
}

// pairsByIDStore exposes the creation order index for pagination.
func (k Keeper) pairsByIDStore(ctx context.Context) storetypes.KVStore {
	return prefix.NewStore(k.getStore(ctx), PairByIDKeyPrefix)
}
