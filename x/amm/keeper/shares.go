package keeper

import (
	"context"
	"fmt"

	sdkmath "cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/ammx-chain/ammx/x/amm/types"
)

// GetShares returns the LP shares owner holds in pair.
func (k Keeper) GetShares(ctx context.Context, pair, owner sdk.AccAddress) (sdkmath.Int, error) {
	bz := k.getStore(ctx).Get(ShareKey(pair, owner))
	if bz == nil {
		return sdkmath.ZeroInt(), nil
	}
	var shares sdkmath.Int
	if err := shares.Unmarshal(bz); err != nil {
		return sdkmath.Int{}, fmt.Errorf("GetShares: unmarshal: %w", err)
	}
	return shares, nil
}

// SetShares stores a share balance, deleting it when zero.
func (k Keeper) SetShares(ctx context.Context, pair, owner sdk.AccAddress, shares sdkmath.Int) error {
	store := k.getStore(ctx)
	key := ShareKey(pair, owner)
	if shares.IsZero() {
		store.Delete(key)
		return nil
	}
	if shares.IsNegative() {
		return types.ErrInvalidState.Wrapf("negative share balance %s for %s", shares, owner)
	}
	bz, err := shares.Marshal()
	if err != nil {
		return fmt.Errorf("SetShares: marshal: %w", err)
	}
	store.Set(key, bz)
	return nil
}

func (k Keeper) addShares(ctx context.Context, pair, owner sdk.AccAddress, delta sdkmath.Int) error {
	current, err := k.GetShares(ctx, pair, owner)
	if err != nil {
		return err
	}
	updated, err := current.SafeAdd(delta)
	if err != nil {
		return types.ErrInvalidState.Wrapf("share balance overflow: %v", err)
	}
	return k.SetShares(ctx, pair, owner, updated)
}

func (k Keeper) subShares(ctx context.Context, pair, owner sdk.AccAddress, delta sdkmath.Int) error {
	current, err := k.GetShares(ctx, pair, owner)
	if err != nil {
		return err
	}
	if current.LT(delta) {
		return types.ErrInsufficientShares.Wrapf("owner %s holds %s shares, needs %s", owner, current, delta)
	}
	return k.SetShares(ctx, pair, owner, current.Sub(delta))
}

// IterateShares walks every share balance of pair.
func (k Keeper) IterateShares(ctx context.Context, pair sdk.AccAddress, cb func(owner sdk.AccAddress, shares sdkmath.Int) (stop bool)) error {
	prefixKey := SharesByPairPrefix(pair)
	iter := storetypes.KVStorePrefixIterator(k.getStore(ctx), prefixKey)
	defer iter.Close()

	for ; iter.Valid(); iter.Next() {
		owner := sdk.AccAddress(iter.Key()[len(prefixKey):])
		var shares sdkmath.Int
		if err := shares.Unmarshal(iter.Value()); err != nil {
			return fmt.Errorf("IterateShares: unmarshal: %w", err)
		}
		if cb(owner, shares) {
			break
		}
	}
	return nil
}
