package keeper

import (
	"context"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/ammx-chain/ammx/x/amm/types"
)

// sendAsset moves amount of asset between accounts through the bank for
// native assets or the token keeper for token assets. Zero amounts are a
// no-op.
func (k Keeper) sendAsset(ctx context.Context, asset types.Asset, from, to sdk.AccAddress, amount sdkmath.Int) error {
	if amount.IsNil() || amount.IsZero() {
		return nil
	}
	if amount.IsNegative() {
		return types.ErrInvalidInput.Wrapf("cannot send negative amount %s of %s", amount, asset)
	}

	switch asset.Type {
	case types.AssetTypeNative:
		return k.bankKeeper.SendCoins(ctx, from, to, sdk.NewCoins(sdk.NewCoin(asset.Ref, amount)))
	case types.AssetTypeToken:
		if k.tokenKeeper == nil {
			return types.ErrUnsupportedAsset.Wrapf("token assets are not enabled: %s", asset)
		}
		return k.tokenKeeper.Transfer(ctx, asset.Ref, from, to, amount)
	default:
		return types.ErrUnsupportedAsset.Wrapf("unknown asset type %q", asset.Type)
	}
}

// assetBalance returns the balance of owner in asset.
func (k Keeper) assetBalance(ctx context.Context, asset types.Asset, owner sdk.AccAddress) (sdkmath.Int, error) {
	switch asset.Type {
	case types.AssetTypeNative:
		return k.bankKeeper.GetBalance(ctx, owner, asset.Ref).Amount, nil
	case types.AssetTypeToken:
		if k.tokenKeeper == nil {
			return sdkmath.Int{}, types.ErrUnsupportedAsset.Wrapf("token assets are not enabled: %s", asset)
		}
		return k.tokenKeeper.BalanceOf(ctx, asset.Ref, owner)
	default:
		return sdkmath.Int{}, types.ErrUnsupportedAsset.Wrapf("unknown asset type %q", asset.Type)
	}
}
