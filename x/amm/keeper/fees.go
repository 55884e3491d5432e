package keeper

import (
	"context"
	"fmt"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/ammx-chain/ammx/x/amm/types"
)

// protocolFee is the share of a swap fee owed to the fee address. It is
// zero while no fee address is configured; the remainder of the fee stays
// in the pair reserves for liquidity providers.
func protocolFee(params types.Params, pair types.Pair, fee sdkmath.Int) sdkmath.Int {
	if params.FeeAddress == "" || fee.IsZero() {
		return sdkmath.ZeroInt()
	}
	return pair.Config.ProtocolFeeShare.Portion(fee)
}

// sendProtocolFee moves the protocol fee of a swap from the pair to the fee
// address.
func (k Keeper) sendProtocolFee(ctx context.Context, params types.Params, pair types.Pair, asset types.Asset, amount sdkmath.Int) error {
	if amount.IsZero() {
		return nil
	}
	feeAddr, err := sdk.AccAddressFromBech32(params.FeeAddress)
	if err != nil {
		return types.ErrInvalidState.Wrapf("invalid fee address %q: %v", params.FeeAddress, err)
	}
	if err := k.sendAsset(ctx, asset, sdk.MustAccAddressFromBech32(pair.Address), feeAddr, amount); err != nil {
		return fmt.Errorf("send protocol fee: %w", err)
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeProtocolFee,
			sdk.NewAttribute(types.AttributeKeyPair, pair.Address),
			sdk.NewAttribute(types.AttributeKeyAssetIn, asset.String()),
			sdk.NewAttribute(types.AttributeKeyProtocolFee, amount.String()),
			sdk.NewAttribute(types.AttributeKeyRecipient, params.FeeAddress),
		),
	)
	return nil
}

// chargeCreationFee collects the pair creation fee from non-admin creators.
func (k Keeper) chargeCreationFee(ctx context.Context, params types.Params, creator sdk.AccAddress) error {
	if params.PairCreationFee.IsZero() || creator.String() == k.authority {
		return nil
	}
	feeAddr, err := sdk.AccAddressFromBech32(params.FeeAddress)
	if err != nil {
		return types.ErrInvalidState.Wrapf("pair creation fee set without a valid fee address: %v", err)
	}
	if err := k.bankKeeper.SendCoins(ctx, creator, feeAddr, params.PairCreationFee); err != nil {
		return fmt.Errorf("pay pair creation fee %s: %w", params.PairCreationFee, err)
	}
	return nil
}
