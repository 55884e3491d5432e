package keeper

import (
	"context"
	"strconv"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/ammx-chain/ammx/x/amm/types"
)

// ValidateAuthority checks that actual is the keeper authority.
func (k Keeper) ValidateAuthority(actual string) error {
	if actual != k.authority {
		return types.ErrUnauthorized.Wrapf("invalid authority; expected %s, got %s", k.authority, actual)
	}
	return nil
}

// UpdateParams replaces the module params.
func (k Keeper) UpdateParams(ctx context.Context, authority string, params types.Params) error {
	if err := k.ValidateAuthority(authority); err != nil {
		return err
	}
	if err := k.SetParams(ctx, params); err != nil {
		return err
	}
	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeParamsUpdated,
			sdk.NewAttribute(types.AttributeKeyAuthority, authority),
		),
	)
	return nil
}

// DeprecatePair flags a pair as deprecated. Deprecated pairs keep their
// identity map entry and still settle direct swaps and withdrawals, but take
// no new liquidity and are skipped by the router.
func (k Keeper) DeprecatePair(ctx context.Context, authority, pairAddr string) error {
	if err := k.ValidateAuthority(authority); err != nil {
		return err
	}
	pair, err := k.GetPair(ctx, pairAddr)
	if err != nil {
		return err
	}
	if pair.IsDeprecated() {
		return nil
	}
	pair.Status = types.PairStatusDeprecated
	if err := k.SetPair(ctx, pair); err != nil {
		return err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypePairDeprecated,
			sdk.NewAttribute(types.AttributeKeyPair, pair.Address),
			sdk.NewAttribute(types.AttributeKeyPairID, strconv.FormatUint(pair.ID, 10)),
		),
	)
	k.metrics.PairsDeprecated.Inc()
	k.Logger(ctx).Info("pair deprecated", "pair", pair.Address)
	return nil
}

// UpdatePairFee changes the fee rate of one pair within its config's max
// fee rate.
func (k Keeper) UpdatePairFee(ctx context.Context, authority, pairAddr string, fee types.FeeRate) error {
	if err := k.ValidateAuthority(authority); err != nil {
		return err
	}
	pair, err := k.GetPair(ctx, pairAddr)
	if err != nil {
		return err
	}
	if err := fee.Validate(); err != nil {
		return err
	}
	if fee.Cmp(pair.Config.MaxFeeRate) > 0 {
		return types.ErrInvalidInput.Wrapf("fee rate %s exceeds max fee rate %s", fee, pair.Config.MaxFeeRate)
	}
	pair.Config.FeeRate = fee
	if err := k.SetPair(ctx, pair); err != nil {
		return err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypePairFeeUpdated,
			sdk.NewAttribute(types.AttributeKeyPair, pair.Address),
			sdk.NewAttribute(types.AttributeKeyFeeRate, fee.String()),
		),
	)
	return nil
}

// StartAmpRamp moves a stable pair's amplification linearly from its current
// value to nextAmp by endTime (unix seconds).
func (k Keeper) StartAmpRamp(ctx context.Context, authority, pairAddr string, nextAmp uint64, endTime int64) error {
	if err := k.ValidateAuthority(authority); err != nil {
		return err
	}
	pair, err := k.GetPair(ctx, pairAddr)
	if err != nil {
		return err
	}
	if pair.Config.Kind != types.CurveStable || pair.Stable == nil {
		return types.ErrInvalidInput.Wrapf("pair %s has no amplification", pair.Address)
	}
	if nextAmp < types.MinAmp || nextAmp > types.MaxAmp {
		return types.ErrInvalidInput.Wrapf("amp %d out of range [%d, %d]", nextAmp, types.MinAmp, types.MaxAmp)
	}

	now := sdk.UnwrapSDKContext(ctx).BlockTime().Unix()
	if endTime < now+types.MinAmpChangingTime {
		return types.ErrInvalidInput.Wrapf("amp ramp must last at least %d seconds", types.MinAmpChangingTime)
	}
	current := pair.Stable.CurrentAmp(now)
	if nextAmp > current*types.MaxAmpChange || nextAmp*types.MaxAmpChange < current {
		return types.ErrInvalidInput.Wrapf("amp may change by at most %dx per ramp: %d -> %d", types.MaxAmpChange, current, nextAmp)
	}

	pair.Stable = &types.StableParams{
		InitAmp:     current,
		NextAmp:     nextAmp,
		InitAmpTime: now,
		NextAmpTime: endTime,
	}
	return k.setAmpRamp(ctx, pair)
}

// StopAmpRamp freezes a stable pair's amplification at its current value.
func (k Keeper) StopAmpRamp(ctx context.Context, authority, pairAddr string) error {
	if err := k.ValidateAuthority(authority); err != nil {
		return err
	}
	pair, err := k.GetPair(ctx, pairAddr)
	if err != nil {
		return err
	}
	if pair.Config.Kind != types.CurveStable || pair.Stable == nil {
		return types.ErrInvalidInput.Wrapf("pair %s has no amplification", pair.Address)
	}

	now := sdk.UnwrapSDKContext(ctx).BlockTime().Unix()
	current := pair.Stable.CurrentAmp(now)
	pair.Stable = &types.StableParams{
		InitAmp:     current,
		NextAmp:     current,
		InitAmpTime: now,
		NextAmpTime: now,
	}
	return k.setAmpRamp(ctx, pair)
}

func (k Keeper) setAmpRamp(ctx context.Context, pair types.Pair) error {
	if err := k.SetPair(ctx, pair); err != nil {
		return err
	}
	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeAmpRamp,
			sdk.NewAttribute(types.AttributeKeyPair, pair.Address),
			sdk.NewAttribute(types.AttributeKeyAmp, strconv.FormatUint(pair.Stable.InitAmp, 10)),
			sdk.NewAttribute(types.AttributeKeyNextAmp, strconv.FormatUint(pair.Stable.NextAmp, 10)),
			sdk.NewAttribute(types.AttributeKeyNextAmpTime, strconv.FormatInt(pair.Stable.NextAmpTime, 10)),
		),
	)
	return nil
}
