package keeper

import (
	"context"
	"fmt"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/ammx-chain/ammx/x/amm/types"
)

// InitGenesis initializes the amm module's state from a genesis state
func (k Keeper) InitGenesis(ctx context.Context, genState types.GenesisState) error {
	if err := genState.Validate(); err != nil {
		return fmt.Errorf("invalid genesis: %w", err)
	}

	if err := k.SetParams(ctx, genState.Params); err != nil {
		return fmt.Errorf("failed to set params: %w", err)
	}

	for _, cfg := range genState.PairConfigs {
		if err := k.SetPairConfig(ctx, cfg); err != nil {
			return fmt.Errorf("failed to set pair config %s: %w", cfg.Ref(), err)
		}
	}

	store := k.getStore(ctx)
	for _, pair := range genState.Pairs {
		addr := PairAddress(pair.Assets, pair.ConfigRef)
		if addr.String() != pair.Address {
			return fmt.Errorf("pair %d: address %s does not match derived address %s", pair.ID, pair.Address, addr)
		}
		if err := k.SetPair(ctx, pair); err != nil {
			return fmt.Errorf("failed to set pair %d: %w", pair.ID, err)
		}
		store.Set(PairIdentityKey(pair.Assets, pair.ConfigRef), addr)
		store.Set(PairsByAssetsKey(pair.Assets, pair.ID), addr)
	}

	for _, rec := range genState.Shares {
		pairAddr, err := sdk.AccAddressFromBech32(rec.Pair)
		if err != nil {
			return fmt.Errorf("invalid share pair %s: %w", rec.Pair, err)
		}
		owner, err := sdk.AccAddressFromBech32(rec.Owner)
		if err != nil {
			return fmt.Errorf("invalid share owner %s: %w", rec.Owner, err)
		}
		if err := k.SetShares(ctx, pairAddr, owner, rec.Shares); err != nil {
			return fmt.Errorf("failed to set shares of %s in %s: %w", rec.Owner, rec.Pair, err)
		}
	}

	for _, acc := range genState.PriceAccumulators {
		if err := k.SetPriceAccumulator(ctx, acc); err != nil {
			return fmt.Errorf("failed to set price accumulator of %s: %w", acc.Pair, err)
		}
	}

	k.SetNextPairID(ctx, genState.NextPairID)
	return nil
}

// ExportGenesis returns the amm module's exported genesis
func (k Keeper) ExportGenesis(ctx context.Context) (*types.GenesisState, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get params: %w", err)
	}

	configs, err := k.GetAllPairConfigs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get pair configs: %w", err)
	}

	pairs, err := k.GetAllPairs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get pairs: %w", err)
	}

	shares := []types.ShareRecord{}
	for _, pair := range pairs {
		pairAcc := sdk.MustAccAddressFromBech32(pair.Address)
		err := k.IterateShares(ctx, pairAcc, func(owner sdk.AccAddress, amount sdkmath.Int) bool {
			shares = append(shares, types.ShareRecord{
				Pair:   pair.Address,
				Owner:  owner.String(),
				Shares: amount,
			})
			return false
		})
		if err != nil {
			return nil, fmt.Errorf("failed to export shares of %s: %w", pair.Address, err)
		}
	}

	accumulators, err := k.GetAllPriceAccumulators(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get price accumulators: %w", err)
	}

	return &types.GenesisState{
		Params:      params,
		PairConfigs: configs,
		Pairs:       pairs,
		Shares:      shares,
		NextPairID:  k.GetNextPairID(ctx),

		PriceAccumulators: accumulators,
	}, nil
}
