package keeper

import (
	"bytes"
	"fmt"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/ammx-chain/ammx/x/amm/types"
)

// RegisterInvariants registers all amm invariants
func RegisterInvariants(ir sdk.InvariantRegistry, k Keeper) {
	ir.RegisterRoute(types.ModuleName, "pair-reserves", PairReservesInvariant(k))
	ir.RegisterRoute(types.ModuleName, "pair-shares", PairSharesInvariant(k))
	ir.RegisterRoute(types.ModuleName, "pair-identity", PairIdentityInvariant(k))
}

// AllInvariants runs all invariants of the amm module
func AllInvariants(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		res, stop := PairReservesInvariant(k)(ctx)
		if stop {
			return res, stop
		}

		res, stop = PairSharesInvariant(k)(ctx)
		if stop {
			return res, stop
		}

		return PairIdentityInvariant(k)(ctx)
	}
}

// PairReservesInvariant checks that every pair account holds at least its
// recorded reserves
func PairReservesInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		err := k.IteratePairs(ctx, func(pair types.Pair) bool {
			pairAcc := sdk.MustAccAddressFromBech32(pair.Address)
			for i, asset := range pair.Assets {
				balance, err := k.assetBalance(ctx, asset, pairAcc)
				if err != nil {
					count++
					msg += fmt.Sprintf("pair %s: balance of %s unavailable: %v\n", pair.Address, asset, err)
					continue
				}
				// Donations may push a balance above the reserve, never below.
				if balance.LT(pair.Reserves[i]) {
					count++
					msg += fmt.Sprintf("pair %s: balance of %s (%s) < reserve (%s)\n",
						pair.Address, asset, balance, pair.Reserves[i])
				}
			}
			return false
		})
		if err != nil {
			count++
			msg += fmt.Sprintf("iterate pairs: %v\n", err)
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "pair-reserves",
			fmt.Sprintf("found %d pair reserves above balance\n%s", count, msg),
		), broken
	}
}

// PairSharesInvariant checks that owned shares never exceed the share supply
// and that a pair has shares exactly when it has reserves
func PairSharesInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		err := k.IteratePairs(ctx, func(pair types.Pair) bool {
			empty := pair.Reserves[0].IsZero() && pair.Reserves[1].IsZero()
			if pair.TotalShares.IsZero() != empty {
				count++
				msg += fmt.Sprintf("pair %s: total shares %s with reserves %s/%s\n",
					pair.Address, pair.TotalShares, pair.Reserves[0], pair.Reserves[1])
			}

			owned := sdkmath.ZeroInt()
			pairAcc := sdk.MustAccAddressFromBech32(pair.Address)
			if err := k.IterateShares(ctx, pairAcc, func(_ sdk.AccAddress, shares sdkmath.Int) bool {
				owned = owned.Add(shares)
				return false
			}); err != nil {
				count++
				msg += fmt.Sprintf("pair %s: iterate shares: %v\n", pair.Address, err)
				return false
			}
			if owned.GT(pair.TotalShares) {
				count++
				msg += fmt.Sprintf("pair %s: owned shares (%s) > total shares (%s)\n",
					pair.Address, owned, pair.TotalShares)
			}
			return false
		})
		if err != nil {
			count++
			msg += fmt.Sprintf("iterate pairs: %v\n", err)
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "pair-shares",
			fmt.Sprintf("found %d pairs with invalid shares\n%s", count, msg),
		), broken
	}
}

// PairIdentityInvariant checks that each pair sits at the address derived
// from its identity and that the identity index points back to it
func PairIdentityInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		store := k.getStore(ctx)
		err := k.IteratePairs(ctx, func(pair types.Pair) bool {
			derived := PairAddress(pair.Assets, pair.ConfigRef)
			if derived.String() != pair.Address {
				count++
				msg += fmt.Sprintf("pair %d: stored at %s, identity derives %s\n", pair.ID, pair.Address, derived)
			}
			if indexed := store.Get(PairIdentityKey(pair.Assets, pair.ConfigRef)); !bytes.Equal(indexed, derived) {
				count++
				msg += fmt.Sprintf("pair %d: identity index points to %s\n", pair.ID, sdk.AccAddress(indexed))
			}
			if !store.Has(PairsByAssetsKey(pair.Assets, pair.ID)) {
				count++
				msg += fmt.Sprintf("pair %d: missing from asset index\n", pair.ID)
			}
			return false
		})
		if err != nil {
			count++
			msg += fmt.Sprintf("iterate pairs: %v\n", err)
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "pair-identity",
			fmt.Sprintf("found %d pair identity mismatches\n%s", count, msg),
		), broken
	}
}
