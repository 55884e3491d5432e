package curve

import (
	"math/big"

	sdkmath "cosmossdk.io/math"

	"github.com/ammx-chain/ammx/x/amm/types"
)

// Mint is the share outcome of a deposit.
type Mint struct {
	// Shares are credited to the provider.
	Shares sdkmath.Int
	// Locked is withheld forever on the first deposit and zero afterwards.
	Locked sdkmath.Int
}

// Total is the increase of the pair's share supply.
func (m Mint) Total() sdkmath.Int { return m.Shares.Add(m.Locked) }

// ComputeLPMint prices a two-sided deposit. The first deposit mints
// InitialShares minus minimumLiquidity, later deposits mint the smaller of
// the two proportional amounts, rounded down.
func ComputeLPMint(s Strategy, reserves [2]sdkmath.Int, totalShares sdkmath.Int, deposits [2]sdkmath.Int, minimumLiquidity sdkmath.Int) (Mint, error) {
	if !positive(deposits[0]) || !positive(deposits[1]) {
		return Mint{}, types.ErrInvalidInput.Wrapf("deposit amounts must be positive, got %s/%s", deposits[0], deposits[1])
	}

	if totalShares.IsNil() || totalShares.IsZero() {
		initial, err := s.InitialShares(deposits[0], deposits[1])
		if err != nil {
			return Mint{}, err
		}
		if initial.LTE(minimumLiquidity) {
			return Mint{}, types.ErrInsufficientLiquidity.Wrapf("initial shares %s do not exceed minimum liquidity %s",
				initial, minimumLiquidity)
		}
		return Mint{Shares: initial.Sub(minimumLiquidity), Locked: minimumLiquidity}, nil
	}

	if !positive(reserves[0]) || !positive(reserves[1]) {
		return Mint{}, types.ErrInvalidState.Wrapf("pair has %s shares but reserves %s/%s", totalShares, reserves[0], reserves[1])
	}

	var minted *big.Int
	for i := range deposits {
		share := new(big.Int).Mul(deposits[i].BigInt(), totalShares.BigInt())
		share.Quo(share, reserves[i].BigInt())
		if minted == nil || share.Cmp(minted) < 0 {
			minted = share
		}
	}
	shares, err := toInt(minted)
	if err != nil {
		return Mint{}, err
	}
	if shares.IsZero() {
		return Mint{}, types.ErrInvalidInput.Wrap("deposit too small to mint shares")
	}
	return Mint{Shares: shares, Locked: sdkmath.ZeroInt()}, nil
}

// ComputeWithdrawAmounts returns floor(reserve * burned / totalShares) for
// both sides.
func ComputeWithdrawAmounts(reserves [2]sdkmath.Int, totalShares, burned sdkmath.Int) ([2]sdkmath.Int, error) {
	if !positive(burned) {
		return [2]sdkmath.Int{}, types.ErrInvalidInput.Wrapf("shares to burn must be positive, got %s", burned)
	}
	if !positive(totalShares) || burned.GT(totalShares) {
		return [2]sdkmath.Int{}, types.ErrInsufficientShares.Wrapf("burning %s of %s shares", burned, totalShares)
	}

	var out [2]sdkmath.Int
	for i, r := range reserves {
		amt := new(big.Int).Mul(r.BigInt(), burned.BigInt())
		amt.Quo(amt, totalShares.BigInt())
		v, err := toInt(amt)
		if err != nil {
			return [2]sdkmath.Int{}, err
		}
		out[i] = v
	}
	return out, nil
}
