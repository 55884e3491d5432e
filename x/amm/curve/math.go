package curve

import (
	"math/big"

	sdkmath "cosmossdk.io/math"

	"github.com/ammx-chain/ammx/x/amm/types"
)

const (
	// maxNewtonIterations bounds every Newton solve of the stable invariant.
	maxNewtonIterations = 256

	// maxAdjustments bounds the correction loops that enforce the invariant
	// and reverse-quote guarantees after integer rounding.
	maxAdjustments = 64
)

var bigOne = big.NewInt(1)

// toInt converts an intermediate result back into a bounded Int.
func toInt(x *big.Int) (sdkmath.Int, error) {
	if x.Sign() < 0 {
		return sdkmath.Int{}, types.ErrInvalidState.Wrapf("negative intermediate %s", x)
	}
	if x.BitLen() > sdkmath.MaxBitLen {
		return sdkmath.Int{}, types.ErrInvalidInput.Wrapf("result exceeds %d bits", sdkmath.MaxBitLen)
	}
	return sdkmath.NewIntFromBigInt(x), nil
}

func ceilQuo(num, den *big.Int) *big.Int {
	q, m := new(big.Int).QuoRem(num, den, new(big.Int))
	if m.Sign() != 0 {
		q.Add(q, bigOne)
	}
	return q
}

func absDiffLTE1(a, b *big.Int) bool {
	d := new(big.Int).Sub(a, b)
	return d.CmpAbs(bigOne) <= 0
}

func positive(x sdkmath.Int) bool {
	return !x.IsNil() && x.IsPositive()
}

func validateReserves(reserveIn, reserveOut sdkmath.Int) error {
	if !positive(reserveIn) || !positive(reserveOut) {
		return types.ErrInvalidInput.Wrapf("reserves must be positive, got %s/%s", reserveIn, reserveOut)
	}
	return nil
}

func validateSwap(reserveIn, reserveOut, amountIn sdkmath.Int, fee types.FeeRate) error {
	if !positive(amountIn) {
		return types.ErrInvalidInput.Wrapf("amount in must be positive, got %s", amountIn)
	}
	if err := validateReserves(reserveIn, reserveOut); err != nil {
		return err
	}
	return fee.Validate()
}

func validateReverse(reserveIn, reserveOut, amountOut sdkmath.Int, fee types.FeeRate) error {
	if !positive(amountOut) {
		return types.ErrInvalidInput.Wrapf("amount out must be positive, got %s", amountOut)
	}
	if err := validateReserves(reserveIn, reserveOut); err != nil {
		return err
	}
	if amountOut.GTE(reserveOut) {
		return types.ErrInsufficientLiquidity.Wrapf("amount out %s must be below reserve %s", amountOut, reserveOut)
	}
	return fee.Validate()
}
