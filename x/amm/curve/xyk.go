package curve

import (
	"math/big"

	sdkmath "cosmossdk.io/math"

	"github.com/ammx-chain/ammx/x/amm/types"
)

// XYK is the constant product curve x * y = k.
type XYK struct{}

var _ Strategy = XYK{}

func (XYK) Kind() types.CurveKind { return types.CurveXYK }

// PriceSwap computes floor(reserveOut * a / (reserveIn + a)) where a is the
// input after fee.
func (XYK) PriceSwap(reserveIn, reserveOut, amountIn sdkmath.Int, fee types.FeeRate) (Quote, error) {
	if err := validateSwap(reserveIn, reserveOut, amountIn, fee); err != nil {
		return Quote{}, err
	}

	afterFee := fee.Remainder(amountIn)
	a := afterFee.BigInt()

	num := new(big.Int).Mul(reserveOut.BigInt(), a)
	den := new(big.Int).Add(reserveIn.BigInt(), a)
	amountOut, err := toInt(num.Quo(num, den))
	if err != nil {
		return Quote{}, err
	}
	if amountOut.IsZero() {
		return Quote{}, types.ErrInsufficientLiquidity.Wrapf("amount in %s yields no output", amountIn)
	}

	ideal := new(big.Int).Mul(reserveOut.BigInt(), a)
	ideal.Quo(ideal, reserveIn.BigInt())
	spread, err := toInt(ideal.Sub(ideal, amountOut.BigInt()))
	if err != nil {
		spread = sdkmath.ZeroInt()
	}

	return newQuote(amountIn, afterFee, amountOut, spread), nil
}

// PriceSwapReverse computes ceil(reserveIn * out / (reserveOut - out)) and
// grosses it up by the fee.
func (x XYK) PriceSwapReverse(reserveIn, reserveOut, amountOut sdkmath.Int, fee types.FeeRate) (Quote, error) {
	if err := validateReverse(reserveIn, reserveOut, amountOut, fee); err != nil {
		return Quote{}, err
	}

	num := new(big.Int).Mul(reserveIn.BigInt(), amountOut.BigInt())
	den := new(big.Int).Sub(reserveOut.BigInt(), amountOut.BigInt())
	afterFee, err := toInt(ceilQuo(num, den))
	if err != nil {
		return Quote{}, err
	}
	gross, err := fee.GrossUp(afterFee)
	if err != nil {
		return Quote{}, err
	}
	return settleReverse(x, reserveIn, reserveOut, amountOut, gross, fee)
}

// Invariant returns reserveA * reserveB.
func (XYK) Invariant(reserveA, reserveB sdkmath.Int) (*big.Int, error) {
	if reserveA.IsNil() || reserveB.IsNil() || reserveA.IsNegative() || reserveB.IsNegative() {
		return nil, types.ErrInvalidInput.Wrap("reserves must be non-negative")
	}
	return new(big.Int).Mul(reserveA.BigInt(), reserveB.BigInt()), nil
}

// InitialShares returns floor(sqrt(amountA * amountB)).
func (XYK) InitialShares(amountA, amountB sdkmath.Int) (sdkmath.Int, error) {
	if !positive(amountA) || !positive(amountB) {
		return sdkmath.Int{}, types.ErrInvalidInput.Wrap("initial deposit amounts must be positive")
	}
	product := new(big.Int).Mul(amountA.BigInt(), amountB.BigInt())
	return toInt(product.Sqrt(product))
}
