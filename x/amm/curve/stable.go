package curve

import (
	"math/big"

	sdkmath "cosmossdk.io/math"

	"github.com/ammx-chain/ammx/x/amm/types"
)

const nCoins = 2

// Stable is the two-asset StableSwap curve
//
//	A*n^n*(x+y) + D = A*n^n*D + D^(n+1) / (n^n*x*y)
//
// with amplification Amp. Precisions are the decimals of the first and
// second reserve argument; reserves are scaled up to the larger one before
// solving and outputs are floored back to the output asset's precision.
// Equal precisions, including the zero value, need no scaling.
type Stable struct {
	Amp        uint64
	Precisions [2]uint32
}

var _ Strategy = Stable{}

func (Stable) Kind() types.CurveKind { return types.CurveStable }

func (s Stable) ann() *big.Int {
	return new(big.Int).Mul(new(big.Int).SetUint64(s.Amp), big.NewInt(nCoins))
}

// Reversed swaps the precisions so the strategy prices the opposite
// direction.
func (s Stable) Reversed() Stable {
	s.Precisions[0], s.Precisions[1] = s.Precisions[1], s.Precisions[0]
	return s
}

// scales returns the factors that lift each side to the common precision.
func (s Stable) scales() (*big.Int, *big.Int) {
	p0, p1 := s.Precisions[0], s.Precisions[1]
	top := max(p0, p1)
	return pow10(top - p0), pow10(top - p1)
}

func pow10(exp uint32) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(exp)), nil)
}

// computeD solves the invariant for D by Newton iteration starting at x+y.
func computeD(ann, x, y *big.Int) (*big.Int, error) {
	sum := new(big.Int).Add(x, y)
	if sum.Sign() == 0 {
		return new(big.Int), nil
	}
	if x.Sign() <= 0 || y.Sign() <= 0 {
		return nil, types.ErrInvalidInput.Wrap("stable invariant needs both reserves positive")
	}
	// integer division makes the iteration order dependent
	if x.Cmp(y) > 0 {
		x, y = y, x
	}

	n := big.NewInt(nCoins)
	nx := new(big.Int).Mul(x, n)
	ny := new(big.Int).Mul(y, n)
	annSum := new(big.Int).Mul(ann, sum)
	annLessOne := new(big.Int).Sub(ann, bigOne)

	d := new(big.Int).Set(sum)
	for i := 0; i < maxNewtonIterations; i++ {
		dP := new(big.Int).Mul(d, d)
		dP.Quo(dP, nx)
		dP.Mul(dP, d)
		dP.Quo(dP, ny)

		num := new(big.Int).Mul(dP, n)
		num.Add(num, annSum)
		num.Mul(num, d)

		den := new(big.Int).Mul(annLessOne, d)
		den.Add(den, new(big.Int).Mul(big.NewInt(nCoins+1), dP))

		prev := d
		d = num.Quo(num, den)
		if absDiffLTE1(d, prev) {
			return d, nil
		}
	}
	return nil, types.ErrInvalidState.Wrapf("stable invariant did not converge after %d iterations", maxNewtonIterations)
}

// computeY returns the reserve of the other asset that keeps invariant d
// when one reserve is x.
func computeY(ann, x, d *big.Int) (*big.Int, error) {
	if x.Sign() <= 0 {
		return nil, types.ErrInvalidInput.Wrap("reserve must be positive")
	}
	n := big.NewInt(nCoins)

	c := new(big.Int).Mul(d, d)
	c.Quo(c, new(big.Int).Mul(x, n))
	c.Mul(c, d)
	c.Quo(c, new(big.Int).Mul(ann, n))

	b := new(big.Int).Quo(d, ann)
	b.Add(b, x)

	y := new(big.Int).Set(d)
	for i := 0; i < maxNewtonIterations; i++ {
		num := new(big.Int).Mul(y, y)
		num.Add(num, c)

		den := new(big.Int).Lsh(y, 1)
		den.Add(den, b)
		den.Sub(den, d)
		if den.Sign() <= 0 {
			return nil, types.ErrInvalidState.Wrap("stable solver left its domain")
		}

		prev := y
		y = num.Quo(num, den)
		if absDiffLTE1(y, prev) {
			return y, nil
		}
	}
	return nil, types.ErrInvalidState.Wrapf("stable solver did not converge after %d iterations", maxNewtonIterations)
}

// PriceSwap solves for the new output reserve, keeps one unit in the pool
// and lowers the output until the invariant of the reserves the swap leaves
// behind has not decreased.
func (s Stable) PriceSwap(reserveIn, reserveOut, amountIn sdkmath.Int, fee types.FeeRate) (Quote, error) {
	if err := validateSwap(reserveIn, reserveOut, amountIn, fee); err != nil {
		return Quote{}, err
	}
	afterFee := fee.Remainder(amountIn)
	if afterFee.IsZero() {
		return Quote{}, types.ErrInsufficientLiquidity.Wrapf("amount in %s yields no output", amountIn)
	}

	ann := s.ann()
	scaleIn, scaleOut := s.scales()
	x := new(big.Int).Mul(reserveIn.BigInt(), scaleIn)
	y := new(big.Int).Mul(reserveOut.BigInt(), scaleOut)
	d0, err := computeD(ann, x, y)
	if err != nil {
		return Quote{}, err
	}
	newX := new(big.Int).Mul(afterFee.BigInt(), scaleIn)
	newX.Add(newX, x)
	newY, err := computeY(ann, newX, d0)
	if err != nil {
		return Quote{}, err
	}

	out := new(big.Int).Sub(y, newY)
	out.Sub(out, bigOne)
	out.Quo(out, scaleOut)
	step := big.NewInt(1)
	for i := 0; ; i++ {
		if out.Sign() <= 0 {
			return Quote{}, types.ErrInsufficientLiquidity.Wrapf("amount in %s yields no output", amountIn)
		}
		left := new(big.Int).Mul(out, scaleOut)
		d1, err := computeD(ann, newX, left.Sub(y, left))
		if err != nil {
			return Quote{}, err
		}
		if d1.Cmp(d0) >= 0 {
			break
		}
		if i == maxAdjustments {
			return Quote{}, types.ErrInvalidState.Wrap("stable output could not preserve the invariant")
		}
		out.Sub(out, step)
		step.Lsh(step, 1)
	}

	amountOut, err := toInt(out)
	if err != nil {
		return Quote{}, err
	}
	// the pair prices near 1:1, so the spread is the input in output units
	// minus the output
	par := new(big.Int).Mul(afterFee.BigInt(), scaleIn)
	par.Quo(par, scaleOut)
	parOut, err := toInt(par)
	if err != nil {
		return Quote{}, err
	}
	return newQuote(amountIn, afterFee, amountOut, parOut.Sub(amountOut)), nil
}

// PriceSwapReverse solves for the input reserve that reaches the requested
// output reserve, adds one unit and grosses the difference up by the fee.
func (s Stable) PriceSwapReverse(reserveIn, reserveOut, amountOut sdkmath.Int, fee types.FeeRate) (Quote, error) {
	if err := validateReverse(reserveIn, reserveOut, amountOut, fee); err != nil {
		return Quote{}, err
	}

	ann := s.ann()
	scaleIn, scaleOut := s.scales()
	x := new(big.Int).Mul(reserveIn.BigInt(), scaleIn)
	y := new(big.Int).Mul(reserveOut.BigInt(), scaleOut)
	d0, err := computeD(ann, x, y)
	if err != nil {
		return Quote{}, err
	}
	left := new(big.Int).Sub(reserveOut.BigInt(), amountOut.BigInt())
	newX, err := computeY(ann, left.Mul(left, scaleOut), d0)
	if err != nil {
		return Quote{}, err
	}

	need := newX.Sub(newX, x)
	need.Add(need, bigOne)
	need = ceilQuo(need, scaleIn)
	if need.Sign() <= 0 {
		need.SetInt64(1)
	}
	afterFee, err := toInt(need)
	if err != nil {
		return Quote{}, err
	}
	gross, err := fee.GrossUp(afterFee)
	if err != nil {
		return Quote{}, err
	}
	return settleReverse(s, reserveIn, reserveOut, amountOut, gross, fee)
}

// Invariant returns D over the scaled reserves.
func (s Stable) Invariant(reserveA, reserveB sdkmath.Int) (*big.Int, error) {
	if reserveA.IsNil() || reserveB.IsNil() || reserveA.IsNegative() || reserveB.IsNegative() {
		return nil, types.ErrInvalidInput.Wrap("reserves must be non-negative")
	}
	scaleA, scaleB := s.scales()
	return computeD(s.ann(),
		new(big.Int).Mul(reserveA.BigInt(), scaleA),
		new(big.Int).Mul(reserveB.BigInt(), scaleB))
}

// InitialShares returns D of the first deposit, in the common precision.
func (s Stable) InitialShares(amountA, amountB sdkmath.Int) (sdkmath.Int, error) {
	if !positive(amountA) || !positive(amountB) {
		return sdkmath.Int{}, types.ErrInvalidInput.Wrap("initial deposit amounts must be positive")
	}
	d, err := s.Invariant(amountA, amountB)
	if err != nil {
		return sdkmath.Int{}, err
	}
	return toInt(d)
}
