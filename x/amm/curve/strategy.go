package curve

import (
	"errors"
	"math/big"

	sdkmath "cosmossdk.io/math"

	"github.com/ammx-chain/ammx/x/amm/types"
)

// Quote is the priced outcome of one swap.
type Quote struct {
	// AmountIn is the gross input, fee included.
	AmountIn sdkmath.Int
	// AmountInAfterFee is the part of AmountIn that moves the curve.
	AmountInAfterFee sdkmath.Int
	AmountOut        sdkmath.Int
	// Fee is AmountIn - AmountInAfterFee.
	Fee sdkmath.Int
	// Spread is the shortfall of AmountOut against the marginal price
	// before the trade.
	Spread sdkmath.Int
}

// Strategy is the math of one curve kind.
type Strategy interface {
	Kind() types.CurveKind

	// PriceSwap prices an exact input. AmountOut floors.
	PriceSwap(reserveIn, reserveOut, amountIn sdkmath.Int, fee types.FeeRate) (Quote, error)

	// PriceSwapReverse finds the input needed for at least amountOut. The
	// returned quote is the forward quote of that input, so its AmountOut
	// may exceed the request.
	PriceSwapReverse(reserveIn, reserveOut, amountOut sdkmath.Int, fee types.FeeRate) (Quote, error)

	// Invariant returns the curve invariant of the reserves.
	Invariant(reserveA, reserveB sdkmath.Int) (*big.Int, error)

	// InitialShares returns the share supply minted by the first deposit,
	// before minimum liquidity is withheld.
	InitialShares(amountA, amountB sdkmath.Int) (sdkmath.Int, error)
}

// ForKind returns the strategy of kind. amp is ignored for xyk.
func ForKind(kind types.CurveKind, amp uint64) (Strategy, error) {
	switch kind {
	case types.CurveXYK:
		return XYK{}, nil
	case types.CurveStable:
		if amp < types.MinAmp || amp > types.MaxAmp {
			return nil, types.ErrInvalidInput.Wrapf("amp %d out of range [%d, %d]", amp, types.MinAmp, types.MaxAmp)
		}
		return Stable{Amp: amp}, nil
	default:
		return nil, types.ErrInvalidInput.Wrapf("unknown curve kind %q", kind)
	}
}

// ForPair returns the strategy of pair at blockTime (unix seconds).
func ForPair(pair types.Pair, blockTime int64) (Strategy, error) {
	if pair.Config.Kind == types.CurveStable {
		if pair.Stable == nil {
			return nil, types.ErrInvalidState.Wrapf("stable pair %s has no amplification params", pair.Address)
		}
		s, err := ForKind(types.CurveStable, pair.Stable.CurrentAmp(blockTime))
		if err != nil {
			return nil, err
		}
		stable := s.(Stable)
		stable.Precisions = pair.Stable.Precisions
		return stable, nil
	}
	return ForKind(pair.Config.Kind, 0)
}

// Orient returns s set up to price swaps selling the pair asset at indexIn.
// Strategies of pairs are built in canonical asset order.
func Orient(s Strategy, indexIn int) Strategy {
	if stable, ok := s.(Stable); ok && indexIn == 1 {
		return stable.Reversed()
	}
	return s
}

func newQuote(amountIn, afterFee, amountOut, spread sdkmath.Int) Quote {
	if spread.IsNegative() {
		spread = sdkmath.ZeroInt()
	}
	return Quote{
		AmountIn:         amountIn,
		AmountInAfterFee: afterFee,
		AmountOut:        amountOut,
		Fee:              amountIn.Sub(afterFee),
		Spread:           spread,
	}
}

// settleReverse walks the gross input up from estimate until the forward
// quote covers amountOut. The step doubles, so the loop is bounded.
func settleReverse(s Strategy, reserveIn, reserveOut, amountOut, estimate sdkmath.Int, fee types.FeeRate) (Quote, error) {
	gross := estimate
	if !positive(gross) {
		gross = sdkmath.OneInt()
	}
	step := sdkmath.OneInt()
	for i := 0; i < maxAdjustments; i++ {
		q, err := s.PriceSwap(reserveIn, reserveOut, gross, fee)
		switch {
		case err == nil && q.AmountOut.GTE(amountOut):
			return q, nil
		case err != nil && !errors.Is(err, types.ErrInsufficientLiquidity):
			return Quote{}, err
		}
		if gross, err = gross.SafeAdd(step); err != nil {
			return Quote{}, types.ErrInvalidInput.Wrapf("required input overflows: %v", err)
		}
		step = step.MulRaw(2)
	}
	return Quote{}, types.ErrInsufficientLiquidity.Wrapf("no input within bounds yields %s", amountOut)
}

// CheckInvariant fails when the invariant of after is below that of before.
func CheckInvariant(s Strategy, before, after [2]sdkmath.Int) error {
	prev, err := s.Invariant(before[0], before[1])
	if err != nil {
		return err
	}
	next, err := s.Invariant(after[0], after[1])
	if err != nil {
		return err
	}
	if next.Cmp(prev) < 0 {
		return types.ErrInvalidState.Wrapf("%s invariant decreased from %s to %s", s.Kind(), prev, next)
	}
	return nil
}
