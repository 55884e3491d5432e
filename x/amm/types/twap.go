package types

import (
	sdkmath "cosmossdk.io/math"
)

// PriceAccumulator is the time weighted price record of a pair. Cumulative
// grows by the spot price times the seconds it held: Cumulative[0] prices
// the first pair asset in the second, Cumulative[1] the reverse. The TWAP
// between two observations is the cumulative difference over the time
// difference.
type PriceAccumulator struct {
	Pair          string               `json:"pair"`
	Cumulative    [2]sdkmath.LegacyDec `json:"cumulative"`
	TotalSeconds  uint64               `json:"total_seconds"`
	LastTimestamp int64                `json:"last_timestamp"`
}

// NewPriceAccumulator starts an empty record at blockTime.
func NewPriceAccumulator(pair string, blockTime int64) PriceAccumulator {
	return PriceAccumulator{
		Pair:          pair,
		Cumulative:    [2]sdkmath.LegacyDec{sdkmath.LegacyZeroDec(), sdkmath.LegacyZeroDec()},
		LastTimestamp: blockTime,
	}
}

// Average is the mean price of both directions over every priced second.
func (a PriceAccumulator) Average() [2]sdkmath.LegacyDec {
	if a.TotalSeconds == 0 {
		return [2]sdkmath.LegacyDec{sdkmath.LegacyZeroDec(), sdkmath.LegacyZeroDec()}
	}
	secs := sdkmath.NewIntFromUint64(a.TotalSeconds)
	return [2]sdkmath.LegacyDec{a.Cumulative[0].QuoInt(secs), a.Cumulative[1].QuoInt(secs)}
}

// Validate checks a stored accumulator.
func (a PriceAccumulator) Validate() error {
	if a.Pair == "" {
		return ErrInvalidState.Wrap("price accumulator has no pair")
	}
	for i, c := range a.Cumulative {
		if c.IsNil() || c.IsNegative() {
			return ErrInvalidState.Wrapf("price accumulator of %s: cumulative %d is negative or unset", a.Pair, i)
		}
	}
	if a.LastTimestamp < 0 {
		return ErrInvalidState.Wrapf("price accumulator of %s: negative timestamp", a.Pair)
	}
	return nil
}
