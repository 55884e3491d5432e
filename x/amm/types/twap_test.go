package types

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"
)

func TestPriceAccumulatorAverage(t *testing.T) {
	acc := NewPriceAccumulator(tokenAddr(1), 10)
	require.NoError(t, acc.Validate())
	require.True(t, acc.Average()[0].IsZero())

	acc.Cumulative = [2]sdkmath.LegacyDec{sdkmath.LegacyNewDec(300), sdkmath.LegacyNewDecWithPrec(75, 1)}
	acc.TotalSeconds = 150
	avg := acc.Average()
	require.Equal(t, sdkmath.LegacyNewDec(2), avg[0])
	require.Equal(t, sdkmath.LegacyNewDecWithPrec(5, 2), avg[1])

	acc.Pair = ""
	require.ErrorIs(t, acc.Validate(), ErrInvalidState)
}
