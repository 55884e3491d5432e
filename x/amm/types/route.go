package types

import (
	sdkmath "cosmossdk.io/math"
)

// Hop is one single-pair step of a route. ConfigRef optionally pins the pair
// configuration; when empty the default pair for the asset pair is used.
type Hop struct {
	AssetIn   Asset  `json:"asset_in"`
	AssetOut  Asset  `json:"asset_out"`
	ConfigRef string `json:"config_ref,omitempty"`
}

// ValidateRoute checks a route is non-empty, bounded, has no zero-length hop
// and that every hop starts with the asset the previous one produced.
func ValidateRoute(hops []Hop, maxHops uint32) error {
	if len(hops) == 0 {
		return ErrInvalidRoute.Wrap("route must contain at least one hop")
	}
	if maxHops > 0 && len(hops) > int(maxHops) {
		return ErrInvalidRoute.Wrapf("route has %d hops, maximum is %d", len(hops), maxHops)
	}
	for i, hop := range hops {
		if hop.AssetIn.Equal(hop.AssetOut) {
			return ErrInvalidRoute.Wrapf("hop %d swaps %s into itself", i, hop.AssetIn)
		}
		if i > 0 && !hops[i-1].AssetOut.Equal(hop.AssetIn) {
			return ErrInvalidRoute.Wrapf("hop %d starts with %s but hop %d produced %s",
				i, hop.AssetIn, i-1, hops[i-1].AssetOut)
		}
	}
	return nil
}

// HopResult records the amounts moved by one executed hop.
type HopResult struct {
	Pair        string      `json:"pair"`
	AssetIn     Asset       `json:"asset_in"`
	AssetOut    Asset       `json:"asset_out"`
	AmountIn    sdkmath.Int `json:"amount_in"`
	AmountOut   sdkmath.Int `json:"amount_out"`
	Fee         sdkmath.Int `json:"fee"`
	ProtocolFee sdkmath.Int `json:"protocol_fee"`
}

// RouteResult is returned by route execution and simulation.
type RouteResult struct {
	AmountIn  sdkmath.Int `json:"amount_in"`
	AmountOut sdkmath.Int `json:"amount_out"`
	Hops      []HopResult `json:"hops"`
}
