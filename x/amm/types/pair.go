package types

import (
	sdkmath "cosmossdk.io/math"
)

// PairStatus is the lifecycle flag of a deployed pair.
type PairStatus string

const (
	PairStatusActive     PairStatus = "active"
	PairStatusDeprecated PairStatus = "deprecated"
)

// Pair is the persisted state of one pool. Assets, Reserves are kept in
// canonical asset order.
type Pair struct {
	ID            uint64         `json:"id"`
	Address       string         `json:"address"`
	Assets        [2]Asset       `json:"assets"`
	ConfigRef     string         `json:"config_ref"`
	Config        PairConfig     `json:"config"`
	Reserves      [2]sdkmath.Int `json:"reserves"`
	TotalShares   sdkmath.Int    `json:"total_shares"`
	Status        PairStatus     `json:"status"`
	Stable        *StableParams  `json:"stable,omitempty"`
	CreatedHeight int64          `json:"created_height"`
	// TradingStart is the unix time swaps open at. Liquidity may be
	// provided before it.
	TradingStart int64 `json:"trading_start,omitempty"`
}

// IsDeprecated reports whether the pair has been flagged by the admin.
func (p Pair) IsDeprecated() bool { return p.Status == PairStatusDeprecated }

// IndexOf returns the side of asset in the pair.
func (p Pair) IndexOf(asset Asset) (int, error) {
	switch {
	case p.Assets[0].Equal(asset):
		return 0, nil
	case p.Assets[1].Equal(asset):
		return 1, nil
	default:
		return -1, ErrUnsupportedAsset.Wrapf("asset %s is not traded by pair %s (%s/%s)",
			asset, p.Address, p.Assets[0], p.Assets[1])
	}
}

// OrderAmounts maps amounts given per asset onto the pair's canonical order.
// Both pair assets must be present exactly once.
func (p Pair) OrderAmounts(amounts []AssetAmount) ([2]sdkmath.Int, error) {
	var out [2]sdkmath.Int
	if len(amounts) != 2 {
		return out, ErrInvalidInput.Wrapf("expected amounts for both pair assets, got %d", len(amounts))
	}
	for _, a := range amounts {
		i, err := p.IndexOf(a.Asset)
		if err != nil {
			return out, err
		}
		if !out[i].IsNil() {
			return out, ErrInvalidInput.Wrapf("asset %s given twice", a.Asset)
		}
		if a.Amount.IsNil() || a.Amount.IsNegative() {
			return out, ErrInvalidInput.Wrapf("amount of %s must not be negative", a.Asset)
		}
		out[i] = a.Amount
	}
	return out, nil
}

// AssetAmounts pairs amounts in canonical order with the pair's assets.
func (p Pair) AssetAmounts(amounts [2]sdkmath.Int) []AssetAmount {
	return []AssetAmount{
		NewAssetAmount(p.Assets[0], amounts[0]),
		NewAssetAmount(p.Assets[1], amounts[1]),
	}
}

// CheckTradingStarted fails while blockTime is before the trading start.
func (p Pair) CheckTradingStarted(blockTime int64) error {
	if blockTime < p.TradingStart {
		return ErrTradingNotStarted.Wrapf("pair %s opens for trading at %d, block time is %d", p.Address, p.TradingStart, blockTime)
	}
	return nil
}

// Other returns the asset on the opposite side of index.
func (p Pair) Other(index int) Asset { return p.Assets[1-index] }

// Validate checks the reserve/share invariants of a stored pair.
func (p Pair) Validate() error {
	if p.Address == "" {
		return ErrInvalidState.Wrap("pair address is empty")
	}
	if err := ValidateAssetPair(p.Assets[0], p.Assets[1]); err != nil {
		return err
	}
	if p.Assets[0].Key() > p.Assets[1].Key() {
		return ErrInvalidState.Wrapf("pair %s assets are not sorted", p.Address)
	}
	if err := p.Config.Validate(); err != nil {
		return err
	}
	if p.Config.Kind == CurveStable {
		if p.Stable == nil {
			return ErrInvalidState.Wrapf("stable pair %s has no amplification params", p.Address)
		}
		if err := p.Stable.Validate(); err != nil {
			return err
		}
	}
	if p.TradingStart < 0 {
		return ErrInvalidState.Wrapf("pair %s trading start %d is negative", p.Address, p.TradingStart)
	}
	if p.Status != PairStatusActive && p.Status != PairStatusDeprecated {
		return ErrInvalidState.Wrapf("pair %s has unknown status %q", p.Address, p.Status)
	}
	for i, r := range p.Reserves {
		if r.IsNil() || r.IsNegative() {
			return ErrInvalidState.Wrapf("pair %s reserve %d is negative or unset", p.Address, i)
		}
	}
	if p.TotalShares.IsNil() || p.TotalShares.IsNegative() {
		return ErrInvalidState.Wrapf("pair %s total shares negative or unset", p.Address)
	}
	empty := p.Reserves[0].IsZero() && p.Reserves[1].IsZero()
	if p.TotalShares.IsZero() != empty {
		return ErrInvalidState.Wrapf("pair %s: shares %s inconsistent with reserves %s/%s",
			p.Address, p.TotalShares, p.Reserves[0], p.Reserves[1])
	}
	return nil
}
