package types

import (
	"fmt"
)

// CurveKind selects the pricing strategy of a pair.
type CurveKind string

const (
	CurveXYK    CurveKind = "xyk"
	CurveStable CurveKind = "stable"
)

// Validate rejects unknown curve kinds.
func (c CurveKind) Validate() error {
	switch c {
	case CurveXYK, CurveStable:
		return nil
	default:
		return ErrInvalidInput.Wrapf("unknown curve kind %q", c)
	}
}

// Amplification bounds for stable pairs.
const (
	MinAmp uint64 = 1
	MaxAmp uint64 = 1_000_000

	// MaxAmpChange is the largest factor a single ramp may move the amp by.
	MaxAmpChange uint64 = 10
	// MinAmpChangingTime is the shortest ramp duration in seconds.
	MinAmpChangingTime int64 = 86_400

	// MaxPrecision is the largest number of decimals a stable pair asset
	// may declare.
	MaxPrecision uint32 = 18
)

// CreatePairOptions are the per-pair choices made at creation.
type CreatePairOptions struct {
	// FeeRate overrides the config fee rate within its max fee rate.
	FeeRate *FeeRate `json:"fee_rate,omitempty"`
	// Amp is the initial amplification of stable pairs. Zero uses the
	// default amp param.
	Amp uint64 `json:"amp,omitempty"`
	// Precisions are the decimals of the two assets as given to CreatePair.
	// Stable pairs scale both sides to the larger one. Nil means both
	// assets share a precision.
	Precisions map[string]uint32 `json:"precisions,omitempty"`
	// TradingStart is the unix time before which swaps are refused. Zero
	// allows trading at once.
	TradingStart int64 `json:"trading_start,omitempty"`
}

// PairConfig is a permitted pair configuration registered by the admin.
// Its identity is the curve kind together with the default fee rate.
type PairConfig struct {
	Kind             CurveKind `json:"kind"`
	FeeRate          FeeRate   `json:"fee_rate"`
	MaxFeeRate       FeeRate   `json:"max_fee_rate"`
	ProtocolFeeShare FeeRate   `json:"protocol_fee_share"`
	Disabled         bool      `json:"disabled,omitempty"`
}

// Ref returns the identity of the config, e.g. "xyk:3/1000".
func (c PairConfig) Ref() string {
	return fmt.Sprintf("%s:%s", c.Kind, c.FeeRate)
}

// Validate checks the config rates.
func (c PairConfig) Validate() error {
	if err := c.Kind.Validate(); err != nil {
		return err
	}
	if err := c.FeeRate.Validate(); err != nil {
		return fmt.Errorf("fee rate: %w", err)
	}
	if err := c.MaxFeeRate.Validate(); err != nil {
		return fmt.Errorf("max fee rate: %w", err)
	}
	if c.FeeRate.Cmp(c.MaxFeeRate) > 0 {
		return ErrInvalidInput.Wrapf("fee rate %s exceeds max fee rate %s", c.FeeRate, c.MaxFeeRate)
	}
	if err := c.ProtocolFeeShare.ValidateShare(); err != nil {
		return fmt.Errorf("protocol fee share: %w", err)
	}
	return nil
}

// StableParams holds the amplification ramp of a stable pair. The current
// amplification moves linearly from InitAmp at InitAmpTime to NextAmp at
// NextAmpTime (unix seconds). Precisions are the asset decimals in
// canonical asset order.
type StableParams struct {
	InitAmp     uint64    `json:"init_amp"`
	NextAmp     uint64    `json:"next_amp"`
	InitAmpTime int64     `json:"init_amp_time"`
	NextAmpTime int64     `json:"next_amp_time"`
	Precisions  [2]uint32 `json:"precisions"`
}

// NewStableParams returns params with a constant amplification.
func NewStableParams(amp uint64) *StableParams {
	return &StableParams{InitAmp: amp, NextAmp: amp}
}

// Validate checks amplification bounds and ramp ordering.
func (p StableParams) Validate() error {
	for _, amp := range []uint64{p.InitAmp, p.NextAmp} {
		if amp < MinAmp || amp > MaxAmp {
			return ErrInvalidInput.Wrapf("amp %d out of range [%d, %d]", amp, MinAmp, MaxAmp)
		}
	}
	if p.NextAmpTime < p.InitAmpTime {
		return ErrInvalidInput.Wrap("amp ramp ends before it starts")
	}
	for _, prec := range p.Precisions {
		if prec > MaxPrecision {
			return ErrInvalidInput.Wrapf("precision %d exceeds %d", prec, MaxPrecision)
		}
	}
	return nil
}

// CurrentAmp interpolates the amplification at blockTime.
func (p StableParams) CurrentAmp(blockTime int64) uint64 {
	if blockTime >= p.NextAmpTime || p.NextAmpTime == p.InitAmpTime {
		return p.NextAmp
	}
	if blockTime <= p.InitAmpTime {
		return p.InitAmp
	}
	elapsed := uint64(blockTime - p.InitAmpTime)
	span := uint64(p.NextAmpTime - p.InitAmpTime)
	if p.NextAmp > p.InitAmp {
		return p.InitAmp + (p.NextAmp-p.InitAmp)*elapsed/span
	}
	return p.InitAmp - (p.InitAmp-p.NextAmp)*elapsed/span
}
