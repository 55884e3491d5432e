package types

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	// DefaultMaxHops bounds route length.
	DefaultMaxHops uint32 = 10

	// DefaultMinimumLiquidity is the share amount locked on the first deposit.
	DefaultMinimumLiquidity int64 = 1_000

	// DefaultAmp is the amplification used by stable pairs created without one.
	DefaultAmp uint64 = 100
)

// Params are the governance controlled settings of the factory.
type Params struct {
	// FeeAddress receives protocol fees and pair creation fees. Protocol fees
	// are not charged while it is empty.
	FeeAddress string `json:"fee_address,omitempty"`
	// OnlyAdminCreatesPairs restricts CreatePair to the module authority.
	OnlyAdminCreatesPairs bool `json:"only_admin_creates_pairs"`
	// PairCreationFee is paid by non-admin creators in permissionless mode.
	PairCreationFee  sdk.Coins   `json:"pair_creation_fee"`
	MaxHops          uint32      `json:"max_hops"`
	MinimumLiquidity sdkmath.Int `json:"minimum_liquidity"`
	DefaultAmp       uint64      `json:"default_amp"`
}

// DefaultParams returns default parameters for the amm module
func DefaultParams() Params {
	return Params{
		OnlyAdminCreatesPairs: false,
		PairCreationFee:       sdk.NewCoins(),
		MaxHops:               DefaultMaxHops,
		MinimumLiquidity:      sdkmath.NewInt(DefaultMinimumLiquidity),
		DefaultAmp:            DefaultAmp,
	}
}

// Validate validates the set of params
func (p Params) Validate() error {
	if p.FeeAddress != "" {
		if _, err := sdk.AccAddressFromBech32(p.FeeAddress); err != nil {
			return fmt.Errorf("invalid fee address %q: %w", p.FeeAddress, err)
		}
	}
	if err := p.PairCreationFee.Validate(); err != nil {
		return fmt.Errorf("invalid pair creation fee: %w", err)
	}
	if !p.PairCreationFee.IsZero() && p.FeeAddress == "" {
		return fmt.Errorf("pair creation fee requires a fee address")
	}
	if p.MaxHops == 0 {
		return fmt.Errorf("max hops must be positive")
	}
	if p.MinimumLiquidity.IsNil() || p.MinimumLiquidity.IsNegative() {
		return fmt.Errorf("minimum liquidity must be non-negative")
	}
	if p.DefaultAmp < MinAmp || p.DefaultAmp > MaxAmp {
		return fmt.Errorf("default amp %d out of range [%d, %d]", p.DefaultAmp, MinAmp, MaxAmp)
	}
	return nil
}
