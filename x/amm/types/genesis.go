package types

import (
	"encoding/json"
	"fmt"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// ShareRecord is one LP share balance.
type ShareRecord struct {
	Pair   string      `json:"pair"`
	Owner  string      `json:"owner"`
	Shares sdkmath.Int `json:"shares"`
}

// GenesisState is the amm module genesis document.
type GenesisState struct {
	Params      Params        `json:"params"`
	PairConfigs []PairConfig  `json:"pair_configs"`
	Pairs       []Pair        `json:"pairs"`
	Shares      []ShareRecord `json:"shares"`
	NextPairID  uint64        `json:"next_pair_id"`

	PriceAccumulators []PriceAccumulator `json:"price_accumulators,omitempty"`
}

// DefaultGenesis returns the default genesis state for the amm module.
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Params:      DefaultParams(),
		PairConfigs: []PairConfig{},
		Pairs:       []Pair{},
		Shares:      []ShareRecord{},
		NextPairID:  1,

		PriceAccumulators: []PriceAccumulator{},
	}
}

// Validate ensures the genesis state is well-formed.
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return err
	}
	if gs.NextPairID == 0 {
		return fmt.Errorf("next pair id must be positive")
	}

	configs := make(map[string]PairConfig, len(gs.PairConfigs))
	for _, cfg := range gs.PairConfigs {
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("pair config %s: %w", cfg.Ref(), err)
		}
		if _, ok := configs[cfg.Ref()]; ok {
			return fmt.Errorf("duplicate pair config %s", cfg.Ref())
		}
		configs[cfg.Ref()] = cfg
	}

	pairs := make(map[string]Pair, len(gs.Pairs))
	ids := make(map[uint64]bool, len(gs.Pairs))
	identities := make(map[string]bool, len(gs.Pairs))
	for _, pair := range gs.Pairs {
		if err := pair.Validate(); err != nil {
			return fmt.Errorf("pair %d: %w", pair.ID, err)
		}
		if _, err := sdk.AccAddressFromBech32(pair.Address); err != nil {
			return fmt.Errorf("pair %d: invalid address: %w", pair.ID, err)
		}
		cfg, ok := configs[pair.ConfigRef]
		if !ok {
			return fmt.Errorf("pair %d references unknown config %s", pair.ID, pair.ConfigRef)
		}
		if pair.Config.Kind != cfg.Kind {
			return fmt.Errorf("pair %d is %s but its config %s is %s", pair.ID, pair.Config.Kind, pair.ConfigRef, cfg.Kind)
		}
		if pair.ID == 0 || pair.ID >= gs.NextPairID {
			return fmt.Errorf("pair id %d outside [1, %d)", pair.ID, gs.NextPairID)
		}
		if ids[pair.ID] {
			return fmt.Errorf("duplicate pair id %d", pair.ID)
		}
		identity := pair.Assets[0].Key() + "/" + pair.Assets[1].Key() + "/" + pair.ConfigRef
		if identities[identity] {
			return fmt.Errorf("duplicate pair identity %s", identity)
		}
		if _, ok := pairs[pair.Address]; ok {
			return fmt.Errorf("duplicate pair address %s", pair.Address)
		}
		ids[pair.ID] = true
		identities[identity] = true
		pairs[pair.Address] = pair
	}

	owned := make(map[string]sdkmath.Int, len(gs.Pairs))
	for _, rec := range gs.Shares {
		pair, ok := pairs[rec.Pair]
		if !ok {
			return fmt.Errorf("share record for unknown pair %s", rec.Pair)
		}
		if _, err := sdk.AccAddressFromBech32(rec.Owner); err != nil {
			return fmt.Errorf("share record owner %q: %w", rec.Owner, err)
		}
		if rec.Shares.IsNil() || !rec.Shares.IsPositive() {
			return fmt.Errorf("share record %s/%s must be positive", rec.Pair, rec.Owner)
		}
		sum, ok := owned[rec.Pair]
		if !ok {
			sum = sdkmath.ZeroInt()
		}
		sum = sum.Add(rec.Shares)
		if sum.GT(pair.TotalShares) {
			return fmt.Errorf("pair %s: owned shares exceed total shares %s", rec.Pair, pair.TotalShares)
		}
		owned[rec.Pair] = sum
	}

	accumulated := make(map[string]bool, len(gs.PriceAccumulators))
	for _, acc := range gs.PriceAccumulators {
		if err := acc.Validate(); err != nil {
			return err
		}
		if _, ok := pairs[acc.Pair]; !ok {
			return fmt.Errorf("price accumulator for unknown pair %s", acc.Pair)
		}
		if accumulated[acc.Pair] {
			return fmt.Errorf("duplicate price accumulator for pair %s", acc.Pair)
		}
		accumulated[acc.Pair] = true
	}
	return nil
}

// ParseGenesis decodes a JSON genesis document. Missing fields keep their
// defaults.
func ParseGenesis(bz []byte) (*GenesisState, error) {
	gs := DefaultGenesis()
	if err := json.Unmarshal(bz, gs); err != nil {
		return nil, err
	}
	return gs, nil
}
