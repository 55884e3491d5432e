package keeper

import (
	"context"
	"fmt"
	"strconv"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/ammx-chain/ammx/x/amm/types"
)

// RegisterPairConfig adds a permitted pair configuration. Registering a ref
// again updates its max fee rate, protocol fee share and disabled flag;
// pairs already created keep the config they were created with.
func (k Keeper) RegisterPairConfig(ctx context.Context, authority string, config types.PairConfig) error {
	if err := k.ValidateAuthority(authority); err != nil {
		return err
	}
	if err := config.Validate(); err != nil {
		return err
	}
	ref := config.Ref()
	_, existed, err := k.GetPairConfig(ctx, ref)
	if err != nil {
		return err
	}
	if err := k.SetPairConfig(ctx, config); err != nil {
		return err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypePairConfigRegistered,
			sdk.NewAttribute(types.AttributeKeyConfig, ref),
			sdk.NewAttribute("updated", strconv.FormatBool(existed)),
			sdk.NewAttribute("disabled", strconv.FormatBool(config.Disabled)),
		),
	)
	k.metrics.ConfigsRegistered.Inc()
	k.Logger(ctx).Info("pair config registered", "ref", ref, "updated", existed)
	return nil
}

// GetPairConfig returns the registered config with ref.
func (k Keeper) GetPairConfig(ctx context.Context, ref string) (types.PairConfig, bool, error) {
	cfg, found, err := getJSON[types.PairConfig](k.getStore(ctx), PairConfigKey(ref))
	if err != nil {
		return types.PairConfig{}, false, fmt.Errorf("GetPairConfig: %w", err)
	}
	return cfg, found, nil
}

// SetPairConfig stores a config under its ref.
func (k Keeper) SetPairConfig(ctx context.Context, config types.PairConfig) error {
	if err := setJSON(k.getStore(ctx), PairConfigKey(config.Ref()), config); err != nil {
		return fmt.Errorf("SetPairConfig: %w", err)
	}
	return nil
}

// GetAllPairConfigs returns every registered config ordered by ref.
func (k Keeper) GetAllPairConfigs(ctx context.Context) ([]types.PairConfig, error) {
	iter := storetypes.KVStorePrefixIterator(k.getStore(ctx), PairConfigKeyPrefix)
	defer iter.Close()

	configs := []types.PairConfig{}
	for ; iter.Valid(); iter.Next() {
		cfg, _, err := getJSON[types.PairConfig](k.getStore(ctx), iter.Key())
		if err != nil {
			return nil, fmt.Errorf("GetAllPairConfigs: %w", err)
		}
		configs = append(configs, cfg)
	}
	return configs, nil
}
