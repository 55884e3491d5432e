package keeper

import (
	"context"
	"fmt"

	"github.com/ammx-chain/ammx/x/amm/types"
)

// GetParams returns the current parameters from the store
func (k Keeper) GetParams(ctx context.Context) (types.Params, error) {
	params, found, err := getJSON[types.Params](k.getStore(ctx), ParamsKey)
	if err != nil {
		return types.Params{}, fmt.Errorf("GetParams: %w", err)
	}
	if !found {
		return types.DefaultParams(), nil
	}
	return params, nil
}

// SetParams sets the parameters in the store
func (k Keeper) SetParams(ctx context.Context, params types.Params) error {
	if err := params.Validate(); err != nil {
		return types.ErrInvalidInput.Wrapf("invalid params: %v", err)
	}
	if err := setJSON(k.getStore(ctx), ParamsKey, params); err != nil {
		return fmt.Errorf("SetParams: %w", err)
	}
	return nil
}
