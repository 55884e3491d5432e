package keeper

import (
	"encoding/json"
	"fmt"

	storetypes "cosmossdk.io/store/types"
)

// Store values are JSON documents of the types package structs.

func setJSON(store storetypes.KVStore, key []byte, v any) error {
	bz, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %T: %w", v, err)
	}
	store.Set(key, bz)
	return nil
}

func getJSON[T any](store storetypes.KVStore, key []byte) (T, bool, error) {
	var v T
	bz := store.Get(key)
	if bz == nil {
		return v, false, nil
	}
	if err := json.Unmarshal(bz, &v); err != nil {
		return v, false, fmt.Errorf("unmarshal %T: %w", v, err)
	}
	return v, true, nil
}
