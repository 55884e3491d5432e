package keeper

import (
	"context"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"

	"github.com/ammx-chain/ammx/x/amm/types"
)

// Keeper of the amm store
type Keeper struct {
	storeKey    storetypes.StoreKey
	bankKeeper  types.BankKeeper
	tokenKeeper types.TokenKeeper
	hooks       types.AMMHooks
	metrics     *AMMMetrics

	// authority is the admin allowed to register configs and manage pairs,
	// usually the gov module account.
	authority string
}

// NewKeeper creates a new amm Keeper instance. tokenKeeper may be nil, in
// which case token assets are unsupported.
func NewKeeper(
	key storetypes.StoreKey,
	bankKeeper types.BankKeeper,
	tokenKeeper types.TokenKeeper,
	authority string,
) *Keeper {
	if _, err := sdk.AccAddressFromBech32(authority); err != nil {
		panic("invalid amm authority address: " + err.Error())
	}
	return &Keeper{
		storeKey:    key,
		bankKeeper:  bankKeeper,
		tokenKeeper: tokenKeeper,
		authority:   authority,
		metrics:     NewAMMMetrics(),
	}
}

// SetHooks sets the amm hooks. It may only be called once.
func (k *Keeper) SetHooks(h types.AMMHooks) *Keeper {
	if k.hooks != nil {
		panic("cannot set amm hooks twice")
	}
	k.hooks = h
	return k
}

// GetAuthority returns the admin address.
func (k Keeper) GetAuthority() string {
	return k.authority
}

// Logger returns a module-specific logger.
func (k Keeper) Logger(ctx context.Context) log.Logger {
	return sdk.UnwrapSDKContext(ctx).Logger().With("module", "x/"+types.ModuleName)
}

// FactoryAddress is the account that deploys pairs.
func (k Keeper) FactoryAddress() sdk.AccAddress {
	return address.Module(types.ModuleName, []byte(types.FactoryAccountName))
}

// RouterAddress is the escrow account that holds intermediate route amounts.
func (k Keeper) RouterAddress() sdk.AccAddress {
	return address.Module(types.ModuleName, []byte(types.RouterAccountName))
}

// getStore returns the KVStore for the amm module
func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return sdkCtx.KVStore(k.storeKey)
}
