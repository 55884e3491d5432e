package keeper

import (
	"context"
	"testing"
	"time"

	"cosmossdk.io/log"
	sdkmath "cosmossdk.io/math"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/stretchr/testify/require"

	"github.com/ammx-chain/ammx/x/amm/keeper"
	"github.com/ammx-chain/ammx/x/amm/types"
)

// GenesisTime is the block time of contexts returned by AmmKeeper.
var GenesisTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// AMMFixture bundles an amm keeper with the mocks backing it.
type AMMFixture struct {
	Keeper    *keeper.Keeper
	Ctx       sdk.Context
	Bank      MockBankKeeper
	Token     MockTokenKeeper
	Authority sdk.AccAddress
}

// AmmKeeper creates a test keeper for the amm module with mock dependencies
func AmmKeeper(t testing.TB) (*keeper.Keeper, sdk.Context) {
	f := NewAMMFixture(t)
	return f.Keeper, f.Ctx
}

// NewAMMFixture mounts the amm store next to mock bank and token stores in a
// single multistore, so cache contexts roll back balances with module state.
func NewAMMFixture(t testing.TB) *AMMFixture {
	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	bankKey := storetypes.NewKVStoreKey("mockbank")
	tokenKey := storetypes.NewKVStoreKey("mocktoken")

	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(bankKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(tokenKey, storetypes.StoreTypeIAVL, db)
	require.NoError(t, stateStore.LoadLatestVersion())

	bank := MockBankKeeper{storeKey: bankKey}
	token := MockTokenKeeper{storeKey: tokenKey}
	authority := AuthorityAddress()

	k := keeper.NewKeeper(storeKey, bank, token, authority.String())

	ctx := sdk.NewContext(stateStore, cmtproto.Header{Height: 1, Time: GenesisTime}, false, log.NewNopLogger())
	require.NoError(t, k.InitGenesis(ctx, *types.DefaultGenesis()))

	return &AMMFixture{
		Keeper:    k,
		Ctx:       ctx,
		Bank:      bank,
		Token:     token,
		Authority: authority,
	}
}

// AuthorityAddress is the admin of keepers built by this package.
func AuthorityAddress() sdk.AccAddress {
	return address.Module("gov")
}

// TestAddr returns a deterministic 20 byte account address for name.
func TestAddr(name string) sdk.AccAddress {
	return address.Module("amm-test", []byte(name))[:20]
}

// RegisterConfig registers a config as the admin and fails the test on error.
func (f *AMMFixture) RegisterConfig(t testing.TB, cfg types.PairConfig) string {
	require.NoError(t, f.Keeper.RegisterPairConfig(f.Ctx, f.Authority.String(), cfg))
	return cfg.Ref()
}

// CreateFundedPair creates a pair and seeds it with the given reserves from
// a dedicated provider account.
func (f *AMMFixture) CreateFundedPair(t testing.TB, a, b types.Asset, configRef string, amountA, amountB sdkmath.Int) types.Pair {
	pair, err := f.Keeper.CreatePair(f.Ctx, f.Authority, a, b, configRef, types.CreatePairOptions{})
	require.NoError(t, err)

	seeder := TestAddr("seeder")
	f.Fund(t, seeder, a, amountA)
	f.Fund(t, seeder, b, amountB)
	_, err = f.Keeper.ProvideLiquidity(f.Ctx, seeder, pair.Address, []types.AssetAmount{
		types.NewAssetAmount(a, amountA),
		types.NewAssetAmount(b, amountB),
	}, sdkmath.ZeroInt())
	require.NoError(t, err)

	pair, err = f.Keeper.GetPair(f.Ctx, pair.Address)
	require.NoError(t, err)
	return pair
}

// Fund mints amount of asset to addr.
func (f *AMMFixture) Fund(t testing.TB, addr sdk.AccAddress, asset types.Asset, amount sdkmath.Int) {
	switch asset.Type {
	case types.AssetTypeNative:
		f.Bank.Mint(f.Ctx, addr, sdk.NewCoin(asset.Ref, amount))
	case types.AssetTypeToken:
		f.Token.Mint(f.Ctx, asset.Ref, addr, amount)
	default:
		t.Fatalf("cannot fund asset type %q", asset.Type)
	}
}

// Balance returns the balance of addr in asset.
func (f *AMMFixture) Balance(t testing.TB, addr sdk.AccAddress, asset types.Asset) sdkmath.Int {
	switch asset.Type {
	case types.AssetTypeNative:
		return f.Bank.GetBalance(f.Ctx, addr, asset.Ref).Amount
	case types.AssetTypeToken:
		bal, err := f.Token.BalanceOf(f.Ctx, asset.Ref, addr)
		require.NoError(t, err)
		return bal
	default:
		t.Fatalf("no balance for asset type %q", asset.Type)
		return sdkmath.Int{}
	}
}

// MockBankKeeper keeps native balances in its own store.
type MockBankKeeper struct {
	storeKey storetypes.StoreKey
}

var _ types.BankKeeper = MockBankKeeper{}

func (m MockBankKeeper) balanceKey(addr sdk.AccAddress, denom string) []byte {
	return append(address.MustLengthPrefix(addr), []byte(denom)...)
}

// GetBalance returns the balance of addr in denom.
func (m MockBankKeeper) GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin {
	return sdk.NewCoin(denom, readAmount(sdk.UnwrapSDKContext(ctx).KVStore(m.storeKey), m.balanceKey(addr, denom)))
}

// Mint credits coins to addr.
func (m MockBankKeeper) Mint(ctx context.Context, addr sdk.AccAddress, coins ...sdk.Coin) {
	store := sdk.UnwrapSDKContext(ctx).KVStore(m.storeKey)
	for _, c := range coins {
		key := m.balanceKey(addr, c.Denom)
		writeAmount(store, key, readAmount(store, key).Add(c.Amount))
	}
}

// SendCoins moves coins, failing without partial effects when from lacks
// any of them.
func (m MockBankKeeper) SendCoins(ctx context.Context, from, to sdk.AccAddress, amt sdk.Coins) error {
	store := sdk.UnwrapSDKContext(ctx).KVStore(m.storeKey)
	for _, c := range amt {
		if have := readAmount(store, m.balanceKey(from, c.Denom)); have.LT(c.Amount) {
			return sdkerrors.ErrInsufficientFunds.Wrapf("%s has %s%s, needs %s", from, have, c.Denom, c)
		}
	}
	for _, c := range amt {
		fromKey, toKey := m.balanceKey(from, c.Denom), m.balanceKey(to, c.Denom)
		writeAmount(store, fromKey, readAmount(store, fromKey).Sub(c.Amount))
		writeAmount(store, toKey, readAmount(store, toKey).Add(c.Amount))
	}
	return nil
}

// MockTokenKeeper keeps token contract balances in its own store.
type MockTokenKeeper struct {
	storeKey storetypes.StoreKey
}

var _ types.TokenKeeper = MockTokenKeeper{}

var frozenPrefix = []byte{0xff}

func (m MockTokenKeeper) balanceKey(contract string, owner sdk.AccAddress) []byte {
	return append(address.MustLengthPrefix([]byte(contract)), owner...)
}

// BalanceOf returns the token balance of owner.
func (m MockTokenKeeper) BalanceOf(ctx context.Context, contract string, owner sdk.AccAddress) (sdkmath.Int, error) {
	return readAmount(sdk.UnwrapSDKContext(ctx).KVStore(m.storeKey), m.balanceKey(contract, owner)), nil
}

// Mint credits amount of contract to owner.
func (m MockTokenKeeper) Mint(ctx context.Context, contract string, owner sdk.AccAddress, amount sdkmath.Int) {
	store := sdk.UnwrapSDKContext(ctx).KVStore(m.storeKey)
	key := m.balanceKey(contract, owner)
	writeAmount(store, key, readAmount(store, key).Add(amount))
}

// Freeze makes every later transfer of contract fail.
func (m MockTokenKeeper) Freeze(ctx context.Context, contract string) {
	sdk.UnwrapSDKContext(ctx).KVStore(m.storeKey).Set(append(frozenPrefix, contract...), []byte{1})
}

// Transfer moves amount of contract from one owner to another.
func (m MockTokenKeeper) Transfer(ctx context.Context, contract string, from, to sdk.AccAddress, amount sdkmath.Int) error {
	store := sdk.UnwrapSDKContext(ctx).KVStore(m.storeKey)
	if store.Has(append(frozenPrefix, contract...)) {
		return sdkerrors.ErrUnauthorized.Wrapf("token %s is frozen", contract)
	}
	fromKey, toKey := m.balanceKey(contract, from), m.balanceKey(contract, to)
	have := readAmount(store, fromKey)
	if have.LT(amount) {
		return sdkerrors.ErrInsufficientFunds.Wrapf("%s holds %s of %s, needs %s", from, have, contract, amount)
	}
	writeAmount(store, fromKey, have.Sub(amount))
	writeAmount(store, toKey, readAmount(store, toKey).Add(amount))
	return nil
}

func readAmount(store storetypes.KVStore, key []byte) sdkmath.Int {
	bz := store.Get(key)
	if bz == nil {
		return sdkmath.ZeroInt()
	}
	var amt sdkmath.Int
	if err := amt.Unmarshal(bz); err != nil {
		panic(err)
	}
	return amt
}

func writeAmount(store storetypes.KVStore, key []byte, amt sdkmath.Int) {
	bz, err := amt.Marshal()
	if err != nil {
		panic(err)
	}
	store.Set(key, bz)
}
