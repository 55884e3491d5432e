package keeper

import (
	"encoding/binary"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"

	"github.com/ammx-chain/ammx/x/amm/types"
)

var (
	// ParamsKey is the key for module parameters
	ParamsKey = []byte{0x01}

	// NextPairIDKey is the key for the next pair ID counter
	NextPairIDKey = []byte{0x02}

	// PairKeyPrefix is the prefix for pair records keyed by pair address
	PairKeyPrefix = []byte{0x03}

	// PairByIDKeyPrefix indexes pair addresses by ID, in creation order
	PairByIDKeyPrefix = []byte{0x04}

	// PairIdentityKeyPrefix maps (sorted assets, config ref) to a pair address
	PairIdentityKeyPrefix = []byte{0x05}

	// PairsByAssetsKeyPrefix indexes pair addresses by sorted assets and ID
	PairsByAssetsKeyPrefix = []byte{0x06}

	// PairConfigKeyPrefix is the prefix for registered pair configs
	PairConfigKeyPrefix = []byte{0x07}

	// ShareKeyPrefix is the prefix for LP share balances
	ShareKeyPrefix = []byte{0x08}

	// PriceAccumulatorKeyPrefix is the prefix for pair price accumulators
	PriceAccumulatorKeyPrefix = []byte{0x09}
)

func uint64Bytes(v uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, v)
	return bz
}

func concat(parts ...[]byte) []byte {
	var n int
	for _, p := range parts {
		n += len(p)
	}
	key := make([]byte, 0, n)
	for _, p := range parts {
		key = append(key, p...)
	}
	return key
}

// AssetsKey is the canonical encoding of a sorted asset pair.
func AssetsKey(assets [2]types.Asset) []byte {
	return concat(
		address.MustLengthPrefix([]byte(assets[0].Key())),
		address.MustLengthPrefix([]byte(assets[1].Key())),
	)
}

// PairIdentity is the identity of a pair: its sorted assets and config ref.
// It also seeds the derived pair address.
func PairIdentity(assets [2]types.Asset, configRef string) []byte {
	return concat(AssetsKey(assets), []byte(configRef))
}

// PairAddress derives the deterministic account of a pair.
func PairAddress(assets [2]types.Asset, configRef string) sdk.AccAddress {
	return address.Module(types.ModuleName, PairIdentity(assets, configRef))
}

// PairKey returns the store key for a pair by address
func PairKey(pair sdk.AccAddress) []byte {
	return concat(PairKeyPrefix, pair.Bytes())
}

// PairByIDKey returns the creation order index key of a pair
func PairByIDKey(id uint64) []byte {
	return concat(PairByIDKeyPrefix, uint64Bytes(id))
}

// PairIdentityKey returns the identity map key
func PairIdentityKey(assets [2]types.Asset, configRef string) []byte {
	return concat(PairIdentityKeyPrefix, PairIdentity(assets, configRef))
}

// PairsByAssetsPrefix returns the prefix of all pairs trading assets
func PairsByAssetsPrefix(assets [2]types.Asset) []byte {
	return concat(PairsByAssetsKeyPrefix, AssetsKey(assets))
}

// PairsByAssetsKey returns the per-asset index key of a pair
func PairsByAssetsKey(assets [2]types.Asset, id uint64) []byte {
	return concat(PairsByAssetsPrefix(assets), uint64Bytes(id))
}

// PairConfigKey returns the store key for a pair config by ref
func PairConfigKey(ref string) []byte {
	return concat(PairConfigKeyPrefix, []byte(ref))
}

// SharesByPairPrefix returns the prefix of all share balances of a pair
func SharesByPairPrefix(pair sdk.AccAddress) []byte {
	return concat(ShareKeyPrefix, address.MustLengthPrefix(pair.Bytes()))
}

// ShareKey returns the store key of an LP share balance
func ShareKey(pair, owner sdk.AccAddress) []byte {
	return concat(SharesByPairPrefix(pair), owner.Bytes())
}

// PriceAccumulatorKey returns the store key of a pair's price accumulator
func PriceAccumulatorKey(pair sdk.AccAddress) []byte {
	return concat(PriceAccumulatorKeyPrefix, pair.Bytes())
}
