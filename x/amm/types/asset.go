package types

import (
	"fmt"
	"strings"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// AssetType distinguishes bank denoms from external token contracts.
type AssetType string

const (
	AssetTypeNative AssetType = "native"
	AssetTypeToken  AssetType = "token"
)

// Asset identifies a fungible value unit. Two assets are the same asset only
// when both the type and the reference match.
type Asset struct {
	Type AssetType `json:"type"`
	Ref  string    `json:"ref"`
}

// NativeAsset returns the asset for a bank denom.
func NativeAsset(denom string) Asset {
	return Asset{Type: AssetTypeNative, Ref: denom}
}

// TokenAsset returns the asset for an external token contract address.
func TokenAsset(contract string) Asset {
	return Asset{Type: AssetTypeToken, Ref: contract}
}

// ParseAsset parses the canonical "<type>:<ref>" form. A bare denom is read as
// a native asset.
func ParseAsset(s string) (Asset, error) {
	typ, ref, found := strings.Cut(s, ":")
	if !found {
		a := NativeAsset(s)
		return a, a.Validate()
	}
	a := Asset{Type: AssetType(typ), Ref: ref}
	return a, a.Validate()
}

// Validate checks the reference against its asset type.
func (a Asset) Validate() error {
	switch a.Type {
	case AssetTypeNative:
		if err := sdk.ValidateDenom(a.Ref); err != nil {
			return ErrInvalidInput.Wrapf("invalid native denom %q: %v", a.Ref, err)
		}
	case AssetTypeToken:
		if _, err := sdk.AccAddressFromBech32(a.Ref); err != nil {
			return ErrInvalidInput.Wrapf("invalid token contract %q: %v", a.Ref, err)
		}
	default:
		return ErrInvalidInput.Wrapf("unknown asset type %q", a.Type)
	}
	return nil
}

// IsNative reports whether the asset is a bank denom.
func (a Asset) IsNative() bool { return a.Type == AssetTypeNative }

// Equal compares assets by identity.
func (a Asset) Equal(other Asset) bool {
	return a.Type == other.Type && a.Ref == other.Ref
}

// Key returns the canonical string used for ordering and store keys.
func (a Asset) Key() string {
	return string(a.Type) + ":" + a.Ref
}

func (a Asset) String() string {
	if a.IsNative() {
		return a.Ref
	}
	return a.Key()
}

// SortAssets returns the two assets in canonical order together with a flag
// telling whether they were swapped.
func SortAssets(a, b Asset) ([2]Asset, bool) {
	if a.Key() > b.Key() {
		return [2]Asset{b, a}, true
	}
	return [2]Asset{a, b}, false
}

// ValidateAssetPair rejects invalid or identical assets.
func ValidateAssetPair(a, b Asset) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if err := b.Validate(); err != nil {
		return err
	}
	if a.Equal(b) {
		return ErrInvalidInput.Wrapf("pair assets must differ, got %s twice", a)
	}
	return nil
}

// MustParseAsset is ParseAsset for constants and tests.
func MustParseAsset(s string) Asset {
	a, err := ParseAsset(s)
	if err != nil {
		panic(fmt.Sprintf("invalid asset %q: %v", s, err))
	}
	return a
}

// AssetAmount is an amount of one asset.
type AssetAmount struct {
	Asset  Asset       `json:"asset"`
	Amount sdkmath.Int `json:"amount"`
}

// NewAssetAmount pairs an asset with an amount.
func NewAssetAmount(asset Asset, amount sdkmath.Int) AssetAmount {
	return AssetAmount{Asset: asset, Amount: amount}
}

func (a AssetAmount) String() string {
	return a.Amount.String() + a.Asset.String()
}
