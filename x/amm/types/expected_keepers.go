package types

import (
	"context"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// BankKeeper moves native assets. Pair and router accounts are derived
// addresses, so plain account-to-account sends are used.
type BankKeeper interface {
	SendCoins(ctx context.Context, fromAddr, toAddr sdk.AccAddress, amt sdk.Coins) error
	GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin
}

// TokenKeeper moves external fungible-token balances. Contract is the bech32
// address of the token contract.
type TokenKeeper interface {
	Transfer(ctx context.Context, contract string, from, to sdk.AccAddress, amount sdkmath.Int) error
	BalanceOf(ctx context.Context, contract string, owner sdk.AccAddress) (sdkmath.Int, error)
}

// AMMKeeperV1 is the read surface exported to other modules.
type AMMKeeperV1 interface {
	ResolvePair(ctx context.Context, a, b Asset) (Pair, error)
	SimulateSwap(ctx context.Context, pairAddr string, assetIn Asset, amountIn sdkmath.Int) (SwapQuote, error)
	SimulateRoute(ctx context.Context, hops []Hop, amountIn sdkmath.Int) (RouteResult, error)
}
