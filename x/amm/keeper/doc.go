// Package keeper implements the amm module keeper.
//
// The amm module is a constant-function market maker. A factory registers
// admin-approved pair configurations and deploys one pair per asset pair and
// configuration at a deterministic address. Each pair holds two reserves of
// native bank denoms or token contract assets and prices trades through a
// curve strategy: constant product (xyk) or amplified stableswap.
//
// # Core Functionality
//
// Factory: CreatePair validates assets, charges the optional creation fee and
// derives the pair address from its sorted assets and config ref.
// ResolvePair returns the canonical pair of two assets.
//
// Liquidity: ProvideLiquidity mints shares proportional to the deposit, with
// the first deposit locking the minimum liquidity forever. WithdrawLiquidity
// burns shares for a pro-rata slice of both reserves.
//
// Swaps: Swap and SwapExactOut price against the pair curve, split the fee
// between liquidity providers and the protocol fee address and check that
// the curve invariant never decreases.
//
// Router: ExecuteRoute and ExecuteRouteExactOut chain swaps across pairs
// atomically. Intermediate amounts pass through the router account, and a
// failing hop reverts the whole route with its hop index.
//
// Prices: every pair keeps a cumulative spot price per direction, advanced
// before each swap or liquidity change. PriceAccumulator queries return the
// time weighted average since the pair was created.
//
// # Usage Patterns
//
// Creating and seeding a pair:
//
//	pair, err := keeper.CreatePair(ctx, creator, assetA, assetB, "xyk:3/1000", types.CreatePairOptions{})
//	shares, err := keeper.ProvideLiquidity(ctx, provider, pair.Address, deposits, minShares)
//
// Executing a route:
//
//	res, err := keeper.ExecuteRoute(ctx, trader, hops, amountIn, minOut, recipient)
//
// # Metrics
//
// The keeper exposes Prometheus metrics for swaps, liquidity changes and
// routes via AMMMetrics. Swap metrics are recorded once state is committed,
// so hops of a reverted route are never counted. Route execution is traced
// with OpenTelemetry.
package keeper
