package types

import (
	"context"

	sdkmath "cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/types/query"
)

// SwapQuote is the priced outcome of a single swap against a pair.
type SwapQuote struct {
	Pair        string      `json:"pair"`
	AssetIn     Asset       `json:"asset_in"`
	AssetOut    Asset       `json:"asset_out"`
	AmountIn    sdkmath.Int `json:"amount_in"`
	AmountOut   sdkmath.Int `json:"amount_out"`
	Fee         sdkmath.Int `json:"fee"`
	ProtocolFee sdkmath.Int `json:"protocol_fee"`
}

// HopResult converts the quote into a route hop record.
func (q SwapQuote) HopResult() HopResult {
	return HopResult{
		Pair:        q.Pair,
		AssetIn:     q.AssetIn,
		AssetOut:    q.AssetOut,
		AmountIn:    q.AmountIn,
		AmountOut:   q.AmountOut,
		Fee:         q.Fee,
		ProtocolFee: q.ProtocolFee,
	}
}

type QueryParamsRequest struct{}

type QueryParamsResponse struct {
	Params Params `json:"params"`
}

type QueryPairRequest struct {
	Address string `json:"address"`
}

type QueryPairResponse struct {
	Pair Pair `json:"pair"`
}

// QueryPairsRequest pages through pairs in creation order.
type QueryPairsRequest struct {
	Pagination *query.PageRequest `json:"pagination,omitempty"`
}

type QueryPairsResponse struct {
	Pairs      []Pair              `json:"pairs"`
	Pagination *query.PageResponse `json:"pagination,omitempty"`
}

type QueryPairReservesRequest struct {
	Address string `json:"address"`
}

type QueryPairReservesResponse struct {
	Assets      [2]Asset       `json:"assets"`
	Reserves    [2]sdkmath.Int `json:"reserves"`
	TotalShares sdkmath.Int    `json:"total_shares"`
}

type QueryResolvePairRequest struct {
	AssetA    Asset  `json:"asset_a"`
	AssetB    Asset  `json:"asset_b"`
	ConfigRef string `json:"config_ref,omitempty"`
}

type QueryResolvePairResponse struct {
	Address string `json:"address"`
}

type QueryPairConfigsRequest struct{}

type QueryPairConfigsResponse struct {
	Configs []PairConfig `json:"configs"`
}

type QuerySimulateSwapRequest struct {
	Pair     string      `json:"pair"`
	AssetIn  Asset       `json:"asset_in"`
	AmountIn sdkmath.Int `json:"amount_in"`
}

type QuerySimulateSwapResponse struct {
	Quote SwapQuote `json:"quote"`
}

type QuerySimulateReverseSwapRequest struct {
	Pair      string      `json:"pair"`
	AssetOut  Asset       `json:"asset_out"`
	AmountOut sdkmath.Int `json:"amount_out"`
}

type QuerySimulateReverseSwapResponse struct {
	Quote SwapQuote `json:"quote"`
}

// QuerySimulateRouteRequest quotes a route. ExactOut switches Amount from
// the input amount to the desired output amount.
type QuerySimulateRouteRequest struct {
	Hops     []Hop       `json:"hops"`
	Amount   sdkmath.Int `json:"amount"`
	ExactOut bool        `json:"exact_out,omitempty"`
}

type QuerySimulateRouteResponse struct {
	Result RouteResult `json:"result"`
}

type QueryShareBalanceRequest struct {
	Pair  string `json:"pair"`
	Owner string `json:"owner"`
}

type QueryShareBalanceResponse struct {
	Shares sdkmath.Int `json:"shares"`
}

type QueryPriceAccumulatorRequest struct {
	Pair string `json:"pair"`
}

// QueryPriceAccumulatorResponse carries the accumulator advanced to the
// query's block time and the average prices over its history.
type QueryPriceAccumulatorResponse struct {
	Accumulator PriceAccumulator     `json:"accumulator"`
	Average     [2]sdkmath.LegacyDec `json:"average"`
}

// QueryServer is the read-only query surface of the module.
type QueryServer interface {
	Params(context.Context, *QueryParamsRequest) (*QueryParamsResponse, error)
	Pair(context.Context, *QueryPairRequest) (*QueryPairResponse, error)
	Pairs(context.Context, *QueryPairsRequest) (*QueryPairsResponse, error)
	PairReserves(context.Context, *QueryPairReservesRequest) (*QueryPairReservesResponse, error)
	ResolvePair(context.Context, *QueryResolvePairRequest) (*QueryResolvePairResponse, error)
	PairConfigs(context.Context, *QueryPairConfigsRequest) (*QueryPairConfigsResponse, error)
	SimulateSwap(context.Context, *QuerySimulateSwapRequest) (*QuerySimulateSwapResponse, error)
	SimulateReverseSwap(context.Context, *QuerySimulateReverseSwapRequest) (*QuerySimulateReverseSwapResponse, error)
	SimulateRoute(context.Context, *QuerySimulateRouteRequest) (*QuerySimulateRouteResponse, error)
	ShareBalance(context.Context, *QueryShareBalanceRequest) (*QueryShareBalanceResponse, error)
	PriceAccumulator(context.Context, *QueryPriceAccumulatorRequest) (*QueryPriceAccumulatorResponse, error)
}
