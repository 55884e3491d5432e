package keeper

import (
	"context"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/cosmos/cosmos-sdk/types/query"

	"github.com/ammx-chain/ammx/x/amm/types"
)

type queryServer struct {
	Keeper
}

const (
	defaultPaginationLimit = 100
	maxPaginationLimit     = 1000
)

// NewQueryServerImpl returns an implementation of the amm QueryServer interface
func NewQueryServerImpl(keeper Keeper) types.QueryServer {
	return &queryServer{Keeper: keeper}
}

var _ types.QueryServer = queryServer{}

// Params returns the module parameters
func (qs queryServer) Params(goCtx context.Context, req *types.QueryParamsRequest) (*types.QueryParamsResponse, error) {
	if req == nil {
		return nil, sdkerrors.ErrInvalidRequest
	}

	params, err := qs.Keeper.GetParams(goCtx)
	if err != nil {
		return nil, fmt.Errorf("Params: get params: %w", err)
	}
	return &types.QueryParamsResponse{Params: params}, nil
}

// Pair returns the pair deployed at an address
func (qs queryServer) Pair(goCtx context.Context, req *types.QueryPairRequest) (*types.QueryPairResponse, error) {
	if req == nil {
		return nil, sdkerrors.ErrInvalidRequest
	}

	pair, err := qs.Keeper.GetPair(goCtx, req.Address)
	if err != nil {
		return nil, fmt.Errorf("Pair: get pair %s: %w", req.Address, err)
	}
	return &types.QueryPairResponse{Pair: pair}, nil
}

// Pairs returns pairs in creation order with pagination
func (qs queryServer) Pairs(goCtx context.Context, req *types.QueryPairsRequest) (*types.QueryPairsResponse, error) {
	if req == nil {
		return nil, sdkerrors.ErrInvalidRequest
	}

	if req.Pagination == nil {
		req.Pagination = &query.PageRequest{Limit: defaultPaginationLimit}
	} else {
		if req.Pagination.Limit == 0 {
			req.Pagination.Limit = defaultPaginationLimit
		}
		if req.Pagination.Limit > maxPaginationLimit {
			req.Pagination.Limit = maxPaginationLimit
		}
	}

	var pairs []types.Pair
	pageRes, err := query.Paginate(qs.Keeper.pairsByIDStore(goCtx), req.Pagination, func(_ []byte, value []byte) error {
		pair, err := qs.Keeper.getPair(goCtx, sdk.AccAddress(value))
		if err != nil {
			return err
		}
		pairs = append(pairs, pair)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("Pairs: paginate: %w", err)
	}

	return &types.QueryPairsResponse{
		Pairs:      pairs,
		Pagination: pageRes,
	}, nil
}

// PairReserves returns the reserves and share supply of a pair
func (qs queryServer) PairReserves(goCtx context.Context, req *types.QueryPairReservesRequest) (*types.QueryPairReservesResponse, error) {
	if req == nil {
		return nil, sdkerrors.ErrInvalidRequest
	}

	pair, err := qs.Keeper.GetPair(goCtx, req.Address)
	if err != nil {
		return nil, fmt.Errorf("PairReserves: get pair %s: %w", req.Address, err)
	}
	return &types.QueryPairReservesResponse{
		Assets:      pair.Assets,
		Reserves:    pair.Reserves,
		TotalShares: pair.TotalShares,
	}, nil
}

// ResolvePair returns the pair address for two assets, optionally pinned to a config
func (qs queryServer) ResolvePair(goCtx context.Context, req *types.QueryResolvePairRequest) (*types.QueryResolvePairResponse, error) {
	if req == nil {
		return nil, sdkerrors.ErrInvalidRequest
	}

	var (
		pair types.Pair
		err  error
	)
	if req.ConfigRef != "" {
		pair, err = qs.Keeper.ResolvePairWithConfig(goCtx, req.AssetA, req.AssetB, req.ConfigRef)
	} else {
		pair, err = qs.Keeper.ResolvePair(goCtx, req.AssetA, req.AssetB)
	}
	if err != nil {
		return nil, fmt.Errorf("ResolvePair: %s/%s: %w", req.AssetA, req.AssetB, err)
	}
	return &types.QueryResolvePairResponse{Address: pair.Address}, nil
}

// PairConfigs returns every registered pair config
func (qs queryServer) PairConfigs(goCtx context.Context, req *types.QueryPairConfigsRequest) (*types.QueryPairConfigsResponse, error) {
	if req == nil {
		return nil, sdkerrors.ErrInvalidRequest
	}

	configs, err := qs.Keeper.GetAllPairConfigs(goCtx)
	if err != nil {
		return nil, fmt.Errorf("PairConfigs: %w", err)
	}
	return &types.QueryPairConfigsResponse{Configs: configs}, nil
}

// SimulateSwap quotes an exact input swap
func (qs queryServer) SimulateSwap(goCtx context.Context, req *types.QuerySimulateSwapRequest) (*types.QuerySimulateSwapResponse, error) {
	if req == nil {
		return nil, sdkerrors.ErrInvalidRequest
	}

	quote, err := qs.Keeper.SimulateSwap(goCtx, req.Pair, req.AssetIn, req.AmountIn)
	if err != nil {
		return nil, fmt.Errorf("SimulateSwap: %w", err)
	}
	return &types.QuerySimulateSwapResponse{Quote: quote}, nil
}

// SimulateReverseSwap quotes an exact output swap
func (qs queryServer) SimulateReverseSwap(goCtx context.Context, req *types.QuerySimulateReverseSwapRequest) (*types.QuerySimulateReverseSwapResponse, error) {
	if req == nil {
		return nil, sdkerrors.ErrInvalidRequest
	}

	quote, err := qs.Keeper.SimulateReverseSwap(goCtx, req.Pair, req.AssetOut, req.AmountOut)
	if err != nil {
		return nil, fmt.Errorf("SimulateReverseSwap: %w", err)
	}
	return &types.QuerySimulateReverseSwapResponse{Quote: quote}, nil
}

// SimulateRoute quotes a multi-hop route in either direction
func (qs queryServer) SimulateRoute(goCtx context.Context, req *types.QuerySimulateRouteRequest) (*types.QuerySimulateRouteResponse, error) {
	if req == nil {
		return nil, sdkerrors.ErrInvalidRequest
	}

	var (
		result types.RouteResult
		err    error
	)
	if req.ExactOut {
		result, err = qs.Keeper.SimulateRouteExactOut(goCtx, req.Hops, req.Amount)
	} else {
		result, err = qs.Keeper.SimulateRoute(goCtx, req.Hops, req.Amount)
	}
	if err != nil {
		return nil, fmt.Errorf("SimulateRoute: %w", err)
	}
	return &types.QuerySimulateRouteResponse{Result: result}, nil
}

// ShareBalance returns the LP shares an owner holds in a pair
func (qs queryServer) ShareBalance(goCtx context.Context, req *types.QueryShareBalanceRequest) (*types.QueryShareBalanceResponse, error) {
	if req == nil {
		return nil, sdkerrors.ErrInvalidRequest
	}

	pairAddr, err := sdk.AccAddressFromBech32(req.Pair)
	if err != nil {
		return nil, types.ErrInvalidInput.Wrapf("invalid pair address: %v", err)
	}
	owner, err := sdk.AccAddressFromBech32(req.Owner)
	if err != nil {
		return nil, types.ErrInvalidInput.Wrapf("invalid owner address: %v", err)
	}
	shares, err := qs.Keeper.GetShares(goCtx, pairAddr, owner)
	if err != nil {
		return nil, fmt.Errorf("ShareBalance: %w", err)
	}
	return &types.QueryShareBalanceResponse{Shares: shares}, nil
}

// PriceAccumulator returns the cumulative prices of a pair as of the current
// block
func (qs queryServer) PriceAccumulator(goCtx context.Context, req *types.QueryPriceAccumulatorRequest) (*types.QueryPriceAccumulatorResponse, error) {
	if req == nil {
		return nil, sdkerrors.ErrInvalidRequest
	}

	acc, err := qs.Keeper.CurrentPriceAccumulator(goCtx, req.Pair)
	if err != nil {
		return nil, fmt.Errorf("PriceAccumulator: %w", err)
	}
	return &types.QueryPriceAccumulatorResponse{Accumulator: acc, Average: acc.Average()}, nil
}
