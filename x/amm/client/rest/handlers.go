package rest

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	sdkmath "cosmossdk.io/math"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/cosmos/cosmos-sdk/types/query"
	"github.com/gorilla/mux"

	"github.com/ammx-chain/ammx/x/amm/types"
)

const maxBodyBytes = 1 << 20

// RegisterRoutes registers the quote endpoints on router.
func (s *Server) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api := router.PathPrefix("/amm/v1").Subrouter()
	api.HandleFunc("/params", s.handleParams).Methods(http.MethodGet)
	api.HandleFunc("/configs", s.handleConfigs).Methods(http.MethodGet)
	api.HandleFunc("/pairs", s.handlePairs).Methods(http.MethodGet)
	api.HandleFunc("/pairs/resolve", s.handleResolvePair).Methods(http.MethodGet)
	api.HandleFunc("/pairs/{address}", s.handlePair).Methods(http.MethodGet)
	api.HandleFunc("/pairs/{address}/reserves", s.handleReserves).Methods(http.MethodGet)
	api.HandleFunc("/pairs/{address}/shares/{owner}", s.handleShareBalance).Methods(http.MethodGet)
	api.HandleFunc("/pairs/{address}/simulate", s.handleSimulateSwap).Methods(http.MethodGet)
	api.HandleFunc("/pairs/{address}/simulate-reverse", s.handleSimulateReverse).Methods(http.MethodGet)
	api.HandleFunc("/pairs/{address}/twap", s.handlePriceAccumulator).Methods(http.MethodGet)
	api.HandleFunc("/route/simulate", s.handleSimulateRoute).Methods(http.MethodPost)
}

type errorResponse struct {
	Error string `json:"error"`
	Code  uint32 `json:"code,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"pairs":     s.snapshot.NumPairs(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleParams(w http.ResponseWriter, r *http.Request) {
	s.serve(w, r, func(ctx context.Context, qs types.QueryServer) (any, error) {
		return qs.Params(ctx, &types.QueryParamsRequest{})
	})
}

func (s *Server) handleConfigs(w http.ResponseWriter, r *http.Request) {
	s.serve(w, r, func(ctx context.Context, qs types.QueryServer) (any, error) {
		return qs.PairConfigs(ctx, &types.QueryPairConfigsRequest{})
	})
}

func (s *Server) handlePairs(w http.ResponseWriter, r *http.Request) {
	page, err := pageRequest(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.serve(w, r, func(ctx context.Context, qs types.QueryServer) (any, error) {
		return qs.Pairs(ctx, &types.QueryPairsRequest{Pagination: page})
	})
}

func (s *Server) handlePair(w http.ResponseWriter, r *http.Request) {
	addr := mux.Vars(r)["address"]
	s.serve(w, r, func(ctx context.Context, qs types.QueryServer) (any, error) {
		return qs.Pair(ctx, &types.QueryPairRequest{Address: addr})
	})
}

func (s *Server) handleReserves(w http.ResponseWriter, r *http.Request) {
	addr := mux.Vars(r)["address"]
	s.serve(w, r, func(ctx context.Context, qs types.QueryServer) (any, error) {
		return qs.PairReserves(ctx, &types.QueryPairReservesRequest{Address: addr})
	})
}

func (s *Server) handleShareBalance(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	s.serve(w, r, func(ctx context.Context, qs types.QueryServer) (any, error) {
		return qs.ShareBalance(ctx, &types.QueryShareBalanceRequest{Pair: vars["address"], Owner: vars["owner"]})
	})
}

func (s *Server) handlePriceAccumulator(w http.ResponseWriter, r *http.Request) {
	addr := mux.Vars(r)["address"]
	s.serve(w, r, func(ctx context.Context, qs types.QueryServer) (any, error) {
		return qs.PriceAccumulator(ctx, &types.QueryPriceAccumulatorRequest{Pair: addr})
	})
}

func (s *Server) handleResolvePair(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	a, err := types.ParseAsset(q.Get("asset_a"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	b, err := types.ParseAsset(q.Get("asset_b"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.serve(w, r, func(ctx context.Context, qs types.QueryServer) (any, error) {
		return qs.ResolvePair(ctx, &types.QueryResolvePairRequest{AssetA: a, AssetB: b, ConfigRef: q.Get("config_ref")})
	})
}

func (s *Server) handleSimulateSwap(w http.ResponseWriter, r *http.Request) {
	addr := mux.Vars(r)["address"]
	asset, amount, err := assetAndAmount(r, "asset_in", "amount_in")
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.serve(w, r, func(ctx context.Context, qs types.QueryServer) (any, error) {
		return qs.SimulateSwap(ctx, &types.QuerySimulateSwapRequest{Pair: addr, AssetIn: asset, AmountIn: amount})
	})
}

func (s *Server) handleSimulateReverse(w http.ResponseWriter, r *http.Request) {
	addr := mux.Vars(r)["address"]
	asset, amount, err := assetAndAmount(r, "asset_out", "amount_out")
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.serve(w, r, func(ctx context.Context, qs types.QueryServer) (any, error) {
		return qs.SimulateReverseSwap(ctx, &types.QuerySimulateReverseSwapRequest{Pair: addr, AssetOut: asset, AmountOut: amount})
	})
}

func (s *Server) handleSimulateRoute(w http.ResponseWriter, r *http.Request) {
	var req types.QuerySimulateRouteRequest
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, types.ErrInvalidInput.Wrapf("read body: %v", err))
		return
	}
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, types.ErrInvalidInput.Wrapf("decode route request: %v", err))
		return
	}
	if req.Amount.IsNil() {
		s.writeError(w, types.ErrInvalidInput.Wrap("amount is required"))
		return
	}
	s.serve(w, r, func(ctx context.Context, qs types.QueryServer) (any, error) {
		return qs.SimulateRoute(ctx, &req)
	})
}

// serve runs fn against the snapshot and writes its result as JSON.
func (s *Server) serve(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, qs types.QueryServer) (any, error)) {
	var res any
	err := s.snapshot.Query(r.Context(), func(ctx context.Context, qs types.QueryServer) error {
		var err error
		res, err = fn(ctx, qs)
		return err
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := statusCode(err)
	if code >= http.StatusInternalServerError {
		s.logger.Error("quote request failed", "error", err)
	}
	res := errorResponse{Error: err.Error()}
	var coded interface{ ABCICode() uint32 }
	if errors.As(err, &coded) {
		res.Code = coded.ABCICode()
	}
	writeJSON(w, code, res)
}

func statusCode(err error) int {
	switch {
	case errors.Is(err, types.ErrPairNotFound), errors.Is(err, sdkerrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrInvalidInput),
		errors.Is(err, types.ErrInvalidRoute),
		errors.Is(err, types.ErrUnsupportedAsset),
		errors.Is(err, sdkerrors.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrInsufficientLiquidity),
		errors.Is(err, types.ErrPairDeprecated),
		errors.Is(err, types.ErrTradingNotStarted),
		errors.Is(err, types.ErrSlippageExceeded):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func assetAndAmount(r *http.Request, assetKey, amountKey string) (types.Asset, sdkmath.Int, error) {
	q := r.URL.Query()
	asset, err := types.ParseAsset(q.Get(assetKey))
	if err != nil {
		return types.Asset{}, sdkmath.Int{}, err
	}
	amount, ok := sdkmath.NewIntFromString(q.Get(amountKey))
	if !ok {
		return types.Asset{}, sdkmath.Int{}, types.ErrInvalidInput.Wrapf("invalid %s %q", amountKey, q.Get(amountKey))
	}
	return asset, amount, nil
}

func pageRequest(r *http.Request) (*query.PageRequest, error) {
	q := r.URL.Query()
	page := &query.PageRequest{}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, types.ErrInvalidInput.Wrapf("invalid limit %q", v)
		}
		page.Limit = limit
	}
	if v := q.Get("key"); v != "" {
		key, err := base64.StdEncoding.DecodeString(v)
		if err != nil {
			return nil, types.ErrInvalidInput.Wrapf("invalid page key: %v", err)
		}
		page.Key = key
	}
	if v := q.Get("count_total"); v != "" {
		total, err := strconv.ParseBool(v)
		if err != nil {
			return nil, types.ErrInvalidInput.Wrapf("invalid count_total %q", v)
		}
		page.CountTotal = total
	}
	return page, nil
}
