package rest_test

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	keepertest "github.com/ammx-chain/ammx/testutil/keeper"
	"github.com/ammx-chain/ammx/x/amm/client/cli"
	"github.com/ammx-chain/ammx/x/amm/client/rest"
	"github.com/ammx-chain/ammx/x/amm/types"
)

var (
	atom = types.NativeAsset("uatom")
	osmo = types.NativeAsset("uosmo")
	usdc = types.NativeAsset("uusdc")
)

type ServerTestSuite struct {
	suite.Suite

	f        *keepertest.AMMFixture
	handler  http.Handler
	atomOsmo types.Pair
	osmoUsdc types.Pair
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func (suite *ServerTestSuite) SetupTest() {
	t := suite.T()
	suite.f = keepertest.NewAMMFixture(t)
	ref := suite.f.RegisterConfig(t, types.PairConfig{
		Kind:             types.CurveXYK,
		FeeRate:          types.NewFeeRate(3, 1000),
		MaxFeeRate:       types.NewFeeRate(1, 100),
		ProtocolFeeShare: types.ZeroFee(),
	})
	suite.atomOsmo = suite.f.CreateFundedPair(t, atom, osmo, ref, sdkmath.NewInt(1_000_000), sdkmath.NewInt(2_000_000))
	suite.osmoUsdc = suite.f.CreateFundedPair(t, osmo, usdc, ref, sdkmath.NewInt(2_000_000), sdkmath.NewInt(500_000))

	gs, err := suite.f.Keeper.ExportGenesis(suite.f.Ctx)
	suite.Require().NoError(err)

	clock := func() time.Time { return keepertest.GenesisTime }
	snapshot, err := cli.NewSnapshot(*gs, clock, nil)
	suite.Require().NoError(err)

	srv, err := rest.NewServer(rest.DefaultConfig(), snapshot, nil)
	suite.Require().NoError(err)
	suite.handler = srv.Handler()
}

func (suite *ServerTestSuite) do(method, target string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	suite.handler.ServeHTTP(rec, req)
	return rec
}

func (suite *ServerTestSuite) get(target string, out any) int {
	rec := suite.do(http.MethodGet, target, nil)
	if out != nil && rec.Code == http.StatusOK {
		suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec.Code
}

func (suite *ServerTestSuite) TestHealth() {
	var res map[string]any
	suite.Require().Equal(http.StatusOK, suite.get("/health", &res))
	suite.Require().Equal("ok", res["status"])
	suite.Require().EqualValues(2, res["pairs"])
}

func (suite *ServerTestSuite) TestParamsAndConfigs() {
	var params types.QueryParamsResponse
	suite.Require().Equal(http.StatusOK, suite.get("/amm/v1/params", &params))
	suite.Require().Equal(types.DefaultParams().MaxHops, params.Params.MaxHops)

	var configs types.QueryPairConfigsResponse
	suite.Require().Equal(http.StatusOK, suite.get("/amm/v1/configs", &configs))
	suite.Require().Len(configs.Configs, 1)
}

func (suite *ServerTestSuite) TestPairs() {
	var page types.QueryPairsResponse
	suite.Require().Equal(http.StatusOK, suite.get("/amm/v1/pairs?limit=1&count_total=true", &page))
	suite.Require().Len(page.Pairs, 1)
	suite.Require().Equal(suite.atomOsmo.Address, page.Pairs[0].Address)
	suite.Require().EqualValues(2, page.Pagination.Total)
	suite.Require().NotEmpty(page.Pagination.NextKey)

	next := url.QueryEscape(base64.StdEncoding.EncodeToString(page.Pagination.NextKey))
	var second types.QueryPairsResponse
	suite.Require().Equal(http.StatusOK, suite.get("/amm/v1/pairs?limit=1&key="+next, &second))
	suite.Require().Len(second.Pairs, 1)
	suite.Require().Equal(suite.osmoUsdc.Address, second.Pairs[0].Address)

	suite.Require().Equal(http.StatusBadRequest, suite.get("/amm/v1/pairs?limit=many", nil))
}

func (suite *ServerTestSuite) TestPair() {
	var res types.QueryPairResponse
	suite.Require().Equal(http.StatusOK, suite.get("/amm/v1/pairs/"+suite.atomOsmo.Address, &res))
	suite.Require().Equal(suite.atomOsmo.ID, res.Pair.ID)

	var reserves types.QueryPairReservesResponse
	suite.Require().Equal(http.StatusOK, suite.get("/amm/v1/pairs/"+suite.atomOsmo.Address+"/reserves", &reserves))
	suite.Require().Equal("1000000", reserves.Reserves[0].String())

	unknown := keepertest.TestAddr("nobody").String()
	suite.Require().Equal(http.StatusNotFound, suite.get("/amm/v1/pairs/"+unknown, nil))
	suite.Require().Equal(http.StatusBadRequest, suite.get("/amm/v1/pairs/not-an-address", nil))
}

func (suite *ServerTestSuite) TestResolvePair() {
	var res types.QueryResolvePairResponse
	suite.Require().Equal(http.StatusOK, suite.get("/amm/v1/pairs/resolve?asset_a=uosmo&asset_b=uatom", &res))
	suite.Require().Equal(suite.atomOsmo.Address, res.Address)

	suite.Require().Equal(http.StatusNotFound, suite.get("/amm/v1/pairs/resolve?asset_a=uatom&asset_b=uusdc", nil))
	suite.Require().Equal(http.StatusBadRequest, suite.get("/amm/v1/pairs/resolve?asset_a=uatom", nil))
}

func (suite *ServerTestSuite) TestPriceAccumulator() {
	var res types.QueryPriceAccumulatorResponse
	suite.Require().Equal(http.StatusOK, suite.get("/amm/v1/pairs/"+suite.atomOsmo.Address+"/twap", &res))
	suite.Require().Equal(suite.atomOsmo.Address, res.Accumulator.Pair)
	suite.Require().Zero(res.Accumulator.TotalSeconds)
	suite.Require().True(res.Average[0].IsZero())

	unknown := keepertest.TestAddr("nobody").String()
	suite.Require().Equal(http.StatusNotFound, suite.get("/amm/v1/pairs/"+unknown+"/twap", nil))
}

func (suite *ServerTestSuite) TestShareBalance() {
	var res types.QueryShareBalanceResponse
	seeder := keepertest.TestAddr("seeder").String()
	suite.Require().Equal(http.StatusOK, suite.get("/amm/v1/pairs/"+suite.atomOsmo.Address+"/shares/"+seeder, &res))
	suite.Require().True(res.Shares.IsPositive())
}

func (suite *ServerTestSuite) TestSimulateSwap() {
	expected, err := suite.f.Keeper.SimulateSwap(suite.f.Ctx, suite.atomOsmo.Address, atom, sdkmath.NewInt(10_000))
	suite.Require().NoError(err)

	var res types.QuerySimulateSwapResponse
	target := "/amm/v1/pairs/" + suite.atomOsmo.Address + "/simulate?asset_in=uatom&amount_in=10000"
	suite.Require().Equal(http.StatusOK, suite.get(target, &res))
	suite.Require().Equal(expected.AmountOut.String(), res.Quote.AmountOut.String())

	bad := "/amm/v1/pairs/" + suite.atomOsmo.Address + "/simulate?asset_in=uatom&amount_in=lots"
	suite.Require().Equal(http.StatusBadRequest, suite.get(bad, nil))
}

func (suite *ServerTestSuite) TestSimulateReverse() {
	var res types.QuerySimulateReverseSwapResponse
	target := "/amm/v1/pairs/" + suite.atomOsmo.Address + "/simulate-reverse?asset_out=uosmo&amount_out=5000"
	suite.Require().Equal(http.StatusOK, suite.get(target, &res))
	suite.Require().True(res.Quote.AmountOut.GTE(sdkmath.NewInt(5000)))
}

func (suite *ServerTestSuite) TestSimulateRoute() {
	hops := []types.Hop{{AssetIn: atom, AssetOut: osmo}, {AssetIn: osmo, AssetOut: usdc}}
	expected, err := suite.f.Keeper.SimulateRoute(suite.f.Ctx, hops, sdkmath.NewInt(10_000))
	suite.Require().NoError(err)

	body, err := json.Marshal(types.QuerySimulateRouteRequest{Hops: hops, Amount: sdkmath.NewInt(10_000)})
	suite.Require().NoError(err)
	rec := suite.do(http.MethodPost, "/amm/v1/route/simulate", body)
	suite.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var res types.QuerySimulateRouteResponse
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &res))
	suite.Require().Equal(expected.AmountOut.String(), res.Result.AmountOut.String())
	suite.Require().Len(res.Result.Hops, 2)

	rec = suite.do(http.MethodPost, "/amm/v1/route/simulate", []byte(`{"hops": []}`))
	suite.Require().Equal(http.StatusBadRequest, rec.Code)

	rec = suite.do(http.MethodPost, "/amm/v1/route/simulate", []byte(`{`))
	suite.Require().Equal(http.StatusBadRequest, rec.Code)
}

func (suite *ServerTestSuite) TestMetrics() {
	suite.get("/health", nil)
	rec := suite.do(http.MethodGet, "/metrics", nil)
	suite.Require().Equal(http.StatusOK, rec.Code)
	suite.Require().Contains(rec.Body.String(), "ammx_quote_api_snapshot_pairs 2")
	suite.Require().Contains(rec.Body.String(), `ammx_quote_api_requests_total{code="200",route="/health"} 1`)
}

func (suite *ServerTestSuite) TestCORS() {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://example.org")
	rec := httptest.NewRecorder()
	suite.handler.ServeHTTP(rec, req)
	suite.Require().Equal("*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestNewServerRequiresSnapshot(t *testing.T) {
	_, err := rest.NewServer(rest.DefaultConfig(), nil, nil)
	require.Error(t, err)
}

func (suite *ServerTestSuite) TestRequestID() {
	rec := suite.do(http.MethodGet, "/health", nil)
	suite.Require().NotEmpty(rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "quote-42")
	rec = httptest.NewRecorder()
	suite.handler.ServeHTTP(rec, req)
	suite.Require().Equal("quote-42", rec.Header().Get("X-Request-ID"))
}

func TestRateLimit(t *testing.T) {
	snapshot, err := cli.NewSnapshot(*types.DefaultGenesis(), nil, nil)
	require.NoError(t, err)

	cfg := rest.DefaultConfig()
	cfg.RateLimit = 1
	srv, err := rest.NewServer(cfg, snapshot, nil)
	require.NoError(t, err)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		codes = append(codes, rec.Code)
	}
	require.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// other clients have their own budget
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "198.51.100.7:4000"
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}
