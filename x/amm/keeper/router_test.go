package keeper_test

import (
	"errors"

	sdkmath "cosmossdk.io/math"
	"github.com/prometheus/client_golang/prometheus/testutil"

	keepertest "github.com/ammx-chain/ammx/testutil/keeper"
	"github.com/ammx-chain/ammx/x/amm/keeper"
	"github.com/ammx-chain/ammx/x/amm/types"
)

func route(assets ...types.Asset) []types.Hop {
	hops := make([]types.Hop, 0, len(assets)-1)
	for i := 1; i < len(assets); i++ {
		hops = append(hops, types.Hop{AssetIn: assets[i-1], AssetOut: assets[i]})
	}
	return hops
}

func (suite *KeeperTestSuite) TestExecuteRoute() {
	suite.pair(atom, osmo, 1_000_000, 2_000_000)
	suite.pair(osmo, usdc, 2_000_000, 500_000)
	suite.fund(suite.trader, atom, 10_000)
	recipient := keepertest.TestAddr("recipient")
	hops := route(atom, osmo, usdc)

	simulated, err := suite.keeper.SimulateRoute(suite.ctx, hops, sdkmath.NewInt(10_000))
	suite.Require().NoError(err)
	suite.Require().Len(simulated.Hops, 2)
	suite.Require().Equal(simulated.Hops[0].AmountOut, simulated.Hops[1].AmountIn)

	result, err := suite.keeper.ExecuteRoute(suite.ctx, suite.trader, hops, sdkmath.NewInt(10_000), simulated.AmountOut, recipient)
	suite.Require().NoError(err)
	suite.Require().Equal(simulated, result)

	suite.Require().True(suite.balance(suite.trader, atom).IsZero())
	suite.Require().Equal(result.AmountOut, suite.balance(recipient, usdc))
	suite.Require().True(suite.balance(suite.keeper.RouterAddress(), osmo).IsZero(), "escrow is drained")

	events := suite.ctx.EventManager().Events()
	suite.Require().Equal(types.EventTypeRouteCompleted, events[len(events)-1].Type)
}

func (suite *KeeperTestSuite) TestExecuteRouteMissingPair() {
	ab := suite.pair(atom, osmo, 1_000_000, 1_000_000)
	suite.pair(usdc, usdt, 1_000_000, 1_000_000)
	suite.fund(suite.trader, atom, 10_000)

	_, err := suite.keeper.ExecuteRoute(suite.ctx, suite.trader, route(atom, osmo, usdc, usdt), sdkmath.NewInt(10_000), sdkmath.ZeroInt(), suite.trader)
	suite.Require().ErrorIs(err, types.ErrPairNotFound)

	suite.Require().Equal(sdkmath.NewInt(10_000), suite.balance(suite.trader, atom))
	suite.Require().Equal(ab.Reserves, suite.reload(ab).Reserves)

	_, err = suite.keeper.SimulateRoute(suite.ctx, route(atom, osmo, usdc, usdt), sdkmath.NewInt(10_000))
	suite.Require().ErrorIs(err, types.ErrPairNotFound)
}

func (suite *KeeperTestSuite) TestExecuteRouteHopFailureIsAtomic() {
	token := types.TokenAsset(keepertest.TestAddr("token").String())
	ab := suite.pair(atom, osmo, 1_000_000, 1_000_000)
	suite.pair(osmo, token, 1_000_000, 1_000_000)
	suite.fund(suite.trader, atom, 10_000)
	suite.f.Token.Freeze(suite.ctx, token.Ref)

	_, err := suite.keeper.ExecuteRoute(suite.ctx, suite.trader, route(atom, osmo, token), sdkmath.NewInt(10_000), sdkmath.ZeroInt(), suite.trader)
	suite.Require().Error(err)
	suite.Require().ErrorIs(err, types.ErrRouteExecutionFailed)

	var routeErr *types.RouteExecutionError
	suite.Require().True(errors.As(err, &routeErr))
	suite.Require().Equal(1, routeErr.HopIndex)

	// The first hop settled inside the route and was rolled back with it.
	suite.Require().Equal(sdkmath.NewInt(10_000), suite.balance(suite.trader, atom))
	suite.Require().Equal(ab.Reserves, suite.reload(ab).Reserves)
	suite.Require().True(suite.balance(suite.keeper.RouterAddress(), osmo).IsZero())
}

func (suite *KeeperTestSuite) TestExecuteRouteSlippage() {
	ab := suite.pair(atom, osmo, 1_000_000, 1_000_000)
	suite.pair(osmo, usdc, 1_000_000, 1_000_000)
	suite.fund(suite.trader, atom, 10_000)
	hops := route(atom, osmo, usdc)

	simulated, err := suite.keeper.SimulateRoute(suite.ctx, hops, sdkmath.NewInt(10_000))
	suite.Require().NoError(err)

	_, err = suite.keeper.ExecuteRoute(suite.ctx, suite.trader, hops, sdkmath.NewInt(10_000), simulated.AmountOut.AddRaw(1), suite.trader)
	suite.Require().ErrorIs(err, types.ErrSlippageExceeded)
	suite.Require().Equal(sdkmath.NewInt(10_000), suite.balance(suite.trader, atom))
	suite.Require().Equal(ab.Reserves, suite.reload(ab).Reserves)
}

func (suite *KeeperTestSuite) TestExecuteRouteExactOut() {
	suite.pair(atom, osmo, 1_000_000, 2_000_000)
	suite.pair(osmo, usdc, 2_000_000, 500_000)
	suite.fund(suite.trader, atom, 100_000)
	hops := route(atom, osmo, usdc)
	want := sdkmath.NewInt(10_000)

	simulated, err := suite.keeper.SimulateRouteExactOut(suite.ctx, hops, want)
	suite.Require().NoError(err)
	suite.Require().True(simulated.AmountOut.GTE(want))

	_, err = suite.keeper.ExecuteRouteExactOut(suite.ctx, suite.trader, hops, want, simulated.AmountIn.SubRaw(1), suite.trader)
	suite.Require().ErrorIs(err, types.ErrSlippageExceeded)
	suite.Require().Equal(sdkmath.NewInt(100_000), suite.balance(suite.trader, atom))

	result, err := suite.keeper.ExecuteRouteExactOut(suite.ctx, suite.trader, hops, want, simulated.AmountIn, suite.trader)
	suite.Require().NoError(err)
	suite.Require().Equal(simulated, result)
	suite.Require().Equal(result.AmountOut, suite.balance(suite.trader, usdc))
	suite.Require().Equal(sdkmath.NewInt(100_000).Sub(result.AmountIn), suite.balance(suite.trader, atom))
}

func (suite *KeeperTestSuite) TestRouteThroughSamePairTwice() {
	suite.pair(atom, osmo, 1_000_000, 1_000_000)
	suite.fund(suite.trader, atom, 50_000)
	hops := route(atom, osmo, atom)

	simulated, err := suite.keeper.SimulateRoute(suite.ctx, hops, sdkmath.NewInt(50_000))
	suite.Require().NoError(err)
	result, err := suite.keeper.ExecuteRoute(suite.ctx, suite.trader, hops, sdkmath.NewInt(50_000), sdkmath.ZeroInt(), suite.trader)
	suite.Require().NoError(err)
	suite.Require().Equal(simulated, result)
	suite.Require().True(result.AmountOut.LT(sdkmath.NewInt(50_000)), "a round trip pays two fees")
}

func (suite *KeeperTestSuite) TestRouteDeprecatedPair() {
	pair := suite.pair(atom, osmo, 1_000_000, 1_000_000)
	suite.Require().NoError(suite.keeper.DeprecatePair(suite.ctx, suite.authority(), pair.Address))
	suite.fund(suite.trader, atom, 1_000)

	_, err := suite.keeper.ExecuteRoute(suite.ctx, suite.trader, route(atom, osmo), sdkmath.NewInt(1_000), sdkmath.ZeroInt(), suite.trader)
	suite.Require().ErrorIs(err, types.ErrPairDeprecated)
}

func (suite *KeeperTestSuite) TestRouteValidation() {
	suite.pair(atom, osmo, 1_000_000, 1_000_000)
	suite.pair(osmo, usdc, 1_000_000, 1_000_000)

	_, err := suite.keeper.SimulateRoute(suite.ctx, nil, sdkmath.NewInt(1_000))
	suite.Require().ErrorIs(err, types.ErrInvalidRoute)

	broken := []types.Hop{{AssetIn: atom, AssetOut: osmo}, {AssetIn: usdc, AssetOut: osmo}}
	_, err = suite.keeper.SimulateRoute(suite.ctx, broken, sdkmath.NewInt(1_000))
	suite.Require().ErrorIs(err, types.ErrInvalidRoute)

	_, err = suite.keeper.SimulateRoute(suite.ctx, route(atom, osmo), sdkmath.ZeroInt())
	suite.Require().ErrorIs(err, types.ErrInvalidInput)

	params, err := suite.keeper.GetParams(suite.ctx)
	suite.Require().NoError(err)
	params.MaxHops = 1
	suite.Require().NoError(suite.keeper.UpdateParams(suite.ctx, suite.authority(), params))
	_, err = suite.keeper.SimulateRoute(suite.ctx, route(atom, osmo, usdc), sdkmath.NewInt(1_000))
	suite.Require().ErrorIs(err, types.ErrInvalidRoute)
}

func (suite *KeeperTestSuite) TestRoutePinnedConfig() {
	xyk := suite.pair(usdc, usdt, 1_000_000, 1_000_000)
	stable := suite.f.CreateFundedPair(suite.T(), usdc, usdt, suite.stableRef, sdkmath.NewInt(1_000_000), sdkmath.NewInt(1_000_000))

	result, err := suite.keeper.SimulateRoute(suite.ctx, route(usdc, usdt), sdkmath.NewInt(1_000))
	suite.Require().NoError(err)
	suite.Require().Equal(xyk.Address, result.Hops[0].Pair)

	pinned := []types.Hop{{AssetIn: usdc, AssetOut: usdt, ConfigRef: suite.stableRef}}
	result, err = suite.keeper.SimulateRoute(suite.ctx, pinned, sdkmath.NewInt(1_000))
	suite.Require().NoError(err)
	suite.Require().Equal(stable.Address, result.Hops[0].Pair)
}

func (suite *KeeperTestSuite) TestRouteSwapMetricsCountCommittedHopsOnly() {
	ab := suite.pair(atom, osmo, 1_000_000, 1_000_000)
	suite.pair(osmo, usdc, 1_000_000, 1_000_000)
	suite.fund(suite.trader, atom, 20_000)
	hops := route(atom, osmo, usdc)

	swaps := keeper.NewAMMMetrics().SwapsTotal.WithLabelValues(ab.Address, atom.Key(), osmo.Key(), "success")
	volume := keeper.NewAMMMetrics().SwapVolume.WithLabelValues(ab.Address, atom.Key())
	swapsBefore, volumeBefore := testutil.ToFloat64(swaps), testutil.ToFloat64(volume)

	_, err := suite.keeper.ExecuteRoute(suite.ctx, suite.trader, hops, sdkmath.NewInt(10_000), sdkmath.NewInt(10_000), suite.trader)
	suite.Require().ErrorIs(err, types.ErrSlippageExceeded)
	suite.Require().Equal(swapsBefore, testutil.ToFloat64(swaps), "rolled back hops are not counted")
	suite.Require().Equal(volumeBefore, testutil.ToFloat64(volume))

	_, err = suite.keeper.ExecuteRoute(suite.ctx, suite.trader, hops, sdkmath.NewInt(10_000), sdkmath.ZeroInt(), suite.trader)
	suite.Require().NoError(err)
	suite.Require().Equal(swapsBefore+1, testutil.ToFloat64(swaps))
	suite.Require().Equal(volumeBefore+10_000, testutil.ToFloat64(volume))
}
