package keeper_test

import (
	"time"

	sdkmath "cosmossdk.io/math"

	"github.com/ammx-chain/ammx/x/amm/keeper"
	"github.com/ammx-chain/ammx/x/amm/types"
)

func (suite *KeeperTestSuite) requireNear(want, got sdkmath.LegacyDec) {
	diff := got.Sub(want).Abs()
	suite.Require().True(diff.LTE(sdkmath.LegacyNewDecWithPrec(1, 3)), "want %s, got %s", want, got)
}

func (suite *KeeperTestSuite) TestPriceAccumulatorTracksSpotPrice() {
	pair := suite.pair(atom, osmo, 1_000_000_000_000, 2_000_000_000_000)
	start := suite.ctx.BlockTime()

	acc, found, err := suite.keeper.GetPriceAccumulator(suite.ctx, pair.Address)
	suite.Require().NoError(err)
	suite.Require().True(found, "created with the pair")
	suite.Require().Equal(start.Unix(), acc.LastTimestamp)
	suite.Require().True(acc.Cumulative[0].IsZero())
	suite.Require().Zero(acc.TotalSeconds)

	suite.ctx = suite.ctx.WithBlockTime(start.Add(100 * time.Second))
	suite.fund(suite.trader, atom, 1_000)
	_, err = suite.keeper.Swap(suite.ctx, suite.trader, pair.Address, atom, sdkmath.NewInt(1_000), sdkmath.ZeroInt(), suite.trader)
	suite.Require().NoError(err)

	// the 100 seconds before the swap are priced at the pre-swap reserves
	acc, _, err = suite.keeper.GetPriceAccumulator(suite.ctx, pair.Address)
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(100), acc.TotalSeconds)
	suite.Require().Equal(start.Unix()+100, acc.LastTimestamp)
	suite.requireNear(sdkmath.LegacyNewDec(200), acc.Cumulative[0])
	suite.requireNear(sdkmath.LegacyNewDec(50), acc.Cumulative[1])

	// a second swap in the same block adds nothing
	suite.fund(suite.trader, atom, 1_000)
	_, err = suite.keeper.Swap(suite.ctx, suite.trader, pair.Address, atom, sdkmath.NewInt(1_000), sdkmath.ZeroInt(), suite.trader)
	suite.Require().NoError(err)
	again, _, err := suite.keeper.GetPriceAccumulator(suite.ctx, pair.Address)
	suite.Require().NoError(err)
	suite.Require().Equal(acc, again)

	suite.ctx = suite.ctx.WithBlockTime(start.Add(150 * time.Second))
	qs := keeper.NewQueryServerImpl(*suite.keeper)
	res, err := qs.PriceAccumulator(suite.ctx, &types.QueryPriceAccumulatorRequest{Pair: pair.Address})
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(150), res.Accumulator.TotalSeconds)
	suite.requireNear(sdkmath.LegacyNewDec(300), res.Accumulator.Cumulative[0])
	suite.requireNear(sdkmath.LegacyNewDec(2), res.Average[0])
	suite.requireNear(sdkmath.LegacyNewDecWithPrec(5, 1), res.Average[1])

	stored, _, err := suite.keeper.GetPriceAccumulator(suite.ctx, pair.Address)
	suite.Require().NoError(err)
	suite.Require().Equal(acc, stored, "queries do not write")
}

func (suite *KeeperTestSuite) TestPriceAccumulatorOnLiquidityChanges() {
	pair, err := suite.keeper.CreatePair(suite.ctx, suite.trader, atom, osmo, suite.xykRef, types.CreatePairOptions{})
	suite.Require().NoError(err)
	start := suite.ctx.BlockTime()
	suite.fund(suite.trader, atom, 1_000_000_000_000)
	suite.fund(suite.trader, osmo, 1_000_000_000_000)

	// time without liquidity is not priced
	suite.ctx = suite.ctx.WithBlockTime(start.Add(60 * time.Second))
	shares, err := suite.keeper.ProvideLiquidity(suite.ctx, suite.trader, pair.Address, []types.AssetAmount{
		types.NewAssetAmount(atom, sdkmath.NewInt(1_000_000_000_000)),
		types.NewAssetAmount(osmo, sdkmath.NewInt(1_000_000_000_000)),
	}, sdkmath.ZeroInt())
	suite.Require().NoError(err)
	acc, _, err := suite.keeper.GetPriceAccumulator(suite.ctx, pair.Address)
	suite.Require().NoError(err)
	suite.Require().Zero(acc.TotalSeconds)
	suite.Require().Equal(start.Unix()+60, acc.LastTimestamp)

	suite.ctx = suite.ctx.WithBlockTime(start.Add(100 * time.Second))
	_, err = suite.keeper.WithdrawLiquidity(suite.ctx, suite.trader, pair.Address, shares.QuoRaw(2), nil)
	suite.Require().NoError(err)
	acc, _, err = suite.keeper.GetPriceAccumulator(suite.ctx, pair.Address)
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(40), acc.TotalSeconds)
	suite.requireNear(sdkmath.LegacyNewDec(40), acc.Cumulative[0])
	suite.requireNear(sdkmath.LegacyNewDec(40), acc.Cumulative[1])
}

func (suite *KeeperTestSuite) TestPriceAccumulatorRollsBackWithRoute() {
	ab := suite.pair(atom, osmo, 1_000_000, 1_000_000)
	suite.pair(osmo, usdc, 1_000_000, 1_000_000)
	suite.fund(suite.trader, atom, 10_000)
	before, _, err := suite.keeper.GetPriceAccumulator(suite.ctx, ab.Address)
	suite.Require().NoError(err)

	suite.ctx = suite.ctx.WithBlockTime(suite.ctx.BlockTime().Add(time.Minute))
	_, err = suite.keeper.ExecuteRoute(suite.ctx, suite.trader, route(atom, osmo, usdc), sdkmath.NewInt(10_000), sdkmath.NewInt(10_000), suite.trader)
	suite.Require().ErrorIs(err, types.ErrSlippageExceeded)

	after, _, err := suite.keeper.GetPriceAccumulator(suite.ctx, ab.Address)
	suite.Require().NoError(err)
	suite.Require().Equal(before, after)
}

func (suite *KeeperTestSuite) TestPriceAccumulatorGenesis() {
	pair := suite.pair(atom, osmo, 1_000_000, 1_000_000)
	suite.fund(suite.trader, atom, 1_000)
	suite.ctx = suite.ctx.WithBlockTime(suite.ctx.BlockTime().Add(time.Hour))
	_, err := suite.keeper.Swap(suite.ctx, suite.trader, pair.Address, atom, sdkmath.NewInt(1_000), sdkmath.ZeroInt(), suite.trader)
	suite.Require().NoError(err)

	exported, err := suite.keeper.ExportGenesis(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Len(exported.PriceAccumulators, 1)
	suite.Require().Equal(uint64(3600), exported.PriceAccumulators[0].TotalSeconds)
	suite.Require().NoError(exported.Validate())
}
