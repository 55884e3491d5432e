package keeper_test

import (
	sdkmath "cosmossdk.io/math"

	"github.com/ammx-chain/ammx/x/amm/keeper"
)

func (suite *KeeperTestSuite) TestInvariantsHold() {
	suite.pair(atom, osmo, 1_000_000, 1_000_000)
	suite.pair(osmo, usdc, 1_000_000, 1_000_000)
	suite.fund(suite.trader, atom, 10_000)

	_, err := suite.keeper.ExecuteRoute(suite.ctx, suite.trader, route(atom, osmo, usdc), sdkmath.NewInt(10_000), sdkmath.ZeroInt(), suite.trader)
	suite.Require().NoError(err)

	msg, broken := keeper.AllInvariants(*suite.keeper)(suite.ctx)
	suite.Require().False(broken, msg)
}

func (suite *KeeperTestSuite) TestPairReservesInvariantBroken() {
	pair := suite.pair(atom, osmo, 1000, 1000)
	pair.Reserves[0] = pair.Reserves[0].AddRaw(1)
	suite.Require().NoError(suite.keeper.SetPair(suite.ctx, pair))

	_, broken := keeper.PairReservesInvariant(*suite.keeper)(suite.ctx)
	suite.Require().True(broken)
	_, broken = keeper.AllInvariants(*suite.keeper)(suite.ctx)
	suite.Require().True(broken)
}

func (suite *KeeperTestSuite) TestPairSharesInvariantBroken() {
	pair := suite.pair(atom, osmo, 1000, 1000)
	pair.TotalShares = sdkmath.NewInt(800)
	suite.Require().NoError(suite.keeper.SetPair(suite.ctx, pair))

	msg, broken := keeper.PairSharesInvariant(*suite.keeper)(suite.ctx)
	suite.Require().True(broken)
	suite.Require().Contains(msg, pair.Address)
}

func (suite *KeeperTestSuite) TestPairIdentityInvariant() {
	suite.pair(atom, osmo, 1000, 1000)

	_, broken := keeper.PairIdentityInvariant(*suite.keeper)(suite.ctx)
	suite.Require().False(broken)
}
