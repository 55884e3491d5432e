package keeper_test

import (
	"time"

	sdkmath "cosmossdk.io/math"

	"github.com/ammx-chain/ammx/x/amm/types"
)

func (suite *KeeperTestSuite) TestUpdateParams() {
	params := types.DefaultParams()
	params.MaxHops = 4

	err := suite.keeper.UpdateParams(suite.ctx, suite.trader.String(), params)
	suite.Require().ErrorIs(err, types.ErrUnauthorized)

	suite.Require().NoError(suite.keeper.UpdateParams(suite.ctx, suite.authority(), params))
	got, err := suite.keeper.GetParams(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Equal(uint32(4), got.MaxHops)

	params.MaxHops = 0
	suite.Require().Error(suite.keeper.UpdateParams(suite.ctx, suite.authority(), params))
}

func (suite *KeeperTestSuite) TestDeprecatePair() {
	pair := suite.pair(atom, osmo, 1000, 1000)

	err := suite.keeper.DeprecatePair(suite.ctx, suite.trader.String(), pair.Address)
	suite.Require().ErrorIs(err, types.ErrUnauthorized)

	suite.Require().NoError(suite.keeper.DeprecatePair(suite.ctx, suite.authority(), pair.Address))
	suite.Require().True(suite.reload(pair).IsDeprecated())

	// Idempotent, and the identity stays taken.
	suite.Require().NoError(suite.keeper.DeprecatePair(suite.ctx, suite.authority(), pair.Address))
	_, err = suite.keeper.CreatePair(suite.ctx, suite.trader, atom, osmo, suite.xykRef, types.CreatePairOptions{})
	suite.Require().ErrorIs(err, types.ErrPairAlreadyExists)
}

func (suite *KeeperTestSuite) TestUpdatePairFee() {
	pair := suite.pair(atom, osmo, 1000, 1000)

	suite.Require().ErrorIs(
		suite.keeper.UpdatePairFee(suite.ctx, suite.authority(), pair.Address, types.NewFeeRate(2, 100)),
		types.ErrInvalidInput,
	)
	suite.Require().NoError(suite.keeper.UpdatePairFee(suite.ctx, suite.authority(), pair.Address, types.ZeroFee()))

	quote, err := suite.keeper.SimulateSwap(suite.ctx, pair.Address, atom, sdkmath.NewInt(100))
	suite.Require().NoError(err)
	suite.Require().True(quote.Fee.IsZero())
	// floor(1000 * 100 / 1100)
	suite.Require().Equal(sdkmath.NewInt(90), quote.AmountOut)
}

func (suite *KeeperTestSuite) TestAmpRamp() {
	pair := suite.f.CreateFundedPair(suite.T(), usdc, usdt, suite.stableRef, sdkmath.NewInt(1_000_000), sdkmath.NewInt(1_000_000))
	now := suite.ctx.BlockTime().Unix()
	day := types.MinAmpChangingTime

	suite.Require().ErrorIs(suite.keeper.StartAmpRamp(suite.ctx, suite.authority(), pair.Address, 200, now+day-1), types.ErrInvalidInput)
	suite.Require().ErrorIs(suite.keeper.StartAmpRamp(suite.ctx, suite.authority(), pair.Address, 1001, now+day), types.ErrInvalidInput)
	suite.Require().ErrorIs(suite.keeper.StartAmpRamp(suite.ctx, suite.authority(), pair.Address, 9, now+day), types.ErrInvalidInput)
	suite.Require().ErrorIs(suite.keeper.StartAmpRamp(suite.ctx, suite.trader.String(), pair.Address, 200, now+day), types.ErrUnauthorized)

	suite.Require().NoError(suite.keeper.StartAmpRamp(suite.ctx, suite.authority(), pair.Address, 300, now+2*day))
	stable := suite.reload(pair).Stable
	suite.Require().Equal(uint64(100), stable.CurrentAmp(now))
	suite.Require().Equal(uint64(200), stable.CurrentAmp(now+day))
	suite.Require().Equal(uint64(300), stable.CurrentAmp(now+3*day))

	suite.ctx = suite.ctx.WithBlockTime(suite.ctx.BlockTime().Add(time.Duration(day) * time.Second))
	suite.Require().NoError(suite.keeper.StopAmpRamp(suite.ctx, suite.authority(), pair.Address))
	stable = suite.reload(pair).Stable
	suite.Require().Equal(uint64(200), stable.CurrentAmp(now+3*day))

	xyk := suite.pair(atom, osmo, 1000, 1000)
	suite.Require().ErrorIs(suite.keeper.StopAmpRamp(suite.ctx, suite.authority(), xyk.Address), types.ErrInvalidInput)
}

func (suite *KeeperTestSuite) TestRegisterPairConfig() {
	suite.Require().ErrorIs(
		suite.keeper.RegisterPairConfig(suite.ctx, suite.trader.String(), xykConfig),
		types.ErrUnauthorized,
	)

	invalid := xykConfig
	invalid.FeeRate = types.NewFeeRate(2, 100)
	suite.Require().Error(suite.keeper.RegisterPairConfig(suite.ctx, suite.authority(), invalid))

	configs, err := suite.keeper.GetAllPairConfigs(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Len(configs, 2)

	updated := xykConfig
	updated.ProtocolFeeShare = types.NewFeeRate(1, 2)
	suite.Require().NoError(suite.keeper.RegisterPairConfig(suite.ctx, suite.authority(), updated))
	got, found, err := suite.keeper.GetPairConfig(suite.ctx, suite.xykRef)
	suite.Require().NoError(err)
	suite.Require().True(found)
	suite.Require().Equal(updated, got)

	configs, err = suite.keeper.GetAllPairConfigs(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Len(configs, 2)
}
