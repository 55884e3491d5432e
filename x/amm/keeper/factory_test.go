package keeper_test

import (
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	keepertest "github.com/ammx-chain/ammx/testutil/keeper"
	"github.com/ammx-chain/ammx/x/amm/keeper"
	"github.com/ammx-chain/ammx/x/amm/types"
)

func (suite *KeeperTestSuite) TestCreatePair() {
	creator := keepertest.TestAddr("creator")

	pair, err := suite.keeper.CreatePair(suite.ctx, creator, osmo, atom, suite.xykRef, types.CreatePairOptions{})
	suite.Require().NoError(err)

	sorted, _ := types.SortAssets(atom, osmo)
	suite.Require().Equal(sorted, pair.Assets)
	suite.Require().Equal(keeper.PairAddress(sorted, suite.xykRef).String(), pair.Address)
	suite.Require().Equal(uint64(1), pair.ID)
	suite.Require().True(pair.TotalShares.IsZero())
	suite.Require().True(pair.Reserves[0].IsZero() && pair.Reserves[1].IsZero())
	suite.Require().Equal(uint64(2), suite.keeper.GetNextPairID(suite.ctx))

	resolved, err := suite.keeper.ResolvePair(suite.ctx, atom, osmo)
	suite.Require().NoError(err)
	suite.Require().Equal(pair.Address, resolved.Address)

	pinned, err := suite.keeper.ResolvePairWithConfig(suite.ctx, osmo, atom, suite.xykRef)
	suite.Require().NoError(err)
	suite.Require().Equal(pair.Address, pinned.Address)

	events := suite.ctx.EventManager().Events()
	suite.Require().Equal(types.EventTypePairCreated, events[len(events)-1].Type)
}

func (suite *KeeperTestSuite) TestCreatePairDuplicateIdentity() {
	_, err := suite.keeper.CreatePair(suite.ctx, suite.trader, atom, osmo, suite.xykRef, types.CreatePairOptions{})
	suite.Require().NoError(err)

	// The identity ignores argument order.
	_, err = suite.keeper.CreatePair(suite.ctx, suite.trader, osmo, atom, suite.xykRef, types.CreatePairOptions{})
	suite.Require().ErrorIs(err, types.ErrPairAlreadyExists)

	// Another config is another identity.
	_, err = suite.keeper.CreatePair(suite.ctx, suite.trader, osmo, atom, suite.stableRef, types.CreatePairOptions{})
	suite.Require().NoError(err)
}

func (suite *KeeperTestSuite) TestCreatePairRejections() {
	_, err := suite.keeper.CreatePair(suite.ctx, suite.trader, atom, atom, suite.xykRef, types.CreatePairOptions{})
	suite.Require().ErrorIs(err, types.ErrInvalidInput)

	_, err = suite.keeper.CreatePair(suite.ctx, suite.trader, atom, osmo, "xyk:1/2", types.CreatePairOptions{})
	suite.Require().ErrorIs(err, types.ErrUnknownConfig)

	tooHigh := types.NewFeeRate(2, 100)
	_, err = suite.keeper.CreatePair(suite.ctx, suite.trader, atom, osmo, suite.xykRef, types.CreatePairOptions{FeeRate: &tooHigh})
	suite.Require().ErrorIs(err, types.ErrInvalidInput)

	disabled := xykConfig
	disabled.Disabled = true
	suite.Require().NoError(suite.keeper.RegisterPairConfig(suite.ctx, suite.authority(), disabled))
	_, err = suite.keeper.CreatePair(suite.ctx, suite.trader, atom, osmo, suite.xykRef, types.CreatePairOptions{})
	suite.Require().ErrorIs(err, types.ErrConfigDisabled)

	suite.Require().Equal(uint64(1), suite.keeper.GetNextPairID(suite.ctx))
}

func (suite *KeeperTestSuite) TestCreatePairFeeOverride() {
	fee := types.NewFeeRate(5, 1000)
	pair, err := suite.keeper.CreatePair(suite.ctx, suite.trader, atom, osmo, suite.xykRef, types.CreatePairOptions{FeeRate: &fee})
	suite.Require().NoError(err)
	suite.Require().Equal(fee, pair.Config.FeeRate)
	suite.Require().Equal(suite.xykRef, pair.ConfigRef)
}

func (suite *KeeperTestSuite) TestCreateStablePairAmp() {
	pair, err := suite.keeper.CreatePair(suite.ctx, suite.trader, usdc, usdt, suite.stableRef, types.CreatePairOptions{})
	suite.Require().NoError(err)
	suite.Require().NotNil(pair.Stable)
	suite.Require().Equal(types.DefaultAmp, pair.Stable.CurrentAmp(suite.ctx.BlockTime().Unix()))

	custom, err := suite.keeper.CreatePair(suite.ctx, suite.trader, usdc, atom, suite.stableRef, types.CreatePairOptions{Amp: 400})
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(400), custom.Stable.InitAmp)

	_, err = suite.keeper.CreatePair(suite.ctx, suite.trader, usdt, atom, suite.stableRef, types.CreatePairOptions{Amp: types.MaxAmp + 1})
	suite.Require().ErrorIs(err, types.ErrInvalidInput)
}

func (suite *KeeperTestSuite) TestCreatePairOptionRejections() {
	precisions := map[string]uint32{usdc.Key(): 6, usdt.Key(): 18}

	_, err := suite.keeper.CreatePair(suite.ctx, suite.trader, usdc, usdt, suite.xykRef, types.CreatePairOptions{Precisions: precisions})
	suite.Require().ErrorIs(err, types.ErrInvalidInput, "precisions are stable only")

	_, err = suite.keeper.CreatePair(suite.ctx, suite.trader, usdc, usdt, suite.stableRef, types.CreatePairOptions{
		Precisions: map[string]uint32{usdc.Key(): 6, atom.Key(): 18},
	})
	suite.Require().ErrorIs(err, types.ErrInvalidInput)

	_, err = suite.keeper.CreatePair(suite.ctx, suite.trader, usdc, usdt, suite.stableRef, types.CreatePairOptions{
		Precisions: map[string]uint32{usdc.Key(): 6, usdt.Key(): types.MaxPrecision + 1},
	})
	suite.Require().ErrorIs(err, types.ErrInvalidInput)

	_, err = suite.keeper.CreatePair(suite.ctx, suite.trader, usdc, usdt, suite.stableRef, types.CreatePairOptions{TradingStart: -1})
	suite.Require().ErrorIs(err, types.ErrInvalidInput)

	pair, err := suite.keeper.CreatePair(suite.ctx, suite.trader, usdc, usdt, suite.stableRef, types.CreatePairOptions{Precisions: precisions})
	suite.Require().NoError(err)
	suite.Require().Equal([2]uint32{6, 18}, pair.Stable.Precisions)
	suite.Require().Equal(pair.Stable.Precisions, suite.reload(pair).Stable.Precisions)
}

func (suite *KeeperTestSuite) TestCreatePairOnlyAdmin() {
	params, err := suite.keeper.GetParams(suite.ctx)
	suite.Require().NoError(err)
	params.OnlyAdminCreatesPairs = true
	suite.Require().NoError(suite.keeper.UpdateParams(suite.ctx, suite.authority(), params))

	_, err = suite.keeper.CreatePair(suite.ctx, suite.trader, atom, osmo, suite.xykRef, types.CreatePairOptions{})
	suite.Require().ErrorIs(err, types.ErrUnauthorized)

	_, err = suite.keeper.CreatePair(suite.ctx, suite.f.Authority, atom, osmo, suite.xykRef, types.CreatePairOptions{})
	suite.Require().NoError(err)
}

func (suite *KeeperTestSuite) TestCreatePairCreationFee() {
	feeAddr := keepertest.TestAddr("fees")
	params, err := suite.keeper.GetParams(suite.ctx)
	suite.Require().NoError(err)
	params.FeeAddress = feeAddr.String()
	params.PairCreationFee = sdk.NewCoins(sdk.NewInt64Coin("uatom", 100))
	suite.Require().NoError(suite.keeper.UpdateParams(suite.ctx, suite.authority(), params))

	// An unfunded creator pays nothing and deploys nothing.
	_, err = suite.keeper.CreatePair(suite.ctx, suite.trader, atom, osmo, suite.xykRef, types.CreatePairOptions{})
	suite.Require().Error(err)
	sorted, _ := types.SortAssets(atom, osmo)
	suite.Require().False(suite.keeper.HasPair(suite.ctx, keeper.PairAddress(sorted, suite.xykRef)))

	suite.fund(suite.trader, atom, 150)
	_, err = suite.keeper.CreatePair(suite.ctx, suite.trader, atom, osmo, suite.xykRef, types.CreatePairOptions{})
	suite.Require().NoError(err)
	suite.Require().Equal(sdkmath.NewInt(50), suite.balance(suite.trader, atom))
	suite.Require().Equal(sdkmath.NewInt(100), suite.balance(feeAddr, atom))

	// The admin is exempt.
	_, err = suite.keeper.CreatePair(suite.ctx, suite.f.Authority, atom, usdc, suite.xykRef, types.CreatePairOptions{})
	suite.Require().NoError(err)
}

func (suite *KeeperTestSuite) TestInitializePair() {
	_, err := suite.keeper.InitializePair(suite.ctx, suite.trader, suite.xykRef, xykConfig, atom, osmo, nil)
	suite.Require().ErrorIs(err, types.ErrUnauthorized)

	pair, err := suite.keeper.CreatePair(suite.ctx, suite.trader, atom, osmo, suite.xykRef, types.CreatePairOptions{})
	suite.Require().NoError(err)

	_, err = suite.keeper.InitializePair(suite.ctx, suite.keeper.FactoryAddress(), suite.xykRef, xykConfig, osmo, atom, nil)
	suite.Require().ErrorIs(err, types.ErrAlreadyInitialized)
	suite.Require().Equal(pair.ID, suite.reload(pair).ID)
}

func (suite *KeeperTestSuite) TestResolvePair() {
	_, err := suite.keeper.ResolvePair(suite.ctx, atom, osmo)
	suite.Require().ErrorIs(err, types.ErrPairNotFound)

	_, err = suite.keeper.ResolvePairWithConfig(suite.ctx, atom, osmo, suite.xykRef)
	suite.Require().ErrorIs(err, types.ErrPairNotFound)

	first, err := suite.keeper.CreatePair(suite.ctx, suite.trader, atom, osmo, suite.xykRef, types.CreatePairOptions{})
	suite.Require().NoError(err)
	second, err := suite.keeper.CreatePair(suite.ctx, suite.trader, atom, osmo, suite.stableRef, types.CreatePairOptions{})
	suite.Require().NoError(err)

	resolved, err := suite.keeper.ResolvePair(suite.ctx, osmo, atom)
	suite.Require().NoError(err)
	suite.Require().Equal(first.Address, resolved.Address, "oldest pair is the default")

	suite.Require().NoError(suite.keeper.DeprecatePair(suite.ctx, suite.authority(), first.Address))
	resolved, err = suite.keeper.ResolvePair(suite.ctx, atom, osmo)
	suite.Require().NoError(err)
	suite.Require().Equal(second.Address, resolved.Address, "deprecated pairs are skipped")

	suite.Require().NoError(suite.keeper.DeprecatePair(suite.ctx, suite.authority(), second.Address))
	resolved, err = suite.keeper.ResolvePair(suite.ctx, atom, osmo)
	suite.Require().NoError(err)
	suite.Require().Equal(first.Address, resolved.Address)
	suite.Require().True(resolved.IsDeprecated())
}
