package keeper_test

import (
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	keepertest "github.com/ammx-chain/ammx/testutil/keeper"
	"github.com/ammx-chain/ammx/x/amm/types"
)

func (suite *KeeperTestSuite) deposit(provider sdk.AccAddress, pair types.Pair, amountA, amountB int64, minShares sdkmath.Int) (sdkmath.Int, error) {
	return suite.keeper.ProvideLiquidity(suite.ctx, provider, pair.Address, []types.AssetAmount{
		types.NewAssetAmount(pair.Assets[0], sdkmath.NewInt(amountA)),
		types.NewAssetAmount(pair.Assets[1], sdkmath.NewInt(amountB)),
	}, minShares)
}

func (suite *KeeperTestSuite) TestProvideLiquidityFirstDeposit() {
	pair, err := suite.keeper.CreatePair(suite.ctx, suite.trader, atom, osmo, suite.xykRef, types.CreatePairOptions{})
	suite.Require().NoError(err)

	provider := keepertest.TestAddr("provider")
	suite.fund(provider, atom, 1000)
	suite.fund(provider, osmo, 1000)

	shares, err := suite.deposit(provider, pair, 1000, 1000, sdkmath.ZeroInt())
	suite.Require().NoError(err)
	// sqrt(1000 * 1000) minus the 100 locked shares.
	suite.Require().Equal(sdkmath.NewInt(900), shares)

	pair = suite.reload(pair)
	suite.Require().Equal(sdkmath.NewInt(1000), pair.TotalShares)
	suite.Require().Equal(sdkmath.NewInt(1000), pair.Reserves[0])
	suite.Require().Equal(sdkmath.NewInt(1000), pair.Reserves[1])

	held, err := suite.keeper.GetShares(suite.ctx, sdk.MustAccAddressFromBech32(pair.Address), provider)
	suite.Require().NoError(err)
	suite.Require().Equal(shares, held)
	suite.Require().True(suite.balance(provider, atom).IsZero())
	suite.Require().Equal(sdkmath.NewInt(1000), suite.balance(sdk.MustAccAddressFromBech32(pair.Address), osmo))
}

func (suite *KeeperTestSuite) TestProvideLiquidityBelowMinimum() {
	pair, err := suite.keeper.CreatePair(suite.ctx, suite.trader, atom, osmo, suite.xykRef, types.CreatePairOptions{})
	suite.Require().NoError(err)
	suite.fund(suite.trader, atom, 100)
	suite.fund(suite.trader, osmo, 100)

	_, err = suite.deposit(suite.trader, pair, 100, 100, sdkmath.ZeroInt())
	suite.Require().ErrorIs(err, types.ErrInsufficientLiquidity)
	suite.Require().True(suite.reload(pair).TotalShares.IsZero())
}

func (suite *KeeperTestSuite) TestProvideLiquidityProportional() {
	pair := suite.pair(atom, osmo, 1000, 1000)
	provider := keepertest.TestAddr("provider")
	suite.fund(provider, atom, 500)
	suite.fund(provider, osmo, 100)

	// The smaller ratio decides; both amounts are pulled in full.
	shares, err := suite.deposit(provider, pair, 500, 100, sdkmath.ZeroInt())
	suite.Require().NoError(err)
	suite.Require().Equal(sdkmath.NewInt(100), shares)

	pair = suite.reload(pair)
	suite.Require().Equal(sdkmath.NewInt(1100), pair.TotalShares)
	suite.Require().Equal(sdkmath.NewInt(1500), pair.Reserves[0])
	suite.Require().Equal(sdkmath.NewInt(1100), pair.Reserves[1])
	suite.Require().True(suite.balance(provider, atom).IsZero())
	suite.Require().True(suite.balance(provider, osmo).IsZero())
}

func (suite *KeeperTestSuite) TestProvideLiquidityRejections() {
	pair := suite.pair(atom, osmo, 1000, 1000)
	provider := keepertest.TestAddr("provider")
	suite.fund(provider, atom, 100)
	suite.fund(provider, osmo, 100)

	_, err := suite.deposit(provider, pair, 100, 100, sdkmath.NewInt(101))
	suite.Require().ErrorIs(err, types.ErrSlippageExceeded)

	_, err = suite.keeper.ProvideLiquidity(suite.ctx, provider, pair.Address, []types.AssetAmount{
		types.NewAssetAmount(atom, sdkmath.NewInt(100)),
		types.NewAssetAmount(usdc, sdkmath.NewInt(100)),
	}, sdkmath.ZeroInt())
	suite.Require().ErrorIs(err, types.ErrUnsupportedAsset)

	_, err = suite.deposit(provider, pair, 100, 0, sdkmath.ZeroInt())
	suite.Require().ErrorIs(err, types.ErrInvalidInput)

	// Not enough funds: nothing moves.
	_, err = suite.deposit(provider, pair, 100, 200, sdkmath.ZeroInt())
	suite.Require().Error(err)
	suite.Require().Equal(sdkmath.NewInt(100), suite.balance(provider, atom))
	suite.Require().Equal(sdkmath.NewInt(1000), suite.reload(pair).Reserves[0])

	suite.Require().NoError(suite.keeper.DeprecatePair(suite.ctx, suite.authority(), pair.Address))
	_, err = suite.deposit(provider, pair, 100, 100, sdkmath.ZeroInt())
	suite.Require().ErrorIs(err, types.ErrPairDeprecated)
}

func (suite *KeeperTestSuite) TestWithdrawLiquidity() {
	pair := suite.pair(atom, osmo, 1000, 1000)
	seeder := keepertest.TestAddr("seeder")

	amounts, err := suite.keeper.WithdrawLiquidity(suite.ctx, seeder, pair.Address, sdkmath.NewInt(450), nil)
	suite.Require().NoError(err)
	suite.Require().Equal([]types.AssetAmount{
		types.NewAssetAmount(pair.Assets[0], sdkmath.NewInt(450)),
		types.NewAssetAmount(pair.Assets[1], sdkmath.NewInt(450)),
	}, amounts)
	suite.Require().Equal(sdkmath.NewInt(450), suite.balance(seeder, atom))

	pair = suite.reload(pair)
	suite.Require().Equal(sdkmath.NewInt(550), pair.TotalShares)
	suite.Require().Equal(sdkmath.NewInt(550), pair.Reserves[0])

	// The locked shares keep the pair alive after every provider leaves.
	_, err = suite.keeper.WithdrawLiquidity(suite.ctx, seeder, pair.Address, sdkmath.NewInt(450), nil)
	suite.Require().NoError(err)
	pair = suite.reload(pair)
	suite.Require().Equal(sdkmath.NewInt(100), pair.TotalShares)
	suite.Require().Equal(sdkmath.NewInt(100), pair.Reserves[1])
}

func (suite *KeeperTestSuite) TestWithdrawLiquidityRejections() {
	pair := suite.pair(atom, osmo, 1000, 1000)
	seeder := keepertest.TestAddr("seeder")

	_, err := suite.keeper.WithdrawLiquidity(suite.ctx, seeder, pair.Address, sdkmath.NewInt(901), nil)
	suite.Require().ErrorIs(err, types.ErrInsufficientShares)

	_, err = suite.keeper.WithdrawLiquidity(suite.ctx, suite.trader, pair.Address, sdkmath.NewInt(1), nil)
	suite.Require().ErrorIs(err, types.ErrInsufficientShares)

	_, err = suite.keeper.WithdrawLiquidity(suite.ctx, seeder, pair.Address, sdkmath.ZeroInt(), nil)
	suite.Require().ErrorIs(err, types.ErrInvalidInput)

	_, err = suite.keeper.WithdrawLiquidity(suite.ctx, seeder, pair.Address, sdkmath.NewInt(100), []types.AssetAmount{
		types.NewAssetAmount(osmo, sdkmath.NewInt(101)),
	})
	suite.Require().ErrorIs(err, types.ErrSlippageExceeded)
	suite.Require().Equal(sdkmath.NewInt(1000), suite.reload(pair).TotalShares)

	// Deprecated pairs still let providers leave.
	suite.Require().NoError(suite.keeper.DeprecatePair(suite.ctx, suite.authority(), pair.Address))
	_, err = suite.keeper.WithdrawLiquidity(suite.ctx, seeder, pair.Address, sdkmath.NewInt(100), nil)
	suite.Require().NoError(err)
}

func (suite *KeeperTestSuite) TestLiquidityRoundTripKeepsValue() {
	pair := suite.pair(atom, osmo, 10_000, 40_000)
	provider := keepertest.TestAddr("provider")
	suite.fund(provider, atom, 1000)
	suite.fund(provider, osmo, 4000)

	shares, err := suite.deposit(provider, pair, 1000, 4000, sdkmath.ZeroInt())
	suite.Require().NoError(err)
	_, err = suite.keeper.WithdrawLiquidity(suite.ctx, provider, pair.Address, shares, nil)
	suite.Require().NoError(err)

	// Rounding never pays out more than was deposited.
	suite.Require().True(suite.balance(provider, atom).LTE(sdkmath.NewInt(1000)))
	suite.Require().True(suite.balance(provider, osmo).LTE(sdkmath.NewInt(4000)))
}
