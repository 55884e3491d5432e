package types

// Event types for the amm module
const (
	EventTypePairConfigRegistered = "amm_pair_config_registered"
	EventTypePairCreated          = "amm_pair_created"
	EventTypePairDeprecated       = "amm_pair_deprecated"
	EventTypePairFeeUpdated       = "amm_pair_fee_updated"
	EventTypeAmpRamp              = "amm_amp_ramp"
	EventTypeParamsUpdated        = "amm_params_updated"

	EventTypeProvideLiquidity  = "amm_provide_liquidity"
	EventTypeWithdrawLiquidity = "amm_withdraw_liquidity"
	EventTypeSwap              = "amm_swap"
	EventTypeProtocolFee       = "amm_protocol_fee"
	EventTypeRouteCompleted    = "amm_route_completed"
)

// Event attribute keys
const (
	AttributeKeyPair        = "pair"
	AttributeKeyPairID      = "pair_id"
	AttributeKeyConfig      = "config"
	AttributeKeyCreator     = "creator"
	AttributeKeyAssetA      = "asset_a"
	AttributeKeyAssetB      = "asset_b"
	AttributeKeyAssetIn     = "asset_in"
	AttributeKeyAssetOut    = "asset_out"
	AttributeKeyAmountIn    = "amount_in"
	AttributeKeyAmountOut   = "amount_out"
	AttributeKeyAmountA     = "amount_a"
	AttributeKeyAmountB     = "amount_b"
	AttributeKeyFee         = "fee"
	AttributeKeyProtocolFee = "protocol_fee"
	AttributeKeyFeeRate     = "fee_rate"
	AttributeKeySender      = "sender"
	AttributeKeyRecipient   = "recipient"
	AttributeKeyProvider    = "provider"
	AttributeKeyShares      = "shares"
	AttributeKeyReserveA    = "reserve_a"
	AttributeKeyReserveB    = "reserve_b"
	AttributeKeyTotalShares = "total_shares"
	AttributeKeySharePrice  = "share_price"
	AttributeKeyAmp         = "amp"
	AttributeKeyNextAmp     = "next_amp"
	AttributeKeyNextAmpTime = "next_amp_time"
	AttributeKeyHopCount    = "hop_count"
	AttributeKeyHops        = "hops"
	AttributeKeyMode        = "mode"
	AttributeKeyAuthority   = "authority"
)
