package cli

// Flag constants for amm CLI commands
const (
	// Curve flags
	FlagFee          = "fee"
	FlagAmp          = "amp"
	FlagMinLiquidity = "min-liquidity"
	FlagPrecisions   = "precisions"

	// Route flags
	FlagExactOut  = "exact-out"
	FlagConfigRef = "config-ref"
	FlagTime      = "time"
)
