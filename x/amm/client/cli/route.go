package cli

import (
	"context"
	"fmt"
	"time"

	"cosmossdk.io/log"
	sdkmath "cosmossdk.io/math"
	"github.com/spf13/cobra"

	"github.com/ammx-chain/ammx/x/amm/types"
)

// GetCmdQuoteRoute simulates a multi-hop route over an exported genesis.
func GetCmdQuoteRoute() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "route [genesis-file] [amount] [asset] [asset]...",
		Short: "Simulate a multi-hop route against a genesis snapshot",
		Long: `Simulate a multi-hop route against a genesis snapshot. Assets are
native denoms or token:<contract>. Each consecutive pair of assets is one hop,
resolved to its canonical pair unless --config-ref pins every hop.`,
		Example: `$ ammcli amm route genesis.json 1000 uatom uosmo uusdc
$ ammcli amm route genesis.json 500 uatom uusdc --exact-out`,
		Args: cobra.MinimumNArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, ok := sdkmath.NewIntFromString(args[1])
			if !ok {
				return fmt.Errorf("invalid amount: %q", args[1])
			}
			configRef, err := cmd.Flags().GetString(FlagConfigRef)
			if err != nil {
				return err
			}
			hops, err := ParseHops(args[2:], configRef)
			if err != nil {
				return err
			}
			exactOut, err := cmd.Flags().GetBool(FlagExactOut)
			if err != nil {
				return err
			}
			clock, err := clockFromFlags(cmd)
			if err != nil {
				return err
			}

			snapshot, err := LoadSnapshot(args[0], clock, log.NewNopLogger())
			if err != nil {
				return err
			}

			var res *types.QuerySimulateRouteResponse
			err = snapshot.Query(cmd.Context(), func(ctx context.Context, qs types.QueryServer) error {
				res, err = qs.SimulateRoute(ctx, &types.QuerySimulateRouteRequest{
					Hops:     hops,
					Amount:   amount,
					ExactOut: exactOut,
				})
				return err
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, res.Result)
		},
	}

	cmd.Flags().Bool(FlagExactOut, false, "Treat amount as the desired output")
	cmd.Flags().String(FlagConfigRef, "", "Pin every hop to this pair config")
	cmd.Flags().Int64(FlagTime, 0, "Block time as unix seconds (default now)")
	addOutputFlag(cmd)
	return cmd
}

// ParseHops turns a path of assets into hops. Every hop carries configRef.
func ParseHops(path []string, configRef string) ([]types.Hop, error) {
	if len(path) < 2 {
		return nil, fmt.Errorf("route needs at least two assets, got %d", len(path))
	}
	assets := make([]types.Asset, len(path))
	for i, s := range path {
		a, err := types.ParseAsset(s)
		if err != nil {
			return nil, fmt.Errorf("asset %d: %w", i, err)
		}
		assets[i] = a
	}

	hops := make([]types.Hop, 0, len(assets)-1)
	for i := 0; i+1 < len(assets); i++ {
		hops = append(hops, types.Hop{AssetIn: assets[i], AssetOut: assets[i+1], ConfigRef: configRef})
	}
	return hops, nil
}

func clockFromFlags(cmd *cobra.Command) (func() time.Time, error) {
	unix, err := cmd.Flags().GetInt64(FlagTime)
	if err != nil {
		return nil, err
	}
	if unix == 0 {
		return time.Now, nil
	}
	t := time.Unix(unix, 0).UTC()
	return func() time.Time { return t }, nil
}
