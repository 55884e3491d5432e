package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ammx-chain/ammx/x/amm/keeper"
	"github.com/ammx-chain/ammx/x/amm/types"
)

type pairAddressOutput struct {
	Assets    [2]types.Asset `json:"assets"`
	ConfigRef string         `json:"config_ref"`
	Address   string         `json:"address"`
}

// GetCmdPairAddress derives the address a pair would get from its identity.
func GetCmdPairAddress() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "pair-address [asset-a] [asset-b] [config-ref]",
		Short:   "Derive the deterministic address of a pair",
		Example: `$ ammcli amm pair-address uatom token:cosmos1... xyk:3/1000`,
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := types.ParseAsset(args[0])
			if err != nil {
				return err
			}
			b, err := types.ParseAsset(args[1])
			if err != nil {
				return err
			}
			if err := types.ValidateAssetPair(a, b); err != nil {
				return err
			}
			assets, _ := types.SortAssets(a, b)
			return printJSON(cmd, pairAddressOutput{
				Assets:    assets,
				ConfigRef: args[2],
				Address:   keeper.PairAddress(assets, args[2]).String(),
			})
		},
	}

	addOutputFlag(cmd)
	return cmd
}

// GetCmdValidateGenesis checks an exported amm genesis file.
func GetCmdValidateGenesis() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate-genesis [file]",
		Short: "Validate an amm genesis file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bz, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			gs, err := types.ParseGenesis(bz)
			if err != nil {
				return err
			}
			if err := gs.Validate(); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %d configs, %d pairs, %d share records\n",
				args[0], len(gs.PairConfigs), len(gs.Pairs), len(gs.Shares))
			return err
		},
	}
	return cmd
}
