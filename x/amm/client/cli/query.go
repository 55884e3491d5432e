package cli

import (
	"encoding/json"
	"fmt"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/spf13/cobra"

	"github.com/ammx-chain/ammx/x/amm/types"
)

// GetQueryCmd returns the offline query commands for the amm module
func GetQueryCmd() *cobra.Command {
	ammQueryCmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Offline quoting commands for the amm module",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	ammQueryCmd.AddCommand(
		GetCmdQuote(),
		GetCmdQuoteRoute(),
		GetCmdPairAddress(),
		GetCmdValidateGenesis(),
	)

	return ammQueryCmd
}

// GetCmdQuote groups the curve quoting commands.
func GetCmdQuote() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "quote",
		Short:                      "Price swaps and deposits against given reserves",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(
		GetCmdQuoteSwap(),
		GetCmdQuoteReverse(),
		GetCmdQuoteDeposit(),
		GetCmdQuoteWithdraw(),
	)

	return cmd
}

func addOutputFlag(cmd *cobra.Command) {
	cmd.Flags().StringP(flags.FlagOutput, "o", flags.OutputFormatJSON, "Output format (text|json)")
}

// printJSON renders v through the client context so --output text yields
// YAML like the rest of the SDK CLI.
func printJSON(cmd *cobra.Command, v any) error {
	bz, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	format, err := cmd.Flags().GetString(flags.FlagOutput)
	if err != nil {
		return err
	}
	clientCtx := client.GetClientContextFromCmd(cmd).
		WithOutput(cmd.OutOrStdout()).
		WithOutputFormat(format)
	return clientCtx.PrintRaw(bz)
}
