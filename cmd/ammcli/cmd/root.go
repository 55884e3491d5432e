package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ammx-chain/ammx/x/amm"
)

const (
	// EnvPrefix prefixes environment overrides, e.g. AMMCLI_LISTEN_ADDR.
	EnvPrefix = "AMMCLI"

	flagConfig = "config"
)

// NewRootCmd creates the ammcli root command. Flags not given on the command
// line fall back to environment variables and then to the --config file.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:           "ammcli",
		Short:         "Offline quoting and snapshot serving for the amm module",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			path, err := cmd.Flags().GetString(flagConfig)
			if err != nil {
				return err
			}
			if path != "" {
				v.SetConfigFile(path)
				if err := v.ReadInConfig(); err != nil {
					return fmt.Errorf("read config %s: %w", path, err)
				}
			}
			return applyConfig(cmd.Flags(), v)
		},
	}

	rootCmd.PersistentFlags().String(flagConfig, "", "Config file (toml, yaml or json) with flag defaults")
	rootCmd.AddCommand(
		amm.AppModuleBasic{}.GetQueryCmd(),
		NewServeCmd(),
	)

	return rootCmd
}

// applyConfig sets every flag the user did not pass from v.
func applyConfig(fs *pflag.FlagSet, v *viper.Viper) error {
	var errs []string
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Changed || f.Name == flagConfig || !v.IsSet(f.Name) {
			return
		}
		val := v.Get(f.Name)
		var s string
		if f.Value.Type() == "stringSlice" {
			s = strings.Join(cast.ToStringSlice(val), ",")
		} else {
			s = cast.ToString(val)
		}
		if err := fs.Set(f.Name, s); err != nil {
			errs = append(errs, fmt.Sprintf("--%s: %v", f.Name, err))
		}
	})
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return nil
}
