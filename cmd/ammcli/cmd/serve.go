package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"cosmossdk.io/log"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ammx-chain/ammx/x/amm/client/cli"
	"github.com/ammx-chain/ammx/x/amm/client/rest"
)

const (
	flagGenesis         = "genesis"
	flagListenAddr      = "listen-addr"
	flagCORS            = "cors"
	flagCORSOrigins     = "cors-origins"
	flagRateLimit       = "rate-limit"
	flagLogLevel        = "log-level"
	flagLogJSON         = "log-json"
	flagShutdownTimeout = "shutdown-timeout"
)

// NewServeCmd serves the HTTP quote API over a genesis snapshot.
func NewServeCmd() *cobra.Command {
	defaults := rest.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve amm quotes over HTTP from an exported genesis",
		Long: `Load an exported amm genesis into memory and serve read-only queries,
swap and route simulations over HTTP. Prometheus metrics are exposed on
/metrics of the same listener.`,
		Example: `$ ammcli serve --genesis genesis.json --listen-addr :1318
$ AMMCLI_GENESIS=genesis.json AMMCLI_CORS=false ammcli serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(cmd)
			if err != nil {
				return err
			}
			genesis, _ := cmd.Flags().GetString(flagGenesis)
			if genesis == "" {
				return fmt.Errorf("--%s is required", flagGenesis)
			}

			cfg := rest.DefaultConfig()
			cfg.ListenAddr, _ = cmd.Flags().GetString(flagListenAddr)
			cfg.EnableCORS, _ = cmd.Flags().GetBool(flagCORS)
			cfg.AllowedOrigins, _ = cmd.Flags().GetStringSlice(flagCORSOrigins)
			cfg.RateLimit, _ = cmd.Flags().GetInt(flagRateLimit)
			timeout, _ := cmd.Flags().GetDuration(flagShutdownTimeout)

			snapshot, err := cli.LoadSnapshot(genesis, time.Now, logger)
			if err != nil {
				return err
			}
			srv, err := rest.NewServer(cfg, snapshot, logger)
			if err != nil {
				return err
			}
			return run(cmd.Context(), srv, timeout)
		},
	}

	cmd.Flags().String(flagGenesis, "", "Exported amm genesis file to serve")
	cmd.Flags().String(flagListenAddr, defaults.ListenAddr, "Address to listen on")
	cmd.Flags().Bool(flagCORS, defaults.EnableCORS, "Allow cross origin requests")
	cmd.Flags().StringSlice(flagCORSOrigins, nil, "Allowed CORS origins (default any)")
	cmd.Flags().Int(flagRateLimit, defaults.RateLimit, "Requests per second per client, 0 disables")
	cmd.Flags().String(flagLogLevel, zerolog.InfoLevel.String(), "Log level")
	cmd.Flags().Bool(flagLogJSON, false, "Log as JSON")
	cmd.Flags().Duration(flagShutdownTimeout, 10*time.Second, "Graceful shutdown timeout")
	return cmd
}

func newLogger(cmd *cobra.Command) (log.Logger, error) {
	levelStr, _ := cmd.Flags().GetString(flagLogLevel)
	level, err := zerolog.ParseLevel(levelStr)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s: %w", flagLogLevel, err)
	}
	opts := []log.Option{log.LevelOption(level)}
	if asJSON, _ := cmd.Flags().GetBool(flagLogJSON); asJSON {
		opts = append(opts, log.OutputJSONOption())
	}
	return log.NewLogger(os.Stderr, opts...), nil
}

// run serves until ctx is cancelled or the listener fails.
func run(ctx context.Context, srv *rest.Server, timeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
