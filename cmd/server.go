package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gardenlog/apiserver/config"
	"github.com/gardenlog/apiserver/internal/logging"
	"github.com/gardenlog/apiserver/internal/server"
	"github.com/spf13/cobra"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Starts the gardenlog backend server",
	Long: `Starts the gardenlog backend server. Usage:

	gardenlog server
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.LoadConfig()
		logger := logging.New(cfg.Log, os.Stderr)

		srv, err := server.New(cmd.Context(), cfg, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to start server")
		}

		errs := make(chan error, 1)
		go func() {
			errs <- srv.Start()
		}()

		signals := make(chan os.Signal, 1)
		signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-errs:
			_ = srv.Shutdown()
			if err != nil {
				logger.Fatal().Err(err).Msg("server error")
			}
		case sig := <-signals:
			logger.Info().Str("signal", sig.String()).Msg("shutting down")
			if err := srv.Shutdown(); err != nil {
				logger.Error().Err(err).Msg("graceful shutdown failed")
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
