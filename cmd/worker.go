package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/gardenlog/apiserver/config"
	"github.com/gardenlog/apiserver/internal/logging"
	"github.com/gardenlog/apiserver/internal/mq"
	"github.com/gardenlog/apiserver/internal/services"
	"github.com/gardenlog/apiserver/internal/storage"
	"github.com/spf13/cobra"
)

// workerCmd deletes uploads released by image updates and deletes.
var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consumes image events and removes released uploads",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		logger := logging.New(cfg.Log, os.Stderr).With().Str("component", "worker").Logger()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		queue, err := mq.NewFromConfig(ctx, cfg.MQ)
		if err != nil {
			return err
		}
		if queue == nil {
			return errors.New("worker needs MQ_BACKEND to be rabbitmq or pubsub")
		}
		defer func() {
			_ = queue.Close()
		}()

		objects, err := storage.New(ctx, cfg.Upload)
		if err != nil {
			return err
		}

		cleanup := services.NewUploadCleanup(objects, logger)
		logger.Info().Str("channel", cfg.MQ.ImageEventsChannel).Msg("consuming image events")

		err = queue.Subscribe(ctx, cfg.MQ.ImageEventsChannel, cleanup.Handle)
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
