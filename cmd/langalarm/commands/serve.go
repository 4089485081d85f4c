package commands

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the alarm scheduler, the Telegram bot and the REST API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := openApp(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer cleanup()

			a.Logger.Info("starting langalarm",
				zap.String("env", cfg.Env),
				zap.String("driver", cfg.DB.Driver),
				zap.String("timezone", a.Location.String()),
				zap.Bool("telegram", cfg.Telegram.Enabled),
				zap.Bool("http", cfg.HTTP.Enabled),
			)

			if err := a.Serve(cmd.Context()); err != nil {
				a.Logger.Error("langalarm stopped with error", zap.Error(err))
				return err
			}

			a.Logger.Info("shutdown complete")
			return nil
		},
	}
}
