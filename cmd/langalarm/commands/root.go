// Package commands implements the langalarm command line.
package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aliskhannn/langalarm/internal/app"
	"github.com/aliskhannn/langalarm/internal/config"
	"github.com/aliskhannn/langalarm/internal/logger"
)

var (
	configDir string
	cfg       *config.Config
)

func Execute(ctx context.Context) error {
	root := &cobra.Command{
		Use:           "langalarm",
		Short:         "Alarm clock that is dismissed by answering vocabulary questions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.LoadFrom(configDir)
			if err != nil {
				return err
			}
			cfg = c
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configDir, "config", "./config", "directory containing config.yaml")

	root.AddCommand(
		serveCmd(),
		migrateCmd(),
		practiceCmd(),
		importCmd(),
		exportCmd(),
		alarmsCmd(),
	)
	return root.ExecuteContext(ctx)
}

// newLogger builds the application logger. Quiet loggers only report warnings
// so they do not mix with interactive output.
func newLogger(quiet bool) (*zap.Logger, error) {
	c := *cfg
	if quiet && c.Env != "production" {
		c.Env = "quiet"
	}
	l, err := logger.New(&c)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return l, nil
}

// openApp builds the application for a command and returns a cleanup function.
func openApp(ctx context.Context, quiet bool) (*app.App, func(), error) {
	l, err := newLogger(quiet)
	if err != nil {
		return nil, nil, err
	}

	a, err := app.New(ctx, cfg, l)
	if err != nil {
		_ = l.Sync()
		return nil, nil, err
	}

	return a, func() {
		a.Close()
		_ = l.Sync()
	}, nil
}
