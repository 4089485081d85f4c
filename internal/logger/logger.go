package logger

import (
	"go.uber.org/zap"

	"github.com/aliskhannn/langalarm/internal/config"
)

// New builds the application logger for the configured environment.
func New(cfg *config.Config) (*zap.Logger, error) {
	switch cfg.Env {
	case "production":
		return zap.NewProduction()
	case "quiet":
		// Used by interactive CLI commands so logs do not mix with prompts.
		c := zap.NewDevelopmentConfig()
		c.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
		return c.Build()
	default:
		return zap.NewDevelopment()
	}
}
