// Package logger builds the zap logger used by the container and application.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/km-arc/go-di/framework/config"
)

// New builds a logger from cfg. JSON output uses the production encoder,
// otherwise a coloured console encoder is used.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	var zc zap.Config
	if cfg.JSON {
		zc = zap.NewProductionConfig()
		zc.Sampling = &zap.SamplingConfig{
			Initial:    100,
			Thereafter: 100,
		}
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stdout"}
	zc.ErrorOutputPaths = []string{"stderr"}

	return zc.Build(zap.AddStacktrace(zap.ErrorLevel))
}
