package logger

import (
	"os"

	"rental_billing/internal/conf"
	"rental_billing/internal/provider"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger builds the root logger. Output always goes to stdout; when a
// filename is configured it is also written to a rotated file.
func NewLogger(cfg *conf.LogConfig, mode provider.AppMode) (*zap.Logger, func(), error) {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if cfg != nil && cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, nil, err
		}
	}

	var encoderCfg zapcore.EncoderConfig
	if mode == "dev" {
		encoderCfg = zap.NewDevelopmentEncoderConfig()
	} else {
		encoderCfg = zap.NewProductionEncoderConfig()
	}
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var consoleEncoder zapcore.Encoder
	if mode == "dev" {
		consoleEncoder = zapcore.NewConsoleEncoder(encoderCfg)
	} else {
		consoleEncoder = zapcore.NewJSONEncoder(encoderCfg)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stdout), level),
	}

	var rotator *lumberjack.Logger
	if cfg != nil && cfg.Filename != "" {
		rotator = &lumberjack.Logger{
			Filename:   cfg.Filename,
			MaxSize:    cfg.MaxSize,
			MaxAge:     cfg.MaxAge,
			MaxBackups: cfg.MaxBackups,
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(rotator), level))
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	zap.ReplaceGlobals(logger)

	cleanup := func() {
		_ = logger.Sync()
		if rotator != nil {
			_ = rotator.Close()
		}
	}
	return logger, cleanup, nil
}
