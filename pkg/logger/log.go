package logger

import "go.uber.org/zap"

func NewLogger() *zap.Logger {
	cfg := zap.Config{
		Encoding:         "console",
		Level:            zap.NewAtomicLevelAt(zap.DebugLevel),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig:    zap.NewProductionEncoderConfig(),
	}

	log, err := cfg.Build()
	if err != nil {
		panic(err)
	}

	return log
}
