package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is replaced by InitLogger at startup. The no-op default keeps
// packages usable from tests without initialisation.
var Logger = zap.NewNop()

func InitLogger(production bool) error {
	var config zap.Config

	if production {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	logger, err := config.Build()
	if err != nil {
		return err
	}

	Logger = logger
	return nil
}

func Sync() {
	_ = Logger.Sync()
}
