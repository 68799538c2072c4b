package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is replaced by Init at startup; the no-op default keeps packages usable in tests.
var Log = zap.NewNop()

func Init(isProd bool) func() error {
	if isProd {
		Log = zap.Must(zap.NewProduction())
	} else {
		config := zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		Log = zap.Must(config.Build())
	}
	return Log.Sync
}

// Set swaps the global logger, mainly for zaptest loggers.
func Set(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	Log = l
}
