package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New builds the service logger. With an empty dir it logs JSON to stdout;
// with a dir it writes to a rotated file instead (100MB, 7 backups, 30 days).
func New(level string, dir string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	encCfg := zapcore.EncoderConfig{
		TimeKey:      "ts",
		LevelKey:     "level",
		MessageKey:   "msg",
		CallerKey:    "caller",
		EncodeTime:   zapcore.ISO8601TimeEncoder,
		EncodeLevel:  zapcore.LowercaseLevelEncoder,
		EncodeCaller: zapcore.ShortCallerEncoder,
	}

	var sink zapcore.WriteSyncer
	if dir == "" {
		sink = zapcore.AddSync(os.Stdout)
	} else {
		sink = zapcore.AddSync(&lumberjack.Logger{
			Filename:   dir + "/freight-marketplace-service.log",
			MaxSize:    100, // MB before it rolls
			MaxBackups: 7,
			MaxAge:     30, // days
			Compress:   true,
		})
	}

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), sink, lvl)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}
