package epp

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the logger EPP scripts run with: JSON records appended to
// the script's log file (which the LIMS collects as a result artifact) and a
// console copy on stderr so the last line shows up in the GUI. An empty path
// logs to stderr only.
func NewLogger(path string) (*zap.Logger, error) {
	consoleEnc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	cores := []zapcore.Core{
		zapcore.NewCore(consoleEnc, zapcore.Lock(os.Stderr), zapcore.InfoLevel),
	}

	if path != "" {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		fileEnc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		cores = append(cores, zapcore.NewCore(fileEnc, zapcore.AddSync(f), zapcore.InfoLevel))
	}

	log := zap.New(zapcore.NewTee(cores...))
	log.Info("script started",
		zap.String("script", os.Args[0]),
		zap.Strings("args", os.Args[1:]))
	return log, nil
}
