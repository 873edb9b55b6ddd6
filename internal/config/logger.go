package config

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds mlux's standard zap logger.
//
// When interactive is true the logger must never write to stdout/stderr:
// the viewer owns the alternate screen buffer and any stray byte written
// there would be indistinguishable from terminal output and could corrupt
// the display. In that mode only the optional --log file core is active.
// Batch "render" invocations are not interactive and get a console core
// too, split the same way the teacher's fbc logger splits it: everything
// below error level (debug, info, warn) to stdout, error and above to
// stderr, colorized when the stream is a terminal.
func NewLogger(logPath string, interactive bool) (*zap.Logger, error) {
	var cores []zapcore.Core

	if !interactive {
		cores = append(cores, consoleCores()...)
	}

	if len(logPath) > 0 {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("unable to open log file %q: %w", logPath, err)
		}
		enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		cores = append(cores, zapcore.NewCore(enc, zapcore.Lock(f), zap.DebugLevel))
	}

	if len(cores) == 0 {
		cores = append(cores, zapcore.NewNopCore())
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()).Named("mlux"), nil
}

func consoleCores() []zapcore.Core {
	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	ec.TimeKey = zapcore.OmitKey
	if EnableColorOutput(os.Stdout) {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		ec.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	lowPriority := zapcore.NewCore(zapcore.NewConsoleEncoder(ec), zapcore.Lock(os.Stdout),
		zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
			return lvl < zapcore.ErrorLevel
		}))

	ec = zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	ec.TimeKey = zapcore.OmitKey
	if EnableColorOutput(os.Stderr) {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		ec.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	highPriority := zapcore.NewCore(zapcore.NewConsoleEncoder(ec), zapcore.Lock(os.Stderr),
		zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
			return lvl >= zapcore.ErrorLevel
		}))

	return []zapcore.Core{lowPriority, highPriority}
}
