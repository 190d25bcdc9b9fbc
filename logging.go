package plugkit

import "log/slog"

// Log level strings accepted by Logger implementations.
const (
	LevelDebug   = "debug"
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelError   = "error"
)

// LoggerKey is the reserved container key under which the pluggable log
// collaborator is bound.
const LoggerKey = "plugkit.logger"

// Logger is the log collaborator contract. Implementations are expected not
// to fail; any panic raised while logging is swallowed by the plugin.
type Logger interface {
	Log(level, message string)
}

// SlogLogger adapts a *slog.Logger to the Logger contract. A zero value
// routes to slog.Default().
type SlogLogger struct {
	L *slog.Logger
}

func (s SlogLogger) Log(level, message string) {
	l := s.L
	if l == nil {
		l = slog.Default()
	}
	switch level {
	case LevelDebug:
		l.Debug(message)
	case LevelInfo:
		l.Info(message)
	case LevelWarning:
		l.Warn(message)
	default:
		l.Error(message)
	}
}

// fallbackLog is the baseline process-level log write used when no log
// collaborator is available or the collaborator itself fails.
func fallbackLog(level, message string) {
	SlogLogger{}.Log(level, message)
}
