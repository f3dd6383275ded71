package logger

import (
	"log/slog"
)

func typed(kind string, attrs []any) []any {
	return append([]any{slog.String("type", kind)}, attrs...)
}

// LogGame records a drop, claim, trade or economy event.
func LogGame(msg string, attrs ...any) {
	slog.Info(msg, typed("game", attrs)...)
}

func LogSystem(msg string, attrs ...any) {
	slog.Info(msg, typed("sys", attrs)...)
}

func LogError(msg string, err error, attrs ...any) {
	slog.Error(msg, typed("error", append([]any{slog.Any("error", err)}, attrs...))...)
}
