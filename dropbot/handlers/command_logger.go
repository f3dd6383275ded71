package handlers

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/auradrop/dropbot/dropbot/config"
	"github.com/auradrop/dropbot/dropbot/metrics"
	"github.com/disgoorg/disgo/handler"
)

var (
	executionTimeout = config.CommandExecutionTimeout
	slowThreshold    = 2 * time.Second
)

// WrapWithLogging wraps a command handler with logging and metrics
func WrapWithLogging(name string, h handler.CommandHandler) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		slog.Info("Command started",
			slog.String("type", "cmd"),
			slog.String("name", name),
			slog.String("user_id", e.User().ID.String()),
			slog.String("user_name", e.User().Username),
			slog.String("channel_id", e.ChannelID().String()),
		)

		return observe("cmd", name, []any{
			slog.String("user_id", e.User().ID.String()),
			slog.String("user_name", e.User().Username),
		}, func() error { return h(e) })
	}
}

// WrapComponentWithLogging wraps a component handler with logging and metrics
func WrapComponentWithLogging(name string, h handler.ComponentHandler) handler.ComponentHandler {
	return func(e *handler.ComponentEvent) error {
		slog.Info("Component interaction started",
			slog.String("type", "component"),
			slog.String("name", name),
			slog.String("user_id", e.User().ID.String()),
			slog.String("custom_id", e.Data.CustomID()),
		)

		return observe("component", name, []any{
			slog.String("user_id", e.User().ID.String()),
		}, func() error { return h(e) })
	}
}

// observe runs fn, logs how it went and records it. A handler that outlives
// executionTimeout is reported as failed; it keeps running in the background.
func observe(kind, name string, attrs []any, fn func() error) error {
	start := time.Now()

	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()

	base := append([]any{slog.String("type", kind), slog.String("name", name)}, attrs...)

	select {
	case err := <-done:
		took := time.Since(start)
		metrics.ObserveCommand(name, took, err)

		logAttrs := append(base, slog.Duration("took", took))
		switch {
		case err != nil:
			slog.Error("Command failed", append(logAttrs,
				slog.Any("error", err),
				slog.String("status", "failed"),
			)...)
		case took > slowThreshold:
			slog.Warn("Command executed slowly", append(logAttrs, slog.String("status", "slow"))...)
		default:
			slog.Info("Command completed", append(logAttrs, slog.String("status", "success"))...)
		}
		return err

	case <-time.After(executionTimeout):
		err := fmt.Errorf("%s timed out after %s", name, executionTimeout)
		metrics.ObserveCommand(name, executionTimeout, err)
		slog.Error("Command timed out", append(base,
			slog.String("status", "timeout"),
			slog.Duration("timeout", executionTimeout),
		)...)
		return err
	}
}
