package dropbot

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/auradrop/dropbot/dropbot/economy/bank"
	"github.com/auradrop/dropbot/dropbot/economy/cooldown"
	"github.com/auradrop/dropbot/dropbot/economy/drop"
	"github.com/auradrop/dropbot/dropbot/economy/trade"
	"github.com/auradrop/dropbot/dropbot/logger"
	"github.com/auradrop/dropbot/dropbot/utils"
	"github.com/disgoorg/disgo/handler"
)

const genericFailure = "Something went wrong. Please try again later."

// UserFacing turns a domain error into text for the user. ok is false for
// infrastructure failures that should be logged and answered generically.
func UserFacing(err error) (msg string, ok bool) {
	var onCooldown *cooldown.OnCooldownError
	switch {
	case err == nil:
		return "", false
	case errors.Is(err, drop.ErrWrongChannel):
		return "Hey! The photocards are not in this area.", true
	case errors.As(err, &onCooldown):
		return fmt.Sprintf("You can %s again in %s.", onCooldown.Action, cooldown.FormatRemaining(onCooldown.Remaining)), true
	case errors.Is(err, drop.ErrClosed), errors.Is(err, trade.ErrClosed):
		return "The bot is shutting down. Try again in a moment.", true
	case errors.Is(err, trade.ErrSelfTrade), errors.Is(err, trade.ErrCardNotFound),
		errors.Is(err, trade.ErrNotOwner), errors.Is(err, trade.ErrOfferPending),
		errors.Is(err, trade.ErrCardInOffer):
		return sentence(err.Error()), true
	}
	return bank.UserMessage(err)
}

func sentence(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:] + "."
}

// RespondError answers a failed command. Domain errors are shown as is,
// anything else is logged and replaced by a generic message.
func RespondError(e *handler.CommandEvent, operation string, err error) error {
	msg, ok := UserFacing(err)
	if !ok {
		logger.LogError("Command failed", err,
			slog.String("operation", operation),
			slog.String("user_id", e.User().ID.String()),
		)
		return utils.EH.CreateSystemError(e, genericFailure)
	}
	return utils.EH.AutoClassifyError(e, msg)
}

// RespondDeferredError is RespondError for commands that deferred their response.
func RespondDeferredError(e *handler.CommandEvent, operation string, err error) error {
	msg, ok := UserFacing(err)
	if !ok {
		logger.LogError("Command failed", err,
			slog.String("operation", operation),
			slog.String("user_id", e.User().ID.String()),
		)
		return utils.EH.UpdateClassifiedError(e, utils.SystemError, genericFailure)
	}
	return utils.EH.UpdateClassifiedError(e, utils.ClassifyMessage(msg), msg)
}
