package utils

import (
	"fmt"
	"strings"

	"github.com/auradrop/dropbot/dropbot/config"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

// ResponseHandler renders the bot's replies so every command looks alike.
type ResponseHandler struct{}

var EH = &ResponseHandler{}

type ErrorType int

const (
	UserError ErrorType = iota
	SystemError
	NotFoundError
	// PermissionError covers acting on someone else's card or offer.
	PermissionError
	// BusinessLogicError covers cooldowns, missing aura and game rules.
	BusinessLogicError
)

func getErrorPrefix(errorType ErrorType) string {
	switch errorType {
	case UserError:
		return "⚠️"
	case SystemError:
		return "🔧"
	case NotFoundError:
		return "🔍"
	case PermissionError:
		return "🚫"
	case BusinessLogicError:
		return "⏰"
	default:
		return "❌"
	}
}

func getErrorColor(errorType ErrorType) int {
	switch errorType {
	case UserError, BusinessLogicError:
		return config.WarningColor
	case NotFoundError:
		return config.InfoColor
	default:
		return config.ErrorColor
	}
}

func classifiedEmbed(errorType ErrorType, message string) discord.Embed {
	return discord.Embed{
		Description: getErrorPrefix(errorType) + " " + message,
		Color:       getErrorColor(errorType),
	}
}

func plainEmbed(color int, message string) discord.Embed {
	return discord.Embed{Description: message, Color: color}
}

func (h *ResponseHandler) CreateSuccessEmbed(event *handler.CommandEvent, message string) error {
	return event.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{plainEmbed(config.SuccessColor, message)},
	})
}

func (h *ResponseHandler) CreateInfoEmbed(event *handler.CommandEvent, message string) error {
	return event.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{plainEmbed(config.InfoColor, message)},
	})
}

// CreateEphemeralError answers a button press privately.
func (h *ResponseHandler) CreateEphemeralError(event *handler.ComponentEvent, message string) error {
	return event.CreateMessage(discord.MessageCreate{
		Content: "❌ " + message,
		Flags:   discord.MessageFlagEphemeral,
	})
}

func (h *ResponseHandler) CreateClassifiedError(event *handler.CommandEvent, errorType ErrorType, message string) error {
	return event.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{classifiedEmbed(errorType, message)},
	})
}

func (h *ResponseHandler) CreateUserError(event *handler.CommandEvent, message string) error {
	return h.CreateClassifiedError(event, UserError, message)
}

func (h *ResponseHandler) CreateSystemError(event *handler.CommandEvent, message string) error {
	return h.CreateClassifiedError(event, SystemError, message)
}

func (h *ResponseHandler) CreateNotFoundError(event *handler.CommandEvent, resource, identifier string) error {
	return h.CreateClassifiedError(event, NotFoundError, fmt.Sprintf("%s `%s` not found", resource, identifier))
}

func (h *ResponseHandler) CreateBusinessLogicError(event *handler.CommandEvent, message string) error {
	return h.CreateClassifiedError(event, BusinessLogicError, message)
}

// UpdateClassifiedError fills in a deferred response.
func (h *ResponseHandler) UpdateClassifiedError(event *handler.CommandEvent, errorType ErrorType, message string) error {
	_, err := event.UpdateInteractionResponse(discord.MessageUpdate{
		Embeds: &[]discord.Embed{classifiedEmbed(errorType, message)},
	})
	return err
}

func (h *ResponseHandler) UpdateSuccess(event *handler.CommandEvent, message string) error {
	_, err := event.UpdateInteractionResponse(discord.MessageUpdate{
		Embeds: &[]discord.Embed{plainEmbed(config.SuccessColor, message)},
	})
	return err
}

// AutoClassifyError works for both command and component events.
func (h *ResponseHandler) AutoClassifyError(event any, message string) error {
	errorType := ClassifyMessage(message)

	switch e := event.(type) {
	case *handler.CommandEvent:
		return h.CreateClassifiedError(e, errorType, message)
	case *handler.ComponentEvent:
		return e.CreateMessage(discord.MessageCreate{
			Content: getErrorPrefix(errorType) + " " + message,
			Flags:   discord.MessageFlagEphemeral,
		})
	default:
		return fmt.Errorf("cannot reply to %T", event)
	}
}

// ClassifyMessage guesses the error category from user-facing text.
func ClassifyMessage(message string) ErrorType {
	lowerMsg := strings.ToLower(message)

	switch {
	case containsAny(lowerMsg, "not found", "no cards", "doesn't exist"):
		return NotFoundError
	case containsAny(lowerMsg, "don't own", "not yours", "permission"):
		return PermissionError
	case containsAny(lowerMsg, "invalid", "must", "may only", "required"):
		return UserError
	case containsAny(lowerMsg, "cooldown", "claim again", "come back", "enough", "already", "pending"):
		return BusinessLogicError
	default:
		return SystemError
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
