package utils

import (
	"testing"

	"github.com/auradrop/dropbot/dropbot/config"
	"github.com/stretchr/testify/assert"
)

func TestClassifyMessage(t *testing.T) {
	tests := []struct {
		msg  string
		want ErrorType
	}{
		{"Card `ARIA00101` not found", NotFoundError},
		{"You don't own that card.", PermissionError},
		{"UID may only contain letters and digits", UserError},
		{"Quantity must be between 1 and 100.", UserError},
		{"You don't have enough aura for that.", BusinessLogicError},
		{"Come back <t:1714651200:R>.", BusinessLogicError},
		{"You already have a pending offer to that user.", BusinessLogicError},
		{"Something broke.", SystemError},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyMessage(tt.msg))
		})
	}
}

func TestClassifiedEmbed(t *testing.T) {
	embed := classifiedEmbed(BusinessLogicError, "Slow down")
	assert.Equal(t, "⏰ Slow down", embed.Description)
	assert.Equal(t, config.WarningColor, embed.Color)

	embed = classifiedEmbed(SystemError, "Oops")
	assert.Equal(t, config.ErrorColor, embed.Color)
}
