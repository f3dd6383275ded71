package economy

import "github.com/disgoorg/disgo/discord"

var Commands = []discord.ApplicationCommandCreate{
	Balance,
	Daily,
	Pay,
	Shop,
	Inventory,
	Recycle,
	Customize,
}
