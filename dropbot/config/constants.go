package config

import "time"

// UI and Display Constants
const (
	CardsPerPage    = 10
	LeaderboardSize = 10

	// Colors
	ErrorColor   = 0xFF0000
	SuccessColor = 0x00FF00
	InfoColor    = 0x0099FF
	WarningColor = 0xFFAA00

	EmbedDefaultColor = 0x2B2D31
	DropColor         = 0xF4A7C3
	TradeColor        = 0x9B59B6

	AcceptEmoji  = "✅"
	DeclineEmoji = "❌"
	CurrencyName = "aura"
)

// Database and Performance Constants
const (
	DefaultQueryTimeout     = 30 * time.Second
	ClaimQueryTimeout       = 10 * time.Second
	CommandExecutionTimeout = 10 * time.Second
	ShutdownTimeout         = 10 * time.Second

	LeaderboardCacheSize = 5000
	SessionEventBuffer   = 64
)

// Item IDs
const (
	ItemExtraDrop  = "extra_drop"
	ItemExtraClaim = "extra_claim"
)

// Interaction timeouts
const (
	RecycleConfirmTimeout = 30 * time.Second
)
