package constants

// Bot constants
const (
	// BotName is the display name the bot registers with
	BotName = "sous-chef"
)

// Conversation constants
const (
	// MaxDisplayedRecipes is the maximum number of recipes shown per reply
	// and the upper bound for a valid numeric selection
	MaxDisplayedRecipes = 5
)

// Discord constants
const (
	// DiscordMaxMessageLength is the maximum character limit for Discord messages
	DiscordMaxMessageLength = 2000
)
