package usecase

// Context keys for error values
const (
	GuildIDKey   = "guild_id"
	ChannelIDKey = "channel_id"
	UserIDKey    = "user_id"
)
