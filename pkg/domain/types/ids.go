package types

import "github.com/m-mizutani/goerr/v2"

// GuildID identifies a Discord guild (server)
type GuildID string

func (id GuildID) String() string { return string(id) }

// Validate checks if the guild ID is non-empty
func (id GuildID) Validate() error {
	if id == "" {
		return goerr.New("guild ID is empty")
	}
	return nil
}

// ChannelID identifies a Discord channel
type ChannelID string

func (id ChannelID) String() string { return string(id) }

// UserID identifies a Discord user account
type UserID string

func (id UserID) String() string { return string(id) }

// RoleID identifies a Discord role
type RoleID string

func (id RoleID) String() string { return string(id) }

// MessageID identifies a Discord message
type MessageID string

func (id MessageID) String() string { return string(id) }

// InviteCode is the short code of a guild invite link
type InviteCode string

func (c InviteCode) String() string { return string(c) }
