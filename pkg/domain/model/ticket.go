package model

import (
	"time"

	"github.com/commguard/cerberus/pkg/domain/types"
)

// Ticket is the tracked record of a ticket channel. The lifecycle is
// driven by ActivitySeen: once a prospect posts in the channel the flag
// flips to true and never back, which suppresses the bump and close
// actions scheduled at creation time.
type Ticket struct {
	ChannelID types.ChannelID
	GuildID   types.GuildID
	Name      string

	// OwnerID is the account that created the channel, resolved
	// best-effort from the audit log. Empty when the correlation failed.
	OwnerID types.UserID

	ActivitySeen bool
	Status       types.TicketStatus
	CreatedAt    time.Time
}

// Clone returns a deep copy of the ticket
func (t *Ticket) Clone() *Ticket {
	if t == nil {
		return nil
	}
	copied := *t
	return &copied
}

// Channel is the payload of a channel-create / channel-delete gateway event
type Channel struct {
	ID      types.ChannelID
	GuildID types.GuildID
	Name    string
	IsText  bool
}

// Member is the payload of a member-joined gateway event
type Member struct {
	GuildID  types.GuildID
	UserID   types.UserID
	Username string
}

// ChannelMessage is the payload of a message-create gateway event
type ChannelMessage struct {
	ID        types.MessageID
	GuildID   types.GuildID
	ChannelID types.ChannelID
	AuthorID  types.UserID
	Content   string
	IsBot     bool

	// RoleIDs are the roles the author holds in the guild, as delivered
	// with the gateway event.
	RoleIDs []types.RoleID
}
