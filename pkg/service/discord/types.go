package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/commguard/cerberus/pkg/domain/types"
)

// Service provides interface to the Discord REST API for the operations
// the bot performs. Gateway events arrive separately through session
// handlers; this interface is only the outbound surface.
type Service interface {
	// GuildInvites retrieves the current invite list of a guild, in the
	// order the API returns it. The order matters: invite attribution
	// picks the first invite whose use count increased.
	GuildInvites(ctx context.Context, guildID types.GuildID) ([]Invite, error)

	// GuildRoles retrieves all roles of a guild
	GuildRoles(ctx context.Context, guildID types.GuildID) ([]Role, error)

	// CreateRole creates a role with the given name and a random color.
	// The reason shows up in the guild audit log.
	CreateRole(ctx context.Context, guildID types.GuildID, name, reason string) (Role, error)

	// AddMemberRole assigns a role to a guild member
	AddMemberRole(ctx context.Context, guildID types.GuildID, userID types.UserID, roleID types.RoleID) error

	// SendMessage posts a plain text message to a channel
	SendMessage(ctx context.Context, channelID types.ChannelID, content string) (types.MessageID, error)

	// SendEmbed posts an embed message to a channel
	SendEmbed(ctx context.Context, channelID types.ChannelID, embed *discordgo.MessageEmbed) (types.MessageID, error)

	// DeleteChannel deletes a channel
	DeleteChannel(ctx context.Context, channelID types.ChannelID) error

	// RenameChannel renames a channel. Names longer than 100 characters
	// are rejected by the API, so the service refuses them up front.
	RenameChannel(ctx context.Context, channelID types.ChannelID, name string) error

	// AuditLogEntries retrieves the most recent audit log entries of the
	// given action type, newest first.
	AuditLogEntries(ctx context.Context, guildID types.GuildID, action AuditAction, limit int) ([]AuditEntry, error)

	// HasPermission checks whether the user holds the permission bits in
	// the channel
	HasPermission(ctx context.Context, channelID types.ChannelID, userID types.UserID, permission int64) (bool, error)

	// GuildUser retrieves the account info of a guild member. Used to
	// turn an audit-log executor ID into a display name.
	GuildUser(ctx context.Context, guildID types.GuildID, userID types.UserID) (User, error)
}

// User is a Discord user account as seen through the guild
type User struct {
	ID       types.UserID
	Username string
}

// Invite is a guild invite with its cumulative use count
type Invite struct {
	Code        types.InviteCode
	Uses        int
	InviterID   types.UserID
	InviterName string
}

// Role is a guild role
type Role struct {
	ID   types.RoleID
	Name string
}

// AuditAction is the audit log action type used for best-effort
// correlation of events to their acting user
type AuditAction int

const (
	AuditActionChannelCreate = AuditAction(discordgo.AuditLogActionChannelCreate)
	AuditActionInviteCreate  = AuditAction(discordgo.AuditLogActionInviteCreate)
)

// AuditEntry is a single audit log entry
type AuditEntry struct {
	ExecutorID types.UserID
	TargetID   string
}

// Permission bits consumed by the command layer
const (
	PermissionAdministrator  = int64(discordgo.PermissionAdministrator)
	PermissionManageChannels = int64(discordgo.PermissionManageChannels)
)
