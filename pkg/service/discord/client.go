package discord

import (
	"context"
	"math/rand/v2"

	"github.com/bwmarrin/discordgo"
	"github.com/commguard/cerberus/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// MaxChannelNameLength is the Discord limit for channel names
const MaxChannelNameLength = 100

// Client implements Service on top of a discordgo session
type Client struct {
	session *discordgo.Session
}

var _ Service = &Client{}

// New creates a new Discord service with the provided bot token. The
// returned session is not yet connected; the caller opens it after
// registering gateway handlers.
func New(token string) (*Client, error) {
	if token == "" {
		return nil, goerr.New("Discord bot token is required")
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Discord session")
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildInvites |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent

	return &Client{session: session}, nil
}

// Session exposes the underlying gateway session for handler
// registration and connection lifecycle.
func (c *Client) Session() *discordgo.Session {
	return c.session
}

func (c *Client) GuildInvites(ctx context.Context, guildID types.GuildID) ([]Invite, error) {
	invites, err := c.session.GuildInvites(guildID.String(), discordgo.WithContext(ctx))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch guild invites", goerr.V("guildID", guildID))
	}

	result := make([]Invite, 0, len(invites))
	for _, inv := range invites {
		entry := Invite{
			Code: types.InviteCode(inv.Code),
			Uses: inv.Uses,
		}
		if inv.Inviter != nil {
			entry.InviterID = types.UserID(inv.Inviter.ID)
			entry.InviterName = inv.Inviter.Username
		}
		result = append(result, entry)
	}

	return result, nil
}

func (c *Client) GuildRoles(ctx context.Context, guildID types.GuildID) ([]Role, error) {
	roles, err := c.session.GuildRoles(guildID.String(), discordgo.WithContext(ctx))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch guild roles", goerr.V("guildID", guildID))
	}

	result := make([]Role, 0, len(roles))
	for _, role := range roles {
		result = append(result, Role{
			ID:   types.RoleID(role.ID),
			Name: role.Name,
		})
	}

	return result, nil
}

func (c *Client) CreateRole(ctx context.Context, guildID types.GuildID, name, reason string) (Role, error) {
	color := rand.IntN(0xFFFFFF + 1)
	params := &discordgo.RoleParams{
		Name:  name,
		Color: &color,
	}

	role, err := c.session.GuildRoleCreate(guildID.String(), params,
		discordgo.WithContext(ctx), discordgo.WithAuditLogReason(reason))
	if err != nil {
		return Role{}, goerr.Wrap(err, "failed to create role",
			goerr.V("guildID", guildID), goerr.V("name", name))
	}

	return Role{ID: types.RoleID(role.ID), Name: role.Name}, nil
}

func (c *Client) AddMemberRole(ctx context.Context, guildID types.GuildID, userID types.UserID, roleID types.RoleID) error {
	err := c.session.GuildMemberRoleAdd(guildID.String(), userID.String(), roleID.String(),
		discordgo.WithContext(ctx))
	if err != nil {
		return goerr.Wrap(err, "failed to add role to member",
			goerr.V("guildID", guildID), goerr.V("userID", userID), goerr.V("roleID", roleID))
	}
	return nil
}

func (c *Client) SendMessage(ctx context.Context, channelID types.ChannelID, content string) (types.MessageID, error) {
	msg, err := c.session.ChannelMessageSend(channelID.String(), content, discordgo.WithContext(ctx))
	if err != nil {
		return "", goerr.Wrap(err, "failed to send message", goerr.V("channelID", channelID))
	}
	return types.MessageID(msg.ID), nil
}

func (c *Client) SendEmbed(ctx context.Context, channelID types.ChannelID, embed *discordgo.MessageEmbed) (types.MessageID, error) {
	msg, err := c.session.ChannelMessageSendEmbed(channelID.String(), embed, discordgo.WithContext(ctx))
	if err != nil {
		return "", goerr.Wrap(err, "failed to send embed", goerr.V("channelID", channelID))
	}
	return types.MessageID(msg.ID), nil
}

func (c *Client) DeleteChannel(ctx context.Context, channelID types.ChannelID) error {
	_, err := c.session.ChannelDelete(channelID.String(), discordgo.WithContext(ctx))
	if err != nil {
		return goerr.Wrap(err, "failed to delete channel", goerr.V("channelID", channelID))
	}
	return nil
}

func (c *Client) RenameChannel(ctx context.Context, channelID types.ChannelID, name string) error {
	if name == "" {
		return goerr.New("channel name is required")
	}
	if len(name) > MaxChannelNameLength {
		return goerr.New("channel name too long",
			goerr.V("length", len(name)), goerr.V("max", MaxChannelNameLength))
	}

	_, err := c.session.ChannelEdit(channelID.String(), &discordgo.ChannelEdit{Name: name},
		discordgo.WithContext(ctx))
	if err != nil {
		return goerr.Wrap(err, "failed to rename channel",
			goerr.V("channelID", channelID), goerr.V("name", name))
	}
	return nil
}

func (c *Client) AuditLogEntries(ctx context.Context, guildID types.GuildID, action AuditAction, limit int) ([]AuditEntry, error) {
	log, err := c.session.GuildAuditLog(guildID.String(), "", "", int(action), limit,
		discordgo.WithContext(ctx))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch audit log",
			goerr.V("guildID", guildID), goerr.V("action", int(action)))
	}

	result := make([]AuditEntry, 0, len(log.AuditLogEntries))
	for _, entry := range log.AuditLogEntries {
		result = append(result, AuditEntry{
			ExecutorID: types.UserID(entry.UserID),
			TargetID:   entry.TargetID,
		})
	}

	return result, nil
}

func (c *Client) GuildUser(ctx context.Context, guildID types.GuildID, userID types.UserID) (User, error) {
	member, err := c.session.GuildMember(guildID.String(), userID.String(), discordgo.WithContext(ctx))
	if err != nil {
		return User{}, goerr.Wrap(err, "failed to fetch guild member",
			goerr.V("guildID", guildID), goerr.V("userID", userID))
	}
	if member.User == nil {
		return User{}, goerr.New("guild member has no user record",
			goerr.V("guildID", guildID), goerr.V("userID", userID))
	}

	return User{
		ID:       types.UserID(member.User.ID),
		Username: member.User.Username,
	}, nil
}

func (c *Client) HasPermission(ctx context.Context, channelID types.ChannelID, userID types.UserID, permission int64) (bool, error) {
	perms, err := c.session.UserChannelPermissions(userID.String(), channelID.String())
	if err != nil {
		return false, goerr.Wrap(err, "failed to resolve channel permissions",
			goerr.V("channelID", channelID), goerr.V("userID", userID))
	}
	return perms&permission == permission, nil
}
