package usecase_test

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/commguard/cerberus/pkg/domain/types"
	"github.com/commguard/cerberus/pkg/service/discord"
)

// mockDiscordService is a hand-rolled Discord service mock. Behavior
// defaults to empty successes; tests override the Fn fields they care
// about and inspect the recorded calls.
type mockDiscordService struct {
	guildInvitesFn    func(ctx context.Context, guildID types.GuildID) ([]discord.Invite, error)
	guildRolesFn      func(ctx context.Context, guildID types.GuildID) ([]discord.Role, error)
	createRoleFn      func(ctx context.Context, guildID types.GuildID, name, reason string) (discord.Role, error)
	auditLogEntriesFn func(ctx context.Context, guildID types.GuildID, action discord.AuditAction, limit int) ([]discord.AuditEntry, error)
	guildUserFn       func(ctx context.Context, guildID types.GuildID, userID types.UserID) (discord.User, error)
	hasPermissionFn   func(ctx context.Context, channelID types.ChannelID, userID types.UserID, permission int64) (bool, error)
	sendMessageFn     func(ctx context.Context, channelID types.ChannelID, content string) (types.MessageID, error)
	deleteChannelFn   func(ctx context.Context, channelID types.ChannelID) error

	createdRoles    []string
	addedRoles      []addedRole
	sentMessages    []sentMessage
	sentEmbeds      []types.ChannelID
	deletedChannels []types.ChannelID
	renamedChannels []renamedChannel
}

type addedRole struct {
	UserID types.UserID
	RoleID types.RoleID
}

type sentMessage struct {
	ChannelID types.ChannelID
	Content   string
}

type renamedChannel struct {
	ChannelID types.ChannelID
	Name      string
}

func (m *mockDiscordService) GuildInvites(ctx context.Context, guildID types.GuildID) ([]discord.Invite, error) {
	if m.guildInvitesFn != nil {
		return m.guildInvitesFn(ctx, guildID)
	}
	return nil, nil
}

func (m *mockDiscordService) GuildRoles(ctx context.Context, guildID types.GuildID) ([]discord.Role, error) {
	if m.guildRolesFn != nil {
		return m.guildRolesFn(ctx, guildID)
	}
	return nil, nil
}

func (m *mockDiscordService) CreateRole(ctx context.Context, guildID types.GuildID, name, reason string) (discord.Role, error) {
	m.createdRoles = append(m.createdRoles, name)
	if m.createRoleFn != nil {
		return m.createRoleFn(ctx, guildID, name, reason)
	}
	return discord.Role{
		ID:   types.RoleID(fmt.Sprintf("role-%d", len(m.createdRoles))),
		Name: name,
	}, nil
}

func (m *mockDiscordService) AddMemberRole(ctx context.Context, guildID types.GuildID, userID types.UserID, roleID types.RoleID) error {
	m.addedRoles = append(m.addedRoles, addedRole{UserID: userID, RoleID: roleID})
	return nil
}

func (m *mockDiscordService) SendMessage(ctx context.Context, channelID types.ChannelID, content string) (types.MessageID, error) {
	m.sentMessages = append(m.sentMessages, sentMessage{ChannelID: channelID, Content: content})
	if m.sendMessageFn != nil {
		return m.sendMessageFn(ctx, channelID, content)
	}
	return types.MessageID(fmt.Sprintf("msg-%d", len(m.sentMessages))), nil
}

func (m *mockDiscordService) SendEmbed(ctx context.Context, channelID types.ChannelID, embed *discordgo.MessageEmbed) (types.MessageID, error) {
	m.sentEmbeds = append(m.sentEmbeds, channelID)
	return types.MessageID(fmt.Sprintf("embed-%d", len(m.sentEmbeds))), nil
}

func (m *mockDiscordService) DeleteChannel(ctx context.Context, channelID types.ChannelID) error {
	m.deletedChannels = append(m.deletedChannels, channelID)
	if m.deleteChannelFn != nil {
		return m.deleteChannelFn(ctx, channelID)
	}
	return nil
}

func (m *mockDiscordService) RenameChannel(ctx context.Context, channelID types.ChannelID, name string) error {
	m.renamedChannels = append(m.renamedChannels, renamedChannel{ChannelID: channelID, Name: name})
	return nil
}

func (m *mockDiscordService) AuditLogEntries(ctx context.Context, guildID types.GuildID, action discord.AuditAction, limit int) ([]discord.AuditEntry, error) {
	if m.auditLogEntriesFn != nil {
		return m.auditLogEntriesFn(ctx, guildID, action, limit)
	}
	return nil, nil
}

func (m *mockDiscordService) HasPermission(ctx context.Context, channelID types.ChannelID, userID types.UserID, permission int64) (bool, error) {
	if m.hasPermissionFn != nil {
		return m.hasPermissionFn(ctx, channelID, userID, permission)
	}
	return false, nil
}

func (m *mockDiscordService) GuildUser(ctx context.Context, guildID types.GuildID, userID types.UserID) (discord.User, error) {
	if m.guildUserFn != nil {
		return m.guildUserFn(ctx, guildID, userID)
	}
	return discord.User{ID: userID, Username: "user-" + string(userID)}, nil
}
