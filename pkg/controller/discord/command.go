package discord

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/commguard/cerberus/pkg/domain/model"
	svc "github.com/commguard/cerberus/pkg/service/discord"
	"github.com/commguard/cerberus/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// Text command triggers. The x! prefix marks staff commands; the FAQ is
// public.
const (
	cmdDelete  = "x!delete"
	cmdFAQ     = "!faq"
	cmdPanel   = "x!panel"
	cmdRename  = "x!rename"
	cmdTickets = "x!tickets"
)

func (h *Handler) handleCommand(ctx context.Context, msg *model.ChannelMessage, attachments []*discordgo.MessageAttachment) error {
	lower := strings.ToLower(msg.Content)

	switch {
	case lower == cmdDelete:
		return h.cmdDelete(ctx, msg)
	case lower == cmdFAQ:
		return h.cmdFAQ(ctx, msg)
	case strings.HasPrefix(lower, cmdPanel):
		return h.cmdPanel(ctx, msg, attachments)
	case strings.HasPrefix(lower, cmdRename):
		return h.cmdRename(ctx, msg)
	case lower == cmdTickets:
		return h.cmdTickets(ctx, msg)
	}
	return nil
}

// cmdDelete warns, then deletes the current channel after the grace
// delay. Administrator only; denial is reported to the invoker, not
// logged as a system error.
func (h *Handler) cmdDelete(ctx context.Context, msg *model.ChannelMessage) error {
	allowed, err := h.svc.HasPermission(ctx, msg.ChannelID, msg.AuthorID, svc.PermissionAdministrator)
	if err != nil {
		return goerr.Wrap(err, "failed to check delete permission", goerr.V("channel_id", msg.ChannelID))
	}
	if !allowed {
		return h.reply(ctx, msg, "❌ You don't have permission to use this command.")
	}

	warning := fmt.Sprintf("⚠️ Deleting channel in %d seconds...", int(h.graceDelay.Seconds()))
	if err := h.reply(ctx, msg, warning); err != nil {
		return err
	}

	channelID := msg.ChannelID
	h.schedule(h.graceDelay, func() {
		ctx := logging.With(context.Background(), logging.From(ctx))
		if err := h.svc.DeleteChannel(ctx, channelID); err != nil {
			logging.From(ctx).Error("failed to delete channel by admin command",
				"channel_id", channelID, "error", err.Error())
		}
	})
	return nil
}

// cmdFAQ sends the configured FAQ embed. Public.
func (h *Handler) cmdFAQ(ctx context.Context, msg *model.ChannelMessage) error {
	if h.faq == nil || len(h.faq.Entries) == 0 {
		return nil
	}

	embed := &discordgo.MessageEmbed{
		Title: h.faq.Title,
		Color: h.faq.Color,
	}
	for _, entry := range h.faq.Entries {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  entry.Name,
			Value: entry.Value,
		})
	}

	if _, err := h.svc.SendEmbed(ctx, msg.ChannelID, embed); err != nil {
		return goerr.Wrap(err, "failed to send FAQ embed", goerr.V("channel_id", msg.ChannelID))
	}
	return nil
}

// cmdPanel builds an embed from the panel mini-language and posts it.
// The first image attachment becomes the embed image.
func (h *Handler) cmdPanel(ctx context.Context, msg *model.ChannelMessage, attachments []*discordgo.MessageAttachment) error {
	embed := BuildPanelEmbed(msg.Content)

	for _, att := range attachments {
		if strings.HasPrefix(att.ContentType, "image/") {
			embed.Image = &discordgo.MessageEmbedImage{URL: att.URL}
			break
		}
	}

	if _, err := h.svc.SendEmbed(ctx, msg.ChannelID, embed); err != nil {
		return goerr.Wrap(err, "failed to send panel embed", goerr.V("channel_id", msg.ChannelID))
	}
	return nil
}

// cmdRename renames the current channel. Manage-channels only.
func (h *Handler) cmdRename(ctx context.Context, msg *model.ChannelMessage) error {
	allowed, err := h.svc.HasPermission(ctx, msg.ChannelID, msg.AuthorID, svc.PermissionManageChannels)
	if err != nil {
		return goerr.Wrap(err, "failed to check rename permission", goerr.V("channel_id", msg.ChannelID))
	}
	if !allowed {
		return h.reply(ctx, msg, "❌ You don't have permission to rename channels.")
	}

	newName := strings.TrimSpace(msg.Content[len(cmdRename):])
	if newName == "" {
		return h.reply(ctx, msg, "❌ Provide a new name. Example: `x!rename 100wpm-india-18yo`")
	}
	if len(newName) > svc.MaxChannelNameLength {
		return h.reply(ctx, msg, fmt.Sprintf("❌ Name too long. Max %d characters.", svc.MaxChannelNameLength))
	}

	if err := h.svc.RenameChannel(ctx, msg.ChannelID, newName); err != nil {
		logging.From(ctx).Error("failed to rename channel",
			"channel_id", msg.ChannelID, "error", err.Error())
		return h.reply(ctx, msg, "❌ Failed to rename. Check my permissions.")
	}

	return h.reply(ctx, msg, fmt.Sprintf("✅ Channel renamed to **%s**", newName))
}

// cmdTickets lists the tracked ticket channels owned by anyone the
// invoking user brought in.
func (h *Handler) cmdTickets(ctx context.Context, msg *model.ChannelMessage) error {
	listing, err := h.uc.Ticket.ListTicketsFor(ctx, msg.AuthorID)
	if err != nil {
		return goerr.Wrap(err, "failed to list tickets for inviter", goerr.V("user_id", msg.AuthorID))
	}

	switch listing.Reason {
	case model.ListReasonNoInvitees:
		return h.reply(ctx, msg, "You haven't invited anyone yet.")
	case model.ListReasonNoTickets:
		return h.reply(ctx, msg, "None of your invitees have an open ticket.")
	}

	var b strings.Builder
	b.WriteString("🎟️ Tickets from your invitees:\n")
	for _, name := range listing.ChannelNames {
		fmt.Fprintf(&b, "- **%s**\n", name)
	}
	return h.reply(ctx, msg, b.String())
}

func (h *Handler) reply(ctx context.Context, msg *model.ChannelMessage, content string) error {
	if _, err := h.svc.SendMessage(ctx, msg.ChannelID, content); err != nil {
		return goerr.Wrap(err, "failed to send reply", goerr.V("channel_id", msg.ChannelID))
	}
	return nil
}
