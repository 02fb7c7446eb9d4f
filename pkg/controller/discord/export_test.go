package discord

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/commguard/cerberus/pkg/domain/model"
)

// HandleCommand is exported for testing
func (h *Handler) HandleCommand(ctx context.Context, msg *model.ChannelMessage, attachments []*discordgo.MessageAttachment) error {
	return h.handleCommand(ctx, msg, attachments)
}

// SetScheduler replaces the delayed action scheduler for testing
func (h *Handler) SetScheduler(fn func(delay time.Duration, run func())) {
	h.schedule = fn
}
