package discord

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/commguard/cerberus/pkg/domain/model"
	"github.com/commguard/cerberus/pkg/domain/model/config"
	"github.com/commguard/cerberus/pkg/domain/types"
	svc "github.com/commguard/cerberus/pkg/service/discord"
	"github.com/commguard/cerberus/pkg/usecase"
	"github.com/commguard/cerberus/pkg/utils/async"
	"github.com/commguard/cerberus/pkg/utils/logging"
	"github.com/google/uuid"
)

// Handler binds gateway events to the use cases. Every event is
// processed asynchronously with its own trace ID so a failing event
// never blocks or crashes the gateway read loop.
type Handler struct {
	uc  *usecase.UseCases
	svc svc.Service

	faq        *config.FAQConfig
	graceDelay time.Duration
	schedule   func(delay time.Duration, fn func())
}

type Option func(*Handler)

// WithFAQ sets the FAQ embed content served by the public FAQ command
func WithFAQ(cfg *config.FAQConfig) Option {
	return func(h *Handler) {
		h.faq = cfg
	}
}

// WithGraceDelay sets the pause between the admin delete warning and
// the channel deletion
func WithGraceDelay(delay time.Duration) Option {
	return func(h *Handler) {
		h.graceDelay = delay
	}
}

// New creates a gateway event handler
func New(uc *usecase.UseCases, service svc.Service, opts ...Option) *Handler {
	h := &Handler{
		uc:         uc,
		svc:        service,
		graceDelay: 3 * time.Second,
		schedule:   func(delay time.Duration, fn func()) { time.AfterFunc(delay, fn) },
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Register attaches the handler to a gateway session. Must be called
// before the session is opened.
func (h *Handler) Register(session *discordgo.Session) {
	session.AddHandler(h.onGuildMemberAdd)
	session.AddHandler(h.onChannelCreate)
	session.AddHandler(h.onChannelDelete)
	session.AddHandler(h.onMessageCreate)
}

// eventContext returns a fresh context carrying an event-scoped logger
func (h *Handler) eventContext(event string) context.Context {
	logger := logging.Default().With(
		"event", event,
		"event_id", uuid.NewString(),
	)
	return logging.With(context.Background(), logger)
}

func (h *Handler) onGuildMemberAdd(_ *discordgo.Session, e *discordgo.GuildMemberAdd) {
	if e.User == nil {
		return
	}

	member := &model.Member{
		GuildID:  types.GuildID(e.GuildID),
		UserID:   types.UserID(e.User.ID),
		Username: e.User.Username,
	}

	async.Dispatch(h.eventContext("guild_member_add"), func(ctx context.Context) error {
		return h.uc.Invite.AttributeJoin(ctx, member)
	})
}

func (h *Handler) onChannelCreate(_ *discordgo.Session, e *discordgo.ChannelCreate) {
	channel := &model.Channel{
		ID:      types.ChannelID(e.ID),
		GuildID: types.GuildID(e.GuildID),
		Name:    e.Name,
		IsText:  e.Type == discordgo.ChannelTypeGuildText,
	}

	async.Dispatch(h.eventContext("channel_create"), func(ctx context.Context) error {
		return h.uc.Ticket.OnChannelCreated(ctx, channel)
	})
}

func (h *Handler) onChannelDelete(_ *discordgo.Session, e *discordgo.ChannelDelete) {
	channelID := types.ChannelID(e.ID)

	async.Dispatch(h.eventContext("channel_delete"), func(ctx context.Context) error {
		return h.uc.Ticket.OnChannelDeleted(ctx, channelID)
	})
}

func (h *Handler) onMessageCreate(_ *discordgo.Session, e *discordgo.MessageCreate) {
	if e.Author == nil || e.Author.Bot {
		return
	}

	msg := &model.ChannelMessage{
		ID:        types.MessageID(e.ID),
		GuildID:   types.GuildID(e.GuildID),
		ChannelID: types.ChannelID(e.ChannelID),
		AuthorID:  types.UserID(e.Author.ID),
		Content:   e.Content,
		IsBot:     e.Author.Bot,
	}
	if e.Member != nil {
		msg.RoleIDs = make([]types.RoleID, 0, len(e.Member.Roles))
		for _, id := range e.Member.Roles {
			msg.RoleIDs = append(msg.RoleIDs, types.RoleID(id))
		}
	}

	var attachments []*discordgo.MessageAttachment
	if len(e.Attachments) > 0 {
		attachments = e.Attachments
	}

	async.Dispatch(h.eventContext("message_create"), func(ctx context.Context) error {
		if err := h.uc.Ticket.OnMessage(ctx, msg); err != nil {
			// The command still runs even when activity tracking failed
			logging.From(ctx).Error("failed to process ticket message", "error", err.Error())
		}
		return h.handleCommand(ctx, msg, attachments)
	})
}
