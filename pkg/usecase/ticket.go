package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/commguard/cerberus/pkg/domain/interfaces"
	"github.com/commguard/cerberus/pkg/domain/model"
	"github.com/commguard/cerberus/pkg/domain/model/config"
	"github.com/commguard/cerberus/pkg/domain/types"
	"github.com/commguard/cerberus/pkg/service/discord"
	"github.com/commguard/cerberus/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// auditLookbackLimit bounds the audit-log page inspected when resolving
// which account created a channel.
const auditLookbackLimit = 5

// scheduleFunc runs fn once after the delay. The default implementation
// is time.AfterFunc; tests substitute a manual one.
type scheduleFunc func(delay time.Duration, fn func())

// TicketUseCase tracks ticket channels through their onboarding
// lifecycle. Each tracked channel gets three independently scheduled
// delayed actions (intro, bump, close). There is no timer cancellation:
// every action re-validates its precondition against the repository at
// fire time, so removing the ticket record is the de facto cancellation
// signal. The intro fires regardless of activity and only has to
// tolerate a since-deleted channel.
type TicketUseCase struct {
	repo     interfaces.Repository
	svc      discord.Service
	roles    *config.RoleConfig
	cfg      *config.TicketConfig
	schedule scheduleFunc
	baseCtx  context.Context
}

// NewTicketUseCase creates a new TicketUseCase instance
func NewTicketUseCase(repo interfaces.Repository, svc discord.Service, roles *config.RoleConfig, cfg *config.TicketConfig) *TicketUseCase {
	return &TicketUseCase{
		repo:     repo,
		svc:      svc,
		roles:    roles,
		cfg:      cfg,
		schedule: func(delay time.Duration, fn func()) { time.AfterFunc(delay, fn) },
		baseCtx:  context.Background(),
	}
}

// OnChannelCreated qualifies a freshly created channel as a ticket and,
// if qualified, inserts the tracking record and schedules the intro,
// bump and close actions. A guild without the designated prospect role
// never gets its channels tracked.
func (uc *TicketUseCase) OnChannelCreated(ctx context.Context, channel *model.Channel) error {
	logger := logging.From(ctx)

	if !channel.IsText || channel.GuildID == "" {
		return nil
	}

	roles, err := uc.svc.GuildRoles(ctx, channel.GuildID)
	if err != nil {
		return goerr.Wrap(err, "failed to list roles for ticket qualification",
			goerr.V(GuildIDKey, channel.GuildID), goerr.V(ChannelIDKey, channel.ID))
	}

	prospect, ok := discord.FindRoleByNameFold(roles, uc.roles.Prospect)
	if !ok {
		return nil
	}

	ticket := &model.Ticket{
		ChannelID:    channel.ID,
		GuildID:      channel.GuildID,
		Name:         channel.Name,
		OwnerID:      uc.resolveOwner(ctx, channel),
		ActivitySeen: false,
		Status:       types.TicketStatusTracked,
		CreatedAt:    time.Now().UTC(),
	}

	if err := uc.repo.Ticket().Create(ctx, ticket); err != nil {
		return goerr.Wrap(err, "failed to track ticket", goerr.V(ChannelIDKey, channel.ID))
	}

	// The scheduled closures capture only identifiers; current state is
	// re-read from the repository when each action fires.
	channelID := channel.ID
	prospectRoleID := prospect.ID

	uc.scheduleAction("intro", channelID, uc.cfg.IntroDelay, func(ctx context.Context) error {
		return uc.fireIntro(ctx, channelID)
	})
	uc.scheduleAction("bump", channelID, uc.cfg.BumpDelay, func(ctx context.Context) error {
		return uc.fireBump(ctx, channelID, prospectRoleID)
	})
	uc.scheduleAction("close", channelID, uc.cfg.CloseDelay, func(ctx context.Context) error {
		return uc.fireClose(ctx, channelID)
	})

	logger.Info("ticket tracked",
		"guild_id", channel.GuildID,
		"channel_id", channel.ID,
		"channel_name", channel.Name,
		"owner_id", ticket.OwnerID,
	)
	return nil
}

// OnMessage flips the ticket's activity flag when the author holds the
// designated prospect role. The flip is one-way; later messages are
// no-ops for the flag.
func (uc *TicketUseCase) OnMessage(ctx context.Context, msg *model.ChannelMessage) error {
	if msg.IsBot {
		return nil
	}

	ticket, err := uc.repo.Ticket().Get(ctx, msg.ChannelID)
	if err != nil {
		return goerr.Wrap(err, "failed to look up ticket", goerr.V(ChannelIDKey, msg.ChannelID))
	}
	if ticket == nil || ticket.ActivitySeen {
		return nil
	}

	holds, err := uc.authorHoldsProspectRole(ctx, msg)
	if err != nil {
		return goerr.Wrap(err, "failed to check author roles",
			goerr.V(ChannelIDKey, msg.ChannelID), goerr.V(UserIDKey, msg.AuthorID))
	}
	if !holds {
		return nil
	}

	if err := uc.repo.Ticket().MarkActivity(ctx, msg.ChannelID); err != nil {
		return goerr.Wrap(err, "failed to mark ticket activity", goerr.V(ChannelIDKey, msg.ChannelID))
	}

	logging.From(ctx).Info("ticket activity confirmed",
		"channel_id", msg.ChannelID,
		"user_id", msg.AuthorID,
	)
	return nil
}

// OnChannelDeleted removes the tracking record, whatever deleted the
// channel: the close sequence, an admin command, or an external actor.
// Pending timers for the channel become no-ops once the record is gone.
func (uc *TicketUseCase) OnChannelDeleted(ctx context.Context, channelID types.ChannelID) error {
	if err := uc.repo.Ticket().Delete(ctx, channelID); err != nil {
		return goerr.Wrap(err, "failed to remove ticket record", goerr.V(ChannelIDKey, channelID))
	}

	logging.From(ctx).Info("ticket untracked", "channel_id", channelID)
	return nil
}

// ListTicketsFor joins the inviter's ledger entries against tracked
// ticket owners and returns the channel names of tickets owned by
// anyone that inviter brought in. An empty result distinguishes "no
// invitees recorded" from "invitees exist but own no tracked ticket".
func (uc *TicketUseCase) ListTicketsFor(ctx context.Context, inviterID types.UserID) (*model.TicketListing, error) {
	invitees, err := uc.repo.Ledger().Invitees(ctx, inviterID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read invitee ledger", goerr.V("inviter_id", inviterID))
	}
	if len(invitees) == 0 {
		return &model.TicketListing{Reason: model.ListReasonNoInvitees}, nil
	}

	inviteeSet := make(map[types.UserID]struct{}, len(invitees))
	for _, id := range invitees {
		inviteeSet[id] = struct{}{}
	}

	tickets, err := uc.repo.Ticket().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list tickets")
	}

	var names []string
	for _, ticket := range tickets {
		if _, ok := inviteeSet[ticket.OwnerID]; ok {
			names = append(names, ticket.Name)
		}
	}

	if len(names) == 0 {
		return &model.TicketListing{Reason: model.ListReasonNoTickets}, nil
	}
	return &model.TicketListing{Reason: model.ListReasonFound, ChannelNames: names}, nil
}

// fireIntro sends the intro message. It fires regardless of activity
// state; a ticket record that disappeared means the channel is gone and
// the action degrades to a no-op.
func (uc *TicketUseCase) fireIntro(ctx context.Context, channelID types.ChannelID) error {
	ticket, err := uc.repo.Ticket().Get(ctx, channelID)
	if err != nil {
		return goerr.Wrap(err, "failed to look up ticket for intro", goerr.V(ChannelIDKey, channelID))
	}
	if ticket == nil {
		return nil
	}

	if _, err := uc.svc.SendMessage(ctx, channelID, uc.cfg.IntroMessage); err != nil {
		return goerr.Wrap(err, "failed to send intro message", goerr.V(ChannelIDKey, channelID))
	}
	return nil
}

// fireBump sends the bump reminder unless the ticket already saw
// activity or was removed.
func (uc *TicketUseCase) fireBump(ctx context.Context, channelID types.ChannelID, prospectRoleID types.RoleID) error {
	ticket, err := uc.repo.Ticket().Get(ctx, channelID)
	if err != nil {
		return goerr.Wrap(err, "failed to look up ticket for bump", goerr.V(ChannelIDKey, channelID))
	}
	if ticket == nil || ticket.ActivitySeen {
		return nil
	}

	mention := fmt.Sprintf("<@&%s>", prospectRoleID)
	content := strings.ReplaceAll(uc.cfg.BumpMessage, "{role}", mention)
	if _, err := uc.svc.SendMessage(ctx, channelID, content); err != nil {
		return goerr.Wrap(err, "failed to send bump message", goerr.V(ChannelIDKey, channelID))
	}

	if err := uc.repo.Ticket().MarkBumped(ctx, channelID); err != nil {
		return goerr.Wrap(err, "failed to mark ticket bumped", goerr.V(ChannelIDKey, channelID))
	}
	return nil
}

// fireClose sends the closing notice and schedules the actual deletion
// after the grace delay. Both steps re-validate the ticket state, so an
// activity flip between notice and deletion still saves the channel. A
// bump message already sent is not retracted by a later flip.
func (uc *TicketUseCase) fireClose(ctx context.Context, channelID types.ChannelID) error {
	ticket, err := uc.repo.Ticket().Get(ctx, channelID)
	if err != nil {
		return goerr.Wrap(err, "failed to look up ticket for close", goerr.V(ChannelIDKey, channelID))
	}
	if ticket == nil || ticket.ActivitySeen {
		return nil
	}

	if _, err := uc.svc.SendMessage(ctx, channelID, uc.cfg.CloseMessage); err != nil {
		return goerr.Wrap(err, "failed to send closing notice", goerr.V(ChannelIDKey, channelID))
	}

	uc.scheduleAction("delete", channelID, uc.cfg.GraceDelay, func(ctx context.Context) error {
		return uc.fireDelete(ctx, channelID)
	})
	return nil
}

// fireDelete performs the inactivity deletion after the grace delay
func (uc *TicketUseCase) fireDelete(ctx context.Context, channelID types.ChannelID) error {
	ticket, err := uc.repo.Ticket().Get(ctx, channelID)
	if err != nil {
		return goerr.Wrap(err, "failed to look up ticket for deletion", goerr.V(ChannelIDKey, channelID))
	}
	if ticket == nil || ticket.ActivitySeen {
		return nil
	}

	if err := uc.svc.DeleteChannel(ctx, channelID); err != nil {
		return goerr.Wrap(err, "failed to delete inactive ticket channel", goerr.V(ChannelIDKey, channelID))
	}

	logging.From(ctx).Info("inactive ticket closed", "channel_id", channelID)
	return nil
}

// resolveOwner inspects the newest channel-create audit entries for one
// targeting this channel. Best-effort: concurrent moderator actions can
// mislead it, and a lookup failure just leaves the owner unknown.
func (uc *TicketUseCase) resolveOwner(ctx context.Context, channel *model.Channel) types.UserID {
	entries, err := uc.svc.AuditLogEntries(ctx, channel.GuildID, discord.AuditActionChannelCreate, auditLookbackLimit)
	if err != nil {
		logging.From(ctx).Warn("failed to resolve ticket owner from audit log",
			"guild_id", channel.GuildID, "channel_id", channel.ID, "error", err.Error())
		return ""
	}

	for _, entry := range entries {
		if entry.TargetID == channel.ID.String() {
			return entry.ExecutorID
		}
	}
	return ""
}

// authorHoldsProspectRole checks the author's role IDs from the gateway
// event against the guild's prospect role.
func (uc *TicketUseCase) authorHoldsProspectRole(ctx context.Context, msg *model.ChannelMessage) (bool, error) {
	if len(msg.RoleIDs) == 0 {
		return false, nil
	}

	roles, err := uc.svc.GuildRoles(ctx, msg.GuildID)
	if err != nil {
		return false, err
	}

	prospect, ok := discord.FindRoleByNameFold(roles, uc.roles.Prospect)
	if !ok {
		return false, nil
	}

	for _, id := range msg.RoleIDs {
		if id == prospect.ID {
			return true, nil
		}
	}
	return false, nil
}

// scheduleAction arranges fn to run once after the delay on a fresh
// context carrying the base logger. Errors and panics stay scoped to
// the single action.
func (uc *TicketUseCase) scheduleAction(action string, channelID types.ChannelID, delay time.Duration, fn func(ctx context.Context) error) {
	uc.schedule(delay, func() {
		ctx := uc.baseCtx
		defer func() {
			if r := recover(); r != nil {
				logging.From(ctx).Error("panic in scheduled ticket action",
					"action", action, "channel_id", channelID, "panic", r)
			}
		}()

		if err := fn(ctx); err != nil {
			logging.From(ctx).Error("scheduled ticket action failed",
				"action", action, "channel_id", channelID, "error", err.Error())
		}
	})
}
