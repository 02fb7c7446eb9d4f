package interfaces

import (
	"context"

	"github.com/commguard/cerberus/pkg/domain/model"
	"github.com/commguard/cerberus/pkg/domain/types"
)

// Repository defines the interface for state storage. All state is
// rebuilt from scratch at process start; there is no durable backend.
type Repository interface {
	Invite() InviteRepository
	Ticket() TicketRepository
	Ledger() LedgerRepository

	Close() error
}

// InviteRepository owns the per-guild invite snapshots
type InviteRepository interface {
	// GetSnapshot returns the cached snapshot for the guild. A guild
	// that has never been primed yields an empty snapshot, not an error.
	GetSnapshot(ctx context.Context, guildID types.GuildID) (model.InviteSnapshot, error)

	// PutSnapshot replaces the snapshot for the guild wholesale
	PutSnapshot(ctx context.Context, guildID types.GuildID, snapshot model.InviteSnapshot) error

	// GuildCount returns the number of guilds with a cached snapshot
	GuildCount(ctx context.Context) (int, error)
}

// TicketRepository owns the tracked-ticket table. Lookups of untracked
// channels return nil rather than an error, and mutations of untracked
// channels are no-ops: delayed actions re-validate against this table
// and a missing record is their cancellation signal.
type TicketRepository interface {
	Create(ctx context.Context, ticket *model.Ticket) error

	// Get returns the ticket, or nil when the channel is not tracked
	Get(ctx context.Context, channelID types.ChannelID) (*model.Ticket, error)

	List(ctx context.Context) ([]*model.Ticket, error)

	// Delete removes the tracking record. Deleting an untracked channel
	// is a no-op.
	Delete(ctx context.Context, channelID types.ChannelID) error

	// MarkActivity flips the ActivitySeen flag. The flip is one-way:
	// marking an already-active or untracked ticket is a no-op.
	MarkActivity(ctx context.Context, channelID types.ChannelID) error

	// MarkBumped records that the bump reminder fired. It does not
	// touch tickets that already saw activity.
	MarkBumped(ctx context.Context, channelID types.ChannelID) error
}

// LedgerRepository owns the append-only inviter → invitees ledger
type LedgerRepository interface {
	Append(ctx context.Context, inviterID, inviteeID types.UserID) error
	Invitees(ctx context.Context, inviterID types.UserID) ([]types.UserID, error)
}
