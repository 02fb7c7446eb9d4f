package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/commguard/cerberus/pkg/domain/interfaces"
	"github.com/commguard/cerberus/pkg/domain/model"
	"github.com/commguard/cerberus/pkg/domain/types"
	"github.com/commguard/cerberus/pkg/repository/memory"
)

func runTicketRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	newTicket := func(channelID types.ChannelID) *model.Ticket {
		return &model.Ticket{
			ChannelID: channelID,
			GuildID:   "G1",
			Name:      "ticket-" + string(channelID),
			OwnerID:   "U1",
		}
	}

	t.Run("Create fills defaults and Get returns a copy", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		gt.NoError(t, repo.Ticket().Create(ctx, newTicket("C1"))).Required()

		ticket, err := repo.Ticket().Get(ctx, "C1")
		gt.NoError(t, err).Required()
		gt.Value(t, ticket).NotNil().Required()
		gt.Value(t, ticket.Status).Equal(types.TicketStatusTracked)
		gt.Bool(t, ticket.CreatedAt.IsZero()).False()
		gt.B(t, ticket.ActivitySeen).False()

		// Mutating the returned record must not leak into the store
		ticket.Name = "mutated"
		fresh, err := repo.Ticket().Get(ctx, "C1")
		gt.NoError(t, err).Required()
		gt.Value(t, fresh.Name).Equal("ticket-C1")
	})

	t.Run("Create rejects duplicate channel", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		gt.NoError(t, repo.Ticket().Create(ctx, newTicket("C1"))).Required()
		gt.Value(t, repo.Ticket().Create(ctx, newTicket("C1"))).NotNil()
	})

	t.Run("Get of untracked channel returns nil without error", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		ticket, err := repo.Ticket().Get(ctx, "C-missing")
		gt.NoError(t, err).Required()
		gt.Value(t, ticket).Nil()
	})

	t.Run("List returns tickets ordered by creation time", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		older := newTicket("C1")
		older.CreatedAt = time.Now().UTC().Add(-time.Hour)
		newer := newTicket("C2")

		gt.NoError(t, repo.Ticket().Create(ctx, newer)).Required()
		gt.NoError(t, repo.Ticket().Create(ctx, older)).Required()

		tickets, err := repo.Ticket().List(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, tickets).Length(2).Required()
		gt.Value(t, tickets[0].ChannelID).Equal(types.ChannelID("C1"))
		gt.Value(t, tickets[1].ChannelID).Equal(types.ChannelID("C2"))
	})

	t.Run("Delete removes the record, missing is a no-op", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		gt.NoError(t, repo.Ticket().Create(ctx, newTicket("C1"))).Required()
		gt.NoError(t, repo.Ticket().Delete(ctx, "C1")).Required()

		ticket, err := repo.Ticket().Get(ctx, "C1")
		gt.NoError(t, err).Required()
		gt.Value(t, ticket).Nil()

		gt.NoError(t, repo.Ticket().Delete(ctx, "C1"))
	})

	t.Run("MarkActivity flips the flag one-way", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		gt.NoError(t, repo.Ticket().Create(ctx, newTicket("C1"))).Required()
		gt.NoError(t, repo.Ticket().MarkActivity(ctx, "C1")).Required()

		ticket, err := repo.Ticket().Get(ctx, "C1")
		gt.NoError(t, err).Required()
		gt.B(t, ticket.ActivitySeen).True()
		gt.Value(t, ticket.Status).Equal(types.TicketStatusActive)

		// Marking again keeps the state
		gt.NoError(t, repo.Ticket().MarkActivity(ctx, "C1")).Required()
		ticket, err = repo.Ticket().Get(ctx, "C1")
		gt.NoError(t, err).Required()
		gt.Value(t, ticket.Status).Equal(types.TicketStatusActive)

		// Untracked channels are a no-op
		gt.NoError(t, repo.Ticket().MarkActivity(ctx, "C-missing"))
	})

	t.Run("MarkBumped records the bump unless activity was seen", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		gt.NoError(t, repo.Ticket().Create(ctx, newTicket("C1"))).Required()
		gt.NoError(t, repo.Ticket().MarkBumped(ctx, "C1")).Required()

		ticket, err := repo.Ticket().Get(ctx, "C1")
		gt.NoError(t, err).Required()
		gt.Value(t, ticket.Status).Equal(types.TicketStatusBumped)

		gt.NoError(t, repo.Ticket().Create(ctx, newTicket("C2"))).Required()
		gt.NoError(t, repo.Ticket().MarkActivity(ctx, "C2")).Required()
		gt.NoError(t, repo.Ticket().MarkBumped(ctx, "C2")).Required()

		ticket, err = repo.Ticket().Get(ctx, "C2")
		gt.NoError(t, err).Required()
		gt.Value(t, ticket.Status).Equal(types.TicketStatusActive)

		gt.NoError(t, repo.Ticket().MarkBumped(ctx, "C-missing"))
	})
}

func TestTicketRepository_Memory(t *testing.T) {
	runTicketRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}
