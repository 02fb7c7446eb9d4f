package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/commguard/cerberus/pkg/domain/interfaces"
	"github.com/commguard/cerberus/pkg/domain/model"
	"github.com/commguard/cerberus/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

type ticketRepository struct {
	mu      sync.RWMutex
	tickets map[types.ChannelID]*model.Ticket
}

var _ interfaces.TicketRepository = &ticketRepository{}

func newTicketRepository() *ticketRepository {
	return &ticketRepository{
		tickets: make(map[types.ChannelID]*model.Ticket),
	}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *model.Ticket) error {
	if ticket == nil {
		return goerr.New("ticket is nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tickets[ticket.ChannelID]; exists {
		return goerr.Wrap(ErrAlreadyExists, "ticket already tracked", goerr.V("channelID", ticket.ChannelID))
	}

	stored := ticket.Clone()
	if stored.Status == "" {
		stored.Status = types.TicketStatusTracked
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}

	r.tickets[ticket.ChannelID] = stored
	return nil
}

func (r *ticketRepository) Get(ctx context.Context, channelID types.ChannelID) (*model.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ticket, exists := r.tickets[channelID]
	if !exists {
		return nil, nil
	}

	return ticket.Clone(), nil
}

func (r *ticketRepository) List(ctx context.Context) ([]*model.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Ticket, 0, len(r.tickets))
	for _, ticket := range r.tickets {
		result = append(result, ticket.Clone())
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	return result, nil
}

func (r *ticketRepository) Delete(ctx context.Context, channelID types.ChannelID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.tickets, channelID)
	return nil
}

func (r *ticketRepository) MarkActivity(ctx context.Context, channelID types.ChannelID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ticket, exists := r.tickets[channelID]
	if !exists {
		return nil
	}

	// One-way flip
	ticket.ActivitySeen = true
	ticket.Status = types.TicketStatusActive
	return nil
}

func (r *ticketRepository) MarkBumped(ctx context.Context, channelID types.ChannelID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ticket, exists := r.tickets[channelID]
	if !exists || ticket.ActivitySeen {
		return nil
	}

	ticket.Status = types.TicketStatusBumped
	return nil
}
