package memory

import (
	"context"
	"sync"

	"github.com/commguard/cerberus/pkg/domain/interfaces"
	"github.com/commguard/cerberus/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

type ledgerRepository struct {
	mu       sync.RWMutex
	invitees map[types.UserID][]types.UserID
}

var _ interfaces.LedgerRepository = &ledgerRepository{}

func newLedgerRepository() *ledgerRepository {
	return &ledgerRepository{
		invitees: make(map[types.UserID][]types.UserID),
	}
}

func (r *ledgerRepository) Append(ctx context.Context, inviterID, inviteeID types.UserID) error {
	if inviterID == "" || inviteeID == "" {
		return goerr.New("inviter and invitee IDs are required",
			goerr.V("inviterID", inviterID), goerr.V("inviteeID", inviteeID))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.invitees[inviterID] = append(r.invitees[inviterID], inviteeID)
	return nil
}

func (r *ledgerRepository) Invitees(ctx context.Context, inviterID types.UserID) ([]types.UserID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries, exists := r.invitees[inviterID]
	if !exists {
		return nil, nil
	}

	result := make([]types.UserID, len(entries))
	copy(result, entries)
	return result, nil
}
