package memory

import (
	"context"
	"sync"

	"github.com/commguard/cerberus/pkg/domain/interfaces"
	"github.com/commguard/cerberus/pkg/domain/model"
	"github.com/commguard/cerberus/pkg/domain/types"
)

type inviteRepository struct {
	mu        sync.RWMutex
	snapshots map[types.GuildID]model.InviteSnapshot
}

var _ interfaces.InviteRepository = &inviteRepository{}

func newInviteRepository() *inviteRepository {
	return &inviteRepository{
		snapshots: make(map[types.GuildID]model.InviteSnapshot),
	}
}

func (r *inviteRepository) GetSnapshot(ctx context.Context, guildID types.GuildID) (model.InviteSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot, exists := r.snapshots[guildID]
	if !exists {
		// Never primed: every invite looks newly used to the caller
		return model.InviteSnapshot{}, nil
	}

	return snapshot.Clone(), nil
}

func (r *inviteRepository) PutSnapshot(ctx context.Context, guildID types.GuildID, snapshot model.InviteSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.snapshots[guildID] = snapshot.Clone()
	return nil
}

func (r *inviteRepository) GuildCount(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.snapshots), nil
}
