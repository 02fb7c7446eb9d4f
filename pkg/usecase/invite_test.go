package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/commguard/cerberus/pkg/domain/model"
	"github.com/commguard/cerberus/pkg/domain/model/config"
	"github.com/commguard/cerberus/pkg/domain/types"
	"github.com/commguard/cerberus/pkg/repository/memory"
	"github.com/commguard/cerberus/pkg/service/discord"
	"github.com/commguard/cerberus/pkg/usecase"
)

const testGuildID = types.GuildID("100000000000000001")

func newMember(userID types.UserID, name string) *model.Member {
	return &model.Member{
		GuildID:  testGuildID,
		UserID:   userID,
		Username: name,
	}
}

func TestDetectConsumedInvite(t *testing.T) {
	t.Run("single incremented invite matches", func(t *testing.T) {
		cached := model.InviteSnapshot{"abc": 3, "def": 1}
		invites := []discord.Invite{
			{Code: "abc", Uses: 3, InviterID: "U1", InviterName: "alice"},
			{Code: "def", Uses: 2, InviterID: "U2", InviterName: "bob"},
		}

		attr, found := usecase.DetectConsumedInvite(cached, invites)
		gt.B(t, found).True()
		gt.Value(t, attr.Code).Equal(types.InviteCode("def"))
		gt.Value(t, attr.InviterID).Equal(types.UserID("U2"))
		gt.Value(t, attr.InviterName).Equal("bob")
	})

	t.Run("first match in API order wins when several incremented", func(t *testing.T) {
		cached := model.InviteSnapshot{"abc": 3, "def": 1}
		invites := []discord.Invite{
			{Code: "abc", Uses: 4, InviterID: "U1", InviterName: "alice"},
			{Code: "def", Uses: 2, InviterID: "U2", InviterName: "bob"},
		}

		attr, found := usecase.DetectConsumedInvite(cached, invites)
		gt.B(t, found).True()
		gt.Value(t, attr.Code).Equal(types.InviteCode("abc"))
	})

	t.Run("invite absent from cache counts as zero uses", func(t *testing.T) {
		cached := model.InviteSnapshot{"abc": 3}
		invites := []discord.Invite{
			{Code: "abc", Uses: 3, InviterID: "U1", InviterName: "alice"},
			{Code: "new", Uses: 1, InviterID: "U3", InviterName: "carol"},
		}

		attr, found := usecase.DetectConsumedInvite(cached, invites)
		gt.B(t, found).True()
		gt.Value(t, attr.Code).Equal(types.InviteCode("new"))
		gt.Value(t, attr.InviterID).Equal(types.UserID("U3"))
	})

	t.Run("no increment yields no match", func(t *testing.T) {
		cached := model.InviteSnapshot{"abc": 3}
		invites := []discord.Invite{
			{Code: "abc", Uses: 3, InviterID: "U1", InviterName: "alice"},
		}

		_, found := usecase.DetectConsumedInvite(cached, invites)
		gt.B(t, found).False()
	})

	t.Run("empty cache attributes the first used invite", func(t *testing.T) {
		invites := []discord.Invite{
			{Code: "abc", Uses: 0, InviterID: "U1", InviterName: "alice"},
			{Code: "def", Uses: 5, InviterID: "U2", InviterName: "bob"},
		}

		attr, found := usecase.DetectConsumedInvite(model.InviteSnapshot{}, invites)
		gt.B(t, found).True()
		gt.Value(t, attr.Code).Equal(types.InviteCode("def"))
	})
}

func TestInviteUseCase_PrimeSnapshot(t *testing.T) {
	repo := memory.New()
	svc := &mockDiscordService{
		guildInvitesFn: func(ctx context.Context, guildID types.GuildID) ([]discord.Invite, error) {
			return []discord.Invite{
				{Code: "abc", Uses: 3, InviterID: "U1", InviterName: "alice"},
				{Code: "def", Uses: 1, InviterID: "U2", InviterName: "bob"},
			}, nil
		},
	}
	uc := usecase.New(repo, svc)
	ctx := context.Background()

	gt.NoError(t, uc.Invite.PrimeSnapshot(ctx, testGuildID)).Required()

	snapshot, err := repo.Invite().GetSnapshot(ctx, testGuildID)
	gt.NoError(t, err).Required()
	gt.Value(t, snapshot["abc"]).Equal(3)
	gt.Value(t, snapshot["def"]).Equal(1)
}

func TestInviteUseCase_AttributeJoin(t *testing.T) {
	t.Run("join attributed to the incremented invite", func(t *testing.T) {
		repo := memory.New()
		ctx := context.Background()

		err := repo.Invite().PutSnapshot(ctx, testGuildID, model.InviteSnapshot{"abc": 3, "def": 1})
		gt.NoError(t, err).Required()

		svc := &mockDiscordService{
			guildInvitesFn: func(ctx context.Context, guildID types.GuildID) ([]discord.Invite, error) {
				return []discord.Invite{
					{Code: "abc", Uses: 3, InviterID: "U1", InviterName: "alice"},
					{Code: "def", Uses: 2, InviterID: "U2", InviterName: "bob"},
				}, nil
			},
		}
		uc := usecase.New(repo, svc)

		gt.NoError(t, uc.Invite.AttributeJoin(ctx, newMember("U9", "newbie"))).Required()

		// A role encoding the inviter was created and assigned
		gt.Array(t, svc.createdRoles).Length(1).Required()
		gt.Value(t, svc.createdRoles[0]).Equal("Invited by bob")
		gt.Array(t, svc.addedRoles).Length(1).Required()
		gt.Value(t, svc.addedRoles[0].UserID).Equal(types.UserID("U9"))

		// The ledger recorded the invitee under the inviter
		invitees, err := repo.Ledger().Invitees(ctx, "U2")
		gt.NoError(t, err).Required()
		gt.Array(t, invitees).Length(1).Required()
		gt.Value(t, invitees[0]).Equal(types.UserID("U9"))
	})

	t.Run("existing inviter role is reused, not recreated", func(t *testing.T) {
		repo := memory.New()
		ctx := context.Background()

		err := repo.Invite().PutSnapshot(ctx, testGuildID, model.InviteSnapshot{"abc": 0})
		gt.NoError(t, err).Required()

		svc := &mockDiscordService{
			guildInvitesFn: func(ctx context.Context, guildID types.GuildID) ([]discord.Invite, error) {
				return []discord.Invite{
					{Code: "abc", Uses: 1, InviterID: "U1", InviterName: "alice"},
				}, nil
			},
			guildRolesFn: func(ctx context.Context, guildID types.GuildID) ([]discord.Role, error) {
				return []discord.Role{
					{ID: "R1", Name: "Invited by alice"},
				}, nil
			},
		}
		uc := usecase.New(repo, svc)

		gt.NoError(t, uc.Invite.AttributeJoin(ctx, newMember("U9", "newbie"))).Required()

		gt.Array(t, svc.createdRoles).Length(0)
		gt.Array(t, svc.addedRoles).Length(1).Required()
		gt.Value(t, svc.addedRoles[0].RoleID).Equal(types.RoleID("R1"))
	})

	t.Run("snapshot replaced even when nothing matched", func(t *testing.T) {
		repo := memory.New()
		ctx := context.Background()

		err := repo.Invite().PutSnapshot(ctx, testGuildID, model.InviteSnapshot{"abc": 3, "stale": 7})
		gt.NoError(t, err).Required()

		svc := &mockDiscordService{
			guildInvitesFn: func(ctx context.Context, guildID types.GuildID) ([]discord.Invite, error) {
				// "stale" was revoked meanwhile; nothing incremented
				return []discord.Invite{
					{Code: "abc", Uses: 3, InviterID: "U1", InviterName: "alice"},
				}, nil
			},
		}
		uc := usecase.New(repo, svc)

		gt.NoError(t, uc.Invite.AttributeJoin(ctx, newMember("U9", "newbie"))).Required()

		snapshot, err := repo.Invite().GetSnapshot(ctx, testGuildID)
		gt.NoError(t, err).Required()
		gt.Value(t, snapshot["abc"]).Equal(3)
		gt.Number(t, snapshot["stale"]).Equal(0)
		gt.Number(t, len(snapshot)).Equal(1)
	})

	t.Run("unprimed guild treats every count as new", func(t *testing.T) {
		repo := memory.New()
		svc := &mockDiscordService{
			guildInvitesFn: func(ctx context.Context, guildID types.GuildID) ([]discord.Invite, error) {
				return []discord.Invite{
					{Code: "abc", Uses: 2, InviterID: "U1", InviterName: "alice"},
				}, nil
			},
		}
		uc := usecase.New(repo, svc)
		ctx := context.Background()

		gt.NoError(t, uc.Invite.AttributeJoin(ctx, newMember("U9", "newbie"))).Required()

		gt.Array(t, svc.createdRoles).Length(1).Required()
		gt.Value(t, svc.createdRoles[0]).Equal("Invited by alice")
	})

	t.Run("audit log fallback names the last invite creator", func(t *testing.T) {
		repo := memory.New()
		ctx := context.Background()

		err := repo.Invite().PutSnapshot(ctx, testGuildID, model.InviteSnapshot{"abc": 3})
		gt.NoError(t, err).Required()

		svc := &mockDiscordService{
			guildInvitesFn: func(ctx context.Context, guildID types.GuildID) ([]discord.Invite, error) {
				return []discord.Invite{
					{Code: "abc", Uses: 3, InviterID: "U1", InviterName: "alice"},
				}, nil
			},
			auditLogEntriesFn: func(ctx context.Context, guildID types.GuildID, action discord.AuditAction, limit int) ([]discord.AuditEntry, error) {
				gt.Value(t, action).Equal(discord.AuditActionInviteCreate)
				return []discord.AuditEntry{{ExecutorID: "U5"}}, nil
			},
			guildUserFn: func(ctx context.Context, guildID types.GuildID, userID types.UserID) (discord.User, error) {
				return discord.User{ID: userID, Username: "eve"}, nil
			},
		}
		uc := usecase.New(repo, svc)

		gt.NoError(t, uc.Invite.AttributeJoin(ctx, newMember("U9", "newbie"))).Required()

		gt.Array(t, svc.createdRoles).Length(1).Required()
		gt.Value(t, svc.createdRoles[0]).Equal("Invited by eve")

		invitees, err := repo.Ledger().Invitees(ctx, "U5")
		gt.NoError(t, err).Required()
		gt.Array(t, invitees).Length(1)
	})

	t.Run("no match and empty audit log falls back to vanity role", func(t *testing.T) {
		repo := memory.New()
		ctx := context.Background()

		err := repo.Invite().PutSnapshot(ctx, testGuildID, model.InviteSnapshot{"abc": 3})
		gt.NoError(t, err).Required()

		svc := &mockDiscordService{
			guildInvitesFn: func(ctx context.Context, guildID types.GuildID) ([]discord.Invite, error) {
				return []discord.Invite{
					{Code: "abc", Uses: 3, InviterID: "U1", InviterName: "alice"},
				}, nil
			},
		}
		uc := usecase.New(repo, svc)

		gt.NoError(t, uc.Invite.AttributeJoin(ctx, newMember("U9", "newbie"))).Required()

		gt.Array(t, svc.createdRoles).Length(1).Required()
		gt.Value(t, svc.createdRoles[0]).Equal("Invited by vanity invite or unknown")

		// Unattributed joins never touch the ledger
		invitees, err := repo.Ledger().Invitees(ctx, "U1")
		gt.NoError(t, err).Required()
		gt.Array(t, invitees).Length(0)
	})

	t.Run("role creation failure aborts the join without ledger write", func(t *testing.T) {
		repo := memory.New()
		ctx := context.Background()

		err := repo.Invite().PutSnapshot(ctx, testGuildID, model.InviteSnapshot{"abc": 0})
		gt.NoError(t, err).Required()

		svc := &mockDiscordService{
			guildInvitesFn: func(ctx context.Context, guildID types.GuildID) ([]discord.Invite, error) {
				return []discord.Invite{
					{Code: "abc", Uses: 1, InviterID: "U1", InviterName: "alice"},
				}, nil
			},
			createRoleFn: func(ctx context.Context, guildID types.GuildID, name, reason string) (discord.Role, error) {
				return discord.Role{}, context.DeadlineExceeded
			},
		}
		uc := usecase.New(repo, svc)

		gt.Value(t, uc.Invite.AttributeJoin(ctx, newMember("U9", "newbie"))).NotNil()

		gt.Array(t, svc.addedRoles).Length(0)
		invitees, err := repo.Ledger().Invitees(ctx, "U1")
		gt.NoError(t, err).Required()
		gt.Array(t, invitees).Length(0)

		// The snapshot was still replaced before the failure
		snapshot, err := repo.Invite().GetSnapshot(ctx, testGuildID)
		gt.NoError(t, err).Required()
		gt.Value(t, snapshot["abc"]).Equal(1)
	})

	t.Run("custom role prefix flows into the role name", func(t *testing.T) {
		repo := memory.New()
		ctx := context.Background()

		err := repo.Invite().PutSnapshot(ctx, testGuildID, model.InviteSnapshot{"abc": 0})
		gt.NoError(t, err).Required()

		svc := &mockDiscordService{
			guildInvitesFn: func(ctx context.Context, guildID types.GuildID) ([]discord.Invite, error) {
				return []discord.Invite{
					{Code: "abc", Uses: 1, InviterID: "U1", InviterName: "alice"},
				}, nil
			},
		}
		roleCfg := config.DefaultRoleConfig()
		roleCfg.InviterPrefix = "Referred by "
		uc := usecase.New(repo, svc, usecase.WithRoleConfig(roleCfg))

		gt.NoError(t, uc.Invite.AttributeJoin(ctx, newMember("U9", "newbie"))).Required()

		gt.Array(t, svc.createdRoles).Length(1).Required()
		gt.Value(t, svc.createdRoles[0]).Equal("Referred by alice")
	})
}
