package usecase

import (
	"context"

	"github.com/commguard/cerberus/pkg/domain/interfaces"
	"github.com/commguard/cerberus/pkg/domain/model"
	"github.com/commguard/cerberus/pkg/domain/model/config"
	"github.com/commguard/cerberus/pkg/domain/types"
	"github.com/commguard/cerberus/pkg/service/discord"
	"github.com/commguard/cerberus/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// roleCreateReason shows up in the guild audit log next to roles this
// bot creates.
const roleCreateReason = "Auto-created invite role"

// InviteUseCase attributes member joins to the invite link that brought
// them and assigns a role encoding the inviter.
//
// Attribution is a heuristic, not a proof: two joins racing a single
// snapshot refresh can both read stale counts and attribute to the same
// invite, and when several invites incremented at once the first match
// in API order wins. Misattribution only affects a cosmetic role, so
// the design stays best-effort rather than linearizable.
type InviteUseCase struct {
	repo  interfaces.Repository
	svc   discord.Service
	roles *config.RoleConfig
}

// NewInviteUseCase creates a new InviteUseCase instance
func NewInviteUseCase(repo interfaces.Repository, svc discord.Service, roles *config.RoleConfig) *InviteUseCase {
	return &InviteUseCase{
		repo:  repo,
		svc:   svc,
		roles: roles,
	}
}

// PrimeSnapshot fetches the full current invite list of the guild and
// stores it as the cached snapshot. Called once at process start, after
// a settle delay so it does not race the gateway connection warm-up.
func (uc *InviteUseCase) PrimeSnapshot(ctx context.Context, guildID types.GuildID) error {
	invites, err := uc.svc.GuildInvites(ctx, guildID)
	if err != nil {
		return goerr.Wrap(err, "failed to prime invite snapshot", goerr.V(GuildIDKey, guildID))
	}

	if err := uc.repo.Invite().PutSnapshot(ctx, guildID, snapshotOf(invites)); err != nil {
		return goerr.Wrap(err, "failed to store invite snapshot", goerr.V(GuildIDKey, guildID))
	}

	logging.From(ctx).Info("invite snapshot primed",
		"guild_id", guildID,
		"invite_count", len(invites),
	)
	return nil
}

// AttributeJoin resolves which invite the newly joined member consumed,
// resolves or creates the role encoding the inviter, and assigns it.
// The cached snapshot is replaced with the fresh counts whether or not
// a match was found, so drift cannot accumulate.
func (uc *InviteUseCase) AttributeJoin(ctx context.Context, member *model.Member) error {
	logger := logging.From(ctx)

	cached, err := uc.repo.Invite().GetSnapshot(ctx, member.GuildID)
	if err != nil {
		return goerr.Wrap(err, "failed to read invite snapshot", goerr.V(GuildIDKey, member.GuildID))
	}

	invites, err := uc.svc.GuildInvites(ctx, member.GuildID)
	if err != nil {
		return goerr.Wrap(err, "failed to fetch invites for join attribution",
			goerr.V(GuildIDKey, member.GuildID), goerr.V(UserIDKey, member.UserID))
	}

	attribution, found := detectConsumedInvite(cached, invites)

	if err := uc.repo.Invite().PutSnapshot(ctx, member.GuildID, snapshotOf(invites)); err != nil {
		return goerr.Wrap(err, "failed to replace invite snapshot", goerr.V(GuildIDKey, member.GuildID))
	}

	if !found {
		// Best-effort fallback: the newest invite-create audit entry
		// names a plausible inviter. A lookup failure here just means
		// "no inviter".
		attribution = uc.auditLogFallback(ctx, member.GuildID)
	}

	roleName := discord.InviterRoleName(uc.roles.InviterPrefix, attribution.InviterName, uc.roles.VanitySentinel)

	role, err := uc.resolveRole(ctx, member.GuildID, roleName)
	if err != nil {
		// Cannot assign a role that does not exist; abort this join
		return goerr.Wrap(err, "failed to resolve inviter role",
			goerr.V(GuildIDKey, member.GuildID), goerr.V(UserIDKey, member.UserID), goerr.V("role_name", roleName))
	}

	if err := uc.svc.AddMemberRole(ctx, member.GuildID, member.UserID, role.ID); err != nil {
		return goerr.Wrap(err, "failed to assign inviter role",
			goerr.V(UserIDKey, member.UserID), goerr.V("role_name", roleName))
	}

	if attribution.InviterID != "" {
		if err := uc.repo.Ledger().Append(ctx, attribution.InviterID, member.UserID); err != nil {
			return goerr.Wrap(err, "failed to record invitee",
				goerr.V("inviter_id", attribution.InviterID), goerr.V(UserIDKey, member.UserID))
		}
	}

	logger.Info("member join attributed",
		"guild_id", member.GuildID,
		"user", member.Username,
		"invite_code", attribution.Code,
		"role_name", roleName,
	)
	return nil
}

// detectConsumedInvite selects the first invite, in API order, whose
// current use count exceeds the cached count (absent entries count as
// zero). When several invites incremented since the last snapshot only
// one is attributed; the choice is order-dependent by design.
func detectConsumedInvite(cached model.InviteSnapshot, invites []discord.Invite) (model.Attribution, bool) {
	for _, inv := range invites {
		if inv.Uses > cached[inv.Code] {
			return model.Attribution{
				Code:        inv.Code,
				InviterID:   inv.InviterID,
				InviterName: inv.InviterName,
			}, true
		}
	}
	return model.Attribution{}, false
}

// auditLogFallback consults the newest invite-create audit entry for a
// plausible inviter. Inherently racy: a concurrent moderator action can
// produce a false match, which is an accepted accuracy limitation.
func (uc *InviteUseCase) auditLogFallback(ctx context.Context, guildID types.GuildID) model.Attribution {
	logger := logging.From(ctx)

	entries, err := uc.svc.AuditLogEntries(ctx, guildID, discord.AuditActionInviteCreate, 1)
	if err != nil {
		logger.Warn("audit log fallback failed, treating join as unattributed",
			"guild_id", guildID, "error", err.Error())
		return model.Attribution{}
	}
	if len(entries) == 0 || entries[0].ExecutorID == "" {
		return model.Attribution{}
	}

	user, err := uc.svc.GuildUser(ctx, guildID, entries[0].ExecutorID)
	if err != nil {
		logger.Warn("failed to resolve fallback inviter, treating join as unattributed",
			"guild_id", guildID, "executor_id", entries[0].ExecutorID, "error", err.Error())
		return model.Attribution{}
	}

	return model.Attribution{
		InviterID:   user.ID,
		InviterName: user.Username,
	}
}

// resolveRole finds the role by exact name or creates it on first use.
func (uc *InviteUseCase) resolveRole(ctx context.Context, guildID types.GuildID, name string) (discord.Role, error) {
	roles, err := uc.svc.GuildRoles(ctx, guildID)
	if err != nil {
		return discord.Role{}, goerr.Wrap(err, "failed to list guild roles")
	}

	if role, ok := discord.FindRoleByName(roles, name); ok {
		return role, nil
	}

	role, err := uc.svc.CreateRole(ctx, guildID, name, roleCreateReason)
	if err != nil {
		return discord.Role{}, goerr.Wrap(err, "failed to create inviter role", goerr.V("role_name", name))
	}

	return role, nil
}

func snapshotOf(invites []discord.Invite) model.InviteSnapshot {
	snapshot := make(model.InviteSnapshot, len(invites))
	for _, inv := range invites {
		snapshot[inv.Code] = inv.Uses
	}
	return snapshot
}
