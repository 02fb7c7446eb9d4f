package usecase

import (
	"github.com/commguard/cerberus/pkg/domain/interfaces"
	"github.com/commguard/cerberus/pkg/domain/model/config"
	"github.com/commguard/cerberus/pkg/service/discord"
)

// UseCases aggregates the two subsystems. They never call each other;
// they share only the repository and the Discord service.
type UseCases struct {
	repo interfaces.Repository
	svc  discord.Service

	roleCfg   *config.RoleConfig
	ticketCfg *config.TicketConfig

	Invite *InviteUseCase
	Ticket *TicketUseCase
}

type Option func(*UseCases)

// WithRoleConfig overrides the default role names
func WithRoleConfig(cfg *config.RoleConfig) Option {
	return func(uc *UseCases) {
		uc.roleCfg = cfg
	}
}

// WithTicketConfig overrides the default ticket lifecycle settings
func WithTicketConfig(cfg *config.TicketConfig) Option {
	return func(uc *UseCases) {
		uc.ticketCfg = cfg
	}
}

// New creates the use case aggregate
func New(repo interfaces.Repository, svc discord.Service, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:      repo,
		svc:       svc,
		roleCfg:   config.DefaultRoleConfig(),
		ticketCfg: config.DefaultTicketConfig(),
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Invite = NewInviteUseCase(repo, svc, uc.roleCfg)
	uc.Ticket = NewTicketUseCase(repo, svc, uc.roleCfg, uc.ticketCfg)

	return uc
}
