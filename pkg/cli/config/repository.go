package config

import (
	"context"

	"github.com/commguard/cerberus/pkg/domain/interfaces"
	"github.com/commguard/cerberus/pkg/repository/memory"
	"github.com/commguard/cerberus/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Repository holds CLI flags for repository backend configuration.
// State is intentionally ephemeral: snapshots, tickets and the invitee
// ledger are rebuilt from scratch on every boot, so memory is the only
// backend.
type Repository struct {
	backend string
}

// Flags returns CLI flags for repository configuration
func (r *Repository) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "repository-backend",
			Usage:       "Repository backend type (memory)",
			Value:       "memory",
			Sources:     cli.EnvVars("CERBERUS_REPOSITORY_BACKEND"),
			Destination: &r.backend,
		},
	}
}

// Backend returns the configured backend type
func (r *Repository) Backend() string {
	return r.backend
}

// Configure initializes and returns a repository based on the
// configured backend. The caller is responsible for calling Close() on
// the returned repository.
func (r *Repository) Configure(ctx context.Context) (interfaces.Repository, error) {
	switch r.backend {
	case "memory", "":
		logging.Default().Info("Using in-memory repository")
		return memory.New(), nil

	default:
		return nil, goerr.New("invalid repository backend", goerr.V("backend", r.backend))
	}
}
