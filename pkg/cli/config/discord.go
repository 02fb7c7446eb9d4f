package config

import (
	"log/slog"
	"time"

	"github.com/commguard/cerberus/pkg/domain/types"
	discordsvc "github.com/commguard/cerberus/pkg/service/discord"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Discord holds CLI flags for the gateway connection
type Discord struct {
	token       string
	guildIDs    []string
	settleDelay time.Duration
}

// Flags returns CLI flags for Discord configuration
func (x *Discord) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "discord-token",
			Usage:       "Discord Bot token",
			Category:    "Discord",
			Required:    true,
			Sources:     cli.EnvVars("CERBERUS_DISCORD_TOKEN"),
			Destination: &x.token,
		},
		&cli.StringSliceFlag{
			Name:        "guild-id",
			Usage:       "Guild ID(s) whose invites are tracked (repeatable)",
			Category:    "Discord",
			Required:    true,
			Sources:     cli.EnvVars("CERBERUS_GUILD_ID"),
			Destination: &x.guildIDs,
		},
		&cli.DurationFlag{
			Name:        "settle-delay",
			Usage:       "Wait before priming invite snapshots, to avoid racing the gateway warm-up",
			Category:    "Discord",
			Value:       3 * time.Second,
			Sources:     cli.EnvVars("CERBERUS_SETTLE_DELAY"),
			Destination: &x.settleDelay,
		},
	}
}

func (x Discord) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("token.len", len(x.token)),
		slog.Any("guild_ids", x.guildIDs),
		slog.Duration("settle_delay", x.settleDelay),
	)
}

// GuildIDs returns the configured guild IDs
func (x *Discord) GuildIDs() []types.GuildID {
	ids := make([]types.GuildID, 0, len(x.guildIDs))
	for _, id := range x.guildIDs {
		ids = append(ids, types.GuildID(id))
	}
	return ids
}

// SettleDelay returns the snapshot priming delay
func (x *Discord) SettleDelay() time.Duration {
	return x.settleDelay
}

// Configure creates the Discord service from the configured token
func (x *Discord) Configure() (*discordsvc.Client, error) {
	if x.token == "" {
		return nil, goerr.New("Discord bot token is required")
	}
	for _, id := range x.GuildIDs() {
		if err := id.Validate(); err != nil {
			return nil, goerr.Wrap(err, "invalid guild ID", goerr.V("guild_id", id))
		}
	}

	svc, err := discordsvc.New(x.token)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize Discord service")
	}
	return svc, nil
}
